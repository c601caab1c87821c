package v1

import (
	"encoding/binary"
	"fmt"
	"os"
	"strconv"
	"strings"
	"testing"

	"github.com/ShibuiDAO/veShibui/types/xerrors"
	"github.com/stretchr/testify/require"
	"github.com/tendermint/tendermint/libs/log"
)

type Item struct {
	key  int
	data string
}

func newItem(key int, data string) *Item {
	return &Item{
		key:  key,
		data: data,
	}
}

func (i *Item) Key() []byte {
	bs := make([]byte, 4)
	binary.BigEndian.PutUint32(bs, uint32(i.key))
	return MakeKey([]byte{0x01}, bs)
}

func (i *Item) Encode() ([]byte, xerrors.XError) {
	return []byte(fmt.Sprintf("key:%v,data:%v", i.key, i.data)), nil
}

func (i *Item) Decode(bz []byte) xerrors.XError {
	toks := strings.Split(string(bz), ",")
	if len(toks) != 2 {
		return xerrors.ErrInvalidParams.Wrapf("wrong item: %s", bz)
	}
	key, _ := strings.CutPrefix(toks[0], "key:")
	data, _ := strings.CutPrefix(toks[1], "data:")

	var err error
	if i.key, err = strconv.Atoi(key); err != nil {
		return xerrors.From(err)
	}
	i.data = data
	return nil
}

func newItemFor(key LedgerKey) ILedgerItem {
	if len(key) > 0 && key[0] == 0x01 {
		return &Item{}
	}
	return nil
}

func newTestMutableLedger(t *testing.T) (*MutableLedger, func()) {
	dbDir, err := os.MkdirTemp("", "ledger_test")
	require.NoError(t, err)

	ledger, xerr := NewMutableLedger("ledger_test", dbDir, 10000, newItemFor, log.NewNopLogger())
	require.NoError(t, xerr)

	return ledger, func() {
		require.NoError(t, ledger.Close())
		require.NoError(t, os.RemoveAll(dbDir))
	}
}
