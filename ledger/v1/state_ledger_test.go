package v1

import (
	"os"
	"testing"

	"github.com/ShibuiDAO/veShibui/types/xerrors"
	"github.com/stretchr/testify/require"
	"github.com/tendermint/tendermint/libs/log"
)

func TestStateLedger_ExecAndCheck(t *testing.T) {
	dbDir, err := os.MkdirTemp("", "state_ledger_test")
	require.NoError(t, err)
	defer os.RemoveAll(dbDir)

	ledger, xerr := NewStateLedger("state_ledger_test", dbDir, 1000, newItemFor, log.NewNopLogger())
	require.NoError(t, xerr)
	defer func() { require.NoError(t, ledger.Close()) }()

	item := newItem(1, "exec")
	require.NoError(t, ledger.Set(item.Key(), item, true))

	// not committed yet, so the check ledger can not see it.
	_, xerr = ledger.Get(item.Key(), false)
	require.Equal(t, xerrors.ErrNotFoundResult, xerr)

	_, ver, xerr := ledger.Commit()
	require.NoError(t, xerr)
	require.Equal(t, int64(1), ver)

	_item, xerr := ledger.Get(item.Key(), false)
	require.NoError(t, xerr)
	require.Equal(t, item, _item)

	// updates on the check ledger do not reach the commit ledger.
	require.NoError(t, ledger.Set(item.Key(), newItem(1, "check"), false))
	_item, xerr = ledger.Get(item.Key(), true)
	require.NoError(t, xerr)
	require.Equal(t, "exec", _item.(*Item).data)

	require.NoError(t, ledger.Set(item.Key(), newItem(1, "exec2"), true))
	_, _, xerr = ledger.Commit()
	require.NoError(t, xerr)

	past, xerr := ledger.ImitableLedgerAt(1)
	require.NoError(t, xerr)
	_item, xerr = past.Get(item.Key())
	require.NoError(t, xerr)
	require.Equal(t, "exec", _item.(*Item).data)

	_item, xerr = ledger.Get(item.Key(), false)
	require.NoError(t, xerr)
	require.Equal(t, "exec2", _item.(*Item).data)
}
