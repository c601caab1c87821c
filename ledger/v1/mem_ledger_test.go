package v1

import (
	"fmt"
	"testing"

	"github.com/ShibuiDAO/veShibui/types/xerrors"
	"github.com/stretchr/testify/require"
	"github.com/tendermint/tendermint/libs/log"
)

func prepareSource(t *testing.T) (*MutableLedger, *Item, func()) {
	source, cleanup := newTestMutableLedger(t)

	preExisted := newItem(100, "data001")
	require.NoError(t, source.Set(preExisted.Key(), preExisted))
	_, _, xerr := source.Commit()
	require.NoError(t, xerr)
	return source, preExisted, cleanup
}

func TestMemLedger_SetDel(t *testing.T) {
	source, preExisted, cleanup := prepareSource(t)
	defer cleanup()

	ledger, xerr := NewMemLedgerAt(1, source, log.NewNopLogger())
	require.NoError(t, xerr)

	_item, xerr := ledger.Get(preExisted.Key())
	require.NoError(t, xerr)
	require.Equal(t, preExisted, _item)

	item := newItem(10, "data123")
	require.NoError(t, ledger.Set(item.Key(), item))
	_item, xerr = ledger.Get(item.Key())
	require.NoError(t, xerr)
	require.Equal(t, item, _item)

	require.NoError(t, ledger.Del(item.Key()))
	_, xerr = ledger.Get(item.Key())
	require.Equal(t, xerrors.ErrNotFoundResult, xerr)

	require.NoError(t, ledger.Del(preExisted.Key()))
	_, xerr = ledger.Get(preExisted.Key())
	require.Equal(t, xerrors.ErrNotFoundResult, xerr)

	// the source is not changed.
	_item, xerr = source.Get(preExisted.Key())
	require.NoError(t, xerr)
	require.Equal(t, preExisted, _item)
}

func TestMemLedger_GetReturnsCopy(t *testing.T) {
	source, preExisted, cleanup := prepareSource(t)
	defer cleanup()

	ledger, xerr := NewMemLedgerAt(1, source, log.NewNopLogger())
	require.NoError(t, xerr)

	_item, xerr := ledger.Get(preExisted.Key())
	require.NoError(t, xerr)
	_item.(*Item).data = "changed without Set"

	_item, xerr = ledger.Get(preExisted.Key())
	require.NoError(t, xerr)
	require.Equal(t, "data001", _item.(*Item).data)
}

func TestMemLedger_RevertToSnapshot(t *testing.T) {
	source, preExisted, cleanup := prepareSource(t)
	defer cleanup()

	ledger, xerr := NewMemLedgerAt(1, source, log.NewNopLogger())
	require.NoError(t, xerr)

	item0 := newItem(0, "item0")
	require.NoError(t, ledger.Set(item0.Key(), item0))

	snap := ledger.Snapshot()
	require.NoError(t, ledger.Set(item0.Key(), newItem(0, "item0 updated")))
	require.NoError(t, ledger.Set(preExisted.Key(), newItem(100, "updated")))
	item1 := newItem(1, "item1")
	require.NoError(t, ledger.Set(item1.Key(), item1))
	require.NoError(t, ledger.Del(item0.Key()))

	require.NoError(t, ledger.RevertToSnapshot(snap))

	_item, xerr := ledger.Get(item0.Key())
	require.NoError(t, xerr)
	require.Equal(t, item0, _item)
	_item, xerr = ledger.Get(preExisted.Key())
	require.NoError(t, xerr)
	require.Equal(t, preExisted, _item)
	_, xerr = ledger.Get(item1.Key())
	require.Equal(t, xerrors.ErrNotFoundResult, xerr)
}

func TestMemLedger_Seek(t *testing.T) {
	source, preExisted, cleanup := prepareSource(t)
	defer cleanup()

	ledger, xerr := NewMemLedgerAt(1, source, log.NewNopLogger())
	require.NoError(t, xerr)

	for i := 0; i < 5; i++ {
		it := newItem(i, fmt.Sprintf("d%d", i))
		require.NoError(t, ledger.Set(it.Key(), it))
	}
	require.NoError(t, ledger.Del(newItem(2, "").Key()))

	var keys []int
	require.NoError(t, ledger.Seek([]byte{0x01}, true, func(key LedgerKey, item ILedgerItem) xerrors.XError {
		keys = append(keys, item.(*Item).key)
		return nil
	}))
	require.Equal(t, []int{0, 1, 3, 4, preExisted.key}, keys)

	keys = nil
	require.NoError(t, ledger.Seek([]byte{0x01}, false, func(key LedgerKey, item ILedgerItem) xerrors.XError {
		keys = append(keys, item.(*Item).key)
		return nil
	}))
	require.Equal(t, []int{preExisted.key, 4, 3, 1, 0}, keys)
}

func TestMemLedger_Empty(t *testing.T) {
	source, preExisted, cleanup := prepareSource(t)
	defer cleanup()

	ledger, xerr := NewMemLedgerAt(0, source, log.NewNopLogger())
	require.NoError(t, xerr)

	_, xerr = ledger.Get(preExisted.Key())
	require.Equal(t, xerrors.ErrNotFoundResult, xerr)
}
