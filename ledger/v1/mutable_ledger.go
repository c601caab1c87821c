package v1

import (
	"bytes"
	"sync"

	"github.com/ShibuiDAO/veShibui/types/xerrors"
	"github.com/cosmos/iavl"
	dbm "github.com/cosmos/iavl/db"
	tmlog "github.com/tendermint/tendermint/libs/log"
)

// MutableLedger is a committable ledger backed by an iavl tree on goleveldb.
// Items are decoded on every read, so no decoded object is shared between callers.
type MutableLedger struct {
	db        dbm.DB
	tree      *iavl.MutableTree
	revisions *revisionList[[]byte]

	newItemFor FuncNewItemFor
	cacheSize  int

	logger tmlog.Logger
	mtx    sync.RWMutex
}

var _ IMutable = (*MutableLedger)(nil)

func NewMutableLedger(name, dbDir string, cacheSize int, newItemFor FuncNewItemFor, lg tmlog.Logger) (*MutableLedger, xerrors.XError) {
	db, err := dbm.NewGoLevelDB(name, dbDir)
	if err != nil {
		return nil, xerrors.Wrap(err, "goleveldb open failed")
	}

	tree := iavl.NewMutableTree(db, cacheSize, false, iavl.NewNopLogger(), iavl.SyncOption(true))
	if _, err := tree.LoadVersion(0); err != nil {
		_ = tree.Close()
		return nil, xerrors.Wrap(err, "tree's LoadVersion failed")
	}

	return &MutableLedger{
		db:         db,
		tree:       tree,
		revisions:  newRevisionList[[]byte](),
		newItemFor: newItemFor,
		cacheSize:  cacheSize,
		logger:     lg.With("ledger", "MutableLedger"),
	}, nil
}

func (ledger *MutableLedger) Get(key LedgerKey) (ILedgerItem, xerrors.XError) {
	ledger.mtx.RLock()
	defer ledger.mtx.RUnlock()

	bz, err := ledger.tree.Get(key)
	if err != nil {
		return nil, xerrors.From(err)
	} else if bz == nil {
		return nil, xerrors.ErrNotFoundResult
	}
	return decodeItem(ledger.newItemFor, key, bz)
}

func (ledger *MutableLedger) Iterate(cb FuncIterate) xerrors.XError {
	return ledger.Seek(nil, true, cb)
}

// Seek travels the items having `prefix` including the items not committed yet.
func (ledger *MutableLedger) Seek(prefix []byte, ascending bool, cb FuncIterate) xerrors.XError {
	ledger.mtx.RLock()
	defer ledger.mtx.RUnlock()

	iter, err := ledger.tree.Iterator(prefix, prefixEnd(prefix), ascending)
	if err != nil {
		return xerrors.From(err)
	}
	defer func() {
		_ = iter.Close()
	}()

	for ; iter.Valid(); iter.Next() {
		key := iter.Key()
		item, xerr := decodeItem(ledger.newItemFor, key, iter.Value())
		if xerr != nil {
			return xerr
		}
		if xerr := cb(key, item); xerr != nil {
			return xerr
		}
	}
	return nil
}

func (ledger *MutableLedger) Set(key LedgerKey, item ILedgerItem) xerrors.XError {
	ledger.mtx.Lock()
	defer ledger.mtx.Unlock()

	oldVal, err := ledger.tree.Get(key)
	if err != nil {
		return xerrors.From(err)
	}
	newVal, xerr := item.Encode()
	if xerr != nil {
		return xerr
	}
	if newVal == nil {
		// iavl does not accept nil value.
		newVal = []byte{}
	}

	if _, err = ledger.tree.Set(key, newVal); err != nil {
		return xerrors.From(err)
	}

	ledger.logger.Debug("set item to tree", "key", key, "oldVal", oldVal, "newVal", newVal)

	if oldVal == nil || !bytes.Equal(oldVal, newVal) {
		// `oldVal == nil` means the item is created and it will be removed in reverting.
		ledger.revisions.set(copyBytes(key), oldVal)
	}
	return nil
}

func (ledger *MutableLedger) Del(key LedgerKey) xerrors.XError {
	ledger.mtx.Lock()
	defer ledger.mtx.Unlock()

	oldVal, removed, err := ledger.tree.Remove(key)
	if err != nil {
		return xerrors.From(err)
	}
	ledger.logger.Debug("delete item from tree", "key", key, "value", oldVal, "removed", removed)

	if removed {
		ledger.revisions.set(copyBytes(key), oldVal)
	}
	return nil
}

func (ledger *MutableLedger) Snapshot() int {
	ledger.mtx.RLock()
	defer ledger.mtx.RUnlock()

	return ledger.revisions.snapshot()
}

func (ledger *MutableLedger) RevertToSnapshot(snap int) xerrors.XError {
	ledger.mtx.Lock()
	defer ledger.mtx.Unlock()

	restores := ledger.revisions.restores(snap)
	for i := len(restores) - 1; i >= 0; i-- {
		kv := restores[i]
		if kv.val != nil {
			if _, err := ledger.tree.Set(kv.key, kv.val); err != nil {
				return xerrors.From(err)
			}
		} else if _, _, err := ledger.tree.Remove(kv.key); err != nil {
			return xerrors.From(err)
		}
	}
	ledger.revisions.revert(snap)
	return nil
}

func (ledger *MutableLedger) Commit() ([]byte, int64, xerrors.XError) {
	ledger.mtx.Lock()
	defer ledger.mtx.Unlock()

	hash, ver, err := ledger.tree.SaveVersion()
	if err != nil {
		return nil, 0, xerrors.From(err)
	}

	ledger.logger.Debug("tree save version", "hash", hash, "version", ver)

	ledger.revisions.reset()
	return hash, ver, nil
}

func (ledger *MutableLedger) Version() int64 {
	ledger.mtx.RLock()
	defer ledger.mtx.RUnlock()

	return ledger.tree.Version()
}

func (ledger *MutableLedger) GetReadOnlyTree(ver int64) (*iavl.ImmutableTree, xerrors.XError) {
	ledger.mtx.RLock()
	defer ledger.mtx.RUnlock()

	tree, err := ledger.tree.GetImmutable(ver)
	if err != nil {
		return nil, xerrors.From(err)
	}
	return tree, nil
}

func (ledger *MutableLedger) Close() xerrors.XError {
	ledger.mtx.Lock()
	defer ledger.mtx.Unlock()

	if ledger.tree != nil {
		if err := ledger.tree.Close(); err != nil {
			return xerrors.From(err)
		}
	}
	ledger.tree = nil

	if ledger.db != nil {
		if err := ledger.db.Close(); err != nil {
			return xerrors.From(err)
		}
	}
	ledger.db = nil

	ledger.revisions.reset()
	return nil
}

func decodeItem(newItemFor FuncNewItemFor, key LedgerKey, bz []byte) (ILedgerItem, xerrors.XError) {
	item := newItemFor(key)
	if item == nil {
		return nil, xerrors.ErrNotFoundResult.Wrapf("unknown key prefix: %x", key)
	}
	if xerr := item.Decode(bz); xerr != nil {
		return nil, xerr
	}
	return item, nil
}

func copyBytes(bz []byte) []byte {
	ret := make([]byte, len(bz))
	copy(ret, bz)
	return ret
}
