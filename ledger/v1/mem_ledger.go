package v1

import (
	"sort"
	"sync"

	"github.com/ShibuiDAO/veShibui/types/xerrors"
	"github.com/cosmos/iavl"
	tmlog "github.com/tendermint/tendermint/libs/log"
)

type memEntry struct {
	val []byte // nil means the key is deleted on MemLedger.
}

// MemLedger cannot be committed, everything else is like MutableLedger.
// Updates are kept as encoded bytes over a read-only tree of a committed version.
type MemLedger struct {
	immuTree   *iavl.ImmutableTree
	entries    map[string]*memEntry
	revisions  *revisionList[*memEntry]
	newItemFor FuncNewItemFor
	logger     tmlog.Logger
	mtx        sync.RWMutex
}

var _ IImitable = (*MemLedger)(nil)

// NewMemLedgerAt returns the MemLedger over the tree of version `ver`.
// When `ver` is 0, the MemLedger starts empty.
func NewMemLedgerAt(ver int64, from IMutable, lg tmlog.Logger) (*MemLedger, xerrors.XError) {
	var tree *iavl.ImmutableTree
	if ver > 0 {
		_tree, xerr := from.GetReadOnlyTree(ver)
		if xerr != nil {
			return nil, xerr
		}
		tree = _tree
	}

	mutable, ok := from.(*MutableLedger)
	if !ok {
		return nil, xerrors.ErrInvalidParams.Wrapf("MemLedger needs *MutableLedger as source")
	}

	return &MemLedger{
		immuTree:   tree,
		entries:    make(map[string]*memEntry),
		revisions:  newRevisionList[*memEntry](),
		newItemFor: mutable.newItemFor,
		logger:     lg.With("ledger", "MemLedger"),
	}, nil
}

func (ledger *MemLedger) Get(key LedgerKey) (ILedgerItem, xerrors.XError) {
	ledger.mtx.RLock()
	defer ledger.mtx.RUnlock()

	bz, xerr := ledger.getBytes(key)
	if xerr != nil {
		return nil, xerr
	}
	return decodeItem(ledger.newItemFor, key, bz)
}

func (ledger *MemLedger) getBytes(key LedgerKey) ([]byte, xerrors.XError) {
	if ent, ok := ledger.entries[string(key)]; ok {
		if ent == nil || ent.val == nil {
			return nil, xerrors.ErrNotFoundResult
		}
		return ent.val, nil
	}
	if ledger.immuTree == nil {
		return nil, xerrors.ErrNotFoundResult
	}

	bz, err := ledger.immuTree.Get(key)
	if err != nil {
		return nil, xerrors.From(err)
	} else if bz == nil {
		return nil, xerrors.ErrNotFoundResult
	}
	return bz, nil
}

func (ledger *MemLedger) Iterate(cb FuncIterate) xerrors.XError {
	return ledger.Seek(nil, true, cb)
}

// Seek merges the items of the tree and the items updated on MemLedger.
func (ledger *MemLedger) Seek(prefix []byte, ascending bool, cb FuncIterate) xerrors.XError {
	ledger.mtx.RLock()

	merged := make(map[string][]byte)
	if ledger.immuTree != nil {
		iter, err := ledger.immuTree.Iterator(prefix, prefixEnd(prefix), ascending)
		if err != nil {
			ledger.mtx.RUnlock()
			return xerrors.From(err)
		}
		for ; iter.Valid(); iter.Next() {
			merged[string(iter.Key())] = copyBytes(iter.Value())
		}
		_ = iter.Close()
	}
	for k, ent := range ledger.entries {
		if !hasPrefix([]byte(k), prefix) {
			continue
		}
		if ent == nil || ent.val == nil {
			delete(merged, k)
		} else {
			merged[k] = ent.val
		}
	}
	ledger.mtx.RUnlock()

	keys := make(LedgerKeyList, 0, len(merged))
	for k := range merged {
		keys = append(keys, LedgerKey(k))
	}
	if ascending {
		sort.Sort(keys)
	} else {
		sort.Sort(sort.Reverse(keys))
	}

	// `cb` may update this ledger, so it is called without holding the lock.
	for _, key := range keys {
		item, xerr := decodeItem(ledger.newItemFor, key, merged[string(key)])
		if xerr != nil {
			return xerr
		}
		if xerr := cb(key, item); xerr != nil {
			return xerr
		}
	}
	return nil
}

func (ledger *MemLedger) Set(key LedgerKey, item ILedgerItem) xerrors.XError {
	bz, xerr := item.Encode()
	if xerr != nil {
		return xerr
	}
	if bz == nil {
		bz = []byte{}
	}

	ledger.mtx.Lock()
	defer ledger.mtx.Unlock()

	ledger.update(key, &memEntry{val: bz})
	return nil
}

func (ledger *MemLedger) Del(key LedgerKey) xerrors.XError {
	ledger.mtx.Lock()
	defer ledger.mtx.Unlock()

	if _, xerr := ledger.getBytes(key); xerr != nil {
		if xerr == xerrors.ErrNotFoundResult {
			return nil
		}
		return xerr
	}
	ledger.update(key, &memEntry{})
	return nil
}

func (ledger *MemLedger) update(key LedgerKey, ent *memEntry) {
	old := ledger.entries[string(key)] // nil if the key has not been touched.
	ledger.entries[string(key)] = ent
	ledger.revisions.set(copyBytes(key), old)
}

func (ledger *MemLedger) Snapshot() int {
	ledger.mtx.RLock()
	defer ledger.mtx.RUnlock()

	return ledger.revisions.snapshot()
}

func (ledger *MemLedger) RevertToSnapshot(snap int) xerrors.XError {
	ledger.mtx.Lock()
	defer ledger.mtx.Unlock()

	restores := ledger.revisions.restores(snap)
	for i := len(restores) - 1; i >= 0; i-- {
		kv := restores[i]
		if kv.val == nil {
			delete(ledger.entries, string(kv.key))
		} else {
			ledger.entries[string(kv.key)] = kv.val
		}
	}
	ledger.revisions.revert(snap)
	return nil
}

func hasPrefix(key, prefix []byte) bool {
	if len(key) < len(prefix) {
		return false
	}
	for i := range prefix {
		if key[i] != prefix[i] {
			return false
		}
	}
	return true
}
