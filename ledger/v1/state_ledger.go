package v1

import (
	"sync"

	"github.com/ShibuiDAO/veShibui/types/xerrors"
	tmlog "github.com/tendermint/tendermint/libs/log"
)

// StateLedger pairs the committable ledger used in executing blocks (`exec` is true)
// and the MemLedger used in checking transactions (`exec` is false).
type StateLedger struct {
	commitLedger   *MutableLedger
	imitableLedger *MemLedger

	logger tmlog.Logger
	mtx    sync.RWMutex
}

var _ IStateLedger = (*StateLedger)(nil)

func NewStateLedger(name, dbDir string, cacheSize int, newItemFor FuncNewItemFor, lg tmlog.Logger) (*StateLedger, xerrors.XError) {
	_commitLedger, xerr := NewMutableLedger(name, dbDir, cacheSize, newItemFor, lg)
	if xerr != nil {
		return nil, xerr
	}
	_imitableLedger, xerr := NewMemLedgerAt(_commitLedger.Version(), _commitLedger, lg)
	if xerr != nil {
		_ = _commitLedger.Close()
		return nil, xerr
	}

	return &StateLedger{
		commitLedger:   _commitLedger,
		imitableLedger: _imitableLedger,
		logger:         lg.With("ledger", "StateLedger"),
	}, nil
}

func (ledger *StateLedger) ImitableLedger(exec bool) IImitable {
	ledger.mtx.RLock()
	defer ledger.mtx.RUnlock()

	return ledger.getLedger(exec)
}

func (ledger *StateLedger) getLedger(exec bool) IImitable {
	if exec {
		return ledger.commitLedger
	}
	return ledger.imitableLedger
}

func (ledger *StateLedger) Version() int64 {
	ledger.mtx.RLock()
	defer ledger.mtx.RUnlock()

	return ledger.commitLedger.Version()
}

func (ledger *StateLedger) Get(key LedgerKey, exec bool) (ILedgerItem, xerrors.XError) {
	return ledger.ImitableLedger(exec).Get(key)
}

func (ledger *StateLedger) Seek(prefix []byte, ascending bool, cb FuncIterate, exec bool) xerrors.XError {
	return ledger.ImitableLedger(exec).Seek(prefix, ascending, cb)
}

func (ledger *StateLedger) Set(key LedgerKey, item ILedgerItem, exec bool) xerrors.XError {
	return ledger.ImitableLedger(exec).Set(key, item)
}

func (ledger *StateLedger) Del(key LedgerKey, exec bool) xerrors.XError {
	return ledger.ImitableLedger(exec).Del(key)
}

func (ledger *StateLedger) Snapshot(exec bool) int {
	return ledger.ImitableLedger(exec).Snapshot()
}

func (ledger *StateLedger) RevertToSnapshot(snap int, exec bool) xerrors.XError {
	return ledger.ImitableLedger(exec).RevertToSnapshot(snap)
}

// Commit saves the commit ledger and renews the MemLedger over the saved version.
func (ledger *StateLedger) Commit() ([]byte, int64, xerrors.XError) {
	ledger.mtx.Lock()
	defer ledger.mtx.Unlock()

	hash, ver, xerr := ledger.commitLedger.Commit()
	if xerr != nil {
		return nil, 0, xerr
	}

	ledger.imitableLedger, xerr = NewMemLedgerAt(ver, ledger.commitLedger, ledger.logger)
	if xerr != nil {
		return nil, 0, xerr
	}

	return hash, ver, nil
}

func (ledger *StateLedger) Close() xerrors.XError {
	ledger.mtx.Lock()
	defer ledger.mtx.Unlock()

	if ledger.commitLedger != nil {
		if xerr := ledger.commitLedger.Close(); xerr != nil {
			return xerr
		}
		ledger.commitLedger = nil
	}
	ledger.imitableLedger = nil
	return nil
}

// ImitableLedgerAt returns the ledger that reads the state at `height` and is not committable.
func (ledger *StateLedger) ImitableLedgerAt(height int64) (IImitable, xerrors.XError) {
	ledger.mtx.RLock()
	defer ledger.mtx.RUnlock()

	return NewMemLedgerAt(height, ledger.commitLedger, ledger.logger)
}
