package escrow

import (
	"sync"

	cfg "github.com/ShibuiDAO/veShibui/cmd/config"
	ctrlertypes "github.com/ShibuiDAO/veShibui/ctrlers/types"
	v1 "github.com/ShibuiDAO/veShibui/ledger/v1"
	"github.com/ShibuiDAO/veShibui/types"
	"github.com/ShibuiDAO/veShibui/types/xerrors"
	tmlog "github.com/tendermint/tendermint/libs/log"
)

// EscrowCtrler runs the vote-escrow contracts.
type EscrowCtrler struct {
	escrowState v1.IStateLedger

	logger tmlog.Logger
	mtx    sync.RWMutex
}

var _ ctrlertypes.ILedgerHandler = (*EscrowCtrler)(nil)
var _ ctrlertypes.IBlockHandler = (*EscrowCtrler)(nil)
var _ ctrlertypes.IContractHandler = (*EscrowCtrler)(nil)
var _ ctrlertypes.ISnapshotHandler = (*EscrowCtrler)(nil)

func NewEscrowCtrler(config *cfg.Config, logger tmlog.Logger) (*EscrowCtrler, error) {
	lg := logger.With("module", "veshibui_EscrowCtrler")

	_state, xerr := v1.NewStateLedger("escrow", config.DBDir(), 2048, newItemFor, lg)
	if xerr != nil {
		return nil, xerr
	}
	return &EscrowCtrler{
		escrowState: _state,
		logger:      lg,
	}, nil
}

// InitLedger does nothing. The escrow of genesis is deployed by a deploy call.
func (ctrler *EscrowCtrler) InitLedger(interface{}) xerrors.XError {
	return nil
}

func (ctrler *EscrowCtrler) Close() xerrors.XError {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	if ctrler.escrowState != nil {
		if xerr := ctrler.escrowState.Close(); xerr != nil {
			ctrler.logger.Error("escrowState.Close() returns error", "error", xerr.Error())
		}
		ctrler.logger.Debug("close ledgers")
		ctrler.escrowState = nil
	}
	return nil
}

func (ctrler *EscrowCtrler) Snapshot(exec bool) int {
	return ctrler.escrowState.Snapshot(exec)
}

func (ctrler *EscrowCtrler) RevertToSnapshot(snap int, exec bool) xerrors.XError {
	return ctrler.escrowState.RevertToSnapshot(snap, exec)
}

func (ctrler *EscrowCtrler) store(contract types.Address, exec bool) *escrowStore {
	return &escrowStore{
		ledger:   ctrler.escrowState.ImitableLedger(exec),
		contract: contract,
	}
}
