package gauge

import (
	"sync"

	cfg "github.com/ShibuiDAO/veShibui/cmd/config"
	ctrlertypes "github.com/ShibuiDAO/veShibui/ctrlers/types"
	v1 "github.com/ShibuiDAO/veShibui/ledger/v1"
	"github.com/ShibuiDAO/veShibui/types"
	"github.com/ShibuiDAO/veShibui/types/xerrors"
	tmlog "github.com/tendermint/tendermint/libs/log"
)

// GaugeCtrler runs the rewards-only gauges. A gauge is a share token of its LP deposits.
type GaugeCtrler struct {
	gaugeState v1.IStateLedger

	logger tmlog.Logger
	mtx    sync.RWMutex
}

var _ ctrlertypes.ILedgerHandler = (*GaugeCtrler)(nil)
var _ ctrlertypes.IBlockHandler = (*GaugeCtrler)(nil)
var _ ctrlertypes.IContractHandler = (*GaugeCtrler)(nil)
var _ ctrlertypes.ISnapshotHandler = (*GaugeCtrler)(nil)

func NewGaugeCtrler(config *cfg.Config, logger tmlog.Logger) (*GaugeCtrler, error) {
	lg := logger.With("module", "veshibui_GaugeCtrler")

	_state, xerr := v1.NewStateLedger("gauge", config.DBDir(), 2048, newItemFor, lg)
	if xerr != nil {
		return nil, xerr
	}
	return &GaugeCtrler{
		gaugeState: _state,
		logger:     lg,
	}, nil
}

func (ctrler *GaugeCtrler) InitLedger(interface{}) xerrors.XError {
	return nil
}

func (ctrler *GaugeCtrler) Close() xerrors.XError {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	if ctrler.gaugeState != nil {
		if xerr := ctrler.gaugeState.Close(); xerr != nil {
			ctrler.logger.Error("gaugeState.Close() returns error", "error", xerr.Error())
		}
		ctrler.logger.Debug("close ledgers")
		ctrler.gaugeState = nil
	}
	return nil
}

func (ctrler *GaugeCtrler) Snapshot(exec bool) int {
	return ctrler.gaugeState.Snapshot(exec)
}

func (ctrler *GaugeCtrler) RevertToSnapshot(snap int, exec bool) xerrors.XError {
	return ctrler.gaugeState.RevertToSnapshot(snap, exec)
}

func (ctrler *GaugeCtrler) store(contract types.Address, exec bool) *gaugeStore {
	return &gaugeStore{
		ledger:   ctrler.gaugeState.ImitableLedger(exec),
		contract: contract,
	}
}
