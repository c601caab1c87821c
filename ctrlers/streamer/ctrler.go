package streamer

import (
	"sync"

	cfg "github.com/ShibuiDAO/veShibui/cmd/config"
	ctrlertypes "github.com/ShibuiDAO/veShibui/ctrlers/types"
	v1 "github.com/ShibuiDAO/veShibui/ledger/v1"
	"github.com/ShibuiDAO/veShibui/types"
	"github.com/ShibuiDAO/veShibui/types/xerrors"
	tmlog "github.com/tendermint/tendermint/libs/log"
)

// StreamerCtrler runs the reward streamer contracts.
type StreamerCtrler struct {
	streamerState v1.IStateLedger

	logger tmlog.Logger
	mtx    sync.RWMutex
}

var _ ctrlertypes.ILedgerHandler = (*StreamerCtrler)(nil)
var _ ctrlertypes.IBlockHandler = (*StreamerCtrler)(nil)
var _ ctrlertypes.IContractHandler = (*StreamerCtrler)(nil)
var _ ctrlertypes.ISnapshotHandler = (*StreamerCtrler)(nil)

func NewStreamerCtrler(config *cfg.Config, logger tmlog.Logger) (*StreamerCtrler, error) {
	lg := logger.With("module", "veshibui_StreamerCtrler")

	_state, xerr := v1.NewStateLedger("streamer", config.DBDir(), 1024, newItemFor, lg)
	if xerr != nil {
		return nil, xerr
	}
	return &StreamerCtrler{
		streamerState: _state,
		logger:        lg,
	}, nil
}

// InitLedger does nothing. Streamers are deployed by calls.
func (ctrler *StreamerCtrler) InitLedger(interface{}) xerrors.XError {
	return nil
}

func (ctrler *StreamerCtrler) Close() xerrors.XError {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	if ctrler.streamerState != nil {
		if xerr := ctrler.streamerState.Close(); xerr != nil {
			ctrler.logger.Error("streamerState.Close() returns error", "error", xerr.Error())
		}
		ctrler.logger.Debug("close ledgers")
		ctrler.streamerState = nil
	}
	return nil
}

func (ctrler *StreamerCtrler) Snapshot(exec bool) int {
	return ctrler.streamerState.Snapshot(exec)
}

func (ctrler *StreamerCtrler) RevertToSnapshot(snap int, exec bool) xerrors.XError {
	return ctrler.streamerState.RevertToSnapshot(snap, exec)
}

func (ctrler *StreamerCtrler) store(contract types.Address, exec bool) *streamerStore {
	return &streamerStore{
		ledger:   ctrler.streamerState.ImitableLedger(exec),
		contract: contract,
	}
}
