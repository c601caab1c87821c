package streamer

import (
	ctrlertypes "github.com/ShibuiDAO/veShibui/ctrlers/types"
	"github.com/ShibuiDAO/veShibui/types/bytes"
	"github.com/ShibuiDAO/veShibui/types/xerrors"
	abcitypes "github.com/tendermint/tendermint/abci/types"
)

func (ctrler *StreamerCtrler) BeginBlock(*ctrlertypes.BlockContext) ([]abcitypes.Event, xerrors.XError) {
	// do nothing
	return nil, nil
}

func (ctrler *StreamerCtrler) EndBlock(*ctrlertypes.BlockContext) ([]abcitypes.Event, xerrors.XError) {
	// do nothing
	return nil, nil
}

func (ctrler *StreamerCtrler) Commit() ([]byte, int64, xerrors.XError) {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	h, v, xerr := ctrler.streamerState.Commit()
	if xerr != nil {
		return nil, 0, xerr
	}
	ctrler.logger.Debug("commit streamer ledger", "height", v, "hash", bytes.HexBytes(h))
	return h, v, nil
}
