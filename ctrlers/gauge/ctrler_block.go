package gauge

import (
	ctrlertypes "github.com/ShibuiDAO/veShibui/ctrlers/types"
	"github.com/ShibuiDAO/veShibui/types/bytes"
	"github.com/ShibuiDAO/veShibui/types/xerrors"
	abcitypes "github.com/tendermint/tendermint/abci/types"
)

func (ctrler *GaugeCtrler) BeginBlock(*ctrlertypes.BlockContext) ([]abcitypes.Event, xerrors.XError) {
	// do nothing
	return nil, nil
}

func (ctrler *GaugeCtrler) EndBlock(*ctrlertypes.BlockContext) ([]abcitypes.Event, xerrors.XError) {
	// do nothing
	return nil, nil
}

func (ctrler *GaugeCtrler) Commit() ([]byte, int64, xerrors.XError) {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	h, v, xerr := ctrler.gaugeState.Commit()
	if xerr != nil {
		return nil, 0, xerr
	}
	ctrler.logger.Debug("commit gauge ledger", "height", v, "hash", bytes.HexBytes(h))
	return h, v, nil
}
