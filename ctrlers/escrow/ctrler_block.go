package escrow

import (
	ctrlertypes "github.com/ShibuiDAO/veShibui/ctrlers/types"
	"github.com/ShibuiDAO/veShibui/types/bytes"
	"github.com/ShibuiDAO/veShibui/types/xerrors"
	abcitypes "github.com/tendermint/tendermint/abci/types"
)

func (ctrler *EscrowCtrler) BeginBlock(*ctrlertypes.BlockContext) ([]abcitypes.Event, xerrors.XError) {
	// do nothing
	return nil, nil
}

func (ctrler *EscrowCtrler) EndBlock(*ctrlertypes.BlockContext) ([]abcitypes.Event, xerrors.XError) {
	// do nothing
	return nil, nil
}

func (ctrler *EscrowCtrler) Commit() ([]byte, int64, xerrors.XError) {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	h, v, xerr := ctrler.escrowState.Commit()
	if xerr != nil {
		return nil, 0, xerr
	}
	ctrler.logger.Debug("commit escrow ledger", "height", v, "hash", bytes.HexBytes(h))
	return h, v, nil
}
