package mocks

import (
	ctrlertypes "github.com/ShibuiDAO/veShibui/ctrlers/types"
	"github.com/ShibuiDAO/veShibui/types"
	"github.com/ShibuiDAO/veShibui/types/xerrors"
)

// MakeCallCtx returns the context of `caller` calling `method` of `contract` in the current block.
func MakeCallCtx(caller, contract types.Address, method string, exec bool, args ...[]byte) *ctrlertypes.CallContext {
	return ctrlertypes.NewCallContext(currBlockCtx, caller, contract, method, args, exec)
}

func MakeTrxCtxWithTrxBctx(
	tx *ctrlertypes.Trx,
	prvKey []byte,
	bctx *ctrlertypes.BlockContext,
	exec bool,
) (*ctrlertypes.TrxContext, xerrors.XError) {
	if _, xerr := ctrlertypes.SignTrxRLP(tx, prvKey, bctx.ChainID()); xerr != nil {
		return nil, xerr
	}
	txbz, xerr := tx.Encode()
	if xerr != nil {
		return nil, xerr
	}
	return MakeTrxCtxWithBzBctx(txbz, bctx, exec)
}

func MakeTrxCtxWithBzBctx(
	txbz []byte,
	bctx *ctrlertypes.BlockContext,
	exec bool,
) (*ctrlertypes.TrxContext, xerrors.XError) {
	return ctrlertypes.NewTrxContext(txbz, bctx, exec)
}
