package escrow

import (
	ctrlertypes "github.com/ShibuiDAO/veShibui/ctrlers/types"
	"github.com/ShibuiDAO/veShibui/types"
	"github.com/ShibuiDAO/veShibui/types/xerrors"
)

// admin handles the two-phase admin actions: the ownership transfer and the next escrow contract.
func (s *escrowStore) admin(ctx *ctrlertypes.CallContext, info *EscrowInfo, method string) xerrors.XError {
	if !info.isAdmin(ctx.Caller) {
		return xerrors.ErrAdminOnly
	}

	switch method {
	case MethodCommitTransferOwnership:
		addr, xerr := ctrlertypes.ArgAddress(ctx.Args, 0)
		if xerr != nil {
			return xerr
		}
		info.FutureAdmin = addr
		ctx.EmitEvent("commit_ownership", "escrow", ctx.Contract.String(), "admin", addr.String())
	case MethodApplyTransferOwnership:
		if types.IsZeroAddress(info.FutureAdmin) {
			return xerrors.ErrInvalidState.Wrapf("admin not set")
		}
		info.Admin = info.FutureAdmin
		ctx.EmitEvent("apply_ownership", "escrow", ctx.Contract.String(), "admin", info.Admin.String())
	case MethodCommitNextVeContract:
		addr, xerr := ctrlertypes.ArgAddress(ctx.Args, 0)
		if xerr != nil {
			return xerr
		}
		info.QueuedNextVeContract = addr
		ctx.EmitEvent("commit_next_ve_contract", "escrow", ctx.Contract.String(), "next_ve_contract", addr.String())
	case MethodApplyNextVeContract:
		if types.IsZeroAddress(info.QueuedNextVeContract) {
			return xerrors.ErrInvalidState.Wrapf("next ve contract not set")
		}
		info.NextVeContract = info.QueuedNextVeContract
		info.QueuedNextVeContract = nil
		info.Migration = true
		ctx.EmitEvent("apply_next_ve_contract", "escrow", ctx.Contract.String(), "next_ve_contract", info.NextVeContract.String())
	default:
		return xerrors.ErrUnknownMethod.Wrapf("method: %s", method)
	}
	return s.setInfo(info)
}
