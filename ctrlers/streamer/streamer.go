package streamer

import (
	"strconv"

	ctrlertypes "github.com/ShibuiDAO/veShibui/ctrlers/types"
	"github.com/ShibuiDAO/veShibui/types"
	"github.com/ShibuiDAO/veShibui/types/crypto"
	"github.com/ShibuiDAO/veShibui/types/xerrors"
	"github.com/holiman/uint256"
)

const (
	MethodAddReceiver             = "add_receiver(address)"
	MethodRemoveReceiver          = "remove_receiver(address)"
	MethodGetReward               = "get_reward()"
	MethodNotifyRewardAmount      = "notify_reward_amount(uint256)"
	MethodSetRewardDuration       = "set_reward_duration(uint256)"
	MethodSetRewardDistributor    = "set_reward_distributor(address)"
	MethodCommitTransferOwnership = "commit_transfer_ownership(address)"
	MethodAcceptTransferOwnership = "accept_transfer_ownership()"
)

var streamerMethods = map[string]string{}

func init() {
	for _, m := range []string{
		MethodAddReceiver, MethodRemoveReceiver, MethodGetReward, MethodNotifyRewardAmount,
		MethodSetRewardDuration, MethodSetRewardDistributor,
		MethodCommitTransferOwnership, MethodAcceptTransferOwnership,
	} {
		streamerMethods[string(crypto.Selector(m))] = m
	}
}

// Deploy creates a streamer. The arguments are the owner, the distributor, the reward token and the reward duration.
func (ctrler *StreamerCtrler) Deploy(ctx *ctrlertypes.CallContext) xerrors.XError {
	owner, xerr := ctrlertypes.ArgAddress(ctx.Args, 0)
	if xerr != nil {
		return xerr
	}
	distributor, xerr := ctrlertypes.ArgAddress(ctx.Args, 1)
	if xerr != nil {
		return xerr
	}
	token, xerr := ctrlertypes.ArgAddress(ctx.Args, 2)
	if xerr != nil {
		return xerr
	}
	duration, xerr := ctrlertypes.ArgInt64(ctx.Args, 3)
	if xerr != nil {
		return xerr
	}
	if duration <= 0 {
		return xerrors.ErrInvalidParams.Wrapf("wrong reward duration: %d", duration)
	}
	if _, xerr := ctx.AcctHandler.TokenInfo(token, ctx.Exec); xerr != nil {
		return xerr
	}

	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	s := ctrler.store(ctx.Contract, ctx.Exec)
	if _, xerr := s.info(); xerr == nil {
		return xerrors.ErrInvalidState.Wrapf("streamer(%v) already exists", ctx.Contract)
	}
	return s.setInfo(&StreamerInfo{
		Owner:            owner,
		Distributor:      distributor,
		Token:            token,
		Duration:         uint64(duration),
		Rate:             uint256.NewInt(0),
		PerReceiverTotal: uint256.NewInt(0),
	})
}

func (ctrler *StreamerCtrler) Call(ctx *ctrlertypes.CallContext) xerrors.XError {
	method, ok := streamerMethods[string(ctx.Selector)]
	if !ok {
		return xerrors.ErrUnknownMethod.Wrapf("selector: %x", ctx.Selector)
	}

	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	s := ctrler.store(ctx.Contract, ctx.Exec)
	info, xerr := s.info()
	if xerr != nil {
		return xerr
	}

	switch method {
	case MethodGetReward:
		xerr = s.getReward(ctx, info)
	case MethodNotifyRewardAmount:
		xerr = s.notifyRewardAmount(ctx, info)
	case MethodAcceptTransferOwnership:
		if types.IsZeroAddress(ctx.Caller) || !info.FutureOwner.Equal(ctx.Caller) {
			return xerrors.ErrAdminOnly.Wrapf("dev: only new owner")
		}
		info.Owner = info.FutureOwner
		ctx.EmitEvent("accept_ownership", "streamer", ctx.Contract.String(), "owner", info.Owner.String())
	default:
		xerr = s.ownerCall(ctx, info, method)
	}
	if xerr != nil {
		return xerr
	}
	return s.setInfo(info)
}

// ownerCall handles the methods only the owner can call.
func (s *streamerStore) ownerCall(ctx *ctrlertypes.CallContext, info *StreamerInfo, method string) xerrors.XError {
	if !info.isOwner(ctx.Caller) {
		return xerrors.ErrAdminOnly
	}

	switch method {
	case MethodAddReceiver:
		addr, xerr := ctrlertypes.ArgAddress(ctx.Args, 0)
		if xerr != nil {
			return xerr
		}
		return s.addReceiver(ctx, info, addr)
	case MethodRemoveReceiver:
		addr, xerr := ctrlertypes.ArgAddress(ctx.Args, 0)
		if xerr != nil {
			return xerr
		}
		return s.removeReceiver(ctx, info, addr)
	case MethodSetRewardDuration:
		d, xerr := ctrlertypes.ArgInt64(ctx.Args, 0)
		if xerr != nil {
			return xerr
		}
		if uint64(ctx.TimeSeconds()) <= info.PeriodFinish {
			return xerrors.ErrInvalidState.Wrapf("dev: reward period currently active")
		}
		if d <= 0 {
			return xerrors.ErrInvalidParams.Wrapf("wrong reward duration: %d", d)
		}
		info.Duration = uint64(d)
	case MethodSetRewardDistributor:
		addr, xerr := ctrlertypes.ArgAddress(ctx.Args, 0)
		if xerr != nil {
			return xerr
		}
		info.Distributor = addr
	case MethodCommitTransferOwnership:
		addr, xerr := ctrlertypes.ArgAddress(ctx.Args, 0)
		if xerr != nil {
			return xerr
		}
		info.FutureOwner = addr
		ctx.EmitEvent("commit_ownership", "streamer", ctx.Contract.String(), "owner", addr.String())
	default:
		return xerrors.ErrUnknownMethod.Wrapf("method: %s", method)
	}
	return nil
}

func (s *streamerStore) addReceiver(ctx *ctrlertypes.CallContext, info *StreamerInfo, addr types.Address) xerrors.XError {
	r, xerr := s.receiver(addr)
	if xerr != nil {
		return xerr
	}
	if r != nil {
		return xerrors.ErrInvalidState.Wrapf("receiver is active")
	}

	total := info.updatePerReceiverTotal(uint64(ctx.TimeSeconds()))
	info.ReceiverCount++
	ctx.EmitEvent("add_receiver", "streamer", ctx.Contract.String(), "receiver", addr.String())
	return s.setReceiver(addr, &Receiver{Paid: total})
}

func (s *streamerStore) removeReceiver(ctx *ctrlertypes.CallContext, info *StreamerInfo, addr types.Address) xerrors.XError {
	r, xerr := s.receiver(addr)
	if xerr != nil {
		return xerr
	}
	if r == nil {
		return xerrors.ErrInvalidState.Wrapf("receiver is inactive")
	}

	total := info.updatePerReceiverTotal(uint64(ctx.TimeSeconds()))
	info.ReceiverCount--
	if amt := r.owed(total); !amt.IsZero() {
		if xerr := ctx.TransferToken(info.Token, addr, amt); xerr != nil {
			return xerr
		}
	}
	ctx.EmitEvent("remove_receiver", "streamer", ctx.Contract.String(), "receiver", addr.String())
	return s.delReceiver(addr)
}

// getReward pays the caller what has been released to it and returns the amount in RetData.
func (s *streamerStore) getReward(ctx *ctrlertypes.CallContext, info *StreamerInfo) xerrors.XError {
	r, xerr := s.receiver(ctx.Caller)
	if xerr != nil {
		return xerr
	}
	if r == nil {
		return xerrors.ErrInvalidState.Wrapf("caller is not receiver")
	}

	total := info.updatePerReceiverTotal(uint64(ctx.TimeSeconds()))
	amt := r.owed(total)
	if !amt.IsZero() {
		if xerr := ctx.TransferToken(info.Token, ctx.Caller, amt); xerr != nil {
			return xerr
		}
		r.Paid = total
		if xerr := s.setReceiver(ctx.Caller, r); xerr != nil {
			return xerr
		}
	}
	ctx.RetData = ctrlertypes.AmountArg(amt)
	return nil
}

// notifyRewardAmount starts a new reward epoch of `Duration` with `amount` and the rewards left from the running one.
func (s *streamerStore) notifyRewardAmount(ctx *ctrlertypes.CallContext, info *StreamerInfo) xerrors.XError {
	if types.IsZeroAddress(ctx.Caller) || !info.Distributor.Equal(ctx.Caller) {
		return xerrors.ErrAdminOnly.Wrapf("dev: only distributor")
	}
	amount, xerr := ctrlertypes.ArgUint256(ctx.Args, 0)
	if xerr != nil {
		return xerr
	}

	now := uint64(ctx.TimeSeconds())
	info.updatePerReceiverTotal(now)
	if xerr := ctx.PullToken(info.Token, ctx.Caller, amount); xerr != nil {
		return xerr
	}

	total := amount.Clone()
	if now < info.PeriodFinish {
		leftover := new(uint256.Int).Mul(uint256.NewInt(info.PeriodFinish-now), info.Rate)
		total.Add(total, leftover)
	}
	info.Rate = new(uint256.Int).Div(total, uint256.NewInt(info.Duration))
	info.LastUpdate = now
	info.PeriodFinish = now + info.Duration

	ctx.EmitEvent("reward_added",
		"streamer", ctx.Contract.String(),
		"amount", amount.Dec(),
		"rate", info.Rate.Dec(),
		"period_finish", strconv.FormatUint(info.PeriodFinish, 10))
	return nil
}
