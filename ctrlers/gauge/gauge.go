package gauge

import (
	ctrlertypes "github.com/ShibuiDAO/veShibui/ctrlers/types"
	"github.com/ShibuiDAO/veShibui/types"
	"github.com/ShibuiDAO/veShibui/types/crypto"
	"github.com/ShibuiDAO/veShibui/types/xerrors"
	"github.com/holiman/uint256"
)

const (
	MethodDeposit                 = "deposit(uint256)"
	MethodDepositFor              = "deposit(uint256,address)"
	MethodDepositForClaim         = "deposit(uint256,address,bool)"
	MethodWithdraw                = "withdraw(uint256)"
	MethodWithdrawClaim           = "withdraw(uint256,bool)"
	MethodClaimRewards            = "claim_rewards()"
	MethodClaimRewardsFor         = "claim_rewards(address)"
	MethodClaimRewardsTo          = "claim_rewards(address,address)"
	MethodClaimableRewardWrite    = "claimable_reward_write(address,address)"
	MethodSetRewardsReceiver      = "set_rewards_receiver(address)"
	MethodSetRewards              = "set_rewards(address,bytes32,address[8])"
	MethodTransfer                = "transfer(address,uint256)"
	MethodTransferFrom            = "transferFrom(address,address,uint256)"
	MethodApprove                 = "approve(address,uint256)"
	MethodIncreaseAllowance       = "increaseAllowance(address,uint256)"
	MethodDecreaseAllowance       = "decreaseAllowance(address,uint256)"
	MethodCommitTransferOwnership = "commit_transfer_ownership(address)"
	MethodAcceptTransferOwnership = "accept_transfer_ownership()"
)

var gaugeMethods = map[string]string{}

func init() {
	for _, m := range []string{
		MethodDeposit, MethodDepositFor, MethodDepositForClaim, MethodWithdraw, MethodWithdrawClaim,
		MethodClaimRewards, MethodClaimRewardsFor, MethodClaimRewardsTo, MethodClaimableRewardWrite,
		MethodSetRewardsReceiver, MethodSetRewards,
		MethodTransfer, MethodTransferFrom, MethodApprove, MethodIncreaseAllowance, MethodDecreaseAllowance,
		MethodCommitTransferOwnership, MethodAcceptTransferOwnership,
	} {
		gaugeMethods[string(crypto.Selector(m))] = m
	}
}

var maxUint256 = new(uint256.Int).SetAllOne()

// Deploy creates a gauge of `lp_token` administrated by `admin`.
func (ctrler *GaugeCtrler) Deploy(ctx *ctrlertypes.CallContext) xerrors.XError {
	admin, xerr := ctrlertypes.ArgAddress(ctx.Args, 0)
	if xerr != nil {
		return xerr
	}
	lpToken, xerr := ctrlertypes.ArgAddress(ctx.Args, 1)
	if xerr != nil {
		return xerr
	}
	lpInfo, xerr := ctx.AcctHandler.TokenInfo(lpToken, ctx.Exec)
	if xerr != nil {
		return xerr
	}

	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	s := ctrler.store(ctx.Contract, ctx.Exec)
	if _, xerr := s.info(); xerr == nil {
		return xerrors.ErrInvalidState.Wrapf("gauge(%v) already exists", ctx.Contract)
	}
	return s.setInfo(&GaugeInfo{
		Admin:       admin,
		LpToken:     lpToken,
		Name:        lpInfo.Symbol + " RewardGauge Deposit",
		Symbol:      lpInfo.Symbol + "-gauge",
		TotalSupply: uint256.NewInt(0),
	})
}

func (ctrler *GaugeCtrler) Call(ctx *ctrlertypes.CallContext) xerrors.XError {
	method, ok := gaugeMethods[string(ctx.Selector)]
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
	case MethodDeposit, MethodDepositFor, MethodDepositForClaim:
		xerr = s.deposit(ctx, info)
	case MethodWithdraw, MethodWithdrawClaim:
		xerr = s.withdraw(ctx, info)
	case MethodClaimRewards, MethodClaimRewardsFor, MethodClaimRewardsTo:
		xerr = s.claimRewards(ctx, info)
	case MethodClaimableRewardWrite:
		xerr = s.claimableRewardWrite(ctx, info)
	case MethodSetRewardsReceiver:
		receiver, xerr := ctrlertypes.ArgAddress(ctx.Args, 0)
		if xerr != nil {
			return xerr
		}
		return s.setRewardsReceiver(ctx.Caller, receiver)
	case MethodSetRewards:
		xerr = s.setRewards(ctx, info)
	case MethodTransfer:
		var to types.Address
		var amt *uint256.Int
		if to, amt, xerr = addrAmountArgs(ctx.Args, 0); xerr == nil {
			xerr = s.transfer(ctx, info, ctx.Caller, to, amt)
		}
	case MethodTransferFrom:
		xerr = s.transferFrom(ctx, info)
	case MethodApprove, MethodIncreaseAllowance, MethodDecreaseAllowance:
		return s.approve(ctx, method)
	case MethodCommitTransferOwnership:
		if !info.isAdmin(ctx.Caller) {
			return xerrors.ErrAdminOnly
		}
		addr, xerr := ctrlertypes.ArgAddress(ctx.Args, 0)
		if xerr != nil {
			return xerr
		}
		info.FutureAdmin = addr
		ctx.EmitEvent("commit_ownership", "gauge", ctx.Contract.String(), "admin", addr.String())
	case MethodAcceptTransferOwnership:
		if types.IsZeroAddress(ctx.Caller) || !info.FutureAdmin.Equal(ctx.Caller) {
			return xerrors.ErrAdminOnly.Wrapf("dev: future admin only")
		}
		info.Admin = info.FutureAdmin
		ctx.EmitEvent("apply_ownership", "gauge", ctx.Contract.String(), "admin", info.Admin.String())
	}
	if xerr != nil {
		return xerr
	}
	return s.setInfo(info)
}

// deposit credits `amount` shares to the receiver (the caller by default) for the LP tokens pulled from the caller.
func (s *gaugeStore) deposit(ctx *ctrlertypes.CallContext, info *GaugeInfo) xerrors.XError {
	amount, xerr := ctrlertypes.ArgUint256(ctx.Args, 0)
	if xerr != nil {
		return xerr
	}
	addr := ctx.Caller
	if len(ctx.Args) > 1 {
		if addr, xerr = ctrlertypes.ArgAddress(ctx.Args, 1); xerr != nil {
			return xerr
		}
	}
	claim := false
	if len(ctx.Args) > 2 {
		if claim, xerr = ctrlertypes.ArgBool(ctx.Args, 2); xerr != nil {
			return xerr
		}
	}
	if amount.IsZero() {
		return nil
	}

	if info.hasRewards() {
		if xerr := s.checkpointRewards(ctx, info, addr, claim, nil); xerr != nil {
			return xerr
		}
	}
	bal, xerr := s.balanceOf(addr)
	if xerr != nil {
		return xerr
	}
	if xerr := s.setBalance(addr, new(uint256.Int).Add(bal, amount)); xerr != nil {
		return xerr
	}
	info.TotalSupply = new(uint256.Int).Add(info.TotalSupply, amount)
	if xerr := ctx.PullToken(info.LpToken, ctx.Caller, amount); xerr != nil {
		return xerr
	}

	ctx.EmitEvent("deposit", "gauge", ctx.Contract.String(), "provider", addr.String(), "value", amount.Dec())
	emitTransfer(ctx, types.ZeroAddress(), addr, amount)
	return nil
}

// withdraw burns `amount` shares of the caller and returns the LP tokens.
func (s *gaugeStore) withdraw(ctx *ctrlertypes.CallContext, info *GaugeInfo) xerrors.XError {
	amount, xerr := ctrlertypes.ArgUint256(ctx.Args, 0)
	if xerr != nil {
		return xerr
	}
	claim := false
	if len(ctx.Args) > 1 {
		if claim, xerr = ctrlertypes.ArgBool(ctx.Args, 1); xerr != nil {
			return xerr
		}
	}
	if amount.IsZero() {
		return nil
	}

	if info.hasRewards() {
		if xerr := s.checkpointRewards(ctx, info, ctx.Caller, claim, nil); xerr != nil {
			return xerr
		}
	}
	bal, xerr := s.balanceOf(ctx.Caller)
	if xerr != nil {
		return xerr
	}
	if bal.Lt(amount) {
		return xerrors.ErrInsufficientFund.Wrapf("balance: %v, amount: %v", bal.Dec(), amount.Dec())
	}
	if xerr := s.setBalance(ctx.Caller, new(uint256.Int).Sub(bal, amount)); xerr != nil {
		return xerr
	}
	info.TotalSupply = new(uint256.Int).Sub(info.TotalSupply, amount)
	if xerr := ctx.TransferToken(info.LpToken, ctx.Caller, amount); xerr != nil {
		return xerr
	}

	ctx.EmitEvent("withdraw", "gauge", ctx.Contract.String(), "provider", ctx.Caller.String(), "value", amount.Dec())
	emitTransfer(ctx, ctx.Caller, types.ZeroAddress(), amount)
	return nil
}

// transfer moves shares after settling the rewards of both parties.
func (s *gaugeStore) transfer(ctx *ctrlertypes.CallContext, info *GaugeInfo, from, to types.Address, amount *uint256.Int) xerrors.XError {
	if !amount.IsZero() {
		if info.hasRewards() {
			if xerr := s.checkpointRewards(ctx, info, from, false, nil); xerr != nil {
				return xerr
			}
		}
		fromBal, xerr := s.balanceOf(from)
		if xerr != nil {
			return xerr
		}
		if fromBal.Lt(amount) {
			return xerrors.ErrInsufficientFund.Wrapf("balance: %v, amount: %v", fromBal.Dec(), amount.Dec())
		}
		if xerr := s.setBalance(from, new(uint256.Int).Sub(fromBal, amount)); xerr != nil {
			return xerr
		}

		if info.hasRewards() {
			if xerr := s.checkpointRewards(ctx, info, to, false, nil); xerr != nil {
				return xerr
			}
		}
		toBal, xerr := s.balanceOf(to)
		if xerr != nil {
			return xerr
		}
		if xerr := s.setBalance(to, new(uint256.Int).Add(toBal, amount)); xerr != nil {
			return xerr
		}
	}
	emitTransfer(ctx, from, to, amount)
	return nil
}

func (s *gaugeStore) transferFrom(ctx *ctrlertypes.CallContext, info *GaugeInfo) xerrors.XError {
	from, xerr := ctrlertypes.ArgAddress(ctx.Args, 0)
	if xerr != nil {
		return xerr
	}
	to, amount, xerr := addrAmountArgs(ctx.Args, 1)
	if xerr != nil {
		return xerr
	}

	allowed, xerr := s.allowance(from, ctx.Caller)
	if xerr != nil {
		return xerr
	}
	if !allowed.Eq(maxUint256) {
		if allowed.Lt(amount) {
			return xerrors.ErrInsufficientAllowance.Wrapf("allowance: %v, amount: %v", allowed.Dec(), amount.Dec())
		}
		if xerr := s.setAllowance(from, ctx.Caller, new(uint256.Int).Sub(allowed, amount)); xerr != nil {
			return xerr
		}
	}
	return s.transfer(ctx, info, from, to, amount)
}

func (s *gaugeStore) approve(ctx *ctrlertypes.CallContext, method string) xerrors.XError {
	spender, amount, xerr := addrAmountArgs(ctx.Args, 0)
	if xerr != nil {
		return xerr
	}

	allowed := amount
	if method != MethodApprove {
		cur, xerr := s.allowance(ctx.Caller, spender)
		if xerr != nil {
			return xerr
		}
		if method == MethodIncreaseAllowance {
			var overflow bool
			if allowed, overflow = new(uint256.Int).AddOverflow(cur, amount); overflow {
				return xerrors.ErrInvalidParams.Wrapf("allowance overflow")
			}
		} else if cur.Lt(amount) {
			return xerrors.ErrInsufficientAllowance.Wrapf("allowance: %v, amount: %v", cur.Dec(), amount.Dec())
		} else {
			allowed = new(uint256.Int).Sub(cur, amount)
		}
	}
	if xerr := s.setAllowance(ctx.Caller, spender, allowed); xerr != nil {
		return xerr
	}
	ctx.EmitEvent("approval",
		"gauge", ctx.Contract.String(),
		"owner", ctx.Caller.String(),
		"spender", spender.String(),
		"amount", allowed.Dec())
	return nil
}

func emitTransfer(ctx *ctrlertypes.CallContext, from, to types.Address, amt *uint256.Int) {
	ctx.EmitEvent("transfer",
		"token", ctx.Contract.String(),
		"from", from.String(),
		"to", to.String(),
		"amount", amt.Dec())
}

func addrAmountArgs(args [][]byte, idx int) (types.Address, *uint256.Int, xerrors.XError) {
	addr, xerr := ctrlertypes.ArgAddress(args, idx)
	if xerr != nil {
		return nil, nil, xerr
	}
	amt, xerr := ctrlertypes.ArgUint256(args, idx+1)
	if xerr != nil {
		return nil, nil, xerr
	}
	return addr, amt, nil
}
