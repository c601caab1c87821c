package escrow

import (
	"strconv"

	ctrlertypes "github.com/ShibuiDAO/veShibui/ctrlers/types"
	"github.com/ShibuiDAO/veShibui/types"
	"github.com/ShibuiDAO/veShibui/types/crypto"
	"github.com/ShibuiDAO/veShibui/types/xerrors"
	"github.com/holiman/uint256"
)

// DefaultMaxTime is the longest lock duration when an escrow is deployed without it.
const DefaultMaxTime = 7 * 4 * 6 * types.DAY

const (
	MethodCreateLock              = "create_lock(uint256,uint256)"
	MethodIncreaseAmount          = "increase_amount(uint256)"
	MethodIncreaseUnlockTime      = "increase_unlock_time(uint256)"
	MethodDepositFor              = "deposit_for(address,uint256)"
	MethodWithdraw                = "withdraw()"
	MethodCheckpoint              = "checkpoint()"
	MethodCommitTransferOwnership = "commit_transfer_ownership(address)"
	MethodApplyTransferOwnership  = "apply_transfer_ownership()"
	MethodCommitNextVeContract    = "commit_next_ve_contract(address)"
	MethodApplyNextVeContract     = "apply_next_ve_contract()"
)

const (
	depositForType = iota
	createLockType
	increaseLockAmountType
	increaseUnlockTimeType
)

var escrowMethods = map[string]string{}

func init() {
	for _, m := range []string{
		MethodCreateLock, MethodIncreaseAmount, MethodIncreaseUnlockTime, MethodDepositFor,
		MethodWithdraw, MethodCheckpoint,
		MethodCommitTransferOwnership, MethodApplyTransferOwnership,
		MethodCommitNextVeContract, MethodApplyNextVeContract,
	} {
		escrowMethods[string(crypto.Selector(m))] = m
	}
}

// Deploy creates an escrow locking `token`.
// The arguments are the token address, name, symbol and the max lock duration (0 is DefaultMaxTime).
// The caller becomes the admin.
func (ctrler *EscrowCtrler) Deploy(ctx *ctrlertypes.CallContext) xerrors.XError {
	token, xerr := ctrlertypes.ArgAddress(ctx.Args, 0)
	if xerr != nil {
		return xerr
	}
	name, xerr := ctrlertypes.ArgString(ctx.Args, 1)
	if xerr != nil {
		return xerr
	}
	symbol, xerr := ctrlertypes.ArgString(ctx.Args, 2)
	if xerr != nil {
		return xerr
	}
	maxTime, xerr := ctrlertypes.ArgInt64(ctx.Args, 3)
	if xerr != nil {
		return xerr
	}
	if maxTime == 0 {
		maxTime = DefaultMaxTime
	}
	if maxTime%types.WEEK != 0 {
		return xerrors.ErrInvalidParams.Wrapf("max lock time(%d) is not a multiple of a week", maxTime)
	}

	tokenInfo, xerr := ctx.AcctHandler.TokenInfo(token, ctx.Exec)
	if xerr != nil {
		return xerr
	}

	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	s := ctrler.store(ctx.Contract, ctx.Exec)
	if _, xerr := s.info(); xerr == nil {
		return xerrors.ErrInvalidState.Wrapf("escrow(%v) already exists", ctx.Contract)
	}
	info := &EscrowInfo{
		Token:    token,
		Name:     name,
		Symbol:   symbol,
		Decimals: tokenInfo.Decimals,
		MaxTime:  uint64(maxTime),
		Admin:    ctx.Caller,
		Supply:   uint256.NewInt(0),
	}
	if xerr := s.setPoint(0, newPoint(uint64(ctx.TimeSeconds()), uint64(ctx.Height()))); xerr != nil {
		return xerr
	}
	return s.setInfo(info)
}

func (ctrler *EscrowCtrler) Call(ctx *ctrlertypes.CallContext) xerrors.XError {
	method, ok := escrowMethods[string(ctx.Selector)]
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
	case MethodCreateLock:
		return s.createLock(ctx, info)
	case MethodIncreaseAmount:
		return s.increaseAmount(ctx, info)
	case MethodIncreaseUnlockTime:
		return s.increaseUnlockTime(ctx, info)
	case MethodDepositFor:
		return s.depositForOther(ctx, info)
	case MethodWithdraw:
		return s.withdraw(ctx, info)
	case MethodCheckpoint:
		if xerr := s.checkpoint(info, nil, nil, nil, uint64(ctx.TimeSeconds()), uint64(ctx.Height())); xerr != nil {
			return xerr
		}
		return s.setInfo(info)
	default:
		return s.admin(ctx, info, method)
	}
}

func (s *escrowStore) createLock(ctx *ctrlertypes.CallContext, info *EscrowInfo) xerrors.XError {
	value, xerr := ctrlertypes.ArgUint256(ctx.Args, 0)
	if xerr != nil {
		return xerr
	}
	unlockTime, xerr := argTime(ctx.Args, 1)
	if xerr != nil {
		return xerr
	}
	if info.Migration {
		return xerrors.ErrInvalidState.Wrapf("escrow is migrating")
	}

	now := uint64(ctx.TimeSeconds())
	unlockTime = weekFloor(unlockTime)
	lk, xerr := s.userLock(ctx.Caller)
	if xerr != nil {
		return xerr
	}
	if value.IsZero() {
		return xerrors.ErrInvalidParams.Wrapf("need non-zero value")
	}
	if !lk.Amount.IsZero() {
		return xerrors.ErrInvalidState.Wrapf("Withdraw old tokens first")
	}
	if unlockTime <= now {
		return xerrors.ErrInvalidParams.Wrapf("Can only lock until time in the future")
	}
	if unlockTime > now+info.MaxTime {
		return xerrors.ErrInvalidParams.Wrapf("Voting lock can be %d weeks max", info.MaxTime/week)
	}
	return s.depositFor(ctx, info, ctx.Caller, value, unlockTime, lk, createLockType)
}

func (s *escrowStore) increaseAmount(ctx *ctrlertypes.CallContext, info *EscrowInfo) xerrors.XError {
	value, xerr := ctrlertypes.ArgUint256(ctx.Args, 0)
	if xerr != nil {
		return xerr
	}
	return s.addToLock(ctx, info, ctx.Caller, value, increaseLockAmountType)
}

func (s *escrowStore) depositForOther(ctx *ctrlertypes.CallContext, info *EscrowInfo) xerrors.XError {
	user, xerr := ctrlertypes.ArgAddress(ctx.Args, 0)
	if xerr != nil {
		return xerr
	}
	value, xerr := ctrlertypes.ArgUint256(ctx.Args, 1)
	if xerr != nil {
		return xerr
	}
	return s.addToLock(ctx, info, user, value, depositForType)
}

func (s *escrowStore) addToLock(ctx *ctrlertypes.CallContext, info *EscrowInfo, user types.Address, value *uint256.Int, typ int) xerrors.XError {
	if info.Migration {
		return xerrors.ErrInvalidState.Wrapf("escrow is migrating")
	}
	lk, xerr := s.userLock(user)
	if xerr != nil {
		return xerr
	}
	if value.IsZero() {
		return xerrors.ErrInvalidParams.Wrapf("need non-zero value")
	}
	if lk.Amount.IsZero() {
		return xerrors.ErrInvalidState.Wrapf("No existing lock found")
	}
	if lk.End <= uint64(ctx.TimeSeconds()) {
		return xerrors.ErrInvalidState.Wrapf("Cannot add to expired lock. Withdraw")
	}
	return s.depositFor(ctx, info, user, value, 0, lk, typ)
}

func (s *escrowStore) increaseUnlockTime(ctx *ctrlertypes.CallContext, info *EscrowInfo) xerrors.XError {
	unlockTime, xerr := argTime(ctx.Args, 0)
	if xerr != nil {
		return xerr
	}
	if info.Migration {
		return xerrors.ErrInvalidState.Wrapf("escrow is migrating")
	}

	now := uint64(ctx.TimeSeconds())
	unlockTime = weekFloor(unlockTime)
	lk, xerr := s.userLock(ctx.Caller)
	if xerr != nil {
		return xerr
	}
	if lk.End <= now {
		return xerrors.ErrInvalidState.Wrapf("Lock expired")
	}
	if lk.Amount.IsZero() {
		return xerrors.ErrInvalidState.Wrapf("Nothing is locked")
	}
	if unlockTime <= lk.End {
		return xerrors.ErrInvalidParams.Wrapf("Can only increase lock duration")
	}
	if unlockTime > now+info.MaxTime {
		return xerrors.ErrInvalidParams.Wrapf("Voting lock can be %d weeks max", info.MaxTime/week)
	}
	return s.depositFor(ctx, info, ctx.Caller, uint256.NewInt(0), unlockTime, lk, increaseUnlockTimeType)
}

// depositFor adds `value` to the lock of `user` and/or moves its end to `unlockTime` (0 keeps the end).
// The tokens are pulled from the caller.
func (s *escrowStore) depositFor(ctx *ctrlertypes.CallContext, info *EscrowInfo, user types.Address, value *uint256.Int, unlockTime uint64, lk *UserLock, typ int) xerrors.XError {
	now, height := uint64(ctx.TimeSeconds()), uint64(ctx.Height())

	supplyBefore := info.Supply.Clone()
	info.Supply = new(uint256.Int).Add(supplyBefore, value)

	oldLock := lk.Clone()
	newLock := lk.Clone()
	newLock.Amount.Add(newLock.Amount, value)
	if unlockTime != 0 {
		newLock.End = unlockTime
	}
	newLock.Start = now

	if xerr := s.checkpoint(info, user, oldLock, newLock, now, height); xerr != nil {
		return xerr
	}
	if xerr := s.setUserLock(user, newLock); xerr != nil {
		return xerr
	}
	if xerr := s.setInfo(info); xerr != nil {
		return xerr
	}
	if !value.IsZero() {
		if xerr := ctx.PullToken(info.Token, ctx.Caller, value); xerr != nil {
			return xerr
		}
	}

	ctx.EmitEvent("deposit",
		"escrow", ctx.Contract.String(),
		"provider", user.String(),
		"value", value.Dec(),
		"locktime", strconv.FormatUint(newLock.End, 10),
		"type", strconv.Itoa(typ),
		"ts", strconv.FormatUint(now, 10))
	emitSupply(ctx, supplyBefore, info.Supply)
	return nil
}

// withdraw returns all tokens of the caller's expired lock. While migrating, any lock can be withdrawn.
func (s *escrowStore) withdraw(ctx *ctrlertypes.CallContext, info *EscrowInfo) xerrors.XError {
	now, height := uint64(ctx.TimeSeconds()), uint64(ctx.Height())

	lk, xerr := s.userLock(ctx.Caller)
	if xerr != nil {
		return xerr
	}
	if now < lk.End && !info.Migration {
		return xerrors.ErrInvalidState.Wrapf("The lock didn't expire")
	}
	value := lk.Amount.Clone()

	oldLock := lk.Clone()
	newLock := lk.Clone()
	newLock.Amount = uint256.NewInt(0)
	newLock.End = 0

	supplyBefore := info.Supply.Clone()
	info.Supply = subFloor(supplyBefore, value)

	if xerr := s.checkpoint(info, ctx.Caller, oldLock, newLock, now, height); xerr != nil {
		return xerr
	}
	if xerr := s.setUserLock(ctx.Caller, newLock); xerr != nil {
		return xerr
	}
	if xerr := s.setInfo(info); xerr != nil {
		return xerr
	}
	if !value.IsZero() {
		if xerr := ctx.TransferToken(info.Token, ctx.Caller, value); xerr != nil {
			return xerr
		}
	}

	ctx.EmitEvent("withdraw",
		"escrow", ctx.Contract.String(),
		"provider", ctx.Caller.String(),
		"value", value.Dec(),
		"ts", strconv.FormatUint(now, 10))
	emitSupply(ctx, supplyBefore, info.Supply)
	return nil
}

func emitSupply(ctx *ctrlertypes.CallContext, before, after *uint256.Int) {
	ctx.EmitEvent("supply",
		"escrow", ctx.Contract.String(),
		"prevSupply", before.Dec(),
		"supply", after.Dec())
}

func argTime(args [][]byte, idx int) (uint64, xerrors.XError) {
	t, xerr := ctrlertypes.ArgInt64(args, idx)
	if xerr != nil {
		return 0, xerr
	}
	return uint64(t), nil
}
