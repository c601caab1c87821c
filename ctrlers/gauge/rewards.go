package gauge

import (
	"encoding/hex"
	"strings"

	ctrlertypes "github.com/ShibuiDAO/veShibui/ctrlers/types"
	"github.com/ShibuiDAO/veShibui/types"
	"github.com/ShibuiDAO/veShibui/types/crypto"
	"github.com/ShibuiDAO/veShibui/types/xerrors"
	"github.com/holiman/uint256"
)

var multiplier = uint256.NewInt(1_000_000_000_000_000_000)

// checkpointRewards pulls the rewards from the streamer, updates the integrals and settles the rewards of `user`.
// When `claim` is true, everything claimable is sent to `receiver`, to the user's rewards receiver or to the user.
func (s *gaugeStore) checkpointRewards(ctx *ctrlertypes.CallContext, info *GaugeInfo, user types.Address, claim bool, receiver types.Address) xerrors.XError {
	if user == nil {
		user = types.ZeroAddress()
	}
	totalSupply := info.TotalSupply
	now := uint64(ctx.TimeSeconds())

	before := make([]*uint256.Int, len(info.RewardTokens))
	for i, token := range info.RewardTokens {
		bal, xerr := ctx.TokenBalance(token, ctx.Contract)
		if xerr != nil {
			return xerr
		}
		before[i] = bal
	}

	if !totalSupply.IsZero() && info.hasRewardContract() && now > info.LastClaim {
		if _, xerr := ctx.SubCall(info.RewardContract, info.PullSelector); xerr != nil {
			return xerr
		}
		info.LastClaim = now
	}

	if claim && types.IsZeroAddress(receiver) {
		r, xerr := s.rewardsReceiver(user)
		if xerr != nil {
			return xerr
		}
		receiver = types.AddressOrZero(r)
		if types.IsZeroAddress(receiver) {
			receiver = user
		}
	}

	userBalance, xerr := s.balanceOf(user)
	if xerr != nil {
		return xerr
	}
	for i, token := range info.RewardTokens {
		dI := uint256.NewInt(0)
		if !totalSupply.IsZero() {
			after, xerr := ctx.TokenBalance(token, ctx.Contract)
			if xerr != nil {
				return xerr
			}
			if after.Gt(before[i]) {
				dI.Sub(after, before[i])
				dI.Mul(dI, multiplier)
				dI.Div(dI, totalSupply)
			}
		}

		integral, xerr := s.integral(token)
		if xerr != nil {
			return xerr
		}
		if !dI.IsZero() {
			integral.Add(integral, dI)
			if xerr := s.setIntegral(token, integral); xerr != nil {
				return xerr
			}
		}

		integralFor, xerr := s.integralFor(token, user)
		if xerr != nil {
			return xerr
		}
		newClaimable := uint256.NewInt(0)
		if integralFor.Lt(integral) {
			if xerr := s.setIntegralFor(token, user, integral); xerr != nil {
				return xerr
			}
			newClaimable.Sub(integral, integralFor)
			newClaimable.Mul(newClaimable, userBalance)
			newClaimable.Div(newClaimable, multiplier)
		}

		cd, xerr := s.claimData(user, token)
		if xerr != nil {
			return xerr
		}
		totalClaimable := new(uint256.Int).Add(cd.Claimable, newClaimable)
		if totalClaimable.IsZero() {
			continue
		}
		if claim {
			if xerr := ctx.TransferToken(token, receiver, totalClaimable); xerr != nil {
				return xerr
			}
			cd.Claimed = new(uint256.Int).Add(cd.Claimed, totalClaimable)
			cd.Claimable = uint256.NewInt(0)
			ctx.EmitEvent("claim",
				"gauge", ctx.Contract.String(),
				"user", user.String(),
				"receiver", receiver.String(),
				"token", token.String(),
				"amount", totalClaimable.Dec())
		} else if !newClaimable.IsZero() {
			cd.Claimable = totalClaimable
		} else {
			continue
		}
		if xerr := s.setClaimData(user, token, cd); xerr != nil {
			return xerr
		}
	}
	return nil
}

// claimRewards claims the rewards of the user (the caller by default).
// Only the user can redirect the rewards to a receiver.
func (s *gaugeStore) claimRewards(ctx *ctrlertypes.CallContext, info *GaugeInfo) xerrors.XError {
	var xerr xerrors.XError
	user := ctx.Caller
	if len(ctx.Args) > 0 {
		if user, xerr = ctrlertypes.ArgAddress(ctx.Args, 0); xerr != nil {
			return xerr
		}
	}
	var receiver types.Address
	if len(ctx.Args) > 1 {
		if receiver, xerr = ctrlertypes.ArgAddress(ctx.Args, 1); xerr != nil {
			return xerr
		}
		if !types.IsZeroAddress(receiver) && !user.Equal(ctx.Caller) {
			return xerrors.ErrInvalidParams.Wrapf("dev: cannot redirect when claiming for another user")
		}
	}
	return s.checkpointRewards(ctx, info, user, true, receiver)
}

// claimableRewardWrite settles the rewards of the user and returns the claimable amount of the token in RetData.
func (s *gaugeStore) claimableRewardWrite(ctx *ctrlertypes.CallContext, info *GaugeInfo) xerrors.XError {
	user, xerr := ctrlertypes.ArgAddress(ctx.Args, 0)
	if xerr != nil {
		return xerr
	}
	token, xerr := ctrlertypes.ArgAddress(ctx.Args, 1)
	if xerr != nil {
		return xerr
	}
	if info.hasRewards() {
		if xerr := s.checkpointRewards(ctx, info, user, false, nil); xerr != nil {
			return xerr
		}
	}
	cd, xerr := s.claimData(user, token)
	if xerr != nil {
		return xerr
	}
	ctx.RetData = ctrlertypes.AmountArg(cd.Claimable)
	return nil
}

// setRewards replaces the reward source and appends new reward tokens. Configured tokens can not be changed.
func (s *gaugeStore) setRewards(ctx *ctrlertypes.CallContext, info *GaugeInfo) xerrors.XError {
	if !info.isAdmin(ctx.Caller) {
		return xerrors.ErrAdminOnly
	}
	streamer, xerr := ctrlertypes.ArgAddress(ctx.Args, 0)
	if xerr != nil {
		return xerr
	}
	sig, xerr := ctrlertypes.ArgString(ctx.Args, 1)
	if xerr != nil {
		return xerr
	}
	tokens, xerr := ctrlertypes.ArgAddressArray(ctx.Args, 2, MaxRewards)
	if xerr != nil {
		return xerr
	}

	if info.hasRewards() {
		if xerr := s.checkpointRewards(ctx, info, nil, false, nil); xerr != nil {
			return xerr
		}
	}

	var selector []byte
	if !types.IsZeroAddress(streamer) {
		if types.IsZeroAddress(tokens[0]) {
			return xerrors.ErrInvalidParams.Wrapf("dev: no reward token")
		}
		// the streamer must not call back into the gauges.
		acct := ctx.AcctHandler.FindAccount(streamer, ctx.Exec)
		if acct == nil || acct.Kind != ctrlertypes.KIND_STREAMER {
			return xerrors.ErrInvalidParams.Wrapf("dev: not a streamer: %v", streamer)
		}
		if selector, xerr = pullSelector(sig); xerr != nil {
			return xerr
		}
	} else {
		streamer = nil
	}
	info.RewardContract = streamer
	info.PullSelector = selector
	info.LastClaim = 0

	for i := 0; i < MaxRewards; i++ {
		if i < len(info.RewardTokens) {
			if !info.RewardTokens[i].Equal(tokens[i]) {
				return xerrors.ErrInvalidParams.Wrapf("dev: cannot modify existing reward token")
			}
		} else if !types.IsZeroAddress(tokens[i]) {
			if _, xerr := ctx.AcctHandler.TokenInfo(tokens[i], ctx.Exec); xerr != nil {
				return xerr
			}
			info.RewardTokens = append(info.RewardTokens, tokens[i])
		} else {
			break
		}
	}

	if info.hasRewardContract() {
		// an initial checkpoint verifies that the pull works.
		if xerr := s.checkpointRewards(ctx, info, nil, false, nil); xerr != nil {
			return xerr
		}
	}
	ctx.EmitEvent("set_rewards",
		"gauge", ctx.Contract.String(),
		"reward_contract", types.AddressOrZero(info.RewardContract).String(),
		"selector", hex.EncodeToString(selector))
	return nil
}

// pullSelector accepts a method signature like "get_reward()" or a hex string whose first 4 bytes are the selector.
func pullSelector(sig string) ([]byte, xerrors.XError) {
	if strings.HasPrefix(sig, "0x") {
		bz, err := hex.DecodeString(sig[2:])
		if err != nil || len(bz) < 4 {
			return nil, xerrors.ErrInvalidParams.Wrapf("wrong pull selector: %s", sig)
		}
		return bz[:4], nil
	}
	if sig == "" {
		return nil, xerrors.ErrInvalidParams.Wrapf("empty pull signature")
	}
	return crypto.Selector(sig), nil
}
