package gauge

import (
	"encoding/hex"

	ctrlertypes "github.com/ShibuiDAO/veShibui/ctrlers/types"
	"github.com/ShibuiDAO/veShibui/libs/jsonx"
	"github.com/ShibuiDAO/veShibui/types"
	"github.com/ShibuiDAO/veShibui/types/crypto"
	"github.com/ShibuiDAO/veShibui/types/xerrors"
	abcitypes "github.com/tendermint/tendermint/abci/types"
)

const (
	ViewName              = "name()"
	ViewSymbol            = "symbol()"
	ViewDecimals          = "decimals()"
	ViewTotalSupply       = "totalSupply()"
	ViewBalanceOf         = "balanceOf(address)"
	ViewAllowance         = "allowance(address,address)"
	ViewLpToken           = "lp_token()"
	ViewAdmin             = "admin()"
	ViewFutureAdmin       = "future_admin()"
	ViewRewardContract    = "reward_contract()"
	ViewLastClaim         = "last_claim()"
	ViewRewardTokens      = "reward_tokens(uint256)"
	ViewRewardIntegral    = "reward_integral(address)"
	ViewRewardIntegralFor = "reward_integral_for(address,address)"
	ViewClaimedReward     = "claimed_reward(address,address)"
	ViewClaimableReward   = "claimable_reward(address,address)"
	ViewRewardsReceiver   = "rewards_receiver(address)"
)

var gaugeViews = map[string]string{}

func init() {
	for _, v := range []string{
		ViewName, ViewSymbol, ViewDecimals, ViewTotalSupply, ViewBalanceOf, ViewAllowance,
		ViewLpToken, ViewAdmin, ViewFutureAdmin, ViewRewardContract, ViewLastClaim,
		ViewRewardTokens, ViewRewardIntegral, ViewRewardIntegralFor,
		ViewClaimedReward, ViewClaimableReward, ViewRewardsReceiver,
	} {
		gaugeViews[string(crypto.Selector(v))] = v
	}
}

// View answers the read-only methods of the gauge `ctx.Contract` as of the block `height`.
func (ctrler *GaugeCtrler) View(ctx *ctrlertypes.CallContext, height int64) ([]byte, xerrors.XError) {
	view, ok := gaugeViews[string(ctx.Selector)]
	if !ok {
		return nil, xerrors.ErrUnknownMethod.Wrapf("selector: %x", ctx.Selector)
	}

	ledger, xerr := ctrler.gaugeState.ImitableLedgerAt(height)
	if xerr != nil {
		return nil, xerrors.ErrQuery.Wrap(xerr)
	}
	s := &gaugeStore{ledger: ledger, contract: ctx.Contract}
	info, xerr := s.info()
	if xerr != nil {
		return nil, xerr
	}

	ret, xerr := s.view(ctx, info, view)
	if xerr != nil {
		return nil, xerr
	}
	raw, err := jsonx.Marshal(ret)
	if err != nil {
		return nil, xerrors.ErrQuery.Wrap(err)
	}
	return raw, nil
}

func (s *gaugeStore) view(ctx *ctrlertypes.CallContext, info *GaugeInfo, view string) (interface{}, xerrors.XError) {
	switch view {
	case ViewName:
		return info.Name, nil
	case ViewSymbol:
		return info.Symbol, nil
	case ViewDecimals:
		return 18, nil
	case ViewTotalSupply:
		return info.TotalSupply.Dec(), nil
	case ViewLpToken:
		return addressOrZero(info.LpToken), nil
	case ViewAdmin:
		return addressOrZero(info.Admin), nil
	case ViewFutureAdmin:
		return addressOrZero(info.FutureAdmin), nil
	case ViewRewardContract:
		return addressOrZero(info.RewardContract), nil
	case ViewLastClaim:
		return info.LastClaim, nil
	case ViewRewardTokens:
		idx, xerr := ctrlertypes.ArgInt64(ctx.Args, 0)
		if xerr != nil {
			return nil, xerr
		}
		if idx >= int64(len(info.RewardTokens)) {
			return types.ZeroAddress(), nil
		}
		return info.RewardTokens[idx], nil
	}

	addr0, xerr := ctrlertypes.ArgAddress(ctx.Args, 0)
	if xerr != nil {
		return nil, xerr
	}
	switch view {
	case ViewBalanceOf:
		bal, xerr := s.balanceOf(addr0)
		if xerr != nil {
			return nil, xerr
		}
		return bal.Dec(), nil
	case ViewRewardIntegral:
		v, xerr := s.integral(addr0)
		if xerr != nil {
			return nil, xerr
		}
		return v.Dec(), nil
	case ViewRewardsReceiver:
		r, xerr := s.rewardsReceiver(addr0)
		if xerr != nil {
			return nil, xerr
		}
		return addressOrZero(r), nil
	}

	addr1, xerr := ctrlertypes.ArgAddress(ctx.Args, 1)
	if xerr != nil {
		return nil, xerr
	}
	switch view {
	case ViewAllowance:
		v, xerr := s.allowance(addr0, addr1)
		if xerr != nil {
			return nil, xerr
		}
		return v.Dec(), nil
	case ViewRewardIntegralFor:
		// reward_integral_for(token, user)
		v, xerr := s.integralFor(addr0, addr1)
		if xerr != nil {
			return nil, xerr
		}
		return v.Dec(), nil
	case ViewClaimedReward, ViewClaimableReward:
		// (user, token)
		cd, xerr := s.claimData(addr0, addr1)
		if xerr != nil {
			return nil, xerr
		}
		if view == ViewClaimedReward {
			return cd.Claimed.Dec(), nil
		}
		return cd.Claimable.Dec(), nil
	}
	return nil, xerrors.ErrUnknownMethod.Wrapf("view: %s", view)
}

func addressOrZero(addr types.Address) types.Address {
	if len(addr) == 0 {
		return types.ZeroAddress()
	}
	return addr
}

type gaugeJSON struct {
	Name           string          `json:"name"`
	Symbol         string          `json:"symbol"`
	LpToken        types.Address   `json:"lp_token"`
	Admin          types.Address   `json:"admin"`
	FutureAdmin    types.Address   `json:"future_admin"`
	TotalSupply    string          `json:"total_supply"`
	RewardContract types.Address   `json:"reward_contract"`
	PullSelector   string          `json:"pull_selector"`
	LastClaim      uint64          `json:"last_claim"`
	RewardTokens   []types.Address `json:"reward_tokens"`
}

// Query answers the path "gauge/info" whose data is the gauge address.
func (ctrler *GaugeCtrler) Query(_ *ctrlertypes.BlockContext, req abcitypes.RequestQuery) ([]byte, xerrors.XError) {
	if req.Path != "gauge/info" {
		return nil, xerrors.ErrInvalidQueryPath
	}
	if len(req.Data) != types.AddrSize {
		return nil, xerrors.ErrInvalidQueryParams
	}

	ledger, xerr := ctrler.gaugeState.ImitableLedgerAt(req.Height)
	if xerr != nil {
		return nil, xerrors.ErrQuery.Wrap(xerr)
	}
	info, xerr := (&gaugeStore{ledger: ledger, contract: req.Data}).info()
	if xerr != nil {
		return nil, xerr
	}

	raw, err := jsonx.Marshal(&gaugeJSON{
		Name:           info.Name,
		Symbol:         info.Symbol,
		LpToken:        addressOrZero(info.LpToken),
		Admin:          addressOrZero(info.Admin),
		FutureAdmin:    addressOrZero(info.FutureAdmin),
		TotalSupply:    info.TotalSupply.Dec(),
		RewardContract: addressOrZero(info.RewardContract),
		PullSelector:   hex.EncodeToString(info.PullSelector),
		LastClaim:      info.LastClaim,
		RewardTokens:   info.RewardTokens,
	})
	if err != nil {
		return nil, xerrors.ErrQuery.Wrap(err)
	}
	return raw, nil
}
