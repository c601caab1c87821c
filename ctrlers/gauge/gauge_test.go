package gauge

import (
	"encoding/hex"
	"testing"

	"github.com/ShibuiDAO/veShibui/ctrlers/mocks"
	"github.com/ShibuiDAO/veShibui/ctrlers/streamer"
	ctrlertypes "github.com/ShibuiDAO/veShibui/ctrlers/types"
	"github.com/ShibuiDAO/veShibui/libs/jsonx"
	"github.com/ShibuiDAO/veShibui/types"
	"github.com/ShibuiDAO/veShibui/types/crypto"
	"github.com/ShibuiDAO/veShibui/types/xerrors"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
)

var decimals = types.ToAmount(1)

func TestRewardsDripping(t *testing.T) {
	env := newGaugeEnv(t)
	distribution := types.ToAmount(10_000)

	a1, a2 := types.RandAddress(), types.RandAddress()
	env.fundLP(a1, types.ToAmount(1000))
	env.fundLP(a2, types.ToAmount(1000))
	env.setupRewards(distribution)

	// deposit using 2 users at a 1:2 ratio
	half := new(uint256.Int).Div(decimals, uint256.NewInt(2))
	require.NoError(t, env.sendGauge(a1, MethodDeposit, ctrlertypes.AmountArg(half)))
	require.NoError(t, env.sendGauge(a2, MethodDeposit, ctrlertypes.AmountArg(decimals)))

	require.Equal(t, half.Dec(), env.viewAmount(ViewBalanceOf, ctrlertypes.AddrArg(a1)).Dec())
	require.Equal(t, decimals.Dec(), env.viewAmount(ViewBalanceOf, ctrlertypes.AddrArg(a2)).Dec())
	require.True(t, env.viewAmount(ViewClaimedReward, ctrlertypes.AddrArg(a1), ctrlertypes.AddrArg(env.reward)).IsZero())
	require.True(t, env.viewAmount(ViewClaimedReward, ctrlertypes.AddrArg(a2), ctrlertypes.AddrArg(env.reward)).IsZero())

	require.NoError(t, env.setRewards(env.streamer, streamer.MethodGetReward, env.reward))
	require.NoError(t, env.send(env.admin, env.streamer, streamer.MethodNotifyRewardAmount, ctrlertypes.AmountArg(distribution)))
	require.Equal(t, distribution.Dec(), env.tokenBalance(env.reward, env.streamer).Dec())

	fraction := new(uint256.Int).Div(distribution, uint256.NewInt(epochs*3))
	for i := 0; i < 2; i++ {
		env.mine(day)

		b1, b2 := env.tokenBalance(env.reward, a1), env.tokenBalance(env.reward, a2)
		require.NoError(t, env.sendGauge(a1, MethodClaimRewards))
		require.NoError(t, env.sendGauge(a2, MethodClaimRewards))

		d1 := subOf(env.tokenBalance(env.reward, a1), b1)
		d2 := subOf(env.tokenBalance(env.reward, a2), b2)
		require.True(t, mocks.ApproxAmount(d1, fraction, 1e-5), "day %d: %v", i+1, d1)
		require.True(t, mocks.ApproxAmount(d2, new(uint256.Int).Mul(fraction, uint256.NewInt(2)), 1e-5), "day %d: %v", i+1, d2)
	}

	claimed := new(uint256.Int).Add(
		env.viewAmount(ViewClaimedReward, ctrlertypes.AddrArg(a1), ctrlertypes.AddrArg(env.reward)),
		env.viewAmount(ViewClaimedReward, ctrlertypes.AddrArg(a2), ctrlertypes.AddrArg(env.reward)))
	require.Equal(t, claimed.Dec(), new(uint256.Int).Add(env.tokenBalance(env.reward, a1), env.tokenBalance(env.reward, a2)).Dec())
	// what the gauge keeps is the truncation dust.
	require.True(t, env.tokenBalance(env.reward, env.gauge).Lt(uint256.NewInt(10)))
}

func TestDepositWithdraw(t *testing.T) {
	env := newGaugeEnv(t)
	user, other := types.RandAddress(), types.RandAddress()
	env.fundLP(user, types.ToAmount(100))

	var name, symbol string
	require.NoError(t, jsonx.Unmarshal(env.view(ViewName), &name))
	require.NoError(t, jsonx.Unmarshal(env.view(ViewSymbol), &symbol))
	require.Equal(t, "OLP RewardGauge Deposit", name)
	require.Equal(t, "OLP-gauge", symbol)
	require.Equal(t, env.lpToken, env.viewAddress(ViewLpToken))

	// zero amounts do nothing
	require.NoError(t, env.sendGauge(user, MethodDeposit, ctrlertypes.AmountArg(uint256.NewInt(0))))
	require.NoError(t, env.sendGauge(user, MethodWithdraw, ctrlertypes.AmountArg(uint256.NewInt(0))))
	require.True(t, env.viewAmount(ViewTotalSupply).IsZero())

	require.NoError(t, env.sendGauge(user, MethodDeposit, ctrlertypes.AmountArg(types.ToAmount(60))))
	require.NoError(t, env.sendGauge(user, MethodDepositFor, ctrlertypes.AmountArg(types.ToAmount(40)), ctrlertypes.AddrArg(other)))
	require.Equal(t, types.ToAmount(60).Dec(), env.viewAmount(ViewBalanceOf, ctrlertypes.AddrArg(user)).Dec())
	require.Equal(t, types.ToAmount(40).Dec(), env.viewAmount(ViewBalanceOf, ctrlertypes.AddrArg(other)).Dec())
	require.Equal(t, types.ToAmount(100).Dec(), env.viewAmount(ViewTotalSupply).Dec())
	require.True(t, env.tokenBalance(env.lpToken, user).IsZero())
	require.Equal(t, types.ToAmount(100).Dec(), env.tokenBalance(env.lpToken, env.gauge).Dec())

	require.ErrorContains(t, env.sendGauge(user, MethodDeposit, ctrlertypes.AmountArg(types.ToAmount(1))), xerrors.ErrInsufficientFund.Error())
	require.ErrorContains(t, env.sendGauge(user, MethodWithdraw, ctrlertypes.AmountArg(types.ToAmount(61))), xerrors.ErrInsufficientFund.Error())

	require.NoError(t, env.sendGauge(user, MethodWithdraw, ctrlertypes.AmountArg(types.ToAmount(10))))
	require.NoError(t, env.sendGauge(other, MethodWithdrawClaim, ctrlertypes.AmountArg(types.ToAmount(40)), ctrlertypes.BoolArg(true)))
	require.Equal(t, types.ToAmount(10).Dec(), env.tokenBalance(env.lpToken, user).Dec())
	require.Equal(t, types.ToAmount(40).Dec(), env.tokenBalance(env.lpToken, other).Dec())
	require.Equal(t, types.ToAmount(50).Dec(), env.viewAmount(ViewTotalSupply).Dec())
}

func TestTransferAndAllowance(t *testing.T) {
	env := newGaugeEnv(t)
	a1, a2, spender := types.RandAddress(), types.RandAddress(), types.RandAddress()
	env.fundLP(a1, types.ToAmount(100))
	env.setupRewards(types.ToAmount(10_000))
	require.NoError(t, env.sendGauge(a1, MethodDeposit, ctrlertypes.AmountArg(types.ToAmount(100))))
	require.NoError(t, env.setRewards(env.streamer, streamer.MethodGetReward, env.reward))
	require.NoError(t, env.send(env.admin, env.streamer, streamer.MethodNotifyRewardAmount, ctrlertypes.AmountArg(types.ToAmount(10_000))))

	env.mine(day)
	// a1 owns all shares for the first day.
	require.NoError(t, env.sendGauge(a1, MethodTransfer, ctrlertypes.AddrArg(a2), ctrlertypes.AmountArg(types.ToAmount(50))))
	firstDay := env.viewAmount(ViewClaimableReward, ctrlertypes.AddrArg(a1), ctrlertypes.AddrArg(env.reward))
	require.True(t, mocks.ApproxAmount(firstDay, types.ToAmount(400), 1e-9), firstDay.Dec())
	require.True(t, env.viewAmount(ViewClaimableReward, ctrlertypes.AddrArg(a2), ctrlertypes.AddrArg(env.reward)).IsZero())

	require.ErrorContains(t, env.send(spender, env.gauge, MethodTransferFrom, ctrlertypes.AddrArg(a1), ctrlertypes.AddrArg(spender), ctrlertypes.AmountArg(types.ToAmount(1))),
		xerrors.ErrInsufficientAllowance.Error())
	require.NoError(t, env.sendGauge(a1, MethodApprove, ctrlertypes.AddrArg(spender), ctrlertypes.AmountArg(types.ToAmount(10))))
	require.NoError(t, env.sendGauge(a1, MethodIncreaseAllowance, ctrlertypes.AddrArg(spender), ctrlertypes.AmountArg(types.ToAmount(5))))
	require.NoError(t, env.sendGauge(a1, MethodDecreaseAllowance, ctrlertypes.AddrArg(spender), ctrlertypes.AmountArg(types.ToAmount(3))))
	require.Equal(t, types.ToAmount(12).Dec(), env.viewAmount(ViewAllowance, ctrlertypes.AddrArg(a1), ctrlertypes.AddrArg(spender)).Dec())

	require.NoError(t, env.send(spender, env.gauge, MethodTransferFrom, ctrlertypes.AddrArg(a1), ctrlertypes.AddrArg(spender), ctrlertypes.AmountArg(types.ToAmount(12))))
	require.True(t, env.viewAmount(ViewAllowance, ctrlertypes.AddrArg(a1), ctrlertypes.AddrArg(spender)).IsZero())
	require.Equal(t, types.ToAmount(38).Dec(), env.viewAmount(ViewBalanceOf, ctrlertypes.AddrArg(a1)).Dec())
	require.Equal(t, types.ToAmount(12).Dec(), env.viewAmount(ViewBalanceOf, ctrlertypes.AddrArg(spender)).Dec())

	// the second day is split by the shares.
	env.mine(day)
	for _, u := range []types.Address{a1, a2, spender} {
		require.NoError(t, env.sendGauge(u, MethodClaimRewards))
	}
	got1 := subOf(env.tokenBalance(env.reward, a1), firstDay)
	require.True(t, mocks.ApproxAmount(got1, types.ToAmount(400*38/100), 1e-6), got1.Dec())
	require.True(t, mocks.ApproxAmount(env.tokenBalance(env.reward, a2), types.ToAmount(400*50/100), 1e-6))
	require.True(t, mocks.ApproxAmount(env.tokenBalance(env.reward, spender), types.ToAmount(400*12/100), 1e-6))
}

func TestClaimReceivers(t *testing.T) {
	env := newGaugeEnv(t)
	user, receiver, other := types.RandAddress(), types.RandAddress(), types.RandAddress()
	env.fundLP(user, types.ToAmount(100))
	env.setupRewards(types.ToAmount(10_000))
	require.NoError(t, env.sendGauge(user, MethodDeposit, ctrlertypes.AmountArg(types.ToAmount(100))))
	require.NoError(t, env.setRewards(env.streamer, streamer.MethodGetReward, env.reward))
	require.NoError(t, env.send(env.admin, env.streamer, streamer.MethodNotifyRewardAmount, ctrlertypes.AmountArg(types.ToAmount(10_000))))

	env.mine(day)
	require.ErrorContains(t, env.sendGauge(other, MethodClaimRewardsTo, ctrlertypes.AddrArg(user), ctrlertypes.AddrArg(other)), "cannot redirect")

	// the default receiver
	require.NoError(t, env.sendGauge(user, MethodSetRewardsReceiver, ctrlertypes.AddrArg(receiver)))
	require.Equal(t, receiver, env.viewAddress(ViewRewardsReceiver, ctrlertypes.AddrArg(user)))
	// anyone can claim for the user.
	require.NoError(t, env.sendGauge(other, MethodClaimRewardsFor, ctrlertypes.AddrArg(user)))
	paid := env.tokenBalance(env.reward, receiver)
	require.True(t, mocks.ApproxAmount(paid, types.ToAmount(400), 1e-9))
	require.True(t, env.tokenBalance(env.reward, user).IsZero())
	require.Equal(t, paid.Dec(), env.viewAmount(ViewClaimedReward, ctrlertypes.AddrArg(user), ctrlertypes.AddrArg(env.reward)).Dec())

	// an explicit receiver wins.
	env.mine(day)
	require.NoError(t, env.sendGauge(user, MethodClaimRewardsTo, ctrlertypes.AddrArg(user), ctrlertypes.AddrArg(other)))
	require.True(t, mocks.ApproxAmount(env.tokenBalance(env.reward, other), types.ToAmount(400), 1e-9))

	// without the default receiver, the rewards go to the user.
	require.NoError(t, env.sendGauge(user, MethodSetRewardsReceiver, ctrlertypes.AddrArg(types.ZeroAddress())))
	require.True(t, env.viewAddress(ViewRewardsReceiver, ctrlertypes.AddrArg(user)).IsZero())
	env.mine(day)
	require.NoError(t, env.sendGauge(user, MethodClaimableRewardWrite, ctrlertypes.AddrArg(user), ctrlertypes.AddrArg(env.reward)))
	claimable := env.viewAmount(ViewClaimableReward, ctrlertypes.AddrArg(user), ctrlertypes.AddrArg(env.reward))
	require.True(t, mocks.ApproxAmount(claimable, types.ToAmount(400), 1e-9))
	require.NoError(t, env.sendGauge(user, MethodClaimRewards))
	require.Equal(t, claimable.Dec(), env.tokenBalance(env.reward, user).Dec())
	require.True(t, env.viewAmount(ViewClaimableReward, ctrlertypes.AddrArg(user), ctrlertypes.AddrArg(env.reward)).IsZero())
}

func TestSetRewards(t *testing.T) {
	env := newGaugeEnv(t)
	other := types.RandAddress()
	env.setupRewards(types.ToAmount(10_000))

	require.Equal(t, xerrors.ErrAdminOnly, env.sendGauge(other, MethodSetRewards,
		ctrlertypes.AddrArg(env.streamer), ctrlertypes.StringArg(streamer.MethodGetReward), ctrlertypes.AddrArrayArg(make([]types.Address, MaxRewards)...)))
	require.ErrorContains(t, env.setRewards(env.streamer, streamer.MethodGetReward), "dev: no reward token")
	require.ErrorContains(t, env.setRewards(env.lpToken, streamer.MethodGetReward, env.reward), "dev: not a streamer")
	require.ErrorContains(t, env.setRewards(env.gauge, streamer.MethodGetReward, env.reward), "dev: not a streamer")

	// the selector can be given in hex.
	require.NoError(t, env.setRewards(env.streamer, "0x"+hexSelector(streamer.MethodGetReward)+"00000000", env.reward))
	require.Equal(t, env.streamer, env.viewAddress(ViewRewardContract))
	require.Equal(t, env.reward, env.viewAddress(ViewRewardTokens, ctrlertypes.Int64Arg(0)))
	require.True(t, env.viewAddress(ViewRewardTokens, ctrlertypes.Int64Arg(1)).IsZero())

	// configured tokens can not be changed or removed.
	require.ErrorContains(t, env.setRewards(env.streamer, streamer.MethodGetReward, env.lpToken), "cannot modify existing reward token")
	require.ErrorContains(t, env.setRewards(types.ZeroAddress(), ""), "cannot modify existing reward token")

	// new tokens are appended.
	require.NoError(t, env.setRewards(env.streamer, streamer.MethodGetReward, env.reward, env.lpToken))
	require.Equal(t, env.lpToken, env.viewAddress(ViewRewardTokens, ctrlertypes.Int64Arg(1)))

	// the reward contract can be unset.
	require.NoError(t, env.setRewards(types.ZeroAddress(), "", env.reward, env.lpToken))
	require.True(t, env.viewAddress(ViewRewardContract).IsZero())
	require.Equal(t, env.reward, env.viewAddress(ViewRewardTokens, ctrlertypes.Int64Arg(0)))
}

func TestGaugeOwnership(t *testing.T) {
	env := newGaugeEnv(t)
	newAdmin := types.RandAddress()

	require.Equal(t, xerrors.ErrAdminOnly, env.sendGauge(newAdmin, MethodCommitTransferOwnership, ctrlertypes.AddrArg(newAdmin)))
	require.NoError(t, env.sendGauge(env.admin, MethodCommitTransferOwnership, ctrlertypes.AddrArg(newAdmin)))
	require.Equal(t, newAdmin, env.viewAddress(ViewFutureAdmin))
	require.ErrorContains(t, env.sendGauge(env.admin, MethodAcceptTransferOwnership), "dev: future admin only")
	require.NoError(t, env.sendGauge(newAdmin, MethodAcceptTransferOwnership))
	require.Equal(t, newAdmin, env.viewAddress(ViewAdmin))
	require.Equal(t, xerrors.ErrAdminOnly, env.setRewards(types.ZeroAddress(), ""))
}

func hexSelector(method string) string {
	return hex.EncodeToString(crypto.Selector(method))
}
