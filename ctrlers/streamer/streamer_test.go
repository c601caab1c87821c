package streamer

import (
	"testing"

	"github.com/ShibuiDAO/veShibui/ctrlers/mocks"
	ctrlertypes "github.com/ShibuiDAO/veShibui/ctrlers/types"
	"github.com/ShibuiDAO/veShibui/libs/jsonx"
	"github.com/ShibuiDAO/veShibui/types"
	"github.com/ShibuiDAO/veShibui/types/xerrors"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
)

func TestStreamer_Permissions(t *testing.T) {
	env := newStreamerEnv(t)
	other := types.RandAddress()

	require.Equal(t, xerrors.ErrAdminOnly, env.sendStreamer(other, MethodAddReceiver, ctrlertypes.AddrArg(other)))
	require.Equal(t, xerrors.ErrAdminOnly, env.sendStreamer(other, MethodRemoveReceiver, ctrlertypes.AddrArg(other)))
	require.Equal(t, xerrors.ErrAdminOnly, env.sendStreamer(other, MethodSetRewardDuration, ctrlertypes.Int64Arg(types.DAY)))
	require.Equal(t, xerrors.ErrAdminOnly, env.sendStreamer(other, MethodSetRewardDistributor, ctrlertypes.AddrArg(other)))
	require.Equal(t, xerrors.ErrAdminOnly, env.sendStreamer(other, MethodCommitTransferOwnership, ctrlertypes.AddrArg(other)))
	require.ErrorContains(t, env.sendStreamer(other, MethodNotifyRewardAmount, ctrlertypes.AmountArg(types.ToAmount(1))), "dev: only distributor")
	require.ErrorContains(t, env.sendStreamer(other, MethodGetReward), "caller is not receiver")

	require.NoError(t, env.sendStreamer(env.owner, MethodAddReceiver, ctrlertypes.AddrArg(other)))
	require.ErrorContains(t, env.sendStreamer(env.owner, MethodAddReceiver, ctrlertypes.AddrArg(other)), "receiver is active")
	require.Equal(t, "true", string(env.view(ViewRewardReceivers, ctrlertypes.AddrArg(other))))
	require.Equal(t, uint64(1), env.viewUint(ViewReceiverCount))

	require.NoError(t, env.sendStreamer(env.owner, MethodRemoveReceiver, ctrlertypes.AddrArg(other)))
	require.ErrorContains(t, env.sendStreamer(env.owner, MethodRemoveReceiver, ctrlertypes.AddrArg(other)), "receiver is inactive")
	require.Equal(t, "false", string(env.view(ViewRewardReceivers, ctrlertypes.AddrArg(other))))
	require.Equal(t, uint64(0), env.viewUint(ViewReceiverCount))
}

func TestStreamer_Ownership(t *testing.T) {
	env := newStreamerEnv(t)
	newOwner := types.RandAddress()

	require.NoError(t, env.sendStreamer(env.owner, MethodCommitTransferOwnership, ctrlertypes.AddrArg(newOwner)))
	require.ErrorContains(t, env.sendStreamer(types.RandAddress(), MethodAcceptTransferOwnership), "dev: only new owner")
	require.NoError(t, env.sendStreamer(newOwner, MethodAcceptTransferOwnership))

	var owner types.Address
	require.NoError(t, jsonx.Unmarshal(env.view(ViewOwner), &owner))
	require.Equal(t, newOwner, owner)
	require.Equal(t, xerrors.ErrAdminOnly, env.sendStreamer(env.owner, MethodAddReceiver, ctrlertypes.AddrArg(newOwner)))
	require.NoError(t, env.sendStreamer(newOwner, MethodAddReceiver, ctrlertypes.AddrArg(newOwner)))
}

func TestStreamer_SingleReceiver(t *testing.T) {
	env := newStreamerEnv(t)
	receiver := types.RandAddress()
	amount := types.ToAmount(1000)

	require.NoError(t, env.sendStreamer(env.owner, MethodAddReceiver, ctrlertypes.AddrArg(receiver)))
	require.NoError(t, env.sendStreamer(env.owner, MethodNotifyRewardAmount, ctrlertypes.AmountArg(amount)))
	rate := new(uint256.Int).Div(amount, uint256.NewInt(uint64(duration)))
	require.Equal(t, rate.Dec(), env.viewAmount(ViewRewardRate).Dec())
	require.Equal(t, uint64(mocks.LastBlockCtx().TimeSeconds()+duration), env.viewUint(ViewPeriodFinish))

	env.mine(day)
	require.Equal(t, mulOf(rate, types.DAY).Dec(), env.viewAmount(ViewClaimable, ctrlertypes.AddrArg(receiver)).Dec())
	require.NoError(t, env.sendStreamer(receiver, MethodGetReward))
	require.Equal(t, mulOf(rate, types.DAY).Dec(), env.balanceOf(receiver).Dec())
	require.Equal(t, mulOf(rate, types.DAY).Dec(), env.viewAmount(ViewRewardPaid, ctrlertypes.AddrArg(receiver)).Dec())

	// nothing more in the same block
	require.NoError(t, env.sendStreamer(receiver, MethodGetReward))
	require.Equal(t, mulOf(rate, types.DAY).Dec(), env.balanceOf(receiver).Dec())

	// the rewards stop at the end of the epoch.
	env.mine(20 * day)
	require.NoError(t, env.sendStreamer(receiver, MethodGetReward))
	require.Equal(t, mulOf(rate, duration).Dec(), env.balanceOf(receiver).Dec())
	require.False(t, env.balanceOf(receiver).Gt(amount))
}

func TestStreamer_SplitBetweenReceivers(t *testing.T) {
	env := newStreamerEnv(t)
	r0, r1 := types.RandAddress(), types.RandAddress()
	amount := types.ToAmount(1000)

	require.NoError(t, env.sendStreamer(env.owner, MethodAddReceiver, ctrlertypes.AddrArg(r0)))
	require.NoError(t, env.sendStreamer(env.owner, MethodAddReceiver, ctrlertypes.AddrArg(r1)))
	require.NoError(t, env.sendStreamer(env.owner, MethodNotifyRewardAmount, ctrlertypes.AmountArg(amount)))
	rate := new(uint256.Int).Div(amount, uint256.NewInt(uint64(duration)))

	env.mine(2 * day)
	require.NoError(t, env.sendStreamer(r0, MethodGetReward))
	expected := new(uint256.Int).Div(mulOf(rate, 2*types.DAY), uint256.NewInt(2))
	require.Equal(t, expected.Dec(), env.balanceOf(r0).Dec())

	// removing r1 pays what it is owed and r0 gets the whole stream afterwards.
	require.NoError(t, env.sendStreamer(env.owner, MethodRemoveReceiver, ctrlertypes.AddrArg(r1)))
	require.Equal(t, expected.Dec(), env.balanceOf(r1).Dec())

	env.mine(day)
	require.NoError(t, env.sendStreamer(r0, MethodGetReward))
	expected.Add(expected, mulOf(rate, types.DAY))
	require.Equal(t, expected.Dec(), env.balanceOf(r0).Dec())
}

func TestStreamer_NoReceiverBacklog(t *testing.T) {
	env := newStreamerEnv(t)
	receiver := types.RandAddress()
	amount := types.ToAmount(1000)

	require.NoError(t, env.sendStreamer(env.owner, MethodNotifyRewardAmount, ctrlertypes.AmountArg(amount)))
	rate := new(uint256.Int).Div(amount, uint256.NewInt(uint64(duration)))

	env.mine(day)
	require.NoError(t, env.sendStreamer(env.owner, MethodAddReceiver, ctrlertypes.AddrArg(receiver)))
	env.mine(day)
	require.NoError(t, env.sendStreamer(receiver, MethodGetReward))
	require.Equal(t, mulOf(rate, 2*types.DAY).Dec(), env.balanceOf(receiver).Dec())
}

func TestStreamer_NotifyAndDuration(t *testing.T) {
	env := newStreamerEnv(t)
	amount := types.ToAmount(1000)

	require.NoError(t, env.sendStreamer(env.owner, MethodNotifyRewardAmount, ctrlertypes.AmountArg(amount)))
	rate := new(uint256.Int).Div(amount, uint256.NewInt(uint64(duration)))
	require.ErrorContains(t, env.sendStreamer(env.owner, MethodSetRewardDuration, ctrlertypes.Int64Arg(types.DAY)), "reward period currently active")

	// the rest of the running epoch is added to the new one.
	env.mine(4 * day)
	require.NoError(t, env.sendStreamer(env.owner, MethodNotifyRewardAmount, ctrlertypes.AmountArg(amount)))
	leftover := mulOf(rate, duration-4*types.DAY)
	newRate := new(uint256.Int).Div(new(uint256.Int).Add(amount, leftover), uint256.NewInt(uint64(duration)))
	require.Equal(t, newRate.Dec(), env.viewAmount(ViewRewardRate).Dec())
	require.Equal(t, uint64(mocks.LastBlockCtx().TimeSeconds()), env.viewUint(ViewLastUpdateTime))

	env.mine(11 * day)
	require.NoError(t, env.sendStreamer(env.owner, MethodSetRewardDuration, ctrlertypes.Int64Arg(types.DAY)))
	require.Equal(t, uint64(types.DAY), env.viewUint(ViewRewardDuration))

	distributor := types.RandAddress()
	require.NoError(t, env.sendStreamer(env.owner, MethodSetRewardDistributor, ctrlertypes.AddrArg(distributor)))
	require.ErrorContains(t, env.sendStreamer(env.owner, MethodNotifyRewardAmount, ctrlertypes.AmountArg(amount)), "dev: only distributor")
	require.ErrorContains(t, env.sendStreamer(distributor, MethodNotifyRewardAmount, ctrlertypes.AmountArg(amount)), xerrors.ErrInsufficientAllowance.Error())
}
