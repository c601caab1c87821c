package types_test

import (
	"testing"

	ctrlertypes "github.com/ShibuiDAO/veShibui/ctrlers/types"
	"github.com/ShibuiDAO/veShibui/types"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
)

func TestArgs(t *testing.T) {
	addr := types.RandAddress()
	amt := types.ToAmount(7)
	args := [][]byte{
		ctrlertypes.AddrArg(addr),
		ctrlertypes.AmountArg(amt),
		ctrlertypes.Int64Arg(types.WEEK),
		ctrlertypes.StringArg("get_reward()"),
		ctrlertypes.BoolArg(true),
		ctrlertypes.AddrArrayArg(addr, nil, addr),
	}

	_addr, xerr := ctrlertypes.ArgAddress(args, 0)
	require.NoError(t, xerr)
	require.Equal(t, addr, _addr)

	_amt, xerr := ctrlertypes.ArgUint256(args, 1)
	require.NoError(t, xerr)
	require.Equal(t, amt.Dec(), _amt.Dec())

	n, xerr := ctrlertypes.ArgInt64(args, 2)
	require.NoError(t, xerr)
	require.Equal(t, types.WEEK, n)

	s, xerr := ctrlertypes.ArgString(args, 3)
	require.NoError(t, xerr)
	require.Equal(t, "get_reward()", s)

	b, xerr := ctrlertypes.ArgBool(args, 4)
	require.NoError(t, xerr)
	require.True(t, b)

	addrs, xerr := ctrlertypes.ArgAddressArray(args, 5, 3)
	require.NoError(t, xerr)
	require.Equal(t, addr, addrs[0])
	require.True(t, addrs[1].IsZero())
	require.Equal(t, addr, addrs[2])

	// wrong types and missing arguments
	_, xerr = ctrlertypes.ArgAddress(args, 1)
	require.Error(t, xerr)
	_, xerr = ctrlertypes.ArgAddressArray(args, 5, 8)
	require.Error(t, xerr)
	_, xerr = ctrlertypes.ArgUint256(args, 6)
	require.Error(t, xerr)

	huge := [][]byte{ctrlertypes.AmountArg(new(uint256.Int).Lsh(uint256.NewInt(1), 100))}
	_, xerr = ctrlertypes.ArgInt64(huge, 0)
	require.Error(t, xerr)
}

func TestParseArgs(t *testing.T) {
	addr := types.RandAddress()

	args, xerr := ctrlertypes.ParseArgs("deposit_for(address,uint256)", []string{addr.String(), "1000"})
	require.NoError(t, xerr)
	require.Len(t, args, 2)
	_addr, xerr := ctrlertypes.ArgAddress(args, 0)
	require.NoError(t, xerr)
	require.Equal(t, addr, _addr)
	v, xerr := ctrlertypes.ArgUint256(args, 1)
	require.NoError(t, xerr)
	require.Equal(t, uint64(1000), v.Uint64())

	args, xerr = ctrlertypes.ParseArgs("checkpoint()", nil)
	require.NoError(t, xerr)
	require.Len(t, args, 0)

	args, xerr = ctrlertypes.ParseArgs("set_rewards(address,string,address[8])",
		[]string{addr.String(), "get_reward()", addr.String()})
	require.NoError(t, xerr)
	addrs, xerr := ctrlertypes.ArgAddressArray(args, 2, 8)
	require.NoError(t, xerr)
	require.Equal(t, addr, addrs[0])
	require.True(t, addrs[7].IsZero())

	_, xerr = ctrlertypes.ParseArgs("deposit(uint256)", []string{"1", "2"})
	require.Error(t, xerr)
	_, xerr = ctrlertypes.ParseArgs("deposit(uint256)", []string{"-1"})
	require.Error(t, xerr)
	_, xerr = ctrlertypes.ParseArgs("deposit", []string{"1"})
	require.Error(t, xerr)
}
