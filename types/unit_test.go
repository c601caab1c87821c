package types_test

import (
	"math/rand"
	"strconv"
	"testing"

	"github.com/ShibuiDAO/veShibui/types"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
)

func TestConvertAmount(t *testing.T) {
	r := uint64(rand.Int63())
	amt := types.ToAmount(r)
	require.Equal(t, strconv.FormatUint(r, 10)+"000000000000000000", amt.Dec())

	q, rem := types.FromAmountRem(amt)
	require.Equal(t, r, q)
	require.Equal(t, uint64(0), rem)
}

func TestFormattedString(t *testing.T) {
	amt := uint256.MustFromDecimal("1500000000000000000")
	require.Equal(t, "1.500000000000000000", types.FormattedString(amt, types.DECIMAL))
	require.Equal(t, "0.000001", types.FormattedString(uint256.NewInt(1), 6))
}

func TestWeekFloor(t *testing.T) {
	require.Equal(t, int64(0), types.WeekFloor(types.WEEK-1))
	require.Equal(t, types.WEEK, types.WeekFloor(types.WEEK))
	require.Equal(t, 3*types.WEEK, types.WeekFloor(3*types.WEEK+types.DAY))
}
