package version

import (
	"github.com/stretchr/testify/require"
	"strconv"
	"testing"
)

func TestVersionParsing(t *testing.T) {
	parseVersions("v1.2.3", "abcdef0123")
	require.Equal(t, uint64(1), majorVer)
	require.Equal(t, uint64(2), minorVer)
	require.Equal(t, uint64(3), patchVer)

	n, err := strconv.ParseUint("abcdef0123", 16, 64)
	require.NoError(t, err)
	require.Equal(t, n, commitVer)
}

func TestVersionUint64(t *testing.T) {
	parseVersions("v1.2.3", "")
	require.Equal(t, uint64(0x0102000000000000), Uint64(MASK_MAJOR_VER, MASK_MINOR_VER))
	require.Equal(t, uint64(0x0000000300000000), Uint64(MASK_PATCH_VER))
}
