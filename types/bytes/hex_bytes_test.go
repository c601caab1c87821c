package bytes

import (
	"encoding/base64"
	"encoding/hex"
	"testing"

	"github.com/ShibuiDAO/veShibui/libs/jsonx"
	"github.com/stretchr/testify/require"
)

var (
	bz20 = RandBytes(20)
)

func Test_UnmarshalJSON_HexString(t *testing.T) {
	data := []byte("\"" + hex.EncodeToString(bz20) + "\"")

	hexBytes := HexBytes{}
	require.NoError(t, jsonx.Unmarshal(data, &hexBytes))
	require.Equal(t, HexBytes(bz20), hexBytes)
}

func Test_UnmarshalJSON_0xHexString(t *testing.T) {
	data := []byte("\"0x" + hex.EncodeToString(bz20) + "\"")

	hexBytes := HexBytes{}
	require.NoError(t, jsonx.Unmarshal(data, &hexBytes))
	require.Equal(t, HexBytes(bz20), hexBytes)
}

func Test_UnmarshalJSON_Base64(t *testing.T) {
	// 20 bytes encode to a 28 chars base64 string which contains '='
	data := []byte("\"" + base64.StdEncoding.EncodeToString(bz20) + "\"")

	hexBytes := HexBytes{}
	require.NoError(t, jsonx.Unmarshal(data, &hexBytes))
	require.Equal(t, HexBytes(bz20), hexBytes)
}

func Test_MarshalJSON(t *testing.T) {
	bz, err := jsonx.Marshal(HexBytes(bz20))
	require.NoError(t, err)
	require.Equal(t, "\"0x"+hex.EncodeToString(bz20)+"\"", string(bz))
}

func Test_IsZero(t *testing.T) {
	require.True(t, ZeroBytes(20).IsZero())
	require.True(t, HexBytes(nil).IsZero())
	require.False(t, HexBytes([]byte{0, 0, 1}).IsZero())
}
