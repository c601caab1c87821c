package jsonx

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

type testSub struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
}

type testStruct struct {
	Height  int64   `json:"height"`
	Nonce   uint64  `json:"nonce"`
	Already int64   `json:"already,string"`
	Small   int     `json:"small"`
	Sub     testSub `json:"sub"`
}

func TestMarshalIntegersAsString(t *testing.T) {
	v := testStruct{
		Height:  9223372036854775807,
		Nonce:   18446744073709551615,
		Already: 7,
		Small:   42,
		Sub:     testSub{Name: "sub", Count: -3},
	}

	bz, err := Marshal(v)
	require.NoError(t, err)

	var m map[string]interface{}
	require.NoError(t, json.Unmarshal(bz, &m))
	require.Equal(t, "9223372036854775807", m["height"])
	require.Equal(t, "18446744073709551615", m["nonce"])
	require.Equal(t, "7", m["already"])
	require.Equal(t, float64(42), m["small"])
	require.Equal(t, "-3", m["sub"].(map[string]interface{})["count"])

	var v2 testStruct
	require.NoError(t, Unmarshal(bz, &v2))
	require.Equal(t, v, v2)
}

func TestUnmarshalNumbers(t *testing.T) {
	var v testStruct
	require.NoError(t, Unmarshal([]byte(`{"height":100,"nonce":"5","sub":{"count":2}}`), &v))
	require.Equal(t, int64(100), v.Height)
	require.Equal(t, uint64(5), v.Nonce)
	require.Equal(t, int64(2), v.Sub.Count)
}
