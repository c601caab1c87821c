package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestChainID(t *testing.T) {
	cfg := DefaultConfig("veshibui-test")
	require.Equal(t, "veshibui-test", cfg.ChainID())

	cfg.SetChainID("veshibui-local")
	require.Equal(t, "veshibui-local", cfg.ChainID())

	require.NotEmpty(t, cfg.DBDir())
}
