package rpc

import (
	"testing"

	"github.com/stretchr/testify/require"
	tmrpccore "github.com/tendermint/tendermint/rpc/core"
)

func TestAddRoutes(t *testing.T) {
	AddRoutes()
	for _, r := range []string{
		"account", "deployments", "escrow_info", "streamer_info", "gauge_info", "vm_call", "txn",
		"subscribe", "unsubscribe", "validators", "eth_chainId", "eth_blockNumber",
	} {
		require.Contains(t, tmrpccore.Routes, r)
	}
	// the routes of tendermint are kept.
	require.Contains(t, tmrpccore.Routes, "abci_query")
	require.Contains(t, tmrpccore.Routes, "broadcast_tx_sync")
}

func TestParseHeight(t *testing.T) {
	h := int64(-1)
	require.Equal(t, int64(0), parseHeight(nil))
	require.Equal(t, int64(0), parseHeight(&h))
	h = 10
	require.Equal(t, int64(10), parseHeight(&h))
}
