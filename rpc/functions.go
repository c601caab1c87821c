package rpc

import (
	"github.com/ShibuiDAO/veShibui/libs/jsonx"
	"github.com/ShibuiDAO/veShibui/node"
	abytes "github.com/ShibuiDAO/veShibui/types/bytes"
	"github.com/ShibuiDAO/veShibui/types/xerrors"
	abcitypes "github.com/tendermint/tendermint/abci/types"
	tmbytes "github.com/tendermint/tendermint/libs/bytes"
	tmrpccore "github.com/tendermint/tendermint/rpc/core"
	tmrpccoretypes "github.com/tendermint/tendermint/rpc/core/types"
	tmrpctypes "github.com/tendermint/tendermint/rpc/jsonrpc/types"
)

type QueryResult struct {
	abcitypes.ResponseQuery `json:"response"`
}

func abciQuery(ctx *tmrpctypes.Context, path string, data []byte, heightPtr *int64) (*QueryResult, error) {
	if resp, err := tmrpccore.ABCIQuery(ctx, path, tmbytes.HexBytes(data), parseHeight(heightPtr), false); err != nil {
		return nil, err
	} else {
		return &QueryResult{resp.Response}, nil
	}
}

func QueryAccount(ctx *tmrpctypes.Context, addr abytes.HexBytes, heightPtr *int64) (*QueryResult, error) {
	return abciQuery(ctx, "account", addr, heightPtr)
}

func QueryDeployments(ctx *tmrpctypes.Context, heightPtr *int64) (*QueryResult, error) {
	return abciQuery(ctx, "deployments", nil, heightPtr)
}

func QueryEscrowInfo(ctx *tmrpctypes.Context, addr abytes.HexBytes, heightPtr *int64) (*QueryResult, error) {
	return abciQuery(ctx, "escrow/info", addr, heightPtr)
}

func QueryStreamerInfo(ctx *tmrpctypes.Context, addr abytes.HexBytes, heightPtr *int64) (*QueryResult, error) {
	return abciQuery(ctx, "streamer/info", addr, heightPtr)
}

func QueryGaugeInfo(ctx *tmrpctypes.Context, addr abytes.HexBytes, heightPtr *int64) (*QueryResult, error) {
	return abciQuery(ctx, "gauge/info", addr, heightPtr)
}

func QueryTxn(ctx *tmrpctypes.Context) (*QueryResult, error) {
	return abciQuery(ctx, "txn", nil, nil)
}

// QueryCall runs a view method of the contract `to`.
// `args` are the text forms of the arguments, e.g. ["0x1234..."] for "balanceOf(address)".
func QueryCall(
	ctx *tmrpctypes.Context,
	to abytes.HexBytes,
	method string,
	args []string,
	heightPtr *int64,
) (*QueryResult, error) {
	data, err := jsonx.Marshal(&node.CallRequest{To: to, Method: method, Args: args})
	if err != nil {
		return nil, err
	}
	return abciQuery(ctx, "call", data, heightPtr)
}

func Subscribe(ctx *tmrpctypes.Context, query string) (*tmrpccoretypes.ResultSubscribe, error) {
	// the event subscription is allowed only over websocket.
	if ctx.WSConn == nil || ctx.JSONReq == nil {
		return nil, xerrors.NewOrdinary("error connection type: no websocket connection")
	}
	return tmrpccore.Subscribe(ctx, query)
}

func Unsubscribe(ctx *tmrpctypes.Context, query string) (*tmrpccoretypes.ResultUnsubscribe, error) {
	return tmrpccore.Unsubscribe(ctx, query)
}

func Validators(ctx *tmrpctypes.Context, heightPtr *int64, pagePtr, perPagePtr *int) (*tmrpccoretypes.ResultValidators, error) {
	if heightPtr != nil && *heightPtr == 0 {
		heightPtr = nil
	}
	return tmrpccore.Validators(ctx, heightPtr, pagePtr, perPagePtr)
}
