package rpc

import (
	tmrpccore "github.com/tendermint/tendermint/rpc/core"
	tmrpcserver "github.com/tendermint/tendermint/rpc/jsonrpc/server"
)

// AddRoutes registers the query routes of veShibui on the rpc server of tendermint.
// It must be called before the node starts.
func AddRoutes() {
	tmrpccore.Routes["account"] = tmrpcserver.NewRPCFunc(QueryAccount, "addr,height")
	tmrpccore.Routes["deployments"] = tmrpcserver.NewRPCFunc(QueryDeployments, "height")
	tmrpccore.Routes["escrow_info"] = tmrpcserver.NewRPCFunc(QueryEscrowInfo, "addr,height")
	tmrpccore.Routes["streamer_info"] = tmrpcserver.NewRPCFunc(QueryStreamerInfo, "addr,height")
	tmrpccore.Routes["gauge_info"] = tmrpcserver.NewRPCFunc(QueryGaugeInfo, "addr,height")
	tmrpccore.Routes["vm_call"] = tmrpcserver.NewRPCFunc(QueryCall, "to,method,args,height")
	tmrpccore.Routes["txn"] = tmrpcserver.NewRPCFunc(QueryTxn, "")

	tmrpccore.Routes["subscribe"] = tmrpcserver.NewWSRPCFunc(Subscribe, "query")
	tmrpccore.Routes["unsubscribe"] = tmrpcserver.NewWSRPCFunc(Unsubscribe, "query")
	tmrpccore.Routes["validators"] = tmrpcserver.NewRPCFunc(Validators, "height,page,per_page", tmrpcserver.Cacheable("height"))

	tmrpccore.Routes["eth_chainId"] = tmrpcserver.NewRPCFunc(EthChainId, "")
	tmrpccore.Routes["eth_blockNumber"] = tmrpcserver.NewRPCFunc(EthBlockNumber, "")
}
