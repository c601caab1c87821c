package commands

import (
	"context"
	"encoding/binary"
	"fmt"

	"github.com/ShibuiDAO/veShibui/libs/jsonx"
	"github.com/ShibuiDAO/veShibui/node"
	"github.com/ShibuiDAO/veShibui/types"
	"github.com/spf13/cobra"
	rpcclient "github.com/tendermint/tendermint/rpc/client"
	rpchttp "github.com/tendermint/tendermint/rpc/client/http"
)

var (
	queryNode   = "tcp://localhost:26657"
	queryHeight int64
)

// NewQueryCmd returns the command that sends an abci query to a running node.
//
//	veshibui query deployments
//	veshibui query account 0x...
//	veshibui query call 0x<contract> "balanceOf(address)" 0x<owner>
func NewQueryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query [path] [args...]",
		Short: "Query the state of a running node",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runQuery,
	}
	cmd.Flags().StringVar(&queryNode, "node", queryNode, "rpc address of the node")
	cmd.Flags().Int64Var(&queryHeight, "height", 0, "block height to query (0 means the last block)")
	return cmd
}

func runQuery(cmd *cobra.Command, args []string) error {
	path := args[0]
	data, err := queryData(path, args[1:])
	if err != nil {
		return err
	}

	cli, err := rpchttp.New(queryNode, "/websocket")
	if err != nil {
		return err
	}
	res, err := cli.ABCIQueryWithOptions(context.Background(), path, data, rpcclient.ABCIQueryOptions{Height: queryHeight})
	if err != nil {
		return err
	}
	if res.Response.Code != 0 {
		return fmt.Errorf("query failed(%d): %s", res.Response.Code, res.Response.Log)
	}

	switch path {
	case "block_height":
		fmt.Println(binary.BigEndian.Uint64(res.Response.Value))
	default:
		fmt.Println(string(res.Response.Value))
	}
	return nil
}

func queryData(path string, args []string) ([]byte, error) {
	switch path {
	case "account":
		if len(args) != 1 {
			return nil, fmt.Errorf("usage: query account <address>")
		}
		return types.HexToAddress(args[0])
	case "call":
		if len(args) < 2 {
			return nil, fmt.Errorf("usage: query call <contract> <method> [args...]")
		}
		to, err := types.HexToAddress(args[0])
		if err != nil {
			return nil, err
		}
		return jsonx.Marshal(&node.CallRequest{To: to, Method: args[1], Args: args[2:]})
	}
	return nil, nil
}
