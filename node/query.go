package node

import (
	"encoding/binary"
	"fmt"

	ctrlertypes "github.com/ShibuiDAO/veShibui/ctrlers/types"
	"github.com/ShibuiDAO/veShibui/libs/jsonx"
	"github.com/ShibuiDAO/veShibui/types"
	"github.com/ShibuiDAO/veShibui/types/crypto"
	"github.com/ShibuiDAO/veShibui/types/xerrors"
	abcitypes "github.com/tendermint/tendermint/abci/types"
)

// CallRequest is the data of the "call" query.
// `Args` are the text forms of the arguments of `Method`, e.g. "balanceOf(address)".
type CallRequest struct {
	To     types.Address `json:"to"`
	Method string        `json:"method"`
	Args   []string      `json:"args,omitempty"`
}

func (ctrler *VeShibuiApp) Query(req abcitypes.RequestQuery) abcitypes.ResponseQuery {
	ctrler.mtx.Lock()
	lastBlockCtx := ctrler.lastBlockCtx
	ctrler.mtx.Unlock()

	if req.Height == 0 {
		// last block height
		req.Height = lastBlockCtx.Height()
	}

	// req.Data may be too long in case of "call".
	key := req.Data
	if len(key) > 32 {
		key = crypto.DefaultHash(req.Data)
	}

	response := abcitypes.ResponseQuery{
		Code:   abcitypes.CodeTypeOK,
		Key:    key,
		Height: req.Height,
	}

	var xerr xerrors.XError

	switch req.Path {
	case "chain_id":
		response.Value = []byte(ctrler.rootConfig.ChainID())
	case "block_height":
		val := make([]byte, 8)
		binary.BigEndian.PutUint64(val, uint64(lastBlockCtx.Height()))
		response.Value = val
	case "txn":
		response.Value = []byte(fmt.Sprintf("\"%d\"", ctrler.metaDB.Txn()))
	case "account", "deployments":
		response.Value, xerr = ctrler.acctCtrler.Query(lastBlockCtx, req)
	case "escrow/info":
		response.Value, xerr = ctrler.escrowCtrler.Query(lastBlockCtx, req)
	case "streamer/info":
		response.Value, xerr = ctrler.streamerCtrler.Query(lastBlockCtx, req)
	case "gauge/info":
		response.Value, xerr = ctrler.gaugeCtrler.Query(lastBlockCtx, req)
	case "call":
		response.Value, xerr = ctrler.queryCall(lastBlockCtx, req)
	default:
		response.Value, xerr = nil, xerrors.ErrInvalidQueryPath
	}

	if xerr != nil {
		ctrler.logger.Error("Query returns error", "error", xerr, "path", req.Path, "height", req.Height)
		response.Code = xerr.Code()
		response.Log = xerr.Error()
	}

	return response
}

// queryCall answers a read-only method of a contract with the state at `req.Height`.
// The time based views are evaluated at the time of the last block.
func (ctrler *VeShibuiApp) queryCall(lastBlockCtx *ctrlertypes.BlockContext, req abcitypes.RequestQuery) ([]byte, xerrors.XError) {
	if req.Height > lastBlockCtx.Height() {
		return nil, xerrors.ErrInvalidQueryParams.Wrapf("height(%d) is not committed yet", req.Height)
	}

	callReq := &CallRequest{}
	if err := jsonx.Unmarshal(req.Data, callReq); err != nil {
		return nil, xerrors.ErrInvalidQueryParams.Wrap(err)
	}
	if len(callReq.To) != types.AddrSize {
		return nil, xerrors.ErrInvalidQueryParams.Wrapf("wrong contract address")
	}
	args, xerr := ctrlertypes.ParseArgs(callReq.Method, callReq.Args)
	if xerr != nil {
		return nil, xerr
	}

	bctx := ctrlertypes.TempBlockContext(
		lastBlockCtx.ChainID(),
		req.Height,
		lastBlockCtx.BlockInfo().Header.Time,
		ctrler.acctCtrler, ctrler.router)
	callctx := ctrlertypes.NewCallContext(bctx, nil, callReq.To, callReq.Method, args, false)
	return ctrler.router.View(callctx, req.Height)
}
