package node

import (
	"fmt"
	"strconv"
	"sync"
	"time"

	cfg "github.com/ShibuiDAO/veShibui/cmd/config"
	"github.com/ShibuiDAO/veShibui/cmd/version"
	"github.com/ShibuiDAO/veShibui/ctrlers/account"
	"github.com/ShibuiDAO/veShibui/ctrlers/escrow"
	"github.com/ShibuiDAO/veShibui/ctrlers/gauge"
	"github.com/ShibuiDAO/veShibui/ctrlers/router"
	"github.com/ShibuiDAO/veShibui/ctrlers/streamer"
	ctrlertypes "github.com/ShibuiDAO/veShibui/ctrlers/types"
	"github.com/ShibuiDAO/veShibui/genesis"
	"github.com/ShibuiDAO/veShibui/libs/jsonx"
	"github.com/ShibuiDAO/veShibui/types/bytes"
	"github.com/ShibuiDAO/veShibui/types/crypto"
	"github.com/ShibuiDAO/veShibui/types/xerrors"
	abcitypes "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
	tmproto "github.com/tendermint/tendermint/proto/tendermint/types"
	tmtime "github.com/tendermint/tendermint/types/time"
	tmver "github.com/tendermint/tendermint/version"
)

var _ abcitypes.Application = (*VeShibuiApp)(nil)

// VeShibuiApp is the ABCI application running the token, escrow, streamer and gauge contracts.
type VeShibuiApp struct {
	abcitypes.BaseApplication

	lastBlockCtx *ctrlertypes.BlockContext
	currBlockCtx *ctrlertypes.BlockContext

	metaDB         *MetaDB
	acctCtrler     *account.AcctCtrler
	escrowCtrler   *escrow.EscrowCtrler
	streamerCtrler *streamer.StreamerCtrler
	gaugeCtrler    *gauge.GaugeCtrler
	router         *router.ContractRouter
	txExecutor     *TrxExecutor

	rootConfig *cfg.Config

	logger log.Logger
	mtx    sync.Mutex
}

func NewVeShibuiApp(config *cfg.Config, logger log.Logger) *VeShibuiApp {
	metaDB, err := OpenMetaDB("veshibui_app", config.DBDir())
	if err != nil {
		panic(err)
	}

	acctCtrler, err := account.NewAcctCtrler(config, logger)
	if err != nil {
		panic(err)
	}
	escrowCtrler, err := escrow.NewEscrowCtrler(config, logger)
	if err != nil {
		panic(err)
	}
	streamerCtrler, err := streamer.NewStreamerCtrler(config, logger)
	if err != nil {
		panic(err)
	}
	gaugeCtrler, err := gauge.NewGaugeCtrler(config, logger)
	if err != nil {
		panic(err)
	}

	r := router.NewContractRouter(acctCtrler, logger)
	r.Register(ctrlertypes.KIND_TOKEN, acctCtrler)
	r.Register(ctrlertypes.KIND_ESCROW, escrowCtrler)
	r.Register(ctrlertypes.KIND_STREAMER, streamerCtrler)
	r.Register(ctrlertypes.KIND_GAUGE, gaugeCtrler)

	txExecutor := NewTrxExecutor(acctCtrler, r,
		[]ctrlertypes.ISnapshotHandler{acctCtrler, escrowCtrler, streamerCtrler, gaugeCtrler},
		logger)

	return &VeShibuiApp{
		metaDB:         metaDB,
		acctCtrler:     acctCtrler,
		escrowCtrler:   escrowCtrler,
		streamerCtrler: streamerCtrler,
		gaugeCtrler:    gaugeCtrler,
		router:         r,
		txExecutor:     txExecutor,
		rootConfig:     config,
		logger:         logger.With("module", "veshibui_App"),
	}
}

func (ctrler *VeShibuiApp) ledgerHandlers() []ctrlertypes.ILedgerHandler {
	return []ctrlertypes.ILedgerHandler{ctrler.acctCtrler, ctrler.escrowCtrler, ctrler.streamerCtrler, ctrler.gaugeCtrler}
}

func (ctrler *VeShibuiApp) blockHandlers() []ctrlertypes.IBlockHandler {
	return []ctrlertypes.IBlockHandler{ctrler.acctCtrler, ctrler.escrowCtrler, ctrler.streamerCtrler, ctrler.gaugeCtrler}
}

func (ctrler *VeShibuiApp) Start() error {
	return nil
}

func (ctrler *VeShibuiApp) Stop() error {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	for _, h := range ctrler.ledgerHandlers() {
		if err := h.Close(); err != nil {
			return err
		}
	}
	return ctrler.metaDB.Close()
}

func (ctrler *VeShibuiApp) Info(info abcitypes.RequestInfo) abcitypes.ResponseInfo {
	ctrler.logger.Info("Info", "version", tmver.ABCIVersion, "AppVersion", version.String())

	ctrler.lastBlockCtx = ctrler.metaDB.LastBlockContext()
	if ctrler.lastBlockCtx == nil {
		ctrler.lastBlockCtx = ctrlertypes.NewBlockContext(
			abcitypes.RequestBeginBlock{
				Header: tmproto.Header{
					Height: 0,
					Time:   tmtime.Canonical(time.Now()),
				},
			},
			nil, nil)
	}
	ctrler.lastBlockCtx.AcctHandler = ctrler.acctCtrler
	ctrler.lastBlockCtx.CallHandler = ctrler.router

	lastHeight := ctrler.lastBlockCtx.Height()
	appHash := ctrler.lastBlockCtx.AppHash()
	ctrler.logger.Debug("Info", "height", lastHeight, "appHash", appHash)

	if chainId := ctrler.metaDB.ChainID(); chainId != "" {
		ctrler.rootConfig.SetChainID(chainId)
	}

	return abcitypes.ResponseInfo{
		Data:             "",
		Version:          tmver.ABCIVersion,
		AppVersion:       version.Uint64(version.MASK_MAJOR_VER, version.MASK_MINOR_VER),
		LastBlockHeight:  lastHeight,
		LastBlockAppHash: appHash,
	}
}

// InitChain is called only when the ResponseInfo::LastBlockHeight which is returned in Info() is 0.
// It deploys the genesis contracts. They are committed with the first block.
func (ctrler *VeShibuiApp) InitChain(req abcitypes.RequestInitChain) abcitypes.ResponseInitChain {
	if req.GetChainId() == "" {
		panic("there is no chain_id")
	}
	ctrler.rootConfig.SetChainID(req.GetChainId())
	if err := ctrler.metaDB.PutChainID(req.GetChainId()); err != nil {
		panic(err)
	}

	appState := &genesis.GenesisAppState{}
	if err := jsonx.Unmarshal(req.AppStateBytes, appState); err != nil {
		panic(err)
	}
	if err := appState.Validate(); err != nil {
		panic(err)
	}
	appHash, err := appState.Hash()
	if err != nil {
		panic(err)
	}

	if xerr := ctrler.acctCtrler.InitLedger(appState); xerr != nil {
		ctrler.logger.Error("InitChain", "error", xerr)
		panic(xerr)
	}
	for _, h := range []ctrlertypes.ILedgerHandler{ctrler.escrowCtrler, ctrler.streamerCtrler, ctrler.gaugeCtrler} {
		if xerr := h.InitLedger(appState); xerr != nil {
			ctrler.logger.Error("InitChain", "error", xerr)
			panic(xerr)
		}
	}

	// the genesis contracts see the genesis time as the block time.
	genHeight := req.InitialHeight - 1
	if genHeight < 0 {
		genHeight = 0
	}
	ctrler.lastBlockCtx = ctrlertypes.TempBlockContext(
		req.GetChainId(), genHeight, req.Time,
		ctrler.acctCtrler, ctrler.router)

	deployer := newGenesisDeployer(ctrler.lastBlockCtx, ctrler.acctCtrler, ctrler.router, appState.Deployer, ctrler.logger)
	if xerr := deployer.Run(appState); xerr != nil {
		ctrler.logger.Error("InitChain", "error", xerr)
		panic(xerrors.ErrInitChain.Wrap(xerr))
	}

	return abcitypes.ResponseInitChain{
		AppHash: appHash,
	}
}

func (ctrler *VeShibuiApp) CheckTx(req abcitypes.RequestCheckTx) abcitypes.ResponseCheckTx {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	switch req.Type {
	case abcitypes.CheckTxType_New:
		// the tx is expected to be included in the next block.
		bctx := ctrlertypes.ExpectNextBlockContext(ctrler.lastBlockCtx, ctrler.rootConfig.Consensus.CreateEmptyBlocksInterval)
		txctx, xerr := ctrlertypes.NewTrxContext(req.Tx, bctx, false)
		if xerr != nil {
			xerr = xerrors.ErrCheckTx.Wrap(xerr)
			ctrler.logger.Error("CheckTx", "error", xerr)
			return abcitypes.ResponseCheckTx{
				Code: xerr.Code(),
				Log:  xerr.Error(),
			}
		}

		if xerr := ctrler.txExecutor.ExecuteSync(txctx); xerr != nil {
			xerr = xerrors.ErrCheckTx.Wrap(xerr)
			ctrler.logger.Error("CheckTx", "error", xerr)
			return abcitypes.ResponseCheckTx{
				Code: xerr.Code(),
				Log:  xerr.Error(),
			}
		}
		return abcitypes.ResponseCheckTx{
			Code: abcitypes.CodeTypeOK,
			Data: txctx.RetData,
		}

	case abcitypes.CheckTxType_Recheck:
		// validate the nonce of the sender, which may have been changed.
		tx := &ctrlertypes.Trx{}
		if xerr := tx.Decode(req.Tx); xerr != nil {
			xerr = xerrors.ErrCheckTx.Wrap(xerr)
			ctrler.logger.Error("ReCheckTx", "error", xerr)
			return abcitypes.ResponseCheckTx{
				Code: xerr.Code(),
				Log:  xerr.Error(),
			}
		}

		sender := ctrler.acctCtrler.FindOrNewAccount(tx.From, false)
		if xerr := sender.CheckNonce(uint64(tx.Nonce)); xerr != nil {
			xerr = xerrors.ErrCheckTx.Wrap(xerr)
			ctrler.logger.Error("ReCheckTx", "error", xerr)
			return abcitypes.ResponseCheckTx{
				Code: xerr.Code(),
				Log:  xerr.Error(),
			}
		}
		sender.AddNonce()
		if xerr := ctrler.acctCtrler.SetAccount(sender, false); xerr != nil {
			xerr = xerrors.ErrCheckTx.Wrap(xerr)
			ctrler.logger.Error("ReCheckTx", "error", xerr)
			return abcitypes.ResponseCheckTx{
				Code: xerr.Code(),
				Log:  xerr.Error(),
			}
		}
	}
	return abcitypes.ResponseCheckTx{Code: abcitypes.CodeTypeOK}
}

func (ctrler *VeShibuiApp) BeginBlock(req abcitypes.RequestBeginBlock) abcitypes.ResponseBeginBlock {
	if req.Header.Height != ctrler.lastBlockCtx.Height()+1 {
		panic(fmt.Errorf("error block height: expected(%v), actual(%v)", ctrler.lastBlockCtx.Height()+1, req.Header.Height))
	}
	ctrler.logger.Debug("BeginBlock",
		"height", req.Header.Height,
		"hash", req.Hash,
		"prev.hash", req.Header.LastBlockId.Hash)

	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	ctrler.currBlockCtx = ctrlertypes.NewBlockContext(req, ctrler.acctCtrler, ctrler.router)

	var events []abcitypes.Event
	for _, h := range ctrler.blockHandlers() {
		ev, xerr := h.BeginBlock(ctrler.currBlockCtx)
		if xerr != nil {
			ctrler.logger.Error("BeginBlock", "error", xerr)
			panic(xerr)
		}
		events = append(events, ev...)
	}
	return abcitypes.ResponseBeginBlock{
		Events: events,
	}
}

func (ctrler *VeShibuiApp) DeliverTx(req abcitypes.RequestDeliverTx) abcitypes.ResponseDeliverTx {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	return ctrler.deliverTxSync(req)
}

func (ctrler *VeShibuiApp) deliverTxSync(req abcitypes.RequestDeliverTx) abcitypes.ResponseDeliverTx {
	txctx, xerr := ctrlertypes.NewTrxContext(req.Tx, ctrler.currBlockCtx, true)
	if xerr != nil {
		xerr = xerrors.ErrDeliverTx.Wrap(xerr)
		ctrler.logger.Error("deliverTxSync", "error", xerr)
		return abcitypes.ResponseDeliverTx{
			Code: xerr.Code(),
			Log:  xerr.Error(),
		}
	}
	ctrler.currBlockCtx.AddTxsCnt(1)

	xerr = ctrler.txExecutor.ExecuteSync(txctx)
	if xerr != nil {
		xerr = xerrors.ErrDeliverTx.Wrap(xerr)
		ctrler.logger.Error("deliverTxSync", "error", xerr, "txhash", txctx.TxHash)

		txctx.Events = append(txctx.Events, txEvent(txctx, xerr.Code()))
		return abcitypes.ResponseDeliverTx{
			Code:   xerr.Code(),
			Log:    xerr.Error(),
			Events: txctx.Events,
		}
	}

	txctx.Events = append(txctx.Events, txEvent(txctx, abcitypes.CodeTypeOK))
	return abcitypes.ResponseDeliverTx{
		Code:   abcitypes.CodeTypeOK,
		Data:   txctx.RetData,
		Events: txctx.Events,
	}
}

func txEvent(txctx *ctrlertypes.TrxContext, code uint32) abcitypes.Event {
	attrs := []abcitypes.EventAttribute{
		{Key: []byte(ctrlertypes.EVENT_ATTR_TXTYPE), Value: []byte(txctx.Tx.TypeString()), Index: true},
		{Key: []byte(ctrlertypes.EVENT_ATTR_TXSENDER), Value: []byte(txctx.Tx.From.String()), Index: true},
	}
	switch payload := txctx.Tx.Payload.(type) {
	case *ctrlertypes.TrxPayloadCall:
		attrs = append(attrs,
			abcitypes.EventAttribute{Key: []byte(ctrlertypes.EVENT_ATTR_TXRECVER), Value: []byte(txctx.Tx.To.String()), Index: true},
			abcitypes.EventAttribute{Key: []byte(ctrlertypes.EVENT_ATTR_METHOD), Value: []byte(payload.Method), Index: true})
	case *ctrlertypes.TrxPayloadDeploy:
		if code == abcitypes.CodeTypeOK {
			attrs = append(attrs,
				abcitypes.EventAttribute{Key: []byte(ctrlertypes.EVENT_ATTR_CONTRACT), Value: []byte(bytes.HexBytes(txctx.RetData).String()), Index: true})
		}
	}
	attrs = append(attrs,
		abcitypes.EventAttribute{Key: []byte(ctrlertypes.EVENT_ATTR_TXSTATUS), Value: []byte(strconv.FormatUint(uint64(code), 10)), Index: false})
	return abcitypes.Event{
		Type:       "tx",
		Attributes: attrs,
	}
}

func (ctrler *VeShibuiApp) EndBlock(req abcitypes.RequestEndBlock) abcitypes.ResponseEndBlock {
	ctrler.logger.Debug("Begin EndBlock", "height", req.Height)

	ctrler.mtx.Lock()
	defer func() {
		ctrler.mtx.Unlock()
		ctrler.logger.Debug("Finish EndBlock", "height", req.Height)
	}()

	var events []abcitypes.Event
	for _, h := range ctrler.blockHandlers() {
		ev, xerr := h.EndBlock(ctrler.currBlockCtx)
		if xerr != nil {
			ctrler.logger.Error("EndBlock", "error", xerr)
			panic(xerr)
		}
		events = append(events, ev...)
	}
	return abcitypes.ResponseEndBlock{
		Events: events,
	}
}

func (ctrler *VeShibuiApp) Commit() abcitypes.ResponseCommit {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	ctrler.logger.Debug("Commit", "height", ctrler.currBlockCtx.Height())

	handlers := ctrler.ledgerHandlers()
	hashes := make([][]byte, len(handlers))
	vers := make([]int64, len(handlers))
	for i, h := range handlers {
		hash, ver, xerr := h.Commit()
		if xerr != nil {
			panic(xerr)
		}
		hashes[i], vers[i] = hash, ver
		if vers[i] != vers[0] {
			panic(fmt.Sprintf("Not same versions: %v", vers))
		}
	}

	appHash := crypto.DefaultHash(hashes...)
	ctrler.currBlockCtx.SetAppHash(appHash)
	ctrler.logger.Debug("Commit",
		"height", vers[0],
		"txs", ctrler.currBlockCtx.TxsCnt(),
		"appHash", ctrler.currBlockCtx.AppHash())

	if err := ctrler.metaDB.PutLastBlockContext(ctrler.currBlockCtx); err != nil {
		panic(err)
	}
	if err := ctrler.metaDB.PutTxn(ctrler.metaDB.Txn() + uint64(ctrler.currBlockCtx.TxsCnt())); err != nil {
		panic(err)
	}

	ctrler.lastBlockCtx = ctrler.currBlockCtx
	ctrler.currBlockCtx = nil

	return abcitypes.ResponseCommit{
		Data: appHash,
	}
}
