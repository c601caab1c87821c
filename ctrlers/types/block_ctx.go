package types

import (
	"sync"
	"time"

	"github.com/ShibuiDAO/veShibui/libs/jsonx"
	"github.com/ShibuiDAO/veShibui/types"
	"github.com/ShibuiDAO/veShibui/types/bytes"
	abcitypes "github.com/tendermint/tendermint/abci/types"
	tmprototypes "github.com/tendermint/tendermint/proto/tendermint/types"
)

type BlockContext struct {
	blockInfo abcitypes.RequestBeginBlock
	txsCnt    int
	appHash   bytes.HexBytes

	AcctHandler IAccountHandler
	CallHandler ICallHandler

	mtx sync.RWMutex
}

func NewBlockContext(bi abcitypes.RequestBeginBlock, a IAccountHandler, c ICallHandler) *BlockContext {
	return &BlockContext{
		blockInfo:   bi,
		txsCnt:      0,
		appHash:     nil,
		AcctHandler: a,
		CallHandler: c,
	}
}

func TempBlockContext(chainId string, height int64, btime time.Time, a IAccountHandler, c ICallHandler) *BlockContext {
	return NewBlockContext(
		abcitypes.RequestBeginBlock{
			Header: tmprototypes.Header{
				ChainID: chainId,
				Height:  height,
				Time:    btime,
			},
		},
		a, c,
	)
}

// ExpectNextBlockContext returns the context of the block following `last` after `blockIntval`.
func ExpectNextBlockContext(last *BlockContext, blockIntval time.Duration) *BlockContext {
	return TempBlockContext(
		last.ChainID(),
		last.Height()+1,
		last.BlockInfo().Header.Time.Add(blockIntval),
		last.AcctHandler,
		last.CallHandler,
	)
}

func (bctx *BlockContext) BlockInfo() abcitypes.RequestBeginBlock {
	bctx.mtx.RLock()
	defer bctx.mtx.RUnlock()

	return bctx.blockInfo
}

func (bctx *BlockContext) ChainID() string {
	bctx.mtx.RLock()
	defer bctx.mtx.RUnlock()

	return bctx.blockInfo.Header.ChainID
}

func (bctx *BlockContext) Height() int64 {
	bctx.mtx.RLock()
	defer bctx.mtx.RUnlock()

	return bctx.blockInfo.Header.Height
}

func (bctx *BlockContext) ProposerAddress() types.Address {
	bctx.mtx.RLock()
	defer bctx.mtx.RUnlock()

	return bctx.blockInfo.Header.ProposerAddress
}

func (bctx *BlockContext) PreAppHash() bytes.HexBytes {
	bctx.mtx.RLock()
	defer bctx.mtx.RUnlock()

	return bctx.blockInfo.Header.GetAppHash()
}

func (bctx *BlockContext) AppHash() bytes.HexBytes {
	bctx.mtx.RLock()
	defer bctx.mtx.RUnlock()

	return bctx.appHash
}

func (bctx *BlockContext) SetAppHash(hash []byte) {
	bctx.mtx.Lock()
	defer bctx.mtx.Unlock()

	bctx.appHash = hash
}

// TimeSeconds returns the block time in unix seconds.
// Every time based rule (lock ends, reward periods) is evaluated with this value.
func (bctx *BlockContext) TimeSeconds() int64 {
	bctx.mtx.RLock()
	defer bctx.mtx.RUnlock()

	return bctx.blockInfo.Header.GetTime().Unix()
}

func (bctx *BlockContext) TxsCnt() int {
	bctx.mtx.RLock()
	defer bctx.mtx.RUnlock()

	return bctx.txsCnt
}

func (bctx *BlockContext) AddTxsCnt(d int) {
	bctx.mtx.Lock()
	defer bctx.mtx.Unlock()

	bctx.txsCnt += d
}

type blockContextJSON struct {
	BlockInfo abcitypes.RequestBeginBlock `json:"blockInfo"`
	TxsCnt    int                         `json:"txsCnt"`
	AppHash   bytes.HexBytes              `json:"appHash"`
}

func (bctx *BlockContext) MarshalJSON() ([]byte, error) {
	bctx.mtx.RLock()
	defer bctx.mtx.RUnlock()

	return jsonx.Marshal(&blockContextJSON{
		BlockInfo: bctx.blockInfo,
		TxsCnt:    bctx.txsCnt,
		AppHash:   bctx.appHash,
	})
}

func (bctx *BlockContext) UnmarshalJSON(bz []byte) error {
	bctx.mtx.Lock()
	defer bctx.mtx.Unlock()

	_bctx := &blockContextJSON{}
	if err := jsonx.Unmarshal(bz, _bctx); err != nil {
		return err
	}
	bctx.blockInfo = _bctx.BlockInfo
	bctx.txsCnt = _bctx.TxsCnt
	bctx.appHash = _bctx.AppHash
	return nil
}

// SetHeight is used for test only.
func (bctx *BlockContext) SetHeight(h int64) {
	bctx.mtx.Lock()
	defer bctx.mtx.Unlock()

	bctx.blockInfo.Header.Height = h
}

// SetTime is used for test only.
func (bctx *BlockContext) SetTime(t time.Time) {
	bctx.mtx.Lock()
	defer bctx.mtx.Unlock()

	bctx.blockInfo.Header.Time = t
}
