package mocks

import (
	"fmt"
	"time"

	ctrlertypes "github.com/ShibuiDAO/veShibui/ctrlers/types"
	"github.com/ShibuiDAO/veShibui/types"
)

// BlockInterval is the time between the blocks made by NextBlockCtxOf.
var BlockInterval = time.Second

var lastBlockCtx *ctrlertypes.BlockContext
var currBlockCtx *ctrlertypes.BlockContext

func InitBlockCtxWith(chainId string, h int64, t time.Time, a ctrlertypes.IAccountHandler, c ctrlertypes.ICallHandler) *ctrlertypes.BlockContext {
	bctx := ctrlertypes.TempBlockContext(chainId, h, t, a, c)
	lastBlockCtx = nil
	currBlockCtx = bctx
	return bctx
}

func InitBlockCtx(bctx *ctrlertypes.BlockContext) {
	currBlockCtx = bctx
}

func CurrBlockCtx() *ctrlertypes.BlockContext {
	return currBlockCtx
}

func CurrBlockHeight() int64 {
	if currBlockCtx == nil {
		return 0
	}
	return currBlockCtx.Height()
}

func CurrBlockTime() int64 {
	if currBlockCtx == nil {
		return 0
	}
	return currBlockCtx.TimeSeconds()
}

func SetCurrBlockCtx(bctx *ctrlertypes.BlockContext) {
	currBlockCtx = bctx
}

func LastBlockCtx() *ctrlertypes.BlockContext {
	return lastBlockCtx
}

func LastBlockHeight() int64 {
	if lastBlockCtx == nil {
		return 0
	}
	return lastBlockCtx.Height()
}

func SetLastBlockCtx(bctx *ctrlertypes.BlockContext) {
	lastBlockCtx = bctx
}

func NextBlockCtxOf(bctx *ctrlertypes.BlockContext) *ctrlertypes.BlockContext {
	if bctx == nil {
		bctx = lastBlockCtx
	}
	return ctrlertypes.ExpectNextBlockContext(bctx, BlockInterval)
}

// SkipTime moves the time of the current block forward by `d`.
func SkipTime(d time.Duration) {
	currBlockCtx.SetTime(currBlockCtx.BlockInfo().Header.Time.Add(d))
}

// SkipToNextWeek moves the time of the current block to the beginning of the next week in unix time.
func SkipToNextWeek() {
	t := currBlockCtx.TimeSeconds()
	next := (t/types.WEEK + 1) * types.WEEK
	SkipTime(time.Duration(next-t) * time.Second)
}

func DoBeginBlock(ctrlers ...ctrlertypes.IBlockHandler) error {
	bctx := CurrBlockCtx()
	for _, ctrler := range ctrlers {
		if _, err := ctrler.BeginBlock(bctx); err != nil {
			return err
		}
	}
	return nil
}

func DoEndBlock(ctrlers ...ctrlertypes.IBlockHandler) error {
	bctx := CurrBlockCtx()
	for _, ctrler := range ctrlers {
		if _, err := ctrler.EndBlock(bctx); err != nil {
			return err
		}
	}
	return nil
}

// DoCommitBlock commits all `ctrlers` and moves to the next block.
func DoCommitBlock(ctrlers ...ctrlertypes.ILedgerHandler) error {
	for _, ctrler := range ctrlers {
		if _, v, err := ctrler.Commit(); err != nil {
			return err
		} else if v != currBlockCtx.Height() {
			panic(fmt.Errorf("different height between ledger(%v) and currBlockCtx(%v)", v, currBlockCtx.Height()))
		}
	}
	lastBlockCtx = currBlockCtx
	currBlockCtx = NextBlockCtxOf(lastBlockCtx)
	return nil
}
