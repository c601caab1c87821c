package node

import (
	ctrlertypes "github.com/ShibuiDAO/veShibui/ctrlers/types"
	"github.com/ShibuiDAO/veShibui/types/xerrors"
	"github.com/tendermint/tendermint/libs/log"
)

// TrxExecutor runs a transaction against all ledgers as a unit.
// When the contract call fails, every ledger is reverted,
// but the sender's nonce is still increased so that the transaction can not be replayed.
type TrxExecutor struct {
	acctHandler   ctrlertypes.ITrxHandler
	routerHandler ctrlertypes.ITrxHandler
	snapshotters  []ctrlertypes.ISnapshotHandler

	logger log.Logger
}

func NewTrxExecutor(acctHandler, routerHandler ctrlertypes.ITrxHandler, snapshotters []ctrlertypes.ISnapshotHandler, logger log.Logger) *TrxExecutor {
	return &TrxExecutor{
		acctHandler:   acctHandler,
		routerHandler: routerHandler,
		snapshotters:  snapshotters,
		logger:        logger.With("module", "veshibui_TrxExecutor"),
	}
}

func (txe *TrxExecutor) ExecuteSync(ctx *ctrlertypes.TrxContext) xerrors.XError {
	if xerr := txe.validateTrx(ctx); xerr != nil {
		return xerr
	}

	xerr := txe.runTrx(ctx)

	// processing nonce
	if _xerr := txe.acctHandler.ExecuteTrx(ctx); _xerr != nil {
		return _xerr
	}
	return xerr
}

func (txe *TrxExecutor) validateTrx(ctx *ctrlertypes.TrxContext) xerrors.XError {
	//
	// This validation must be performed sequentially
	// after the previous tx was executed.
	// (after the nonce of the sender have been updated by the previous tx execution.)
	//
	if xerr := txe.acctHandler.ValidateTrx(ctx); xerr != nil {
		return xerr.Wrapf("txhash: %X", ctx.TxHash)
	}
	return txe.routerHandler.ValidateTrx(ctx)
}

func (txe *TrxExecutor) runTrx(ctx *ctrlertypes.TrxContext) xerrors.XError {
	snaps := make([]int, len(txe.snapshotters))
	for i, s := range txe.snapshotters {
		snaps[i] = s.Snapshot(ctx.Exec)
	}

	xerr := txe.routerHandler.ExecuteTrx(ctx)
	if xerr == nil {
		return nil
	}

	for i, s := range txe.snapshotters {
		if _xerr := s.RevertToSnapshot(snaps[i], ctx.Exec); _xerr != nil {
			// the ledgers are inconsistent.
			txe.logger.Error("fail to revert", "error", _xerr, "txhash", ctx.TxHash)
			panic(_xerr)
		}
	}
	ctx.Events = nil
	return xerr
}
