package router

import (
	"sync"

	ctrlertypes "github.com/ShibuiDAO/veShibui/ctrlers/types"
	"github.com/ShibuiDAO/veShibui/types"
	"github.com/ShibuiDAO/veShibui/types/crypto"
	"github.com/ShibuiDAO/veShibui/types/xerrors"
	tmlog "github.com/tendermint/tendermint/libs/log"
)

// ContractRouter dispatches the deploy and call transactions to the controller
// handling the kind of the target contract.
type ContractRouter struct {
	acctHandler ctrlertypes.IAccountHandler
	handlers    map[int32]ctrlertypes.IContractHandler

	logger tmlog.Logger
	mtx    sync.RWMutex
}

var _ ctrlertypes.ICallHandler = (*ContractRouter)(nil)
var _ ctrlertypes.ITrxHandler = (*ContractRouter)(nil)

func NewContractRouter(acctHandler ctrlertypes.IAccountHandler, logger tmlog.Logger) *ContractRouter {
	return &ContractRouter{
		acctHandler: acctHandler,
		handlers:    make(map[int32]ctrlertypes.IContractHandler),
		logger:      logger.With("module", "veshibui_ContractRouter"),
	}
}

// Register sets `handler` as the controller of the contracts of `kind`.
func (r *ContractRouter) Register(kind int32, handler ctrlertypes.IContractHandler) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	r.handlers[kind] = handler
}

func (r *ContractRouter) handlerOfKind(kind int32) (ctrlertypes.IContractHandler, xerrors.XError) {
	r.mtx.RLock()
	defer r.mtx.RUnlock()

	h, ok := r.handlers[kind]
	if !ok {
		return nil, xerrors.ErrNotFoundContract.Wrapf("no handler for %s", ctrlertypes.KindString(kind))
	}
	return h, nil
}

func (r *ContractRouter) handlerOf(contract types.Address, exec bool) (ctrlertypes.IContractHandler, xerrors.XError) {
	acct := r.acctHandler.FindAccount(contract, exec)
	if acct == nil || !acct.IsContract() {
		return nil, xerrors.ErrNotFoundContract.Wrapf("address: %v", contract)
	}
	return r.handlerOfKind(acct.Kind)
}

// KindOf returns the kind of the contract at `contract`.
func (r *ContractRouter) KindOf(contract types.Address, exec bool) (int32, xerrors.XError) {
	acct := r.acctHandler.FindAccount(contract, exec)
	if acct == nil || !acct.IsContract() {
		return 0, xerrors.ErrNotFoundContract.Wrapf("address: %v", contract)
	}
	return acct.Kind, nil
}

func (r *ContractRouter) Call(ctx *ctrlertypes.CallContext) xerrors.XError {
	h, xerr := r.handlerOf(ctx.Contract, ctx.Exec)
	if xerr != nil {
		return xerr
	}
	return h.Call(ctx)
}

// Deploy creates a contract of `kind` at `ctx.Contract` and returns its address in `ctx.RetData`.
func (r *ContractRouter) Deploy(ctx *ctrlertypes.CallContext, kind int32) xerrors.XError {
	if kind == ctrlertypes.KIND_EOA {
		return xerrors.ErrInvalidParams.Wrapf("an account can not be deployed")
	}
	if r.acctHandler.FindAccount(ctx.Contract, ctx.Exec) != nil {
		return xerrors.ErrInvalidState.Wrapf("account(%v) already exists", ctx.Contract)
	}
	h, xerr := r.handlerOfKind(kind)
	if xerr != nil {
		return xerr
	}
	if xerr := h.Deploy(ctx); xerr != nil {
		return xerr
	}
	if xerr := r.acctHandler.SetAccount(ctrlertypes.NewContractAccount(ctx.Contract, kind), ctx.Exec); xerr != nil {
		return xerr
	}

	ctx.RetData = ctx.Contract.Copy()
	ctx.EmitEvent("deploy",
		"kind", ctrlertypes.KindString(kind),
		"contract", ctx.Contract.String(),
		"deployer", ctx.Caller.String())
	r.logger.Debug("deploy contract", "kind", ctrlertypes.KindString(kind), "address", ctx.Contract, "deployer", ctx.Caller)
	return nil
}

// View answers a read-only method of `ctx.Contract` as of `height`.
func (r *ContractRouter) View(ctx *ctrlertypes.CallContext, height int64) ([]byte, xerrors.XError) {
	h, xerr := r.handlerOf(ctx.Contract, true)
	if xerr != nil {
		return nil, xerr
	}
	return h.View(ctx, height)
}

func (r *ContractRouter) ValidateTrx(ctx *ctrlertypes.TrxContext) xerrors.XError {
	switch payload := ctx.Tx.Payload.(type) {
	case *ctrlertypes.TrxPayloadDeploy:
		if _, xerr := r.handlerOfKind(payload.Kind); xerr != nil {
			return xerr
		}
	case *ctrlertypes.TrxPayloadCall:
		if _, xerr := r.handlerOf(ctx.Tx.To, ctx.Exec); xerr != nil {
			return xerr
		}
	default:
		return xerrors.ErrInvalidTrxPayloadType
	}
	return nil
}

// ExecuteTrx runs the contract call or the deployment requested by `ctx.Tx`.
// A deployed contract gets the address derived from the sender and the transaction's nonce.
func (r *ContractRouter) ExecuteTrx(ctx *ctrlertypes.TrxContext) xerrors.XError {
	callctx := ctx.NewCallContext()

	var xerr xerrors.XError
	switch payload := ctx.Tx.Payload.(type) {
	case *ctrlertypes.TrxPayloadDeploy:
		callctx.Contract = crypto.CreateAddress(ctx.Tx.From, uint64(ctx.Tx.Nonce))
		xerr = r.Deploy(callctx, payload.Kind)
	case *ctrlertypes.TrxPayloadCall:
		xerr = r.Call(callctx)
	default:
		xerr = xerrors.ErrInvalidTrxPayloadType
	}
	if xerr != nil {
		return xerr
	}

	ctx.RetData = callctx.RetData
	ctx.Events = append(ctx.Events, callctx.Events...)
	return nil
}
