package types

import (
	"github.com/ShibuiDAO/veShibui/types"
	"github.com/ShibuiDAO/veShibui/types/crypto"
	"github.com/ShibuiDAO/veShibui/types/xerrors"
	"github.com/holiman/uint256"
	abcitypes "github.com/tendermint/tendermint/abci/types"
)

const MAX_CALL_DEPTH = 8

// CallContext is the context of a contract call.
// `Caller` is the sender of the transaction or the contract making a nested call.
type CallContext struct {
	*BlockContext

	Caller   types.Address
	Contract types.Address
	Method   string
	Selector []byte
	Args     [][]byte
	Exec     bool
	Depth    int

	RetData []byte
	Events  []abcitypes.Event
}

func NewCallContext(bctx *BlockContext, caller, contract types.Address, method string, args [][]byte, exec bool) *CallContext {
	return &CallContext{
		BlockContext: bctx,
		Caller:       caller,
		Contract:     contract,
		Method:       method,
		Selector:     selectorOf(method),
		Args:         args,
		Exec:         exec,
	}
}

func selectorOf(method string) []byte {
	if method == "" {
		return nil
	}
	return crypto.Selector(method)
}

// SubCall calls `selector` of `contract` on behalf of this context's contract.
// The events of the nested call are appended to this context.
func (ctx *CallContext) SubCall(contract types.Address, selector []byte, args ...[]byte) ([]byte, xerrors.XError) {
	if ctx.Depth+1 > MAX_CALL_DEPTH {
		return nil, xerrors.ErrInvalidState.Wrapf("too deep call")
	}
	if ctx.CallHandler == nil {
		return nil, xerrors.ErrNotFoundContract.Wrapf("no call handler")
	}

	child := &CallContext{
		BlockContext: ctx.BlockContext,
		Caller:       ctx.Contract,
		Contract:     contract,
		Selector:     selector,
		Args:         args,
		Exec:         ctx.Exec,
		Depth:        ctx.Depth + 1,
	}
	if xerr := ctx.CallHandler.Call(child); xerr != nil {
		return nil, xerr
	}
	ctx.Events = append(ctx.Events, child.Events...)
	return child.RetData, nil
}

// TransferToken sends `amt` of `token` from this context's contract to `to`.
func (ctx *CallContext) TransferToken(token, to types.Address, amt *uint256.Int) xerrors.XError {
	return ctx.AcctHandler.Transfer(ctx, token, ctx.Contract, to, amt)
}

// PullToken moves `amt` of `token` from `from` to this context's contract using the allowance given to it.
func (ctx *CallContext) PullToken(token, from types.Address, amt *uint256.Int) xerrors.XError {
	return ctx.AcctHandler.TransferFrom(ctx, token, ctx.Contract, from, ctx.Contract, amt)
}

func (ctx *CallContext) TokenBalance(token, owner types.Address) (*uint256.Int, xerrors.XError) {
	return ctx.AcctHandler.BalanceOf(token, owner, ctx.Exec)
}

func (ctx *CallContext) EmitEvent(typ string, kvs ...string) {
	ctx.Events = append(ctx.Events, NewEvent(typ, kvs...))
}

// NewEvent makes an event whose attributes are the pairs of `kvs`.
func NewEvent(typ string, kvs ...string) abcitypes.Event {
	evt := abcitypes.Event{Type: typ}
	for i := 0; i+1 < len(kvs); i += 2 {
		evt.Attributes = append(evt.Attributes, abcitypes.EventAttribute{
			Key:   []byte(kvs[i]),
			Value: []byte(kvs[i+1]),
			Index: true,
		})
	}
	return evt
}
