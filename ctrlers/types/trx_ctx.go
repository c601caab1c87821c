package types

import (
	"github.com/ShibuiDAO/veShibui/types/bytes"
	"github.com/ShibuiDAO/veShibui/types/xerrors"
	abcitypes "github.com/tendermint/tendermint/abci/types"
	tmtypes "github.com/tendermint/tendermint/types"
)

type TrxContext struct {
	*BlockContext

	Tx     *Trx
	TxIdx  int
	TxHash bytes.HexBytes
	Exec   bool

	SenderPubKey []byte
	Sender       *Account
	RetData      []byte
	Events       []abcitypes.Event

	Callback func(*TrxContext, xerrors.XError)
}

func NewTrxContext(txbz []byte, bctx *BlockContext, exec bool) (*TrxContext, xerrors.XError) {
	tx := &Trx{}
	if xerr := tx.Decode(txbz); xerr != nil {
		return nil, xerr
	}
	if xerr := tx.Validate(); xerr != nil {
		return nil, xerr
	}

	txctx := &TrxContext{
		BlockContext: bctx,
		Tx:           tx,
		TxIdx:        bctx.TxsCnt(),
		TxHash:       tmtypes.Tx(txbz).Hash(),
		Exec:         exec,
	}

	_, pubKeyBytes, xerr := VerifyTrxRLP(tx, bctx.ChainID())
	if xerr != nil {
		return nil, xerr
	}
	txctx.SenderPubKey = pubKeyBytes

	// A key pair that has never sent a transaction starts with the nonce 0.
	txctx.Sender = bctx.AcctHandler.FindOrNewAccount(tx.From, exec)
	if txctx.Sender.IsContract() {
		return nil, xerrors.ErrInvalidAddress.Wrapf("a contract can not send a transaction: %v", tx.From)
	}
	return txctx, nil
}

// NewCallContext returns the context of the contract call requested by this transaction.
func (ctx *TrxContext) NewCallContext() *CallContext {
	callctx := &CallContext{
		BlockContext: ctx.BlockContext,
		Caller:       ctx.Tx.From,
		Contract:     ctx.Tx.To,
		Exec:         ctx.Exec,
	}
	switch payload := ctx.Tx.Payload.(type) {
	case *TrxPayloadCall:
		callctx.Method = payload.Method
		callctx.Selector = selectorOf(payload.Method)
		callctx.Args = payload.Args
	case *TrxPayloadDeploy:
		callctx.Args = payload.Args
	}
	return callctx
}
