package xerrors

import (
	"errors"
	"fmt"

	abcitypes "github.com/tendermint/tendermint/abci/types"
)

const (
	ErrCodeSuccess uint32 = abcitypes.CodeTypeOK + iota
	ErrCodeOrdinary
	ErrCodeInitChain
	ErrCodeCheckTx
	ErrCodeBeginBlock
	ErrCodeDeliverTx
	ErrCodeEndBlock
	ErrCodeCommit
	ErrCodeNotFoundAccount
	ErrCodeInvalidTrx
	ErrCodeNotFoundContract
	ErrCodeUnknownMethod
	ErrCodeAdminOnly
	ErrCodeInvalidState
	ErrCodeInvalidParams
	ErrCodeInsufficientFund
	ErrCodeInsufficientAllowance
)

const (
	ErrCodeQuery uint32 = 1000 + iota
	ErrCodeInvalidQueryPath
	ErrCodeInvalidQueryParams
	ErrCodeNotFoundResult
	ErrLast
)

var (
	ErrCommon     = New(ErrCodeOrdinary, "veshibui error")
	ErrOverFlow   = New(ErrCodeOrdinary, "overflow")
	ErrInitChain  = New(ErrCodeInitChain, "InitChain failed")
	ErrCheckTx    = New(ErrCodeCheckTx, "CheckTx failed")
	ErrBeginBlock = New(ErrCodeBeginBlock, "BeginBlock failed")
	ErrDeliverTx  = New(ErrCodeDeliverTx, "DeliverTx failed")
	ErrEndBlock   = New(ErrCodeEndBlock, "EndBlock failed")
	ErrCommit     = New(ErrCodeCommit, "Commit failed")
	ErrQuery      = New(ErrCodeQuery, "query failed")

	ErrNotFoundAccount         = New(ErrCodeNotFoundAccount, "not found account")
	ErrInvalidTrx              = New(ErrCodeInvalidTrx, "invalid transaction")
	ErrInvalidAddress          = ErrInvalidTrx.Wrap(NewOrdinary("invalid address"))
	ErrInvalidNonce            = ErrInvalidTrx.Wrap(NewOrdinary("invalid nonce"))
	ErrInvalidAmount           = ErrInvalidTrx.Wrap(NewOrdinary("invalid amount"))
	ErrInvalidTrxType          = ErrInvalidTrx.Wrap(NewOrdinary("wrong transaction type"))
	ErrInvalidTrxPayloadType   = ErrInvalidTrx.Wrap(NewOrdinary("wrong transaction payload type"))
	ErrInvalidTrxPayloadParams = ErrInvalidTrx.Wrap(NewOrdinary("invalid params of transaction payload"))
	ErrInvalidTrxSig           = ErrInvalidTrx.Wrap(NewOrdinary("invalid signature"))

	ErrNotFoundContract      = New(ErrCodeNotFoundContract, "not found contract")
	ErrUnknownMethod         = New(ErrCodeUnknownMethod, "unknown method")
	ErrAdminOnly             = New(ErrCodeAdminOnly, "dev: admin only")
	ErrInvalidState          = New(ErrCodeInvalidState, "invalid state")
	ErrInvalidParams         = New(ErrCodeInvalidParams, "invalid parameters")
	ErrInsufficientFund      = New(ErrCodeInsufficientFund, "insufficient fund")
	ErrInsufficientAllowance = New(ErrCodeInsufficientAllowance, "insufficient allowance")

	ErrInvalidQueryPath   = New(ErrCodeInvalidQueryPath, "invalid query path")
	ErrInvalidQueryParams = New(ErrCodeInvalidQueryParams, "invalid query parameters")

	ErrNotFoundResult = New(ErrCodeNotFoundResult, "not found result")

	ErrUnknownTrxType = NewOrdinary("unknown transaction type")
	ErrDuplicatedKey  = NewOrdinary("already existed key")
)

type XError interface {
	Code() uint32
	Cause() error
	Error() string
	Msg() string
	Wrap(error) XError
	Wrapf(string, ...any) XError
	Contains(XError) bool
	Equal(XError) bool
}

type xerror struct {
	code  uint32
	msg   string
	cause error
}

func New(code uint32, msg string) XError {
	return &xerror{
		code: code,
		msg:  msg,
	}
}

func NewOrdinary(msg string) XError {
	return &xerror{
		code: ErrCodeOrdinary,
		msg:  msg,
	}
}

func From(err error) XError {
	if err == nil {
		return nil
	}
	if xerr, ok := err.(XError); ok {
		return xerr
	}
	return NewOrdinary(err.Error())
}

func Wrap(err error, msg string) XError {
	return &xerror{
		code:  ErrCodeOrdinary,
		msg:   msg,
		cause: err,
	}
}

func (xerr *xerror) Code() uint32 {
	return xerr.code
}

func (xerr *xerror) Error() string {
	msg := xerr.msg
	if xerr.cause != nil {
		msg += "\n\t" + xerr.cause.Error()
	}
	return msg
}

func (xerr *xerror) Msg() string {
	return xerr.msg
}

func (xerr *xerror) Cause() error {
	return xerr.cause
}

func (xerr *xerror) Wrap(err error) XError {
	if xerr.cause != nil {
		if cerr, ok := xerr.cause.(*xerror); ok {
			return &xerror{
				code:  xerr.code,
				msg:   xerr.msg,
				cause: cerr.Wrap(err),
			}
		}
	}
	return &xerror{
		code:  xerr.code,
		msg:   xerr.msg,
		cause: err,
	}
}

func (xerr *xerror) Wrapf(format string, args ...any) XError {
	return xerr.Wrap(New(ErrCodeOrdinary, fmt.Sprintf(format, args...)))
}

// Contains reports whether `other` is `xerr` itself or one of its causes.
func (xerr *xerror) Contains(other XError) bool {
	if xerr.code == other.Code() && xerr.msg == other.Msg() {
		return true
	} else if xerr.cause != nil {
		if _xerr, ok := xerr.cause.(*xerror); ok {
			return _xerr.Contains(other)
		}
		return errors.Is(xerr.cause, other)
	}
	return false
}

func (xerr *xerror) Equal(other XError) bool {
	return xerr.code == other.Code()
}
