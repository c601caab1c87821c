package types

import (
	"io"
	"time"

	"github.com/ShibuiDAO/veShibui/types"
	"github.com/ShibuiDAO/veShibui/types/bytes"
	"github.com/ShibuiDAO/veShibui/types/xerrors"
	"github.com/ethereum/go-ethereum/rlp"
)

const (
	TRX_DEPLOY int32 = 1 + iota
	TRX_CALL
	TRX_MIN_TYPE = TRX_DEPLOY
	TRX_MAX_TYPE = TRX_CALL
)

const (
	EVENT_ATTR_TXSTATUS = "status"
	EVENT_ATTR_TXTYPE   = "type"
	EVENT_ATTR_TXSENDER = "sender"
	EVENT_ATTR_TXRECVER = "receiver"
	EVENT_ATTR_METHOD   = "method"
	EVENT_ATTR_CONTRACT = "contract"
)

const MAX_TRX_ARGS = 16

type trxRLP struct {
	Version uint64
	Time    uint64
	Nonce   uint64
	From    types.Address
	To      types.Address
	Type    uint64
	Payload bytes.HexBytes
	Sig     bytes.HexBytes
}

type ITrxPayload interface {
	Type() int32
	Equal(ITrxPayload) bool
	rlp.Encoder
	rlp.Decoder
}

// Trx is a transaction that deploys a contract (`To` is nil) or calls a method of `To`.
type Trx struct {
	Version int32          `json:"version,omitempty"`
	Time    int64          `json:"time"`
	Nonce   int64          `json:"nonce"`
	From    types.Address  `json:"from"`
	To      types.Address  `json:"to,omitempty"`
	Type    int32          `json:"type"`
	Payload ITrxPayload    `json:"payload,omitempty"`
	Sig     bytes.HexBytes `json:"sig"`
}

func NewTrx(ver int32, from, to types.Address, nonce int64, payload ITrxPayload) *Trx {
	return &Trx{
		Version: ver,
		Time:    time.Now().Round(0).UTC().UnixNano(),
		Nonce:   nonce,
		From:    from,
		To:      to,
		Type:    payload.Type(),
		Payload: payload,
	}
}

func NewTrxDeploy(from types.Address, nonce int64, kind int32, args ...[]byte) *Trx {
	return NewTrx(1, from, nil, nonce, &TrxPayloadDeploy{Kind: kind, Args: args})
}

func NewTrxCall(from, to types.Address, nonce int64, method string, args ...[]byte) *Trx {
	return NewTrx(1, from, to, nonce, &TrxPayloadCall{Method: method, Args: args})
}

func (tx *Trx) Equal(_tx *Trx) bool {
	if tx.Version != _tx.Version ||
		tx.Time != _tx.Time ||
		tx.Nonce != _tx.Nonce ||
		tx.Type != _tx.Type {
		return false
	}
	if tx.From.Compare(_tx.From) != 0 || tx.To.Compare(_tx.To) != 0 {
		return false
	}
	if bytes.Compare(tx.Sig, _tx.Sig) != 0 {
		return false
	}
	if tx.Payload != nil {
		return tx.Payload.Equal(_tx.Payload)
	}
	return _tx.Payload == nil
}

func (tx *Trx) EncodeRLP(w io.Writer) error {
	var payload bytes.HexBytes
	if tx.Payload != nil {
		_tmp, err := rlp.EncodeToBytes(tx.Payload)
		if err != nil {
			return err
		}
		payload = _tmp
	}

	tmpTx := &trxRLP{
		Version: uint64(tx.Version),
		Time:    uint64(tx.Time),
		Nonce:   uint64(tx.Nonce),
		From:    tx.From,
		To:      tx.To,
		Type:    uint64(tx.Type),
		Payload: payload,
		Sig:     tx.Sig,
	}
	return rlp.Encode(w, tmpTx)
}

func (tx *Trx) DecodeRLP(s *rlp.Stream) error {
	rtx := &trxRLP{}
	if err := s.Decode(rtx); err != nil {
		return err
	}

	tx.Version = int32(rtx.Version)
	tx.Time = int64(rtx.Time)
	tx.Nonce = int64(rtx.Nonce)
	tx.From = rtx.From
	tx.To = rtx.To
	tx.Type = int32(rtx.Type)
	tx.Sig = rtx.Sig

	var payload ITrxPayload
	switch tx.Type {
	case TRX_DEPLOY:
		payload = &TrxPayloadDeploy{}
	case TRX_CALL:
		payload = &TrxPayloadCall{}
	default:
		return xerrors.ErrInvalidTrxPayloadType
	}
	if len(rtx.Payload) == 0 {
		return xerrors.ErrInvalidTrxPayloadType.Wrapf("empty payload")
	}
	if err := rlp.DecodeBytes(rtx.Payload, payload); err != nil {
		return err
	}
	tx.Payload = payload
	return nil
}

var _ rlp.Encoder = (*Trx)(nil)
var _ rlp.Decoder = (*Trx)(nil)

func (tx *Trx) GetType() int32 {
	return tx.Type
}

func (tx *Trx) TypeString() string {
	return TrxTypeString(tx.GetType())
}

func (tx *Trx) Encode() ([]byte, xerrors.XError) {
	bz, err := rlp.EncodeToBytes(tx)
	if err != nil {
		return nil, xerrors.From(err)
	}
	return bz, nil
}

func (tx *Trx) Decode(bz []byte) xerrors.XError {
	if err := rlp.DecodeBytes(bz, tx); err != nil {
		return xerrors.ErrInvalidTrx.Wrap(err)
	}
	return nil
}

func (tx *Trx) Validate() xerrors.XError {
	if len(tx.From) != types.AddrSize {
		return xerrors.ErrInvalidAddress
	}
	if tx.Type < TRX_MIN_TYPE || tx.Type > TRX_MAX_TYPE {
		return xerrors.ErrInvalidTrxType
	}
	if tx.Payload == nil || tx.Type != tx.Payload.Type() {
		return xerrors.ErrInvalidTrxPayloadType
	}
	switch payload := tx.Payload.(type) {
	case *TrxPayloadDeploy:
		if len(tx.To) != 0 {
			return xerrors.ErrInvalidAddress.Wrapf("deploy transaction must not have a receiver")
		}
		if len(payload.Args) > MAX_TRX_ARGS {
			return xerrors.ErrInvalidTrxPayloadParams.Wrapf("too many arguments")
		}
	case *TrxPayloadCall:
		if len(tx.To) != types.AddrSize {
			return xerrors.ErrInvalidAddress
		}
		if payload.Method == "" {
			return xerrors.ErrInvalidTrxPayloadParams.Wrapf("empty method")
		}
		if len(payload.Args) > MAX_TRX_ARGS {
			return xerrors.ErrInvalidTrxPayloadParams.Wrapf("too many arguments")
		}
	}
	if tx.Sig == nil {
		return xerrors.ErrInvalidTrxSig
	}
	return nil
}

func TrxTypeString(t int32) string {
	switch t {
	case TRX_DEPLOY:
		return "deploy"
	case TRX_CALL:
		return "call"
	default:
		return "unknown"
	}
}
