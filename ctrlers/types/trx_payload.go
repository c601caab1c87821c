package types

import (
	"bytes"
	"io"

	"github.com/ethereum/go-ethereum/rlp"
)

// TrxPayloadDeploy creates a new contract of `Kind` with the constructor arguments `Args`.
type TrxPayloadDeploy struct {
	Kind int32    `json:"kind"`
	Args [][]byte `json:"args,omitempty"`
}

func (tx *TrxPayloadDeploy) Type() int32 {
	return TRX_DEPLOY
}

func (tx *TrxPayloadDeploy) Equal(_tx ITrxPayload) bool {
	_p, ok := _tx.(*TrxPayloadDeploy)
	if !ok || tx.Kind != _p.Kind {
		return false
	}
	return equalArgs(tx.Args, _p.Args)
}

type payloadDeployRLP struct {
	Kind uint64
	Args [][]byte
}

func (tx *TrxPayloadDeploy) EncodeRLP(w io.Writer) error {
	return rlp.Encode(w, &payloadDeployRLP{Kind: uint64(tx.Kind), Args: tx.Args})
}

func (tx *TrxPayloadDeploy) DecodeRLP(s *rlp.Stream) error {
	p := &payloadDeployRLP{}
	if err := s.Decode(p); err != nil {
		return err
	}
	tx.Kind = int32(p.Kind)
	tx.Args = p.Args
	return nil
}

// TrxPayloadCall calls `Method`, the signature like "create_lock(uint256,uint256)", with `Args`.
type TrxPayloadCall struct {
	Method string   `json:"method"`
	Args   [][]byte `json:"args,omitempty"`
}

func (tx *TrxPayloadCall) Type() int32 {
	return TRX_CALL
}

func (tx *TrxPayloadCall) Equal(_tx ITrxPayload) bool {
	_p, ok := _tx.(*TrxPayloadCall)
	if !ok || tx.Method != _p.Method {
		return false
	}
	return equalArgs(tx.Args, _p.Args)
}

type payloadCallRLP struct {
	Method string
	Args   [][]byte
}

func (tx *TrxPayloadCall) EncodeRLP(w io.Writer) error {
	return rlp.Encode(w, &payloadCallRLP{Method: tx.Method, Args: tx.Args})
}

func (tx *TrxPayloadCall) DecodeRLP(s *rlp.Stream) error {
	p := &payloadCallRLP{}
	if err := s.Decode(p); err != nil {
		return err
	}
	tx.Method = p.Method
	tx.Args = p.Args
	return nil
}

func equalArgs(a, b [][]byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !bytes.Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

var _ ITrxPayload = (*TrxPayloadDeploy)(nil)
var _ ITrxPayload = (*TrxPayloadCall)(nil)
