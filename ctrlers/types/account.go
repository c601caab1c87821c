package types

import (
	"github.com/ShibuiDAO/veShibui/types"
	"github.com/ShibuiDAO/veShibui/types/xerrors"
	"github.com/ethereum/go-ethereum/rlp"
)

// The kinds of accounts. Every kind except KIND_EOA is a contract and can be deployed.
const (
	KIND_EOA int32 = iota
	KIND_TOKEN
	KIND_ESCROW
	KIND_STREAMER
	KIND_GAUGE
	KIND_MAX = KIND_GAUGE
)

func KindString(kind int32) string {
	switch kind {
	case KIND_EOA:
		return "eoa"
	case KIND_TOKEN:
		return "token"
	case KIND_ESCROW:
		return "escrow"
	case KIND_STREAMER:
		return "streamer"
	case KIND_GAUGE:
		return "gauge"
	default:
		return "unknown"
	}
}

type Account struct {
	Address types.Address `json:"address"`
	Nonce   uint64        `json:"nonce,string"`
	Kind    int32         `json:"kind"`
}

func NewAccount(addr types.Address) *Account {
	return &Account{
		Address: addr,
	}
}

func NewContractAccount(addr types.Address, kind int32) *Account {
	return &Account{
		Address: addr,
		Kind:    kind,
	}
}

func (acct *Account) IsContract() bool {
	return acct.Kind != KIND_EOA
}

func (acct *Account) AddNonce() {
	acct.Nonce++
}

func (acct *Account) CheckNonce(n uint64) xerrors.XError {
	if acct.Nonce != n {
		return xerrors.ErrInvalidNonce.Wrapf("expected: %v, actual:%v, address: %v", acct.Nonce, n, acct.Address)
	}
	return nil
}

func (acct *Account) Encode() ([]byte, xerrors.XError) {
	bz, err := rlp.EncodeToBytes(acct)
	if err != nil {
		return nil, xerrors.From(err)
	}
	return bz, nil
}

func (acct *Account) Decode(bz []byte) xerrors.XError {
	if err := rlp.DecodeBytes(bz, acct); err != nil {
		return xerrors.From(err)
	}
	return nil
}

// Deployment records the named contracts created at genesis.
type Deployment struct {
	Name     string        `json:"name"`
	Kind     int32         `json:"kind"`
	Contract types.Address `json:"contract"`
	Streamer types.Address `json:"streamer,omitempty"`
}

func (d *Deployment) Encode() ([]byte, xerrors.XError) {
	bz, err := rlp.EncodeToBytes(d)
	if err != nil {
		return nil, xerrors.From(err)
	}
	return bz, nil
}

func (d *Deployment) Decode(bz []byte) xerrors.XError {
	if err := rlp.DecodeBytes(bz, d); err != nil {
		return xerrors.From(err)
	}
	return nil
}
