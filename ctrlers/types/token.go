package types

import (
	"github.com/ShibuiDAO/veShibui/types"
	"github.com/ShibuiDAO/veShibui/types/xerrors"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/holiman/uint256"
)

type TokenInfo struct {
	Name        string        `json:"name"`
	Symbol      string        `json:"symbol"`
	Decimals    uint64        `json:"decimals"`
	TotalSupply *uint256.Int  `json:"totalSupply"`
	Minter      types.Address `json:"minter"`
}

func (ti *TokenInfo) Encode() ([]byte, xerrors.XError) {
	bz, err := rlp.EncodeToBytes(ti)
	if err != nil {
		return nil, xerrors.From(err)
	}
	return bz, nil
}

func (ti *TokenInfo) Decode(bz []byte) xerrors.XError {
	if err := rlp.DecodeBytes(bz, ti); err != nil {
		return xerrors.From(err)
	}
	return nil
}

// Amount is the ledger item holding one uint256 value, e.g. a balance or an allowance.
type Amount struct {
	Val *uint256.Int
}

func NewAmount(v *uint256.Int) *Amount {
	if v == nil {
		v = uint256.NewInt(0)
	}
	return &Amount{Val: v}
}

func (a *Amount) Value() *uint256.Int {
	if a == nil || a.Val == nil {
		return uint256.NewInt(0)
	}
	return a.Val.Clone()
}

func (a *Amount) Encode() ([]byte, xerrors.XError) {
	return a.Value().Bytes(), nil
}

func (a *Amount) Decode(bz []byte) xerrors.XError {
	if len(bz) > 32 {
		return xerrors.ErrInvalidParams.Wrapf("too long amount bytes: %d", len(bz))
	}
	a.Val = new(uint256.Int).SetBytes(bz)
	return nil
}

// AddressItem is the ledger item holding one address.
type AddressItem struct {
	Addr types.Address
}

func (a *AddressItem) Encode() ([]byte, xerrors.XError) {
	return a.Addr.Copy(), nil
}

func (a *AddressItem) Decode(bz []byte) xerrors.XError {
	a.Addr = types.Address(bz).Copy()
	return nil
}
