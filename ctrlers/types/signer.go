package types

import (
	"fmt"

	"github.com/ShibuiDAO/veShibui/types"
	"github.com/ShibuiDAO/veShibui/types/bytes"
	"github.com/ShibuiDAO/veShibui/types/crypto"
	"github.com/ShibuiDAO/veShibui/types/xerrors"
	"github.com/ethereum/go-ethereum/rlp"
)

// GetPreimageSenderTrxRLP returns the rlp encoded tx without the sig followed by the chain id.
func GetPreimageSenderTrxRLP(tx *Trx, chainId string) ([]byte, xerrors.XError) {
	sig := tx.Sig
	tx.Sig = nil
	defer func() {
		tx.Sig = sig
	}()

	bz, err := rlp.EncodeToBytes(tx)
	if err != nil {
		return nil, xerrors.From(err)
	}
	return append(bz, []byte(chainId)...), nil
}

func SignTrxRLP(tx *Trx, prvKey []byte, chainId string) (bytes.HexBytes, xerrors.XError) {
	preimg, xerr := GetPreimageSenderTrxRLP(tx, chainId)
	if xerr != nil {
		return nil, xerr
	}
	sig, xerr := crypto.Sign(preimg, prvKey)
	if xerr != nil {
		return nil, xerr
	}
	tx.Sig = sig
	return sig, nil
}

// VerifyTrxRLP recovers the signer of `tx` and checks that it is `tx.From`.
func VerifyTrxRLP(tx *Trx, chainId string) (types.Address, bytes.HexBytes, xerrors.XError) {
	preimg, xerr := GetPreimageSenderTrxRLP(tx, chainId)
	if xerr != nil {
		return nil, nil, xerr
	}

	fromAddr, pubKey, xerr := crypto.Sig2Addr(preimg, tx.Sig)
	if xerr != nil {
		return nil, nil, xerrors.ErrInvalidTrxSig.Wrap(xerr)
	}
	if bytes.Compare(fromAddr, tx.From) != 0 {
		return nil, nil, xerrors.ErrInvalidTrxSig.Wrap(fmt.Errorf("wrong address(or sig) - expected: %v, actual: %v", tx.From, fromAddr))
	}
	return fromAddr, pubKey, nil
}
