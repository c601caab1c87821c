package crypto

import (
	"crypto/ecdsa"
	"hash"

	"github.com/ShibuiDAO/veShibui/types"
	"github.com/ShibuiDAO/veShibui/types/xerrors"
	"github.com/ethereum/go-ethereum/common"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"golang.org/x/crypto/sha3"
)

const SelectorSize = 4

func DefaultHasher() hash.Hash {
	return sha3.NewLegacyKeccak256()
}

func DefaultHash(datas ...[]byte) []byte {
	hasher := DefaultHasher()
	for _, d := range datas {
		_, _ = hasher.Write(d)
	}
	return hasher.Sum(nil)
}

// Selector returns the first 4 bytes of the hash of a method signature like `get_reward()`.
func Selector(sig string) []byte {
	return DefaultHash([]byte(sig))[:SelectorSize]
}

// CreateAddress derives the address of a contract deployed by `creator` with `nonce`.
func CreateAddress(creator types.Address, nonce uint64) types.Address {
	return ethcrypto.CreateAddress(common.BytesToAddress(creator), nonce).Bytes()
}

func NewPrvKey() (*ecdsa.PrivateKey, xerrors.XError) {
	prv, err := ethcrypto.GenerateKey()
	if err != nil {
		return nil, xerrors.From(err)
	}
	return prv, nil
}

func PrvKeyBytes(prv *ecdsa.PrivateKey) []byte {
	return ethcrypto.FromECDSA(prv)
}

func PubBytes2Addr(pubBytes []byte) (types.Address, xerrors.XError) {
	pub, err := ethcrypto.UnmarshalPubkey(pubBytes)
	if err != nil {
		pub, err = ethcrypto.DecompressPubkey(pubBytes)
		if err != nil {
			return nil, xerrors.From(err)
		}
	}
	return ethcrypto.PubkeyToAddress(*pub).Bytes(), nil
}

func PrvBytes2Addr(prvBytes []byte) (types.Address, []byte, xerrors.XError) {
	prv, err := ethcrypto.ToECDSA(prvBytes)
	if err != nil {
		return nil, nil, xerrors.From(err)
	}
	return ethcrypto.PubkeyToAddress(prv.PublicKey).Bytes(), ethcrypto.FromECDSAPub(&prv.PublicKey), nil
}

// Sign signs the hash of `msg`. The recovery id of the returned signature is 0 or 1.
func Sign(msg, prvBytes []byte) ([]byte, xerrors.XError) {
	prv, err := ethcrypto.ToECDSA(prvBytes)
	if err != nil {
		return nil, xerrors.From(err)
	}
	sig, err := ethcrypto.Sign(DefaultHash(msg), prv)
	if err != nil {
		return nil, xerrors.From(err)
	}
	return sig, nil
}

// Sig2Addr recovers the signer's address and public key from `sig` over the hash of `msg`.
func Sig2Addr(msg, sig []byte) (types.Address, []byte, xerrors.XError) {
	pubBytes, err := ethcrypto.Ecrecover(DefaultHash(msg), sig)
	if err != nil {
		return nil, nil, xerrors.From(err)
	}
	addr, xerr := PubBytes2Addr(pubBytes)
	if xerr != nil {
		return nil, nil, xerr
	}
	return addr, pubBytes, nil
}
