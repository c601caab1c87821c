package crypto

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/ShibuiDAO/veShibui/libs/jsonx"
	"github.com/ShibuiDAO/veShibui/types"
	"github.com/ShibuiDAO/veShibui/types/bytes"
	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/scrypt"
)

const (
	DefaultWalletKeyDir     = "walkeys"
	DefaultWalletKeyDirPerm = 0o700
	DefaultWalletKeyPerm    = 0o600

	walletKeyVersion = 1
	scryptN          = 1 << 15
	scryptR          = 8
	scryptP          = 1
	scryptKeyLen     = chacha20poly1305.KeySize
)

var ErrLockedWalletKey = errors.New("wallet key is locked")

type CipherParams struct {
	KDF    string         `json:"kdf"`
	N      int            `json:"n"`
	R      int            `json:"r"`
	P      int            `json:"p"`
	Salt   bytes.HexBytes `json:"salt"`
	Nonce  bytes.HexBytes `json:"nonce"`
	Cipher string         `json:"cipher"`
}

// WalletKey is a secp256k1 private key sealed with chacha20poly1305 under a scrypt derived key.
type WalletKey struct {
	Version    int            `json:"version"`
	Address    types.Address  `json:"address"`
	Params     CipherParams   `json:"params"`
	CipherText bytes.HexBytes `json:"cipherText"`

	prvKey []byte
	pubKey []byte
	mtx    sync.RWMutex
}

func NewWalletKey(prvKey, pass []byte) (*WalletKey, error) {
	addr, pubKey, xerr := PrvBytes2Addr(prvKey)
	if xerr != nil {
		return nil, xerr
	}
	wk := &WalletKey{
		Version: walletKeyVersion,
		Address: addr,
	}
	if err := wk.seal(prvKey, pass); err != nil {
		return nil, err
	}
	wk.prvKey = append([]byte(nil), prvKey...)
	wk.pubKey = pubKey
	return wk, nil
}

func GenWalletKey(pass []byte) (*WalletKey, error) {
	prv, xerr := NewPrvKey()
	if xerr != nil {
		return nil, xerr
	}
	prvBytes := PrvKeyBytes(prv)
	defer bytes.ClearBytes(prvBytes)
	return NewWalletKey(prvBytes, pass)
}

func OpenWalletKey(path string) (*WalletKey, error) {
	bz, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	wk := &WalletKey{}
	if err := jsonx.Unmarshal(bz, wk); err != nil {
		return nil, err
	}
	if wk.Version != walletKeyVersion {
		return nil, fmt.Errorf("unsupported wallet key version: %v", wk.Version)
	}
	return wk, nil
}

func (wk *WalletKey) Save(path string) error {
	wk.mtx.RLock()
	defer wk.mtx.RUnlock()

	bz, err := jsonx.MarshalIndent(wk, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, bz, DefaultWalletKeyPerm)
}

func (wk *WalletKey) seal(prvKey, pass []byte) error {
	salt := bytes.RandBytes(32)
	nonce := bytes.RandBytes(chacha20poly1305.NonceSize)

	key, err := scrypt.Key(pass, salt, scryptN, scryptR, scryptP, scryptKeyLen)
	if err != nil {
		return err
	}
	defer bytes.ClearBytes(key)

	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return err
	}

	wk.Params = CipherParams{
		KDF:    "scrypt",
		N:      scryptN,
		R:      scryptR,
		P:      scryptP,
		Salt:   salt,
		Nonce:  nonce,
		Cipher: "chacha20poly1305",
	}
	wk.CipherText = aead.Seal(nil, nonce, prvKey, wk.Address)
	return nil
}

func (wk *WalletKey) Unlock(pass []byte) error {
	wk.mtx.Lock()
	defer wk.mtx.Unlock()

	if wk.prvKey != nil {
		return nil
	}

	key, err := scrypt.Key(pass, wk.Params.Salt, wk.Params.N, wk.Params.R, wk.Params.P, scryptKeyLen)
	if err != nil {
		return err
	}
	defer bytes.ClearBytes(key)

	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return err
	}
	prvKey, err := aead.Open(nil, wk.Params.Nonce, wk.CipherText, wk.Address)
	if err != nil {
		return errors.New("wrong passphrase")
	}

	_, pubKey, xerr := PrvBytes2Addr(prvKey)
	if xerr != nil {
		return xerr
	}
	wk.prvKey = prvKey
	wk.pubKey = pubKey
	return nil
}

func (wk *WalletKey) Lock() {
	wk.mtx.Lock()
	defer wk.mtx.Unlock()

	bytes.ClearBytes(wk.prvKey)
	wk.prvKey = nil
	wk.pubKey = nil
}

// LockWith re-seals the unlocked private key with a new passphrase and locks it.
func (wk *WalletKey) LockWith(pass []byte) error {
	wk.mtx.Lock()
	defer wk.mtx.Unlock()

	if wk.prvKey == nil {
		return ErrLockedWalletKey
	}
	if err := wk.seal(wk.prvKey, pass); err != nil {
		return err
	}
	bytes.ClearBytes(wk.prvKey)
	wk.prvKey = nil
	wk.pubKey = nil
	return nil
}

func (wk *WalletKey) IsLocked() bool {
	wk.mtx.RLock()
	defer wk.mtx.RUnlock()

	return wk.prvKey == nil
}

func (wk *WalletKey) PrvKey() []byte {
	wk.mtx.RLock()
	defer wk.mtx.RUnlock()

	return wk.prvKey
}

func (wk *WalletKey) PubKey() []byte {
	wk.mtx.RLock()
	defer wk.mtx.RUnlock()

	return wk.pubKey
}

// CreateWalletKeyFiles generates `cnt` wallet keys sealed with `pass` and saves them into `dir`.
func CreateWalletKeyFiles(pass []byte, cnt int, dir string) ([]*WalletKey, error) {
	var wks []*WalletKey
	for i := 0; i < cnt; i++ {
		wk, err := GenWalletKey(pass)
		if err != nil {
			return nil, err
		}
		path := filepath.Join(dir, fmt.Sprintf("wk%X.json", []byte(wk.Address)))
		if err := wk.Save(path); err != nil {
			return nil, err
		}
		wk.Lock()
		wks = append(wks, wk)
	}
	return wks, nil
}
