package bytes

import (
	"bytes"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"

	tmbytes "github.com/tendermint/tendermint/libs/bytes"
)

// HexBytes enables HEX-encoding for json/encoding.
type HexBytes tmbytes.HexBytes

func (hb HexBytes) MarshalJSON() ([]byte, error) {
	s := "0x" + hex.EncodeToString(hb)
	jbz := make([]byte, len(s)+2)
	jbz[0] = '"'
	copy(jbz[1:], s)
	jbz[len(jbz)-1] = '"'
	return jbz, nil
}

// UnmarshalJSON accepts a hex string with or without `0x` and falls back to base64.
func (hb *HexBytes) UnmarshalJSON(data []byte) error {
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return fmt.Errorf("invalid hex string: %s", data)
	}

	val := string(data[1 : len(data)-1])
	if isHex(val) {
		bz, err := hex.DecodeString(strings.TrimPrefix(val, "0x"))
		if err != nil {
			return err
		}
		*hb = bz
		return nil
	}

	bz, err := base64.StdEncoding.DecodeString(val)
	if err != nil {
		return err
	}
	*hb = bz
	return nil
}

func (hb HexBytes) Bytes() []byte {
	return hb
}

func (hb HexBytes) Copy() HexBytes {
	return Copy(hb)
}

func (hb HexBytes) Compare(o HexBytes) int {
	return bytes.Compare(hb, o)
}

func (hb HexBytes) Equal(o HexBytes) bool {
	return bytes.Equal(hb, o)
}

func (hb HexBytes) IsZero() bool {
	for _, b := range hb {
		if b != 0 {
			return false
		}
	}
	return true
}

func (hb HexBytes) String() string {
	return "0x" + hex.EncodeToString(hb)
}

func (hb HexBytes) Format(s fmt.State, verb rune) {
	switch verb {
	case 'p':
		_, _ = s.Write([]byte(fmt.Sprintf("%p", hb)))
	default:
		_, _ = s.Write([]byte(hb.String()))
	}
}

func Compare(h1, h2 HexBytes) int {
	return bytes.Compare(h1, h2)
}

func Equal(h1, h2 HexBytes) bool {
	return bytes.Equal(h1, h2)
}

func Copy(s HexBytes) HexBytes {
	if s == nil {
		return nil
	}
	ret := make(HexBytes, len(s))
	copy(ret, s)
	return ret
}

func RandBytes(n int) HexBytes {
	bz := make([]byte, n)
	_, _ = rand.Read(bz)
	return bz
}

func ZeroBytes(n int) HexBytes {
	return make([]byte, n)
}

func ClearBytes(bz []byte) {
	for i := range bz {
		bz[i] = 0
	}
}

func isHex(s string) bool {
	v := strings.TrimPrefix(s, "0x")
	if len(v)%2 != 0 {
		return false
	}
	for _, b := range []byte(v) {
		if !(b >= '0' && b <= '9' || b >= 'a' && b <= 'f' || b >= 'A' && b <= 'F') {
			return false
		}
	}
	return true
}
