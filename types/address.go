package types

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/ShibuiDAO/veShibui/types/bytes"
)

const AddrSize = 20

type Address = bytes.HexBytes

func ZeroAddress() Address {
	return bytes.ZeroBytes(AddrSize)
}

func RandAddress() Address {
	return bytes.RandBytes(AddrSize)
}

// IsZeroAddress returns true for nil and for the 20 bytes zero address.
func IsZeroAddress(addr Address) bool {
	return addr.IsZero()
}

func HexToAddress(s string) (Address, error) {
	bz, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
	if err != nil {
		return nil, err
	}
	if len(bz) != AddrSize {
		return nil, fmt.Errorf("wrong address length: %v", len(bz))
	}
	return bz, nil
}

// AddressOrZero returns a zero address instead of nil.
func AddressOrZero(addr Address) Address {
	if addr == nil {
		return ZeroAddress()
	}
	return addr
}
