package v1

import (
	"encoding/binary"
)

// MakeKey concatenates `prefix` and `parts` into a new key.
func MakeKey(prefix []byte, parts ...[]byte) LedgerKey {
	n := len(prefix)
	for _, p := range parts {
		n += len(p)
	}
	k := make([]byte, 0, n)
	k = append(k, prefix...)
	for _, p := range parts {
		k = append(k, p...)
	}
	return k
}

// Uint64Bytes returns the big endian bytes of `n` so that numeric keys are ordered.
func Uint64Bytes(n uint64) []byte {
	bz := make([]byte, 8)
	binary.BigEndian.PutUint64(bz, n)
	return bz
}

func Int64Bytes(n int64) []byte {
	return Uint64Bytes(uint64(n))
}

func UnwrapKeyPrefix(key LedgerKey) []byte {
	return key[1:]
}

// prefixEnd returns the smallest key which is greater than all keys having `prefix`.
func prefixEnd(prefix []byte) []byte {
	if len(prefix) == 0 {
		return nil
	}
	end := make([]byte, len(prefix))
	copy(end, prefix)
	for i := len(end) - 1; i >= 0; i-- {
		if end[i] < 0xFF {
			end[i]++
			return end[:i+1]
		}
	}
	return nil
}
