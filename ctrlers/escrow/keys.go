package escrow

import (
	ctrlertypes "github.com/ShibuiDAO/veShibui/ctrlers/types"
	v1 "github.com/ShibuiDAO/veShibui/ledger/v1"
	"github.com/ShibuiDAO/veShibui/types"
)

const (
	prefixEscrowInfo  byte = 0x30
	prefixUserLock    byte = 0x31
	prefixPoint       byte = 0x32
	prefixUserPoint   byte = 0x33
	prefixSlopeChange byte = 0x34
)

func LedgerKeyEscrowInfo(contract types.Address) v1.LedgerKey {
	return v1.MakeKey([]byte{prefixEscrowInfo}, contract)
}

func LedgerKeyUserLock(contract, user types.Address) v1.LedgerKey {
	return v1.MakeKey([]byte{prefixUserLock}, contract, user)
}

func LedgerKeyPoint(contract types.Address, epoch uint64) v1.LedgerKey {
	return v1.MakeKey([]byte{prefixPoint}, contract, v1.Uint64Bytes(epoch))
}

func LedgerKeyUserPoint(contract, user types.Address, epoch uint64) v1.LedgerKey {
	return v1.MakeKey([]byte{prefixUserPoint}, contract, user, v1.Uint64Bytes(epoch))
}

func LedgerKeySlopeChange(contract types.Address, t uint64) v1.LedgerKey {
	return v1.MakeKey([]byte{prefixSlopeChange}, contract, v1.Uint64Bytes(t))
}

func newItemFor(key v1.LedgerKey) v1.ILedgerItem {
	if len(key) == 0 {
		return nil
	}
	switch key[0] {
	case prefixEscrowInfo:
		return &EscrowInfo{}
	case prefixUserLock:
		return &UserLock{}
	case prefixPoint, prefixUserPoint:
		return &Point{}
	case prefixSlopeChange:
		return &ctrlertypes.Amount{}
	}
	return nil
}
