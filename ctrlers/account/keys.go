package account

import (
	ctrlertypes "github.com/ShibuiDAO/veShibui/ctrlers/types"
	v1 "github.com/ShibuiDAO/veShibui/ledger/v1"
	"github.com/ShibuiDAO/veShibui/types"
)

const (
	prefixAccount    byte = 0x10
	prefixTokenInfo  byte = 0x11
	prefixBalance    byte = 0x12
	prefixAllowance  byte = 0x13
	prefixDeployment byte = 0x20
)

func LedgerKeyAccount(addr types.Address) v1.LedgerKey {
	return v1.MakeKey([]byte{prefixAccount}, addr)
}

func LedgerKeyTokenInfo(token types.Address) v1.LedgerKey {
	return v1.MakeKey([]byte{prefixTokenInfo}, token)
}

func LedgerKeyBalance(token, owner types.Address) v1.LedgerKey {
	return v1.MakeKey([]byte{prefixBalance}, token, owner)
}

func LedgerKeyAllowance(token, owner, spender types.Address) v1.LedgerKey {
	return v1.MakeKey([]byte{prefixAllowance}, token, owner, spender)
}

func LedgerKeyDeployment(kind int32, name string) v1.LedgerKey {
	return v1.MakeKey([]byte{prefixDeployment, byte(kind)}, []byte(name))
}

func newItemFor(key v1.LedgerKey) v1.ILedgerItem {
	if len(key) == 0 {
		return nil
	}
	switch key[0] {
	case prefixAccount:
		return &ctrlertypes.Account{}
	case prefixTokenInfo:
		return &ctrlertypes.TokenInfo{}
	case prefixBalance, prefixAllowance:
		return &ctrlertypes.Amount{}
	case prefixDeployment:
		return &ctrlertypes.Deployment{}
	}
	return nil
}
