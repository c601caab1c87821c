package gauge

import (
	ctrlertypes "github.com/ShibuiDAO/veShibui/ctrlers/types"
	v1 "github.com/ShibuiDAO/veShibui/ledger/v1"
	"github.com/ShibuiDAO/veShibui/types"
)

const (
	prefixGaugeInfo       byte = 0x50
	prefixBalance         byte = 0x51
	prefixAllowance       byte = 0x52
	prefixIntegral        byte = 0x53
	prefixIntegralFor     byte = 0x54
	prefixClaimData       byte = 0x55
	prefixRewardsReceiver byte = 0x56
)

func LedgerKeyGaugeInfo(contract types.Address) v1.LedgerKey {
	return v1.MakeKey([]byte{prefixGaugeInfo}, contract)
}

func LedgerKeyBalance(contract, user types.Address) v1.LedgerKey {
	return v1.MakeKey([]byte{prefixBalance}, contract, user)
}

func LedgerKeyAllowance(contract, owner, spender types.Address) v1.LedgerKey {
	return v1.MakeKey([]byte{prefixAllowance}, contract, owner, spender)
}

func LedgerKeyIntegral(contract, token types.Address) v1.LedgerKey {
	return v1.MakeKey([]byte{prefixIntegral}, contract, token)
}

func LedgerKeyIntegralFor(contract, token, user types.Address) v1.LedgerKey {
	return v1.MakeKey([]byte{prefixIntegralFor}, contract, token, user)
}

func LedgerKeyClaimData(contract, user, token types.Address) v1.LedgerKey {
	return v1.MakeKey([]byte{prefixClaimData}, contract, user, token)
}

func LedgerKeyRewardsReceiver(contract, user types.Address) v1.LedgerKey {
	return v1.MakeKey([]byte{prefixRewardsReceiver}, contract, user)
}

func newItemFor(key v1.LedgerKey) v1.ILedgerItem {
	if len(key) == 0 {
		return nil
	}
	switch key[0] {
	case prefixGaugeInfo:
		return &GaugeInfo{}
	case prefixBalance, prefixAllowance, prefixIntegral, prefixIntegralFor:
		return &ctrlertypes.Amount{}
	case prefixClaimData:
		return &ClaimData{}
	case prefixRewardsReceiver:
		return &ctrlertypes.AddressItem{}
	}
	return nil
}
