package streamer

import (
	v1 "github.com/ShibuiDAO/veShibui/ledger/v1"
	"github.com/ShibuiDAO/veShibui/types"
)

const (
	prefixStreamerInfo byte = 0x40
	prefixReceiver     byte = 0x41
)

func LedgerKeyStreamerInfo(contract types.Address) v1.LedgerKey {
	return v1.MakeKey([]byte{prefixStreamerInfo}, contract)
}

func LedgerKeyReceiver(contract, receiver types.Address) v1.LedgerKey {
	return v1.MakeKey([]byte{prefixReceiver}, contract, receiver)
}

func newItemFor(key v1.LedgerKey) v1.ILedgerItem {
	if len(key) == 0 {
		return nil
	}
	switch key[0] {
	case prefixStreamerInfo:
		return &StreamerInfo{}
	case prefixReceiver:
		return &Receiver{}
	}
	return nil
}
