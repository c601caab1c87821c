package streamer

import (
	v1 "github.com/ShibuiDAO/veShibui/ledger/v1"
	"github.com/ShibuiDAO/veShibui/types"
	"github.com/ShibuiDAO/veShibui/types/xerrors"
)

type streamerStore struct {
	ledger   v1.IImitable
	contract types.Address
}

func (s *streamerStore) info() (*StreamerInfo, xerrors.XError) {
	item, xerr := s.ledger.Get(LedgerKeyStreamerInfo(s.contract))
	if xerr == xerrors.ErrNotFoundResult {
		return nil, xerrors.ErrNotFoundContract.Wrapf("streamer(%v)", s.contract)
	} else if xerr != nil {
		return nil, xerr
	}
	return item.(*StreamerInfo), nil
}

func (s *streamerStore) setInfo(info *StreamerInfo) xerrors.XError {
	return s.ledger.Set(LedgerKeyStreamerInfo(s.contract), info)
}

// receiver returns nil if `addr` is not a registered receiver.
func (s *streamerStore) receiver(addr types.Address) (*Receiver, xerrors.XError) {
	item, xerr := s.ledger.Get(LedgerKeyReceiver(s.contract, addr))
	if xerr == xerrors.ErrNotFoundResult {
		return nil, nil
	} else if xerr != nil {
		return nil, xerr
	}
	return item.(*Receiver), nil
}

func (s *streamerStore) setReceiver(addr types.Address, r *Receiver) xerrors.XError {
	return s.ledger.Set(LedgerKeyReceiver(s.contract, addr), r)
}

func (s *streamerStore) delReceiver(addr types.Address) xerrors.XError {
	return s.ledger.Del(LedgerKeyReceiver(s.contract, addr))
}
