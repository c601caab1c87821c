package escrow

import (
	ctrlertypes "github.com/ShibuiDAO/veShibui/ctrlers/types"
	v1 "github.com/ShibuiDAO/veShibui/ledger/v1"
	"github.com/ShibuiDAO/veShibui/types"
	"github.com/ShibuiDAO/veShibui/types/xerrors"
	"github.com/holiman/uint256"
)

// escrowStore reads and writes the states of the escrow `contract` on one ledger view.
type escrowStore struct {
	ledger   v1.IImitable
	contract types.Address
}

func (s *escrowStore) info() (*EscrowInfo, xerrors.XError) {
	item, xerr := s.ledger.Get(LedgerKeyEscrowInfo(s.contract))
	if xerr == xerrors.ErrNotFoundResult {
		return nil, xerrors.ErrNotFoundContract.Wrapf("escrow(%v)", s.contract)
	} else if xerr != nil {
		return nil, xerr
	}
	return item.(*EscrowInfo), nil
}

func (s *escrowStore) setInfo(info *EscrowInfo) xerrors.XError {
	return s.ledger.Set(LedgerKeyEscrowInfo(s.contract), info)
}

func (s *escrowStore) userLock(user types.Address) (*UserLock, xerrors.XError) {
	item, xerr := s.ledger.Get(LedgerKeyUserLock(s.contract, user))
	if xerr == xerrors.ErrNotFoundResult {
		return newUserLock(), nil
	} else if xerr != nil {
		return nil, xerr
	}
	return item.(*UserLock), nil
}

func (s *escrowStore) setUserLock(user types.Address, lk *UserLock) xerrors.XError {
	return s.ledger.Set(LedgerKeyUserLock(s.contract, user), lk)
}

// point returns the global point of `epoch`, or an empty point if it is not recorded.
func (s *escrowStore) point(epoch uint64) (*Point, xerrors.XError) {
	return s.getPoint(LedgerKeyPoint(s.contract, epoch))
}

func (s *escrowStore) setPoint(epoch uint64, pt *Point) xerrors.XError {
	return s.ledger.Set(LedgerKeyPoint(s.contract, epoch), pt)
}

func (s *escrowStore) userPoint(user types.Address, epoch uint64) (*Point, xerrors.XError) {
	return s.getPoint(LedgerKeyUserPoint(s.contract, user, epoch))
}

func (s *escrowStore) setUserPoint(user types.Address, epoch uint64, pt *Point) xerrors.XError {
	return s.ledger.Set(LedgerKeyUserPoint(s.contract, user, epoch), pt)
}

func (s *escrowStore) getPoint(key v1.LedgerKey) (*Point, xerrors.XError) {
	item, xerr := s.ledger.Get(key)
	if xerr == xerrors.ErrNotFoundResult {
		return newPoint(0, 0), nil
	} else if xerr != nil {
		return nil, xerr
	}
	return item.(*Point), nil
}

// slopeChange returns the slope which ends at the week `t`.
func (s *escrowStore) slopeChange(t uint64) (*uint256.Int, xerrors.XError) {
	item, xerr := s.ledger.Get(LedgerKeySlopeChange(s.contract, t))
	if xerr == xerrors.ErrNotFoundResult {
		return uint256.NewInt(0), nil
	} else if xerr != nil {
		return nil, xerr
	}
	return item.(*ctrlertypes.Amount).Value(), nil
}

func (s *escrowStore) setSlopeChange(t uint64, d *uint256.Int) xerrors.XError {
	if d.IsZero() {
		return s.ledger.Del(LedgerKeySlopeChange(s.contract, t))
	}
	return s.ledger.Set(LedgerKeySlopeChange(s.contract, t), ctrlertypes.NewAmount(d))
}
