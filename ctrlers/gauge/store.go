package gauge

import (
	ctrlertypes "github.com/ShibuiDAO/veShibui/ctrlers/types"
	v1 "github.com/ShibuiDAO/veShibui/ledger/v1"
	"github.com/ShibuiDAO/veShibui/types"
	"github.com/ShibuiDAO/veShibui/types/xerrors"
	"github.com/holiman/uint256"
)

type gaugeStore struct {
	ledger   v1.IImitable
	contract types.Address
}

func (s *gaugeStore) info() (*GaugeInfo, xerrors.XError) {
	item, xerr := s.ledger.Get(LedgerKeyGaugeInfo(s.contract))
	if xerr == xerrors.ErrNotFoundResult {
		return nil, xerrors.ErrNotFoundContract.Wrapf("gauge(%v)", s.contract)
	} else if xerr != nil {
		return nil, xerr
	}
	return item.(*GaugeInfo), nil
}

func (s *gaugeStore) setInfo(info *GaugeInfo) xerrors.XError {
	return s.ledger.Set(LedgerKeyGaugeInfo(s.contract), info)
}

func (s *gaugeStore) getAmount(key v1.LedgerKey) (*uint256.Int, xerrors.XError) {
	item, xerr := s.ledger.Get(key)
	if xerr == xerrors.ErrNotFoundResult {
		return uint256.NewInt(0), nil
	} else if xerr != nil {
		return nil, xerr
	}
	return item.(*ctrlertypes.Amount).Value(), nil
}

func (s *gaugeStore) setAmount(key v1.LedgerKey, amt *uint256.Int) xerrors.XError {
	if amt.IsZero() {
		return s.ledger.Del(key)
	}
	return s.ledger.Set(key, ctrlertypes.NewAmount(amt))
}

func (s *gaugeStore) balanceOf(user types.Address) (*uint256.Int, xerrors.XError) {
	return s.getAmount(LedgerKeyBalance(s.contract, user))
}

func (s *gaugeStore) setBalance(user types.Address, amt *uint256.Int) xerrors.XError {
	return s.setAmount(LedgerKeyBalance(s.contract, user), amt)
}

func (s *gaugeStore) allowance(owner, spender types.Address) (*uint256.Int, xerrors.XError) {
	return s.getAmount(LedgerKeyAllowance(s.contract, owner, spender))
}

func (s *gaugeStore) setAllowance(owner, spender types.Address, amt *uint256.Int) xerrors.XError {
	return s.setAmount(LedgerKeyAllowance(s.contract, owner, spender), amt)
}

func (s *gaugeStore) integral(token types.Address) (*uint256.Int, xerrors.XError) {
	return s.getAmount(LedgerKeyIntegral(s.contract, token))
}

func (s *gaugeStore) setIntegral(token types.Address, v *uint256.Int) xerrors.XError {
	return s.setAmount(LedgerKeyIntegral(s.contract, token), v)
}

func (s *gaugeStore) integralFor(token, user types.Address) (*uint256.Int, xerrors.XError) {
	return s.getAmount(LedgerKeyIntegralFor(s.contract, token, user))
}

func (s *gaugeStore) setIntegralFor(token, user types.Address, v *uint256.Int) xerrors.XError {
	return s.setAmount(LedgerKeyIntegralFor(s.contract, token, user), v)
}

func (s *gaugeStore) claimData(user, token types.Address) (*ClaimData, xerrors.XError) {
	item, xerr := s.ledger.Get(LedgerKeyClaimData(s.contract, user, token))
	if xerr == xerrors.ErrNotFoundResult {
		return newClaimData(), nil
	} else if xerr != nil {
		return nil, xerr
	}
	return item.(*ClaimData), nil
}

func (s *gaugeStore) setClaimData(user, token types.Address, cd *ClaimData) xerrors.XError {
	return s.ledger.Set(LedgerKeyClaimData(s.contract, user, token), cd)
}

// rewardsReceiver returns nil if `user` has not set a default receiver.
func (s *gaugeStore) rewardsReceiver(user types.Address) (types.Address, xerrors.XError) {
	item, xerr := s.ledger.Get(LedgerKeyRewardsReceiver(s.contract, user))
	if xerr == xerrors.ErrNotFoundResult {
		return nil, nil
	} else if xerr != nil {
		return nil, xerr
	}
	return item.(*ctrlertypes.AddressItem).Addr, nil
}

func (s *gaugeStore) setRewardsReceiver(user, receiver types.Address) xerrors.XError {
	if types.IsZeroAddress(receiver) {
		return s.ledger.Del(LedgerKeyRewardsReceiver(s.contract, user))
	}
	return s.ledger.Set(LedgerKeyRewardsReceiver(s.contract, user), &ctrlertypes.AddressItem{Addr: receiver})
}
