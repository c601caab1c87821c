package escrow

import (
	"github.com/ShibuiDAO/veShibui/types"
	"github.com/ShibuiDAO/veShibui/types/xerrors"
	"github.com/holiman/uint256"
)

// balanceOf returns the voting power of `user` at `t`.
func (s *escrowStore) balanceOf(user types.Address, t uint64) (*uint256.Int, xerrors.XError) {
	lk, xerr := s.userLock(user)
	if xerr != nil {
		return nil, xerr
	}
	if lk.Epoch == 0 {
		return uint256.NewInt(0), nil
	}
	pt, xerr := s.userPoint(user, lk.Epoch)
	if xerr != nil {
		return nil, xerr
	}
	return pt.PowerAt(t), nil
}

// supplyAt decays the global point `pt` to `t` applying the scheduled slope changes.
func (s *escrowStore) supplyAt(pt *Point, t uint64) (*uint256.Int, xerrors.XError) {
	lastPoint := pt.Clone()
	if t < lastPoint.Ts {
		return lastPoint.PowerAt(t), nil
	}

	ti := weekFloor(lastPoint.Ts)
	for i := 0; i < maxWeeksPerCheckpoint; i++ {
		ti += week
		dSlope := uint256.NewInt(0)
		if ti > t {
			ti = t
		} else {
			var xerr xerrors.XError
			if dSlope, xerr = s.slopeChange(ti); xerr != nil {
				return nil, xerr
			}
		}
		lastPoint.Bias = decay(lastPoint.Bias, lastPoint.Slope, ti-lastPoint.Ts)
		if ti == t {
			break
		}
		lastPoint.Slope = subFloor(lastPoint.Slope, dSlope)
		lastPoint.Ts = ti
	}
	return lastPoint.Bias, nil
}

// totalSupply returns the total voting power at `t`.
func (s *escrowStore) totalSupply(info *EscrowInfo, t uint64) (*uint256.Int, xerrors.XError) {
	pt, xerr := s.point(info.Epoch)
	if xerr != nil {
		return nil, xerr
	}
	return s.supplyAt(pt, t)
}

// findBlockEpoch returns the last global epoch recorded at or before `block`.
func (s *escrowStore) findBlockEpoch(block, maxEpoch uint64) (uint64, xerrors.XError) {
	lo, hi := uint64(0), maxEpoch
	for i := 0; i < maxSearchIterations; i++ {
		if lo >= hi {
			break
		}
		mid := (lo + hi + 1) / 2
		pt, xerr := s.point(mid)
		if xerr != nil {
			return 0, xerr
		}
		if pt.Blk <= block {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo, nil
}

// blockTime estimates the time of `block` from the global points around it.
// `now` and `height` are the time and the height of the current block.
func (s *escrowStore) blockTime(info *EscrowInfo, block, now, height uint64) (*Point, uint64, xerrors.XError) {
	epoch, xerr := s.findBlockEpoch(block, info.Epoch)
	if xerr != nil {
		return nil, 0, xerr
	}
	pt0, xerr := s.point(epoch)
	if xerr != nil {
		return nil, 0, xerr
	}

	var dBlock, dt uint64
	if epoch < info.Epoch {
		pt1, xerr := s.point(epoch + 1)
		if xerr != nil {
			return nil, 0, xerr
		}
		dBlock, dt = pt1.Blk-pt0.Blk, pt1.Ts-pt0.Ts
	} else {
		dBlock, dt = height-pt0.Blk, now-pt0.Ts
	}

	t := pt0.Ts
	if dBlock != 0 && block > pt0.Blk {
		d := new(uint256.Int).Mul(uint256.NewInt(dt), uint256.NewInt(block-pt0.Blk))
		d.Div(d, uint256.NewInt(dBlock))
		t += d.Uint64()
	}
	return pt0, t, nil
}

// balanceOfAt returns the voting power which `user` had at `block`.
func (s *escrowStore) balanceOfAt(info *EscrowInfo, user types.Address, block, now, height uint64) (*uint256.Int, xerrors.XError) {
	if block > height {
		return nil, xerrors.ErrInvalidParams.Wrapf("block(%d) is in the future", block)
	}
	lk, xerr := s.userLock(user)
	if xerr != nil {
		return nil, xerr
	}

	lo, hi := uint64(0), lk.Epoch
	for i := 0; i < maxSearchIterations; i++ {
		if lo >= hi {
			break
		}
		mid := (lo + hi + 1) / 2
		pt, xerr := s.userPoint(user, mid)
		if xerr != nil {
			return nil, xerr
		}
		if pt.Blk <= block {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	upoint, xerr := s.userPoint(user, lo)
	if xerr != nil {
		return nil, xerr
	}

	_, t, xerr := s.blockTime(info, block, now, height)
	if xerr != nil {
		return nil, xerr
	}
	return upoint.PowerAt(t), nil
}

// totalSupplyAt returns the total voting power at `block`.
func (s *escrowStore) totalSupplyAt(info *EscrowInfo, block, now, height uint64) (*uint256.Int, xerrors.XError) {
	if block > height {
		return nil, xerrors.ErrInvalidParams.Wrapf("block(%d) is in the future", block)
	}
	pt, t, xerr := s.blockTime(info, block, now, height)
	if xerr != nil {
		return nil, xerr
	}
	return s.supplyAt(pt, t)
}
