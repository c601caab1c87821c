package escrow

import (
	"github.com/ShibuiDAO/veShibui/types"
	"github.com/ShibuiDAO/veShibui/types/xerrors"
	"github.com/holiman/uint256"
)

const (
	// maxWeeksPerCheckpoint bounds the weekly points filled in by one checkpoint.
	maxWeeksPerCheckpoint = 255
	// maxSearchIterations bounds the binary searches over point histories.
	maxSearchIterations = 128
)

var (
	week       = uint64(types.WEEK)
	multiplier = uint256.NewInt(1_000_000_000_000_000_000)
)

func weekFloor(t uint64) uint64 {
	return (t / week) * week
}

// userSlope returns the slope and the bias of `lk` at `now`. An expired lock has no power.
func userSlope(lk *UserLock, now, maxTime uint64) (*uint256.Int, *uint256.Int) {
	if lk.End <= now || lk.Amount.IsZero() {
		return uint256.NewInt(0), uint256.NewInt(0)
	}
	slope := new(uint256.Int).Div(lk.Amount, uint256.NewInt(maxTime))
	bias := new(uint256.Int).Mul(slope, uint256.NewInt(lk.End-now))
	return slope, bias
}

// checkpoint records the global point history up to `now` and, when `user` is not nil,
// applies the change of the user's lock from `oldLock` to `newLock`.
// `info.Epoch` and `newLock.Epoch` are advanced; the caller stores `info` and `newLock`.
func (s *escrowStore) checkpoint(info *EscrowInfo, user types.Address, oldLock, newLock *UserLock, now, height uint64) xerrors.XError {
	var (
		uOldSlope, uOldBias  = uint256.NewInt(0), uint256.NewInt(0)
		uNewSlope, uNewBias  = uint256.NewInt(0), uint256.NewInt(0)
		oldDSlope, newDSlope = uint256.NewInt(0), uint256.NewInt(0)
		xerr                 xerrors.XError
	)

	if user != nil {
		uOldSlope, uOldBias = userSlope(oldLock, now, info.MaxTime)
		uNewSlope, uNewBias = userSlope(newLock, now, info.MaxTime)

		if oldDSlope, xerr = s.slopeChange(oldLock.End); xerr != nil {
			return xerr
		}
		if newLock.End != 0 {
			if newLock.End == oldLock.End {
				newDSlope = oldDSlope.Clone()
			} else if newDSlope, xerr = s.slopeChange(newLock.End); xerr != nil {
				return xerr
			}
		}
	}

	epoch := info.Epoch
	lastPoint := newPoint(now, height)
	if epoch > 0 {
		if lastPoint, xerr = s.point(epoch); xerr != nil {
			return xerr
		}
	}
	lastCheckpoint := lastPoint.Ts
	initialLastPoint := lastPoint.Clone()

	// blocks per second scaled by `multiplier`, used to guess the block of each weekly point.
	blockSlope := uint256.NewInt(0)
	if now > lastPoint.Ts && height >= lastPoint.Blk {
		blockSlope.Mul(multiplier, uint256.NewInt(height-lastPoint.Blk))
		blockSlope.Div(blockSlope, uint256.NewInt(now-lastPoint.Ts))
	}

	ti := weekFloor(lastCheckpoint)
	for i := 0; i < maxWeeksPerCheckpoint; i++ {
		ti += week
		dSlope := uint256.NewInt(0)
		if ti > now {
			ti = now
		} else if dSlope, xerr = s.slopeChange(ti); xerr != nil {
			return xerr
		}

		lastPoint.Bias = decay(lastPoint.Bias, lastPoint.Slope, ti-lastCheckpoint)
		lastPoint.Slope = subFloor(lastPoint.Slope, dSlope)
		lastCheckpoint = ti
		lastPoint.Ts = ti

		dBlk := new(uint256.Int).Mul(blockSlope, uint256.NewInt(ti-initialLastPoint.Ts))
		dBlk.Div(dBlk, multiplier)
		lastPoint.Blk = initialLastPoint.Blk + dBlk.Uint64()

		epoch++
		if ti == now {
			lastPoint.Blk = height
			break
		}
		if xerr := s.setPoint(epoch, lastPoint.Clone()); xerr != nil {
			return xerr
		}
	}
	info.Epoch = epoch

	if user != nil {
		lastPoint.Slope = subFloor(new(uint256.Int).Add(lastPoint.Slope, uNewSlope), uOldSlope)
		lastPoint.Bias = subFloor(new(uint256.Int).Add(lastPoint.Bias, uNewBias), uOldBias)
	}
	if xerr := s.setPoint(epoch, lastPoint); xerr != nil {
		return xerr
	}

	if user == nil {
		return nil
	}

	// the slope changes hold the slopes which expire at each week.
	if oldLock.End > now {
		oldDSlope = subFloor(oldDSlope, uOldSlope)
		if newLock.End == oldLock.End {
			oldDSlope.Add(oldDSlope, uNewSlope)
		}
		if xerr := s.setSlopeChange(oldLock.End, oldDSlope); xerr != nil {
			return xerr
		}
	}
	if newLock.End > now && newLock.End > oldLock.End {
		newDSlope.Add(newDSlope, uNewSlope)
		if xerr := s.setSlopeChange(newLock.End, newDSlope); xerr != nil {
			return xerr
		}
	}

	newLock.Epoch = oldLock.Epoch + 1
	return s.setUserPoint(user, newLock.Epoch, &Point{
		Bias:  uNewBias,
		Slope: uNewSlope,
		Ts:    now,
		Blk:   height,
	})
}
