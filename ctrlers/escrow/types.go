package escrow

import (
	"github.com/ShibuiDAO/veShibui/types"
	"github.com/ShibuiDAO/veShibui/types/xerrors"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/holiman/uint256"
)

// EscrowInfo is the configuration and the global state of one escrow contract.
type EscrowInfo struct {
	Token    types.Address
	Name     string
	Symbol   string
	Decimals uint64
	MaxTime  uint64

	Admin                types.Address
	FutureAdmin          types.Address
	NextVeContract       types.Address
	QueuedNextVeContract types.Address
	Migration            bool

	// Supply is the amount of tokens locked in the escrow.
	Supply *uint256.Int
	// Epoch is the index of the last global point.
	Epoch uint64
}

func (info *EscrowInfo) Encode() ([]byte, xerrors.XError) {
	bz, err := rlp.EncodeToBytes(info)
	if err != nil {
		return nil, xerrors.From(err)
	}
	return bz, nil
}

func (info *EscrowInfo) Decode(bz []byte) xerrors.XError {
	if err := rlp.DecodeBytes(bz, info); err != nil {
		return xerrors.From(err)
	}
	return nil
}

func (info *EscrowInfo) isAdmin(addr types.Address) bool {
	return !types.IsZeroAddress(addr) && info.Admin.Equal(addr)
}

// UserLock is the lock of a user and the number of the user's points.
type UserLock struct {
	Amount *uint256.Int
	End    uint64
	Start  uint64
	Epoch  uint64
}

func newUserLock() *UserLock {
	return &UserLock{Amount: uint256.NewInt(0)}
}

func (lk *UserLock) Clone() *UserLock {
	return &UserLock{
		Amount: lk.Amount.Clone(),
		End:    lk.End,
		Start:  lk.Start,
		Epoch:  lk.Epoch,
	}
}

func (lk *UserLock) Encode() ([]byte, xerrors.XError) {
	bz, err := rlp.EncodeToBytes(lk)
	if err != nil {
		return nil, xerrors.From(err)
	}
	return bz, nil
}

func (lk *UserLock) Decode(bz []byte) xerrors.XError {
	if err := rlp.DecodeBytes(bz, lk); err != nil {
		return xerrors.From(err)
	}
	return nil
}

// Point is the voting power `Bias - Slope*(t - Ts)` recorded at the block `Blk`.
type Point struct {
	Bias  *uint256.Int
	Slope *uint256.Int
	Ts    uint64
	Blk   uint64
}

func newPoint(ts, blk uint64) *Point {
	return &Point{
		Bias:  uint256.NewInt(0),
		Slope: uint256.NewInt(0),
		Ts:    ts,
		Blk:   blk,
	}
}

func (pt *Point) Clone() *Point {
	return &Point{
		Bias:  pt.Bias.Clone(),
		Slope: pt.Slope.Clone(),
		Ts:    pt.Ts,
		Blk:   pt.Blk,
	}
}

// PowerAt evaluates the point at `t`. It never returns a negative power.
func (pt *Point) PowerAt(t uint64) *uint256.Int {
	if t < pt.Ts {
		d := new(uint256.Int).Mul(pt.Slope, uint256.NewInt(pt.Ts-t))
		return d.Add(d, pt.Bias)
	}
	return decay(pt.Bias, pt.Slope, t-pt.Ts)
}

func (pt *Point) Encode() ([]byte, xerrors.XError) {
	bz, err := rlp.EncodeToBytes(pt)
	if err != nil {
		return nil, xerrors.From(err)
	}
	return bz, nil
}

func (pt *Point) Decode(bz []byte) xerrors.XError {
	if err := rlp.DecodeBytes(bz, pt); err != nil {
		return xerrors.From(err)
	}
	return nil
}

// decay returns max(bias - slope*dt, 0).
func decay(bias, slope *uint256.Int, dt uint64) *uint256.Int {
	d, overflow := new(uint256.Int).MulOverflow(slope, uint256.NewInt(dt))
	if overflow || d.Cmp(bias) >= 0 {
		return uint256.NewInt(0)
	}
	return d.Sub(bias, d)
}

// subFloor returns max(a - b, 0).
func subFloor(a, b *uint256.Int) *uint256.Int {
	if b.Cmp(a) >= 0 {
		return uint256.NewInt(0)
	}
	return new(uint256.Int).Sub(a, b)
}
