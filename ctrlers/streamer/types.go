package streamer

import (
	"github.com/ShibuiDAO/veShibui/types"
	"github.com/ShibuiDAO/veShibui/types/xerrors"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/holiman/uint256"
)

// StreamerInfo is the configuration and the reward epoch of one streamer contract.
type StreamerInfo struct {
	Owner       types.Address
	FutureOwner types.Address
	Distributor types.Address
	Token       types.Address
	Duration    uint64

	PeriodFinish uint64
	Rate         *uint256.Int
	LastUpdate   uint64
	// PerReceiverTotal is the amount released to each receiver since the deployment.
	PerReceiverTotal *uint256.Int
	ReceiverCount    uint64
}

func (info *StreamerInfo) Encode() ([]byte, xerrors.XError) {
	bz, err := rlp.EncodeToBytes(info)
	if err != nil {
		return nil, xerrors.From(err)
	}
	return bz, nil
}

func (info *StreamerInfo) Decode(bz []byte) xerrors.XError {
	if err := rlp.DecodeBytes(bz, info); err != nil {
		return xerrors.From(err)
	}
	return nil
}

func (info *StreamerInfo) isOwner(addr types.Address) bool {
	return !types.IsZeroAddress(addr) && info.Owner.Equal(addr)
}

// updatePerReceiverTotal releases the rewards streamed since the last update equally to the receivers.
// While there is no receiver, the time is not accounted and the first receiver gets the backlog.
func (info *StreamerInfo) updatePerReceiverTotal(now uint64) *uint256.Int {
	if info.ReceiverCount == 0 {
		return info.PerReceiverTotal.Clone()
	}
	last := now
	if info.PeriodFinish < last {
		last = info.PeriodFinish
	}
	if last > info.LastUpdate {
		released := new(uint256.Int).Mul(info.Rate, uint256.NewInt(last-info.LastUpdate))
		released.Div(released, uint256.NewInt(info.ReceiverCount))
		info.PerReceiverTotal = new(uint256.Int).Add(info.PerReceiverTotal, released)
	}
	info.LastUpdate = last
	return info.PerReceiverTotal.Clone()
}

// Receiver is a registered receiver and the amount paid to it.
type Receiver struct {
	Paid *uint256.Int
}

func (r *Receiver) Encode() ([]byte, xerrors.XError) {
	bz, err := rlp.EncodeToBytes(r)
	if err != nil {
		return nil, xerrors.From(err)
	}
	return bz, nil
}

func (r *Receiver) Decode(bz []byte) xerrors.XError {
	if err := rlp.DecodeBytes(bz, r); err != nil {
		return xerrors.From(err)
	}
	return nil
}

// owed returns total - paid, or 0 when the receiver was paid more.
func (r *Receiver) owed(total *uint256.Int) *uint256.Int {
	if total.Lt(r.Paid) {
		return uint256.NewInt(0)
	}
	return new(uint256.Int).Sub(total, r.Paid)
}
