package streamer

import (
	ctrlertypes "github.com/ShibuiDAO/veShibui/ctrlers/types"
	"github.com/ShibuiDAO/veShibui/libs/jsonx"
	"github.com/ShibuiDAO/veShibui/types"
	"github.com/ShibuiDAO/veShibui/types/crypto"
	"github.com/ShibuiDAO/veShibui/types/xerrors"
	abcitypes "github.com/tendermint/tendermint/abci/types"
)

const (
	ViewOwner                  = "owner()"
	ViewFutureOwner            = "future_owner()"
	ViewDistributor            = "distributor()"
	ViewRewardToken            = "reward_token()"
	ViewRewardDuration         = "reward_duration()"
	ViewRewardRate             = "reward_rate()"
	ViewPeriodFinish           = "period_finish()"
	ViewLastUpdateTime         = "last_update_time()"
	ViewRewardPerReceiverTotal = "reward_per_receiver_total()"
	ViewReceiverCount          = "receiver_count()"
	ViewRewardReceivers        = "reward_receivers(address)"
	ViewRewardPaid             = "reward_paid(address)"
	ViewClaimable              = "claimable(address)"
)

var streamerViews = map[string]string{}

func init() {
	for _, v := range []string{
		ViewOwner, ViewFutureOwner, ViewDistributor, ViewRewardToken, ViewRewardDuration,
		ViewRewardRate, ViewPeriodFinish, ViewLastUpdateTime, ViewRewardPerReceiverTotal, ViewReceiverCount,
		ViewRewardReceivers, ViewRewardPaid, ViewClaimable,
	} {
		streamerViews[string(crypto.Selector(v))] = v
	}
}

// View answers the read-only methods of the streamer `ctx.Contract` as of the block `height`.
func (ctrler *StreamerCtrler) View(ctx *ctrlertypes.CallContext, height int64) ([]byte, xerrors.XError) {
	view, ok := streamerViews[string(ctx.Selector)]
	if !ok {
		return nil, xerrors.ErrUnknownMethod.Wrapf("selector: %x", ctx.Selector)
	}

	ledger, xerr := ctrler.streamerState.ImitableLedgerAt(height)
	if xerr != nil {
		return nil, xerrors.ErrQuery.Wrap(xerr)
	}
	s := &streamerStore{ledger: ledger, contract: ctx.Contract}
	info, xerr := s.info()
	if xerr != nil {
		return nil, xerr
	}

	var ret interface{}
	switch view {
	case ViewOwner:
		ret = addressOrZero(info.Owner)
	case ViewFutureOwner:
		ret = addressOrZero(info.FutureOwner)
	case ViewDistributor:
		ret = addressOrZero(info.Distributor)
	case ViewRewardToken:
		ret = addressOrZero(info.Token)
	case ViewRewardDuration:
		ret = info.Duration
	case ViewRewardRate:
		ret = info.Rate.Dec()
	case ViewPeriodFinish:
		ret = info.PeriodFinish
	case ViewLastUpdateTime:
		ret = info.LastUpdate
	case ViewRewardPerReceiverTotal:
		ret = info.PerReceiverTotal.Dec()
	case ViewReceiverCount:
		ret = info.ReceiverCount
	default:
		addr, xerr := ctrlertypes.ArgAddress(ctx.Args, 0)
		if xerr != nil {
			return nil, xerr
		}
		r, xerr := s.receiver(addr)
		if xerr != nil {
			return nil, xerr
		}
		switch {
		case view == ViewRewardReceivers:
			ret = r != nil
		case r == nil:
			ret = "0"
		case view == ViewRewardPaid:
			ret = r.Paid.Dec()
		default:
			// what get_reward() would pay now
			total := info.updatePerReceiverTotal(uint64(ctx.TimeSeconds()))
			ret = r.owed(total).Dec()
		}
	}

	raw, err := jsonx.Marshal(ret)
	if err != nil {
		return nil, xerrors.ErrQuery.Wrap(err)
	}
	return raw, nil
}

func addressOrZero(addr types.Address) types.Address {
	if len(addr) == 0 {
		return types.ZeroAddress()
	}
	return addr
}

type streamerJSON struct {
	Owner            types.Address `json:"owner"`
	FutureOwner      types.Address `json:"future_owner"`
	Distributor      types.Address `json:"distributor"`
	RewardToken      types.Address `json:"reward_token"`
	RewardDuration   uint64        `json:"reward_duration"`
	PeriodFinish     uint64        `json:"period_finish"`
	RewardRate       string        `json:"reward_rate"`
	LastUpdateTime   uint64        `json:"last_update_time"`
	PerReceiverTotal string        `json:"reward_per_receiver_total"`
	ReceiverCount    uint64        `json:"receiver_count"`
}

// Query answers the path "streamer/info" whose data is the streamer address.
func (ctrler *StreamerCtrler) Query(_ *ctrlertypes.BlockContext, req abcitypes.RequestQuery) ([]byte, xerrors.XError) {
	if req.Path != "streamer/info" {
		return nil, xerrors.ErrInvalidQueryPath
	}
	if len(req.Data) != types.AddrSize {
		return nil, xerrors.ErrInvalidQueryParams
	}

	ledger, xerr := ctrler.streamerState.ImitableLedgerAt(req.Height)
	if xerr != nil {
		return nil, xerrors.ErrQuery.Wrap(xerr)
	}
	info, xerr := (&streamerStore{ledger: ledger, contract: req.Data}).info()
	if xerr != nil {
		return nil, xerr
	}

	raw, err := jsonx.Marshal(&streamerJSON{
		Owner:            addressOrZero(info.Owner),
		FutureOwner:      addressOrZero(info.FutureOwner),
		Distributor:      addressOrZero(info.Distributor),
		RewardToken:      addressOrZero(info.Token),
		RewardDuration:   info.Duration,
		PeriodFinish:     info.PeriodFinish,
		RewardRate:       info.Rate.Dec(),
		LastUpdateTime:   info.LastUpdate,
		PerReceiverTotal: info.PerReceiverTotal.Dec(),
		ReceiverCount:    info.ReceiverCount,
	})
	if err != nil {
		return nil, xerrors.ErrQuery.Wrap(err)
	}
	return raw, nil
}
