package escrow

import (
	ctrlertypes "github.com/ShibuiDAO/veShibui/ctrlers/types"
	"github.com/ShibuiDAO/veShibui/libs/jsonx"
	"github.com/ShibuiDAO/veShibui/types"
	"github.com/ShibuiDAO/veShibui/types/crypto"
	"github.com/ShibuiDAO/veShibui/types/xerrors"
	abcitypes "github.com/tendermint/tendermint/abci/types"
)

const (
	ViewBalanceOf            = "balanceOf(address)"
	ViewBalanceOfTime        = "balanceOf(address,uint256)"
	ViewBalanceOfAt          = "balanceOfAt(address,uint256)"
	ViewTotalSupply          = "totalSupply()"
	ViewTotalSupplyTime      = "totalSupply(uint256)"
	ViewTotalSupplyAt        = "totalSupplyAt(uint256)"
	ViewGetCurrentVotes      = "getCurrentVotes(address)"
	ViewGetPriorVotes        = "getPriorVotes(address,uint256)"
	ViewLocked               = "locked(address)"
	ViewLockedEnd            = "locked__end(address)"
	ViewGetLastUserSlope     = "get_last_user_slope(address)"
	ViewUserPointHistoryTs   = "user_point_history__ts(address,uint256)"
	ViewUserPointEpoch       = "user_point_epoch(address)"
	ViewEpoch                = "epoch()"
	ViewSupply               = "supply()"
	ViewToken                = "token()"
	ViewName                 = "name()"
	ViewSymbol               = "symbol()"
	ViewDecimals             = "decimals()"
	ViewAdmin                = "admin()"
	ViewFutureAdmin          = "future_admin()"
	ViewNextVeContract       = "next_ve_contract()"
	ViewQueuedNextVeContract = "queued_next_ve_contract()"
	ViewMigration            = "migration()"
)

var escrowViews = map[string]string{}

func init() {
	for _, v := range []string{
		ViewBalanceOf, ViewBalanceOfTime, ViewBalanceOfAt, ViewTotalSupply, ViewTotalSupplyTime, ViewTotalSupplyAt,
		ViewGetCurrentVotes, ViewGetPriorVotes, ViewLocked, ViewLockedEnd, ViewGetLastUserSlope,
		ViewUserPointHistoryTs, ViewUserPointEpoch, ViewEpoch, ViewSupply,
		ViewToken, ViewName, ViewSymbol, ViewDecimals,
		ViewAdmin, ViewFutureAdmin, ViewNextVeContract, ViewQueuedNextVeContract, ViewMigration,
	} {
		escrowViews[string(crypto.Selector(v))] = v
	}
}

type lockedJSON struct {
	Amount string `json:"amount"`
	End    uint64 `json:"end"`
}

// View answers the read-only methods of the escrow `ctx.Contract` as of the block `height`.
// `ctx` must carry the time and the height of that block.
func (ctrler *EscrowCtrler) View(ctx *ctrlertypes.CallContext, height int64) ([]byte, xerrors.XError) {
	view, ok := escrowViews[string(ctx.Selector)]
	if !ok {
		return nil, xerrors.ErrUnknownMethod.Wrapf("selector: %x", ctx.Selector)
	}

	ledger, xerr := ctrler.escrowState.ImitableLedgerAt(height)
	if xerr != nil {
		return nil, xerrors.ErrQuery.Wrap(xerr)
	}
	s := &escrowStore{ledger: ledger, contract: ctx.Contract}
	info, xerr := s.info()
	if xerr != nil {
		return nil, xerr
	}

	ret, xerr := s.view(ctx, info, view)
	if xerr != nil {
		return nil, xerr
	}
	raw, err := jsonx.Marshal(ret)
	if err != nil {
		return nil, xerrors.ErrQuery.Wrap(err)
	}
	return raw, nil
}

func (s *escrowStore) view(ctx *ctrlertypes.CallContext, info *EscrowInfo, view string) (interface{}, xerrors.XError) {
	now, height := uint64(ctx.TimeSeconds()), uint64(ctx.Height())

	switch view {
	case ViewBalanceOf, ViewGetCurrentVotes:
		user, xerr := ctrlertypes.ArgAddress(ctx.Args, 0)
		if xerr != nil {
			return nil, xerr
		}
		power, xerr := s.balanceOf(user, now)
		if xerr != nil {
			return nil, xerr
		}
		return power.Dec(), nil
	case ViewBalanceOfTime:
		user, xerr := ctrlertypes.ArgAddress(ctx.Args, 0)
		if xerr != nil {
			return nil, xerr
		}
		t, xerr := argTime(ctx.Args, 1)
		if xerr != nil {
			return nil, xerr
		}
		power, xerr := s.balanceOf(user, t)
		if xerr != nil {
			return nil, xerr
		}
		return power.Dec(), nil
	case ViewBalanceOfAt, ViewGetPriorVotes:
		user, xerr := ctrlertypes.ArgAddress(ctx.Args, 0)
		if xerr != nil {
			return nil, xerr
		}
		block, xerr := argTime(ctx.Args, 1)
		if xerr != nil {
			return nil, xerr
		}
		power, xerr := s.balanceOfAt(info, user, block, now, height)
		if xerr != nil {
			return nil, xerr
		}
		return power.Dec(), nil
	case ViewTotalSupply:
		power, xerr := s.totalSupply(info, now)
		if xerr != nil {
			return nil, xerr
		}
		return power.Dec(), nil
	case ViewTotalSupplyTime:
		t, xerr := argTime(ctx.Args, 0)
		if xerr != nil {
			return nil, xerr
		}
		power, xerr := s.totalSupply(info, t)
		if xerr != nil {
			return nil, xerr
		}
		return power.Dec(), nil
	case ViewTotalSupplyAt:
		block, xerr := argTime(ctx.Args, 0)
		if xerr != nil {
			return nil, xerr
		}
		power, xerr := s.totalSupplyAt(info, block, now, height)
		if xerr != nil {
			return nil, xerr
		}
		return power.Dec(), nil
	case ViewLocked, ViewLockedEnd, ViewGetLastUserSlope, ViewUserPointEpoch, ViewUserPointHistoryTs:
		return s.userView(ctx, view)
	case ViewEpoch:
		return info.Epoch, nil
	case ViewSupply:
		return info.Supply.Dec(), nil
	case ViewToken:
		return addressOrZero(info.Token), nil
	case ViewName:
		return info.Name, nil
	case ViewSymbol:
		return info.Symbol, nil
	case ViewDecimals:
		return info.Decimals, nil
	case ViewAdmin:
		return addressOrZero(info.Admin), nil
	case ViewFutureAdmin:
		return addressOrZero(info.FutureAdmin), nil
	case ViewNextVeContract:
		return addressOrZero(info.NextVeContract), nil
	case ViewQueuedNextVeContract:
		return addressOrZero(info.QueuedNextVeContract), nil
	case ViewMigration:
		return info.Migration, nil
	}
	return nil, xerrors.ErrUnknownMethod.Wrapf("view: %s", view)
}

func (s *escrowStore) userView(ctx *ctrlertypes.CallContext, view string) (interface{}, xerrors.XError) {
	user, xerr := ctrlertypes.ArgAddress(ctx.Args, 0)
	if xerr != nil {
		return nil, xerr
	}
	lk, xerr := s.userLock(user)
	if xerr != nil {
		return nil, xerr
	}

	switch view {
	case ViewLocked:
		return &lockedJSON{Amount: lk.Amount.Dec(), End: lk.End}, nil
	case ViewLockedEnd:
		return lk.End, nil
	case ViewUserPointEpoch:
		return lk.Epoch, nil
	case ViewGetLastUserSlope:
		pt, xerr := s.userPoint(user, lk.Epoch)
		if xerr != nil {
			return nil, xerr
		}
		return pt.Slope.Dec(), nil
	default: // ViewUserPointHistoryTs
		idx, xerr := argTime(ctx.Args, 1)
		if xerr != nil {
			return nil, xerr
		}
		pt, xerr := s.userPoint(user, idx)
		if xerr != nil {
			return nil, xerr
		}
		return pt.Ts, nil
	}
}

// addressOrZero also maps an empty address decoded from the ledger to the zero address.
func addressOrZero(addr types.Address) types.Address {
	if len(addr) == 0 {
		return types.ZeroAddress()
	}
	return addr
}

// Query answers the path "escrow/info" whose data is the escrow address.
func (ctrler *EscrowCtrler) Query(_ *ctrlertypes.BlockContext, req abcitypes.RequestQuery) ([]byte, xerrors.XError) {
	if req.Path != "escrow/info" {
		return nil, xerrors.ErrInvalidQueryPath
	}
	if len(req.Data) != types.AddrSize {
		return nil, xerrors.ErrInvalidQueryParams
	}

	ledger, xerr := ctrler.escrowState.ImitableLedgerAt(req.Height)
	if xerr != nil {
		return nil, xerrors.ErrQuery.Wrap(xerr)
	}
	s := &escrowStore{ledger: ledger, contract: req.Data}
	info, xerr := s.info()
	if xerr != nil {
		return nil, xerr
	}

	raw, err := jsonx.Marshal(&struct {
		Token                types.Address `json:"token"`
		Name                 string        `json:"name"`
		Symbol               string        `json:"symbol"`
		Decimals             uint64        `json:"decimals"`
		MaxTime              uint64        `json:"maxtime"`
		Admin                types.Address `json:"admin"`
		FutureAdmin          types.Address `json:"future_admin"`
		NextVeContract       types.Address `json:"next_ve_contract"`
		QueuedNextVeContract types.Address `json:"queued_next_ve_contract"`
		Migration            bool          `json:"migration"`
		Supply               string        `json:"supply"`
		Epoch                uint64        `json:"epoch"`
	}{
		Token:                info.Token,
		Name:                 info.Name,
		Symbol:               info.Symbol,
		Decimals:             info.Decimals,
		MaxTime:              info.MaxTime,
		Admin:                addressOrZero(info.Admin),
		FutureAdmin:          addressOrZero(info.FutureAdmin),
		NextVeContract:       addressOrZero(info.NextVeContract),
		QueuedNextVeContract: addressOrZero(info.QueuedNextVeContract),
		Migration:            info.Migration,
		Supply:               info.Supply.Dec(),
		Epoch:                info.Epoch,
	})
	if err != nil {
		return nil, xerrors.ErrQuery.Wrap(err)
	}
	return raw, nil
}
