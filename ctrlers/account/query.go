package account

import (
	ctrlertypes "github.com/ShibuiDAO/veShibui/ctrlers/types"
	v1 "github.com/ShibuiDAO/veShibui/ledger/v1"
	"github.com/ShibuiDAO/veShibui/libs/jsonx"
	"github.com/ShibuiDAO/veShibui/types"
	"github.com/ShibuiDAO/veShibui/types/crypto"
	"github.com/ShibuiDAO/veShibui/types/xerrors"
	abcitypes "github.com/tendermint/tendermint/abci/types"
	tmjson "github.com/tendermint/tendermint/libs/json"
)

var tokenViews = map[string]string{
	string(crypto.Selector(ViewName)):        ViewName,
	string(crypto.Selector(ViewSymbol)):      ViewSymbol,
	string(crypto.Selector(ViewDecimals)):    ViewDecimals,
	string(crypto.Selector(ViewTotalSupply)): ViewTotalSupply,
	string(crypto.Selector(ViewBalanceOf)):   ViewBalanceOf,
	string(crypto.Selector(ViewAllowance)):   ViewAllowance,
}

// View answers the read-only methods of the token `ctx.Contract` at `height`.
func (ctrler *AcctCtrler) View(ctx *ctrlertypes.CallContext, height int64) ([]byte, xerrors.XError) {
	view, ok := tokenViews[string(ctx.Selector)]
	if !ok {
		return nil, xerrors.ErrUnknownMethod.Wrapf("selector: %x", ctx.Selector)
	}

	ledger, xerr := ctrler.acctState.ImitableLedgerAt(height)
	if xerr != nil {
		return nil, xerrors.ErrQuery.Wrap(xerr)
	}
	bank := &tokenBank{ledger: ledger}

	info, xerr := bank.tokenInfo(ctx.Contract)
	if xerr != nil {
		return nil, xerr
	}

	var ret interface{}
	switch view {
	case ViewName:
		ret = info.Name
	case ViewSymbol:
		ret = info.Symbol
	case ViewDecimals:
		ret = info.Decimals
	case ViewTotalSupply:
		ret = info.TotalSupply.Dec()
	case ViewBalanceOf:
		owner, xerr := ctrlertypes.ArgAddress(ctx.Args, 0)
		if xerr != nil {
			return nil, xerr
		}
		bal, xerr := bank.balanceOf(ctx.Contract, owner)
		if xerr != nil {
			return nil, xerr
		}
		ret = bal.Dec()
	case ViewAllowance:
		owner, xerr := ctrlertypes.ArgAddress(ctx.Args, 0)
		if xerr != nil {
			return nil, xerr
		}
		spender, xerr := ctrlertypes.ArgAddress(ctx.Args, 1)
		if xerr != nil {
			return nil, xerr
		}
		allowed, xerr := bank.allowance(ctx.Contract, owner, spender)
		if xerr != nil {
			return nil, xerr
		}
		ret = allowed.Dec()
	}

	raw, err := jsonx.Marshal(ret)
	if err != nil {
		return nil, xerrors.ErrQuery.Wrap(err)
	}
	return raw, nil
}

type deploymentsJSON struct {
	VotingEscrow     types.Address               `json:"VotingEscrow,omitempty"`
	RewardsOnlyGauge map[string]*poolAddressJSON `json:"RewardsOnlyGauge,omitempty"`
	Tokens           map[string]types.Address    `json:"Tokens,omitempty"`
}

type poolAddressJSON struct {
	Streamer types.Address `json:"streamer"`
	Gauge    types.Address `json:"gauge"`
}

// Query answers the paths "account" (req.Data is an address) and "deployments".
func (ctrler *AcctCtrler) Query(_ *ctrlertypes.BlockContext, req abcitypes.RequestQuery) ([]byte, xerrors.XError) {
	ledger, xerr := ctrler.acctState.ImitableLedgerAt(req.Height)
	if xerr != nil {
		return nil, xerrors.ErrQuery.Wrap(xerr)
	}

	switch req.Path {
	case "account":
		if len(req.Data) != types.AddrSize {
			return nil, xerrors.ErrInvalidQueryParams
		}
		var acct *ctrlertypes.Account
		item, xerr := ledger.Get(LedgerKeyAccount(req.Data))
		if xerr != nil {
			acct = ctrlertypes.NewAccount(req.Data)
		} else {
			acct = item.(*ctrlertypes.Account)
		}

		_acct := &struct {
			Address types.Address `json:"address"`
			Nonce   uint64        `json:"nonce,string"`
			Kind    string        `json:"kind"`
		}{
			Address: acct.Address,
			Nonce:   acct.Nonce,
			Kind:    ctrlertypes.KindString(acct.Kind),
		}
		raw, err := tmjson.Marshal(_acct)
		if err != nil {
			return nil, xerrors.ErrQuery.Wrap(err)
		}
		return raw, nil

	case "deployments":
		ret := &deploymentsJSON{
			RewardsOnlyGauge: make(map[string]*poolAddressJSON),
			Tokens:           make(map[string]types.Address),
		}
		xerr := ledger.Seek([]byte{prefixDeployment}, true, func(key v1.LedgerKey, item v1.ILedgerItem) xerrors.XError {
			d := item.(*ctrlertypes.Deployment)
			switch d.Kind {
			case ctrlertypes.KIND_ESCROW:
				ret.VotingEscrow = d.Contract
			case ctrlertypes.KIND_GAUGE:
				ret.RewardsOnlyGauge[d.Name] = &poolAddressJSON{Streamer: d.Streamer, Gauge: d.Contract}
			case ctrlertypes.KIND_TOKEN:
				ret.Tokens[d.Name] = d.Contract
			}
			return nil
		})
		if xerr != nil {
			return nil, xerrors.ErrQuery.Wrap(xerr)
		}
		raw, err := jsonx.Marshal(ret)
		if err != nil {
			return nil, xerrors.ErrQuery.Wrap(err)
		}
		return raw, nil
	}
	return nil, xerrors.ErrInvalidQueryPath
}
