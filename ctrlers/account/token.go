package account

import (
	ctrlertypes "github.com/ShibuiDAO/veShibui/ctrlers/types"
	v1 "github.com/ShibuiDAO/veShibui/ledger/v1"
	"github.com/ShibuiDAO/veShibui/types"
	"github.com/ShibuiDAO/veShibui/types/crypto"
	"github.com/ShibuiDAO/veShibui/types/xerrors"
	"github.com/holiman/uint256"
)

const (
	MethodTransfer     = "transfer(address,uint256)"
	MethodApprove      = "approve(address,uint256)"
	MethodTransferFrom = "transferFrom(address,address,uint256)"
	MethodMint         = "mint(address,uint256)"

	ViewName        = "name()"
	ViewSymbol      = "symbol()"
	ViewDecimals    = "decimals()"
	ViewTotalSupply = "totalSupply()"
	ViewBalanceOf   = "balanceOf(address)"
	ViewAllowance   = "allowance(address,address)"
)

// tokenBank reads and writes the token states on one ledger view.
type tokenBank struct {
	ledger v1.IImitable
}

func (bank *tokenBank) tokenInfo(token types.Address) (*ctrlertypes.TokenInfo, xerrors.XError) {
	item, xerr := bank.ledger.Get(LedgerKeyTokenInfo(token))
	if xerr == xerrors.ErrNotFoundResult {
		return nil, xerrors.ErrNotFoundContract.Wrapf("token(%v)", token)
	} else if xerr != nil {
		return nil, xerr
	}
	return item.(*ctrlertypes.TokenInfo), nil
}

func (bank *tokenBank) getAmount(key v1.LedgerKey) (*uint256.Int, xerrors.XError) {
	item, xerr := bank.ledger.Get(key)
	if xerr == xerrors.ErrNotFoundResult {
		return uint256.NewInt(0), nil
	} else if xerr != nil {
		return nil, xerr
	}
	return item.(*ctrlertypes.Amount).Value(), nil
}

func (bank *tokenBank) setAmount(key v1.LedgerKey, amt *uint256.Int) xerrors.XError {
	if amt.IsZero() {
		return bank.ledger.Del(key)
	}
	return bank.ledger.Set(key, ctrlertypes.NewAmount(amt))
}

func (bank *tokenBank) balanceOf(token, owner types.Address) (*uint256.Int, xerrors.XError) {
	return bank.getAmount(LedgerKeyBalance(token, owner))
}

func (bank *tokenBank) allowance(token, owner, spender types.Address) (*uint256.Int, xerrors.XError) {
	return bank.getAmount(LedgerKeyAllowance(token, owner, spender))
}

func (bank *tokenBank) transfer(token, from, to types.Address, amt *uint256.Int) xerrors.XError {
	if _, xerr := bank.tokenInfo(token); xerr != nil {
		return xerr
	}
	fromBal, xerr := bank.balanceOf(token, from)
	if xerr != nil {
		return xerr
	}
	if fromBal.Lt(amt) {
		return xerrors.ErrInsufficientFund.Wrapf("balance: %v, amount: %v", fromBal.Dec(), amt.Dec())
	}
	if from.Equal(to) {
		return nil
	}
	toBal, xerr := bank.balanceOf(token, to)
	if xerr != nil {
		return xerr
	}
	if xerr := bank.setAmount(LedgerKeyBalance(token, from), new(uint256.Int).Sub(fromBal, amt)); xerr != nil {
		return xerr
	}
	return bank.setAmount(LedgerKeyBalance(token, to), new(uint256.Int).Add(toBal, amt))
}

func (bank *tokenBank) spendAllowance(token, owner, spender types.Address, amt *uint256.Int) xerrors.XError {
	allowed, xerr := bank.allowance(token, owner, spender)
	if xerr != nil {
		return xerr
	}
	if allowed.Eq(maxUint256) {
		// infinite approval
		return nil
	}
	if allowed.Lt(amt) {
		return xerrors.ErrInsufficientAllowance.Wrapf("allowance: %v, amount: %v", allowed.Dec(), amt.Dec())
	}
	return bank.setAmount(LedgerKeyAllowance(token, owner, spender), new(uint256.Int).Sub(allowed, amt))
}

func (bank *tokenBank) mint(token, to types.Address, amt *uint256.Int) xerrors.XError {
	info, xerr := bank.tokenInfo(token)
	if xerr != nil {
		return xerr
	}
	supply, overflow := new(uint256.Int).AddOverflow(info.TotalSupply, amt)
	if overflow {
		return xerrors.ErrOverFlow
	}
	info.TotalSupply = supply
	if xerr := bank.ledger.Set(LedgerKeyTokenInfo(token), info); xerr != nil {
		return xerr
	}
	bal, xerr := bank.balanceOf(token, to)
	if xerr != nil {
		return xerr
	}
	return bank.setAmount(LedgerKeyBalance(token, to), new(uint256.Int).Add(bal, amt))
}

var maxUint256 = new(uint256.Int).SetAllOne()

//
// ITokenHandler

func (ctrler *AcctCtrler) bank(exec bool) *tokenBank {
	return &tokenBank{ledger: ctrler.acctState.ImitableLedger(exec)}
}

func (ctrler *AcctCtrler) TokenInfo(token types.Address, exec bool) (*ctrlertypes.TokenInfo, xerrors.XError) {
	ctrler.mtx.RLock()
	defer ctrler.mtx.RUnlock()

	return ctrler.bank(exec).tokenInfo(token)
}

func (ctrler *AcctCtrler) BalanceOf(token, owner types.Address, exec bool) (*uint256.Int, xerrors.XError) {
	ctrler.mtx.RLock()
	defer ctrler.mtx.RUnlock()

	return ctrler.bank(exec).balanceOf(token, owner)
}

func (ctrler *AcctCtrler) Transfer(ctx *ctrlertypes.CallContext, token, from, to types.Address, amt *uint256.Int) xerrors.XError {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	if xerr := ctrler.bank(ctx.Exec).transfer(token, from, to, amt); xerr != nil {
		return xerr
	}
	emitTransfer(ctx, token, from, to, amt)
	return nil
}

func (ctrler *AcctCtrler) TransferFrom(ctx *ctrlertypes.CallContext, token, spender, from, to types.Address, amt *uint256.Int) xerrors.XError {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	bank := ctrler.bank(ctx.Exec)
	if xerr := bank.spendAllowance(token, from, spender, amt); xerr != nil {
		return xerr
	}
	if xerr := bank.transfer(token, from, to, amt); xerr != nil {
		return xerr
	}
	emitTransfer(ctx, token, from, to, amt)
	return nil
}

func emitTransfer(ctx *ctrlertypes.CallContext, token, from, to types.Address, amt *uint256.Int) {
	ctx.EmitEvent("transfer",
		"token", token.String(),
		"from", from.String(),
		"to", to.String(),
		"amount", amt.Dec())
}

//
// IContractHandler of the token contracts

// Deploy creates a token. The arguments are name, symbol, decimals and the initial supply minted to the caller.
func (ctrler *AcctCtrler) Deploy(ctx *ctrlertypes.CallContext) xerrors.XError {
	name, xerr := ctrlertypes.ArgString(ctx.Args, 0)
	if xerr != nil {
		return xerr
	}
	symbol, xerr := ctrlertypes.ArgString(ctx.Args, 1)
	if xerr != nil {
		return xerr
	}
	decimals, xerr := ctrlertypes.ArgInt64(ctx.Args, 2)
	if xerr != nil {
		return xerr
	}
	if decimals > 77 {
		return xerrors.ErrInvalidParams.Wrapf("too large decimals: %d", decimals)
	}
	initSupply, xerr := ctrlertypes.ArgUint256(ctx.Args, 3)
	if xerr != nil {
		return xerr
	}

	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	bank := ctrler.bank(ctx.Exec)
	if xerr := bank.ledger.Set(LedgerKeyTokenInfo(ctx.Contract), &ctrlertypes.TokenInfo{
		Name:        name,
		Symbol:      symbol,
		Decimals:    uint64(decimals),
		TotalSupply: uint256.NewInt(0),
		Minter:      ctx.Caller,
	}); xerr != nil {
		return xerr
	}
	if !initSupply.IsZero() {
		if xerr := bank.mint(ctx.Contract, ctx.Caller, initSupply); xerr != nil {
			return xerr
		}
		emitTransfer(ctx, ctx.Contract, types.ZeroAddress(), ctx.Caller, initSupply)
	}
	return nil
}

var tokenMethods = map[string]string{
	string(crypto.Selector(MethodTransfer)):     MethodTransfer,
	string(crypto.Selector(MethodApprove)):      MethodApprove,
	string(crypto.Selector(MethodTransferFrom)): MethodTransferFrom,
	string(crypto.Selector(MethodMint)):         MethodMint,
}

func (ctrler *AcctCtrler) Call(ctx *ctrlertypes.CallContext) xerrors.XError {
	method, ok := tokenMethods[string(ctx.Selector)]
	if !ok {
		return xerrors.ErrUnknownMethod.Wrapf("selector: %x", ctx.Selector)
	}

	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	bank := ctrler.bank(ctx.Exec)
	switch method {
	case MethodTransfer:
		to, amt, xerr := addrAmountArgs(ctx.Args, 0)
		if xerr != nil {
			return xerr
		}
		if xerr := bank.transfer(ctx.Contract, ctx.Caller, to, amt); xerr != nil {
			return xerr
		}
		emitTransfer(ctx, ctx.Contract, ctx.Caller, to, amt)
	case MethodApprove:
		spender, amt, xerr := addrAmountArgs(ctx.Args, 0)
		if xerr != nil {
			return xerr
		}
		if _, xerr := bank.tokenInfo(ctx.Contract); xerr != nil {
			return xerr
		}
		if xerr := bank.setAmount(LedgerKeyAllowance(ctx.Contract, ctx.Caller, spender), amt); xerr != nil {
			return xerr
		}
		ctx.EmitEvent("approval",
			"token", ctx.Contract.String(),
			"owner", ctx.Caller.String(),
			"spender", spender.String(),
			"amount", amt.Dec())
	case MethodTransferFrom:
		from, xerr := ctrlertypes.ArgAddress(ctx.Args, 0)
		if xerr != nil {
			return xerr
		}
		to, amt, xerr := addrAmountArgs(ctx.Args, 1)
		if xerr != nil {
			return xerr
		}
		if xerr := bank.spendAllowance(ctx.Contract, from, ctx.Caller, amt); xerr != nil {
			return xerr
		}
		if xerr := bank.transfer(ctx.Contract, from, to, amt); xerr != nil {
			return xerr
		}
		emitTransfer(ctx, ctx.Contract, from, to, amt)
	case MethodMint:
		to, amt, xerr := addrAmountArgs(ctx.Args, 0)
		if xerr != nil {
			return xerr
		}
		info, xerr := bank.tokenInfo(ctx.Contract)
		if xerr != nil {
			return xerr
		}
		if !info.Minter.Equal(ctx.Caller) {
			return xerrors.ErrAdminOnly
		}
		if xerr := bank.mint(ctx.Contract, to, amt); xerr != nil {
			return xerr
		}
		emitTransfer(ctx, ctx.Contract, types.ZeroAddress(), to, amt)
	}
	return nil
}

func addrAmountArgs(args [][]byte, idx int) (types.Address, *uint256.Int, xerrors.XError) {
	addr, xerr := ctrlertypes.ArgAddress(args, idx)
	if xerr != nil {
		return nil, nil, xerr
	}
	amt, xerr := ctrlertypes.ArgUint256(args, idx+1)
	if xerr != nil {
		return nil, nil, xerr
	}
	return addr, amt, nil
}
