package types

import (
	"github.com/ShibuiDAO/veShibui/types"
	"github.com/ShibuiDAO/veShibui/types/xerrors"
	"github.com/holiman/uint256"
	abcitypes "github.com/tendermint/tendermint/abci/types"
)

type ILedgerHandler interface {
	InitLedger(interface{}) xerrors.XError
	Commit() ([]byte, int64, xerrors.XError)
	Query(*BlockContext, abcitypes.RequestQuery) ([]byte, xerrors.XError)
	Close() xerrors.XError
}

type IBlockHandler interface {
	BeginBlock(*BlockContext) ([]abcitypes.Event, xerrors.XError)
	EndBlock(*BlockContext) ([]abcitypes.Event, xerrors.XError)
}

type ITrxHandler interface {
	ValidateTrx(*TrxContext) xerrors.XError
	ExecuteTrx(*TrxContext) xerrors.XError
}

// ISnapshotHandler makes a transaction all-or-nothing across the ledgers of every controller.
type ISnapshotHandler interface {
	Snapshot(bool) int
	RevertToSnapshot(int, bool) xerrors.XError
}

type ITokenHandler interface {
	TokenInfo(types.Address, bool) (*TokenInfo, xerrors.XError)
	BalanceOf(token, owner types.Address, exec bool) (*uint256.Int, xerrors.XError)
	Transfer(ctx *CallContext, token, from, to types.Address, amt *uint256.Int) xerrors.XError
	TransferFrom(ctx *CallContext, token, spender, from, to types.Address, amt *uint256.Int) xerrors.XError
}

type IAccountHandler interface {
	ITokenHandler
	FindAccount(types.Address, bool) *Account
	FindOrNewAccount(types.Address, bool) *Account
	SetAccount(*Account, bool) xerrors.XError
	IsContract(types.Address, bool) bool
}

// ICallHandler routes a contract call to the controller handling the kind of the contract.
type ICallHandler interface {
	Call(*CallContext) xerrors.XError
	Deploy(*CallContext, int32) xerrors.XError
}

// IContractHandler is implemented by the controller of a contract kind.
type IContractHandler interface {
	Deploy(*CallContext) xerrors.XError
	Call(*CallContext) xerrors.XError
	View(*CallContext, int64) ([]byte, xerrors.XError)
}
