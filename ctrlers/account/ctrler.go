package account

import (
	"sync"

	cfg "github.com/ShibuiDAO/veShibui/cmd/config"
	ctrlertypes "github.com/ShibuiDAO/veShibui/ctrlers/types"
	"github.com/ShibuiDAO/veShibui/genesis"
	v1 "github.com/ShibuiDAO/veShibui/ledger/v1"
	"github.com/ShibuiDAO/veShibui/types"
	"github.com/ShibuiDAO/veShibui/types/xerrors"
	tmlog "github.com/tendermint/tendermint/libs/log"
)

// AcctCtrler keeps the accounts (nonce and kind) and the token bank.
type AcctCtrler struct {
	acctState v1.IStateLedger

	logger tmlog.Logger
	mtx    sync.RWMutex
}

func NewAcctCtrler(config *cfg.Config, logger tmlog.Logger) (*AcctCtrler, error) {
	lg := logger.With("module", "veshibui_AcctCtrler")

	_state, xerr := v1.NewStateLedger("accounts", config.DBDir(), 10000, newItemFor, lg)
	if xerr != nil {
		return nil, xerr
	}
	return &AcctCtrler{
		acctState: _state,
		logger:    lg,
	}, nil
}

// InitLedger creates the deployer's account. The genesis contracts are deployed by the node.
func (ctrler *AcctCtrler) InitLedger(req interface{}) xerrors.XError {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	genAppState, ok := req.(*genesis.GenesisAppState)
	if !ok {
		return xerrors.ErrInitChain.Wrapf("wrong parameter: AcctCtrler::InitLedger requires *genesis.GenesisAppState")
	}
	return ctrler.setAccount(ctrlertypes.NewAccount(genAppState.Deployer), true)
}

func (ctrler *AcctCtrler) ValidateTrx(ctx *ctrlertypes.TrxContext) xerrors.XError {
	if xerr := ctx.Sender.CheckNonce(uint64(ctx.Tx.Nonce)); xerr != nil {
		return xerr
	}
	return nil
}

// ExecuteTrx increases the sender's nonce.
// It is executed even if the contract call fails, so that the failed transaction can not be replayed.
func (ctrler *AcctCtrler) ExecuteTrx(ctx *ctrlertypes.TrxContext) xerrors.XError {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	sender := ctrler.findAccount(ctx.Tx.From, ctx.Exec)
	if sender == nil {
		sender = ctrlertypes.NewAccount(ctx.Tx.From)
	}
	sender.AddNonce()
	ctx.Sender = sender
	return ctrler.setAccount(sender, ctx.Exec)
}

func (ctrler *AcctCtrler) Close() xerrors.XError {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	if ctrler.acctState != nil {
		if xerr := ctrler.acctState.Close(); xerr != nil {
			ctrler.logger.Error("acctLedger.Close() returns error", "error", xerr.Error())
		}
		ctrler.logger.Debug("close ledgers")
		ctrler.acctState = nil
	}
	return nil
}

func (ctrler *AcctCtrler) FindOrNewAccount(addr types.Address, exec bool) *ctrlertypes.Account {
	ctrler.mtx.RLock()
	defer ctrler.mtx.RUnlock()

	if acct := ctrler.findAccount(addr, exec); acct != nil {
		return acct
	}
	return ctrlertypes.NewAccount(addr)
}

func (ctrler *AcctCtrler) FindAccount(addr types.Address, exec bool) *ctrlertypes.Account {
	ctrler.mtx.RLock()
	defer ctrler.mtx.RUnlock()

	return ctrler.findAccount(addr, exec)
}

func (ctrler *AcctCtrler) findAccount(addr types.Address, exec bool) *ctrlertypes.Account {
	item, xerr := ctrler.acctState.Get(LedgerKeyAccount(addr), exec)
	if xerr != nil {
		return nil
	}
	return item.(*ctrlertypes.Account)
}

func (ctrler *AcctCtrler) IsContract(addr types.Address, exec bool) bool {
	acct := ctrler.FindAccount(addr, exec)
	return acct != nil && acct.IsContract()
}

func (ctrler *AcctCtrler) SetAccount(acct *ctrlertypes.Account, exec bool) xerrors.XError {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	return ctrler.setAccount(acct, exec)
}

func (ctrler *AcctCtrler) setAccount(acct *ctrlertypes.Account, exec bool) xerrors.XError {
	return ctrler.acctState.Set(LedgerKeyAccount(acct.Address), acct, exec)
}

// SetDeployment registers the named contract.
func (ctrler *AcctCtrler) SetDeployment(d *ctrlertypes.Deployment, exec bool) xerrors.XError {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	return ctrler.acctState.Set(LedgerKeyDeployment(d.Kind, d.Name), d, exec)
}

func (ctrler *AcctCtrler) Snapshot(exec bool) int {
	return ctrler.acctState.Snapshot(exec)
}

func (ctrler *AcctCtrler) RevertToSnapshot(snap int, exec bool) xerrors.XError {
	return ctrler.acctState.RevertToSnapshot(snap, exec)
}

var _ ctrlertypes.ILedgerHandler = (*AcctCtrler)(nil)
var _ ctrlertypes.ITrxHandler = (*AcctCtrler)(nil)
var _ ctrlertypes.IBlockHandler = (*AcctCtrler)(nil)
var _ ctrlertypes.IAccountHandler = (*AcctCtrler)(nil)
var _ ctrlertypes.IContractHandler = (*AcctCtrler)(nil)
var _ ctrlertypes.ISnapshotHandler = (*AcctCtrler)(nil)
