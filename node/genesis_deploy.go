package node

import (
	"github.com/ShibuiDAO/veShibui/ctrlers/account"
	"github.com/ShibuiDAO/veShibui/ctrlers/gauge"
	"github.com/ShibuiDAO/veShibui/ctrlers/router"
	"github.com/ShibuiDAO/veShibui/ctrlers/streamer"
	ctrlertypes "github.com/ShibuiDAO/veShibui/ctrlers/types"
	"github.com/ShibuiDAO/veShibui/genesis"
	"github.com/ShibuiDAO/veShibui/types"
	"github.com/ShibuiDAO/veShibui/types/crypto"
	"github.com/ShibuiDAO/veShibui/types/xerrors"
	"github.com/holiman/uint256"
	"github.com/tendermint/tendermint/libs/log"
)

// genesisDeployer creates the contracts described in the genesis app state.
// A deployed contract gets the address derived from the deployer and its nonce,
// the same as a contract created by a deploy transaction.
type genesisDeployer struct {
	bctx       *ctrlertypes.BlockContext
	acctCtrler *account.AcctCtrler
	router     *router.ContractRouter
	deployer   *ctrlertypes.Account
	logger     log.Logger
}

func newGenesisDeployer(bctx *ctrlertypes.BlockContext, acctCtrler *account.AcctCtrler, r *router.ContractRouter, deployer types.Address, logger log.Logger) *genesisDeployer {
	return &genesisDeployer{
		bctx:       bctx,
		acctCtrler: acctCtrler,
		router:     r,
		deployer:   acctCtrler.FindOrNewAccount(deployer, true),
		logger:     logger,
	}
}

func (gd *genesisDeployer) deploy(kind int32, args ...[]byte) (types.Address, xerrors.XError) {
	addr := crypto.CreateAddress(gd.deployer.Address, gd.deployer.Nonce)
	ctx := ctrlertypes.NewCallContext(gd.bctx, gd.deployer.Address, addr, "", args, true)
	if xerr := gd.router.Deploy(ctx, kind); xerr != nil {
		return nil, xerr
	}
	gd.deployer.AddNonce()
	if xerr := gd.acctCtrler.SetAccount(gd.deployer, true); xerr != nil {
		return nil, xerr
	}
	return addr, nil
}

func (gd *genesisDeployer) call(contract types.Address, method string, args ...[]byte) xerrors.XError {
	ctx := ctrlertypes.NewCallContext(gd.bctx, gd.deployer.Address, contract, method, args, true)
	return gd.router.Call(ctx)
}

func (gd *genesisDeployer) register(d *ctrlertypes.Deployment) xerrors.XError {
	gd.logger.Info("genesis contract", "name", d.Name, "kind", ctrlertypes.KindString(d.Kind), "address", d.Contract)
	return gd.acctCtrler.SetDeployment(d, true)
}

// Run deploys the tokens, the escrow and the reward pools in this order.
func (gd *genesisDeployer) Run(appState *genesis.GenesisAppState) xerrors.XError {
	tokens := make(map[string]types.Address)
	for _, t := range appState.Tokens {
		addr, xerr := gd.deployToken(t)
		if xerr != nil {
			return xerr.Wrapf("token(%s)", t.Symbol)
		}
		tokens[t.Symbol] = addr
	}

	if e := appState.Escrow; e != nil {
		name, symbol := e.Name, e.Symbol
		if name == "" {
			name = genesis.DefaultEscrowName
		}
		if symbol == "" {
			symbol = genesis.DefaultEscrowSymbol
		}
		addr, xerr := gd.deploy(ctrlertypes.KIND_ESCROW,
			ctrlertypes.AddrArg(tokens[e.Token]),
			ctrlertypes.StringArg(name),
			ctrlertypes.StringArg(symbol),
			ctrlertypes.Int64Arg(e.MaxTime))
		if xerr != nil {
			return xerr.Wrapf("escrow")
		}
		if xerr := gd.register(&ctrlertypes.Deployment{Name: symbol, Kind: ctrlertypes.KIND_ESCROW, Contract: addr}); xerr != nil {
			return xerr
		}
	}

	for _, p := range appState.Pools {
		if xerr := gd.deployPool(p, tokens[p.LPToken], tokens[p.RewardToken]); xerr != nil {
			return xerr.Wrapf("pool(%s)", p.Name)
		}
	}
	return nil
}

func (gd *genesisDeployer) deployToken(t *genesis.GenesisToken) (types.Address, xerrors.XError) {
	addr, xerr := gd.deploy(ctrlertypes.KIND_TOKEN,
		ctrlertypes.StringArg(t.Name),
		ctrlertypes.StringArg(t.Symbol),
		ctrlertypes.Int64Arg(int64(t.Decimals)),
		ctrlertypes.AmountArg(uint256.NewInt(0)))
	if xerr != nil {
		return nil, xerr
	}
	for _, h := range t.Holders {
		if h.Balance == nil || h.Balance.IsZero() {
			continue
		}
		if xerr := gd.call(addr, account.MethodMint, ctrlertypes.AddrArg(h.Address), ctrlertypes.AmountArg(h.Balance)); xerr != nil {
			return nil, xerr
		}
		if gd.acctCtrler.FindAccount(h.Address, true) == nil {
			if xerr := gd.acctCtrler.SetAccount(ctrlertypes.NewAccount(h.Address), true); xerr != nil {
				return nil, xerr
			}
		}
	}
	if xerr := gd.register(&ctrlertypes.Deployment{Name: t.Symbol, Kind: ctrlertypes.KIND_TOKEN, Contract: addr}); xerr != nil {
		return nil, xerr
	}
	return addr, nil
}

// deployPool wires a streamer to a new gauge and funds the streamer with `p.Amount` minted to the deployer.
func (gd *genesisDeployer) deployPool(p *genesis.GenesisPool, lpToken, rewardToken types.Address) xerrors.XError {
	deployer := gd.deployer.Address

	streamerAddr, xerr := gd.deploy(ctrlertypes.KIND_STREAMER,
		ctrlertypes.AddrArg(deployer),
		ctrlertypes.AddrArg(deployer),
		ctrlertypes.AddrArg(rewardToken),
		ctrlertypes.Int64Arg(p.Duration))
	if xerr != nil {
		return xerr
	}
	gaugeAddr, xerr := gd.deploy(ctrlertypes.KIND_GAUGE,
		ctrlertypes.AddrArg(deployer),
		ctrlertypes.AddrArg(lpToken))
	if xerr != nil {
		return xerr
	}

	if xerr := gd.call(streamerAddr, streamer.MethodAddReceiver, ctrlertypes.AddrArg(gaugeAddr)); xerr != nil {
		return xerr
	}
	rewards := make([]types.Address, gauge.MaxRewards)
	rewards[0] = rewardToken
	if xerr := gd.call(gaugeAddr, gauge.MethodSetRewards,
		ctrlertypes.AddrArg(streamerAddr),
		ctrlertypes.StringArg(genesis.DefaultPullMethod),
		ctrlertypes.AddrArrayArg(rewards...)); xerr != nil {
		return xerr
	}

	if p.Amount != nil && !p.Amount.IsZero() {
		if xerr := gd.call(rewardToken, account.MethodMint, ctrlertypes.AddrArg(deployer), ctrlertypes.AmountArg(p.Amount)); xerr != nil {
			return xerr
		}
		if xerr := gd.call(rewardToken, account.MethodApprove, ctrlertypes.AddrArg(streamerAddr), ctrlertypes.AmountArg(p.Amount)); xerr != nil {
			return xerr
		}
		if xerr := gd.call(streamerAddr, streamer.MethodNotifyRewardAmount, ctrlertypes.AmountArg(p.Amount)); xerr != nil {
			return xerr
		}
	}

	return gd.register(&ctrlertypes.Deployment{
		Name:     p.Name,
		Kind:     ctrlertypes.KIND_GAUGE,
		Contract: gaugeAddr,
		Streamer: streamerAddr,
	})
}
