package escrow

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	cfg "github.com/ShibuiDAO/veShibui/cmd/config"
	"github.com/ShibuiDAO/veShibui/ctrlers/account"
	"github.com/ShibuiDAO/veShibui/ctrlers/mocks"
	"github.com/ShibuiDAO/veShibui/ctrlers/router"
	ctrlertypes "github.com/ShibuiDAO/veShibui/ctrlers/types"
	"github.com/ShibuiDAO/veShibui/libs/jsonx"
	"github.com/ShibuiDAO/veShibui/types"
	"github.com/ShibuiDAO/veShibui/types/crypto"
	"github.com/ShibuiDAO/veShibui/types/xerrors"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
	tmlog "github.com/tendermint/tendermint/libs/log"
)

const H = time.Hour

type escrowEnv struct {
	t *testing.T

	acctCtrler   *account.AcctCtrler
	escrowCtrler *EscrowCtrler
	router       *router.ContractRouter

	admin types.Address
	token types.Address
	ve    types.Address
}

// newEscrowEnv deploys the token SHIBUI and an escrow of it in the block 1 and commits it.
func newEscrowEnv(t *testing.T) *escrowEnv {
	config := cfg.DefaultConfig()
	config.DBPath = filepath.Join(os.TempDir(), fmt.Sprintf("veshibui-escrow-test-%d", rand.Int63()))
	require.NoError(t, os.RemoveAll(config.DBDir()))

	acctCtrler, err := account.NewAcctCtrler(config, tmlog.NewNopLogger())
	require.NoError(t, err)
	escrowCtrler, err := NewEscrowCtrler(config, tmlog.NewNopLogger())
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, acctCtrler.Close())
		require.NoError(t, escrowCtrler.Close())
		require.NoError(t, os.RemoveAll(config.DBDir()))
	})

	r := router.NewContractRouter(acctCtrler, tmlog.NewNopLogger())
	r.Register(ctrlertypes.KIND_TOKEN, acctCtrler)
	r.Register(ctrlertypes.KIND_ESCROW, escrowCtrler)

	mocks.BlockInterval = 0
	mocks.InitBlockCtxWith("escrow-test", 1, time.Unix(1_700_000_000, 0), acctCtrler, r)

	env := &escrowEnv{
		t:            t,
		acctCtrler:   acctCtrler,
		escrowCtrler: escrowCtrler,
		router:       r,
		admin:        types.RandAddress(),
	}
	env.token = crypto.CreateAddress(env.admin, 0)
	env.ve = crypto.CreateAddress(env.admin, 1)

	require.NoError(t, r.Deploy(mocks.MakeCallCtx(env.admin, env.token, "", true,
		ctrlertypes.StringArg("Shibui"),
		ctrlertypes.StringArg("SHIBUI"),
		ctrlertypes.Int64Arg(18),
		ctrlertypes.AmountArg(types.ToAmount(50_000_000))), ctrlertypes.KIND_TOKEN))
	require.NoError(t, r.Deploy(mocks.MakeCallCtx(env.admin, env.ve, "", true,
		ctrlertypes.AddrArg(env.token),
		ctrlertypes.StringArg("Voting-escrowed SHIBUI"),
		ctrlertypes.StringArg("veSHIBUI"),
		ctrlertypes.Int64Arg(0)), ctrlertypes.KIND_ESCROW))
	env.mine(0)
	return env
}

// mine moves the time of the current block forward by `d` and commits it.
func (env *escrowEnv) mine(d time.Duration) {
	mocks.SkipTime(d)
	require.NoError(env.t, mocks.DoCommitBlock(env.acctCtrler, env.escrowCtrler))
}

// send executes the call in the current block and commits the block. A failed call changes nothing.
func (env *escrowEnv) send(from, contract types.Address, method string, args ...[]byte) xerrors.XError {
	ctx := mocks.MakeCallCtx(from, contract, method, true, args...)
	snap0 := env.acctCtrler.Snapshot(true)
	snap1 := env.escrowCtrler.Snapshot(true)

	xerr := env.router.Call(ctx)
	if xerr != nil {
		require.NoError(env.t, env.acctCtrler.RevertToSnapshot(snap0, true))
		require.NoError(env.t, env.escrowCtrler.RevertToSnapshot(snap1, true))
	}
	env.mine(0)
	return xerr
}

func (env *escrowEnv) sendVe(from types.Address, method string, args ...[]byte) xerrors.XError {
	return env.send(from, env.ve, method, args...)
}

// fund gives `amount` tokens to `to` and approves the escrow to spend them.
func (env *escrowEnv) fund(to types.Address, amount *uint256.Int) {
	require.NoError(env.t, env.send(env.admin, env.token, account.MethodTransfer, ctrlertypes.AddrArg(to), ctrlertypes.AmountArg(amount)))
	require.NoError(env.t, env.send(to, env.token, account.MethodApprove, ctrlertypes.AddrArg(env.ve), ctrlertypes.AmountArg(new(uint256.Int).Mul(amount, uint256.NewInt(10)))))
}

// view calls a read-only method of `contract` as of the last committed block.
func (env *escrowEnv) view(contract types.Address, method string, args ...[]byte) []byte {
	bctx := mocks.LastBlockCtx()
	ctx := ctrlertypes.NewCallContext(bctx, nil, contract, method, args, false)
	raw, xerr := env.router.View(ctx, bctx.Height())
	require.NoError(env.t, xerr)
	return raw
}

func (env *escrowEnv) viewAmount(method string, args ...[]byte) *uint256.Int {
	var s string
	require.NoError(env.t, jsonx.Unmarshal(env.view(env.ve, method, args...), &s))
	amt, err := uint256.FromDecimal(s)
	require.NoError(env.t, err)
	return amt
}

func (env *escrowEnv) viewUint(method string, args ...[]byte) uint64 {
	raw := env.view(env.ve, method, args...)
	n, err := strconv.ParseUint(string(raw), 10, 64)
	require.NoError(env.t, err)
	return n
}

func (env *escrowEnv) viewAddress(method string) types.Address {
	var addr types.Address
	require.NoError(env.t, jsonx.Unmarshal(env.view(env.ve, method), &addr))
	return addr
}

func (env *escrowEnv) balanceOf(user types.Address) *uint256.Int {
	return env.viewAmount(ViewBalanceOf, ctrlertypes.AddrArg(user))
}

func (env *escrowEnv) totalSupply() *uint256.Int {
	return env.viewAmount(ViewTotalSupply)
}

func (env *escrowEnv) balanceOfAt(user types.Address, block int64) *uint256.Int {
	return env.viewAmount(ViewBalanceOfAt, ctrlertypes.AddrArg(user), ctrlertypes.Int64Arg(block))
}

func (env *escrowEnv) totalSupplyAt(block int64) *uint256.Int {
	return env.viewAmount(ViewTotalSupplyAt, ctrlertypes.Int64Arg(block))
}

type stage struct {
	block int64
	time  int64
}

func lastStage() stage {
	return stage{block: mocks.LastBlockHeight(), time: mocks.LastBlockCtx().TimeSeconds()}
}

func addOf(a, b *uint256.Int) *uint256.Int {
	return new(uint256.Int).Add(a, b)
}

// powerOf returns amount/maxtime*dt, or 0 for a negative dt.
func powerOf(amount *uint256.Int, dt int64) *uint256.Int {
	if dt <= 0 {
		return uint256.NewInt(0)
	}
	slope := new(uint256.Int).Div(amount, uint256.NewInt(uint64(DefaultMaxTime)))
	return slope.Mul(slope, uint256.NewInt(uint64(dt)))
}
