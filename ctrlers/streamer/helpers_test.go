package streamer

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

const (
	day      = 24 * time.Hour
	duration = 10 * types.DAY
)

type streamerEnv struct {
	t *testing.T

	acctCtrler     *account.AcctCtrler
	streamerCtrler *StreamerCtrler
	router         *router.ContractRouter

	owner    types.Address
	token    types.Address
	streamer types.Address
}

func newStreamerEnv(t *testing.T) *streamerEnv {
	config := cfg.DefaultConfig()
	config.DBPath = filepath.Join(os.TempDir(), fmt.Sprintf("veshibui-streamer-test-%d", rand.Int63()))
	require.NoError(t, os.RemoveAll(config.DBDir()))

	acctCtrler, err := account.NewAcctCtrler(config, tmlog.NewNopLogger())
	require.NoError(t, err)
	streamerCtrler, err := NewStreamerCtrler(config, tmlog.NewNopLogger())
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, acctCtrler.Close())
		require.NoError(t, streamerCtrler.Close())
		require.NoError(t, os.RemoveAll(config.DBDir()))
	})

	r := router.NewContractRouter(acctCtrler, tmlog.NewNopLogger())
	r.Register(ctrlertypes.KIND_TOKEN, acctCtrler)
	r.Register(ctrlertypes.KIND_STREAMER, streamerCtrler)

	mocks.BlockInterval = 0
	mocks.InitBlockCtxWith("streamer-test", 1, time.Unix(1_700_000_000, 0), acctCtrler, r)

	env := &streamerEnv{
		t:              t,
		acctCtrler:     acctCtrler,
		streamerCtrler: streamerCtrler,
		router:         r,
		owner:          types.RandAddress(),
	}
	env.token = crypto.CreateAddress(env.owner, 0)
	env.streamer = crypto.CreateAddress(env.owner, 1)

	require.NoError(t, r.Deploy(mocks.MakeCallCtx(env.owner, env.token, "", true,
		ctrlertypes.StringArg("Reward Token"),
		ctrlertypes.StringArg("RWD"),
		ctrlertypes.Int64Arg(18),
		ctrlertypes.AmountArg(types.ToAmount(1_000_000))), ctrlertypes.KIND_TOKEN))
	require.NoError(t, r.Deploy(mocks.MakeCallCtx(env.owner, env.streamer, "", true,
		ctrlertypes.AddrArg(env.owner),
		ctrlertypes.AddrArg(env.owner),
		ctrlertypes.AddrArg(env.token),
		ctrlertypes.Int64Arg(duration)), ctrlertypes.KIND_STREAMER))
	require.NoError(t, env.send(env.owner, env.token, account.MethodApprove, ctrlertypes.AddrArg(env.streamer), ctrlertypes.AmountArg(types.ToAmount(1_000_000))))
	return env
}

func (env *streamerEnv) mine(d time.Duration) {
	mocks.SkipTime(d)
	require.NoError(env.t, mocks.DoCommitBlock(env.acctCtrler, env.streamerCtrler))
}

func (env *streamerEnv) send(from, contract types.Address, method string, args ...[]byte) xerrors.XError {
	ctx := mocks.MakeCallCtx(from, contract, method, true, args...)
	snap0 := env.acctCtrler.Snapshot(true)
	snap1 := env.streamerCtrler.Snapshot(true)

	xerr := env.router.Call(ctx)
	if xerr != nil {
		require.NoError(env.t, env.acctCtrler.RevertToSnapshot(snap0, true))
		require.NoError(env.t, env.streamerCtrler.RevertToSnapshot(snap1, true))
	}
	env.mine(0)
	return xerr
}

func (env *streamerEnv) sendStreamer(from types.Address, method string, args ...[]byte) xerrors.XError {
	return env.send(from, env.streamer, method, args...)
}

func (env *streamerEnv) view(method string, args ...[]byte) []byte {
	bctx := mocks.LastBlockCtx()
	ctx := ctrlertypes.NewCallContext(bctx, nil, env.streamer, method, args, false)
	raw, xerr := env.router.View(ctx, bctx.Height())
	require.NoError(env.t, xerr)
	return raw
}

func (env *streamerEnv) viewAmount(method string, args ...[]byte) *uint256.Int {
	var s string
	require.NoError(env.t, jsonx.Unmarshal(env.view(method, args...), &s))
	amt, err := uint256.FromDecimal(s)
	require.NoError(env.t, err)
	return amt
}

func (env *streamerEnv) viewUint(method string) uint64 {
	n, err := strconv.ParseUint(string(env.view(method)), 10, 64)
	require.NoError(env.t, err)
	return n
}

func (env *streamerEnv) balanceOf(owner types.Address) *uint256.Int {
	bal, xerr := env.acctCtrler.BalanceOf(env.token, owner, true)
	require.NoError(env.t, xerr)
	return bal
}

func mulOf(a *uint256.Int, n int64) *uint256.Int {
	return new(uint256.Int).Mul(a, uint256.NewInt(uint64(n)))
}
