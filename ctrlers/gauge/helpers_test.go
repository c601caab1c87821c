package gauge

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"testing"
	"time"

	cfg "github.com/ShibuiDAO/veShibui/cmd/config"
	"github.com/ShibuiDAO/veShibui/ctrlers/account"
	"github.com/ShibuiDAO/veShibui/ctrlers/mocks"
	"github.com/ShibuiDAO/veShibui/ctrlers/router"
	"github.com/ShibuiDAO/veShibui/ctrlers/streamer"
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
	day    = 24 * time.Hour
	epochs = 25
)

var maxApproval = new(uint256.Int).SetAllOne()

type gaugeEnv struct {
	t *testing.T

	acctCtrler     *account.AcctCtrler
	streamerCtrler *streamer.StreamerCtrler
	gaugeCtrler    *GaugeCtrler
	router         *router.ContractRouter

	admin    types.Address
	lpToken  types.Address
	reward   types.Address
	streamer types.Address
	gauge    types.Address
}

// newGaugeEnv deploys the LP token, the reward token, a streamer of the reward token over 25 days
// and a gauge of the LP token. The admin owns all of them.
func newGaugeEnv(t *testing.T) *gaugeEnv {
	config := cfg.DefaultConfig()
	config.DBPath = filepath.Join(os.TempDir(), fmt.Sprintf("veshibui-gauge-test-%d", rand.Int63()))
	require.NoError(t, os.RemoveAll(config.DBDir()))

	acctCtrler, err := account.NewAcctCtrler(config, tmlog.NewNopLogger())
	require.NoError(t, err)
	streamerCtrler, err := streamer.NewStreamerCtrler(config, tmlog.NewNopLogger())
	require.NoError(t, err)
	gaugeCtrler, err := NewGaugeCtrler(config, tmlog.NewNopLogger())
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, acctCtrler.Close())
		require.NoError(t, streamerCtrler.Close())
		require.NoError(t, gaugeCtrler.Close())
		require.NoError(t, os.RemoveAll(config.DBDir()))
	})

	r := router.NewContractRouter(acctCtrler, tmlog.NewNopLogger())
	r.Register(ctrlertypes.KIND_TOKEN, acctCtrler)
	r.Register(ctrlertypes.KIND_STREAMER, streamerCtrler)
	r.Register(ctrlertypes.KIND_GAUGE, gaugeCtrler)

	mocks.BlockInterval = 0
	mocks.InitBlockCtxWith("gauge-test", 1, time.Unix(1_700_000_000, 0), acctCtrler, r)

	env := &gaugeEnv{
		t:              t,
		acctCtrler:     acctCtrler,
		streamerCtrler: streamerCtrler,
		gaugeCtrler:    gaugeCtrler,
		router:         r,
		admin:          types.RandAddress(),
	}
	env.lpToken = crypto.CreateAddress(env.admin, 0)
	env.reward = crypto.CreateAddress(env.admin, 1)
	env.streamer = crypto.CreateAddress(env.admin, 2)
	env.gauge = crypto.CreateAddress(env.admin, 3)

	env.deploy(env.lpToken, ctrlertypes.KIND_TOKEN,
		ctrlertypes.StringArg("Oolong LP token"),
		ctrlertypes.StringArg("OLP"),
		ctrlertypes.Int64Arg(18),
		ctrlertypes.AmountArg(types.ToAmount(1_000_000_000)))
	env.deploy(env.reward, ctrlertypes.KIND_TOKEN,
		ctrlertypes.StringArg("Boba WAGMI v3 Option"),
		ctrlertypes.StringArg("WAGMIv3"),
		ctrlertypes.Int64Arg(18),
		ctrlertypes.AmountArg(uint256.NewInt(0)))
	env.deploy(env.streamer, ctrlertypes.KIND_STREAMER,
		ctrlertypes.AddrArg(env.admin),
		ctrlertypes.AddrArg(env.admin),
		ctrlertypes.AddrArg(env.reward),
		ctrlertypes.Int64Arg(epochs*types.DAY))
	env.deploy(env.gauge, ctrlertypes.KIND_GAUGE,
		ctrlertypes.AddrArg(env.admin),
		ctrlertypes.AddrArg(env.lpToken))
	env.mine(0)
	return env
}

func (env *gaugeEnv) deploy(contract types.Address, kind int32, args ...[]byte) {
	require.NoError(env.t, env.router.Deploy(mocks.MakeCallCtx(env.admin, contract, "", true, args...), kind))
}

func (env *gaugeEnv) mine(d time.Duration) {
	mocks.SkipTime(d)
	require.NoError(env.t, mocks.DoCommitBlock(env.acctCtrler, env.streamerCtrler, env.gaugeCtrler))
}

// send executes the call in the current block and commits the block. A failed call changes nothing.
func (env *gaugeEnv) send(from, contract types.Address, method string, args ...[]byte) xerrors.XError {
	ctx := mocks.MakeCallCtx(from, contract, method, true, args...)
	snaps := []int{
		env.acctCtrler.Snapshot(true),
		env.streamerCtrler.Snapshot(true),
		env.gaugeCtrler.Snapshot(true),
	}

	xerr := env.router.Call(ctx)
	if xerr != nil {
		require.NoError(env.t, env.acctCtrler.RevertToSnapshot(snaps[0], true))
		require.NoError(env.t, env.streamerCtrler.RevertToSnapshot(snaps[1], true))
		require.NoError(env.t, env.gaugeCtrler.RevertToSnapshot(snaps[2], true))
	}
	env.mine(0)
	return xerr
}

func (env *gaugeEnv) sendGauge(from types.Address, method string, args ...[]byte) xerrors.XError {
	return env.send(from, env.gauge, method, args...)
}

// fundLP gives `amount` LP tokens to `to` and approves the gauge to spend all of them.
func (env *gaugeEnv) fundLP(to types.Address, amount *uint256.Int) {
	require.NoError(env.t, env.send(env.admin, env.lpToken, account.MethodTransfer, ctrlertypes.AddrArg(to), ctrlertypes.AmountArg(amount)))
	require.NoError(env.t, env.send(to, env.lpToken, account.MethodApprove, ctrlertypes.AddrArg(env.gauge), ctrlertypes.AmountArg(maxApproval)))
}

// setupRewards registers the gauge to the streamer and mints `amount` reward tokens to the admin.
func (env *gaugeEnv) setupRewards(amount *uint256.Int) {
	require.NoError(env.t, env.send(env.admin, env.streamer, streamer.MethodAddReceiver, ctrlertypes.AddrArg(env.gauge)))
	require.NoError(env.t, env.send(env.admin, env.reward, account.MethodApprove, ctrlertypes.AddrArg(env.streamer), ctrlertypes.AmountArg(maxApproval)))
	require.NoError(env.t, env.send(env.admin, env.reward, account.MethodMint, ctrlertypes.AddrArg(env.admin), ctrlertypes.AmountArg(amount)))
}

func (env *gaugeEnv) setRewards(streamerAddr types.Address, sig string, tokens ...types.Address) xerrors.XError {
	arr := make([]types.Address, MaxRewards)
	copy(arr, tokens)
	return env.sendGauge(env.admin, MethodSetRewards, ctrlertypes.AddrArg(streamerAddr), ctrlertypes.StringArg(sig), ctrlertypes.AddrArrayArg(arr...))
}

func (env *gaugeEnv) view(method string, args ...[]byte) []byte {
	bctx := mocks.LastBlockCtx()
	ctx := ctrlertypes.NewCallContext(bctx, nil, env.gauge, method, args, false)
	raw, xerr := env.router.View(ctx, bctx.Height())
	require.NoError(env.t, xerr)
	return raw
}

func (env *gaugeEnv) viewAmount(method string, args ...[]byte) *uint256.Int {
	var s string
	require.NoError(env.t, jsonx.Unmarshal(env.view(method, args...), &s))
	amt, err := uint256.FromDecimal(s)
	require.NoError(env.t, err)
	return amt
}

func (env *gaugeEnv) viewAddress(method string, args ...[]byte) types.Address {
	var addr types.Address
	require.NoError(env.t, jsonx.Unmarshal(env.view(method, args...), &addr))
	return addr
}

func (env *gaugeEnv) tokenBalance(token, owner types.Address) *uint256.Int {
	bal, xerr := env.acctCtrler.BalanceOf(token, owner, true)
	require.NoError(env.t, xerr)
	return bal
}

func subOf(a, b *uint256.Int) *uint256.Int {
	return new(uint256.Int).Sub(a, b)
}
