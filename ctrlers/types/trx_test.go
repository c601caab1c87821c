package types_test

import (
	"testing"

	ctrlertypes "github.com/ShibuiDAO/veShibui/ctrlers/types"
	"github.com/ShibuiDAO/veShibui/types"
	"github.com/ShibuiDAO/veShibui/types/crypto"
	"github.com/ShibuiDAO/veShibui/types/xerrors"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
)

const testChainId = "trx_test_chain"

func newSigner(t *testing.T) (types.Address, []byte) {
	prv, xerr := crypto.NewPrvKey()
	require.NoError(t, xerr)
	prvBytes := crypto.PrvKeyBytes(prv)
	addr, _, xerr := crypto.PrvBytes2Addr(prvBytes)
	require.NoError(t, xerr)
	return addr, prvBytes
}

func TestTrxCall_EncodeAndVerify(t *testing.T) {
	from, prvKey := newSigner(t)
	tx0 := ctrlertypes.NewTrxCall(from, types.RandAddress(), 3,
		"create_lock(uint256,uint256)",
		ctrlertypes.AmountArg(types.ToAmount(100)),
		ctrlertypes.Int64Arg(1_700_000_000))

	_, xerr := ctrlertypes.SignTrxRLP(tx0, prvKey, testChainId)
	require.NoError(t, xerr)
	require.NoError(t, tx0.Validate())

	bz, xerr := tx0.Encode()
	require.NoError(t, xerr)

	tx1 := &ctrlertypes.Trx{}
	require.NoError(t, tx1.Decode(bz))
	require.True(t, tx0.Equal(tx1))
	require.Equal(t, ctrlertypes.TRX_CALL, tx1.GetType())

	addr, _, xerr := ctrlertypes.VerifyTrxRLP(tx1, testChainId)
	require.NoError(t, xerr)
	require.Equal(t, from, addr)

	// another chain
	_, _, xerr = ctrlertypes.VerifyTrxRLP(tx1, "other_chain")
	require.ErrorContains(t, xerr, xerrors.ErrInvalidTrxSig.Error())

	// modified after signing
	tx1.Nonce++
	_, _, xerr = ctrlertypes.VerifyTrxRLP(tx1, testChainId)
	require.ErrorContains(t, xerr, xerrors.ErrInvalidTrxSig.Error())
}

func TestTrxDeploy_EncodeAndValidate(t *testing.T) {
	from, prvKey := newSigner(t)
	tx0 := ctrlertypes.NewTrxDeploy(from, 0, ctrlertypes.KIND_STREAMER,
		ctrlertypes.AddrArg(from),
		ctrlertypes.AddrArg(from),
		ctrlertypes.AddrArg(types.RandAddress()),
		ctrlertypes.Int64Arg(25*types.DAY))
	_, xerr := ctrlertypes.SignTrxRLP(tx0, prvKey, testChainId)
	require.NoError(t, xerr)
	require.NoError(t, tx0.Validate())

	bz, xerr := tx0.Encode()
	require.NoError(t, xerr)
	tx1 := &ctrlertypes.Trx{}
	require.NoError(t, tx1.Decode(bz))
	require.True(t, tx0.Equal(tx1))
	require.Equal(t, ctrlertypes.KIND_STREAMER, tx1.Payload.(*ctrlertypes.TrxPayloadDeploy).Kind)

	// a deploy transaction must not have a receiver
	tx1.To = types.RandAddress()
	require.Error(t, tx1.Validate())
}

func TestTrx_Validate(t *testing.T) {
	from := types.RandAddress()

	tx := ctrlertypes.NewTrxCall(from, types.RandAddress(), 0, "checkpoint()")
	require.Equal(t, xerrors.ErrInvalidTrxSig, tx.Validate())

	tx.Sig = make([]byte, 65)
	require.NoError(t, tx.Validate())

	tx.To = nil
	require.Equal(t, xerrors.ErrInvalidAddress, tx.Validate())

	tx = ctrlertypes.NewTrxCall(from, types.RandAddress(), 0, "")
	tx.Sig = make([]byte, 65)
	require.Error(t, tx.Validate())

	tx = ctrlertypes.NewTrxCall(types.Address{0x01}, types.RandAddress(), 0, "checkpoint()")
	tx.Sig = make([]byte, 65)
	require.Equal(t, xerrors.ErrInvalidAddress, tx.Validate())
}

func TestTrx_DecodeWrongPayload(t *testing.T) {
	tx := ctrlertypes.NewTrxCall(types.RandAddress(), types.RandAddress(), 0, "checkpoint()")
	tx.Type = 100
	bz, xerr := tx.Encode()
	require.NoError(t, xerr)
	require.Error(t, (&ctrlertypes.Trx{}).Decode(bz))
}

func TestAmountItem(t *testing.T) {
	amt := ctrlertypes.NewAmount(uint256.NewInt(12345))
	bz, xerr := amt.Encode()
	require.NoError(t, xerr)

	amt2 := &ctrlertypes.Amount{}
	require.NoError(t, amt2.Decode(bz))
	require.Equal(t, uint64(12345), amt2.Value().Uint64())

	require.True(t, (&ctrlertypes.Amount{}).Value().IsZero())
}
