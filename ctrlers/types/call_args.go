package types

import (
	"math"
	"strconv"
	"strings"

	"github.com/ShibuiDAO/veShibui/types"
	"github.com/ShibuiDAO/veShibui/types/xerrors"
	"github.com/holiman/uint256"
)

// Arguments of deploy and call transactions are raw byte strings:
//   address    20 bytes
//   uint256    big endian bytes, at most 32 bytes (empty is zero)
//   string     utf-8 bytes
//   bool       one byte, 0 or 1
//   address[n] n addresses concatenated

func argAt(args [][]byte, idx int) ([]byte, xerrors.XError) {
	if idx < 0 || idx >= len(args) {
		return nil, xerrors.ErrInvalidTrxPayloadParams.Wrapf("missing argument #%d", idx)
	}
	return args[idx], nil
}

func ArgAddress(args [][]byte, idx int) (types.Address, xerrors.XError) {
	bz, xerr := argAt(args, idx)
	if xerr != nil {
		return nil, xerr
	}
	if len(bz) != types.AddrSize {
		return nil, xerrors.ErrInvalidTrxPayloadParams.Wrapf("argument #%d is not an address", idx)
	}
	return types.Address(bz).Copy(), nil
}

func ArgAddressArray(args [][]byte, idx, n int) ([]types.Address, xerrors.XError) {
	bz, xerr := argAt(args, idx)
	if xerr != nil {
		return nil, xerr
	}
	if len(bz) != types.AddrSize*n {
		return nil, xerrors.ErrInvalidTrxPayloadParams.Wrapf("argument #%d is not address[%d]", idx, n)
	}
	ret := make([]types.Address, n)
	for i := 0; i < n; i++ {
		ret[i] = types.Address(bz[i*types.AddrSize : (i+1)*types.AddrSize]).Copy()
	}
	return ret, nil
}

func ArgUint256(args [][]byte, idx int) (*uint256.Int, xerrors.XError) {
	bz, xerr := argAt(args, idx)
	if xerr != nil {
		return nil, xerr
	}
	if len(bz) > 32 {
		return nil, xerrors.ErrInvalidTrxPayloadParams.Wrapf("argument #%d is not uint256", idx)
	}
	return new(uint256.Int).SetBytes(bz), nil
}

func ArgInt64(args [][]byte, idx int) (int64, xerrors.XError) {
	v, xerr := ArgUint256(args, idx)
	if xerr != nil {
		return 0, xerr
	}
	if !v.IsUint64() || v.Uint64() > math.MaxInt64 {
		return 0, xerrors.ErrInvalidTrxPayloadParams.Wrapf("argument #%d overflows int64", idx)
	}
	return int64(v.Uint64()), nil
}

func ArgString(args [][]byte, idx int) (string, xerrors.XError) {
	bz, xerr := argAt(args, idx)
	if xerr != nil {
		return "", xerr
	}
	return string(bz), nil
}

func ArgBool(args [][]byte, idx int) (bool, xerrors.XError) {
	bz, xerr := argAt(args, idx)
	if xerr != nil {
		return false, xerr
	}
	if len(bz) != 1 || bz[0] > 1 {
		return false, xerrors.ErrInvalidTrxPayloadParams.Wrapf("argument #%d is not bool", idx)
	}
	return bz[0] == 1, nil
}

func AddrArg(addr types.Address) []byte {
	return types.AddressOrZero(addr).Copy()
}

func AddrArrayArg(addrs ...types.Address) []byte {
	ret := make([]byte, 0, len(addrs)*types.AddrSize)
	for _, a := range addrs {
		ret = append(ret, types.AddressOrZero(a)...)
	}
	return ret
}

func AmountArg(amt *uint256.Int) []byte {
	if amt == nil {
		return []byte{}
	}
	return amt.Bytes()
}

func Int64Arg(n int64) []byte {
	return uint256.NewInt(uint64(n)).Bytes()
}

func StringArg(s string) []byte {
	return []byte(s)
}

func BoolArg(b bool) []byte {
	if b {
		return []byte{1}
	}
	return []byte{0}
}

// MethodParamTypes returns the parameter types written in `method`, e.g. "deposit(uint256,address)".
func MethodParamTypes(method string) ([]string, xerrors.XError) {
	open := strings.IndexByte(method, '(')
	if open <= 0 || !strings.HasSuffix(method, ")") {
		return nil, xerrors.ErrInvalidParams.Wrapf("wrong method signature: %s", method)
	}
	params := method[open+1 : len(method)-1]
	if params == "" {
		return nil, nil
	}
	return strings.Split(params, ","), nil
}

// ParseArgs converts the text arguments into the call arguments following the parameter types of `method`.
func ParseArgs(method string, texts []string) ([][]byte, xerrors.XError) {
	ptypes, xerr := MethodParamTypes(method)
	if xerr != nil {
		return nil, xerr
	}
	if len(ptypes) != len(texts) {
		return nil, xerrors.ErrInvalidParams.Wrapf("%s needs %d arguments, but %d", method, len(ptypes), len(texts))
	}

	args := make([][]byte, len(texts))
	for i, pt := range ptypes {
		arg, xerr := parseArg(pt, texts[i])
		if xerr != nil {
			return nil, xerr.Wrapf("argument #%d", i)
		}
		args[i] = arg
	}
	return args, nil
}

func parseArg(ptype, text string) ([]byte, xerrors.XError) {
	switch {
	case ptype == "address":
		addr, err := types.HexToAddress(text)
		if err != nil {
			return nil, xerrors.ErrInvalidParams.Wrap(err)
		}
		return addr, nil
	case ptype == "uint256" || ptype == "int128" || ptype == "uint128":
		v, err := uint256.FromDecimal(text)
		if err != nil {
			return nil, xerrors.ErrInvalidParams.Wrap(err)
		}
		return AmountArg(v), nil
	case ptype == "string" || ptype == "bytes32":
		return StringArg(text), nil
	case ptype == "bool":
		b, err := strconv.ParseBool(text)
		if err != nil {
			return nil, xerrors.ErrInvalidParams.Wrap(err)
		}
		return BoolArg(b), nil
	case strings.HasPrefix(ptype, "address["):
		var addrs []types.Address
		for _, s := range strings.Split(text, ",") {
			addr, err := types.HexToAddress(strings.TrimSpace(s))
			if err != nil {
				return nil, xerrors.ErrInvalidParams.Wrap(err)
			}
			addrs = append(addrs, addr)
		}
		n, err := strconv.Atoi(strings.TrimSuffix(strings.TrimPrefix(ptype, "address["), "]"))
		if err != nil || n < len(addrs) {
			return nil, xerrors.ErrInvalidParams.Wrapf("wrong array type: %s", ptype)
		}
		for len(addrs) < n {
			addrs = append(addrs, types.ZeroAddress())
		}
		return AddrArrayArg(addrs...), nil
	default:
		return nil, xerrors.ErrInvalidParams.Wrapf("unsupported parameter type: %s", ptype)
	}
}
