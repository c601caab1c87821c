package gauge

import (
	"github.com/ShibuiDAO/veShibui/types"
	"github.com/ShibuiDAO/veShibui/types/xerrors"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/holiman/uint256"
)

const MaxRewards = 8

// GaugeInfo is the configuration of one gauge and the total of its deposits.
type GaugeInfo struct {
	Admin       types.Address
	FutureAdmin types.Address
	LpToken     types.Address
	Name        string
	Symbol      string

	TotalSupply *uint256.Int

	// RewardContract is the streamer the rewards are pulled from by calling PullSelector.
	RewardContract types.Address
	PullSelector   []byte
	LastClaim      uint64
	RewardTokens   []types.Address
}

func (info *GaugeInfo) Encode() ([]byte, xerrors.XError) {
	bz, err := rlp.EncodeToBytes(info)
	if err != nil {
		return nil, xerrors.From(err)
	}
	return bz, nil
}

func (info *GaugeInfo) Decode(bz []byte) xerrors.XError {
	if err := rlp.DecodeBytes(bz, info); err != nil {
		return xerrors.From(err)
	}
	return nil
}

func (info *GaugeInfo) isAdmin(addr types.Address) bool {
	return !types.IsZeroAddress(addr) && info.Admin.Equal(addr)
}

func (info *GaugeInfo) hasRewards() bool {
	return len(info.RewardTokens) > 0
}

func (info *GaugeInfo) hasRewardContract() bool {
	return !types.IsZeroAddress(info.RewardContract)
}

// ClaimData is the amount of a reward token paid to a user and the amount the user can claim.
type ClaimData struct {
	Claimed   *uint256.Int
	Claimable *uint256.Int
}

func newClaimData() *ClaimData {
	return &ClaimData{Claimed: uint256.NewInt(0), Claimable: uint256.NewInt(0)}
}

func (cd *ClaimData) Encode() ([]byte, xerrors.XError) {
	bz, err := rlp.EncodeToBytes(cd)
	if err != nil {
		return nil, xerrors.From(err)
	}
	return bz, nil
}

func (cd *ClaimData) Decode(bz []byte) xerrors.XError {
	if err := rlp.DecodeBytes(bz, cd); err != nil {
		return xerrors.From(err)
	}
	return nil
}
