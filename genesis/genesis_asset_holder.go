package genesis

import (
	"github.com/ShibuiDAO/veShibui/libs/jsonx"
	"github.com/ShibuiDAO/veShibui/types"
	"github.com/ShibuiDAO/veShibui/types/crypto"
	"github.com/holiman/uint256"
)

type GenesisAssetHolder struct {
	Address types.Address
	Balance *uint256.Int
}

type genesisAssetHolderJSON struct {
	Address types.Address `json:"address"`
	Balance string        `json:"balance"`
}

func (gh *GenesisAssetHolder) MarshalJSON() ([]byte, error) {
	return jsonx.Marshal(&genesisAssetHolderJSON{
		Address: gh.Address,
		Balance: gh.Balance.Dec(),
	})
}

func (gh *GenesisAssetHolder) UnmarshalJSON(bz []byte) error {
	tm := &genesisAssetHolderJSON{}
	if err := jsonx.Unmarshal(bz, tm); err != nil {
		return err
	}

	bal, err := uint256.FromDecimal(tm.Balance)
	if err != nil {
		return err
	}

	gh.Address = tm.Address
	gh.Balance = bal
	return nil
}

func (gh *GenesisAssetHolder) Hash() []byte {
	return crypto.DefaultHash(gh.Address, gh.Balance.Bytes())
}
