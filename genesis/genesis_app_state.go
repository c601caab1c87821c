package genesis

import (
	"errors"
	"fmt"

	"github.com/ShibuiDAO/veShibui/libs/jsonx"
	"github.com/ShibuiDAO/veShibui/types"
	"github.com/ShibuiDAO/veShibui/types/crypto"
	"github.com/holiman/uint256"
)

const (
	DefaultEscrowName   = "Voting-escrowed SHIBUI"
	DefaultEscrowSymbol = "veSHIBUI"
	DefaultPullMethod   = "get_reward()"
)

// GenesisAppState describes the contracts created in InitChain.
// Every contract is deployed by `Deployer` in the order: tokens, escrow, pools.
// Tokens are referred to by their symbols.
type GenesisAppState struct {
	Deployer types.Address   `json:"deployer"`
	Tokens   []*GenesisToken `json:"tokens"`
	Escrow   *GenesisEscrow  `json:"escrow,omitempty"`
	Pools    []*GenesisPool  `json:"pools,omitempty"`
}

type GenesisToken struct {
	Name     string                `json:"name"`
	Symbol   string                `json:"symbol"`
	Decimals uint64                `json:"decimals"`
	Holders  []*GenesisAssetHolder `json:"holders,omitempty"`
}

type GenesisEscrow struct {
	Token   string `json:"token"`
	Name    string `json:"name"`
	Symbol  string `json:"symbol"`
	MaxTime int64  `json:"maxTime"`
}

// GenesisPool is a streamer and a gauge wired to it, funded with `Amount` of the reward token.
type GenesisPool struct {
	Name        string       `json:"name"`
	LPToken     string       `json:"lpToken"`
	RewardToken string       `json:"rewardToken"`
	Amount      *uint256.Int `json:"-"`
	Duration    int64        `json:"duration"`
}

type genesisPoolJSON struct {
	Name        string `json:"name"`
	LPToken     string `json:"lpToken"`
	RewardToken string `json:"rewardToken"`
	Amount      string `json:"amount"`
	Duration    int64  `json:"duration"`
}

func (gp *GenesisPool) MarshalJSON() ([]byte, error) {
	amt := "0"
	if gp.Amount != nil {
		amt = gp.Amount.Dec()
	}
	return jsonx.Marshal(&genesisPoolJSON{
		Name:        gp.Name,
		LPToken:     gp.LPToken,
		RewardToken: gp.RewardToken,
		Amount:      amt,
		Duration:    gp.Duration,
	})
}

func (gp *GenesisPool) UnmarshalJSON(bz []byte) error {
	tm := &genesisPoolJSON{}
	if err := jsonx.Unmarshal(bz, tm); err != nil {
		return err
	}
	amt, err := uint256.FromDecimal(tm.Amount)
	if err != nil {
		return err
	}
	gp.Name = tm.Name
	gp.LPToken = tm.LPToken
	gp.RewardToken = tm.RewardToken
	gp.Amount = amt
	gp.Duration = tm.Duration
	return nil
}

func (ga *GenesisAppState) FindToken(symbol string) (int, *GenesisToken) {
	for i, t := range ga.Tokens {
		if t.Symbol == symbol {
			return i, t
		}
	}
	return -1, nil
}

func (ga *GenesisAppState) Validate() error {
	if len(ga.Deployer) != types.AddrSize {
		return errors.New("genesis: wrong deployer address")
	}
	seen := make(map[string]bool)
	for _, t := range ga.Tokens {
		if t.Symbol == "" || seen[t.Symbol] {
			return fmt.Errorf("genesis: empty or duplicated token symbol(%s)", t.Symbol)
		}
		seen[t.Symbol] = true
	}
	if ga.Escrow != nil {
		if !seen[ga.Escrow.Token] {
			return fmt.Errorf("genesis: unknown escrow token(%s)", ga.Escrow.Token)
		}
		if ga.Escrow.MaxTime < 0 || ga.Escrow.MaxTime%types.WEEK != 0 {
			return fmt.Errorf("genesis: escrow maxTime(%d) must be a multiple of a week", ga.Escrow.MaxTime)
		}
	}
	for _, p := range ga.Pools {
		if !seen[p.LPToken] || !seen[p.RewardToken] {
			return fmt.Errorf("genesis: pool(%s) refers to unknown tokens", p.Name)
		}
		if p.Duration <= 0 {
			return fmt.Errorf("genesis: pool(%s) has wrong duration", p.Name)
		}
	}
	return nil
}

func (ga *GenesisAppState) Hash() ([]byte, error) {
	bz, err := jsonx.Marshal(ga)
	if err != nil {
		return nil, err
	}
	return crypto.DefaultHash(bz), nil
}

// DevnetGenesisAppState makes the app state of a local network:
// the SHIBUI token, one LP token, the escrow locking SHIBUI and a pool rewarding SHIBUI to LP depositors.
func DevnetGenesisAppState(deployer types.Address, holders []types.Address, balance *uint256.Int) *GenesisAppState {
	var shibuiHolders, lpHolders []*GenesisAssetHolder
	for _, h := range holders {
		shibuiHolders = append(shibuiHolders, &GenesisAssetHolder{Address: h, Balance: balance.Clone()})
		lpHolders = append(lpHolders, &GenesisAssetHolder{Address: h, Balance: balance.Clone()})
	}

	return &GenesisAppState{
		Deployer: deployer,
		Tokens: []*GenesisToken{
			{Name: "Shibui", Symbol: "SHIBUI", Decimals: 18, Holders: shibuiHolders},
			{Name: "Shibui LP", Symbol: "SHIBUI-LP", Decimals: 18, Holders: lpHolders},
		},
		Escrow: &GenesisEscrow{
			Token:  "SHIBUI",
			Name:   DefaultEscrowName,
			Symbol: DefaultEscrowSymbol,
		},
		Pools: []*GenesisPool{
			{
				Name:        "SHIBUI-LP",
				LPToken:     "SHIBUI-LP",
				RewardToken: "SHIBUI",
				Amount:      types.ToAmount(10_000),
				Duration:    26 * types.DAY,
			},
		},
	}
}
