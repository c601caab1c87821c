package genesis

import (
	"testing"

	"github.com/ShibuiDAO/veShibui/libs/jsonx"
	"github.com/ShibuiDAO/veShibui/types"
	"github.com/stretchr/testify/require"
)

func TestGenesisAppState_JSON(t *testing.T) {
	holders := []types.Address{types.RandAddress(), types.RandAddress()}
	appState := DevnetGenesisAppState(types.RandAddress(), holders, types.ToAmount(1_000_000))
	require.NoError(t, appState.Validate())

	bz, err := jsonx.Marshal(appState)
	require.NoError(t, err)

	appState2 := &GenesisAppState{}
	require.NoError(t, jsonx.Unmarshal(bz, appState2))
	require.Equal(t, appState.Deployer, appState2.Deployer)
	require.Len(t, appState2.Tokens, 2)
	require.Equal(t, holders[1], appState2.Tokens[1].Holders[1].Address)
	require.Equal(t, types.ToAmount(1_000_000).Dec(), appState2.Tokens[0].Holders[0].Balance.Dec())
	require.Equal(t, types.ToAmount(10_000).Dec(), appState2.Pools[0].Amount.Dec())

	h1, err := appState.Hash()
	require.NoError(t, err)
	h2, err := appState2.Hash()
	require.NoError(t, err)
	require.Equal(t, h1, h2)
}

func TestGenesisAppState_Validate(t *testing.T) {
	appState := DevnetGenesisAppState(types.RandAddress(), nil, types.ToAmount(1))
	appState.Escrow.Token = "UNKNOWN"
	require.Error(t, appState.Validate())

	appState = DevnetGenesisAppState(types.RandAddress(), nil, types.ToAmount(1))
	appState.Escrow.MaxTime = types.WEEK + 1
	require.Error(t, appState.Validate())

	appState = DevnetGenesisAppState(types.RandAddress(), nil, types.ToAmount(1))
	appState.Tokens = append(appState.Tokens, &GenesisToken{Symbol: "SHIBUI"})
	require.Error(t, appState.Validate())

	appState = DevnetGenesisAppState(nil, nil, types.ToAmount(1))
	require.Error(t, appState.Validate())
}
