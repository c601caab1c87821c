package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	cfg "github.com/ShibuiDAO/veShibui/cmd/config"
	"github.com/ShibuiDAO/veShibui/genesis"
	"github.com/ShibuiDAO/veShibui/libs/jsonx"
	"github.com/ShibuiDAO/veShibui/types"
	"github.com/ShibuiDAO/veShibui/types/crypto"
	"github.com/stretchr/testify/require"
	tmcfg "github.com/tendermint/tendermint/config"
	tmlog "github.com/tendermint/tendermint/libs/log"
	tmtypes "github.com/tendermint/tendermint/types"
)

func Test_InitFiles(t *testing.T) {
	logger = tmlog.NewNopLogger()

	config := cfg.DefaultConfig()
	config.SetRoot(filepath.Join(t.TempDir(), "init-cmd-test"))
	tmcfg.EnsureRoot(config.RootDir)

	pass := []byte("1111")
	require.NoError(t, InitFilesWith("init-test-chain-id", config, 3, 4, pass))

	genDoc, err := tmtypes.GenesisDocFromFile(config.GenesisFile())
	require.NoError(t, err)
	require.Equal(t, "init-test-chain-id", genDoc.ChainID)
	require.Len(t, genDoc.Validators, 3)
	for _, v := range genDoc.Validators {
		require.Equal(t, validatorPower, v.Power)
	}
	require.FileExists(t, indexedFile(filepath.Join(filepath.Dir(config.PrivValidatorKeyFile()), defaultValKeyDir), config.PrivValidatorKeyFile(), 2))

	appState := &genesis.GenesisAppState{}
	require.NoError(t, jsonx.Unmarshal(genDoc.AppState, appState))
	require.NoError(t, appState.Validate())
	hash, err := appState.Hash()
	require.NoError(t, err)
	require.Equal(t, hash, []byte(genDoc.AppHash))

	// every holder has a wallet key file and the first one is the deployer.
	entries, err := os.ReadDir(filepath.Join(config.RootDir, crypto.DefaultWalletKeyDir))
	require.NoError(t, err)
	require.Len(t, entries, 4)

	_, shibui := appState.FindToken("SHIBUI")
	require.NotNil(t, shibui)
	require.Len(t, shibui.Holders, 4)
	require.Equal(t, shibui.Holders[0].Address, appState.Deployer)
	for _, h := range shibui.Holders {
		require.Equal(t, types.ToAmount(holderBalance).Dec(), h.Balance.Dec())

		wk, err := crypto.OpenWalletKey(filepath.Join(config.RootDir, crypto.DefaultWalletKeyDir, fmt.Sprintf("wk%X.json", []byte(h.Address))))
		require.NoError(t, err)
		require.Equal(t, h.Address, wk.Address)
		require.NoError(t, wk.Unlock(pass))
		wk.Lock()
	}

	// a second run keeps the existing files.
	require.NoError(t, InitFilesWith("other-chain-id", config, 1, 1, pass))
	genDoc2, err := tmtypes.GenesisDocFromFile(config.GenesisFile())
	require.NoError(t, err)
	require.Equal(t, genDoc.ChainID, genDoc2.ChainID)

	require.Error(t, InitFilesWith("init-test-chain-id", config, 0, 1, pass))
}
