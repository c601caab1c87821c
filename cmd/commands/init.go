package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	cfg "github.com/ShibuiDAO/veShibui/cmd/config"
	"github.com/ShibuiDAO/veShibui/genesis"
	"github.com/ShibuiDAO/veShibui/libs"
	"github.com/ShibuiDAO/veShibui/types"
	acrypto "github.com/ShibuiDAO/veShibui/types/crypto"
	"github.com/spf13/cobra"
	tmos "github.com/tendermint/tendermint/libs/os"
	"github.com/tendermint/tendermint/p2p"
	"github.com/tendermint/tendermint/privval"
	tmtypes "github.com/tendermint/tendermint/types"
)

const (
	defaultValKeyDir = "vals"
	validatorPower   = int64(10)
)

var (
	veshibuiChainID = "veshibui-devnet"
	holderCnt       = 10
	privValCnt      = 1
	holderBalance   = uint64(100_000_000)
)

// NewInitFilesCmd returns the command that creates the validator keys, the node key,
// the wallet keys of the genesis holders and the genesis file.
func NewInitFilesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a veShibui node",
		RunE:  initFiles,
	}
	AddInitFlags(cmd)
	return cmd
}

func AddInitFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(
		&veshibuiChainID,
		"chain_id",
		veshibuiChainID,
		"the id of chain to generate")
	cmd.Flags().IntVar(
		&holderCnt,
		"holders",
		holderCnt,
		"the number of holder's wallet key files to be generated.\n"+
			"the first holder deploys the genesis contracts.\n"+
			"these files are saved at $VESHIBUIHOME/walkeys directory.",
	)
	cmd.Flags().IntVar(
		&privValCnt,
		"priv_validator_cnt",
		privValCnt,
		"the number of validators of the genesis.\n"+
			"the first validator's key file is created as $VESHIBUIHOME/config/priv_validator_key.json.\n"+
			"the rest are created in the $VESHIBUIHOME/config/vals directory.",
	)
	cmd.Flags().Uint64Var(
		&holderBalance,
		"holder_balance",
		holderBalance,
		"the amount of SHIBUI and SHIBUI-LP (in whole tokens) minted to each holder",
	)
}

func initFiles(cmd *cobra.Command, args []string) error {
	var s []byte

	_secret := os.Getenv("VESHIBUI_HOLDER_SECRET")
	if _secret == "" {
		s = libs.ReadCredential("Passphrase for initial holder's accounts: ")
	} else {
		s = []byte(_secret)
	}
	defer libs.ClearCredential(s)

	return InitFilesWith(veshibuiChainID, rootConfig, privValCnt, holderCnt, s)
}

func InitFilesWith(chainID string, config *cfg.Config, vcnt, hcnt int, hsecret []byte) error {
	if vcnt < 1 {
		return fmt.Errorf("wrong number of validators: %d", vcnt)
	}
	if hcnt < 1 {
		return fmt.Errorf("wrong number of holders: %d", hcnt)
	}

	privValKeyFile := config.PrivValidatorKeyFile()
	privValStateFile := config.PrivValidatorStateFile()

	valDirPath := filepath.Join(filepath.Dir(privValKeyFile), defaultValKeyDir)
	if err := tmos.EnsureDir(valDirPath, acrypto.DefaultWalletKeyDirPerm); err != nil {
		return err
	}
	if err := tmos.EnsureDir(filepath.Dir(privValStateFile), acrypto.DefaultWalletKeyDirPerm); err != nil {
		return err
	}

	var pvs []*privval.FilePV
	for i := 0; i < vcnt; i++ {
		keyFile, stateFile := privValKeyFile, privValStateFile
		if i > 0 {
			keyFile = indexedFile(valDirPath, privValKeyFile, i)
			stateFile = indexedFile(valDirPath, privValStateFile, i)
		}

		var pv *privval.FilePV
		if tmos.FileExists(keyFile) {
			pv = privval.LoadFilePV(keyFile, stateFile)
			logger.Info("Found private validator", "keyFile", keyFile, "stateFile", stateFile)
		} else {
			pv = privval.GenFilePV(keyFile, stateFile)
			pv.Save()
			logger.Info("Generated private validator", "keyFile", keyFile, "stateFile", stateFile)
		}
		pvs = append(pvs, pv)
	}

	nodeKeyFile := config.NodeKeyFile()
	if tmos.FileExists(nodeKeyFile) {
		logger.Info("Found node key", "path", nodeKeyFile)
	} else {
		if _, err := p2p.LoadOrGenNodeKey(nodeKeyFile); err != nil {
			return err
		}
		logger.Info("Generated node key", "path", nodeKeyFile)
	}

	genFile := config.GenesisFile()
	if tmos.FileExists(genFile) {
		logger.Info("Found genesis file", "path", genFile)
		return nil
	}

	walkeyDirPath := filepath.Join(config.RootDir, acrypto.DefaultWalletKeyDir)
	if err := tmos.EnsureDir(walkeyDirPath, acrypto.DefaultWalletKeyDirPerm); err != nil {
		return err
	}
	walkeys, err := acrypto.CreateWalletKeyFiles(hsecret, hcnt, walkeyDirPath)
	if err != nil {
		return err
	}
	logger.Info("Generated initial holder's wallet key files", "path", walkeyDirPath)

	var valset []tmtypes.GenesisValidator
	for _, pv := range pvs {
		pubKey, err := pv.GetPubKey()
		if err != nil {
			return fmt.Errorf("can't get pubkey: %w", err)
		}
		valset = append(valset, tmtypes.GenesisValidator{
			Address: pubKey.Address(),
			PubKey:  pubKey,
			Power:   validatorPower,
		})
	}

	holders := make([]types.Address, len(walkeys))
	for i, wk := range walkeys {
		holders[i] = wk.Address
	}
	appState := genesis.DevnetGenesisAppState(holders[0], holders, types.ToAmount(holderBalance))

	genDoc, err := genesis.NewGenesisDoc(chainID, tmtypes.DefaultConsensusParams(), valset, appState)
	if err != nil {
		return err
	}
	if err := genDoc.SaveAs(genFile); err != nil {
		return err
	}
	logger.Info("Generated genesis file", "path", genFile, "deployer", holders[0])
	return nil
}

// indexedFile returns `dir/<name><idx><ext>` for the base name of `file`.
func indexedFile(dir, file string, idx int) string {
	ext := filepath.Ext(file)
	return filepath.Join(dir, fmt.Sprintf("%s%d%s", strings.TrimSuffix(filepath.Base(file), ext), idx, ext))
}
