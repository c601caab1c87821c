package main

import (
	"os"

	"github.com/ShibuiDAO/veShibui/cmd/commands"
	"github.com/ShibuiDAO/veShibui/node"
	"github.com/tendermint/tendermint/libs/cli"
)

func main() {
	commands.RootCmd.AddCommand(
		commands.NewInitFilesCmd(),
		commands.ResetPrivValidatorCmd,
		commands.ResetAllCmd,
		commands.NewRunNodeCmd(node.NewVeShibuiNode),
		commands.ShowNodeIDCmd,
		commands.NewWalletKeyCmd(),
		commands.NewQueryCmd(),
		commands.VersionCmd,
	)

	executor := cli.PrepareBaseCmd(commands.RootCmd, "VESHIBUI", os.ExpandEnv("$HOME/.veshibui"))
	if err := executor.Execute(); err != nil {
		panic(err)
	}
}
