package commands

import (
	"fmt"

	"github.com/ShibuiDAO/veShibui/cmd/version"
	"github.com/spf13/cobra"
)

// VersionCmd prints the version of the node.
var VersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version info",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version.String())
	},
}
