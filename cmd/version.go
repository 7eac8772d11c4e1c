package cmd

import (
	"runtime/debug"

	"github.com/spf13/cobra"

	"srcpatch.dev/pkg/srcpatch/internal/adapter"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show the version information",
		Long:  "Displays the build version, the recipe format version and the Go version used to build srcpatch.",
		Run: func(cmd *cobra.Command, _ []string) {
			info, ok := debug.ReadBuildInfo()
			if !ok || info.Main.Version == "" {
				cmd.Println("version: unknown")
				return
			}

			cmd.Println("srcpatch version\t", info.Main.Version)
			cmd.Println("recipe version\t", adapter.CurrentRecipeVersion)
			cmd.Println("go version\t", info.GoVersion)
		},
	}
}

// versionCmd represents the version command.
var versionCmd = newVersionCmd()

func init() {
	rootCmd.AddCommand(versionCmd)
}
