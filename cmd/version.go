package cmd

import (
	"runtime/debug"

	"github.com/spf13/cobra"
)

// buildVersion returns the module version recorded by the Go toolchain.
func buildVersion() (string, string, bool) {
	info, ok := debug.ReadBuildInfo()
	if !ok || info.Main.Version == "" {
		return "", "", false
	}

	return info.Main.Version, info.GoVersion, true
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show the version information",
		Long:  "Displays the gdshadow build version and the Go version it was built with.",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			version, goVersion, ok := buildVersion()
			if !ok {
				cmd.Println("version: unknown")
				return
			}

			cmd.Println("gdshadow version\t", version)
			cmd.Println("go version\t", goVersion)
		},
	}
}

// versionCmd represents the version command.
var versionCmd = newVersionCmd()

func init() {
	rootCmd.AddCommand(versionCmd)
}
