package cmd

import (
	"github.com/spf13/cobra"

	"gdshadow.dev/pkg/gdshadow/internal/domain"
)

const (
	dryRunFlagName = "dry-run"
	diffFlagName   = "diff"
)

var dryRunFlag bool
var diffFlag bool

const fixLongDescription = `Delete every const preload that shadows a global class_name and loads a
removable kind (scripts by default). Preloads of resource or scene instances
are kept. All other bytes of each file, line endings included, are left as
they were.

Use --dry-run to print the removals without writing, and --diff to include
a unified diff per file. Commit your work before a live run.

` + scanScopeHelp

// fixCmd represents the fix command.
var fixCmd = newFixCmd()

func newFixCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fix",
		Short: "Remove redundant const preloads",
		Long:  fixLongDescription,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			scanArgs, err := scanArgsFromConfig(cmd.Context())
			if err != nil {
				return err
			}

			format, err := outputFormat()
			if err != nil {
				return err
			}

			return workflow.Fix(cmd.Context(), domain.FixRunArgs{
				FixArgs: domain.FixArgs{
					ScanArgs: scanArgs,
					DryRun:   dryRunFlag,
					WithDiff: diffFlag,
				},
				Format: format,
			})
		},
	}

	configureFixFlags(cmd)

	return cmd
}

func init() {
	rootCmd.AddCommand(fixCmd)
}

func configureFixFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVarP(&dryRunFlag, dryRunFlagName, "n", false, "show what would be removed without writing files")
	cmd.Flags().BoolVar(&diffFlag, diffFlagName, false, "include a unified diff for every changed file")
}
