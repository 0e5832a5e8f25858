package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"gdshadow.dev/pkg/gdshadow/internal/domain"
)

const restoreLongDescription = `Inspect the diff of a commit (default HEAD) and list the const preloads it
removed that load a kind a fix must keep, such as .tres or .tscn instances.
These lines were removed in error and should be put back.

The command only reports; it never edits files or history.`

// restoreCmd represents the restore command.
var restoreCmd = newRestoreCmd()

func newRestoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "restore [ref]",
		Aliases: []string{"restore-from-history"},
		Short:   "List preserved preloads removed by a commit",
		Long:    restoreLongDescription,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref := viper.GetString(restoreRefKey)
			if len(args) == 1 {
				ref = args[0]
			}

			root, err := resolveProjectRoot(cmd.Context())
			if err != nil {
				return err
			}

			classifier, err := classifierFromConfig()
			if err != nil {
				return err
			}

			format, err := outputFormat()
			if err != nil {
				return err
			}

			return workflow.Restore(cmd.Context(), domain.RestoreRunArgs{
				RestoreArgs: domain.RestoreArgs{
					Root:       root,
					Ref:        ref,
					Extension:  viper.GetString(scanExtensionKey),
					Classifier: classifier,
				},
				Format: format,
			})
		},
	}
}

func init() {
	rootCmd.AddCommand(restoreCmd)
}
