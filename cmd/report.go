package cmd

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"gdshadow.dev/pkg/gdshadow/internal/domain"
)

const (
	failOnMatchFlagName = "fail-on-match"
	interactiveFlagName = "interactive"
	watchFlagName       = "watch"
	debounceFlagName    = "debounce"

	defaultDebounce = 250 * time.Millisecond
)

var failOnMatchFlag bool
var interactiveFlag bool
var watchFlag bool
var debounceFlag time.Duration

const reportLongDescription = `Report every const preload whose name is a global class_name, grouped by
file with line numbers. Files are never modified.

Each match is marked "remove" when the loaded path is a script (the local
constant is equivalent to the global class) or "keep" when it loads a
resource or scene instance.

` + scanScopeHelp

// reportCmd represents the report command.
var reportCmd = newReportCmd()

func newReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Report const preloads that shadow a global class",
		Long:  reportLongDescription,
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

			args := domain.ReportArgs{
				ScanArgs:    scanArgs,
				Format:      format,
				FailOnMatch: failOnMatchFlag,
				Interactive: interactiveFlag,
			}

			if !watchFlag {
				return workflow.Report(cmd.Context(), args)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return workflow.Watch(ctx, domain.WatchArgs{ReportArgs: args, Debounce: debounceFlag})
		},
	}

	configureReportFlags(cmd)

	return cmd
}

func init() {
	rootCmd.AddCommand(reportCmd)
}

func configureReportFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&failOnMatchFlag, failOnMatchFlagName, false, "exit non-zero when any match is found")
	cmd.Flags().BoolVarP(&interactiveFlag, interactiveFlagName, "i", false, "open the report in a scrollable pager (terminal only)")
	cmd.Flags().BoolVarP(&watchFlag, watchFlagName, "w", false, "rescan whenever a file under the scan directories changes")
	cmd.Flags().DurationVar(&debounceFlag, debounceFlagName, defaultDebounce, "quiet period before a rescan in watch mode")
	cmd.MarkFlagsMutuallyExclusive(interactiveFlagName, watchFlagName)
}
