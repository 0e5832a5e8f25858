// Package cmd provides the root command and CLI setup for gdshadow.
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"gdshadow.dev/pkg/gdshadow/internal/adapter"
	"gdshadow.dev/pkg/gdshadow/internal/controller"
	"gdshadow.dev/pkg/gdshadow/internal/domain"
	m "gdshadow.dev/pkg/gdshadow/internal/model"
)

var fsAdapter adapter.SourceFSAdapter
var gitAdapter adapter.GitAdapter
var watchAdapter adapter.WatchAdapter
var scanner domain.Scanner
var fixer domain.Fixer
var restorer domain.Restorer
var workflow domain.Workflow
var ui controller.UI

// Root-level flags shared by every command.
var (
	rootDirFlag     string
	scanDirsFlag    []string
	extensionFlag   string
	excludePatterns []string
	seedNames       []string
	kindEntries     []string
	removableKinds  []string
	parallelFlag    int
	formatFlag      string
	verboseFlag     bool
	logFilenameFlag string
)

func init() {
	// Initialize shared dependencies.
	ui = controller.NewUI(rootCmd, controller.IsTTY(os.Stdout))
	fsAdapter = adapter.NewLocalSourceFSAdapter()
	gitAdapter = adapter.NewLocalGitAdapter()
	watchAdapter = adapter.NewFSNotifyWatchAdapter()
	scanner = domain.NewScanner(fsAdapter)
	fixer = domain.NewFixer(fsAdapter, scanner)
	restorer = domain.NewRestorer(gitAdapter)
	workflow = domain.NewWorkflow(
		watchAdapter,
		ui,
		scanner,
		fixer,
		restorer,
	)
}

const scanScopeHelp = `Scripts are collected from the scan directories (--dir, default scripts/
and tests/) under the project root. The root is the nearest directory
containing project.godot unless --root is given.`

const rootLongDescription = `gdshadow finds GDScript const preloads that shadow a global class_name.

A line such as

  const Player := preload("res://scripts/player.gd")

is redundant when player.gd already declares "class_name Player", and it
hides the global binding. Preloads of resource or scene instances
(.tres, .tscn, ...) are reported but never removed.

` + scanScopeHelp

// rootCmd represents the base command when called without any subcommands.
var rootCmd = newRootCmd()

func baseRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "gdshadow",
		Short: "Detect and remove const preloads shadowing global classes",
		Long:  rootLongDescription,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			configureLogger(viper.GetString(logFilenameKey), viper.GetBool(logVerboseKey))

			cmd.SilenceUsage = true

			if configLoadErr != nil {
				slog.Error("invalid configuration", "error", configLoadErr)
				return configLoadErr
			}

			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
}

func newRootCmd() *cobra.Command {
	cmd := baseRootCmd()
	configureRootFlags(cmd)

	return cmd
}

func configureRootFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()

	flags.StringVar(&rootDirFlag, rootFlagName, "", "project root (default: nearest directory containing project.godot)")
	bindFlagToConfig(flags.Lookup(rootFlagName), projectRootKey)

	flags.StringArrayVar(&scanDirsFlag, dirFlagName, defaultScanDirs, "scan directory or glob relative to the root (can be repeated)")
	bindFlagToConfig(flags.Lookup(dirFlagName), scanDirsKey)

	flags.StringVar(&extensionFlag, extFlagName, domain.DefaultScriptExtension, "extension of the script files to scan")
	bindFlagToConfig(flags.Lookup(extFlagName), scanExtensionKey)

	flags.StringArrayVarP(&excludePatterns, excludeFlagName, "x", nil, "exclude files matching regex (can be repeated)")
	bindFlagToConfig(flags.Lookup(excludeFlagName), excludeConfigKey)

	flags.StringArrayVar(&seedNames, seedFlagName, nil, "additional global symbol name, e.g. an autoload (can be repeated)")
	bindFlagToConfig(flags.Lookup(seedFlagName), symbolsSeedKey)

	flags.StringArrayVar(&kindEntries, kindFlagName, nil, "classification entry ext=kind, replaces the default table (can be repeated)")
	bindFlagToConfig(flags.Lookup(kindFlagName), classifyKindsKey)

	flags.StringArrayVar(&removableKinds, removableFlagName, domain.DefaultRemovableKinds, "artifact kind that a fix may remove (can be repeated)")
	bindFlagToConfig(flags.Lookup(removableFlagName), fixRemovableKey)

	flags.IntVarP(&parallelFlag, parallelFlagName, "p", defaultScanParallel, "number of files read in parallel")
	bindFlagToConfig(flags.Lookup(parallelFlagName), scanParallelKey)

	flags.StringVarP(&formatFlag, formatFlagName, "f", defaultReportFormat, "output format: text or yaml")
	bindFlagToConfig(flags.Lookup(formatFlagName), reportFormatKey)

	flags.BoolVarP(&verboseFlag, verboseFlagName, "v", defaultLogVerbose, "log at debug level")
	bindFlagToConfig(flags.Lookup(verboseFlagName), logVerboseKey)

	flags.StringVar(&logFilenameFlag, logFileFlagName, defaultLogFilename, "log file path")
	bindFlagToConfig(flags.Lookup(logFileFlagName), logFilenameKey)
}

// bindFlagToConfig wires a Cobra flag to a Viper key so config/env values feed the flag.
func bindFlagToConfig(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}

	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

// resolveProjectRoot returns the configured root, or the nearest ancestor of
// the working directory that holds project.godot.
func resolveProjectRoot(ctx context.Context) (m.Path, error) {
	if configured := strings.TrimSpace(viper.GetString(projectRootKey)); configured != "" {
		return m.Path(configured), nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("working directory: %w", err)
	}

	root, err := fsAdapter.FindProjectRoot(ctx, m.Path(cwd))
	if err != nil {
		slog.Warn("project marker not found, using working directory", "cwd", cwd, "error", err)
		return m.Path(cwd), nil
	}

	return root, nil
}

func classifierFromConfig() (*domain.Classifier, error) {
	classifier, err := domain.NewClassifier(viper.GetStringSlice(classifyKindsKey), viper.GetStringSlice(fixRemovableKey))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", classifyKindsKey, err)
	}

	return classifier, nil
}

func scanArgsFromConfig(ctx context.Context) (domain.ScanArgs, error) {
	root, err := resolveProjectRoot(ctx)
	if err != nil {
		return domain.ScanArgs{}, err
	}

	classifier, err := classifierFromConfig()
	if err != nil {
		return domain.ScanArgs{}, err
	}

	return domain.ScanArgs{
		SourceArgs: domain.SourceArgs{
			Root:      root,
			Dirs:      viper.GetStringSlice(scanDirsKey),
			Extension: viper.GetString(scanExtensionKey),
			Exclude:   viper.GetStringSlice(excludeConfigKey),
			Threads:   viper.GetInt(scanParallelKey),
		},
		Seeds:      viper.GetStringSlice(symbolsSeedKey),
		Classifier: classifier,
	}, nil
}

func outputFormat() (controller.Format, error) {
	return controller.ParseFormat(viper.GetString(reportFormatKey))
}
