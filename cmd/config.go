package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/natefinch/lumberjack.v2"

	"gdshadow.dev/pkg/gdshadow/internal/controller"
	"gdshadow.dev/pkg/gdshadow/internal/domain"
)

const (
	configVersionKey     = "version"
	currentConfigVersion = 1

	configBaseName   = "gdshadow"
	configFileName   = configBaseName + ".yaml"
	configFolderPath = "."

	rootFlagName      = "root"
	dirFlagName       = "dir"
	extFlagName       = "ext"
	excludeFlagName   = "exclude"
	seedFlagName      = "seed"
	kindFlagName      = "kind"
	removableFlagName = "removable"
	parallelFlagName  = "parallel"
	formatFlagName    = "format"
	verboseFlagName   = "verbose"
	logFileFlagName   = "log-file"

	projectRootKey   = "project.root"
	scanDirsKey      = "scan.dirs"
	scanExtensionKey = "scan.extension"
	scanParallelKey  = "scan.parallel"
	excludeConfigKey = "paths.exclude"
	symbolsSeedKey   = "symbols.seed"
	classifyKindsKey = "classify.kinds"
	fixRemovableKey  = "fix.removable"
	restoreRefKey    = "restore.ref"
	reportFormatKey  = "report.format"

	defaultScanParallel = 1
	defaultReportFormat = string(controller.FormatText)

	envPrefix = "GDSHADOW"

	logFilenameKey   = "log.filename"
	logLevelKey      = "log.level"
	logVerboseKey    = "log.verbose"
	logMaxSizeKey    = "log.max_size"
	logMaxBackupsKey = "log.max_backups"
	logMaxAgeKey     = "log.max_age"
	logCompressKey   = "log.compress"

	defaultLogFilename   = ".gdshadow.log"
	defaultLogLevel      = int(slog.LevelInfo)
	defaultLogVerbose    = false
	defaultLogMaxSize    = 10
	defaultLogMaxBackups = 3
	defaultLogMaxAge     = 28
	defaultLogCompress   = true
)

// defaultScanDirs are the directories holding scripts in a typical project.
var defaultScanDirs = []string{"scripts/", "tests/"}

var globalLogger *slog.Logger

// configLoadErr is set when gdshadow.yaml exists but cannot be used. Commands
// refuse to run while it is set.
var configLoadErr error

func init() {
	// A missing .env is the common case.
	_ = godotenv.Load()

	viper.SetConfigName(configBaseName)
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configFolderPath)
	viper.SetConfigFile(filepath.Join(configFolderPath, configFileName))
	viper.AutomaticEnv()
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	viper.SetDefault(configVersionKey, currentConfigVersion)
	viper.SetDefault(projectRootKey, "")
	viper.SetDefault(scanDirsKey, defaultScanDirs)
	viper.SetDefault(scanExtensionKey, domain.DefaultScriptExtension)
	viper.SetDefault(scanParallelKey, defaultScanParallel)
	viper.SetDefault(excludeConfigKey, []string{})
	viper.SetDefault(symbolsSeedKey, []string{})
	viper.SetDefault(classifyKindsKey, domain.DefaultKindEntries)
	viper.SetDefault(fixRemovableKey, domain.DefaultRemovableKinds)
	viper.SetDefault(restoreRefKey, domain.DefaultRestoreRef)
	viper.SetDefault(reportFormatKey, defaultReportFormat)

	// Logging defaults (used by config/env and as fallbacks for flags).
	viper.SetDefault(logFilenameKey, defaultLogFilename)
	viper.SetDefault(logLevelKey, defaultLogLevel)
	viper.SetDefault(logVerboseKey, defaultLogVerbose)
	viper.SetDefault(logMaxSizeKey, defaultLogMaxSize)
	viper.SetDefault(logMaxBackupsKey, defaultLogMaxBackups)
	viper.SetDefault(logMaxAgeKey, defaultLogMaxAge)
	viper.SetDefault(logCompressKey, defaultLogCompress)

	configLoadErr = readConfig()
}

// readConfig merges gdshadow.yaml into viper. A missing file is not an error.
func readConfig() error {
	err := viper.ReadInConfig()
	if err == nil {
		return nil
	}

	var notFound viper.ConfigFileNotFoundError
	if errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist) {
		return nil
	}

	return fmt.Errorf("read config %s: %w", configFileName, err)
}

func parseSlogLevel(value string, defaultLevel slog.Level) slog.Level {
	level := strings.ToLower(strings.TrimSpace(value))
	if level == "" {
		return defaultLevel
	}

	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}

	// Allow numeric slog levels as well (e.g. -4 for debug).
	if n, err := strconv.Atoi(level); err == nil {
		return slog.Level(n)
	}

	return defaultLevel
}

// configureLogger configures the global slog logger.
//
// By default it logs at Info; if verbose is true it logs at Debug.
func configureLogger(logPath string, verbose bool) {
	if strings.TrimSpace(logPath) == "" {
		logPath = defaultLogFilename
	}

	var logLevel slog.Level
	if verbose {
		logLevel = slog.LevelDebug
	} else {
		logLevel = parseSlogLevel(viper.GetString(logLevelKey), slog.LevelInfo)
	}

	logWriter := &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    viper.GetInt(logMaxSizeKey),
		MaxBackups: viper.GetInt(logMaxBackupsKey),
		MaxAge:     viper.GetInt(logMaxAgeKey),
		Compress:   viper.GetBool(logCompressKey),
	}

	handler := slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		AddSource: true,
		Level:     logLevel,
	})

	globalLogger = slog.New(handler)
	slog.SetDefault(globalLogger)
}
