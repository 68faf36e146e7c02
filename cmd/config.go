package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/natefinch/lumberjack.v2"

	"conform.dev/pkg/conform/internal/domain"
)

const (
	configVersionKey     = "version"
	currentConfigVersion = 1

	configBaseName   = "conform"
	configFileName   = configBaseName + ".yaml"
	configFolderPath = "."

	debugFlagName      = "debug"
	filterFlagName     = "filter"
	detailFlagName     = "detail"
	diffFlagName       = "diff"
	acceptFlagName     = "accept"
	parallelFlagName   = "parallel"
	corpusRootFlagName = "corpus-root"
	snapshotsFlagName  = "snapshots"

	corpusRootKey          = "corpus.root"
	snapshotsDirKey        = "snapshots.dir"
	runParallelKey         = "run.parallel"
	runStagesKey           = "run.stages"
	corporaKey             = "corpora"
	transformTargetKey     = "transform.target"
	runtimeCommandKey      = "runtime.command"
	runtimeScriptKey       = "runtime.script"
	runtimeAddrKey         = "runtime.addr"
	runtimeTimeoutKey      = "runtime.timeout"
	runtimeReadyTimeoutKey = "runtime.ready_timeout"

	defaultCorpusRoot          = "."
	defaultSnapshotsDir        = "snapshots"
	defaultRunParallel         = 0
	defaultTransformTarget     = "es2015"
	defaultRuntimeCommand      = "node --experimental-vm-modules"
	defaultRuntimeScript       = "runtime.js"
	defaultRuntimeAddr         = "http://127.0.0.1:32055"
	defaultRuntimeTimeout      = 10
	defaultRuntimeReadyTimeout = 30

	envPrefix = "CONFORM"
	envFile   = ".env"

	logFilenameKey   = "log.filename"
	logLevelKey      = "log.level"
	logMaxSizeKey    = "log.max_size"
	logMaxBackupsKey = "log.max_backups"
	logMaxAgeKey     = "log.max_age"
	logCompressKey   = "log.compress"

	defaultLogFilename   = ".conform.log"
	defaultLogLevel      = "info"
	defaultLogMaxSize    = 10
	defaultLogMaxBackups = 3
	defaultLogMaxAge     = 28
	defaultLogCompress   = true
)

var globalLogger *slog.Logger

func init() {
	// A missing .env is the common case.
	_ = godotenv.Load(envFile)

	viper.SetConfigName(configBaseName)
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configFolderPath)
	viper.SetConfigFile(filepath.Join(configFolderPath, configFileName))
	viper.AutomaticEnv()
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	viper.SetDefault(configVersionKey, currentConfigVersion)
	viper.SetDefault(corpusRootKey, defaultCorpusRoot)
	viper.SetDefault(snapshotsDirKey, defaultSnapshotsDir)
	viper.SetDefault(runParallelKey, defaultRunParallel)
	viper.SetDefault(runStagesKey, []string{})
	viper.SetDefault(corporaKey, map[string]any{})
	viper.SetDefault(transformTargetKey, defaultTransformTarget)
	viper.SetDefault(runtimeCommandKey, defaultRuntimeCommand)
	viper.SetDefault(runtimeScriptKey, defaultRuntimeScript)
	viper.SetDefault(runtimeAddrKey, defaultRuntimeAddr)
	viper.SetDefault(runtimeTimeoutKey, defaultRuntimeTimeout)
	viper.SetDefault(runtimeReadyTimeoutKey, defaultRuntimeReadyTimeout)

	viper.SetDefault(logFilenameKey, defaultLogFilename)
	viper.SetDefault(logLevelKey, defaultLogLevel)
	viper.SetDefault(logMaxSizeKey, defaultLogMaxSize)
	viper.SetDefault(logMaxBackupsKey, defaultLogMaxBackups)
	viper.SetDefault(logMaxAgeKey, defaultLogMaxAge)
	viper.SetDefault(logCompressKey, defaultLogCompress)

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return
		}

		return
	}
}

// corpusConfigs decodes the per-corpus skip and expect_fail lists.
func corpusConfigs() (map[string]domain.CorpusConfig, error) {
	configs := map[string]domain.CorpusConfig{}
	if err := viper.UnmarshalKey(corporaKey, &configs); err != nil {
		return nil, fmt.Errorf("invalid %q configuration: %w", corporaKey, err)
	}

	return configs, nil
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
// It logs at the configured level; if verbose is true it logs at Debug.
func configureLogger(logPath string, verbose bool) {
	if strings.TrimSpace(logPath) == "" {
		logPath = viper.GetString(logFilenameKey)
	}

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
