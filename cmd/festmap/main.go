package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/eastwood-fallfest/festmap/internal/config"
	"github.com/eastwood-fallfest/festmap/internal/logging"
	intOtel "github.com/eastwood-fallfest/festmap/internal/otel"
)

// module defs - BuildDate can be set at build time via ldflags
var (
	Version   string = "0.0.1"
	BuildDate string = "unknown"

	AppName string = "festmap"
)

// global variables
var (
	configDir string

	// SlogManager handles all slog-based logging
	SlogManager *logging.SlogManager

	// Logger is the slog logger (convenience reference)
	Logger *slog.Logger

	// OTelProvider handles OpenTelemetry
	OTelProvider *intOtel.Provider

	// LogFile receives every log line once serve has started
	LogFile *os.File

	SessionStartTime time.Time = time.Now()
)

var rootCmd = &cobra.Command{
	Use:           AppName,
	Short:         "Festival map marker server",
	Long:          `Serves the festival map: vendor and infrastructure markers, filters, dev-mode coordinate capture, snapshots and visitor preferences.`,
	Version:       fmt.Sprintf("%s (built %s)", Version, BuildDate),
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	SlogManager = logging.NewSlogManager()
	Logger = SlogManager.Logger()

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", ".",
		"directory containing "+config.FileName)
	rootCmd.PersistentFlags().String("log-level", "",
		"log level (debug, info, warn, error)")
	_ = viper.BindPFlag("logLevel", rootCmd.PersistentFlags().Lookup("log-level"))

	rootCmd.AddCommand(serveCmd, exportCmd, offsetCmd)
}

func initConfig() {
	err := config.Load(configDir)
	var notFound viper.ConfigFileNotFoundError
	switch {
	case errors.As(err, &notFound):
		Logger.Debug("No config file, using defaults", "dir", configDir)
	case err != nil:
		Logger.Warn("Failed to load config, using defaults!", "error", err)
	default:
		Logger.Debug("Loaded config", "file", viper.ConfigFileUsed())
	}
}

// setupLogging opens the session log file and routes slog to it and, when
// enabled, to OpenTelemetry. The console keeps a copy.
func setupLogging(festival string) error {
	logsDir := viper.GetString("logsDir")
	if err := os.MkdirAll(logsDir, 0755); err != nil {
		return fmt.Errorf("creating logs dir: %w", err)
	}

	path := logging.LogFilePath(logsDir, AppName, SessionStartTime)
	if _, err := os.Stat(path); err == nil {
		_ = os.Rename(path, path+".old")
	}
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	LogFile = f

	otelCfg := config.GetOTelConfig()
	OTelProvider, err = intOtel.New(intOtel.Config{
		Enabled:      otelCfg.Enabled,
		ServiceName:  otelCfg.ServiceName,
		BatchTimeout: otelCfg.BatchTimeout,
		LogWriter:    f,
		Endpoint:     otelCfg.Endpoint,
		Insecure:     otelCfg.Insecure,
		Attributes:   map[string]string{"festival": festival, "version": Version},
	})
	if err != nil {
		return fmt.Errorf("initializing OpenTelemetry: %w", err)
	}

	SlogManager.Setup(
		io.MultiWriter(os.Stdout, f),
		viper.GetString("logLevel"),
		OTelProvider.LoggerProvider(),
		logging.SessionContext(festival, nil),
	)
	Logger = SlogManager.Logger()
	Logger.Info("Log file opened", "path", path, "otel", OTelProvider.Enabled())
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
