package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	"toolhost/internal/calc"
	"toolhost/internal/clock"
	"toolhost/internal/config"
	"toolhost/internal/files"
	"toolhost/internal/tools"
	"toolhost/internal/web"
)

var (
	debugMode   = flag.Bool("d", false, "Enable debug mode")
	logFile     = flag.String("log-file", "", "Log file path (logs disabled by default)")
	configPath  = flag.String("config", "config.json", "Configuration file path")
	sandboxRoot = flag.String("root", "", "Sandbox root directory for the file tool (default: current directory)")
)

func main() {
	flag.Parse()

	logger := initLogger(*debugMode, *logFile)
	zlog.Logger = logger
	logger.Info().Msg("toolhost starting")

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		logger.Error().Err(err).Msg("failed to load config")
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	for _, warning := range cfg.Validate() {
		logger.Warn().Str("field", warning.Field).Msg(warning.Message)
	}

	root := cfg.SandboxRoot
	if *sandboxRoot != "" {
		root = *sandboxRoot
	}
	if root == "" {
		root = "."
	}

	registry, err := buildRegistry(cfg, root)
	if err != nil {
		logger.Error().Err(err).Msg("failed to build tool registry")
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	logger.Debug().Strs("tools", registry.Names()).Str("sandbox", root).Msg("registry ready")

	args := flag.Args()
	if len(args) > 0 && args[0] == "-" {
		runBatchMode(logger, cfg, registry)
		return
	}

	runREPL(logger, cfg, registry)
}

func buildRegistry(cfg *config.Config, root string) (*tools.Registry, error) {
	accessor, err := files.NewAccessorWithLimits(root, cfg.FileLimitsConfig())
	if err != nil {
		return nil, err
	}
	fetcher := web.NewFetcher(
		web.WithTimeout(cfg.WebTimeout()),
		web.WithPrivateHosts(cfg.AllowPrivateHosts),
	)
	return tools.NewRegistry(calc.NewEvaluator(), accessor, fetcher, clock.NewClock()), nil
}

func initLogger(debug bool, logFilePath string) zerolog.Logger {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	var output io.Writer
	if logFilePath != "" {
		file, err := os.OpenFile(logFilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			log.Fatalf("Failed to open log file: %v", err)
		}
		output = file
	} else {
		output = io.Discard
	}

	return zerolog.New(output).With().Timestamp().Logger()
}
