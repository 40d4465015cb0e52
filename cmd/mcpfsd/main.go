package main

import (
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"golang.org/x/term"

	"mcpfs/internal/sandbox"
	"mcpfs/internal/server"
	"mcpfs/internal/tools"
)

var (
	sandboxDir  = flag.String("sandbox-dir", "", "Directory to use as the secure sandbox for file operations")
	listenAddr  = flag.String("listen", ":5003", "Address to listen on")
	debugMode   = flag.Bool("d", false, "Enable debug mode")
	logFile     = flag.String("log-file", "", "Log file path (stderr by default)")
	noLandlock  = flag.Bool("no-landlock", false, "Disable kernel-level confinement of the server process")
	maxFileSize = flag.Int64("max-file-size", 0, "Maximum file size in bytes for read/write (0 = unlimited)")
)

func main() {
	flag.Parse()

	logger := initLogger(*debugMode, *logFile)

	dir, err := sandbox.ResolveDir(*sandboxDir)
	if err != nil {
		logger.Fatal().Err(err).Msg("Could not determine sandbox directory")
	}
	root, err := sandbox.EnsureRoot(dir)
	if err != nil {
		logger.Fatal().Err(err).Str("dir", dir).Msg("Sandbox directory is unusable")
	}
	logger.Info().Str("root", root).Msg("Sandbox configured; all tool paths are relative to this directory")

	if !*noLandlock {
		if err := sandbox.Confine(root); err != nil {
			logger.Warn().Err(err).Msg("Kernel-level confinement unavailable, relying on path checks only")
		} else if sandbox.ConfineSupported() {
			logger.Info().Msg("Process confined to sandbox root via landlock")
		}
	}

	executor := tools.NewExecutor(root, tools.Limits{MaxFileSizeBytes: *maxFileSize})
	executor.Logger = logger

	srv := server.New(executor, *listenAddr, logger)

	done := make(chan os.Signal, 1)
	signal.Notify(done, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-done
		logger.Info().Msg("Shutting down")
		if err := srv.Stop(); err != nil {
			logger.Error().Err(err).Msg("Shutdown failed")
		}
	}()

	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal().Err(err).Msg("Server failed")
	}
	logger.Info().Msg("Server stopped")
}

func initLogger(debug bool, logFilePath string) zerolog.Logger {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	if logFilePath != "" {
		file, err := os.OpenFile(logFilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			// Logger isn't up yet; nothing better than stderr here.
			stderrLogger := zerolog.New(os.Stderr)
			stderrLogger.Fatal().Err(err).Msg("Failed to open log file")
		}
		return zerolog.New(file).With().Timestamp().Logger()
	}

	if term.IsTerminal(int(os.Stderr.Fd())) {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stderr).With().Timestamp().Logger()
}
