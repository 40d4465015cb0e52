package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/rs/zerolog"
	"golang.org/x/term"

	"mcpfs/internal/chat"
	"mcpfs/internal/config"
)

var (
	configFile = flag.String("config", "config.json", "Path to the configuration file")
	debugMode  = flag.Bool("d", false, "Enable debug mode")
	logFile    = flag.String("log-file", "", "Log file path (logs disabled by default)")
)

func main() {
	flag.Parse()

	logger := initLogger(*debugMode, *logFile)
	logger.Info().Msg("mcpchat starting")

	cfg, err := config.LoadChat(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}

	session, err := chat.NewSession(context.Background(), cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Could not reach the tool server at %s: %v\n", cfg.ServerURL, err)
		os.Exit(1)
	}
	session.Logger = logger

	if err := session.LoadConversationHistory(cfg.HistoryFile, cfg.HistoryMaxMessages); err != nil {
		logger.Warn().Err(err).Msg("Could not load conversation history")
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "❯ ",
		HistoryFile:     cfg.CommandHistoryFile,
		AutoComplete:    getCommandCompleter(),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize readline")
	}
	defer rl.Close()

	fmt.Println("mcpchat — sandboxed filesystem assistant")
	fmt.Printf("Tool server: %s\n", cfg.ServerURL)
	fmt.Printf("Model in use: %s\n", cfg.Model)
	fmt.Printf("Tools: %s\n", strings.Join(session.ToolNames(), ", "))
	fmt.Println("Type /help for commands, Ctrl+C or /quit to exit")
	fmt.Println()

	for {
		line, err := rl.Readline()
		if err != nil {
			logger.Debug().Msg("Readline interrupted")
			break
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "/") {
			if handleCommand(line, session, logger) {
				break
			}
			continue
		}

		handleConversation(line, session, cfg, logger)
	}

	if err := session.SaveConversationHistory(cfg.HistoryFile); err != nil {
		logger.Warn().Err(err).Msg("Could not save conversation history")
	}
	logger.Info().Msg("Session ended")
}

func handleConversation(line string, session *chat.Session, cfg *config.Chat, logger zerolog.Logger) {
	logger.Info().Str("user_input", line).Msg("User input received")

	response, err := session.GetResponseWithContext(context.Background(), line)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	fmt.Printf("Assistant: %s\n\n", response)

	if err := session.SaveConversationHistory(cfg.HistoryFile); err != nil {
		logger.Warn().Err(err).Msg("Could not save conversation history")
	}
}

func initLogger(debug bool, logFilePath string) zerolog.Logger {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	var output io.Writer
	switch {
	case logFilePath != "":
		file, err := os.OpenFile(logFilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open log file: %v\n", err)
			os.Exit(1)
		}
		output = file
	case debug && term.IsTerminal(int(os.Stderr.Fd())):
		output = zerolog.ConsoleWriter{Out: os.Stderr}
	case debug:
		output = os.Stderr
	default:
		// Keep the REPL clean by default.
		output = io.Discard
	}

	return zerolog.New(output).With().Timestamp().Logger()
}
