// Copyright (C) 2025 Dyne.org foundation
// designed, written and maintained by Denis Roio <jaromil@dyne.org>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package main

import (
	"fmt"
	"strings"

	"github.com/chzyer/readline"
	"github.com/rs/zerolog"
	"github.com/sashabaranov/go-openai"

	"mcpfs/internal/chat"
)

// Command represents a slash command.
type Command struct {
	Name        string
	Description string
}

func getAvailableCommands() []Command {
	return []Command{
		{Name: "help", Description: "Show available commands"},
		{Name: "tools", Description: "List the tools offered by the server"},
		{Name: "clear", Description: "Clear conversation history"},
		{Name: "history", Description: "Display conversation history"},
		{Name: "quit", Description: "Exit the application"},
		{Name: "exit", Description: "Exit the application"},
	}
}

func getCommandCompleter() *readline.PrefixCompleter {
	commands := getAvailableCommands()
	items := make([]readline.PrefixCompleterInterface, len(commands))
	for i, cmd := range commands {
		items[i] = readline.PcItem("/" + cmd.Name)
	}
	return readline.NewPrefixCompleter(items...)
}

// handleCommand processes slash commands, returns true if the REPL should
// quit.
func handleCommand(input string, session *chat.Session, logger zerolog.Logger) bool {
	cmdName := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(input, "/")))

	logger.Debug().Str("command", cmdName).Msg("Executing command")

	switch cmdName {
	case "help":
		showHelp()
	case "tools":
		fmt.Printf("Available tools: %s\n", strings.Join(session.ToolNames(), ", "))
	case "clear":
		session.ClearHistory()
		fmt.Println("✓ Conversation history cleared")
	case "history":
		showHistory(session)
	case "quit", "exit":
		return true
	default:
		fmt.Printf("✗ Unknown command: /%s (type /help for available commands)\n", cmdName)
	}
	return false
}

func showHelp() {
	fmt.Println("\nAvailable Commands:")
	seen := make(map[string]bool)
	for _, cmd := range getAvailableCommands() {
		if seen[cmd.Name] {
			continue
		}
		seen[cmd.Name] = true
		fmt.Printf("  /%-10s %s\n", cmd.Name, cmd.Description)
	}
	fmt.Println()
}

func showHistory(session *chat.Session) {
	history := session.GetHistory()
	if len(history) == 0 {
		fmt.Println("No conversation history yet")
		return
	}
	fmt.Println("--- Conversation History ---")
	for _, msg := range history {
		role := "Unknown"
		switch msg.Role {
		case openai.ChatMessageRoleUser:
			role = "User"
		case openai.ChatMessageRoleAssistant:
			role = "Assistant"
		case openai.ChatMessageRoleTool:
			role = "Tool"
		}
		fmt.Printf("%s: %s\n", role, msg.Content)
	}
	fmt.Println("--- End History ---")
}
