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

// Package config loads the chat client configuration. The server side is
// configured entirely through flags and MCPFS_SANDBOX_DIR (see
// internal/sandbox).
package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// Chat is the mcpchat configuration.
type Chat struct {
	APIKey             string   `json:"api_key"`
	APIURL             string   `json:"api_url,omitempty"`
	Model              string   `json:"model"`
	Temperature        *float32 `json:"temperature,omitempty"`
	MaxTokens          *int     `json:"max_tokens,omitempty"`
	ServerURL          string   `json:"server_url,omitempty"`
	HistoryFile        string   `json:"history_file,omitempty"`
	CommandHistoryFile string   `json:"command_history_file,omitempty"`
	HistoryMaxMessages int      `json:"history_max_messages,omitempty"`
}

// DefaultChat returns a config with default values.
func DefaultChat() *Chat {
	return &Chat{
		Model:              "gpt-4o-mini",
		APIURL:             "https://api.openai.com/v1",
		ServerURL:          "http://localhost:5003",
		HistoryFile:        ".mcpchat_conversation_history",
		CommandHistoryFile: ".mcpchat_history",
		HistoryMaxMessages: 100,
	}
}

// LoadChat loads configuration from a JSON file, applies env overrides, and
// validates required fields. A missing file is fine; the environment alone
// can carry a full configuration.
func LoadChat(filepath string) (*Chat, error) {
	cfg := DefaultChat()

	if _, err := os.Stat(filepath); err == nil {
		data, err := os.ReadFile(filepath)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("invalid config file %s: %w", filepath, err)
		}
	}

	if val := os.Getenv("OPENAI_API_KEY"); val != "" {
		cfg.APIKey = val
	}
	if val := os.Getenv("OPENAI_API_URL"); val != "" {
		cfg.APIURL = val
	}
	if val := os.Getenv("MCPFS_SERVER_URL"); val != "" {
		cfg.ServerURL = val
	}

	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}
	if cfg.ServerURL == "" {
		cfg.ServerURL = "http://localhost:5003"
	}

	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API key is required (set api_key in the config file or OPENAI_API_KEY)")
	}

	return cfg, nil
}
