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

// Package mcpclient is the typed HTTP client for the mcpfsd tool server.
package mcpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"mcpfs/internal/tools"
)

// Client talks to a running mcpfsd instance.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// New creates a client for the server at baseURL.
func New(baseURL string) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Tools fetches the discovery listing.
func (c *Client) Tools(ctx context.Context) ([]tools.ToolSpec, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/mcp/tools", nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tool server unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tool listing failed with status %d", resp.StatusCode)
	}
	var specs []tools.ToolSpec
	if err := json.NewDecoder(resp.Body).Decode(&specs); err != nil {
		return nil, fmt.Errorf("invalid tool listing: %w", err)
	}
	return specs, nil
}

// Execute invokes a tool by name and returns the raw result object.
//
// A failure reported by the tool itself (path rejected, file not found,
// overwrite refused, even an unknown tool name) is data for the caller, not
// an error: the driving model decides what to do with it. Only transport and
// decoding problems surface as errors.
func (c *Client) Execute(ctx context.Context, name string, params map[string]interface{}) (json.RawMessage, error) {
	payload, err := json.Marshal(map[string]interface{}{
		"tool_name":  name,
		"parameters": params,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/mcp/execute", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tool server unreachable: %w", err)
	}
	defer resp.Body.Close()

	var envelope struct {
		ToolName string          `json:"tool_name"`
		Result   json.RawMessage `json:"result"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("invalid execute response (status %d): %w", resp.StatusCode, err)
	}
	if len(envelope.Result) == 0 {
		return nil, fmt.Errorf("execute response missing result (status %d)", resp.StatusCode)
	}
	return envelope.Result, nil
}
