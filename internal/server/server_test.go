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

package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"mcpfs/internal/tools"
)

func newTestServer(t *testing.T) (*Server, string) {
	t.Helper()
	root, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatalf("failed to canonicalize temp dir: %v", err)
	}
	executor := tools.NewExecutor(root, tools.Limits{})
	return New(executor, ":0", zerolog.Nop()), root
}

func execute(t *testing.T, s *Server, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/mcp/execute", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp struct {
		ToolName string                 `json:"tool_name"`
		Result   map[string]interface{} `json:"result"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response JSON: %v: %s", err, rec.Body.String())
	}
	return resp.Result
}

func TestToolsEndpoint(t *testing.T) {
	s, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/mcp/tools", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var specs []tools.ToolSpec
	if err := json.Unmarshal(rec.Body.Bytes(), &specs); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(specs) != 3 {
		t.Fatalf("expected 3 tools, got %d", len(specs))
	}
}

func TestExecuteScenario(t *testing.T) {
	s, _ := newTestServer(t)

	rec := execute(t, s, `{"tool_name":"write_file","parameters":{"path":"notes.txt","content":"hello"}}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("write status = %d, want 200", rec.Code)
	}
	if result := decodeResponse(t, rec); result["success"] != true {
		t.Fatalf("write result: %v", result)
	}

	rec = execute(t, s, `{"tool_name":"read_file","parameters":{"path":"notes.txt"}}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("read status = %d, want 200", rec.Code)
	}
	if result := decodeResponse(t, rec); result["content"] != "hello" {
		t.Fatalf("read result: %v", result)
	}

	rec = execute(t, s, `{"tool_name":"list_directory","parameters":{}}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d, want 200", rec.Code)
	}
	result := decodeResponse(t, rec)
	items, ok := result["items"].([]interface{})
	if !ok || len(items) != 1 || items[0] != "notes.txt" {
		t.Fatalf("list result: %v", result)
	}
}

func TestExecuteWriteFailureStays200(t *testing.T) {
	s, _ := newTestServer(t)

	execute(t, s, `{"tool_name":"write_file","parameters":{"path":"f.txt","content":"a"}}`)
	rec := execute(t, s, `{"tool_name":"write_file","parameters":{"path":"f.txt","content":"b"}}`)

	// A refused write is a successful execution of the tool request; the
	// caller branches on the success flag, not the status code.
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	result := decodeResponse(t, rec)
	if result["success"] != false {
		t.Fatalf("expected success=false, got %v", result)
	}
}

func TestExecuteReadFailureIs400(t *testing.T) {
	s, _ := newTestServer(t)

	rec := execute(t, s, `{"tool_name":"read_file","parameters":{"path":"missing.txt"}}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	result := decodeResponse(t, rec)
	if _, ok := result["error"]; !ok {
		t.Fatalf("expected error in result, got %v", result)
	}
}

func TestExecuteTraversalRejected(t *testing.T) {
	s, _ := newTestServer(t)

	rec := execute(t, s, `{"tool_name":"read_file","parameters":{"path":"../../etc/passwd"}}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestExecuteUnknownTool(t *testing.T) {
	s, _ := newTestServer(t)

	rec := execute(t, s, `{"tool_name":"delete_everything","parameters":{}}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestExecuteMalformedBody(t *testing.T) {
	s, _ := newTestServer(t)

	rec := execute(t, s, `{"tool_name": `)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}
