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

// Package server is the HTTP dispatch shell around the tool executor.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/rs/zerolog"

	"mcpfs/internal/tools"
)

// ExecuteRequest is the wire shape of a tool invocation.
type ExecuteRequest struct {
	ToolName   string                 `json:"tool_name"`
	Parameters map[string]interface{} `json:"parameters"`
}

// ExecuteResponse is the wire shape of a tool outcome.
type ExecuteResponse struct {
	ToolName string      `json:"tool_name"`
	Result   interface{} `json:"result"`
}

// Server exposes the tool executor over HTTP.
type Server struct {
	executor *tools.Executor
	logger   zerolog.Logger
	router   *httprouter.Router
	server   *http.Server
	addr     string
}

// New creates a server for the given executor, listening on addr when
// started.
func New(executor *tools.Executor, addr string, logger zerolog.Logger) *Server {
	s := &Server{
		executor: executor,
		logger:   logger,
		router:   httprouter.New(),
		addr:     addr,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handleHealth)
	s.router.GET("/mcp/tools", s.handleTools)
	s.router.POST("/mcp/execute", s.handleExecute)
}

// Handler returns the underlying HTTP handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start begins serving and blocks until the listener closes.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:    s.addr,
		Handler: s.router,
	}
	s.logger.Info().Str("addr", s.addr).Msg("server listening")
	return s.server.ListenAndServe()
}

// Stop drains in-flight requests and shuts the server down.
func (s *Server) Stop() error {
	if s.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleTools(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	writeJSON(w, http.StatusOK, tools.Metadata())
}

func (s *Server) handleExecute(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	start := time.Now()

	var req ExecuteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.logger.Warn().Err(err).Msg("malformed execute request")
		writeJSON(w, http.StatusBadRequest, ExecuteResponse{
			ToolName: req.ToolName,
			Result:   map[string]string{"error": "invalid request body: " + err.Error()},
		})
		return
	}

	result, known := s.executor.ExecuteNamed(req.ToolName, req.Parameters)
	if !known {
		s.logger.Warn().Str("tool", req.ToolName).Msg("unknown tool requested")
		writeJSON(w, http.StatusNotFound, ExecuteResponse{
			ToolName: req.ToolName,
			Result:   map[string]string{"error": "Unknown tool: " + req.ToolName},
		})
		return
	}

	// Write failures travel inside the success flag and stay 200; read/list
	// failures are client-visible errors.
	status := http.StatusOK
	if tools.IsFailure(result) {
		status = http.StatusBadRequest
	}

	s.logger.Info().
		Str("tool", req.ToolName).
		Int("status", status).
		Dur("duration", time.Since(start)).
		Msg("tool executed")

	writeJSON(w, status, ExecuteResponse{ToolName: req.ToolName, Result: result})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
