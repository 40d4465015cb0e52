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

// Package tools implements the three sandboxed filesystem operations exposed
// to the driving agent: read_file, list_directory and write_file.
package tools

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/rs/zerolog"

	apperrors "mcpfs/internal/errors"
	"mcpfs/internal/paths"
)

// Op is the closed set of operations. Dispatch is exhaustive over this enum
// rather than open-ended string matching; wire names map in via OpFromName.
type Op int

const (
	OpReadFile Op = iota
	OpListDirectory
	OpWriteFile
)

// Name returns the wire name of the operation.
func (op Op) Name() string {
	switch op {
	case OpReadFile:
		return "read_file"
	case OpListDirectory:
		return "list_directory"
	case OpWriteFile:
		return "write_file"
	}
	return fmt.Sprintf("op(%d)", int(op))
}

// OpFromName maps a wire tool name onto the operation enum.
func OpFromName(name string) (Op, bool) {
	switch name {
	case "read_file":
		return OpReadFile, true
	case "list_directory":
		return OpListDirectory, true
	case "write_file":
		return OpWriteFile, true
	}
	return 0, false
}

// Limits bounds tool execution. Zero values disable a limit; the core
// imposes none by default.
type Limits struct {
	MaxFileSizeBytes int64
}

// Executor performs the filesystem operations, confined to Root.
//
// Root is immutable after construction; every path argument is resolved
// against it through the paths package before any I/O. The filesystem is the
// only shared mutable state: concurrent writes to the same path interleave
// at the OS level (last write wins). The executor adds no locking, no
// atomicity and no isolation across requests.
type Executor struct {
	Root   string
	Limits Limits
	Logger zerolog.Logger
}

// NewExecutor creates an executor confined to root. root must be absolute
// and canonical (see sandbox.EnsureRoot).
func NewExecutor(root string, limits Limits) *Executor {
	return &Executor{
		Root:   root,
		Limits: limits,
		Logger: zerolog.Nop(),
	}
}

// Execute dispatches an operation. The switch is exhaustive over the enum;
// an out-of-range value is a programming error and reports as such.
func (e *Executor) Execute(op Op, params map[string]interface{}) Result {
	switch op {
	case OpReadFile:
		return e.ReadFile(params)
	case OpListDirectory:
		return e.ListDirectory(params)
	case OpWriteFile:
		return e.WriteFile(params)
	default:
		return Failure{Error: "unknown operation", Code: apperrors.CodeBadRequest}
	}
}

// ExecuteNamed dispatches by wire name; ok is false for unknown tools.
func (e *Executor) ExecuteNamed(name string, params map[string]interface{}) (Result, bool) {
	op, ok := OpFromName(name)
	if !ok {
		return nil, false
	}
	return e.Execute(op, params), true
}

// ReadFile returns the full contents of a file inside the sandbox.
func (e *Executor) ReadFile(params map[string]interface{}) Result {
	request, ok := stringParam(params, "path")
	if !ok {
		return Failure{Error: "missing or invalid 'path' parameter", Code: apperrors.CodeBadRequest}
	}

	resolved, err := paths.Resolve(e.Root, request)
	if err != nil {
		e.Logger.Warn().Str("tool", "read_file").Str("path", request).Err(err).Msg("path rejected")
		return Failure{Error: "path rejected: " + err.Error(), Code: apperrors.CodeOf(err)}
	}

	info, err := os.Stat(resolved)
	switch {
	case err != nil:
		return Failure{Error: "not a file or not found: " + request, Code: apperrors.CodeNotFound}
	case !info.Mode().IsRegular():
		return Failure{Error: "not a file or not found: " + request, Code: apperrors.CodeWrongType}
	}
	if e.Limits.MaxFileSizeBytes > 0 && info.Size() > e.Limits.MaxFileSizeBytes {
		return Failure{
			Error: fmt.Sprintf("file exceeds maximum size of %d bytes", e.Limits.MaxFileSizeBytes),
			Code:  apperrors.CodeIO,
		}
	}

	data, err := os.ReadFile(resolved)
	if err != nil {
		return Failure{Error: "error reading file: " + err.Error(), Code: apperrors.CodeIO}
	}
	return Content{Text: string(data)}
}

// ListDirectory returns the immediate child entry names of a directory.
// The path parameter defaults to "." (the sandbox root). Names are sorted;
// listing does not recurse.
func (e *Executor) ListDirectory(params map[string]interface{}) Result {
	request, ok := stringParam(params, "path")
	if !ok {
		request = "."
	}

	resolved, err := paths.Resolve(e.Root, request)
	if err != nil {
		e.Logger.Warn().Str("tool", "list_directory").Str("path", request).Err(err).Msg("path rejected")
		return Failure{Error: "path rejected: " + err.Error(), Code: apperrors.CodeOf(err)}
	}

	info, err := os.Stat(resolved)
	switch {
	case err != nil:
		return Failure{Error: "not a directory or not found: " + request, Code: apperrors.CodeNotFound}
	case !info.IsDir():
		return Failure{Error: "not a directory or not found: " + request, Code: apperrors.CodeWrongType}
	}

	entries, err := os.ReadDir(resolved)
	if err != nil {
		return Failure{Error: "error listing directory: " + err.Error(), Code: apperrors.CodeIO}
	}

	items := make([]string, 0, len(entries))
	for _, entry := range entries {
		items = append(items, entry.Name())
	}
	sort.Strings(items)
	return Listing{Items: items}
}

// WriteFile writes the full content string to a file inside the sandbox.
// Missing parent directories are created. An existing file is only replaced
// when overwrite is true; the write is truncate-in-place, not atomic.
func (e *Executor) WriteFile(params map[string]interface{}) Result {
	request, haveRequest := stringParam(params, "path")
	content, haveContent := stringParam(params, "content")
	if !haveRequest || !haveContent {
		return WriteOutcome{Success: false, Error: "missing path or content parameter"}
	}
	overwrite := boolParam(params, "overwrite")

	if e.Limits.MaxFileSizeBytes > 0 && int64(len(content)) > e.Limits.MaxFileSizeBytes {
		return WriteOutcome{
			Success: false,
			Error:   fmt.Sprintf("content exceeds maximum size of %d bytes", e.Limits.MaxFileSizeBytes),
		}
	}

	resolved, err := paths.Resolve(e.Root, request)
	if err != nil {
		e.Logger.Warn().Str("tool", "write_file").Str("path", request).Err(err).Msg("path rejected")
		return WriteOutcome{Success: false, Error: "path rejected: " + err.Error()}
	}

	if info, err := os.Stat(resolved); err == nil {
		if info.IsDir() {
			return WriteOutcome{Success: false, Error: "path is a directory, cannot write file"}
		}
		if !overwrite {
			return WriteOutcome{Success: false, Error: "file already exists; set overwrite=true to replace"}
		}
	}

	parent := filepath.Dir(resolved)
	if err := os.MkdirAll(parent, 0o755); err != nil {
		return WriteOutcome{Success: false, Error: "could not create parent directory: " + err.Error()}
	}

	if err := os.WriteFile(resolved, []byte(content), 0o644); err != nil {
		return WriteOutcome{Success: false, Error: "error writing file: " + err.Error()}
	}

	e.Logger.Info().Str("tool", "write_file").Str("path", request).Int("bytes", len(content)).Msg("file written")
	return WriteOutcome{Success: true, Message: "written"}
}

// stringParam extracts a string parameter. A present-but-wrong-type value
// counts as missing; an empty string is a valid value.
func stringParam(params map[string]interface{}, key string) (string, bool) {
	if params == nil {
		return "", false
	}
	val, ok := params[key]
	if !ok {
		return "", false
	}
	s, ok := val.(string)
	return s, ok
}

func boolParam(params map[string]interface{}, key string) bool {
	if params == nil {
		return false
	}
	val, ok := params[key].(bool)
	return ok && val
}
