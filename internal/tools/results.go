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

package tools

import apperrors "mcpfs/internal/errors"

// Result is the tagged outcome of a tool execution. Exactly one concrete
// type exists per wire shape; each is returned synchronously per call and
// never stored.
type Result interface {
	resultMarker()
}

// Content carries the full text of a read file.
type Content struct {
	Text string `json:"content"`
}

// Listing carries the immediate child entry names of a directory, sorted.
type Listing struct {
	Items []string `json:"items"`
}

// WriteOutcome reports a write attempt. Success is a distinct flag because
// the driving agent branches on it; Error is set only on failure.
type WriteOutcome struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Failure carries a human-readable error for read/list operations. Code
// classifies the failure for callers inside the process; it is not part of
// the wire shape.
type Failure struct {
	Error string         `json:"error"`
	Code  apperrors.Code `json:"-"`
}

func (Content) resultMarker()      {}
func (Listing) resultMarker()      {}
func (WriteOutcome) resultMarker() {}
func (Failure) resultMarker()      {}

// IsFailure reports whether a result describes an error for read/list
// operations. Write failures are not included: the success flag inside
// WriteOutcome is the contract for those, and the transport reports them
// with a normal status.
func IsFailure(r Result) bool {
	_, ok := r.(Failure)
	return ok
}
