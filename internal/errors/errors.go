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

package errors

import "fmt"

// Code identifies a class of error for programmatic handling.
type Code string

const (
	// CodeTraversal marks a path that resolved outside the sandbox root.
	CodeTraversal Code = "traversal"
	// CodeNotFound marks a missing file or directory.
	CodeNotFound Code = "not_found"
	// CodeWrongType marks a directory where a file was expected, or vice versa.
	CodeWrongType Code = "wrong_type"
	// CodeExists marks a write without overwrite hitting an existing file.
	CodeExists Code = "already_exists"
	// CodeIO marks an underlying filesystem failure.
	CodeIO Code = "io"
	// CodeBadRequest marks a request missing required parameters.
	CodeBadRequest Code = "bad_request"
	// CodeStartup marks an unrecoverable startup failure.
	CodeStartup Code = "startup"
)

// Error wraps an underlying error with a code and message.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Message == "" {
		if e.Err != nil {
			return e.Err.Error()
		}
		return string(e.Code)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// New creates a new coded error with a message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap creates a new coded error that wraps an underlying error.
func Wrap(code Code, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// CodeOf extracts the code from an error, or empty when uncoded.
func CodeOf(err error) Code {
	if coded, ok := err.(*Error); ok && coded != nil {
		return coded.Code
	}
	return ""
}
