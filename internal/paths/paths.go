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

// Package paths confines caller-supplied path strings to a sandbox root.
//
// Resolve is the only entry point the tool executor needs: it takes an
// untrusted relative path string and either returns the absolute location it
// names inside the root, or rejects it. The root itself must already be
// absolute and symlink-free (see sandbox.EnsureRoot).
package paths

import (
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	apperrors "mcpfs/internal/errors"
)

// MaxPathLength bounds raw path input before any resolution.
const MaxPathLength = 4096

// ValidateRequest validates raw path input before resolution. The empty
// string is valid and names the root itself.
func ValidateRequest(path string) error {
	if strings.IndexByte(path, 0) != -1 {
		return apperrors.New(apperrors.CodeTraversal, "path contains null byte")
	}
	if !utf8.ValidString(path) {
		return apperrors.New(apperrors.CodeTraversal, "path is not valid UTF-8")
	}
	if len(path) > MaxPathLength {
		return apperrors.New(apperrors.CodeTraversal, "path exceeds maximum length")
	}
	return nil
}

// Resolve maps a caller-supplied relative path onto root and verifies the
// result never escapes it.
//
// The steps run in a fixed order: leading separators are stripped so absolute
// input degrades to a relative path, the remainder is normalized lexically,
// joined onto root, and the joined path is checked for containment by
// components. Finally the nearest existing ancestor is resolved through
// symlinks and containment is checked again, so a symlink planted inside the
// root cannot point operations outside it.
func Resolve(root, request string) (string, error) {
	if err := ValidateRequest(request); err != nil {
		return "", err
	}

	trimmed := strings.TrimLeft(request, `/\`)
	rel := filepath.Clean(trimmed)

	candidate := filepath.Clean(filepath.Join(root, rel))
	if !HasPathPrefix(candidate, root) {
		return "", apperrors.New(apperrors.CodeTraversal, "path escapes sandbox root")
	}

	resolved, err := resolveThroughSymlinks(candidate)
	if err != nil {
		return "", apperrors.Wrap(apperrors.CodeIO, "failed to resolve path", err)
	}
	if !HasPathPrefix(resolved, root) {
		return "", apperrors.New(apperrors.CodeTraversal, "path escapes sandbox root")
	}

	return resolved, nil
}

// resolveThroughSymlinks canonicalizes the longest existing prefix of path
// and rejoins the not-yet-existing remainder. A missing deep target (e.g. a
// write into a directory that will be auto-created) resolves against its
// nearest existing ancestor.
func resolveThroughSymlinks(path string) (string, error) {
	var suffix []string
	cur := path
	for {
		if _, err := os.Lstat(cur); err == nil {
			resolved, err := filepath.EvalSymlinks(cur)
			if err != nil {
				return "", err
			}
			for i := len(suffix) - 1; i >= 0; i-- {
				resolved = filepath.Join(resolved, suffix[i])
			}
			return resolved, nil
		} else if !os.IsNotExist(err) {
			return "", err
		}

		parent := filepath.Dir(cur)
		if parent == cur {
			// No existing ancestor at all; nothing to canonicalize.
			return path, nil
		}
		suffix = append(suffix, filepath.Base(cur))
		cur = parent
	}
}

// HasPathPrefix returns true when path is base or lies within it. The
// comparison is by path components, never by raw string prefix, so
// /sandbox-extra does not pass against /sandbox.
func HasPathPrefix(path, base string) bool {
	rel, err := filepath.Rel(base, path)
	if err != nil {
		return false
	}
	return rel == "." || (!strings.HasPrefix(rel, ".."+string(os.PathSeparator)) && rel != "..")
}
