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

// Package sandbox resolves and prepares the single directory all file
// operations are confined to.
package sandbox

import (
	"os"
	"path/filepath"

	apperrors "mcpfs/internal/errors"
)

// EnvDir is the environment variable naming the sandbox directory.
const EnvDir = "MCPFS_SANDBOX_DIR"

// DefaultDirName is the sandbox directory created next to the executable
// when neither the flag nor the environment selects one.
const DefaultDirName = "mcpfs_data_sandbox"

// ResolveDir picks the sandbox directory with precedence:
// explicit flag value > MCPFS_SANDBOX_DIR > default subdirectory next to the
// running executable. The returned path is absolute but not yet verified;
// pass it to EnsureRoot.
func ResolveDir(flagValue string) (string, error) {
	if flagValue != "" {
		return filepath.Abs(flagValue)
	}
	if env := os.Getenv(EnvDir); env != "" {
		return filepath.Abs(env)
	}
	exe, err := os.Executable()
	if err != nil {
		return "", apperrors.Wrap(apperrors.CodeStartup, "cannot locate executable for default sandbox dir", err)
	}
	return filepath.Join(filepath.Dir(exe), DefaultDirName), nil
}

// EnsureRoot makes the sandbox root usable and returns its canonical form.
// The directory is created if absent; a non-directory at the path is a fatal
// startup error for the caller. The result is absolute and symlink-free so
// later containment checks compare against the real location.
func EnsureRoot(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", apperrors.Wrap(apperrors.CodeStartup, "invalid sandbox directory", err)
	}

	info, err := os.Stat(abs)
	switch {
	case os.IsNotExist(err):
		if err := os.MkdirAll(abs, 0o755); err != nil {
			return "", apperrors.Wrap(apperrors.CodeStartup, "could not create sandbox directory", err)
		}
	case err != nil:
		return "", apperrors.Wrap(apperrors.CodeStartup, "could not stat sandbox directory", err)
	case !info.IsDir():
		return "", apperrors.New(apperrors.CodeStartup, "sandbox path exists but is not a directory: "+abs)
	}

	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", apperrors.Wrap(apperrors.CodeStartup, "could not canonicalize sandbox directory", err)
	}

	if err := checkWritable(resolved); err != nil {
		return "", apperrors.Wrap(apperrors.CodeStartup, "sandbox directory is not writable", err)
	}

	return resolved, nil
}
