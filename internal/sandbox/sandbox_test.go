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

package sandbox

import (
	"os"
	"path/filepath"
	"testing"

	apperrors "mcpfs/internal/errors"
)

func TestResolveDirPrecedence(t *testing.T) {
	tempDir := t.TempDir()

	// Flag wins over environment.
	t.Setenv(EnvDir, filepath.Join(tempDir, "from-env"))
	got, err := ResolveDir(filepath.Join(tempDir, "from-flag"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if filepath.Base(got) != "from-flag" {
		t.Fatalf("flag should win over env, got %q", got)
	}

	// Environment wins when the flag is empty.
	got, err = ResolveDir("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if filepath.Base(got) != "from-env" {
		t.Fatalf("env should win over default, got %q", got)
	}

	// Default lands next to the executable.
	t.Setenv(EnvDir, "")
	got, err = ResolveDir("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if filepath.Base(got) != DefaultDirName {
		t.Fatalf("expected default dir name, got %q", got)
	}
}

func TestEnsureRootCreatesMissing(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "box")

	root, err := EnsureRoot(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	info, err := os.Stat(root)
	if err != nil {
		t.Fatalf("root was not created: %v", err)
	}
	if !info.IsDir() {
		t.Fatal("root is not a directory")
	}
}

func TestEnsureRootRejectsFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "occupied")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	_, err := EnsureRoot(file)
	if err == nil {
		t.Fatal("expected error for non-directory sandbox path")
	}
	if code := apperrors.CodeOf(err); code != apperrors.CodeStartup {
		t.Fatalf("code = %q, want %q", code, apperrors.CodeStartup)
	}
}

func TestEnsureRootCanonicalizes(t *testing.T) {
	base := t.TempDir()
	real := filepath.Join(base, "real")
	if err := os.Mkdir(real, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	link := filepath.Join(base, "link")
	if err := os.Symlink(real, link); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	root, err := EnsureRoot(link)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want, _ := filepath.EvalSymlinks(real)
	if root != want {
		t.Fatalf("root = %q, want canonical %q", root, want)
	}
}
