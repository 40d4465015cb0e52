//go:build linux

package sandbox

import (
	landlock "github.com/landlock-lsm/go-landlock/landlock"
)

// Confine restricts the current process to filesystem access within the
// sandbox root using Landlock. Best-effort: on kernels without Landlock the
// strongest available subset is applied, which may be nothing. The caller
// decides whether a failure is fatal; the path containment checks in
// internal/paths do not depend on this layer.
func Confine(root string) error {
	return landlock.V6.BestEffort().RestrictPaths(
		landlock.RWDirs(root),
	)
}

// ConfineSupported reports whether kernel-level confinement can apply here.
func ConfineSupported() bool {
	return true
}
