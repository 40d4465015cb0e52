//go:build !linux

package sandbox

// Confine is a no-op outside linux; Landlock is linux-only.
func Confine(root string) error {
	return nil
}

// ConfineSupported reports whether kernel-level confinement can apply here.
func ConfineSupported() bool {
	return false
}
