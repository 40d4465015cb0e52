//go:build !linux

package sandbox

import (
	"os"
	"path/filepath"
)

// checkWritable probes the sandbox root by creating and removing a marker
// file; unix.Access is not portable beyond linux.
func checkWritable(dir string) error {
	probe := filepath.Join(dir, ".mcpfs-write-probe")
	f, err := os.OpenFile(probe, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o600)
	if err != nil {
		return err
	}
	f.Close()
	return os.Remove(probe)
}
