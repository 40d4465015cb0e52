//go:build linux

package sandbox

import "golang.org/x/sys/unix"

// checkWritable probes the sandbox root for write access before the server
// starts accepting requests.
func checkWritable(dir string) error {
	return unix.Access(dir, unix.W_OK)
}
