//go:build !(linux || darwin || freebsd || openbsd || netbsd)

package system

// LockFile is a no-op on platforms without flock.
func LockFile(path string) (func() error, error) {
	return func() error { return nil }, nil
}
