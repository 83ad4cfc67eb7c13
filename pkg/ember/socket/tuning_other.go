//go:build !unix

package socket

// setReuseAddr is a no-op on platforms without SO_REUSEADDR semantics worth setting.
func setReuseAddr(fd uintptr) error {
	return nil
}

// ReuseAddr always reports false on non-unix platforms.
func ReuseAddr(fd uintptr) (bool, error) {
	return false, nil
}
