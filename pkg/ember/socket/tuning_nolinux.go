//go:build !linux

package socket

import "time"

// setDeferAccept is a no-op outside Linux.
func setDeferAccept(fd uintptr, d time.Duration) error {
	return nil
}
