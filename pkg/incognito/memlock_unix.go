//go:build linux || darwin || freebsd || openbsd || netbsd

package incognito

import "golang.org/x/sys/unix"

// lockMemory pins b in RAM so the key is never written to swap. It returns
// the matching unlock function and whether the lock succeeded.
func lockMemory(b []byte) (func(), bool) {
	if err := unix.Mlock(b); err != nil {
		return func() {}, false
	}
	return func() { _ = unix.Munlock(b) }, true
}
