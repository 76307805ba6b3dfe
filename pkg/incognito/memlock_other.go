//go:build !(linux || darwin || freebsd || openbsd || netbsd)

package incognito

func lockMemory([]byte) (func(), bool) {
	return func() {}, false
}
