//go:build darwin || freebsd || linux

package nativeload

import "github.com/ebitengine/purego"

// The mapping of a loaded library outlives its directory entry.
const unlinkAfterLoad = true

func loadLibrary(name string) (uintptr, error) {
	return purego.Dlopen(name, purego.RTLD_NOW|purego.RTLD_GLOBAL)
}
