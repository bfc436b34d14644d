//go:build !darwin && !freebsd && !linux && !windows

package nativeload

import (
	"fmt"
	"runtime"
)

const unlinkAfterLoad = false

func loadLibrary(name string) (uintptr, error) {
	return 0, fmt.Errorf("dynamic library loading is not supported on %s", runtime.GOOS)
}
