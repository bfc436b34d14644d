package nativeload

import "golang.org/x/sys/windows"

// A loaded DLL is locked until it is freed.
const unlinkAfterLoad = false

func loadLibrary(name string) (uintptr, error) {
	handle, err := windows.LoadLibrary(name)
	return uintptr(handle), err
}
