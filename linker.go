package nativeload

// Linker is the OS dynamic-loader facade used by a Loader.
type Linker interface {
	// OpenByName resolves name through the platform's standard library search path.
	OpenByName(name string) (uintptr, error)
	// OpenByPath loads the library at an absolute filesystem path.
	OpenByPath(path string) (uintptr, error)
}

// SystemLinker loads libraries with the host's dynamic linker.
type SystemLinker struct{}

func (SystemLinker) OpenByName(name string) (uintptr, error) {
	return loadLibrary(name)
}

func (SystemLinker) OpenByPath(path string) (uintptr, error) {
	return loadLibrary(path)
}
