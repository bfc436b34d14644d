package nativeload

import "runtime"

// Platform describes the host conventions used to name native libraries.
type Platform struct {
	GOOS   string
	GOARCH string
	Ext    string // Shared library extension, including the leading dot
}

// HostPlatform is the platform of the running process, detected once at startup.
var HostPlatform = DetectPlatform(runtime.GOOS, runtime.GOARCH)

// DetectPlatform returns the naming conventions for the given OS and architecture.
func DetectPlatform(goos, goarch string) Platform {

	ext := ""

	switch goos {
	case "windows":
		ext = ".dll"
	case "darwin", "ios":
		ext = ".dylib"
	default:
		ext = ".so"
	}

	return Platform{GOOS: goos, GOARCH: goarch, Ext: ext}

}

// SearchName returns the name handed to the OS loader when resolving shortName
// through the platform's standard library search path. Windows libraries carry no "lib" prefix.
func (p Platform) SearchName(shortName string) string {
	if p.GOOS == "windows" {
		return shortName + p.Ext
	}
	return libPrefix + shortName + p.Ext
}
