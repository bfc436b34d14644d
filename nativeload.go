// Package nativeload finds and loads platform-specific native shared libraries.
//
// A library is described by a Descriptor and loaded by a Loader, which tries three
// strategies in order until one succeeds:
//
//  1. the OS library search path (LD_LIBRARY_PATH, DYLD_LIBRARY_PATH, PATH, ...)
//  2. a copy bundled in the program's resources (usually an embed.FS), extracted to a temp file
//  3. an absolute path configured under the key "<shortName>Lib" (see package config)
//
// Success is remembered per library name, so loading the same library again is a
// no-op. Failures are not remembered, so a later call retries every strategy.
package nativeload

import (
	"io/fs"
	"sort"
	"sync"

	"github.com/hashicorp/go-hclog"
)

// Options configures a Loader. Build one with NewOptions and the With methods.
type Options struct {
	linker    Linker
	resources []fs.FS
	tempDir   string
	logger    hclog.Logger
}

// NewOptions returns options using the system linker, the system temp directory,
// no bundled resources, and the logger from NewLogger.
func NewOptions() Options {
	return Options{linker: SystemLinker{}}
}

// WithLinker sets the OS loader facade.
func (opts Options) WithLinker(linker Linker) Options {
	opts.linker = linker
	return opts
}

// WithResources adds a filesystem of bundled libraries. Filesystems are searched
// in the order they were added; each library is looked up at Descriptor.ResourcePath.
func (opts Options) WithResources(fsys fs.FS) Options {
	if fsys != nil {
		opts.resources = append(append([]fs.FS{}, opts.resources...), fsys)
	}
	return opts
}

// WithTempDir sets the directory bundled libraries are extracted to. An empty
// string means the system temp directory.
func (opts Options) WithTempDir(dir string) Options {
	opts.tempDir = dir
	return opts
}

// WithLogger sets the logger; nil means the logger from NewLogger.
func (opts Options) WithLogger(logger hclog.Logger) Options {
	opts.logger = logger
	return opts
}

// Loader loads native libraries and remembers which ones have been loaded.
// It is safe for concurrent use; loads are serialized.
type Loader struct {
	linker       Linker
	tempDir      string
	logger       hclog.Logger
	unlinkLoaded bool // Remove extracted files once loaded

	mu        sync.Mutex
	resources []fs.FS
	loaded    map[string]uintptr
	extracted []string
}

// NewLoader creates a Loader from the given options.
func NewLoader(opts Options) *Loader {

	if opts.linker == nil {
		opts.linker = SystemLinker{}
	}
	if opts.logger == nil {
		opts.logger = NewLogger()
	}

	return &Loader{
		linker:       opts.linker,
		tempDir:      opts.tempDir,
		logger:       opts.logger,
		unlinkLoaded: unlinkAfterLoad,
		resources:    append([]fs.FS{}, opts.resources...),
		loaded:       map[string]uintptr{},
	}

}

// AddResources registers another filesystem of bundled libraries, searched after
// those already registered.
func (l *Loader) AddResources(fsys fs.FS) {
	if fsys == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.resources = append(l.resources, fsys)
}

// Load makes sure the library described by d is loaded into the process.
// If it has already been loaded by this Loader, Load returns nil immediately.
// Otherwise the system path, bundled resource and override path strategies are
// tried in that order; if all of them fail, Load returns a *LoadError wrapping
// the last *LinkError.
func (l *Loader) Load(d Descriptor) error {

	if d.Name() == "" {
		return ErrEmptyName
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.loaded[d.Name()]; ok {
		l.logger.Debug("native library already loaded", "library", d.Name())
		return nil
	}

	handle, via, err := l.resolve(d)
	if err != nil {
		return &LoadError{Name: d.Name(), Err: err}
	}

	l.loaded[d.Name()] = handle
	l.logger.Info("loaded native library", "library", d.Name(), "strategy", via)

	return nil

}

// Loaded reports whether the library with the given full name (Descriptor.Name) has been loaded.
func (l *Loader) Loaded(name string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.loaded[name]
	return ok
}

// Handle returns the OS handle of a loaded library, suitable for resolving
// symbols with purego.RegisterLibFunc or purego.Dlsym.
func (l *Loader) Handle(name string) (uintptr, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	handle, ok := l.loaded[name]
	return handle, ok
}

// LoadedNames returns the full names of all loaded libraries, sorted.
func (l *Loader) LoadedNames() []string {
	l.mu.Lock()
	defer l.mu.Unlock()

	names := make([]string, 0, len(l.loaded))
	for name := range l.loaded {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var std = NewLoader(NewOptions())

// Default returns the process-wide Loader used by the package-level functions.
func Default() *Loader { return std }

// Load loads d with the process-wide Loader.
func Load(d Descriptor) error { return std.Load(d) }

// Require builds the descriptor for shortName with NewDescriptor and loads it
// with the process-wide Loader.
func Require(shortName string) error {
	d, err := NewDescriptor(shortName)
	if err != nil {
		return err
	}
	return std.Load(d)
}

// AddResources registers a filesystem of bundled libraries with the process-wide Loader.
func AddResources(fsys fs.FS) { std.AddResources(fsys) }

// Cleanup removes the temp files extracted by the process-wide Loader that are
// still on disk; see Loader.Cleanup.
func Cleanup() error { return std.Cleanup() }
