package nativeload

import (
	"errors"
	"fmt"
)

// ErrEmptyName is returned when a descriptor is requested for an empty short name.
var ErrEmptyName = errors.New("nativeload: library short name is empty")

// ErrInvalidName is returned for short names containing a directory separator;
// those would make the OS loader resolve a relative path instead of searching.
var ErrInvalidName = errors.New("nativeload: directory separator in library short name")

// ErrNotApplicable is reported by a strategy whose input (bundled resource or
// override path) is not available for the library.
var ErrNotApplicable = errors.New("nativeload: strategy not applicable")

// Strategy names, used in log output and LinkError.
const (
	StrategySystemPath = "system-path"
	StrategyBundled    = "bundled-resource"
	StrategyOverride   = "override-path"
)

// LinkError records a single strategy failing to get the library loaded, either
// because the OS loader rejected the name or path, or because the bundled copy
// could not be extracted.
type LinkError struct {
	Strategy string
	Target   string // Search name, resource path, or filesystem path that was attempted
	Err      error
}

func (e *LinkError) Error() string {
	return fmt.Sprintf("%s: load %s: %v", e.Strategy, e.Target, e.Err)
}

func (e *LinkError) Unwrap() error { return e.Err }

// LoadError is returned by Load when every strategy has been exhausted.
// Err is the last LinkError observed, or ErrNotApplicable if no strategy ever ran.
type LoadError struct {
	Name string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("nativeload: load native library[%s] failed: %v", e.Name, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }
