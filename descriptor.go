package nativeload

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/solarlune/nativeload/config"
)

const (
	libPrefix      = "lib"
	resourceDir    = "resources/"
	overrideSuffix = "Lib"
)

// UnsetOverride is the override path of a descriptor whose library has no
// filesystem override configured. No real path compares equal to it.
const UnsetOverride = ""

// Descriptor describes one native library: how it is named on the host, where a
// bundled copy lives inside the packaged resources, and where an operator may
// have pointed an override. Descriptors are immutable once built.
type Descriptor struct {
	shortName    string
	prefix       string
	name         string
	resourcePath string
	overridePath string
	platform     Platform
}

// ShortName returns the bare identifier, e.g. "mylib".
func (d Descriptor) ShortName() string { return d.shortName }

// Prefix returns the conventional file prefix, "lib" + ShortName().
func (d Descriptor) Prefix() string { return d.prefix }

// Name returns the full file name, Prefix() plus the platform extension.
func (d Descriptor) Name() string { return d.name }

// ResourcePath returns the location of the bundled binary within the packaged resources.
func (d Descriptor) ResourcePath() string { return d.resourcePath }

// OverridePath returns the configured filesystem override, or UnsetOverride.
func (d Descriptor) OverridePath() string { return d.overridePath }

// HasOverride reports whether an override path is configured.
func (d Descriptor) HasOverride() bool { return d.overridePath != UnsetOverride }

// Platform returns the platform the descriptor's names were derived for.
func (d Descriptor) Platform() Platform { return d.platform }

// OverrideKey returns the configuration key holding the override path for shortName.
func OverrideKey(shortName string) string {
	return shortName + overrideSuffix
}

// DescriptorFactory builds Descriptors for a fixed platform and configuration source.
// The override lookup for each distinct short name is performed once; later
// descriptors for the same name reuse the first value read.
type DescriptorFactory struct {
	platform Platform
	source   config.Source

	mu        sync.Mutex
	overrides map[string]string
}

// NewDescriptorFactory creates a factory. A nil source means no overrides are ever configured.
func NewDescriptorFactory(platform Platform, source config.Source) *DescriptorFactory {
	return &DescriptorFactory{
		platform:  platform,
		source:    source,
		overrides: map[string]string{},
	}
}

// Descriptor returns the descriptor for shortName. It fails with ErrEmptyName
// if shortName is empty and with ErrInvalidName if it contains a directory separator.
func (f *DescriptorFactory) Descriptor(shortName string) (Descriptor, error) {

	if shortName == "" {
		return Descriptor{}, ErrEmptyName
	}
	if strings.ContainsAny(shortName, `/\`) || strings.ContainsRune(shortName, os.PathSeparator) {
		return Descriptor{}, fmt.Errorf("%w: %q", ErrInvalidName, shortName)
	}

	prefix := libPrefix + shortName
	name := prefix + f.platform.Ext

	return Descriptor{
		shortName:    shortName,
		prefix:       prefix,
		name:         name,
		resourcePath: resourceDir + name,
		overridePath: f.override(shortName),
		platform:     f.platform,
	}, nil

}

func (f *DescriptorFactory) override(shortName string) string {
	f.mu.Lock()
	defer f.mu.Unlock()

	if path, ok := f.overrides[shortName]; ok {
		return path
	}

	path := UnsetOverride
	if f.source != nil {
		if v, ok := f.source.Lookup(OverrideKey(shortName)); ok && v != "" {
			path = v
		}
	}
	f.overrides[shortName] = path
	return path
}

var (
	defaultFactory     *DescriptorFactory
	defaultFactoryOnce sync.Once
)

// NewDescriptor returns the descriptor for shortName using the host platform and
// the process configuration (see config.Default), warning through the
// process-wide Loader's logger if the config file is unusable. Override paths
// are read once per short name for the life of the process.
func NewDescriptor(shortName string) (Descriptor, error) {
	defaultFactoryOnce.Do(func() {
		defaultFactory = NewDescriptorFactory(HostPlatform, config.Default(std.logger))
	})
	return defaultFactory.Descriptor(shortName)
}
