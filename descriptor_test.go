package nativeload

import (
	"errors"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/solarlune/nativeload/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// countingSource counts lookups per key.
type countingSource struct {
	mu     sync.Mutex
	values config.Map
	reads  map[string]int
}

func newCountingSource(values config.Map) *countingSource {
	return &countingSource{values: values, reads: map[string]int{}}
}

func (s *countingSource) Lookup(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reads[key]++
	return s.values.Lookup(key)
}

func (s *countingSource) set(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
}

func (s *countingSource) count(key string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reads[key]
}

func TestDescriptorFactory_Descriptor(t *testing.T) {
	tests := []struct {
		name         string
		platform     Platform
		shortName    string
		wantName     string
		wantResource string
	}{
		{
			name:         "linux",
			platform:     DetectPlatform("linux", "amd64"),
			shortName:    "zstd",
			wantName:     "libzstd.so",
			wantResource: "resources/libzstd.so",
		},
		{
			name:         "darwin",
			platform:     DetectPlatform("darwin", "arm64"),
			shortName:    "zstd",
			wantName:     "libzstd.dylib",
			wantResource: "resources/libzstd.dylib",
		},
		{
			name:         "windows",
			platform:     DetectPlatform("windows", "amd64"),
			shortName:    "zstd",
			wantName:     "libzstd.dll",
			wantResource: "resources/libzstd.dll",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := NewDescriptorFactory(tt.platform, nil).Descriptor(tt.shortName)
			require.NoError(t, err)

			assert.Equal(t, tt.shortName, d.ShortName())
			assert.Equal(t, "lib"+tt.shortName, d.Prefix())
			assert.Equal(t, tt.wantName, d.Name())
			assert.Equal(t, tt.wantResource, d.ResourcePath())
			assert.Equal(t, UnsetOverride, d.OverridePath())
			assert.False(t, d.HasOverride())
			assert.Equal(t, tt.platform, d.Platform())
		})
	}
}

func TestDescriptorFactory_InvalidName(t *testing.T) {
	tests := []struct {
		name      string
		shortName string
		wantErr   error
	}{
		{name: "empty", shortName: "", wantErr: ErrEmptyName},
		{name: "relative directory", shortName: "planted/zstd", wantErr: ErrInvalidName},
		{name: "parent directory", shortName: "../zstd", wantErr: ErrInvalidName},
		{name: "absolute path", shortName: "/tmp/zstd", wantErr: ErrInvalidName},
		{name: "backslash", shortName: `planted\zstd`, wantErr: ErrInvalidName},
		{name: "trailing slash", shortName: "zstd/", wantErr: ErrInvalidName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewDescriptorFactory(HostPlatform, nil).Descriptor(tt.shortName)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestDescriptorFactory_InvalidNameSkipsOverrideLookup(t *testing.T) {
	src := newCountingSource(config.Map{})
	_, err := NewDescriptorFactory(HostPlatform, src).Descriptor("planted/zstd")
	require.ErrorIs(t, err, ErrInvalidName)
	assert.Zero(t, src.count("planted/zstdLib"), "no override lookup for a rejected name")
}

func TestDescriptorFactory_Override(t *testing.T) {
	tests := []struct {
		name   string
		values config.Map
		want   string
	}{
		{
			name:   "configured",
			values: config.Map{"zstdLib": "/opt/native/libzstd.so"},
			want:   "/opt/native/libzstd.so",
		},
		{
			name:   "absent",
			values: config.Map{"otherLib": "/opt/native/libother.so"},
			want:   UnsetOverride,
		},
		{
			name:   "empty value",
			values: config.Map{"zstdLib": ""},
			want:   UnsetOverride,
		},
		{
			name:   "key is case sensitive",
			values: config.Map{"zstdlib": "/opt/native/libzstd.so"},
			want:   UnsetOverride,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := NewDescriptorFactory(HostPlatform, tt.values).Descriptor("zstd")
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.OverridePath())
			assert.Equal(t, tt.want != UnsetOverride, d.HasOverride())
		})
	}
}

func TestDescriptorFactory_OverrideIsReadOnce(t *testing.T) {
	src := newCountingSource(config.Map{"zstdLib": "/first/libzstd.so"})
	factory := NewDescriptorFactory(HostPlatform, src)

	first, err := factory.Descriptor("zstd")
	require.NoError(t, err)

	src.set("zstdLib", "/second/libzstd.so")

	second, err := factory.Descriptor("zstd")
	require.NoError(t, err)

	assert.Equal(t, 1, src.count("zstdLib"))
	assert.Equal(t, "/first/libzstd.so", second.OverridePath())
	assert.Equal(t, first, second)

	_, err = factory.Descriptor("lz4")
	require.NoError(t, err)
	assert.Equal(t, 1, src.count("lz4Lib"))
}

func TestDescriptorFactory_OverrideConcurrentReads(t *testing.T) {
	src := newCountingSource(config.Map{"zstdLib": "/opt/libzstd.so"})
	factory := NewDescriptorFactory(HostPlatform, src)

	var wg sync.WaitGroup
	for range 32 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d, err := factory.Descriptor("zstd")
			assert.NoError(t, err)
			assert.Equal(t, "/opt/libzstd.so", d.OverridePath())
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, src.count("zstdLib"))
}

func TestDescriptorFactory_NameProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		goos := rapid.SampledFrom([]string{"linux", "darwin", "windows", "freebsd", "android"}).Draw(t, "goos")
		shortName := rapid.OneOf(
			rapid.StringMatching(`[a-z][a-z0-9_\-]{0,24}`),
			rapid.StringMatching(`[a-z0-9./\\_\-]{0,16}`),
			rapid.String(),
		).Draw(t, "shortName")

		platform := DetectPlatform(goos, "amd64")
		d, err := NewDescriptorFactory(platform, nil).Descriptor(shortName)

		switch {
		case shortName == "":
			if !errors.Is(err, ErrEmptyName) {
				t.Fatalf("empty name: got %v", err)
			}
			return
		case strings.ContainsAny(shortName, `/\`) || strings.ContainsRune(shortName, os.PathSeparator):
			if !errors.Is(err, ErrInvalidName) {
				t.Fatalf("name %q with separator: got %v", shortName, err)
			}
			return
		case err != nil:
			t.Fatalf("unexpected error for %q: %v", shortName, err)
		}

		if d.Name() != "lib"+shortName+platform.Ext {
			t.Fatalf("name %q != %q", d.Name(), "lib"+shortName+platform.Ext)
		}
		if d.ResourcePath() != "resources/"+d.Name() {
			t.Fatalf("resource path %q does not end with %q", d.ResourcePath(), d.Name())
		}
		if strings.ContainsAny(platform.SearchName(shortName), `/\`) {
			t.Fatalf("search name %q contains a separator", platform.SearchName(shortName))
		}
	})
}

func TestNewDescriptor_ReadsEnvironment(t *testing.T) {
	t.Setenv("nativeloaddescenvLib", "/opt/libnativeloaddescenv.so")

	d, err := NewDescriptor("nativeloaddescenv")
	require.NoError(t, err)
	assert.Equal(t, HostPlatform.Ext, d.Platform().Ext)
	assert.Equal(t, "/opt/libnativeloaddescenv.so", d.OverridePath())
}
