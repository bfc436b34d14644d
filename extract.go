package nativeload

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// extract copies a bundled library into a fresh temp file named after the
// descriptor and returns its absolute path. On failure the partial file is
// removed straight away.
func (l *Loader) extract(d Descriptor, r io.Reader) (string, error) {

	tmp, err := os.CreateTemp(l.tempDir, d.Prefix()+"*"+d.Platform().Ext)
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}

	_, err = io.Copy(tmp, r)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to copy to %s: %w", tmp.Name(), err)
	}

	path, err := filepath.Abs(tmp.Name())
	if err != nil {
		path = tmp.Name()
	}

	return path, nil

}

// removeExtracted deletes an extracted file that is no longer needed on disk.
// If that fails the file is left to Cleanup.
func (l *Loader) removeExtracted(path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		l.logger.Debug("deferring removal of extracted native library", "path", path, "error", err)
		l.extracted = append(l.extracted, path)
	}
}

// Cleanup removes the temp files extracted by the Loader that are still on disk.
// On darwin, freebsd and linux an extracted library is unlinked as soon as it is
// loaded, so there is usually nothing left; on windows a loaded DLL cannot be
// deleted, so programs there defer Cleanup in main. Libraries already loaded stay
// loaded. Removal is best effort: files that are already gone are ignored, and
// other failures are joined into the returned error.
func (l *Loader) Cleanup() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	var errs []error
	for _, path := range l.extracted {
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			l.logger.Warn("failed to remove extracted native library", "path", path, "error", err)
			errs = append(errs, err)
		}
	}
	l.extracted = nil

	return errors.Join(errs...)
}
