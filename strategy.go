package nativeload

import (
	"errors"
	"fmt"
	"io/fs"
)

type outcome int

const (
	outcomeLoaded outcome = iota
	outcomeNotApplicable
	outcomeFailed
)

// attempt is the result of running one strategy.
type attempt struct {
	outcome outcome
	handle  uintptr
	err     error
}

func loaded(handle uintptr) attempt {
	return attempt{outcome: outcomeLoaded, handle: handle}
}

func notApplicable(reason string) attempt {
	return attempt{outcome: outcomeNotApplicable, err: fmt.Errorf("%w: %s", ErrNotApplicable, reason)}
}

func failed(name, target string, err error) attempt {
	return attempt{outcome: outcomeFailed, err: &LinkError{Strategy: name, Target: target, Err: err}}
}

type strategy struct {
	name string
	try  func(d Descriptor) attempt
}

// strategies returns the fallback chain in the order it is attempted.
func (l *Loader) strategies() []strategy {
	return []strategy{
		{name: StrategySystemPath, try: l.fromSystemPath},
		{name: StrategyBundled, try: l.fromBundled},
		{name: StrategyOverride, try: l.fromOverride},
	}
}

// resolve runs the strategies in order and returns the handle from the first one
// that succeeds. If none does, the error is the last LinkError seen.
func (l *Loader) resolve(d Descriptor) (uintptr, string, error) {

	var lastErr error = ErrNotApplicable

	for _, s := range l.strategies() {

		l.logger.Debug("trying native library strategy", "library", d.Name(), "strategy", s.name)

		a := s.try(d)

		switch a.outcome {
		case outcomeLoaded:
			return a.handle, s.name, nil
		case outcomeNotApplicable:
			l.logger.Debug("skipping native library strategy", "library", d.Name(), "strategy", s.name, "reason", a.err)
		case outcomeFailed:
			l.logger.Warn("native library strategy failed", "library", d.Name(), "strategy", s.name, "error", a.err)
			lastErr = a.err
		}

	}

	return 0, "", lastErr

}

func (l *Loader) fromSystemPath(d Descriptor) attempt {
	name := d.Platform().SearchName(d.ShortName())
	handle, err := l.linker.OpenByName(name)
	if err != nil {
		return failed(StrategySystemPath, name, err)
	}
	return loaded(handle)
}

func (l *Loader) fromBundled(d Descriptor) attempt {

	res, err := l.openResource(d.ResourcePath())
	if errors.Is(err, fs.ErrNotExist) {
		return notApplicable(d.ResourcePath() + " is not bundled")
	}
	if err != nil {
		return failed(StrategyBundled, d.ResourcePath(), err)
	}
	defer res.Close()

	path, err := l.extract(d, res)
	if err != nil {
		return failed(StrategyBundled, d.ResourcePath(), err)
	}

	l.logger.Debug("extracted bundled native library", "library", d.Name(), "path", path)

	handle, err := l.linker.OpenByPath(path)
	if err != nil {
		l.removeExtracted(path)
		return failed(StrategyBundled, path, err)
	}

	if l.unlinkLoaded {
		l.removeExtracted(path)
	} else {
		l.extracted = append(l.extracted, path)
	}

	return loaded(handle)

}

func (l *Loader) fromOverride(d Descriptor) attempt {
	if !d.HasOverride() {
		return notApplicable("no " + OverrideKey(d.ShortName()) + " override configured")
	}
	handle, err := l.linker.OpenByPath(d.OverridePath())
	if err != nil {
		return failed(StrategyOverride, d.OverridePath(), err)
	}
	return loaded(handle)
}

// openResource opens path in the first registered resource filesystem that has it.
// It returns an error wrapping fs.ErrNotExist if none does.
func (l *Loader) openResource(path string) (fs.File, error) {
	for _, fsys := range l.resources {
		f, err := fsys.Open(path)
		if err == nil {
			return f, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}
	return nil, &fs.PathError{Op: "open", Path: path, Err: fs.ErrNotExist}
}
