//go:build !darwin

package inject

import "errors"

type stubInjector struct{}

func newInjectorImpl() injectorImpl { return stubInjector{} }

func (stubInjector) typeText(string) error { return errors.New("unsupported platform") }

func (stubInjector) pasteChord() error { return errors.New("unsupported platform") }
