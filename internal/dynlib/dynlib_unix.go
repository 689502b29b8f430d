// SPDX-License-Identifier: Unlicense OR MIT

//go:build (linux && !android) || freebsd

package dynlib

import (
	"fmt"

	"github.com/ebitengine/purego"
)

// dlopen mode flags.
const (
	Lazy   = purego.RTLD_LAZY
	Now    = purego.RTLD_NOW
	Global = purego.RTLD_GLOBAL
	Local  = purego.RTLD_LOCAL
)

type library struct {
	name   string
	handle uintptr
}

// Open opens the named shared library with the given dlopen flags.
func Open(name string, flags int) (Library, error) {
	h, err := purego.Dlopen(name, flags)
	if err != nil {
		return nil, fmt.Errorf("dynlib: open %s: %w", name, err)
	}
	return &library{name: name, handle: h}, nil
}

func (l *library) Bind(fn any, name string) error {
	addr, err := purego.Dlsym(l.handle, name)
	if err != nil || addr == 0 {
		return fmt.Errorf("dynlib: %s: missing symbol %s", l.name, name)
	}
	purego.RegisterFunc(fn, addr)
	return nil
}

func (l *library) Close() error {
	if err := purego.Dlclose(l.handle); err != nil {
		return fmt.Errorf("dynlib: close %s: %w", l.name, err)
	}
	return nil
}
