// SPDX-License-Identifier: Unlicense OR MIT

// Package dynlib loads shared libraries at runtime and binds their
// symbols to Go functions. Library presence is probed, never assumed:
// a missing library is an ordinary error.
package dynlib

// Library is an open shared library handle.
type Library interface {
	// Bind resolves name and binds it to the Go function pointed to
	// by fn. fn must be a pointer to a function variable whose
	// signature matches the symbol.
	Bind(fn any, name string) error

	// Close unloads the library. The functions bound from it must
	// not be called afterwards.
	Close() error
}

// OpenFunc opens a shared library by name. It matches Open and exists
// so callers can substitute a fake facility.
type OpenFunc func(name string, flags int) (Library, error)
