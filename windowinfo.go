// SPDX-License-Identifier: Unlicense OR MIT

// Package glctx provides hardware accelerated GL rendering surfaces
// bound to native windows supplied by a host application.
package glctx

import "unsafe"

// WindowSystem identifies the windowing system a WindowInfo refers to.
type WindowSystem uint8

const (
	// Surfaceless is a headless target with no drawable surface.
	Surfaceless WindowSystem = iota
	// Wayland targets a wl_surface owned by the host application.
	Wayland
)

func (ws WindowSystem) String() string {
	switch ws {
	case Surfaceless:
		return "surfaceless"
	case Wayland:
		return "wayland"
	default:
		return "unknown"
	}
}

// WindowInfo describes the native window a rendering surface is bound to.
// The handles are owned by the host application and are only borrowed for
// the lifetime of the context created from them.
type WindowInfo struct {
	Type WindowSystem

	// DisplayConn is the display server connection, a *wl_display on
	// Wayland.
	DisplayConn unsafe.Pointer

	// WindowHandle is the native drawable, a *wl_surface on Wayland.
	WindowHandle unsafe.Pointer

	// Surface dimensions in pixels.
	SurfaceWidth  int
	SurfaceHeight int

	// SurfaceScale is the display scale factor, if known.
	SurfaceScale float32
}
