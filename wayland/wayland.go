// SPDX-License-Identifier: Unlicense OR MIT

//go:build (linux && !android) || freebsd

// Package wayland binds EGL rendering surfaces to wl_surface handles
// supplied by a host application. The wayland-egl shim library that
// bridges wl_surface to EGL is an optional system component and is
// loaded at runtime; its absence is reported as an ordinary error so
// hosts can fall back to another backend.
package wayland

import (
	"errors"
	"fmt"
	"os"
	"unsafe"

	"github.com/charmbracelet/log"

	"github.com/go-gfx/glctx"
	"github.com/go-gfx/glctx/egl"
	"github.com/go-gfx/glctx/internal/dynlib"
)

const shimLib = "libwayland-egl.so.1"

var _ egl.Platform = (*Context)(nil)

// Context is an EGL context whose drawable surface is backed by a
// wl_egl_window bridging the host's wl_surface. Each Context owns its
// own copy of the shim library; shared contexts share only the EGL
// display and capability flags, by reference.
type Context struct {
	*egl.Context

	open dynlib.OpenFunc
	api  egl.API

	lib dynlib.Library

	createWindow  func(surf unsafe.Pointer, width, height int32) uintptr
	destroyWindow func(win uintptr)
	resizeWindow  func(win uintptr, width, height, dx, dy int32)

	// win is the live wl_egl_window, at most one per Context.
	win uintptr
}

// Option configures a Context before creation.
type Option func(*Context)

// WithLoader substitutes the shared library facility.
func WithLoader(open dynlib.OpenFunc) Option {
	return func(c *Context) { c.open = open }
}

// WithAPI substitutes the EGL implementation.
func WithAPI(api egl.API) Option {
	return func(c *Context) { c.api = api }
}

// New creates a context and surface for the window described by wi,
// negotiating the first GL version in versions the driver accepts.
func New(wi *glctx.WindowInfo, versions []egl.Version, opts ...Option) (*Context, error) {
	c := newContext(opts)
	if err := c.loadShim(); err != nil {
		c.Release()
		return nil, err
	}
	api := c.api
	if api == nil {
		var err error
		if api, err = egl.Load(); err != nil {
			c.Release()
			return nil, err
		}
	}
	c.Context = egl.NewContext(api, c, wi)
	if err := c.Initialize(versions); err != nil {
		c.Release()
		return nil, err
	}
	log.Info("EGL platform: Wayland")
	return c, nil
}

// NewShared creates a context targeting a different native window that
// shares c's display and GL object namespace. The new context is not
// made current.
func (c *Context) NewShared(wi *glctx.WindowInfo) (*Context, error) {
	s := &Context{open: c.open, api: c.api}
	if err := s.loadShim(); err != nil {
		s.Release()
		return nil, err
	}
	s.Context = egl.NewSharedContext(c.Context, s, wi)
	if err := s.CreateContextAndSurface(c.NegotiatedVersion(), c.ContextHandle(), false); err != nil {
		s.Release()
		return nil, err
	}
	return s, nil
}

func newContext(opts []Option) *Context {
	c := &Context{open: dynlib.Open}
	for _, o := range opts {
		o(c)
	}
	return c
}

// loadShim opens the wayland-egl shim library and resolves the three
// wl_egl_window entry points. Global symbol visibility is required so
// the EGL implementation's own lookups resolve against it. Must be
// called exactly once per Context.
func (c *Context) loadShim() error {
	name := shimLib
	if s := os.Getenv("GLCTX_WAYLAND_EGL_LIB"); s != "" {
		name = s
	}
	lib, err := c.open(name, dynlib.Now|dynlib.Global)
	if err != nil {
		log.Errorf("failed to load %s", name)
		return fmt.Errorf("wayland: %w", err)
	}
	c.lib = lib
	for _, s := range []struct {
		fn   any
		name string
	}{
		{&c.createWindow, "wl_egl_window_create"},
		{&c.destroyWindow, "wl_egl_window_destroy"},
		{&c.resizeWindow, "wl_egl_window_resize"},
	} {
		// The library stays open on failure; Release closes it.
		if err := lib.Bind(s.fn, s.name); err != nil {
			log.Errorf("failed to resolve %s from %s", s.name, name)
			return fmt.Errorf("wayland: %w", err)
		}
	}
	return nil
}

// PlatformDisplay implements egl.Platform.
func (c *Context) PlatformDisplay(attribs []egl.Attrib) (egl.Display, error) {
	if !c.HasExtension("EGL_KHR_platform_wayland", "EGL_EXT_platform_wayland") {
		return egl.NoDisplay, errors.New("wayland: EGL_KHR_platform_wayland not supported")
	}
	dpy := c.API().GetPlatformDisplay(egl.PlatformWaylandKHR, c.WindowInfo().DisplayConn, attribs)
	if dpy == egl.NoDisplay {
		e := c.API().GetError()
		return egl.NoDisplay, fmt.Errorf("wayland: eglGetPlatformDisplay failed: %d (0x%x)", e, e)
	}
	return dpy, nil
}

// CreatePlatformSurface implements egl.Platform. A wl_egl_window left
// over from an earlier surface is destroyed first, and the window is
// rolled back if EGL rejects the surface, so no orphaned shim object
// survives this call in either direction.
func (c *Context) CreatePlatformSurface(cfg egl.Config, attribs []egl.Attrib) (egl.Surface, error) {
	if c.win != 0 {
		c.destroyWindow(c.win)
		c.win = 0
	}
	wi := c.WindowInfo()
	win := c.createWindow(wi.WindowHandle, int32(wi.SurfaceWidth), int32(wi.SurfaceHeight))
	if win == 0 {
		return egl.NoSurface, errors.New("wayland: wl_egl_window_create failed")
	}
	c.win = win
	surf := c.API().CreatePlatformWindowSurface(c.Display(), cfg, win, attribs)
	if surf == egl.NoSurface {
		e := c.API().GetError()
		c.destroyWindow(c.win)
		c.win = 0
		return egl.NoSurface, fmt.Errorf("wayland: eglCreatePlatformWindowSurface failed: %d (0x%x)", e, e)
	}
	return surf, nil
}

// ResizeSurface resizes the wl_egl_window to the new dimensions. The
// dx/dy offsets stay zero; the compositor tracks position separately
// from size.
func (c *Context) ResizeSurface(width, height int) {
	if c.win != 0 {
		c.resizeWindow(c.win, int32(width), int32(height), 0, 0)
	}
	c.Context.ResizeSurface(width, height)
}

// Release tears the context down. The order is fixed: EGL surface and
// context first, then the wl_egl_window, and the shim library last,
// since destroying the window calls into the library about to be
// closed.
func (c *Context) Release() {
	if c.Context != nil {
		c.Context.Release()
	}
	if c.win != 0 {
		c.destroyWindow(c.win)
		c.win = 0
	}
	if c.lib != nil {
		c.lib.Close()
		c.lib = nil
	}
}
