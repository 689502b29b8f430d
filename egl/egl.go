// SPDX-License-Identifier: Unlicense OR MIT

// Package egl negotiates EGL displays, contexts and drawable surfaces.
// The windowing system specific parts are supplied through the Platform
// interface; package wayland provides the Wayland implementation.
package egl

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/go-gfx/glctx"
)

// Profile selects the GL variant a Version refers to.
type Profile uint8

const (
	// NoProfile is compatibility/legacy desktop GL.
	NoProfile Profile = iota
	// Core is a desktop GL core profile.
	Core
	// ES is OpenGL ES.
	ES
)

// Version is a GL version acceptable to the host.
type Version struct {
	Profile Profile
	Major   int
	Minor   int
}

func (v Version) String() string {
	switch v.Profile {
	case Core:
		return fmt.Sprintf("OpenGL %d.%d Core", v.Major, v.Minor)
	case ES:
		return fmt.Sprintf("OpenGL ES %d.%d", v.Major, v.Minor)
	default:
		return fmt.Sprintf("OpenGL %d.%d", v.Major, v.Minor)
	}
}

// Platform supplies the windowing system specific steps of context
// initialization. Both hooks are invoked by Initialize: PlatformDisplay
// once to acquire the display, CreatePlatformSurface once per context
// and surface creation (and again on surface recreation).
type Platform interface {
	PlatformDisplay(attribs []Attrib) (Display, error)
	CreatePlatformSurface(cfg Config, attribs []Attrib) (Surface, error)
}

// Context holds the negotiated EGL display, config, context and surface
// for one native window.
type Context struct {
	api      API
	platform Platform
	wi       *glctx.WindowInfo

	display Display
	config  Config
	ctx     Ctx
	surface Surface
	version Version

	// ownsDisplay is false for shared contexts, which borrow the
	// display of the context they were created from.
	ownsDisplay bool
	surfaceless bool
}

// NewContext returns an uninitialized context. Initialize must be called
// before any other operation.
func NewContext(api API, p Platform, wi *glctx.WindowInfo) *Context {
	return &Context{api: api, platform: p, wi: wi}
}

// NewSharedContext returns an uninitialized context sharing parent's
// display and capabilities. The caller completes it with
// CreateContextAndSurface, passing parent's context handle.
func NewSharedContext(parent *Context, p Platform, wi *glctx.WindowInfo) *Context {
	return &Context{
		api:         parent.api,
		platform:    p,
		wi:          wi,
		display:     parent.display,
		surfaceless: parent.surfaceless,
	}
}

// Initialize acquires the platform display and creates a context and
// surface for the first version in versions the driver accepts.
func (c *Context) Initialize(versions []Version) error {
	if len(versions) == 0 {
		return errors.New("egl: no acceptable versions")
	}
	dpy, err := c.platform.PlatformDisplay(nil)
	if err != nil {
		return err
	}
	c.display = dpy
	c.ownsDisplay = true
	major, minor, ok := c.api.Initialize(dpy)
	if !ok {
		e := c.api.GetError()
		return fmt.Errorf("egl: eglInitialize failed: %d (0x%x)", e, e)
	}
	log.Debugf("EGL version %d.%d", major, minor)
	c.surfaceless = c.HasExtension("EGL_KHR_surfaceless_context")

	var firstErr error
	for _, v := range versions {
		err := c.CreateContextAndSurface(v, NoContext, true)
		if err == nil {
			return nil
		}
		log.Debugf("%s not available: %v", v, err)
		if firstErr == nil {
			firstErr = err
		}
	}
	return fmt.Errorf("egl: no acceptable context version: %w", firstErr)
}

// CreateContextAndSurface creates the EGL context and, unless the window
// is surfaceless, the drawable surface for version v. share may be
// NoContext. Any failure rolls back what this call allocated.
func (c *Context) CreateContextAndSurface(v Version, share Ctx, makeCurrent bool) error {
	api := uint32(_EGL_OPENGL_API)
	if v.Profile == ES {
		api = _EGL_OPENGL_ES_API
	}
	if !c.api.BindAPI(api) {
		e := c.api.GetError()
		return fmt.Errorf("egl: eglBindAPI failed: %d (0x%x)", e, e)
	}
	cfg, err := c.chooseConfig(v)
	if err != nil {
		return err
	}
	ctx := c.api.CreateContext(c.display, cfg, share, contextAttribs(v))
	if ctx == NoContext {
		e := c.api.GetError()
		return fmt.Errorf("egl: eglCreateContext for %s failed: %d (0x%x)", v, e, e)
	}
	var surf Surface
	if c.wi.Type != glctx.Surfaceless {
		surf, err = c.platform.CreatePlatformSurface(cfg, nil)
		if err != nil {
			c.api.DestroyContext(c.display, ctx)
			return err
		}
	} else if !c.surfaceless {
		c.api.DestroyContext(c.display, ctx)
		return errors.New("egl: EGL_KHR_surfaceless_context not supported")
	}
	if makeCurrent && !c.api.MakeCurrent(c.display, surf, surf, ctx) {
		e := c.api.GetError()
		if surf != NoSurface {
			c.api.DestroySurface(c.display, surf)
		}
		c.api.DestroyContext(c.display, ctx)
		return fmt.Errorf("egl: eglMakeCurrent failed: %d (0x%x)", e, e)
	}
	c.config = cfg
	c.ctx = ctx
	c.surface = surf
	c.version = v
	return nil
}

func (c *Context) chooseConfig(v Version) (Config, error) {
	renderable := Int(_EGL_OPENGL_BIT)
	if v.Profile == ES {
		renderable = _EGL_OPENGL_ES2_BIT
		if v.Major >= 3 {
			renderable = _EGL_OPENGL_ES3_BIT
		}
	}
	attribs := []Int{
		_EGL_RENDERABLE_TYPE, renderable,
		_EGL_RED_SIZE, 8,
		_EGL_GREEN_SIZE, 8,
		_EGL_BLUE_SIZE, 8,
	}
	if c.wi.Type != glctx.Surfaceless {
		attribs = append(attribs, _EGL_SURFACE_TYPE, _EGL_WINDOW_BIT)
	}
	attribs = append(attribs, _EGL_NONE)
	cfg, ok := c.api.ChooseConfig(c.display, attribs)
	if !ok {
		e := c.api.GetError()
		return NoConfig, fmt.Errorf("egl: eglChooseConfig failed: %d (0x%x)", e, e)
	}
	if cfg == NoConfig {
		return NoConfig, errors.New("egl: eglChooseConfig returned no configs")
	}
	return cfg, nil
}

func contextAttribs(v Version) []Int {
	attribs := []Int{
		_EGL_CONTEXT_MAJOR_VERSION, Int(v.Major),
		_EGL_CONTEXT_MINOR_VERSION, Int(v.Minor),
	}
	if v.Profile == Core {
		attribs = append(attribs,
			_EGL_CONTEXT_OPENGL_PROFILE_MASK, _EGL_CONTEXT_OPENGL_CORE_PROFILE_BIT)
	}
	return append(attribs, _EGL_NONE)
}

// ResizeSurface updates the cached surface dimensions. When a surface
// exists its actual size is queried back from EGL, since the driver may
// clamp it.
func (c *Context) ResizeSurface(width, height int) {
	if c.surface != NoSurface {
		if w, ok := c.api.QuerySurface(c.display, c.surface, _EGL_WIDTH); ok {
			width = int(w)
		}
		if h, ok := c.api.QuerySurface(c.display, c.surface, _EGL_HEIGHT); ok {
			height = int(h)
		}
	}
	c.wi.SurfaceWidth = width
	c.wi.SurfaceHeight = height
}

// HasExtension reports whether any of the given extension names is
// advertised. Before a display is acquired the client extension string
// is consulted.
func (c *Context) HasExtension(names ...string) bool {
	exts := strings.Split(c.api.QueryString(c.display, _EGL_EXTENSIONS), " ")
	for _, name := range names {
		for _, e := range exts {
			if e == name {
				return true
			}
		}
	}
	return false
}

func (c *Context) MakeCurrent() error {
	if !c.api.MakeCurrent(c.display, c.surface, c.surface, c.ctx) {
		e := c.api.GetError()
		return fmt.Errorf("egl: eglMakeCurrent failed: %d (0x%x)", e, e)
	}
	return nil
}

func (c *Context) DoneCurrent() {
	c.api.MakeCurrent(c.display, NoSurface, NoSurface, NoContext)
}

// SwapBuffers presents the back buffer.
func (c *Context) SwapBuffers() error {
	if !c.api.SwapBuffers(c.display, c.surface) {
		e := c.api.GetError()
		return fmt.Errorf("egl: eglSwapBuffers failed: %d (0x%x)", e, e)
	}
	return nil
}

// SetSwapInterval sets the minimum number of vblanks per buffer swap.
func (c *Context) SetSwapInterval(interval int) error {
	if !c.api.SwapInterval(c.display, Int(interval)) {
		e := c.api.GetError()
		return fmt.Errorf("egl: eglSwapInterval(%d) failed: %d (0x%x)", interval, e, e)
	}
	return nil
}

// GetProcAddress resolves a GL entry point from the EGL implementation.
func (c *Context) GetProcAddress(name string) uintptr {
	return c.api.GetProcAddress(name)
}

// Release destroys the surface and context. The display is terminated
// only by the context that acquired it; shared contexts borrow it.
// Safe to call on a partially initialized context.
func (c *Context) Release() {
	if c.ctx != NoContext {
		c.api.MakeCurrent(c.display, NoSurface, NoSurface, NoContext)
	}
	if c.surface != NoSurface {
		c.api.DestroySurface(c.display, c.surface)
		c.surface = NoSurface
	}
	if c.ctx != NoContext {
		c.api.DestroyContext(c.display, c.ctx)
		c.ctx = NoContext
	}
	if c.display != NoDisplay && c.ownsDisplay {
		c.api.Terminate(c.display)
		c.api.ReleaseThread()
	}
	c.display = NoDisplay
}

func (c *Context) API() API { return c.api }

func (c *Context) Display() Display { return c.display }

func (c *Context) ContextHandle() Ctx { return c.ctx }

func (c *Context) Surface() Surface { return c.surface }

func (c *Context) NegotiatedVersion() Version { return c.version }

func (c *Context) SupportsSurfaceless() bool { return c.surfaceless }

func (c *Context) WindowInfo() *glctx.WindowInfo { return c.wi }
