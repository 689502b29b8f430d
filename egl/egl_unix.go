// SPDX-License-Identifier: Unlicense OR MIT

//go:build (linux && !android) || freebsd

package egl

import (
	"fmt"
	"os"
	"sync"
	"unsafe"

	"github.com/go-gfx/glctx/internal/dynlib"
)

const defaultEGLLib = "libEGL.so.1"

var _ API = (*libEGL)(nil)

var (
	loadOnce sync.Once
	loaded   *libEGL
	loadErr  error
)

// Load binds libEGL at first use and returns the production API. The
// library name can be overridden with GLCTX_EGL_LIB. The library stays
// loaded for the lifetime of the process.
func Load() (API, error) {
	loadOnce.Do(func() {
		name := defaultEGLLib
		if s := os.Getenv("GLCTX_EGL_LIB"); s != "" {
			name = s
		}
		lib, err := dynlib.Open(name, dynlib.Now|dynlib.Global)
		if err != nil {
			loadErr = fmt.Errorf("egl: %w", err)
			return
		}
		e := new(libEGL)
		for _, s := range []struct {
			fn   any
			name string
		}{
			{&e.getError, "eglGetError"},
			{&e.queryString, "eglQueryString"},
			{&e.getPlatformDisplay, "eglGetPlatformDisplay"},
			{&e.initialize, "eglInitialize"},
			{&e.terminate, "eglTerminate"},
			{&e.bindAPI, "eglBindAPI"},
			{&e.chooseConfig, "eglChooseConfig"},
			{&e.getConfigAttrib, "eglGetConfigAttrib"},
			{&e.createContext, "eglCreateContext"},
			{&e.destroyContext, "eglDestroyContext"},
			{&e.createPlatformWindowSurface, "eglCreatePlatformWindowSurface"},
			{&e.destroySurface, "eglDestroySurface"},
			{&e.querySurface, "eglQuerySurface"},
			{&e.makeCurrent, "eglMakeCurrent"},
			{&e.swapBuffers, "eglSwapBuffers"},
			{&e.swapInterval, "eglSwapInterval"},
			{&e.getProcAddress, "eglGetProcAddress"},
			{&e.releaseThread, "eglReleaseThread"},
		} {
			if err := lib.Bind(s.fn, s.name); err != nil {
				loadErr = fmt.Errorf("egl: %w", err)
				return
			}
		}
		loaded = e
	})
	if loadErr != nil {
		return nil, loadErr
	}
	return loaded, nil
}

// libEGL implements API on top of the runtime loaded EGL library.
type libEGL struct {
	getError                    func() Int
	queryString                 func(dpy Display, name Int) string
	getPlatformDisplay          func(platform uint32, native unsafe.Pointer, attribs *Attrib) Display
	initialize                  func(dpy Display, major, minor *Int) uint32
	terminate                   func(dpy Display) uint32
	bindAPI                     func(api uint32) uint32
	chooseConfig                func(dpy Display, attribs *Int, configs *Config, size Int, n *Int) uint32
	getConfigAttrib             func(dpy Display, cfg Config, attrib Int, value *Int) uint32
	createContext               func(dpy Display, cfg Config, share Ctx, attribs *Int) Ctx
	destroyContext              func(dpy Display, ctx Ctx) uint32
	createPlatformWindowSurface func(dpy Display, cfg Config, win uintptr, attribs *Attrib) Surface
	destroySurface              func(dpy Display, surf Surface) uint32
	querySurface                func(dpy Display, surf Surface, attrib Int, value *Int) uint32
	makeCurrent                 func(dpy Display, draw, read Surface, ctx Ctx) uint32
	swapBuffers                 func(dpy Display, surf Surface) uint32
	swapInterval                func(dpy Display, interval Int) uint32
	getProcAddress              func(name string) uintptr
	releaseThread               func() uint32
}

// attribList null- or EGL_NONE-terminates an attribute list for the C
// side. A nil return means no attributes.
func attribList(attribs []Attrib) *Attrib {
	if len(attribs) == 0 {
		return nil
	}
	a := append([]Attrib(nil), attribs...)
	if a[len(a)-1] != _EGL_NONE {
		a = append(a, _EGL_NONE)
	}
	return &a[0]
}

func (e *libEGL) GetError() Int { return e.getError() }

func (e *libEGL) QueryString(dpy Display, name Int) string {
	return e.queryString(dpy, name)
}

func (e *libEGL) GetPlatformDisplay(platform uint32, native unsafe.Pointer, attribs []Attrib) Display {
	return e.getPlatformDisplay(platform, native, attribList(attribs))
}

func (e *libEGL) Initialize(dpy Display) (Int, Int, bool) {
	var major, minor Int
	ok := e.initialize(dpy, &major, &minor) != 0
	return major, minor, ok
}

func (e *libEGL) Terminate(dpy Display) bool { return e.terminate(dpy) != 0 }

func (e *libEGL) BindAPI(api uint32) bool { return e.bindAPI(api) != 0 }

func (e *libEGL) ChooseConfig(dpy Display, attribs []Int) (Config, bool) {
	var cfg Config
	var n Int
	if e.chooseConfig(dpy, &attribs[0], &cfg, 1, &n) == 0 {
		return NoConfig, false
	}
	if n == 0 {
		return NoConfig, true
	}
	return cfg, true
}

func (e *libEGL) GetConfigAttrib(dpy Display, cfg Config, attrib Int) (Int, bool) {
	var val Int
	ok := e.getConfigAttrib(dpy, cfg, attrib, &val) != 0
	return val, ok
}

func (e *libEGL) CreateContext(dpy Display, cfg Config, share Ctx, attribs []Int) Ctx {
	return e.createContext(dpy, cfg, share, &attribs[0])
}

func (e *libEGL) DestroyContext(dpy Display, ctx Ctx) bool {
	return e.destroyContext(dpy, ctx) != 0
}

func (e *libEGL) CreatePlatformWindowSurface(dpy Display, cfg Config, win uintptr, attribs []Attrib) Surface {
	return e.createPlatformWindowSurface(dpy, cfg, win, attribList(attribs))
}

func (e *libEGL) DestroySurface(dpy Display, surf Surface) bool {
	return e.destroySurface(dpy, surf) != 0
}

func (e *libEGL) QuerySurface(dpy Display, surf Surface, attrib Int) (Int, bool) {
	var val Int
	ok := e.querySurface(dpy, surf, attrib, &val) != 0
	return val, ok
}

func (e *libEGL) MakeCurrent(dpy Display, draw, read Surface, ctx Ctx) bool {
	return e.makeCurrent(dpy, draw, read, ctx) != 0
}

func (e *libEGL) SwapBuffers(dpy Display, surf Surface) bool {
	return e.swapBuffers(dpy, surf) != 0
}

func (e *libEGL) SwapInterval(dpy Display, interval Int) bool {
	return e.swapInterval(dpy, interval) != 0
}

func (e *libEGL) GetProcAddress(name string) uintptr {
	return e.getProcAddress(name)
}

func (e *libEGL) ReleaseThread() bool { return e.releaseThread() != 0 }
