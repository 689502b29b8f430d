// SPDX-License-Identifier: Unlicense OR MIT

package egl

import "unsafe"

// Raw EGL handle types.
type (
	Display uintptr
	Config  uintptr
	Ctx     uintptr
	Surface uintptr

	// Int is EGLint, Attrib is EGLAttrib.
	Int    int32
	Attrib uintptr
)

const (
	NoDisplay Display = 0
	NoConfig  Config  = 0
	NoContext Ctx     = 0
	NoSurface Surface = 0
)

const (
	_EGL_ALPHA_SIZE                       = 0x3021
	_EGL_BLUE_SIZE                        = 0x3022
	_EGL_CONFIG_CAVEAT                    = 0x3027
	_EGL_CONTEXT_MAJOR_VERSION            = 0x3098
	_EGL_CONTEXT_MINOR_VERSION            = 0x30fb
	_EGL_CONTEXT_OPENGL_CORE_PROFILE_BIT  = 0x1
	_EGL_CONTEXT_OPENGL_PROFILE_MASK      = 0x30fd
	_EGL_DEPTH_SIZE                       = 0x3025
	_EGL_EXTENSIONS                       = 0x3055
	_EGL_GREEN_SIZE                       = 0x3023
	_EGL_HEIGHT                           = 0x3056
	_EGL_NONE                             = 0x3038
	_EGL_OPENGL_API                       = 0x30a2
	_EGL_OPENGL_BIT                       = 0x8
	_EGL_OPENGL_ES_API                    = 0x30a0
	_EGL_OPENGL_ES2_BIT                   = 0x4
	_EGL_OPENGL_ES3_BIT                   = 0x40
	_EGL_RED_SIZE                         = 0x3024
	_EGL_RENDERABLE_TYPE                  = 0x3040
	_EGL_SURFACE_TYPE                     = 0x3033
	_EGL_WIDTH                            = 0x3057
	_EGL_WINDOW_BIT                       = 0x4
)

// PlatformWaylandKHR is the EGL_PLATFORM_WAYLAND_KHR platform constant
// accepted by eglGetPlatformDisplay.
const PlatformWaylandKHR = 0x31d8

// API is the subset of the EGL entry points the context machinery
// consumes. The production implementation binds libEGL at runtime; tests
// substitute a fake.
type API interface {
	GetError() Int
	QueryString(dpy Display, name Int) string

	GetPlatformDisplay(platform uint32, native unsafe.Pointer, attribs []Attrib) Display
	Initialize(dpy Display) (major, minor Int, ok bool)
	Terminate(dpy Display) bool

	BindAPI(api uint32) bool
	ChooseConfig(dpy Display, attribs []Int) (Config, bool)
	GetConfigAttrib(dpy Display, cfg Config, attrib Int) (Int, bool)

	CreateContext(dpy Display, cfg Config, share Ctx, attribs []Int) Ctx
	DestroyContext(dpy Display, ctx Ctx) bool

	CreatePlatformWindowSurface(dpy Display, cfg Config, win uintptr, attribs []Attrib) Surface
	DestroySurface(dpy Display, surf Surface) bool
	QuerySurface(dpy Display, surf Surface, attrib Int) (Int, bool)

	MakeCurrent(dpy Display, draw, read Surface, ctx Ctx) bool
	SwapBuffers(dpy Display, surf Surface) bool
	SwapInterval(dpy Display, interval Int) bool

	GetProcAddress(name string) uintptr
	ReleaseThread() bool
}
