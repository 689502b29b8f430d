// SPDX-License-Identifier: Unlicense OR MIT

package egl

import (
	"errors"
	"testing"
	"unsafe"

	"github.com/go-gfx/glctx"
)

var _ API = (*fakeAPI)(nil)

type fakeAPI struct {
	exts  string
	calls []string

	// rejectMajors lists context major versions eglCreateContext
	// refuses, for exercising the negotiation loop.
	rejectMajors []Int

	makeCurrentFails bool
	surfaceW         Int
	surfaceH         Int
}

func (f *fakeAPI) record(s string) { f.calls = append(f.calls, s) }

func (f *fakeAPI) count(s string) int {
	n := 0
	for _, c := range f.calls {
		if c == s {
			n++
		}
	}
	return n
}

func (f *fakeAPI) GetError() Int { return 0x3003 }

func (f *fakeAPI) QueryString(dpy Display, name Int) string { return f.exts }

func (f *fakeAPI) GetPlatformDisplay(platform uint32, native unsafe.Pointer, attribs []Attrib) Display {
	return 1
}

func (f *fakeAPI) Initialize(dpy Display) (Int, Int, bool) {
	f.record("initialize")
	return 1, 5, true
}

func (f *fakeAPI) Terminate(dpy Display) bool {
	f.record("terminate")
	return true
}

func (f *fakeAPI) BindAPI(api uint32) bool { return true }

func (f *fakeAPI) ChooseConfig(dpy Display, attribs []Int) (Config, bool) { return 2, true }

func (f *fakeAPI) GetConfigAttrib(dpy Display, cfg Config, attrib Int) (Int, bool) {
	return 0, true
}

func (f *fakeAPI) CreateContext(dpy Display, cfg Config, share Ctx, attribs []Int) Ctx {
	// attribs starts with _EGL_CONTEXT_MAJOR_VERSION, value.
	major := attribs[1]
	for _, m := range f.rejectMajors {
		if m == major {
			f.record("createContext:rejected")
			return NoContext
		}
	}
	f.record("createContext")
	return Ctx(10 + major)
}

func (f *fakeAPI) DestroyContext(dpy Display, ctx Ctx) bool {
	f.record("destroyContext")
	return true
}

func (f *fakeAPI) CreatePlatformWindowSurface(dpy Display, cfg Config, win uintptr, attribs []Attrib) Surface {
	return 0x100
}

func (f *fakeAPI) DestroySurface(dpy Display, surf Surface) bool {
	f.record("destroySurface")
	return true
}

func (f *fakeAPI) QuerySurface(dpy Display, surf Surface, attrib Int) (Int, bool) {
	switch attrib {
	case _EGL_WIDTH:
		return f.surfaceW, f.surfaceW != 0
	case _EGL_HEIGHT:
		return f.surfaceH, f.surfaceH != 0
	}
	return 0, false
}

func (f *fakeAPI) MakeCurrent(dpy Display, draw, read Surface, ctx Ctx) bool {
	if f.makeCurrentFails && ctx != NoContext {
		return false
	}
	f.record("makeCurrent")
	return true
}

func (f *fakeAPI) SwapBuffers(dpy Display, surf Surface) bool { return true }

func (f *fakeAPI) SwapInterval(dpy Display, interval Int) bool { return true }

func (f *fakeAPI) GetProcAddress(name string) uintptr { return 0 }

func (f *fakeAPI) ReleaseThread() bool { return true }

type fakePlatform struct {
	displayErr error
	surfaceErr error

	surfaceCalls int
}

func (p *fakePlatform) PlatformDisplay(attribs []Attrib) (Display, error) {
	if p.displayErr != nil {
		return NoDisplay, p.displayErr
	}
	return 1, nil
}

func (p *fakePlatform) CreatePlatformSurface(cfg Config, attribs []Attrib) (Surface, error) {
	p.surfaceCalls++
	if p.surfaceErr != nil {
		return NoSurface, p.surfaceErr
	}
	return Surface(0x200 + p.surfaceCalls), nil
}

func testWindowInfo() *glctx.WindowInfo {
	return &glctx.WindowInfo{
		Type:          glctx.Wayland,
		SurfaceWidth:  1280,
		SurfaceHeight: 720,
	}
}

func TestInitializeVersionNegotiation(t *testing.T) {
	api := &fakeAPI{rejectMajors: []Int{4}}
	c := NewContext(api, &fakePlatform{}, testWindowInfo())
	versions := []Version{
		{Profile: Core, Major: 4, Minor: 6},
		{Profile: Core, Major: 3, Minor: 3},
	}
	if err := c.Initialize(versions); err != nil {
		t.Fatal(err)
	}
	if got, want := c.NegotiatedVersion(), versions[1]; got != want {
		t.Errorf("negotiated %v, want %v", got, want)
	}
	if api.count("makeCurrent") == 0 {
		t.Error("initialized context was not made current")
	}
}

func TestInitializeAllVersionsRejected(t *testing.T) {
	api := &fakeAPI{rejectMajors: []Int{3, 4}}
	c := NewContext(api, &fakePlatform{}, testWindowInfo())
	err := c.Initialize([]Version{
		{Profile: Core, Major: 4, Minor: 6},
		{Profile: Core, Major: 3, Minor: 3},
	})
	if err == nil {
		t.Fatal("expected error when no version is acceptable")
	}
}

func TestInitializeNoVersions(t *testing.T) {
	c := NewContext(&fakeAPI{}, &fakePlatform{}, testWindowInfo())
	if err := c.Initialize(nil); err == nil {
		t.Fatal("expected error for an empty version list")
	}
}

func TestInitializeDisplayError(t *testing.T) {
	api := &fakeAPI{}
	p := &fakePlatform{displayErr: errors.New("no display")}
	c := NewContext(api, p, testWindowInfo())
	if err := c.Initialize([]Version{{Profile: Core, Major: 3, Minor: 3}}); err == nil {
		t.Fatal("expected display acquisition error to propagate")
	}
	if api.count("initialize") != 0 {
		t.Error("eglInitialize called without a display")
	}
}

func TestSurfaceFailureRollsBackContext(t *testing.T) {
	api := &fakeAPI{}
	p := &fakePlatform{surfaceErr: errors.New("no surface")}
	c := NewContext(api, p, testWindowInfo())
	if err := c.Initialize([]Version{{Profile: Core, Major: 3, Minor: 3}}); err == nil {
		t.Fatal("expected surface failure to propagate")
	}
	if created, destroyed := api.count("createContext"), api.count("destroyContext"); created != destroyed {
		t.Errorf("%d contexts created but %d destroyed", created, destroyed)
	}
}

func TestMakeCurrentFailureRollsBack(t *testing.T) {
	api := &fakeAPI{makeCurrentFails: true}
	c := NewContext(api, &fakePlatform{}, testWindowInfo())
	if err := c.Initialize([]Version{{Profile: Core, Major: 3, Minor: 3}}); err == nil {
		t.Fatal("expected makeCurrent failure to propagate")
	}
	if api.count("destroySurface") != 1 || api.count("destroyContext") != 1 {
		t.Error("surface and context not rolled back after makeCurrent failure")
	}
}

func TestCreateContextAndSurfaceNotCurrent(t *testing.T) {
	api := &fakeAPI{}
	c := NewContext(api, &fakePlatform{}, testWindowInfo())
	if err := c.Initialize([]Version{{Profile: Core, Major: 3, Minor: 3}}); err != nil {
		t.Fatal(err)
	}
	shared := NewSharedContext(c, &fakePlatform{}, testWindowInfo())
	made := api.count("makeCurrent")
	if err := shared.CreateContextAndSurface(c.NegotiatedVersion(), c.ContextHandle(), false); err != nil {
		t.Fatal(err)
	}
	if api.count("makeCurrent") != made {
		t.Error("shared context was made current despite makeCurrent=false")
	}
	if shared.Display() != c.Display() {
		t.Error("shared context does not share the display")
	}
}

func TestSharedReleaseKeepsDisplay(t *testing.T) {
	api := &fakeAPI{}
	c := NewContext(api, &fakePlatform{}, testWindowInfo())
	if err := c.Initialize([]Version{{Profile: Core, Major: 3, Minor: 3}}); err != nil {
		t.Fatal(err)
	}
	shared := NewSharedContext(c, &fakePlatform{}, testWindowInfo())
	if err := shared.CreateContextAndSurface(c.NegotiatedVersion(), c.ContextHandle(), false); err != nil {
		t.Fatal(err)
	}
	shared.Release()
	if api.count("terminate") != 0 {
		t.Error("shared context terminated the display it borrowed")
	}
	c.Release()
	if api.count("terminate") != 1 {
		t.Error("owner release did not terminate the display")
	}
}

func TestResizeSurfaceQueriesActualSize(t *testing.T) {
	api := &fakeAPI{surfaceW: 800, surfaceH: 600}
	c := NewContext(api, &fakePlatform{}, testWindowInfo())
	if err := c.Initialize([]Version{{Profile: Core, Major: 3, Minor: 3}}); err != nil {
		t.Fatal(err)
	}
	c.ResizeSurface(1024, 768)
	wi := c.WindowInfo()
	if wi.SurfaceWidth != 800 || wi.SurfaceHeight != 600 {
		t.Errorf("cached dimensions %dx%d, want the driver's 800x600", wi.SurfaceWidth, wi.SurfaceHeight)
	}
}

func TestResizeSurfaceWithoutSurface(t *testing.T) {
	c := NewContext(&fakeAPI{}, &fakePlatform{}, testWindowInfo())
	c.ResizeSurface(640, 480)
	wi := c.WindowInfo()
	if wi.SurfaceWidth != 640 || wi.SurfaceHeight != 480 {
		t.Errorf("cached dimensions %dx%d, want 640x480", wi.SurfaceWidth, wi.SurfaceHeight)
	}
}

func TestSurfacelessRequiresExtension(t *testing.T) {
	wi := testWindowInfo()
	wi.Type = glctx.Surfaceless
	api := &fakeAPI{}
	p := &fakePlatform{}
	c := NewContext(api, p, wi)
	if err := c.Initialize([]Version{{Profile: Core, Major: 3, Minor: 3}}); err == nil {
		t.Fatal("expected error without EGL_KHR_surfaceless_context")
	}

	api = &fakeAPI{exts: "EGL_KHR_surfaceless_context"}
	p = &fakePlatform{}
	c = NewContext(api, p, wi)
	if err := c.Initialize([]Version{{Profile: Core, Major: 3, Minor: 3}}); err != nil {
		t.Fatal(err)
	}
	if p.surfaceCalls != 0 {
		t.Error("surface created for a surfaceless target")
	}
}

func TestHasExtension(t *testing.T) {
	api := &fakeAPI{exts: "EGL_KHR_platform_wayland EGL_KHR_surfaceless_context"}
	c := NewContext(api, &fakePlatform{}, testWindowInfo())
	if !c.HasExtension("EGL_KHR_platform_wayland") {
		t.Error("present extension not found")
	}
	if !c.HasExtension("EGL_EXT_platform_wayland", "EGL_KHR_platform_wayland") {
		t.Error("alternative spelling lookup failed")
	}
	if c.HasExtension("EGL_EXT_platform_x11") {
		t.Error("absent extension reported present")
	}
}

func TestVersionString(t *testing.T) {
	tests := []struct {
		v    Version
		want string
	}{
		{Version{Core, 3, 3}, "OpenGL 3.3 Core"},
		{Version{ES, 3, 0}, "OpenGL ES 3.0"},
		{Version{NoProfile, 2, 1}, "OpenGL 2.1"},
	}
	for _, tt := range tests {
		if got := tt.v.String(); got != tt.want {
			t.Errorf("%#v.String() = %q, want %q", tt.v, got, tt.want)
		}
	}
}
