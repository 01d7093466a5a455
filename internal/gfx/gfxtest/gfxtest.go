// Package gfxtest provides an in-memory graphics host for tests.
//
// Surfaces never draw anything; they record context negotiation attempts,
// queued frame callbacks and every GL call that matters to the renderer.
// Frames only run when a test calls Surface.Tick.
package gfxtest

import (
	"context"
	"strings"
	"time"

	"shaderbg/internal/gfx"
)

// Host is a stub gfx.Host.
type Host struct {
	Width, Height int

	// Unsupported makes Supported report false.
	Unsupported bool
	// FailContexts is the number of leading option sets that fail on each
	// surface. NoContext makes every option set fail.
	FailContexts int
	NoContext    bool

	// Compiler decides whether a shader compiles. Nil accepts everything.
	Compiler func(stage gfx.Stage, source string) (ok bool, log string)
	// Linker decides whether a program links. Nil accepts everything.
	Linker func(vertex, fragment string) (ok bool, log string)

	Created   []string
	Destroyed []string

	surfaces map[string]*Surface
}

var _ gfx.Host = (*Host)(nil)

// NewHost returns a host with the given viewport size.
func NewHost(width, height int) *Host {
	return &Host{Width: width, Height: height, surfaces: make(map[string]*Surface)}
}

func (h *Host) Lookup(id string) (gfx.Surface, bool) {
	s, ok := h.surfaces[id]
	if !ok {
		return nil, false
	}
	return s, true
}

// Surface returns the live stub surface for id, or nil.
func (h *Host) Surface(id string) *Surface {
	return h.surfaces[id]
}

func (h *Host) CreateSurface(id string, width, height int) (gfx.Surface, error) {
	if old, ok := h.surfaces[id]; ok {
		old.Destroy()
	}
	s := &Surface{host: h, id: id, width: width, height: height}
	h.surfaces[id] = s
	h.Created = append(h.Created, id)
	return s, nil
}

func (h *Host) Viewport() (int, int) { return h.Width, h.Height }

func (h *Host) Supported() bool { return !h.Unsupported }

// Surface is a stub gfx.Surface.
type Surface struct {
	host          *Host
	id            string
	width, height int

	// Attempts records every option set passed to Context.
	Attempts []gfx.ContextOptions
	// Settled records every Settle duration.
	Settled []time.Duration

	gl        *Context
	pending   []func()
	destroyed bool
}

var _ gfx.Surface = (*Surface)(nil)

func (s *Surface) ID() string { return s.id }

func (s *Surface) Size() (int, int) { return s.width, s.height }

// Resize changes the drawable size without notifying anyone.
func (s *Surface) Resize(width, height int) {
	s.width, s.height = width, height
}

func (s *Surface) Context(opts gfx.ContextOptions) (gfx.Context, error) {
	if s.destroyed {
		return nil, errDestroyed
	}
	if s.gl != nil {
		return s.gl, nil
	}
	s.Attempts = append(s.Attempts, opts)
	if s.host.NoContext || len(s.Attempts) <= s.host.FailContexts {
		return nil, errNoContext
	}
	s.gl = newContext(s.host)
	return s.gl, nil
}

func (s *Surface) Settle(ctx context.Context, d time.Duration) error {
	s.Settled = append(s.Settled, d)
	return ctx.Err()
}

func (s *Surface) RequestFrame(fn func()) {
	if s.destroyed {
		return
	}
	s.pending = append(s.pending, fn)
}

// Tick runs the callbacks queued before the call. Callbacks they request
// are queued for the next Tick. It returns the number of callbacks run.
func (s *Surface) Tick() int {
	frames := s.pending
	s.pending = nil
	for _, fn := range frames {
		fn()
	}
	return len(frames)
}

// Pending is the number of queued frame callbacks.
func (s *Surface) Pending() int { return len(s.pending) }

// TakePending removes and returns the queued callbacks without running them.
func (s *Surface) TakePending() []func() {
	frames := s.pending
	s.pending = nil
	return frames
}

// GL returns the negotiated context, or nil.
func (s *Surface) GL() *Context { return s.gl }

func (s *Surface) Destroyed() bool { return s.destroyed }

func (s *Surface) Destroy() {
	if s.destroyed {
		return
	}
	s.destroyed = true
	s.pending = nil
	if cur, ok := s.host.surfaces[s.id]; ok && cur == s {
		delete(s.host.surfaces, s.id)
	}
	s.host.Destroyed = append(s.host.Destroyed, s.id)
}

type stubError string

func (e stubError) Error() string { return string(e) }

const (
	errNoContext = stubError("gfxtest: option set rejected")
	errDestroyed = stubError("gfxtest: surface destroyed")
)

// Draw is one recorded draw call.
type Draw struct {
	Program      gfx.Program
	First, Count int32
}

type shaderObject struct {
	stage    gfx.Stage
	source   string
	compiled bool
	log      string
	deleted  bool
}

type programObject struct {
	shaders []gfx.Shader
	linked  bool
	log     string
	deleted bool
}

// Context is a stub gfx.Context that records state.
type Context struct {
	host *Host
	next uint32

	shaders  map[gfx.Shader]*shaderObject
	programs map[gfx.Program]*programObject
	buffers  map[gfx.Buffer][]float32

	locations map[gfx.Location]string

	// Current is the program made current by UseProgram.
	Current gfx.Program
	// Enabled maps enabled attribute slots to their component count.
	Enabled map[gfx.Location]int32
	// Uniforms holds the last value set per uniform name.
	Uniforms map[string][]float32
	// UniformSets counts set calls per uniform name.
	UniformSets  map[string]int
	Draws        []Draw
	Clears       int
	ViewportSize [2]int
}

var _ gfx.Context = (*Context)(nil)

func newContext(h *Host) *Context {
	return &Context{
		host:        h,
		shaders:     make(map[gfx.Shader]*shaderObject),
		programs:    make(map[gfx.Program]*programObject),
		buffers:     make(map[gfx.Buffer][]float32),
		locations:   make(map[gfx.Location]string),
		Enabled:     make(map[gfx.Location]int32),
		Uniforms:    make(map[string][]float32),
		UniformSets: make(map[string]int),
	}
}

func (c *Context) id() uint32 {
	c.next++
	return c.next
}

func (c *Context) CreateShader(stage gfx.Stage) gfx.Shader {
	sh := gfx.Shader(c.id())
	c.shaders[sh] = &shaderObject{stage: stage}
	return sh
}

func (c *Context) ShaderSource(sh gfx.Shader, source string) {
	if obj := c.shaders[sh]; obj != nil {
		obj.source = source
	}
}

func (c *Context) CompileShader(sh gfx.Shader) {
	obj := c.shaders[sh]
	if obj == nil {
		return
	}
	obj.compiled, obj.log = true, ""
	if c.host.Compiler != nil {
		obj.compiled, obj.log = c.host.Compiler(obj.stage, obj.source)
	}
}

func (c *Context) ShaderCompiled(sh gfx.Shader) bool {
	obj := c.shaders[sh]
	return obj != nil && obj.compiled
}

func (c *Context) ShaderInfoLog(sh gfx.Shader) string {
	if obj := c.shaders[sh]; obj != nil {
		return obj.log
	}
	return ""
}

func (c *Context) DeleteShader(sh gfx.Shader) {
	if obj := c.shaders[sh]; obj != nil {
		obj.deleted = true
	}
}

// ShaderSourceOf returns the source of the attached shader of the given stage.
func (c *Context) ShaderSourceOf(p gfx.Program, stage gfx.Stage) string {
	obj := c.programs[p]
	if obj == nil {
		return ""
	}
	for _, sh := range obj.shaders {
		if s := c.shaders[sh]; s != nil && s.stage == stage {
			return s.source
		}
	}
	return ""
}

// LiveShaders counts shaders that were created and not deleted.
func (c *Context) LiveShaders() int {
	n := 0
	for _, obj := range c.shaders {
		if !obj.deleted {
			n++
		}
	}
	return n
}

func (c *Context) CreateProgram() gfx.Program {
	p := gfx.Program(c.id())
	c.programs[p] = &programObject{}
	return p
}

func (c *Context) AttachShader(p gfx.Program, sh gfx.Shader) {
	if obj := c.programs[p]; obj != nil {
		obj.shaders = append(obj.shaders, sh)
	}
}

func (c *Context) LinkProgram(p gfx.Program) {
	obj := c.programs[p]
	if obj == nil {
		return
	}
	obj.linked = len(obj.shaders) == 2
	for _, sh := range obj.shaders {
		if !c.ShaderCompiled(sh) {
			obj.linked, obj.log = false, "attached shader not compiled"
			return
		}
	}
	if obj.linked && c.host.Linker != nil {
		obj.linked, obj.log = c.host.Linker(c.ShaderSourceOf(p, gfx.VertexStage), c.ShaderSourceOf(p, gfx.FragmentStage))
	}
}

func (c *Context) ProgramLinked(p gfx.Program) bool {
	obj := c.programs[p]
	return obj != nil && obj.linked
}

func (c *Context) ProgramInfoLog(p gfx.Program) string {
	if obj := c.programs[p]; obj != nil {
		return obj.log
	}
	return ""
}

func (c *Context) UseProgram(p gfx.Program) { c.Current = p }

func (c *Context) DeleteProgram(p gfx.Program) {
	if obj := c.programs[p]; obj != nil {
		obj.deleted = true
	}
	if c.Current == p {
		c.Current = 0
	}
}

// ProgramDeleted reports whether DeleteProgram was called for p.
func (c *Context) ProgramDeleted(p gfx.Program) bool {
	obj := c.programs[p]
	return obj != nil && obj.deleted
}

func (c *Context) CreateBuffer() gfx.Buffer {
	b := gfx.Buffer(c.id())
	c.buffers[b] = nil
	return b
}

func (c *Context) BufferStaticData(b gfx.Buffer, data []float32) {
	c.buffers[b] = append([]float32(nil), data...)
}

func (c *Context) DeleteBuffer(b gfx.Buffer) { delete(c.buffers, b) }

// BufferData returns the contents uploaded to b.
func (c *Context) BufferData(b gfx.Buffer) ([]float32, bool) {
	data, ok := c.buffers[b]
	return data, ok
}

// lookup hands out a location when the program's stage source mentions name.
func (c *Context) lookup(p gfx.Program, stage gfx.Stage, name string) gfx.Location {
	if !c.ProgramLinked(p) || !strings.Contains(c.ShaderSourceOf(p, stage), name) {
		return gfx.NoLocation
	}
	loc := gfx.Location(c.id())
	c.locations[loc] = name
	return loc
}

func (c *Context) AttribLocation(p gfx.Program, name string) gfx.Location {
	return c.lookup(p, gfx.VertexStage, name)
}

func (c *Context) EnableVertexAttrib(loc gfx.Location) {
	if _, ok := c.Enabled[loc]; !ok {
		c.Enabled[loc] = 0
	}
}

func (c *Context) VertexAttribFloats(loc gfx.Location, size int32) {
	c.Enabled[loc] = size
}

func (c *Context) UniformLocation(p gfx.Program, name string) gfx.Location {
	return c.lookup(p, gfx.FragmentStage, name)
}

func (c *Context) setUniform(loc gfx.Location, values ...float32) {
	name, ok := c.locations[loc]
	if !ok {
		return
	}
	c.Uniforms[name] = values
	c.UniformSets[name]++
}

func (c *Context) Uniform1f(loc gfx.Location, v float32) { c.setUniform(loc, v) }

func (c *Context) Uniform2f(loc gfx.Location, x, y float32) { c.setUniform(loc, x, y) }

func (c *Context) Viewport(width, height int) { c.ViewportSize = [2]int{width, height} }

func (c *Context) Clear() { c.Clears++ }

func (c *Context) DrawTriangleStrip(first, count int32) {
	c.Draws = append(c.Draws, Draw{Program: c.Current, First: first, Count: count})
}

// DrawsWith counts draws issued while p was current.
func (c *Context) DrawsWith(p gfx.Program) int {
	n := 0
	for _, d := range c.Draws {
		if d.Program == p {
			n++
		}
	}
	return n
}

func (c *Context) ReadPixels(width, height int) []byte {
	return make([]byte, width*height*4)
}
