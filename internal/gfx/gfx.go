// Package gfx describes the graphics environment the renderer runs against:
// a host that owns on-screen surfaces, the surfaces themselves, and the
// OpenGL ES 2.0 style context bound to each surface.
//
// The renderer only talks to these interfaces. internal/desktop implements
// them with GLFW and go-gl; internal/gfx/gfxtest implements them in memory.
package gfx

import (
	"context"
	"time"
)

// Stage identifies a programmable pipeline stage.
type Stage int

const (
	VertexStage Stage = iota
	FragmentStage
)

func (s Stage) String() string {
	switch s {
	case VertexStage:
		return "vertex"
	case FragmentStage:
		return "fragment"
	default:
		return "unknown"
	}
}

// Object names handed out by a Context. Zero is never a valid object.
type (
	Shader  uint32
	Program uint32
	Buffer  uint32
)

// Location is an attribute or uniform slot. Lookups of names the linked
// program does not use return NoLocation.
type Location int32

const NoLocation Location = -1

// Valid reports whether the lookup found the slot.
func (l Location) Valid() bool { return l >= 0 }

// Context is the subset of the GLES2 API the renderer needs.
// All calls happen on the thread that owns the surface.
type Context interface {
	CreateShader(stage Stage) Shader
	ShaderSource(shader Shader, source string)
	CompileShader(shader Shader)
	ShaderCompiled(shader Shader) bool
	ShaderInfoLog(shader Shader) string
	DeleteShader(shader Shader)

	CreateProgram() Program
	AttachShader(program Program, shader Shader)
	LinkProgram(program Program)
	ProgramLinked(program Program) bool
	ProgramInfoLog(program Program) string
	UseProgram(program Program)
	DeleteProgram(program Program)

	// BufferStaticData binds buffer as the array buffer and uploads data
	// with static usage.
	CreateBuffer() Buffer
	BufferStaticData(buffer Buffer, data []float32)
	DeleteBuffer(buffer Buffer)

	AttribLocation(program Program, name string) Location
	EnableVertexAttrib(loc Location)
	// VertexAttribFloats reads size float components per vertex from the
	// bound array buffer, unnormalized, tightly packed, from offset zero.
	VertexAttribFloats(loc Location, size int32)

	UniformLocation(program Program, name string) Location
	Uniform1f(loc Location, v float32)
	Uniform2f(loc Location, x, y float32)

	Viewport(width, height int)
	Clear()
	DrawTriangleStrip(first, count int32)

	// ReadPixels returns RGBA rows of the color buffer, bottom row first.
	ReadPixels(width, height int) []byte
}

// Surface is an on-screen drawable with a stable identifier.
type Surface interface {
	ID() string
	// Size is the drawable size in pixels.
	Size() (width, height int)
	// Context negotiates a context with the given capabilities. It returns
	// an error when the option set cannot be satisfied. Once a context
	// exists, later calls return it unchanged.
	Context(opts ContextOptions) (Context, error)
	// Settle yields to the host for d so the surface can finish layout.
	Settle(ctx context.Context, d time.Duration) error
	// RequestFrame queues fn for the host's next frame.
	RequestFrame(fn func())
	// Destroy releases the surface, its context and any queued frames,
	// and removes it from the host.
	Destroy()
}

// Host owns the set of surfaces, at most one per identifier.
type Host interface {
	Lookup(id string) (Surface, bool)
	// CreateSurface adds a new surface at the lowest visual layer, behind
	// all other content. An existing surface with the same id is destroyed first.
	CreateSurface(id string, width, height int) (Surface, error)
	// Viewport is the default surface size.
	Viewport() (width, height int)
	// Supported reports whether the host can produce any context at all.
	Supported() bool
}
