package desktop

import (
	"strings"
	"sync"

	gl "github.com/go-gl/gl/v3.1/gles2"
	"github.com/go-gl/glfw/v3.3/glfw"

	"shaderbg/internal/gfx"
)

var (
	glInitOnce sync.Once
	glInitErr  error
)

// initGL loads the GLES2 entry points. A context must be current.
func initGL() error {
	glInitOnce.Do(func() {
		glInitErr = gl.Init()
	})
	return glInitErr
}

// glContext is a gfx.Context backed by the GLES2 context of one window.
// Every call makes that window's context current first, so several surfaces
// can coexist on the main thread.
type glContext struct {
	window *glfw.Window
}

var _ gfx.Context = (*glContext)(nil)

func (c *glContext) bind() bool {
	if c.window == nil {
		return false
	}
	if glfw.GetCurrentContext() != c.window {
		c.window.MakeContextCurrent()
	}
	return true
}

// release detaches the context from its window before the window goes away.
func (c *glContext) release() {
	if c.window != nil && glfw.GetCurrentContext() == c.window {
		glfw.DetachCurrentContext()
	}
	c.window = nil
}

func infoLog(length int32, read func(int32, *uint8)) string {
	if length <= 0 {
		return ""
	}
	buf := make([]byte, length)
	read(length, &buf[0])
	return strings.TrimRight(string(buf), "\x00")
}

func (c *glContext) CreateShader(stage gfx.Stage) gfx.Shader {
	if !c.bind() {
		return 0
	}
	kind := uint32(gl.VERTEX_SHADER)
	if stage == gfx.FragmentStage {
		kind = gl.FRAGMENT_SHADER
	}
	return gfx.Shader(gl.CreateShader(kind))
}

func (c *glContext) ShaderSource(sh gfx.Shader, source string) {
	if !c.bind() {
		return
	}
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(uint32(sh), 1, csources, nil)
	free()
}

func (c *glContext) CompileShader(sh gfx.Shader) {
	if c.bind() {
		gl.CompileShader(uint32(sh))
	}
}

func (c *glContext) ShaderCompiled(sh gfx.Shader) bool {
	if !c.bind() {
		return false
	}
	var status int32
	gl.GetShaderiv(uint32(sh), gl.COMPILE_STATUS, &status)
	return status != gl.FALSE
}

func (c *glContext) ShaderInfoLog(sh gfx.Shader) string {
	if !c.bind() {
		return ""
	}
	var logLength int32
	gl.GetShaderiv(uint32(sh), gl.INFO_LOG_LENGTH, &logLength)
	return infoLog(logLength, func(n int32, buf *uint8) {
		gl.GetShaderInfoLog(uint32(sh), n, nil, buf)
	})
}

func (c *glContext) DeleteShader(sh gfx.Shader) {
	if c.bind() {
		gl.DeleteShader(uint32(sh))
	}
}

func (c *glContext) CreateProgram() gfx.Program {
	if !c.bind() {
		return 0
	}
	return gfx.Program(gl.CreateProgram())
}

func (c *glContext) AttachShader(p gfx.Program, sh gfx.Shader) {
	if c.bind() {
		gl.AttachShader(uint32(p), uint32(sh))
	}
}

func (c *glContext) LinkProgram(p gfx.Program) {
	if c.bind() {
		gl.LinkProgram(uint32(p))
	}
}

func (c *glContext) ProgramLinked(p gfx.Program) bool {
	if !c.bind() {
		return false
	}
	var status int32
	gl.GetProgramiv(uint32(p), gl.LINK_STATUS, &status)
	return status != gl.FALSE
}

func (c *glContext) ProgramInfoLog(p gfx.Program) string {
	if !c.bind() {
		return ""
	}
	var logLength int32
	gl.GetProgramiv(uint32(p), gl.INFO_LOG_LENGTH, &logLength)
	return infoLog(logLength, func(n int32, buf *uint8) {
		gl.GetProgramInfoLog(uint32(p), n, nil, buf)
	})
}

func (c *glContext) UseProgram(p gfx.Program) {
	if c.bind() {
		gl.UseProgram(uint32(p))
	}
}

func (c *glContext) DeleteProgram(p gfx.Program) {
	if c.bind() {
		gl.DeleteProgram(uint32(p))
	}
}

func (c *glContext) CreateBuffer() gfx.Buffer {
	if !c.bind() {
		return 0
	}
	var vbo uint32
	gl.GenBuffers(1, &vbo)
	return gfx.Buffer(vbo)
}

func (c *glContext) BufferStaticData(b gfx.Buffer, data []float32) {
	if !c.bind() || len(data) == 0 {
		return
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, uint32(b))
	gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, gl.Ptr(data), gl.STATIC_DRAW)
}

func (c *glContext) DeleteBuffer(b gfx.Buffer) {
	if !c.bind() {
		return
	}
	vbo := uint32(b)
	gl.DeleteBuffers(1, &vbo)
}

func (c *glContext) AttribLocation(p gfx.Program, name string) gfx.Location {
	if !c.bind() {
		return gfx.NoLocation
	}
	return gfx.Location(gl.GetAttribLocation(uint32(p), gl.Str(name+"\x00")))
}

func (c *glContext) EnableVertexAttrib(loc gfx.Location) {
	if c.bind() && loc.Valid() {
		gl.EnableVertexAttribArray(uint32(loc))
	}
}

func (c *glContext) VertexAttribFloats(loc gfx.Location, size int32) {
	if c.bind() && loc.Valid() {
		gl.VertexAttribPointer(uint32(loc), size, gl.FLOAT, false, 0, gl.PtrOffset(0))
	}
}

func (c *glContext) UniformLocation(p gfx.Program, name string) gfx.Location {
	if !c.bind() {
		return gfx.NoLocation
	}
	return gfx.Location(gl.GetUniformLocation(uint32(p), gl.Str(name+"\x00")))
}

func (c *glContext) Uniform1f(loc gfx.Location, v float32) {
	if c.bind() && loc.Valid() {
		gl.Uniform1f(int32(loc), v)
	}
}

func (c *glContext) Uniform2f(loc gfx.Location, x, y float32) {
	if c.bind() && loc.Valid() {
		gl.Uniform2f(int32(loc), x, y)
	}
}

func (c *glContext) Viewport(width, height int) {
	if c.bind() {
		gl.Viewport(0, 0, int32(width), int32(height))
	}
}

func (c *glContext) Clear() {
	if c.bind() {
		gl.ClearColor(0, 0, 0, 1)
		gl.Clear(gl.COLOR_BUFFER_BIT)
	}
}

func (c *glContext) DrawTriangleStrip(first, count int32) {
	if c.bind() {
		gl.DrawArrays(gl.TRIANGLE_STRIP, first, count)
	}
}

func (c *glContext) ReadPixels(width, height int) []byte {
	if !c.bind() || width <= 0 || height <= 0 {
		return nil
	}
	pix := make([]byte, width*height*4)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(width), int32(height), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pix))
	return pix
}
