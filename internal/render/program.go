package render

import (
	"bytes"
	"text/template"

	"shaderbg/internal/gfx"
	"shaderbg/internal/shader"
)

// PositionAttribute is the only vertex attribute the fixed vertex stage reads.
const PositionAttribute = "position"

// Full-screen vertex stage. Maps clip space [-1,1] to a [0,1] varying and to
// a pixel-space varying scaled by the surface size.
var vertexTemplate = template.Must(template.New("vertex").Parse(`attribute vec2 position;
varying vec2 v_uv;
varying vec2 fragCoord;

void main() {
    v_uv = position * 0.5 + 0.5;
    fragCoord = (position * 0.5 + 0.5) * vec2({{.Width}}.0, {{.Height}}.0);
    gl_Position = vec4(position, 0.0, 1.0);
}
`))

// VertexSource renders the vertex stage for a surface of the given size.
func VertexSource(width, height int) string {
	var b bytes.Buffer
	// The template only formats two ints; it cannot fail.
	_ = vertexTemplate.Execute(&b, struct{ Width, Height int }{width, height})
	return b.String()
}

// Program is a linked, current program and the two stages it was built from.
type Program struct {
	ID       gfx.Program
	Vertex   gfx.Shader
	Fragment gfx.Shader
}

// BuildProgram compiles the fixed vertex stage and the fragment source, links
// them and makes the program current.
//
// The fragment source is passed to the driver untouched; the driver's
// compiler is the only validator. A compile failure returns a CompileError
// tagged with the stage and its info log without attempting to link; a link
// failure returns a LinkError with the program info log. Objects created by
// a failed build are deleted.
func BuildProgram(glc gfx.Context, width, height int, fragment shader.Source) (*Program, error) {
	vs, err := compileShader(glc, gfx.VertexStage, VertexSource(width, height))
	if err != nil {
		return nil, err
	}
	fs, err := compileShader(glc, gfx.FragmentStage, fragment.String())
	if err != nil {
		glc.DeleteShader(vs)
		return nil, err
	}

	program := glc.CreateProgram()
	glc.AttachShader(program, vs)
	glc.AttachShader(program, fs)
	glc.LinkProgram(program)

	if !glc.ProgramLinked(program) {
		msg := glc.ProgramInfoLog(program)
		glc.DeleteProgram(program)
		glc.DeleteShader(vs)
		glc.DeleteShader(fs)
		return nil, &Failure{Kind: LinkError, Message: msg}
	}

	glc.UseProgram(program)
	return &Program{ID: program, Vertex: vs, Fragment: fs}, nil
}

func compileShader(glc gfx.Context, stage gfx.Stage, source string) (gfx.Shader, error) {
	sh := glc.CreateShader(stage)
	glc.ShaderSource(sh, source)
	glc.CompileShader(sh)

	if !glc.ShaderCompiled(sh) {
		msg := glc.ShaderInfoLog(sh)
		glc.DeleteShader(sh)
		return 0, &Failure{Kind: CompileError, Stage: stage, Message: msg}
	}
	return sh, nil
}

// Release deletes the program and its stages.
func (p *Program) Release(glc gfx.Context) {
	if p == nil {
		return
	}
	glc.DeleteProgram(p.ID)
	glc.DeleteShader(p.Vertex)
	glc.DeleteShader(p.Fragment)
}
