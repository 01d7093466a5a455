package render

import "shaderbg/internal/gfx"

// Uniform names the fragment stage may declare.
const (
	TimeUniform       = "u_time"
	ResolutionUniform = "u_resolution"
	MouseUniform      = "u_mouse"
)

// Uniforms holds the slots of the three well-known uniforms. A slot is
// NoLocation when the program does not use that uniform; it is then never set.
type Uniforms struct {
	Time       gfx.Location
	Resolution gfx.Location
	Mouse      gfx.Location
}

// BindUniforms looks up the uniforms and sets the ones that stay constant
// for the lifetime of the program: the resolution is the surface size at bind
// time and the mouse sits at the surface center. Time is set per frame.
func BindUniforms(glc gfx.Context, program *Program, width, height int) Uniforms {
	u := Uniforms{
		Time:       glc.UniformLocation(program.ID, TimeUniform),
		Resolution: glc.UniformLocation(program.ID, ResolutionUniform),
		Mouse:      glc.UniformLocation(program.ID, MouseUniform),
	}
	if u.Resolution.Valid() {
		glc.Uniform2f(u.Resolution, float32(width), float32(height))
	}
	if u.Mouse.Valid() {
		glc.Uniform2f(u.Mouse, float32(width)/2, float32(height)/2)
	}
	return u
}
