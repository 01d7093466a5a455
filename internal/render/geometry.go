package render

import "shaderbg/internal/gfx"

// Four corners of clip space, drawn as a two-triangle strip.
var quadVertices = []float32{
	-1, -1, // bottom left
	1, -1, // bottom right
	-1, 1, // top left
	1, 1, // top right
}

const quadVertexCount = 4

// Quad is the static full-screen vertex buffer bound to a program.
type Quad struct {
	Buffer   gfx.Buffer
	Position gfx.Location
}

// BindQuad uploads the full-screen quad and points the program's position
// attribute at it. A program without a position attribute is not an error
// here; the draw simply has nothing feeding that slot.
func BindQuad(glc gfx.Context, program *Program) *Quad {
	q := &Quad{Buffer: glc.CreateBuffer()}
	glc.BufferStaticData(q.Buffer, quadVertices)

	q.Position = glc.AttribLocation(program.ID, PositionAttribute)
	if q.Position.Valid() {
		glc.EnableVertexAttrib(q.Position)
		glc.VertexAttribFloats(q.Position, 2)
	}
	return q
}

// Release deletes the vertex buffer.
func (q *Quad) Release(glc gfx.Context) {
	if q == nil {
		return
	}
	glc.DeleteBuffer(q.Buffer)
}
