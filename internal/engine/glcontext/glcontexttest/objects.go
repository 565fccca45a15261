package glcontexttest

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/veldengine/veld/internal/engine/glcontext"
)

// VertexBuffer is a fake glcontext.VertexBuffer keeping its data in memory.
type VertexBuffer struct {
	Data     []float32
	Comps    int32
	Released bool
}

func (b *VertexBuffer) Count() int32 {
	if b.Comps == 0 {
		return 0
	}
	return int32(len(b.Data)) / b.Comps
}

func (b *VertexBuffer) Components() int32 { return b.Comps }
func (b *VertexBuffer) Release()          { b.Released = true }

// IndexBuffer is a fake glcontext.IndexBuffer keeping its data in memory.
type IndexBuffer struct {
	Data     []uint32
	Released bool
}

func (b *IndexBuffer) Count() int32 { return int32(len(b.Data)) }
func (b *IndexBuffer) Release()     { b.Released = true }

// DrawCall records one DrawElements or DrawArrays invocation.
type DrawCall struct {
	State    glcontext.RenderState
	Viewport glcontext.Viewport
	// Indices is the buffer passed to DrawElements, nil for DrawArrays.
	Indices glcontext.IndexBuffer
	First   int32
	Count   int32
}

// Program is a fake glcontext.Program recording everything set on it.
type Program struct {
	VertexSource   string
	FragmentSource string

	Uniforms   map[string]any
	Textures   map[string]glcontext.TextureBinder
	Attributes map[string]glcontext.VertexBuffer
	Draws      []DrawCall

	units map[string]int32
}

func (p *Program) setUniform(name string, value any) {
	if p.Uniforms == nil {
		p.Uniforms = make(map[string]any)
	}
	p.Uniforms[name] = value
}

func (p *Program) SetUniformMat4(name string, value mgl32.Mat4) { p.setUniform(name, value) }
func (p *Program) SetUniformVec3(name string, value mgl32.Vec3) { p.setUniform(name, value) }
func (p *Program) SetUniformVec4(name string, value mgl32.Vec4) { p.setUniform(name, value) }
func (p *Program) SetUniformFloat(name string, value float32)   { p.setUniform(name, value) }
func (p *Program) SetUniformInt(name string, value int32)       { p.setUniform(name, value) }

// SetTexture assigns each sampler name a stable unit, like the real program.
func (p *Program) SetTexture(name string, tex glcontext.TextureBinder) {
	if p.Textures == nil {
		p.Textures = make(map[string]glcontext.TextureBinder)
		p.units = make(map[string]int32)
	}
	unit, ok := p.units[name]
	if !ok {
		unit = int32(len(p.units))
		p.units[name] = unit
	}
	p.Textures[name] = tex
	tex.BindUnit(unit)
}

func (p *Program) SetAttribute(name string, buffer glcontext.VertexBuffer) {
	if p.Attributes == nil {
		p.Attributes = make(map[string]glcontext.VertexBuffer)
	}
	p.Attributes[name] = buffer
}

func (p *Program) DrawElements(state glcontext.RenderState, viewport glcontext.Viewport, indices glcontext.IndexBuffer) {
	p.Draws = append(p.Draws, DrawCall{
		State:    state,
		Viewport: viewport,
		Indices:  indices,
		Count:    indices.Count(),
	})
}

func (p *Program) DrawArrays(state glcontext.RenderState, viewport glcontext.Viewport, first, count int32) {
	p.Draws = append(p.Draws, DrawCall{
		State:    state,
		Viewport: viewport,
		First:    first,
		Count:    count,
	})
}
