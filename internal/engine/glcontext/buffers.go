package glcontext

import "github.com/go-gl/gl/v4.1-core/gl"

type glVertexBuffer struct {
	id         uint32
	count      int32
	components int32
}

func (c *glContext) NewVertexBuffer(data []float32, components int32) VertexBuffer {
	vb := &glVertexBuffer{components: components}
	if components > 0 {
		vb.count = int32(len(data)) / components
	}

	gl.GenBuffers(1, &vb.id)
	gl.BindBuffer(gl.ARRAY_BUFFER, vb.id)
	if len(data) > 0 {
		gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, gl.Ptr(data), gl.STATIC_DRAW)
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)

	return vb
}

func (b *glVertexBuffer) Count() int32      { return b.count }
func (b *glVertexBuffer) Components() int32 { return b.components }

func (b *glVertexBuffer) Release() {
	if b.id != 0 {
		gl.DeleteBuffers(1, &b.id)
		b.id = 0
	}
}

type glIndexBuffer struct {
	id    uint32
	count int32
}

func (c *glContext) NewIndexBuffer(data []uint32) IndexBuffer {
	ib := &glIndexBuffer{count: int32(len(data))}

	gl.GenBuffers(1, &ib.id)
	// ELEMENT_ARRAY_BUFFER binding is VAO state, so the upload goes through
	// the ARRAY_BUFFER target to avoid dirtying whichever VAO is bound.
	gl.BindBuffer(gl.ARRAY_BUFFER, ib.id)
	if len(data) > 0 {
		gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, gl.Ptr(data), gl.STATIC_DRAW)
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)

	return ib
}

func (b *glIndexBuffer) Count() int32 { return b.count }

func (b *glIndexBuffer) Release() {
	if b.id != 0 {
		gl.DeleteBuffers(1, &b.id)
		b.id = 0
	}
}
