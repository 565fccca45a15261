// Package glcontexttest provides an in-memory glcontext.Context for tests.
// It records state changes and fills pixel reads with a deterministic,
// position-dependent pattern so read-back logic can be verified without a
// GPU.
package glcontexttest

import (
	"encoding/binary"
	"math"

	"github.com/veldengine/veld/internal/engine/glcontext"
)

// BindCall records one BindFramebuffer invocation.
type BindCall struct {
	Target glcontext.FramebufferTarget
	FB     glcontext.Framebuffer
}

// ClearCall snapshots the context state at the moment of a Clear.
type ClearCall struct {
	Mask      glcontext.ClearMask
	Color     [4]float32
	Depth     float32
	ColorMask [4]bool
	DepthMask bool
	Scissor   glcontext.ScissorBox
	BoundDraw glcontext.Framebuffer
}

// Context is a fake glcontext.Context. The zero value is ready to use.
type Context struct {
	// FailCreateFramebuffer makes CreateFramebuffer return this error.
	FailCreateFramebuffer error
	// FailCheckFramebuffer makes CheckFramebuffer return this error.
	FailCheckFramebuffer error
	// FailProgram makes Program return this error for every source pair.
	FailProgram *glcontext.ShaderError

	nextFB uint32

	Created []glcontext.Framebuffer
	Deleted []glcontext.Framebuffer
	Binds   []BindCall

	BoundDraw glcontext.Framebuffer
	BoundRead glcontext.Framebuffer

	Scissor    glcontext.ScissorBox
	Scissors   []glcontext.ScissorBox
	ClearColor [4]float32
	ClearDepth float32
	ColorMask  [4]bool
	DepthMask  bool

	Clears           []ClearCall
	DrawBufferCounts []int32

	VertexBuffers []*VertexBuffer
	IndexBuffers  []*IndexBuffer

	programs     map[[2]string]*Program
	ProgramCalls int

	Released bool
}

// New returns an empty fake context.
func New() *Context {
	return &Context{
		ColorMask: [4]bool{true, true, true, true},
		DepthMask: true,
	}
}

func (c *Context) CreateFramebuffer() (glcontext.Framebuffer, error) {
	if c.FailCreateFramebuffer != nil {
		return 0, c.FailCreateFramebuffer
	}
	c.nextFB++
	fb := glcontext.Framebuffer(c.nextFB)
	c.Created = append(c.Created, fb)
	return fb, nil
}

func (c *Context) BindFramebuffer(target glcontext.FramebufferTarget, fb glcontext.Framebuffer) {
	c.Binds = append(c.Binds, BindCall{Target: target, FB: fb})
	switch target {
	case glcontext.FramebufferDraw:
		c.BoundDraw = fb
	case glcontext.FramebufferRead:
		c.BoundRead = fb
	default:
		c.BoundDraw = fb
		c.BoundRead = fb
	}
}

func (c *Context) DeleteFramebuffer(fb glcontext.Framebuffer) {
	c.Deleted = append(c.Deleted, fb)
}

func (c *Context) CheckFramebuffer() error {
	return c.FailCheckFramebuffer
}

func (c *Context) DrawBuffers(count int32) {
	c.DrawBufferCounts = append(c.DrawBufferCounts, count)
}

func (c *Context) SetScissor(box glcontext.ScissorBox) {
	c.Scissor = box
	c.Scissors = append(c.Scissors, box)
}

func (c *Context) SetClearColor(r, g, b, a float32) {
	c.ClearColor = [4]float32{r, g, b, a}
}

func (c *Context) SetClearDepth(depth float32) {
	c.ClearDepth = depth
}

func (c *Context) SetColorMask(red, green, blue, alpha bool) {
	c.ColorMask = [4]bool{red, green, blue, alpha}
}

func (c *Context) SetDepthMask(write bool) {
	c.DepthMask = write
}

func (c *Context) Clear(mask glcontext.ClearMask) {
	c.Clears = append(c.Clears, ClearCall{
		Mask:      mask,
		Color:     c.ClearColor,
		Depth:     c.ClearDepth,
		ColorMask: c.ColorMask,
		DepthMask: c.DepthMask,
		Scissor:   c.Scissor,
		BoundDraw: c.BoundDraw,
	})
}

// PixelByte is the deterministic value of one byte of the fake surface. The
// value depends only on the global pixel position and channel, never on the
// rectangle being read, so partial reads line up with full reads.
func PixelByte(gx, gy, channel int32) byte {
	return byte(gx*7 + gy*13 + channel*31)
}

// PixelFloat is the float variant of the surface pattern.
func PixelFloat(gx, gy, channel int32) float32 {
	return float32(gx) + float32(gy)*0.5 + float32(channel)*0.25
}

// DepthAt is the deterministic depth of the fake surface at a global pixel.
func DepthAt(gx, gy int32) float32 {
	return float32((gx*31+gy*17)%997) / 997
}

func (c *Context) ReadPixels(x, y, width, height int32, format glcontext.PixelFormat, dst []byte) {
	bpc := format.DataType.Size()
	off := 0
	for row := int32(0); row < height; row++ {
		gy := y + row
		for col := int32(0); col < width; col++ {
			gx := x + col
			for ch := int32(0); ch < format.Channels; ch++ {
				if format.DataType == glcontext.PixelFloat32 {
					bits := math.Float32bits(PixelFloat(gx, gy, ch))
					binary.LittleEndian.PutUint32(dst[off:], bits)
				} else {
					dst[off] = PixelByte(gx, gy, ch)
				}
				off += int(bpc)
			}
		}
	}
}

func (c *Context) ReadDepths(x, y, width, height int32, dst []float32) {
	i := 0
	for row := int32(0); row < height; row++ {
		for col := int32(0); col < width; col++ {
			dst[i] = DepthAt(x+col, y+row)
			i++
		}
	}
}

func (c *Context) NewVertexBuffer(data []float32, components int32) glcontext.VertexBuffer {
	vb := &VertexBuffer{Data: append([]float32(nil), data...), Comps: components}
	c.VertexBuffers = append(c.VertexBuffers, vb)
	return vb
}

func (c *Context) NewIndexBuffer(data []uint32) glcontext.IndexBuffer {
	ib := &IndexBuffer{Data: append([]uint32(nil), data...)}
	c.IndexBuffers = append(c.IndexBuffers, ib)
	return ib
}

func (c *Context) Program(vertexSrc, fragmentSrc string) (glcontext.Program, error) {
	c.ProgramCalls++
	if c.FailProgram != nil {
		return nil, c.FailProgram
	}
	if c.programs == nil {
		c.programs = make(map[[2]string]*Program)
	}
	key := [2]string{vertexSrc, fragmentSrc}
	if p, ok := c.programs[key]; ok {
		return p, nil
	}
	p := &Program{
		VertexSource:   vertexSrc,
		FragmentSource: fragmentSrc,
	}
	c.programs[key] = p
	return p, nil
}

// Programs returns every distinct program the context compiled.
func (c *Context) Programs() []*Program {
	out := make([]*Program, 0, len(c.programs))
	for _, p := range c.programs {
		out = append(out, p)
	}
	return out
}

func (c *Context) Release() {
	c.Released = true
}
