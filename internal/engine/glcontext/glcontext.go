// Package glcontext wraps the OpenGL calls the engine renders through behind
// a small Context interface, so render code can run against the real driver
// or an in-memory fake (see glcontexttest).
package glcontext

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// Framebuffer is an opaque handle to a framebuffer object owned by a Context.
// The zero value refers to the default framebuffer, i.e. the window surface.
type Framebuffer uint32

// ScreenFramebuffer is the default framebuffer handle.
const ScreenFramebuffer Framebuffer = 0

// FramebufferTarget selects which binding point a framebuffer is bound to.
type FramebufferTarget int

const (
	// FramebufferDraw binds for draw operations only.
	FramebufferDraw FramebufferTarget = iota
	// FramebufferRead binds for read operations only.
	FramebufferRead
	// FramebufferBoth binds for both draw and read operations.
	FramebufferBoth
)

// ClearMask selects which buffers a Clear call touches.
type ClearMask uint32

const (
	ClearColorBuffer ClearMask = 1 << iota
	ClearDepthBuffer
)

// PixelDataType is the per-channel storage type of a pixel transfer.
type PixelDataType int

const (
	PixelUnsignedByte PixelDataType = iota
	PixelFloat32
)

// Size returns the number of bytes one channel occupies.
func (t PixelDataType) Size() int32 {
	if t == PixelFloat32 {
		return 4
	}
	return 1
}

// PixelFormat describes the layout of a color pixel transfer.
type PixelFormat struct {
	Channels int32
	DataType PixelDataType
}

// Common pixel transfer formats.
var (
	FormatR8      = PixelFormat{Channels: 1, DataType: PixelUnsignedByte}
	FormatRG8     = PixelFormat{Channels: 2, DataType: PixelUnsignedByte}
	FormatRGB8    = PixelFormat{Channels: 3, DataType: PixelUnsignedByte}
	FormatRGBA8   = PixelFormat{Channels: 4, DataType: PixelUnsignedByte}
	FormatR32F    = PixelFormat{Channels: 1, DataType: PixelFloat32}
	FormatRGBA32F = PixelFormat{Channels: 4, DataType: PixelFloat32}
)

// BytesPerPixel returns the byte size of one pixel in this format.
func (f PixelFormat) BytesPerPixel() int32 {
	return f.Channels * f.DataType.Size()
}

// CubeFace identifies one face of a cube map.
type CubeFace int32

const (
	CubeFacePositiveX CubeFace = iota
	CubeFaceNegativeX
	CubeFacePositiveY
	CubeFaceNegativeY
	CubeFacePositiveZ
	CubeFaceNegativeZ
)

// TextureBinder binds a texture to a texture unit for sampling. Implemented
// by the texture package types and by test fakes.
type TextureBinder interface {
	BindUnit(unit int32)
}

// VertexBuffer is a GPU buffer of per-vertex float attributes.
type VertexBuffer interface {
	// Count returns the number of vertices in the buffer.
	Count() int32
	// Components returns the number of floats per vertex.
	Components() int32
	Release()
}

// IndexBuffer is a GPU buffer of uint32 triangle indices.
type IndexBuffer interface {
	// Count returns the number of indices in the buffer.
	Count() int32
	Release()
}

// Program is a compiled and linked shader program. Uniform and texture
// setters silently ignore names the driver optimized out.
type Program interface {
	SetUniformMat4(name string, value mgl32.Mat4)
	SetUniformVec3(name string, value mgl32.Vec3)
	SetUniformVec4(name string, value mgl32.Vec4)
	SetUniformFloat(name string, value float32)
	SetUniformInt(name string, value int32)
	// SetTexture binds tex to a unit chosen by the program and points the
	// named sampler uniform at it. The unit assignment is stable per name.
	SetTexture(name string, tex TextureBinder)
	SetAttribute(name string, buffer VertexBuffer)
	DrawElements(state RenderState, viewport Viewport, indices IndexBuffer)
	// DrawArrays draws without vertex attributes; shaders derive positions
	// from gl_VertexID. Used for full-screen passes.
	DrawArrays(state RenderState, viewport Viewport, first, count int32)
}

// Context is the engine's graphics capability. All calls must happen on the
// thread that owns the underlying GL context.
type Context interface {
	CreateFramebuffer() (Framebuffer, error)
	BindFramebuffer(target FramebufferTarget, fb Framebuffer)
	DeleteFramebuffer(fb Framebuffer)
	// CheckFramebuffer reports whether the currently bound draw framebuffer
	// is complete.
	CheckFramebuffer() error
	// DrawBuffers routes fragment outputs 0..count-1 to the color
	// attachments of the bound framebuffer. A count of zero disables color
	// output entirely, for depth-only passes.
	DrawBuffers(count int32)

	SetScissor(box ScissorBox)
	SetClearColor(r, g, b, a float32)
	SetClearDepth(depth float32)
	SetColorMask(red, green, blue, alpha bool)
	SetDepthMask(write bool)
	Clear(mask ClearMask)

	// ReadPixels reads color data from the bound read framebuffer into dst,
	// bottom row first. dst must hold width*height*format.BytesPerPixel()
	// bytes.
	ReadPixels(x, y, width, height int32, format PixelFormat, dst []byte)
	// ReadDepths reads depth data from the bound read framebuffer into dst,
	// bottom row first. dst must hold width*height floats.
	ReadDepths(x, y, width, height int32, dst []float32)

	NewVertexBuffer(data []float32, components int32) VertexBuffer
	NewIndexBuffer(data []uint32) IndexBuffer
	// Program compiles and links a shader pair, or returns the cached
	// program for sources seen before. Failures are *ShaderError.
	Program(vertexSrc, fragmentSrc string) (Program, error)

	// Release frees context-owned resources (cached programs and internal
	// objects). Framebuffers and buffers are released by their owners.
	Release()
}

// ShaderError describes a shader compile or link failure.
type ShaderError struct {
	Stage string // "vertex", "fragment" or "link"
	Log   string
}

func (e *ShaderError) Error() string {
	if e.Stage == "link" {
		return fmt.Sprintf("link: %s", e.Log)
	}
	return fmt.Sprintf("%s shader: %s", e.Stage, e.Log)
}
