// Package texture wraps OpenGL texture objects: 2D color textures, texture
// arrays, cube maps, and their depth variants. Color textures can back a
// rendertarget.ColorTarget, depth textures a rendertarget.DepthTarget, and
// every type binds to a sampler unit for drawing.
package texture

import (
	"image"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/veldengine/veld/internal/engine/rendertarget"
)

// Format selects the internal storage format of a color texture.
type Format int

const (
	// RGBA8 stores four 8-bit normalized channels.
	RGBA8 Format = iota
	// RGBA32F stores four 32-bit float channels.
	RGBA32F
	// R8 stores a single 8-bit normalized channel.
	R8
)

func (f Format) internal() int32 {
	switch f {
	case RGBA32F:
		return gl.RGBA32F
	case R8:
		return gl.R8
	default:
		return gl.RGBA8
	}
}

// transfer returns the pixel format and data type used when allocating or
// uploading texel data in this format.
func (f Format) transfer() (uint32, uint32) {
	switch f {
	case RGBA32F:
		return gl.RGBA, gl.FLOAT
	case R8:
		return gl.RED, gl.UNSIGNED_BYTE
	default:
		return gl.RGBA, gl.UNSIGNED_BYTE
	}
}

// MipLevels returns the length of a full mip chain for the given base size,
// 1 + floor(log2(max(width, height))).
func MipLevels(width, height int32) int32 {
	levels := int32(1)
	for size := max(width, height); size > 1; size >>= 1 {
		levels++
	}
	return levels
}

// levelSize returns one dimension of a mip level, never below one texel.
func levelSize(base, level int32) int32 {
	if s := base >> level; s > 1 {
		return s
	}
	return 1
}

func minFilter(levels int32) int32 {
	if levels > 1 {
		return gl.LINEAR_MIPMAP_LINEAR
	}
	return gl.LINEAR
}

// Texture2D is a 2D color texture.
type Texture2D struct {
	id     uint32
	width  int32
	height int32
	levels int32
}

// NewTexture2D creates an empty 2D color texture, typically to render into.
// With mipmapped set, storage for the full mip chain is allocated up front.
func NewTexture2D(width, height int32, format Format, mipmapped bool) *Texture2D {
	t := &Texture2D{width: width, height: height, levels: 1}
	if mipmapped {
		t.levels = MipLevels(width, height)
	}

	gl.GenTextures(1, &t.id)
	gl.BindTexture(gl.TEXTURE_2D, t.id)
	pixFormat, pixType := format.transfer()
	for level := int32(0); level < t.levels; level++ {
		gl.TexImage2D(gl.TEXTURE_2D, level, format.internal(),
			levelSize(width, level), levelSize(height, level),
			0, pixFormat, pixType, nil)
	}
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAX_LEVEL, t.levels-1)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, minFilter(t.levels))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	return t
}

// NewTexture2DFromImage uploads an image as a mipmapped RGBA8 texture with
// repeat wrapping, suitable for surface materials.
func NewTexture2DFromImage(img image.Image) *Texture2D {
	rgba := toRGBA(img)
	bounds := rgba.Bounds()
	t := &Texture2D{
		width:  int32(bounds.Dx()),
		height: int32(bounds.Dy()),
	}
	t.levels = MipLevels(t.width, t.height)

	gl.GenTextures(1, &t.id)
	gl.BindTexture(gl.TEXTURE_2D, t.id)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, t.width, t.height, 0,
		gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&rgba.Pix[0]))
	gl.GenerateMipmap(gl.TEXTURE_2D)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.REPEAT)
	gl.TexParameterf(gl.TEXTURE_2D, gl.TEXTURE_MAX_ANISOTROPY, 8.0)
	return t
}

func (t *Texture2D) Width() int32  { return t.width }
func (t *Texture2D) Height() int32 { return t.height }

// Levels returns the number of allocated mip levels.
func (t *Texture2D) Levels() int32 { return t.levels }

// BindUnit binds the texture to the given sampler unit.
func (t *Texture2D) BindUnit(unit int32) {
	gl.ActiveTexture(gl.TEXTURE0 + uint32(unit))
	gl.BindTexture(gl.TEXTURE_2D, t.id)
}

// AttachAsColor attaches mip level mip to color slot slot of the currently
// bound draw framebuffer.
func (t *Texture2D) AttachAsColor(slot, mip int32) {
	gl.FramebufferTexture2D(gl.DRAW_FRAMEBUFFER, gl.COLOR_ATTACHMENT0+uint32(slot),
		gl.TEXTURE_2D, t.id, mip)
}

// GenerateMipmaps refills the mip chain from level zero. Single-level
// textures are left alone.
func (t *Texture2D) GenerateMipmaps() {
	if t.levels <= 1 {
		return
	}
	gl.BindTexture(gl.TEXTURE_2D, t.id)
	gl.GenerateMipmap(gl.TEXTURE_2D)
}

// AsColorTarget wraps the texture as a render target color attachment. Pass
// mip -1 to write level zero and keep the chain current.
func (t *Texture2D) AsColorTarget(mip int32) *rendertarget.ColorTarget {
	return rendertarget.NewColorTarget(t, mip)
}

// Release deletes the texture. It must not be used afterwards.
func (t *Texture2D) Release() {
	if t.id != 0 {
		gl.DeleteTextures(1, &t.id)
		t.id = 0
	}
}
