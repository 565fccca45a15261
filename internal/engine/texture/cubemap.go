package texture

import (
	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/veldengine/veld/internal/engine/glcontext"
	"github.com/veldengine/veld/internal/engine/rendertarget"
)

// TextureCubeMap is a six-face color cube map with square faces.
type TextureCubeMap struct {
	id     uint32
	size   int32
	levels int32
}

// NewTextureCubeMap creates an empty cube map with faces of size x size.
func NewTextureCubeMap(size int32, format Format, mipmapped bool) *TextureCubeMap {
	t := &TextureCubeMap{size: size, levels: 1}
	if mipmapped {
		t.levels = MipLevels(size, size)
	}

	gl.GenTextures(1, &t.id)
	gl.BindTexture(gl.TEXTURE_CUBE_MAP, t.id)
	pixFormat, pixType := format.transfer()
	for face := uint32(0); face < 6; face++ {
		for level := int32(0); level < t.levels; level++ {
			gl.TexImage2D(gl.TEXTURE_CUBE_MAP_POSITIVE_X+face, level, format.internal(),
				levelSize(size, level), levelSize(size, level),
				0, pixFormat, pixType, nil)
		}
	}
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_MAX_LEVEL, t.levels-1)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_MIN_FILTER, minFilter(t.levels))
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_R, gl.CLAMP_TO_EDGE)
	return t
}

// Width returns the face size.
func (t *TextureCubeMap) Width() int32 { return t.size }

// Height returns the face size.
func (t *TextureCubeMap) Height() int32 { return t.size }

// Levels returns the number of allocated mip levels.
func (t *TextureCubeMap) Levels() int32 { return t.levels }

// BindUnit binds the cube map to the given sampler unit.
func (t *TextureCubeMap) BindUnit(unit int32) {
	gl.ActiveTexture(gl.TEXTURE0 + uint32(unit))
	gl.BindTexture(gl.TEXTURE_CUBE_MAP, t.id)
}

// AttachFaceAsColor attaches one face at mip level mip to color slot slot of
// the currently bound draw framebuffer.
func (t *TextureCubeMap) AttachFaceAsColor(slot int32, face glcontext.CubeFace, mip int32) {
	gl.FramebufferTexture2D(gl.DRAW_FRAMEBUFFER, gl.COLOR_ATTACHMENT0+uint32(slot),
		gl.TEXTURE_CUBE_MAP_POSITIVE_X+uint32(face), t.id, mip)
}

// GenerateMipmaps refills the mip chains of all faces from level zero.
func (t *TextureCubeMap) GenerateMipmaps() {
	if t.levels <= 1 {
		return
	}
	gl.BindTexture(gl.TEXTURE_CUBE_MAP, t.id)
	gl.GenerateMipmap(gl.TEXTURE_CUBE_MAP)
}

// AsColorTargetFace wraps one face as a render target color attachment.
func (t *TextureCubeMap) AsColorTargetFace(face glcontext.CubeFace, mip int32) *rendertarget.ColorTarget {
	return rendertarget.NewColorTargetFace(t, face, mip)
}

// Release deletes the texture. It must not be used afterwards.
func (t *TextureCubeMap) Release() {
	if t.id != 0 {
		gl.DeleteTextures(1, &t.id)
		t.id = 0
	}
}
