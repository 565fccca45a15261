package texture

import (
	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/veldengine/veld/internal/engine/glcontext"
	"github.com/veldengine/veld/internal/engine/rendertarget"
)

// Depth textures store 32-bit float depth and are sampled as plain
// sampler2D; shadow shaders compare against the fetched depth themselves,
// so no texture compare mode is set. Lookups outside the texture clamp to
// the white border and resolve to full depth, keeping geometry beyond the
// shadow frustum lit.

func depthTexParams(target uint32) {
	gl.TexParameteri(target, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(target, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(target, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_BORDER)
	gl.TexParameteri(target, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_BORDER)
	borderColor := []float32{1.0, 1.0, 1.0, 1.0}
	gl.TexParameterfv(target, gl.TEXTURE_BORDER_COLOR, &borderColor[0])
}

// DepthTexture2D is a 2D depth texture.
type DepthTexture2D struct {
	id     uint32
	width  int32
	height int32
}

// NewDepthTexture2D allocates a depth texture.
func NewDepthTexture2D(width, height int32) *DepthTexture2D {
	t := &DepthTexture2D{width: width, height: height}

	gl.GenTextures(1, &t.id)
	gl.BindTexture(gl.TEXTURE_2D, t.id)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.DEPTH_COMPONENT32F, width, height, 0,
		gl.DEPTH_COMPONENT, gl.FLOAT, nil)
	depthTexParams(gl.TEXTURE_2D)
	return t
}

func (t *DepthTexture2D) Width() int32  { return t.width }
func (t *DepthTexture2D) Height() int32 { return t.height }

// BindUnit binds the texture to the given sampler unit.
func (t *DepthTexture2D) BindUnit(unit int32) {
	gl.ActiveTexture(gl.TEXTURE0 + uint32(unit))
	gl.BindTexture(gl.TEXTURE_2D, t.id)
}

// AttachAsDepth attaches the texture to the depth slot of the currently
// bound draw framebuffer.
func (t *DepthTexture2D) AttachAsDepth() {
	gl.FramebufferTexture2D(gl.DRAW_FRAMEBUFFER, gl.DEPTH_ATTACHMENT,
		gl.TEXTURE_2D, t.id, 0)
}

// AsDepthTarget wraps the texture as a render target depth attachment.
func (t *DepthTexture2D) AsDepthTarget() *rendertarget.DepthTarget {
	return rendertarget.NewDepthTarget(t)
}

// Release deletes the texture. It must not be used afterwards.
func (t *DepthTexture2D) Release() {
	if t.id != 0 {
		gl.DeleteTextures(1, &t.id)
		t.id = 0
	}
}

// DepthTexture2DArray is a layered depth texture, one shadow map per layer.
type DepthTexture2DArray struct {
	id     uint32
	width  int32
	height int32
	layers int32
}

// NewDepthTexture2DArray allocates a depth texture array.
func NewDepthTexture2DArray(width, height, layers int32) *DepthTexture2DArray {
	t := &DepthTexture2DArray{width: width, height: height, layers: layers}

	gl.GenTextures(1, &t.id)
	gl.BindTexture(gl.TEXTURE_2D_ARRAY, t.id)
	gl.TexImage3D(gl.TEXTURE_2D_ARRAY, 0, gl.DEPTH_COMPONENT32F, width, height, layers,
		0, gl.DEPTH_COMPONENT, gl.FLOAT, nil)
	depthTexParams(gl.TEXTURE_2D_ARRAY)
	return t
}

func (t *DepthTexture2DArray) Width() int32  { return t.width }
func (t *DepthTexture2DArray) Height() int32 { return t.height }

// Layers returns the number of array layers.
func (t *DepthTexture2DArray) Layers() int32 { return t.layers }

// BindUnit binds the array to the given sampler unit.
func (t *DepthTexture2DArray) BindUnit(unit int32) {
	gl.ActiveTexture(gl.TEXTURE0 + uint32(unit))
	gl.BindTexture(gl.TEXTURE_2D_ARRAY, t.id)
}

// AttachLayerAsDepth attaches one layer to the depth slot of the currently
// bound draw framebuffer.
func (t *DepthTexture2DArray) AttachLayerAsDepth(layer int32) {
	gl.FramebufferTextureLayer(gl.DRAW_FRAMEBUFFER, gl.DEPTH_ATTACHMENT, t.id, 0, layer)
}

// AsDepthTargetLayer wraps one layer as a render target depth attachment.
func (t *DepthTexture2DArray) AsDepthTargetLayer(layer int32) *rendertarget.DepthTarget {
	return rendertarget.NewDepthTargetLayer(t, layer)
}

// Release deletes the texture. It must not be used afterwards.
func (t *DepthTexture2DArray) Release() {
	if t.id != 0 {
		gl.DeleteTextures(1, &t.id)
		t.id = 0
	}
}

// DepthTextureCubeMap is a six-face depth cube map for omnidirectional
// shadow maps.
type DepthTextureCubeMap struct {
	id   uint32
	size int32
}

// NewDepthTextureCubeMap allocates a depth cube map with faces of
// size x size.
func NewDepthTextureCubeMap(size int32) *DepthTextureCubeMap {
	t := &DepthTextureCubeMap{size: size}

	gl.GenTextures(1, &t.id)
	gl.BindTexture(gl.TEXTURE_CUBE_MAP, t.id)
	for face := uint32(0); face < 6; face++ {
		gl.TexImage2D(gl.TEXTURE_CUBE_MAP_POSITIVE_X+face, 0, gl.DEPTH_COMPONENT32F,
			size, size, 0, gl.DEPTH_COMPONENT, gl.FLOAT, nil)
	}
	depthTexParams(gl.TEXTURE_CUBE_MAP)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_R, gl.CLAMP_TO_BORDER)
	return t
}

// Width returns the face size.
func (t *DepthTextureCubeMap) Width() int32 { return t.size }

// Height returns the face size.
func (t *DepthTextureCubeMap) Height() int32 { return t.size }

// BindUnit binds the cube map to the given sampler unit.
func (t *DepthTextureCubeMap) BindUnit(unit int32) {
	gl.ActiveTexture(gl.TEXTURE0 + uint32(unit))
	gl.BindTexture(gl.TEXTURE_CUBE_MAP, t.id)
}

// AttachFaceAsDepth attaches one face to the depth slot of the currently
// bound draw framebuffer.
func (t *DepthTextureCubeMap) AttachFaceAsDepth(face glcontext.CubeFace) {
	gl.FramebufferTexture2D(gl.DRAW_FRAMEBUFFER, gl.DEPTH_ATTACHMENT,
		gl.TEXTURE_CUBE_MAP_POSITIVE_X+uint32(face), t.id, 0)
}

// AsDepthTargetFace wraps one face as a render target depth attachment.
func (t *DepthTextureCubeMap) AsDepthTargetFace(face glcontext.CubeFace) *rendertarget.DepthTarget {
	return rendertarget.NewDepthTargetFace(t, face)
}

// Release deletes the texture. It must not be used afterwards.
func (t *DepthTextureCubeMap) Release() {
	if t.id != 0 {
		gl.DeleteTextures(1, &t.id)
		t.id = 0
	}
}
