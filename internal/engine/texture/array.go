package texture

import (
	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/veldengine/veld/internal/engine/rendertarget"
)

// Texture2DArray is a layered color texture. Render targets can write
// individual layers and shaders sample it as a sampler2DArray.
type Texture2DArray struct {
	id     uint32
	width  int32
	height int32
	layers int32
	levels int32
}

// NewTexture2DArray creates an empty color texture array.
func NewTexture2DArray(width, height, layers int32, format Format, mipmapped bool) *Texture2DArray {
	t := &Texture2DArray{width: width, height: height, layers: layers, levels: 1}
	if mipmapped {
		t.levels = MipLevels(width, height)
	}

	gl.GenTextures(1, &t.id)
	gl.BindTexture(gl.TEXTURE_2D_ARRAY, t.id)
	pixFormat, pixType := format.transfer()
	for level := int32(0); level < t.levels; level++ {
		gl.TexImage3D(gl.TEXTURE_2D_ARRAY, level, format.internal(),
			levelSize(width, level), levelSize(height, level), layers,
			0, pixFormat, pixType, nil)
	}
	gl.TexParameteri(gl.TEXTURE_2D_ARRAY, gl.TEXTURE_MAX_LEVEL, t.levels-1)
	gl.TexParameteri(gl.TEXTURE_2D_ARRAY, gl.TEXTURE_MIN_FILTER, minFilter(t.levels))
	gl.TexParameteri(gl.TEXTURE_2D_ARRAY, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D_ARRAY, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D_ARRAY, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	return t
}

func (t *Texture2DArray) Width() int32  { return t.width }
func (t *Texture2DArray) Height() int32 { return t.height }

// Layers returns the number of array layers.
func (t *Texture2DArray) Layers() int32 { return t.layers }

// Levels returns the number of allocated mip levels.
func (t *Texture2DArray) Levels() int32 { return t.levels }

// BindUnit binds the array to the given sampler unit.
func (t *Texture2DArray) BindUnit(unit int32) {
	gl.ActiveTexture(gl.TEXTURE0 + uint32(unit))
	gl.BindTexture(gl.TEXTURE_2D_ARRAY, t.id)
}

// AttachLayerAsColor attaches one layer at mip level mip to color slot slot
// of the currently bound draw framebuffer.
func (t *Texture2DArray) AttachLayerAsColor(slot, layer, mip int32) {
	gl.FramebufferTextureLayer(gl.DRAW_FRAMEBUFFER, gl.COLOR_ATTACHMENT0+uint32(slot),
		t.id, mip, layer)
}

// GenerateMipmaps refills the mip chains of all layers from level zero.
func (t *Texture2DArray) GenerateMipmaps() {
	if t.levels <= 1 {
		return
	}
	gl.BindTexture(gl.TEXTURE_2D_ARRAY, t.id)
	gl.GenerateMipmap(gl.TEXTURE_2D_ARRAY)
}

// AsColorTargetLayers wraps the given layers as a layered color attachment;
// fragment output i lands in layers[i].
func (t *Texture2DArray) AsColorTargetLayers(layers []int32, mip int32) *rendertarget.ColorTarget {
	return rendertarget.NewColorTargetLayers(t, layers, mip)
}

// Release deletes the texture. It must not be used afterwards.
func (t *Texture2DArray) Release() {
	if t.id != 0 {
		gl.DeleteTextures(1, &t.id)
		t.id = 0
	}
}
