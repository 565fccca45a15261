package rendertarget

import "github.com/veldengine/veld/internal/engine/glcontext"

// ColorTexture is the capability a 2D texture exposes to back a ColorTarget.
type ColorTexture interface {
	Width() int32
	Height() int32
	// AttachAsColor attaches mip level mip of the texture to color slot
	// slot of the currently bound draw framebuffer.
	AttachAsColor(slot, mip int32)
	// GenerateMipmaps regenerates the mip chain; a no-op for single-level
	// textures.
	GenerateMipmaps()
}

// ArrayColorTexture is the capability a texture array exposes to back a
// layered ColorTarget.
type ArrayColorTexture interface {
	Width() int32
	Height() int32
	AttachLayerAsColor(slot, layer, mip int32)
	GenerateMipmaps()
}

// CubeColorTexture is the capability a cube map exposes to back a cube-face
// ColorTarget.
type CubeColorTexture interface {
	Width() int32
	Height() int32
	AttachFaceAsColor(slot int32, face glcontext.CubeFace, mip int32)
	GenerateMipmaps()
}

type colorKind int

const (
	colorKind2D colorKind = iota
	colorKindArray
	colorKindCube
)

// ColorTarget is a color attachment for a RenderTarget: a 2D texture, a set
// of texture array layers, or one cube map face, optionally pinned to a
// single mip level.
type ColorTarget struct {
	kind   colorKind
	tex    ColorTexture
	array  ArrayColorTexture
	cube   CubeColorTexture
	layers []int32
	face   glcontext.CubeFace
	// mip < 0 writes level zero and regenerates the chain after writes;
	// mip >= 0 pins writes to that level and never regenerates.
	mip int32
}

// NewColorTarget targets a 2D texture. Pass mip -1 to write the base level
// and keep the mip chain current, or a level index to write that level only.
func NewColorTarget(tex ColorTexture, mip int32) *ColorTarget {
	return &ColorTarget{kind: colorKind2D, tex: tex, mip: mip}
}

// NewColorTargetLayers targets the given layers of a texture array. Fragment
// output i lands in layers[i].
func NewColorTargetLayers(tex ArrayColorTexture, layers []int32, mip int32) *ColorTarget {
	return &ColorTarget{kind: colorKindArray, array: tex, layers: layers, mip: mip}
}

// NewColorTargetFace targets one face of a cube map.
func NewColorTargetFace(tex CubeColorTexture, face glcontext.CubeFace, mip int32) *ColorTarget {
	return &ColorTarget{kind: colorKindCube, cube: tex, face: face, mip: mip}
}

// Width returns the attachment width at the pinned mip level.
func (ct *ColorTarget) Width() int32 {
	return ct.baseWidth() >> ct.writeMip()
}

// Height returns the attachment height at the pinned mip level.
func (ct *ColorTarget) Height() int32 {
	return ct.baseHeight() >> ct.writeMip()
}

func (ct *ColorTarget) baseWidth() int32 {
	switch ct.kind {
	case colorKindArray:
		return ct.array.Width()
	case colorKindCube:
		return ct.cube.Width()
	default:
		return ct.tex.Width()
	}
}

func (ct *ColorTarget) baseHeight() int32 {
	switch ct.kind {
	case colorKindArray:
		return ct.array.Height()
	case colorKindCube:
		return ct.cube.Height()
	default:
		return ct.tex.Height()
	}
}

func (ct *ColorTarget) writeMip() int32 {
	if ct.mip < 0 {
		return 0
	}
	return ct.mip
}

// bind attaches the target to the bound draw framebuffer and routes
// fragment outputs to its attachment slots.
func (ct *ColorTarget) bind(ctx glcontext.Context) {
	switch ct.kind {
	case colorKindArray:
		for i, layer := range ct.layers {
			ct.array.AttachLayerAsColor(int32(i), layer, ct.writeMip())
		}
		ctx.DrawBuffers(int32(len(ct.layers)))
	case colorKindCube:
		ct.cube.AttachFaceAsColor(0, ct.face, ct.writeMip())
		ctx.DrawBuffers(1)
	default:
		ct.tex.AttachAsColor(0, ct.writeMip())
		ctx.DrawBuffers(1)
	}
}

func (ct *ColorTarget) generateMipMaps() {
	if ct.mip >= 0 {
		return
	}
	switch ct.kind {
	case colorKindArray:
		ct.array.GenerateMipmaps()
	case colorKindCube:
		ct.cube.GenerateMipmaps()
	default:
		ct.tex.GenerateMipmaps()
	}
}
