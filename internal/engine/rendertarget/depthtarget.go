package rendertarget

import "github.com/veldengine/veld/internal/engine/glcontext"

// DepthTexture is the capability a 2D depth texture exposes to back a
// DepthTarget.
type DepthTexture interface {
	Width() int32
	Height() int32
	// AttachAsDepth attaches the texture to the depth slot of the
	// currently bound draw framebuffer.
	AttachAsDepth()
}

// ArrayDepthTexture backs a DepthTarget on one layer of a depth texture
// array.
type ArrayDepthTexture interface {
	Width() int32
	Height() int32
	AttachLayerAsDepth(layer int32)
}

// CubeDepthTexture backs a DepthTarget on one face of a depth cube map.
type CubeDepthTexture interface {
	Width() int32
	Height() int32
	AttachFaceAsDepth(face glcontext.CubeFace)
}

type depthKind int

const (
	depthKind2D depthKind = iota
	depthKindArray
	depthKindCube
)

// DepthTarget is a depth attachment for a RenderTarget: a 2D depth texture,
// one layer of a depth texture array, or one face of a depth cube map.
type DepthTarget struct {
	kind  depthKind
	tex   DepthTexture
	array ArrayDepthTexture
	cube  CubeDepthTexture
	layer int32
	face  glcontext.CubeFace
}

// NewDepthTarget targets a 2D depth texture.
func NewDepthTarget(tex DepthTexture) *DepthTarget {
	return &DepthTarget{kind: depthKind2D, tex: tex}
}

// NewDepthTargetLayer targets one layer of a depth texture array.
func NewDepthTargetLayer(tex ArrayDepthTexture, layer int32) *DepthTarget {
	return &DepthTarget{kind: depthKindArray, array: tex, layer: layer}
}

// NewDepthTargetFace targets one face of a depth cube map.
func NewDepthTargetFace(tex CubeDepthTexture, face glcontext.CubeFace) *DepthTarget {
	return &DepthTarget{kind: depthKindCube, cube: tex, face: face}
}

// Width returns the attachment width.
func (dt *DepthTarget) Width() int32 {
	switch dt.kind {
	case depthKindArray:
		return dt.array.Width()
	case depthKindCube:
		return dt.cube.Width()
	default:
		return dt.tex.Width()
	}
}

// Height returns the attachment height.
func (dt *DepthTarget) Height() int32 {
	switch dt.kind {
	case depthKindArray:
		return dt.array.Height()
	case depthKindCube:
		return dt.cube.Height()
	default:
		return dt.tex.Height()
	}
}

func (dt *DepthTarget) bind() {
	switch dt.kind {
	case depthKindArray:
		dt.array.AttachLayerAsDepth(dt.layer)
	case depthKindCube:
		dt.cube.AttachFaceAsDepth(dt.face)
	default:
		dt.tex.AttachAsDepth()
	}
}
