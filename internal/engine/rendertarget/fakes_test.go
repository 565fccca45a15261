package rendertarget

import "github.com/veldengine/veld/internal/engine/glcontext"

// In-memory attachment fakes. They implement the texture capability
// interfaces the targets consume, recording every attach.

type attachCall struct {
	slot  int32
	layer int32
	face  glcontext.CubeFace
	mip   int32
}

type fakeColorTexture struct {
	width      int32
	height     int32
	levels     int32
	attaches   []attachCall
	mipmapGens int
}

func (t *fakeColorTexture) Width() int32  { return t.width }
func (t *fakeColorTexture) Height() int32 { return t.height }

func (t *fakeColorTexture) AttachAsColor(slot, mip int32) {
	t.attaches = append(t.attaches, attachCall{slot: slot, mip: mip})
}

func (t *fakeColorTexture) GenerateMipmaps() {
	if t.levels > 1 {
		t.mipmapGens++
	}
}

type fakeArrayColorTexture struct {
	width      int32
	height     int32
	levels     int32
	attaches   []attachCall
	mipmapGens int
}

func (t *fakeArrayColorTexture) Width() int32  { return t.width }
func (t *fakeArrayColorTexture) Height() int32 { return t.height }

func (t *fakeArrayColorTexture) AttachLayerAsColor(slot, layer, mip int32) {
	t.attaches = append(t.attaches, attachCall{slot: slot, layer: layer, mip: mip})
}

func (t *fakeArrayColorTexture) GenerateMipmaps() {
	if t.levels > 1 {
		t.mipmapGens++
	}
}

type fakeCubeColorTexture struct {
	width      int32
	height     int32
	levels     int32
	attaches   []attachCall
	mipmapGens int
}

func (t *fakeCubeColorTexture) Width() int32  { return t.width }
func (t *fakeCubeColorTexture) Height() int32 { return t.height }

func (t *fakeCubeColorTexture) AttachFaceAsColor(slot int32, face glcontext.CubeFace, mip int32) {
	t.attaches = append(t.attaches, attachCall{slot: slot, face: face, mip: mip})
}

func (t *fakeCubeColorTexture) GenerateMipmaps() {
	if t.levels > 1 {
		t.mipmapGens++
	}
}

type fakeDepthTexture struct {
	width    int32
	height   int32
	attaches int
}

func (t *fakeDepthTexture) Width() int32   { return t.width }
func (t *fakeDepthTexture) Height() int32  { return t.height }
func (t *fakeDepthTexture) AttachAsDepth() { t.attaches++ }

type fakeArrayDepthTexture struct {
	width  int32
	height int32
	layers []int32
}

func (t *fakeArrayDepthTexture) Width() int32  { return t.width }
func (t *fakeArrayDepthTexture) Height() int32 { return t.height }

func (t *fakeArrayDepthTexture) AttachLayerAsDepth(layer int32) {
	t.layers = append(t.layers, layer)
}

type fakeCubeDepthTexture struct {
	width  int32
	height int32
	faces  []glcontext.CubeFace
}

func (t *fakeCubeDepthTexture) Width() int32  { return t.width }
func (t *fakeCubeDepthTexture) Height() int32 { return t.height }

func (t *fakeCubeDepthTexture) AttachFaceAsDepth(face glcontext.CubeFace) {
	t.faces = append(t.faces, face)
}

// fakeBinder is a sampleable texture for copy sources.
type fakeBinder struct {
	units []int32
}

func (b *fakeBinder) BindUnit(unit int32) {
	b.units = append(b.units, unit)
}
