// Package terrain streams an endless procedural ground around a moving
// position. A square window of ground patches follows the camera; patches
// are built from a height function as the window moves and released when
// they fall out of it. Patches far from the camera draw with coarser index
// grids.
package terrain

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/veldengine/veld/internal/engine/glcontext"
	"github.com/veldengine/veld/internal/engine/scene"
)

const (
	// PatchSize is the world-space side length of one ground patch.
	PatchSize float32 = 16
	// PatchesPerSide is the width of the live patch window, in patches.
	PatchesPerSide = 33
	// VerticesPerUnit is how densely the height function is sampled.
	VerticesPerUnit = 4

	halfPatchesPerSide = (PatchesPerSide - 1) / 2
	verticesPerSide    = (16 + 1) * VerticesPerUnit
	vertexDistance     = 1.0 / float32(VerticesPerUnit)
)

// HeightFunc returns the ground height at a world XZ position. It must be
// pure: the pager calls it for every vertex of every patch it builds.
type HeightFunc func(x, z float32) float32

// Terrain pages ground patches in and out around a center position.
// Update must complete before the geometries are consumed; neither is safe
// for concurrent use.
type Terrain struct {
	ctx      glcontext.Context
	height   HeightFunc
	material scene.Material

	centerX int32
	centerY int32
	patches []*GroundPatch
}

// New builds the full patch window around position. All patches are sampled
// and uploaded eagerly, so construction is the expensive part of streaming.
func New(ctx glcontext.Context, height HeightFunc, position mgl32.Vec3, material scene.Material) *Terrain {
	x0, y0 := PatchCoord(position)
	t := &Terrain{
		ctx:      ctx,
		height:   height,
		material: material,
		centerX:  x0,
		centerY:  y0,
	}
	for ix := x0 - halfPatchesPerSide; ix <= x0+halfPatchesPerSide; ix++ {
		for iy := y0 - halfPatchesPerSide; iy <= y0+halfPatchesPerSide; iy++ {
			t.patches = append(t.patches, newGroundPatch(ctx, height, ix, iy))
		}
	}
	return t
}

// Update moves the patch window to the cell containing position. The window
// shifts one cell at a time, building the whole new edge column or row per
// step, X before Z; patches that end up outside the window are released.
func (t *Terrain) Update(position mgl32.Vec3) {
	x0, y0 := PatchCoord(position)

	for x0 > t.centerX {
		t.centerX++
		for iy := t.centerY - halfPatchesPerSide; iy <= t.centerY+halfPatchesPerSide; iy++ {
			t.patches = append(t.patches, newGroundPatch(t.ctx, t.height, t.centerX+halfPatchesPerSide, iy))
		}
	}
	for x0 < t.centerX {
		t.centerX--
		for iy := t.centerY - halfPatchesPerSide; iy <= t.centerY+halfPatchesPerSide; iy++ {
			t.patches = append(t.patches, newGroundPatch(t.ctx, t.height, t.centerX-halfPatchesPerSide, iy))
		}
	}
	for y0 > t.centerY {
		t.centerY++
		for ix := t.centerX - halfPatchesPerSide; ix <= t.centerX+halfPatchesPerSide; ix++ {
			t.patches = append(t.patches, newGroundPatch(t.ctx, t.height, ix, t.centerY+halfPatchesPerSide))
		}
	}
	for y0 < t.centerY {
		t.centerY--
		for ix := t.centerX - halfPatchesPerSide; ix <= t.centerX+halfPatchesPerSide; ix++ {
			t.patches = append(t.patches, newGroundPatch(t.ctx, t.height, ix, t.centerY-halfPatchesPerSide))
		}
	}

	kept := t.patches[:0]
	for _, patch := range t.patches {
		if absInt(x0-patch.ix) <= halfPatchesPerSide && absInt(y0-patch.iy) <= halfPatchesPerSide {
			kept = append(kept, patch)
		} else {
			patch.Release()
		}
	}
	for i := len(kept); i < len(t.patches); i++ {
		t.patches[i] = nil
	}
	t.patches = kept
}

// Geometries returns the live patches as drawables.
func (t *Terrain) Geometries() []scene.Geometry {
	out := make([]scene.Geometry, len(t.patches))
	for i, patch := range t.patches {
		out[i] = patch
	}
	return out
}

// Center returns the patch cell the window is centered on.
func (t *Terrain) Center() (int32, int32) {
	return t.centerX, t.centerY
}

// Material returns the ground material the terrain is rendered with.
func (t *Terrain) Material() scene.Material {
	return t.material
}

// Release frees the GPU buffers of every live patch. The terrain must not
// be used afterwards.
func (t *Terrain) Release() {
	for _, patch := range t.patches {
		patch.Release()
	}
	t.patches = nil
}

// PatchCoord returns the patch grid cell containing a world position.
func PatchCoord(position mgl32.Vec3) (int32, int32) {
	return int32(math32.Floor(position.X() / PatchSize)),
		int32(math32.Floor(position.Z() / PatchSize))
}

func absInt(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}
