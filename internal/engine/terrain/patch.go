package terrain

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/veldengine/veld/internal/engine/camera"
	"github.com/veldengine/veld/internal/engine/glcontext"
	"github.com/veldengine/veld/internal/engine/picking"
	"github.com/veldengine/veld/internal/engine/scene"
)

// terrainVertexShader transforms patch vertices and hands the world position
// and normal to the material fragment stage.
const terrainVertexShader = `
	#version 410 core

	uniform mat4 modelMatrix;
	uniform mat4 viewProjectionMatrix;
	uniform mat4 normalMatrix;

	in vec3 position;
	in vec3 normal;

	out vec3 worldPosition;
	out vec3 worldNormal;

	void main() {
		vec4 world = modelMatrix * vec4(position, 1.0);
		worldPosition = world.xyz;
		worldNormal = mat3(normalMatrix) * normal;
		gl_Position = viewProjectionMatrix * world;
	}
`

// GroundPatch is one terrain tile: a PatchSize square of height samples with
// position and normal buffers, and index buffers at three detail levels.
// Patches are immutable once built.
type GroundPatch struct {
	ctx glcontext.Context
	ix  int32
	iy  int32

	positions  glcontext.VertexBuffer
	normals    glcontext.VertexBuffer
	fine       glcontext.IndexBuffer
	coarse     glcontext.IndexBuffer
	veryCoarse glcontext.IndexBuffer
}

func newGroundPatch(ctx glcontext.Context, height HeightFunc, ix, iy int32) *GroundPatch {
	offsetX := float32(ix) * PatchSize
	offsetZ := float32(iy) * PatchSize
	positions := patchPositions(height, offsetX, offsetZ)
	normals := patchNormals(height, offsetX, offsetZ, positions)

	return &GroundPatch{
		ctx:        ctx,
		ix:         ix,
		iy:         iy,
		positions:  ctx.NewVertexBuffer(positions, 3),
		normals:    ctx.NewVertexBuffer(normals, 3),
		fine:       ctx.NewIndexBuffer(patchIndices(1)),
		coarse:     ctx.NewIndexBuffer(patchIndices(4)),
		veryCoarse: ctx.NewIndexBuffer(patchIndices(8)),
	}
}

// RenderWithMaterial draws the patch into the camera's viewport. The index
// detail level follows the Manhattan distance from the patch to the cell
// the camera is over.
func (p *GroundPatch) RenderWithMaterial(material scene.Material, cam *camera.Camera, lights []scene.Light) error {
	x0, y0 := PatchCoord(cam.Position())

	program, err := p.ctx.Program(terrainVertexShader, material.FragmentShaderSource(lights))
	if err != nil {
		return fmt.Errorf("ground patch program: %w", err)
	}

	material.UseUniforms(program, cam, lights)
	model := mgl32.Ident4()
	program.SetUniformMat4("modelMatrix", model)
	program.SetUniformMat4("viewProjectionMatrix", cam.ViewProjection())
	program.SetUniformMat4("normalMatrix", model.Inv().Transpose())

	program.SetAttribute("position", p.positions)
	program.SetAttribute("normal", p.normals)

	state := glcontext.DefaultRenderState()
	state.Cull = glcontext.CullBack

	program.DrawElements(state, cam.Viewport(), p.indexBuffer(x0, y0))
	return nil
}

// AABB returns the patch footprint with a coarse vertical bound.
func (p *GroundPatch) AABB() picking.AABB {
	return picking.NewAABB(
		mgl32.Vec3{float32(p.ix) * PatchSize, -PatchSize, float32(p.iy) * PatchSize},
		mgl32.Vec3{float32(p.ix+1) * PatchSize, PatchSize, float32(p.iy+1) * PatchSize},
	)
}

// Release frees the patch's GPU buffers.
func (p *GroundPatch) Release() {
	p.positions.Release()
	p.normals.Release()
	p.fine.Release()
	p.coarse.Release()
	p.veryCoarse.Release()
}

// indexBuffer picks the detail level for a camera over cell (x0, y0).
// Farther patches draw with coarser grids.
func (p *GroundPatch) indexBuffer(x0, y0 int32) glcontext.IndexBuffer {
	dist := absInt(p.ix-x0) + absInt(p.iy-y0)
	if dist > 8 {
		return p.veryCoarse
	}
	if dist > 4 {
		return p.coarse
	}
	return p.fine
}

// patchPositions samples the height function over the patch footprint. Rows
// advance along X, columns along Z; the grid reaches a quarter cell past the
// patch so neighboring patches share their seam vertices.
func patchPositions(height HeightFunc, offsetX, offsetZ float32) []float32 {
	data := make([]float32, 0, verticesPerSide*verticesPerSide*3)
	for r := 0; r < verticesPerSide; r++ {
		x := offsetX + float32(r)*vertexDistance
		for c := 0; c < verticesPerSide; c++ {
			z := offsetZ + float32(c)*vertexDistance
			data = append(data, x, height(x, z), z)
		}
	}
	return data
}

// patchNormals estimates vertex normals by central differences over the
// sampled heights. Boundary vertices sample the height function directly for
// the neighbor outside the grid.
func patchNormals(height HeightFunc, offsetX, offsetZ float32, positions []float32) []float32 {
	const h = vertexDistance
	data := make([]float32, 0, verticesPerSide*verticesPerSide*3)
	for r := 0; r < verticesPerSide; r++ {
		x := offsetX + float32(r)*vertexDistance
		for c := 0; c < verticesPerSide; c++ {
			z := offsetZ + float32(c)*vertexDistance
			vertexID := r*verticesPerSide + c

			var xp, xm, zp, zm float32
			if r == verticesPerSide-1 {
				xp = height(x+h, z)
			} else {
				xp = positions[(vertexID+verticesPerSide)*3+1]
			}
			if r == 0 {
				xm = height(x-h, z)
			} else {
				xm = positions[(vertexID-verticesPerSide)*3+1]
			}
			if c == verticesPerSide-1 {
				zp = height(x, z+h)
			} else {
				zp = positions[(vertexID+1)*3+1]
			}
			if c == 0 {
				zm = height(x, z-h)
			} else {
				zm = positions[(vertexID-1)*3+1]
			}

			normal := mgl32.Vec3{-(xp - xm), 2 * h, -(zp - zm)}.Normalize()
			data = append(data, normal.X(), normal.Y(), normal.Z())
		}
	}
	return data
}

// patchIndices builds two-triangle quads over the vertex grid decimated by
// resolution. Coarser resolutions that do not divide the grid evenly leave
// the far seam row to the neighboring patch's overlap.
func patchIndices(resolution uint32) []uint32 {
	const stride uint32 = verticesPerSide
	max := (stride - 1) / resolution
	indices := make([]uint32, 0, max*max*6)
	for r := uint32(0); r < max; r++ {
		for c := uint32(0); c < max; c++ {
			indices = append(indices,
				r*resolution+c*resolution*stride,
				r*resolution+resolution+c*resolution*stride,
				r*resolution+(c*resolution+resolution)*stride,
				r*resolution+(c*resolution+resolution)*stride,
				r*resolution+resolution+c*resolution*stride,
				r*resolution+resolution+(c*resolution+resolution)*stride,
			)
		}
	}
	return indices
}
