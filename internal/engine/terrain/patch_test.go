package terrain

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/veldengine/veld/internal/engine/camera"
	"github.com/veldengine/veld/internal/engine/glcontext"
	"github.com/veldengine/veld/internal/engine/glcontext/glcontexttest"
	"github.com/veldengine/veld/internal/engine/scene"
)

func abs(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

func flatGround(x, z float32) float32 { return 0 }

// stubMaterial records how the patch drives it during a render.
type stubMaterial struct {
	source    string
	programs  []glcontext.Program
	cams      []*camera.Camera
	lightLens []int
}

func (m *stubMaterial) FragmentShaderSource(lights []scene.Light) string { return m.source }

func (m *stubMaterial) UseUniforms(program glcontext.Program, cam *camera.Camera, lights []scene.Light) {
	m.programs = append(m.programs, program)
	m.cams = append(m.cams, cam)
	m.lightLens = append(m.lightLens, len(lights))
}

func TestPatchIndexCounts(t *testing.T) {
	tests := []struct {
		resolution uint32
		want       int
	}{
		{1, 6 * 67 * 67},
		{4, 6 * 16 * 16},
		{8, 6 * 8 * 8},
	}
	for _, tt := range tests {
		if got := len(patchIndices(tt.resolution)); got != tt.want {
			t.Errorf("len(patchIndices(%d)) = %d, want %d", tt.resolution, got, tt.want)
		}
	}
}

func TestPatchIndicesFirstQuad(t *testing.T) {
	fine := patchIndices(1)
	wantFine := []uint32{0, 1, 68, 68, 1, 69}
	for i, want := range wantFine {
		if fine[i] != want {
			t.Fatalf("fine quad = %v, want %v", fine[:6], wantFine)
		}
	}

	coarse := patchIndices(4)
	wantCoarse := []uint32{0, 4, 272, 272, 4, 276}
	for i, want := range wantCoarse {
		if coarse[i] != want {
			t.Fatalf("coarse quad = %v, want %v", coarse[:6], wantCoarse)
		}
	}
}

func TestPatchIndicesInRange(t *testing.T) {
	const vertexCount = verticesPerSide * verticesPerSide
	for _, resolution := range []uint32{1, 4, 8} {
		for _, index := range patchIndices(resolution) {
			if index >= vertexCount {
				t.Fatalf("resolution %d emits index %d beyond %d vertices", resolution, index, vertexCount)
			}
		}
	}
}

func TestPatchPositionsGrid(t *testing.T) {
	slope := func(x, z float32) float32 { return x + 10*z }
	positions := patchPositions(slope, 32, -16)

	if len(positions) != verticesPerSide*verticesPerSide*3 {
		t.Fatalf("got %d floats, want %d", len(positions), verticesPerSide*verticesPerSide*3)
	}

	check := func(r, c int, wantX, wantZ float32) {
		t.Helper()
		i := (r*verticesPerSide + c) * 3
		x, y, z := positions[i], positions[i+1], positions[i+2]
		if abs(x-wantX) > 0.0001 || abs(z-wantZ) > 0.0001 {
			t.Errorf("vertex (%d, %d) at (%f, %f), want (%f, %f)", r, c, x, z, wantX, wantZ)
		}
		if abs(y-slope(wantX, wantZ)) > 0.0001 {
			t.Errorf("vertex (%d, %d) height %f, want %f", r, c, y, slope(wantX, wantZ))
		}
	}

	check(0, 0, 32, -16)
	// Rows advance along X, columns along Z.
	check(1, 0, 32.25, -16)
	check(0, 1, 32, -15.75)
	// The grid overlaps a quarter cell into the next patch.
	check(verticesPerSide-1, verticesPerSide-1, 48.75, 0.75)
}

func TestPatchNormalsFlat(t *testing.T) {
	positions := patchPositions(flatGround, 0, 0)
	normals := patchNormals(flatGround, 0, 0, positions)

	for i := 0; i < len(normals); i += 3 {
		if abs(normals[i]) > 0.0001 || abs(normals[i+1]-1) > 0.0001 || abs(normals[i+2]) > 0.0001 {
			t.Fatalf("flat ground normal %d = (%f, %f, %f), want (0, 1, 0)",
				i/3, normals[i], normals[i+1], normals[i+2])
		}
	}
}

func TestPatchNormalsInclined(t *testing.T) {
	plane := func(x, z float32) float32 { return 0.5*x + 0.25*z }
	positions := patchPositions(plane, -16, 16)
	normals := patchNormals(plane, -16, 16, positions)

	want := mgl32.Vec3{-0.5, 1, -0.25}.Normalize()
	for i := 0; i < len(normals); i += 3 {
		if abs(normals[i]-want.X()) > 0.0001 || abs(normals[i+1]-want.Y()) > 0.0001 || abs(normals[i+2]-want.Z()) > 0.0001 {
			t.Fatalf("inclined plane normal %d = (%f, %f, %f), want %v",
				i/3, normals[i], normals[i+1], normals[i+2], want)
		}
	}
}

func TestPatchAABB(t *testing.T) {
	ctx := glcontexttest.New()
	patch := newGroundPatch(ctx, flatGround, 2, -1)

	box := patch.AABB()
	if box.Min != (mgl32.Vec3{32, -16, -16}) {
		t.Errorf("Min = %v, want (32, -16, -16)", box.Min)
	}
	if box.Max != (mgl32.Vec3{48, 16, 0}) {
		t.Errorf("Max = %v, want (48, 16, 0)", box.Max)
	}
}

func TestPatchDetailSelection(t *testing.T) {
	ctx := glcontexttest.New()
	patch := newGroundPatch(ctx, flatGround, 0, 0)

	tests := []struct {
		x0, y0 int32
		want   glcontext.IndexBuffer
		name   string
	}{
		{0, 0, patch.fine, "fine"},
		{2, 2, patch.fine, "fine"},
		{4, 0, patch.fine, "fine"},
		{5, 0, patch.coarse, "coarse"},
		{4, 4, patch.coarse, "coarse"},
		{0, 8, patch.coarse, "coarse"},
		{9, 0, patch.veryCoarse, "very coarse"},
		{5, 5, patch.veryCoarse, "very coarse"},
		{-12, 0, patch.veryCoarse, "very coarse"},
	}
	for _, tt := range tests {
		if got := patch.indexBuffer(tt.x0, tt.y0); got != tt.want {
			t.Errorf("indexBuffer(%d, %d) is not the %s buffer", tt.x0, tt.y0, tt.name)
		}
	}
}

func TestPatchRender(t *testing.T) {
	ctx := glcontexttest.New()
	patch := newGroundPatch(ctx, flatGround, 0, 0)
	cam := camera.NewPerspective(glcontext.ViewportAtOrigin(800, 600),
		mgl32.Vec3{8, 30, 8}, mgl32.Vec3{8, 0, 8}, mgl32.Vec3{0, 0, -1}, 60, 0.1, 500)
	material := &stubMaterial{source: "\t#version 410 core\n\n\tvoid main() {}\n"}

	if err := patch.RenderWithMaterial(material, cam, nil); err != nil {
		t.Fatalf("RenderWithMaterial: %v", err)
	}

	programs := ctx.Programs()
	if len(programs) != 1 {
		t.Fatalf("compiled %d programs, want 1", len(programs))
	}
	program := programs[0]
	if program.VertexSource != terrainVertexShader {
		t.Error("patch did not use the terrain vertex shader")
	}
	if program.FragmentSource != material.source {
		t.Error("patch did not use the material fragment source")
	}

	if len(material.programs) != 1 || material.programs[0] != glcontext.Program(program) {
		t.Error("material uniforms not bound on the patch program")
	}
	if material.cams[0] != cam {
		t.Error("material did not receive the render camera")
	}

	if got := program.Uniforms["modelMatrix"]; got != mgl32.Ident4() {
		t.Errorf("modelMatrix = %v, want identity", got)
	}
	if got := program.Uniforms["normalMatrix"]; got != mgl32.Ident4() {
		t.Errorf("normalMatrix = %v, want identity", got)
	}
	if got := program.Uniforms["viewProjectionMatrix"]; got != cam.ViewProjection() {
		t.Error("viewProjectionMatrix is not the camera view-projection")
	}

	if program.Attributes["position"] != patch.positions {
		t.Error("position attribute is not the patch position buffer")
	}
	if program.Attributes["normal"] != patch.normals {
		t.Error("normal attribute is not the patch normal buffer")
	}

	if len(program.Draws) != 1 {
		t.Fatalf("got %d draws, want 1", len(program.Draws))
	}
	draw := program.Draws[0]
	if draw.Indices != patch.fine {
		t.Error("camera over the patch did not draw the fine buffer")
	}
	if draw.State.Cull != glcontext.CullBack {
		t.Errorf("cull = %v, want back-face culling", draw.State.Cull)
	}
	if draw.State.DepthTest != glcontext.DepthTestLess {
		t.Errorf("depth test = %v, want less", draw.State.DepthTest)
	}
	if draw.State.WriteMask != glcontext.WriteMaskAll {
		t.Errorf("write mask = %v, want all channels", draw.State.WriteMask)
	}
	if draw.Viewport != cam.Viewport() {
		t.Errorf("viewport = %v, want the camera viewport", draw.Viewport)
	}
}

func TestPatchRenderDistantCamera(t *testing.T) {
	ctx := glcontexttest.New()
	patch := newGroundPatch(ctx, flatGround, 0, 0)
	// Nine cells away along X: the very coarse grid must be drawn.
	cam := camera.NewPerspective(glcontext.ViewportAtOrigin(800, 600),
		mgl32.Vec3{152, 30, 8}, mgl32.Vec3{8, 0, 8}, mgl32.Vec3{0, 1, 0}, 60, 0.1, 500)
	material := &stubMaterial{}

	if err := patch.RenderWithMaterial(material, cam, nil); err != nil {
		t.Fatalf("RenderWithMaterial: %v", err)
	}

	program := ctx.Programs()[0]
	if program.Draws[0].Indices != patch.veryCoarse {
		t.Error("distant camera did not draw the very coarse buffer")
	}
}

func TestPatchRenderShaderError(t *testing.T) {
	ctx := glcontexttest.New()
	patch := newGroundPatch(ctx, flatGround, 0, 0)
	ctx.FailProgram = &glcontext.ShaderError{Stage: "fragment", Log: "undeclared identifier"}
	cam := camera.NewPerspective(glcontext.ViewportAtOrigin(800, 600),
		mgl32.Vec3{8, 30, 8}, mgl32.Vec3{8, 0, 8}, mgl32.Vec3{0, 0, -1}, 60, 0.1, 500)
	material := &stubMaterial{}

	err := patch.RenderWithMaterial(material, cam, nil)
	if err == nil {
		t.Fatal("shader failure not reported")
	}
	var shaderErr *glcontext.ShaderError
	if !errors.As(err, &shaderErr) || shaderErr.Stage != "fragment" {
		t.Errorf("err = %v, want wrapped fragment ShaderError", err)
	}
	if len(material.programs) != 0 {
		t.Error("material uniforms bound despite shader failure")
	}
}

func TestPatchRelease(t *testing.T) {
	ctx := glcontexttest.New()
	patch := newGroundPatch(ctx, flatGround, 3, 4)

	patch.Release()

	for i, vb := range ctx.VertexBuffers {
		if !vb.Released {
			t.Errorf("vertex buffer %d not released", i)
		}
	}
	if len(ctx.VertexBuffers) != 2 {
		t.Errorf("patch created %d vertex buffers, want 2", len(ctx.VertexBuffers))
	}
	for i, ib := range ctx.IndexBuffers {
		if !ib.Released {
			t.Errorf("index buffer %d not released", i)
		}
	}
	if len(ctx.IndexBuffers) != 3 {
		t.Errorf("patch created %d index buffers, want 3", len(ctx.IndexBuffers))
	}
}
