package shadow

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/veldengine/veld/internal/engine/picking"
)

func abs(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

func corners(box picking.AABB) []mgl32.Vec3 {
	var out []mgl32.Vec3
	for _, x := range []float32{box.Min.X(), box.Max.X()} {
		for _, y := range []float32{box.Min.Y(), box.Max.Y()} {
			for _, z := range []float32{box.Min.Z(), box.Max.Z()} {
				out = append(out, mgl32.Vec3{x, y, z})
			}
		}
	}
	return out
}

func TestLightCameraContainsBounds(t *testing.T) {
	bounds := picking.NewAABB(mgl32.Vec3{-10, 0, 5}, mgl32.Vec3{30, 20, 45})
	cam := LightCamera(mgl32.Vec3{1, -1, 0.5}, bounds, 1024)

	vp := cam.ViewProjection()
	for _, corner := range corners(bounds) {
		clip := vp.Mul4x1(corner.Vec4(1))
		ndc := clip.Vec3().Mul(1 / clip.W())
		for i := 0; i < 3; i++ {
			if abs(ndc[i]) > 1.001 {
				t.Errorf("corner %v outside the light frustum: ndc %v", corner, ndc)
				break
			}
		}
	}
}

func TestLightCameraLooksAtCenter(t *testing.T) {
	bounds := picking.NewAABB(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{32, 8, 32})
	direction := mgl32.Vec3{1, -2, 1}
	cam := LightCamera(direction, bounds, 512)

	if cam.Target() != bounds.Center() {
		t.Errorf("target = %v, want bounds center %v", cam.Target(), bounds.Center())
	}

	forward := cam.Forward()
	want := direction.Normalize()
	if abs(forward.X()-want.X()) > 0.001 || abs(forward.Y()-want.Y()) > 0.001 || abs(forward.Z()-want.Z()) > 0.001 {
		t.Errorf("forward = %v, want light direction %v", forward, want)
	}

	viewport := cam.Viewport()
	if viewport.Width != 512 || viewport.Height != 512 {
		t.Errorf("viewport = %v, want 512x512", viewport)
	}
}

func TestLightCameraVerticalLight(t *testing.T) {
	bounds := picking.NewAABB(mgl32.Vec3{-16, -4, -16}, mgl32.Vec3{16, 4, 16})
	cam := LightCamera(mgl32.Vec3{0, -1, 0}, bounds, 256)

	// Straight-down light sits above the scene and still yields a usable
	// view; the up vector must have been flipped off the light axis.
	if cam.Position().Y() <= bounds.Max.Y() {
		t.Errorf("light camera position %v is not above the scene", cam.Position())
	}

	vp := cam.ViewProjection()
	clip := vp.Mul4x1(bounds.Center().Vec4(1))
	ndc := clip.Vec3().Mul(1 / clip.W())
	if abs(ndc.X()) > 0.001 || abs(ndc.Y()) > 0.001 {
		t.Errorf("scene center off the shadow map center: ndc %v", ndc)
	}
}
