// Package picking provides ray casting against world geometry, used to turn
// mouse positions into terrain coordinates.
package picking

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Ray is a half-line in world space. Direction is normalized.
type Ray struct {
	Origin    mgl32.Vec3
	Direction mgl32.Vec3
}

// AABB is an axis-aligned bounding box.
type AABB struct {
	Min mgl32.Vec3
	Max mgl32.Vec3
}

// NewAABB creates an AABB from two opposite corners, swapping per axis so
// that Min is the smaller corner.
func NewAABB(a, b mgl32.Vec3) AABB {
	box := AABB{Min: a, Max: b}
	for i := 0; i < 3; i++ {
		if box.Min[i] > box.Max[i] {
			box.Min[i], box.Max[i] = box.Max[i], box.Min[i]
		}
	}
	return box
}

// Center returns the midpoint of the box.
func (b AABB) Center() mgl32.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Radius returns half the diagonal, the radius of the bounding sphere around
// Center.
func (b AABB) Radius() float32 {
	return b.Max.Sub(b.Min).Len() / 2
}

// Union returns the smallest box containing both boxes.
func (b AABB) Union(other AABB) AABB {
	out := b
	for i := 0; i < 3; i++ {
		if other.Min[i] < out.Min[i] {
			out.Min[i] = other.Min[i]
		}
		if other.Max[i] > out.Max[i] {
			out.Max[i] = other.Max[i]
		}
	}
	return out
}

// ScreenToRay converts a pixel position to a world-space ray. invViewProj is
// the inverse of the camera's view-projection matrix.
func ScreenToRay(screenX, screenY, viewportW, viewportH float32, invViewProj mgl32.Mat4) Ray {
	// Screen Y grows downwards, NDC Y upwards.
	ndcX := 2*screenX/viewportW - 1
	ndcY := 1 - 2*screenY/viewportH

	near := unproject(invViewProj, mgl32.Vec4{ndcX, ndcY, -1, 1})
	far := unproject(invViewProj, mgl32.Vec4{ndcX, ndcY, 1, 1})

	dir := far.Sub(near)
	if length := dir.Len(); length > 0 {
		dir = dir.Mul(1 / length)
	}
	return Ray{Origin: near, Direction: dir}
}

func unproject(invViewProj mgl32.Mat4, ndc mgl32.Vec4) mgl32.Vec3 {
	world := invViewProj.Mul4x1(ndc)
	if world.W() != 0 {
		return world.Vec3().Mul(1 / world.W())
	}
	return world.Vec3()
}

// IntersectPlaneY intersects the ray with the horizontal plane at the given
// height. Reports the hit point on the plane; ok is false when the ray is
// parallel to the plane or the hit lies behind the origin.
func (r Ray) IntersectPlaneY(planeY float32) (x, z float32, ok bool) {
	if math32.Abs(r.Direction.Y()) < 0.001 {
		return 0, 0, false
	}

	t := (planeY - r.Origin.Y()) / r.Direction.Y()
	if t < 0 {
		return 0, 0, false
	}

	x = r.Origin.X() + t*r.Direction.X()
	z = r.Origin.Z() + t*r.Direction.Z()
	return x, z, true
}

// IntersectAABB tests the ray against a box using the slab method. It reports
// the distance along the ray to the entry point, or to the exit point when
// the origin is inside the box.
func (r Ray) IntersectAABB(box AABB) (t float32, hit bool) {
	tmin := float32(-math32.MaxFloat32)
	tmax := float32(math32.MaxFloat32)

	for i := 0; i < 3; i++ {
		if r.Direction[i] == 0 {
			if r.Origin[i] < box.Min[i] || r.Origin[i] > box.Max[i] {
				return 0, false
			}
			continue
		}

		t1 := (box.Min[i] - r.Origin[i]) / r.Direction[i]
		t2 := (box.Max[i] - r.Origin[i]) / r.Direction[i]
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 > tmin {
			tmin = t1
		}
		if t2 < tmax {
			tmax = t2
		}
	}

	if tmax < tmin || tmax < 0 {
		return 0, false
	}
	if tmin < 0 {
		return tmax, true
	}
	return tmin, true
}
