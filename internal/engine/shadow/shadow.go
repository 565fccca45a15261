// Package shadow fits an orthographic camera to a scene from a directional
// light's point of view, for rendering shadow maps.
package shadow

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/veldengine/veld/internal/engine/camera"
	"github.com/veldengine/veld/internal/engine/glcontext"
	"github.com/veldengine/veld/internal/engine/picking"
)

// LightCamera returns an orthographic camera looking along direction at the
// center of bounds, with the frustum sized so the whole box fits inside.
// direction is the way the light shines and must be non-zero; resolution is
// the side length of the square shadow map the camera renders into.
func LightCamera(direction mgl32.Vec3, bounds picking.AABB, resolution int32) *camera.Camera {
	center := bounds.Center()
	radius := bounds.Radius()

	dir := direction.Normalize()
	distance := radius * 2
	position := center.Sub(dir.Mul(distance))

	// A vertical light would be parallel to the default up vector.
	up := mgl32.Vec3{0, 1, 0}
	if math32.Abs(dir.Y()) > 0.99 {
		up = mgl32.Vec3{0, 0, 1}
	}

	// Pad the frustum a little to keep geometry off the shadow map edges.
	padding := radius * 0.1
	height := 2 * (radius + padding)
	far := distance + radius + padding

	return camera.NewOrthographic(glcontext.ViewportAtOrigin(resolution, resolution),
		position, center, up, height, 0.1, far)
}
