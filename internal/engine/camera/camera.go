// Package camera provides the view and projection state used to render a
// scene.
package camera

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/veldengine/veld/internal/engine/glcontext"
)

type projectionKind int

const (
	perspectiveProjection projectionKind = iota
	orthographicProjection
)

// Camera holds a view transform and a projection, tied to the viewport it
// renders into.
type Camera struct {
	position mgl32.Vec3
	target   mgl32.Vec3
	up       mgl32.Vec3
	viewport glcontext.Viewport

	kind projectionKind
	// fovY is the vertical field of view in radians for perspective
	// projections; height is the frustum height in world units for
	// orthographic ones.
	fovY   float32
	height float32
	near   float32
	far    float32
}

// NewPerspective creates a camera with a perspective projection. The field
// of view is vertical, in degrees.
func NewPerspective(viewport glcontext.Viewport, position, target, up mgl32.Vec3, fovYDegrees, near, far float32) *Camera {
	return &Camera{
		position: position,
		target:   target,
		up:       up,
		viewport: viewport,
		kind:     perspectiveProjection,
		fovY:     mgl32.DegToRad(fovYDegrees),
		near:     near,
		far:      far,
	}
}

// NewOrthographic creates a camera with an orthographic projection of the
// given frustum height in world units; the width follows the viewport
// aspect ratio.
func NewOrthographic(viewport glcontext.Viewport, position, target, up mgl32.Vec3, height, near, far float32) *Camera {
	return &Camera{
		position: position,
		target:   target,
		up:       up,
		viewport: viewport,
		kind:     orthographicProjection,
		height:   height,
		near:     near,
		far:      far,
	}
}

func (c *Camera) Position() mgl32.Vec3 { return c.position }
func (c *Camera) Target() mgl32.Vec3   { return c.target }
func (c *Camera) Up() mgl32.Vec3       { return c.up }

// Viewport returns the viewport the camera renders into.
func (c *Camera) Viewport() glcontext.Viewport { return c.viewport }

// SetViewport resizes the viewport; the projection follows the new aspect
// ratio.
func (c *Camera) SetViewport(viewport glcontext.Viewport) {
	c.viewport = viewport
}

// SetView moves the camera.
func (c *Camera) SetView(position, target, up mgl32.Vec3) {
	c.position = position
	c.target = target
	c.up = up
}

func (c *Camera) aspect() float32 {
	if c.viewport.Height == 0 {
		return 1
	}
	return float32(c.viewport.Width) / float32(c.viewport.Height)
}

// ViewMatrix returns the world-to-view transform.
func (c *Camera) ViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.position, c.target, c.up)
}

// ProjectionMatrix returns the view-to-clip transform.
func (c *Camera) ProjectionMatrix() mgl32.Mat4 {
	if c.kind == orthographicProjection {
		halfHeight := c.height / 2
		halfWidth := halfHeight * c.aspect()
		return mgl32.Ortho(-halfWidth, halfWidth, -halfHeight, halfHeight, c.near, c.far)
	}
	return mgl32.Perspective(c.fovY, c.aspect(), c.near, c.far)
}

// ViewProjection returns projection times view.
func (c *Camera) ViewProjection() mgl32.Mat4 {
	return c.ProjectionMatrix().Mul4(c.ViewMatrix())
}

// Forward returns the normalized direction from the camera to its target.
func (c *Camera) Forward() mgl32.Vec3 {
	return c.target.Sub(c.position).Normalize()
}
