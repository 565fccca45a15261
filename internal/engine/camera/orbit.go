package camera

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// OrbitController drives a Camera around a center point from mouse input:
// drag to rotate, wheel to zoom, keys to pan the center across the ground
// plane.
type OrbitController struct {
	camera *Camera

	center   mgl32.Vec3
	distance float32
	yaw      float32
	pitch    float32

	MinDistance float32
	MaxDistance float32
	MinPitch    float32
	MaxPitch    float32

	DragSensitivity float32
	ZoomSensitivity float32
}

// NewOrbitController attaches an orbit controller to the camera, orbiting
// center at the given distance, and moves the camera to the initial orbit
// position.
func NewOrbitController(cam *Camera, center mgl32.Vec3, distance float32) *OrbitController {
	c := &OrbitController{
		camera:          cam,
		center:          center,
		distance:        distance,
		pitch:           0.5,
		MinDistance:     2.0,
		MaxDistance:     500.0,
		MinPitch:        0.1,
		MaxPitch:        1.5,
		DragSensitivity: 0.005,
		ZoomSensitivity: 0.1,
	}
	c.apply()
	return c
}

// Center returns the orbit center.
func (c *OrbitController) Center() mgl32.Vec3 { return c.center }

// Distance returns the distance from the camera to the orbit center.
func (c *OrbitController) Distance() float32 { return c.distance }

// SetCenter moves the orbit center, keeping the current rotation and
// distance.
func (c *OrbitController) SetCenter(center mgl32.Vec3) {
	c.center = center
	c.apply()
}

// HandleDrag rotates the camera from a mouse drag delta in pixels.
func (c *OrbitController) HandleDrag(deltaX, deltaY float32) {
	c.yaw -= deltaX * c.DragSensitivity
	c.pitch += deltaY * c.DragSensitivity

	if c.pitch < c.MinPitch {
		c.pitch = c.MinPitch
	}
	if c.pitch > c.MaxPitch {
		c.pitch = c.MaxPitch
	}
	c.apply()
}

// HandleZoom moves the camera towards or away from the center from a scroll
// wheel delta. The step scales with the current distance for a consistent
// feel.
func (c *OrbitController) HandleZoom(delta float32) {
	c.distance -= delta * c.distance * c.ZoomSensitivity
	if c.distance < c.MinDistance {
		c.distance = c.MinDistance
	}
	if c.distance > c.MaxDistance {
		c.distance = c.MaxDistance
	}
	c.apply()
}

// Pan moves the orbit center across the XZ plane relative to the current
// view direction.
func (c *OrbitController) Pan(forward, right float32) {
	speed := c.distance * 0.01
	dirX := math32.Sin(c.yaw)
	dirZ := math32.Cos(c.yaw)

	c.center = c.center.Add(mgl32.Vec3{
		(-dirX*forward + dirZ*right) * speed,
		0,
		(-dirZ*forward - dirX*right) * speed,
	})
	c.apply()
}

// position computes the camera position from the spherical orbit state.
func (c *OrbitController) position() mgl32.Vec3 {
	x := c.distance * math32.Cos(c.pitch) * math32.Sin(c.yaw)
	y := c.distance * math32.Sin(c.pitch)
	z := c.distance * math32.Cos(c.pitch) * math32.Cos(c.yaw)
	return c.center.Add(mgl32.Vec3{x, y, z})
}

func (c *OrbitController) apply() {
	c.camera.SetView(c.position(), c.center, mgl32.Vec3{0, 1, 0})
}
