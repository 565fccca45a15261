// Package scene defines how drawable things, materials and lights plug into
// each other. A Material assembles its fragment shader from the shader
// snippets of the lights it is rendered with, so the same geometry renders
// lit, unlit or depth-only depending on the material alone.
package scene

import (
	"github.com/veldengine/veld/internal/engine/camera"
	"github.com/veldengine/veld/internal/engine/glcontext"
	"github.com/veldengine/veld/internal/engine/picking"
)

// Geometry is anything that can be drawn with a material.
type Geometry interface {
	// RenderWithMaterial draws the geometry with the given material and
	// lights, from the camera's point of view.
	RenderWithMaterial(material Material, cam *camera.Camera, lights []Light) error
	// AABB returns the world-space bounds of the geometry.
	AABB() picking.AABB
}

// Material produces the fragment stage of a draw and binds its uniforms.
type Material interface {
	// FragmentShaderSource returns the fragment shader built for this set of
	// lights. The same lights must be passed to UseUniforms.
	FragmentShaderSource(lights []Light) string
	// UseUniforms sets the material's uniforms, including those of the
	// lights, on a program compiled from FragmentShaderSource.
	UseUniforms(program glcontext.Program, cam *camera.Camera, lights []Light)
}

// Light contributes a shader snippet and matching uniforms to materials.
// The snippet declares a function lightContribution<index> taking the
// surface color, world position and normal.
type Light interface {
	ShaderSource(index int) string
	UseUniforms(program glcontext.Program, index int)
}
