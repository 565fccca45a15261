// Package lighting provides the light sources materials shade with: a flat
// ambient term and directional sunlight with optional shadow mapping. Each
// light implements scene.Light, contributing a fragment shader snippet and
// the uniforms backing it.
package lighting

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/veldengine/veld/internal/engine/glcontext"
)

// AmbientLight adds a constant term to every surface regardless of
// orientation.
type AmbientLight struct {
	Color     mgl32.Vec3
	Intensity float32
}

// ShaderSource returns the ambient contribution snippet.
func (l *AmbientLight) ShaderSource(index int) string {
	return fmt.Sprintf(`	uniform vec3 lightColor%[1]d;

	vec3 lightContribution%[1]d(vec3 surface, vec3 position, vec3 normal) {
		return surface * lightColor%[1]d;
	}
`, index)
}

// UseUniforms binds the premultiplied light color.
func (l *AmbientLight) UseUniforms(program glcontext.Program, index int) {
	program.SetUniformVec3(fmt.Sprintf("lightColor%d", index), l.Color.Mul(l.Intensity))
}

// SunDirection converts sun angles to the direction the sunlight travels.
// Longitude rotates around the Y axis, latitude is the elevation above the
// horizon; both in degrees.
func SunDirection(longitude, latitude float32) mgl32.Vec3 {
	lon := mgl32.DegToRad(longitude)
	lat := mgl32.DegToRad(latitude)
	return mgl32.Vec3{
		-math32.Cos(lat) * math32.Sin(lon),
		-math32.Sin(lat),
		-math32.Cos(lat) * math32.Cos(lon),
	}
}
