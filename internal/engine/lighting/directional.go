package lighting

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/veldengine/veld/internal/engine/glcontext"
	"github.com/veldengine/veld/internal/engine/rendertarget"
	"github.com/veldengine/veld/internal/engine/scene"
	"github.com/veldengine/veld/internal/engine/shadow"
)

// ShadowTexture is the depth texture a directional light renders its shadow
// map into and samples it back from. Satisfied by texture.DepthTexture2D.
type ShadowTexture interface {
	glcontext.TextureBinder
	Width() int32
	AsDepthTarget() *rendertarget.DepthTarget
}

// DirectionalLight shines parallel light along Direction, like the sun.
// After GenerateShadowMap it also darkens surfaces occluded from the light.
type DirectionalLight struct {
	// Direction is the way the light travels, not the way to the light.
	Direction mgl32.Vec3
	Color     mgl32.Vec3
	Intensity float32

	shadowMap    ShadowTexture
	shadowMatrix mgl32.Mat4
}

// ShaderSource returns the Lambert contribution snippet, with a shadow map
// lookup when one has been generated.
func (l *DirectionalLight) ShaderSource(index int) string {
	if l.shadowMap == nil {
		return fmt.Sprintf(`	uniform vec3 lightColor%[1]d;
	uniform vec3 lightDirection%[1]d;

	vec3 lightContribution%[1]d(vec3 surface, vec3 position, vec3 normal) {
		float diffuse = max(dot(normal, -lightDirection%[1]d), 0.0);
		return surface * lightColor%[1]d * diffuse;
	}
`, index)
	}
	return fmt.Sprintf(`	uniform vec3 lightColor%[1]d;
	uniform vec3 lightDirection%[1]d;
	uniform sampler2D shadowMap%[1]d;
	uniform mat4 shadowMatrix%[1]d;

	float shadowFactor%[1]d(vec3 position) {
		vec4 shadowCoord = shadowMatrix%[1]d * vec4(position, 1.0);
		vec3 coords = shadowCoord.xyz / shadowCoord.w * 0.5 + 0.5;
		if (coords.z > 1.0) {
			return 1.0;
		}
		float closest = texture(shadowMap%[1]d, coords.xy).x;
		return coords.z - 0.005 > closest ? 0.0 : 1.0;
	}

	vec3 lightContribution%[1]d(vec3 surface, vec3 position, vec3 normal) {
		float diffuse = max(dot(normal, -lightDirection%[1]d), 0.0);
		return surface * lightColor%[1]d * diffuse * shadowFactor%[1]d(position);
	}
`, index)
}

// UseUniforms binds the light color, direction and, when present, the shadow
// map and its matrix.
func (l *DirectionalLight) UseUniforms(program glcontext.Program, index int) {
	program.SetUniformVec3(fmt.Sprintf("lightColor%d", index), l.Color.Mul(l.Intensity))
	program.SetUniformVec3(fmt.Sprintf("lightDirection%d", index), l.Direction.Normalize())
	if l.shadowMap != nil {
		program.SetTexture(fmt.Sprintf("shadowMap%d", index), l.shadowMap)
		program.SetUniformMat4(fmt.Sprintf("shadowMatrix%d", index), l.shadowMatrix)
	}
}

// GenerateShadowMap renders the geometries depth-only into shadowMap from
// the light's point of view and attaches the result to the light. The light
// borrows the texture; the caller owns it. With no geometries the light
// reverts to unshadowed rendering.
func (l *DirectionalLight) GenerateShadowMap(ctx glcontext.Context, shadowMap ShadowTexture, geometries []scene.Geometry) error {
	if len(geometries) == 0 {
		l.shadowMap = nil
		return nil
	}

	bounds := geometries[0].AABB()
	for _, geometry := range geometries[1:] {
		bounds = bounds.Union(geometry.AABB())
	}
	cam := shadow.LightCamera(l.Direction, bounds, shadowMap.Width())

	target, err := rendertarget.NewDepth(ctx, shadowMap.AsDepthTarget())
	if err != nil {
		return fmt.Errorf("shadow map target: %w", err)
	}
	defer target.Release()

	var renderErr error
	target.Clear(rendertarget.DepthClear(1)).Write(func() {
		for _, geometry := range geometries {
			if err := geometry.RenderWithMaterial(scene.DepthMaterial{}, cam, nil); err != nil && renderErr == nil {
				renderErr = err
			}
		}
	})
	if renderErr != nil {
		return renderErr
	}

	l.shadowMap = shadowMap
	l.shadowMatrix = cam.ViewProjection()
	return nil
}

// ClearShadowMap detaches the shadow map from the light. The texture itself
// stays alive, owned by the caller.
func (l *DirectionalLight) ClearShadowMap() {
	l.shadowMap = nil
}

// ShadowMap returns the texture attached by GenerateShadowMap, or nil.
func (l *DirectionalLight) ShadowMap() ShadowTexture {
	return l.shadowMap
}

// ShadowMatrix returns the light view-projection of the last generated
// shadow map.
func (l *DirectionalLight) ShadowMatrix() mgl32.Mat4 {
	return l.shadowMatrix
}
