package scene

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/veldengine/veld/internal/engine/camera"
	"github.com/veldengine/veld/internal/engine/glcontext"
)

// DiffuseMaterial shades geometry with a base color, an optional tiling
// texture and Lambert lighting from the lights it is rendered with. Texture
// coordinates come from the world XZ position, which suits ground geometry
// and needs no UV attribute. Without lights the surface renders black.
type DiffuseMaterial struct {
	Color   mgl32.Vec4
	Texture glcontext.TextureBinder
	// TextureScale maps world units to texture repeats. Zero means 1.
	TextureScale float32
}

// FragmentShaderSource assembles the Lambert shader from the light snippets.
func (m *DiffuseMaterial) FragmentShaderSource(lights []Light) string {
	var b strings.Builder
	b.WriteString("\t#version 410 core\n\n")
	b.WriteString("\tuniform vec4 surfaceColor;\n")
	if m.Texture != nil {
		b.WriteString("\tuniform sampler2D colorTexture;\n")
		b.WriteString("\tuniform float textureScale;\n")
	}
	b.WriteString("\n\tin vec3 worldPosition;\n\tin vec3 worldNormal;\n")
	b.WriteString("\n\tlayout (location = 0) out vec4 outColor;\n")

	for i, light := range lights {
		b.WriteString("\n")
		b.WriteString(light.ShaderSource(i))
	}

	b.WriteString("\n\tvoid main() {\n")
	b.WriteString("\t\tvec3 normal = normalize(worldNormal);\n")
	b.WriteString("\t\tvec4 base = surfaceColor;\n")
	if m.Texture != nil {
		b.WriteString("\t\tbase *= texture(colorTexture, worldPosition.xz * textureScale);\n")
	}
	b.WriteString("\t\tvec3 lit = vec3(0.0);\n")
	for i := range lights {
		fmt.Fprintf(&b, "\t\tlit += lightContribution%d(base.rgb, worldPosition, normal);\n", i)
	}
	b.WriteString("\t\toutColor = vec4(lit, base.a);\n")
	b.WriteString("\t}\n")
	return b.String()
}

// UseUniforms binds the material and light uniforms.
func (m *DiffuseMaterial) UseUniforms(program glcontext.Program, cam *camera.Camera, lights []Light) {
	program.SetUniformVec4("surfaceColor", m.Color)
	if m.Texture != nil {
		scale := m.TextureScale
		if scale == 0 {
			scale = 1
		}
		program.SetTexture("colorTexture", m.Texture)
		program.SetUniformFloat("textureScale", scale)
	}
	for i, light := range lights {
		light.UseUniforms(program, i)
	}
}

// DepthMaterial writes only to the depth buffer; the fragment stage outputs
// no color. Shadow passes render with it.
type DepthMaterial struct{}

// FragmentShaderSource returns an empty-bodied fragment shader.
func (DepthMaterial) FragmentShaderSource(lights []Light) string {
	return "\t#version 410 core\n\n\tvoid main() {}\n"
}

// UseUniforms is a no-op; depth rendering needs no material uniforms.
func (DepthMaterial) UseUniforms(program glcontext.Program, cam *camera.Camera, lights []Light) {}
