package rendertarget

import (
	"go.uber.org/zap"

	"github.com/veldengine/veld/internal/engine/glcontext"
	"github.com/veldengine/veld/internal/logger"
)

// copyVertexShader covers the viewport with a single triangle; positions
// come from gl_VertexID so no vertex buffer is needed.
const copyVertexShader = `
	#version 410 core

	out vec2 uvs;

	void main() {
		float x = float((gl_VertexID & 1) << 2);
		float y = float((gl_VertexID & 2) << 1);
		uvs = vec2(x * 0.5, y * 0.5);
		gl_Position = vec4(x - 1.0, y - 1.0, 0.0, 1.0);
	}
`

// CopyFrom writes the given color and/or depth textures onto the part of the
// target inside the scissor box, stretched to fill it. Either texture may be
// nil; with both nil the call is a no-op. The write mask is restricted to
// the channels a source exists for.
func (rt *RenderTarget) CopyFrom(color, depth glcontext.TextureBinder, box glcontext.ScissorBox, mask glcontext.WriteMask) *RenderTarget {
	if color == nil && depth == nil {
		return rt
	}
	return rt.WritePartially(box, func() {
		program, err := rt.ctx.Program(copyVertexShader, copyFragmentSource(color != nil, depth != nil, false))
		if err != nil {
			// The sources are embedded constants, so this only fires on a
			// broken driver.
			logger.Named("rendertarget").Error("copy pass shader failed", zap.Error(err))
			return
		}
		if color != nil {
			program.SetTexture("colorMap", color)
		}
		if depth != nil {
			program.SetTexture("depthMap", depth)
		}
		rt.drawCopy(program, box, mask, color != nil, depth != nil)
	})
}

// CopyFromArray is CopyFrom sampling one layer of array textures.
func (rt *RenderTarget) CopyFromArray(color glcontext.TextureBinder, colorLayer int32, depth glcontext.TextureBinder, depthLayer int32, box glcontext.ScissorBox, mask glcontext.WriteMask) *RenderTarget {
	if color == nil && depth == nil {
		return rt
	}
	return rt.WritePartially(box, func() {
		program, err := rt.ctx.Program(copyVertexShader, copyFragmentSource(color != nil, depth != nil, true))
		if err != nil {
			logger.Named("rendertarget").Error("copy pass shader failed", zap.Error(err))
			return
		}
		if color != nil {
			program.SetTexture("colorMap", color)
			program.SetUniformInt("colorLayer", colorLayer)
		}
		if depth != nil {
			program.SetTexture("depthMap", depth)
			program.SetUniformInt("depthLayer", depthLayer)
		}
		rt.drawCopy(program, box, mask, color != nil, depth != nil)
	})
}

func (rt *RenderTarget) drawCopy(program glcontext.Program, box glcontext.ScissorBox, mask glcontext.WriteMask, hasColor, hasDepth bool) {
	if !hasColor {
		mask.Red, mask.Green, mask.Blue, mask.Alpha = false, false, false, false
	}
	if !hasDepth {
		mask.Depth = false
	}
	state := glcontext.RenderState{
		Cull:      glcontext.CullNone,
		DepthTest: glcontext.DepthTestAlways,
		WriteMask: mask,
	}
	viewport := glcontext.Viewport{X: box.X, Y: box.Y, Width: box.Width, Height: box.Height}
	program.DrawArrays(state, viewport, 0, 3)
}

// copyFragmentSource assembles the copy shader for the present sources.
func copyFragmentSource(hasColor, hasDepth, array bool) string {
	src := "\t#version 410 core\n\n"

	sampler := "sampler2D"
	if array {
		sampler = "sampler2DArray"
	}
	if hasColor {
		src += "\tuniform " + sampler + " colorMap;\n"
		if array {
			src += "\tuniform int colorLayer;\n"
		}
	}
	if hasDepth {
		src += "\tuniform " + sampler + " depthMap;\n"
		if array {
			src += "\tuniform int depthLayer;\n"
		}
	}

	src += "\n\tin vec2 uvs;\n"
	if hasColor {
		src += "\n\tlayout (location = 0) out vec4 outColor;\n"
	}

	src += "\n\tvoid main() {\n"
	if hasColor {
		if array {
			src += "\t\toutColor = texture(colorMap, vec3(uvs, colorLayer));\n"
		} else {
			src += "\t\toutColor = texture(colorMap, uvs);\n"
		}
	}
	if hasDepth {
		if array {
			src += "\t\tgl_FragDepth = texture(depthMap, vec3(uvs, depthLayer)).x;\n"
		} else {
			src += "\t\tgl_FragDepth = texture(depthMap, uvs).x;\n"
		}
	}
	src += "\t}\n"

	return src
}
