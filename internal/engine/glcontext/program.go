package glcontext

import (
	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

type programKey struct {
	vertex   string
	fragment string
}

// glProgram is a linked shader program with cached uniform and attribute
// locations and a program-owned VAO for its attribute bindings.
type glProgram struct {
	ctx      *glContext
	id       uint32
	vao      uint32
	uniforms map[string]int32
	attribs  map[string]int32
	units    map[string]int32
}

func (c *glContext) Program(vertexSrc, fragmentSrc string) (Program, error) {
	key := programKey{vertex: vertexSrc, fragment: fragmentSrc}
	if p, ok := c.programs[key]; ok {
		return p, nil
	}

	id, err := compileProgram(vertexSrc, fragmentSrc)
	if err != nil {
		return nil, err
	}

	p := &glProgram{
		ctx:      c,
		id:       id,
		uniforms: make(map[string]int32),
		attribs:  make(map[string]int32),
		units:    make(map[string]int32),
	}
	gl.GenVertexArrays(1, &p.vao)
	c.programs[key] = p

	return p, nil
}

// compileProgram compiles vertex and fragment shaders and links them into a
// program. Failures carry the driver's info log as a *ShaderError.
func compileProgram(vertexSrc, fragmentSrc string) (uint32, error) {
	vertShader, err := compileShader(vertexSrc, gl.VERTEX_SHADER, "vertex")
	if err != nil {
		return 0, err
	}
	defer gl.DeleteShader(vertShader)

	fragShader, err := compileShader(fragmentSrc, gl.FRAGMENT_SHADER, "fragment")
	if err != nil {
		return 0, err
	}
	defer gl.DeleteShader(fragShader)

	program := gl.CreateProgram()
	gl.AttachShader(program, vertShader)
	gl.AttachShader(program, fragShader)
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLen)
		log := make([]byte, logLen+1)
		gl.GetProgramInfoLog(program, logLen, nil, &log[0])
		gl.DeleteProgram(program)
		return 0, &ShaderError{Stage: "link", Log: string(log[:logLen])}
	}

	return program, nil
}

// compileShader compiles a single shader of the given type.
func compileShader(source string, shaderType uint32, stage string) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csource, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csource, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
		log := make([]byte, logLen+1)
		gl.GetShaderInfoLog(shader, logLen, nil, &log[0])
		gl.DeleteShader(shader)
		return 0, &ShaderError{Stage: stage, Log: string(log[:logLen])}
	}

	return shader, nil
}

// uniformLoc returns the cached uniform location, or -1 for names the driver
// optimized out. GL ignores uniform calls with location -1, which keeps the
// setters no-ops for pruned uniforms, same as the driver does.
func (p *glProgram) uniformLoc(name string) int32 {
	if loc, ok := p.uniforms[name]; ok {
		return loc
	}
	loc := gl.GetUniformLocation(p.id, gl.Str(name+"\x00"))
	p.uniforms[name] = loc
	return loc
}

func (p *glProgram) attribLoc(name string) int32 {
	if loc, ok := p.attribs[name]; ok {
		return loc
	}
	loc := gl.GetAttribLocation(p.id, gl.Str(name+"\x00"))
	p.attribs[name] = loc
	return loc
}

func (p *glProgram) SetUniformMat4(name string, value mgl32.Mat4) {
	gl.UseProgram(p.id)
	gl.UniformMatrix4fv(p.uniformLoc(name), 1, false, &value[0])
}

func (p *glProgram) SetUniformVec3(name string, value mgl32.Vec3) {
	gl.UseProgram(p.id)
	gl.Uniform3f(p.uniformLoc(name), value.X(), value.Y(), value.Z())
}

func (p *glProgram) SetUniformVec4(name string, value mgl32.Vec4) {
	gl.UseProgram(p.id)
	gl.Uniform4f(p.uniformLoc(name), value.X(), value.Y(), value.Z(), value.W())
}

func (p *glProgram) SetUniformFloat(name string, value float32) {
	gl.UseProgram(p.id)
	gl.Uniform1f(p.uniformLoc(name), value)
}

func (p *glProgram) SetUniformInt(name string, value int32) {
	gl.UseProgram(p.id)
	gl.Uniform1i(p.uniformLoc(name), value)
}

func (p *glProgram) SetTexture(name string, tex TextureBinder) {
	gl.UseProgram(p.id)
	unit, ok := p.units[name]
	if !ok {
		unit = int32(len(p.units))
		p.units[name] = unit
	}
	tex.BindUnit(unit)
	gl.Uniform1i(p.uniformLoc(name), unit)
}

func (p *glProgram) SetAttribute(name string, buffer VertexBuffer) {
	vb, ok := buffer.(*glVertexBuffer)
	if !ok {
		panic("glcontext: vertex buffer was not created by this context")
	}
	loc := p.attribLoc(name)
	if loc < 0 {
		return
	}

	gl.BindVertexArray(p.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, vb.id)
	gl.VertexAttribPointerWithOffset(uint32(loc), vb.components, gl.FLOAT, false, 0, 0)
	gl.EnableVertexAttribArray(uint32(loc))
	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
}

func (p *glProgram) DrawElements(state RenderState, viewport Viewport, indices IndexBuffer) {
	ib, ok := indices.(*glIndexBuffer)
	if !ok {
		panic("glcontext: index buffer was not created by this context")
	}

	gl.UseProgram(p.id)
	applyRenderState(state)
	gl.Viewport(viewport.X, viewport.Y, viewport.Width, viewport.Height)

	gl.BindVertexArray(p.vao)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, ib.id)
	gl.DrawElements(gl.TRIANGLES, ib.count, gl.UNSIGNED_INT, nil)
	gl.BindVertexArray(0)
}

func (p *glProgram) DrawArrays(state RenderState, viewport Viewport, first, count int32) {
	gl.UseProgram(p.id)
	applyRenderState(state)
	gl.Viewport(viewport.X, viewport.Y, viewport.Width, viewport.Height)

	gl.BindVertexArray(p.ctx.emptyVAO)
	gl.DrawArrays(gl.TRIANGLES, first, count)
	gl.BindVertexArray(0)
}

func (p *glProgram) release() {
	if p.vao != 0 {
		gl.DeleteVertexArrays(1, &p.vao)
		p.vao = 0
	}
	if p.id != 0 {
		gl.DeleteProgram(p.id)
		p.id = 0
	}
}
