package glcontext

import (
	"errors"
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/veldengine/veld/internal/logger"
)

// glContext is the Context implementation backed by the real OpenGL driver.
type glContext struct {
	programs map[programKey]*glProgram

	// emptyVAO backs attribute-less draws (DrawArrays full-screen passes).
	// Core profile refuses to draw with no VAO bound.
	emptyVAO uint32
}

// New initializes OpenGL function pointers and returns a Context backed by
// the current GL context. Must be called after the window's GL context is
// made current, on the same thread.
func New() (Context, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	version := gl.GoStr(gl.GetString(gl.VERSION))
	rendererName := gl.GoStr(gl.GetString(gl.RENDERER))
	logger.Info("OpenGL initialized",
		zap.String("version", version),
		zap.String("renderer", rendererName),
	)

	// Byte-tight packing so reads of non-multiple-of-four widths line up.
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)

	c := &glContext{
		programs: make(map[programKey]*glProgram),
	}
	gl.GenVertexArrays(1, &c.emptyVAO)

	return c, nil
}

func (c *glContext) CreateFramebuffer() (Framebuffer, error) {
	var id uint32
	gl.GenFramebuffers(1, &id)
	if id == 0 {
		return 0, errors.New("failed to allocate framebuffer object")
	}
	return Framebuffer(id), nil
}

func (c *glContext) BindFramebuffer(target FramebufferTarget, fb Framebuffer) {
	switch target {
	case FramebufferDraw:
		gl.BindFramebuffer(gl.DRAW_FRAMEBUFFER, uint32(fb))
	case FramebufferRead:
		gl.BindFramebuffer(gl.READ_FRAMEBUFFER, uint32(fb))
	default:
		gl.BindFramebuffer(gl.FRAMEBUFFER, uint32(fb))
	}
}

func (c *glContext) DeleteFramebuffer(fb Framebuffer) {
	if fb == ScreenFramebuffer {
		return
	}
	id := uint32(fb)
	gl.DeleteFramebuffers(1, &id)
}

func (c *glContext) CheckFramebuffer() error {
	status := gl.CheckFramebufferStatus(gl.DRAW_FRAMEBUFFER)
	if status != gl.FRAMEBUFFER_COMPLETE {
		return fmt.Errorf("framebuffer incomplete: 0x%x", status)
	}
	return nil
}

func (c *glContext) DrawBuffers(count int32) {
	if count <= 0 {
		gl.DrawBuffer(gl.NONE)
		return
	}
	bufs := make([]uint32, count)
	for i := range bufs {
		bufs[i] = gl.COLOR_ATTACHMENT0 + uint32(i)
	}
	gl.DrawBuffers(count, &bufs[0])
}

func (c *glContext) SetScissor(box ScissorBox) {
	gl.Enable(gl.SCISSOR_TEST)
	gl.Scissor(box.X, box.Y, box.Width, box.Height)
}

func (c *glContext) SetClearColor(r, g, b, a float32) {
	gl.ClearColor(r, g, b, a)
}

func (c *glContext) SetClearDepth(depth float32) {
	gl.ClearDepth(float64(depth))
}

func (c *glContext) SetColorMask(red, green, blue, alpha bool) {
	gl.ColorMask(red, green, blue, alpha)
}

func (c *glContext) SetDepthMask(write bool) {
	gl.DepthMask(write)
}

func (c *glContext) Clear(mask ClearMask) {
	var bits uint32
	if mask&ClearColorBuffer != 0 {
		bits |= gl.COLOR_BUFFER_BIT
	}
	if mask&ClearDepthBuffer != 0 {
		bits |= gl.DEPTH_BUFFER_BIT
	}
	if bits != 0 {
		gl.Clear(bits)
	}
}

func (c *glContext) ReadPixels(x, y, width, height int32, format PixelFormat, dst []byte) {
	if len(dst) == 0 {
		return
	}
	gl.ReadPixels(x, y, width, height, glPixelFormat(format.Channels), glPixelType(format.DataType), gl.Ptr(dst))
}

func (c *glContext) ReadDepths(x, y, width, height int32, dst []float32) {
	if len(dst) == 0 {
		return
	}
	gl.ReadPixels(x, y, width, height, gl.DEPTH_COMPONENT, gl.FLOAT, gl.Ptr(dst))
}

func (c *glContext) Release() {
	for _, p := range c.programs {
		p.release()
	}
	c.programs = make(map[programKey]*glProgram)
	if c.emptyVAO != 0 {
		gl.DeleteVertexArrays(1, &c.emptyVAO)
		c.emptyVAO = 0
	}
}

// glPixelFormat maps a channel count to the matching GL transfer format.
func glPixelFormat(channels int32) uint32 {
	switch channels {
	case 1:
		return gl.RED
	case 2:
		return gl.RG
	case 3:
		return gl.RGB
	default:
		return gl.RGBA
	}
}

func glPixelType(t PixelDataType) uint32 {
	if t == PixelFloat32 {
		return gl.FLOAT
	}
	return gl.UNSIGNED_BYTE
}

// applyRenderState maps a RenderState onto GL fixed-function state.
func applyRenderState(state RenderState) {
	switch state.Cull {
	case CullBack:
		gl.Enable(gl.CULL_FACE)
		gl.CullFace(gl.BACK)
	case CullFront:
		gl.Enable(gl.CULL_FACE)
		gl.CullFace(gl.FRONT)
	default:
		gl.Disable(gl.CULL_FACE)
	}

	// Disabling the depth test entirely also disables depth writes, so the
	// test stays enabled with func ALWAYS whenever the pass writes depth.
	if state.DepthTest == DepthTestAlways && !state.WriteMask.Depth {
		gl.Disable(gl.DEPTH_TEST)
	} else {
		gl.Enable(gl.DEPTH_TEST)
		gl.DepthFunc(glDepthFunc(state.DepthTest))
	}

	wm := state.WriteMask
	gl.ColorMask(wm.Red, wm.Green, wm.Blue, wm.Alpha)
	gl.DepthMask(wm.Depth)
}

func glDepthFunc(t DepthTest) uint32 {
	switch t {
	case DepthTestNever:
		return gl.NEVER
	case DepthTestEqual:
		return gl.EQUAL
	case DepthTestLessOrEqual:
		return gl.LEQUAL
	case DepthTestGreater:
		return gl.GREATER
	case DepthTestNotEqual:
		return gl.NOTEQUAL
	case DepthTestGreaterOrEqual:
		return gl.GEQUAL
	case DepthTestAlways:
		return gl.ALWAYS
	default:
		return gl.LESS
	}
}
