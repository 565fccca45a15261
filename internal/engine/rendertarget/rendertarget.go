// Package rendertarget provides framebuffer render targets: the window
// surface or any combination of color and depth texture attachments, with
// scissored clears, closure-scoped writes and CPU read-back.
package rendertarget

import (
	"fmt"

	"github.com/veldengine/veld/internal/engine/glcontext"
)

// RenderTarget is a surface draw calls render into. It borrows its
// attachments: releasing the target never releases the attached textures.
type RenderTarget struct {
	ctx    glcontext.Context
	fb     glcontext.Framebuffer
	color  *ColorTarget
	depth  *DepthTarget
	width  int32
	height int32
}

// Screen returns the render target of the default framebuffer, i.e. the
// window surface. It owns no GPU objects; Release is a no-op.
func Screen(ctx glcontext.Context, width, height int32) *RenderTarget {
	return &RenderTarget{ctx: ctx, fb: glcontext.ScreenFramebuffer, width: width, height: height}
}

// New creates a render target writing color into color and depth into depth.
// The attachments must agree on size.
func New(ctx glcontext.Context, color *ColorTarget, depth *DepthTarget) (*RenderTarget, error) {
	if color.Width() != depth.Width() || color.Height() != depth.Height() {
		return nil, fmt.Errorf("%w: color %dx%d, depth %dx%d", ErrSizeMismatch,
			color.Width(), color.Height(), depth.Width(), depth.Height())
	}
	rt := &RenderTarget{ctx: ctx, color: color, depth: depth, width: color.Width(), height: color.Height()}
	if err := rt.allocate(); err != nil {
		return nil, err
	}
	return rt, nil
}

// NewColor creates a render target with only a color attachment. Depth
// testing against it always passes and depth writes go nowhere.
func NewColor(ctx glcontext.Context, color *ColorTarget) (*RenderTarget, error) {
	rt := &RenderTarget{ctx: ctx, color: color, width: color.Width(), height: color.Height()}
	if err := rt.allocate(); err != nil {
		return nil, err
	}
	return rt, nil
}

// NewDepth creates a render target with only a depth attachment, for
// depth-only passes such as shadow maps.
func NewDepth(ctx glcontext.Context, depth *DepthTarget) (*RenderTarget, error) {
	rt := &RenderTarget{ctx: ctx, depth: depth, width: depth.Width(), height: depth.Height()}
	if err := rt.allocate(); err != nil {
		return nil, err
	}
	return rt, nil
}

func (rt *RenderTarget) allocate() error {
	fb, err := rt.ctx.CreateFramebuffer()
	if err != nil {
		return fmt.Errorf("creating render target: %w", err)
	}
	rt.fb = fb
	rt.ctx.BindFramebuffer(glcontext.FramebufferDraw, fb)
	if rt.color != nil {
		rt.color.bind(rt.ctx)
	} else {
		rt.ctx.DrawBuffers(0)
	}
	if rt.depth != nil {
		rt.depth.bind()
	}
	if err := rt.ctx.CheckFramebuffer(); err != nil {
		rt.ctx.DeleteFramebuffer(fb)
		rt.fb = glcontext.ScreenFramebuffer
		return fmt.Errorf("creating render target: %w", err)
	}
	return nil
}

// Width returns the target width in pixels.
func (rt *RenderTarget) Width() int32 { return rt.width }

// Height returns the target height in pixels.
func (rt *RenderTarget) Height() int32 { return rt.height }

// ScissorBox returns a box covering the whole target.
func (rt *RenderTarget) ScissorBox() glcontext.ScissorBox {
	return glcontext.FullScissorBox(rt.width, rt.height)
}

// Viewport returns a viewport covering the whole target.
func (rt *RenderTarget) Viewport() glcontext.Viewport {
	return glcontext.ViewportAtOrigin(rt.width, rt.height)
}

// Clear clears the whole target according to state.
func (rt *RenderTarget) Clear(state ClearState) *RenderTarget {
	return rt.ClearPartially(rt.ScissorBox(), state)
}

// ClearPartially clears the part of the target inside the scissor box.
func (rt *RenderTarget) ClearPartially(box glcontext.ScissorBox, state ClearState) *RenderTarget {
	rt.ctx.SetScissor(box)
	rt.bindDraw()
	state.apply(rt.ctx)
	return rt
}

// Write binds the target and runs render, whose draw calls land here. When a
// color attachment with a mip chain is present its mip maps are regenerated
// afterwards.
func (rt *RenderTarget) Write(render func()) *RenderTarget {
	return rt.WritePartially(rt.ScissorBox(), render)
}

// WritePartially is Write restricted to the scissor box.
func (rt *RenderTarget) WritePartially(box glcontext.ScissorBox, render func()) *RenderTarget {
	rt.ctx.SetScissor(box)
	rt.bindDraw()
	render()
	if rt.color != nil {
		rt.color.generateMipMaps()
	}
	return rt
}

// ReadColor reads the whole color attachment. Single-channel byte formats
// transfer as four channels; the returned data is in the widened layout.
// Rows are returned top-down.
func (rt *RenderTarget) ReadColor(format glcontext.PixelFormat) ([]byte, error) {
	return rt.ReadColorPartially(rt.ScissorBox(), format)
}

// ReadColorPartially reads the color inside the scissor box.
func (rt *RenderTarget) ReadColorPartially(box glcontext.ScissorBox, format glcontext.PixelFormat) ([]byte, error) {
	if rt.fb != glcontext.ScreenFramebuffer && rt.color == nil {
		return nil, ErrNoColorAttachment
	}
	rt.ctx.BindFramebuffer(glcontext.FramebufferDraw, rt.fb)
	rt.ctx.BindFramebuffer(glcontext.FramebufferRead, rt.fb)

	transfer := format
	// Tightly packed single-channel byte reads are not supported everywhere,
	// so they transfer widened to RGBA.
	if transfer.Channels == 1 && transfer.DataType.Size() == 1 {
		transfer = glcontext.FormatRGBA8
	}

	data := make([]byte, int(box.Width)*int(box.Height)*int(transfer.BytesPerPixel()))
	rt.ctx.ReadPixels(box.X, box.Y, box.Width, box.Height, transfer, data)
	flipRows(data, int(box.Width)*int(transfer.BytesPerPixel()), int(box.Height))
	return data, nil
}

// ReadDepth reads the whole depth attachment as float32 samples. Rows stay
// in framebuffer order, bottom-up.
func (rt *RenderTarget) ReadDepth() ([]float32, error) {
	return rt.ReadDepthPartially(rt.ScissorBox())
}

// ReadDepthPartially reads the depth inside the scissor box.
func (rt *RenderTarget) ReadDepthPartially(box glcontext.ScissorBox) ([]float32, error) {
	if rt.fb != glcontext.ScreenFramebuffer && rt.depth == nil {
		return nil, ErrNoDepthAttachment
	}
	rt.ctx.BindFramebuffer(glcontext.FramebufferDraw, rt.fb)
	rt.ctx.BindFramebuffer(glcontext.FramebufferRead, rt.fb)

	data := make([]float32, int(box.Width)*int(box.Height))
	rt.ctx.ReadDepths(box.X, box.Y, box.Width, box.Height, data)
	return data, nil
}

// Release deletes the framebuffer object. Attachments are borrowed and stay
// alive. The target must not be used afterwards.
func (rt *RenderTarget) Release() {
	if rt.fb != glcontext.ScreenFramebuffer {
		rt.ctx.DeleteFramebuffer(rt.fb)
		rt.fb = glcontext.ScreenFramebuffer
	}
}

func (rt *RenderTarget) bindDraw() {
	rt.ctx.BindFramebuffer(glcontext.FramebufferDraw, rt.fb)
}

// flipRows reverses the row order of tightly packed pixel data in place.
// With odd heights the middle row stays put.
func flipRows(data []byte, rowBytes, height int) {
	tmp := make([]byte, rowBytes)
	for row := 0; row < height/2; row++ {
		top := data[row*rowBytes : (row+1)*rowBytes]
		bottom := data[(height-1-row)*rowBytes : (height-row)*rowBytes]
		copy(tmp, top)
		copy(top, bottom)
		copy(bottom, tmp)
	}
}
