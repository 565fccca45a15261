package rendertarget

import (
	"bytes"
	"errors"
	"testing"

	"github.com/veldengine/veld/internal/engine/glcontext"
	"github.com/veldengine/veld/internal/engine/glcontext/glcontexttest"
)

func TestNewMatchingSizes(t *testing.T) {
	ctx := glcontexttest.New()
	color := &fakeColorTexture{width: 64, height: 48, levels: 1}
	depth := &fakeDepthTexture{width: 64, height: 48}

	rt, err := New(ctx, NewColorTarget(color, -1), NewDepthTarget(depth))
	if err != nil {
		t.Fatalf("New() error = %v, want nil", err)
	}

	if rt.Width() != 64 || rt.Height() != 48 {
		t.Errorf("size = %dx%d, want 64x48", rt.Width(), rt.Height())
	}
	if len(ctx.Created) != 1 {
		t.Fatalf("created %d framebuffers, want 1", len(ctx.Created))
	}
	if len(color.attaches) != 1 || color.attaches[0].slot != 0 || color.attaches[0].mip != 0 {
		t.Errorf("color attaches = %+v, want one attach at slot 0 mip 0", color.attaches)
	}
	if depth.attaches != 1 {
		t.Errorf("depth attaches = %d, want 1", depth.attaches)
	}
	if len(ctx.DrawBufferCounts) != 1 || ctx.DrawBufferCounts[0] != 1 {
		t.Errorf("DrawBuffers calls = %v, want [1]", ctx.DrawBufferCounts)
	}
}

func TestNewSizeMismatch(t *testing.T) {
	ctx := glcontexttest.New()
	color := &fakeColorTexture{width: 64, height: 64, levels: 1}
	depth := &fakeDepthTexture{width: 32, height: 32}

	_, err := New(ctx, NewColorTarget(color, -1), NewDepthTarget(depth))
	if !errors.Is(err, ErrSizeMismatch) {
		t.Fatalf("New() error = %v, want ErrSizeMismatch", err)
	}
	if len(ctx.Created) != 0 {
		t.Errorf("created %d framebuffers on mismatch, want 0", len(ctx.Created))
	}
}

func TestNewMipLevelSizes(t *testing.T) {
	// A target pinned to mip 2 of a 64x64 texture is 16x16; a 16x16 depth
	// texture therefore matches.
	ctx := glcontexttest.New()
	color := &fakeColorTexture{width: 64, height: 64, levels: 7}
	depth := &fakeDepthTexture{width: 16, height: 16}

	ct := NewColorTarget(color, 2)
	if ct.Width() != 16 || ct.Height() != 16 {
		t.Fatalf("mip 2 size = %dx%d, want 16x16", ct.Width(), ct.Height())
	}

	rt, err := New(ctx, ct, NewDepthTarget(depth))
	if err != nil {
		t.Fatalf("New() error = %v, want nil", err)
	}
	if rt.Width() != 16 || rt.Height() != 16 {
		t.Errorf("target size = %dx%d, want 16x16", rt.Width(), rt.Height())
	}
	if color.attaches[0].mip != 2 {
		t.Errorf("attached mip = %d, want 2", color.attaches[0].mip)
	}
}

func TestNewCreateFailure(t *testing.T) {
	ctx := glcontexttest.New()
	ctx.FailCreateFramebuffer = errors.New("out of handles")
	color := &fakeColorTexture{width: 8, height: 8, levels: 1}

	_, err := NewColor(ctx, NewColorTarget(color, -1))
	if err == nil {
		t.Fatal("NewColor() error = nil, want creation failure")
	}
	if !errors.Is(err, ctx.FailCreateFramebuffer) {
		t.Errorf("NewColor() error = %v, want wrapped %v", err, ctx.FailCreateFramebuffer)
	}
}

func TestNewIncompleteFramebuffer(t *testing.T) {
	ctx := glcontexttest.New()
	ctx.FailCheckFramebuffer = errors.New("framebuffer incomplete: 0x8cd6")
	color := &fakeColorTexture{width: 8, height: 8, levels: 1}

	_, err := NewColor(ctx, NewColorTarget(color, -1))
	if err == nil {
		t.Fatal("NewColor() error = nil, want incomplete framebuffer error")
	}
	if len(ctx.Created) != 1 || len(ctx.Deleted) != 1 || ctx.Created[0] != ctx.Deleted[0] {
		t.Errorf("created = %v deleted = %v, want the failed framebuffer deleted", ctx.Created, ctx.Deleted)
	}
}

func TestDepthOnlyDisablesColorOutput(t *testing.T) {
	ctx := glcontexttest.New()
	depth := &fakeDepthTexture{width: 32, height: 32}

	_, err := NewDepth(ctx, NewDepthTarget(depth))
	if err != nil {
		t.Fatalf("NewDepth() error = %v, want nil", err)
	}
	if len(ctx.DrawBufferCounts) != 1 || ctx.DrawBufferCounts[0] != 0 {
		t.Errorf("DrawBuffers calls = %v, want [0]", ctx.DrawBufferCounts)
	}
}

func TestLayeredColorTarget(t *testing.T) {
	ctx := glcontexttest.New()
	array := &fakeArrayColorTexture{width: 32, height: 32, levels: 1}

	_, err := NewColor(ctx, NewColorTargetLayers(array, []int32{2, 5}, -1))
	if err != nil {
		t.Fatalf("NewColor() error = %v, want nil", err)
	}

	want := []attachCall{
		{slot: 0, layer: 2},
		{slot: 1, layer: 5},
	}
	if len(array.attaches) != len(want) {
		t.Fatalf("attaches = %+v, want %+v", array.attaches, want)
	}
	for i, a := range array.attaches {
		if a != want[i] {
			t.Errorf("attach[%d] = %+v, want %+v", i, a, want[i])
		}
	}
	if ctx.DrawBufferCounts[len(ctx.DrawBufferCounts)-1] != 2 {
		t.Errorf("DrawBuffers = %v, want last call 2", ctx.DrawBufferCounts)
	}
}

func TestCubeFaceTargets(t *testing.T) {
	ctx := glcontexttest.New()
	cube := &fakeCubeColorTexture{width: 32, height: 32, levels: 1}
	depthCube := &fakeCubeDepthTexture{width: 32, height: 32}

	_, err := New(ctx,
		NewColorTargetFace(cube, glcontext.CubeFaceNegativeZ, -1),
		NewDepthTargetFace(depthCube, glcontext.CubeFaceNegativeZ))
	if err != nil {
		t.Fatalf("New() error = %v, want nil", err)
	}
	if len(cube.attaches) != 1 || cube.attaches[0].face != glcontext.CubeFaceNegativeZ {
		t.Errorf("cube attaches = %+v, want one attach of -Z", cube.attaches)
	}
	if len(depthCube.faces) != 1 || depthCube.faces[0] != glcontext.CubeFaceNegativeZ {
		t.Errorf("depth cube faces = %v, want [-Z]", depthCube.faces)
	}
}

func TestDepthLayerTarget(t *testing.T) {
	ctx := glcontexttest.New()
	array := &fakeArrayDepthTexture{width: 16, height: 16}

	_, err := NewDepth(ctx, NewDepthTargetLayer(array, 3))
	if err != nil {
		t.Fatalf("NewDepth() error = %v, want nil", err)
	}
	if len(array.layers) != 1 || array.layers[0] != 3 {
		t.Errorf("attached layers = %v, want [3]", array.layers)
	}
}

func TestReadColorWithoutAttachment(t *testing.T) {
	ctx := glcontexttest.New()
	depth := &fakeDepthTexture{width: 8, height: 8}

	rt, err := NewDepth(ctx, NewDepthTarget(depth))
	if err != nil {
		t.Fatalf("NewDepth() error = %v", err)
	}

	if _, err := rt.ReadColor(glcontext.FormatRGBA8); !errors.Is(err, ErrNoColorAttachment) {
		t.Errorf("ReadColor() error = %v, want ErrNoColorAttachment", err)
	}
}

func TestReadDepthWithoutAttachment(t *testing.T) {
	ctx := glcontexttest.New()
	color := &fakeColorTexture{width: 8, height: 8, levels: 1}

	rt, err := NewColor(ctx, NewColorTarget(color, -1))
	if err != nil {
		t.Fatalf("NewColor() error = %v", err)
	}

	if _, err := rt.ReadDepth(); !errors.Is(err, ErrNoDepthAttachment) {
		t.Errorf("ReadDepth() error = %v, want ErrNoDepthAttachment", err)
	}
}

func TestScreenReadsAllowed(t *testing.T) {
	// The default framebuffer always has color and depth planes, so reads
	// never fail on it.
	ctx := glcontexttest.New()
	rt := Screen(ctx, 4, 4)

	if _, err := rt.ReadColor(glcontext.FormatRGBA8); err != nil {
		t.Errorf("screen ReadColor() error = %v, want nil", err)
	}
	if _, err := rt.ReadDepth(); err != nil {
		t.Errorf("screen ReadDepth() error = %v, want nil", err)
	}
}

// expectColor computes the bytes ReadColorPartially must return for a box:
// the fake surface pattern with rows flipped to top-down order.
func expectColor(box glcontext.ScissorBox, format glcontext.PixelFormat) []byte {
	bpc := int(format.DataType.Size())
	out := make([]byte, int(box.Width)*int(box.Height)*int(format.BytesPerPixel()))
	off := 0
	for row := int32(0); row < box.Height; row++ {
		gy := box.Y + (box.Height - 1 - row)
		for col := int32(0); col < box.Width; col++ {
			gx := box.X + col
			for ch := int32(0); ch < format.Channels; ch++ {
				out[off] = glcontexttest.PixelByte(gx, gy, ch)
				off += bpc
			}
		}
	}
	return out
}

func TestReadColorPartialMatchesFull(t *testing.T) {
	ctx := glcontexttest.New()
	color := &fakeColorTexture{width: 8, height: 6, levels: 1}
	rt, err := NewColor(ctx, NewColorTarget(color, -1))
	if err != nil {
		t.Fatalf("NewColor() error = %v", err)
	}

	full, err := rt.ReadColor(glcontext.FormatRGBA8)
	if err != nil {
		t.Fatalf("ReadColor() error = %v", err)
	}
	partial, err := rt.ReadColorPartially(rt.ScissorBox(), glcontext.FormatRGBA8)
	if err != nil {
		t.Fatalf("ReadColorPartially() error = %v", err)
	}

	if !bytes.Equal(full, partial) {
		t.Error("full-box partial read differs from full read")
	}
	if want := expectColor(rt.ScissorBox(), glcontext.FormatRGBA8); !bytes.Equal(full, want) {
		t.Error("full read does not match the flipped surface pattern")
	}
}

func TestReadColorSubBox(t *testing.T) {
	ctx := glcontexttest.New()
	color := &fakeColorTexture{width: 16, height: 16, levels: 1}
	rt, err := NewColor(ctx, NewColorTarget(color, -1))
	if err != nil {
		t.Fatalf("NewColor() error = %v", err)
	}

	box := glcontext.ScissorBox{X: 3, Y: 5, Width: 7, Height: 4}
	got, err := rt.ReadColorPartially(box, glcontext.FormatRGBA8)
	if err != nil {
		t.Fatalf("ReadColorPartially() error = %v", err)
	}
	if want := expectColor(box, glcontext.FormatRGBA8); !bytes.Equal(got, want) {
		t.Error("sub-box read does not match the flipped surface pattern")
	}
}

func TestReadColorWidensSingleByteChannel(t *testing.T) {
	ctx := glcontexttest.New()
	color := &fakeColorTexture{width: 5, height: 3, levels: 1}
	rt, err := NewColor(ctx, NewColorTarget(color, -1))
	if err != nil {
		t.Fatalf("NewColor() error = %v", err)
	}

	got, err := rt.ReadColor(glcontext.FormatR8)
	if err != nil {
		t.Fatalf("ReadColor() error = %v", err)
	}

	// One-byte single-channel reads transfer as RGBA, so the result is the
	// widened layout: 4 bytes per pixel.
	if len(got) != 5*3*4 {
		t.Fatalf("len = %d, want %d (widened to RGBA)", len(got), 5*3*4)
	}
	if want := expectColor(rt.ScissorBox(), glcontext.FormatRGBA8); !bytes.Equal(got, want) {
		t.Error("widened read does not match the RGBA surface pattern")
	}
}

func TestReadColorFloatNotWidened(t *testing.T) {
	ctx := glcontexttest.New()
	color := &fakeColorTexture{width: 4, height: 2, levels: 1}
	rt, err := NewColor(ctx, NewColorTarget(color, -1))
	if err != nil {
		t.Fatalf("NewColor() error = %v", err)
	}

	got, err := rt.ReadColor(glcontext.FormatR32F)
	if err != nil {
		t.Fatalf("ReadColor() error = %v", err)
	}
	if len(got) != 4*2*4 {
		t.Errorf("len = %d, want %d (one float per pixel)", len(got), 4*2*4)
	}
}

func TestReadDepthUnflipped(t *testing.T) {
	ctx := glcontexttest.New()
	depth := &fakeDepthTexture{width: 4, height: 3}
	rt, err := NewDepth(ctx, NewDepthTarget(depth))
	if err != nil {
		t.Fatalf("NewDepth() error = %v", err)
	}

	got, err := rt.ReadDepth()
	if err != nil {
		t.Fatalf("ReadDepth() error = %v", err)
	}
	if len(got) != 4*3 {
		t.Fatalf("len = %d, want %d", len(got), 4*3)
	}
	// Depth keeps framebuffer row order: index 0 is the bottom-left sample.
	for row := int32(0); row < 3; row++ {
		for col := int32(0); col < 4; col++ {
			want := glcontexttest.DepthAt(col, row)
			if got[row*4+col] != want {
				t.Fatalf("depth[%d,%d] = %v, want %v", row, col, got[row*4+col], want)
			}
		}
	}
}

func TestFlipRowsInvolution(t *testing.T) {
	for _, tt := range []struct {
		name   string
		width  int
		height int
	}{
		{"even height", 3, 4},
		{"odd height", 3, 5},
		{"single row", 7, 1},
	} {
		t.Run(tt.name, func(t *testing.T) {
			rowBytes := tt.width * 4
			data := make([]byte, rowBytes*tt.height)
			for i := range data {
				data[i] = byte(i * 31)
			}
			orig := append([]byte(nil), data...)

			flipRows(data, rowBytes, tt.height)
			if tt.height > 1 && bytes.Equal(data, orig) {
				t.Fatal("flip changed nothing")
			}

			// The middle row of an odd-height image must not move.
			if tt.height%2 == 1 {
				mid := tt.height / 2
				if !bytes.Equal(data[mid*rowBytes:(mid+1)*rowBytes], orig[mid*rowBytes:(mid+1)*rowBytes]) {
					t.Error("middle row moved")
				}
			}

			flipRows(data, rowBytes, tt.height)
			if !bytes.Equal(data, orig) {
				t.Error("double flip is not the identity")
			}
		})
	}
}

func TestFlipRowsReversesOrder(t *testing.T) {
	// Three rows of one byte each.
	data := []byte{1, 2, 3}
	flipRows(data, 1, 3)
	want := []byte{3, 2, 1}
	if !bytes.Equal(data, want) {
		t.Errorf("flipRows = %v, want %v", data, want)
	}
}

func TestWriteBindsBeforeRender(t *testing.T) {
	ctx := glcontexttest.New()
	color := &fakeColorTexture{width: 8, height: 8, levels: 4}
	rt, err := NewColor(ctx, NewColorTarget(color, -1))
	if err != nil {
		t.Fatalf("NewColor() error = %v", err)
	}

	// Move the bound framebuffer elsewhere so the write has to rebind.
	Screen(ctx, 8, 8).Clear(ColorClear(0, 0, 0, 1))
	if ctx.BoundDraw != glcontext.ScreenFramebuffer {
		t.Fatal("setup: screen clear did not bind the default framebuffer")
	}

	box := glcontext.ScissorBox{X: 1, Y: 2, Width: 3, Height: 4}
	var boundInRender glcontext.Framebuffer
	var scissorInRender glcontext.ScissorBox
	var gensInRender int
	rt.WritePartially(box, func() {
		boundInRender = ctx.BoundDraw
		scissorInRender = ctx.Scissor
		gensInRender = color.mipmapGens
	})

	if boundInRender != ctx.Created[0] {
		t.Errorf("bound framebuffer during render = %v, want %v", boundInRender, ctx.Created[0])
	}
	if scissorInRender != box {
		t.Errorf("scissor during render = %+v, want %+v", scissorInRender, box)
	}
	if gensInRender != 0 {
		t.Error("mip maps regenerated before the render closure ran")
	}
	if color.mipmapGens != 1 {
		t.Errorf("mipmapGens = %d, want 1 after write", color.mipmapGens)
	}
}

func TestWriteMipRegeneration(t *testing.T) {
	t.Run("pinned mip level", func(t *testing.T) {
		ctx := glcontexttest.New()
		color := &fakeColorTexture{width: 8, height: 8, levels: 4}
		rt, err := NewColor(ctx, NewColorTarget(color, 1))
		if err != nil {
			t.Fatalf("NewColor() error = %v", err)
		}
		rt.Write(func() {})
		if color.mipmapGens != 0 {
			t.Errorf("mipmapGens = %d, want 0 for a pinned mip level", color.mipmapGens)
		}
	})

	t.Run("single level texture", func(t *testing.T) {
		ctx := glcontexttest.New()
		color := &fakeColorTexture{width: 8, height: 8, levels: 1}
		rt, err := NewColor(ctx, NewColorTarget(color, -1))
		if err != nil {
			t.Fatalf("NewColor() error = %v", err)
		}
		rt.Write(func() {})
		if color.mipmapGens != 0 {
			t.Errorf("mipmapGens = %d, want 0 without a mip chain", color.mipmapGens)
		}
	})

	t.Run("depth only", func(t *testing.T) {
		ctx := glcontexttest.New()
		depth := &fakeDepthTexture{width: 8, height: 8}
		rt, err := NewDepth(ctx, NewDepthTarget(depth))
		if err != nil {
			t.Fatalf("NewDepth() error = %v", err)
		}
		// Must not panic without a color attachment.
		rt.Write(func() {})
	})
}

func TestWriteAndClearChain(t *testing.T) {
	ctx := glcontexttest.New()
	rt := Screen(ctx, 8, 8)

	got := rt.Clear(DefaultClear()).Write(func() {})
	if got != rt {
		t.Error("chained calls did not return the receiver")
	}
}

func TestRelease(t *testing.T) {
	t.Run("texture target", func(t *testing.T) {
		ctx := glcontexttest.New()
		color := &fakeColorTexture{width: 8, height: 8, levels: 1}
		rt, err := NewColor(ctx, NewColorTarget(color, -1))
		if err != nil {
			t.Fatalf("NewColor() error = %v", err)
		}

		rt.Release()
		if len(ctx.Deleted) != 1 || ctx.Deleted[0] != ctx.Created[0] {
			t.Errorf("deleted = %v, want the created framebuffer", ctx.Deleted)
		}

		rt.Release()
		if len(ctx.Deleted) != 1 {
			t.Errorf("second Release deleted again: %v", ctx.Deleted)
		}
	})

	t.Run("screen target", func(t *testing.T) {
		ctx := glcontexttest.New()
		Screen(ctx, 8, 8).Release()
		if len(ctx.Deleted) != 0 {
			t.Errorf("screen Release deleted %v, want nothing", ctx.Deleted)
		}
	})
}
