package glcontext

// Viewport is the rectangle draw calls map normalized device coordinates to.
type Viewport struct {
	X      int32
	Y      int32
	Width  int32
	Height int32
}

// ViewportAtOrigin returns a viewport of the given size anchored at (0, 0).
func ViewportAtOrigin(width, height int32) Viewport {
	return Viewport{Width: width, Height: height}
}

// ScissorBox restricts clears, draws and reads to a sub-rectangle of the
// target. Coordinates follow the GL convention: (0, 0) is the bottom-left
// corner.
type ScissorBox struct {
	X      int32
	Y      int32
	Width  int32
	Height int32
}

// FullScissorBox returns a box covering a whole target of the given size.
func FullScissorBox(width, height int32) ScissorBox {
	return ScissorBox{Width: width, Height: height}
}

// CullMode selects which triangle faces are discarded.
type CullMode int

const (
	CullNone CullMode = iota
	CullBack
	CullFront
)

// DepthTest is the comparison applied against the depth buffer.
type DepthTest int

const (
	DepthTestNever DepthTest = iota
	DepthTestLess
	DepthTestEqual
	DepthTestLessOrEqual
	DepthTestGreater
	DepthTestNotEqual
	DepthTestGreaterOrEqual
	DepthTestAlways
)

// WriteMask selects which channels of the target a draw may modify.
type WriteMask struct {
	Red   bool
	Green bool
	Blue  bool
	Alpha bool
	Depth bool
}

// Common write masks.
var (
	WriteMaskAll   = WriteMask{Red: true, Green: true, Blue: true, Alpha: true, Depth: true}
	WriteMaskColor = WriteMask{Red: true, Green: true, Blue: true, Alpha: true}
	WriteMaskDepth = WriteMask{Depth: true}
	WriteMaskNone  = WriteMask{}
)

// RenderState is the fixed-function state applied for one draw call.
type RenderState struct {
	Cull      CullMode
	DepthTest DepthTest
	WriteMask WriteMask
}

// DefaultRenderState returns the state most passes draw with: no culling,
// less-than depth testing, all channels writable.
func DefaultRenderState() RenderState {
	return RenderState{
		Cull:      CullNone,
		DepthTest: DepthTestLess,
		WriteMask: WriteMaskAll,
	}
}
