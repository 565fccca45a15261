package rendertarget

import "github.com/veldengine/veld/internal/engine/glcontext"

// ClearState selects which channels a clear touches and the values they are
// cleared to. Channels without their Clear flag set keep their contents.
type ClearState struct {
	ClearRed   bool
	Red        float32
	ClearGreen bool
	Green      float32
	ClearBlue  bool
	Blue       float32
	ClearAlpha bool
	Alpha      float32
	ClearDepth bool
	Depth      float32
}

// ColorAndDepthClear clears all color channels and depth.
func ColorAndDepthClear(r, g, b, a, depth float32) ClearState {
	state := ColorClear(r, g, b, a)
	state.ClearDepth = true
	state.Depth = depth
	return state
}

// ColorClear clears all color channels and leaves depth alone.
func ColorClear(r, g, b, a float32) ClearState {
	return ClearState{
		ClearRed: true, Red: r,
		ClearGreen: true, Green: g,
		ClearBlue: true, Blue: b,
		ClearAlpha: true, Alpha: a,
	}
}

// DepthClear clears only the depth channel.
func DepthClear(depth float32) ClearState {
	return ClearState{ClearDepth: true, Depth: depth}
}

// NoClear leaves every channel untouched.
func NoClear() ClearState {
	return ClearState{}
}

// DefaultClear clears color to transparent black and depth to the far plane.
func DefaultClear() ClearState {
	return ColorAndDepthClear(0, 0, 0, 0, 1)
}

// apply masks the channels being cleared and issues the clear.
func (s ClearState) apply(ctx glcontext.Context) {
	ctx.SetColorMask(s.ClearRed, s.ClearGreen, s.ClearBlue, s.ClearAlpha)
	ctx.SetDepthMask(s.ClearDepth)

	var mask glcontext.ClearMask
	if s.ClearRed || s.ClearGreen || s.ClearBlue || s.ClearAlpha {
		ctx.SetClearColor(s.Red, s.Green, s.Blue, s.Alpha)
		mask |= glcontext.ClearColorBuffer
	}
	if s.ClearDepth {
		ctx.SetClearDepth(s.Depth)
		mask |= glcontext.ClearDepthBuffer
	}
	if mask != 0 {
		ctx.Clear(mask)
	}
}
