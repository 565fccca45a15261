// Package renderer drives frames: it owns the window surface target, clears
// it and submits scene geometry.
package renderer

import (
	"go.uber.org/zap"

	"github.com/veldengine/veld/internal/engine/camera"
	"github.com/veldengine/veld/internal/engine/glcontext"
	"github.com/veldengine/veld/internal/engine/rendertarget"
	"github.com/veldengine/veld/internal/engine/scene"
	"github.com/veldengine/veld/internal/logger"
)

// Config holds renderer configuration.
type Config struct {
	Width  int32
	Height int32
	// Background is the RGBA color frames are cleared to.
	Background [4]float32
}

// Renderer submits frames to the window surface.
type Renderer struct {
	ctx    glcontext.Context
	screen *rendertarget.RenderTarget
	config Config
	log    *zap.Logger
}

// New creates a renderer over an initialized graphics context.
func New(ctx glcontext.Context, cfg Config) *Renderer {
	return &Renderer{
		ctx:    ctx,
		screen: rendertarget.Screen(ctx, cfg.Width, cfg.Height),
		config: cfg,
		log:    logger.Named("renderer"),
	}
}

// Resize follows the window drawable size.
func (r *Renderer) Resize(width, height int32) {
	r.config.Width = width
	r.config.Height = height
	r.screen = rendertarget.Screen(r.ctx, width, height)
	r.log.Debug("renderer resized",
		zap.Int32("width", width),
		zap.Int32("height", height),
	)
}

// Screen returns the window surface target, sized to the last Resize.
func (r *Renderer) Screen() *rendertarget.RenderTarget {
	return r.screen
}

// RenderFrame clears the screen to the background color and renders the
// geometries into it.
func (r *Renderer) RenderFrame(geometries []scene.Geometry, material scene.Material, cam *camera.Camera, lights []scene.Light) error {
	bg := r.config.Background
	clear := rendertarget.ColorAndDepthClear(bg[0], bg[1], bg[2], bg[3], 1)
	return RenderTo(r.screen.Clear(clear), geometries, material, cam, lights)
}

// RenderTo renders the geometries into an already cleared target. Rendering
// continues past a failing geometry; the first error is returned.
func RenderTo(target *rendertarget.RenderTarget, geometries []scene.Geometry, material scene.Material, cam *camera.Camera, lights []scene.Light) error {
	var firstErr error
	target.Write(func() {
		for _, geometry := range geometries {
			if err := geometry.RenderWithMaterial(material, cam, lights); err != nil && firstErr == nil {
				firstErr = err
			}
		}
	})
	return firstErr
}
