package main

import (
	"fmt"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/veldengine/veld/internal/config"
	"github.com/veldengine/veld/internal/engine/camera"
	"github.com/veldengine/veld/internal/engine/debug"
	"github.com/veldengine/veld/internal/engine/glcontext"
	"github.com/veldengine/veld/internal/engine/input"
	"github.com/veldengine/veld/internal/engine/lighting"
	"github.com/veldengine/veld/internal/engine/renderer"
	"github.com/veldengine/veld/internal/engine/scene"
	"github.com/veldengine/veld/internal/engine/terrain"
	"github.com/veldengine/veld/internal/engine/texture"
	"github.com/veldengine/veld/internal/engine/window"
	"github.com/veldengine/veld/internal/logger"
)

// skyColor is the frame clear color.
var skyColor = [4]float32{0.53, 0.71, 0.92, 1}

// app owns every subsystem of the interactive viewer.
type app struct {
	cfg *config.Config

	window   *window.Window
	ctx      glcontext.Context
	renderer *renderer.Renderer
	input    *input.Input
	capture  *debug.ScreenshotCapture

	camera *camera.Camera
	orbit  *camera.OrbitController

	terrain *terrain.Terrain
	sun     *lighting.DirectionalLight
	lights  []scene.Light

	shadowMap   *texture.DepthTexture2D
	shadowDirty bool

	running bool
}

func newApp(cfg *config.Config) (*app, error) {
	a := &app{cfg: cfg}

	var err error
	a.window, err = window.New(window.Config{
		Title:      "veldview",
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("creating window: %w", err)
	}

	a.ctx, err = glcontext.New()
	if err != nil {
		a.window.Close()
		return nil, fmt.Errorf("initializing graphics: %w", err)
	}

	width, height := a.window.DrawableSize()
	a.renderer = renderer.New(a.ctx, renderer.Config{
		Width:      width,
		Height:     height,
		Background: skyColor,
	})
	a.input = input.New()
	a.capture = debug.NewScreenshotCapture("screenshots", "veldview")

	a.camera = camera.NewPerspective(
		glcontext.ViewportAtOrigin(width, height),
		mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 1, 0},
		cfg.Camera.FOV, cfg.Camera.Near, cfg.Camera.Far,
	)
	a.orbit = camera.NewOrbitController(a.camera, mgl32.Vec3{0, 0, 0}, 80)
	if cfg.Camera.Sensitivity > 0 {
		a.orbit.DragSensitivity = cfg.Camera.Sensitivity * 0.01
	}

	heightFn := terrain.NoiseHeight(cfg.Terrain.Seed, cfg.Terrain.Amplitude,
		cfg.Terrain.Frequency, cfg.Terrain.Octaves)
	material := &scene.DiffuseMaterial{Color: mgl32.Vec4{0.36, 0.5, 0.3, 1}}

	logger.Info("building terrain", zap.Int64("seed", cfg.Terrain.Seed))
	a.terrain = terrain.New(a.ctx, heightFn, a.orbit.Center(), material)

	a.sun = &lighting.DirectionalLight{
		Direction: lighting.SunDirection(35, 55),
		Color:     mgl32.Vec3{1, 0.96, 0.9},
		Intensity: 0.9,
	}
	ambient := &lighting.AmbientLight{Color: mgl32.Vec3{0.6, 0.7, 0.9}, Intensity: 0.25}
	a.lights = []scene.Light{ambient, a.sun}

	if size := cfg.Graphics.ShadowMapSize; size > 0 {
		a.shadowMap = texture.NewDepthTexture2D(int32(size), int32(size))
		a.shadowDirty = true
	}

	return a, nil
}

// Run drives the viewer loop until quit.
func (a *app) Run() error {
	a.running = true
	lastTime := time.Now()
	frameCount := 0
	fpsTimer := time.Now()

	logger.Info("starting viewer loop")

	for a.running {
		now := time.Now()
		dt := float32(now.Sub(lastTime).Seconds())
		lastTime = now

		if a.input.Update() {
			a.running = false
			break
		}
		a.handleEvents()
		a.handleHeldKeys(dt)

		// Recentering the patch window changes the scene bounds, so the
		// shadow map is stale afterwards.
		cx, cy := a.terrain.Center()
		a.terrain.Update(a.orbit.Center())
		if nx, ny := a.terrain.Center(); nx != cx || ny != cy {
			a.shadowDirty = true
		}

		if err := a.renderFrame(); err != nil {
			return fmt.Errorf("render error: %w", err)
		}
		a.window.SwapBuffers()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			logger.Debug("fps", zap.Int("frames", frameCount))
			frameCount = 0
			fpsTimer = time.Now()
		}
	}

	return nil
}

// Close releases every subsystem in reverse creation order.
func (a *app) Close() {
	logger.Info("closing viewer")

	if a.terrain != nil {
		a.terrain.Release()
	}
	if a.shadowMap != nil {
		a.shadowMap.Release()
	}
	if a.ctx != nil {
		a.ctx.Release()
	}
	if a.window != nil {
		a.window.Close()
	}
}

func (a *app) handleEvents() {
	for _, event := range a.input.Events() {
		switch event.Type {
		case input.EventWindowResize:
			width, height := a.window.DrawableSize()
			a.renderer.Resize(width, height)
			a.camera.SetViewport(glcontext.ViewportAtOrigin(width, height))

		case input.EventKeyDown:
			switch event.Key {
			case sdl.SCANCODE_ESCAPE:
				a.running = false
			case sdl.SCANCODE_F12:
				a.saveScreenshot()
			}

		case input.EventMouseMove:
			if a.input.IsButtonDown(sdl.BUTTON_LEFT) {
				a.orbit.HandleDrag(float32(event.RelX), float32(event.RelY))
			}

		case input.EventMouseWheel:
			a.orbit.HandleZoom(event.WheelY)
		}
	}
}

// handleHeldKeys pans the orbit center while WASD is held.
func (a *app) handleHeldKeys(dt float32) {
	step := a.cfg.Camera.MoveSpeed * dt
	var forward, right float32
	if a.input.IsKeyDown(sdl.SCANCODE_W) {
		forward += step
	}
	if a.input.IsKeyDown(sdl.SCANCODE_S) {
		forward -= step
	}
	if a.input.IsKeyDown(sdl.SCANCODE_D) {
		right += step
	}
	if a.input.IsKeyDown(sdl.SCANCODE_A) {
		right -= step
	}
	if forward != 0 || right != 0 {
		a.orbit.Pan(forward, right)
	}
}

func (a *app) renderFrame() error {
	geometries := a.terrain.Geometries()

	if a.shadowMap != nil && a.shadowDirty {
		if err := a.sun.GenerateShadowMap(a.ctx, a.shadowMap, geometries); err != nil {
			return fmt.Errorf("shadow pass: %w", err)
		}
		a.shadowDirty = false
	}

	return a.renderer.RenderFrame(geometries, a.terrain.Material(), a.camera, a.lights)
}

func (a *app) saveScreenshot() {
	screen := a.renderer.Screen()
	pixels, err := screen.ReadColor(glcontext.FormatRGBA8)
	if err != nil {
		logger.Error("screenshot read failed", zap.Error(err))
		return
	}
	path, err := a.capture.CaptureFromPixels(pixels, int(screen.Width()), int(screen.Height()))
	if err != nil {
		logger.Error("screenshot write failed", zap.Error(err))
		return
	}
	logger.Info("screenshot saved", zap.String("path", path))
}
