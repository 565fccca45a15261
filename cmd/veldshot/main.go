// Package main is the entry point for veldshot, which renders one frame of
// procedural terrain into an offscreen target and writes it as a PNG.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/veldengine/veld/internal/config"
	"github.com/veldengine/veld/internal/engine/camera"
	"github.com/veldengine/veld/internal/engine/debug"
	"github.com/veldengine/veld/internal/engine/glcontext"
	"github.com/veldengine/veld/internal/engine/lighting"
	"github.com/veldengine/veld/internal/engine/renderer"
	"github.com/veldengine/veld/internal/engine/rendertarget"
	"github.com/veldengine/veld/internal/engine/scene"
	"github.com/veldengine/veld/internal/engine/terrain"
	"github.com/veldengine/veld/internal/engine/texture"
	"github.com/veldengine/veld/internal/engine/window"
	"github.com/veldengine/veld/internal/logger"
)

var flagOutput = flag.String("o", "veldshot.png", "Output PNG path")

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(cfg, *flagOutput); err != nil {
		logger.Error("snapshot failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, output string) error {
	// A hidden window still provides a GL context to render offscreen with.
	win, err := window.New(window.Config{
		Title:  "veldshot",
		Width:  cfg.Graphics.Width,
		Height: cfg.Graphics.Height,
		Hidden: true,
	})
	if err != nil {
		return fmt.Errorf("creating window: %w", err)
	}
	defer win.Close()

	ctx, err := glcontext.New()
	if err != nil {
		return fmt.Errorf("initializing graphics: %w", err)
	}
	defer ctx.Release()

	width, height := win.DrawableSize()

	color := texture.NewTexture2D(width, height, texture.RGBA8, false)
	defer color.Release()
	depth := texture.NewDepthTexture2D(width, height)
	defer depth.Release()
	target, err := rendertarget.New(ctx, color.AsColorTarget(0), depth.AsDepthTarget())
	if err != nil {
		return fmt.Errorf("creating offscreen target: %w", err)
	}
	defer target.Release()

	heightFn := terrain.NoiseHeight(cfg.Terrain.Seed, cfg.Terrain.Amplitude,
		cfg.Terrain.Frequency, cfg.Terrain.Octaves)
	material := &scene.DiffuseMaterial{Color: mgl32.Vec4{0.36, 0.5, 0.3, 1}}

	logger.Info("building terrain", zap.Int64("seed", cfg.Terrain.Seed))
	ground := terrain.New(ctx, heightFn, mgl32.Vec3{0, 0, 0}, material)
	defer ground.Release()

	cam := camera.NewPerspective(
		glcontext.ViewportAtOrigin(width, height),
		mgl32.Vec3{70, 55, 70}, mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 1, 0},
		cfg.Camera.FOV, cfg.Camera.Near, cfg.Camera.Far,
	)

	sun := &lighting.DirectionalLight{
		Direction: lighting.SunDirection(35, 55),
		Color:     mgl32.Vec3{1, 0.96, 0.9},
		Intensity: 0.9,
	}
	ambient := &lighting.AmbientLight{Color: mgl32.Vec3{0.6, 0.7, 0.9}, Intensity: 0.25}
	lights := []scene.Light{ambient, sun}

	geometries := ground.Geometries()
	if size := cfg.Graphics.ShadowMapSize; size > 0 {
		shadowMap := texture.NewDepthTexture2D(int32(size), int32(size))
		defer shadowMap.Release()
		if err := sun.GenerateShadowMap(ctx, shadowMap, geometries); err != nil {
			return fmt.Errorf("shadow pass: %w", err)
		}
	}

	clear := rendertarget.ColorAndDepthClear(0.53, 0.71, 0.92, 1, 1)
	if err := renderer.RenderTo(target.Clear(clear), geometries, ground.Material(), cam, lights); err != nil {
		return fmt.Errorf("rendering: %w", err)
	}

	pixels, err := target.ReadColor(glcontext.FormatRGBA8)
	if err != nil {
		return fmt.Errorf("reading frame: %w", err)
	}
	if err := debug.WritePNG(output, pixels, int(width), int(height)); err != nil {
		return err
	}

	logger.Info("snapshot written",
		zap.String("path", output),
		zap.Int32("width", width),
		zap.Int32("height", height),
	)
	return nil
}
