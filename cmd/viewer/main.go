// Command viewer shows animated glTF models in an OpenGL window.
package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/pkg/profile"
	"go.uber.org/zap"

	"github.com/Faultbox/humangl/internal/config"
	"github.com/Faultbox/humangl/internal/engine/camera"
	"github.com/Faultbox/humangl/internal/engine/components"
	"github.com/Faultbox/humangl/internal/engine/lighting"
	"github.com/Faultbox/humangl/internal/engine/scene"
	"github.com/Faultbox/humangl/internal/engine/ui"
	"github.com/Faultbox/humangl/internal/logger"
	"github.com/Faultbox/humangl/internal/viewer"
	"github.com/Faultbox/humangl/pkg/math"
)

const windowTitle = "HumanGL"

func init() {
	runtime.LockOSThread()
}

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	err = logger.Setup(logger.Options{
		Level:   cfg.Logging.Level,
		Console: true,
		File: logger.FileConfig{
			Path:       cfg.Logging.LogFile,
			MaxSizeMB:  cfg.Logging.MaxSizeMB,
			MaxBackups: cfg.Logging.MaxBackups,
		},
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}

	if err := run(cfg); err != nil {
		logger.Error("viewer failed", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
	logger.Sync()
}

func run(cfg *config.Config) error {
	logger.Info("=== HumanGL ===")
	logger.Sugar.Debugf("config: %+v", cfg)

	switch cfg.Debug.Profile {
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(cfg.Debug.ProfileDir), profile.NoShutdownHook).Stop()
	case "mem":
		defer profile.Start(profile.MemProfile, profile.ProfilePath(cfg.Debug.ProfileDir), profile.NoShutdownHook).Stop()
	}

	backend, err := ui.NewBackend(ui.Options{
		Title:    windowTitle,
		Width:    int32(cfg.Graphics.Width),
		Height:   int32(cfg.Graphics.Height),
		Font:     cfg.Graphics.Font,
		FontSize: cfg.Graphics.FontSize,
	})
	if err != nil {
		return err
	}

	engine, err := viewer.New(backend, viewer.Options{
		Title:         windowTitle,
		MSAA:          int32(cfg.Graphics.MSAA),
		HotReload:     cfg.Viewer.HotReload,
		AssetDirs:     cfg.Viewer.AssetDirs,
		ScreenshotDir: cfg.Debug.ScreenshotDir,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := engine.Close(); err != nil {
			logger.Warn("engine close", zap.Error(err))
		}
	}()

	if err := loadShader(engine, cfg.Viewer.Shader); err != nil {
		return err
	}

	for _, mc := range cfg.Viewer.Models {
		if err := addModel(engine, mc); err != nil {
			logger.Error("skipping model", zap.String("id", mc.ID), zap.Error(err))
		}
	}

	if err := addCamera(engine, cfg); err != nil {
		return err
	}
	if err := addSun(engine, cfg.Light); err != nil {
		return err
	}

	return engine.Run()
}

func loadShader(engine *viewer.Engine, sc config.ShaderConfig) error {
	var err error
	if sc.File != "" {
		_, err = engine.AddShaderFile(viewer.DefaultShader, sc.File)
	} else {
		_, err = engine.LoadShader(viewer.DefaultShader, sc.Vertex, sc.Fragment)
	}
	return err
}

func addModel(engine *viewer.Engine, mc config.ModelConfig) error {
	if _, err := engine.LoadModel(mc.ID, mc.Path); err != nil {
		return err
	}

	parts := make([]components.Part, 0, len(mc.Parts))
	for _, p := range mc.Parts {
		parts = append(parts, components.Part{Name: p.Name, Nodes: p.Nodes})
	}

	_, err := engine.AddModelObject(mc.ID, viewer.ModelOptions{
		Animation: mc.Animation,
		Scale:     mc.Scale,
		Position:  vec3(mc.Position),
		Parts:     parts,
	})
	return err
}

func addCamera(engine *viewer.Engine, cfg *config.Config) error {
	o := scene.NewObject("camera")

	ctrl, err := scene.AddComponent(o, camera.NewController(vec3(cfg.Camera.Target), cfg.Camera.Distance))
	if err != nil {
		return err
	}
	ctrl.Apply()

	cam := camera.New(cfg.Graphics.Width, cfg.Graphics.Height)
	cam.FOV = cfg.Graphics.FOV
	if _, err := scene.AddComponent(o, cam); err != nil {
		return err
	}
	return engine.SetCamera(cam)
}

func addSun(engine *viewer.Engine, lc config.LightConfig) error {
	o := scene.NewObject("light")
	if _, err := scene.AddComponent(o, lighting.NewSun(lc.Azimuth, lc.Elevation)); err != nil {
		return err
	}
	if _, err := scene.AddComponent(o, components.NewUserInterface("Light", components.LightBlock{})); err != nil {
		return err
	}
	engine.Scene().Add(o)
	return nil
}

func vec3(v [3]float32) math.Vec3 {
	return math.Vec3{X: v[0], Y: v[1], Z: v[2]}
}
