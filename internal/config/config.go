// Package config handles viewer configuration loading and management.
package config

import (
	"fmt"
	"slices"

	"go.uber.org/multierr"
)

// Config holds all viewer settings.
type Config struct {
	Graphics GraphicsConfig `yaml:"graphics" toml:"graphics"`
	Viewer   ViewerConfig   `yaml:"viewer" toml:"viewer"`
	Camera   CameraConfig   `yaml:"camera" toml:"camera"`
	Light    LightConfig    `yaml:"light" toml:"light"`
	Logging  LoggingConfig  `yaml:"logging" toml:"logging"`
	Debug    DebugConfig    `yaml:"debug" toml:"debug"`
}

// GraphicsConfig holds display and rendering settings.
type GraphicsConfig struct {
	Width    int     `yaml:"width" toml:"width"`
	Height   int     `yaml:"height" toml:"height"`
	MSAA     int     `yaml:"msaa" toml:"msaa"` // samples, 0 or 1 disables
	FOV      float32 `yaml:"fov" toml:"fov"`   // vertical, degrees
	Font     string  `yaml:"font" toml:"font"`
	FontSize float32 `yaml:"font_size" toml:"font_size"`
}

// ViewerConfig lists what to load at startup.
type ViewerConfig struct {
	Models    []ModelConfig `yaml:"models" toml:"models"`
	Shader    ShaderConfig  `yaml:"shader" toml:"shader"`
	AssetDirs []string      `yaml:"asset_dirs" toml:"asset_dirs"` // searched before the embedded assets
	HotReload bool          `yaml:"hot_reload" toml:"hot_reload"`
}

// ModelConfig places one model in the scene.
type ModelConfig struct {
	ID        string       `yaml:"id" toml:"id"`
	Path      string       `yaml:"path" toml:"path"`
	Animation string       `yaml:"animation" toml:"animation"` // clip name, empty for none
	Scale     float32      `yaml:"scale" toml:"scale"`
	Position  [3]float32   `yaml:"position" toml:"position"`
	Parts     []PartConfig `yaml:"parts" toml:"parts"`
}

// PartConfig names a group of nodes for the parts panel.
type PartConfig struct {
	Name  string `yaml:"name" toml:"name"`
	Nodes []int  `yaml:"nodes" toml:"nodes"`
}

// ShaderConfig names the model shader sources, resolved through the asset
// dirs. File, when set, is a combined #shader file used instead.
type ShaderConfig struct {
	Vertex   string `yaml:"vertex" toml:"vertex"`
	Fragment string `yaml:"fragment" toml:"fragment"`
	File     string `yaml:"file" toml:"file"`
}

// CameraConfig holds the initial orbit.
type CameraConfig struct {
	Distance float32    `yaml:"distance" toml:"distance"`
	Target   [3]float32 `yaml:"target" toml:"target"`
}

// LightConfig places the sun, in degrees.
type LightConfig struct {
	Azimuth   float32 `yaml:"azimuth" toml:"azimuth"`
	Elevation float32 `yaml:"elevation" toml:"elevation"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level      string `yaml:"level" toml:"level"`
	LogFile    string `yaml:"log_file" toml:"log_file"`
	MaxSizeMB  int    `yaml:"max_size_mb" toml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups" toml:"max_backups"`
}

// DebugConfig holds developer settings.
type DebugConfig struct {
	Profile       string `yaml:"profile" toml:"profile"` // "", "cpu" or "mem"
	ProfileDir    string `yaml:"profile_dir" toml:"profile_dir"`
	ScreenshotDir string `yaml:"screenshot_dir" toml:"screenshot_dir"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:    1280,
			Height:   720,
			MSAA:     4,
			FOV:      60,
			FontSize: 16,
		},
		Viewer: ViewerConfig{
			Shader: ShaderConfig{
				Vertex:   "pbr.vert",
				Fragment: "pbr.frag",
			},
			HotReload: true,
		},
		Camera: CameraConfig{
			Distance: 10,
		},
		Light: LightConfig{
			Azimuth:   215,
			Elevation: 55,
		},
		Logging: LoggingConfig{
			Level:      "info",
			LogFile:    "",
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
		Debug: DebugConfig{
			ProfileDir:    ".",
			ScreenshotDir: "screenshots",
		},
	}
}

var msaaSamples = []int{0, 1, 2, 4, 8, 16}

// Validate reports every invalid setting.
func (c *Config) Validate() error {
	var err error
	if c.Graphics.Width <= 0 || c.Graphics.Height <= 0 {
		err = multierr.Append(err, fmt.Errorf("graphics: window size %dx%d must be positive", c.Graphics.Width, c.Graphics.Height))
	}
	if !slices.Contains(msaaSamples, c.Graphics.MSAA) {
		err = multierr.Append(err, fmt.Errorf("graphics: msaa %d not one of %v", c.Graphics.MSAA, msaaSamples))
	}
	if c.Graphics.FOV <= 0 || c.Graphics.FOV >= 180 {
		err = multierr.Append(err, fmt.Errorf("graphics: fov %v out of (0, 180)", c.Graphics.FOV))
	}

	seen := make(map[string]bool)
	for i, m := range c.Viewer.Models {
		if m.ID == "" {
			err = multierr.Append(err, fmt.Errorf("viewer: model %d has no id", i))
		} else if seen[m.ID] {
			err = multierr.Append(err, fmt.Errorf("viewer: duplicate model id %q", m.ID))
		}
		seen[m.ID] = true
		if m.Path == "" {
			err = multierr.Append(err, fmt.Errorf("viewer: model %q has no path", m.ID))
		}
		if m.Scale < 0 {
			err = multierr.Append(err, fmt.Errorf("viewer: model %q scale %v is negative", m.ID, m.Scale))
		}
	}
	if c.Viewer.Shader.File == "" && (c.Viewer.Shader.Vertex == "" || c.Viewer.Shader.Fragment == "") {
		err = multierr.Append(err, fmt.Errorf("viewer: shader needs a file or both vertex and fragment"))
	}

	switch c.Debug.Profile {
	case "", "cpu", "mem":
	default:
		err = multierr.Append(err, fmt.Errorf("debug: unknown profile mode %q", c.Debug.Profile))
	}
	return err
}
