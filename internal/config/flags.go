package config

import "flag"

var (
	flagConfig    = flag.String("config", "", "Path to config file (.yaml, .yml or .toml)")
	flagDebug     = flag.Bool("debug", false, "Enable debug logging")
	flagWidth     = flag.Int("width", 0, "Window width")
	flagHeight    = flag.Int("height", 0, "Window height")
	flagMSAA      = flag.Int("msaa", -1, "MSAA samples")
	flagModel     = flag.String("model", "", "glTF model to load in addition to the configured ones")
	flagAnimation = flag.String("animation", "", "Animation to play on the -model model")
	flagProfile   = flag.String("profile", "", "Write a profile: cpu or mem")
	flagNoReload  = flag.Bool("no-reload", false, "Disable shader hot reload")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// FlagModelID is the id given to the model passed with -model.
const FlagModelID = "cli"

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagWidth > 0 {
		cfg.Graphics.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Graphics.Height = *flagHeight
	}
	if *flagMSAA >= 0 {
		cfg.Graphics.MSAA = *flagMSAA
	}
	if *flagModel != "" {
		cfg.Viewer.Models = append(cfg.Viewer.Models, ModelConfig{
			ID:        FlagModelID,
			Path:      *flagModel,
			Animation: *flagAnimation,
			Scale:     1,
		})
	}
	if *flagProfile != "" {
		cfg.Debug.Profile = *flagProfile
	}
	if *flagNoReload {
		cfg.Viewer.HotReload = false
	}
}
