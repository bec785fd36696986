// Package config loads the orbitfolio YAML configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"orbitfolio/scene"
)

// ErrInvalidConfig is wrapped by every validation failure
var ErrInvalidConfig = errors.New("invalid config")

// Config holds all orbitfolio configuration
type Config struct {
	// Window settings
	Window WindowConfig `yaml:"window"`

	// Scene layout and motion
	Scene SceneConfig `yaml:"scene"`

	// Reduced-motion preference source
	Motion MotionConfig `yaml:"motion"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`

	// Frame-drop profiling
	Profiling ProfilingConfig `yaml:"profiling"`
}

// WindowConfig configures the host window
type WindowConfig struct {
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
	Title     string `yaml:"title"`
	Resizable bool   `yaml:"resizable"`
	TPS       int    `yaml:"tps"` // Ticks per second; 0 syncs with the display
}

// SceneConfig configures every animated layer
type SceneConfig struct {
	Seed      int64           `yaml:"seed"`  // 0 picks a time-based seed
	Pages     float64         `yaml:"pages"` // Virtual document height in screens
	Starfield StarfieldConfig `yaml:"starfield"`
	Torus     TorusConfig     `yaml:"torus"`
	Sun       SunConfig       `yaml:"sun"`
}

// StarfieldConfig configures the orbiting stars
type StarfieldConfig struct {
	Count        int     `yaml:"count"`
	CenterRatioX float64 `yaml:"center_ratio_x"`
	CenterRatioY float64 `yaml:"center_ratio_y"`
	MobileFactor float64 `yaml:"mobile_factor"`
}

// TorusConfig configures the asteroid belt
type TorusConfig struct {
	MajorRadius      float64 `yaml:"major_radius"`
	MinorRadius      float64 `yaml:"minor_radius"`
	MinorRadiusRatio float64 `yaml:"minor_radius_ratio"`
	Rings            int     `yaml:"rings"`
	Slices           int     `yaml:"slices"`
	RotationStep     float64 `yaml:"rotation_step"`
}

// SunConfig configures the sun path
type SunConfig struct {
	ScrollSpan          float64 `yaml:"scroll_span"`
	FallbackRadiusRatio float64 `yaml:"fallback_radius_ratio"`
	SizeRatio           float64 `yaml:"size_ratio"`        // Sun diameter as a fraction of height
	MobileSizeRatio     float64 `yaml:"mobile_size_ratio"` // Same, below the mobile width
}

// MotionConfig configures the reduced-motion preference
type MotionConfig struct {
	Reduced        bool   `yaml:"reduced"`         // Initial preference
	PreferenceFile string `yaml:"preference_file"` // Watched for changes when set
}

// LoggingConfig configures zap
type LoggingConfig struct {
	Level       string `yaml:"level"` // debug, info, warn, error
	Development bool   `yaml:"development"`
}

// ProfilingConfig configures the frame-drop profiler
type ProfilingConfig struct {
	Enabled      bool    `yaml:"enabled"`
	Dir          string  `yaml:"dir"`
	FPSThreshold float64 `yaml:"fps_threshold"`
}

// DefaultConfig returns the stock configuration
func DefaultConfig() *Config {
	opts := scene.DefaultOptions()
	return &Config{
		Window: WindowConfig{
			Width:     1280,
			Height:    800,
			Title:     "orbitfolio",
			Resizable: true,
		},
		Scene: SceneConfig{
			Pages: opts.Pages,
			Starfield: StarfieldConfig{
				Count:        opts.Starfield.Count,
				CenterRatioX: opts.Starfield.CenterRatioX,
				CenterRatioY: opts.Starfield.CenterRatioY,
				MobileFactor: opts.Starfield.MobileFactor,
			},
			Torus: TorusConfig{
				MajorRadius:      opts.Torus.MajorRadius,
				MinorRadius:      opts.Torus.MinorRadius,
				MinorRadiusRatio: opts.Torus.MinorRadiusRatio,
				Rings:            opts.Torus.Rings,
				Slices:           opts.Torus.Slices,
				RotationStep:     opts.Torus.RotationStep,
			},
			Sun: SunConfig{
				ScrollSpan:          opts.Sun.ScrollSpan,
				FallbackRadiusRatio: opts.Sun.FallbackRadiusRatio,
				SizeRatio:           0.85,
				MobileSizeRatio:     0.7,
			},
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Profiling: ProfilingConfig{
			Dir:          "profiles",
			FPSThreshold: 45,
		},
	}
}

// Load reads a config file on top of the defaults. A missing file yields the
// defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the config as YAML
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Validate checks ranges that would otherwise produce a broken scene
func (c *Config) Validate() error {
	switch {
	case c.Window.Width <= 0 || c.Window.Height <= 0:
		return fmt.Errorf("%w: window size %dx%d", ErrInvalidConfig, c.Window.Width, c.Window.Height)
	case c.Window.TPS < 0:
		return fmt.Errorf("%w: tps %d", ErrInvalidConfig, c.Window.TPS)
	case c.Scene.Pages < 1:
		return fmt.Errorf("%w: pages %.2f must be at least 1", ErrInvalidConfig, c.Scene.Pages)
	case c.Scene.Starfield.Count < 0:
		return fmt.Errorf("%w: starfield count %d", ErrInvalidConfig, c.Scene.Starfield.Count)
	case c.Scene.Starfield.MobileFactor < 0 || c.Scene.Starfield.MobileFactor > 1:
		return fmt.Errorf("%w: mobile factor %.2f outside [0,1]", ErrInvalidConfig, c.Scene.Starfield.MobileFactor)
	case c.Scene.Torus.Rings < 0 || c.Scene.Torus.Slices < 0:
		return fmt.Errorf("%w: torus %dx%d", ErrInvalidConfig, c.Scene.Torus.Rings, c.Scene.Torus.Slices)
	case c.Scene.Torus.MajorRadius <= 0 || c.Scene.Torus.MinorRadius <= 0:
		return fmt.Errorf("%w: torus radii must be positive", ErrInvalidConfig)
	case c.Scene.Torus.MinorRadius >= c.Scene.Torus.MajorRadius:
		return fmt.Errorf("%w: minor radius %.1f must be below major radius %.1f",
			ErrInvalidConfig, c.Scene.Torus.MinorRadius, c.Scene.Torus.MajorRadius)
	case c.Scene.Sun.ScrollSpan <= 0:
		return fmt.Errorf("%w: sun scroll span %.2f", ErrInvalidConfig, c.Scene.Sun.ScrollSpan)
	case c.Scene.Sun.SizeRatio <= 0 || c.Scene.Sun.MobileSizeRatio <= 0:
		return fmt.Errorf("%w: sun size ratios must be positive", ErrInvalidConfig)
	}
	return nil
}

// SceneOptions converts the config to scene options
func (c *Config) SceneOptions() scene.Options {
	opts := scene.DefaultOptions()
	opts.Seed = c.Scene.Seed
	opts.Pages = c.Scene.Pages

	opts.Starfield.Count = c.Scene.Starfield.Count
	opts.Starfield.CenterRatioX = c.Scene.Starfield.CenterRatioX
	opts.Starfield.CenterRatioY = c.Scene.Starfield.CenterRatioY
	opts.Starfield.MobileFactor = c.Scene.Starfield.MobileFactor

	opts.Torus.MajorRadius = c.Scene.Torus.MajorRadius
	opts.Torus.MinorRadius = c.Scene.Torus.MinorRadius
	opts.Torus.MinorRadiusRatio = c.Scene.Torus.MinorRadiusRatio
	opts.Torus.Rings = c.Scene.Torus.Rings
	opts.Torus.Slices = c.Scene.Torus.Slices
	opts.Torus.RotationStep = c.Scene.Torus.RotationStep

	opts.Sun.ScrollSpan = c.Scene.Sun.ScrollSpan
	opts.Sun.FallbackRadiusRatio = c.Scene.Sun.FallbackRadiusRatio
	return opts
}

// SunRadius returns the laid-out sun radius for a viewport, matching the
// sprite the renderers draw
func (c *Config) SunRadius(vp scene.Viewport) float64 {
	ratio := c.Scene.Sun.SizeRatio
	if vp.IsMobile() {
		ratio = c.Scene.Sun.MobileSizeRatio
	}
	return vp.Height * ratio / 2
}
