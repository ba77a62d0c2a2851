// Package config loads fogwall settings from a YAML file, FOGWALL_*
// environment variables and command-line flags through viper.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"github.com/phanxgames/fogwall"
)

// EnvPrefix is the prefix of environment variable overrides,
// e.g. FOGWALL_WINDOW_WIDTH.
const EnvPrefix = "FOGWALL"

// Config is the full fogwall configuration.
type Config struct {
	Logger    LoggerConfig    `mapstructure:"logger" yaml:"logger"`
	Window    WindowConfig    `mapstructure:"window" yaml:"window"`
	Gallery   GalleryConfig   `mapstructure:"gallery" yaml:"gallery"`
	Particles ParticlesConfig `mapstructure:"particles" yaml:"particles"`
	Loader    LoaderConfig    `mapstructure:"loader" yaml:"loader"`
}

// LoggerConfig configures the zap logger. LogFile adds a rotating JSON sink
// next to the console output.
type LoggerConfig struct {
	Level       string `mapstructure:"level" yaml:"level"`
	Format      string `mapstructure:"format" yaml:"format"`
	Color       bool   `mapstructure:"color" yaml:"color"`
	ServiceName string `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int    `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int    `mapstructure:"max_backups" yaml:"max_backups"`
}

type WindowConfig struct {
	Title      string `mapstructure:"title" yaml:"title"`
	Width      int    `mapstructure:"width" yaml:"width"`
	Height     int    `mapstructure:"height" yaml:"height"`
	Fullscreen bool   `mapstructure:"fullscreen" yaml:"fullscreen"`
	Resizable  bool   `mapstructure:"resizable" yaml:"resizable"`
	TPS        int    `mapstructure:"tps" yaml:"tps"`
}

type GalleryConfig struct {
	PostersFile      string        `mapstructure:"posters_file" yaml:"posters_file"`
	StartIndex       int           `mapstructure:"start_index" yaml:"start_index"`
	Seed             uint64        `mapstructure:"seed" yaml:"seed"`
	ScatterDuration  time.Duration `mapstructure:"scatter_duration" yaml:"scatter_duration"`
	AssembleDuration time.Duration `mapstructure:"assemble_duration" yaml:"assemble_duration"`
	Debug            bool          `mapstructure:"debug" yaml:"debug"`
	ScreenshotDir    string        `mapstructure:"screenshot_dir" yaml:"screenshot_dir"`
	Script           string        `mapstructure:"script" yaml:"script"`
}

// ParticlesConfig overrides the most commonly tuned simulation constants.
type ParticlesConfig struct {
	MaxSamples        int     `mapstructure:"max_samples" yaml:"max_samples"`
	AlphaCutoff       int     `mapstructure:"alpha_cutoff" yaml:"alpha_cutoff"`
	AmbientExtraRatio float64 `mapstructure:"ambient_extra_ratio" yaml:"ambient_extra_ratio"`
	AmbientImageRatio float64 `mapstructure:"ambient_image_ratio" yaml:"ambient_image_ratio"`
	Friction          float64 `mapstructure:"friction" yaml:"friction"`
	RepulsionRadius   float64 `mapstructure:"repulsion_radius" yaml:"repulsion_radius"`
	PushStrength      float64 `mapstructure:"push_strength" yaml:"push_strength"`
	RotateSpeed       float64 `mapstructure:"rotate_speed" yaml:"rotate_speed"`
	CameraDepth       float64 `mapstructure:"camera_depth" yaml:"camera_depth"`
	FocusExpandSpeed  float64 `mapstructure:"focus_expand_speed" yaml:"focus_expand_speed"`
	FocusShrinkSpeed  float64 `mapstructure:"focus_shrink_speed" yaml:"focus_shrink_speed"`
	FocusMaxRadius    float64 `mapstructure:"focus_max_radius" yaml:"focus_max_radius"`
}

type LoaderConfig struct {
	HTTPTimeout          time.Duration `mapstructure:"http_timeout" yaml:"http_timeout"`
	MaxImageBytes        int64         `mapstructure:"max_image_bytes" yaml:"max_image_bytes"`
	MaxConcurrentDecodes int           `mapstructure:"max_concurrent_decodes" yaml:"max_concurrent_decodes"`
}

// SetDefaults registers every default on v. Particle defaults mirror
// fogwall.DefaultTuning.
func SetDefaults(v *viper.Viper) {
	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.color", true)
	v.SetDefault("logger.service_name", "fogwall")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 20)
	v.SetDefault("logger.max_backups", 3)

	// -- Window --
	v.SetDefault("window.title", "fogwall")
	v.SetDefault("window.width", 1280)
	v.SetDefault("window.height", 800)
	v.SetDefault("window.fullscreen", false)
	v.SetDefault("window.resizable", true)
	v.SetDefault("window.tps", 60)

	// -- Gallery --
	t := fogwall.DefaultTuning()
	v.SetDefault("gallery.posters_file", "posters.json")
	v.SetDefault("gallery.start_index", 0)
	v.SetDefault("gallery.seed", 1)
	v.SetDefault("gallery.scatter_duration", t.ScatterDuration.String())
	v.SetDefault("gallery.assemble_duration", t.AssembleDuration.String())
	v.SetDefault("gallery.debug", false)
	v.SetDefault("gallery.screenshot_dir", "screenshots")
	v.SetDefault("gallery.script", "")

	// -- Particles --
	v.SetDefault("particles.max_samples", t.MaxSamples)
	v.SetDefault("particles.alpha_cutoff", int(t.AlphaCutoff))
	v.SetDefault("particles.ambient_extra_ratio", t.AmbientExtraRatio)
	v.SetDefault("particles.ambient_image_ratio", t.AmbientImageRatio)
	v.SetDefault("particles.friction", t.Friction)
	v.SetDefault("particles.repulsion_radius", t.RepulsionRadius)
	v.SetDefault("particles.push_strength", t.PushStrength)
	v.SetDefault("particles.rotate_speed", t.RotateSpeed)
	v.SetDefault("particles.camera_depth", t.CameraDepth)
	v.SetDefault("particles.focus_expand_speed", t.FocusExpandSpeed)
	v.SetDefault("particles.focus_shrink_speed", t.FocusShrinkSpeed)
	v.SetDefault("particles.focus_max_radius", t.FocusMaxRadius)

	// -- Loader --
	v.SetDefault("loader.http_timeout", "30s")
	v.SetDefault("loader.max_image_bytes", 32<<20)
	v.SetDefault("loader.max_concurrent_decodes", 2)
}

// Load unmarshals v, expands ~ in paths and validates the result.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.expandPaths(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func (c *Config) expandPaths() error {
	for _, p := range []*string{
		&c.Logger.LogFile,
		&c.Gallery.PostersFile,
		&c.Gallery.ScreenshotDir,
		&c.Gallery.Script,
	} {
		if *p == "" {
			continue
		}
		expanded, err := homedir.Expand(*p)
		if err != nil {
			return fmt.Errorf("expand path %q: %w", *p, err)
		}
		*p = expanded
	}
	return nil
}

// Validate checks the configuration for sane values.
func (c *Config) Validate() error {
	var errs []error
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height))
	}
	if c.Gallery.ScatterDuration < 0 || c.Gallery.AssembleDuration < 0 {
		errs = append(errs, errors.New("gallery durations must not be negative"))
	}
	p := c.Particles
	if p.MaxSamples <= 0 {
		errs = append(errs, errors.New("particles.max_samples must be a positive integer"))
	}
	if p.AlphaCutoff < 0 || p.AlphaCutoff > 255 {
		errs = append(errs, fmt.Errorf("particles.alpha_cutoff must be within 0-255, got %d", p.AlphaCutoff))
	}
	if p.AmbientExtraRatio < 0 || p.AmbientImageRatio < 0 || p.AmbientImageRatio > 1 {
		errs = append(errs, errors.New("particles ambient ratios out of range"))
	}
	if p.Friction <= 0 || p.Friction > 1 {
		errs = append(errs, fmt.Errorf("particles.friction must be within (0, 1], got %v", p.Friction))
	}
	if p.CameraDepth <= 0 {
		errs = append(errs, errors.New("particles.camera_depth must be positive"))
	}
	if c.Loader.MaxConcurrentDecodes <= 0 {
		errs = append(errs, errors.New("loader.max_concurrent_decodes must be a positive integer"))
	}
	return errors.Join(errs...)
}

// Tuning returns fogwall.DefaultTuning with the configured overrides applied.
func (c *Config) Tuning() fogwall.Tuning {
	t := fogwall.DefaultTuning()
	p := c.Particles
	t.MaxSamples = p.MaxSamples
	t.AlphaCutoff = uint8(p.AlphaCutoff)
	t.AmbientExtraRatio = p.AmbientExtraRatio
	t.AmbientImageRatio = p.AmbientImageRatio
	t.Friction = p.Friction
	t.RepulsionRadius = p.RepulsionRadius
	t.PushStrength = p.PushStrength
	t.RotateSpeed = p.RotateSpeed
	t.CameraDepth = p.CameraDepth
	t.FocusExpandSpeed = p.FocusExpandSpeed
	t.FocusShrinkSpeed = p.FocusShrinkSpeed
	t.FocusMaxRadius = p.FocusMaxRadius
	t.ScatterDuration = c.Gallery.ScatterDuration
	t.AssembleDuration = c.Gallery.AssembleDuration
	return t
}
