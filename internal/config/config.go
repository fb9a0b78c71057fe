// Package config provides configuration types and defaults for causalview.
package config

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/npratt/causalview/internal/layout"
)

// Config holds all configuration for causalview.
type Config struct {
	Graph       GraphConfig       `yaml:"graph" mapstructure:"graph"`
	Layout      LayoutConfig      `yaml:"layout" mapstructure:"layout"`
	UI          UIConfig          `yaml:"ui" mapstructure:"ui"`
	Theme       ThemeConfig       `yaml:"theme" mapstructure:"theme"`
	LogRotation LogRotationConfig `yaml:"log_rotation" mapstructure:"log_rotation"`
	Metrics     MetricsConfig     `yaml:"metrics" mapstructure:"metrics"`
}

// GraphConfig holds the data file and threshold slider settings.
type GraphConfig struct {
	File             string  `yaml:"file" mapstructure:"file"`                                    // Graph data file (.json, .yaml, .sz)
	DefaultThreshold float64 `yaml:"default_threshold" mapstructure:"default_threshold"`          // Threshold on start and after reset
	MinThreshold     float64 `yaml:"min_threshold" mapstructure:"min_threshold" validate:"gte=0"` // Slider lower bound
	MaxThreshold     float64 `yaml:"max_threshold" mapstructure:"max_threshold" validate:"gtefield=MinThreshold"`
	ThresholdStep    float64 `yaml:"threshold_step" mapstructure:"threshold_step" validate:"gt=0"`
}

// LayoutConfig holds the force simulation parameters.
type LayoutConfig struct {
	LinkDistance  float64       `yaml:"link_distance" mapstructure:"link_distance" validate:"gt=0"`
	LinkStrength  float64       `yaml:"link_strength" mapstructure:"link_strength" validate:"gte=0,lte=1"`
	Charge        float64       `yaml:"charge" mapstructure:"charge"`
	CollideRadius float64       `yaml:"collide_radius" mapstructure:"collide_radius" validate:"gte=0"`
	InitialAlpha  float64       `yaml:"initial_alpha" mapstructure:"initial_alpha" validate:"gt=0,lte=1"`
	AlphaMin      float64       `yaml:"alpha_min" mapstructure:"alpha_min" validate:"gt=0,lt=1"`
	SettleSteps   int           `yaml:"settle_steps" mapstructure:"settle_steps" validate:"gt=0"` // Steps for alpha to decay from 1 to alpha_min
	VelocityDecay float64       `yaml:"velocity_decay" mapstructure:"velocity_decay" validate:"gte=0,lte=1"`
	TickInterval  time.Duration `yaml:"tick_interval" mapstructure:"tick_interval" validate:"gt=0"` // Wall time between layout steps in the TUI
	Seed          int64         `yaml:"seed" mapstructure:"seed"`
}

// UIConfig holds terminal interface settings.
type UIConfig struct {
	ResizeDebounce     time.Duration `yaml:"resize_debounce" mapstructure:"resize_debounce" validate:"gte=0"`
	TransitionDuration time.Duration `yaml:"transition_duration" mapstructure:"transition_duration" validate:"gte=0"`
	ShowInfoPanel      bool          `yaml:"show_info_panel" mapstructure:"show_info_panel"` // Open the info panel on start
	Mouse              bool          `yaml:"mouse" mapstructure:"mouse"`                     // Enable wheel zoom and node drag
	MinZoom            float64       `yaml:"min_zoom" mapstructure:"min_zoom" validate:"gt=0"`
	MaxZoom            float64       `yaml:"max_zoom" mapstructure:"max_zoom" validate:"gtefield=MinZoom"`
}

// ThemeConfig holds theme preference settings.
type ThemeConfig struct {
	PreferenceFile string `yaml:"preference_file" mapstructure:"preference_file"`                       // TOML file the toggle persists to
	Default        string `yaml:"default" mapstructure:"default" validate:"omitempty,oneof=light dark"` // Used when nothing is saved; empty follows the terminal
}

// LogRotationConfig holds settings for log file rotation.
// Used for the TUI debug log (lumberjack-based automatic rotation).
type LogRotationConfig struct {
	MaxSizeMB  int  `yaml:"max_size_mb" mapstructure:"max_size_mb"`
	MaxBackups int  `yaml:"max_backups" mapstructure:"max_backups"`
	MaxAgeDays int  `yaml:"max_age_days" mapstructure:"max_age_days"`
	Compress   bool `yaml:"compress" mapstructure:"compress"`
}

// MetricsConfig holds the prometheus endpoint settings.
type MetricsConfig struct {
	Addr string `yaml:"addr" mapstructure:"addr"` // Listen address; empty disables the endpoint
}

// Default returns a Config with the viewer's stock settings.
func Default() *Config {
	return &Config{
		Graph: GraphConfig{
			File:             "graph_causal.json",
			DefaultThreshold: 0.05,
			MinThreshold:     0,
			MaxThreshold:     1,
			ThresholdStep:    0.01,
		},
		Layout: LayoutConfig{
			LinkDistance:  200,
			LinkStrength:  0.5,
			Charge:        -800,
			CollideRadius: 50,
			InitialAlpha:  0.3,
			AlphaMin:      0.001,
			SettleSteps:   300,
			VelocityDecay: 0.4,
			TickInterval:  33 * time.Millisecond,
			Seed:          1,
		},
		UI: UIConfig{
			ResizeDebounce:     300 * time.Millisecond,
			TransitionDuration: 750 * time.Millisecond,
			ShowInfoPanel:      true,
			Mouse:              true,
			MinZoom:            0.1,
			MaxZoom:            8,
		},
		Theme: ThemeConfig{
			PreferenceFile: "",
			Default:        "",
		},
		LogRotation: LogRotationConfig{
			MaxSizeMB:  100,
			MaxBackups: 3,
			MaxAgeDays: 7,
			Compress:   true,
		},
	}
}

// Forces converts the layout settings into simulation forces.
func (c LayoutConfig) Forces() layout.Forces {
	return layout.Forces{
		LinkDistance:  c.LinkDistance,
		LinkStrength:  c.LinkStrength,
		Charge:        c.Charge,
		CollideRadius: c.CollideRadius,
		VelocityDecay: c.VelocityDecay,
		AlphaMin:      c.AlphaMin,
		AlphaDecay:    layout.DecayFor(c.AlphaMin, c.SettleSteps),
	}
}

var validate = validator.New()

// Validate checks field ranges and that the default threshold lies on the
// slider.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s: failed %s", strings.TrimPrefix(fe.Namespace(), "Config."), fe.Tag()))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	g := c.Graph
	if math.IsNaN(g.DefaultThreshold) || g.DefaultThreshold < g.MinThreshold || g.DefaultThreshold > g.MaxThreshold {
		return fmt.Errorf("invalid config: graph.default_threshold %v outside [%v, %v]",
			g.DefaultThreshold, g.MinThreshold, g.MaxThreshold)
	}
	return nil
}
