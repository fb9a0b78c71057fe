package config

import (
	"math"
	"strings"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg == nil {
		t.Fatal("Default() returned nil")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default() should validate: %v", err)
	}
}

func TestDefaultGraphConfig(t *testing.T) {
	cfg := Default()

	if cfg.Graph.File != "graph_causal.json" {
		t.Errorf("Graph.File = %q, want %q", cfg.Graph.File, "graph_causal.json")
	}
	if cfg.Graph.DefaultThreshold != 0.05 {
		t.Errorf("Graph.DefaultThreshold = %v, want 0.05", cfg.Graph.DefaultThreshold)
	}
	if cfg.Graph.MinThreshold != 0 || cfg.Graph.MaxThreshold != 1 {
		t.Errorf("threshold range = [%v, %v], want [0, 1]", cfg.Graph.MinThreshold, cfg.Graph.MaxThreshold)
	}
	if cfg.Graph.ThresholdStep != 0.01 {
		t.Errorf("Graph.ThresholdStep = %v, want 0.01", cfg.Graph.ThresholdStep)
	}
}

func TestDefaultLayoutConfig(t *testing.T) {
	cfg := Default()

	if cfg.Layout.LinkDistance != 200 {
		t.Errorf("Layout.LinkDistance = %v, want 200", cfg.Layout.LinkDistance)
	}
	if cfg.Layout.LinkStrength != 0.5 {
		t.Errorf("Layout.LinkStrength = %v, want 0.5", cfg.Layout.LinkStrength)
	}
	if cfg.Layout.Charge != -800 {
		t.Errorf("Layout.Charge = %v, want -800", cfg.Layout.Charge)
	}
	if cfg.Layout.CollideRadius != 50 {
		t.Errorf("Layout.CollideRadius = %v, want 50", cfg.Layout.CollideRadius)
	}
	if cfg.Layout.InitialAlpha != 0.3 {
		t.Errorf("Layout.InitialAlpha = %v, want 0.3", cfg.Layout.InitialAlpha)
	}
}

func TestDefaultUIConfig(t *testing.T) {
	cfg := Default()

	if cfg.UI.ResizeDebounce != 300*time.Millisecond {
		t.Errorf("UI.ResizeDebounce = %v, want 300ms", cfg.UI.ResizeDebounce)
	}
	if cfg.UI.TransitionDuration != 750*time.Millisecond {
		t.Errorf("UI.TransitionDuration = %v, want 750ms", cfg.UI.TransitionDuration)
	}
	if cfg.UI.MinZoom != 0.1 || cfg.UI.MaxZoom != 8 {
		t.Errorf("zoom range = [%v, %v], want [0.1, 8]", cfg.UI.MinZoom, cfg.UI.MaxZoom)
	}
	if !cfg.UI.Mouse {
		t.Error("UI.Mouse should default to true")
	}
}

func TestDefaultLogRotationConfig(t *testing.T) {
	cfg := Default()

	if cfg.LogRotation.MaxSizeMB != 100 {
		t.Errorf("LogRotation.MaxSizeMB = %d, want 100", cfg.LogRotation.MaxSizeMB)
	}
	if cfg.LogRotation.MaxBackups != 3 {
		t.Errorf("LogRotation.MaxBackups = %d, want 3", cfg.LogRotation.MaxBackups)
	}
	if cfg.Metrics.Addr != "" {
		t.Errorf("Metrics.Addr = %q, want empty", cfg.Metrics.Addr)
	}
}

func TestLayoutForces(t *testing.T) {
	f := Default().Layout.Forces()

	if f.LinkDistance != 200 || f.Charge != -800 || f.CollideRadius != 50 {
		t.Errorf("Forces() = %+v, want distance 200, charge -800, collide 50", f)
	}
	if f.AlphaDecay <= 0 || f.AlphaDecay >= 1 {
		t.Errorf("AlphaDecay = %v, want in (0, 1)", f.AlphaDecay)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"negative min", func(c *Config) { c.Graph.MinThreshold = -1 }, "Graph.MinThreshold"},
		{"max below min", func(c *Config) { c.Graph.MinThreshold, c.Graph.MaxThreshold = 0.5, 0.2; c.Graph.DefaultThreshold = 0.3 }, "Graph.MaxThreshold"},
		{"zero step", func(c *Config) { c.Graph.ThresholdStep = 0 }, "Graph.ThresholdStep"},
		{"default off slider", func(c *Config) { c.Graph.DefaultThreshold = 2 }, "default_threshold"},
		{"bad theme", func(c *Config) { c.Theme.Default = "sepia" }, "Theme.Default"},
		{"dark theme", func(c *Config) { c.Theme.Default = "dark" }, ""},
		{"zero tick", func(c *Config) { c.Layout.TickInterval = 0 }, "Layout.TickInterval"},
		{"alpha min too big", func(c *Config) { c.Layout.AlphaMin = 1 }, "Layout.AlphaMin"},
		{"zero initial alpha", func(c *Config) { c.Layout.InitialAlpha = 0 }, "Layout.InitialAlpha"},
		{"NaN default threshold", func(c *Config) { c.Graph.DefaultThreshold = math.NaN() }, "default_threshold"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() = nil, want error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %q, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}
