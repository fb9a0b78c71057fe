package main

// Flag names for Viper binding
const (
	// Global flags
	FlagVerbose = "verbose"
	FlagConfig  = "config"
	FlagLogDir  = "log-dir"

	// Shared graph flags
	FlagThreshold = "threshold"
	FlagFocus     = "focus"

	// View command flags
	FlagMetricsAddr = "metrics-addr"
	FlagNoMouse     = "no-mouse"
	FlagTheme       = "theme"

	// Inspect command flags
	FlagJSON = "json"

	// Layout command flags
	FlagOut   = "out"
	FlagSteps = "steps"
)
