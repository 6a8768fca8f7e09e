// Package config loads process configuration from environment variables:
// defaults first, then explicit env-var overrides, no external config
// library or file format.
package config

import (
	"os"
	"strconv"
)

// Config holds every environment-tunable knob the engine host reads at
// startup. It is plain data, loaded once, never mutated afterward.
type Config struct {
	// ScenarioPath points at the parsed scenario blob the loader hands
	// the core at boot.
	ScenarioPath string
	// SaveDir is where save slots are written.
	SaveDir string
	// LogDir is where the Info/Error/Debug logs are written.
	LogDir string
	// Debug mirrors Debug-level log lines to stderr.
	Debug bool
	// ListenAddr is the control API's bind address.
	ListenAddr string
	// AllowedOrigins lists permitted CORS origins. The control API does
	// not read it: its CORS middleware always allows every origin.
	AllowedOrigins []string
	// RateLimitPerSecond bounds control API requests per client.
	RateLimitPerSecond float64
	// RateLimitBurst bounds the control API's burst allowance.
	RateLimitBurst int
	// CommandSigningRequired rejects unsigned commands when true.
	CommandSigningRequired bool
}

// Load builds a Config from environment variables, applying the same
// documented defaults a fresh checkout ships with.
func Load() Config {
	c := Config{
		ScenarioPath:           "./scenario.bin",
		SaveDir:                "./saves",
		LogDir:                 "./logs",
		Debug:                  false,
		ListenAddr:             ":8420",
		AllowedOrigins:         []string{"*"},
		RateLimitPerSecond:     5,
		RateLimitBurst:         10,
		CommandSigningRequired: true,
	}

	if v := os.Getenv("ARCHON_SCENARIO_PATH"); v != "" {
		c.ScenarioPath = v
	}
	if v := os.Getenv("ARCHON_SAVE_DIR"); v != "" {
		c.SaveDir = v
	}
	if v := os.Getenv("ARCHON_LOG_DIR"); v != "" {
		c.LogDir = v
	}
	if os.Getenv("ARCHON_DEBUG") == "true" {
		c.Debug = true
	}
	if v := os.Getenv("ARCHON_LISTEN_ADDR"); v != "" {
		c.ListenAddr = v
	}
	if v := os.Getenv("ARCHON_RATE_LIMIT_PER_SECOND"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.RateLimitPerSecond = f
		}
	}
	if v := os.Getenv("ARCHON_RATE_LIMIT_BURST"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.RateLimitBurst = n
		}
	}
	if os.Getenv("ARCHON_COMMAND_SIGNING") == "false" {
		c.CommandSigningRequired = false
	}
	return c
}
