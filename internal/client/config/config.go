// Package config assembles runtime settings for the memberctl CLI from four
// layers, each overriding the previous one: built-in defaults, an optional
// JSON file (-c/-config), environment variables (with .env support), and
// command-line flags.
package config

import "time"

// Config holds runtime settings for the memberctl CLI.
type Config struct {
	// APIBaseURL is the root of the remote membership REST API.
	APIBaseURL string

	// RequestTimeout bounds every remote call.
	RequestTimeout time.Duration

	// SessionDBPath is the sqlite file holding the persisted session pair.
	SessionDBPath string

	// PublicRegion and PublicDepartment are attached to public sign-up
	// submissions; the form itself never asks for them.
	PublicRegion     string
	PublicDepartment string

	// PageSize is the default admin listing window.
	PageSize int
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://localhost:8080/api"
	c.RequestTimeout = 15 * time.Second
	c.SessionDBPath = "memberctl.db"
	c.PublicRegion = "DAKAR"
	c.PublicDepartment = "DAKAR"
	c.PageSize = 20
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present), the environment, and command-line flags. Later sources
// take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
