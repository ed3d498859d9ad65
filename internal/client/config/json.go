package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/pastefconnect/memberctl/internal/flagx"
)

// jsonConfig is a DTO used exclusively for JSON unmarshalling. Durations are
// given as strings in time.ParseDuration syntax ("15s", "1m30s").
type jsonConfig struct {
	APIBaseURL       string `json:"api_base_url"`
	RequestTimeout   string `json:"request_timeout"`
	SessionDBPath    string `json:"session_db_path"`
	PublicRegion     string `json:"public_region"`
	PublicDepartment string `json:"public_department"`
	PageSize         int    `json:"page_size"`
}

// parseJson overlays cfg with values from the JSON file named by -c/-config.
// Absent file path means no JSON layer. Unset fields keep their current
// values. Read or parse errors panic; config is resolved before any work
// starts, so failing loudly here is fine.
func parseJson(cfg *Config) {
	path := flagx.JsonConfigFlags()
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var jc jsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.APIBaseURL != "" {
		cfg.APIBaseURL = jc.APIBaseURL
	}
	if jc.RequestTimeout != "" {
		d, err := time.ParseDuration(jc.RequestTimeout)
		if err != nil {
			panic(err)
		}
		cfg.RequestTimeout = d
	}
	if jc.SessionDBPath != "" {
		cfg.SessionDBPath = jc.SessionDBPath
	}
	if jc.PublicRegion != "" {
		cfg.PublicRegion = jc.PublicRegion
	}
	if jc.PublicDepartment != "" {
		cfg.PublicDepartment = jc.PublicDepartment
	}
	if jc.PageSize > 0 {
		cfg.PageSize = jc.PageSize
	}
}
