package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dkolesni/timecapsule/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so intervals can be written either as strings like "10s"
// or as integer nanoseconds.
type JsonConfig struct {
	ServerURL      string         `json:"server_url"`
	RequestTimeout timex.Duration `json:"request_timeout"`
}

func jsonConfigPath(args []string) string {
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "-c", "-config", "--config":
			if i+1 < len(args) {
				return args[i+1]
			}
		}
	}
	return ""
}

// parseJson overlays cfg with values from an optional JSON file. A missing
// or malformed file leaves cfg untouched.
func parseJson(cfg *Config) {
	path := jsonConfigPath(os.Args[1:])
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return
	}

	jc := &JsonConfig{}
	if err := json.Unmarshal(data, jc); err != nil {
		return
	}

	if jc.ServerURL != "" {
		cfg.ServerURL = jc.ServerURL
	}
	if jc.RequestTimeout.Duration != 0 {
		cfg.RequestTimeout = time.Duration(jc.RequestTimeout.Duration)
	}
}
