package picovalid

import "github.com/joeshaw/envdecode"

// Config carries deployment-level knobs for the validation layer. Defaults
// can be loaded via envdecode.
type Config struct {
	// AllowUnknownFields relaxes the default engine's strict decoding so
	// that raw mappings may carry fields the target type does not declare.
	// ENV: PICOVALID_ALLOW_UNKNOWN_FIELDS
	AllowUnknownFields bool `env:"PICOVALID_ALLOW_UNKNOWN_FIELDS,default=false"`
	// MetricsEnabled turns on Prometheus instrumentation.
	// ENV: PICOVALID_METRICS
	MetricsEnabled bool `env:"PICOVALID_METRICS,default=false"`
	// ManifestPath optionally points at a YAML policy manifest applied over
	// registered method specs. ENV: PICOVALID_MANIFEST
	ManifestPath string `env:"PICOVALID_MANIFEST,default="`
}

// ConfigFromEnv populates a Config using envdecode.
func ConfigFromEnv() (Config, error) {
	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
