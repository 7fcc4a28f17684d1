package app

import "errors"

// Config holds all the necessary configuration for an App instance.
type Config struct {
	// ManifestsPath points to a directory (or single file) of .hcl
	// functor manifests. Empty means only compiled-in declarations are
	// documented.
	ManifestsPath string

	// Detailed selects the structured JSON rendering of the API instead
	// of the plain-text listing.
	Detailed bool

	LogFormat string
	LogLevel  string
}

func NewConfig(cfg Config) (*Config, error) {
	switch cfg.LogFormat {
	case "", "text", "json":
	default:
		return nil, errors.New("LogFormat must be 'text' or 'json'")
	}
	return &cfg, nil
}
