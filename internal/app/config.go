package app

import "errors"

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	ManifestPaths []string // hcl files or directories containing them

	LogFormat string
	LogLevel  string

	// Optional overrides. A nil pointer means "not set on the command
	// line", letting manifest values and built-in defaults apply.
	Shots   *int
	Seed    *uint64
	Workers *int
	Backend string
}

func NewConfig(cfg Config) (*Config, error) {
	if len(cfg.ManifestPaths) == 0 {
		return nil, errors.New("at least one manifest path is required")
	}
	if cfg.Shots != nil && *cfg.Shots <= 0 {
		return nil, errors.New("shots must be a positive integer")
	}
	if cfg.Workers != nil && *cfg.Workers <= 0 {
		return nil, errors.New("workers must be a positive integer")
	}

	return &cfg, nil
}
