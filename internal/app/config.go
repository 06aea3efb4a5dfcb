package app

import "errors"

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	ReportPaths []string // build report files or directories
	ConfigPath  string   // HCL options file, optional
	OutputBase  string   // base dir for relative report output dirs

	LogFormat string
	LogLevel  string
}

// NewConfig validates a Config and returns it.
func NewConfig(cfg Config) (*Config, error) {
	if len(cfg.ReportPaths) == 0 {
		return nil, errors.New("ReportPaths is a required configuration field and cannot be empty")
	}
	return &cfg, nil
}
