package config

import (
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Defaults applied after load. The write interval is in simulated
// seconds accumulated by the orchestrator's tick accumulator.
const (
	DefaultOutputPath          = "telemetry.json"
	DefaultIntervalSeconds     = 5.0
	DefaultTrackRefreshCycles  = 30
	DefaultSignalRefreshCycles = 10
)

// Load reads and validates configuration from the first readable path,
// falling back to pure defaults when no file exists.
func Load(paths ...string) (AppConfig, error) {
	if len(paths) == 0 {
		paths = []string{"config.yml", "./simtelemetry/config.yml"}
	}
	var data []byte
	var err error
	for _, p := range paths {
		data, err = os.ReadFile(p)
		if err == nil {
			break
		}
	}
	var cfg AppConfig
	if err != nil {
		// No config file is fine; run on defaults.
		return withDefaults(cfg), nil
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	v := validator.New()
	if err := v.Struct(cfg); err != nil {
		return cfg, err
	}
	return withDefaults(cfg), nil
}

func withDefaults(cfg AppConfig) AppConfig {
	if cfg.Writer.OutputPath == "" {
		cfg.Writer.OutputPath = DefaultOutputPath
	}
	if cfg.Writer.IntervalSeconds == 0 {
		cfg.Writer.IntervalSeconds = DefaultIntervalSeconds
	}
	if cfg.Caches.TrackRefreshCycles == 0 {
		cfg.Caches.TrackRefreshCycles = DefaultTrackRefreshCycles
	}
	if cfg.Caches.SignalRefreshCycles == 0 {
		cfg.Caches.SignalRefreshCycles = DefaultSignalRefreshCycles
	}
	return cfg
}
