package config

// WriterConfig controls snapshot output.
type WriterConfig struct {
	OutputPath      string  `yaml:"outputPath"`
	IntervalSeconds float64 `yaml:"intervalSeconds" validate:"gte=0"`
}

// CacheConfig sets the refresh periods of the derived-data caches, in
// snapshot cycles.
type CacheConfig struct {
	TrackRefreshCycles  int `yaml:"trackRefreshCycles" validate:"gte=0"`
	SignalRefreshCycles int `yaml:"signalRefreshCycles" validate:"gte=0"`
}

// GeometryConfig sets curve subdivision counts.
type GeometryConfig struct {
	ArcSteps    int `yaml:"arcSteps" validate:"gte=0"`
	SplineSteps int `yaml:"splineSteps" validate:"gte=0"`
}

// ArchiveConfig controls the optional sqlite snapshot history.
type ArchiveConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// ExportConfig controls optional side outputs next to the main
// document.
type ExportConfig struct {
	GTFSRTPath string `yaml:"gtfsrtPath"`
}

// AppConfig is the root configuration structure
type AppConfig struct {
	Writer   WriterConfig   `yaml:"writer"`
	Caches   CacheConfig    `yaml:"caches"`
	Geometry GeometryConfig `yaml:"geometry"`
	Archive  ArchiveConfig  `yaml:"archive"`
	Export   ExportConfig   `yaml:"export"`
}
