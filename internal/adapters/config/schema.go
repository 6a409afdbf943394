package config

// fileSchema is the on-disk structure of the herd.yaml configuration file.
type fileSchema struct {
	Root        string            `yaml:"root"`
	OutputDir   string            `yaml:"output_dir"`
	CacheFile   string            `yaml:"cache_file"`
	MetricsFile string            `yaml:"metrics_file"`
	AllowEmpty  bool              `yaml:"allow_empty"`
	Exporter    exporterSchema    `yaml:"exporter"`
	Fingerprint fingerprintSchema `yaml:"fingerprint"`
	Planner     plannerSchema     `yaml:"planner"`
}

type exporterSchema struct {
	Binary         string `yaml:"binary"`
	Preset         string `yaml:"preset"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	MaxOutputKB    int    `yaml:"max_output_kb"`
	MaxAttempts    int    `yaml:"max_attempts"`
	EnsurePreset   *bool  `yaml:"ensure_preset"`
}

type fingerprintSchema struct {
	// LargeFileThresholdMB switches files at or above the threshold from
	// content hashing to an mtime+size signature. 0 means always hash.
	LargeFileThresholdMB *int     `yaml:"large_file_threshold_mb"`
	Exclude              []string `yaml:"exclude"`
}

type plannerSchema struct {
	MemoryPerJobMB  int  `yaml:"memory_per_job_mb"`
	FDsPerJob       int  `yaml:"fds_per_job"`
	ReservedCores   *int `yaml:"reserved_cores"`
	CIReservedCores *int `yaml:"ci_reserved_cores"`
}
