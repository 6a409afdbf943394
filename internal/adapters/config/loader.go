// Package config provides the configuration loader for herd.
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// DefaultFilename is the configuration file looked up in the working
// directory when no explicit path is given.
const DefaultFilename = "herd.yaml"

// EnvConfigPath overrides the configuration file location.
const EnvConfigPath = "HERD_CONFIG"

// Config is the resolved runtime configuration. All paths are absolute.
type Config struct {
	Root        string
	OutputDir   string
	CacheFile   string
	MetricsFile string
	// AllowEmpty makes a scan with zero units a warning instead of an error.
	AllowEmpty  bool
	Exporter    ExporterConfig
	Fingerprint FingerprintConfig
	Planner     PlannerConfig
}

// ExporterConfig configures the exporter subprocess.
type ExporterConfig struct {
	Binary         string
	Preset         string
	Timeout        time.Duration
	MaxOutputBytes int
	MaxAttempts    int
	EnsurePreset   bool
}

// FingerprintConfig configures unit fingerprinting.
type FingerprintConfig struct {
	// LargeFileThreshold is the size in bytes at which a file's signature
	// switches from content hash to mtime+size. 0 hashes everything.
	LargeFileThreshold int64
	Exclude            []string
}

// PlannerConfig holds the per-job resource budgets.
type PlannerConfig struct {
	MemoryPerJob    uint64
	FDsPerJob       uint64
	ReservedCores   int
	CIReservedCores int
}

// Loader reads herd.yaml from a working directory.
type Loader struct {
	Filename string
}

// NewLoader creates a Loader honoring the EnvConfigPath override.
func NewLoader() *Loader {
	filename := DefaultFilename
	if v := os.Getenv(EnvConfigPath); v != "" {
		filename = v
	}
	return &Loader{Filename: filename}
}

// Load reads the configuration relative to cwd. A missing file yields the
// defaults; a present but unparseable file is an error.
func (l *Loader) Load(cwd string) (*Config, error) {
	path := l.Filename
	if !filepath.IsAbs(path) {
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path) //nolint:gosec // path is provided by user
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Default(cwd), nil
		}
		return nil, zerr.With(zerr.Wrap(err, "failed to read config file"), "path", path)
	}

	var schema fileSchema
	if err := yaml.Unmarshal(data, &schema); err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to parse config file"), "path", path)
	}

	cfg := fromSchema(&schema)
	cfg.normalize(cwd)
	return cfg, nil
}

// Default returns the configuration used when no herd.yaml exists.
func Default(cwd string) *Config {
	cfg := &Config{}
	cfg.Exporter.EnsurePreset = true
	cfg.Fingerprint.LargeFileThreshold = -1
	cfg.Planner.ReservedCores = -1
	cfg.Planner.CIReservedCores = -1
	cfg.normalize(cwd)
	return cfg
}

func fromSchema(s *fileSchema) *Config {
	cfg := &Config{
		Root:        s.Root,
		OutputDir:   s.OutputDir,
		CacheFile:   s.CacheFile,
		MetricsFile: s.MetricsFile,
		AllowEmpty:  s.AllowEmpty,
		Exporter: ExporterConfig{
			Binary:      s.Exporter.Binary,
			Preset:      s.Exporter.Preset,
			MaxAttempts: s.Exporter.MaxAttempts,
		},
	}

	if s.Exporter.TimeoutSeconds > 0 {
		cfg.Exporter.Timeout = time.Duration(s.Exporter.TimeoutSeconds) * time.Second
	}
	if s.Exporter.MaxOutputKB > 0 {
		cfg.Exporter.MaxOutputBytes = s.Exporter.MaxOutputKB << 10
	}
	if s.Exporter.EnsurePreset != nil {
		cfg.Exporter.EnsurePreset = *s.Exporter.EnsurePreset
	} else {
		cfg.Exporter.EnsurePreset = true
	}

	if s.Fingerprint.LargeFileThresholdMB != nil {
		cfg.Fingerprint.LargeFileThreshold = int64(*s.Fingerprint.LargeFileThresholdMB) << 20
	} else {
		cfg.Fingerprint.LargeFileThreshold = -1 // default applied in normalize
	}
	cfg.Fingerprint.Exclude = s.Fingerprint.Exclude

	if s.Planner.MemoryPerJobMB > 0 {
		cfg.Planner.MemoryPerJob = uint64(s.Planner.MemoryPerJobMB) << 20
	}
	if s.Planner.FDsPerJob > 0 {
		cfg.Planner.FDsPerJob = uint64(s.Planner.FDsPerJob)
	}
	if s.Planner.ReservedCores != nil {
		cfg.Planner.ReservedCores = *s.Planner.ReservedCores
	} else {
		cfg.Planner.ReservedCores = -1
	}
	if s.Planner.CIReservedCores != nil {
		cfg.Planner.CIReservedCores = *s.Planner.CIReservedCores
	} else {
		cfg.Planner.CIReservedCores = -1
	}

	return cfg
}

// normalize fills defaults and resolves relative paths against the root.
func (c *Config) normalize(cwd string) {
	if c.Root == "" {
		c.Root = cwd
	}
	if !filepath.IsAbs(c.Root) {
		c.Root = filepath.Join(cwd, c.Root)
	}
	c.Root = filepath.Clean(c.Root)

	if c.OutputDir == "" {
		c.OutputDir = "build"
	}
	if !filepath.IsAbs(c.OutputDir) {
		c.OutputDir = filepath.Join(c.Root, c.OutputDir)
	}

	if c.CacheFile == "" {
		c.CacheFile = filepath.Join(".herd", "cache.json")
	}
	if !filepath.IsAbs(c.CacheFile) {
		c.CacheFile = filepath.Join(c.Root, c.CacheFile)
	}

	if c.MetricsFile != "" && !filepath.IsAbs(c.MetricsFile) {
		c.MetricsFile = filepath.Join(c.Root, c.MetricsFile)
	}

	if c.Exporter.Binary == "" {
		c.Exporter.Binary = "godot"
	}
	if c.Exporter.Preset == "" {
		c.Exporter.Preset = "Web"
	}
	if c.Exporter.Timeout <= 0 {
		c.Exporter.Timeout = 5 * time.Minute
	}
	if c.Exporter.MaxOutputBytes <= 0 {
		c.Exporter.MaxOutputBytes = 64 << 10
	}
	if c.Exporter.MaxAttempts <= 0 {
		c.Exporter.MaxAttempts = 3
	}

	if c.Fingerprint.LargeFileThreshold < 0 {
		c.Fingerprint.LargeFileThreshold = 10 << 20
	}
	if c.Fingerprint.Exclude == nil {
		c.Fingerprint.Exclude = []string{".godot", ".import", "exports"}
	}

	if c.Planner.MemoryPerJob == 0 {
		c.Planner.MemoryPerJob = 1536 << 20
	}
	if c.Planner.FDsPerJob == 0 {
		c.Planner.FDsPerJob = 64
	}
	if c.Planner.ReservedCores < 0 {
		c.Planner.ReservedCores = 1
	}
	if c.Planner.CIReservedCores < 0 {
		c.Planner.CIReservedCores = 0
	}
}
