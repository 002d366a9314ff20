package config

import "time"

// RanfeatConfig is the top-level configuration structure for ranfeat.
type RanfeatConfig struct {
	Snapshot SnapshotConfig `yaml:"snapshot"`
	Output   OutputConfig   `yaml:"output"`
	Search   SearchConfig   `yaml:"search"`
	Cmedit   CmeditConfig   `yaml:"cmedit"`
	Build    BuildConfig    `yaml:"build"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// SnapshotConfig locates the feature index produced by "ranfeat build".
type SnapshotConfig struct {
	Dir      string        `yaml:"dir"`                // Directory holding features.json
	Watch    bool          `yaml:"watch,omitempty"`    // Reload the shell catalog when the snapshot changes
	Debounce time.Duration `yaml:"debounce,omitempty"` // Quiet period before a reload
}

type OutputConfig struct {
	Format string `yaml:"format,omitempty"` // table, wide, json, yaml, markdown, csv
	Color  bool   `yaml:"color"`
}

type SearchConfig struct {
	Limit            int     `yaml:"limit,omitempty"`
	FuzzyThreshold   float64 `yaml:"fuzzyThreshold,omitempty"`
	AcronymThreshold float64 `yaml:"acronymThreshold,omitempty"`
}

// CmeditConfig sets the default scope of generated cmedit scripts. A
// collection takes precedence over a site.
type CmeditConfig struct {
	Site       string `yaml:"site,omitempty"`
	Collection string `yaml:"collection,omitempty"`
}

// BuildConfig drives index extraction from markdown sources.
type BuildConfig struct {
	SourceDir string   `yaml:"sourceDir,omitempty"`
	OutputDir string   `yaml:"outputDir,omitempty"` // empty means snapshot.dir
	Workers   int      `yaml:"workers,omitempty"`
	Include   []string `yaml:"include,omitempty"` // doublestar patterns relative to SourceDir
	Exclude   []string `yaml:"exclude,omitempty"`
}

type LoggingConfig struct {
	Level  string `yaml:"level,omitempty"`
	Format string `yaml:"format,omitempty"` // text or json
}
