package config

import "time"

const (
	DefaultSnapshotDir      = "references"
	DefaultSearchLimit      = 20
	DefaultFuzzyThreshold   = 0.4
	DefaultAcronymThreshold = 0.6
	DefaultSiteName         = "<SITE_NAME>"
	DefaultWorkers          = 8
	DefaultDebounce         = 500 * time.Millisecond
)

// GetDefaultConfig returns the configuration used when no config.yaml exists.
func GetDefaultConfig() RanfeatConfig {
	return RanfeatConfig{
		Snapshot: SnapshotConfig{
			Dir:      DefaultSnapshotDir,
			Debounce: DefaultDebounce,
		},
		Output: OutputConfig{
			Format: "table",
			Color:  true,
		},
		Search: SearchConfig{
			Limit:            DefaultSearchLimit,
			FuzzyThreshold:   DefaultFuzzyThreshold,
			AcronymThreshold: DefaultAcronymThreshold,
		},
		Cmedit: CmeditConfig{
			Site: DefaultSiteName,
		},
		Build: BuildConfig{
			Workers: DefaultWorkers,
			Include: []string{"**/*.md"},
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "text",
		},
	}
}
