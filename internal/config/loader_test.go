package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, configFileName), []byte(content), 0o644))
	return dir
}

func TestLoadConfig_DefaultOnly(t *testing.T) {
	t.Setenv(EnvSnapshotDir, "")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, GetDefaultConfig(), cfg)
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	t.Setenv(EnvSnapshotDir, "")

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, DefaultSnapshotDir, cfg.Snapshot.Dir)
}

func TestLoadConfig_Override(t *testing.T) {
	t.Setenv(EnvSnapshotDir, "")
	dir := writeConfig(t, `
snapshot:
  dir: /data/refs
  watch: true
  debounce: 2s
output:
  format: json
search:
  limit: 5
cmedit:
  collection: pilot-cells
`)

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "/data/refs", cfg.Snapshot.Dir)
	assert.True(t, cfg.Snapshot.Watch)
	assert.Equal(t, 2*time.Second, cfg.Snapshot.Debounce)
	assert.Equal(t, "json", cfg.Output.Format)
	assert.Equal(t, 5, cfg.Search.Limit)
	assert.Equal(t, DefaultFuzzyThreshold, cfg.Search.FuzzyThreshold, "unset keys keep defaults")
	assert.Equal(t, "pilot-cells", cfg.Cmedit.Collection)
	assert.Equal(t, DefaultSiteName, cfg.Cmedit.Site)
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	t.Setenv(EnvSnapshotDir, "/env/refs")
	dir := writeConfig(t, "snapshot:\n  dir: /file/refs\n")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, "/env/refs", cfg.Snapshot.Dir)
}

func TestLoadConfig_Malformed(t *testing.T) {
	dir := writeConfig(t, "snapshot: [unclosed\n")

	_, err := LoadConfig(dir)
	require.Error(t, err)
	assert.True(t, IsConfigurationErr(err))

	var ce *ConfigurationError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "parse", ce.ErrorType)
	assert.Contains(t, ce.DetailedError(), "Suggestions:")
}

func TestLoadConfig_ValidationErrors(t *testing.T) {
	t.Setenv(EnvSnapshotDir, "")
	dir := writeConfig(t, `
output:
  format: html
search:
  fuzzyThreshold: 1.5
logging:
  level: chatty
`)

	_, err := LoadConfig(dir)
	require.Error(t, err)

	var errs *ConfigurationErrorCollection
	require.ErrorAs(t, err, &errs)
	require.Len(t, errs.Errors, 3)
	assert.Equal(t, "output.format", errs.Errors[0].Field)
	assert.Equal(t, "search.fuzzyThreshold", errs.Errors[1].Field)
	assert.Equal(t, "logging.level", errs.Errors[2].Field)
	assert.Contains(t, err.Error(), "3 configuration errors")
}
