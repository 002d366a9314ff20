package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"ranfeat/pkg/logging"

	"gopkg.in/yaml.v3"
)

const (
	userConfigDir  = ".config/ranfeat"
	configFileName = "config.yaml"

	// EnvSnapshotDir overrides snapshot.dir.
	EnvSnapshotDir = "RANFEAT_SNAPSHOT_DIR"
)

// GetDefaultConfigPath returns ~/.config/ranfeat, or "" when the home
// directory cannot be determined.
func GetDefaultConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(homeDir, userConfigDir)
}

// LoadConfig loads config.yaml from configPath on top of the defaults. A
// missing file is not an error. The result is validated; validation problems
// come back as a ConfigurationErrorCollection.
func LoadConfig(configPath string) (RanfeatConfig, error) {
	config := GetDefaultConfig()

	if configPath != "" {
		configFilePath := filepath.Join(configPath, configFileName)
		data, err := os.ReadFile(configFilePath)
		switch {
		case errors.Is(err, os.ErrNotExist):
			logging.Debug("ConfigLoader", "No config.yaml found at %s, using defaults", configFilePath)
		case err != nil:
			return RanfeatConfig{}, fmt.Errorf("error reading config from %s: %w", configFilePath, err)
		default:
			if err := yaml.Unmarshal(data, &config); err != nil {
				return RanfeatConfig{}, &ConfigurationError{
					FilePath:    configFilePath,
					ErrorType:   "parse",
					Message:     "malformed YAML",
					Details:     err.Error(),
					Suggestions: []string{"check indentation and quoting in " + configFileName},
				}
			}
			logging.Debug("ConfigLoader", "Loaded configuration from %s", configFilePath)
		}
	}

	if dir := os.Getenv(EnvSnapshotDir); dir != "" {
		config.Snapshot.Dir = dir
	}

	if errs := Validate(config); errs.HasErrors() {
		for i := range errs.Errors {
			errs.Errors[i].FilePath = filepath.Join(configPath, configFileName)
		}
		return RanfeatConfig{}, errs
	}
	return config, nil
}
