package sources

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultThreshold = 80
)

// Load reads the sources document from path. The file is re-read for every
// fetch/match cycle so edits take effect without a restart.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read sources file: %w", err)
	}

	// Pre-populate defaults that yaml only overrides when present
	config := Config{
		Settings: Settings{
			Threshold:        DefaultThreshold,
			PreserveExisting: true,
		},
	}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse sources file: %w", err)
	}

	clampSettings(&config)

	return &config, nil
}

func clampSettings(config *Config) {
	if config.Settings.Threshold < 0 {
		config.Settings.Threshold = 0
	}
	if config.Settings.Threshold > 100 {
		config.Settings.Threshold = 100
	}
}
