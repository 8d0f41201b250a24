package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Cache struct {
		// Dir overrides both TRITON_CACHE_DIR and the home-directory
		// default when non-empty.
		Dir string `yaml:"dir"`
	} `yaml:"cache"`
	Logger struct {
		Verbosity string `yaml:"verbosity"`
	} `yaml:"logger"`
	Device struct {
		Index int `yaml:"index"`
	} `yaml:"device"`
	Metrics struct {
		ListenAddress string `yaml:"listenAddress"`
	} `yaml:"metrics"`
	Launch struct {
		// Tolerance is the maximum absolute elementwise difference
		// allowed when verifying a device result against the CPU
		// expectation.
		Tolerance float64 `yaml:"tolerance"`
	} `yaml:"launch"`
}

// DefaultConfig returns the configuration used when no config file is
// present on disk.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.Logger.Verbosity = "info"
	cfg.Metrics.ListenAddress = ":9090"
	cfg.Launch.Tolerance = 1e-6
	return cfg
}

// GetDefaultConfigPath returns the standard location of the tritonrun
// config file.
func GetDefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.yaml"
	}
	return filepath.Join(home, ".tritonrun", "config.yaml")
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	config := DefaultConfig()
	err = yaml.Unmarshal(data, config)
	if err != nil {
		return nil, err
	}

	return config, nil
}
