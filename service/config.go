package service

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config enumerates per-dataset input and destination paths.
type Config struct {
	Store    StoreConfig              `yaml:"store"`
	Datasets map[string]DatasetConfig `yaml:"datasets"`
}

// StoreConfig defines destination settings. Dir is the directory destination
// databases default into (<dir>/<dataset>.db) when a dataset sets no db.
type StoreConfig struct {
	Dir string `yaml:"dir"`
}

// DatasetConfig defines one dataset's input location and optional overrides.
type DatasetConfig struct {
	Path        string `yaml:"path"`
	DB          string `yaml:"db"`
	Description string `yaml:"description"`
}

// LoadConfig reads and expands a YAML configuration file.
func LoadConfig(path string) (*Config, error) {
	path, err := expandUserPath(path)
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, err
	}
	if cfg.Store.Dir != "" {
		if cfg.Store.Dir, err = expandUserPath(cfg.Store.Dir); err != nil {
			return nil, err
		}
	}
	for name, ds := range cfg.Datasets {
		if ds.Path != "" {
			if ds.Path, err = expandUserPath(ds.Path); err != nil {
				return nil, err
			}
		}
		if ds.DB != "" {
			if ds.DB, err = expandUserPath(ds.DB); err != nil {
				return nil, err
			}
		}
		cfg.Datasets[name] = ds
	}
	return &cfg, nil
}

func expandUserPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" || trimmed[0] != '~' {
		return path, nil
	}
	if trimmed != "~" && !strings.HasPrefix(trimmed, "~/") {
		return "", fmt.Errorf("config: unsupported ~user path: %s", path)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	if trimmed == "~" {
		return home, nil
	}
	return filepath.Join(home, trimmed[2:]), nil
}
