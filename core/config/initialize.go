package config

import (
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// Initialize writes the default configuration into dir, creating the
// directory if needed. An existing config file is kept as-is.
func Initialize(dir string, logger *log.Logger) (*Configuration, error) {
	fsys := afero.NewOsFs()
	if err := fsys.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	configPath := filepath.Join(dir, ConfigurationName)
	switch _, err := fsys.Stat(configPath); {
	case err == nil:
		logger.Printf("config already exists, skipping: %s", configPath)
	case os.IsNotExist(err):
		if err := afero.WriteFile(fsys, configPath, defaultConfigData, 0644); err != nil {
			return nil, err
		}
		logger.Printf("wrote default config: %s", configPath)
	default:
		return nil, err
	}

	return Load(dir)
}
