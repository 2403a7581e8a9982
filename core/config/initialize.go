package config

import (
	"log"
	"path/filepath"

	"github.com/spf13/afero"
)

// Initialize writes the default configuration into the directory. Existing
// files are left alone so re-running is safe.
func Initialize(fsys afero.Fs, path string, logger *log.Logger) error {
	dest := filepath.Join(path, ConfigurationName)

	exists, err := afero.Exists(fsys, dest)
	if err != nil {
		return err
	}
	if exists {
		logger.Printf("%s already exists, skipping", dest)
		return nil
	}

	logger.Printf("writing %s", dest)
	if err := fsys.MkdirAll(path, 0755); err != nil {
		return err
	}
	return afero.WriteFile(fsys, dest, defaultConfigData, 0644)
}
