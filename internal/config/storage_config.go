package config

import (
	"os"
	"path/filepath"
)

const stateDirVar = "LANKACONNECT_STATE_DIR"

type StorageConfig interface {
	GetStateDir() string
}

type Storage struct {
	sources
}

var _ StorageConfig = Storage{}

// GetStateDir is where the persisted session lives. Defaults to $XDG_CONFIG_HOME/lankaconnect.
func (s Storage) GetStateDir() string {
	return s.resolve(s.overrides.StateDir, stateDirVar, s.file.StateDir, defaultStateDir())
}

func defaultStateDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".", ".lankaconnect")
	}
	return filepath.Join(dir, "lankaconnect")
}
