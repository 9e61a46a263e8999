package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const appDir = "optimapped"

// DataDir returns $XDG_DATA_HOME/optimapped, or ~/.local/share/optimapped.
func DataDir() (string, error) {
	return xdgDir("XDG_DATA_HOME", ".local", "share")
}

// StateDir returns $XDG_STATE_HOME/optimapped, or ~/.local/state/optimapped.
func StateDir() (string, error) {
	return xdgDir("XDG_STATE_HOME", ".local", "state")
}

// ConfigDir returns $XDG_CONFIG_HOME/optimapped, or ~/.config/optimapped.
func ConfigDir() (string, error) {
	return xdgDir("XDG_CONFIG_HOME", ".config")
}

// DefaultDBPath returns the SQLite path inside DataDir.
func DefaultDBPath() (string, error) {
	dir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "optimapped.db"), nil
}

// EnsureDir creates the parent directory of path if it doesn't exist.
func EnsureDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0o755)
}

func xdgDir(env string, fallback ...string) (string, error) {
	base := os.Getenv(env)
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		base = filepath.Join(append([]string{home}, fallback...)...)
	}
	return filepath.Join(base, appDir), nil
}
