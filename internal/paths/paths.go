// Package paths resolves the on-disk locations Mondo uses for its
// configuration, persisted state and logs.
//
// Everything lives under ~/.config/mondo so the CLI, the daemon and the
// desktop shell agree on where state is kept.
package paths

import (
	"os"
	"path/filepath"
)

// UserConfigDir returns the base config directory (~/.config on Linux).
func UserConfigDir() (string, error) {
	return os.UserConfigDir()
}

// MondoDir returns the Mondo config directory, ~/.config/mondo.
func MondoDir() (string, error) {
	configDir, err := UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "mondo"), nil
}

// ConfigPath returns the path to the Mondo config file.
// This is ~/.config/mondo/config.toml.
func ConfigPath() (string, error) {
	dir, err := MondoDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// AnimeFoldersPath returns the path of the persisted folder store.
// This is ~/.config/mondo/anime-files.json.
func AnimeFoldersPath() (string, error) {
	dir, err := MondoDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "anime-files.json"), nil
}

// ListCachePath returns the path of the anime-list cache database.
// This is ~/.config/mondo/anime-list.db.
func ListCachePath() (string, error) {
	dir, err := MondoDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "anime-list.db"), nil
}

// LogPath returns the default log file path, ~/.config/mondo/logs/mondo.log.
func LogPath() (string, error) {
	dir, err := MondoDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "logs", "mondo.log"), nil
}
