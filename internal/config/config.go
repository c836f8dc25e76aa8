package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mondohq/mondo/internal/paths"
	"github.com/spf13/viper"
)

// Config is the root Mondo configuration.
type Config struct {
	AniList AniListConfig `mapstructure:"anilist"`
	Player  PlayerConfig  `mapstructure:"player"`
	Library LibraryConfig `mapstructure:"library"`
	API     APIConfig     `mapstructure:"api"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// AniListConfig contains the remote tracking service settings.
type AniListConfig struct {
	Username string `mapstructure:"username"`
	Token    string `mapstructure:"token"`
	Endpoint string `mapstructure:"endpoint"`
}

// PlayerConfig controls how episodes are launched.
type PlayerConfig struct {
	Command string   `mapstructure:"command"`
	Args    []string `mapstructure:"args"`
}

// LibraryConfig contains local-folder matching settings.
type LibraryConfig struct {
	// MatchThreshold is the minimum similarity rating a folder or file name
	// must exceed to be associated with a tracked media entry.
	MatchThreshold float64 `mapstructure:"match_threshold"`
}

// APIConfig configures the local HTTP surface used by the desktop shell.
type APIConfig struct {
	Addr           string   `mapstructure:"addr"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		AniList: AniListConfig{
			Username: "",
			Token:    "",
			Endpoint: "https://graphql.anilist.co",
		},
		Player: PlayerConfig{
			Command: "mpv",
			Args:    []string{},
		},
		Library: LibraryConfig{
			MatchThreshold: 0.5,
		},
		API: APIConfig{
			Addr:           "127.0.0.1:8475",
			AllowedOrigins: []string{"http://localhost:3000"},
		},
		Logging: LoggingConfig{
			Level:      "info",
			File:       "",
			MaxSizeMB:  10,
			MaxBackups: 5,
		},
	}
}

// Load loads configuration from file or returns defaults
func Load() (*Config, error) {
	v := viper.New()

	configPath, err := paths.ConfigPath()
	if err != nil {
		return nil, fmt.Errorf("unable to get config path: %w", err)
	}
	v.SetConfigFile(configPath)

	if _, err := os.Stat(configPath); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("unable to read config file: %w", err)
		}
	}

	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unable to unmarshal config: %w", err)
	}

	return cfg, nil
}

// Save saves configuration to file
func (c *Config) Save() error {
	configFile, err := paths.ConfigPath()
	if err != nil {
		return err
	}

	configDir := filepath.Dir(configFile)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("unable to create config dir: %w", err)
	}

	return os.WriteFile(configFile, []byte(c.ToTOML()), 0644)
}

// ConfigExists reports whether a config file is present on disk.
func ConfigExists() bool {
	path, err := paths.ConfigPath()
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}

// ToTOML renders the configuration as a commented TOML document.
func (c *Config) ToTOML() string {
	return fmt.Sprintf(`# Mondo Configuration
# Generated by: mondo config init

# ============================================================================
# ANILIST
# Username is required to pull your list; token is required to push progress.
# Get a token from: https://anilist.co/settings/developer
# ============================================================================
[anilist]
username = "%s"
token = "%s"
endpoint = "%s"

# ============================================================================
# PLAYER
# External player used to play resolved episode files.
# ============================================================================
[player]
command = "%s"
args = %s

# ============================================================================
# LIBRARY MATCHING
# ============================================================================
[library]
# Folder/file names must beat this similarity rating to be matched
match_threshold = %.2f

# ============================================================================
# LOCAL API
# Address the desktop shell connects to.
# ============================================================================
[api]
addr = "%s"
allowed_origins = %s

# ============================================================================
# LOGGING
# ============================================================================
[logging]
level = "%s"
file = "%s"
max_size_mb = %d
max_backups = %d
`,
		c.AniList.Username,
		c.AniList.Token,
		c.AniList.Endpoint,
		c.Player.Command,
		formatStringSlice(c.Player.Args),
		c.Library.MatchThreshold,
		c.API.Addr,
		formatStringSlice(c.API.AllowedOrigins),
		c.Logging.Level,
		c.Logging.File,
		c.Logging.MaxSizeMB,
		c.Logging.MaxBackups,
	)
}

func formatStringSlice(s []string) string {
	if len(s) == 0 {
		return "[]"
	}
	quoted := make([]string, len(s))
	for i, v := range s {
		quoted[i] = fmt.Sprintf("%q", v)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}
