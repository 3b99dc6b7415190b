package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"
)

// Load reads configuration from standard locations with environment overrides.
// Search order: ~/.crateportrc, then $XDG_CONFIG_HOME/crateport/config.toml
// (~/.config/crateport/config.toml when XDG_CONFIG_HOME is unset).
func Load() (*Config, error) {
	cfg := &Config{}

	path := findConfigFile()
	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, err
		}
	}

	cfg.ApplyDefaults()
	applyEnvOverrides(cfg)

	return cfg, nil
}

// LoadFrom reads configuration from a specific file path.
func LoadFrom(path string) (*Config, error) {
	cfg := &Config{}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	applyEnvOverrides(cfg)
	return cfg, nil
}

// findConfigFile returns the first existing config file path.
func findConfigFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	paths := []string{
		filepath.Join(home, ".crateportrc"),
	}

	xdgConfig := os.Getenv("XDG_CONFIG_HOME")
	if xdgConfig == "" {
		xdgConfig = filepath.Join(home, ".config")
	}
	paths = append(paths, filepath.Join(xdgConfig, "crateport", "config.toml"))

	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}

// applyEnvOverrides applies environment variable overrides to the config.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("CRATEPORT_COLLECTION_SOURCE_PATH"); v != "" {
		cfg.Collection.SourcePath = v
	}
	if v := os.Getenv("CRATEPORT_COLLECTION_MUSIC_ROOT"); v != "" {
		cfg.Collection.MusicRoot = v
	}

	if v := os.Getenv("CRATEPORT_EXPORT_TIER"); v != "" {
		cfg.Export.Tier = v
	}
	if v := os.Getenv("CRATEPORT_EXPORT_TARGET_FORMAT"); v != "" {
		cfg.Export.TargetFormat = v
	}
	if v := os.Getenv("CRATEPORT_EXPORT_KEY_NOTATION"); v != "" {
		cfg.Export.KeyNotation = v
	}
	if v := os.Getenv("CRATEPORT_EXPORT_COPY_AUDIO"); v != "" {
		cfg.Export.CopyAudio = v == "1" || v == "true"
	}
	if v := os.Getenv("CRATEPORT_EXPORT_VERIFY_COPY"); v != "" {
		cfg.Export.VerifyCopy = v == "1" || v == "true"
	}
	if v := os.Getenv("CRATEPORT_EXPORT_OVERWRITE"); v != "" {
		cfg.Export.Overwrite = v == "1" || v == "true"
	}

	if v := os.Getenv("CRATEPORT_PROGRESS_CHANNEL_SIZE"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			cfg.Progress.ChannelSize = i
		}
	}

	if v := os.Getenv("CRATEPORT_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("CRATEPORT_LOG_FILE"); v != "" {
		cfg.Log.File = v
	}
}
