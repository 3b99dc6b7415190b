package config

// Config is the root configuration structure.
type Config struct {
	Collection CollectionConfig `toml:"collection"`
	Export     ExportConfig     `toml:"export"`
	Progress   ProgressConfig   `toml:"progress"`
	Log        LogConfig        `toml:"log"`
}

// CollectionConfig holds settings for locating the source collection.
type CollectionConfig struct {
	SourcePath string `toml:"source_path"`
	MusicRoot  string `toml:"music_root"`
}

// ExportConfig holds default conversion settings (spec.md §6 flags).
type ExportConfig struct {
	Tier         string `toml:"tier"`
	TargetFormat string `toml:"target_format"`
	CopyAudio    bool   `toml:"copy_audio"`
	VerifyCopy   bool   `toml:"verify_copy"`
	KeyNotation  string `toml:"key_notation"`
	Overwrite    bool   `toml:"overwrite"`
}

// ProgressConfig holds settings for the progress event transport (§5
// "Backpressure").
type ProgressConfig struct {
	ChannelSize int `toml:"channel_size"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}
