package config

// Default returns a Config populated with sensible defaults.
func Default() *Config {
	return &Config{
		Export: ExportConfig{
			Tier:         "tier-b",
			TargetFormat: "cdj-hardware",
			KeyNotation:  "open-key",
		},
		Progress: ProgressConfig{
			ChannelSize: 64,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// ApplyDefaults fills in zero values with sensible defaults.
func (c *Config) ApplyDefaults() {
	d := Default()

	if c.Export.Tier == "" {
		c.Export.Tier = d.Export.Tier
	}
	if c.Export.TargetFormat == "" {
		c.Export.TargetFormat = d.Export.TargetFormat
	}
	if c.Export.KeyNotation == "" {
		c.Export.KeyNotation = d.Export.KeyNotation
	}

	if c.Progress.ChannelSize == 0 {
		c.Progress.ChannelSize = d.Progress.ChannelSize
	}

	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
}
