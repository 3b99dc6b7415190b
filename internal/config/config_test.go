package config

import "testing"

func TestApplyDefaultsFillsZeroValues(t *testing.T) {
	cfg := &Config{}
	cfg.ApplyDefaults()

	if cfg.Export.Tier != "tier-b" {
		t.Fatalf("expected default tier tier-b, got %q", cfg.Export.Tier)
	}
	if cfg.Export.TargetFormat != "cdj-hardware" {
		t.Fatalf("expected default target_format cdj-hardware, got %q", cfg.Export.TargetFormat)
	}
	if cfg.Progress.ChannelSize != 64 {
		t.Fatalf("expected default channel_size 64, got %d", cfg.Progress.ChannelSize)
	}
	if cfg.Log.Level != "info" {
		t.Fatalf("expected default log level info, got %q", cfg.Log.Level)
	}
}

func TestApplyDefaultsPreservesExplicitValues(t *testing.T) {
	cfg := &Config{Export: ExportConfig{Tier: "tier-c"}}
	cfg.ApplyDefaults()

	if cfg.Export.Tier != "tier-c" {
		t.Fatalf("expected explicit tier-c to survive, got %q", cfg.Export.Tier)
	}
}

func TestValidateRejectsUnknownTier(t *testing.T) {
	cfg := Default()
	cfg.Export.Tier = "tier-z"
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected an error for an unknown tier")
	}
}

func TestValidateAcceptsDefaults(t *testing.T) {
	cfg := Default()
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected defaults to validate cleanly, got %v", err)
	}
}

func TestValidateRejectsNegativeChannelSize(t *testing.T) {
	cfg := Default()
	cfg.Progress.ChannelSize = -1
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected an error for a negative channel_size")
	}
}
