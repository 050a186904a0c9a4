package application

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("IOFORGE_CONFIG", "")
	t.Setenv("IOFORGE_DEFAULT_CHANNELS", "")
	t.Setenv("IOFORGE_TAG_PREFIX", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if !reflect.DeepEqual(cfg.CardSizes, []int{32, 16, 8}) {
		t.Fatalf("expected standard card sizes, got %v", cfg.CardSizes)
	}
	if cfg.DefaultChannels != 16 {
		t.Fatalf("expected 16 default channels, got %d", cfg.DefaultChannels)
	}
	if cfg.TagPrefix != "IO" {
		t.Fatalf("expected IO prefix, got %q", cfg.TagPrefix)
	}
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("IOFORGE_CONFIG", "")
	t.Setenv("IOFORGE_DEFAULT_CHANNELS", "32")
	t.Setenv("IOFORGE_TAG_PREFIX", "PT")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.DefaultChannels != 32 || cfg.TagPrefix != "PT" {
		t.Fatalf("expected env overrides, got %+v", cfg)
	}
}

func TestLoadConfigYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ioforge.yaml")
	content := "card_sizes: [16, 8, 4]\ndefault_channels: 8\ntag_prefix: SIG\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("IOFORGE_CONFIG", path)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if !reflect.DeepEqual(cfg.CardSizes, []int{16, 8, 4}) {
		t.Fatalf("expected yaml card sizes, got %v", cfg.CardSizes)
	}
	if cfg.DefaultChannels != 8 || cfg.TagPrefix != "SIG" {
		t.Fatalf("expected yaml overrides, got %+v", cfg)
	}
}

func TestLoadConfigRejectsBadSizes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ioforge.yaml")
	if err := os.WriteFile(path, []byte("card_sizes: [16, 0]\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("IOFORGE_CONFIG", path)

	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected non-positive card size to be rejected")
	}
}
