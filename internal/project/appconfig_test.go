package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/DenisPitsul/PackingBlocks/internal/model"
)

func TestSaveAndLoadAppConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	cfg := model.DefaultAppConfig()
	cfg.DefaultTagStyle = model.TagStyleUUID
	cfg.DefaultSeed = 42
	cfg.LogLevel = "debug"
	cfg.RecentJobs = []string{"/tmp/a.yaml", "/tmp/b.json"}

	if err := SaveAppConfig(path, cfg); err != nil {
		t.Fatalf("SaveAppConfig failed: %v", err)
	}

	loaded, err := LoadAppConfig(path)
	if err != nil {
		t.Fatalf("LoadAppConfig failed: %v", err)
	}

	if loaded.DefaultTagStyle != model.TagStyleUUID {
		t.Errorf("expected tag style uuid, got %s", loaded.DefaultTagStyle)
	}
	if loaded.DefaultSeed != 42 {
		t.Errorf("expected seed 42, got %d", loaded.DefaultSeed)
	}
	if loaded.LogLevel != "debug" {
		t.Errorf("expected log level debug, got %s", loaded.LogLevel)
	}
	if len(loaded.RecentJobs) != 2 {
		t.Errorf("expected 2 recent jobs, got %d", len(loaded.RecentJobs))
	}
}

func TestLoadAppConfigMissingFile(t *testing.T) {
	loaded, err := LoadAppConfig(filepath.Join(t.TempDir(), "missing.json"))
	if err != nil {
		t.Fatalf("expected no error for missing file, got %v", err)
	}
	if loaded.DefaultWidth != 500 || loaded.DefaultHeight != 500 {
		t.Errorf("expected default container 500x500, got %gx%g", loaded.DefaultWidth, loaded.DefaultHeight)
	}
}

func TestLoadAppConfigInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadAppConfig(path); err == nil {
		t.Error("expected error for invalid JSON")
	}
}

func TestLoadAppConfigCommentsAndPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	data := []byte(`{
  // louder logs while debugging
  "log_level": "warn",
}`)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	loaded, err := LoadAppConfig(path)
	if err != nil {
		t.Fatalf("LoadAppConfig failed: %v", err)
	}
	if loaded.LogLevel != "warn" {
		t.Errorf("expected log level warn, got %s", loaded.LogLevel)
	}
	if loaded.LogFormat != "console" {
		t.Errorf("missing fields should keep defaults, got log format %q", loaded.LogFormat)
	}
	if loaded.RecentJobs == nil {
		t.Error("RecentJobs must never be nil")
	}
}

func TestSaveAppConfigCreatesDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "config.json")
	if err := SaveAppConfig(path, model.DefaultAppConfig()); err != nil {
		t.Fatalf("SaveAppConfig failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("config file was not created: %v", err)
	}
}

func TestDefaultConfigPath(t *testing.T) {
	if filepath.Base(DefaultConfigPath()) != "config.json" {
		t.Errorf("unexpected config path %s", DefaultConfigPath())
	}
	if filepath.Base(DefaultConfigDir()) != ".packblocks" {
		t.Errorf("unexpected config dir %s", DefaultConfigDir())
	}
}
