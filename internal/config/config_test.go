package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want info", cfg.LogLevel)
	}
	if cfg.Comment != "geodat" {
		t.Errorf("Comment = %q, want geodat", cfg.Comment)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "geodat.yaml")
	yaml := "log_level: debug\ncomment: testbuild\nstrict_segments: true\n"
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.LogLevel != "debug" || cfg.Comment != "testbuild" || !cfg.StrictSegments {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	if _, err := LoadFromFile("/nonexistent/geodat.yaml"); err == nil {
		t.Error("expected an error for a missing config file")
	}
}

func TestValidateRejectsBadLogLevel(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LogLevel = "verbose"
	if err := cfg.Validate(); err == nil {
		t.Error("expected an error for an invalid log level")
	}
}

func TestValidateRejectsEmptyComment(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Comment = ""
	if err := cfg.Validate(); err == nil {
		t.Error("expected an error for an empty comment")
	}
}
