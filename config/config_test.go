package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "aspellgo.toml")
	body := "lang = \"fr\"\nsug-mode = \"slow\"\nrun-together = true\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Lang != "fr" {
		t.Fatalf("Lang = %q, want fr", cfg.Lang)
	}
	if cfg.SugMode != "slow" {
		t.Fatalf("SugMode = %q, want slow", cfg.SugMode)
	}
	if !cfg.RunTogether {
		t.Fatalf("RunTogether = false, want true")
	}
	// Untouched keys should retain their default.
	if cfg.RunTogetherLimit != 8 {
		t.Fatalf("RunTogetherLimit = %d, want default 8", cfg.RunTogetherLimit)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Fatalf("expected an error for a missing config file")
	}
}

func TestSpellerConfigProjection(t *testing.T) {
	cfg := Default()
	cfg.RunTogether = true
	sc := cfg.SpellerConfig()
	if !sc.RunTogether || sc.RunTogetherLimit != cfg.RunTogetherLimit {
		t.Fatalf("SpellerConfig() = %+v, want RunTogether carried over", sc)
	}
}
