package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rpkg.toml")
	body := `
[Mount]
RuntimeDirectory = "/opt/game/runtime"
FailOnCyclicParents = false

[References]
UseLegacyLayout = true
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Mount.RuntimeDirectory != "/opt/game/runtime" {
		t.Errorf("RuntimeDirectory = %q", cfg.Mount.RuntimeDirectory)
	}
	if cfg.Mount.FailOnCyclicParents {
		t.Errorf("FailOnCyclicParents should be overridden to false")
	}
	if !cfg.References.UseLegacyLayout {
		t.Errorf("UseLegacyLayout should be true")
	}
}

func TestLoadMissingFileReturnsDefault(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(filepath.Join(dir, "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg != Default() {
		t.Errorf("Load() of a missing file = %+v, want Default() = %+v", cfg, Default())
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if !cfg.Mount.FailOnCyclicParents {
		t.Errorf("Default() should fail on cyclic parents")
	}
}
