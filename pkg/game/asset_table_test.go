package game

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/gonewx/combatfx/pkg/config"
)

func TestLoadAssetTableMissingFilesUseDefaults(t *testing.T) {
	dir := t.TempDir()
	table, err := LoadAssetTable(config.AssetsConfig{
		EffectsPath: filepath.Join(dir, "effects.yaml"),
		MovesPath:   filepath.Join(dir, "moves.yaml"),
	}, nil)
	if err != nil {
		t.Fatalf("missing files should not fail: %v", err)
	}
	if _, ok := table.Recipes.Lookup(config.EffectVolley); !ok {
		t.Error("built-in volley recipe missing")
	}
	if _, err := table.Moves.Lookup(config.MoveDash); err != nil {
		t.Errorf("built-in dash move missing: %v", err)
	}
}

func TestLoadAssetTableOverrides(t *testing.T) {
	dir := t.TempDir()
	moves := filepath.Join(dir, "moves.yaml")
	if err := os.WriteFile(moves, []byte("moves:\n  wolf_bite:\n    duration: 1.5\n    speed: 12\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	table, err := LoadAssetTable(config.AssetsConfig{MovesPath: moves}, nil)
	if err != nil {
		t.Fatalf("LoadAssetTable() error: %v", err)
	}
	spec, err := table.Moves.Lookup(config.MoveWolfBite)
	if err != nil || spec.Duration != 1.5 {
		t.Errorf("override not applied: %+v, %v", spec, err)
	}
}

func TestLoadAssetTableRejectsUnknownMove(t *testing.T) {
	dir := t.TempDir()
	moves := filepath.Join(dir, "moves.yaml")
	if err := os.WriteFile(moves, []byte("moves:\n  moonwalk:\n    duration: 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadAssetTable(config.AssetsConfig{MovesPath: moves}, nil)
	if !errors.Is(err, config.ErrUnknownMove) {
		t.Errorf("expected ErrUnknownMove, got %v", err)
	}
}
