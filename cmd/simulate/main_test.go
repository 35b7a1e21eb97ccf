package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/tetrachess/server/game/engine"
)

func writeTestConfig(t *testing.T, dir string, mutate func(*engine.GameConfig)) string {
	t.Helper()
	config := engine.DefaultGameConfig()
	if mutate != nil {
		mutate(config)
	}
	data, err := json.Marshal(config)
	if err != nil {
		t.Fatalf("Failed to marshal config: %v", err)
	}
	path := filepath.Join(dir, "test.json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

func TestRunSimulation_Default(t *testing.T) {
	if err := runSimulation("", 5, 2, 1, false); err != nil {
		t.Fatalf("runSimulation failed: %v", err)
	}
}

func TestRunSimulation_CustomConfig(t *testing.T) {
	path := writeTestConfig(t, t.TempDir(), func(c *engine.GameConfig) {
		c.Name = "Sim Test"
		c.BoardExtent = 32
		c.MaxPlayers = 2
		c.SpawnSpacing = 16
	})

	if err := runSimulation(path, 3, 2, 42, false); err != nil {
		t.Fatalf("runSimulation failed: %v", err)
	}
}

func TestRunSimulation_TooManyPlayers(t *testing.T) {
	path := writeTestConfig(t, t.TempDir(), func(c *engine.GameConfig) {
		c.MaxPlayers = 2
		c.BoardExtent = 32
		c.SpawnSpacing = 16
	})

	if err := runSimulation(path, 1, 5, 1, false); err == nil {
		t.Error("Expected error for players above config maximum")
	}
}

func TestRunSimulation_InvalidConfigPath(t *testing.T) {
	if err := runSimulation("/non/existent/config.json", 1, 2, 1, false); err == nil {
		t.Error("Expected error for missing config file")
	}
}

func TestAnalyzeConfigs(t *testing.T) {
	dir := t.TempDir()
	writeTestConfig(t, dir, nil)

	if err := analyzeConfigs(dir); err != nil {
		t.Fatalf("analyzeConfigs failed: %v", err)
	}
}

func TestAnalyzeConfigs_EmptyDir(t *testing.T) {
	if err := analyzeConfigs(t.TempDir()); err == nil {
		t.Error("Expected error for directory without configs")
	}
}

func TestAnalyzeConfigs_SkipsInvalid(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{not json"), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	// Invalid files are reported, not fatal.
	if err := analyzeConfigs(dir); err != nil {
		t.Fatalf("analyzeConfigs failed on invalid file: %v", err)
	}
}
