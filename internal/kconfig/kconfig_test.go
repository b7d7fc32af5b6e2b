package kconfig

import (
	"encoding/json"
	"os"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.PageSize != 4096 {
		t.Errorf("expected page size 4096, got %d", cfg.PageSize)
	}
	if cfg.TotalPhysicalFrames != 1024 {
		t.Errorf("expected 1024 frames, got %d", cfg.TotalPhysicalFrames)
	}
	if cfg.SchedulerAlgorithm != "round-robin" {
		t.Errorf("expected round-robin, got %s", cfg.SchedulerAlgorithm)
	}
}

func TestLoad(t *testing.T) {
	tempFile, err := os.CreateTemp("", "kernelsim-config")
	if err != nil {
		t.Fatalf("failed to create temporary file: %v", err)
	}
	defer os.Remove(tempFile.Name())

	json.NewEncoder(tempFile).Encode(map[string]any{
		"scheduler_algorithm": "priority",
		"heap_arena_size":     2048,
	})
	tempFile.Seek(0, 0)

	cfg := Default()
	if err := Load(tempFile.Name(), &cfg); err != nil {
		t.Errorf("expected no error, got: %v", err)
	}

	if cfg.SchedulerAlgorithm != "priority" {
		t.Errorf("expected priority, got %s", cfg.SchedulerAlgorithm)
	}
	if cfg.HeapArenaSize != 2048 {
		t.Errorf("expected 2048, got %d", cfg.HeapArenaSize)
	}
	if cfg.PageSize != 4096 {
		t.Errorf("expected untouched default page size 4096, got %d", cfg.PageSize)
	}
}

func TestLoad_ThrowError(t *testing.T) {
	cfg := Default()
	err := Load("nonexistent.json", &cfg)
	if err == nil {
		t.Error("expected error for non-existent file, got nil")
	}
}
