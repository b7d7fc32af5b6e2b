// Package kconfig loads the simulator's tunables from a JSON file, falling
// back to sensible constants when no file is supplied.
package kconfig

import (
	"encoding/json"
	"os"
)

// Config holds the simulator's tunables. kernel.New applies
// SchedulerAlgorithm, TotalPhysicalFrames and HeapArenaSize; PageSize,
// TimeQuantumMs and MaxMessageSize are loaded but not applied, since the
// subsystems use their own fixed constants for those.
type Config struct {
	PageSize            int    `json:"page_size"`
	TotalPhysicalFrames int    `json:"total_physical_frames"`
	TimeQuantumMs       int    `json:"time_quantum_ms"`
	MaxMessageSize      int    `json:"max_message_size"`
	HeapArenaSize       int    `json:"heap_arena_size"`
	SchedulerAlgorithm  string `json:"scheduler_algorithm"`
	LogLevel            string `json:"log_level"`
	LogPath             string `json:"log_path"`
}

// Default returns the kernel's standard tunable constants: page size,
// physical frame count, time quantum, max message size and heap arena size.
func Default() Config {
	return Config{
		PageSize:            4096,
		TotalPhysicalFrames: 1024,
		TimeQuantumMs:       100,
		MaxMessageSize:      4096,
		HeapArenaSize:       1 << 20,
		SchedulerAlgorithm:  "round-robin",
		LogLevel:            "INFO",
		LogPath:             "kernel.log",
	}
}

// Load reads filePath and decodes it over the default config, so a partial
// JSON file only overrides the fields it names.
//
// Example:
//
//	cfg := kconfig.Default()
//	if err := kconfig.Load("./kernelsim.json", &cfg); err != nil {
//		panic(err)
//	}
func Load(filePath string, config *Config) error {
	file, err := os.Open(filePath)
	if err != nil {
		return err
	}
	defer file.Close()

	return json.NewDecoder(file).Decode(config)
}
