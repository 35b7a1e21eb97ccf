// Package config provides configuration management for the TetraChess server.
//
// The config package handles:
//   - Loading game balance configurations from JSON files
//   - Configuration validation and caching
//   - Default configuration management
//   - Configuration discovery and listing
//   - Server runtime tuning from tuning.yaml
//
// Configuration Format:
//
// Game configurations are stored as JSON files in the configs directory.
// Each configuration defines:
//   - Board extent and line-clear length
//   - Home zone spacing, degradation interval and collapse threshold
//   - Turn scheduling (difficulty preset or explicit dwell, chess timeout)
//   - Energy regeneration and per-shape placement costs
//   - Pause duration and cooldown windows
//
// Runtime tuning (sweep cadence, session lifetimes, snapshot cadence) is a
// separate concern from game balance and lives in tuning.yaml.
//
// Usage:
//
//	manager, err := config.NewManager("configs")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Load specific configuration
//	gameConfig, err := manager.LoadConfig("blitz")
//
//	// Get default configuration
//	defaultConfig := manager.GetDefault()
//
//	// List available configurations
//	configs, err := manager.ListConfigs()
package config
