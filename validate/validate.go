// Command validate provides a small CLI that validates game configuration JSON
// files in the ../configs directory. It checks:
//   - JSON structure and balance constraints via the engine validator
//   - Spawn capacity: how many home zones actually fit the board extent
//   - Energy affordability: every shape is placeable at full energy, and the
//     regeneration rate keeps a stalled player from being locked out forever
//   - Pacing: pause duration versus cooldown, and dwell versus chess timeout
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tetrachess/server/game/engine"
)

// ValidationResult captures the outcome of validating a single file.
// If Valid is true, Errors contains informational messages; otherwise it
// accumulates the validation errors that were found.
type ValidationResult struct {
	File   string
	Valid  bool
	Errors []string
}

// validateConfig loads one configuration file through the engine validator
// and layers the playability checks on top.
func validateConfig(filePath string) ValidationResult {
	result := ValidationResult{
		File:   filepath.Base(filePath),
		Valid:  true,
		Errors: []string{},
	}

	config, err := engine.LoadGameConfig(filePath)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, err.Error())
		return result
	}

	// Spawn capacity: the engine validator guarantees MaxPlayers fit, but
	// report the headroom so balance changes are easy to eyeball.
	capacity := spawnCapacity(config)
	if capacity < config.MaxPlayers {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf(
			"Spawn capacity %d is below max_players %d", capacity, config.MaxPlayers))
	}

	// Energy affordability: the cheapest shape must be regainable within one
	// pause cooldown, otherwise an empty player can be starved indefinitely.
	cheapest, cheapestShape := cheapestShapeCost(config)
	regenPerCooldown := config.Energy.RegenRate * (config.Pause.CooldownMs / config.Energy.RegenIntervalMs)
	if regenPerCooldown < cheapest {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf(
			"Energy regen over one cooldown (%d) cannot afford the cheapest shape %s (%d)",
			regenPerCooldown, cheapestShape, cheapest))
	}

	// Pacing sanity: a pause shorter than the dwell time is useless.
	if config.Pause.DurationMs < config.MinPhaseTime() {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf(
			"pause.duration_ms (%d) is shorter than the minimum phase time (%d)",
			config.Pause.DurationMs, config.MinPhaseTime()))
	}

	// Line length must fit inside a home zone's neighbourhood, or early-game
	// clears are unreachable.
	if config.LineLength > 2*config.BoardExtent+1 {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf(
			"line_length %d exceeds the board span %d", config.LineLength, 2*config.BoardExtent+1))
	}

	if result.Valid {
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Name: %s", config.Name))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Board: ±%d, line length %d", config.BoardExtent, config.LineLength))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Players: up to %d (capacity %d) at spacing %d",
			config.MaxPlayers, capacity, config.SpawnSpacing))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Dwell: %dms, chess timeout %dms", config.MinPhaseTime(), config.ChessTimeoutMs))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Energy: max %d, +%d/%dms", config.Energy.Max,
			config.Energy.RegenRate, config.Energy.RegenIntervalMs))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Pause: %dms, cooldown %dms", config.Pause.DurationMs, config.Pause.CooldownMs))
	}

	return result
}

// spawnCapacity computes how many home zones fit along the spawn row at the
// configured spacing.
func spawnCapacity(config *engine.GameConfig) int {
	span := 2 * config.BoardExtent
	if config.SpawnSpacing <= 0 {
		return 0
	}
	return (span-engine.HomeZoneWidth)/config.SpawnSpacing + 1
}

// cheapestShapeCost returns the lowest energy cost across all shapes and the
// shape that carries it.
func cheapestShapeCost(config *engine.GameConfig) (int, string) {
	cheapest := 0
	shape := ""
	for _, name := range engine.ShapeNames() {
		cost := config.Energy.CostsByShape[name]
		if shape == "" || cost < cheapest {
			cheapest = cost
			shape = name
		}
	}
	return cheapest, shape
}

// main scans ../configs for *.json files and validates each one, printing a
// concise report and exiting with non-zero status if any are invalid.
func main() {
	configDir := "../configs"
	if len(os.Args) > 1 {
		configDir = os.Args[1]
	}

	files, err := filepath.Glob(filepath.Join(configDir, "*.json"))
	if err != nil {
		fmt.Printf("Error finding config files: %v\n", err)
		os.Exit(1)
	}

	allValid := true
	for _, file := range files {
		result := validateConfig(file)

		fmt.Printf("\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Println("✅ VALID")
			for _, info := range result.Errors {
				fmt.Println("  " + info)
			}
		} else {
			fmt.Println("❌ INVALID")
			allValid = false
			for _, err := range result.Errors {
				if !strings.HasPrefix(err, "✓") {
					fmt.Println("  ❌ " + err)
				}
			}
		}
	}

	fmt.Printf("\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Println("✅ All configurations are valid!")
	} else {
		fmt.Println("❌ Some configurations have errors")
		os.Exit(1)
	}
}
