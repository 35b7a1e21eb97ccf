package engine

import (
	"encoding/json"
	"fmt"
	"os"
)

// Validation bounds for game configurations.
const (
	MinBoardExtent = 16
	MaxBoardExtent = 512
	MinLineLength  = 3
	MaxLineLength  = 32
	MinPlayers     = 2
	MaxPlayers     = 16
	HomeZoneWidth  = 8
	HomeZoneHeight = 2
	DefaultSpawnZ  = 10
)

// Difficulty presets map to the minimum chess-phase dwell time. The dwell
// rule bounds the rate of board-mutating actions per player so fast clickers
// cannot outgrow slower opponents.
var minPhaseTimeByDifficulty = map[string]int{
	"easy":   10000,
	"normal": 5000,
	"hard":   2500,
}

// EnergyConfig governs spawn-energy regeneration and per-shape costs.
type EnergyConfig struct {
	Max             int            `json:"max"`
	RegenRate       int            `json:"regen_rate"`
	RegenIntervalMs int            `json:"regen_interval_ms"`
	CostsByShape    map[string]int `json:"costs_by_shape"`
}

// PauseConfig governs the pause/resume subsystem windows.
type PauseConfig struct {
	DurationMs int `json:"duration_ms"`
	CooldownMs int `json:"cooldown_ms"`
}

// GameConfig is the complete balance and topology configuration for one game.
// Balance constants are configuration, not hard-coded invariants.
type GameConfig struct {
	Name        string `json:"name"`
	Description string `json:"description"`

	// Board extents: coordinates outside [-Extent, Extent] on either axis are
	// rejected, never clamped.
	BoardExtent int `json:"board_extent"`

	// Line clearing.
	LineLength        int `json:"line_length"`
	CollapseThreshold int `json:"collapse_threshold"`

	// Home zones and degradation.
	MaxPlayers            int `json:"max_players"`
	SpawnSpacing          int `json:"spawn_spacing"`
	DegradationIntervalMs int `json:"degradation_interval_ms"`

	// Turn scheduling.
	Difficulty     string `json:"difficulty"`
	MinPhaseTimeMs int    `json:"min_phase_time_ms,omitempty"` // overrides Difficulty when set
	ChessTimeoutMs int    `json:"chess_timeout_ms"`
	OptionalSkip   bool   `json:"optional_skip"`

	// Promotion.
	PromotionThreshold int `json:"promotion_threshold"`
	PromotionGraceMs   int `json:"promotion_grace_ms"`

	Energy EnergyConfig `json:"energy"`
	Pause  PauseConfig  `json:"pause"`
}

// MinPhaseTime returns the effective minimum chess-phase dwell in
// milliseconds, honouring the explicit override before the difficulty preset.
func (c *GameConfig) MinPhaseTime() int {
	if c.MinPhaseTimeMs > 0 {
		return c.MinPhaseTimeMs
	}
	if ms, ok := minPhaseTimeByDifficulty[c.Difficulty]; ok {
		return ms
	}
	return minPhaseTimeByDifficulty["normal"]
}

// ValidateGameConfig validates a game configuration for correctness and
// playability.
func ValidateGameConfig(config *GameConfig) error {
	if config == nil {
		return fmt.Errorf("config validation: config is nil")
	}
	if config.Name == "" {
		return fmt.Errorf("config validation: name is required")
	}
	if config.BoardExtent < MinBoardExtent || config.BoardExtent > MaxBoardExtent {
		return fmt.Errorf("config validation: board_extent must be between %d and %d, got %d",
			MinBoardExtent, MaxBoardExtent, config.BoardExtent)
	}
	if config.LineLength < MinLineLength || config.LineLength > MaxLineLength {
		return fmt.Errorf("config validation: line_length must be between %d and %d, got %d",
			MinLineLength, MaxLineLength, config.LineLength)
	}
	if config.CollapseThreshold <= 0 {
		return fmt.Errorf("config validation: collapse_threshold must be positive, got %d", config.CollapseThreshold)
	}
	if config.MaxPlayers < MinPlayers || config.MaxPlayers > MaxPlayers {
		return fmt.Errorf("config validation: max_players must be between %d and %d, got %d",
			MinPlayers, MaxPlayers, config.MaxPlayers)
	}
	if config.SpawnSpacing < HomeZoneWidth+2 {
		return fmt.Errorf("config validation: spawn_spacing must be at least %d to keep home zones apart, got %d",
			HomeZoneWidth+2, config.SpawnSpacing)
	}
	if (config.MaxPlayers-1)*config.SpawnSpacing+HomeZoneWidth > 2*config.BoardExtent {
		return fmt.Errorf("config validation: %d players at spacing %d do not fit board extent %d",
			config.MaxPlayers, config.SpawnSpacing, config.BoardExtent)
	}
	if config.Difficulty != "" {
		if _, ok := minPhaseTimeByDifficulty[config.Difficulty]; !ok {
			return fmt.Errorf("config validation: unknown difficulty %q (easy, normal, hard)", config.Difficulty)
		}
	}
	if config.MinPhaseTimeMs < 0 {
		return fmt.Errorf("config validation: min_phase_time_ms must not be negative, got %d", config.MinPhaseTimeMs)
	}
	if config.ChessTimeoutMs <= config.MinPhaseTime() {
		return fmt.Errorf("config validation: chess_timeout_ms (%d) must exceed the minimum phase time (%d)",
			config.ChessTimeoutMs, config.MinPhaseTime())
	}
	if config.PromotionThreshold <= 0 {
		return fmt.Errorf("config validation: promotion_threshold must be positive, got %d", config.PromotionThreshold)
	}
	if config.PromotionGraceMs <= 0 {
		return fmt.Errorf("config validation: promotion_grace_ms must be positive, got %d", config.PromotionGraceMs)
	}
	if config.DegradationIntervalMs <= 0 {
		return fmt.Errorf("config validation: degradation_interval_ms must be positive, got %d", config.DegradationIntervalMs)
	}

	if config.Energy.Max <= 0 {
		return fmt.Errorf("config validation: energy.max must be positive, got %d", config.Energy.Max)
	}
	if config.Energy.RegenRate <= 0 {
		return fmt.Errorf("config validation: energy.regen_rate must be positive, got %d", config.Energy.RegenRate)
	}
	if config.Energy.RegenIntervalMs <= 0 {
		return fmt.Errorf("config validation: energy.regen_interval_ms must be positive, got %d", config.Energy.RegenIntervalMs)
	}
	for _, shape := range ShapeNames() {
		cost, ok := config.Energy.CostsByShape[shape]
		if !ok {
			return fmt.Errorf("config validation: energy.costs_by_shape missing shape %q", shape)
		}
		if cost <= 0 || cost > config.Energy.Max {
			return fmt.Errorf("config validation: energy cost for %q must be in [1, %d], got %d",
				shape, config.Energy.Max, cost)
		}
	}
	for shape := range config.Energy.CostsByShape {
		if _, ok := tetrominoShapes[shape]; !ok {
			return fmt.Errorf("config validation: energy.costs_by_shape has unknown shape %q", shape)
		}
	}

	if config.Pause.DurationMs <= 0 {
		return fmt.Errorf("config validation: pause.duration_ms must be positive, got %d", config.Pause.DurationMs)
	}
	if config.Pause.CooldownMs <= 0 {
		return fmt.Errorf("config validation: pause.cooldown_ms must be positive, got %d", config.Pause.CooldownMs)
	}

	return nil
}

// DefaultGameConfig returns the built-in balance defaults. The 8-cell line
// and 8-move promotion threshold mirror the shipped client defaults.
func DefaultGameConfig() *GameConfig {
	return &GameConfig{
		Name:                  "Standard",
		Description:           "Standard board with default balance",
		BoardExtent:           64,
		LineLength:            8,
		CollapseThreshold:     5,
		MaxPlayers:            8,
		SpawnSpacing:          16,
		DegradationIntervalMs: 60000,
		Difficulty:            "normal",
		ChessTimeoutMs:        60000,
		OptionalSkip:          false,
		PromotionThreshold:    8,
		PromotionGraceMs:      15000,
		Energy: EnergyConfig{
			Max:             20,
			RegenRate:       1,
			RegenIntervalMs: 2000,
			CostsByShape: map[string]int{
				"I": 5, "O": 4, "T": 4, "S": 3, "Z": 3, "J": 4, "L": 4,
			},
		},
		Pause: PauseConfig{
			DurationMs: 120000,
			CooldownMs: 300000,
		},
	}
}

// LoadGameConfig loads and validates a game configuration from a JSON file.
func LoadGameConfig(filename string) (*GameConfig, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	var config GameConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", filename, err)
	}

	if err := ValidateGameConfig(&config); err != nil {
		return nil, err
	}
	return &config, nil
}
