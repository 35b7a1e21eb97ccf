package service

import (
	"time"

	"github.com/tetrachess/server/game/engine"
)

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID             string               `json:"id"`
	ConfigName     string               `json:"config_name"`
	CreatedAt      time.Time            `json:"created_at"`
	LastAccessedAt time.Time            `json:"last_accessed_at"`
	GameState      *engine.GameSnapshot `json:"game_state"`
	GameConfig     *engine.GameConfig   `json:"game_config"`
}

// TetrominoPlacement is one requested tetromino drop.
type TetrominoPlacement struct {
	Shape    string `json:"shape"`
	Rotation int    `json:"rotation"`
	X        int    `json:"x"`
	Y        int    `json:"y"`
}

// JoinResult is returned when a player takes a seat in a session.
type JoinResult struct {
	PlayerID  string               `json:"player_id"`
	GameState *engine.GameSnapshot `json:"game_state"`
}

// PlaceResult contains the committed outcome of a tetromino placement.
type PlaceResult struct {
	Outcome   engine.TetrominoOutcome `json:"outcome"`
	Cells     []engine.Coord          `json:"cells,omitempty"`
	Cleared   []engine.ClearGroup     `json:"cleared,omitempty"`
	Energy    int                     `json:"energy"`
	GameState *engine.GameSnapshot    `json:"game_state"`
}

// MoveOutcome contains the committed outcome of a chess move.
type MoveOutcome struct {
	Piece     engine.Piece         `json:"piece"`
	Captured  *engine.Piece        `json:"captured,omitempty"`
	GameState *engine.GameSnapshot `json:"game_state"`
}

// ActionResult is the generic response for actions whose only payload is the
// refreshed game state (promotion, skip).
type ActionResult struct {
	GameState *engine.GameSnapshot `json:"game_state"`
}

// PauseOutcome reports an accepted pause request.
type PauseOutcome struct {
	ExpiresAt time.Time            `json:"expires_at"`
	GameState *engine.GameSnapshot `json:"game_state"`
}

// ResumeOutcome reports a resume and the cooldown it started.
type ResumeOutcome struct {
	CooldownUntil time.Time            `json:"cooldown_until"`
	GameState     *engine.GameSnapshot `json:"game_state"`
}

// LegalMovesResult lists every destination one piece may currently move to.
type LegalMovesResult struct {
	PieceID string         `json:"piece_id"`
	Moves   []engine.Coord `json:"moves"`
	CanSkip bool           `json:"can_skip"`
}

// ConfigInfo provides information about a game configuration
type ConfigInfo struct {
	Filename    string `json:"filename"`
	ConfigID    string `json:"config_id"` // The identifier to use for session creation
	Name        string `json:"name"`      // Display name
	Description string `json:"description"`
	BoardExtent int    `json:"board_extent"`
	LineLength  int    `json:"line_length"`
	MaxPlayers  int    `json:"max_players"`
}
