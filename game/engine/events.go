package engine

import "time"

// Event types broadcast to the surrounding presentation layer. Validation
// rejections are never broadcast; only committed outcomes produce events.
const (
	EventBoardDelta   = "board_delta"
	EventPhaseChange  = "phase_change"
	EventLineClear    = "line_clear"
	EventPawnPromoted = "pawn_promoted"
	EventEnergyUpdate = "energy_update"
	EventPaused       = "paused"
	EventResumed      = "resumed"
	EventPlayerJoined = "player_joined"
	EventElimination  = "elimination"
	EventGameOver     = "game_over"
)

// Event is one outbound notification with a typed payload.
type Event struct {
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
}

// BoardDeltaData describes cells added or removed by one committed mutation,
// plus any piece movement it carried.
type BoardDeltaData struct {
	Placed  []CellView `json:"placed,omitempty"`
	Removed []Coord    `json:"removed,omitempty"`
	Pieces  []Piece    `json:"pieces,omitempty"`
	Outcome string     `json:"outcome,omitempty"`
	Player  string     `json:"player,omitempty"`
}

// PhaseChangeData announces a player's new turn phase.
type PhaseChangeData struct {
	Player string    `json:"player"`
	Phase  TurnPhase `json:"phase"`
	Forced bool      `json:"forced,omitempty"` // true for timeout auto-skips
}

// LineClearData reports one cleared group: cell coordinates plus axis.
type LineClearData struct {
	Axis  Axis    `json:"axis"`
	Cells []Coord `json:"cells"`
}

// PawnPromotedData announces a promotion, explicit or automatic.
type PawnPromotedData struct {
	Player    string    `json:"player"`
	PieceID   string    `json:"piece_id"`
	NewType   PieceType `json:"new_type"`
	Automatic bool      `json:"automatic,omitempty"`
}

// EnergyUpdateData reports a player's energy balance after a change.
type EnergyUpdateData struct {
	Player  string `json:"player"`
	Current int    `json:"current"`
	Max     int    `json:"max"`
}

// PauseData reports pause/resume window boundaries.
type PauseData struct {
	Player        string    `json:"player"`
	ExpiresAt     time.Time `json:"expires_at,omitempty"`
	CooldownUntil time.Time `json:"cooldown_until,omitempty"`
}

// EliminationData announces a player's removal from the game.
type EliminationData struct {
	Player string `json:"player"`
	Reason string `json:"reason"` // "king_captured" or "king_cleared"
}

// GameOverData announces the terminal state of the game.
type GameOverData struct {
	Winner string `json:"winner"`
	Reason string `json:"reason"`
}

// PlayerJoinedData announces a newly seated player and their home zone.
type PlayerJoinedData struct {
	Player string  `json:"player"`
	Zone   []Coord `json:"zone"`
}
