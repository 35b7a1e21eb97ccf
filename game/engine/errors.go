package engine

import "errors"

// Every rejection the engine can produce. A rejected request has zero side
// effects: validation is fully computed before any write.
var (
	// Tetromino placement rejections, mutually exclusive, most specific wins.
	ErrOutOfBounds  = errors.New("placement outside board extents")
	ErrCellOccupied = errors.New("target cell already occupied")
	ErrNoAdjacency  = errors.New("placement not adjacent to any occupied cell")
	ErrNoPathToKing = errors.New("no path from placement to king")

	// Chess rejections.
	ErrIllegalMove = errors.New("illegal move")
	ErrNotOwner    = errors.New("piece not owned by player")
	ErrNotEligible = errors.New("piece not eligible for promotion")

	// Turn scheduling rejections.
	ErrWrongPhase = errors.New("action not allowed in current phase")
	ErrTooEarly   = errors.New("minimum phase time not elapsed")
	ErrSkipDenied = errors.New("skip not permitted while legal moves exist")

	// Energy and pause rejections.
	ErrInsufficientEnergy = errors.New("insufficient energy")
	ErrOnCooldown         = errors.New("pause on cooldown")
	ErrPlayerPaused       = errors.New("player is paused")

	// Lookup and lifecycle rejections.
	ErrPlayerNotFound   = errors.New("player not found")
	ErrPlayerExists     = errors.New("player already joined")
	ErrPieceNotFound    = errors.New("piece not found")
	ErrUnknownShape     = errors.New("unknown tetromino shape")
	ErrUnknownPieceType = errors.New("unknown piece type")
	ErrPlayerEliminated = errors.New("player has been eliminated")
	ErrGameOver         = errors.New("game is over")
)

// codesByError maps sentinel errors to stable machine codes carried on the
// wire. Clients branch on the code, never on the message text.
var codesByError = map[error]string{
	ErrOutOfBounds:        "out_of_bounds",
	ErrCellOccupied:       "cell_occupied",
	ErrNoAdjacency:        "no_adjacency",
	ErrNoPathToKing:       "no_path_to_king",
	ErrIllegalMove:        "illegal_move",
	ErrNotOwner:           "not_owner",
	ErrNotEligible:        "not_eligible",
	ErrWrongPhase:         "wrong_phase",
	ErrTooEarly:           "too_early",
	ErrSkipDenied:         "skip_denied",
	ErrInsufficientEnergy: "insufficient_energy",
	ErrOnCooldown:         "on_cooldown",
	ErrPlayerPaused:       "player_paused",
	ErrPlayerNotFound:     "player_not_found",
	ErrPlayerExists:       "player_exists",
	ErrPieceNotFound:      "piece_not_found",
	ErrUnknownShape:       "unknown_shape",
	ErrUnknownPieceType:   "unknown_piece_type",
	ErrPlayerEliminated:   "player_eliminated",
	ErrGameOver:           "game_over",
}

// Code returns the machine code for an engine rejection, or "internal" for
// anything that is not a known rejection.
func Code(err error) string {
	for sentinel, code := range codesByError {
		if errors.Is(err, sentinel) {
			return code
		}
	}
	return "internal"
}

// IsRejection reports whether the error is one of the engine's validation
// rejections, as opposed to an internal failure.
func IsRejection(err error) bool {
	for sentinel := range codesByError {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}
