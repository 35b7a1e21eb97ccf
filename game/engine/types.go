package engine

import "time"

// PieceType identifies a chess piece kind.
type PieceType string

const (
	Pawn   PieceType = "pawn"
	Rook   PieceType = "rook"
	Knight PieceType = "knight"
	Bishop PieceType = "bishop"
	Queen  PieceType = "queen"
	King   PieceType = "king"
)

// CellType represents different types of board cells
type CellType string

const (
	CellNormal     CellType = "normal"
	CellHomeZone   CellType = "home_zone"
	CellNoMansLand CellType = "no_mans_land"
)

// TurnPhase is the per-player turn-cycle phase.
type TurnPhase string

const (
	PhaseTetromino TurnPhase = "tetromino"
	PhaseChess     TurnPhase = "chess"
	PhaseWaiting   TurnPhase = "waiting"
)

// TetrominoOutcome is the committed result of a falling tetromino.
type TetrominoOutcome string

const (
	OutcomeAttached TetrominoOutcome = "attached"
	OutcomeExploded TetrominoOutcome = "exploded"
)

// Coord is an integer grid coordinate. The board is sparse: a coordinate
// with no Cell entry is empty.
type Coord struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Neighbors4 returns the four orthogonally adjacent coordinates. Diagonal
// neighbors never count for attachment or connectivity.
func (c Coord) Neighbors4() [4]Coord {
	return [4]Coord{
		{c.X + 1, c.Y},
		{c.X - 1, c.Y},
		{c.X, c.Y + 1},
		{c.X, c.Y - 1},
	}
}

// Cell is an occupied board cell. Its position is the key in the BoardStore,
// so the struct carries only ownership and zone information.
type Cell struct {
	Owner       string   `json:"owner,omitempty"` // empty for no-man's-land
	Type        CellType `json:"type"`
	Degradation int      `json:"degradation,omitempty"` // meaningful for home-zone cells only
}

// Piece is a chess piece standing on the board.
type Piece struct {
	ID        string    `json:"id"`
	Type      PieceType `json:"type"`
	Owner     string    `json:"owner"`
	Pos       Coord     `json:"pos"`
	MoveCount int       `json:"move_count"`
}

// PromotionEligible reports whether the piece has earned promotion. Only
// pawns ever become eligible.
func (p *Piece) PromotionEligible(threshold int) bool {
	return p.Type == Pawn && p.MoveCount >= threshold
}

// Tetromino is an in-flight falling piece. It exists only between spawn and
// resolution and is never stored on the board.
type Tetromino struct {
	Shape    string `json:"shape"`
	Rotation int    `json:"rotation"`
	Pos      Coord  `json:"pos"`
	Z        int    `json:"z"`
	Owner    string `json:"owner"`
}

// HomeZone is a player's protected starting region.
type HomeZone struct {
	Owner       string  `json:"owner"`
	Cells       []Coord `json:"cells"`
	Degradation int     `json:"degradation"`

	lastDegrade time.Time
}

// Contains reports whether the zone includes the coordinate.
func (z *HomeZone) Contains(c Coord) bool {
	for _, zc := range z.Cells {
		if zc == c {
			return true
		}
	}
	return false
}

// TurnState tracks a player's position in the turn cycle.
type TurnState struct {
	Phase      TurnPhase `json:"phase"`
	PhaseStart time.Time `json:"phase_start"`
}

// EnergyState tracks a player's spawn-energy balance. Regeneration is applied
// lazily from LastRegen whenever the balance is observed or spent.
type EnergyState struct {
	Current   int       `json:"current"`
	Max       int       `json:"max"`
	LastRegen time.Time `json:"last_regen"`
}

// PauseState tracks a player's pause window and cooldown.
type PauseState struct {
	Paused        bool      `json:"paused"`
	ExpiresAt     time.Time `json:"expires_at"`
	CooldownUntil time.Time `json:"cooldown_until"`
}

// Vulnerable reports whether the player sat in an expired pause without
// resuming: their turn stays suspended but their pieces lose protection.
// Derived from the two timers so the flags can never drift apart.
func (p *PauseState) Vulnerable(now time.Time) bool {
	return p.Paused && now.After(p.ExpiresAt)
}

// Protected reports whether an active, unexpired pause still shields the
// player's pieces and cells from capture and clearing.
func (p *PauseState) Protected(now time.Time) bool {
	return p.Paused && !now.After(p.ExpiresAt)
}

// PlayerState aggregates all per-player engine state.
type PlayerState struct {
	ID         string      `json:"id"`
	Turn       TurnState   `json:"turn"`
	Energy     EnergyState `json:"energy"`
	Pause      PauseState  `json:"pause"`
	Eliminated bool        `json:"eliminated"`

	// promotionDeadlines maps pawn IDs to the instant after which the engine
	// auto-promotes them, so an absent client can never block its own turns.
	promotionDeadlines map[string]time.Time
}
