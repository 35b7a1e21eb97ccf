package engine

import (
	"sort"
	"time"
)

// PlayerView is the client-facing projection of one player's state.
type PlayerView struct {
	ID             string    `json:"id"`
	Phase          TurnPhase `json:"phase"`
	PhaseStart     time.Time `json:"phase_start"`
	CanSkipChess   bool      `json:"can_skip_chess"`
	Energy         int       `json:"energy"`
	EnergyMax      int       `json:"energy_max"`
	Paused         bool      `json:"paused"`
	PauseExpiresAt time.Time `json:"pause_expires_at,omitempty"`
	CooldownUntil  time.Time `json:"cooldown_until,omitempty"`
	Vulnerable     bool      `json:"vulnerable"`
	Eliminated     bool      `json:"eliminated"`
	PromotablePawn []string  `json:"promotable_pawns,omitempty"`
}

// ZoneView is the client-facing projection of a home zone.
type ZoneView struct {
	Owner       string  `json:"owner"`
	Cells       []Coord `json:"cells"`
	Degradation int     `json:"degradation"`
}

// GameSnapshot is a complete, consistent, read-only projection of one game.
// It is built under the engine lock and fully copied, so holders never
// observe a partially-mutated board.
type GameSnapshot struct {
	ConfigName string       `json:"config_name"`
	Cells      []CellView   `json:"cells"`
	Pieces     []Piece      `json:"pieces"`
	Players    []PlayerView `json:"players"`
	Zones      []ZoneView   `json:"zones"`
	GameOver   bool         `json:"game_over"`
	Winner     string       `json:"winner,omitempty"`
	TakenAt    time.Time    `json:"taken_at"`
}

// Snapshot returns the current consistent projection of the game.
func (e *GameEngine) Snapshot() *GameSnapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.now()
	snap := &GameSnapshot{
		ConfigName: e.config.Name,
		Cells:      e.board.SnapshotCells(),
		GameOver:   e.over,
		Winner:     e.winner,
		TakenAt:    now,
	}

	snap.Pieces = make([]Piece, 0, len(e.pieces))
	for _, p := range e.pieces {
		snap.Pieces = append(snap.Pieces, *p)
	}
	sort.Slice(snap.Pieces, func(i, j int) bool { return snap.Pieces[i].ID < snap.Pieces[j].ID })

	for _, id := range e.joinOrder {
		player := e.players[id]
		view := PlayerView{
			ID:             id,
			Phase:          player.Turn.Phase,
			PhaseStart:     player.Turn.PhaseStart,
			Energy:         player.Energy.Current,
			EnergyMax:      player.Energy.Max,
			Paused:         player.Pause.Paused,
			PauseExpiresAt: player.Pause.ExpiresAt,
			CooldownUntil:  player.Pause.CooldownUntil,
			Vulnerable:     player.Pause.Vulnerable(now),
			Eliminated:     player.Eliminated,
		}
		if player.Turn.Phase == PhaseChess {
			view.CanSkipChess = e.config.OptionalSkip || !e.hasAnyLegalMove(id, now)
		}
		for pieceID := range player.promotionDeadlines {
			view.PromotablePawn = append(view.PromotablePawn, pieceID)
		}
		sort.Strings(view.PromotablePawn)
		snap.Players = append(snap.Players, view)
	}

	for _, id := range e.joinOrder {
		zone, ok := e.zones[id]
		if !ok {
			continue
		}
		cells := make([]Coord, len(zone.Cells))
		copy(cells, zone.Cells)
		snap.Zones = append(snap.Zones, ZoneView{
			Owner:       zone.Owner,
			Cells:       cells,
			Degradation: zone.Degradation,
		})
	}

	return snap
}
