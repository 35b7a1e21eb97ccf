package engine

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// RestoreEngine rebuilds a running game from a persisted snapshot. The
// snapshot is a client-facing projection, so purely internal timers are
// re-anchored rather than replayed: energy regeneration restarts from the
// snapshot instant, and pawns that were awaiting promotion get a fresh grace
// window instead of the remainder of the old one.
func RestoreEngine(config *GameConfig, snap *GameSnapshot) (*GameEngine, error) {
	if snap == nil {
		return nil, fmt.Errorf("restore: snapshot is nil")
	}
	e, err := NewEngine(config)
	if err != nil {
		return nil, err
	}

	anchor := snap.TakenAt
	if anchor.IsZero() {
		anchor = time.Now()
	}

	for _, cv := range snap.Cells {
		if err := e.board.SetCell(cv.Pos, cv.Cell); err != nil {
			return nil, fmt.Errorf("restore: cell %v: %w", cv.Pos, err)
		}
	}

	for i := range snap.Pieces {
		p := snap.Pieces[i]
		copied := p
		e.pieces[p.ID] = &copied
		e.byPos[p.Pos] = &copied
		if serial := trailingSerial(p.ID); serial > e.pieceSerial {
			e.pieceSerial = serial
		}
	}

	grace := time.Duration(config.PromotionGraceMs) * time.Millisecond
	for _, view := range snap.Players {
		player := &PlayerState{
			ID: view.ID,
			Turn: TurnState{
				Phase:      view.Phase,
				PhaseStart: view.PhaseStart,
			},
			Energy: EnergyState{
				Current:   view.Energy,
				Max:       config.Energy.Max,
				LastRegen: anchor,
			},
			Pause: PauseState{
				Paused:        view.Paused,
				ExpiresAt:     view.PauseExpiresAt,
				CooldownUntil: view.CooldownUntil,
			},
			Eliminated:         view.Eliminated,
			promotionDeadlines: make(map[string]time.Time),
		}
		for _, pieceID := range view.PromotablePawn {
			player.promotionDeadlines[pieceID] = anchor.Add(grace)
		}
		e.players[view.ID] = player
		e.joinOrder = append(e.joinOrder, view.ID)
	}

	for _, zv := range snap.Zones {
		cells := make([]Coord, len(zv.Cells))
		copy(cells, zv.Cells)
		e.zones[zv.Owner] = &HomeZone{
			Owner:       zv.Owner,
			Cells:       cells,
			Degradation: zv.Degradation,
			lastDegrade: anchor,
		}
	}

	e.over = snap.GameOver
	e.winner = snap.Winner
	return e, nil
}

// trailingSerial extracts the numeric suffix of a piece ID, zero when absent.
func trailingSerial(id string) int {
	idx := strings.LastIndex(id, "-")
	if idx < 0 {
		return 0
	}
	n, err := strconv.Atoi(id[idx+1:])
	if err != nil {
		return 0
	}
	return n
}
