package engine

import (
	"fmt"
	"sync"
	"time"
)

// GameEngine is the authoritative rules engine for one game. Every mutating
// operation is serialized by a single mutex: concurrency exists across games,
// never within one game's board. All state reaches clients through events and
// copy-on-read snapshots; no caller ever receives a mutation handle.
type GameEngine struct {
	mu sync.Mutex

	config  *GameConfig
	board   *Board
	pieces  map[string]*Piece // by piece ID
	byPos   pieceIndex        // by coordinate
	players map[string]*PlayerState
	zones   map[string]*HomeZone

	joinOrder   []string
	pieceSerial int

	over   bool
	winner string

	// now is the engine clock; tests substitute a fixed clock to drive the
	// timer rules deterministically.
	now      func() time.Time
	listener func(Event)
}

// NewEngine creates a new game engine with the provided configuration.
func NewEngine(config *GameConfig) (*GameEngine, error) {
	if config == nil {
		config = DefaultGameConfig()
	}
	if err := ValidateGameConfig(config); err != nil {
		return nil, err
	}
	return &GameEngine{
		config:  config,
		board:   NewBoard(config.BoardExtent),
		pieces:  make(map[string]*Piece),
		byPos:   make(pieceIndex),
		players: make(map[string]*PlayerState),
		zones:   make(map[string]*HomeZone),
		now:     time.Now,
	}, nil
}

// SetClock replaces the engine clock. Intended for tests.
func (e *GameEngine) SetClock(now func() time.Time) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.now = now
}

// SetListener registers the single outbound event listener. The listener is
// invoked synchronously while the engine lock is held, so it must not call
// back into the engine; transports hand events off to their own channels.
func (e *GameEngine) SetListener(fn func(Event)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.listener = fn
}

// Config returns the engine's configuration.
func (e *GameEngine) Config() *GameConfig {
	return e.config
}

func (e *GameEngine) emit(eventType string, data any) {
	if e.listener == nil {
		return
	}
	e.listener(Event{Type: eventType, Timestamp: e.now(), Data: data})
}

// zoneOrigin returns the lower-left corner of the home zone for a seat index.
// Seats are laid out along the x axis at fixed spacing so zones never touch.
func (e *GameEngine) zoneOrigin(seat int) Coord {
	return Coord{
		X: -e.config.BoardExtent + 2 + seat*e.config.SpawnSpacing,
		Y: 0,
	}
}

// backRank is the piece order across the eight home-zone columns.
var backRank = []PieceType{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}

func (e *GameEngine) newPieceID(owner string, t PieceType) string {
	e.pieceSerial++
	return fmt.Sprintf("%s-%s-%d", owner, t, e.pieceSerial)
}

// AddPlayer seats a new player: their home-zone cells are written into the
// board and the standard sixteen pieces are spawned on them. Players may join
// a running game while seats remain.
func (e *GameEngine) AddPlayer(id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.over {
		return ErrGameOver
	}
	if id == "" {
		return fmt.Errorf("%w: empty player id", ErrPlayerNotFound)
	}
	if _, exists := e.players[id]; exists {
		return ErrPlayerExists
	}
	if len(e.joinOrder) >= e.config.MaxPlayers {
		return fmt.Errorf("%w: all %d seats taken", ErrPlayerExists, e.config.MaxPlayers)
	}

	now := e.now()
	origin := e.zoneOrigin(len(e.joinOrder))

	zone := &HomeZone{Owner: id, lastDegrade: now}
	for dy := 0; dy < HomeZoneHeight; dy++ {
		for dx := 0; dx < HomeZoneWidth; dx++ {
			c := Coord{X: origin.X + dx, Y: origin.Y + dy}
			if e.board.Occupied(c) {
				return fmt.Errorf("%w: home zone cell (%d,%d)", ErrCellOccupied, c.X, c.Y)
			}
			if err := e.board.SetCell(c, Cell{Owner: id, Type: CellHomeZone}); err != nil {
				return err
			}
			zone.Cells = append(zone.Cells, c)
		}
	}
	e.zones[id] = zone

	for dx, t := range backRank {
		e.spawnPiece(id, t, Coord{X: origin.X + dx, Y: origin.Y})
	}
	for dx := 0; dx < HomeZoneWidth; dx++ {
		e.spawnPiece(id, Pawn, Coord{X: origin.X + dx, Y: origin.Y + 1})
	}

	e.players[id] = &PlayerState{
		ID: id,
		Turn: TurnState{
			Phase:      PhaseTetromino,
			PhaseStart: now,
		},
		Energy: EnergyState{
			Current:   e.config.Energy.Max,
			Max:       e.config.Energy.Max,
			LastRegen: now,
		},
		promotionDeadlines: make(map[string]time.Time),
	}
	e.joinOrder = append(e.joinOrder, id)

	e.emit(EventPlayerJoined, PlayerJoinedData{Player: id, Zone: zone.Cells})
	return nil
}

func (e *GameEngine) spawnPiece(owner string, t PieceType, pos Coord) {
	p := &Piece{
		ID:    e.newPieceID(owner, t),
		Type:  t,
		Owner: owner,
		Pos:   pos,
	}
	e.pieces[p.ID] = p
	e.byPos[pos] = p
}

// activePlayer validates that the player may act at all: seated, still in the
// game, and not suspended by a pause.
func (e *GameEngine) activePlayer(id string) (*PlayerState, error) {
	if e.over {
		return nil, ErrGameOver
	}
	p, ok := e.players[id]
	if !ok {
		return nil, ErrPlayerNotFound
	}
	if p.Eliminated {
		return nil, ErrPlayerEliminated
	}
	if p.Pause.Paused {
		return nil, ErrPlayerPaused
	}
	return p, nil
}

func (e *GameEngine) kingPos(owner string) (Coord, bool) {
	for _, p := range e.pieces {
		if p.Owner == owner && p.Type == King {
			return p.Pos, true
		}
	}
	return Coord{}, false
}

// protectedOwner reports whether an owner's pieces and cells are currently
// shielded by an active pause.
func (e *GameEngine) protectedOwner(owner string, now time.Time) bool {
	p, ok := e.players[owner]
	return ok && p.Pause.Protected(now)
}

// PlacementResult is the committed outcome of a tetromino placement request.
type PlacementResult struct {
	Outcome TetrominoOutcome `json:"outcome"`
	Cells   []Coord          `json:"cells,omitempty"`
	Cleared []ClearGroup     `json:"cleared,omitempty"`
	Energy  int              `json:"energy"`
}

// PlaceTetromino resolves one falling tetromino for the player. Attaching and
// exploding are both committed outcomes that consume spawn energy and advance
// the player into the chess phase; a rejection commits nothing at all.
func (e *GameEngine) PlaceTetromino(owner, shape string, pos Coord, rotation int) (*PlacementResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.now()
	e.sweepLocked(now)

	player, err := e.activePlayer(owner)
	if err != nil {
		return nil, err
	}
	if player.Turn.Phase != PhaseTetromino {
		return nil, ErrWrongPhase
	}

	cells, err := TetrominoCells(shape, rotation, pos)
	if err != nil {
		return nil, err
	}

	cost := e.config.Energy.CostsByShape[shape]
	e.regenEnergy(player, now)
	if player.Energy.Current < cost {
		return nil, ErrInsufficientEnergy
	}

	kingPos, ok := e.kingPos(owner)
	if !ok {
		return nil, ErrPieceNotFound
	}

	res := resolveTetromino(e.board, owner, cells, kingPos)
	if res.reject != nil {
		return nil, res.reject
	}

	// Committed from here on: the spawn energy is spent even when the piece
	// explodes against an existing cell.
	player.Energy.Current -= cost
	e.emit(EventEnergyUpdate, EnergyUpdateData{
		Player:  owner,
		Current: player.Energy.Current,
		Max:     player.Energy.Max,
	})

	result := &PlacementResult{Outcome: res.outcome, Energy: player.Energy.Current}

	if res.outcome == OutcomeAttached {
		placed := make([]CellView, 0, len(res.cells))
		for _, c := range res.cells {
			cell := Cell{Owner: owner, Type: CellNormal}
			e.board.SetCell(c, cell)
			placed = append(placed, CellView{Pos: c, Cell: cell})
		}
		result.Cells = res.cells
		e.emit(EventBoardDelta, BoardDeltaData{
			Placed:  placed,
			Outcome: string(OutcomeAttached),
			Player:  owner,
		})
		result.Cleared = e.lineClearPass(now)
	} else {
		e.emit(EventBoardDelta, BoardDeltaData{
			Outcome: string(OutcomeExploded),
			Player:  owner,
		})
	}

	e.setPhase(player, PhaseChess, now, false)
	return result, nil
}

// MoveResult is the committed outcome of a chess move.
type MoveResult struct {
	Piece    Piece  `json:"piece"`
	Captured *Piece `json:"captured,omitempty"`
}

// MoveChessPiece validates and applies one chess move for the player.
func (e *GameEngine) MoveChessPiece(owner, pieceID string, target Coord) (*MoveResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.now()
	e.sweepLocked(now)

	player, err := e.activePlayer(owner)
	if err != nil {
		return nil, err
	}
	if player.Turn.Phase != PhaseChess {
		return nil, ErrWrongPhase
	}
	if now.Before(player.Turn.PhaseStart.Add(e.minPhaseTime())) {
		return nil, ErrTooEarly
	}

	piece, ok := e.pieces[pieceID]
	if !ok {
		return nil, ErrPieceNotFound
	}
	if piece.Owner != owner {
		return nil, ErrNotOwner
	}

	protected := func(o string) bool { return e.protectedOwner(o, now) }
	if !moveIsLegal(e.board, e.byPos, piece, target, protected) {
		return nil, ErrIllegalMove
	}

	// Committed from here on.
	var captured *Piece
	if victim, taken := e.byPos[target]; taken {
		captured = victim
		e.removePiece(victim)
	}

	delete(e.byPos, piece.Pos)
	piece.Pos = target
	e.byPos[target] = piece
	piece.MoveCount++

	if piece.PromotionEligible(e.config.PromotionThreshold) {
		if _, pending := player.promotionDeadlines[piece.ID]; !pending {
			player.promotionDeadlines[piece.ID] = now.Add(time.Duration(e.config.PromotionGraceMs) * time.Millisecond)
		}
	}

	moved := []Piece{*piece}
	if captured != nil {
		e.emit(EventBoardDelta, BoardDeltaData{Pieces: moved, Player: owner})
		if captured.Type == King {
			e.eliminatePlayer(captured.Owner, "king_captured", now)
		}
	} else {
		e.emit(EventBoardDelta, BoardDeltaData{Pieces: moved, Player: owner})
	}

	if !e.over {
		e.setPhase(player, PhaseTetromino, now, false)
	}

	result := &MoveResult{Piece: *piece}
	if captured != nil {
		c := *captured
		result.Captured = &c
	}
	return result, nil
}

// PromotePawn applies an explicit promotion choice for an eligible pawn.
// Promotion is its own action, valid in any phase.
func (e *GameEngine) PromotePawn(owner, pieceID string, newType PieceType) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.now()
	e.sweepLocked(now)

	player, err := e.activePlayer(owner)
	if err != nil {
		return err
	}

	piece, ok := e.pieces[pieceID]
	if !ok {
		return ErrPieceNotFound
	}
	if piece.Owner != owner {
		return ErrNotOwner
	}
	if !piece.PromotionEligible(e.config.PromotionThreshold) {
		return ErrNotEligible
	}
	if !promotableTypes[newType] {
		return ErrUnknownPieceType
	}

	e.promote(player, piece, newType, false)
	return nil
}

func (e *GameEngine) promote(player *PlayerState, piece *Piece, newType PieceType, automatic bool) {
	piece.Type = newType
	delete(player.promotionDeadlines, piece.ID)
	e.emit(EventPawnPromoted, PawnPromotedData{
		Player:    piece.Owner,
		PieceID:   piece.ID,
		NewType:   newType,
		Automatic: automatic,
	})
}

// SkipChessMove ends the player's chess phase without moving. Unless the
// configuration allows optional skips, skipping is only legal when no owned
// piece has any legal move.
func (e *GameEngine) SkipChessMove(owner string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.now()
	e.sweepLocked(now)

	player, err := e.activePlayer(owner)
	if err != nil {
		return err
	}
	if player.Turn.Phase != PhaseChess {
		return ErrWrongPhase
	}
	if now.Before(player.Turn.PhaseStart.Add(e.minPhaseTime())) {
		return ErrTooEarly
	}

	if !e.config.OptionalSkip && e.hasAnyLegalMove(owner, now) {
		return ErrSkipDenied
	}

	e.setPhase(player, PhaseTetromino, now, false)
	return nil
}

// CanSkipChess reports whether a skip request by the player would currently
// be accepted, surfaced to clients as canSkipChess.
func (e *GameEngine) CanSkipChess(owner string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	player, ok := e.players[owner]
	if !ok || player.Eliminated || player.Turn.Phase != PhaseChess {
		return false
	}
	return e.config.OptionalSkip || !e.hasAnyLegalMove(owner, e.now())
}

func (e *GameEngine) hasAnyLegalMove(owner string, now time.Time) bool {
	protected := func(o string) bool { return e.protectedOwner(o, now) }
	for _, p := range e.pieces {
		if p.Owner != owner {
			continue
		}
		if len(LegalMoves(e.board, e.byPos, p, protected)) > 0 {
			return true
		}
	}
	return false
}

// LegalMovesFor returns the legal destinations for one of the player's
// pieces. Read-only; used by clients to preview moves.
func (e *GameEngine) LegalMovesFor(owner, pieceID string) ([]Coord, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	piece, ok := e.pieces[pieceID]
	if !ok {
		return nil, ErrPieceNotFound
	}
	if piece.Owner != owner {
		return nil, ErrNotOwner
	}
	now := e.now()
	protected := func(o string) bool { return e.protectedOwner(o, now) }
	return LegalMoves(e.board, e.byPos, piece, protected), nil
}

// PauseResult reports the granted pause window.
type PauseResult struct {
	ExpiresAt time.Time `json:"expires_at"`
}

// RequestPause suspends the player's turns for the configured duration. A new
// pause is refused while the previous cooldown runs; the request succeeds at
// the exact cooldown instant.
func (e *GameEngine) RequestPause(owner string) (*PauseResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.now()
	e.sweepLocked(now)

	if e.over {
		return nil, ErrGameOver
	}
	player, ok := e.players[owner]
	if !ok {
		return nil, ErrPlayerNotFound
	}
	if player.Eliminated {
		return nil, ErrPlayerEliminated
	}
	if player.Pause.Paused {
		return nil, ErrPlayerPaused
	}
	if now.Before(player.Pause.CooldownUntil) {
		return nil, ErrOnCooldown
	}

	player.Pause.Paused = true
	player.Pause.ExpiresAt = now.Add(time.Duration(e.config.Pause.DurationMs) * time.Millisecond)

	e.emit(EventPaused, PauseData{Player: owner, ExpiresAt: player.Pause.ExpiresAt})
	return &PauseResult{ExpiresAt: player.Pause.ExpiresAt}, nil
}

// ResumeResult reports the cooldown started by a resume.
type ResumeResult struct {
	CooldownUntil time.Time `json:"cooldown_until"`
}

// ResumeGame ends the player's pause and starts the pause cooldown. Resuming
// while not paused is a no-op that reports the current cooldown.
func (e *GameEngine) ResumeGame(owner string) (*ResumeResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.now()

	player, ok := e.players[owner]
	if !ok {
		return nil, ErrPlayerNotFound
	}
	if !player.Pause.Paused {
		return &ResumeResult{CooldownUntil: player.Pause.CooldownUntil}, nil
	}

	player.Pause.Paused = false
	player.Pause.CooldownUntil = now.Add(time.Duration(e.config.Pause.CooldownMs) * time.Millisecond)
	// The suspended phase resumes from now so the dwell clock does not charge
	// the player for time spent paused.
	player.Turn.PhaseStart = now

	e.emit(EventResumed, PauseData{Player: owner, CooldownUntil: player.Pause.CooldownUntil})
	return &ResumeResult{CooldownUntil: player.Pause.CooldownUntil}, nil
}

func (e *GameEngine) minPhaseTime() time.Duration {
	return time.Duration(e.config.MinPhaseTime()) * time.Millisecond
}

func (e *GameEngine) setPhase(player *PlayerState, phase TurnPhase, now time.Time, forced bool) {
	player.Turn.Phase = phase
	player.Turn.PhaseStart = now
	e.emit(EventPhaseChange, PhaseChangeData{Player: player.ID, Phase: phase, Forced: forced})
}

func (e *GameEngine) removePiece(p *Piece) {
	delete(e.pieces, p.ID)
	if cur, ok := e.byPos[p.Pos]; ok && cur.ID == p.ID {
		delete(e.byPos, p.Pos)
	}
	if player, ok := e.players[p.Owner]; ok {
		delete(player.promotionDeadlines, p.ID)
	}
}

// lineClearPass scans the whole board, applies every detected group in one
// pass, and only then computes piece destruction, so overlapping groups never
// double-count. It always runs to completion before the engine lock is
// released, so clears can never interleave with another placement or move.
func (e *GameEngine) lineClearPass(now time.Time) []ClearGroup {
	clearable := func(c Coord, cell Cell) bool {
		if cell.Type == CellHomeZone && cell.Degradation < e.config.CollapseThreshold {
			return false
		}
		if cell.Owner != "" && e.protectedOwner(cell.Owner, now) {
			return false
		}
		return true
	}

	groups := lineClearScan(e.board, e.config.LineLength, clearable)
	if len(groups) == 0 {
		return nil
	}

	cleared := clearedCellSet(groups)
	removed := make([]Coord, 0, len(cleared))
	for c := range cleared {
		e.board.RemoveCell(c)
		removed = append(removed, c)
	}

	for _, g := range groups {
		e.emit(EventLineClear, LineClearData{Axis: g.Axis, Cells: g.Cells})
	}
	e.emit(EventBoardDelta, BoardDeltaData{Removed: removed})

	// Capture-by-clearing: pieces standing on cleared cells are destroyed.
	// King losses eliminate their owners after the whole pass is applied.
	var lostKings []string
	for _, p := range e.pieces {
		if !cleared[p.Pos] {
			continue
		}
		if p.Type == King {
			lostKings = append(lostKings, p.Owner)
			continue
		}
		e.removePiece(p)
	}
	for _, owner := range lostKings {
		e.eliminatePlayer(owner, "king_cleared", now)
	}

	return groups
}

// eliminatePlayer removes a player from the game: every remaining piece is
// destroyed, the home zone is dissolved, and the player's cells stay on the
// board as unowned no-man's-land bridges. The game continues until at most
// one player remains.
func (e *GameEngine) eliminatePlayer(owner, reason string, now time.Time) {
	player, ok := e.players[owner]
	if !ok || player.Eliminated {
		return
	}
	player.Eliminated = true
	player.Turn.Phase = PhaseWaiting

	for _, p := range e.pieces {
		if p.Owner == owner {
			e.removePiece(p)
		}
	}
	delete(e.zones, owner)

	// Collect first: ForEach forbids mutating the board mid-iteration.
	var owned []Coord
	e.board.ForEach(func(c Coord, cell Cell) {
		if cell.Owner == owner {
			owned = append(owned, c)
		}
	})
	var converted []CellView
	for _, c := range owned {
		neutral := Cell{Type: CellNoMansLand}
		e.board.SetCell(c, neutral)
		converted = append(converted, CellView{Pos: c, Cell: neutral})
	}
	if len(converted) > 0 {
		e.emit(EventBoardDelta, BoardDeltaData{Placed: converted})
	}

	e.emit(EventElimination, EliminationData{Player: owner, Reason: reason})

	var survivors []string
	for _, id := range e.joinOrder {
		if !e.players[id].Eliminated {
			survivors = append(survivors, id)
		}
	}
	if len(e.joinOrder) >= MinPlayers && len(survivors) <= 1 {
		e.over = true
		if len(survivors) == 1 {
			e.winner = survivors[0]
		}
		e.emit(EventGameOver, GameOverData{Winner: e.winner, Reason: "last_player_standing"})
	}
}

// regenEnergy applies lazy regeneration: whole elapsed intervals credit the
// balance, clamped to the maximum. The balance can never leave [0, max].
func (e *GameEngine) regenEnergy(player *PlayerState, now time.Time) {
	interval := time.Duration(e.config.Energy.RegenIntervalMs) * time.Millisecond
	elapsed := now.Sub(player.Energy.LastRegen)
	if elapsed < interval {
		return
	}
	intervals := int(elapsed / interval)
	before := player.Energy.Current

	player.Energy.Current += intervals * e.config.Energy.RegenRate
	if player.Energy.Current > player.Energy.Max {
		player.Energy.Current = player.Energy.Max
	}
	player.Energy.LastRegen = player.Energy.LastRegen.Add(time.Duration(intervals) * interval)

	if player.Energy.Current != before {
		e.emit(EventEnergyUpdate, EnergyUpdateData{
			Player:  player.ID,
			Current: player.Energy.Current,
			Max:     player.Energy.Max,
		})
	}
}

// Sweep applies all timer-driven transitions: energy regeneration, chess
// timeout auto-skips, promotion grace expiry, and home-zone degradation. The
// engine runs it on every request and the server runs it periodically, so
// timeouts fire even for idle games.
func (e *GameEngine) Sweep() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sweepLocked(e.now())
}

func (e *GameEngine) sweepLocked(now time.Time) {
	if e.over {
		return
	}

	for _, id := range e.joinOrder {
		player := e.players[id]
		if player.Eliminated {
			continue
		}

		e.regenEnergy(player, now)

		// Auto-promotion after the grace window keeps turns live when a
		// client never sends an explicit choice.
		for pieceID, deadline := range player.promotionDeadlines {
			if now.Before(deadline) {
				continue
			}
			if piece, ok := e.pieces[pieceID]; ok && piece.Type == Pawn {
				e.promote(player, piece, DefaultPromotionType, true)
			} else {
				delete(player.promotionDeadlines, pieceID)
			}
		}

		// Pause suspends the turn clock entirely; expiry only flips the
		// derived vulnerability flag, never the state machine.
		if player.Pause.Paused {
			continue
		}

		if player.Turn.Phase == PhaseChess {
			timeout := time.Duration(e.config.ChessTimeoutMs) * time.Millisecond
			if !now.Before(player.Turn.PhaseStart.Add(timeout)) {
				e.setPhase(player, PhaseTetromino, now, true)
			}
		}
	}

	e.degradeZones(now)
}

// degradeZones advances home-zone degradation for zones left without any of
// their owner's pieces. Once degradation reaches the collapse threshold the
// zone's cells clear like normal cells, so the pass re-scans afterwards.
func (e *GameEngine) degradeZones(now time.Time) {
	interval := time.Duration(e.config.DegradationIntervalMs) * time.Millisecond
	collapsed := false

	for _, zone := range e.zones {
		if now.Sub(zone.lastDegrade) < interval {
			continue
		}

		occupied := false
		for _, c := range zone.Cells {
			if p, ok := e.byPos[c]; ok && p.Owner == zone.Owner {
				occupied = true
				break
			}
		}
		zone.lastDegrade = now
		if occupied {
			continue
		}

		zone.Degradation++
		for _, c := range zone.Cells {
			if cell, ok := e.board.GetCell(c); ok && cell.Type == CellHomeZone && cell.Owner == zone.Owner {
				cell.Degradation = zone.Degradation
				e.board.SetCell(c, cell)
			}
		}
		if zone.Degradation >= e.config.CollapseThreshold {
			collapsed = true
		}
	}

	if collapsed {
		e.lineClearPass(now)
	}
}

// IsGameOver reports whether the game has ended.
func (e *GameEngine) IsGameOver() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.over
}

// Winner returns the winning player ID once the game is over.
func (e *GameEngine) Winner() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.winner
}
