package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/tetrachess/server/game/engine"
)

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions SessionManager
	configs  ConfigManager
	mu       sync.RWMutex
}

// NewGameService creates a new game service instance
func NewGameService(sessions SessionManager, configs ConfigManager) GameService {
	return &gameServiceImpl{
		sessions: sessions,
		configs:  configs,
	}
}

// getConfigID returns the config_id for a given config name, used for consistent API responses
func (s *gameServiceImpl) getConfigID(configName string) string {
	availableConfigs, err := s.configs.ListConfigs()
	if err == nil {
		for _, cfg := range availableConfigs {
			if cfg.Name == configName {
				return cfg.ConfigID
			}
		}
	}
	if configName == "" {
		return "default"
	}
	return configName
}

// CreateSession creates a new game session
func (s *gameServiceImpl) CreateSession(ctx context.Context, configName string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Load configuration
	var config *engine.GameConfig
	var err error
	if configName != "" {
		config, err = s.configs.LoadConfig(configName)
		if err != nil {
			// Provide helpful error message with available options
			if strings.Contains(err.Error(), "configuration not found") {
				availableConfigs, listErr := s.configs.ListConfigs()
				if listErr == nil && len(availableConfigs) > 0 {
					var configIDs []string
					for _, cfg := range availableConfigs {
						configIDs = append(configIDs, cfg.ConfigID)
					}
					return nil, fmt.Errorf("config '%s' not found. Available configs: %v", configName, configIDs)
				}
				return nil, fmt.Errorf("config '%s' not found. Use /api/configs to list available configurations", configName)
			}
			return nil, fmt.Errorf("failed to load config %s: %w", configName, err)
		}
	} else {
		config = s.configs.GetDefault()
	}

	// Let the session manager generate the ID
	session, err := s.sessions.Create("", config)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	configID := configName
	if configID == "" {
		configID = s.getConfigID(config.Name)
	}

	return &SessionInfo{
		ID:             session.ID,
		ConfigName:     configID,
		CreatedAt:      session.CreatedAt,
		LastAccessedAt: session.LastAccessedAt,
		GameState:      session.Engine.Snapshot(),
		GameConfig:     session.Config,
	}, nil
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)

	return &SessionInfo{
		ID:             session.ID,
		ConfigName:     s.getConfigID(session.Config.Name),
		CreatedAt:      session.CreatedAt,
		LastAccessedAt: session.LastAccessedAt,
		GameState:      session.Engine.Snapshot(),
		GameConfig:     session.Config,
	}, nil
}

// ListSessions returns all active sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))

	for _, sess := range sessions {
		result = append(result, &SessionInfo{
			ID:             sess.ID,
			ConfigName:     s.getConfigID(sess.Config.Name),
			CreatedAt:      sess.CreatedAt,
			LastAccessedAt: sess.LastAccessedAt,
			GameState:      sess.Engine.Snapshot(),
			GameConfig:     sess.Config,
		})
	}

	return result, nil
}

// DeleteSession removes a session
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.sessions.Delete(sessionID)
}

// JoinGame seats a player in the session and builds their home zone.
func (s *gameServiceImpl) JoinGame(ctx context.Context, sessionID, playerID string) (*JoinResult, error) {
	sess, err := s.touchSession(sessionID)
	if err != nil {
		return nil, err
	}

	if err := sess.Engine.AddPlayer(playerID); err != nil {
		return nil, err
	}

	s.persist(sessionID)
	return &JoinResult{
		PlayerID:  playerID,
		GameState: sess.Engine.Snapshot(),
	}, nil
}

// PlaceTetromino resolves one tetromino drop for the player.
func (s *gameServiceImpl) PlaceTetromino(ctx context.Context, sessionID, playerID string, placement TetrominoPlacement) (*PlaceResult, error) {
	sess, err := s.touchSession(sessionID)
	if err != nil {
		return nil, err
	}

	res, err := sess.Engine.PlaceTetromino(playerID, placement.Shape,
		engine.Coord{X: placement.X, Y: placement.Y}, placement.Rotation)
	if err != nil {
		return nil, err
	}

	s.persist(sessionID)
	return &PlaceResult{
		Outcome:   res.Outcome,
		Cells:     res.Cells,
		Cleared:   res.Cleared,
		Energy:    res.Energy,
		GameState: sess.Engine.Snapshot(),
	}, nil
}

// MoveChessPiece applies one chess move for the player.
func (s *gameServiceImpl) MoveChessPiece(ctx context.Context, sessionID, playerID, pieceID string, target engine.Coord) (*MoveOutcome, error) {
	sess, err := s.touchSession(sessionID)
	if err != nil {
		return nil, err
	}

	res, err := sess.Engine.MoveChessPiece(playerID, pieceID, target)
	if err != nil {
		return nil, err
	}

	s.persist(sessionID)
	return &MoveOutcome{
		Piece:     res.Piece,
		Captured:  res.Captured,
		GameState: sess.Engine.Snapshot(),
	}, nil
}

// PromotePawn applies an explicit promotion choice.
func (s *gameServiceImpl) PromotePawn(ctx context.Context, sessionID, playerID, pieceID string, newType engine.PieceType) (*ActionResult, error) {
	sess, err := s.touchSession(sessionID)
	if err != nil {
		return nil, err
	}

	if err := sess.Engine.PromotePawn(playerID, pieceID, newType); err != nil {
		return nil, err
	}

	s.persist(sessionID)
	return &ActionResult{GameState: sess.Engine.Snapshot()}, nil
}

// SkipChessMove skips the player's chess phase when permitted.
func (s *gameServiceImpl) SkipChessMove(ctx context.Context, sessionID, playerID string) (*ActionResult, error) {
	sess, err := s.touchSession(sessionID)
	if err != nil {
		return nil, err
	}

	if err := sess.Engine.SkipChessMove(playerID); err != nil {
		return nil, err
	}

	s.persist(sessionID)
	return &ActionResult{GameState: sess.Engine.Snapshot()}, nil
}

// RequestPause suspends the player's turns.
func (s *gameServiceImpl) RequestPause(ctx context.Context, sessionID, playerID string) (*PauseOutcome, error) {
	sess, err := s.touchSession(sessionID)
	if err != nil {
		return nil, err
	}

	res, err := sess.Engine.RequestPause(playerID)
	if err != nil {
		return nil, err
	}

	s.persist(sessionID)
	return &PauseOutcome{
		ExpiresAt: res.ExpiresAt,
		GameState: sess.Engine.Snapshot(),
	}, nil
}

// ResumeGame ends the player's pause.
func (s *gameServiceImpl) ResumeGame(ctx context.Context, sessionID, playerID string) (*ResumeOutcome, error) {
	sess, err := s.touchSession(sessionID)
	if err != nil {
		return nil, err
	}

	res, err := sess.Engine.ResumeGame(playerID)
	if err != nil {
		return nil, err
	}

	s.persist(sessionID)
	return &ResumeOutcome{
		CooldownUntil: res.CooldownUntil,
		GameState:     sess.Engine.Snapshot(),
	}, nil
}

// GetGameState retrieves the current game state
func (s *gameServiceImpl) GetGameState(ctx context.Context, sessionID string) (*engine.GameSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)
	return sess.Engine.Snapshot(), nil
}

// GetLegalMoves lists the destinations one piece may currently move to.
func (s *gameServiceImpl) GetLegalMoves(ctx context.Context, sessionID, playerID, pieceID string) (*LegalMovesResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)
	moves, err := sess.Engine.LegalMovesFor(playerID, pieceID)
	if err != nil {
		return nil, err
	}
	if moves == nil {
		moves = []engine.Coord{}
	}

	return &LegalMovesResult{
		PieceID: pieceID,
		Moves:   moves,
		CanSkip: sess.Engine.CanSkipChess(playerID),
	}, nil
}

// ListConfigs returns available game configurations
func (s *gameServiceImpl) ListConfigs(ctx context.Context) ([]*ConfigInfo, error) {
	return s.configs.ListConfigs()
}

// LoadConfig loads a specific game configuration
func (s *gameServiceImpl) LoadConfig(ctx context.Context, configName string) (*engine.GameConfig, error) {
	return s.configs.LoadConfig(configName)
}

// SaveConfig saves a game configuration to disk
func (s *gameServiceImpl) SaveConfig(ctx context.Context, configName string, config *engine.GameConfig) error {
	return s.configs.SaveConfig(configName, config)
}

// touchSession fetches a session for a mutating action and refreshes its
// last-accessed time. Engine errors pass through unwrapped so callers can
// map them to wire codes with errors.Is.
func (s *gameServiceImpl) touchSession(sessionID string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	s.sessions.UpdateLastAccessed(sessionID)
	return sess, nil
}

// persist saves the session after a committed action. Persistence failures
// are logged, not surfaced: the in-memory game already advanced.
func (s *gameServiceImpl) persist(sessionID string) {
	if err := s.sessions.Save(sessionID); err != nil {
		log.Printf("Warning: Failed to persist session %s: %v", sessionID, err)
	}
}
