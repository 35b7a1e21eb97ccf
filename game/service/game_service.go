package service

import (
	"context"
	"time"

	"github.com/tetrachess/server/game/engine"
)

// GameService defines all game-related operations
type GameService interface {
	// Session Management
	CreateSession(ctx context.Context, configName string) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Player Lifecycle
	JoinGame(ctx context.Context, sessionID, playerID string) (*JoinResult, error)

	// Game Operations
	PlaceTetromino(ctx context.Context, sessionID, playerID string, placement TetrominoPlacement) (*PlaceResult, error)
	MoveChessPiece(ctx context.Context, sessionID, playerID, pieceID string, target engine.Coord) (*MoveOutcome, error)
	PromotePawn(ctx context.Context, sessionID, playerID, pieceID string, newType engine.PieceType) (*ActionResult, error)
	SkipChessMove(ctx context.Context, sessionID, playerID string) (*ActionResult, error)
	RequestPause(ctx context.Context, sessionID, playerID string) (*PauseOutcome, error)
	ResumeGame(ctx context.Context, sessionID, playerID string) (*ResumeOutcome, error)

	// Game State
	GetGameState(ctx context.Context, sessionID string) (*engine.GameSnapshot, error)
	GetLegalMoves(ctx context.Context, sessionID, playerID, pieceID string) (*LegalMovesResult, error)

	// Configuration
	ListConfigs(ctx context.Context) ([]*ConfigInfo, error)
	LoadConfig(ctx context.Context, configName string) (*engine.GameConfig, error)
	SaveConfig(ctx context.Context, configName string, config *engine.GameConfig) error
}

// SessionManager defines session storage operations
type SessionManager interface {
	Create(id string, config *engine.GameConfig) (*Session, error)
	Get(id string) (*Session, error)
	List() []*Session
	Delete(id string) error
	UpdateLastAccessed(id string) error
	Save(id string) error
}

// ConfigManager handles game configuration loading
type ConfigManager interface {
	LoadConfig(name string) (*engine.GameConfig, error)
	ListConfigs() ([]*ConfigInfo, error)
	GetDefault() *engine.GameConfig
	SaveConfig(name string, config *engine.GameConfig) error
}

// Session represents an active game session
type Session struct {
	ID             string
	Engine         *engine.GameEngine
	Config         *engine.GameConfig
	CreatedAt      time.Time
	LastAccessedAt time.Time
}
