// Package service provides the business logic layer for the TetraChess server.
//
// The service package implements:
//   - Multi-session game management
//   - Configuration management and loading
//   - Player action orchestration (placements, moves, pauses)
//   - Session lifecycle management
//
// Core Interfaces:
//
// GameService is the main service interface providing high-level game operations.
// SessionManager handles session creation, retrieval, and lifecycle.
// ConfigManager manages game configuration loading and validation.
//
// Architecture:
//
// The service layer sits between the transport layer (HTTP/WebSocket/MCP) and
// the game engine, providing session isolation, configuration management, and
// business logic orchestration. Each session maintains its own game engine
// instance with independent state.
//
// Usage:
//
//	sessionMgr := session.NewManager()
//	configMgr := config.NewManager("configs")
//	gameService := service.NewGameService(sessionMgr, configMgr)
//
//	// Create a new session and seat two players
//	sessionInfo, err := gameService.CreateSession(ctx, "standard")
//	if err != nil {
//		log.Fatal(err)
//	}
//	_, err = gameService.JoinGame(ctx, sessionInfo.ID, "alice")
//
//	// Place a tetromino
//	result, err := gameService.PlaceTetromino(ctx, sessionInfo.ID, "alice",
//		service.TetrominoPlacement{Shape: "T", X: 3, Y: 10})
//
// Session Management:
//
// Sessions are identified by unique hex IDs and maintain independent game
// state. Multiple sessions can run concurrently with different
// configurations. Sessions track creation time and last access time so idle
// games can be reclaimed.
package service
