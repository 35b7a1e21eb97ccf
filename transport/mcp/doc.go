// Package mcp provides a Model Context Protocol interface to the game server.
//
// The package is a thin client: every tool call is proxied to the REST API,
// so the MCP process carries no game state of its own and can run separately
// from the HTTP server.
//
// MCP Tools:
//
// The package exposes the following tools for AI agents:
//   - create_session: Create a new game session with config selection
//   - get_session: Get specific session details
//   - list_sessions: List all active sessions
//   - join_game: Take a seat in a session
//   - game_state: Get the current board, pieces and player phases
//   - place_tetromino: Drop a tetromino onto the board
//   - move_piece: Move one of your chess pieces
//   - legal_moves: List legal destinations for a piece
//   - promote_pawn: Promote an eligible pawn
//   - skip_chess: Skip the chess half of your turn
//   - request_pause / resume_game: Energy-funded pause control
//   - list_configs: List available game configurations
//   - game_instructions: Get comprehensive game rules
//
// Transport Modes:
//
// The server supports two transport modes:
//   - Stdio: Direct stdio communication for local MCP clients
//   - HTTP: the underlying REST API remains available alongside
//
// Session Management:
//
// Every game tool takes a session_id, and the player-facing tools also take
// a player_id. One MCP client can drive several players across several
// sessions at once, which is how AI-vs-AI games are run.
package mcp
