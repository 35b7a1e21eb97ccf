// Package api provides the REST API server for the TetraChess server.
//
// The API exposes session management, player actions, game state, and
// configuration endpoints over HTTP with JSON payloads. Action request
// bodies are validated against JSON Schemas before they reach the service
// layer, so malformed requests are rejected with a 400 and never touch a
// game.
//
// Endpoints:
//
//	POST   /api/sessions                          - Create a new game session
//	GET    /api/sessions                          - List active sessions
//	GET    /api/sessions/{id}                     - Get session info
//	DELETE /api/sessions/{id}                     - Delete a session
//	POST   /api/sessions/{id}/players             - Join the game
//	GET    /api/sessions/{id}/state               - Get the current game snapshot
//	POST   /api/sessions/{id}/tetromino           - Place a tetromino
//	POST   /api/sessions/{id}/move                - Move a chess piece
//	POST   /api/sessions/{id}/promote             - Promote a pawn
//	POST   /api/sessions/{id}/skip                - Skip the chess phase
//	POST   /api/sessions/{id}/pause               - Request a pause
//	POST   /api/sessions/{id}/resume              - Resume from a pause
//	GET    /api/sessions/{id}/moves               - List legal moves for a piece
//	GET    /api/configs                           - List configurations
//	POST   /api/configs                           - Save a configuration
//	GET    /api/configs/{name}                    - Get a configuration
//	GET    /ws?session={id}                       - WebSocket event feed
//
// Error Responses:
//
// Engine rejections return HTTP 409 with a machine-readable code, for
// example {"error": "placement not adjacent to any occupied cell", "code":
// "no_adjacency"}. Unknown sessions, players, and pieces return 404.
// Schema-invalid bodies return 400.
package api
