package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/tetrachess/server/game/engine"
	"github.com/tetrachess/server/game/service"
	"github.com/tetrachess/server/transport/websocket"
)

// Server represents the REST API server
type Server struct {
	service service.GameService
	hub     *websocket.Hub
	router  *mux.Router
}

// NewServer creates a new API server
func NewServer(gameService service.GameService, hub *websocket.Hub) *Server {
	s := &Server{
		service: gameService,
		hub:     hub,
		router:  mux.NewRouter(),
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api").Subrouter()

	// Session management
	api.HandleFunc("/sessions", s.handleCreateSession).Methods("POST")
	api.HandleFunc("/sessions", s.handleListSessions).Methods("GET")
	api.HandleFunc("/sessions/{id}", s.handleGetSession).Methods("GET")
	api.HandleFunc("/sessions/{id}", s.handleDeleteSession).Methods("DELETE")

	// Player actions
	api.HandleFunc("/sessions/{id}/players", s.handleJoin).Methods("POST")
	api.HandleFunc("/sessions/{id}/state", s.handleGetGameState).Methods("GET")
	api.HandleFunc("/sessions/{id}/tetromino", s.handlePlaceTetromino).Methods("POST")
	api.HandleFunc("/sessions/{id}/move", s.handleMovePiece).Methods("POST")
	api.HandleFunc("/sessions/{id}/promote", s.handlePromotePawn).Methods("POST")
	api.HandleFunc("/sessions/{id}/skip", s.handleSkipChess).Methods("POST")
	api.HandleFunc("/sessions/{id}/pause", s.handleRequestPause).Methods("POST")
	api.HandleFunc("/sessions/{id}/resume", s.handleResume).Methods("POST")
	api.HandleFunc("/sessions/{id}/moves", s.handleGetLegalMoves).Methods("GET")

	// Configuration
	api.HandleFunc("/configs", s.handleListConfigs).Methods("GET")
	api.HandleFunc("/configs", s.handleCreateConfig).Methods("POST")
	api.HandleFunc("/configs/{name}", s.handleGetConfig).Methods("GET")

	// Health
	api.HandleFunc("/health", s.handleHealth).Methods("GET")

	// WebSocket
	s.router.HandleFunc("/ws", s.handleWebSocket)
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Response helpers

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondEngineError maps an engine rejection to an HTTP status and attaches
// its machine code, so clients branch on codes instead of message text.
func respondEngineError(w http.ResponseWriter, err error) {
	status := http.StatusConflict
	switch {
	case errors.Is(err, engine.ErrPlayerNotFound),
		errors.Is(err, engine.ErrPieceNotFound):
		status = http.StatusNotFound
	case errors.Is(err, engine.ErrUnknownShape),
		errors.Is(err, engine.ErrUnknownPieceType):
		status = http.StatusBadRequest
	case !engine.IsRejection(err):
		status = http.StatusInternalServerError
	}

	respondJSON(w, status, map[string]string{
		"error": err.Error(),
		"code":  engine.Code(err),
	})
}

// Session Handlers

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ConfigID   string `json:"config_id,omitempty"`
		ConfigName string `json:"config_name,omitempty"` // Deprecated, use config_id
	}

	if err := decodeValidated(r, createSessionSchema, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	configID := req.ConfigID
	if configID == "" && req.ConfigName != "" {
		configID = req.ConfigName
	}

	session, err := s.service.CreateSession(r.Context(), configID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusCreated, session)
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.service.ListSessions(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	query := r.URL.Query()
	sortBy := query.Get("sort")    // "created", "accessed" (default)
	order := query.Get("order")    // "asc", "desc" (default: "desc")
	limitStr := query.Get("limit") // number of sessions to return

	if sortBy == "" {
		sortBy = "accessed"
	}
	if order == "" {
		order = "desc"
	}

	sort.Slice(sessions, func(i, j int) bool {
		var ti, tj time.Time
		if sortBy == "created" {
			ti, tj = sessions[i].CreatedAt, sessions[j].CreatedAt
		} else { // "accessed"
			ti, tj = sessions[i].LastAccessedAt, sessions[j].LastAccessedAt
		}

		if order == "asc" {
			return ti.Before(tj)
		}
		return ti.After(tj) // desc
	})

	limit := len(sessions)
	if limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l < len(sessions) {
			limit = l
		}
	}
	sessions = sessions[:limit]

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":    len(sessions),
		"sessions": sessions,
		"sort":     sortBy,
		"order":    order,
	})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	session, err := s.service.GetSession(r.Context(), sessionID)
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, session)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	if err := s.service.DeleteSession(r.Context(), sessionID); err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Session %s deleted", sessionID),
	})
}

// Player Action Handlers

func (s *Server) handleJoin(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	var req struct {
		PlayerID string `json:"player_id"`
	}
	if err := decodeValidated(r, joinSchema, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := s.service.JoinGame(r.Context(), sessionID, req.PlayerID)
	if err != nil {
		s.respondActionError(w, sessionID, err)
		return
	}

	s.broadcastState(sessionID, result.GameState)
	respondJSON(w, http.StatusCreated, result)
}

func (s *Server) handleGetGameState(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	state, err := s.service.GetGameState(r.Context(), sessionID)
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, state)
}

func (s *Server) handlePlaceTetromino(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	var req struct {
		PlayerID string `json:"player_id"`
		Shape    string `json:"shape"`
		Rotation int    `json:"rotation"`
		X        int    `json:"x"`
		Y        int    `json:"y"`
	}
	if err := decodeValidated(r, placeSchema, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := s.service.PlaceTetromino(r.Context(), sessionID, req.PlayerID, service.TetrominoPlacement{
		Shape:    req.Shape,
		Rotation: req.Rotation,
		X:        req.X,
		Y:        req.Y,
	})
	if err != nil {
		s.respondActionError(w, sessionID, err)
		return
	}

	log.Printf("[PLACE] session=%s player=%s shape=%s (%d,%d) outcome=%s cleared=%d",
		sessionID, req.PlayerID, req.Shape, req.X, req.Y, result.Outcome, len(result.Cleared))

	s.broadcastState(sessionID, result.GameState)
	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleMovePiece(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	var req struct {
		PlayerID string `json:"player_id"`
		PieceID  string `json:"piece_id"`
		X        int    `json:"x"`
		Y        int    `json:"y"`
	}
	if err := decodeValidated(r, moveSchema, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := s.service.MoveChessPiece(r.Context(), sessionID, req.PlayerID, req.PieceID,
		engine.Coord{X: req.X, Y: req.Y})
	if err != nil {
		s.respondActionError(w, sessionID, err)
		return
	}

	captured := ""
	if result.Captured != nil {
		captured = result.Captured.ID
	}
	log.Printf("[MOVE] session=%s player=%s piece=%s ->(%d,%d) captured=%s",
		sessionID, req.PlayerID, req.PieceID, req.X, req.Y, captured)

	s.broadcastState(sessionID, result.GameState)
	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handlePromotePawn(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	var req struct {
		PlayerID string `json:"player_id"`
		PieceID  string `json:"piece_id"`
		NewType  string `json:"new_type"`
	}
	if err := decodeValidated(r, promoteSchema, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := s.service.PromotePawn(r.Context(), sessionID, req.PlayerID, req.PieceID,
		engine.PieceType(req.NewType))
	if err != nil {
		s.respondActionError(w, sessionID, err)
		return
	}

	s.broadcastState(sessionID, result.GameState)
	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleSkipChess(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	var req struct {
		PlayerID string `json:"player_id"`
	}
	if err := decodeValidated(r, playerActionSchema, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := s.service.SkipChessMove(r.Context(), sessionID, req.PlayerID)
	if err != nil {
		s.respondActionError(w, sessionID, err)
		return
	}

	s.broadcastState(sessionID, result.GameState)
	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleRequestPause(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	var req struct {
		PlayerID string `json:"player_id"`
	}
	if err := decodeValidated(r, playerActionSchema, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := s.service.RequestPause(r.Context(), sessionID, req.PlayerID)
	if err != nil {
		s.respondActionError(w, sessionID, err)
		return
	}

	s.broadcastState(sessionID, result.GameState)
	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleResume(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	var req struct {
		PlayerID string `json:"player_id"`
	}
	if err := decodeValidated(r, playerActionSchema, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := s.service.ResumeGame(r.Context(), sessionID, req.PlayerID)
	if err != nil {
		s.respondActionError(w, sessionID, err)
		return
	}

	s.broadcastState(sessionID, result.GameState)
	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleGetLegalMoves(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]
	query := r.URL.Query()

	playerID := query.Get("player")
	pieceID := query.Get("piece")
	if playerID == "" || pieceID == "" {
		respondError(w, http.StatusBadRequest, "player and piece query parameters required")
		return
	}

	result, err := s.service.GetLegalMoves(r.Context(), sessionID, playerID, pieceID)
	if err != nil {
		s.respondActionError(w, sessionID, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// Configuration Handlers

func (s *Server) handleListConfigs(w http.ResponseWriter, r *http.Request) {
	configs, err := s.service.ListConfigs(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, configs)
}

func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	configName := mux.Vars(r)["name"]

	// Remove .json extension if present
	configName = strings.TrimSuffix(configName, ".json")

	config, err := s.service.LoadConfig(r.Context(), configName)
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, config)
}

func (s *Server) handleCreateConfig(w http.ResponseWriter, r *http.Request) {
	var gameConfig engine.GameConfig

	if err := json.NewDecoder(r.Body).Decode(&gameConfig); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if gameConfig.Name == "" {
		respondError(w, http.StatusBadRequest, "Config name is required")
		return
	}

	if err := s.service.SaveConfig(r.Context(), gameConfig.Name, &gameConfig); err != nil {
		respondError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to save config: %v", err))
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"message":   "Configuration saved successfully",
		"config_id": gameConfig.Name,
	})
}

// WebSocket Handler

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session")
	if sessionID == "" {
		http.Error(w, "session parameter required", http.StatusBadRequest)
		return
	}

	// Verify the session exists and snapshot it for the join payload.
	state, err := s.service.GetGameState(r.Context(), sessionID)
	if err != nil {
		http.Error(w, "Invalid session", http.StatusNotFound)
		return
	}

	s.hub.ServeWS(w, r, sessionID, state)
}

// Health check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}

// respondActionError distinguishes unknown sessions from engine rejections.
func (s *Server) respondActionError(w http.ResponseWriter, sessionID string, err error) {
	if strings.Contains(err.Error(), "session not found") {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}
	respondEngineError(w, err)
}

// broadcastState pushes a committed snapshot to the session's WebSocket
// clients.
func (s *Server) broadcastState(sessionID string, state *engine.GameSnapshot) {
	if s.hub != nil && state != nil {
		s.hub.BroadcastToSession(sessionID, state)
	}
}
