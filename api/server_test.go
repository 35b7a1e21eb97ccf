package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/tetrachess/server/game/engine"
	"github.com/tetrachess/server/game/service"
	"github.com/tetrachess/server/transport/websocket"
)

// MockGameService implements service.GameService for testing
type MockGameService struct {
	// Session Management
	CreateSessionFunc func(ctx context.Context, configName string) (*service.SessionInfo, error)
	GetSessionFunc    func(ctx context.Context, sessionID string) (*service.SessionInfo, error)
	ListSessionsFunc  func(ctx context.Context) ([]*service.SessionInfo, error)
	DeleteSessionFunc func(ctx context.Context, sessionID string) error

	// Player Lifecycle
	JoinGameFunc func(ctx context.Context, sessionID, playerID string) (*service.JoinResult, error)

	// Game Operations
	PlaceTetrominoFunc func(ctx context.Context, sessionID, playerID string, placement service.TetrominoPlacement) (*service.PlaceResult, error)
	MoveChessPieceFunc func(ctx context.Context, sessionID, playerID, pieceID string, target engine.Coord) (*service.MoveOutcome, error)
	PromotePawnFunc    func(ctx context.Context, sessionID, playerID, pieceID string, newType engine.PieceType) (*service.ActionResult, error)
	SkipChessMoveFunc  func(ctx context.Context, sessionID, playerID string) (*service.ActionResult, error)
	RequestPauseFunc   func(ctx context.Context, sessionID, playerID string) (*service.PauseOutcome, error)
	ResumeGameFunc     func(ctx context.Context, sessionID, playerID string) (*service.ResumeOutcome, error)

	// Game State
	GetGameStateFunc  func(ctx context.Context, sessionID string) (*engine.GameSnapshot, error)
	GetLegalMovesFunc func(ctx context.Context, sessionID, playerID, pieceID string) (*service.LegalMovesResult, error)

	// Configuration
	ListConfigsFunc func(ctx context.Context) ([]*service.ConfigInfo, error)
	LoadConfigFunc  func(ctx context.Context, configName string) (*engine.GameConfig, error)
	SaveConfigFunc  func(ctx context.Context, configName string, config *engine.GameConfig) error
}

// Session Management
func (m *MockGameService) CreateSession(ctx context.Context, configName string) (*service.SessionInfo, error) {
	if m.CreateSessionFunc != nil {
		return m.CreateSessionFunc(ctx, configName)
	}
	return &service.SessionInfo{
		ID:         "test-session",
		ConfigName: configName,
		CreatedAt:  time.Now(),
	}, nil
}

func (m *MockGameService) GetSession(ctx context.Context, sessionID string) (*service.SessionInfo, error) {
	if m.GetSessionFunc != nil {
		return m.GetSessionFunc(ctx, sessionID)
	}
	return &service.SessionInfo{
		ID:         sessionID,
		ConfigName: "test-config",
		CreatedAt:  time.Now(),
	}, nil
}

func (m *MockGameService) ListSessions(ctx context.Context) ([]*service.SessionInfo, error) {
	if m.ListSessionsFunc != nil {
		return m.ListSessionsFunc(ctx)
	}
	return []*service.SessionInfo{}, nil
}

func (m *MockGameService) DeleteSession(ctx context.Context, sessionID string) error {
	if m.DeleteSessionFunc != nil {
		return m.DeleteSessionFunc(ctx, sessionID)
	}
	return nil
}

// Player Lifecycle
func (m *MockGameService) JoinGame(ctx context.Context, sessionID, playerID string) (*service.JoinResult, error) {
	if m.JoinGameFunc != nil {
		return m.JoinGameFunc(ctx, sessionID, playerID)
	}
	return &service.JoinResult{
		PlayerID:  playerID,
		GameState: &engine.GameSnapshot{},
	}, nil
}

// Game Operations
func (m *MockGameService) PlaceTetromino(ctx context.Context, sessionID, playerID string, placement service.TetrominoPlacement) (*service.PlaceResult, error) {
	if m.PlaceTetrominoFunc != nil {
		return m.PlaceTetrominoFunc(ctx, sessionID, playerID, placement)
	}
	return &service.PlaceResult{
		Outcome:   engine.OutcomeAttached,
		GameState: &engine.GameSnapshot{},
	}, nil
}

func (m *MockGameService) MoveChessPiece(ctx context.Context, sessionID, playerID, pieceID string, target engine.Coord) (*service.MoveOutcome, error) {
	if m.MoveChessPieceFunc != nil {
		return m.MoveChessPieceFunc(ctx, sessionID, playerID, pieceID, target)
	}
	return &service.MoveOutcome{
		Piece:     engine.Piece{ID: pieceID, Owner: playerID, Pos: target},
		GameState: &engine.GameSnapshot{},
	}, nil
}

func (m *MockGameService) PromotePawn(ctx context.Context, sessionID, playerID, pieceID string, newType engine.PieceType) (*service.ActionResult, error) {
	if m.PromotePawnFunc != nil {
		return m.PromotePawnFunc(ctx, sessionID, playerID, pieceID, newType)
	}
	return &service.ActionResult{GameState: &engine.GameSnapshot{}}, nil
}

func (m *MockGameService) SkipChessMove(ctx context.Context, sessionID, playerID string) (*service.ActionResult, error) {
	if m.SkipChessMoveFunc != nil {
		return m.SkipChessMoveFunc(ctx, sessionID, playerID)
	}
	return &service.ActionResult{GameState: &engine.GameSnapshot{}}, nil
}

func (m *MockGameService) RequestPause(ctx context.Context, sessionID, playerID string) (*service.PauseOutcome, error) {
	if m.RequestPauseFunc != nil {
		return m.RequestPauseFunc(ctx, sessionID, playerID)
	}
	return &service.PauseOutcome{GameState: &engine.GameSnapshot{}}, nil
}

func (m *MockGameService) ResumeGame(ctx context.Context, sessionID, playerID string) (*service.ResumeOutcome, error) {
	if m.ResumeGameFunc != nil {
		return m.ResumeGameFunc(ctx, sessionID, playerID)
	}
	return &service.ResumeOutcome{GameState: &engine.GameSnapshot{}}, nil
}

// Game State
func (m *MockGameService) GetGameState(ctx context.Context, sessionID string) (*engine.GameSnapshot, error) {
	if m.GetGameStateFunc != nil {
		return m.GetGameStateFunc(ctx, sessionID)
	}
	return &engine.GameSnapshot{}, nil
}

func (m *MockGameService) GetLegalMoves(ctx context.Context, sessionID, playerID, pieceID string) (*service.LegalMovesResult, error) {
	if m.GetLegalMovesFunc != nil {
		return m.GetLegalMovesFunc(ctx, sessionID, playerID, pieceID)
	}
	return &service.LegalMovesResult{PieceID: pieceID, Moves: []engine.Coord{}}, nil
}

// Configuration
func (m *MockGameService) ListConfigs(ctx context.Context) ([]*service.ConfigInfo, error) {
	if m.ListConfigsFunc != nil {
		return m.ListConfigsFunc(ctx)
	}
	return []*service.ConfigInfo{}, nil
}

func (m *MockGameService) LoadConfig(ctx context.Context, configName string) (*engine.GameConfig, error) {
	if m.LoadConfigFunc != nil {
		return m.LoadConfigFunc(ctx, configName)
	}
	return &engine.GameConfig{
		Name:        configName,
		Description: "Test config",
	}, nil
}

func (m *MockGameService) SaveConfig(ctx context.Context, configName string, config *engine.GameConfig) error {
	if m.SaveConfigFunc != nil {
		return m.SaveConfigFunc(ctx, configName, config)
	}
	return nil
}

// Test helpers
func setupTestServer(mockService *MockGameService) *Server {
	hub := websocket.NewHub()
	go hub.Run()
	return NewServer(mockService, hub)
}

func makeRequest(method, path string, body interface{}) *http.Request {
	var bodyBytes []byte
	if body != nil {
		bodyBytes, _ = json.Marshal(body)
	}
	req := httptest.NewRequest(method, path, bytes.NewBuffer(bodyBytes))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func parseResponse(t *testing.T, w *httptest.ResponseRecorder, target interface{}) {
	if err := json.Unmarshal(w.Body.Bytes(), target); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
}

// Session Management Tests

func TestCreateSession(t *testing.T) {
	tests := []struct {
		name           string
		requestBody    map[string]string
		setupMock      func(*MockGameService)
		expectedStatus int
		validateResp   func(*testing.T, *httptest.ResponseRecorder)
	}{
		{
			name:        "Create session with default config",
			requestBody: nil,
			setupMock: func(m *MockGameService) {
				m.CreateSessionFunc = func(ctx context.Context, configName string) (*service.SessionInfo, error) {
					return &service.SessionInfo{
						ID:             "sess-123",
						ConfigName:     "standard",
						CreatedAt:      time.Now(),
						LastAccessedAt: time.Now(),
					}, nil
				}
			},
			expectedStatus: http.StatusCreated,
			validateResp: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp service.SessionInfo
				parseResponse(t, w, &resp)
				if resp.ID != "sess-123" {
					t.Errorf("Expected session ID sess-123, got %s", resp.ID)
				}
			},
		},
		{
			name:        "Create session with specific config",
			requestBody: map[string]string{"config_id": "blitz"},
			setupMock: func(m *MockGameService) {
				m.CreateSessionFunc = func(ctx context.Context, configName string) (*service.SessionInfo, error) {
					if configName != "blitz" {
						t.Errorf("Expected config name 'blitz', got %s", configName)
					}
					return &service.SessionInfo{
						ID:         "sess-456",
						ConfigName: configName,
						CreatedAt:  time.Now(),
					}, nil
				}
			},
			expectedStatus: http.StatusCreated,
			validateResp: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp service.SessionInfo
				parseResponse(t, w, &resp)
				if resp.ConfigName != "blitz" {
					t.Errorf("Expected config name 'blitz', got %s", resp.ConfigName)
				}
			},
		},
		{
			name:        "Legacy config_name field still accepted",
			requestBody: map[string]string{"config_name": "blitz"},
			setupMock: func(m *MockGameService) {
				m.CreateSessionFunc = func(ctx context.Context, configName string) (*service.SessionInfo, error) {
					if configName != "blitz" {
						t.Errorf("Expected config name 'blitz', got %s", configName)
					}
					return &service.SessionInfo{ID: "sess-789", ConfigName: configName}, nil
				}
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "Reject unknown fields",
			requestBody:    map[string]string{"config": "blitz"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:        "Handle service error",
			requestBody: nil,
			setupMock: func(m *MockGameService) {
				m.CreateSessionFunc = func(ctx context.Context, configName string) (*service.SessionInfo, error) {
					return nil, fmt.Errorf("service error")
				}
			},
			expectedStatus: http.StatusInternalServerError,
			validateResp: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp map[string]string
				parseResponse(t, w, &resp)
				if resp["error"] != "service error" {
					t.Errorf("Expected error message 'service error', got %s", resp["error"])
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &MockGameService{}
			if tt.setupMock != nil {
				tt.setupMock(mockService)
			}

			server := setupTestServer(mockService)
			w := httptest.NewRecorder()
			req := makeRequest("POST", "/api/sessions", tt.requestBody)

			server.ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, w.Code)
			}

			if tt.validateResp != nil {
				tt.validateResp(t, w)
			}
		})
	}
}

func TestCreateSession_MinimalBodies(t *testing.T) {
	// An absent body and a bare `null` both mean "default config".
	for _, body := range []string{"", "null"} {
		name := body
		if name == "" {
			name = "empty"
		}
		t.Run(name, func(t *testing.T) {
			mockService := &MockGameService{
				CreateSessionFunc: func(ctx context.Context, configName string) (*service.SessionInfo, error) {
					if configName != "" {
						t.Errorf("Expected empty config name, got %q", configName)
					}
					return &service.SessionInfo{ID: "sess-min"}, nil
				},
			}
			server := setupTestServer(mockService)

			w := httptest.NewRecorder()
			req := httptest.NewRequest("POST", "/api/sessions", strings.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			server.ServeHTTP(w, req)

			if w.Code != http.StatusCreated {
				t.Errorf("Expected status 201, got %d: %s", w.Code, w.Body.String())
			}
		})
	}
}

func TestListSessions(t *testing.T) {
	tests := []struct {
		name           string
		path           string
		setupMock      func(*MockGameService)
		expectedStatus int
		validateResp   func(*testing.T, *httptest.ResponseRecorder)
	}{
		{
			name: "List multiple sessions",
			path: "/api/sessions",
			setupMock: func(m *MockGameService) {
				m.ListSessionsFunc = func(ctx context.Context) ([]*service.SessionInfo, error) {
					return []*service.SessionInfo{
						{ID: "sess-1", ConfigName: "standard"},
						{ID: "sess-2", ConfigName: "blitz"},
					}, nil
				}
			},
			expectedStatus: http.StatusOK,
			validateResp: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp map[string]interface{}
				parseResponse(t, w, &resp)
				if resp["count"].(float64) != 2 {
					t.Errorf("Expected count 2, got %v", resp["count"])
				}
				sessions := resp["sessions"].([]interface{})
				if len(sessions) != 2 {
					t.Errorf("Expected 2 sessions, got %d", len(sessions))
				}
			},
		},
		{
			name: "Limit and sort by creation time ascending",
			path: "/api/sessions?sort=created&order=asc&limit=2",
			setupMock: func(m *MockGameService) {
				base := time.Now()
				m.ListSessionsFunc = func(ctx context.Context) ([]*service.SessionInfo, error) {
					return []*service.SessionInfo{
						{ID: "newest", CreatedAt: base.Add(2 * time.Hour)},
						{ID: "oldest", CreatedAt: base},
						{ID: "middle", CreatedAt: base.Add(time.Hour)},
					}, nil
				}
			},
			expectedStatus: http.StatusOK,
			validateResp: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp map[string]interface{}
				parseResponse(t, w, &resp)
				sessions := resp["sessions"].([]interface{})
				if len(sessions) != 2 {
					t.Fatalf("Expected 2 sessions after limit, got %d", len(sessions))
				}
				first := sessions[0].(map[string]interface{})
				if first["id"] != "oldest" {
					t.Errorf("Expected oldest session first, got %v", first["id"])
				}
			},
		},
		{
			name: "Handle empty session list",
			path: "/api/sessions",
			setupMock: func(m *MockGameService) {
				m.ListSessionsFunc = func(ctx context.Context) ([]*service.SessionInfo, error) {
					return []*service.SessionInfo{}, nil
				}
			},
			expectedStatus: http.StatusOK,
			validateResp: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp map[string]interface{}
				parseResponse(t, w, &resp)
				if resp["count"].(float64) != 0 {
					t.Errorf("Expected count 0, got %v", resp["count"])
				}
			},
		},
		{
			name: "Handle service error",
			path: "/api/sessions",
			setupMock: func(m *MockGameService) {
				m.ListSessionsFunc = func(ctx context.Context) ([]*service.SessionInfo, error) {
					return nil, fmt.Errorf("database error")
				}
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &MockGameService{}
			if tt.setupMock != nil {
				tt.setupMock(mockService)
			}

			server := setupTestServer(mockService)
			w := httptest.NewRecorder()
			req := makeRequest("GET", tt.path, nil)

			server.ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, w.Code)
			}

			if tt.validateResp != nil {
				tt.validateResp(t, w)
			}
		})
	}
}

func TestDeleteSession(t *testing.T) {
	mockService := &MockGameService{}
	deleted := ""
	mockService.DeleteSessionFunc = func(ctx context.Context, sessionID string) error {
		deleted = sessionID
		return nil
	}

	server := setupTestServer(mockService)
	w := httptest.NewRecorder()
	server.ServeHTTP(w, makeRequest("DELETE", "/api/sessions/sess-1", nil))

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	if deleted != "sess-1" {
		t.Errorf("Expected sess-1 deleted, got %q", deleted)
	}

	mockService.DeleteSessionFunc = func(ctx context.Context, sessionID string) error {
		return fmt.Errorf("session not found: %s", sessionID)
	}
	w = httptest.NewRecorder()
	server.ServeHTTP(w, makeRequest("DELETE", "/api/sessions/missing", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
}

// Player Action Tests

func TestJoinGame(t *testing.T) {
	tests := []struct {
		name           string
		requestBody    map[string]interface{}
		setupMock      func(*MockGameService)
		expectedStatus int
		expectedCode   string
	}{
		{
			name:           "Successful join",
			requestBody:    map[string]interface{}{"player_id": "alice"},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "Missing player_id rejected by schema",
			requestBody:    map[string]interface{}{},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Invalid player_id characters rejected",
			requestBody:    map[string]interface{}{"player_id": "al ice!"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:        "Duplicate player",
			requestBody: map[string]interface{}{"player_id": "alice"},
			setupMock: func(m *MockGameService) {
				m.JoinGameFunc = func(ctx context.Context, sessionID, playerID string) (*service.JoinResult, error) {
					return nil, engine.ErrPlayerExists
				}
			},
			expectedStatus: http.StatusConflict,
			expectedCode:   "player_exists",
		},
		{
			name:        "Unknown session",
			requestBody: map[string]interface{}{"player_id": "alice"},
			setupMock: func(m *MockGameService) {
				m.JoinGameFunc = func(ctx context.Context, sessionID, playerID string) (*service.JoinResult, error) {
					return nil, fmt.Errorf("session not found: %s", sessionID)
				}
			},
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &MockGameService{}
			if tt.setupMock != nil {
				tt.setupMock(mockService)
			}

			server := setupTestServer(mockService)
			w := httptest.NewRecorder()
			server.ServeHTTP(w, makeRequest("POST", "/api/sessions/sess-1/players", tt.requestBody))

			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d: %s", tt.expectedStatus, w.Code, w.Body.String())
			}
			if tt.expectedCode != "" {
				var resp map[string]string
				parseResponse(t, w, &resp)
				if resp["code"] != tt.expectedCode {
					t.Errorf("Expected code %q, got %q", tt.expectedCode, resp["code"])
				}
			}
		})
	}
}

func TestPlaceTetromino(t *testing.T) {
	tests := []struct {
		name           string
		requestBody    map[string]interface{}
		setupMock      func(*MockGameService)
		expectedStatus int
		expectedCode   string
	}{
		{
			name: "Successful placement",
			requestBody: map[string]interface{}{
				"player_id": "alice", "shape": "O", "rotation": 0, "x": -30, "y": 2,
			},
			setupMock: func(m *MockGameService) {
				m.PlaceTetrominoFunc = func(ctx context.Context, sessionID, playerID string, placement service.TetrominoPlacement) (*service.PlaceResult, error) {
					if placement.Shape != "O" || placement.X != -30 || placement.Y != 2 {
						t.Errorf("Unexpected placement: %+v", placement)
					}
					return &service.PlaceResult{
						Outcome: engine.OutcomeAttached,
						Cells: []engine.Coord{
							{X: -30, Y: 2}, {X: -29, Y: 2}, {X: -30, Y: 3}, {X: -29, Y: 3},
						},
						Energy:    3,
						GameState: &engine.GameSnapshot{},
					}, nil
				}
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "Invalid shape rejected by schema",
			requestBody: map[string]interface{}{
				"player_id": "alice", "shape": "X", "rotation": 0, "x": 0, "y": 0,
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "Missing coordinates rejected by schema",
			requestBody: map[string]interface{}{
				"player_id": "alice", "shape": "T",
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "Disconnected placement explodes into rejection payload",
			requestBody: map[string]interface{}{
				"player_id": "alice", "shape": "I", "rotation": 0, "x": 20, "y": 20,
			},
			setupMock: func(m *MockGameService) {
				m.PlaceTetrominoFunc = func(ctx context.Context, sessionID, playerID string, placement service.TetrominoPlacement) (*service.PlaceResult, error) {
					return nil, engine.ErrNoAdjacency
				}
			},
			expectedStatus: http.StatusConflict,
			expectedCode:   "no_adjacency",
		},
		{
			name: "Wrong phase",
			requestBody: map[string]interface{}{
				"player_id": "alice", "shape": "I", "rotation": 0, "x": 0, "y": 0,
			},
			setupMock: func(m *MockGameService) {
				m.PlaceTetrominoFunc = func(ctx context.Context, sessionID, playerID string, placement service.TetrominoPlacement) (*service.PlaceResult, error) {
					return nil, engine.ErrWrongPhase
				}
			},
			expectedStatus: http.StatusConflict,
			expectedCode:   "wrong_phase",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &MockGameService{}
			if tt.setupMock != nil {
				tt.setupMock(mockService)
			}

			server := setupTestServer(mockService)
			w := httptest.NewRecorder()
			server.ServeHTTP(w, makeRequest("POST", "/api/sessions/sess-1/tetromino", tt.requestBody))

			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d: %s", tt.expectedStatus, w.Code, w.Body.String())
			}
			if tt.expectedCode != "" {
				var resp map[string]string
				parseResponse(t, w, &resp)
				if resp["code"] != tt.expectedCode {
					t.Errorf("Expected code %q, got %q", tt.expectedCode, resp["code"])
				}
			}
		})
	}
}

func TestMovePiece(t *testing.T) {
	tests := []struct {
		name           string
		requestBody    map[string]interface{}
		setupMock      func(*MockGameService)
		expectedStatus int
		expectedCode   string
	}{
		{
			name: "Successful move with capture",
			requestBody: map[string]interface{}{
				"player_id": "alice", "piece_id": "alice-rook-1", "x": 5, "y": 2,
			},
			setupMock: func(m *MockGameService) {
				m.MoveChessPieceFunc = func(ctx context.Context, sessionID, playerID, pieceID string, target engine.Coord) (*service.MoveOutcome, error) {
					return &service.MoveOutcome{
						Piece:     engine.Piece{ID: pieceID, Owner: playerID, Pos: target},
						Captured:  &engine.Piece{ID: "bob-pawn-3", Owner: "bob"},
						GameState: &engine.GameSnapshot{},
					}, nil
				}
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "Illegal move",
			requestBody: map[string]interface{}{
				"player_id": "alice", "piece_id": "alice-rook-1", "x": 99, "y": 99,
			},
			setupMock: func(m *MockGameService) {
				m.MoveChessPieceFunc = func(ctx context.Context, sessionID, playerID, pieceID string, target engine.Coord) (*service.MoveOutcome, error) {
					return nil, engine.ErrIllegalMove
				}
			},
			expectedStatus: http.StatusConflict,
			expectedCode:   "illegal_move",
		},
		{
			name: "Unknown piece maps to 404",
			requestBody: map[string]interface{}{
				"player_id": "alice", "piece_id": "alice-rook-9", "x": 5, "y": 2,
			},
			setupMock: func(m *MockGameService) {
				m.MoveChessPieceFunc = func(ctx context.Context, sessionID, playerID, pieceID string, target engine.Coord) (*service.MoveOutcome, error) {
					return nil, engine.ErrPieceNotFound
				}
			},
			expectedStatus: http.StatusNotFound,
			expectedCode:   "piece_not_found",
		},
		{
			name: "Missing piece_id rejected by schema",
			requestBody: map[string]interface{}{
				"player_id": "alice", "x": 5, "y": 2,
			},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &MockGameService{}
			if tt.setupMock != nil {
				tt.setupMock(mockService)
			}

			server := setupTestServer(mockService)
			w := httptest.NewRecorder()
			server.ServeHTTP(w, makeRequest("POST", "/api/sessions/sess-1/move", tt.requestBody))

			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d: %s", tt.expectedStatus, w.Code, w.Body.String())
			}
			if tt.expectedCode != "" {
				var resp map[string]string
				parseResponse(t, w, &resp)
				if resp["code"] != tt.expectedCode {
					t.Errorf("Expected code %q, got %q", tt.expectedCode, resp["code"])
				}
			}
		})
	}
}

func TestPromotePawn(t *testing.T) {
	mockService := &MockGameService{}
	var gotType engine.PieceType
	mockService.PromotePawnFunc = func(ctx context.Context, sessionID, playerID, pieceID string, newType engine.PieceType) (*service.ActionResult, error) {
		gotType = newType
		return &service.ActionResult{GameState: &engine.GameSnapshot{}}, nil
	}

	server := setupTestServer(mockService)
	w := httptest.NewRecorder()
	server.ServeHTTP(w, makeRequest("POST", "/api/sessions/sess-1/promote", map[string]interface{}{
		"player_id": "alice", "piece_id": "alice-pawn-2", "new_type": "queen",
	}))

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	if gotType != engine.Queen {
		t.Errorf("Expected queen promotion, got %s", gotType)
	}

	// Kings are never a promotion target; the schema enum blocks it before
	// the service sees the request.
	w = httptest.NewRecorder()
	server.ServeHTTP(w, makeRequest("POST", "/api/sessions/sess-1/promote", map[string]interface{}{
		"player_id": "alice", "piece_id": "alice-pawn-2", "new_type": "king",
	}))
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 for king promotion, got %d", w.Code)
	}
}

func TestSkipPauseResume(t *testing.T) {
	mockService := &MockGameService{}
	mockService.RequestPauseFunc = func(ctx context.Context, sessionID, playerID string) (*service.PauseOutcome, error) {
		return &service.PauseOutcome{
			ExpiresAt: time.Now().Add(30 * time.Second),
			GameState: &engine.GameSnapshot{},
		}, nil
	}

	server := setupTestServer(mockService)

	for _, action := range []string{"skip", "pause", "resume"} {
		w := httptest.NewRecorder()
		server.ServeHTTP(w, makeRequest("POST", "/api/sessions/sess-1/"+action, map[string]interface{}{
			"player_id": "alice",
		}))
		if w.Code != http.StatusOK {
			t.Errorf("%s: expected status 200, got %d: %s", action, w.Code, w.Body.String())
		}

		w = httptest.NewRecorder()
		server.ServeHTTP(w, makeRequest("POST", "/api/sessions/sess-1/"+action, nil))
		if w.Code != http.StatusBadRequest {
			t.Errorf("%s: expected status 400 without player_id, got %d", action, w.Code)
		}
	}

	mockService.SkipChessMoveFunc = func(ctx context.Context, sessionID, playerID string) (*service.ActionResult, error) {
		return nil, engine.ErrSkipDenied
	}
	w := httptest.NewRecorder()
	server.ServeHTTP(w, makeRequest("POST", "/api/sessions/sess-1/skip", map[string]interface{}{
		"player_id": "alice",
	}))
	if w.Code != http.StatusConflict {
		t.Errorf("Expected status 409 for denied skip, got %d", w.Code)
	}
	var resp map[string]string
	parseResponse(t, w, &resp)
	if resp["code"] != "skip_denied" {
		t.Errorf("Expected code skip_denied, got %q", resp["code"])
	}
}

func TestGetLegalMoves(t *testing.T) {
	mockService := &MockGameService{}
	mockService.GetLegalMovesFunc = func(ctx context.Context, sessionID, playerID, pieceID string) (*service.LegalMovesResult, error) {
		if playerID != "alice" || pieceID != "alice-rook-1" {
			t.Errorf("Unexpected lookup: player=%s piece=%s", playerID, pieceID)
		}
		return &service.LegalMovesResult{
			PieceID: pieceID,
			Moves:   []engine.Coord{{X: 1, Y: 0}, {X: 2, Y: 0}},
			CanSkip: false,
		}, nil
	}

	server := setupTestServer(mockService)
	w := httptest.NewRecorder()
	server.ServeHTTP(w, makeRequest("GET", "/api/sessions/sess-1/moves?player=alice&piece=alice-rook-1", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp service.LegalMovesResult
	parseResponse(t, w, &resp)
	if len(resp.Moves) != 2 {
		t.Errorf("Expected 2 moves, got %d", len(resp.Moves))
	}

	// Missing query parameters
	w = httptest.NewRecorder()
	server.ServeHTTP(w, makeRequest("GET", "/api/sessions/sess-1/moves", nil))
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 without query params, got %d", w.Code)
	}
}

func TestGetGameState(t *testing.T) {
	mockService := &MockGameService{}
	mockService.GetGameStateFunc = func(ctx context.Context, sessionID string) (*engine.GameSnapshot, error) {
		return &engine.GameSnapshot{ConfigName: "standard"}, nil
	}

	server := setupTestServer(mockService)
	w := httptest.NewRecorder()
	server.ServeHTTP(w, makeRequest("GET", "/api/sessions/sess-1/state", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	mockService.GetGameStateFunc = func(ctx context.Context, sessionID string) (*engine.GameSnapshot, error) {
		return nil, fmt.Errorf("session not found: %s", sessionID)
	}
	w = httptest.NewRecorder()
	server.ServeHTTP(w, makeRequest("GET", "/api/sessions/missing/state", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
}

// Configuration Tests

func TestConfigEndpoints(t *testing.T) {
	mockService := &MockGameService{}
	mockService.ListConfigsFunc = func(ctx context.Context) ([]*service.ConfigInfo, error) {
		return []*service.ConfigInfo{
			{ConfigID: "standard", Name: "Standard", MaxPlayers: 4},
			{ConfigID: "blitz", Name: "Blitz", MaxPlayers: 2},
		}, nil
	}

	server := setupTestServer(mockService)
	w := httptest.NewRecorder()
	server.ServeHTTP(w, makeRequest("GET", "/api/configs", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	var configs []*service.ConfigInfo
	parseResponse(t, w, &configs)
	if len(configs) != 2 {
		t.Errorf("Expected 2 configs, got %d", len(configs))
	}

	// .json suffix stripped on lookup
	requested := ""
	mockService.LoadConfigFunc = func(ctx context.Context, configName string) (*engine.GameConfig, error) {
		requested = configName
		return &engine.GameConfig{Name: configName}, nil
	}
	w = httptest.NewRecorder()
	server.ServeHTTP(w, makeRequest("GET", "/api/configs/standard.json", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if requested != "standard" {
		t.Errorf("Expected lookup of 'standard', got %q", requested)
	}

	// Save config requires a name
	w = httptest.NewRecorder()
	server.ServeHTTP(w, makeRequest("POST", "/api/configs", map[string]interface{}{
		"description": "nameless",
	}))
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 for nameless config, got %d", w.Code)
	}

	saved := ""
	mockService.SaveConfigFunc = func(ctx context.Context, configName string, config *engine.GameConfig) error {
		saved = configName
		return nil
	}
	w = httptest.NewRecorder()
	server.ServeHTTP(w, makeRequest("POST", "/api/configs", map[string]interface{}{
		"name": "custom", "description": "Custom rules",
	}))
	if w.Code != http.StatusCreated {
		t.Errorf("Expected status 201, got %d: %s", w.Code, w.Body.String())
	}
	if saved != "custom" {
		t.Errorf("Expected 'custom' saved, got %q", saved)
	}
}

func TestHealthEndpoint(t *testing.T) {
	server := setupTestServer(&MockGameService{})
	w := httptest.NewRecorder()
	server.ServeHTTP(w, makeRequest("GET", "/api/health", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	var resp map[string]string
	parseResponse(t, w, &resp)
	if resp["status"] != "healthy" {
		t.Errorf("Expected status healthy, got %q", resp["status"])
	}
}

func TestWebSocketEndpointValidation(t *testing.T) {
	server := setupTestServer(&MockGameService{})

	// Missing session parameter
	w := httptest.NewRecorder()
	server.ServeHTTP(w, httptest.NewRequest("GET", "/ws", nil))
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 without session, got %d", w.Code)
	}

	// Unknown session
	mockService := &MockGameService{
		GetGameStateFunc: func(ctx context.Context, sessionID string) (*engine.GameSnapshot, error) {
			return nil, fmt.Errorf("session not found: %s", sessionID)
		},
	}
	server = setupTestServer(mockService)
	w = httptest.NewRecorder()
	server.ServeHTTP(w, httptest.NewRequest("GET", "/ws?session=missing", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404 for unknown session, got %d", w.Code)
	}
}
