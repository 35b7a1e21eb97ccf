package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/tetrachess/server/game/engine"
	"github.com/tetrachess/server/game/service"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Tetrachess Game",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Tetrachess - MCP Interface

This is a thin client that proxies all requests to the REST API server.

GAME OBJECTIVE:
Eliminate every other king. Each turn you drop one tetromino to grow your
territory, then move one chess piece. Lines of same-owner cells clear and
take pieces standing on them with them - except kings and your home zone.

AVAILABLE TOOLS:
- create_session: Create new game session
- join_game: Take a seat (spawns your home zone, king and 15 pieces)
- game_state: Get current board, pieces, and every player's phase
- place_tetromino: Drop a tetromino (must touch your territory and keep a path to your king)
- move_piece: Move a chess piece - requires intent explanation
- legal_moves: List legal destinations for one of your pieces
- promote_pawn: Promote a pawn that reached an enemy home zone
- skip_chess: Skip the chess half of your turn
- request_pause: Spend energy to freeze your pieces (kings stay capturable)
- resume_game: End your pause early
- get_session / list_sessions / list_configs: Session and config management
- game_instructions: Get comprehensive game rules

NOTE: The 'intent' parameter on move_piece serves as rubber duck debugging - explain your reasoning!`),
	)

	// Register all tools
	c.registerTools()
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new game session with optional config selection",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"config_id": map[string]interface{}{
					"type":        "string",
					"description": "Name of the config to use (optional)",
				},
			},
		},
	}, c.handleCreateSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active game sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListSessions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_session",
		Description: "Get details of a specific session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID to retrieve",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleGetSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "join_game",
		Description: "Join a session as a new player. Spawns a home zone with a king and fifteen pieces.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
				"player_id": map[string]interface{}{
					"type":        "string",
					"description": "Identifier for the joining player",
				},
			},
			Required: []string{"session_id", "player_id"},
		},
	}, c.handleJoinGame)

	// Game operations
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_state",
		Description: "Get the current game state",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleGameState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "place_tetromino",
		Description: "Drop a tetromino onto the board. It must touch your territory orthogonally and keep a path to your king, or it explodes and the turn is consumed.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
				"player_id": map[string]interface{}{
					"type":        "string",
					"description": "Acting player",
				},
				"shape": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"I", "O", "T", "S", "Z", "J", "L"},
					"description": "Tetromino shape",
				},
				"rotation": map[string]interface{}{
					"type":        "integer",
					"description": "Quarter-turn rotations (0-3)",
				},
				"x": map[string]interface{}{
					"type":        "integer",
					"description": "X coordinate of the shape anchor",
				},
				"y": map[string]interface{}{
					"type":        "integer",
					"description": "Y coordinate of the shape anchor",
				},
			},
			Required: []string{"session_id", "player_id", "shape", "x", "y"},
		},
	}, c.handlePlaceTetromino)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "move_piece",
		Description: "Move one of your chess pieces. Pieces travel only over your own cells and no-man's-land.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
				"player_id": map[string]interface{}{
					"type":        "string",
					"description": "Acting player",
				},
				"piece_id": map[string]interface{}{
					"type":        "string",
					"description": "Piece to move",
				},
				"x": map[string]interface{}{
					"type":        "integer",
					"description": "Target X coordinate",
				},
				"y": map[string]interface{}{
					"type":        "integer",
					"description": "Target Y coordinate",
				},
				"intent": map[string]interface{}{
					"type":        "string",
					"description": "Brief explanation of the intent behind this move (serves as a rubber duck to help explain your reasoning)",
				},
			},
			Required: []string{"session_id", "player_id", "piece_id", "x", "y"},
		},
	}, c.handleMovePiece)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "legal_moves",
		Description: "List every legal destination for one of your pieces, and whether skipping is currently allowed.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
				"player_id": map[string]interface{}{
					"type":        "string",
					"description": "Owning player",
				},
				"piece_id": map[string]interface{}{
					"type":        "string",
					"description": "Piece to inspect",
				},
			},
			Required: []string{"session_id", "player_id", "piece_id"},
		},
	}, c.handleLegalMoves)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "promote_pawn",
		Description: "Promote a pawn standing in an enemy home zone. Must happen within the grace window or the pawn is lost.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
				"player_id": map[string]interface{}{
					"type":        "string",
					"description": "Acting player",
				},
				"piece_id": map[string]interface{}{
					"type":        "string",
					"description": "Pawn to promote",
				},
				"new_type": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"rook", "knight", "bishop", "queen"},
					"description": "Piece type to promote to",
				},
			},
			Required: []string{"session_id", "player_id", "piece_id", "new_type"},
		},
	}, c.handlePromotePawn)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "skip_chess",
		Description: "Skip the chess half of your turn and return to tetromino placement",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
				"player_id": map[string]interface{}{
					"type":        "string",
					"description": "Acting player",
				},
			},
			Required: []string{"session_id", "player_id"},
		},
	}, c.handleSkipChess)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "request_pause",
		Description: "Spend energy to pause. Your pieces freeze and cannot be captured, except your king, which stays vulnerable.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
				"player_id": map[string]interface{}{
					"type":        "string",
					"description": "Pausing player",
				},
			},
			Required: []string{"session_id", "player_id"},
		},
	}, c.handleRequestPause)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "resume_game",
		Description: "End your pause early. Starts the pause cooldown.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
				"player_id": map[string]interface{}{
					"type":        "string",
					"description": "Resuming player",
				},
			},
			Required: []string{"session_id", "player_id"},
		},
	}, c.handleResumeGame)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_configs",
		Description: "List available game configurations",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListConfigs)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_instructions",
		Description: "Get comprehensive game instructions and rules",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleGameInstructions)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) apiCall(method, path string, body interface{}, result interface{}) error {
	url := c.baseURL + path

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequest(method, url, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			if code, ok := errResp["code"]; ok && code != "" {
				return fmt.Errorf("%s (%s)", msg, code)
			}
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

// Tool handlers

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	configID, _ := args["config_id"].(string)

	body := map[string]string{}
	if configID != "" {
		body["config_id"] = configID
	}

	var session service.SessionInfo
	err := c.apiCall("POST", "/api/sessions", body, &session)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Created session: %s\nConfig: %s\n", session.ID, session.ConfigName)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count    int                   `json:"count"`
		Sessions []service.SessionInfo `json:"sessions"`
	}

	err := c.apiCall("GET", "/api/sessions", nil, &response)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Active Sessions (%d):\n\n", response.Count)
	for _, s := range response.Sessions {
		players := 0
		if s.GameState != nil {
			players = len(s.GameState.Players)
		}
		result += fmt.Sprintf("- %s (Config: %s, Players: %d, Created: %s)\n",
			s.ID, s.ConfigName, players, s.CreatedAt.Format("15:04:05"))
	}

	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	var session service.SessionInfo
	err := c.apiCall("GET", fmt.Sprintf("/api/sessions/%s", sessionID), nil, &session)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := formatSessionInfo(&session)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleJoinGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)
	playerID, _ := args["player_id"].(string)

	var result service.JoinResult
	err := c.apiCall("POST", fmt.Sprintf("/api/sessions/%s/players", sessionID),
		map[string]string{"player_id": playerID}, &result)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	response := fmt.Sprintf("Joined session %s as %s\n\n%s",
		sessionID, result.PlayerID, formatGameState(result.GameState))
	return mcp.NewToolResultText(response), nil
}

func (c *Client) handleGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	var state engine.GameSnapshot
	err := c.apiCall("GET", fmt.Sprintf("/api/sessions/%s/state", sessionID), nil, &state)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := formatGameState(&state)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handlePlaceTetromino(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)
	playerID, _ := args["player_id"].(string)
	shape, _ := args["shape"].(string)
	rotation := 0
	if r, ok := args["rotation"].(float64); ok {
		rotation = int(r)
	}
	x := int(args["x"].(float64))
	y := int(args["y"].(float64))

	body := map[string]interface{}{
		"player_id": playerID,
		"shape":     shape,
		"rotation":  rotation,
		"x":         x,
		"y":         y,
	}

	var result service.PlaceResult
	err := c.apiCall("POST", fmt.Sprintf("/api/sessions/%s/tetromino", sessionID), body, &result)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	response := formatPlaceResult(&result)
	return mcp.NewToolResultText(response), nil
}

func (c *Client) handleMovePiece(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)
	playerID, _ := args["player_id"].(string)
	pieceID, _ := args["piece_id"].(string)
	x := int(args["x"].(float64))
	y := int(args["y"].(float64))
	intent, _ := args["intent"].(string)

	// Intent parameter serves as rubber duck debugging - we don't need to process it further
	_ = intent

	body := map[string]interface{}{
		"player_id": playerID,
		"piece_id":  pieceID,
		"x":         x,
		"y":         y,
	}

	var result service.MoveOutcome
	err := c.apiCall("POST", fmt.Sprintf("/api/sessions/%s/move", sessionID), body, &result)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	response := formatMoveOutcome(&result)
	return mcp.NewToolResultText(response), nil
}

func (c *Client) handleLegalMoves(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)
	playerID, _ := args["player_id"].(string)
	pieceID, _ := args["piece_id"].(string)

	var result service.LegalMovesResult
	path := fmt.Sprintf("/api/sessions/%s/moves?player=%s&piece=%s", sessionID, playerID, pieceID)
	err := c.apiCall("GET", path, nil, &result)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("Legal moves for %s (%d):\n", result.PieceID, len(result.Moves)))
	for _, m := range result.Moves {
		b.WriteString(fmt.Sprintf("- (%d,%d)\n", m.X, m.Y))
	}
	if result.CanSkip {
		b.WriteString("\nSkipping the chess move is currently allowed.")
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handlePromotePawn(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)
	playerID, _ := args["player_id"].(string)
	pieceID, _ := args["piece_id"].(string)
	newType, _ := args["new_type"].(string)

	body := map[string]interface{}{
		"player_id": playerID,
		"piece_id":  pieceID,
		"new_type":  newType,
	}

	var result service.ActionResult
	err := c.apiCall("POST", fmt.Sprintf("/api/sessions/%s/promote", sessionID), body, &result)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	response := fmt.Sprintf("Promoted %s to %s\n\n%s", pieceID, newType, formatGameState(result.GameState))
	return mcp.NewToolResultText(response), nil
}

func (c *Client) handleSkipChess(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)
	playerID, _ := args["player_id"].(string)

	var result service.ActionResult
	err := c.apiCall("POST", fmt.Sprintf("/api/sessions/%s/skip", sessionID),
		map[string]string{"player_id": playerID}, &result)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	response := "Chess move skipped\n\n" + formatGameState(result.GameState)
	return mcp.NewToolResultText(response), nil
}

func (c *Client) handleRequestPause(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)
	playerID, _ := args["player_id"].(string)

	var result service.PauseOutcome
	err := c.apiCall("POST", fmt.Sprintf("/api/sessions/%s/pause", sessionID),
		map[string]string{"player_id": playerID}, &result)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	response := fmt.Sprintf("Paused until %s\n\n%s",
		result.ExpiresAt.Format("15:04:05"), formatGameState(result.GameState))
	return mcp.NewToolResultText(response), nil
}

func (c *Client) handleResumeGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)
	playerID, _ := args["player_id"].(string)

	var result service.ResumeOutcome
	err := c.apiCall("POST", fmt.Sprintf("/api/sessions/%s/resume", sessionID),
		map[string]string{"player_id": playerID}, &result)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	response := fmt.Sprintf("Resumed. Pause cooldown until %s\n\n%s",
		result.CooldownUntil.Format("15:04:05"), formatGameState(result.GameState))
	return mcp.NewToolResultText(response), nil
}

func (c *Client) handleListConfigs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var configs []service.ConfigInfo
	err := c.apiCall("GET", "/api/configs", nil, &configs)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := "Available Configurations:\n\n"
	for _, config := range configs {
		result += fmt.Sprintf("• %s\n  %s\n  Board extent: ±%d, Line length: %d, Max players: %d\n\n",
			config.Name, config.Description, config.BoardExtent, config.LineLength, config.MaxPlayers)
	}

	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	instructions := `Tetrachess - Complete Instructions

GAME OBJECTIVE:
Be the last king standing. A player is eliminated when their king is captured.

TURN STRUCTURE (per player, asynchronous):
1. Tetromino phase: drop one tetromino to grow your territory.
2. Chess phase: move one of your pieces, then back to the tetromino phase.
Each phase has a minimum dwell time, so you cannot machine-gun actions.
You may skip the chess move; if you have no legal move, you must skip.

TETROMINO PLACEMENT RULES:
- All four cells must be inside the board and unoccupied.
- At least one cell must touch your territory orthogonally (diagonals never count).
- The new cells must keep an orthogonal path to your king over your own
  cells and no-man's-land. A placement that fails adjacency or the path
  check EXPLODES: no cells are added and your turn is still consumed.

LINE CLEARS:
- A straight run of same-owner cells at least the configured length clears,
  on any of the four axes (row, column, both diagonals).
- Pieces standing on cleared cells are removed with them - EXCEPT kings.
- Home-zone cells never clear. A cleared king's cell keeps the king; the
  cell survives too.

CHESS RULES:
- Standard piece movement, adapted to sparse territory: pieces travel only
  over your own cells and no-man's-land. Holes block sliders; knights jump
  holes but still need a landing cell.
- Pawns move one step orthogonally and capture diagonally.
- Captures only target enemy pieces on cells you can reach.
- Pawn promotion: a pawn that reaches an enemy home zone may promote to
  rook, knight, bishop or queen - but only within a grace window.

HOME ZONES:
- Your spawn area. Its cells never clear and degrade over time.
- Enemy pawns promoting in your zone is how sieges usually end.

ENERGY AND PAUSES:
- Energy regenerates over time and is spent to pause.
- While paused your pieces freeze and cannot be captured - except your
  KING, which always stays capturable. Do not pause to turtle.
- Resuming early starts the pause cooldown.

STRATEGY NOTES FOR AI AGENTS:
- Territory is tempo: every tetromino that attaches safely is future
  mobility for your sliders.
- Watch the path-to-king constraint: an aggressive placement that would
  isolate cells from your king explodes and wastes the turn.
- Line clears are double-edged: clearing through your own pieces removes
  them. Count who is standing on the run before completing it.
- Use legal_moves before move_piece; illegal moves are rejected but the
  round trip costs you wall-clock time against faster opponents.
- Paused opponents are walls, not targets - except their king.

SESSION MANAGEMENT:
- Multiple game sessions can run simultaneously.
- Each session has a unique 8-character ID.
- One MCP client can drive several players; supply player_id per call.`

	return mcp.NewToolResultText(instructions), nil
}

// Formatting helpers

func formatSessionInfo(session *service.SessionInfo) string {
	return fmt.Sprintf("Session: %s\nConfig: %s\nCreated: %s\n\n%s",
		session.ID, session.ConfigName,
		session.CreatedAt.Format("2006-01-02 15:04:05"),
		formatGameState(session.GameState))
}

func formatGameState(state *engine.GameSnapshot) string {
	if state == nil {
		return "No game state available"
	}

	var result strings.Builder

	result.WriteString(fmt.Sprintf("Config: %s | Cells: %d | Pieces: %d\n",
		state.ConfigName, len(state.Cells), len(state.Pieces)))

	for _, p := range state.Players {
		status := string(p.Phase)
		if p.Eliminated {
			status = "eliminated"
		} else if p.Paused {
			status = fmt.Sprintf("paused until %s", p.PauseExpiresAt.Format("15:04:05"))
		}
		result.WriteString(fmt.Sprintf("- %s: %s | energy %d/%d", p.ID, status, p.Energy, p.EnergyMax))
		if p.CanSkipChess {
			result.WriteString(" | may skip")
		}
		if len(p.PromotablePawn) > 0 {
			result.WriteString(fmt.Sprintf(" | promotable: %s", strings.Join(p.PromotablePawn, ",")))
		}
		result.WriteString("\n")
	}

	if board := renderBoard(state); board != "" {
		result.WriteString("\n")
		result.WriteString(board)
	}

	if state.GameOver {
		if state.Winner != "" {
			result.WriteString(fmt.Sprintf("\n🎉 GAME OVER - winner: %s", state.Winner))
		} else {
			result.WriteString("\n🎉 GAME OVER - draw")
		}
	}

	return result.String()
}

// renderBoard draws the occupied bounding box of the sparse board, one
// character per cell. Boards wider than maxRenderSpan are summarized per
// owner instead of drawn.
const maxRenderSpan = 64

func renderBoard(state *engine.GameSnapshot) string {
	if len(state.Cells) == 0 {
		return ""
	}

	minX, minY := state.Cells[0].Pos.X, state.Cells[0].Pos.Y
	maxX, maxY := minX, minY
	for _, cv := range state.Cells {
		if cv.Pos.X < minX {
			minX = cv.Pos.X
		}
		if cv.Pos.X > maxX {
			maxX = cv.Pos.X
		}
		if cv.Pos.Y < minY {
			minY = cv.Pos.Y
		}
		if cv.Pos.Y > maxY {
			maxY = cv.Pos.Y
		}
	}

	if maxX-minX+1 > maxRenderSpan || maxY-minY+1 > maxRenderSpan {
		return summarizeBoard(state)
	}

	cells := make(map[engine.Coord]engine.Cell, len(state.Cells))
	for _, cv := range state.Cells {
		cells[cv.Pos] = cv.Cell
	}
	pieces := make(map[engine.Coord]engine.Piece, len(state.Pieces))
	for _, p := range state.Pieces {
		pieces[p.Pos] = p
	}

	// Stable owner initials so two players render distinctly.
	owners := ownerInitials(state)

	var b strings.Builder
	b.WriteString(fmt.Sprintf("Board [%d..%d]x[%d..%d] ('.'=empty, '='=no-man's-land, letters=pieces):\n",
		minX, maxX, minY, maxY))
	for y := maxY; y >= minY; y-- {
		for x := minX; x <= maxX; x++ {
			pos := engine.Coord{X: x, Y: y}
			if p, ok := pieces[pos]; ok {
				b.WriteString(pieceChar(p))
				continue
			}
			cell, ok := cells[pos]
			switch {
			case !ok:
				b.WriteString(".")
			case cell.Type == engine.CellNoMansLand:
				b.WriteString("=")
			case cell.Type == engine.CellHomeZone:
				b.WriteString(strings.ToUpper(owners[cell.Owner]))
			default:
				b.WriteString(owners[cell.Owner])
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

// pieceChar maps a piece to a single display character. The owner is not
// encoded; use the player listing and territory letters to disambiguate.
func pieceChar(p engine.Piece) string {
	switch p.Type {
	case engine.Pawn:
		return "p"
	case engine.Rook:
		return "r"
	case engine.Knight:
		return "n"
	case engine.Bishop:
		return "b"
	case engine.Queen:
		return "q"
	case engine.King:
		return "K"
	default:
		return "?"
	}
}

// ownerInitials assigns a distinct lowercase letter per owner, preferring
// the first character of the owner's ID.
func ownerInitials(state *engine.GameSnapshot) map[string]string {
	initials := make(map[string]string)
	used := make(map[string]bool)
	ids := make([]string, 0, len(state.Players))
	for _, p := range state.Players {
		ids = append(ids, p.ID)
	}
	sort.Strings(ids)
	for _, id := range ids {
		ch := "x"
		if id != "" {
			ch = strings.ToLower(id[:1])
		}
		for used[ch] {
			ch = string(rune(ch[0]) + 1)
		}
		used[ch] = true
		initials[id] = ch
	}
	return initials
}

func summarizeBoard(state *engine.GameSnapshot) string {
	counts := make(map[string]int)
	for _, cv := range state.Cells {
		owner := cv.Cell.Owner
		if cv.Cell.Type == engine.CellNoMansLand {
			owner = "(no-man's-land)"
		}
		counts[owner]++
	}
	owners := make([]string, 0, len(counts))
	for o := range counts {
		owners = append(owners, o)
	}
	sort.Strings(owners)

	var b strings.Builder
	b.WriteString("Board too large to render; cell counts per owner:\n")
	for _, o := range owners {
		b.WriteString(fmt.Sprintf("- %s: %d\n", o, counts[o]))
	}
	return b.String()
}

func formatPlaceResult(result *service.PlaceResult) string {
	var b strings.Builder
	if result.Outcome == engine.OutcomeAttached {
		b.WriteString("✓ Tetromino attached\n")
		for _, c := range result.Cells {
			b.WriteString(fmt.Sprintf("- cell (%d,%d)\n", c.X, c.Y))
		}
	} else {
		b.WriteString("✗ Tetromino EXPLODED - no cells added, turn consumed\n")
	}

	for _, group := range result.Cleared {
		b.WriteString(fmt.Sprintf("Line cleared on %s axis: %d cells\n", group.Axis, len(group.Cells)))
	}

	b.WriteString(fmt.Sprintf("Energy: %d\n\n", result.Energy))
	b.WriteString(formatGameState(result.GameState))
	return b.String()
}

func formatMoveOutcome(result *service.MoveOutcome) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("✓ Moved %s (%s) to (%d,%d)\n",
		result.Piece.ID, result.Piece.Type, result.Piece.Pos.X, result.Piece.Pos.Y))
	if result.Captured != nil {
		b.WriteString(fmt.Sprintf("Captured %s (%s owned by %s)\n",
			result.Captured.ID, result.Captured.Type, result.Captured.Owner))
	}
	b.WriteString("\n")
	b.WriteString(formatGameState(result.GameState))
	return b.String()
}
