// Package mcpserver exposes the game as Model Context Protocol tools so an
// agent can play over stdio. Every game is a session keyed by id.
package mcpserver

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/vovakirdan/merge2048/internal/config"
	"github.com/vovakirdan/merge2048/internal/game"
	"github.com/vovakirdan/merge2048/internal/grid"
	"github.com/vovakirdan/merge2048/internal/logging"
	"github.com/vovakirdan/merge2048/internal/registry"
	"github.com/vovakirdan/merge2048/internal/storage"
)

// Version is reported to MCP clients.
const Version = "1.0.0"

// ErrUnknownSession is returned for a session id that is not open.
var ErrUnknownSession = errors.New("mcpserver: unknown session")

type session struct {
	id    string
	ctrl  *game.Controller
	snap  game.Snapshot
	seed  int64
	saved bool
}

// Server owns the open game sessions and the MCP tool registrations.
type Server struct {
	mu       sync.Mutex
	sessions map[string]*session

	board  config.BoardConfig
	store  *storage.Store // nil disables the run journal
	logger *log.Logger
	mcp    *server.MCPServer
}

// New creates a server whose new games default to board.
func New(board config.BoardConfig, store *storage.Store, logger *log.Logger) *Server {
	if logger == nil {
		logger = logging.Discard()
	}
	s := &Server{
		sessions: make(map[string]*session),
		board:    board,
		store:    store,
		logger:   logger,
	}
	s.initMCPServer()
	return s
}

// initMCPServer initializes the MCP server with all tools
func (s *Server) initMCPServer() {
	s.mcp = server.NewMCPServer(
		"merge2048",
		Version,
		server.WithToolCapabilities(true),
		server.WithInstructions(`merge2048 - tile merging on a rectangular board

Every turn one tile of value 2 appears on a random empty cell, then you shift
the board up, down, left or right. Equal neighbours merge into their sum; a
tile merges at most once per shift. Reaching the win value (2048 by default)
is announced but play continues. The game is lost when a turn begins with
every cell occupied.

AVAILABLE TOOLS:
- new_game: start a game (optional preset, rows, cols, win_value, seed)
- shift: apply one direction, or "none" to pass the turn
- game_state: show a game without changing it
- end_game: close a game and record it
- list_presets: list named board shapes`),
	)

	s.registerTools()
}

// registerTools registers all MCP tools
func (s *Server) registerTools() {
	s.mcp.AddTool(mcp.Tool{
		Name:        "new_game",
		Description: "Start a new game and return its session id and first board",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"preset": map[string]interface{}{
					"type":        "string",
					"description": "Named board shape (see list_presets)",
				},
				"rows": map[string]interface{}{
					"type":        "integer",
					"description": "Board rows, overrides the preset",
				},
				"cols": map[string]interface{}{
					"type":        "integer",
					"description": "Board columns, overrides the preset",
				},
				"win_value": map[string]interface{}{
					"type":        "integer",
					"description": "Winning tile, a power of two >= 4",
				},
				"seed": map[string]interface{}{
					"type":        "integer",
					"description": "Random seed for reproducible spawns",
				},
			},
		},
	}, s.handleNewGame)

	s.mcp.AddTool(mcp.Tool{
		Name:        "shift",
		Description: "Shift the board in a direction and run the rest of the turn",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
				"direction": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"up", "down", "left", "right", "none"},
					"description": "Direction to shift; none passes the turn",
				},
			},
			Required: []string{"session_id", "direction"},
		},
	}, s.handleShift)

	s.mcp.AddTool(mcp.Tool{
		Name:        "game_state",
		Description: "Get the current board and state of a game",
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
	}, s.handleGameState)

	s.mcp.AddTool(mcp.Tool{
		Name:        "end_game",
		Description: "Close a game, recording it in the run journal",
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
	}, s.handleEndGame)

	s.mcp.AddTool(mcp.Tool{
		Name:        "list_presets",
		Description: "List the named board shapes",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, s.handleListPresets)
}

// ServeStdio serves MCP over stdin/stdout until the client disconnects.
func (s *Server) ServeStdio() error {
	s.logger.Info("serving MCP over stdio", "board", fmt.Sprintf("%dx%d", s.board.Rows, s.board.Cols))
	err := server.ServeStdio(s.mcp)
	s.closeAll()
	return err
}

// closeAll journals every open game as quit.
func (s *Server) closeAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, sess := range s.sessions {
		s.journal(sess)
		delete(s.sessions, id)
	}
}

// journal records a session once.
func (s *Server) journal(sess *session) {
	if sess.saved {
		return
	}
	sess.saved = true
	if s.store == nil {
		return
	}
	if _, err := s.store.SaveRun(storage.NewRun(sess.snap, storage.SourceMCP, sess.seed)); err != nil {
		s.logger.Warn("could not journal run", "session", sess.id, "error", err)
	}
}

func (s *Server) handleNewGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := request.Params.Arguments.(map[string]interface{})

	board := s.board
	if preset, _ := args["preset"].(string); preset != "" {
		p, err := registry.Lookup(preset)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		board = config.BoardConfig{Rows: p.Rows, Cols: p.Cols, WinValue: p.WinValue}
	}
	if v, ok := intArg(args, "rows"); ok {
		board.Rows = v
	}
	if v, ok := intArg(args, "cols"); ok {
		board.Cols = v
	}
	if v, ok := intArg(args, "win_value"); ok {
		board.WinValue = v
	}

	g, err := grid.New(board.Rows, board.Cols, board.WinValue)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	seed := time.Now().UnixNano()
	if v, ok := intArg(args, "seed"); ok && v != 0 {
		seed = int64(v)
	}

	id := uuid.NewString()
	sess := &session{
		id:   id,
		ctrl: game.NewController(g, game.WithSeed(seed), game.WithLogger(s.logger.With("session", id))),
		seed: seed,
	}
	sess.snap = sess.ctrl.Start()

	s.mu.Lock()
	s.sessions[id] = sess
	s.mu.Unlock()

	s.logger.Info("game created", "session", id, "board", fmt.Sprintf("%dx%d", board.Rows, board.Cols), "seed", seed)
	return mcp.NewToolResultText(formatSession(id, sess.snap)), nil
}

func (s *Server) handleShift(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)
	direction, _ := args["direction"].(string)

	in, err := parseInput(direction)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[sessionID]
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("%v: %q", ErrUnknownSession, sessionID)), nil
	}
	if sess.snap.Over() {
		return mcp.NewToolResultError("game is over; call end_game to close it"), nil
	}

	sess.snap = sess.ctrl.Apply(in)
	if sess.snap.Over() {
		s.journal(sess)
	}

	return mcp.NewToolResultText(formatSession(sessionID, sess.snap)), nil
}

func (s *Server) handleGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[sessionID]
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("%v: %q", ErrUnknownSession, sessionID)), nil
	}
	return mcp.NewToolResultText(formatSession(sessionID, sess.snap)), nil
}

func (s *Server) handleEndGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[sessionID]
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("%v: %q", ErrUnknownSession, sessionID)), nil
	}
	s.journal(sess)
	delete(s.sessions, sessionID)

	outcome := storage.NewRun(sess.snap, storage.SourceMCP, sess.seed).Outcome
	s.logger.Info("game ended", "session", sessionID, "turns", sess.snap.Turn, "outcome", outcome)
	return mcp.NewToolResultText(fmt.Sprintf("Game %s ended after %d turns (%s), max tile %d.",
		sessionID, sess.snap.Turn, outcome, sess.snap.MaxTile)), nil
}

func (s *Server) handleListPresets(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var b strings.Builder
	for _, p := range registry.List() {
		fmt.Fprintf(&b, "%-10s %-6s win %-5d %s\n", p.ID, p.Size(), p.WinValue, p.Title)
	}
	return mcp.NewToolResultText(b.String()), nil
}

// Sessions returns the ids of open games, sorted.
func (s *Server) Sessions() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]string, 0, len(s.sessions))
	for id := range s.sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// parseInput maps a tool direction to a turn input. "none" passes.
func parseInput(direction string) (game.Input, error) {
	if strings.EqualFold(strings.TrimSpace(direction), "none") {
		return game.Input{}, nil
	}
	d, ok := grid.ParseDirection(direction)
	if !ok {
		return game.Input{}, fmt.Errorf("invalid direction %q: use up, down, left, right or none", direction)
	}
	return game.Move(d), nil
}

// intArg reads a JSON number argument.
func intArg(args map[string]interface{}, name string) (int, bool) {
	switch v := args[name].(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	case int64:
		return int(v), true
	}
	return 0, false
}

// formatSession renders a snapshot for a tool result.
func formatSession(id string, snap game.Snapshot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Session: %s\n", id)
	fmt.Fprintf(&b, "Turn: %d  State: %s  Max tile: %d  Win at: %d\n", snap.Turn, snap.State, snap.MaxTile, snap.WinValue)
	if snap.LastMove != "" {
		fmt.Fprintf(&b, "Last move: %s\n", snap.LastMove)
	}
	if snap.Spawned {
		fmt.Fprintf(&b, "New tile at row %d, col %d\n", snap.LastSpawn.Row+1, snap.LastSpawn.Col+1)
	}
	b.WriteString("\n")
	b.WriteString(snap.Text())
	return b.String()
}
