package mcpserver

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/vovakirdan/merge2048/internal/config"
	"github.com/vovakirdan/merge2048/internal/storage"
)

type handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error)

func call(t *testing.T, h handler, args map[string]interface{}) (string, bool) {
	t.Helper()
	request := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Arguments: args,
		},
	}
	result, err := h(context.Background(), request)
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if result == nil || len(result.Content) == 0 {
		t.Fatal("expected a result with content")
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("expected text content, got %T", result.Content[0])
	}
	return text.Text, result.IsError
}

func newTestServer(t *testing.T) (*Server, *storage.Store) {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("storage.Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return New(config.Default().Board, store, nil), store
}

func onlySession(t *testing.T, s *Server) string {
	t.Helper()
	ids := s.Sessions()
	if len(ids) != 1 {
		t.Fatalf("expected one open session, got %v", ids)
	}
	return ids[0]
}

func TestNewGameAndShift(t *testing.T) {
	s, _ := newTestServer(t)

	text, isErr := call(t, s.handleNewGame, map[string]interface{}{"preset": "classic", "seed": float64(7)})
	if isErr {
		t.Fatalf("new_game failed: %s", text)
	}
	if !strings.Contains(text, "+----+----+----+----+\n") || !strings.Contains(text, "Turn: 1") {
		t.Errorf("unexpected new_game output:\n%s", text)
	}
	id := onlySession(t, s)
	if !strings.Contains(text, id) {
		t.Error("new_game output should contain the session id")
	}

	text, isErr = call(t, s.handleShift, map[string]interface{}{"session_id": id, "direction": "left"})
	if isErr {
		t.Fatalf("shift failed: %s", text)
	}
	if !strings.Contains(text, "Turn: 2") || !strings.Contains(text, "Last move: left") {
		t.Errorf("unexpected shift output:\n%s", text)
	}

	text, _ = call(t, s.handleShift, map[string]interface{}{"session_id": id, "direction": "none"})
	if !strings.Contains(text, "Turn: 3") {
		t.Errorf("passing should still run a turn:\n%s", text)
	}

	state, _ := call(t, s.handleGameState, map[string]interface{}{"session_id": id})
	if !strings.Contains(state, "Turn: 3") {
		t.Errorf("game_state should not change the game:\n%s", state)
	}
}

func TestShiftErrors(t *testing.T) {
	s, _ := newTestServer(t)
	call(t, s.handleNewGame, map[string]interface{}{})
	id := onlySession(t, s)

	if _, isErr := call(t, s.handleShift, map[string]interface{}{"session_id": id, "direction": "sideways"}); !isErr {
		t.Error("invalid direction should be an error result")
	}
	if _, isErr := call(t, s.handleShift, map[string]interface{}{"session_id": "nope", "direction": "up"}); !isErr {
		t.Error("unknown session should be an error result")
	}
	if _, isErr := call(t, s.handleGameState, map[string]interface{}{"session_id": "nope"}); !isErr {
		t.Error("unknown session should be an error result")
	}
}

func TestNewGameValidation(t *testing.T) {
	s, _ := newTestServer(t)

	tests := []map[string]interface{}{
		{"preset": "missing"},
		{"rows": float64(0)},
		{"win_value": float64(3)},
	}
	for _, args := range tests {
		if text, isErr := call(t, s.handleNewGame, args); !isErr {
			t.Errorf("new_game(%v) should fail, got:\n%s", args, text)
		}
	}
	if len(s.Sessions()) != 0 {
		t.Error("failed new_game calls should not open sessions")
	}
}

func TestLossIsJournaledOnce(t *testing.T) {
	s, store := newTestServer(t)

	// A 1x1 board is full after the first spawn.
	call(t, s.handleNewGame, map[string]interface{}{"rows": float64(1), "cols": float64(1), "win_value": float64(4)})
	id := onlySession(t, s)

	text, _ := call(t, s.handleShift, map[string]interface{}{"session_id": id, "direction": "up"})
	if !strings.Contains(text, "State: lost") || !strings.Contains(text, "You lost the game.") {
		t.Fatalf("expected a loss:\n%s", text)
	}
	if _, isErr := call(t, s.handleShift, map[string]interface{}{"session_id": id, "direction": "up"}); !isErr {
		t.Error("shifting a finished game should be an error result")
	}

	text, isErr := call(t, s.handleEndGame, map[string]interface{}{"session_id": id})
	if isErr || !strings.Contains(text, "lost") {
		t.Errorf("end_game = %q", text)
	}
	if len(s.Sessions()) != 0 {
		t.Error("end_game should close the session")
	}

	runs, err := store.RecentRuns(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 || runs[0].Outcome != storage.OutcomeLost || runs[0].Source != storage.SourceMCP {
		t.Errorf("journal = %+v, expected one lost mcp run", runs)
	}
}

func TestEndGameQuitAndCloseAll(t *testing.T) {
	s, store := newTestServer(t)

	call(t, s.handleNewGame, map[string]interface{}{"preset": "classic"})
	id := onlySession(t, s)
	text, _ := call(t, s.handleEndGame, map[string]interface{}{"session_id": id})
	if !strings.Contains(text, "quit") {
		t.Errorf("end_game of a running game = %q", text)
	}

	call(t, s.handleNewGame, map[string]interface{}{"preset": "wide"})
	s.closeAll()
	if len(s.Sessions()) != 0 {
		t.Error("closeAll should close every session")
	}

	runs, err := store.RecentRuns(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 2 {
		t.Errorf("expected 2 journaled runs, got %d", len(runs))
	}
}

func TestListPresets(t *testing.T) {
	s, _ := newTestServer(t)
	text, isErr := call(t, s.handleListPresets, map[string]interface{}{})
	if isErr {
		t.Fatal(text)
	}
	for _, id := range []string{"strip", "classic", "wide", "large"} {
		if !strings.Contains(text, id) {
			t.Errorf("list_presets missing %q:\n%s", id, text)
		}
	}
}
