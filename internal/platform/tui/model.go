// Package tui provides the Bubble Tea front end: local full-screen play,
// the run history browser, and the SSH server that hosts both per session.
package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/merge2048/internal/core"
	"github.com/vovakirdan/merge2048/internal/game"
	"github.com/vovakirdan/merge2048/internal/logging"
	"github.com/vovakirdan/merge2048/internal/storage"
)

// Options carries the collaborators a Model reports to.
type Options struct {
	Store  *storage.Store // nil disables the run journal
	Logger *log.Logger
	Source storage.Source
}

// Model is the Bubble Tea model for one run.
// Every key press is one turn; there is no tick loop.
type Model struct {
	ctrl     *game.Controller
	snap     game.Snapshot
	screen   *core.Screen
	config   core.RuntimeConfig
	opts     Options
	keys     GameKeyMap
	help     help.Model
	saved    bool // whether the run has been journaled
	quitting bool
}

// NewModel creates a model and performs the controller's first spawn.
func NewModel(ctrl *game.Controller, cfg core.RuntimeConfig, opts Options) Model {
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	if opts.Source == "" {
		opts.Source = storage.SourceLocal
	}

	return Model{
		ctrl:   ctrl,
		snap:   ctrl.Start(),
		screen: core.NewScreen(cfg.ScreenW, boardHeight(cfg.ScreenH)),
		config: cfg,
		opts:   opts,
		keys:   DefaultGameKeyMap(),
		help:   help.New(),
	}
}

// boardHeight leaves the last terminal line for the help bar.
func boardHeight(h int) int {
	return core.Max(h-1, 1)
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg)
	}

	return m, nil
}

// handleKey runs one turn per key press.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Screenshot) {
		m.saveScreenshot()
		return m, nil
	}

	// Any key acknowledges the loss message.
	if m.snap.Over() {
		m.quitting = true
		return m, tea.Quit
	}

	action := m.keys.Action(msg)
	if action == core.ActionQuit {
		m.finish()
		m.quitting = true
		return m, tea.Quit
	}

	m.snap = m.ctrl.Apply(game.InputFromAction(action))
	if m.snap.Over() {
		m.finish()
	}

	return m, nil
}

// handleResize processes window resize events. The board is kept.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.config.ScreenW = msg.Width
	m.config.ScreenH = msg.Height
	m.screen.Resize(msg.Width, boardHeight(msg.Height))
	m.help.Width = msg.Width
	return m, nil
}

// finish journals the run once.
func (m *Model) finish() {
	if m.saved {
		return
	}
	m.saved = true

	if m.opts.Store == nil {
		return
	}
	run := storage.NewRun(m.snap, m.opts.Source, m.config.Seed)
	if _, err := m.opts.Store.SaveRun(run); err != nil {
		m.opts.Logger.Warn("could not journal run", "error", err)
		return
	}
	m.opts.Logger.Info("run journaled", "board", run.Board(), "turns", run.Turns, "max", run.MaxTile, "outcome", run.Outcome)
}

// saveScreenshot writes the board as plain text.
func (m *Model) saveScreenshot() {
	dir := filepath.Join(os.Getenv("HOME"), ".merge2048", "screenshots")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		m.opts.Logger.Warn("could not create screenshot directory", "error", err)
		return
	}

	filename := fmt.Sprintf("%dx%d_%s.txt", m.snap.Rows, m.snap.Cols, time.Now().Format("20060102_150405"))
	path := filepath.Join(dir, filename)

	if err := os.WriteFile(path, []byte(m.snap.Text()+"\n"), 0o600); err != nil {
		m.opts.Logger.Warn("could not save screenshot", "error", err)
		return
	}
	m.opts.Logger.Info("screenshot saved", "path", path)
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	m.snap.Render(m.screen)

	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	return RenderScreen(m.screen) + "\n" + helpStyle.Render(m.help.View(m.keys))
}

// Snapshot returns the latest game state.
func (m Model) Snapshot() game.Snapshot {
	return m.snap
}

// Run starts a full-screen Bubble Tea program for ctrl and returns the
// final game state.
func Run(ctrl *game.Controller, cfg core.RuntimeConfig, opts Options) (game.Snapshot, error) {
	model := NewModel(ctrl, cfg, opts)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	finalModel, err := p.Run()
	if err != nil {
		return model.Snapshot(), err
	}

	m, ok := finalModel.(Model)
	if !ok {
		return model.Snapshot(), nil
	}
	return m.Snapshot(), nil
}
