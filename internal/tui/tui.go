// Package tui provides the interactive terminal viewer using bubbletea.
package tui

import (
	"context"
	"errors"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/npratt/causalview/internal/config"
	"github.com/npratt/causalview/internal/controller"
	"github.com/npratt/causalview/internal/graph"
	"github.com/npratt/causalview/internal/layout"
	"github.com/npratt/causalview/internal/render"
)

// TUI is the terminal front end of the viewer. It translates keys, mouse and
// resize notifications into controller events and paints the scene.
type TUI struct {
	deps   deps
	onQuit func()
}

// deps bundles what the model reads and drives.
type deps struct {
	cfg    *config.Config
	store  *graph.Store
	ctrl   *controller.Controller
	scene  *render.Scene
	engine layout.Engine
	logger *slog.Logger
}

// Option configures the TUI.
type Option func(*TUI)

// New creates a TUI over an initialized controller.
func New(cfg *config.Config, store *graph.Store, ctrl *controller.Controller, scene *render.Scene, engine layout.Engine, opts ...Option) *TUI {
	t := &TUI{
		deps: deps{
			cfg:    cfg,
			store:  store,
			ctrl:   ctrl,
			scene:  scene,
			engine: engine,
			logger: slog.Default(),
		},
	}

	for _, opt := range opts {
		opt(t)
	}

	return t
}

// WithOnQuit sets the callback invoked when the user quits.
func WithOnQuit(fn func()) Option {
	return func(t *TUI) {
		t.onQuit = fn
	}
}

// WithLogger sets the logger. In TUI mode it must not write to the terminal.
func WithLogger(logger *slog.Logger) Option {
	return func(t *TUI) {
		t.deps.logger = logger
	}
}

// Run starts the TUI and blocks until it exits or ctx is canceled.
func (t *TUI) Run(ctx context.Context) error {
	m := newModel(t.deps, t.onQuit)

	opts := []tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}
	if t.deps.cfg.UI.Mouse {
		opts = append(opts, tea.WithMouseCellMotion())
	}
	p := tea.NewProgram(m, opts...)
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
