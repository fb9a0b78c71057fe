package tui

import (
	"io"
	"log/slog"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/npratt/causalview/internal/config"
	"github.com/npratt/causalview/internal/controller"
	"github.com/npratt/causalview/internal/graph"
	"github.com/npratt/causalview/internal/render"
	"github.com/npratt/causalview/internal/testutil"
	"github.com/npratt/causalview/internal/theme"
)

type testEnv struct {
	cfg    *config.Config
	store  *graph.Store
	engine *testutil.FakeEngine
	scene  *render.Scene
	ctrl   *controller.Controller
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestEnv builds an initialized controller over doc. The info panel
// starts closed so keys and mouse reach the canvas.
func newTestEnv(t *testing.T, doc string) *testEnv {
	t.Helper()
	cfg := config.Default()
	cfg.UI.ShowInfoPanel = false
	store := testutil.MustLoad(t, doc)
	eng := testutil.NewFakeEngine()
	scene := render.NewScene(eng)
	themes := theme.NewManager(&theme.MemoryStore{},
		theme.WithAmbient(func() bool { return false }),
		theme.WithLogger(discardLogger()))
	ctrl := controller.New(cfg, store, scene, eng, themes, discardLogger())
	if tr := ctrl.Init(); tr.Err != nil {
		t.Fatalf("Init() error: %v", tr.Err)
	}
	return &testEnv{cfg: cfg, store: store, engine: eng, scene: scene, ctrl: ctrl}
}

func (e *testEnv) deps() deps {
	return deps{
		cfg:    e.cfg,
		store:  e.store,
		ctrl:   e.ctrl,
		scene:  e.scene,
		engine: e.engine,
		logger: discardLogger(),
	}
}

// newSizedModel returns a model that has seen one window size message.
func newSizedModel(t *testing.T, e *testEnv, width, height int) model {
	t.Helper()
	m := newModel(e.deps(), nil)
	return send(t, m, tea.WindowSizeMsg{Width: width, Height: height})
}

// send runs one Update and returns the concrete model.
func send(t *testing.T, m model, msg tea.Msg) model {
	t.Helper()
	next, _ := m.Update(msg)
	nm, ok := next.(model)
	if !ok {
		t.Fatalf("Update returned %T, want model", next)
	}
	return nm
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func typeString(t *testing.T, m model, s string) model {
	t.Helper()
	for _, r := range s {
		m = send(t, m, runes(string(r)))
	}
	return m
}

// fakeClock is a settable time source for transitions.
type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

// placeABC spreads the ABC fixture over the canvas: A and B on one row,
// C below B.
func placeABC(e *testEnv) {
	pos := map[string][2]float64{
		"A": {100, 100},
		"B": {400, 100},
		"C": {400, 300},
	}
	for id, p := range pos {
		n, _ := e.store.Node(id)
		n.X, n.Y = p[0], p[1]
	}
	e.scene.Tick()
}

func keyEnter() tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyEnter}
}
