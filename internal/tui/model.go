package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/npratt/causalview/internal/controller"
)

// inputMode is what the footer prompt is collecting.
type inputMode int

const (
	inputNone inputMode = iota
	inputSearch
	inputThreshold
)

// Layout size constants.
const (
	headerRows = 1
	footerRows = 2
	minWidth   = 40
	minHeight  = 10

	// panStep is the world distance one pan key moves at scale 1.
	panStep = 40.0
	// zoomStep is the scale factor of one zoom key or wheel notch.
	zoomStep = 1.25
	// frameInterval paces view transition frames.
	frameInterval = 16 * time.Millisecond
	// dragSlack widens the hit area around a node.
	dragSlack = cellWidth
)

// transition animates the displayed view toward a target.
type transition struct {
	from  controller.Transform
	to    controller.Transform
	start time.Time
	gen   int
}

// dragState tracks a held mouse button.
type dragState struct {
	active bool
	nodeID string // empty when panning the view
	lastX  int
	lastY  int
}

// model is the bubbletea model for the TUI.
type model struct {
	deps

	// UI state
	width  int
	height int
	input  textinput.Model
	mode   inputMode
	info   *InfoPanel
	notice string
	last   string

	// View state: display is what is painted; it trails the session view
	// while a transition runs.
	display controller.Transform
	anim    transition

	// Scheduling
	layoutRunning bool
	resizeGen     int
	drag          dragState

	now    func() time.Time
	onQuit func()
}

// Scheduling messages. Each carries the generation it was scheduled for so
// stale timers can be dropped.
type (
	layoutTickMsg    struct{}
	resizeSettledMsg struct{ gen int }
	frameMsg         struct{ gen int }
)

// newModel creates the model. The controller must already be initialized.
func newModel(d deps, onQuit func()) model {
	ti := textinput.New()
	ti.CharLimit = 256
	ti.ShowSuggestions = true
	ti.SetSuggestions(d.store.NodeIDs())

	info := NewInfoPanel(d.cfg.UI.ShowInfoPanel)
	m := model{
		deps:          d,
		input:         ti,
		info:          info,
		display:       d.ctrl.Session().View,
		layoutRunning: d.engine.Running(),
		now:           time.Now,
		onQuit:        onQuit,
	}
	m.refreshStats()
	return m
}

// Init implements tea.Model. It starts the layout tick chain when the
// engine is hot.
func (m model) Init() tea.Cmd {
	if m.layoutRunning {
		return m.scheduleLayout()
	}
	return nil
}

// canvasSize returns the canvas area in cells.
func (m model) canvasSize() (int, int) {
	w := m.width
	h := m.height - headerRows - footerRows
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return w, h
}

// worldSize returns the canvas area in world units.
func (m model) worldSize() (float64, float64) {
	w, h := m.canvasSize()
	return float64(w) * cellWidth, float64(h) * cellHeight
}

// refreshStats updates the info panel's graph summary.
func (m *model) refreshStats() {
	s := m.ctrl.Session()
	stats := []string{
		fmt.Sprintf("Graph: %d nodes, %d links", m.store.NodeCount(), m.store.LinkCount()),
		fmt.Sprintf("Visible: %d nodes, %d links", m.scene.NodeCount(), m.scene.LinkCount()),
	}
	if n := len(m.store.Diagnostics()); n > 0 {
		stats = append(stats, fmt.Sprintf("Dropped at load: %d links with unknown nodes", n))
	}
	if s.Mode() == controller.ModeFocused {
		stats = append(stats, fmt.Sprintf("Focused on %s", s.FocusNodeID))
	}
	m.info.SetStats(stats)
}
