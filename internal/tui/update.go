package tui

import (
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/npratt/causalview/internal/controller"
	"github.com/npratt/causalview/internal/events"
)

// scheduleLayout schedules the next layout step.
func (m model) scheduleLayout() tea.Cmd {
	return tea.Tick(m.cfg.Layout.TickInterval, func(time.Time) tea.Msg {
		return layoutTickMsg{}
	})
}

// ensureLayout starts the tick chain if the engine is hot and no chain is
// running. A running chain picks up restarted energy on its own.
func (m *model) ensureLayout() tea.Cmd {
	if m.layoutRunning || !m.engine.Running() {
		return nil
	}
	m.layoutRunning = true
	return m.scheduleLayout()
}

// Update implements tea.Model. It handles all message types and updates the model.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.WindowSizeMsg:
		first := m.width == 0 && m.height == 0
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = max(10, msg.Width-20)
		m.resizeGen++
		if first || m.cfg.UI.ResizeDebounce <= 0 {
			return m, m.dispatch(m.resizedEvent())
		}
		gen := m.resizeGen
		return m, tea.Tick(m.cfg.UI.ResizeDebounce, func(time.Time) tea.Msg {
			return resizeSettledMsg{gen: gen}
		})

	case resizeSettledMsg:
		// Only the last resize in a burst is applied.
		if msg.gen != m.resizeGen {
			return m, nil
		}
		return m, m.dispatch(m.resizedEvent())

	case layoutTickMsg:
		m.engine.Step()
		if m.engine.Running() {
			return m, m.scheduleLayout()
		}
		m.layoutRunning = false
		m.logger.Debug("layout settled", "alpha", m.engine.Alpha())
		return m, nil

	case frameMsg:
		return m, m.handleFrame(msg)
	}

	if m.mode != inputNone {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m model) resizedEvent() events.Event {
	w, h := m.worldSize()
	return &events.ResizedEvent{
		BaseEvent: events.NewEvent(events.EventResized, events.SourceTerminal),
		Width:     w,
		Height:    h,
	}
}

// dispatch hands one event to the controller and applies the outcome to
// the display.
func (m *model) dispatch(ev events.Event) tea.Cmd {
	tr := m.ctrl.Handle(ev)
	m.notice = tr.Notice
	if tr.Err == nil {
		m.last = events.Format(ev)
	}

	var cmds []tea.Cmd
	switch {
	case tr.Animate && m.cfg.UI.TransitionDuration > 0:
		cmds = append(cmds, m.startTransition(tr.After.View))
	case tr.After.View != tr.Before.View || tr.Animate:
		// Direct view changes supersede a running transition.
		m.anim.gen++
		m.display = tr.After.View
	}
	if tr.Synced {
		m.refreshStats()
	}
	cmds = append(cmds, m.ensureLayout())
	return tea.Batch(cmds...)
}

// startTransition begins animating the display toward to. A newer
// transition supersedes an older one.
func (m *model) startTransition(to controller.Transform) tea.Cmd {
	m.anim = transition{from: m.display, to: to, start: m.now(), gen: m.anim.gen + 1}
	return m.scheduleFrame()
}

func (m model) scheduleFrame() tea.Cmd {
	gen := m.anim.gen
	return tea.Tick(frameInterval, func(time.Time) tea.Msg {
		return frameMsg{gen: gen}
	})
}

func (m *model) handleFrame(msg frameMsg) tea.Cmd {
	if msg.gen != m.anim.gen {
		return nil
	}
	f := float64(m.now().Sub(m.anim.start)) / float64(m.cfg.UI.TransitionDuration)
	if f >= 1 {
		m.display = m.anim.to
		return nil
	}
	m.display = m.anim.from.Lerp(m.anim.to, easeCubicInOut(f))
	return m.scheduleFrame()
}

// easeCubicInOut is the standard cubic ease for view transitions.
func easeCubicInOut(t float64) float64 {
	t = math.Max(0, math.Min(1, t))
	if t < 0.5 {
		return 4 * t * t * t
	}
	u := 2*t - 2
	return 0.5*u*u*u + 1
}

// handleKey processes keyboard input and returns the updated model and command.
func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+c" {
		return m.quit()
	}

	if m.mode != inputNone {
		return m.handleInputKey(msg)
	}

	if m.info.IsOpen() && m.info.Update(msg) {
		return m, nil
	}

	s := m.ctrl.Session()
	step := m.cfg.Graph.ThresholdStep
	switch key {
	case "q":
		return m.quit()

	case "[", "]", "{", "}":
		delta := step
		switch key {
		case "[":
			delta = -step
		case "{":
			delta = -10 * step
		case "}":
			delta = 10 * step
		}
		v := clampThreshold(s.Threshold+delta, m.cfg.Graph.MinThreshold, m.cfg.Graph.MaxThreshold, step)
		if v == s.Threshold {
			return m, nil
		}
		return m, m.dispatch(&events.ThresholdChangedEvent{
			BaseEvent: events.NewKeyEvent(events.EventThresholdChanged),
			Value:     v,
		})

	case "t":
		return m, m.openInput(inputThreshold, "threshold> ", "")

	case "/":
		return m, m.openInput(inputSearch, "search> ", s.SearchTerm)

	case "enter":
		if strings.TrimSpace(s.SearchTerm) == "" {
			return m, nil
		}
		return m, m.dispatch(focusEvent(s.SearchTerm))

	case "c":
		return m, m.dispatch(&events.FocusClearedEvent{BaseEvent: events.NewKeyEvent(events.EventFocusCleared)})

	case "r":
		return m, m.dispatch(&events.ResetEvent{BaseEvent: events.NewKeyEvent(events.EventReset)})

	case "T":
		return m, m.dispatch(&events.ThemeToggledEvent{BaseEvent: events.NewKeyEvent(events.EventThemeToggled)})

	case "?":
		m.refreshStats()
		m.info.Toggle()
		return m, nil

	case "left", "h":
		return m, m.pan(panStep, 0)
	case "right", "l":
		return m, m.pan(-panStep, 0)
	case "up", "k":
		return m, m.pan(0, panStep)
	case "down", "j":
		return m, m.pan(0, -panStep)

	case "+", "=":
		return m, m.zoomAtCenter(zoomStep)
	case "-", "_":
		return m, m.zoomAtCenter(1 / zoomStep)

	case "esc":
		m.notice = ""
		return m, nil
	}

	return m, nil
}

func (m model) quit() (tea.Model, tea.Cmd) {
	if m.onQuit != nil {
		m.onQuit()
	}
	return m, tea.Quit
}

func focusEvent(id string) events.Event {
	return &events.FocusRequestedEvent{
		BaseEvent: events.NewKeyEvent(events.EventFocusRequested),
		NodeID:    strings.TrimSpace(id),
	}
}

// clampThreshold keeps v on the slider and snaps it to the step grid.
func clampThreshold(v, lo, hi, step float64) float64 {
	if step > 0 {
		v = lo + math.Round((v-lo)/step)*step
	}
	return math.Max(lo, math.Min(hi, v))
}

func (m *model) pan(dx, dy float64) tea.Cmd {
	return m.dispatch(&events.PanEvent{
		BaseEvent: events.NewKeyEvent(events.EventPan),
		DX:        dx,
		DY:        dy,
	})
}

func (m *model) zoomAtCenter(factor float64) tea.Cmd {
	w, h := m.ctrl.Canvas()
	return m.dispatch(&events.ZoomEvent{
		BaseEvent: events.NewKeyEvent(events.EventZoom),
		Factor:    factor,
		AnchorX:   w / 2,
		AnchorY:   h / 2,
	})
}

// openInput focuses the footer prompt.
func (m *model) openInput(mode inputMode, prompt, value string) tea.Cmd {
	m.mode = mode
	m.input.Prompt = prompt
	m.input.SetValue(value)
	m.input.CursorEnd()
	m.input.ShowSuggestions = mode == inputSearch
	return m.input.Focus()
}

func (m *model) closeInput() {
	m.mode = inputNone
	m.input.Blur()
	m.input.Reset()
}

// handleInputKey routes keys to the footer prompt.
func (m model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.closeInput()
		return m, nil

	case "enter":
		value := m.input.Value()
		mode := m.mode
		m.closeInput()
		if mode == inputThreshold {
			return m, m.dispatch(&events.ThresholdInputEvent{
				BaseEvent: events.NewKeyEvent(events.EventThresholdInput),
				Raw:       value,
			})
		}
		return m, m.dispatch(focusEvent(value))
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.mode == inputSearch && m.input.Value() != before {
		return m, tea.Batch(cmd, m.dispatch(&events.SearchChangedEvent{
			BaseEvent: events.NewKeyEvent(events.EventSearchChanged),
			Term:      m.input.Value(),
		}))
	}
	return m, cmd
}

// screenPoint converts a mouse cell to a screen-space point on the canvas.
func (m model) screenPoint(x, y int) (float64, float64, bool) {
	cy := y - headerRows
	w, h := m.canvasSize()
	if x < 0 || x >= w || cy < 0 || cy >= h {
		return 0, 0, false
	}
	sx, sy := cellCenter(x, cy)
	return sx, sy, true
}

// handleMouse maps wheel to zoom and left-button drags to node moves or
// view pans.
func (m model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if !m.cfg.UI.Mouse || m.info.IsOpen() {
		return m, nil
	}
	sx, sy, onCanvas := m.screenPoint(msg.X, msg.Y)

	switch {
	case msg.Button == tea.MouseButtonWheelUp || msg.Button == tea.MouseButtonWheelDown:
		if !onCanvas {
			return m, nil
		}
		factor := zoomStep
		if msg.Button == tea.MouseButtonWheelDown {
			factor = 1 / zoomStep
		}
		return m, m.dispatch(&events.ZoomEvent{
			BaseEvent: events.NewMouseEvent(events.EventZoom),
			Factor:    factor,
			AnchorX:   sx,
			AnchorY:   sy,
		})

	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		if !onCanvas {
			return m, nil
		}
		m.drag = dragState{active: true, lastX: msg.X, lastY: msg.Y}
		wx, wy := m.display.Invert(sx, sy)
		if el, ok := m.scene.NodeAt(wx, wy, dragSlack/m.display.K); ok {
			m.drag.nodeID = el.ID
			return m, m.dispatch(m.dragEvent(events.EventDragStarted, el.ID, wx, wy))
		}
		return m, nil

	case msg.Action == tea.MouseActionMotion && m.drag.active:
		if m.drag.nodeID == "" {
			dx := float64(msg.X-m.drag.lastX) * cellWidth
			dy := float64(msg.Y-m.drag.lastY) * cellHeight
			m.drag.lastX, m.drag.lastY = msg.X, msg.Y
			return m, m.dispatch(&events.PanEvent{
				BaseEvent: events.NewMouseEvent(events.EventPan),
				DX:        dx,
				DY:        dy,
			})
		}
		if !onCanvas {
			return m, nil
		}
		wx, wy := m.display.Invert(sx, sy)
		return m, m.dispatch(m.dragEvent(events.EventDragged, m.drag.nodeID, wx, wy))

	case msg.Action == tea.MouseActionRelease && m.drag.active:
		id := m.drag.nodeID
		m.drag = dragState{}
		if id == "" {
			return m, nil
		}
		wx, wy := m.display.Invert(sx, sy)
		return m, m.dispatch(m.dragEvent(events.EventDragEnded, id, wx, wy))
	}
	return m, nil
}

func (m model) dragEvent(typ events.EventType, id string, x, y float64) events.Event {
	return &events.DragEvent{
		BaseEvent: events.NewMouseEvent(typ),
		NodeID:    id,
		X:         x,
		Y:         y,
	}
}
