// Package controller owns the interaction state and turns each user event
// into one atomic reaction: filter, render sync and layout restart.
package controller

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/npratt/causalview/internal/config"
	"github.com/npratt/causalview/internal/events"
	"github.com/npratt/causalview/internal/graph"
	"github.com/npratt/causalview/internal/layout"
	"github.com/npratt/causalview/internal/metrics"
	"github.com/npratt/causalview/internal/render"
	"github.com/npratt/causalview/internal/theme"
)

// ErrInvalidThreshold is returned for a threshold that is not a number in
// the slider range.
var ErrInvalidThreshold = errors.New("invalid threshold")

// NoticeNodeNotFound is shown when a focus request names an unknown node.
const NoticeNodeNotFound = "node not found"

// Transition describes the outcome of one handled event.
type Transition struct {
	Event  events.Event
	Before Session
	After  Session

	// Synced is set when the reaction refiltered and resynced the scene.
	Synced bool
	Diff   render.Diff

	// Animate is set when the view should move from Before.View to
	// After.View over the transition duration instead of jumping.
	Animate bool

	// Notice is a user-facing message; Err is the failure behind it, if any.
	Notice string
	Err    error
}

// Controller dispatches events against the graph store, the scene and the
// layout engine. It runs on the UI event loop and is not safe for
// concurrent use.
type Controller struct {
	cfg     *config.Config
	store   *graph.Store
	scene   *render.Scene
	engine  layout.Engine
	themes  *theme.Manager
	forces  layout.Forces
	metrics *metrics.Registry
	logger  *slog.Logger

	session Session
	width   float64
	height  float64
}

// Option configures a Controller.
type Option func(*Controller)

// WithMetrics records filter runs to r.
func WithMetrics(r *metrics.Registry) Option {
	return func(c *Controller) {
		c.metrics = r
	}
}

// WithCanvas sets the initial canvas size in world units.
func WithCanvas(width, height float64) Option {
	return func(c *Controller) {
		c.width, c.height = width, height
	}
}

// New creates a Controller in the overview state with the default
// threshold. The theme manager's change hook is bound to the scene.
func New(cfg *config.Config, store *graph.Store, scene *render.Scene, engine layout.Engine, themes *theme.Manager, logger *slog.Logger, opts ...Option) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Controller{
		cfg:    cfg,
		store:  store,
		scene:  scene,
		engine: engine,
		themes: themes,
		forces: cfg.Layout.Forces(),
		logger: logger,
		width:  960,
		height: 640,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.session = c.defaults()
	themes.OnChange(scene.Recolor)
	return c
}

func (c *Controller) defaults() Session {
	return Session{
		Threshold: c.cfg.Graph.DefaultThreshold,
		Theme:     c.themes.Current(),
		View:      Identity(),
	}
}

// Session returns the current interaction state.
func (c *Controller) Session() Session {
	return c.session
}

// Canvas returns the canvas size in world units.
func (c *Controller) Canvas() (float64, float64) {
	return c.width, c.height
}

// Init resolves the theme, configures the engine for the canvas, and shows
// the initial overview. The first settle starts at the configured initial
// alpha; later topology changes restart at full energy.
func (c *Controller) Init() Transition {
	before := c.session
	c.session.Theme = c.themes.Init()
	c.configureEngine()

	tr := Transition{Event: &events.ResetEvent{BaseEvent: events.NewInternalEvent(events.EventReset)}, Before: before}
	diff, err := c.refilter(c.session)
	if err != nil {
		tr.Err = err
		tr.Notice = err.Error()
		c.logger.Error("initial sync failed", "error", err)
	} else {
		tr.Synced, tr.Diff = true, diff
		c.engine.Restart(c.cfg.Layout.InitialAlpha)
	}
	tr.After = c.session
	return tr
}

// Handle applies one event. A failing or panicking reaction is logged, the
// previous session stays in effect, and the failure is reported in the
// transition. After a panic the scene is resynced to the previous session.
func (c *Controller) Handle(ev events.Event) (tr Transition) {
	before := c.session
	tr = Transition{Event: ev, Before: before}

	defer func() {
		if r := recover(); r != nil {
			tr.Err = fmt.Errorf("reaction to %s panicked: %v", eventName(ev), r)
			tr.Notice = "internal error; state unchanged"
			tr.Synced, tr.Animate = false, false
			c.logger.Error("reaction panicked", "event", eventName(ev), "panic", r)
			c.session = before
			c.resync()
		}
		if tr.Err != nil {
			c.session = before
		}
		tr.After = c.session
		if tr.Err != nil {
			c.logger.Warn("reaction failed", "event", eventName(ev), "error", tr.Err)
		} else {
			c.logger.Debug("event handled", "event", events.Format(ev), "mode", c.session.Mode())
		}
	}()

	switch e := ev.(type) {
	case *events.ThresholdChangedEvent:
		c.setThreshold(e.Value, &tr)
	case *events.ThresholdInputEvent:
		v, err := parseThreshold(e.Raw)
		if err != nil {
			tr.Err = err
			tr.Notice = err.Error()
			return tr
		}
		c.setThreshold(v, &tr)
	case *events.FocusRequestedEvent:
		c.focus(strings.TrimSpace(e.NodeID), &tr)
	case *events.FocusClearedEvent:
		c.clearFocus(&tr)
	case *events.ResetEvent:
		c.reset(&tr)
	case *events.SearchChangedEvent:
		c.search(e.Term)
	case *events.ThemeToggledEvent:
		t, err := c.themes.Toggle()
		c.session.Theme = t
		if err != nil {
			// The new theme stays; only persisting failed.
			tr.Notice = "theme not saved: " + err.Error()
		}
	case *events.PanEvent:
		c.session.View.X += e.DX
		c.session.View.Y += e.DY
	case *events.ZoomEvent:
		c.session.View = c.zoom(c.session.View, e.Factor, e.AnchorX, e.AnchorY)
	case *events.ResizedEvent:
		c.resize(e.Width, e.Height)
	case *events.DragEvent:
		tr.Err = c.drag(e)
		if tr.Err != nil {
			tr.Notice = tr.Err.Error()
		}
	default:
		tr.Err = fmt.Errorf("unhandled event %T", ev)
	}
	return tr
}

func eventName(ev events.Event) string {
	if ev == nil {
		return "<nil>"
	}
	return string(ev.Type())
}

func parseThreshold(raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", ErrInvalidThreshold, raw)
	}
	return v, nil
}

func (c *Controller) setThreshold(v float64, tr *Transition) {
	g := c.cfg.Graph
	if math.IsNaN(v) || math.IsInf(v, 0) || v < g.MinThreshold || v > g.MaxThreshold {
		tr.Err = fmt.Errorf("%w: %v outside [%v, %v]", ErrInvalidThreshold, v, g.MinThreshold, g.MaxThreshold)
		tr.Notice = tr.Err.Error()
		return
	}
	next := c.session
	next.Threshold = v
	c.apply(next, tr)
}

// apply refilters for next and swaps it in when the sync succeeds.
func (c *Controller) apply(next Session, tr *Transition) {
	diff, err := c.refilter(next)
	if err != nil {
		tr.Err = err
		tr.Notice = err.Error()
		return
	}
	c.session = next
	tr.Synced, tr.Diff = true, diff
}

func (c *Controller) refilter(s Session) (render.Diff, error) {
	sg, err := graph.Filter(c.store, s.Threshold, s.FocusNodeID)
	c.metrics.RecordFilter()
	if err != nil {
		return render.Diff{}, err
	}
	return c.scene.Sync(sg.Nodes, sg.Links)
}

// resync redraws the current session after a reaction panicked partway.
func (c *Controller) resync() {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("resync panicked", "panic", r)
		}
	}()
	if _, err := c.refilter(c.session); err != nil {
		c.logger.Error("resync failed", "error", err)
		return
	}
	c.restoreHighlight()
}

func (c *Controller) focus(id string, tr *Transition) {
	if id == "" {
		c.clearFocus(tr)
		return
	}
	node, ok := c.store.Node(id)
	if !ok {
		tr.Notice = NoticeNodeNotFound + ": " + id
		if c.session.Mode() == ModeOverview {
			return
		}
		next := c.session
		next.FocusNodeID = ""
		c.apply(next, tr)
		if tr.Err == nil {
			c.restoreHighlight()
		}
		return
	}

	next := c.session
	next.FocusNodeID = id
	c.apply(next, tr)
	if tr.Err != nil {
		return
	}
	c.restoreHighlight()

	// Center on the node where the sync left it, keeping the scale.
	k := c.session.View.K
	c.session.View = Transform{
		X: -node.X*k + c.width/2,
		Y: -node.Y*k + c.height/2,
		K: k,
	}
	tr.Animate = true
}

func (c *Controller) clearFocus(tr *Transition) {
	if c.session.Mode() == ModeOverview {
		return
	}
	next := c.session
	next.FocusNodeID = ""
	c.apply(next, tr)
	if tr.Err == nil {
		c.restoreHighlight()
	}
}

func (c *Controller) reset(tr *Transition) {
	next := c.defaults()
	next.Theme = c.session.Theme
	c.apply(next, tr)
	if tr.Err != nil {
		return
	}
	tr.Animate = true
	c.scene.ResetHighlight()
}

func (c *Controller) search(term string) {
	c.session.SearchTerm = term
	if strings.TrimSpace(term) == "" {
		c.restoreHighlight()
		return
	}
	c.scene.ApplySearch(strings.TrimSpace(term))
}

// restoreHighlight puts back the highlight implied by the session: the
// search, else the focused cluster, else the baseline.
func (c *Controller) restoreHighlight() {
	s := c.session
	switch {
	case strings.TrimSpace(s.SearchTerm) != "":
		c.scene.ApplySearch(strings.TrimSpace(s.SearchTerm))
	case s.Mode() == ModeFocused:
		c.scene.ApplyCluster(s.FocusNodeID, graph.Cluster(c.store, s.FocusNodeID))
	default:
		c.scene.ResetHighlight()
	}
}

func (c *Controller) zoom(t Transform, factor, ax, ay float64) Transform {
	if factor <= 0 || math.IsNaN(factor) {
		return t
	}
	k := math.Max(c.cfg.UI.MinZoom, math.Min(c.cfg.UI.MaxZoom, t.K*factor))
	wx, wy := t.Invert(ax, ay)
	return Transform{X: ax - wx*k, Y: ay - wy*k, K: k}
}

func (c *Controller) resize(width, height float64) {
	if width <= 0 || height <= 0 {
		return
	}
	c.width, c.height = width, height
	c.configureEngine()
	c.engine.Restart(1)
}

func (c *Controller) configureEngine() {
	c.forces.CenterX = c.width / 2
	c.forces.CenterY = c.height / 2
	c.engine.Configure(c.forces)
}

func (c *Controller) drag(e *events.DragEvent) error {
	switch e.EventType {
	case events.EventDragStarted:
		return c.scene.DragStart(e.NodeID)
	case events.EventDragged:
		return c.scene.DragTo(e.NodeID, e.X, e.Y)
	case events.EventDragEnded:
		return c.scene.DragEnd(e.NodeID)
	}
	return fmt.Errorf("unknown drag event %q", e.EventType)
}
