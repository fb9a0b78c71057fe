// Package render keeps the drawn elements of the visible subgraph in step
// with the data: keyed reconciliation on every filter change, per-step
// position copies from the layout engine, highlight passes, and node drag.
package render

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/tidwall/btree"

	"github.com/npratt/causalview/internal/graph"
	"github.com/npratt/causalview/internal/layout"
	"github.com/npratt/causalview/internal/metrics"
	"github.com/npratt/causalview/internal/theme"
)

// Baseline element attributes.
const (
	BaseRadius      = 10.0
	BaseLabelSize   = 8.0
	BaseLinkOpacity = 0.6

	// DragAlphaTarget keeps the layout warm while a node is held.
	DragAlphaTarget = 0.3
)

// NodeElement is the drawn form of a node: its circle and its label.
type NodeElement struct {
	ID   string
	Node *graph.Node

	X, Y      float64
	Radius    float64
	Opacity   float64
	Color     string
	LabelSize float64
	LabelBold bool
}

// LinkElement is the drawn form of a link.
type LinkElement struct {
	Key  graph.LinkKey
	Link *graph.Link

	X1, Y1  float64
	X2, Y2  float64
	Width   float64
	Opacity float64
	Color   string
}

// Diff reports what one Sync changed. Node keys are ids; link keys are
// "source->target".
type Diff struct {
	Created []string
	Updated []string
	Removed []string
}

// Empty reports whether the sync created and removed nothing.
func (d Diff) Empty() bool {
	return len(d.Created) == 0 && len(d.Removed) == 0
}

// Scene owns the drawn elements. It is driven from the UI event loop and is
// not safe for concurrent use.
type Scene struct {
	engine  layout.Engine
	nodes   btree.Map[string, *NodeElement]
	links   btree.Map[string, *LinkElement]
	palette theme.Palette
	hl      highlight
	drags   map[string]bool

	metrics *metrics.Registry
	logger  *slog.Logger
}

// Option configures a Scene.
type Option func(*Scene)

// WithPalette sets the starting palette.
func WithPalette(p theme.Palette) Option {
	return func(s *Scene) {
		s.palette = p
	}
}

// WithMetrics records sync and tick counts to r.
func WithMetrics(r *metrics.Registry) Option {
	return func(s *Scene) {
		s.metrics = r
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Scene) {
		s.logger = logger
	}
}

// NewScene creates an empty scene bound to engine. Tick is registered as the
// engine's step callback.
func NewScene(engine layout.Engine, opts ...Option) *Scene {
	s := &Scene{
		engine:  engine,
		palette: theme.PaletteFor(theme.Light),
		drags:   make(map[string]bool),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	engine.OnStep(s.Tick)
	return s
}

func linkKey(l *graph.Link) string {
	return l.SourceID + "\x1f" + l.TargetID
}

// Sync reconciles the drawn elements with the given subgraph, hands it to
// the layout engine and restarts the engine at full energy. Kept elements
// are updated in place; they are never recreated. A link whose endpoint is
// not among nodes is rejected before anything changes. Reversed pairs are
// distinct links.
func (s *Scene) Sync(nodes []*graph.Node, links []*graph.Link) (Diff, error) {
	var diff Diff

	want := make(map[string]*graph.Node, len(nodes))
	for _, n := range nodes {
		want[n.ID] = n
	}
	// A repeated (source, target) pair is drawn once; the first one wins.
	wantLinks := make(map[string]*graph.Link, len(links))
	kept := make([]*graph.Link, 0, len(links))
	for _, l := range links {
		if want[l.SourceID] == nil || want[l.TargetID] == nil {
			return diff, fmt.Errorf("sync %s: %w", l.Key(), layout.ErrDanglingLink)
		}
		k := linkKey(l)
		if wantLinks[k] != nil {
			continue
		}
		wantLinks[k] = l
		kept = append(kept, l)
	}
	links = kept

	var staleNodes []string
	s.nodes.Scan(func(id string, _ *NodeElement) bool {
		if want[id] == nil {
			staleNodes = append(staleNodes, id)
		}
		return true
	})
	released := false
	for _, id := range staleNodes {
		el, _ := s.nodes.Delete(id)
		if s.drags[id] {
			delete(s.drags, id)
			el.Node.Pin = nil
			released = true
		}
		diff.Removed = append(diff.Removed, id)
	}
	if released && len(s.drags) == 0 {
		s.engine.SetAlphaTarget(0)
	}

	var staleLinks []string
	s.links.Scan(func(k string, _ *LinkElement) bool {
		if wantLinks[k] == nil {
			staleLinks = append(staleLinks, k)
		}
		return true
	})
	for _, k := range staleLinks {
		el, _ := s.links.Get(k)
		s.links.Delete(k)
		diff.Removed = append(diff.Removed, el.Key.String())
	}

	for _, n := range nodes {
		if el, ok := s.nodes.Get(n.ID); ok {
			el.Node = n
			diff.Updated = append(diff.Updated, n.ID)
			continue
		}
		el := &NodeElement{ID: n.ID, Node: n}
		s.nodes.Set(n.ID, el)
		diff.Created = append(diff.Created, n.ID)
	}

	for _, l := range links {
		k := linkKey(l)
		if el, ok := s.links.Get(k); ok {
			el.Link = l
			diff.Updated = append(diff.Updated, el.Key.String())
			continue
		}
		el := &LinkElement{Key: l.Key(), Link: l}
		s.links.Set(k, el)
		diff.Created = append(diff.Created, el.Key.String())
	}

	s.engine.SetNodes(nodes)
	if err := s.engine.SetLinks(links); err != nil {
		return diff, fmt.Errorf("sync: %w", err)
	}
	s.engine.Restart(1)
	s.copyPositions()
	s.reapply()

	s.metrics.RecordSync(len(diff.Created), len(diff.Updated), len(diff.Removed), s.nodes.Len(), s.links.Len())
	s.logger.Debug("scene synced",
		"created", len(diff.Created),
		"updated", len(diff.Updated),
		"removed", len(diff.Removed),
		"nodes", s.nodes.Len(),
		"links", s.links.Len())
	return diff, nil
}

// Tick is the layout step callback. It copies the current positions into
// the drawn elements.
func (s *Scene) Tick() {
	s.copyPositions()
	s.metrics.RecordTick()
}

func (s *Scene) copyPositions() {
	s.nodes.Scan(func(_ string, el *NodeElement) bool {
		el.X, el.Y = el.Node.X, el.Node.Y
		return true
	})
	s.links.Scan(func(_ string, el *LinkElement) bool {
		el.X1, el.Y1 = el.Link.Source.X, el.Link.Source.Y
		el.X2, el.Y2 = el.Link.Target.X, el.Link.Target.Y
		return true
	})
}

// Recolor applies a new palette to every drawn element.
func (s *Scene) Recolor(p theme.Palette) {
	s.palette = p
	s.nodes.Scan(func(_ string, el *NodeElement) bool {
		el.Color = p.GroupColor(el.Node.GroupOrZero())
		return true
	})
	s.links.Scan(func(_ string, el *LinkElement) bool {
		el.Color = p.Link
		return true
	})
}

// Palette returns the active palette.
func (s *Scene) Palette() theme.Palette {
	return s.palette
}

// Nodes returns the node elements ordered by id.
func (s *Scene) Nodes() []*NodeElement {
	out := make([]*NodeElement, 0, s.nodes.Len())
	s.nodes.Scan(func(_ string, el *NodeElement) bool {
		out = append(out, el)
		return true
	})
	return out
}

// Links returns the link elements ordered by key.
func (s *Scene) Links() []*LinkElement {
	out := make([]*LinkElement, 0, s.links.Len())
	s.links.Scan(func(_ string, el *LinkElement) bool {
		out = append(out, el)
		return true
	})
	return out
}

// Node returns the element drawn for id.
func (s *Scene) Node(id string) (*NodeElement, bool) {
	return s.nodes.Get(id)
}

// Link returns the element drawn for the link with the given endpoints.
func (s *Scene) Link(source, target string) (*LinkElement, bool) {
	return s.links.Get(source + "\x1f" + target)
}

// NodeCount returns the number of drawn nodes.
func (s *Scene) NodeCount() int {
	return s.nodes.Len()
}

// LinkCount returns the number of drawn links.
func (s *Scene) LinkCount() int {
	return s.links.Len()
}

// NodeAt returns the drawn node nearest to (x, y) within its radius plus
// slack, in world coordinates.
func (s *Scene) NodeAt(x, y, slack float64) (*NodeElement, bool) {
	var best *NodeElement
	bestDist := math.Inf(1)
	s.nodes.Scan(func(_ string, el *NodeElement) bool {
		d := math.Hypot(el.X-x, el.Y-y)
		if d <= el.Radius+slack && d < bestDist {
			best, bestDist = el, d
		}
		return true
	})
	return best, best != nil
}
