package render

import (
	"fmt"

	"github.com/npratt/causalview/internal/graph"
)

// DragStart pins the node at its current position and keeps the layout
// warm while it is held.
func (s *Scene) DragStart(id string) error {
	el, ok := s.nodes.Get(id)
	if !ok {
		return fmt.Errorf("drag %q: %w", id, graph.ErrNodeNotFound)
	}
	if len(s.drags) == 0 {
		s.engine.SetAlphaTarget(DragAlphaTarget)
	}
	s.drags[id] = true
	el.Node.Pin = &graph.Point{X: el.Node.X, Y: el.Node.Y}
	return nil
}

// DragTo moves the pin of a held node.
func (s *Scene) DragTo(id string, x, y float64) error {
	el, ok := s.nodes.Get(id)
	if !ok {
		return fmt.Errorf("drag %q: %w", id, graph.ErrNodeNotFound)
	}
	if !s.drags[id] {
		return fmt.Errorf("drag %q: not started", id)
	}
	el.Node.Pin = &graph.Point{X: x, Y: y}
	return nil
}

// DragEnd releases the node. The layout cools once no node is held.
func (s *Scene) DragEnd(id string) error {
	if !s.drags[id] {
		return fmt.Errorf("drag %q: not started", id)
	}
	delete(s.drags, id)
	if el, ok := s.nodes.Get(id); ok {
		el.Node.Pin = nil
	}
	if len(s.drags) == 0 {
		s.engine.SetAlphaTarget(0)
	}
	return nil
}

// Dragging reports whether id is held.
func (s *Scene) Dragging(id string) bool {
	return s.drags[id]
}
