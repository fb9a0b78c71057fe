package graph

import "fmt"

// Subgraph is the visible selection derived from a Store. Its node and link
// pointers are the store's own objects.
type Subgraph struct {
	Nodes []*Node
	Links []*Link
}

// HasNode reports whether id is in the subgraph's node set.
func (sg Subgraph) HasNode(id string) bool {
	for _, n := range sg.Nodes {
		if n.ID == id {
			return true
		}
	}
	return false
}

// Filter derives the visible subgraph for a threshold and an optional focus
// node (empty string for none).
//
// Links survive when value > threshold and, with a focus, when they touch the
// focus node. The node set is the union of surviving link endpoints plus the
// focus node itself, so every returned link has both endpoints in the
// returned node set. A focus id that is not in the store is an error wrapping
// ErrNodeNotFound. The store is never modified.
func Filter(s *Store, threshold float64, focus string) (Subgraph, error) {
	if focus != "" && !s.Has(focus) {
		return Subgraph{}, fmt.Errorf("filter focus %q: %w", focus, ErrNodeNotFound)
	}

	links := make([]*Link, 0, len(s.links))
	keep := make(map[string]bool)
	for _, l := range s.links {
		if !(l.Value > threshold) {
			continue
		}
		if focus != "" && !l.Touches(focus) {
			continue
		}
		links = append(links, l)
		keep[l.SourceID] = true
		keep[l.TargetID] = true
	}
	if focus != "" {
		keep[focus] = true
	}

	nodes := make([]*Node, 0, len(keep))
	for _, n := range s.nodes {
		if keep[n.ID] {
			nodes = append(nodes, n)
		}
	}

	return Subgraph{Nodes: nodes, Links: links}, nil
}
