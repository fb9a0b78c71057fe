// Package graph holds the loaded causal graph and the pure functions that
// derive views from it: the threshold/focus subgraph filter and the
// undirected cluster finder.
package graph

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/graph/simple"
)

// ErrNodeNotFound is returned when an operation names a node id that is not
// in the store.
var ErrNodeNotFound = errors.New("node not found")

// Point is a position in layout (world) coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Node is a graph vertex. ID is the primary key and never changes.
// X/Y/VX/VY are owned by the layout engine; Pin is the explicit
// pinned-position override set while the node is dragged.
type Node struct {
	ID    string
	Group *int

	X, Y   float64
	VX, VY float64
	Pin    *Point
}

// GroupOrZero returns the node's color category, 0 when unset.
func (n *Node) GroupOrZero() int {
	if n.Group == nil {
		return 0
	}
	return *n.Group
}

// Pinned reports whether the node has a position override.
func (n *Node) Pinned() bool {
	return n.Pin != nil
}

// Link is a weighted edge. Source and Target are resolved at load time to the
// store's own node objects and are shared by every subgraph.
type Link struct {
	SourceID string
	TargetID string
	Value    float64

	Source *Node
	Target *Node
}

// Key returns the link's identity: the ordered (source, target) pair.
func (l *Link) Key() LinkKey {
	return LinkKey{Source: l.SourceID, Target: l.TargetID}
}

// Touches reports whether id is either endpoint of the link.
func (l *Link) Touches(id string) bool {
	return l.SourceID == id || l.TargetID == id
}

// LinkKey identifies a link by its endpoints in order. A reversed pair is a
// different key.
type LinkKey struct {
	Source string
	Target string
}

// String returns "source->target".
func (k LinkKey) String() string {
	return k.Source + "->" + k.Target
}

// Diagnostic records a data-quality problem found while loading.
type Diagnostic struct {
	Index  int // position of the entry in the input links list
	Source string
	Target string
	Reason string
}

// String formats the diagnostic for logs and reports.
func (d Diagnostic) String() string {
	return fmt.Sprintf("link[%d] %s->%s: %s", d.Index, d.Source, d.Target, d.Reason)
}

// Store holds the full graph as loaded. Its node and link slices are never
// mutated after construction; only node positions change.
type Store struct {
	nodes       []*Node
	links       []*Link
	index       map[string]int
	adj         *simple.UndirectedGraph
	diagnostics []Diagnostic
}

// Nodes returns the store's nodes in load order. Callers must not modify the
// returned slice.
func (s *Store) Nodes() []*Node {
	return s.nodes
}

// Links returns the store's valid links in load order. Callers must not
// modify the returned slice.
func (s *Store) Links() []*Link {
	return s.links
}

// Node returns the node with the given id.
func (s *Store) Node(id string) (*Node, bool) {
	i, ok := s.index[id]
	if !ok {
		return nil, false
	}
	return s.nodes[i], true
}

// Has reports whether id is a node in the store.
func (s *Store) Has(id string) bool {
	_, ok := s.index[id]
	return ok
}

// NodeCount returns the number of nodes.
func (s *Store) NodeCount() int {
	return len(s.nodes)
}

// LinkCount returns the number of valid links.
func (s *Store) LinkCount() int {
	return len(s.links)
}

// Diagnostics returns the load-time records for dropped links.
func (s *Store) Diagnostics() []Diagnostic {
	return s.diagnostics
}

// NodeIDs returns all node ids in load order.
func (s *Store) NodeIDs() []string {
	ids := make([]string, len(s.nodes))
	for i, n := range s.nodes {
		ids[i] = n.ID
	}
	return ids
}
