package graph

import (
	gonumgraph "gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/traverse"
)

// Cluster returns the ids of every node reachable from start over the full
// graph, treating links as undirected. The result always contains start.
//
// An unknown start id yields {start}: the result is only used to decide
// what to highlight, so "nothing connected" is a valid answer.
func Cluster(s *Store, start string) map[string]struct{} {
	result := map[string]struct{}{start: {}}

	idx, ok := s.index[start]
	if !ok {
		return result
	}

	bf := traverse.BreadthFirst{
		Visit: func(n gonumgraph.Node) {
			result[s.nodes[n.ID()].ID] = struct{}{}
		},
	}
	bf.Walk(s.adj, simple.Node(int64(idx)), nil)

	return result
}

// InCluster reports whether both endpoints of l are members of cluster.
func InCluster(cluster map[string]struct{}, l *Link) bool {
	_, src := cluster[l.SourceID]
	_, dst := cluster[l.TargetID]
	return src && dst
}
