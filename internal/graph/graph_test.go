package graph

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

// abcDoc is nodes {A,B,C} with links A-B:0.9 and B-C:0.2.
func abcDoc() Document {
	return Document{
		Nodes: []NodeRecord{{ID: "A", Group: ptr(1)}, {ID: "B", Group: ptr(1)}, {ID: "C", Group: ptr(2)}},
		Links: []LinkRecord{
			{Source: "A", Target: "B", Value: ptr(0.9)},
			{Source: "B", Target: "C", Value: ptr(0.2)},
		},
	}
}

func mustBuild(t *testing.T, doc Document) *Store {
	t.Helper()
	s, err := Build(doc)
	require.NoError(t, err)
	return s
}

func nodeIDs(nodes []*Node) []string {
	ids := make([]string, len(nodes))
	for i, n := range nodes {
		ids[i] = n.ID
	}
	return ids
}

func linkKeys(links []*Link) []string {
	keys := make([]string, len(links))
	for i, l := range links {
		keys[i] = l.Key().String()
	}
	return keys
}
