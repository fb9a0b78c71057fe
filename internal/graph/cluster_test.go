package graph

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

func clusterIDs(c map[string]struct{}) []string {
	ids := make([]string, 0, len(c))
	for id := range c {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func twoComponentDoc() Document {
	return Document{
		Nodes: []NodeRecord{{ID: "A"}, {ID: "B"}, {ID: "C"}, {ID: "D"}, {ID: "E"}, {ID: "lonely"}},
		Links: []LinkRecord{
			{Source: "A", Target: "B", Value: ptr(0.9)},
			{Source: "C", Target: "B", Value: ptr(0.01)},
			{Source: "D", Target: "E", Value: ptr(0.5)},
			{Source: "E", Target: "E", Value: ptr(0.5)},
		},
	}
}

func TestCluster(t *testing.T) {
	s := mustBuild(t, twoComponentDoc())

	tests := []struct {
		start string
		want  []string
	}{
		{"A", []string{"A", "B", "C"}},
		{"C", []string{"A", "B", "C"}},
		{"E", []string{"D", "E"}},
		{"lonely", []string{"lonely"}},
		{"Z", []string{"Z"}},
	}
	for _, tt := range tests {
		t.Run(tt.start, func(t *testing.T) {
			assert.Equal(t, tt.want, clusterIDs(Cluster(s, tt.start)))
		})
	}
}

// Link weight and threshold play no part in connectivity.
func TestCluster_IgnoresWeights(t *testing.T) {
	s := mustBuild(t, twoComponentDoc())
	_, ok := Cluster(s, "A")["C"]
	assert.True(t, ok)
}

func TestInCluster(t *testing.T) {
	s := mustBuild(t, twoComponentDoc())
	c := Cluster(s, "A")

	for _, l := range s.Links() {
		want := l.SourceID != "D" && l.SourceID != "E"
		assert.Equal(t, want, InCluster(c, l), l.Key().String())
	}
}
