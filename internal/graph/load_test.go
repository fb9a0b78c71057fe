package graph

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/golang/snappy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const causalJSON = `{
  "nodes": [
    {"id": "rain", "group": 1},
    {"id": "wet_grass", "group": 1},
    {"id": "sprinkler", "group": 2},
    {"id": "slippery"}
  ],
  "links": [
    {"source": "rain", "target": "wet_grass", "value": 0.8},
    {"source": "sprinkler", "target": "wet_grass", "value": 0.6},
    {"source": "wet_grass", "target": "slippery", "value": 0.4},
    {"source": "rain", "target": "Q", "value": 0.9}
  ]
}`

func TestLoad_JSON(t *testing.T) {
	s, err := Load(strings.NewReader(causalJSON), FormatJSON)
	require.NoError(t, err)

	assert.Equal(t, []string{"rain", "wet_grass", "sprinkler", "slippery"}, s.NodeIDs())
	assert.Equal(t, 3, s.LinkCount())
	assert.Equal(t, 0, mustNode(t, s, "slippery").GroupOrZero())
	assert.Equal(t, 2, mustNode(t, s, "sprinkler").GroupOrZero())
}

// A link to an unknown node is dropped with a diagnostic, not a failure.
func TestLoad_DropsUnknownEndpoint(t *testing.T) {
	s, err := Load(strings.NewReader(causalJSON), FormatJSON)
	require.NoError(t, err)

	require.Len(t, s.Diagnostics(), 1)
	d := s.Diagnostics()[0]
	assert.Equal(t, 3, d.Index)
	assert.Equal(t, "Q", d.Target)
	assert.Contains(t, d.Reason, `"Q"`)
	assert.Equal(t, 4-1, s.LinkCount())
	for _, l := range s.Links() {
		assert.NotEqual(t, "Q", l.TargetID)
	}
}

func TestLoad_ResolvesEndpointsToStoreNodes(t *testing.T) {
	s := mustBuild(t, abcDoc())

	a, _ := s.Node("A")
	b, _ := s.Node("B")
	l := s.Links()[0]
	assert.Same(t, a, l.Source)
	assert.Same(t, b, l.Target)
}

func TestLoad_YAML(t *testing.T) {
	doc := `
nodes:
  - id: A
  - id: B
links:
  - source: A
    target: B
    value: 0.5
`
	s, err := Load(strings.NewReader(doc), FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, 2, s.NodeCount())
	assert.Equal(t, 1, s.LinkCount())
}

func TestLoad_Malformed(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantMsg string
	}{
		{"not json", `{"nodes": [`, "decode json"},
		{"missing node id", `{"nodes":[{"group":1}],"links":[]}`, "Nodes[0].ID: is required"},
		{"duplicate node id", `{"nodes":[{"id":"A"},{"id":"A"}],"links":[]}`, "duplicate node id"},
		{"missing source", `{"nodes":[{"id":"A"}],"links":[{"target":"A","value":1}]}`, "Links[0].Source: is required"},
		{"missing value", `{"nodes":[{"id":"A"}],"links":[{"source":"A","target":"A"}]}`, "Links[0].Value: is required"},
		{"negative value", `{"nodes":[{"id":"A"}],"links":[{"source":"A","target":"A","value":-1}]}`, "must be >= 0"},
		{"missing nodes list", `{"links":[]}`, "Nodes: is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tt.input), FormatJSON)
			require.Error(t, err)

			var le *LoadError
			require.True(t, errors.As(err, &le), "want *LoadError, got %T", err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestLoad_ZeroValueAccepted(t *testing.T) {
	_, err := Load(strings.NewReader(`{"nodes":[{"id":"A"},{"id":"B"}],"links":[{"source":"A","target":"B","value":0}]}`), FormatJSON)
	require.NoError(t, err)
}

func TestLoadFile_MissingFile(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.json"), nil)
	require.Error(t, err)

	var le *LoadError
	require.ErrorAs(t, err, &le)
	assert.True(t, errors.Is(err, os.ErrNotExist))
	assert.Contains(t, le.Path, "nope.json")
}

func TestLoadFile_Snappy(t *testing.T) {
	var buf bytes.Buffer
	w := snappy.NewBufferedWriter(&buf)
	_, err := w.Write([]byte(causalJSON))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	path := filepath.Join(t.TempDir(), "graph_causal.json.sz")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))

	s, err := LoadFile(path, nil)
	require.NoError(t, err)
	assert.Equal(t, 4, s.NodeCount())
}

func TestFormatForPath(t *testing.T) {
	tests := []struct {
		path       string
		format     Format
		compressed bool
	}{
		{"graph.json", FormatJSON, false},
		{"graph.YAML", FormatYAML, false},
		{"graph.yml.sz", FormatYAML, true},
		{"graph_causal.json.sz", FormatJSON, true},
		{"graph", FormatJSON, false},
	}
	for _, tt := range tests {
		f, c := FormatForPath(tt.path)
		assert.Equal(t, tt.format, f, tt.path)
		assert.Equal(t, tt.compressed, c, tt.path)
	}
}

func mustNode(t *testing.T, s *Store, id string) *Node {
	t.Helper()
	n, ok := s.Node(id)
	require.True(t, ok, "node %s", id)
	return n
}
