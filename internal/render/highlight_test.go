package render

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/npratt/causalview/internal/graph"
	tu "github.com/npratt/causalview/internal/testutil"
)

func syncedCausal(t *testing.T) (*Scene, *graph.Store) {
	t.Helper()
	store := tu.MustLoad(t, tu.CausalGraphJSON)
	s := NewScene(tu.NewFakeEngine())
	sg := tu.MustFilter(t, store, 0.05, "")
	_, err := s.Sync(sg.Nodes, sg.Links)
	require.NoError(t, err)
	return s, store
}

func TestApplySearch(t *testing.T) {
	s, _ := syncedCausal(t)
	s.ApplySearch("SOIL")
	assert.Equal(t, "search", s.Highlighted())

	match, _ := s.Node("SoilMoisture")
	assert.Equal(t, 15.0, match.Radius)
	assert.Equal(t, 1.0, match.Opacity)
	assert.Equal(t, 12.0, match.LabelSize)
	assert.True(t, match.LabelBold)

	miss, _ := s.Node("Rainfall")
	assert.Equal(t, 10.0, miss.Radius)
	assert.Equal(t, 0.3, miss.Opacity)
	assert.Equal(t, 8.0, miss.LabelSize)
	assert.False(t, miss.LabelBold)

	// Search never changes membership.
	assert.Equal(t, 7, s.NodeCount())
	assert.Equal(t, 6, s.LinkCount())
}

func TestApplySearchEmptyRestoresBaseline(t *testing.T) {
	s, _ := syncedCausal(t)
	s.ApplySearch("rain")
	s.ApplySearch("")

	assert.Equal(t, "", s.Highlighted())
	for _, el := range s.Nodes() {
		assert.Equal(t, BaseRadius, el.Radius, el.ID)
		assert.Equal(t, 1.0, el.Opacity, el.ID)
		assert.Equal(t, BaseLabelSize, el.LabelSize, el.ID)
	}
}

func TestApplyCluster(t *testing.T) {
	s, store := syncedCausal(t)
	s.ApplyCluster("Rainfall", graph.Cluster(store, "Rainfall"))

	focus, _ := s.Node("Rainfall")
	assert.Equal(t, 15.0, focus.Radius)
	assert.Equal(t, 14.0, focus.LabelSize)
	assert.True(t, focus.LabelBold)

	member, _ := s.Node("CropYield")
	assert.Equal(t, 10.0, member.Radius)
	assert.Equal(t, 10.0, member.LabelSize)
	assert.Equal(t, 1.0, member.Opacity)

	other, _ := s.Node("SolarFlux")
	assert.Equal(t, 5.0, other.Radius)
	assert.Equal(t, 0.1, other.Opacity)

	in, _ := s.Link("Rainfall", "SoilMoisture")
	assert.Equal(t, 1.0, in.Opacity)
	assert.InDelta(t, 2*math.Sqrt(0.82), in.Width, 1e-9)

	out, _ := s.Link("SolarFlux", "GridLoad")
	assert.Equal(t, 0.1, out.Opacity)
	assert.InDelta(t, math.Sqrt(0.55), out.Width, 1e-9)
}

func TestHighlightReappliedAfterSync(t *testing.T) {
	s, store := syncedCausal(t)
	s.ApplyCluster("Rainfall", graph.Cluster(store, "Rainfall"))

	// Drop everything, then bring it back: new elements get the highlight.
	_, err := s.Sync(nil, nil)
	require.NoError(t, err)
	sg := tu.MustFilter(t, store, 0.05, "")
	_, err = s.Sync(sg.Nodes, sg.Links)
	require.NoError(t, err)

	other, _ := s.Node("GridLoad")
	assert.Equal(t, 5.0, other.Radius)
	focus, _ := s.Node("Rainfall")
	assert.Equal(t, 15.0, focus.Radius)
}

func TestResetHighlight(t *testing.T) {
	s, store := syncedCausal(t)
	s.ApplyCluster("Rainfall", graph.Cluster(store, "Rainfall"))
	s.ResetHighlight()

	for _, el := range s.Links() {
		assert.Equal(t, BaseLinkOpacity, el.Opacity)
		assert.InDelta(t, math.Sqrt(el.Link.Value), el.Width, 1e-9)
	}
	for _, el := range s.Nodes() {
		assert.Equal(t, BaseRadius, el.Radius)
	}
}
