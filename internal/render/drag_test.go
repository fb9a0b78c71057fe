package render

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/npratt/causalview/internal/graph"
	tu "github.com/npratt/causalview/internal/testutil"
)

func TestDragLifecycle(t *testing.T) {
	s, eng, store := newScene(t)
	sg := tu.MustFilter(t, store, 0.1, "")
	_, err := s.Sync(sg.Nodes, sg.Links)
	require.NoError(t, err)

	a, _ := store.Node("A")
	a.X, a.Y = 5, 6

	require.NoError(t, s.DragStart("A"))
	assert.True(t, s.Dragging("A"))
	assert.Equal(t, DragAlphaTarget, eng.AlphaTarget)
	require.NotNil(t, a.Pin)
	assert.Equal(t, graph.Point{X: 5, Y: 6}, *a.Pin)

	require.NoError(t, s.DragTo("A", 50, 60))
	assert.Equal(t, graph.Point{X: 50, Y: 60}, *a.Pin)

	require.NoError(t, s.DragEnd("A"))
	assert.False(t, s.Dragging("A"))
	assert.Nil(t, a.Pin)
	assert.Equal(t, 0.0, eng.AlphaTarget)
}

func TestDragUnknownNode(t *testing.T) {
	s, _, _ := newScene(t)
	err := s.DragStart("Z")
	assert.True(t, errors.Is(err, graph.ErrNodeNotFound))
	assert.Error(t, s.DragTo("Z", 1, 1))
	assert.Error(t, s.DragEnd("Z"))
}

func TestDragRemovedBySync(t *testing.T) {
	s, eng, store := newScene(t)
	sg := tu.MustFilter(t, store, 0.1, "")
	_, err := s.Sync(sg.Nodes, sg.Links)
	require.NoError(t, err)

	require.NoError(t, s.DragStart("C"))
	sg = tu.MustFilter(t, store, 0.5, "")
	_, err = s.Sync(sg.Nodes, sg.Links)
	require.NoError(t, err)

	c, _ := store.Node("C")
	assert.Nil(t, c.Pin)
	assert.False(t, s.Dragging("C"))
	assert.Equal(t, 0.0, eng.AlphaTarget)
}
