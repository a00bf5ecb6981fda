package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapIsValidPositionRejectsBoundaryAndObstacles(t *testing.T) {
	end := Point{8, 8}
	m := NewMap("A", 10, 10, Point{1, 1}, &end)

	assert.False(t, m.IsValidPosition(Point{0, 5}), "left edge is the permanent wall")
	assert.False(t, m.IsValidPosition(Point{5, 0}), "top edge is the permanent wall")
	assert.True(t, m.IsValidPosition(Point{9, 5}), "right edge is in range: an end_point can sit at width-1")
	assert.True(t, m.IsValidPosition(Point{5, 9}), "bottom edge is in range: an end_point can sit at height-1")
	assert.True(t, m.IsValidPosition(Point{5, 5}))

	require.NoError(t, m.GenerateRandomObstacles(true))
	for pt := range m.obstacles {
		assert.False(t, m.IsValidPosition(pt))
	}
}

func TestMapAddRemoveGetPlayer(t *testing.T) {
	m := NewMap("A", 10, 10, Point{1, 1}, nil)
	p := NewPlayer("000000000001", "Alice")

	assert.True(t, m.AddPlayer(p))
	assert.False(t, m.AddPlayer(p), "a second add of the same player must be rejected")

	got, ok := m.GetPlayer(p.ID())
	require.True(t, ok)
	assert.Equal(t, p, got)

	assert.True(t, m.RemovePlayer(p))
	assert.False(t, m.RemovePlayer(p), "removing an absent player must be rejected")

	_, ok = m.GetPlayer(p.ID())
	assert.False(t, ok)
}

func TestGenerateRandomPortalRespectsMinDistanceAndForbiddenCells(t *testing.T) {
	end := Point{14, 14}
	m := NewMap("A", 15, 15, Point{1, 1}, &end)

	name, err := m.GenerateRandomPortal("B")
	require.NoError(t, err)
	assert.Equal(t, "A-0", name)

	portals := m.Portals()
	require.Len(t, portals, 1)
	assert.NotEqual(t, m.StartPoint, portals[0].Position)
	assert.NotEqual(t, end, portals[0].Position)
	assert.GreaterOrEqual(t, portals[0].Position.ManhattanDistance(m.StartPoint), m.portalMinDistance())
	assert.Equal(t, "B", portals[0].LinkedMapName)

	second, err := m.GenerateRandomPortal("C")
	require.NoError(t, err)
	assert.NotEqual(t, portals[0].Position, m.Portals()[1].Position)
	assert.Equal(t, "A-1", second)
}

func TestGenerateRandomPortalFailsOnTinyMap(t *testing.T) {
	m := NewMap("A", 2, 2, Point{0, 0}, nil)
	_, err := m.GenerateRandomPortal("B")
	require.Error(t, err)
	var target *ErrPortalPlacementFailed
	assert.ErrorAs(t, err, &target)
}

func TestExtractMapInfoOmitsEndWhenNil(t *testing.T) {
	m := NewMap("A", 10, 10, Point{1, 1}, nil)
	info := m.ExtractMapInfo()
	assert.Nil(t, info.End)
	assert.Equal(t, "A", info.Name)
	assert.Equal(t, Point{1, 1}, info.Start)
}
