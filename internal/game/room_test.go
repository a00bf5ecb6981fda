package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitializeMapsBuildsLinkedChainEndingAtTheTerminalMap(t *testing.T) {
	r := NewRoom(1)
	require.NoError(t, r.InitializeMaps())

	maps := r.Maps()
	require.Len(t, maps, 3)
	assert.Equal(t, []string{"A", "B", "C"}, []string{maps[0].Name, maps[1].Name, maps[2].Name})

	assert.Nil(t, maps[0].EndPoint)
	assert.Nil(t, maps[1].EndPoint)
	require.NotNil(t, maps[2].EndPoint)
	assert.Equal(t, Point{14, 14}, *maps[2].EndPoint)

	aPortals := maps[0].Portals()
	require.Len(t, aPortals, 1)
	assert.Equal(t, "B", aPortals[0].LinkedMapName)

	bPortals := maps[1].Portals()
	require.Len(t, bPortals, 1)
	assert.Equal(t, "C", bPortals[0].LinkedMapName)

	assert.Empty(t, maps[2].Portals(), "the terminal map has no outbound portal")
}

func TestJoinPlayerPlacesPlayerOnTheEntryMapOnly(t *testing.T) {
	r := NewRoom(1)
	require.NoError(t, r.InitializeMaps())

	p := NewPlayer("000000000001", "Alice")
	require.True(t, r.JoinPlayer(p))

	assert.Equal(t, uint64(1), func() uint64 { id, _ := p.RoomID(); return id }())
	assert.Equal(t, "A", p.CurrentMapName())
	assert.Equal(t, r.EntryMap().StartPoint, p.Position())

	// "a player is present on exactly one map unless finished" — check
	// every map in the chain, not just the entry map.
	present := 0
	for _, m := range r.Maps() {
		if _, ok := m.GetPlayer(p.ID()); ok {
			present++
		}
	}
	assert.Equal(t, 1, present)
}

func TestRemovePlayerClearsFromEveryMap(t *testing.T) {
	r := NewRoom(1)
	require.NoError(t, r.InitializeMaps())

	p := NewPlayer("000000000001", "Alice")
	require.True(t, r.JoinPlayer(p))
	require.True(t, r.RemovePlayer(p))

	for _, m := range r.Maps() {
		_, ok := m.GetPlayer(p.ID())
		assert.False(t, ok)
	}
}

func TestRankingsReflectFinishOrderAndTotalDistance(t *testing.T) {
	r := NewRoom(1)
	require.NoError(t, r.InitializeMaps())

	p1 := NewPlayer("000000000001", "Alice")
	p2 := NewPlayer("000000000002", "Bob")
	require.True(t, r.JoinPlayer(p1))
	require.True(t, r.JoinPlayer(p2))

	p2.Move(Point{2, 1})
	p2.Move(Point{2, 2})
	r.RecordFinish(p2)

	p1.Move(Point{2, 1})
	r.RecordFinish(p1)

	rankings := r.Rankings()
	require.Len(t, rankings, 2)
	assert.Equal(t, "000000000002", rankings[0].PlayerID)
	assert.Equal(t, 1, rankings[0].FinishOrder)
	assert.Equal(t, uint32(2), rankings[0].TotalDistance)
	assert.Equal(t, "000000000001", rankings[1].PlayerID)
	assert.Equal(t, 2, rankings[1].FinishOrder)
}

func TestAllFinishedIsTrueOnlyAfterEveryIndexedPlayerHasLeft(t *testing.T) {
	r := NewRoom(1)
	require.NoError(t, r.InitializeMaps())

	p1 := NewPlayer("000000000001", "Alice")
	p2 := NewPlayer("000000000002", "Bob")
	require.True(t, r.JoinPlayer(p1))
	require.True(t, r.JoinPlayer(p2))

	assert.False(t, r.AllFinished())

	entry := r.EntryMap()
	entry.RemovePlayer(p1)
	p1.SetFinished(true)
	assert.False(t, r.AllFinished(), "Bob is still indexed and unfinished")

	entry.RemovePlayer(p2)
	p2.SetFinished(true)
	assert.True(t, r.AllFinished())
}
