package state

import (
	"testing"

	"github.com/mazerace/server/internal/game"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddWaitingAndPopWaitingIsFIFO(t *testing.T) {
	s := New()
	p1 := game.NewPlayer("1", "Alice")
	p2 := game.NewPlayer("2", "Bob")
	p3 := game.NewPlayer("3", "Carol")

	s.AddWaiting(p1)
	s.AddWaiting(p2)
	s.AddWaiting(p3)
	assert.Equal(t, 3, s.WaitingCount())

	popped := s.PopWaiting(2)
	require.Len(t, popped, 2)
	assert.Equal(t, p1, popped[0])
	assert.Equal(t, p2, popped[1])
	assert.Equal(t, 1, s.WaitingCount())
}

func TestPopWaitingCapsAtQueueLength(t *testing.T) {
	s := New()
	p1 := game.NewPlayer("1", "Alice")
	s.AddWaiting(p1)

	popped := s.PopWaiting(5)
	assert.Len(t, popped, 1)
	assert.Equal(t, 0, s.WaitingCount())
}

func TestRemoveWaiting(t *testing.T) {
	s := New()
	p1 := game.NewPlayer("1", "Alice")
	p2 := game.NewPlayer("2", "Bob")
	s.AddWaiting(p1)
	s.AddWaiting(p2)

	assert.True(t, s.RemoveWaiting(p1))
	assert.Equal(t, 1, s.WaitingCount())
	assert.False(t, s.RemoveWaiting(p1))
}

func TestCreateRoomAssignsSequentialIDsStartingAtZero(t *testing.T) {
	s := New()
	r0 := s.CreateRoom()
	r1 := s.CreateRoom()

	assert.Equal(t, uint64(0), r0.ID)
	assert.Equal(t, uint64(1), r1.ID)

	got, ok := s.FindRoom(0)
	require.True(t, ok)
	assert.Equal(t, r0, got)
}

func TestRemoveRoom(t *testing.T) {
	s := New()
	r := s.CreateRoom()
	s.RemoveRoom(r.ID)

	_, ok := s.FindRoom(r.ID)
	assert.False(t, ok)
	assert.Empty(t, s.AllRooms())
}
