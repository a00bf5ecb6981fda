package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIDGeneratorProducesZeroPadded12DigitSequence(t *testing.T) {
	g := NewIDGenerator()
	assert.Equal(t, "000000000000", g.Next())
	assert.Equal(t, "000000000001", g.Next())
	assert.Equal(t, "000000000002", g.Next())
}

func TestMoveIncrementsTotalDistanceSetPositionDoesNot(t *testing.T) {
	p := NewPlayer("000000000001", "Alice")

	p.SetPosition(Point{1, 1})
	assert.Equal(t, uint32(0), p.TotalDistance())

	p.Move(Point{2, 1})
	assert.Equal(t, Point{2, 1}, p.Position())
	assert.Equal(t, uint32(1), p.TotalDistance())

	p.Move(Point{2, 2})
	assert.Equal(t, uint32(2), p.TotalDistance())
}

func TestRoomIDStartsUnset(t *testing.T) {
	p := NewPlayer("000000000001", "Alice")
	_, ok := p.RoomID()
	assert.False(t, ok)

	p.SetRoomID(7)
	id, ok := p.RoomID()
	assert.True(t, ok)
	assert.Equal(t, uint64(7), id)
}

func TestPlayerStateIsAConsistentSnapshot(t *testing.T) {
	p := NewPlayer("000000000001", "Alice")
	p.SetCurrentMapName("A")
	p.Move(Point{2, 1})
	p.SetFinished(true)

	st := p.State()
	assert.Equal(t, "000000000001", st.ID)
	assert.Equal(t, "Alice", st.Name)
	assert.Equal(t, Point{2, 1}, st.Position)
	assert.Equal(t, uint32(1), st.TotalDistance)
	assert.True(t, st.IsFinished)
	assert.Equal(t, "A", st.CurrentMapName)
}
