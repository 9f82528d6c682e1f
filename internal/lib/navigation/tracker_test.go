package navigation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zack5769/saferide/internal/lib/geo"
	"github.com/zack5769/saferide/internal/lib/route"
)

func TestTracker_InstructionIndexStaysInBounds(t *testing.T) {
	path := testPath()
	// Intervals that end before the polyline does push the index toward the end early
	path.Instructions = []route.Instruction{
		{Sign: route.ContinueOnStreet, Interval: route.Interval{0, 0}},
		{Sign: route.TurnRight, Interval: route.Interval{0, 1}},
		{Sign: route.Finish, Interval: route.Interval{1, 1}},
	}
	tr := newTracker(path)

	for i := 0; i < 20; i++ {
		s := tr.step()
		assert.LessOrEqual(t, s.InstructionIndex, len(path.Instructions)-1)
		assert.GreaterOrEqual(t, s.InstructionIndex, 0)
	}
	assert.True(t, tr.exhausted())
}

func TestTracker_StepPastEndStaysComplete(t *testing.T) {
	tr := newTracker(testPath())
	for i := 0; i < 5; i++ {
		tr.step()
	}

	s := tr.step()
	assert.True(t, s.IsComplete)
	assert.Equal(t, 100.0, s.ProgressPercent)
	assert.Equal(t, int64(0), s.RemainingTime)
	assert.Equal(t, int64(0), s.RemainingDistance)
}

func TestTracker_TwoPointRoute(t *testing.T) {
	a, b := geo.Coordinate{137.70, 34.70}, geo.Coordinate{137.71, 34.70}
	tr := newTracker(&route.RoutePath{
		Distance: geo.Between(a, b),
		Time:     1000,
		Points:   route.NewLineString(a, b),
		Instructions: []route.Instruction{
			{Sign: route.ContinueOnStreet, Interval: route.Interval{0, 1}},
			{Sign: route.Finish, Interval: route.Interval{1, 1}},
		},
	})

	first := tr.step()
	assert.Equal(t, 0, first.CoordinateIndex)
	assert.InDelta(t, geo.Between(a, b), first.DistanceToNextInstruction, 1e-9)
	assert.Equal(t, int64(1000), first.RemainingTime)

	second := tr.step()
	assert.True(t, second.IsComplete)
	assert.Equal(t, b, second.Position)

	tr.reset()
	assert.Equal(t, 0, tr.current().CoordinateIndex)
	assert.False(t, tr.current().IsComplete)
}
