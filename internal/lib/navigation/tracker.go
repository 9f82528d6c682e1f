package navigation

import (
	"math"

	"github.com/zack5769/saferide/internal/lib/geo"
	"github.com/zack5769/saferide/internal/lib/route"
)

// tracker holds the stepping counters for one route. It outlives individual
// runs so that resume can continue where a stopped run left off.
type tracker struct {
	coords        []geo.Coordinate
	instructions  []route.Instruction
	totalTime     int64
	totalDistance float64

	coordinateIndex  int // next coordinate to visit
	instructionIndex int
}

func newTracker(path *route.RoutePath) tracker {
	return tracker{
		coords:        path.Coordinates(),
		instructions:  path.Instructions,
		totalTime:     path.Time,
		totalDistance: path.Distance,
	}
}

func (t *tracker) reset() {
	t.coordinateIndex = 0
	t.instructionIndex = 0
}

func (t *tracker) exhausted() bool {
	return t.coordinateIndex >= len(t.coords)
}

func (t *tracker) onLastInstruction() bool {
	return t.instructionIndex >= len(t.instructions)-1
}

// current describes the position the next tick will visit, without advancing
func (t *tracker) current() State {
	if t.exhausted() {
		return t.final()
	}
	return t.measure(t.coordinateIndex)
}

// step performs one tick: measure the live coordinate, advance the instruction
// when its interval has been reached, then move to the next coordinate. The tick
// that consumes the last coordinate also completes the run.
func (t *tracker) step() State {
	if t.exhausted() {
		return t.final()
	}

	idx := t.coordinateIndex
	state := t.measure(idx)

	if idx >= t.instructions[t.instructionIndex].Interval.End() && !t.onLastInstruction() {
		t.instructionIndex++
	}
	t.coordinateIndex++

	if t.exhausted() {
		return t.final()
	}
	state.InstructionIndex = t.instructionIndex
	return state
}

func (t *tracker) measure(idx int) State {
	n := len(t.coords)
	position := t.coords[idx]
	remainingShare := float64(n-idx) / float64(n)

	return State{
		CoordinateIndex:           idx,
		InstructionIndex:          t.instructionIndex,
		Position:                  position,
		ProgressPercent:           float64(idx) / float64(n) * 100,
		RemainingTime:             int64(math.Round(float64(t.totalTime) * remainingShare)),
		RemainingDistance:         int64(math.Round(t.totalDistance * remainingShare)),
		DistanceToNextInstruction: t.distanceToNextInstruction(position, idx),
	}
}

func (t *tracker) distanceToNextInstruction(position geo.Coordinate, idx int) float64 {
	if t.onLastInstruction() {
		return 0
	}
	end := t.instructions[t.instructionIndex].Interval.End()
	return geo.Between(position, t.coords[idx]) + geo.PathLength(t.coords, idx, end)
}

func (t *tracker) final() State {
	last := len(t.coords) - 1
	return State{
		CoordinateIndex:  last,
		InstructionIndex: t.instructionIndex,
		Position:         t.coords[last],
		ProgressPercent:  100,
		IsComplete:       true,
	}
}
