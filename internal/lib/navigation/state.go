package navigation

import (
	"github.com/zack5769/saferide/internal/lib/geo"
)

// Status is the simulator lifecycle phase
type Status string

const (
	StatusIdle     Status = "idle"
	StatusRunning  Status = "running"
	StatusComplete Status = "complete"
)

// State is one navigation snapshot, produced once per tick and never persisted
type State struct {
	CoordinateIndex           int            `json:"coordinateIndex"`
	InstructionIndex          int            `json:"instructionIndex"`
	Position                  geo.Coordinate `json:"position"`
	ProgressPercent           float64        `json:"progressPercent"`
	RemainingTime             int64          `json:"remainingTime"`     // milliseconds
	RemainingDistance         int64          `json:"remainingDistance"` // meters
	DistanceToNextInstruction float64        `json:"distanceToNextInstruction"`
	IsComplete                bool           `json:"isComplete"`
	Status                    Status         `json:"status"`
}

// Listener receives each state the simulator emits. It runs on the simulator's
// goroutine and must not call Start, Stop or Resume on the same simulator.
type Listener func(State)
