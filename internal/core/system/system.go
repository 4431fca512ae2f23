package system

import "time"

// Phase defines execution ordering within a single tick.
type Phase int

const (
	PhaseInput   Phase = iota // 0: drain client events into the keyboard bus
	PhaseLoad                 // 1: apply finished asset batches
	PhaseUpdate               // 2: world tick
	PhaseOutput               // 3: build + send frames
	PhasePersist              // 4: periodic snapshot
	PhaseCleanup              // 5: remove queued actors
)

// System is the interface every game-loop system implements.
type System interface {
	Phase() Phase
	Update(dt time.Duration)
}

var phaseNames = [...]string{"input", "load", "update", "output", "persist", "cleanup"}

func (p Phase) String() string {
	if p >= 0 && int(p) < len(phaseNames) {
		return phaseNames[p]
	}
	return "unknown"
}
