package system

import (
	"sort"
	"time"

	"go.uber.org/zap"
)

// Runner executes systems in phase order each tick. Systems sharing a phase
// run in registration order. A tick that takes longer than the budget is
// logged with the slowest system.
type Runner struct {
	systems []System
	sorted  bool

	budget   time.Duration // 0 disables overrun detection
	overruns uint64
	log      *zap.Logger
}

func NewRunner(budget time.Duration, log *zap.Logger) *Runner {
	return &Runner{
		systems: make([]System, 0, 8),
		budget:  budget,
		log:     log,
	}
}

func (r *Runner) Register(s System) {
	r.systems = append(r.systems, s)
	r.sorted = false
}

func (r *Runner) Len() int { return len(r.systems) }

// Overruns returns how many ticks exceeded the budget.
func (r *Runner) Overruns() uint64 { return r.overruns }

func (r *Runner) Tick(dt time.Duration) {
	r.ensureSorted()
	if r.budget <= 0 {
		for _, s := range r.systems {
			s.Update(dt)
		}
		return
	}

	start := time.Now()
	var slowest System
	var slowestTook time.Duration
	for _, s := range r.systems {
		t0 := time.Now()
		s.Update(dt)
		if took := time.Since(t0); took > slowestTook {
			slowest, slowestTook = s, took
		}
	}
	if elapsed := time.Since(start); elapsed > r.budget {
		r.overruns++
		r.log.Warn("tick overran budget",
			zap.Duration("elapsed", elapsed),
			zap.Duration("budget", r.budget),
			zap.String("slowest", systemName(slowest)),
			zap.Duration("slowest_took", slowestTook),
			zap.Uint64("overruns", r.overruns))
	}
}

func (r *Runner) ensureSorted() {
	if !r.sorted {
		sort.SliceStable(r.systems, func(i, j int) bool {
			return r.systems[i].Phase() < r.systems[j].Phase()
		})
		r.sorted = true
	}
}

// systemName prefers a Name method, falling back to the phase.
func systemName(s System) string {
	if s == nil {
		return ""
	}
	if n, ok := s.(interface{ Name() string }); ok {
		return n.Name()
	}
	return s.Phase().String()
}
