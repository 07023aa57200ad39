package engine

import (
	"time"

	"github.com/PedroHContessoto/pelanca/internal/board"
)

// TimeManager allocates thinking time for one search. The optimum is
// the target spend for a normal move, the maximum a hard ceiling that
// always leaves a safety margin on the clock.
type TimeManager struct {
	start   time.Time
	optimum time.Duration
	maximum time.Duration
	limited bool
}

// stabilityScale shrinks the soft deadline as the best move stays
// unchanged across iterations, in percent of optimum.
var stabilityScale = [...]int{100, 95, 80, 70, 60, 50, 40}

func newTimeManager(limits Limits, us board.Color, ply int) *TimeManager {
	tm := &TimeManager{start: time.Now()}

	if limits.MoveTime > 0 {
		tm.optimum = limits.MoveTime
		tm.maximum = limits.MoveTime
		tm.limited = true
		return tm
	}

	remaining := limits.WhiteTime
	inc := limits.WhiteInc
	if us == board.Black {
		remaining = limits.BlackTime
		inc = limits.BlackInc
	}
	if limits.Infinite || remaining == 0 {
		return tm
	}
	tm.limited = true

	mtg := limits.MovesToGo
	if mtg == 0 {
		// Sudden death: assume the game shortens as it progresses.
		mtg = 45 - ply/4
		if mtg < 12 {
			mtg = 12
		}
	}

	tm.optimum = remaining/time.Duration(mtg) + inc*3/4
	tm.maximum = tm.optimum * 4
	if ceiling := remaining * 4 / 5; tm.maximum > ceiling {
		tm.maximum = ceiling
	}
	if tm.optimum > tm.maximum {
		tm.optimum = tm.maximum
	}
	if tm.optimum < 5*time.Millisecond {
		tm.optimum = 5 * time.Millisecond
	}
	if tm.maximum < 20*time.Millisecond {
		tm.maximum = 20 * time.Millisecond
	}
	return tm
}

// Elapsed returns the time since the search started.
func (tm *TimeManager) Elapsed() time.Duration {
	return time.Since(tm.start)
}

// HardStop reports whether the search must stop now.
func (tm *TimeManager) HardStop() bool {
	return tm.limited && tm.Elapsed() >= tm.maximum
}

// SoftStop reports whether starting another iteration is worthwhile.
// stability counts consecutive iterations with an unchanged best move;
// a stable search gives up its remaining optimum earlier.
func (tm *TimeManager) SoftStop(stability int) bool {
	if !tm.limited {
		return false
	}
	if stability >= len(stabilityScale) {
		stability = len(stabilityScale) - 1
	}
	deadline := tm.optimum * time.Duration(stabilityScale[stability]) / 100
	return tm.Elapsed() >= deadline
}
