package marking

import (
	"math/rand/v2"
	"time"

	"markpool/internal/config"
)

// Pacing holds the simulated work timings.
type Pacing struct {
	ReviewMin   time.Duration
	ReviewMax   time.Duration
	MarkMin     time.Duration
	MarkMax     time.Duration
	IdleBackoff time.Duration
}

// PacingFromConfig converts the millisecond settings in cfg.
func PacingFromConfig(cfg *config.Config) Pacing {
	ms := func(v int) time.Duration { return time.Duration(v) * time.Millisecond }
	m := cfg.Marking
	return Pacing{
		ReviewMin:   ms(m.ReviewDelayMinMS),
		ReviewMax:   ms(m.ReviewDelayMaxMS),
		MarkMin:     ms(m.MarkDelayMinMS),
		MarkMax:     ms(m.MarkDelayMaxMS),
		IdleBackoff: ms(m.IdleBackoffMS),
	}
}

func between(rng *rand.Rand, lo, hi time.Duration) time.Duration {
	if hi <= lo {
		return lo
	}
	return lo + time.Duration(rng.Int64N(int64(hi-lo)+1))
}

func (p Pacing) review(rng *rand.Rand) time.Duration {
	return between(rng, p.ReviewMin, p.ReviewMax)
}

func (p Pacing) mark(rng *rand.Rand) time.Duration {
	return between(rng, p.MarkMin, p.MarkMax)
}

// Sleeper pauses the calling grader. It is never called with a guard held.
type Sleeper func(time.Duration)

func defaultSleep(d time.Duration) {
	if d > 0 {
		time.Sleep(d)
	}
}
