package duty

import "time"

// Clock converts real time between ticks into in-game seconds.
type Clock struct {
	now       func() time.Time
	timescale float64

	prev    time.Time
	started bool
}

func NewClock(timescale float64, now func() time.Time) *Clock {
	if now == nil {
		now = time.Now
	}
	return &Clock{
		now:       now,
		timescale: timescale,
	}
}

// Tick advances the in-game counters by the real time passed since the
// previous tick, scaled and truncated to whole seconds. The first call
// only records the baseline. Returns the in-game seconds added.
func (c *Clock) Tick(st *State) int {
	current := c.now()
	if !c.started {
		c.prev = current
		c.started = true
		return 0
	}

	// A reading behind the baseline is ignored so the interval is not
	// counted twice once the clock catches up.
	delta := current.Sub(c.prev)
	if delta <= 0 {
		return 0
	}
	c.prev = current

	scaled := int(delta.Seconds() * c.timescale)
	st.Elapsed += scaled
	st.SinceCheck += scaled
	st.SinceSpawn += scaled
	return scaled
}
