package duty

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/tifye/onduty/assert"
)

// CheckInterval is the in-game time between two spawn checks.
const CheckInterval = 60

// Rand is the random source used for spawn checks. *rand.Rand from
// math/rand/v2 satisfies it.
type Rand interface {
	Float64() float64
}

type Scheduler struct {
	logger *log.Logger
	rnd    Rand

	probability  float64
	maxAnomalies int
	minCooldown  int
}

func NewScheduler(logger *log.Logger, rnd Rand, settings Settings) *Scheduler {
	assert.AssertNotNil(logger)
	assert.AssertNotNil(rnd)
	return &Scheduler{
		logger:       logger,
		rnd:          rnd,
		probability:  settings.Probability,
		maxAnomalies: settings.MaxAnomalies,
		minCooldown:  settings.MinSecondsBetweenAnomalies,
	}
}

// ComputeSpawns returns how many anomalies should be created now.
//
// Time accumulated since the last call is replayed one check interval
// at a time, so a long idle gap produces the same outcome as the same
// gap spread over many short turns. Which rooms and kinds to use is up
// to the caller.
func (s *Scheduler) ComputeSpawns(st *State, reg *Registry) (int, error) {
	if reg.Len() < s.maxAnomalies {
		return 0, fmt.Errorf("%w: %d rooms for a cap of %d", ErrTooFewRooms, reg.Len(), s.maxAnomalies)
	}

	assert.AssertNonNegative("SinceCheck", st.SinceCheck)
	assert.AssertNonNegative("SinceSpawn", st.SinceSpawn)

	remainder := st.SinceCheck % CheckInterval
	checks := st.SinceCheck / CheckInterval

	if st.SinceSpawn < s.minCooldown {
		// Cooldown is measured in in-game time, not in checks. No
		// draws are consumed while it runs.
		st.SinceCheck = remainder
		return 0, nil
	}

	free := len(reg.Unchanged())
	active := st.Active

	// Since-last-spawn as it was one interval before the first
	// unprocessed check. Negative when the last anomaly was created
	// after that point; the cooldown check rejects those checks.
	sinceSpawn := st.SinceSpawn - st.SinceCheck

	spawns := 0
	for range checks {
		valid := active < s.maxAnomalies && free > 0
		sinceSpawn += CheckInterval
		if !valid {
			continue
		}
		if sinceSpawn < s.minCooldown {
			continue
		}

		if s.rnd.Float64() < s.probability {
			spawns++
			free--
			active++
			sinceSpawn = 0
		}
	}

	st.SinceCheck = remainder
	st.SinceSpawn = sinceSpawn + remainder

	if spawns > 0 {
		s.logger.Debug("spawn checks", "checks", checks, "spawns", spawns, "sinceSpawn", st.SinceSpawn)
	}
	return spawns, nil
}
