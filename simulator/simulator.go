package simulator

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/charmbracelet/log"
	"github.com/tifye/onduty/assert"
	"github.com/tifye/onduty/content"
	"github.com/tifye/onduty/duty"
)

const probabilityRange = 100

var simulationEpoch = time.Date(2024, 10, 31, 22, 0, 0, 0, time.UTC)

// Simulator plays a whole shift headless with a fake clock and a
// scripted operator, checking the game's invariants after every step.
type Simulator struct {
	logger *log.Logger
	seed1  uint64
	seed2  uint64
	config Config

	rnd  *rand.Rand
	now  time.Time
	game *duty.Game
	gen  *content.Generator

	operator *operator

	// Used for invariant checks
	lastElapsed int
	lastFound   int
	numTurns    int
}

func NewSimulator(logger *log.Logger, seed1, seed2 uint64, config Config) (*Simulator, error) {
	assert.AssertNotNil(logger)
	assert.Assert(config.MaxTurns > 0, "expected a positive turn limit")
	assert.Assert(config.MaxIdle > 0, "expected a positive idle time")

	s := &Simulator{
		logger: logger,
		seed1:  seed1,
		seed2:  seed2,
		config: config,
		rnd:    rand.New(rand.NewPCG(seed1, seed2)),
		now:    simulationEpoch,
	}

	reg, err := content.Registry(config.Rooms)
	if err != nil {
		return nil, fmt.Errorf("register rooms: %w", err)
	}
	s.gen = content.NewGenerator(logger.WithPrefix("content"), s.rnd)
	catalog, err := duty.NewCatalog(s.gen.Kinds()...)
	if err != nil {
		return nil, fmt.Errorf("new catalog: %w", err)
	}

	s.game, err = duty.NewGame(logger.WithPrefix("duty"), config.Settings, reg, catalog, duty.Options{
		Now:  s.clock,
		Rand: s.rnd,
		Wait: s.investigate,
	})
	if err != nil {
		return nil, fmt.Errorf("new game: %w", err)
	}

	s.operator = newOperator(logger, s.game, s.rnd, config.operator)
	return s, nil
}

func (s *Simulator) clock() time.Time {
	return s.now
}

// investigate spends the report delay on the fake clock.
func (s *Simulator) investigate(_ context.Context, d time.Duration) error {
	s.now = s.now.Add(d)
	return nil
}

func (s *Simulator) String() string {
	st := s.game.State()
	return fmt.Sprintf(
		`turns: %d
elapsed: %s
found: %d
active: %d
%s`, s.numTurns,
		st.ClockString(),
		st.Found,
		st.Active,
		s.operator,
	)
}

// Run plays until the shift ends, the turn limit is hit or ctx is
// cancelled.
func (s *Simulator) Run(ctx context.Context) (duty.Summary, error) {
	s.logger.Info("Simulator started",
		"seed1", s.seed1, "seed2", s.seed2,
	)
	defer func() {
		s.logger.Info("Simulator finished",
			"seed1", s.seed1, "seed2", s.seed2,
			"outcome", s.game.Phase(),
		)
		s.logger.Debug("Simulator stats\n" + s.String())
	}()

	s.game.Start()
	for range s.config.MaxTurns {
		if err := ctx.Err(); err != nil {
			s.game.Quit()
			break
		}

		phase, err := s.Step()
		if err != nil {
			return s.game.Summary(), fmt.Errorf("step %d: %w", s.numTurns, err)
		}
		if phase.Terminal() {
			break
		}
	}
	return s.game.Summary(), nil
}

// Step runs one operator turn.
func (s *Simulator) Step() (duty.Phase, error) {
	s.numTurns++
	s.now = s.now.Add(time.Duration(s.rnd.Int64N(int64(s.config.MaxIdle))))
	s.game.Tick()

	phase, err := s.game.Turn(s.gen)
	if err != nil {
		return phase, err
	}
	s.checkInvariants()
	if phase.Terminal() {
		return phase, nil
	}

	if err := s.operator.Step(); err != nil {
		return phase, err
	}
	s.checkInvariants()
	return s.game.Phase(), nil
}

func (s *Simulator) checkInvariants() {
	st := s.game.State()
	rooms := s.game.Rooms()

	assert.AssertNonNegative("active anomalies", st.Active)
	assert.Assert(st.Active == len(rooms.WithAnomaly()), "active count does not match rooms with anomalies")
	assert.Assert(len(rooms.Unchanged())+st.Active == rooms.Len(), "rooms are either clean or carry one anomaly")
	assert.Assert(st.Active <= s.config.Settings.MaxAnomalies, "active anomalies above the cap")
	assert.Assert(st.Elapsed >= s.lastElapsed, "in-game time went backwards")
	assert.Assert(st.Found >= s.lastFound, "found count decreased")

	for _, r := range rooms.Rooms() {
		a, ok := r.Anomaly()
		if !ok {
			continue
		}
		assert.Assert(s.game.Catalog().Contains(a.Kind), "room carries an unregistered anomaly")
	}

	s.lastElapsed = st.Elapsed
	s.lastFound = st.Found
}
