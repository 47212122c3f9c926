package duty

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/charmbracelet/log"
	"github.com/tifye/onduty/assert"
)

// Spawner creates a single anomaly in some room of the game. Choosing
// the room, the kind and the modified items is up to the spawner. It
// returns false when nothing could be created.
type Spawner interface {
	Spawn(g *Game) (bool, error)
}

type Options struct {
	// Now samples real time for the clock. Defaults to time.Now.
	Now func() time.Time
	// Rand drives spawn checks. Defaults to a randomly seeded PCG.
	Rand Rand
	// Wait spends the investigation delay. Defaults to Sleep.
	Wait WaitFunc
}

// Game is one operator shift.
type Game struct {
	logger   *log.Logger
	settings Settings

	rooms   *Registry
	catalog *Catalog
	state   State

	clock     *Clock
	scheduler *Scheduler
	lifecycle *Lifecycle
	navigator Navigator
	verifier  *Verifier
	evaluator Evaluator
}

// NewGame builds a shift over rooms and catalog. The catalog is sealed
// and cannot take new kinds afterwards.
func NewGame(
	logger *log.Logger,
	settings Settings,
	rooms *Registry,
	catalog *Catalog,
	opts Options,
) (*Game, error) {
	assert.AssertNotNil(logger)
	assert.AssertNotNil(rooms)
	assert.AssertNotNil(catalog)

	if err := settings.Validate(); err != nil {
		return nil, err
	}
	if rooms.Len() == 0 {
		return nil, ErrNoRooms
	}
	if catalog.Len() == 0 {
		return nil, fmt.Errorf("%w: no anomaly kinds registered", ErrInvalidSetting)
	}
	catalog.Seal()

	rnd := opts.Rand
	if rnd == nil {
		rnd = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	lifecycle := NewLifecycle(logger, catalog)
	g := &Game{
		logger:   logger,
		settings: settings,

		rooms:   rooms,
		catalog: catalog,

		clock:     NewClock(settings.Timescale, opts.Now),
		scheduler: NewScheduler(logger, rnd, settings),
		lifecycle: lifecycle,
		verifier:  NewVerifier(lifecycle, settings.ReportDelay(), opts.Wait),
		evaluator: NewEvaluator(settings),
	}

	if settings.Debug {
		logger.Debug("registered anomalies", "kinds", catalog.Kinds())
		for _, r := range rooms.Rooms() {
			logger.Debug("room", "name", r.Name(), "items", len(r.baseline))
		}
		logger.Debug("settings", "settings", fmt.Sprintf("%+v", settings))
	}

	return g, nil
}

// Start records the real time the shift begins at.
func (g *Game) Start() {
	g.clock.Tick(&g.state)
}

// Tick advances in-game time by the real time since the last tick.
func (g *Game) Tick() int {
	return g.clock.Tick(&g.state)
}

func (g *Game) ComputeSpawns() (int, error) {
	return g.scheduler.ComputeSpawns(&g.state, g.rooms)
}

func (g *Game) CreateAnomaly(kind AnomalyKind, room *Room, items []string) (bool, error) {
	return g.lifecycle.Create(&g.state, room, kind, items)
}

// Turn runs the start-of-turn bookkeeping: the time limit is checked,
// due anomalies are created through spawner and the remaining terminal
// conditions are evaluated. Nothing is spawned once the shift is over.
func (g *Game) Turn(spawner Spawner) (Phase, error) {
	assert.AssertNotNil(spawner)

	if p := g.evaluator.EvaluateTime(&g.state); p.Terminal() {
		return p, nil
	}

	n, err := g.ComputeSpawns()
	if err != nil {
		return g.Phase(), err
	}

	for range n {
		created, err := spawner.Spawn(g)
		if err != nil {
			return g.Phase(), fmt.Errorf("spawn anomaly: %w", err)
		}
		if !created {
			g.logger.Warn("scheduled anomaly could not be created")
		}
	}

	return g.evaluator.Evaluate(&g.state), nil
}

func (g *Game) Next() (int, bool, error) {
	return g.navigator.Advance(&g.state, g.rooms, Forward)
}

func (g *Game) Prev() (int, bool, error) {
	return g.navigator.Advance(&g.state, g.rooms, Backward)
}

type View struct {
	// Index of the camera shown, NoCamera when Offline.
	Index   int
	Room    RoomName
	Items   []string
	Offline bool
}

// View returns what the current camera shows. If the current room's
// feed went offline the next working camera is selected first.
func (g *Game) View() (View, error) {
	room, err := g.rooms.At(g.state.Camera)
	if err != nil {
		return View{}, err
	}

	if room.Hidden() {
		idx, ok, err := g.navigator.Advance(&g.state, g.rooms, Forward)
		if err != nil {
			return View{}, err
		}
		if !ok {
			return View{Index: NoCamera, Offline: true}, nil
		}
		room = g.rooms.rooms[idx]
	}

	return View{
		Index: g.state.Camera,
		Room:  room.Name(),
		Items: room.Observed(),
	}, nil
}

// Report claims that the room at roomIndex carries the anomaly at
// kindIndex in the catalog. Invalid indexes fail with ErrOutOfRange
// before any investigation starts.
func (g *Game) Report(ctx context.Context, roomIndex, kindIndex int) (bool, error) {
	room, err := g.rooms.At(roomIndex)
	if err != nil {
		return false, err
	}
	kind, err := g.catalog.At(kindIndex)
	if err != nil {
		return false, err
	}

	found, err := g.verifier.Verify(ctx, &g.state, room, kind)
	if err != nil {
		return false, err
	}
	g.logger.Debug("report", "room", room.Name(), "anomaly", kind, "found", found)
	return found, nil
}

func (g *Game) Quit() Phase {
	return g.evaluator.Quit(&g.state)
}

func (g *Game) Evaluate() Phase {
	return g.evaluator.Evaluate(&g.state)
}

func (g *Game) Phase() Phase {
	return PhaseOf(&g.state)
}

func (g *Game) Settings() Settings {
	return g.settings
}

func (g *Game) Rooms() *Registry {
	return g.rooms
}

func (g *Game) Catalog() *Catalog {
	return g.catalog
}

// State returns a copy of the shift's counters.
func (g *Game) State() State {
	return g.state
}

func (g *Game) Clock() string {
	return g.state.ClockString()
}

// NearOverload reports whether one more anomaly would end the shift.
func (g *Game) NearOverload() bool {
	return g.state.Active >= g.settings.MaxAnomalies-1
}

type ActiveAnomaly struct {
	Room RoomName
	Kind AnomalyKind
}

type Summary struct {
	Phase   Phase
	Elapsed int
	Clock   string
	Found   int
	Active  int
	// Found plus still active anomalies.
	Total     int
	Remaining []ActiveAnomaly
}

func (g *Game) Summary() Summary {
	var remaining []ActiveAnomaly
	for _, r := range g.rooms.WithAnomaly() {
		a, _ := r.Anomaly()
		remaining = append(remaining, ActiveAnomaly{Room: r.Name(), Kind: a.Kind})
	}
	return Summary{
		Phase:     g.Phase(),
		Elapsed:   g.state.Elapsed,
		Clock:     g.Clock(),
		Found:     g.state.Found,
		Active:    g.state.Active,
		Total:     g.state.Found + g.state.Active,
		Remaining: remaining,
	}
}
