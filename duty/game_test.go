package duty

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingSpawner struct {
	calls int
	inner Spawner
}

func (s *countingSpawner) Spawn(g *Game) (bool, error) {
	s.calls++
	return s.inner.Spawn(g)
}

func newTestGame(t *testing.T, settings Settings, rnd Rand, names ...string) (*Game, *fakeClock, *recordedWait) {
	t.Helper()
	fc := newFakeClock()
	wait := &recordedWait{}
	g, err := NewGame(testLogger, settings, testRegistry(t, names...), testCatalog(t), Options{
		Now:  fc.Now,
		Rand: rnd,
		Wait: wait.Wait,
	})
	require.NoError(t, err)
	g.Start()
	return g, fc, wait
}

func TestNewGameValidation(t *testing.T) {
	_, err := NewGame(testLogger, testSettings(), NewRegistry(), testCatalog(t), Options{})
	assert.ErrorIs(t, err, ErrNoRooms)

	empty, err := NewCatalog()
	require.NoError(t, err)
	_, err = NewGame(testLogger, testSettings(), testRegistry(t, "a"), empty, Options{})
	assert.ErrorIs(t, err, ErrConfig)

	bad := testSettings()
	bad.Probability = 1.5
	_, err = NewGame(testLogger, bad, testRegistry(t, "a"), testCatalog(t), Options{})
	assert.ErrorIs(t, err, ErrInvalidSetting)

	catalog := testCatalog(t)
	_, err = NewGame(testLogger, testSettings(), testRegistry(t, "a"), catalog, Options{})
	require.NoError(t, err)
	assert.ErrorIs(t, catalog.Register("late arrival"), ErrCatalogSealed)
}

func TestTurnStopsSpawningAtTimeLimit(t *testing.T) {
	settings := testSettings()
	settings.MaxSeconds = 60 * 60
	settings.MinSecondsBetweenAnomalies = 0
	settings.Probability = 1
	g, fc, _ := newTestGame(t, settings, &seqRand{values: []float64{0}}, "a", "b", "c", "d")
	spawner := &countingSpawner{inner: firstFreeSpawner{kind: "TYPO"}}

	fc.Advance(2 * time.Hour)
	g.Tick()

	phase, err := g.Turn(spawner)
	require.NoError(t, err)
	assert.Equal(t, PhaseTimeUp, phase)
	assert.Equal(t, 0, spawner.calls)
	assert.Equal(t, 0, g.State().Active)
}

func TestTurnSpawnsAndDetectsOverload(t *testing.T) {
	settings := testSettings()
	settings.MinSecondsBetweenAnomalies = 0
	settings.Probability = 1
	settings.MaxAnomalies = 2
	g, fc, _ := newTestGame(t, settings, &seqRand{values: []float64{0}}, "a", "b", "c")
	spawner := &countingSpawner{inner: firstFreeSpawner{kind: "TYPO"}}

	phase, err := g.Turn(spawner)
	require.NoError(t, err)
	assert.Equal(t, PhaseRunning, phase)
	assert.Equal(t, 0, spawner.calls)

	fc.Advance(60 * time.Second)
	g.Tick()
	phase, err = g.Turn(spawner)
	require.NoError(t, err)
	assert.Equal(t, PhaseRunning, phase)
	assert.Equal(t, 1, g.State().Active)
	assert.True(t, g.NearOverload())

	fc.Advance(60 * time.Second)
	g.Tick()
	phase, err = g.Turn(spawner)
	require.NoError(t, err)
	assert.Equal(t, PhaseOverload, phase)
	assert.Equal(t, 2, spawner.calls)

	s := g.Summary()
	assert.Equal(t, PhaseOverload, s.Phase)
	assert.Equal(t, 2, s.Active)
	assert.Equal(t, 2, s.Total)
	assert.Equal(t, []ActiveAnomaly{{Room: "A", Kind: "TYPO"}, {Room: "B", Kind: "TYPO"}}, s.Remaining)
	assert.Equal(t, "00:02", s.Clock)
}

func TestTurnSurfacesConfigurationErrors(t *testing.T) {
	settings := testSettings()
	settings.MaxAnomalies = 5
	g, _, _ := newTestGame(t, settings, &seqRand{values: []float64{0}}, "a", "b")

	_, err := g.Turn(firstFreeSpawner{kind: "TYPO"})
	assert.ErrorIs(t, err, ErrTooFewRooms)

	g, fc, _ := newTestGame(t, func() Settings {
		s := testSettings()
		s.MinSecondsBetweenAnomalies = 0
		s.Probability = 1
		return s
	}(), &seqRand{values: []float64{0}}, "a", "b", "c", "d")
	fc.Advance(time.Minute)
	g.Tick()
	_, err = g.Turn(firstFreeSpawner{kind: "GHOST"})
	assert.ErrorIs(t, err, ErrUnregisteredAnomaly)
}

func TestView(t *testing.T) {
	g, _, _ := newTestGame(t, testSettings(), &seqRand{values: []float64{1}}, "a", "b", "c")

	v, err := g.View()
	require.NoError(t, err)
	assert.Equal(t, View{Index: 0, Room: "A", Items: []string{"a chair", "a table", "a lamp"}}, v)

	b, _ := g.Rooms().Lookup("b")
	ok, err := g.CreateAnomaly("MISSING ITEM", b, []string{"b chair", "b lamp"})
	require.NoError(t, err)
	require.True(t, ok)

	_, _, err = g.Next()
	require.NoError(t, err)
	v, err = g.View()
	require.NoError(t, err)
	assert.Equal(t, []string{"b chair", "b lamp"}, v.Items)

	ok, err = g.CreateAnomaly(CameraMalfunction, mustRoom(t, g, "c"), []string{})
	require.NoError(t, err)
	require.True(t, ok)
	_, ok, err = g.Prev()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 0, g.State().Camera)
}

func TestViewSkipsCameraThatWentOffline(t *testing.T) {
	g, _, _ := newTestGame(t, testSettings(), &seqRand{values: []float64{1}}, "a", "b")

	ok, err := g.CreateAnomaly(CameraMalfunction, mustRoom(t, g, "a"), []string{})
	require.NoError(t, err)
	require.True(t, ok)

	v, err := g.View()
	require.NoError(t, err)
	assert.Equal(t, 1, v.Index)
	assert.Equal(t, RoomName("B"), v.Room)

	ok, err = g.CreateAnomaly(CameraMalfunction, mustRoom(t, g, "b"), []string{})
	require.NoError(t, err)
	require.True(t, ok)

	v, err = g.View()
	require.NoError(t, err)
	assert.True(t, v.Offline)
	assert.Equal(t, NoCamera, v.Index)
}

func TestReport(t *testing.T) {
	g, _, wait := newTestGame(t, testSettings(), &seqRand{values: []float64{1}}, "a", "b")
	ok, err := g.CreateAnomaly("ITEM MOVEMENT", mustRoom(t, g, "b"), []string{"b table", "b chair", "b lamp"})
	require.NoError(t, err)
	require.True(t, ok)

	_, err = g.Report(context.Background(), 2, 0)
	assert.ErrorIs(t, err, ErrOutOfRange)
	_, err = g.Report(context.Background(), 0, 4)
	assert.ErrorIs(t, err, ErrOutOfRange)
	_, err = g.Report(context.Background(), -1, 0)
	assert.ErrorIs(t, err, ErrOutOfRange)
	assert.Empty(t, wait.calls, "no investigation for invalid selections")

	// Catalog order: camera malfunction, missing item, item movement, typo.
	found, err := g.Report(context.Background(), 1, 1)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, 1, g.State().Active)

	found, err = g.Report(context.Background(), 0, 2)
	require.NoError(t, err)
	assert.False(t, found)

	found, err = g.Report(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 0, g.State().Active)
	assert.Equal(t, 1, g.State().Found)
	assert.Len(t, wait.calls, 3)
	assert.Equal(t, 5*time.Second, wait.calls[0])
}

func TestQuit(t *testing.T) {
	g, _, _ := newTestGame(t, testSettings(), &seqRand{values: []float64{1}}, "a")
	assert.Equal(t, PhaseRunning, g.Phase())
	assert.Equal(t, PhaseQuit, g.Quit())
	assert.Equal(t, PhaseQuit, g.Evaluate())
	assert.Equal(t, PhaseQuit, g.Summary().Phase)
}

func mustRoom(t *testing.T, g *Game, name string) *Room {
	t.Helper()
	r, ok := g.Rooms().Lookup(name)
	require.True(t, ok)
	return r
}
