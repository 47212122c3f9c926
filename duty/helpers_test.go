package duty

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/require"
)

var (
	testLogger = log.New(io.Discard)
	epoch      = time.Date(2024, 10, 31, 22, 0, 0, 0, time.UTC)
)

type fakeClock struct {
	t time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: epoch}
}

func (c *fakeClock) Now() time.Time {
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.t = c.t.Add(d)
}

// seqRand returns values in order and counts draws.
type seqRand struct {
	values []float64
	draws  int
}

func (r *seqRand) Float64() float64 {
	v := r.values[r.draws%len(r.values)]
	r.draws++
	return v
}

type recordedWait struct {
	calls []time.Duration
	ctxs  []context.Context
}

func (w *recordedWait) Wait(ctx context.Context, d time.Duration) error {
	w.calls = append(w.calls, d)
	w.ctxs = append(w.ctxs, ctx)
	return nil
}

func testSettings() Settings {
	s := DefaultSettings()
	s.Timescale = 1
	return s
}

func testRegistry(t *testing.T, names ...string) *Registry {
	t.Helper()
	reg := NewRegistry()
	for _, n := range names {
		require.NoError(t, reg.Add(n, []string{n + " chair", n + " table", n + " lamp"}))
	}
	return reg
}

func testCatalog(t *testing.T) *Catalog {
	t.Helper()
	c, err := NewCatalog("camera malfunction", "missing item", "item movement", "typo")
	require.NoError(t, err)
	return c
}

// firstFreeSpawner drops the last item of the first room without an
// anomaly.
type firstFreeSpawner struct {
	kind AnomalyKind
}

func (s firstFreeSpawner) Spawn(g *Game) (bool, error) {
	free := g.Rooms().Unchanged()
	if len(free) == 0 {
		return false, nil
	}
	items := free[0].Baseline()
	return g.CreateAnomaly(s.kind, free[0], items[:len(items)-1])
}

func activeMatchesRooms(t *testing.T, st *State, reg *Registry) {
	t.Helper()
	require.Equal(t, len(reg.WithAnomaly()), st.Active)
}
