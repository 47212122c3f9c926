package duty

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerify(t *testing.T) {
	tests := []struct {
		name      string
		create    AnomalyKind
		claim     AnomalyKind
		wantFound bool
	}{
		{"matching claim", "TYPO", "TYPO", true},
		{"wrong kind", "TYPO", "MISSING ITEM", false},
		{"clean room", "", "ITEM MOVEMENT", false},
		{"camera malfunction", CameraMalfunction, CameraMalfunction, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := testRegistry(t, "kitchen", "bedroom")
			lc := NewLifecycle(testLogger, testCatalog(t))
			wait := &recordedWait{}
			v := NewVerifier(lc, 5*time.Second, wait.Wait)
			st := &State{}
			room, _ := reg.Lookup("kitchen")

			if tt.create != "" {
				ok, err := lc.Create(st, room, tt.create, []string{"odd"})
				require.NoError(t, err)
				require.True(t, ok)
			}
			before := *st

			found, err := v.Verify(context.Background(), st, room, tt.claim)
			require.NoError(t, err)
			assert.Equal(t, tt.wantFound, found)
			assert.Equal(t, []time.Duration{5 * time.Second}, wait.calls, "delay is paid regardless of outcome")

			if tt.wantFound {
				assert.Equal(t, before.Active-1, st.Active)
				assert.Equal(t, before.Found+1, st.Found)
				assert.False(t, room.HasAnomaly())
			} else {
				assert.Equal(t, before, *st)
				assert.Equal(t, tt.create != "", room.HasAnomaly())
			}
		})
	}
}

func TestVerifyDelayIgnoresCancellation(t *testing.T) {
	reg := testRegistry(t, "kitchen")
	lc := NewLifecycle(testLogger, testCatalog(t))
	wait := &recordedWait{}
	v := NewVerifier(lc, time.Second, wait.Wait)
	st := &State{}
	room, _ := reg.Lookup("kitchen")
	ok, err := lc.Create(st, room, "TYPO", []string{"odd"})
	require.NoError(t, err)
	require.True(t, ok)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	found, err := v.Verify(ctx, st, room, "TYPO")
	require.NoError(t, err)
	assert.True(t, found)
	require.Len(t, wait.ctxs, 1)
	assert.NoError(t, wait.ctxs[0].Err())
}

func TestSleep(t *testing.T) {
	start := time.Now()
	require.NoError(t, Sleep(context.Background(), 20*time.Millisecond))
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)

	assert.NoError(t, Sleep(context.Background(), 0))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, Sleep(ctx, time.Hour), context.Canceled)
}
