package duty

import (
	"context"
	"time"

	"github.com/tifye/onduty/assert"
)

// WaitFunc blocks for d. The verifier hands it a context that is never
// cancelled, so implementations may rely on running to completion.
type WaitFunc func(ctx context.Context, d time.Duration) error

// Sleep is the default WaitFunc.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Verifier resolves an operator's report after an investigation delay.
type Verifier struct {
	lifecycle *Lifecycle
	delay     time.Duration
	wait      WaitFunc
}

func NewVerifier(lifecycle *Lifecycle, delay time.Duration, wait WaitFunc) *Verifier {
	assert.AssertNotNil(lifecycle)
	if wait == nil {
		wait = Sleep
	}
	return &Verifier{
		lifecycle: lifecycle,
		delay:     delay,
		wait:      wait,
	}
}

// Verify waits the investigation delay and then checks whether room
// carries an anomaly of kind. On a match the anomaly is cleared. The
// delay is paid for correct and incorrect reports alike and, once
// started, is not interrupted by ctx.
func (v *Verifier) Verify(ctx context.Context, st *State, room *Room, kind AnomalyKind) (bool, error) {
	assert.AssertNotNil(room)

	if err := v.wait(context.WithoutCancel(ctx), v.delay); err != nil {
		return false, err
	}

	actual, ok := room.Anomaly()
	if !ok || actual.Kind != kind {
		return false, nil
	}

	if err := v.lifecycle.Clear(st, room); err != nil {
		return false, err
	}
	return true, nil
}
