package console

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/tifye/onduty/duty"
	"golang.org/x/time/rate"
)

// ProgressWait returns a WaitFunc that prints a dot to w for every
// interval it waits.
func ProgressWait(w io.Writer, interval time.Duration) duty.WaitFunc {
	return func(ctx context.Context, d time.Duration) error {
		if interval <= 0 || d < interval {
			return duty.Sleep(ctx, d)
		}

		lim := rate.NewLimiter(rate.Every(interval), 1)
		// Burst token, available immediately.
		if err := lim.Wait(ctx); err != nil {
			return err
		}
		for range int(d / interval) {
			if err := lim.Wait(ctx); err != nil {
				return err
			}
			fmt.Fprint(w, ".")
		}
		return duty.Sleep(ctx, d%interval)
	}
}
