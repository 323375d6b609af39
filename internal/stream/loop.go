package stream

import (
	"context"
	"time"

	"github.com/san-kum/orbitsim/internal/dynamo"
)

// Loop drives eng at interval until ctx is done. Each tick applies the
// queued commands and then advances by the measured wall time. The hub
// should already be registered as an observer of eng.
func Loop(ctx context.Context, eng *dynamo.Engine, hub *Hub, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			hub.Drain(eng)
			eng.Frame(now.Sub(last))
			last = now
		}
	}
}
