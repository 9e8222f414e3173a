package journal

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/lixenwraith/moodflight/engine"
	"github.com/lixenwraith/moodflight/render"
)

// ReplayOption customises Replay
type ReplayOption func(*replayConfig)

type replayConfig struct {
	ctx      context.Context
	interval time.Duration
}

// WithPacing waits interval between frames, for watching a replay
func WithPacing(ctx context.Context, interval time.Duration) ReplayOption {
	return func(c *replayConfig) {
		c.ctx = ctx
		c.interval = interval
	}
}

// Replay feeds entries to sim at their recorded frame and steps it until it
// has completed frames steps. An entry recorded at frame f is applied before
// step f runs, which is when the live run saw it. Entries past the last frame
// are not applied. Returns the number of entries applied.
//
// sim must be fresh and built with the recorded seed, viewport and tuning.
func Replay(entries []Entry, sim *engine.Simulation, p render.Presenter, frames uint64, opts ...ReplayOption) (int, error) {
	cfg := replayConfig{ctx: context.Background()}
	for _, opt := range opts {
		opt(&cfg)
	}

	var ticker *time.Ticker
	if cfg.interval > 0 {
		ticker = time.NewTicker(cfg.interval)
		defer ticker.Stop()
	}

	applied, next := 0, 0
	for frame := sim.Frame(); frame < frames; frame++ {
		for next < len(entries) && entries[next].Frame <= frame {
			ev, err := entries[next].Sentiment()
			if err != nil {
				return applied, err
			}
			if err := sim.HandleSentiment(ev); err != nil {
				return applied, errors.Wrapf(err, "replay entry %d", entries[next].Seq)
			}
			applied++
			next++
		}

		sim.Step(p)

		if ticker != nil {
			select {
			case <-cfg.ctx.Done():
				return applied, nil
			case <-ticker.C:
			}
		}
	}
	return applied, nil
}
