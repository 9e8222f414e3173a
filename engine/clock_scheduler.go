package engine

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/lixenwraith/moodflight/core"
	"github.com/lixenwraith/moodflight/events"
	"github.com/lixenwraith/moodflight/logger"
	"github.com/lixenwraith/moodflight/render"
)

// Scheduler drives a Simulation at a fixed interval
// The next step is armed one interval after the previous one finished, so a
// slow step delays the schedule instead of triggering catch-up steps.
// Inbound sentiment is applied between steps, never during one.
type Scheduler struct {
	sim       *Simulation
	presenter render.Presenter
	interval  time.Duration

	// Event routing
	router *events.Router

	// frameLimit stops Run after that many steps; zero runs until cancelled
	frameLimit uint64

	// Control
	cancel   context.CancelFunc
	stopOnce sync.Once
	doneOnce sync.Once
	wg       sync.WaitGroup
	running  atomic.Bool
	done     chan struct{}
	err      error

	log *logrus.Entry
}

// NewScheduler creates a scheduler stepping sim every interval and presenting to p
func NewScheduler(sim *Simulation, p render.Presenter, interval time.Duration) *Scheduler {
	return &Scheduler{
		sim:       sim,
		presenter: p,
		interval:  interval,
		router:    events.NewRouter(sim.Events()),
		done:      make(chan struct{}),
		log:       logger.For("scheduler"),
	}
}

// RegisterHandler adds an event handler to the router, must be called before Run or Start
func (sc *Scheduler) RegisterHandler(handler events.Handler) {
	sc.router.Register(handler)
}

// SetFrameLimit makes Run return after n steps
func (sc *Scheduler) SetFrameLimit(n uint64) {
	sc.frameLimit = n
}

// Run blocks, stepping the simulation until ctx is cancelled or the frame
// limit is reached. A closed inbox is ignored; the loop keeps stepping.
// Done is closed when Run returns.
func (sc *Scheduler) Run(ctx context.Context, inbox <-chan events.Sentiment) error {
	defer sc.doneOnce.Do(func() { close(sc.done) })

	if sc.interval <= 0 {
		return errors.Errorf("scheduler: interval %s must be positive", sc.interval)
	}

	timer := time.NewTimer(sc.interval)
	defer timer.Stop()

	var steps uint64
	for {
		select {
		case <-ctx.Done():
			sc.router.DispatchAll()
			if errors.Is(ctx.Err(), context.Canceled) {
				return nil
			}
			return ctx.Err()

		case ev, ok := <-inbox:
			if !ok {
				inbox = nil
				continue
			}
			if err := sc.sim.HandleSentiment(ev); err != nil {
				sc.log.WithError(err).Debug("inbound event dropped")
			}
			sc.router.DispatchAll()

		case <-timer.C:
			sc.sim.Step(sc.presenter)
			sc.router.DispatchAll()

			steps++
			if sc.frameLimit > 0 && steps >= sc.frameLimit {
				return nil
			}
			timer.Reset(sc.interval)
		}
	}
}

// Start runs the scheduler loop in the background
func (sc *Scheduler) Start(ctx context.Context, inbox <-chan events.Sentiment) {
	if !sc.running.CompareAndSwap(false, true) {
		return
	}
	ctx, sc.cancel = context.WithCancel(ctx)
	sc.wg.Add(1)
	core.Go(func() {
		defer sc.wg.Done()
		sc.err = sc.Run(ctx, inbox)
	})
}

// Done is closed once Run has returned, whether driven directly or by Start
func (sc *Scheduler) Done() <-chan struct{} {
	return sc.done
}

// Stop cancels a started loop and waits for it to return
func (sc *Scheduler) Stop() error {
	sc.stopOnce.Do(func() {
		if sc.running.Load() {
			sc.cancel()
			sc.wg.Wait()
		}
	})
	return sc.err
}
