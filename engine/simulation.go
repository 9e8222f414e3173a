// Package engine owns the flight simulation: world state, the entity
// registry, the phase machine, the sentiment controller and the frame loop.
//
// A Simulation is advanced one frame at a time by Step and mutated between
// frames by HandleSentiment. Both hold the same lock, so a sentiment event is
// either fully visible to a frame or not at all. Given equal config, seed,
// viewport and the frame index at which each event arrived, two simulations
// produce identical draw streams.
package engine

import (
	"math/rand"
	"sync"
	"sync/atomic"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/lixenwraith/moodflight/config"
	"github.com/lixenwraith/moodflight/core"
	"github.com/lixenwraith/moodflight/engine/fsm"
	"github.com/lixenwraith/moodflight/entity"
	"github.com/lixenwraith/moodflight/events"
	"github.com/lixenwraith/moodflight/logger"
	"github.com/lixenwraith/moodflight/render"
	"github.com/lixenwraith/moodflight/status"
)

// Simulation is the single owner of WorldState and Registry
type Simulation struct {
	mu sync.Mutex

	cfg      config.Config
	world    WorldState
	registry *Registry
	machine  *fsm.Machine[*Simulation]

	// ship is the one instance carried across every phase
	ship *entity.Entity
	// lastMarker anchors placement of the next marker while it is still live
	lastMarker *entity.Entity

	rng    *rand.Rand
	nextID uint64

	queue  *events.EventQueue
	status *status.Registry
	log    *logrus.Entry

	// Cached metric pointers
	statFrames   *atomic.Int64
	statEntities *atomic.Int64
	statHits     *atomic.Int64
	statPositive *atomic.Int64
	statNegative *atomic.Int64
	statDropped  *atomic.Int64
	statVelocity *status.AtomicFloat
	statPhase    *status.AtomicString
}

// Option customises a Simulation at construction
type Option func(*Simulation)

// WithViewport sets the initial viewport used to lay out the scene
func WithViewport(v core.Size) Option {
	return func(s *Simulation) {
		if !v.Empty() {
			s.world.Viewport = v
		}
	}
}

// WithEventQueue shares an existing game event queue
func WithEventQueue(q *events.EventQueue) Option {
	return func(s *Simulation) {
		if q != nil {
			s.queue = q
		}
	}
}

// WithStatus publishes metrics into an existing registry
func WithStatus(r *status.Registry) Option {
	return func(s *Simulation) {
		if r != nil {
			s.status = r
		}
	}
}

// New validates cfg, builds the initial scene and enters PhaseNormal
func New(cfg config.Config, opts ...Option) (*Simulation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &Simulation{
		cfg:      cfg,
		world:    NewWorldState(core.Size{W: cfg.ViewportWidth, H: cfg.ViewportHeight}),
		registry: NewRegistry(),
		rng:      rand.New(rand.NewSource(cfg.Seed)),
		queue:    events.NewEventQueue(),
		status:   status.NewRegistry(),
		log:      logger.For("engine"),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.statFrames = s.status.Ints.Get(status.KeyFrames)
	s.statEntities = s.status.Ints.Get(status.KeyEntities)
	s.statHits = s.status.Ints.Get(status.KeyShipHits)
	s.statPositive = s.status.Ints.Get(status.KeySentimentPositive)
	s.statNegative = s.status.Ints.Get(status.KeySentimentNegative)
	s.statDropped = s.status.Ints.Get(status.KeySentimentDropped)
	s.statVelocity = s.status.Floats.Get(status.KeyVelocity)
	s.statPhase = s.status.Strings.Get(status.KeyPhase)

	if err := s.buildScene(); err != nil {
		return nil, errors.Wrap(err, "build initial scene")
	}

	machine, err := newPhaseMachine()
	if err != nil {
		return nil, errors.Wrap(err, "build phase machine")
	}
	s.machine = machine
	if err := s.machine.Init(s, StateNormal); err != nil {
		return nil, errors.Wrap(err, "enter normal phase")
	}

	s.publish()
	s.log.WithFields(logrus.Fields{
		"seed":     cfg.Seed,
		"viewport": s.world.Viewport,
		"entities": s.registry.Len(),
	}).Info("simulation ready")
	return s, nil
}

// Step advances the simulation by exactly one frame and presents it.
// A nil presenter runs the frame headless.
func (s *Simulation) Step(p render.Presenter) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.refreshViewport(p)
	s.machine.Update(s)
	s.tickImpact()
	s.advanceAll()
	s.retireMarkers()
	s.detectCollisions()
	s.present(p)

	s.world.Frame++
	s.publish()
}

// Frame returns the number of completed steps
func (s *Simulation) Frame() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.world.Frame
}

// Events returns the queue game events are pushed to
func (s *Simulation) Events() *events.EventQueue {
	return s.queue
}

// Status returns the metrics registry the simulation publishes into
func (s *Simulation) Status() *status.Registry {
	return s.status
}

// Snapshot is a detached copy of the simulation state
type Snapshot struct {
	World    WorldState
	Entities []render.DrawRequest
}

// Snapshot copies WorldState and every live entity in registry order
func (s *Simulation) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		World:    s.world,
		Entities: make([]render.DrawRequest, 0, s.registry.Len()),
	}
	for i := 0; i < s.registry.Len(); i++ {
		snap.Entities = append(snap.Entities, render.NewDrawRequest(s.registry.At(i)))
	}
	return snap
}

func (s *Simulation) refreshViewport(p render.Presenter) {
	if p == nil {
		return
	}
	v, err := p.Viewport()
	if err != nil {
		s.log.WithError(err).Debug("viewport unavailable, keeping last known")
		return
	}
	if v.Empty() {
		return
	}
	s.world.Viewport = v
}

func (s *Simulation) present(p render.Presenter) {
	if p == nil {
		return
	}
	fb, buffered := p.(render.FrameBoundary)
	if buffered {
		fb.BeginFrame()
	}
	for i := 0; i < s.registry.Len(); i++ {
		e := s.registry.At(i)
		if e.Kind == entity.KindHazard && s.world.Phase != PhaseNormal {
			continue
		}
		if err := p.Draw(render.NewDrawRequest(e)); err != nil {
			s.log.WithError(err).WithField("entity", e.ID).Warn("draw failed")
		}
	}
	if buffered {
		fb.EndFrame()
	}
}

func (s *Simulation) emit(t events.EventType, payload any) {
	s.queue.Push(events.GameEvent{Type: t, Frame: s.world.Frame, Payload: payload})
}

func (s *Simulation) publish() {
	s.statFrames.Store(int64(s.world.Frame))
	s.statEntities.Store(int64(s.registry.Len()))
	s.statVelocity.Set(s.world.GlobalVelocity)
	s.statPhase.Store(s.world.Phase.String())
}
