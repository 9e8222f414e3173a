package engine

import (
	"github.com/sirupsen/logrus"

	"github.com/lixenwraith/moodflight/constants"
	"github.com/lixenwraith/moodflight/engine/fsm"
	"github.com/lixenwraith/moodflight/entity"
	"github.com/lixenwraith/moodflight/events"
)

// Phase machine states, one per Phase value
const (
	StateNormal fsm.StateID = iota
	StateTransitioning
	StateOverdrive
)

var stateToPhase = map[fsm.StateID]Phase{
	StateNormal:        PhaseNormal,
	StateTransitioning: PhaseTransitioning,
	StateOverdrive:     PhaseOverdrive,
}

// newPhaseMachine builds the forward-only graph Normal → Transitioning → Overdrive.
// Overdrive has no outgoing edge.
func newPhaseMachine() (*fsm.Machine[*Simulation], error) {
	m := fsm.NewMachine[*Simulation]()

	for id, phase := range []Phase{PhaseNormal, PhaseTransitioning, PhaseOverdrive} {
		if err := m.AddState(fsm.StateID(id), phase.String()); err != nil {
			return nil, err
		}
	}

	if err := m.OnUpdate(StateNormal, (*Simulation).attachBoost); err != nil {
		return nil, err
	}

	if err := m.AddTransition(StateNormal, StateTransitioning,
		(*Simulation).velocityExceedsCeiling,
		(*Simulation).enterHyperspeed,
	); err != nil {
		return nil, err
	}

	if err := m.AddTransition(StateTransitioning, StateOverdrive, (*Simulation).trailsCleared); err != nil {
		return nil, err
	}
	if err := m.OnEnter(StateOverdrive, (*Simulation).enterOverdrive); err != nil {
		return nil, err
	}

	m.SetObserver(func(s *Simulation, from, to fsm.StateID) {
		s.world.Phase = stateToPhase[s.machine.Current()]
		fromName, toName := s.machine.StateName(from), s.machine.StateName(to)
		s.log.WithFields(logrus.Fields{
			"from":     fromName,
			"to":       toName,
			"frame":    s.world.Frame,
			"velocity": s.world.GlobalVelocity,
		}).Info("phase changed")
		s.emit(events.EventPhaseChanged, &events.PhaseChangedPayload{From: fromName, To: toName})
	})

	return m, nil
}

// Guards

func (s *Simulation) velocityExceedsCeiling() bool {
	return s.world.GlobalVelocity > s.cfg.VelocityCeiling
}

// trailsCleared holds once every streak-tracked entity has left through the
// bottom edge; vacuously true when nothing is tracked
func (s *Simulation) trailsCleared() bool {
	h := s.world.Viewport.H
	for i := 0; i < s.registry.Len(); i++ {
		e := s.registry.At(i)
		if e.TrailOrigin != nil && e.Pos.Y < h {
			return false
		}
	}
	return true
}

// Actions

// attachBoost lifts the ship and attaches the flame the first time the flight
// gains speed
func (s *Simulation) attachBoost() {
	if s.world.GlobalVelocity <= 0 || s.registry.HasKind(entity.KindEffectSprite) {
		return
	}
	s.ship.Pos.Y -= constants.ShipLift
	if err := s.registry.Append(s.spawn(entity.NewBoost(s.ship))); err != nil {
		s.log.WithError(err).Error("attach boost failed")
	}
}

func (s *Simulation) enterHyperspeed() {
	s.world.GlobalVelocity = s.cfg.HyperspeedVelocity
	s.registry.RemoveIndicator()

	for i := 0; i < s.registry.Len(); i++ {
		e := s.registry.At(i)
		if e.Kind != entity.KindBackground {
			continue
		}
		origin := e.Pos.Y
		e.TrailOrigin = &origin
	}
}

func (s *Simulation) enterOverdrive() {
	if err := s.regenerate(); err != nil {
		s.log.WithError(err).Error("overdrive regeneration failed")
	}
	s.world.GlobalVelocity = s.cfg.CruiseVelocity
}
