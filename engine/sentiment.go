package engine

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/lixenwraith/moodflight/constants"
	"github.com/lixenwraith/moodflight/entity"
	"github.com/lixenwraith/moodflight/events"
)

// HandleSentiment applies one inbound event between frames.
// Malformed events return a wrapped events.ErrMalformedSentiment; events
// arriving after PhaseNormal are dropped without error.
func (s *Simulation) HandleSentiment(ev events.Sentiment) error {
	if err := ev.Validate(); err != nil {
		s.statDropped.Add(1)
		s.log.WithError(err).WithField("sender", ev.SenderID).Warn("sentiment rejected")
		s.queue.Push(events.GameEvent{
			Type:    events.EventSentimentDropped,
			Frame:   s.Frame(),
			Payload: &events.SentimentPayload{Sentiment: ev, Reason: "malformed"},
		})
		return errors.Wrap(err, "handle sentiment")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.world.Phase != PhaseNormal {
		s.statDropped.Add(1)
		s.emit(events.EventSentimentDropped, &events.SentimentPayload{Sentiment: ev, Reason: "phase " + s.world.Phase.String()})
		return nil
	}

	var glyph string
	switch ev.Kind {
	case events.SentimentPositive:
		s.statPositive.Add(1)
		glyph = constants.GlyphPositive
		s.applyPositive()
	case events.SentimentNegative:
		s.statNegative.Add(1)
		glyph = constants.GlyphNegative
		if err := s.applyNegative(); err != nil {
			return err
		}
	}

	marker, err := s.addMarker(MaskSender(ev.SenderID) + " " + glyph)
	if err != nil {
		return errors.Wrap(err, "add marker")
	}
	s.emit(events.EventMarkerSpawned, &events.EntityPayload{EntityID: marker.ID, Pos: marker.Pos, Label: marker.Label})
	s.emit(events.EventSentimentApplied, &events.SentimentPayload{Sentiment: ev})

	s.log.WithFields(logrus.Fields{
		"kind":     ev.Kind,
		"frame":    s.world.Frame,
		"positive": s.world.PositiveStreak,
		"negative": s.world.NegativeStreak,
	}).Debug("sentiment applied")

	s.publish()
	return nil
}

func (s *Simulation) applyPositive() {
	s.world.PositiveStreak++
	if s.world.PositiveStreak <= s.cfg.PositiveThreshold {
		return
	}
	s.world.PositiveStreak = 0
	s.world.GlobalVelocity += s.cfg.VelocityIncrement
	s.emit(events.EventVelocityChanged, &events.VelocityChangedPayload{
		Velocity: s.world.GlobalVelocity,
		Ceiling:  s.cfg.VelocityCeiling,
	})
}

func (s *Simulation) applyNegative() error {
	s.world.NegativeStreak++
	if s.world.NegativeStreak <= s.cfg.NegativeThreshold {
		return nil
	}
	s.world.NegativeStreak = 0

	hazard := s.spawn(entity.NewHazard(s.randomX(), s.cfg.HazardVelocity))
	if err := s.registry.Append(hazard); err != nil {
		return errors.Wrap(err, "spawn hazard")
	}
	s.emit(events.EventHazardSpawned, &events.EntityPayload{EntityID: hazard.ID, Pos: hazard.Pos})
	return nil
}

// MaskSender replaces every rune but the last four with '*'
func MaskSender(sender string) string {
	runes := []rune(sender)
	hidden := len(runes) - constants.MaskVisibleTail
	if hidden <= 0 {
		return sender
	}
	return strings.Repeat(string(constants.MaskRune), hidden) + string(runes[hidden:])
}
