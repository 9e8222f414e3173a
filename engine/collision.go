package engine

import (
	"github.com/lixenwraith/moodflight/constants"
	"github.com/lixenwraith/moodflight/entity"
	"github.com/lixenwraith/moodflight/events"
	"github.com/lixenwraith/moodflight/physics"
)

// detectCollisions tests the ship against live hazards while Normal.
// Hazards are not consumed; a ship already shaking is not re-tested.
func (s *Simulation) detectCollisions() {
	if s.world.Phase != PhaseNormal || s.ship.Impact.WasHit {
		return
	}

	hazards := make([]*entity.Entity, 0, 8)
	for i := 0; i < s.registry.Len(); i++ {
		if e := s.registry.At(i); e.Kind == entity.KindHazard {
			hazards = append(hazards, e)
		}
	}

	hit, ok := physics.FirstHit(s.ship, hazards)
	if !ok {
		return
	}

	s.ship.Impact = entity.Impact{
		WasHit:          true,
		OriginX:         s.ship.Pos.X,
		RemainingShakes: constants.ShakeCount,
	}
	s.statHits.Add(1)
	s.log.WithField("hazard", hit.ID).Debug("ship hit")
	s.emit(events.EventShipHit, &events.ShipHitPayload{ShipID: s.ship.ID, HazardID: hit.ID, At: s.ship.Pos})
}

// tickImpact runs one step of the shake, alternating around OriginX and
// restoring it exactly on the last step
func (s *Simulation) tickImpact() {
	imp := &s.ship.Impact
	if !imp.WasHit {
		return
	}

	imp.RemainingShakes--
	switch {
	case imp.RemainingShakes <= 0:
		s.ship.Pos.X = imp.OriginX
		*imp = entity.Impact{}
	case imp.RemainingShakes%2 == 1:
		s.ship.Pos.X = imp.OriginX - constants.ShakeOffset
	default:
		s.ship.Pos.X = imp.OriginX + constants.ShakeOffset
	}
}
