package engine

import (
	"github.com/lixenwraith/moodflight/constants"
	"github.com/lixenwraith/moodflight/core"
	"github.com/lixenwraith/moodflight/entity"
)

// spawn stamps e with the next simulation-local id
func (s *Simulation) spawn(e *entity.Entity) *entity.Entity {
	s.nextID++
	e.ID = s.nextID
	return e
}

func (s *Simulation) randomX() float64 {
	return s.rng.Float64() * s.world.Viewport.W
}

func (s *Simulation) starColor() core.RGB {
	if s.world.Phase == PhaseNormal {
		return core.RGBWhite
	}
	return core.Rainbow[s.rng.Intn(len(core.Rainbow))]
}

// buildScene lays out stars, sky, ground, ship and the velocity gauge
func (s *Simulation) buildScene() error {
	v := s.world.Viewport

	for range s.cfg.StarCount {
		star := entity.NewStar(s.randomX(), s.rng.Float64()*v.H, core.RGBWhite)
		if err := s.registry.Append(s.spawn(star)); err != nil {
			return err
		}
	}

	skyH := v.H - constants.GroundHeight
	if err := s.registry.Append(s.spawn(entity.NewSky(v))); err != nil {
		return err
	}
	if err := s.registry.Append(s.spawn(entity.NewGround(v, skyH))); err != nil {
		return err
	}

	s.ship = s.spawn(entity.NewShip(v.W/2-constants.ShipSize/2, v.H-constants.ShipFloorOffset))
	if err := s.registry.Append(s.ship); err != nil {
		return err
	}

	gauge := entity.NewGauge(v, constants.ShipSize, &s.world.GlobalVelocity, s.cfg.VelocityCeiling)
	return s.registry.SetIndicator(s.spawn(gauge))
}

// recycle replaces the off-screen scrolling entity in slot i with a fresh
// star entering from the edge the scroll direction feeds
func (s *Simulation) recycle(i int) {
	y := 0.0
	if s.world.GlobalVelocity < 0 {
		y = s.world.Viewport.H
	}
	star := s.spawn(entity.NewStar(s.randomX(), y, s.starColor()))
	if err := s.registry.Set(i, star); err != nil {
		s.log.WithError(err).Error("recycle failed")
	}
}

// advanceAll applies the phase's per-entity policy, then moves each entity
func (s *Simulation) advanceAll() {
	v := s.world.Viewport
	for i := 0; i < s.registry.Len(); i++ {
		e := s.registry.At(i)

		if s.world.Phase == PhaseTransitioning {
			// Re-evaluated every frame so a resize can release a frozen entity
			e.Frozen = !e.IsOnScreen(v)
			e.Advance(s.world.GlobalVelocity)
			continue
		}

		if !e.IsOnScreen(v) {
			if e.Scrolls() {
				s.recycle(i)
			}
			continue
		}
		e.Advance(s.world.GlobalVelocity)
	}
}

// retireMarkers drops markers whose right edge has passed x=0
func (s *Simulation) retireMarkers() {
	removed := s.registry.Retain(func(e *entity.Entity) bool {
		return e.Kind != entity.KindMarker || e.Pos.X+e.Width(constants.MarkerCharWidth) >= 0
	})
	if removed > 0 && s.lastMarker != nil && !s.registry.Contains(s.lastMarker) {
		s.lastMarker = nil
	}
}

// addMarker places a label in the marker lane after the previous live marker,
// retiring the oldest one first when the cap is reached
func (s *Simulation) addMarker(label string) (*entity.Entity, error) {
	if s.registry.CountKind(entity.KindMarker) >= s.cfg.MaxMarkers {
		retired := false
		s.registry.Retain(func(e *entity.Entity) bool {
			if !retired && e.Kind == entity.KindMarker {
				retired = true
				return false
			}
			return true
		})
		if s.lastMarker != nil && !s.registry.Contains(s.lastMarker) {
			s.lastMarker = nil
		}
	}

	x := s.world.Viewport.W
	if s.lastMarker != nil {
		x = max(x, s.lastMarker.Pos.X+s.lastMarker.Width(constants.MarkerCharWidth)+constants.MarkerGap)
	}

	m := s.spawn(entity.NewMarker(x, constants.MarkerLaneY, label, s.cfg.MarkerDrift))
	if err := s.registry.Append(m); err != nil {
		return nil, err
	}
	s.lastMarker = m
	return m, nil
}

// regenerate rebuilds the population for overdrive: fresh rainbow stars,
// the same ship, then the markers still in flight
func (s *Simulation) regenerate() error {
	v := s.world.Viewport
	population := make([]*entity.Entity, 0, s.cfg.StarCount+1+s.cfg.MaxMarkers)

	for range s.cfg.StarCount {
		star := entity.NewStar(s.randomX(), s.rng.Float64()*v.H, s.starColor())
		population = append(population, s.spawn(star))
	}

	s.ship.Frozen = false
	population = append(population, s.ship)

	for i := 0; i < s.registry.Len(); i++ {
		if e := s.registry.At(i); e.Kind == entity.KindMarker {
			e.Frozen = false
			population = append(population, e)
		}
	}

	return s.registry.Reset(population)
}
