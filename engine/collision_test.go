package engine

import (
	"testing"

	"github.com/lixenwraith/moodflight/entity"
	"github.com/lixenwraith/moodflight/events"
	"github.com/lixenwraith/moodflight/render"
	"github.com/lixenwraith/moodflight/status"
)

// placeHazardOnShip moves the first hazard over the ship
func placeHazardOnShip(sim *Simulation) *entity.Entity {
	for i := 0; i < sim.registry.Len(); i++ {
		if e := sim.registry.At(i); e.Kind == entity.KindHazard {
			e.Pos.X = sim.ship.Pos.X + 10
			e.Pos.Y = sim.ship.Pos.Y
			return e
		}
	}
	return nil
}

func TestHitStartsShakeAndRestoresOrigin(t *testing.T) {
	sim := newTestSim(t, testConfig())
	rec := render.NewRecorder(testViewport)
	mustHandle(t, sim, negative("n"))
	hazard := placeHazardOnShip(sim)
	if hazard == nil {
		t.Fatal("Expected a hazard")
	}
	origin := sim.ship.Pos.X
	sim.Events().Consume()

	sim.Step(rec)
	if !sim.ship.Impact.WasHit || sim.ship.Impact.RemainingShakes != 6 {
		t.Fatalf("Expected hit with 6 shakes, got %+v", sim.ship.Impact)
	}
	if !hasEvent(sim.Events().Consume(), events.EventShipHit) {
		t.Error("Expected EventShipHit")
	}
	if !sim.registry.Contains(hazard) {
		t.Error("Expected hazard not consumed by the hit")
	}

	// Keep the hazard alive but out of reach so the ship is not re-hit
	hazard.Pos.X = -1000

	want := []float64{origin - 10, origin + 10, origin - 10, origin + 10, origin - 10, origin}
	for i, x := range want {
		sim.Step(rec)
		if sim.ship.Pos.X != x {
			t.Errorf("Shake %d: expected x %g, got %g", i+1, x, sim.ship.Pos.X)
		}
		ship, _ := findKind(rec.Last(), entity.KindShip)
		if impacted := i < len(want)-1; ship.Impacted != impacted {
			t.Errorf("Shake %d: expected impacted %v, got %v", i+1, impacted, ship.Impacted)
		}
	}
	if sim.ship.Impact.WasHit {
		t.Error("Expected WasHit cleared after the last shake")
	}
	if got := sim.Status().Ints.Get(status.KeyShipHits).Load(); got != 1 {
		t.Errorf("Expected 1 hit, got %d", got)
	}
}

func TestNoRetestWhileShaking(t *testing.T) {
	sim := newTestSim(t, testConfig())
	mustHandle(t, sim, negative("n"))
	hazard := placeHazardOnShip(sim)

	sim.Step(nil)
	for range 3 {
		hazard.Pos.Y = sim.ship.Pos.Y
		sim.Step(nil)
	}
	if got := sim.Status().Ints.Get(status.KeyShipHits).Load(); got != 1 {
		t.Errorf("Expected a single hit while shaking, got %d", got)
	}
}

func TestNoCollisionOutsideNormal(t *testing.T) {
	sim := newTestSim(t, thresholdZeroConfig())
	mustHandle(t, sim, negative("n"))
	for range 7 {
		mustHandle(t, sim, positive("p"))
	}
	sim.Step(nil)
	if sim.Snapshot().World.Phase != PhaseTransitioning {
		t.Fatal("Expected PhaseTransitioning")
	}

	placeHazardOnShip(sim)
	sim.Step(nil)
	if sim.ship.Impact.WasHit {
		t.Error("Expected no collision while Transitioning")
	}
}
