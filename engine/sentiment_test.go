package engine

import (
	"testing"

	"github.com/pkg/errors"

	"github.com/lixenwraith/moodflight/entity"
	"github.com/lixenwraith/moodflight/events"
	"github.com/lixenwraith/moodflight/render"
	"github.com/lixenwraith/moodflight/status"
)

func TestPositiveStreakRaisesVelocityOnOverflow(t *testing.T) {
	sim := newTestSim(t, testConfig())

	for i := 0; i < 9; i++ {
		mustHandle(t, sim, positive("sender"))
	}
	snap := sim.Snapshot()
	if snap.World.GlobalVelocity != 0 {
		t.Errorf("Expected velocity 0 after 9 positives, got %g", snap.World.GlobalVelocity)
	}
	if snap.World.PositiveStreak != 9 {
		t.Errorf("Expected streak 9, got %d", snap.World.PositiveStreak)
	}

	mustHandle(t, sim, positive("sender"))
	snap = sim.Snapshot()
	if snap.World.GlobalVelocity != 0.5 {
		t.Errorf("Expected velocity 0.5 after the 10th positive, got %g", snap.World.GlobalVelocity)
	}
	if snap.World.PositiveStreak != 0 {
		t.Errorf("Expected streak reset, got %d", snap.World.PositiveStreak)
	}
	if !hasEvent(sim.Events().Consume(), events.EventVelocityChanged) {
		t.Error("Expected EventVelocityChanged")
	}
}

func TestNegativeSpawnsHazardEveryMessage(t *testing.T) {
	sim := newTestSim(t, testConfig())
	mustHandle(t, sim, negative("a"), negative("b"), negative("c"))

	snap := sim.Snapshot()
	hazards := render.CountKind(snap.Entities, entity.KindHazard)
	if hazards != 3 {
		t.Fatalf("Expected 3 hazards, got %d", hazards)
	}
	h, _ := findKind(snap.Entities, entity.KindHazard)
	if h.Pos.Y != 0 || h.Pos.X < 0 || h.Pos.X > testViewport.W {
		t.Errorf("Expected hazard on the top edge, got %+v", h.Pos)
	}
	if snap.Entities[len(snap.Entities)-1].Kind != entity.KindIndicator {
		t.Error("Expected gauge to stay in the last slot")
	}
}

func TestOppositeStreaksDoNotReset(t *testing.T) {
	cfg := testConfig()
	cfg.NegativeThreshold = 5
	sim := newTestSim(t, cfg)

	mustHandle(t, sim, positive("a"), negative("b"), positive("c"), negative("d"))
	w := sim.Snapshot().World
	if w.PositiveStreak != 2 || w.NegativeStreak != 2 {
		t.Errorf("Expected streaks 2/2, got %d/%d", w.PositiveStreak, w.NegativeStreak)
	}
}

func TestMalformedSentimentRejected(t *testing.T) {
	sim := newTestSim(t, testConfig())
	before := sim.Snapshot()

	tests := []events.Sentiment{
		{Kind: events.SentimentUnknown, SenderID: "x"},
		{Kind: events.SentimentPositive, SenderID: ""},
		{Kind: events.SentimentNegative, SenderID: "   "},
	}
	for _, ev := range tests {
		if err := sim.HandleSentiment(ev); !errors.Is(err, events.ErrMalformedSentiment) {
			t.Errorf("Expected ErrMalformedSentiment for %+v, got %v", ev, err)
		}
	}

	after := sim.Snapshot()
	if len(after.Entities) != len(before.Entities) || after.World != before.World {
		t.Error("Expected no state change from malformed events")
	}
	if got := sim.Status().Ints.Get(status.KeySentimentDropped).Load(); got != 3 {
		t.Errorf("Expected 3 dropped, got %d", got)
	}
}

func TestMarkerLabelAndSpacing(t *testing.T) {
	sim := newTestSim(t, testConfig())
	mustHandle(t, sim, positive("user-123456"), negative("ab"))

	var markers []render.DrawRequest
	for _, e := range sim.Snapshot().Entities {
		if e.Kind == entity.KindMarker {
			markers = append(markers, e)
		}
	}
	if len(markers) != 2 {
		t.Fatalf("Expected 2 markers, got %d", len(markers))
	}
	if markers[0].Text != "*******3456 :)" {
		t.Errorf("Expected masked label, got %q", markers[0].Text)
	}
	if markers[1].Text != "ab :(" {
		t.Errorf("Expected short sender unmasked, got %q", markers[1].Text)
	}
	if markers[0].Pos.X != 800 || markers[0].Pos.Y != 24 {
		t.Errorf("Expected first marker at (800,24), got %+v", markers[0].Pos)
	}
	// 14 runes * 8 px + 16 px gap
	if markers[1].Pos.X != 928 {
		t.Errorf("Expected second marker at x 928, got %g", markers[1].Pos.X)
	}
	if markers[0].Dims != nil {
		t.Error("Expected marker to be text-only")
	}
}

func TestMaxMarkersRetiresOldest(t *testing.T) {
	cfg := testConfig()
	cfg.MaxMarkers = 3
	sim := newTestSim(t, cfg)
	mustHandle(t, sim, positive("first"), positive("second"), positive("third"), positive("fourth"))

	var labels []string
	for _, e := range sim.Snapshot().Entities {
		if e.Kind == entity.KindMarker {
			labels = append(labels, e.Text)
		}
	}
	if len(labels) != 3 {
		t.Fatalf("Expected 3 markers, got %d", len(labels))
	}
	if labels[0] != "**cond :)" {
		t.Errorf("Expected oldest marker retired, got first label %q", labels[0])
	}
}

func TestMaskSender(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"abc", "abc"},
		{"abcd", "abcd"},
		{"abcde", "*bcde"},
		{"user-123456", "*******3456"},
		{"ñandú-Ωmega", "*******mega"},
	}
	for _, tt := range tests {
		if got := MaskSender(tt.in); got != tt.want {
			t.Errorf("MaskSender(%q): expected %q, got %q", tt.in, tt.want, got)
		}
	}
}

func TestSentimentIgnoredAfterNormal(t *testing.T) {
	sim := newTestSim(t, thresholdZeroConfig())
	for range 7 {
		mustHandle(t, sim, positive("p"))
	}
	sim.Step(nil)
	if sim.Snapshot().World.Phase != PhaseTransitioning {
		t.Fatal("Expected PhaseTransitioning")
	}
	sim.Events().Consume()

	before := sim.Snapshot()
	if err := sim.HandleSentiment(negative("late")); err != nil {
		t.Errorf("Expected late event dropped without error, got %v", err)
	}
	after := sim.Snapshot()
	if len(after.Entities) != len(before.Entities) || after.World != before.World {
		t.Error("Expected no state change after PhaseNormal")
	}
	if !hasEvent(sim.Events().Consume(), events.EventSentimentDropped) {
		t.Error("Expected EventSentimentDropped")
	}
}

func TestAppliedSentimentEmitsJournalEvent(t *testing.T) {
	sim := newTestSim(t, testConfig())
	mustHandle(t, sim, positive("someone"))

	evs := sim.Events().Consume()
	var applied *events.SentimentPayload
	for _, ev := range evs {
		if ev.Type == events.EventSentimentApplied {
			applied = ev.Payload.(*events.SentimentPayload)
		}
	}
	if applied == nil {
		t.Fatal("Expected EventSentimentApplied")
	}
	if applied.Sentiment.SenderID != "someone" {
		t.Errorf("Expected unmasked sender in payload, got %q", applied.Sentiment.SenderID)
	}
	if !hasEvent(evs, events.EventMarkerSpawned) {
		t.Error("Expected EventMarkerSpawned")
	}
}
