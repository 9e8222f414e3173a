package events

import (
	"sync"
	"testing"

	"github.com/pkg/errors"

	"github.com/lixenwraith/moodflight/constants"
)

func TestParseSentimentKind(t *testing.T) {
	tests := []struct {
		in      string
		want    SentimentKind
		wantErr bool
	}{
		{"positive", SentimentPositive, false},
		{" Negative ", SentimentNegative, false},
		{"", SentimentUnknown, true},
		{"neutral", SentimentUnknown, true},
	}
	for _, tt := range tests {
		got, err := ParseSentimentKind(tt.in)
		if got != tt.want {
			t.Errorf("%q: expected %v, got %v", tt.in, tt.want, got)
		}
		if (err != nil) != tt.wantErr {
			t.Errorf("%q: expected error=%v, got %v", tt.in, tt.wantErr, err)
		}
		if err != nil && !errors.Is(err, ErrMalformedSentiment) {
			t.Errorf("%q: expected ErrMalformedSentiment, got %v", tt.in, err)
		}
	}
}

func TestSentimentValidate(t *testing.T) {
	tests := []struct {
		name string
		ev   Sentiment
		ok   bool
	}{
		{"complete", Sentiment{Kind: SentimentPositive, SenderID: "+15551234567"}, true},
		{"missing kind", Sentiment{SenderID: "+15551234567"}, false},
		{"missing sender", Sentiment{Kind: SentimentNegative}, false},
		{"blank sender", Sentiment{Kind: SentimentNegative, SenderID: "   "}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.ev.Validate()
			if (err == nil) != tt.ok {
				t.Errorf("Expected ok=%v, got %v", tt.ok, err)
			}
		})
	}
}

func TestQueueFIFO(t *testing.T) {
	q := NewEventQueue()
	for i := 0; i < 5; i++ {
		q.Push(GameEvent{Type: EventMarkerSpawned, Frame: uint64(i)})
	}
	if q.Len() != 5 {
		t.Errorf("Expected 5 pending, got %d", q.Len())
	}

	got := q.Consume()
	if len(got) != 5 {
		t.Fatalf("Expected 5 events, got %d", len(got))
	}
	for i, ev := range got {
		if ev.Frame != uint64(i) {
			t.Errorf("Expected frame %d at index %d, got %d", i, i, ev.Frame)
		}
	}
	if q.Consume() != nil {
		t.Error("Expected empty queue after consume")
	}
}

func TestQueueOverflowKeepsNewest(t *testing.T) {
	q := NewEventQueue()
	total := constants.EventQueueSize + 10
	for i := 0; i < total; i++ {
		q.Push(GameEvent{Type: EventShipHit, Frame: uint64(i)})
	}

	got := q.Consume()
	if len(got) != constants.EventQueueSize {
		t.Fatalf("Expected %d events, got %d", constants.EventQueueSize, len(got))
	}
	if got[len(got)-1].Frame != uint64(total-1) {
		t.Errorf("Expected newest frame %d last, got %d", total-1, got[len(got)-1].Frame)
	}
}

func TestQueueConcurrentProducers(t *testing.T) {
	q := NewEventQueue()
	var wg sync.WaitGroup
	for p := 0; p < 4; p++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				q.Push(GameEvent{Type: EventHazardSpawned})
			}
		}()
	}
	wg.Wait()

	if got := len(q.Consume()); got != 200 {
		t.Errorf("Expected 200 events, got %d", got)
	}
}

func TestRouterDispatchOrder(t *testing.T) {
	q := NewEventQueue()
	r := NewRouter(q)

	var order []string
	r.Register(HandlerFunc{Types: []EventType{EventShipHit}, Fn: func(GameEvent) { order = append(order, "first") }})
	r.Register(HandlerFunc{Types: []EventType{EventShipHit, EventPhaseChanged}, Fn: func(ev GameEvent) {
		order = append(order, "second:"+ev.Type.String())
	}})

	if r.HandlerCount(EventShipHit) != 2 {
		t.Errorf("Expected 2 handlers for ship hit, got %d", r.HandlerCount(EventShipHit))
	}

	q.Push(GameEvent{Type: EventShipHit})
	q.Push(GameEvent{Type: EventPhaseChanged})
	q.Push(GameEvent{Type: EventMarkerSpawned})

	if n := r.DispatchAll(); n != 3 {
		t.Errorf("Expected 3 events consumed, got %d", n)
	}

	want := []string{"first", "second:ship_hit", "second:phase_changed"}
	if len(order) != len(want) {
		t.Fatalf("Expected %v, got %v", want, order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("Expected %q at %d, got %q", want[i], i, order[i])
		}
	}
}
