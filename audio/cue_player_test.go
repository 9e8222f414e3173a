package audio

import (
	"sync"
	"testing"
	"time"

	"github.com/gopxl/beep"

	"github.com/lixenwraith/moodflight/events"
)

type captureOutput struct {
	mu      sync.Mutex
	streams []beep.Streamer
}

func (c *captureOutput) Play(s beep.Streamer) {
	c.mu.Lock()
	c.streams = append(c.streams, s)
	c.mu.Unlock()
}

// drain streams s to completion and returns the sample count and peak amplitude
func drain(s beep.Streamer) (int, float64) {
	buf := make([][2]float64, 512)
	total, peak := 0, 0.0
	for {
		n, ok := s.Stream(buf)
		for i := 0; i < n; i++ {
			peak = max(peak, buf[i][0], -buf[i][0])
		}
		total += n
		if !ok {
			return total, peak
		}
	}
}

func TestSweepLengthAndRange(t *testing.T) {
	rate := beep.SampleRate(8000)
	for _, wave := range []WaveType{WaveSine, WaveSquare, WaveSaw} {
		n, peak := drain(NewSweep(200, 800, 50*time.Millisecond, wave, rate))
		if n != 400 {
			t.Errorf("Wave %d: expected 400 samples, got %d", wave, n)
		}
		if peak > 1 {
			t.Errorf("Wave %d: expected samples within [-1, 1], peak %f", wave, peak)
		}
	}
}

func TestEnvelopeStartsAndEndsSilent(t *testing.T) {
	rate := beep.SampleRate(8000)
	d := 100 * time.Millisecond
	s := NewEnvelope(NewSweep(100, 100, d, WaveSquare, rate), d, 10*time.Millisecond, 10*time.Millisecond, rate)

	buf := make([][2]float64, rate.N(d))
	n, _ := s.Stream(buf)
	if n != len(buf) {
		t.Fatalf("Expected %d samples, got %d", len(buf), n)
	}
	if buf[0][0] != 0 {
		t.Errorf("Expected silent first sample, got %f", buf[0][0])
	}
	if last := buf[n-1][0]; last > 0.2 || last < -0.2 {
		t.Errorf("Expected near-silent last sample, got %f", last)
	}
	if mid := buf[n/2][0]; mid != 1 && mid != -1 {
		t.Errorf("Expected full square amplitude mid-cue, got %f", mid)
	}
}

func TestSynthesizeEveryCue(t *testing.T) {
	rate := beep.SampleRate(8000)
	for _, c := range []Cue{CueImpact, CuePhase, CueHazard} {
		s := Synthesize(c, rate, 0.5)
		if s == nil {
			t.Fatalf("Expected streamer for %s", c)
		}
		n, peak := drain(s)
		if n != rate.N(CueDuration(c)) {
			t.Errorf("Cue %s: expected %d samples, got %d", c, rate.N(CueDuration(c)), n)
		}
		if peak == 0 || peak > 0.5+1e-9 {
			t.Errorf("Cue %s: expected peak in (0, 0.5], got %f", c, peak)
		}
	}
	if Synthesize(Cue(99), rate, 1) != nil {
		t.Error("Expected nil for unknown cue")
	}
}

func TestSilentVolume(t *testing.T) {
	_, peak := drain(Synthesize(CueImpact, beep.SampleRate(8000), 0))
	if peak != 0 {
		t.Errorf("Expected silence at volume 0, got peak %f", peak)
	}
}

func TestCuePlayerRoutesEvents(t *testing.T) {
	out := &captureOutput{}
	p := NewCuePlayer(out, beep.SampleRate(8000), 0.5)

	router := events.NewRouter(events.NewEventQueue())
	router.Register(p)
	for _, typ := range []events.EventType{events.EventShipHit, events.EventPhaseChanged, events.EventHazardSpawned} {
		if router.HandlerCount(typ) != 1 {
			t.Errorf("Expected cue player registered for %s", typ)
		}
	}

	p.HandleEvent(events.GameEvent{Type: events.EventShipHit})
	p.HandleEvent(events.GameEvent{Type: events.EventPhaseChanged})
	p.HandleEvent(events.GameEvent{Type: events.EventMarkerSpawned})

	if p.Played() != 2 {
		t.Errorf("Expected 2 cues, got %d", p.Played())
	}
	if len(out.streams) != 2 {
		t.Errorf("Expected 2 streams delivered, got %d", len(out.streams))
	}
}

func TestCuePlayerWithoutOutput(t *testing.T) {
	p := NewCuePlayer(nil, beep.SampleRate(8000), 1)
	p.HandleEvent(events.GameEvent{Type: events.EventShipHit})
	if p.Played() != 0 {
		t.Errorf("Expected no cues without output, got %d", p.Played())
	}
}

func TestSpeakerOutputBeforeInit(t *testing.T) {
	out := NewSpeakerOutput(DefaultSampleRate())
	defer func() {
		if r := recover(); r != nil {
			t.Errorf("Expected uninitialized output to be safe, panicked: %v", r)
		}
	}()
	out.Play(Synthesize(CueHazard, DefaultSampleRate(), 1))
	out.Close()
}
