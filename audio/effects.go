package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"

	"github.com/lixenwraith/moodflight/constants"
)

// WaveType defines oscillator wave shapes
type WaveType int

const (
	WaveSine WaveType = iota
	WaveSquare
	WaveSaw
)

// sweep is a finite oscillator whose frequency glides linearly from
// freqFrom to freqTo over its duration
type sweep struct {
	freqFrom float64
	freqTo   float64
	wave     WaveType
	rate     beep.SampleRate

	phase    float64
	position int
	total    int
}

// NewSweep creates a gliding oscillator; equal frequencies give a steady tone
func NewSweep(freqFrom, freqTo float64, duration time.Duration, wave WaveType, rate beep.SampleRate) beep.Streamer {
	return &sweep{
		freqFrom: freqFrom,
		freqTo:   freqTo,
		wave:     wave,
		rate:     rate,
		total:    rate.N(duration),
	}
}

func (s *sweep) Stream(samples [][2]float64) (n int, ok bool) {
	if s.position >= s.total {
		return 0, false
	}
	for i := range samples {
		if s.position >= s.total {
			return i, true
		}

		var val float64
		switch s.wave {
		case WaveSine:
			val = math.Sin(2 * math.Pi * s.phase)
		case WaveSquare:
			val = 1
			if s.phase >= 0.5 {
				val = -1
			}
		case WaveSaw:
			val = 2 * (s.phase - 0.5)
		}
		samples[i][0] = val
		samples[i][1] = val

		progress := float64(s.position) / float64(s.total)
		freq := s.freqFrom + (s.freqTo-s.freqFrom)*progress
		s.phase += freq / float64(s.rate)
		s.phase -= math.Floor(s.phase)
		s.position++
	}
	return len(samples), true
}

func (s *sweep) Err() error { return nil }

// envelope applies a linear attack and release to a finite stream
type envelope struct {
	streamer beep.Streamer
	position int
	attack   int
	release  int
	total    int
}

// NewEnvelope shapes s, which is expected to last exactly duration
func NewEnvelope(s beep.Streamer, duration, attack, release time.Duration, rate beep.SampleRate) beep.Streamer {
	return &envelope{
		streamer: s,
		attack:   rate.N(attack),
		release:  rate.N(release),
		total:    rate.N(duration),
	}
}

func (e *envelope) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = e.streamer.Stream(samples)
	for i := 0; i < n; i++ {
		vol := 1.0
		if e.attack > 0 && e.position < e.attack {
			vol = float64(e.position) / float64(e.attack)
		}
		if remaining := e.total - e.position; e.release > 0 && remaining < e.release {
			vol = math.Max(float64(remaining)/float64(e.release), 0)
		}
		samples[i][0] *= vol
		samples[i][1] *= vol
		e.position++
	}
	return n, ok
}

func (e *envelope) Err() error { return e.streamer.Err() }

// newVolume wraps s in a linear gain; zero or less is silent
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}

// Cue identifies one of the short sounds reacting to flight events
type Cue int

const (
	CueImpact Cue = iota
	CuePhase
	CueHazard
)

func (c Cue) String() string {
	switch c {
	case CueImpact:
		return "impact"
	case CuePhase:
		return "phase"
	case CueHazard:
		return "hazard"
	default:
		return "unknown"
	}
}

// CueDuration returns the length of a synthesized cue
func CueDuration(c Cue) time.Duration {
	switch c {
	case CueImpact:
		return constants.ImpactCueDuration
	case CuePhase:
		return constants.PhaseCueDuration
	case CueHazard:
		return constants.HazardCueDuration
	default:
		return 0
	}
}

// Synthesize builds the streamer for c; nil for an unknown cue
func Synthesize(c Cue, rate beep.SampleRate, volume float64) beep.Streamer {
	var osc beep.Streamer
	switch c {
	case CueImpact:
		osc = NewSweep(constants.ImpactCueFreqFrom, constants.ImpactCueFreqTo, constants.ImpactCueDuration, WaveSaw, rate)
	case CuePhase:
		osc = NewSweep(constants.PhaseCueFreqFrom, constants.PhaseCueFreqTo, constants.PhaseCueDuration, WaveSine, rate)
	case CueHazard:
		osc = NewSweep(constants.HazardCueFreq, constants.HazardCueFreq, constants.HazardCueDuration, WaveSquare, rate)
	default:
		return nil
	}
	d := CueDuration(c)
	shaped := NewEnvelope(osc, d, constants.CueAttack, min(constants.CueRelease, d/2), rate)
	return newVolume(shaped, volume)
}
