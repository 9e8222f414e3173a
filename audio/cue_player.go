// Package audio plays short synthesized cues in reaction to flight events.
//
// Audio is optional: the CuePlayer degrades to a no-op when no output is
// available, and never blocks the scheduler.
package audio

import (
	"sync"
	"sync/atomic"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/lixenwraith/moodflight/constants"
	"github.com/lixenwraith/moodflight/events"
	"github.com/lixenwraith/moodflight/logger"
)

// Output receives finished cue streamers
type Output interface {
	Play(s beep.Streamer)
}

// CuePlayer maps game events to cues. It implements events.Handler.
type CuePlayer struct {
	out    Output
	rate   beep.SampleRate
	volume float64

	played atomic.Int64
	log    *logrus.Entry
}

// NewCuePlayer creates a player writing to out at the given sample rate
func NewCuePlayer(out Output, rate beep.SampleRate, volume float64) *CuePlayer {
	return &CuePlayer{
		out:    out,
		rate:   rate,
		volume: volume,
		log:    logger.For("audio"),
	}
}

// EventTypes implements events.Handler
func (p *CuePlayer) EventTypes() []events.EventType {
	return []events.EventType{
		events.EventShipHit,
		events.EventPhaseChanged,
		events.EventHazardSpawned,
	}
}

// HandleEvent implements events.Handler
func (p *CuePlayer) HandleEvent(ev events.GameEvent) {
	cue, ok := cueFor(ev.Type)
	if !ok || p.out == nil {
		return
	}
	s := Synthesize(cue, p.rate, p.volume)
	if s == nil {
		return
	}
	p.out.Play(s)
	p.played.Add(1)
	p.log.WithFields(logrus.Fields{"cue": cue, "frame": ev.Frame}).Debug("cue played")
}

// Played returns the number of cues handed to the output
func (p *CuePlayer) Played() int64 {
	return p.played.Load()
}

func cueFor(t events.EventType) (Cue, bool) {
	switch t {
	case events.EventShipHit:
		return CueImpact, true
	case events.EventPhaseChanged:
		return CuePhase, true
	case events.EventHazardSpawned:
		return CueHazard, true
	default:
		return 0, false
	}
}

// SpeakerOutput mixes cues into the system speaker
type SpeakerOutput struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	rate        beep.SampleRate
	initialized bool
}

// NewSpeakerOutput creates an output for the given sample rate; call Init before use
func NewSpeakerOutput(rate beep.SampleRate) *SpeakerOutput {
	return &SpeakerOutput{mixer: &beep.Mixer{}, rate: rate}
}

// DefaultSampleRate is the rate used by the speaker output unless configured
func DefaultSampleRate() beep.SampleRate {
	return beep.SampleRate(constants.AudioSampleRate)
}

// Init opens the speaker. Failure is expected on hosts without an audio device.
func (o *SpeakerOutput) Init() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.initialized {
		return nil
	}
	if err := speaker.Init(o.rate, o.rate.N(constants.AudioBufferDuration)); err != nil {
		return errors.Wrap(err, "init speaker")
	}
	speaker.Play(o.mixer)
	o.initialized = true
	return nil
}

// Play implements Output; a no-op before Init
func (o *SpeakerOutput) Play(s beep.Streamer) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if !o.initialized {
		return
	}
	speaker.Lock()
	o.mixer.Add(s)
	speaker.Unlock()
}

// Close silences pending cues and releases the speaker
func (o *SpeakerOutput) Close() {
	o.mu.Lock()
	defer o.mu.Unlock()

	if !o.initialized {
		return
	}
	speaker.Lock()
	o.mixer.Clear()
	speaker.Unlock()
	speaker.Close()
	o.initialized = false
}
