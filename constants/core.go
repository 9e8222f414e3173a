package constants

import "time"

// Frame Loop Timing
const (
	// DefaultFrameRate is the target number of simulation steps per second
	DefaultFrameRate = 60

	// HUDRefreshInterval bounds how often the terminal status line is rebuilt
	HUDRefreshInterval = 250 * time.Millisecond
)

// Event Queue Limits
const (
	// EventQueueSize is the fixed capacity of the game event ring buffer
	EventQueueSize = 256

	// EventBufferMask is the bitmask for fast modulo operations (256 - 1)
	EventBufferMask = 255

	// SentimentInboxSize is the buffer of the scheduler's inbound sentiment channel
	SentimentInboxSize = 256
)

// DefaultViewport is used until the presentation layer reports a real size
const (
	DefaultViewportWidth  = 800.0
	DefaultViewportHeight = 600.0
)

// Audio Cues
const (
	// AudioSampleRate is the speaker sample rate in Hz
	AudioSampleRate = 44100

	// AudioBufferDuration is the speaker buffer length
	AudioBufferDuration = 100 * time.Millisecond

	// Impact: descending saw blip
	ImpactCueDuration = 180 * time.Millisecond
	ImpactCueFreqFrom = 220.0
	ImpactCueFreqTo   = 90.0

	// Phase: rising sine chirp
	PhaseCueDuration = 600 * time.Millisecond
	PhaseCueFreqFrom = 330.0
	PhaseCueFreqTo   = 1320.0

	// Hazard: short square tick
	HazardCueDuration = 40 * time.Millisecond
	HazardCueFreq     = 1760.0

	CueAttack  = 5 * time.Millisecond
	CueRelease = 30 * time.Millisecond

	// DefaultCueVolume is the linear gain applied to every cue
	DefaultCueVolume = 0.4
)

// Terminal Presenter
const (
	// TerminalCellWidth and TerminalCellHeight map scene pixels to terminal cells
	TerminalCellWidth  = 8
	TerminalCellHeight = 16

	// KeyboardSenderPrefix tags sentiment events typed at the terminal
	KeyboardSenderPrefix = "keyboard-"
)

// Journal
const (
	// ReplayTailSeconds keeps a replay running past its last recorded event
	ReplayTailSeconds = 10
)

// Journal writer
const (
	// JournalBufferSize bounds entries waiting for the journal writer; a full buffer drops
	JournalBufferSize = 1024

	// JournalBatchSize caps entries written per transaction
	JournalBatchSize = 128
)
