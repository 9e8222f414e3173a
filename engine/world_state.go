package engine

import (
	"github.com/lixenwraith/moodflight/core"
)

// Phase is the discrete flight mode
type Phase uint8

const (
	// PhaseNormal: hazards, gauge and sentiment-driven velocity are active
	PhaseNormal Phase = iota
	// PhaseTransitioning: hyperspeed streaks, off-screen entities freeze
	PhaseTransitioning
	// PhaseOverdrive: terminal cruise with rainbow stars
	PhaseOverdrive
)

func (p Phase) String() string {
	switch p {
	case PhaseNormal:
		return "normal"
	case PhaseTransitioning:
		return "transitioning"
	case PhaseOverdrive:
		return "overdrive"
	default:
		return "unknown"
	}
}

// WorldState holds the process-wide scalars of the flight
// Single writer per field: the phase machine owns Phase, the sentiment
// controller owns the streaks, the step owns Viewport and Frame; velocity is
// written by both under the simulation lock.
type WorldState struct {
	GlobalVelocity float64
	Phase          Phase

	PositiveStreak int
	NegativeStreak int

	Viewport core.Size

	// Frame counts completed steps
	Frame uint64
}

// NewWorldState creates the initial state: at rest, PhaseNormal
func NewWorldState(viewport core.Size) WorldState {
	return WorldState{Phase: PhaseNormal, Viewport: viewport}
}
