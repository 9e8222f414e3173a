// Package entity defines every visual object of the flight scene.
//
// All kinds share one struct and one Advance implementation; kind-specific
// behaviour is selected by the Kind/Layer tags and the explicit state fields
// (Frozen, TrailOrigin, Impact) rather than by swapping functions at runtime.
package entity

import (
	"github.com/lixenwraith/moodflight/core"
)

// Kind tags the variant of an entity
type Kind uint8

const (
	KindShip Kind = iota
	KindHazard
	KindBackground
	KindMarker
	KindIndicator
	KindEffectSprite
)

var kindNames = [...]string{"ship", "hazard", "background", "marker", "indicator", "effect"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Layer distinguishes background entities; zero for every other kind
type Layer uint8

const (
	LayerNone Layer = iota
	LayerStar
	LayerSky
	LayerGround
)

// Impact is the ship's post-collision shake state
type Impact struct {
	WasHit          bool
	OriginX         float64
	RemainingShakes int
}

// Gauge is the indicator payload: the quantity shown and its ceiling
type Gauge struct {
	Value   *float64
	Ceiling float64
}

// Fill returns Value/Ceiling clamped to [0, 1]
func (g Gauge) Fill() float64 {
	if g.Value == nil || g.Ceiling <= 0 {
		return 0
	}
	f := *g.Value / g.Ceiling
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

// Entity is a single registry member
type Entity struct {
	// ID is assigned by the owning simulation when the entity is spawned
	ID    uint64
	Kind  Kind
	Layer Layer

	Pos  core.Vec2
	Vel  core.Vec2
	Dims *core.Size // nil for text-only entities

	Color core.RGB
	Image string
	Label string

	// Frozen turns Advance into a no-op
	Frozen bool
	// TrailOrigin is the y recorded when hyperspeed began; non-nil draws a streak
	TrailOrigin *float64

	Impact Impact
	Gauge  Gauge
}

func newEntity(kind Kind) *Entity {
	return &Entity{Kind: kind}
}

// Advance applies one frame of movement. Background entities read the live
// global velocity; the ship never moves on its own.
func (e *Entity) Advance(globalVelocity float64) {
	if e.Frozen {
		return
	}
	switch e.Kind {
	case KindShip:
		return
	case KindBackground:
		e.Pos.Y += globalVelocity
	default:
		e.Pos = e.Pos.Add(e.Vel)
	}
}

// IsOnScreen reports whether y lies within [0, viewport.H]
func (e *Entity) IsOnScreen(viewport core.Size) bool {
	return e.Pos.Y >= 0 && e.Pos.Y <= viewport.H
}

// Width returns the horizontal extent, estimating text width for markers
func (e *Entity) Width(charWidth float64) float64 {
	if e.Dims != nil {
		return e.Dims.W
	}
	return float64(len([]rune(e.Label))) * charWidth
}

// Bounds returns the bounding box and false for entities without dimensions
func (e *Entity) Bounds() (core.Rect, bool) {
	if e.Dims == nil {
		return core.Rect{}, false
	}
	return core.RectAt(e.Pos, *e.Dims), true
}

// Scrolls reports whether the entity belongs to the vertically scrolling
// population that is recycled, frozen or regenerated by phase rules
func (e *Entity) Scrolls() bool {
	return e.Kind == KindBackground || e.Kind == KindHazard
}
