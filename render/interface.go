// Package render defines the boundary between the simulation and whatever paints it.
package render

import (
	"github.com/lixenwraith/moodflight/core"
	"github.com/lixenwraith/moodflight/entity"
)

// Presenter paints draw requests and reports the current viewport in pixels
type Presenter interface {
	Viewport() (core.Size, error)
	Draw(req DrawRequest) error
}

// FrameBoundary is optionally implemented by presenters that buffer a frame
type FrameBoundary interface {
	BeginFrame()
	EndFrame()
}

// DrawRequest is a read-only snapshot of one entity for one frame
type DrawRequest struct {
	ID    uint64
	Kind  entity.Kind
	Layer entity.Layer

	Pos  core.Vec2
	Dims *core.Size // nil for text-only requests

	Color core.RGB
	Image string
	Text  string

	// Fill is the indicator's filled fraction in [0, 1]
	Fill float64

	// Trail draws a streak from TrailFrom to Pos.Y instead of the box
	Trail     bool
	TrailFrom float64

	// Impacted replaces the ship's regular sprite with its hit animation
	Impacted bool
}

// NewDrawRequest snapshots e; nothing in the request aliases entity state
func NewDrawRequest(e *entity.Entity) DrawRequest {
	req := DrawRequest{
		ID:       e.ID,
		Kind:     e.Kind,
		Layer:    e.Layer,
		Pos:      e.Pos,
		Color:    e.Color,
		Image:    e.Image,
		Text:     e.Label,
		Impacted: e.Impact.WasHit,
	}
	if e.Dims != nil {
		d := *e.Dims
		req.Dims = &d
	}
	if e.Kind == entity.KindIndicator {
		req.Fill = e.Gauge.Fill()
	}
	if e.TrailOrigin != nil {
		req.Trail = true
		req.TrailFrom = *e.TrailOrigin
	}
	return req
}
