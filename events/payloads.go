package events

import "github.com/lixenwraith/moodflight/core"

// ShipHitPayload locates the collision
type ShipHitPayload struct {
	ShipID   uint64
	HazardID uint64
	At       core.Vec2
}

// PhaseChangedPayload carries phase names so consumers need not import the engine
type PhaseChangedPayload struct {
	From string
	To   string
}

// VelocityChangedPayload contains the new global velocity
type VelocityChangedPayload struct {
	Velocity float64
	Ceiling  float64
}

// EntityPayload identifies a spawned entity
type EntityPayload struct {
	EntityID uint64
	Pos      core.Vec2
	Label    string
}

// SentimentPayload wraps an inbound event with the reason it was dropped, if any
type SentimentPayload struct {
	Sentiment Sentiment
	Reason    string
}
