package events

// EventType represents the type of game event
type EventType int

const (
	// EventShipHit signals a ship/hazard collision
	// Trigger: collision pass in PhaseNormal
	// Consumer: CuePlayer, stats | Payload: *ShipHitPayload
	EventShipHit EventType = iota + 1

	// EventPhaseChanged signals a completed phase transition
	// Trigger: phase machine | Payload: *PhaseChangedPayload
	EventPhaseChanged

	// EventVelocityChanged signals a sentiment-driven velocity increase
	// Trigger: positive streak overflow | Payload: *VelocityChangedPayload
	EventVelocityChanged

	// EventHazardSpawned signals a new hazard at the top edge
	// Trigger: negative streak overflow | Payload: *EntityPayload
	EventHazardSpawned

	// EventMarkerSpawned signals a new sender marker
	// Trigger: any applied sentiment | Payload: *EntityPayload
	EventMarkerSpawned

	// EventSentimentApplied records a sentiment accepted in PhaseNormal
	// Consumer: Journal | Payload: *SentimentPayload
	EventSentimentApplied

	// EventSentimentDropped records a sentiment ignored after PhaseNormal or rejected as malformed
	// Payload: *SentimentPayload
	EventSentimentDropped
)

var eventNames = map[EventType]string{
	EventShipHit:          "ship_hit",
	EventPhaseChanged:     "phase_changed",
	EventVelocityChanged:  "velocity_changed",
	EventHazardSpawned:    "hazard_spawned",
	EventMarkerSpawned:    "marker_spawned",
	EventSentimentApplied: "sentiment_applied",
	EventSentimentDropped: "sentiment_dropped",
}

func (t EventType) String() string {
	if name, ok := eventNames[t]; ok {
		return name
	}
	return "unknown"
}

// GameEvent is a single routed notification
type GameEvent struct {
	Type    EventType
	Frame   uint64
	Payload any
}
