package constants

// Velocity Tuning (pixels per frame)
const (
	// VelocityIncrement is the global velocity gained each time the positive streak overflows
	VelocityIncrement = 0.5

	// VelocityCeiling is the global velocity that triggers the hyperspeed transition
	VelocityCeiling = 500.0

	// HyperspeedVelocity is the global velocity set on entering the transition
	HyperspeedVelocity = 5.0

	// CruiseVelocity is the global velocity set on entering overdrive
	CruiseVelocity = 10.0

	// HazardVelocity is the fixed downward speed of hazards
	HazardVelocity = 5.0

	// MarkerDrift is the fixed leftward speed of markers
	MarkerDrift = 2.0
)

// Sentiment Streaks
const (
	// PositiveThreshold: velocity grows when the positive streak exceeds it (every 10th message)
	PositiveThreshold = 9

	// NegativeThreshold: a hazard spawns when the negative streak exceeds it (every message)
	NegativeThreshold = 0
)

// Population
const (
	// StarCount is the number of stars generated at start and on entering overdrive
	StarCount = 100

	// MaxMarkers caps live markers; the oldest retires first
	MaxMarkers = 32
)

// Entity Geometry (pixels)
const (
	StarSize = 5.0

	HazardWidth  = 5.0
	HazardHeight = 50.0

	ShipSize = 125.0

	// ShipFloorOffset is the distance from the ship's resting top edge to the viewport bottom
	ShipFloorOffset = 200.0

	// ShipLift is the one-time upward offset applied when the ship first gains speed
	ShipLift = 40.0

	BoostWidth  = 40.0
	BoostHeight = 30.0

	GroundHeight = 100.0

	GaugeWidth = 100.0

	// MarkerLaneY is the vertical position of the marker ticker
	MarkerLaneY = 24.0

	// MarkerGap is the horizontal spacing between consecutive markers
	MarkerGap = 16.0

	// MarkerCharWidth estimates the rendered width of one marker character
	MarkerCharWidth = 8.0

	// MaskVisibleTail is the number of trailing sender characters left unmasked
	MaskVisibleTail = 4
)

// Impact Shake
const (
	// ShakeCount is the number of alternating displacements after a hit
	ShakeCount = 6

	// ShakeOffset is the horizontal displacement of each shake step
	ShakeOffset = 10.0
)

// Sprite references and glyphs handed to the presentation layer
const (
	ShipImage  = "ship"
	BoostImage = "boost"

	MaskRune      = '*'
	GlyphPositive = ":)"
	GlyphNegative = ":("
)
