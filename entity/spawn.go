package entity

import (
	"github.com/lixenwraith/moodflight/constants"
	"github.com/lixenwraith/moodflight/core"
)

func sized(w, h float64) *core.Size {
	return &core.Size{W: w, H: h}
}

// NewStar creates a background star; its movement comes from the global velocity
func NewStar(x, y float64, color core.RGB) *Entity {
	e := newEntity(KindBackground)
	e.Layer = LayerStar
	e.Pos = core.Vec2{X: x, Y: y}
	e.Dims = sized(constants.StarSize, constants.StarSize)
	e.Color = color
	return e
}

// NewSky covers the viewport above the ground strip
func NewSky(viewport core.Size) *Entity {
	e := newEntity(KindBackground)
	e.Layer = LayerSky
	e.Dims = sized(viewport.W, viewport.H-constants.GroundHeight)
	e.Color = core.RGBSky
	return e
}

// NewGround sits directly below the sky
func NewGround(viewport core.Size, skyHeight float64) *Entity {
	e := newEntity(KindBackground)
	e.Layer = LayerGround
	e.Pos = core.Vec2{Y: skyHeight}
	e.Dims = sized(viewport.W, viewport.H-skyHeight)
	e.Color = core.RGBGround
	return e
}

// NewShip creates the ship sprite at rest
func NewShip(x, y float64) *Entity {
	e := newEntity(KindShip)
	e.Pos = core.Vec2{X: x, Y: y}
	e.Dims = sized(constants.ShipSize, constants.ShipSize)
	e.Image = constants.ShipImage
	return e
}

// NewHazard creates a falling hazard at the top edge
func NewHazard(x, velocity float64) *Entity {
	e := newEntity(KindHazard)
	e.Pos = core.Vec2{X: x}
	e.Vel = core.Vec2{Y: velocity}
	e.Dims = sized(constants.HazardWidth, constants.HazardHeight)
	e.Color = core.RGBRed
	return e
}

// NewMarker creates a text-only label drifting left
func NewMarker(x, y float64, label string, drift float64) *Entity {
	e := newEntity(KindMarker)
	e.Pos = core.Vec2{X: x, Y: y}
	e.Vel = core.Vec2{X: -drift}
	e.Label = label
	e.Color = core.RGBWhite
	return e
}

// NewGauge creates the velocity indicator, sized to end at the ship's top edge
func NewGauge(viewport core.Size, shipHeight float64, value *float64, ceiling float64) *Entity {
	e := newEntity(KindIndicator)
	y := viewport.H / 6
	e.Pos = core.Vec2{X: 7 * viewport.W / 8, Y: y}
	e.Dims = sized(constants.GaugeWidth, max(viewport.H-shipHeight-y, 0))
	e.Color = core.RGBRed
	e.Gauge = Gauge{Value: value, Ceiling: ceiling}
	return e
}

// NewBoost creates the flame sprite attached under the ship
func NewBoost(ship *Entity) *Entity {
	e := newEntity(KindEffectSprite)
	shipW, shipH := constants.ShipSize, constants.ShipSize
	if ship.Dims != nil {
		shipW, shipH = ship.Dims.W, ship.Dims.H
	}
	e.Pos = core.Vec2{
		X: ship.Pos.X + shipW/2 - constants.BoostWidth/2,
		Y: ship.Pos.Y + shipH,
	}
	e.Dims = sized(constants.BoostWidth, constants.BoostHeight)
	e.Color = core.RGBFlame
	e.Image = constants.BoostImage
	return e
}
