package core

// RGB stores explicit 8-bit color channels, decoupled from tcell
type RGB struct {
	R, G, B uint8
}

// Predefined colors
var (
	RGBBlack  = RGB{0, 0, 0}
	RGBWhite  = RGB{255, 255, 255}
	RGBRed    = RGB{255, 0, 0}
	RGBGreen  = RGB{0, 255, 0}
	RGBBlue   = RGB{0, 0, 255}
	RGBYellow = RGB{255, 255, 0}
	RGBViolet = RGB{138, 43, 226}
	RGBSky    = RGB{51, 153, 255}
	RGBGround = RGB{205, 133, 63}
	RGBFlame  = RGB{255, 140, 0}
)

// Rainbow is the palette used for stars once the flight has left normal speed
var Rainbow = []RGB{RGBWhite, RGBRed, RGBBlue, RGBGreen, RGBYellow, RGBViolet}

// Scale multiplies each channel by factor (for fading effects)
func (c RGB) Scale(factor float64) RGB {
	if factor <= 0 {
		return RGBBlack
	}
	if factor >= 1 {
		return c
	}
	return RGB{
		R: uint8(float64(c.R) * factor),
		G: uint8(float64(c.G) * factor),
		B: uint8(float64(c.B) * factor),
	}
}
