package core

// Vec2 is a position or velocity in screen pixels, origin top-left
type Vec2 struct {
	X, Y float64
}

// Add returns the component-wise sum
func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{X: v.X + o.X, Y: v.Y + o.Y}
}

// Size is a width/height pair in pixels
type Size struct {
	W, H float64
}

// Empty reports whether either dimension is non-positive
func (s Size) Empty() bool {
	return s.W <= 0 || s.H <= 0
}

// Rect is an axis-aligned box anchored at its top-left corner
type Rect struct {
	X, Y, W, H float64
}

// Left, Right, Top and Bottom return the box edges
func (r Rect) Left() float64   { return r.X }
func (r Rect) Right() float64  { return r.X + r.W }
func (r Rect) Top() float64    { return r.Y }
func (r Rect) Bottom() float64 { return r.Y + r.H }

// RectAt builds a box from a position and size
func RectAt(pos Vec2, size Size) Rect {
	return Rect{X: pos.X, Y: pos.Y, W: size.W, H: size.H}
}
