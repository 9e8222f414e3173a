// Package physics holds the stateless collision tests.
package physics

import (
	"github.com/lixenwraith/moodflight/core"
	"github.com/lixenwraith/moodflight/entity"
)

// Collides reports AABB overlap using half-open spans: touching edges do not collide
func Collides(a, b core.Rect) bool {
	return a.Left() < b.Right() && a.Right() > b.Left() &&
		a.Top() < b.Bottom() && a.Bottom() > b.Top()
}

// CollidesWith tests two entities' bounding boxes; text-only entities never collide
func CollidesWith(a, b *entity.Entity) bool {
	ra, ok := a.Bounds()
	if !ok {
		return false
	}
	rb, ok := b.Bounds()
	if !ok {
		return false
	}
	return Collides(ra, rb)
}

// FirstHit returns the first target the subject collides with
func FirstHit(subject *entity.Entity, targets []*entity.Entity) (*entity.Entity, bool) {
	for _, t := range targets {
		if t != subject && CollidesWith(subject, t) {
			return t, true
		}
	}
	return nil, false
}
