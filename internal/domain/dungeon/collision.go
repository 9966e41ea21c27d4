package dungeon

import (
	"math"

	"github.com/younwookim/coopcrawl/internal/domain/geom"
)

// CircleRectOverlap tests a circle against a rectangle using the closest
// point on the rectangle. Touching edges do not overlap.
func CircleRectOverlap(c geom.Vec, r float64, rect Rect) bool {
	nx := math.Max(rect.X, math.Min(c.X, rect.X+rect.W))
	ny := math.Max(rect.Y, math.Min(c.Y, rect.Y+rect.H))
	dx := c.X - nx
	dy := c.Y - ny
	return dx*dx+dy*dy < r*r
}

// CircleCollides reports whether a circle leaves the map or overlaps any
// wall tile.
func (m *Map) CircleCollides(p geom.Vec, radius float64) bool {
	if !p.IsFinite() {
		return true
	}
	if p.X-radius < 0 || p.Y-radius < 0 || p.X+radius > m.WidthPx() || p.Y+radius > m.HeightPx() {
		return true
	}

	ts := float64(m.TileSize)
	minTx := int(math.Floor((p.X - radius) / ts))
	maxTx := int(math.Floor((p.X + radius) / ts))
	minTy := int(math.Floor((p.Y - radius) / ts))
	maxTy := int(math.Floor((p.Y + radius) / ts))

	for ty := minTy; ty <= maxTy; ty++ {
		for tx := minTx; tx <= maxTx; tx++ {
			if !m.IsWall(tx, ty) {
				continue
			}
			cell := Rect{X: float64(tx) * ts, Y: float64(ty) * ts, W: ts, H: ts}
			if CircleRectOverlap(p, radius, cell) {
				return true
			}
		}
	}
	return false
}

// MoveCircle moves a circle by (dx, dy) resolving each axis separately:
// x first with y fixed, then y from the possibly updated x. A blocked axis
// keeps its old coordinate so the circle slides along walls.
func (m *Map) MoveCircle(p geom.Vec, radius, dx, dy float64) geom.Vec {
	next := geom.V(p.X+dx, p.Y)
	if !m.CircleCollides(next, radius) {
		p.X = next.X
	}
	next = geom.V(p.X, p.Y+dy)
	if !m.CircleCollides(next, radius) {
		p.Y = next.Y
	}
	return p
}
