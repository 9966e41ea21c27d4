package entity

import "github.com/younwookim/coopcrawl/internal/domain/geom"

// Body is the shared position record of every entity.
type Body struct {
	EntityID EntityID
	Pos      geom.Vec
	Radius   float64
	Alive    bool
}

func (b *Body) ID() EntityID           { return b.EntityID }
func (b *Body) Position() geom.Vec     { return b.Pos }
func (b *Body) IsAlive() bool          { return b.Alive }
func (b *Body) BodyRef() *Body         { return b }
func (b *Body) DistTo(o *Body) float64 { return b.Pos.Dist(o.Pos) }

// Touches reports whether two circles overlap with an extra margin.
func (b *Body) Touches(o *Body, margin float64) bool {
	return b.DistTo(o) <= b.Radius+o.Radius+margin
}

// clampToMap keeps p inside the map with the given inset from every edge.
func clampToMap(w World, p geom.Vec, inset float64) geom.Vec {
	m := w.Map()
	return geom.V(
		geom.Clamp(p.X, inset, m.WidthPx()-inset),
		geom.Clamp(p.Y, inset, m.HeightPx()-inset),
	)
}
