// Package dungeon holds the room tile grid, circle collision against it and
// the procedural room generator.
package dungeon

import (
	"github.com/younwookim/coopcrawl/internal/domain/geom"
)

// TileType represents the type of a tile
type TileType uint8

const (
	TileFloor TileType = iota
	TileWall
)

// Style is the visual theme of a room.
type Style string

const (
	StyleForest  Style = "forest"
	StyleSwamp   Style = "swamp"
	StyleRuins   Style = "ruins"
	StyleCitadel Style = "citadel"
)

// CombatStyles are the styles a regular combat room may roll.
var CombatStyles = []Style{StyleForest, StyleSwamp, StyleRuins}

// Palette lists the colours a renderer may use for a style.
type Palette struct {
	Floor   []string
	Wall    []string
	Accents []string
}

var palettes = map[Style]Palette{
	StyleForest: {
		Floor:   []string{"#3f5f3f", "#4a6d49", "#567857"},
		Wall:    []string{"#4f5d43", "#58684d", "#47563f"},
		Accents: []string{"#7fba78", "#93cf87", "#a7c98a"},
	},
	StyleSwamp: {
		Floor:   []string{"#3b5551", "#45645f", "#35504c"},
		Wall:    []string{"#53645a", "#4a5a52", "#3c4943"},
		Accents: []string{"#86caa6", "#66b996", "#9cdab6"},
	},
	StyleRuins: {
		Floor:   []string{"#56534f", "#625f59", "#6c6861"},
		Wall:    []string{"#716a63", "#665f58", "#57514a"},
		Accents: []string{"#b7c2a6", "#c8d1b9", "#9ea98f"},
	},
	StyleCitadel: {
		Floor:   []string{"#4e4554", "#5a5062", "#433c49"},
		Wall:    []string{"#665b72", "#5d5368", "#4e4657"},
		Accents: []string{"#d6a8f2", "#e6bfe9", "#9cc8e6"},
	},
}

// PaletteFor returns the palette of s, falling back to forest.
func PaletteFor(s Style) Palette {
	if p, ok := palettes[s]; ok {
		return p
	}
	return palettes[StyleForest]
}

// Dimensions describes the grid size of every room.
type Dimensions struct {
	TileSize int
	Cols     int
	Rows     int
}

// DefaultDimensions is a 30x20 grid of 32px tiles.
var DefaultDimensions = Dimensions{TileSize: 32, Cols: 30, Rows: 20}

func (d Dimensions) WidthPx() float64  { return float64(d.Cols * d.TileSize) }
func (d Dimensions) HeightPx() float64 { return float64(d.Rows * d.TileSize) }

// Rect is an axis-aligned rectangle. Obstacle rects are in tile units,
// colliders and the portal in pixels.
type Rect struct {
	X, Y, W, H float64
}

// CellRect is an obstacle footprint in tile units.
type CellRect struct {
	X, Y, W, H int
}

// Prop is a visual-only sprite standing on an obstacle.
type Prop struct {
	Sprite   string
	Size     PropSize
	X, Y     float64
	W, H     float64
	DepthY   float64
	Collider Rect
}

// PropSize buckets obstacles by area.
type PropSize uint8

const (
	PropSmall PropSize = iota
	PropMedium
	PropLarge
)

// Decor is a small visual-only ground detail.
type Decor struct {
	Kind string
	X, Y float64
	Size int
}

// Map is a generated room layout.
type Map struct {
	Dimensions
	Tiles        [][]TileType
	Style        Style
	Obstacles    []CellRect
	ObstacleMask [][]bool
	Props        []Prop
	Decor        []Decor
	SpawnPoints  [2]geom.Vec
	Portal       Rect
}

// GetTile returns the tile at the given tile coordinates
func (m *Map) GetTile(tx, ty int) TileType {
	if tx < 0 || tx >= m.Cols || ty < 0 || ty >= m.Rows {
		return TileWall
	}
	return m.Tiles[ty][tx]
}

// IsWall reports whether the tile at tile coordinates blocks movement.
// Everything outside the grid is wall.
func (m *Map) IsWall(tx, ty int) bool {
	return m.GetTile(tx, ty) == TileWall
}

// Center returns the pixel centre of the map.
func (m *Map) Center() geom.Vec {
	return geom.V(m.WidthPx()*0.5, m.HeightPx()*0.5)
}

// TileCenter returns the pixel centre of a tile.
func (m *Map) TileCenter(tx, ty int) geom.Vec {
	ts := float64(m.TileSize)
	return geom.V(float64(tx)*ts+ts/2, float64(ty)*ts+ts/2)
}

// Spawn returns spawn point i, reusing the first when i is out of range.
func (m *Map) Spawn(i int) geom.Vec {
	if i < 0 || i >= len(m.SpawnPoints) {
		return m.SpawnPoints[0]
	}
	return m.SpawnPoints[i]
}

// nearPortal reports whether p lies inside the portal exclusion zone
// widened by padX horizontally and padY below it.
func (m *Map) nearPortal(p geom.Vec, padX, padY float64) bool {
	return p.X > m.Portal.X-padX &&
		p.X < m.Portal.X+m.Portal.W+padX &&
		p.Y < m.Portal.Y+m.Portal.H+padY
}

// InPortal reports whether a circle's bounding box overlaps the portal.
func (m *Map) InPortal(p geom.Vec, radius float64) bool {
	r := m.Portal
	return p.X+radius > r.X &&
		p.X-radius < r.X+r.W &&
		p.Y+radius > r.Y &&
		p.Y-radius < r.Y+r.H
}
