package dungeon

import (
	"math"
	"math/rand"

	"github.com/younwookim/coopcrawl/internal/domain/geom"
)

const (
	pathWidth      = 5
	portalCols     = 4
	openPosTries   = 120
	obstacleTryMul = 15
)

var propSprites = map[Style][3][]string{
	StyleForest: {
		{"white_red_mushroom1", "chanterelles1", "beige_green_mushroom1"},
		{"curved_tree1", "swirling_tree1", "willow1"},
		{"mega_tree1", "mega_tree2", "living_gazebo1"},
	},
	StyleSwamp: {
		{"blue_green_balls_tree3", "chanterelles2", "beige_green_mushroom2"},
		{"luminous_tree2", "willow2", "blue_green_balls_tree1"},
		{"ent_man", "luminous_tree1", "tree_idol_deer"},
	},
	StyleRuins: {
		{"tree_idol_human", "tree_idol_wolf", "tree_idol_deer"},
		{"white_tree1", "white_tree2", "tree_idol_human"},
		{"tree_idol_dragon", "tree_idol_wolf", "tree_idol_human"},
	},
	StyleCitadel: {
		{"blue_green_balls_tree2", "white_red_mushroom3", "beige_green_mushroom2"},
		{"white_tree2", "luminous_tree3", "swirling_tree3"},
		{"tree_idol_dragon", "ent_woman", "luminous_tree4"},
	},
}

var decorKinds = map[Style][]string{
	StyleForest:  {"bush", "grass", "stone", "flower"},
	StyleSwamp:   {"reed", "puddle", "stone", "moss"},
	StyleRuins:   {"rock", "pillar", "grass", "crack"},
	StyleCitadel: {"rune", "crystal", "stone", "crack"},
}

// Generate builds a room map. Boss rooms always use the citadel style and a
// fixed arena layout; other rooms scatter random obstacles. An empty style
// rolls one of CombatStyles.
//
// Generation always terminates: obstacle placement is retry-capped and a
// failed placement simply leaves fewer obstacles.
func Generate(rng *rand.Rand, dims Dimensions, boss bool, style Style) *Map {
	if dims.TileSize <= 0 || dims.Cols <= 0 || dims.Rows <= 0 {
		dims = DefaultDimensions
	}
	switch {
	case boss:
		style = StyleCitadel
	case style == "":
		style = CombatStyles[geom.RandInt(rng, 0, len(CombatStyles))]
	}

	m := &Map{Dimensions: dims, Style: style}
	m.Tiles = make([][]TileType, dims.Rows)
	for y := range m.Tiles {
		m.Tiles[y] = make([]TileType, dims.Cols)
	}

	m.carveMainPath()
	m.fillBorders()
	m.carvePortalGate()
	if boss {
		m.placeBossObstacles()
	} else {
		m.placeRandomObstacles(rng)
	}
	m.carveMainPath()

	ts := float64(dims.TileSize)
	portalW := portalCols * ts
	m.Portal = Rect{X: (m.WidthPx() - portalW) / 2, Y: 4, W: portalW, H: ts + 8}
	m.SpawnPoints = [2]geom.Vec{
		geom.V(m.WidthPx()*0.44, m.HeightPx()-60),
		geom.V(m.WidthPx()*0.56, m.HeightPx()-60),
	}

	m.ObstacleMask = m.buildObstacleMask()
	m.Props = m.buildProps(rng)
	m.Decor = m.buildDecor(rng)
	return m
}

// carveMainPath opens the vertical corridor joining the spawn band to the
// portal gate.
func (m *Map) carveMainPath() {
	start := m.Cols/2 - 2
	for y := 0; y < m.Rows; y++ {
		for x := start; x < start+pathWidth && x < m.Cols; x++ {
			if x >= 0 {
				m.Tiles[y][x] = TileFloor
			}
		}
	}
}

func (m *Map) fillBorders() {
	for x := 0; x < m.Cols; x++ {
		m.Tiles[0][x] = TileWall
		m.Tiles[m.Rows-1][x] = TileWall
	}
	for y := 0; y < m.Rows; y++ {
		m.Tiles[y][0] = TileWall
		m.Tiles[y][m.Cols-1] = TileWall
	}
}

func (m *Map) carvePortalGate() {
	start := int(math.Floor(float64(m.Cols)/2 - portalCols/2))
	for x := start; x < start+portalCols; x++ {
		if x < 0 || x >= m.Cols {
			continue
		}
		m.Tiles[0][x] = TileFloor
		if m.Rows > 1 {
			m.Tiles[1][x] = TileFloor
		}
	}
}

// placeRect walls the interior cells of r and records it as an obstacle.
func (m *Map) placeRect(r CellRect) {
	for y := r.Y; y < r.Y+r.H; y++ {
		for x := r.X; x < r.X+r.W; x++ {
			if y > 0 && y < m.Rows-1 && x > 0 && x < m.Cols-1 {
				m.Tiles[y][x] = TileWall
			}
		}
	}
	m.Obstacles = append(m.Obstacles, r)
}

func (m *Map) placeBossObstacles() {
	cx, cy := m.Cols/2, m.Rows/2
	for _, off := range [][2]int{{-6, -4}, {4, -4}, {-6, 2}, {4, 2}, {-1, -1}} {
		m.placeRect(CellRect{X: cx + off[0], Y: cy + off[1], W: 2, H: 2})
	}
}

func (m *Map) placeRandomObstacles(rng *rand.Rand) {
	count := geom.RandInt(rng, 5, 11)
	placed := 0
	for tries := 0; placed < count && tries < count*obstacleTryMul; tries++ {
		w := geom.RandInt(rng, 2, 5)
		h := geom.RandInt(rng, 2, 4)
		r := CellRect{
			X: geom.RandInt(rng, 2, m.Cols-w-2),
			Y: geom.RandInt(rng, 2, m.Rows-h-2),
			W: w,
			H: h,
		}
		if !m.canPlace(r) {
			continue
		}
		m.placeRect(r)
		placed++
	}
}

// canPlace rejects obstacles touching the spawn band, the corridor band or
// another wall, with a one-cell margin.
func (m *Map) canPlace(r CellRect) bool {
	spawnBandTop := m.Rows - 4
	pathStart := m.Cols/2 - 3
	pathEnd := pathStart + 6

	if r.Y+r.H >= spawnBandTop {
		return false
	}
	for y := r.Y - 1; y <= r.Y+r.H; y++ {
		for x := r.X - 1; x <= r.X+r.W; x++ {
			if y < 1 || y >= m.Rows-1 || x < 1 || x >= m.Cols-1 {
				return false
			}
			if x >= pathStart && x <= pathEnd {
				return false
			}
			if m.Tiles[y][x] == TileWall {
				return false
			}
		}
	}
	return true
}

func (m *Map) buildObstacleMask() [][]bool {
	mask := make([][]bool, m.Rows)
	for y := range mask {
		mask[y] = make([]bool, m.Cols)
	}
	for _, r := range m.Obstacles {
		for y := r.Y; y < r.Y+r.H; y++ {
			for x := r.X; x < r.X+r.W; x++ {
				if y < 0 || y >= m.Rows || x < 0 || x >= m.Cols {
					continue
				}
				mask[y][x] = true
			}
		}
	}
	return mask
}

func (m *Map) buildProps(rng *rand.Rand) []Prop {
	pools, ok := propSprites[m.Style]
	if !ok {
		pools = propSprites[StyleForest]
	}
	ts := float64(m.TileSize)

	props := make([]Prop, 0, len(m.Obstacles))
	for _, r := range m.Obstacles {
		area := r.W * r.H
		size, scale, minSide := PropSmall, 1.55, 110.0
		switch {
		case area >= 8:
			size, scale, minSide = PropLarge, 2.1, 170
		case area >= 4:
			size, scale = PropMedium, 1.85
		}
		pool := pools[size]

		collider := Rect{X: float64(r.X) * ts, Y: float64(r.Y) * ts, W: float64(r.W) * ts, H: float64(r.H) * ts}
		w := math.Max(collider.W*scale, minSide)
		h := math.Max(collider.H*scale, minSide)

		props = append(props, Prop{
			Sprite:   pool[geom.RandInt(rng, 0, len(pool))],
			Size:     size,
			X:        collider.X + collider.W*0.5 - w*0.5 + float64(geom.RandInt(rng, -6, 7)),
			Y:        collider.Y + collider.H - h + float64(geom.RandInt(rng, -5, 6)),
			W:        w,
			H:        h,
			DepthY:   collider.Y + collider.H,
			Collider: collider,
		})
	}
	return props
}

func (m *Map) buildDecor(rng *rand.Rand) []Decor {
	count := geom.RandInt(rng, 18, 30)
	if m.Style == StyleCitadel {
		count = geom.RandInt(rng, 12, 18)
	}
	kinds, ok := decorKinds[m.Style]
	if !ok {
		kinds = decorKinds[StyleCitadel]
	}

	decor := make([]Decor, 0, count)
	for i := 0; i < count; i++ {
		tx := geom.RandInt(rng, 1, m.Cols-1)
		ty := geom.RandInt(rng, 1, m.Rows-1)
		if m.IsWall(tx, ty) {
			continue
		}
		p := m.TileCenter(tx, ty)
		if m.nearPortal(p, 60, 80) {
			continue
		}
		decor = append(decor, Decor{
			Kind: kinds[geom.RandInt(rng, 0, len(kinds))],
			X:    p.X,
			Y:    p.Y,
			Size: geom.RandInt(rng, 5, 14),
		})
	}
	return decor
}

// RandomOpenPosition samples floor tile centres away from the portal where
// a circle of radius fits. After the retry cap it returns the map centre,
// which callers must accept even if it is blocked.
func (m *Map) RandomOpenPosition(rng *rand.Rand, radius float64) geom.Vec {
	for i := 0; i < openPosTries; i++ {
		tx := geom.RandInt(rng, 2, m.Cols-2)
		ty := geom.RandInt(rng, 2, m.Rows-5)
		if m.IsWall(tx, ty) {
			continue
		}
		p := m.TileCenter(tx, ty)
		if m.nearPortal(p, 80, 90) {
			continue
		}
		if m.CircleCollides(p, radius) {
			continue
		}
		return p
	}
	return m.Center()
}
