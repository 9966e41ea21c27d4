package dungeon

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/younwookim/coopcrawl/internal/domain/geom"
)

func openMap() *Map {
	m := &Map{Dimensions: DefaultDimensions}
	m.Tiles = make([][]TileType, m.Rows)
	for y := range m.Tiles {
		m.Tiles[y] = make([]TileType, m.Cols)
	}
	m.fillBorders()
	return m
}

func TestMap_GetTile_OutOfBoundsIsWall(t *testing.T) {
	m := openMap()
	assert.Equal(t, TileWall, m.GetTile(-1, 5))
	assert.Equal(t, TileWall, m.GetTile(5, m.Rows))
	assert.Equal(t, TileWall, m.GetTile(0, 0))
	assert.Equal(t, TileFloor, m.GetTile(5, 5))
}

func TestCircleRectOverlap(t *testing.T) {
	rect := Rect{X: 0, Y: 0, W: 10, H: 10}
	assert.True(t, CircleRectOverlap(geom.V(5, 5), 1, rect))
	assert.True(t, CircleRectOverlap(geom.V(12, 5), 3, rect))
	assert.False(t, CircleRectOverlap(geom.V(13, 5), 3, rect), "touching is not overlapping")
	assert.False(t, CircleRectOverlap(geom.V(20, 20), 3, rect))
}

func TestMap_CircleCollides(t *testing.T) {
	m := openMap()
	ts := float64(m.TileSize)

	assert.False(t, m.CircleCollides(geom.V(5*ts, 5*ts), 10))
	assert.True(t, m.CircleCollides(geom.V(ts+5, 5*ts), 10), "overlaps the left border")
	assert.True(t, m.CircleCollides(geom.V(-5, 5*ts), 2), "outside the map")
	assert.True(t, m.CircleCollides(geom.V(math.NaN(), 5*ts), 2))

	m.Tiles[5][8] = TileWall
	assert.True(t, m.CircleCollides(geom.V(8*ts-4, 5*ts+16), 6))
}

func TestMap_MoveCircle_SlidesAlongWall(t *testing.T) {
	m := openMap()
	ts := float64(m.TileSize)
	for y := 0; y < m.Rows; y++ {
		m.Tiles[y][10] = TileWall
	}

	start := geom.V(10*ts-15, 5*ts)
	got := m.MoveCircle(start, 14, 10, 7)

	assert.Equal(t, start.X, got.X, "x is blocked by the wall column")
	assert.Equal(t, start.Y+7, got.Y, "y still moves")
}

func TestGenerate_Layout(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	m := Generate(rng, DefaultDimensions, false, "")

	require.Len(t, m.Tiles, m.Rows)
	assert.Contains(t, CombatStyles, m.Style)
	assert.GreaterOrEqual(t, len(m.Obstacles), 0)
	assert.LessOrEqual(t, len(m.Obstacles), 10)

	mid := m.Cols/2 - 2
	for y := 0; y < m.Rows; y++ {
		for x := mid; x < mid+pathWidth; x++ {
			if y == m.Rows-1 {
				continue
			}
			assert.Equal(t, TileFloor, m.Tiles[y][x], "corridor cell %d,%d", x, y)
		}
	}
	for y := 0; y < m.Rows; y++ {
		assert.Equal(t, TileWall, m.Tiles[y][0])
		assert.Equal(t, TileWall, m.Tiles[y][m.Cols-1])
	}

	for _, r := range m.Obstacles {
		assert.Less(t, r.Y+r.H, m.Rows-4, "obstacle stays out of the spawn band")
		for y := r.Y; y < r.Y+r.H; y++ {
			for x := r.X; x < r.X+r.W; x++ {
				assert.True(t, m.ObstacleMask[y][x])
			}
		}
	}
	assert.Len(t, m.Props, len(m.Obstacles))

	for _, sp := range m.SpawnPoints {
		assert.False(t, m.CircleCollides(sp, 14), "spawn point %v is open", sp)
	}
}

func TestGenerate_Bossroom(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	m := Generate(rng, DefaultDimensions, true, StyleForest)

	assert.Equal(t, StyleCitadel, m.Style)
	require.Len(t, m.Obstacles, 5)
	cx, cy := m.Cols/2, m.Rows/2
	assert.Equal(t, CellRect{X: cx - 6, Y: cy - 4, W: 2, H: 2}, m.Obstacles[0])
	assert.Equal(t, CellRect{X: cx - 1, Y: cy - 1, W: 2, H: 2}, m.Obstacles[4])
	assert.Equal(t, TileFloor, m.Tiles[cy][cx], "corridor is re-carved through the centre pillar")
	assert.Equal(t, TileWall, m.Tiles[cy-4][cx-6])
}

func TestGenerate_DecorAvoidsPortal(t *testing.T) {
	for seed := int64(0); seed < 20; seed++ {
		m := Generate(rand.New(rand.NewSource(seed)), DefaultDimensions, false, StyleSwamp)
		for _, d := range m.Decor {
			assert.False(t, m.nearPortal(geom.V(d.X, d.Y), 60, 80))
			assert.False(t, m.IsWall(int(d.X)/m.TileSize, int(d.Y)/m.TileSize))
		}
	}
}

func TestMap_RandomOpenPosition(t *testing.T) {
	for seed := int64(0); seed < 50; seed++ {
		rng := rand.New(rand.NewSource(seed))
		m := Generate(rng, DefaultDimensions, seed%5 == 0, "")
		p := m.RandomOpenPosition(rng, 18)
		if p == m.Center() {
			continue
		}
		assert.False(t, m.CircleCollides(p, 18))
		assert.False(t, m.nearPortal(p, 80, 90))
	}
}

func TestMap_RandomOpenPosition_FallsBackToCenter(t *testing.T) {
	m := openMap()
	for y := range m.Tiles {
		for x := range m.Tiles[y] {
			m.Tiles[y][x] = TileWall
		}
	}
	p := m.RandomOpenPosition(rand.New(rand.NewSource(1)), 10)
	assert.Equal(t, m.Center(), p)
}

func TestMap_InPortal(t *testing.T) {
	m := Generate(rand.New(rand.NewSource(1)), DefaultDimensions, false, "")
	inside := geom.V(m.Portal.X+m.Portal.W/2, m.Portal.Y+m.Portal.H/2)
	assert.True(t, m.InPortal(inside, 14))
	assert.False(t, m.InPortal(m.SpawnPoints[0], 14))
}
