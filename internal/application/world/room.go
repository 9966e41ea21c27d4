package world

import (
	"math/rand"

	"github.com/younwookim/coopcrawl/internal/domain/dungeon"
	"github.com/younwookim/coopcrawl/internal/domain/entity"
	"github.com/younwookim/coopcrawl/internal/domain/geom"
)

// Room spawning tuning.
const (
	bossSpawnRadius = 28
	tankScaleMul    = 1.06
	maxEliteSkills  = 10
)

// RoomOptions carries the level context a room is built for.
type RoomOptions struct {
	LevelIndex     int
	DifficultyTier int
	// NextLevelIndex is the level a camp's merchant stocks for. Zero means
	// LevelIndex+1.
	NextLevelIndex int
	Camp           bool
}

// Room is one map of a level. Enemies spawn at most once; a camp starts
// cleared and never spawns.
type Room struct {
	Index          int
	LevelIndex     int
	DifficultyTier int
	NextLevelIndex int
	IsBoss         bool
	IsCamp         bool
	Style          dungeon.Style

	Spawned     bool
	Cleared     bool
	LootDropped bool

	Map      *dungeon.Map
	Merchant *Merchant
}

// NewRoom generates the map of room index. Camps use the forest style and
// place a merchant at the map centre.
func NewRoom(rng *rand.Rand, dims dungeon.Dimensions, index int, boss bool, opts RoomOptions) *Room {
	if opts.LevelIndex <= 0 {
		opts.LevelIndex = 1
	}
	if opts.NextLevelIndex <= 0 {
		opts.NextLevelIndex = opts.LevelIndex + 1
	}
	r := &Room{
		Index:          index,
		LevelIndex:     opts.LevelIndex,
		DifficultyTier: max(0, opts.DifficultyTier),
		NextLevelIndex: opts.NextLevelIndex,
		IsBoss:         boss && !opts.Camp,
		IsCamp:         opts.Camp,
		Cleared:        opts.Camp,
		LootDropped:    opts.Camp,
	}

	var style dungeon.Style
	if r.IsCamp {
		style = dungeon.StyleForest
	}
	r.Map = dungeon.Generate(rng, dims, r.IsBoss, style)
	r.Style = r.Map.Style

	if r.IsCamp {
		r.Merchant = NewMerchant(rng, r.Map.Center(), r.LevelIndex, r.NextLevelIndex)
	}
	return r
}

// SpawnEnemies creates the room's enemies the first time it is called and
// returns nil afterwards.
func (r *Room) SpawnEnemies(rng *rand.Rand, cat *entity.Catalog) []entity.Hostile {
	if r.IsCamp || r.Spawned {
		return nil
	}
	r.Spawned = true
	tier := r.DifficultyTier

	if r.IsBoss {
		pos := r.Map.RandomOpenPosition(rng, bossSpawnRadius)
		return []entity.Hostile{
			entity.NewBoss(rng, cat, pos, entity.BossOptions{
				LevelIndex:  r.LevelIndex,
				Tier:        tier,
				BonusSkills: tier,
			}),
		}
	}

	count := geom.RandInt(rng, 3+tier, 8+tier)
	depthScale := 1 + float64(r.Index)*0.14 + float64(tier)*0.12
	eliteMin, eliteMax := eliteRange(r.Index, tier)

	list := make([]entity.Hostile, 0, count)
	for range count {
		t := rollEnemyType(rng)
		def := cat.Enemies[t]
		scale := depthScale
		if t == entity.EnemyTank {
			scale *= tankScaleMul
		}
		pos := r.Map.RandomOpenPosition(rng, def.Radius*scale+2)
		list = append(list, entity.NewEnemy(rng, def, pos, entity.EnemyOptions{
			Scale:          scale,
			DifficultyTier: tier,
			EliteMin:       eliteMin,
			EliteMax:       eliteMax,
		}))
	}
	return list
}

// eliteRange grows the elite skill window with room depth and tier.
func eliteRange(index, tier int) (lo, hi int) {
	switch {
	case index <= 0:
		lo = 1
	case index == 1:
		lo = 2
	default:
		lo = 2 + index/2
	}
	lo += tier / 2
	hi = min(maxEliteSkills, lo+2+tier/3)
	return lo, hi
}

func rollEnemyType(rng *rand.Rand) entity.EnemyType {
	switch roll := rng.Float64(); {
	case roll < 0.52:
		return entity.EnemyGrunt
	case roll < 0.8:
		return entity.EnemyShooter
	default:
		return entity.EnemyTank
	}
}

// Level is the ordered room sequence of one level. The last room of a
// combat level is its boss room.
type Level struct {
	Index          int
	DifficultyTier int
	IsCamp         bool
	Rooms          []*Room
}

// NewLevel builds a combat level of roomCount rooms, or a single camp room
// when opts.Camp is set.
func NewLevel(rng *rand.Rand, dims dungeon.Dimensions, roomCount int, opts RoomOptions) *Level {
	if opts.LevelIndex <= 0 {
		opts.LevelIndex = 1
	}
	l := &Level{Index: opts.LevelIndex, DifficultyTier: max(0, opts.DifficultyTier), IsCamp: opts.Camp}
	if opts.Camp {
		l.Rooms = []*Room{NewRoom(rng, dims, 0, false, opts)}
		return l
	}

	roomCount = max(1, roomCount)
	l.Rooms = make([]*Room, roomCount)
	for i := range l.Rooms {
		l.Rooms[i] = NewRoom(rng, dims, i, i == roomCount-1, opts)
	}
	return l
}
