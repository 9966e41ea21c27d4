package world

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/younwookim/coopcrawl/internal/domain/dungeon"
	"github.com/younwookim/coopcrawl/internal/domain/entity"
)

func TestNewRoom(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	combat := NewRoom(rng, dungeon.DefaultDimensions, 0, false, RoomOptions{LevelIndex: 2})
	assert.Contains(t, dungeon.CombatStyles, combat.Style)
	assert.False(t, combat.Cleared)
	assert.Nil(t, combat.Merchant)
	assert.Equal(t, 3, combat.NextLevelIndex)

	boss := NewRoom(rng, dungeon.DefaultDimensions, 3, true, RoomOptions{LevelIndex: 2})
	assert.True(t, boss.IsBoss)
	assert.Equal(t, dungeon.StyleCitadel, boss.Style)

	camp := NewRoom(rng, dungeon.DefaultDimensions, 0, true, RoomOptions{LevelIndex: 3, NextLevelIndex: 4, Camp: true})
	assert.False(t, camp.IsBoss)
	assert.True(t, camp.Cleared)
	assert.True(t, camp.LootDropped)
	assert.Equal(t, dungeon.StyleForest, camp.Style)
	require.NotNil(t, camp.Merchant)
	assert.Equal(t, camp.Map.Center(), camp.Merchant.Pos)
}

func TestRoom_SpawnEnemies(t *testing.T) {
	cat := testCatalog()
	for _, tier := range []int{0, 1, 3} {
		rng := rand.New(rand.NewSource(int64(tier + 10)))
		r := NewRoom(rng, dungeon.DefaultDimensions, 2, false, RoomOptions{LevelIndex: 1, DifficultyTier: tier})

		list := r.SpawnEnemies(rng, cat)
		assert.GreaterOrEqual(t, len(list), 3+tier)
		assert.Less(t, len(list), 8+tier)
		lo, hi := eliteRange(2, tier)
		for _, h := range list {
			e := h.Unit()
			assert.Equal(t, entity.KindEnemy, h.Kind())
			assert.Equal(t, tier, e.DifficultyTier)
			assert.GreaterOrEqual(t, len(e.EliteSkills), lo)
			assert.LessOrEqual(t, len(e.EliteSkills), hi)
		}

		assert.True(t, r.Spawned)
		assert.Nil(t, r.SpawnEnemies(rng, cat), "spawns once")
	}
}

func TestRoom_SpawnEnemies_Boss(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	r := NewRoom(rng, dungeon.DefaultDimensions, 4, true, RoomOptions{LevelIndex: 5, DifficultyTier: 1})

	list := r.SpawnEnemies(rng, testCatalog())
	require.Len(t, list, 1)
	b, ok := list[0].(*entity.Boss)
	require.True(t, ok)
	assert.Equal(t, 5, b.LevelIndex)
	assert.Equal(t, 1, b.Tier)
}

func TestRoom_SpawnEnemies_Camp(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	r := NewRoom(rng, dungeon.DefaultDimensions, 0, false, RoomOptions{Camp: true})
	assert.Nil(t, r.SpawnEnemies(rng, testCatalog()))
	assert.False(t, r.Spawned)
}

func TestEliteRange(t *testing.T) {
	tests := []struct {
		index, tier int
		lo, hi      int
	}{
		{0, 0, 1, 3},
		{1, 0, 2, 4},
		{2, 0, 3, 5},
		{5, 0, 4, 6},
		{0, 2, 2, 4},
		{4, 3, 5, 8},
		{12, 9, 12, 10},
	}
	for _, tt := range tests {
		lo, hi := eliteRange(tt.index, tt.tier)
		assert.Equal(t, tt.lo, lo, "index %d tier %d", tt.index, tt.tier)
		assert.Equal(t, tt.hi, hi, "index %d tier %d", tt.index, tt.tier)
	}
}

func TestNewLevel(t *testing.T) {
	rng := rand.New(rand.NewSource(4))

	l := NewLevel(rng, dungeon.DefaultDimensions, 4, RoomOptions{LevelIndex: 2, DifficultyTier: 0})
	require.Len(t, l.Rooms, 4)
	for i, r := range l.Rooms {
		assert.Equal(t, i, r.Index)
		assert.Equal(t, i == 3, r.IsBoss)
		assert.Equal(t, 2, r.LevelIndex)
	}

	camp := NewLevel(rng, dungeon.DefaultDimensions, 5, RoomOptions{LevelIndex: 3, NextLevelIndex: 4, Camp: true})
	require.Len(t, camp.Rooms, 1)
	assert.True(t, camp.IsCamp)
	assert.True(t, camp.Rooms[0].IsCamp)
}
