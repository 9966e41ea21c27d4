package world

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/younwookim/coopcrawl/internal/application/state"
	"github.com/younwookim/coopcrawl/internal/domain/entity"
	"github.com/younwookim/coopcrawl/internal/domain/geom"
	"github.com/younwookim/coopcrawl/internal/domain/item"
)

func TestNewGame(t *testing.T) {
	g, _ := newTestGame(1)

	assert.Equal(t, state.StateClassSelect, g.State())
	assert.Equal(t, [2]item.Class{item.ClassSamurai, item.ClassArcher}, g.Selected())
	assert.Nil(t, g.Map())
	assert.Empty(t, g.Players())
}

func TestGame_ClassSelect(t *testing.T) {
	g, in := newTestGame(2)

	in.press("KeyE")
	in.press("KeyO")
	g.Update(1.0 / 60)
	assert.Equal(t, [2]item.Class{item.ClassMage, item.ClassMage}, g.Selected())
	assert.Equal(t, state.StateClassSelect, g.State())

	in.press("Enter")
	g.Update(1.0 / 60)
	require.Equal(t, state.StatePlaying, g.State())
	require.Len(t, g.Players(), 2)
	assert.Equal(t, item.ClassMage, g.Players()[0].Class)
	assert.Equal(t, item.ClassMage, g.Players()[1].Class)
}

func TestGame_SelectClass(t *testing.T) {
	g, _ := newTestGame(3)

	assert.True(t, g.SelectClass(1, item.ClassMage))
	assert.False(t, g.SelectClass(0, item.Class("necromancer")))
	assert.False(t, g.SelectClass(2, item.ClassMage))
	assert.Equal(t, [2]item.Class{item.ClassSamurai, item.ClassMage}, g.Selected())
}

func TestGame_StartNewRun(t *testing.T) {
	g, _ := startedGame(t, 4)

	assert.Equal(t, 1, g.LevelIndex())
	assert.Equal(t, 0, g.DifficultyTier())
	assert.Equal(t, 2, g.PendingLevelIndex())
	assert.Equal(t, "Entered level 1", g.Status())

	rooms := g.Level().Rooms
	require.GreaterOrEqual(t, len(rooms), 3)
	require.LessOrEqual(t, len(rooms), 6)
	for i, r := range rooms {
		assert.Equal(t, i == len(rooms)-1, r.IsBoss, "room %d", i)
	}

	m := g.Map()
	for i, p := range g.Players() {
		assert.Equal(t, []string{"P1", "P2"}[i], p.Tag)
		assert.Equal(t, m.Spawn(i), p.Pos)
		got, ok := g.Player(p.ID())
		require.True(t, ok)
		assert.Same(t, p, got)
	}
	assert.NotEmpty(t, g.Enemies())
	assert.True(t, g.Level().Rooms[0].Spawned)
}

func TestGame_RegistryTracksEnemies(t *testing.T) {
	g, _ := startedGame(t, 5)

	h := g.Enemies()[0]
	e, ok := g.Enemy(h.ID())
	require.True(t, ok)
	assert.Same(t, h.Unit(), e)

	e.HP = 0
	e.Alive = false
	g.Update(1.0 / 60)

	_, ok = g.Enemy(h.ID())
	assert.False(t, ok)
	_, ok = g.Enemy(9999)
	assert.False(t, ok)
}

func TestGame_SpawnProjectileJoinsAfterProjectilePhase(t *testing.T) {
	g, _ := startedGame(t, 6)
	killAll(g)
	g.Update(1.0 / 60)

	p := g.Players()[0]
	pr := entity.NewProjectile(p.Pos, geom.V(0, 0), entity.Projectile{Owner: entity.SidePlayer, TTL: 5})
	g.SpawnProjectile(pr)
	assert.NotZero(t, pr.ID())
	assert.NotContains(t, g.Projectiles(), pr)

	g.Update(1.0 / 60)
	assert.Contains(t, g.Projectiles(), pr)
}

func TestGame_UpdateClampsDt(t *testing.T) {
	g, _ := startedGame(t, 7)
	killAll(g)
	g.Update(0)

	g.Emit(entity.Effect{Kind: entity.FxHit, TTL: 0.05})
	g.Update(5)
	require.Len(t, g.Effects(), 1)
	assert.InDelta(t, 0.05-DefaultMaxFrameDt, g.Effects()[0].TTL, 1e-9)

	g.Update(5)
	assert.Empty(t, g.Effects())
}

func TestGame_RoomClear(t *testing.T) {
	g, _ := startedGame(t, 8)
	for _, p := range g.Players() {
		p.Gold = 0
	}
	killAll(g)
	g.Update(1.0 / 60)

	assert.True(t, g.Room().Cleared)
	assert.True(t, g.Room().LootDropped)
	assert.Equal(t, "Room cleared, head for the portal", g.Status())
	assert.NotEmpty(t, g.Loots())

	for _, p := range g.Players() {
		assert.GreaterOrEqual(t, p.Gold, clearGold)
	}
}

func TestGame_PortalAdvancesRoom(t *testing.T) {
	g, _ := startedGame(t, 9)
	killAll(g)
	g.Update(1.0 / 60)
	require.True(t, g.Room().Cleared)

	x, y := portalCenter(g.Map())
	g.Players()[0].Pos = geom.V(x, y)
	g.Update(1.0 / 60)

	assert.Equal(t, 1, g.RoomIndex())
	assert.Equal(t, g.Map().Spawn(0), g.Players()[0].Pos)
	assert.False(t, g.Room().Cleared)
}

func TestGame_PortalClosedUntilCleared(t *testing.T) {
	g, _ := startedGame(t, 10)
	p := g.Players()[0]
	x, y := portalCenter(g.Map())
	p.Pos = geom.V(x, y)
	p.Invincible = true

	assert.True(t, g.InPortal())
	g.Update(1.0 / 60)
	assert.Equal(t, 0, g.RoomIndex())
}

func TestGame_ProcessEnemyRewards(t *testing.T) {
	g, _ := startedGame(t, 11)
	p1, p2 := g.Players()[0], g.Players()[1]
	p2.Alive = false
	p2.HP = 0

	enemies := g.Enemies()
	first, second := enemies[0].Unit(), enemies[1].Unit()
	for _, e := range []*entity.Enemy{first, second} {
		e.HP = 0
		e.Alive = false
	}
	gold := first.GoldDrop + second.GoldDrop
	xp := first.XPDrop + second.XPDrop

	g.processEnemyRewards()
	assert.True(t, first.Rewarded)
	assert.True(t, second.Rewarded)
	assert.Equal(t, gold, p1.Gold)
	assert.Equal(t, 2, p1.Kills)
	assert.Equal(t, 0, p2.Gold)
	assert.Equal(t, 0, p2.Kills)
	if xp > 0 {
		assert.Contains(t, g.LastRewardText(), "xp +")
	}

	g.processEnemyRewards()
	assert.Equal(t, gold, p1.Gold, "rewards are paid once")
}

func TestGame_BossRewards(t *testing.T) {
	g, _ := startedGame(t, 12)
	boss := enterBossRoom(g)
	require.Equal(t, entity.KindBoss, boss.Kind())

	e := boss.Unit()
	e.HP = 0
	e.Alive = false
	g.processEnemyRewards()

	loots := g.Loots()
	require.GreaterOrEqual(t, len(loots), 2)
	require.LessOrEqual(t, len(loots), 4)
	assert.GreaterOrEqual(t, loots[0].Item.Rarity, item.Epic)
	assert.InDelta(t, e.Pos.X, loots[0].Pos.X, 20)
	assert.InDelta(t, e.Pos.Y, loots[0].Pos.Y, 20)
}

func TestGame_BossBonusDropCount(t *testing.T) {
	seen := map[int]bool{}
	for seed := int64(1); seed <= 60; seed++ {
		g, _ := startedGame(t, seed)
		boss := enterBossRoom(g)
		before := len(g.Loots())

		e := boss.Unit()
		e.HP = 0
		e.Alive = false
		g.processEnemyRewards()

		bonus := len(g.Loots()) - before - 1
		require.GreaterOrEqual(t, bonus, 1, "seed %d", seed)
		require.LessOrEqual(t, bonus, 3, "seed %d", seed)
		seen[bonus] = true
	}
	assert.True(t, seen[3], "three bonus drops never rolled")
}

func TestGame_BossClearAdvancesLevel(t *testing.T) {
	g, _ := startedGame(t, 13)
	enterBossRoom(g)
	killAll(g)
	g.Update(1.0 / 60)
	require.True(t, g.Room().Cleared)

	x, y := portalCenter(g.Map())
	g.Players()[0].Pos = geom.V(x, y)
	g.Update(1.0 / 60)

	assert.Equal(t, 2, g.LevelIndex())
	assert.Equal(t, 3, g.PendingLevelIndex())
	assert.Equal(t, 0, g.RoomIndex())
	assert.False(t, g.Room().IsCamp)
}

func TestGame_AdvanceAfterLevelComplete(t *testing.T) {
	tests := []struct {
		name        string
		level       int
		wantCamp    bool
		wantLevel   int
		wantPending int
	}{
		{"combat after level 1", 1, false, 2, 3},
		{"camp after level 3", 3, true, 3, 4},
		{"combat after level 4", 4, false, 5, 6},
		{"camp after level 6", 6, true, 6, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, _ := startedGame(t, 14)
			g.EnterCombatLevel(tt.level)
			g.AdvanceAfterLevelComplete()

			assert.Equal(t, tt.wantCamp, g.Room().IsCamp)
			assert.Equal(t, tt.wantLevel, g.LevelIndex())
			assert.Equal(t, tt.wantPending, g.PendingLevelIndex())
		})
	}
}

func TestGame_AdvanceRevivesFallenPlayers(t *testing.T) {
	g, _ := startedGame(t, 15)
	p1, p2 := g.Players()[0], g.Players()[1]
	p2.Alive = false
	p2.HP = 0
	p1.Potions = 0
	p2.Potions = 0

	g.AdvanceAfterLevelComplete()

	assert.True(t, p2.Alive)
	assert.Equal(t, float64(int(p2.Stats.MaxHP*0.5)), p2.HP)
	assert.Equal(t, p1.MaxHealsPerRun, p1.Potions)
	assert.Equal(t, p2.MaxHealsPerRun, p2.Potions)
	assert.Contains(t, g.Status(), "P2 revived")
	require.NotEmpty(t, g.Effects())
	assert.Equal(t, entity.FxRevive, g.Effects()[0].Kind)
	assert.Equal(t, g.Map().Spawn(1), p2.Pos)
}

func TestGame_DifficultyTier(t *testing.T) {
	g, _ := startedGame(t, 16)

	for level, tier := range map[int]int{1: 0, 5: 0, 6: 1, 11: 2} {
		g.EnterCombatLevel(level)
		assert.Equal(t, tier, g.DifficultyTier(), "level %d", level)
		assert.Equal(t, tier, g.Level().DifficultyTier)
	}
}

func TestGame_CampPortalEntersPendingLevel(t *testing.T) {
	g, _ := startedGame(t, 17)
	g.EnterCamp(4)
	require.True(t, g.Room().IsCamp)
	require.NotNil(t, g.Room().Merchant)
	assert.Empty(t, g.Enemies())
	assert.Equal(t, "Reached the camp (before level 4)", g.Status())

	x, y := portalCenter(g.Map())
	g.Players()[0].Pos = geom.V(x, y)
	g.Update(1.0 / 60)

	assert.False(t, g.Room().IsCamp)
	assert.Equal(t, 4, g.LevelIndex())
}

func TestGame_GameOverScoreGate(t *testing.T) {
	g, in := startedGame(t, 18)
	g.Players()[0].Kills = 7
	g.Players()[1].Kills = 9
	for _, p := range g.Players() {
		p.HP = 0
		p.Alive = false
	}
	g.Update(1.0 / 60)

	require.Equal(t, state.StateGameOver, g.State())
	require.NotNil(t, g.Score())
	assert.Equal(t, 1, g.Score().Level)
	assert.Equal(t, 9, g.Score().Kills)
	assert.Equal(t, fixedNow, g.Score().Timestamp)
	assert.False(t, g.ScoreSubmitted())

	in.press("Enter")
	g.Update(1.0 / 60)
	assert.Equal(t, state.StateGameOver, g.State(), "confirm is gated on submission")

	failing := &fakeLeaderboard{err: errors.New("disk full")}
	err := g.SubmitScore(context.Background(), failing)
	require.Error(t, err)
	assert.False(t, g.ScoreSubmitted())

	lb := &fakeLeaderboard{}
	require.NoError(t, g.SubmitScore(context.Background(), lb))
	require.NoError(t, g.SubmitScore(context.Background(), lb))
	assert.Len(t, lb.records, 1)
	assert.True(t, g.ScoreSubmitted())

	in.press("Enter")
	g.Update(1.0 / 60)
	assert.Equal(t, state.StateClassSelect, g.State())
	assert.Nil(t, g.Score())
}

func TestGame_SubmitScoreOutsideGameOver(t *testing.T) {
	g, _ := startedGame(t, 19)
	err := g.SubmitScore(context.Background(), &fakeLeaderboard{})
	assert.ErrorIs(t, err, ErrNoScore)
}

func TestGame_MoveEntity(t *testing.T) {
	g, _ := newTestGame(20)
	b := &entity.Body{Pos: geom.V(10, 10), Radius: 4}
	g.MoveEntity(b, 5, 5)
	assert.Equal(t, geom.V(10, 10), b.Pos, "no room, no movement")

	g.StartNewRun()
	p := g.Players()[0]
	want := g.Map().MoveCircle(p.Pos, p.Radius, 0, -10)
	g.MoveEntity(&p.Body, 0, -10)
	assert.Equal(t, want, p.Pos)
}
