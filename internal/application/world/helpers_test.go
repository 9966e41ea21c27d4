package world

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/younwookim/coopcrawl/internal/application/state"
	"github.com/younwookim/coopcrawl/internal/domain/dungeon"
	"github.com/younwookim/coopcrawl/internal/domain/entity"
	"github.com/younwookim/coopcrawl/internal/domain/item"
)

type fakeInput struct {
	down    map[string]bool
	pressed map[string]bool
}

func newFakeInput() *fakeInput {
	return &fakeInput{down: map[string]bool{}, pressed: map[string]bool{}}
}

func (f *fakeInput) IsDown(key string) bool { return f.down[key] }

func (f *fakeInput) Consume(key string) bool {
	if !f.pressed[key] {
		return false
	}
	delete(f.pressed, key)
	return true
}

func (f *fakeInput) press(key string) {
	f.down[key] = true
	f.pressed[key] = true
}

func (f *fakeInput) releaseAll() {
	clear(f.down)
	clear(f.pressed)
}

type fakeLeaderboard struct {
	records []ScoreRecord
	err     error
}

func (f *fakeLeaderboard) Submit(_ context.Context, rec ScoreRecord) error {
	if f.err != nil {
		return f.err
	}
	f.records = append(f.records, rec)
	return nil
}

func testCatalog() *entity.Catalog {
	skill := entity.SkillDef{Name: "Skill", Cooldown: 6}
	return &entity.Catalog{
		Classes: map[item.Class]entity.ClassDef{
			item.ClassSamurai: {Key: item.ClassSamurai, Name: "Samurai", MaxHP: 130, Speed: 170, Damage: 16, AttackCooldown: 0.42, RollSpeed: 430, RollDuration: 0.22, Defense: 0.08, CritChance: 0.08, CritDamage: 1.6, LifeSteal: 0.02, Skill: skill},
			item.ClassArcher:  {Key: item.ClassArcher, Name: "Archer", MaxHP: 100, Speed: 185, Damage: 12, AttackCooldown: 0.32, RollSpeed: 460, RollDuration: 0.2, ProjectileSpeed: 420, Defense: 0.03, CritChance: 0.12, CritDamage: 1.55, Skill: skill},
			item.ClassMage:    {Key: item.ClassMage, Name: "Mage", MaxHP: 90, Speed: 165, Damage: 14, AttackCooldown: 0.5, RollSpeed: 420, RollDuration: 0.2, ProjectileSpeed: 330, Defense: 0.02, CritChance: 0.07, Skill: skill},
		},
		Enemies: map[entity.EnemyType]entity.EnemyDef{
			entity.EnemyGrunt:   {Type: entity.EnemyGrunt, Name: "Grunt", Radius: 13, MaxHP: 42, Speed: 92, Damage: 9, AttackCooldown: 0.9},
			entity.EnemyShooter: {Type: entity.EnemyShooter, Name: "Shooter", Radius: 12, MaxHP: 32, Speed: 82, Damage: 8, AttackCooldown: 1.5, Ranged: true, ProjectileSpeed: 230},
			entity.EnemyTank:    {Type: entity.EnemyTank, Name: "Tank", Radius: 18, MaxHP: 95, Speed: 62, Damage: 15, AttackCooldown: 1.2},
		},
		Bosses: []entity.BossProfile{
			{Key: "ashen_warden", Name: "Ashen Warden", StyleHint: entity.StyleMelee},
			{Key: "moon_huntress", Name: "Moon Huntress", StyleHint: entity.StyleRanged},
		},
	}
}

func testControls(idx int) entity.Controls {
	if idx == 0 {
		return entity.Controls{
			Up: "KeyW", Left: "KeyA", Down: "KeyS", Right: "KeyD",
			Attack: "KeyF", Roll: "KeyG", Skill: "KeyR", Potion: "KeyT",
			Interact: "KeyE", BagPrev: "KeyC", BagNext: "KeyV", BagEquip: "KeyB", BagDrop: "KeyX",
		}
	}
	return entity.Controls{
		Up: "KeyI", Left: "KeyJ", Down: "KeyK", Right: "KeyL",
		Attack: "KeyH", Roll: "KeyY", Skill: "KeyP", Potion: "BracketLeft",
		Interact: "KeyO", BagPrev: "KeyN", BagNext: "KeyM", BagEquip: "Comma", BagDrop: "Period",
	}
}

func testConfig() Config {
	return Config{
		Dimensions: dungeon.DefaultDimensions,
		Controls:   [2]entity.Controls{testControls(0), testControls(1)},
		ClassPicks: [2]map[string]item.Class{
			{"KeyQ": item.ClassSamurai, "KeyW": item.ClassArcher, "KeyE": item.ClassMage},
			{"KeyU": item.ClassSamurai, "KeyI": item.ClassArcher, "KeyO": item.ClassMage},
		},
	}
}

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestGame(seed int64) (*Game, *fakeInput) {
	in := newFakeInput()
	g := NewGame(testConfig(), testCatalog(), in, rand.New(rand.NewSource(seed)), nil)
	g.now = func() time.Time { return fixedNow }
	return g, in
}

// startedGame returns a game already in its first combat room.
func startedGame(t *testing.T, seed int64) (*Game, *fakeInput) {
	t.Helper()
	g, in := newTestGame(seed)
	g.StartNewRun()
	require.Equal(t, state.StatePlaying, g.State())
	return g, in
}

func killAll(g *Game) {
	for _, h := range g.Enemies() {
		e := h.Unit()
		e.HP = 0
		e.Alive = false
	}
}

// enterBossRoom skips to the boss room of the current level.
func enterBossRoom(g *Game) entity.Hostile {
	g.EnterRoom(len(g.Level().Rooms) - 1)
	return g.Enemies()[0]
}

func portalCenter(m *dungeon.Map) (x, y float64) {
	return m.Portal.X + m.Portal.W/2, m.Portal.Y + m.Portal.H/2
}
