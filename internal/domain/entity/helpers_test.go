package entity

import (
	"math/rand"

	"github.com/younwookim/coopcrawl/internal/domain/dungeon"
	"github.com/younwookim/coopcrawl/internal/domain/geom"
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

type fakeWorld struct {
	m           *dungeon.Map
	rng         *rand.Rand
	in          *fakeInput
	cat         *Catalog
	players     []*Player
	enemies     []Hostile
	projectiles []*Projectile
	effects     []Effect
	logs        []string
	nextID      EntityID
}

func newFakeWorld(seed int64) *fakeWorld {
	return &fakeWorld{
		m:      openMap(),
		rng:    rand.New(rand.NewSource(seed)),
		in:     newFakeInput(),
		cat:    testCatalog(),
		nextID: 100,
	}
}

// openMap is a bordered empty room.
func openMap() *dungeon.Map {
	m := &dungeon.Map{Dimensions: dungeon.DefaultDimensions}
	m.Tiles = make([][]dungeon.TileType, m.Rows)
	for y := range m.Tiles {
		m.Tiles[y] = make([]dungeon.TileType, m.Cols)
		for x := range m.Tiles[y] {
			if x == 0 || y == 0 || x == m.Cols-1 || y == m.Rows-1 {
				m.Tiles[y][x] = dungeon.TileWall
			}
		}
	}
	return m
}

func testCatalog() *Catalog {
	skill := SkillDef{Name: "Skill", Cooldown: 6}
	return &Catalog{
		Classes: map[item.Class]ClassDef{
			item.ClassSamurai: {Key: item.ClassSamurai, Name: "Samurai", MaxHP: 130, Speed: 170, Damage: 16, AttackCooldown: 0.42, RollSpeed: 430, RollDuration: 0.22, Defense: 0.08, CritChance: 0.08, CritDamage: 1.6, LifeSteal: 0.02, Skill: skill},
			item.ClassArcher:  {Key: item.ClassArcher, Name: "Archer", MaxHP: 100, Speed: 185, Damage: 12, AttackCooldown: 0.32, RollSpeed: 460, RollDuration: 0.2, ProjectileSpeed: 420, Defense: 0.03, CritChance: 0.12, CritDamage: 1.55, Skill: skill},
			item.ClassMage:    {Key: item.ClassMage, Name: "Mage", MaxHP: 90, Speed: 165, Damage: 14, AttackCooldown: 0.5, RollSpeed: 420, RollDuration: 0.2, ProjectileSpeed: 330, Defense: 0.02, CritChance: 0.07, Skill: skill},
		},
		Enemies: map[EnemyType]EnemyDef{
			EnemyGrunt:   {Type: EnemyGrunt, Name: "Grunt", Radius: 13, MaxHP: 42, Speed: 92, Damage: 9, AttackCooldown: 0.9},
			EnemyShooter: {Type: EnemyShooter, Name: "Shooter", Radius: 12, MaxHP: 32, Speed: 82, Damage: 8, AttackCooldown: 1.5, Ranged: true, ProjectileSpeed: 230},
			EnemyTank:    {Type: EnemyTank, Name: "Tank", Radius: 18, MaxHP: 95, Speed: 62, Damage: 15, AttackCooldown: 1.2},
		},
		Bosses: []BossProfile{
			{Key: "ashen_warden", Name: "Ashen Warden", StyleHint: StyleMelee, Sigil: "#ffb36f"},
			{Key: "moon_huntress", Name: "Moon Huntress", StyleHint: StyleRanged, Sigil: "#a7e7ff"},
		},
	}
}

func (f *fakeWorld) Map() *dungeon.Map  { return f.m }
func (f *fakeWorld) Rand() *rand.Rand   { return f.rng }
func (f *fakeWorld) Input() Input       { return f.in }
func (f *fakeWorld) Catalog() *Catalog  { return f.cat }
func (f *fakeWorld) Players() []*Player { return f.players }
func (f *fakeWorld) Enemies() []Hostile { return f.enemies }

func (f *fakeWorld) Player(id EntityID) (*Player, bool) {
	for _, p := range f.players {
		if p.EntityID == id {
			return p, true
		}
	}
	return nil, false
}

func (f *fakeWorld) Enemy(id EntityID) (*Enemy, bool) {
	for _, h := range f.enemies {
		if h.ID() == id {
			return h.Unit(), true
		}
	}
	return nil, false
}

func (f *fakeWorld) SpawnProjectile(p *Projectile) {
	f.nextID++
	p.EntityID = f.nextID
	f.projectiles = append(f.projectiles, p)
}

func (f *fakeWorld) SpawnEnemy(h Hostile) {
	f.nextID++
	h.Unit().EntityID = f.nextID
	f.enemies = append(f.enemies, h)
}

func (f *fakeWorld) Emit(e Effect)     { f.effects = append(f.effects, e) }
func (f *fakeWorld) SetLog(msg string) { f.logs = append(f.logs, msg) }

func (f *fakeWorld) MoveEntity(b *Body, dx, dy float64) {
	b.Pos = f.m.MoveCircle(b.Pos, b.Radius, dx, dy)
}

func (f *fakeWorld) addPlayer(class item.Class, pos geom.Vec) *Player {
	idx := len(f.players)
	p := NewPlayer(f.rng, EntityID(idx+1), []string{"P1", "P2"}[idx], idx, f.cat.Classes[class], testControls(idx), pos)
	f.players = append(f.players, p)
	return p
}

func (f *fakeWorld) addEnemy(t EnemyType, pos geom.Vec, opts EnemyOptions) *Enemy {
	e := NewEnemy(f.rng, f.cat.Enemies[t], pos, opts)
	f.SpawnEnemy(e)
	return e
}

func testControls(idx int) Controls {
	if idx == 0 {
		return Controls{Up: "KeyW", Down: "KeyS", Left: "KeyA", Right: "KeyD", Attack: "KeyJ", Roll: "KeyK", Skill: "KeyL", Potion: "KeyU", Interact: "KeyE", BagPrev: "KeyQ", BagNext: "KeyR", BagEquip: "KeyF", BagDrop: "KeyX"}
	}
	return Controls{Up: "ArrowUp", Down: "ArrowDown", Left: "ArrowLeft", Right: "ArrowRight", Attack: "Numpad1", Roll: "Numpad2", Skill: "Numpad3", Potion: "Numpad4", Interact: "Numpad0", BagPrev: "Numpad7", BagNext: "Numpad9", BagEquip: "Numpad8", BagDrop: "Numpad5"}
}
