// Package entity holds the simulation's actors: players, enemies, bosses,
// projectiles and loot, plus the narrow World view they act through.
package entity

import (
	"math/rand"

	"github.com/younwookim/coopcrawl/internal/domain/dungeon"
	"github.com/younwookim/coopcrawl/internal/domain/geom"
	"github.com/younwookim/coopcrawl/internal/domain/item"
)

// EntityID is a unique identifier for an entity. Zero is never assigned.
type EntityID uint32

// Kind tags the closed set of entity variants.
type Kind uint8

const (
	KindPlayer Kind = iota
	KindEnemy
	KindBoss
	KindProjectile
	KindLoot
)

func (k Kind) String() string {
	switch k {
	case KindPlayer:
		return "player"
	case KindEnemy:
		return "enemy"
	case KindBoss:
		return "boss"
	case KindProjectile:
		return "projectile"
	case KindLoot:
		return "loot"
	default:
		return "unknown"
	}
}

// Actor is the capability every updatable entity exposes to the orchestrator.
type Actor interface {
	ID() EntityID
	Kind() Kind
	Position() geom.Vec
	IsAlive() bool
	Update(dt float64, w World)
}

// Hostile is an enemy-side actor. Bosses answer Unit with their embedded
// enemy record so damage and rewards treat both the same way.
type Hostile interface {
	Actor
	Unit() *Enemy
}

// Input is the collaborator the players read their controls from.
type Input interface {
	IsDown(key string) bool
	// Consume reports a press at most once until the key is released.
	Consume(key string) bool
}

// World is the narrow view of the running game handed to entity updates.
type World interface {
	Map() *dungeon.Map
	Rand() *rand.Rand
	Input() Input
	Catalog() *Catalog
	Players() []*Player
	Enemies() []Hostile

	// Player and Enemy resolve weak references; ok is false once the entity
	// has left the game.
	Player(id EntityID) (*Player, bool)
	Enemy(id EntityID) (*Enemy, bool)

	// SpawnProjectile and SpawnEnemy assign the entity an ID. Projectiles
	// join the live list after the current projectile phase.
	SpawnProjectile(p *Projectile)
	SpawnEnemy(h Hostile)
	Emit(e Effect)
	SetLog(msg string)
	MoveEntity(b *Body, dx, dy float64)
}

// EffectKind names a visual effect for renderers.
type EffectKind string

const (
	FxHit            EffectKind = "hit"
	FxCrit           EffectKind = "crit"
	FxCircle         EffectKind = "circle"
	FxChainLightning EffectKind = "chain_lightning"
	FxNovaRing       EffectKind = "nova_ring"
	FxBloodAura      EffectKind = "blood_aura"
	FxFrostGuard     EffectKind = "frost_guard"
	FxMeteorBlast    EffectKind = "meteor_blast"
	FxSwordArc       EffectKind = "sword_arc"
	FxTrailSlash     EffectKind = "trail_slash"
	FxArcBurst       EffectKind = "arc_burst"
	FxArcaneBurst    EffectKind = "arcane_burst"
	FxArrowFan       EffectKind = "arrow_fan"
	FxSamuraiSkill   EffectKind = "samurai_skill"
	FxSamuraiBloom   EffectKind = "samurai_bloom"
	FxMageSkill      EffectKind = "mage_skill"
	FxRevive         EffectKind = "revive"
	FxEnemyStorm     EffectKind = "enemy_storm"
	FxEnemyBlink     EffectKind = "enemy_blink"
	FxEnemyCharge    EffectKind = "enemy_charge"
	FxEnemySummon    EffectKind = "enemy_summon"
	FxEnemyDrain     EffectKind = "enemy_drain"
	FxBossMeleeCast  EffectKind = "boss_melee_cast"
	FxBossRangedCast EffectKind = "boss_ranged_cast"
	FxBossDash       EffectKind = "boss_dash"
	FxBossRift       EffectKind = "boss_rift"
	FxShockwave      EffectKind = "shockwave"
	FxPlasmaBurst    EffectKind = "plasma_burst"
	FxSummonSigil    EffectKind = "summon_sigil"
)

// Effect is a fire-and-forget visual record. The simulation only ages and
// drops them; renderers read them.
type Effect struct {
	Kind   EffectKind
	Pos    geom.Vec
	Radius float64
	TTL    float64
	Color  string
	Dir    geom.Vec
}

// Catalog is the static tuning data entities are built from.
type Catalog struct {
	Classes map[item.Class]ClassDef
	Enemies map[EnemyType]EnemyDef
	Bosses  []BossProfile
}

// ClassDef holds a playable class's base stats and skill.
type ClassDef struct {
	Key             item.Class
	Name            string
	Color           string
	MaxHP           float64
	Speed           float64
	Damage          float64
	AttackCooldown  float64
	RollSpeed       float64
	RollDuration    float64
	ProjectileSpeed float64
	Defense         float64
	CritChance      float64
	CritDamage      float64
	LifeSteal       float64
	Skill           SkillDef
}

// SkillDef names a class skill and its base cooldown.
type SkillDef struct {
	Name        string
	Description string
	Cooldown    float64
}

// EnemyType is a regular enemy archetype key.
type EnemyType string

const (
	EnemyGrunt   EnemyType = "grunt"
	EnemyShooter EnemyType = "shooter"
	EnemyTank    EnemyType = "tank"
)

// EnemyDef holds an enemy archetype's base stats.
type EnemyDef struct {
	Type            EnemyType
	Name            string
	Color           string
	Radius          float64
	MaxHP           float64
	Speed           float64
	Damage          float64
	AttackCooldown  float64
	Ranged          bool
	ProjectileSpeed float64
}

// BossStyle selects a boss's skill library and movement.
type BossStyle string

const (
	StyleMelee  BossStyle = "melee"
	StyleRanged BossStyle = "ranged"
)

// BossProfile is the cosmetic identity of a boss.
type BossProfile struct {
	Key       string
	Name      string
	StyleHint BossStyle
	Crest     int
	Core      string
	Ring      string
	Glow      string
	Sigil     string
}

// Pose is the animation state renderers read.
type Pose struct {
	Moving         bool
	Facing         float64
	AttackTimer    float64
	AttackDuration float64
	HurtTimer      float64
	HurtDuration   float64
}

func (p *Pose) tick(dt float64) {
	p.AttackTimer = max(0, p.AttackTimer-dt)
	p.HurtTimer = max(0, p.HurtTimer-dt)
	p.Moving = false
}

func (p *Pose) startAttack(d float64) {
	p.AttackDuration = d
	p.AttackTimer = d
}

func (p *Pose) hurt() { p.HurtTimer = p.HurtDuration }

func facingOf(dx float64) float64 {
	if dx >= 0 {
		return 1
	}
	return -1
}
