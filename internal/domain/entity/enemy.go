package entity

import (
	"math"
	"math/rand"

	"github.com/zyedidia/generic/mapset"

	"github.com/younwookim/coopcrawl/internal/domain/geom"
)

// EliteSkill is a permanent modifier rolled onto an enemy at spawn.
type EliteSkill uint8

const (
	EliteBerserk EliteSkill = iota
	EliteBulwark
	EliteVampiric
	EliteSplitter
	EliteStorm
	EliteBlink
	EliteCharge
	EliteSummoner
	EliteFrost
	EliteArcane
	EliteThorns
	EliteExecutioner
	ElitePhoenix
	EliteColossus
	EliteDrain
	eliteSkillCount
)

// EliteDef is the roll table entry of an elite skill.
type EliteDef struct {
	Skill      EliteSkill
	Name       string
	Weight     float64
	RangedOnly bool
	MeleeOnly  bool
}

var eliteDefs = [eliteSkillCount]EliteDef{
	{EliteBerserk, "Berserk", 12, false, false},
	{EliteBulwark, "Bulwark", 10, false, false},
	{EliteVampiric, "Vampiric", 10, false, false},
	{EliteSplitter, "Splitter", 9, true, false},
	{EliteStorm, "Storm", 8, false, false},
	{EliteBlink, "Blink", 8, false, false},
	{EliteCharge, "Charge", 8, false, true},
	{EliteSummoner, "Summoner", 7, false, false},
	{EliteFrost, "Frost", 8, false, false},
	{EliteArcane, "Arcane", 8, false, false},
	{EliteThorns, "Thorns", 9, false, false},
	{EliteExecutioner, "Executioner", 8, false, false},
	{ElitePhoenix, "Phoenix", 6, false, false},
	{EliteColossus, "Colossus", 8, false, false},
	{EliteDrain, "Drain", 7, false, false},
}

func (s EliteSkill) Def() EliteDef { return eliteDefs[s] }

func (s EliteSkill) String() string { return eliteDefs[s].Name }

// pickEliteSkill rolls one unused skill the enemy is allowed to carry.
func pickEliteSkill(rng *rand.Rand, used mapset.Set[EliteSkill], ranged, fromSummon bool) (EliteSkill, bool) {
	pool := make([]EliteDef, 0, len(eliteDefs))
	for _, d := range eliteDefs {
		switch {
		case used.Has(d.Skill):
		case fromSummon && (d.Skill == EliteSummoner || d.Skill == ElitePhoenix):
		case d.RangedOnly && !ranged:
		case d.MeleeOnly && ranged:
		default:
			pool = append(pool, d)
		}
	}
	d, ok := geom.PickWeighted(rng, pool, func(d EliteDef) float64 { return d.Weight })
	return d.Skill, ok
}

// HitSlow is the slow an enemy's hits inflict on players.
type HitSlow struct {
	Mul      float64
	Duration float64
}

// DeathBurst is an explosion on death.
type DeathBurst struct {
	Radius    float64
	DamageMul float64
}

// Trait is a tier-rolled rare trait.
type Trait string

const (
	TraitEnrage Trait = "enrage"
	TraitBurst  Trait = "death burst"
	TraitVolley Trait = "volley"
)

// EnemyOptions tunes NewEnemy. Zero elite fields use the defaults for the
// enemy's origin.
type EnemyOptions struct {
	Scale          float64
	DifficultyTier int
	IsBoss         bool
	FromSummon     bool
	SkipElite      bool
	EliteMin       int
	EliteMax       int
	EliteCount     int
}

// Enemy is a hostile unit. Its elite skill set is fixed at construction;
// afterwards only timers and buff states change.
type Enemy struct {
	Body
	Pose

	Type  EnemyType
	Def   EnemyDef
	Name  string
	Color string

	MaxHP          float64
	HP             float64
	Speed          float64
	Damage         float64
	AttackCooldown float64
	AttackTimer    float64

	Rewarded         bool
	GoldDrop         int
	XPDrop           int
	PotionDropChance float64
	SpriteScale      float64

	DamageReduction    float64
	LifeSteal          float64
	Thorns             float64
	ProjectileSpeedMul float64
	SplitShots         int
	ArcaneChance       float64
	ExecuteBonus       float64
	HitSlow            *HitSlow
	ReviveReady        bool

	EliteSkills []EliteSkill
	eliteTimers [eliteSkillCount]float64

	slowTimer float64
	slowMul   float64

	chargeTimer    float64
	chargeCooldown float64
	chargeDir      geom.Vec
	chargeHits     mapset.Set[EntityID]
	summonedCount  int
	summonCap      int

	TurnBias     float64
	StuckTimer   float64
	recoverPhase float64

	DifficultyTier  int
	EnrageThreshold float64
	enrageDamageMul float64
	enrageSpeedMul  float64
	IsEnraged       bool
	DeathBurst      *DeathBurst
	VolleyShots     int
	Traits          []Trait

	// Ferocity is a timed damage and speed buff bosses grant themselves.
	FerocityTimer     float64
	FerocityDamageMul float64
	FerocitySpeedMul  float64

	IsBoss bool
}

// NewEnemy builds an enemy of def at pos and rolls its elite skills and
// tier traits. The World assigns its ID when it is added.
func NewEnemy(rng *rand.Rand, def EnemyDef, pos geom.Vec, opts EnemyOptions) *Enemy {
	s := opts.Scale
	if s == 0 {
		s = 1
	}
	e := &Enemy{
		Body:               Body{Pos: pos, Radius: def.Radius * s, Alive: true},
		Pose:               Pose{Facing: pickSign(rng), AttackDuration: 0.22, HurtDuration: 0.2},
		Type:               def.Type,
		Def:                def,
		Name:               def.Name,
		Color:              def.Color,
		MaxHP:              def.MaxHP * s,
		Speed:              def.Speed * (0.8 + rng.Float64()*0.4),
		Damage:             def.Damage * s,
		AttackCooldown:     def.AttackCooldown,
		GoldDrop:           int(math.Floor(4*s + rng.Float64()*8*s)),
		XPDrop:             int(math.Floor(7*s + rng.Float64()*10*s)),
		PotionDropChance:   0.14,
		SpriteScale:        spriteScaleFor(def.Type),
		ProjectileSpeedMul: 1,
		slowMul:            1,
		chargeDir:          geom.V(1, 0),
		chargeHits:         mapset.New[EntityID](),
		TurnBias:           pickSign(rng),
		recoverPhase:       rng.Float64() * math.Pi * 2,
		DifficultyTier:     max(0, opts.DifficultyTier),
		enrageDamageMul:    1,
		enrageSpeedMul:     1,
		FerocityDamageMul:  1,
		FerocitySpeedMul:   1,
		IsBoss:             opts.IsBoss,
	}
	e.HP = e.MaxHP
	e.AttackTimer = rng.Float64() * e.AttackCooldown
	switch {
	case opts.FromSummon:
		e.summonCap = 0
	case opts.IsBoss:
		e.summonCap = 6
	default:
		e.summonCap = 2
	}

	e.rollEliteSkills(rng, opts)
	e.applyTierProgression(rng, opts)
	return e
}

func pickSign(rng *rand.Rand) float64 {
	if rng.Float64() < 0.5 {
		return -1
	}
	return 1
}

func spriteScaleFor(t EnemyType) float64 {
	switch t {
	case EnemyTank:
		return 0.094
	case EnemyShooter:
		return 0.085
	default:
		return 0.08
	}
}

func (e *Enemy) Kind() Kind { return KindEnemy }

// Unit returns e itself.
func (e *Enemy) Unit() *Enemy { return e }

// HasElite reports whether s was rolled onto e.
func (e *Enemy) HasElite(s EliteSkill) bool {
	for _, k := range e.EliteSkills {
		if k == s {
			return true
		}
	}
	return false
}

func (e *Enemy) rollEliteSkills(rng *rand.Rand, opts EnemyOptions) {
	if opts.SkipElite {
		return
	}
	lo, hi := 2, 4
	switch {
	case opts.IsBoss:
		lo, hi = 5, 7
	case opts.FromSummon:
		lo, hi = 1, 2
	}
	if opts.EliteMax > 0 {
		lo, hi = opts.EliteMin, opts.EliteMax
	}
	count := geom.RandInt(rng, lo, hi+1)
	if opts.EliteCount > 0 {
		count = opts.EliteCount
	}

	used := mapset.New[EliteSkill]()
	for i := 0; i < count; i++ {
		s, ok := pickEliteSkill(rng, used, e.Def.Ranged, opts.FromSummon)
		if !ok {
			break
		}
		used.Put(s)
		e.EliteSkills = append(e.EliteSkills, s)
		e.applyEliteSkill(rng, s, opts.IsBoss)
	}
	e.HP = e.MaxHP
}

func (e *Enemy) applyEliteSkill(rng *rand.Rand, s EliteSkill, isBoss bool) {
	bossMul := 1.0
	if isBoss {
		bossMul = 1.22
	}
	switch s {
	case EliteBerserk:
		e.MaxHP *= 1.2 * bossMul
		e.Damage *= 1.35 * bossMul
		e.Speed *= 1.14
		e.AttackCooldown *= 0.86
	case EliteBulwark:
		e.MaxHP *= 1.45 * bossMul
		e.DamageReduction = geom.Clamp(e.DamageReduction+0.2, 0, 0.6)
		e.Speed *= 0.92
	case EliteVampiric:
		e.LifeSteal += 0.22 * bossMul
		e.Damage *= 1.14
	case EliteSplitter:
		e.SplitShots += 2
		e.AttackCooldown *= 0.92
		e.ProjectileSpeedMul *= 1.08
	case EliteStorm:
		e.eliteTimers[EliteStorm] = geom.RandFloat(rng, 1.8, 3.2)
		e.Damage *= 1.07
	case EliteBlink:
		e.eliteTimers[EliteBlink] = geom.RandFloat(rng, 2.5, 4.4)
		e.Speed *= 1.08
	case EliteCharge:
		e.chargeCooldown = geom.RandFloat(rng, 1.8, 3.3)
		e.Damage *= 1.12
	case EliteSummoner:
		e.eliteTimers[EliteSummoner] = geom.RandFloat(rng, 3.4, 6.2)
		e.MaxHP *= 1.15
	case EliteFrost:
		e.HitSlow = &HitSlow{Mul: 0.74, Duration: 1.5 * bossMul}
		e.Damage *= 1.06
	case EliteArcane:
		e.ArcaneChance += 0.2
		e.Damage *= 1.12
		e.eliteTimers[EliteArcane] = geom.RandFloat(rng, 1.6, 3)
	case EliteThorns:
		e.Thorns += 0.2
		e.MaxHP *= 1.12
	case EliteExecutioner:
		e.ExecuteBonus += 0.5
		e.AttackCooldown *= 0.9
	case ElitePhoenix:
		e.ReviveReady = true
		e.MaxHP *= 1.12
	case EliteColossus:
		e.Radius *= 1.2
		e.SpriteScale *= 1.2
		e.MaxHP *= 1.55 * bossMul
		e.DamageReduction = geom.Clamp(e.DamageReduction+0.12, 0, 0.65)
		e.Damage *= 1.2
		e.Speed *= 0.78
	case EliteDrain:
		e.eliteTimers[EliteDrain] = geom.RandFloat(rng, 2.8, 4.5)
	}
}

func (e *Enemy) applyTierProgression(rng *rand.Rand, opts EnemyOptions) {
	tier := float64(e.DifficultyTier)
	if tier <= 0 {
		return
	}
	if opts.IsBoss {
		e.GoldDrop = int(math.Floor(float64(e.GoldDrop) * (1 + tier*0.1)))
		e.XPDrop = int(math.Floor(float64(e.XPDrop) * (1 + tier*0.12)))
		return
	}

	e.MaxHP *= 1 + tier*0.13
	e.HP = e.MaxHP
	e.Damage *= 1 + tier*0.11
	e.Speed *= 1 + tier*0.02
	e.AttackCooldown = math.Max(0.28, e.AttackCooldown*(1-math.Min(0.22, tier*0.03)))
	e.GoldDrop = int(math.Floor(float64(e.GoldDrop) * (1 + tier*0.08)))
	e.XPDrop = int(math.Floor(float64(e.XPDrop) * (1 + tier*0.1)))

	if opts.FromSummon {
		return
	}
	if geom.Chance(rng, math.Min(0.22+tier*0.04, 0.58)) {
		e.EnrageThreshold = 0.45 - math.Min(0.18, tier*0.03)
		e.enrageDamageMul = 1.18 + tier*0.06
		e.enrageSpeedMul = 1.12 + tier*0.04
		e.Traits = append(e.Traits, TraitEnrage)
	}
	if geom.Chance(rng, math.Min(0.16+tier*0.03, 0.48)) {
		e.DeathBurst = &DeathBurst{
			Radius:    math.Floor(40 + tier*10 + e.Radius),
			DamageMul: 0.45 + tier*0.07,
		}
		e.Traits = append(e.Traits, TraitBurst)
	}
	if e.Def.Ranged && geom.Chance(rng, math.Min(0.2+tier*0.03, 0.5)) {
		e.VolleyShots = min(4, 1+(e.DifficultyTier+1)/2)
		e.Traits = append(e.Traits, TraitVolley)
	}
}

// ApplySlow slows movement; the strongest slow and longest duration win.
func (e *Enemy) ApplySlow(mul, duration float64) {
	e.slowMul = math.Min(e.slowMul, geom.Clamp(mul, 0.35, 1))
	e.slowTimer = math.Max(e.slowTimer, duration)
}

// MoveMul combines slows and ferocity.
func (e *Enemy) MoveMul() float64 {
	mul := 1.0
	if e.slowTimer > 0 {
		mul *= e.slowMul
	}
	if e.FerocityTimer > 0 {
		mul *= e.FerocitySpeedMul
	}
	return mul
}

// DamageMul is the ferocity damage multiplier.
func (e *Enemy) DamageMul() float64 {
	if e.FerocityTimer > 0 {
		return e.FerocityDamageMul
	}
	return 1
}

// EnemyHit describes incoming damage to an enemy.
type EnemyHit struct {
	IgnoreReduction bool
	// Attacker receives thorns damage.
	Attacker *Player
}

// TakeDamage applies reduction and returns the HP actually lost. Phoenix
// enemies revive once; death burst enemies explode.
func (e *Enemy) TakeDamage(w World, amount float64, hit EnemyHit) float64 {
	if !e.Alive {
		return 0
	}
	incoming := amount
	if !hit.IgnoreReduction {
		incoming = amount * (1 - e.DamageReduction)
	}
	prev := e.HP
	e.HP -= math.Max(1, incoming)
	e.hurt()

	dealt := math.Max(0, prev-math.Max(0, e.HP))
	if dealt > 0 && e.Thorns > 0 && hit.Attacker != nil && hit.Attacker.Alive {
		hit.Attacker.TakeDamage(w, dealt*e.Thorns, PlayerHit{IgnoreDefense: true, Source: e})
	}

	if e.HP > 0 {
		return dealt
	}
	if e.ReviveReady {
		e.ReviveReady = false
		e.HP = e.MaxHP * 0.35
		w.Emit(Effect{Kind: FxRevive, Pos: e.Pos, Radius: e.Radius + 18, TTL: 0.25, Color: "rgba(255,168,132,0.52)"})
		return dealt
	}

	if b := e.DeathBurst; b != nil {
		for _, p := range w.Players() {
			if p.Alive && p.Pos.Dist(e.Pos) <= b.Radius+p.Radius {
				e.dealDamageToPlayer(w, p, e.Damage*b.DamageMul)
			}
		}
		w.Emit(Effect{Kind: FxEnemyStorm, Pos: e.Pos, Radius: b.Radius, TTL: 0.2, Color: "rgba(255,136,120,0.45)"})
	}
	e.HP = 0
	e.Alive = false
	return dealt
}

func (e *Enemy) dealDamageToPlayer(w World, p *Player, amount float64) float64 {
	dealt := p.TakeDamage(w, amount, PlayerHit{Source: e})
	if dealt > 0 && e.LifeSteal > 0 {
		e.HP = geom.Clamp(e.HP+dealt*e.LifeSteal, 0, e.MaxHP)
	}
	return dealt
}

// attackDamageAgainst adds the executioner bonus against wounded targets.
func (e *Enemy) attackDamageAgainst(p *Player) float64 {
	amount := e.Damage
	if e.ExecuteBonus > 0 && p.HP/math.Max(1, p.Stats.MaxHP) <= 0.42 {
		amount *= 1 + e.ExecuteBonus
	}
	return amount
}
