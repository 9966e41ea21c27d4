package entity

import (
	"math"
	"math/rand"

	"github.com/zyedidia/generic/mapset"

	"github.com/younwookim/coopcrawl/internal/domain/geom"
)

// BossSkill is a key in a boss's skill library.
type BossSkill string

const (
	SkillCleaveFan    BossSkill = "cleave_fan"
	SkillQuakeRing    BossSkill = "quake_ring"
	SkillPredatorDash BossSkill = "predator_dash"
	SkillPetalTempest BossSkill = "petal_tempest"
	SkillVoidRift     BossSkill = "void_rift"
	SkillWarHowl      BossSkill = "war_howl"
	SkillScytheCross  BossSkill = "scythe_cross"
	SkillEruptionStep BossSkill = "eruption_step"
	SkillAbyssChain   BossSkill = "abyss_chain"
	SkillRageBrand    BossSkill = "rage_brand"

	SkillStarBarrage  BossSkill = "star_barrage"
	SkillRuneCage     BossSkill = "rune_cage"
	SkillPlasmaMeteor BossSkill = "plasma_meteor"
	SkillBlinkSalvo   BossSkill = "blink_salvo"
	SkillOrbitalArray BossSkill = "orbital_array"
	SkillSummonDrones BossSkill = "summon_drones"
	SkillLanceMarch   BossSkill = "lance_march"
	SkillStarfall     BossSkill = "starfall"
	SkillRiftVolley   BossSkill = "rift_volley"
	SkillPhaseNet     BossSkill = "phase_net"
)

// BossSkillDef is a skill library entry. ConsumeTurn skills end the boss's
// frame after casting.
type BossSkillDef struct {
	Key         BossSkill
	Name        string
	Weight      float64
	Cooldown    [2]float64
	MinDist     float64
	MaxDist     float64
	ConsumeTurn bool
}

const anyDist = 9999

var skillLibrary = map[BossStyle][]BossSkillDef{
	StyleMelee: {
		{SkillCleaveFan, "Rending Fan", 15, [2]float64{2.2, 3.4}, 40, 260, true},
		{SkillQuakeRing, "Quake Cleave", 12, [2]float64{3.2, 4.8}, 0, 180, true},
		{SkillPredatorDash, "Predator Dash", 12, [2]float64{3, 4.8}, 80, 340, true},
		{SkillPetalTempest, "Crimson Tempest", 10, [2]float64{4.1, 6}, 0, anyDist, true},
		{SkillVoidRift, "Rift Bind", 9, [2]float64{4.5, 6.6}, 0, anyDist, false},
		{SkillWarHowl, "War Howl", 8, [2]float64{6.5, 9}, 0, anyDist, false},
		{SkillScytheCross, "Cross Scythe", 10, [2]float64{2.6, 4}, 45, 290, true},
		{SkillEruptionStep, "Eruption Step", 8, [2]float64{4.2, 6.2}, 0, 220, true},
		{SkillAbyssChain, "Abyss Chain", 8, [2]float64{4.4, 6.8}, 0, anyDist, false},
		{SkillRageBrand, "Rage Brand", 7, [2]float64{6, 8.8}, 0, anyDist, false},
	},
	StyleRanged: {
		{SkillStarBarrage, "Star Barrage", 15, [2]float64{2.4, 3.8}, 40, anyDist, true},
		{SkillRuneCage, "Rune Cage", 10, [2]float64{3.8, 5.6}, 0, anyDist, false},
		{SkillPlasmaMeteor, "Plasma Meteor", 11, [2]float64{4.2, 6.2}, 80, anyDist, true},
		{SkillBlinkSalvo, "Phase Salvo", 12, [2]float64{3.3, 5.2}, 70, 320, true},
		{SkillOrbitalArray, "Orbital Array", 9, [2]float64{5, 7.2}, 0, anyDist, true},
		{SkillSummonDrones, "Shadow Drones", 8, [2]float64{6.4, 9.2}, 0, anyDist, false},
		{SkillLanceMarch, "Lance March", 10, [2]float64{2.8, 4.2}, 45, anyDist, true},
		{SkillStarfall, "Starfall", 8, [2]float64{4.4, 6.4}, 80, anyDist, true},
		{SkillRiftVolley, "Rift Volley", 9, [2]float64{4.2, 6.6}, 0, anyDist, false},
		{SkillPhaseNet, "Phase Net", 8, [2]float64{4.1, 6.1}, 0, anyDist, true},
	},
}

// SkillLibrary returns the skills a boss of style can draw from.
func SkillLibrary(style BossStyle) []BossSkillDef {
	if lib, ok := skillLibrary[style]; ok {
		return lib
	}
	return skillLibrary[StyleMelee]
}

// earlyBans keeps the harshest skills away from the first bosses.
func earlyBans(style BossStyle, level int) mapset.Set[BossSkill] {
	bans := mapset.New[BossSkill]()
	var keys []BossSkill
	switch {
	case level <= 1 && style == StyleMelee:
		keys = []BossSkill{SkillPetalTempest, SkillAbyssChain, SkillEruptionStep, SkillRageBrand}
	case level <= 1:
		keys = []BossSkill{SkillPlasmaMeteor, SkillOrbitalArray, SkillStarfall, SkillRiftVolley}
	case level <= 3 && style == StyleMelee:
		keys = []BossSkill{SkillPetalTempest, SkillAbyssChain}
	case level <= 3:
		keys = []BossSkill{SkillOrbitalArray, SkillStarfall}
	}
	for _, k := range keys {
		bans.Put(k)
	}
	return bans
}

func buildSkillLoadout(rng *rand.Rand, style BossStyle, count, level int) []BossSkillDef {
	bans := earlyBans(style, level)
	pool := make([]BossSkillDef, 0, len(SkillLibrary(style)))
	for _, s := range SkillLibrary(style) {
		if !bans.Has(s.Key) {
			pool = append(pool, s)
		}
	}

	out := make([]BossSkillDef, 0, count)
	for len(out) < count && len(pool) > 0 {
		picked, _ := geom.PickWeighted(rng, pool, func(s BossSkillDef) float64 { return s.Weight })
		out = append(out, picked)
		for i, s := range pool {
			if s.Key == picked.Key {
				pool = append(pool[:i], pool[i+1:]...)
				break
			}
		}
	}
	return out
}

// pickBossProfile prefers profiles whose hint matches style but lets others
// in at random.
func pickBossProfile(rng *rand.Rand, profiles []BossProfile, style BossStyle) BossProfile {
	if len(profiles) == 0 {
		return BossProfile{Key: "boss", Name: "Boss", StyleHint: style, Core: "#c86bff", Ring: "#f2d7ff", Glow: "rgba(200,107,255,0.3)", Sigil: "#e3b5ff"}
	}
	var pool []BossProfile
	for _, p := range profiles {
		if p.StyleHint == style || rng.Float64() < 0.22 {
			pool = append(pool, p)
		}
	}
	if len(pool) == 0 {
		pool = profiles
	}
	return pool[rng.Intn(len(pool))]
}

// bossCurve softens the first bosses of a run.
type bossCurve struct {
	hp, damage, speed, attackCooldown float64
	skillCooldown, skillStart         float64
	elite, skills                     int
}

func curveFor(level int) bossCurve {
	switch level {
	case 1:
		return bossCurve{0.58, 0.68, 0.88, 1.28, 1.25, 1.6, 2, 2}
	case 2:
		return bossCurve{0.74, 0.8, 0.94, 1.14, 1.12, 1.35, 2, 2}
	case 3:
		return bossCurve{0.86, 0.9, 0.97, 1.08, 1.06, 1.15, 3, 3}
	default:
		return bossCurve{1, 1, 1, 1, 1, 1, 4, 3}
	}
}

type styleMul struct {
	hp, damage, speed, attackCooldown, radius float64
	minSpeed, maxAttackCooldown               float64
	minDamage, minHP                          float64
	meleeHit                                  float64
}

var styleMuls = map[BossStyle]styleMul{
	StyleMelee:  {1.26, 1.18, 1.1, 0.9, 31, 104, 0.98, 38, 1340, 1.26},
	StyleRanged: {1.08, 1.02, 1.02, 1.07, 28, 94, 1.18, 34, 1180, 1.02},
}

// BossOptions tunes NewBoss. A zero Style is rolled; BonusSkills below zero
// defaults to the tier.
type BossOptions struct {
	LevelIndex  int
	Tier        int
	BonusSkills int
	Style       BossStyle
}

// Boss is a room boss: an elite enemy with a rolled skill loadout. Its own
// Update replaces the regular enemy AI.
type Boss struct {
	*Enemy

	Profile    BossProfile
	Style      BossStyle
	LevelIndex int
	Tier       int
	Loadout    []BossSkillDef

	skillTimers      map[BossSkill]float64
	globalSkillTimer float64
	skillCooldownMul float64
	preferRange      float64
	runePhase        float64

	dashTimer float64
	dashDir   geom.Vec
	dashHits  mapset.Set[EntityID]

	dronesSummoned int

	LastSkill      string
	LastSkillTimer float64
}

// NewBoss builds a boss from the tank archetype scaled for level and tier.
func NewBoss(rng *rand.Rand, cat *Catalog, pos geom.Vec, opts BossOptions) *Boss {
	tier := max(0, opts.Tier)
	level := max(1, opts.LevelIndex)
	bonus := opts.BonusSkills
	if bonus < 0 {
		bonus = tier
	}
	style := opts.Style
	if style == "" {
		style = StyleRanged
		if rng.Float64() < 0.5 {
			style = StyleMelee
		}
	}
	curve := curveFor(level)

	e := NewEnemy(rng, cat.Enemies[EnemyTank], pos, EnemyOptions{
		Scale: 2.9, IsBoss: true, EliteCount: curve.elite + bonus, DifficultyTier: tier,
	})
	b := &Boss{
		Enemy:            e,
		Profile:          pickBossProfile(rng, cat.Bosses, style),
		Style:            style,
		LevelIndex:       level,
		Tier:             tier,
		skillTimers:      make(map[BossSkill]float64),
		skillCooldownMul: curve.skillCooldown,
		globalSkillTimer: 1.1 * curve.skillStart,
		preferRange:      float64(geom.RandInt(rng, 180, 245)),
		runePhase:        rng.Float64() * math.Pi * 2,
		dashDir:          geom.V(1, 0),
		dashHits:         mapset.New[EntityID](),
	}

	sm := styleMuls[style]
	t := float64(tier)
	e.Name = b.Profile.Name
	e.Color = b.Profile.Core
	e.Radius = math.Max(e.Radius, sm.radius)
	e.Speed = math.Max(e.Speed*sm.speed*curve.speed, sm.minSpeed*curve.speed)
	e.AttackCooldown = math.Min(e.AttackCooldown*sm.attackCooldown*curve.attackCooldown, sm.maxAttackCooldown*curve.attackCooldown)
	e.Damage = math.Max(e.Damage, sm.minDamage) * sm.damage * math.Pow(1.1, t) * curve.damage
	e.MaxHP = math.Max(e.MaxHP*sm.hp, sm.minHP) * (1 + t*0.03) * curve.hp
	e.HP = e.MaxHP
	e.GoldDrop = int(math.Floor(190 * (1 + t*0.08)))
	e.XPDrop = int(math.Floor(330 * (1 + t*0.1)))
	e.PotionDropChance = 1
	e.SpriteScale = math.Max(e.SpriteScale, 0.148)

	b.Loadout = buildSkillLoadout(rng, style, curve.skills+bonus, level)
	for _, s := range b.Loadout {
		b.skillTimers[s.Key] = geom.RandFloat(rng, 0.6*curve.skillStart, 2.2*curve.skillStart)
	}
	return b
}

func (b *Boss) Kind() Kind { return KindBoss }

func (b *Boss) tickSkills(dt float64) {
	for k, v := range b.skillTimers {
		b.skillTimers[k] = math.Max(0, v-dt)
	}
	b.globalSkillTimer = math.Max(0, b.globalSkillTimer-dt)
	b.LastSkillTimer = math.Max(0, b.LastSkillTimer-dt)
}

// chooseReadySkill weights off-cooldown skills whose range fits dist.
func (b *Boss) chooseReadySkill(rng *rand.Rand, dist float64) (BossSkillDef, bool) {
	if b.globalSkillTimer > 0 {
		return BossSkillDef{}, false
	}
	var ready []BossSkillDef
	for _, s := range b.Loadout {
		if b.skillTimers[s.Key] > 0 || dist < s.MinDist || dist > s.MaxDist {
			continue
		}
		ready = append(ready, s)
	}
	return geom.PickWeighted(rng, ready, func(s BossSkillDef) float64 {
		score := s.Weight
		if b.Style == StyleMelee {
			if dist < 120 {
				score += 4
			}
			if s.Key == SkillPredatorDash && dist > 140 {
				score += 5
			}
		} else {
			if dist > b.preferRange-20 {
				score += 4
			}
			if s.Key == SkillBlinkSalvo && dist < b.preferRange {
				score += 4
			}
		}
		return math.Max(1, score)
	})
}

func (b *Boss) sigilShot(speed, damageMul, radius, ttl float64, vis Visual) shotSpec {
	return shotSpec{
		speed: speed, damage: b.Damage * b.DamageMul() * damageMul, radius: radius, ttl: ttl,
		color: b.Profile.Sigil, visual: vis, trail: b.Profile.Sigil + "88",
	}
}

// castSkill fires s and reports whether it consumed the turn.
func (b *Boss) castSkill(w World, s BossSkillDef, target *Player, dir geom.Vec, hasDir bool) bool {
	b.LastSkill = s.Name
	b.LastSkillTimer = 1.8

	switch s.Key {
	case SkillCleaveFan, SkillScytheCross:
		if hasDir {
			w.Emit(Effect{Kind: FxBossMeleeCast, Pos: b.Pos, Radius: b.Radius + 26, TTL: 0.24, Color: b.Profile.Glow})
			b.fireSpread(w, dir, 5, 0.92, b.sigilShot(320, 0.66, 7, 1.3, VisBossScythe))
		}
		return true
	case SkillQuakeRing, SkillEruptionStep:
		b.quakeRing(w)
		return true
	case SkillPredatorDash:
		if !hasDir {
			return false
		}
		b.dashDir = dir
		b.dashTimer = 0.5
		b.dashHits = mapset.New[EntityID]()
		w.Emit(Effect{Kind: FxBossDash, Pos: b.Pos, Radius: b.Radius + 22, TTL: 0.2, Color: b.Profile.Sigil, Dir: dir})
		return true
	case SkillPetalTempest:
		for i := 0; i < 16; i++ {
			a := math.Pi*2*float64(i)/16 + b.runePhase
			b.fireProjectile(w, geom.FromAngle(a), b.sigilShot(250, 0.52, 6, 2.2, VisBossPetal))
		}
		w.Emit(Effect{Kind: FxBossMeleeCast, Pos: b.Pos, Radius: b.Radius + 34, TTL: 0.26, Color: b.Profile.Glow})
		b.runePhase += 0.4
		return true
	case SkillVoidRift, SkillAbyssChain:
		b.voidRift(w, target, false)
		return false
	case SkillRuneCage, SkillRiftVolley:
		b.voidRift(w, target, true)
		return false
	case SkillWarHowl, SkillRageBrand:
		t := float64(b.Tier)
		b.FerocityDamageMul = math.Max(b.FerocityDamageMul, 1.22+t*0.03)
		b.FerocitySpeedMul = math.Max(b.FerocitySpeedMul, 1.14+t*0.02)
		b.FerocityTimer = math.Max(b.FerocityTimer, 3.8)
		w.Emit(Effect{Kind: FxBossMeleeCast, Pos: b.Pos, Radius: b.Radius + 30, TTL: 0.28, Color: "rgba(255,132,132,0.45)"})
		return false
	case SkillStarBarrage, SkillLanceMarch:
		for _, p := range w.Players() {
			if d, ok := p.Pos.Sub(b.Pos).Normalize(); p.Alive && ok {
				b.fireSpread(w, d, 3, 0.34, b.sigilShot(300, 0.52, 5, 2, VisBossLance))
			}
		}
		w.Emit(Effect{Kind: FxBossRangedCast, Pos: b.Pos, Radius: b.Radius + 30, TTL: 0.24, Color: b.Profile.Glow})
		return true
	case SkillPlasmaMeteor, SkillStarfall:
		for _, p := range w.Players() {
			if d, ok := p.Pos.Sub(b.Pos).Normalize(); p.Alive && ok {
				b.fireProjectile(w, d, shotSpec{
					speed: 215, damage: b.Damage * b.DamageMul() * 0.9, radius: 8, ttl: 2.4,
					color: "#ffb36f", visual: VisPlasmaOrb, trail: "rgba(255,188,120,0.58)",
				})
			}
		}
		w.Emit(Effect{Kind: FxPlasmaBurst, Pos: b.Pos, Radius: b.Radius + 38, TTL: 0.24, Color: "rgba(255,188,120,0.45)"})
		return true
	case SkillBlinkSalvo, SkillPhaseNet:
		b.blinkSalvo(w, target)
		return true
	case SkillOrbitalArray:
		for i := 0; i < 18; i++ {
			b.fireProjectile(w, geom.FromAngle(math.Pi*2*float64(i)/18), b.sigilShot(258, 0.44, 5, 2.4, VisStarLance))
		}
		w.Emit(Effect{Kind: FxBossRangedCast, Pos: b.Pos, Radius: b.Radius + 40, TTL: 0.26, Color: b.Profile.Glow})
		return true
	case SkillSummonDrones:
		b.summonDrones(w)
		return false
	}
	return false
}

func (b *Boss) quakeRing(w World) {
	const radius = 118.0
	for _, p := range w.Players() {
		if p.Alive && p.Pos.Dist(b.Pos) <= radius+p.Radius {
			b.dealDamageToPlayer(w, p, b.Damage*b.DamageMul()*1.18)
		}
	}
	w.Emit(Effect{Kind: FxShockwave, Pos: b.Pos, Radius: radius, TTL: 0.24, Color: b.Profile.Glow})
}

// voidRift rings the target with spikes that converge on it.
func (b *Boss) voidRift(w World, target *Player, runeMode bool) {
	spikes, ring := 6, 68.0
	if b.Style == StyleRanged {
		spikes, ring = 8, 86
	}
	vis := VisVoidSpike
	if runeMode {
		vis = VisRuneDisc
	}
	for i := 0; i < spikes; i++ {
		a := math.Pi*2*float64(i)/float64(spikes) + b.runePhase
		at := clampToMap(w, target.Pos.Add(geom.FromAngle(a).Scale(ring)), b.Radius+4)
		dir, ok := target.Pos.Sub(at).Normalize()
		if !ok {
			dir = geom.FromAngle(a + math.Pi)
		}
		w.SpawnProjectile(NewProjectile(at, dir.Scale(220), Projectile{
			Body: Body{Radius: 5}, Owner: SideEnemy, Damage: b.Damage * b.DamageMul() * 0.45, TTL: 1.9,
			Color: b.Profile.Sigil, SourceEnemy: b.EntityID, Visual: vis, Trail: b.Profile.Sigil + "88",
		}))
	}
	w.Emit(Effect{Kind: FxBossRift, Pos: target.Pos, Radius: ring + 16, TTL: 0.26, Color: b.Profile.Glow})
	b.runePhase += 0.6
}

func (b *Boss) blinkSalvo(w World, target *Player) {
	rng := w.Rand()
	to, ok := target.Pos.Sub(b.Pos).Normalize()
	if !ok {
		to = geom.V(1, 0)
	}
	old := b.Pos
	next := geom.V(
		target.Pos.X-to.X*geom.RandFloat(rng, 110, 165)+geom.RandFloat(rng, -26, 26),
		target.Pos.Y-to.Y*geom.RandFloat(rng, 110, 165)+geom.RandFloat(rng, -26, 26),
	)
	b.Pos = clampToMap(w, next, b.Radius+2)
	b.resolveInvalidPosition(w)
	w.Emit(Effect{Kind: FxEnemyBlink, Pos: old, Radius: b.Radius + 16, TTL: 0.16, Color: b.Profile.Glow})
	w.Emit(Effect{Kind: FxEnemyBlink, Pos: b.Pos, Radius: b.Radius + 16, TTL: 0.16, Color: b.Profile.Glow})
	if dir, ok := target.Pos.Sub(b.Pos).Normalize(); ok {
		b.fireSpread(w, dir, 5, 0.52, b.sigilShot(286, 0.46, 5, 1.65, VisBossLance))
	}
}

func (b *Boss) summonDrones(w World) {
	limit := 4
	if b.Style == StyleRanged {
		limit = 5
	}
	if b.dronesSummoned >= limit {
		return
	}
	n := 2
	if b.Tier >= 2 {
		n++
	}
	n = min(n, limit-b.dronesSummoned)
	rng := w.Rand()
	for i := 0; i < n; i++ {
		t := EnemyGrunt
		if b.Style == StyleRanged {
			if rng.Float64() < 0.72 {
				t = EnemyShooter
			}
		} else if rng.Float64() >= 0.65 {
			t = EnemyTank
		}
		pos := w.Map().RandomOpenPosition(rng, 18)
		b.summon(w, t, pos, 0.9+rng.Float64()*0.16, FxSummonSigil, b.Profile.Glow)
	}
	b.dronesSummoned += n
}

func (b *Boss) updateDash(dt float64, w World) bool {
	if b.dashTimer <= 0 {
		return false
	}
	b.dashTimer -= dt
	b.Moving = true
	b.moveSmart(w, b.dashDir, b.Speed*2.65*b.MoveMul(), dt, steerOpts{disallowReverse: true})
	for _, p := range w.Players() {
		if !p.Alive || b.dashHits.Has(p.EntityID) {
			continue
		}
		if b.Touches(&p.Body, 3) {
			b.dealDamageToPlayer(w, p, b.Damage*b.DamageMul()*1.32)
			b.dashHits.Put(p.EntityID)
		}
	}
	return true
}

// Update runs one frame: elite skills, an active dash, then at most one
// loadout skill, then movement and the basic attack.
func (b *Boss) Update(dt float64, w World) {
	if !b.Alive {
		return
	}
	b.tickSkills(dt)
	target, delta, ok := b.acquire(dt, w)
	if !ok {
		return
	}
	if b.updateEliteSkills(dt, w, target, delta) {
		return
	}
	if b.updateDash(dt, w) {
		return
	}

	rng := w.Rand()
	dist := delta.Len()
	dir, hasDir := delta.Normalize()
	if s, ok := b.chooseReadySkill(rng, dist); ok {
		consumed := b.castSkill(w, s, target, dir, hasDir)
		b.skillTimers[s.Key] = geom.RandFloat(rng, s.Cooldown[0]*b.skillCooldownMul, s.Cooldown[1]*b.skillCooldownMul)
		b.globalSkillTimer = 0.36
		if s.ConsumeTurn {
			b.globalSkillTimer = 0.62
		}
		b.startAttack(0.34)
		if consumed {
			return
		}
	}

	moveMul := b.MoveMul()
	switch {
	case b.Style == StyleRanged && dist < b.preferRange-20:
		if retreat, ok := delta.Scale(-1).Normalize(); ok {
			b.moveSmart(w, retreat, b.Speed*0.8*moveMul, dt, steerOpts{target: target, preferRetreat: true, preferRange: b.preferRange + 24})
		}
	case b.Style == StyleRanged && hasDir:
		b.moveSmart(w, dir, b.Speed*0.45*moveMul, dt, steerOpts{target: target, preferRange: b.preferRange})
	case hasDir:
		b.moveSmart(w, dir, b.Speed*moveMul, dt, steerOpts{target: target})
	}

	meleeRange := b.Radius + target.Radius + 10
	switch {
	case dist < meleeRange && b.AttackTimer <= 0:
		b.AttackTimer = b.AttackCooldown
		b.startAttack(0.3)
		b.dealDamageToPlayer(w, target, b.attackDamageAgainst(target)*styleMuls[b.Style].meleeHit*b.DamageMul())
		slash := dir
		if !hasDir {
			slash = geom.V(b.Facing, 0)
		}
		w.Emit(Effect{Kind: FxTrailSlash, Pos: b.Pos, Radius: meleeRange, TTL: 0.16, Color: b.Profile.Glow, Dir: slash})
	case b.Style == StyleRanged && b.AttackTimer <= 0 && hasDir:
		b.AttackTimer = b.AttackCooldown
		b.startAttack(0.26)
		vis := VisEnemySpear
		if b.Tier >= 2 {
			vis = VisStarLance
		}
		shot := b.sigilShot(268, 0.48, 5, 1.9, vis)
		shot.trail = b.Profile.Sigil + "80"
		b.fireSpread(w, dir, 3+min(2, b.Tier/2), 0.34, shot)
	}
}
