package entity

import (
	"math"
	"math/rand"

	"github.com/zyedidia/generic/mapset"

	"github.com/younwookim/coopcrawl/internal/domain/geom"
)

// Steering tuning.
const (
	stuckThreshold  = 0.34
	stuckResetTimer = 0.12
	rangedPrefer    = 190.0
)

var (
	steerRight = [...]float64{0, 0.32, -0.32, 0.62, -0.62, 0.94, -0.94, 1.3, -1.3, math.Pi}
	steerLeft  = [...]float64{0, -0.32, 0.32, -0.62, 0.62, -0.94, 0.94, -1.3, 1.3, math.Pi}
)

// steerOpts shapes moveSmart's candidate scoring.
type steerOpts struct {
	target          *Player
	preferRetreat   bool
	preferRange     float64
	disallowReverse bool
}

func (e *Enemy) pathOpen(w World, dir geom.Vec, distance float64) bool {
	return !w.Map().CircleCollides(e.Pos.Add(dir.Scale(distance)), e.Radius)
}

// resolveInvalidPosition pushes an enemy stuck inside a wall to the nearest
// free ring position, or to a random open spot.
func (e *Enemy) resolveInvalidPosition(w World) {
	m := w.Map()
	if !m.CircleCollides(e.Pos, e.Radius) {
		return
	}
	const samples = 16
	for _, mul := range [...]float64{1.2, 1.9, 2.8, 4} {
		radius := e.Radius * mul
		for i := 0; i < samples; i++ {
			a := e.recoverPhase + math.Pi*2*float64(i)/samples
			next := e.Pos.Add(geom.FromAngle(a).Scale(radius))
			if !m.CircleCollides(next, e.Radius) {
				e.Pos = next
				e.recoverPhase += 0.47
				return
			}
		}
	}
	e.Pos = m.RandomOpenPosition(w.Rand(), e.Radius+2)
}

// moveSmart steps toward desired, steering around obstacles. Candidate
// headings fan out from desired, alternating sides in bias order; blocked
// ones are dropped and the rest scored by alignment and range shaping. After
// stuckThreshold seconds of near-zero progress the bias flips and the enemy
// takes a perpendicular panic step. It returns the distance moved.
func (e *Enemy) moveSmart(w World, desired geom.Vec, speed, dt float64, opts steerOpts) float64 {
	step := math.Max(0, speed*dt)
	if step <= 0 || !desired.IsFinite() {
		return 0
	}

	angles := steerRight[:]
	if e.TurnBias < 0 {
		angles = steerLeft[:]
	}
	probe := math.Max(step*1.3, e.Radius*0.82)

	var best geom.Vec
	found := false
	bestScore := math.Inf(-1)
	for _, offset := range angles {
		if opts.disallowReverse && math.Abs(offset-math.Pi) < 1e-3 {
			continue
		}
		cand := desired.Rotate(offset)
		if !e.pathOpen(w, cand, probe) {
			continue
		}

		score := cand.Dot(desired)
		if t := opts.target; t != nil {
			next := t.Pos.Dist(e.Pos.Add(cand.Scale(probe)))
			if opts.preferRetreat {
				score += (next - t.Pos.Dist(e.Pos)) * 0.03
			}
			if opts.preferRange > 0 {
				score -= math.Abs(next-opts.preferRange) * 0.012
			}
		}
		if score > bestScore {
			bestScore, best, found = score, cand, true
		}
	}

	if !found {
		side := desired.Perp(e.TurnBias)
		near := math.Max(step, e.Radius*0.7)
		switch {
		case e.pathOpen(w, side, near):
			best = side
		case e.pathOpen(w, desired, near):
			best = desired
		default:
			best = side.Scale(-1)
		}
	}

	start := e.Pos
	w.MoveEntity(&e.Body, best.X*step, best.Y*step)
	moved := e.Pos.Dist(start)

	if moved <= math.Max(0.35, step*0.08) {
		e.StuckTimer += dt
		if e.StuckTimer >= stuckThreshold {
			e.TurnBias = -e.TurnBias
			panicDir := desired.Rotate(e.TurnBias * math.Pi * 0.5)
			if e.pathOpen(w, panicDir, math.Max(step*0.95, e.Radius*0.75)) {
				before := e.Pos
				w.MoveEntity(&e.Body, panicDir.X*step*0.95, panicDir.Y*step*0.95)
				moved = math.Max(moved, e.Pos.Dist(before))
			}
			e.StuckTimer = stuckResetTimer
		}
	} else {
		e.StuckTimer = math.Max(0, e.StuckTimer-dt*2.6)
	}

	e.Moving = e.Moving || moved > 0.01
	return moved
}

// shotSpec describes an enemy projectile; zero fields take defaults.
type shotSpec struct {
	speed  float64
	damage float64
	radius float64
	ttl    float64
	color  string
	visual Visual
	trail  string
}

func (e *Enemy) fireProjectile(w World, dir geom.Vec, s shotSpec) {
	speed := s.speed
	if speed == 0 {
		speed = or(e.Def.ProjectileSpeed, 220)
	}
	speed *= e.ProjectileSpeedMul
	if s.damage == 0 {
		s.damage = e.Damage
	}
	if s.radius == 0 {
		s.radius = 5
	}
	if s.ttl == 0 {
		s.ttl = 2.3
	}
	if s.color == "" {
		s.color = "#ffd166"
	}
	if s.visual == "" {
		s.visual = VisEnemyBolt
	}
	if s.trail == "" {
		s.trail = "rgba(255,214,130,0.4)"
	}
	w.SpawnProjectile(NewProjectile(e.Pos, dir.Scale(speed), Projectile{
		Body: Body{Radius: s.radius}, Owner: SideEnemy, Damage: s.damage, TTL: s.ttl,
		Color: s.color, SourceEnemy: e.EntityID, Visual: s.visual, Trail: s.trail,
	}))
}

// fireSpread fires count shots evenly across arc centred on dir.
func (e *Enemy) fireSpread(w World, dir geom.Vec, count int, arc float64, s shotSpec) {
	total := max(1, count)
	if arc == 0 {
		arc = 0.45
	}
	for i := 0; i < total; i++ {
		e.fireProjectile(w, dir.Rotate(geom.Spread(i, total, arc)), s)
	}
}

func (e *Enemy) rangedShotProfile() shotSpec {
	s := shotSpec{color: "#ffd166", visual: VisEnemyBolt, trail: "rgba(255,209,128,0.5)"}
	if e.HasElite(EliteStorm) {
		s.color, s.visual, s.trail = "#ffac74", VisEnemyBurst, "rgba(255,170,120,0.56)"
	}
	if e.HasElite(EliteFrost) {
		s.color, s.visual, s.trail = "#a7e7ff", VisRuneDisc, "rgba(161,230,255,0.55)"
	}
	if e.HasElite(EliteSplitter) {
		s.color, s.visual, s.trail = "#ffcda1", VisStarLance, "rgba(255,220,188,0.55)"
	}
	if e.HasElite(EliteArcane) {
		s.color, s.visual, s.trail = "#d9a7ff", VisVoidSpike, "rgba(210,158,255,0.58)"
	}
	if e.IsBoss && e.HasElite(EliteDrain) {
		s.color, s.visual, s.trail = "#f6a2ff", VisVoidSpike, "rgba(229,163,255,0.6)"
	}
	return s
}

// tickTimers counts down attack, pose, elite and buff timers.
func (e *Enemy) tickTimers(dt float64) {
	e.AttackTimer = math.Max(0, e.AttackTimer-dt)
	e.Pose.tick(dt)
	for i := range e.eliteTimers {
		e.eliteTimers[i] -= dt
	}
	e.slowTimer = math.Max(0, e.slowTimer-dt)
	if e.slowTimer <= 0 {
		e.slowMul = 1
	}
	e.chargeCooldown = math.Max(0, e.chargeCooldown-dt)
	e.FerocityTimer = math.Max(0, e.FerocityTimer-dt)
	if e.FerocityTimer <= 0 {
		e.FerocityDamageMul = 1
		e.FerocitySpeedMul = 1
	}
}

// updateEliteSkills runs charge, storm, blink, summon and drain. It returns
// true when the action consumed the enemy's turn.
func (e *Enemy) updateEliteSkills(dt float64, w World, target *Player, delta geom.Vec) bool {
	rng := w.Rand()
	dist := delta.Len()

	if e.chargeTimer > 0 {
		e.chargeTimer -= dt
		e.Moving = true
		e.moveSmart(w, e.chargeDir, e.Speed*2.35*e.MoveMul(), dt, steerOpts{disallowReverse: true})
		for _, p := range w.Players() {
			if !p.Alive || e.chargeHits.Has(p.EntityID) {
				continue
			}
			if e.Touches(&p.Body, 2) {
				e.dealDamageToPlayer(w, p, e.Damage*1.35)
				e.chargeHits.Put(p.EntityID)
			}
		}
		return true
	}

	if e.HasElite(EliteStorm) && e.eliteTimers[EliteStorm] <= 0 {
		e.eliteTimers[EliteStorm] = geom.RandFloat(rng, 2.2, 4.2)
		w.Emit(Effect{Kind: FxEnemyStorm, Pos: e.Pos, Radius: e.Radius + 18, TTL: 0.2, Color: "rgba(255,170,110,0.45)"})
		cnt := 10
		if e.IsBoss {
			cnt = 14
		}
		for i := 0; i < cnt; i++ {
			a := math.Pi * 2 * float64(i) / float64(cnt)
			e.fireProjectile(w, geom.FromAngle(a), shotSpec{
				speed: float64(210 + geom.RandInt(rng, -20, 35)), damage: e.Damage * 0.58, radius: 5, ttl: 1.8,
				color: "#ff9f68", visual: VisEnemyBurst, trail: "rgba(255,175,115,0.55)",
			})
		}
	}

	if e.HasElite(EliteBlink) && e.eliteTimers[EliteBlink] <= 0 && dist < 260 {
		e.eliteTimers[EliteBlink] = geom.RandFloat(rng, 3, 5.8)
		dir, ok := delta.Normalize()
		if !ok {
			dir = geom.V(1, 0)
		}
		old := e.Pos
		back := geom.RandFloat(rng, 48, 85)
		jitter := geom.V(geom.RandFloat(rng, -35, 35), geom.RandFloat(rng, -35, 35))
		e.Pos = clampToMap(w, target.Pos.Sub(dir.Scale(back)).Add(jitter), e.Radius+2)
		e.resolveInvalidPosition(w)
		w.Emit(Effect{Kind: FxEnemyBlink, Pos: old, Radius: e.Radius + 14, TTL: 0.16, Color: "rgba(192,130,255,0.48)"})
		w.Emit(Effect{Kind: FxEnemyBlink, Pos: e.Pos, Radius: e.Radius + 14, TTL: 0.16, Color: "rgba(192,130,255,0.48)"})
		if e.Touches(&target.Body, 38) {
			e.dealDamageToPlayer(w, target, e.Damage*0.88)
		}
	}

	if e.HasElite(EliteCharge) && e.chargeCooldown <= 0 && dist > 60 && dist < 260 {
		if dir, ok := delta.Normalize(); ok {
			e.chargeDir = dir
			e.chargeTimer = 0.52
			e.chargeCooldown = geom.RandFloat(rng, 2.4, 4.8)
			e.chargeHits = mapset.New[EntityID]()
			w.Emit(Effect{Kind: FxEnemyCharge, Pos: e.Pos, Radius: e.Radius + 20, TTL: 0.2, Color: "rgba(255,122,122,0.5)", Dir: dir})
			return true
		}
	}

	if e.HasElite(EliteSummoner) && e.eliteTimers[EliteSummoner] <= 0 && e.summonedCount < e.summonCap {
		e.eliteTimers[EliteSummoner] = geom.RandFloat(rng, 4, 6.8)
		waves, scale := 1, 0.82
		if e.IsBoss {
			waves, scale = 2, 0.95
		}
		for i := 0; i < waves && e.summonedCount < e.summonCap; i++ {
			t := rollSummonType(rng)
			pos := e.Pos.Add(geom.V(geom.RandFloat(rng, -55, 55), geom.RandFloat(rng, -55, 55)))
			e.summon(w, t, pos, scale, FxEnemySummon, "rgba(174,255,154,0.42)")
			e.summonedCount++
		}
	}

	if e.HasElite(EliteDrain) && e.eliteTimers[EliteDrain] <= 0 {
		e.eliteTimers[EliteDrain] = geom.RandFloat(rng, 3.5, 5.5)
		radius := 95.0
		if e.IsBoss {
			radius = 130
		}
		absorbed := 0.0
		for _, p := range w.Players() {
			if p.Alive && p.Pos.Dist(e.Pos) <= radius+p.Radius {
				absorbed += e.dealDamageToPlayer(w, p, e.Damage*0.6)
			}
		}
		if absorbed > 0 {
			e.HP = geom.Clamp(e.HP+absorbed*0.4, 0, e.MaxHP)
		}
		w.Emit(Effect{Kind: FxEnemyDrain, Pos: e.Pos, Radius: radius, TTL: 0.18, Color: "rgba(193,95,255,0.38)"})
	}
	return false
}

// summon adds a minion of type t near pos, moving it to open ground if pos
// is blocked.
func (e *Enemy) summon(w World, t EnemyType, pos geom.Vec, scale float64, fx EffectKind, color string) *Enemy {
	def, ok := w.Catalog().Enemies[t]
	if !ok {
		return nil
	}
	add := NewEnemy(w.Rand(), def, pos, EnemyOptions{
		Scale: scale, FromSummon: true, EliteMin: 1, EliteMax: 2, DifficultyTier: e.DifficultyTier,
	})
	if w.Map().CircleCollides(add.Pos, add.Radius) {
		add.Pos = w.Map().RandomOpenPosition(w.Rand(), add.Radius+2)
	}
	w.Emit(Effect{Kind: fx, Pos: add.Pos, Radius: add.Radius + 14, TTL: 0.2, Color: color})
	w.SpawnEnemy(add)
	return add
}

// acquire ticks timers, fixes the position and finds the nearest living
// player. ok is false when there is nothing to act on.
func (e *Enemy) acquire(dt float64, w World) (target *Player, delta geom.Vec, ok bool) {
	e.tickTimers(dt)
	e.resolveInvalidPosition(w)
	target, _, ok = geom.NearestAlive(e.Pos, w.Players())
	if !ok {
		return nil, geom.Vec{}, false
	}
	delta = target.Pos.Sub(e.Pos)
	e.Facing = facingOf(delta.X)
	return target, delta, true
}

// Update runs one frame of enemy AI.
func (e *Enemy) Update(dt float64, w World) {
	if !e.Alive {
		return
	}
	target, delta, ok := e.acquire(dt, w)
	if !ok {
		return
	}
	if e.updateEliteSkills(dt, w, target, delta) {
		return
	}
	e.checkEnrage(w)

	dist := delta.Len()
	moveMul := e.MoveMul()
	dir, hasDir := delta.Normalize()
	rng := w.Rand()

	if e.Def.Ranged {
		if retreat, ok := delta.Scale(-1).Normalize(); dist < rangedPrefer && ok {
			e.moveSmart(w, retreat, e.Speed*0.75*moveMul, dt, steerOpts{target: target, preferRetreat: true, preferRange: rangedPrefer + 24})
		} else if hasDir {
			e.moveSmart(w, dir, e.Speed*0.4*moveMul, dt, steerOpts{target: target, preferRange: rangedPrefer})
		}
		if e.AttackTimer > 0 {
			return
		}
		e.AttackTimer = e.AttackCooldown
		e.startAttack(0.26)
		if !hasDir {
			return
		}
		shot := e.rangedShotProfile()
		shot.speed, shot.damage, shot.radius, shot.ttl = e.Def.ProjectileSpeed, e.Damage, 5, 2.45
		e.fireSpread(w, dir, 1+e.SplitShots+e.VolleyShots, 0.5+float64(e.VolleyShots)*0.06, shot)
		if e.ArcaneChance > 0 && rng.Float64() < e.ArcaneChance {
			e.fireSpread(w, dir, 3, 0.35, shotSpec{
				speed: or(e.Def.ProjectileSpeed, 220) * 0.82, damage: e.Damage * 0.48, radius: 4, ttl: 1.6,
				color: "#d9a7ff", visual: VisEnemyArcane, trail: "rgba(210,158,255,0.55)",
			})
		}
		return
	}

	if hasDir {
		e.moveSmart(w, dir, e.Speed*moveMul, dt, steerOpts{target: target})
	}
	hitDist := e.Radius + target.Radius + 4
	if dist >= hitDist || e.AttackTimer > 0 {
		return
	}
	e.AttackTimer = e.AttackCooldown
	e.startAttack(0.28)
	e.dealDamageToPlayer(w, target, e.attackDamageAgainst(target))
	color := "rgba(255,225,180,0.34)"
	if e.HasElite(EliteBerserk) {
		color = "rgba(255,120,120,0.42)"
	}
	w.Emit(Effect{Kind: FxTrailSlash, Pos: e.Pos, Radius: hitDist + 8, TTL: 0.14, Color: color, Dir: delta})
	if e.ArcaneChance > 0 && rng.Float64() < e.ArcaneChance && hasDir {
		e.fireProjectile(w, dir, shotSpec{
			speed: 245, damage: e.Damage * 0.55, radius: 4, ttl: 1.2,
			color: "#caa2ff", visual: VisEnemyArcane, trail: "rgba(206,159,255,0.55)",
		})
	}
}

func (e *Enemy) checkEnrage(w World) {
	if e.IsEnraged || e.EnrageThreshold <= 0 || e.HP/math.Max(1, e.MaxHP) > e.EnrageThreshold {
		return
	}
	e.IsEnraged = true
	e.Damage *= e.enrageDamageMul
	e.Speed *= e.enrageSpeedMul
	w.Emit(Effect{Kind: FxEnemyCharge, Pos: e.Pos, Radius: e.Radius + 16, TTL: 0.2, Color: "rgba(255,88,88,0.52)", Dir: geom.V(e.Facing, 0)})
}

// rollSummonType picks a minion: half grunts, and the rest split 70/30
// between shooters and tanks on a second draw.
func rollSummonType(rng *rand.Rand) EnemyType {
	if rng.Float64() < 0.5 {
		return EnemyGrunt
	}
	if rng.Float64() < 0.7 {
		return EnemyShooter
	}
	return EnemyTank
}
