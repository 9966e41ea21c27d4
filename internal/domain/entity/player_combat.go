package entity

import (
	"math"

	"github.com/zyedidia/generic/mapset"

	"github.com/younwookim/coopcrawl/internal/domain/geom"
	"github.com/younwookim/coopcrawl/internal/domain/item"
)

// HitOpts flags a player-dealt hit. Proc hits never trigger further procs.
type HitOpts struct {
	ForceCrit   bool
	NoLifesteal bool
	IsProc      bool
}

// PlayerHit describes incoming damage to a player.
type PlayerHit struct {
	IgnoreDefense bool
	NoProc        bool
	// Source is the attacking enemy, if any; its hit slow applies.
	Source *Enemy
}

// procContext is what a trigger knows about the event that fired it.
type procContext struct {
	enemy  *Enemy
	damage float64
}

// TickProcState counts down power cooldowns and buff timers.
func (p *Player) TickProcState(dt float64) {
	for k, v := range p.procCooldowns {
		if v-dt <= 0 {
			delete(p.procCooldowns, k)
			continue
		}
		p.procCooldowns[k] = v - dt
	}

	p.DamageBuffTimer = math.Max(0, p.DamageBuffTimer-dt)
	if p.DamageBuffTimer <= 0 {
		p.DamageBuffMul = 1
	}
	p.SpeedBuffTimer = math.Max(0, p.SpeedBuffTimer-dt)
	if p.SpeedBuffTimer <= 0 {
		p.SpeedBuffMul = 1
	}
	p.EchoBuffTimer = math.Max(0, p.EchoBuffTimer-dt)
	if p.EchoBuffTimer <= 0 {
		p.EchoBuffPower = 0
	}
	p.BarrierTimer = math.Max(0, p.BarrierTimer-dt)
	if p.BarrierTimer <= 0 {
		p.BarrierValue = 0
	}
	p.SlowTimer = math.Max(0, p.SlowTimer-dt)
	if p.SlowTimer <= 0 {
		p.SlowMul = 1
	}
}

// TryTriggerPowers rolls every equipped power bound to trigger.
func (p *Player) TryTriggerPowers(w World, trigger item.Trigger, enemy *Enemy, damage float64) {
	if w == nil {
		return
	}
	hasteMul := 1 + p.Stats.SkillHaste*0.45
	ctx := procContext{enemy: enemy, damage: damage}
	for _, slot := range item.Slots {
		it := p.Equipment[slot]
		if it == nil {
			continue
		}
		for i, pw := range it.Powers {
			if pw.Trigger != trigger {
				continue
			}
			key := ProcKey{Slot: slot, Index: i, Power: pw.Key}
			if p.procCooldowns[key] > 0 {
				continue
			}
			chance := geom.Clamp(pw.Chance*hasteMul, 0.01, 0.95)
			if w.Rand().Float64() > chance {
				continue
			}
			cd := pw.Cooldown
			if cd == 0 {
				cd = 1
			}
			p.procCooldowns[key] = math.Max(0.25, cd)
			p.activatePower(w, pw, ctx)
		}
	}
}

func or(v, fallback float64) float64 {
	if v == 0 {
		return fallback
	}
	return v
}

func (p *Player) activatePower(w World, pw item.Power, ctx procContext) {
	center := p.Pos
	if ctx.enemy != nil {
		center = ctx.enemy.Pos
	}

	switch pw.Key {
	case item.PowerChain:
		p.chainLightning(w, pw, ctx.enemy)

	case item.PowerNova:
		radius := or(float64(pw.Radius), 64)
		p.blast(w, center, radius, or(pw.Power, 0.7))
		w.Emit(Effect{Kind: FxNovaRing, Pos: center, Radius: radius, TTL: 0.18, Color: "rgba(255,132,97,0.45)"})

	case item.PowerExecution:
		e := ctx.enemy
		if e == nil || !e.Alive {
			return
		}
		if e.HP/math.Max(1, e.MaxHP) > or(pw.Threshold, 0.22) {
			return
		}
		p.DealDamage(w, e, p.DamageOutput(p.Stats.Damage*or(pw.Power, 0.3)), HitOpts{ForceCrit: true, NoLifesteal: true, IsProc: true})

	case item.PowerShadowShot:
		aim, ok := p.LastAim.Normalize()
		if !ok {
			return
		}
		count := max(1, pw.Count)
		if pw.Count == 0 {
			count = 2
		}
		speed := math.Max(260, or(p.Stats.ProjectileSpeed, 320))
		for i := 0; i < count; i++ {
			delta := (float64(i)/float64(max(1, count-1)) - 0.5) * 0.32
			w.SpawnProjectile(NewProjectile(p.Pos, aim.Rotate(delta).Scale(speed), Projectile{
				Owner: SidePlayer, Damage: p.DamageOutput(p.Stats.Damage * or(pw.Power, 0.75)),
				Body: Body{Radius: 4}, TTL: 1.2, Color: "#b38cff", SourcePlayer: p.EntityID,
				IsProc: true, Visual: VisShadowBlade, Trail: "rgba(190,145,255,0.65)",
			}))
		}

	case item.PowerBloodRush:
		p.Heal(or(float64(pw.Heal), 12))
		p.DamageBuffMul = math.Max(p.DamageBuffMul, or(pw.DamageMul, 1.12))
		p.SpeedBuffMul = math.Max(p.SpeedBuffMul, or(pw.SpeedMul, 1.12))
		d := or(pw.Duration, 2.4)
		p.DamageBuffTimer = math.Max(p.DamageBuffTimer, d)
		p.SpeedBuffTimer = math.Max(p.SpeedBuffTimer, d)
		w.Emit(Effect{Kind: FxBloodAura, Pos: p.Pos, Radius: p.Radius + 20, TTL: 0.2, Color: "rgba(255,90,120,0.4)"})

	case item.PowerArcaneRing:
		bolts := max(4, pw.Bolts)
		if pw.Bolts == 0 {
			bolts = 8
		}
		speed := math.Max(220, or(p.Stats.ProjectileSpeed, 320))
		for i := 0; i < bolts; i++ {
			a := math.Pi * 2 * float64(i) / float64(bolts)
			w.SpawnProjectile(NewProjectile(p.Pos, geom.FromAngle(a).Scale(speed), Projectile{
				Owner: SidePlayer, Damage: p.DamageOutput(p.Stats.Damage * or(pw.Power, 0.55)),
				Body: Body{Radius: 5}, TTL: 1.2, Color: "#8fd3ff", SourcePlayer: p.EntityID,
				NoLifesteal: true, IsProc: true, Visual: VisArcaneOrb, Trail: "rgba(149,226,255,0.7)",
			}))
		}

	case item.PowerBarrier:
		p.BarrierValue += or(float64(pw.Shield), 24)
		p.BarrierTimer = math.Max(p.BarrierTimer, or(pw.Duration, 3.2))

	case item.PowerFrostGuard:
		radius := or(float64(pw.Radius), 90)
		for _, h := range w.Enemies() {
			e := h.Unit()
			if !e.Alive || e.Pos.Dist(p.Pos) > radius+e.Radius {
				continue
			}
			p.DealDamage(w, e, p.DamageOutput(p.Stats.Damage*or(pw.Power, 0.7)), HitOpts{NoLifesteal: true, IsProc: true})
			e.ApplySlow(or(pw.Slow, 0.72), or(pw.SlowDuration, 1.8))
		}
		w.Emit(Effect{Kind: FxFrostGuard, Pos: p.Pos, Radius: radius, TTL: 0.18, Color: "rgba(137,196,255,0.42)"})

	case item.PowerTimeWarp:
		p.SkillTimer = math.Max(0, p.SkillTimer-p.SkillCooldown()*or(pw.SkillRefund, 0.45))
		p.RollCooldown = math.Max(0, p.RollCooldown-RollCooldown*or(pw.RollRefund, 0.35))

	case item.PowerMeteor:
		radius := or(float64(pw.Radius), 70)
		p.blast(w, center, radius, or(pw.Power, 0.95))
		w.Emit(Effect{Kind: FxMeteorBlast, Pos: center, Radius: radius, TTL: 0.18, Color: "rgba(255,106,69,0.52)"})

	case item.PowerEcho:
		p.EchoBuffPower = math.Max(p.EchoBuffPower, or(pw.Power, 0.28))
		p.EchoBuffTimer = math.Max(p.EchoBuffTimer, or(pw.Duration, 3.2))

	case item.PowerLuckyStar:
		p.AddGold(max(1, pw.Gold))
		p.GainXP(float64(max(1, pw.XP)))
	}
}

func (p *Player) chainLightning(w World, pw item.Power, from *Enemy) {
	if from == nil {
		return
	}
	hit := mapset.New[EntityID]()
	hit.Put(from.EntityID)
	bounces := pw.Bounces
	if bounces == 0 {
		bounces = 2
	}
	radius := or(float64(pw.Radius), 120)

	for b := 0; b < bounces; b++ {
		var best *Enemy
		bestDist := math.Inf(1)
		for _, h := range w.Enemies() {
			e := h.Unit()
			if !e.Alive || hit.Has(e.EntityID) {
				continue
			}
			if d := e.Pos.Dist(from.Pos); d <= radius && d < bestDist {
				best, bestDist = e, d
			}
		}
		if best == nil {
			return
		}
		hit.Put(best.EntityID)
		from = best
		p.DealDamage(w, best, p.DamageOutput(p.Stats.Damage*or(pw.Power, 0.6)), HitOpts{NoLifesteal: true, IsProc: true})
		w.Emit(Effect{Kind: FxChainLightning, Pos: best.Pos, Radius: best.Radius + 8, TTL: 0.08, Color: "rgba(140,220,255,0.5)"})
	}
}

// blast deals mul times player damage to every enemy within radius of center.
func (p *Player) blast(w World, center geom.Vec, radius, mul float64) {
	for _, h := range w.Enemies() {
		e := h.Unit()
		if !e.Alive || e.Pos.Dist(center) > radius+e.Radius {
			continue
		}
		p.DealDamage(w, e, p.DamageOutput(p.Stats.Damage*mul), HitOpts{NoLifesteal: true, IsProc: true})
	}
}

// TakeDamage applies defense, then barrier, then HP loss. It returns the HP
// actually lost.
func (p *Player) TakeDamage(w World, amount float64, hit PlayerHit) float64 {
	if !p.Alive || p.Invincible {
		return 0
	}
	dmg := amount
	if !hit.IgnoreDefense {
		dmg = amount * (1 - p.Stats.Defense)
	}
	dmg = math.Max(0, dmg)

	if p.BarrierTimer > 0 && p.BarrierValue > 0 && dmg > 0 {
		absorbed := math.Min(p.BarrierValue, dmg)
		p.BarrierValue -= absorbed
		dmg -= absorbed
	}
	if dmg <= 0 {
		return 0
	}

	p.HP -= dmg
	p.hurt()

	if src := hit.Source; src != nil && src.HitSlow != nil {
		p.SlowTimer = math.Max(p.SlowTimer, or(src.HitSlow.Duration, 1.2))
		p.SlowMul = math.Min(p.SlowMul, or(src.HitSlow.Mul, 0.8))
	}
	if !hit.NoProc {
		p.TryTriggerPowers(w, item.OnDamaged, nil, dmg)
	}

	if p.HP <= 0 {
		p.HP = 0
		p.Alive = false
	}
	return dmg
}

// DealDamage rolls a crit, damages e and fires hit, crit and kill procs.
func (p *Player) DealDamage(w World, e *Enemy, base float64, opts HitOpts) float64 {
	if e == nil || !e.Alive {
		return 0
	}
	crit := opts.ForceCrit || w.Rand().Float64() < p.Stats.CritChance
	mul := 1.0
	if crit {
		mul = p.Stats.CritDamage
	}
	amount := math.Max(1, math.Floor(base*mul))
	dealt := e.TakeDamage(w, amount, EnemyHit{Attacker: p})

	if dealt > 0 && !opts.NoLifesteal {
		p.Heal(dealt * p.Stats.LifeSteal)
	}
	if crit && !opts.IsProc {
		w.Emit(Effect{Kind: FxCrit, Pos: e.Pos, Radius: e.Radius + 10, TTL: 0.12, Color: "rgba(255,215,64,0.55)"})
	}
	if dealt > 0 && !opts.IsProc {
		p.TryTriggerPowers(w, item.OnHit, e, dealt)
		if crit {
			p.TryTriggerPowers(w, item.OnCrit, e, dealt)
		}
		if !e.Alive {
			p.TryTriggerPowers(w, item.OnKill, e, dealt)
		}
	}
	return dealt
}
