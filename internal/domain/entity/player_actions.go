package entity

import (
	"fmt"
	"math"

	"github.com/younwookim/coopcrawl/internal/domain/geom"
	"github.com/younwookim/coopcrawl/internal/domain/item"
)

// Update runs one frame of player control.
func (p *Player) Update(dt float64, w World) {
	if !p.Alive {
		return
	}
	in := w.Input()

	p.TickProcState(dt)
	p.AttackTimer = math.Max(0, p.AttackTimer-dt)
	p.RollCooldown = math.Max(0, p.RollCooldown-dt)
	p.SkillTimer = math.Max(0, p.SkillTimer-dt)
	p.Pose.tick(dt)
	moveMul := p.MoveMul()

	var raw geom.Vec
	if in.IsDown(p.Controls.Left) {
		raw.X--
	}
	if in.IsDown(p.Controls.Right) {
		raw.X++
	}
	if in.IsDown(p.Controls.Up) {
		raw.Y--
	}
	if in.IsDown(p.Controls.Down) {
		raw.Y++
	}
	move, hasMove := raw.Normalize()
	if hasMove {
		p.LastAim = move
		p.Facing = facingOf(move.X)
	}

	if p.RollTimer > 0 {
		p.RollTimer -= dt
		p.Invincible = true
		p.Moving = true
		step := p.Stats.RollSpeed * math.Max(0.75, moveMul) * dt
		w.MoveEntity(&p.Body, p.LastAim.X*step, p.LastAim.Y*step)
		if p.RollTimer <= 0 {
			p.RollTimer = 0
			p.Invincible = false
		}
		return
	}

	if in.Consume(p.Controls.Roll) && hasMove && p.RollCooldown <= 0 {
		p.RollTimer = p.Stats.RollDuration
		p.RollCooldown = RollCooldown
	} else {
		p.Moving = hasMove
		step := p.Stats.Speed * moveMul * dt
		w.MoveEntity(&p.Body, move.X*step, move.Y*step)
	}

	if in.Consume(p.Controls.Attack) && p.AttackTimer <= 0 {
		speedMul := 1.0
		if p.EchoBuffTimer > 0 {
			speedMul = 1 + p.EchoBuffPower*0.45
		}
		p.AttackTimer = p.Stats.AttackCooldown / speedMul
		p.Attack(w)
	}
	if in.Consume(p.Controls.Skill) && p.SkillTimer <= 0 {
		p.CastSkill(w)
		p.SkillTimer = p.SkillCooldown()
	}
	if in.Consume(p.Controls.Potion) {
		if p.UsePotion() {
			w.SetLog(fmt.Sprintf("%s drank a potion (+1/3 max HP)", p.Tag))
		} else {
			w.SetLog(fmt.Sprintf("%s has no potions left this run", p.Tag))
		}
	}
	p.handleBag(w)
}

func (p *Player) handleBag(w World) {
	in := w.Input()
	if in.Consume(p.Controls.BagPrev) {
		p.SelectInventory(-1)
	}
	if in.Consume(p.Controls.BagNext) {
		p.SelectInventory(1)
	}
	if in.Consume(p.Controls.BagEquip) {
		if r := p.EquipFromInventory(p.InventoryCursor); !r.OK {
			w.SetLog(fmt.Sprintf("%s %s", p.Tag, r.Reason))
		} else {
			w.SetLog(fmt.Sprintf("%s equipped [%s] %s from the bag", p.Tag, r.Item.Rarity.Def().Name, r.Item.Name))
		}
	}
	if in.Consume(p.Controls.BagDrop) {
		if r := p.DropFromInventory(p.InventoryCursor); !r.OK {
			w.SetLog(fmt.Sprintf("%s %s", p.Tag, r.Reason))
		} else {
			w.SetLog(fmt.Sprintf("%s dropped [%s] %s", p.Tag, r.Item.Rarity.Def().Name, r.Item.Name))
		}
	}
}

func pick[T any](tier int, t0, t1, t2, t3 T) T {
	switch {
	case tier >= 3:
		return t3
	case tier >= 2:
		return t2
	case tier >= 1:
		return t1
	default:
		return t0
	}
}

func (p *Player) shoot(w World, dir geom.Vec, speed float64, proj Projectile) {
	proj.Owner = SidePlayer
	proj.SourcePlayer = p.EntityID
	w.SpawnProjectile(NewProjectile(p.Pos, dir.Scale(speed), proj))
}

// Attack performs the class basic attack.
func (p *Player) Attack(w World) {
	p.startAttack(0.24)
	tier := p.WeaponTier()
	ft := float64(tier)

	if p.Class == item.ClassSamurai {
		const reach = 58.0
		for _, h := range w.Enemies() {
			e := h.Unit()
			if !e.Alive {
				continue
			}
			d := e.Pos.Sub(p.Pos)
			dist := d.Len()
			if dist > reach+e.Radius {
				continue
			}
			n := d.Scale(1 / math.Max(dist, 0.001))
			if n.Dot(p.LastAim) < -0.25 {
				continue
			}
			p.DealDamage(w, e, p.DamageOutput(p.Stats.Damage), HitOpts{})
		}
		if wave, ok := p.LastAim.Normalize(); ok {
			p.shoot(w, wave, 300, Projectile{
				Damage: p.DamageOutput(p.Stats.Damage * (0.4 + ft*0.06)), Body: Body{Radius: 5},
				TTL: 0.22 + ft*0.03, Color: "#d8f5ff", NoLifesteal: true, IsProc: true,
				Visual: pick(tier, VisBladeWave, VisBladeWave, VisShadowBlade, VisBossScythe),
				Trail:  pick(tier, "rgba(188,232,255,0.4)", "rgba(188,232,255,0.4)", "rgba(232,176,255,0.46)", "rgba(232,176,255,0.46)"),
			})
		}
		w.Emit(Effect{Kind: FxSwordArc, Pos: p.Pos, Radius: reach, TTL: 0.13, Color: "rgba(255,185,120,0.55)", Dir: p.LastAim})
		if tier >= 2 {
			w.Emit(Effect{Kind: FxTrailSlash, Pos: p.Pos, Radius: reach + 12, TTL: 0.14, Color: "rgba(227,171,255,0.4)", Dir: p.LastAim})
		}
		return
	}

	dir, ok := p.LastAim.Normalize()
	if !ok {
		return
	}
	speed := p.Stats.ProjectileSpeed
	switch p.Class {
	case item.ClassArcher:
		p.shoot(w, dir, speed*(1+ft*0.04), Projectile{
			Damage: p.DamageOutput(p.Stats.Damage * (1 + ft*0.06)), Body: Body{Radius: 5 + boolf(tier >= 2)},
			TTL: 1.4 + ft*0.05, Color: "#9be564",
			Visual: pick(tier, VisArrow, VisArrow, VisBossLance, VisStarLance),
			Trail:  pick(tier, "rgba(170,245,118,0.5)", "rgba(170,245,118,0.5)", "rgba(210,164,255,0.54)", "rgba(210,164,255,0.54)"),
		})
		w.Emit(Effect{Kind: FxArcBurst, Pos: p.Pos.Add(dir.Scale(18)), Radius: 24 + ft*5, TTL: 0.1,
			Color: pick(tier, "rgba(188,255,122,0.35)", "rgba(188,255,122,0.35)", "rgba(212,166,255,0.38)", "rgba(212,166,255,0.38)")})
	case item.ClassMage:
		p.shoot(w, dir, speed, Projectile{
			Damage: p.DamageOutput(p.Stats.Damage * (1 + ft*0.08)), Body: Body{Radius: pick(tier, 8.0, 8, 7, 7)},
			TTL: 1.2 + ft*0.06, Color: "#8ec5ff", Splash: 34 + ft*6,
			Visual: pick(tier, VisMagicOrb, VisArcaneOrb, VisVoidSpike, VisPlasmaOrb),
			Trail:  pick(tier, "rgba(142,197,255,0.55)", "rgba(142,197,255,0.55)", "rgba(228,167,255,0.54)", "rgba(228,167,255,0.54)"),
		})
		w.Emit(Effect{Kind: FxArcaneBurst, Pos: p.Pos.Add(dir.Scale(16)), Radius: 26 + ft*5, TTL: 0.12,
			Color: pick(tier, "rgba(154,214,255,0.35)", "rgba(154,214,255,0.35)", "rgba(154,214,255,0.35)", "rgba(255,183,117,0.4)")})
	}
}

func boolf(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// CastSkill performs the class skill and fires on-skill procs.
func (p *Player) CastSkill(w World) {
	p.startAttack(0.34)
	tier := p.WeaponTier()
	ft := float64(tier)

	switch p.Class {
	case item.ClassSamurai:
		radius := 96 + ft*10
		for _, h := range w.Enemies() {
			e := h.Unit()
			if e.Alive && e.Pos.Dist(p.Pos) <= radius+e.Radius {
				p.DealDamage(w, e, p.DamageOutput(p.Stats.Damage*(1.58+ft*0.11)), HitOpts{ForceCrit: true})
			}
		}
		w.Emit(Effect{Kind: FxSamuraiSkill, Pos: p.Pos, Radius: radius, TTL: 0.22, Color: "rgba(255,140,102,0.55)", Dir: p.LastAim})
		w.Emit(Effect{Kind: FxSamuraiBloom, Pos: p.Pos, Radius: radius * 0.78, TTL: 0.22,
			Color: pick(tier, "rgba(255,227,176,0.45)", "rgba(255,227,176,0.45)", "rgba(244,162,255,0.46)", "rgba(244,162,255,0.46)")})
		petals := 8 + tier*2
		for i := 0; i < petals; i++ {
			a := math.Pi * 2 * float64(i) / float64(petals)
			p.shoot(w, geom.FromAngle(a), 320, Projectile{
				Damage: p.DamageOutput(p.Stats.Damage * (0.3 + ft*0.05)), Body: Body{Radius: 4},
				TTL: 0.38 + ft*0.04, Color: "#e9f7ff", NoLifesteal: true, IsProc: true,
				Visual: pick(tier, VisBladeWave, VisBladeWave, VisShadowBlade, VisBossScythe),
				Trail:  pick(tier, "rgba(188,234,255,0.45)", "rgba(188,234,255,0.45)", "rgba(232,176,255,0.5)", "rgba(232,176,255,0.5)"),
			})
		}

	case item.ClassArcher:
		aim, ok := p.LastAim.Normalize()
		if !ok {
			return
		}
		count := 3 + tier
		spread := 0.42 + ft*0.07
		for i := 0; i < count; i++ {
			dir := aim.Rotate(geom.Spread(i, count, spread))
			p.shoot(w, dir, p.Stats.ProjectileSpeed*(1+ft*0.05), Projectile{
				Damage: p.DamageOutput(p.Stats.Damage * (1.02 + ft*0.08)), Body: Body{Radius: 5 + boolf(tier >= 2)},
				TTL: 1.45 + ft*0.06, Color: "#b9ff7a",
				Visual: pick(tier, VisArrow, VisArrow, VisBossLance, VisStarLance),
				Trail:  pick(tier, "rgba(188,255,122,0.55)", "rgba(188,255,122,0.55)", "rgba(216,171,255,0.55)", "rgba(216,171,255,0.55)"),
			})
		}
		if tier >= 2 {
			for _, side := range [...]float64{-0.34, 0.34} {
				p.shoot(w, aim.Rotate(side), p.Stats.ProjectileSpeed*0.88, Projectile{
					Damage: p.DamageOutput(p.Stats.Damage * 0.55), Body: Body{Radius: 4}, TTL: 1.05,
					Color: "#a8dfff", NoLifesteal: true, IsProc: true, Visual: VisRuneDisc, Trail: "rgba(171,220,255,0.55)",
				})
			}
		}
		w.Emit(Effect{Kind: FxArrowFan, Pos: p.Pos, Radius: 86 + ft*10, TTL: 0.2, Dir: aim,
			Color: pick(tier, "rgba(176,255,145,0.45)", "rgba(176,255,145,0.45)", "rgba(202,166,255,0.45)", "rgba(202,166,255,0.45)")})
		w.Emit(Effect{Kind: FxArcBurst, Pos: p.Pos.Add(aim.Scale(22)), Radius: 48 + ft*8, TTL: 0.16,
			Color: pick(tier, "rgba(182,255,160,0.36)", "rgba(182,255,160,0.36)", "rgba(182,255,160,0.36)", "rgba(255,219,132,0.42)")})

	case item.ClassMage:
		aim, ok := p.LastAim.Normalize()
		if !ok {
			return
		}
		radius := 132 + ft*12
		for _, h := range w.Enemies() {
			e := h.Unit()
			if e.Alive && e.Pos.Dist(p.Pos) <= radius+e.Radius {
				p.DealDamage(w, e, p.DamageOutput(p.Stats.Damage*(1.4+ft*0.1)), HitOpts{ForceCrit: true, NoLifesteal: true})
			}
		}
		w.Emit(Effect{Kind: FxMageSkill, Pos: p.Pos, Radius: radius, TTL: 0.25,
			Color: pick(tier, "rgba(122,191,255,0.48)", "rgba(122,191,255,0.48)", "rgba(175,139,255,0.48)", "rgba(175,139,255,0.48)")})
		w.Emit(Effect{Kind: FxArcaneBurst, Pos: p.Pos, Radius: radius * 0.76, TTL: 0.22,
			Color: pick(tier, "rgba(153,215,255,0.4)", "rgba(153,215,255,0.4)", "rgba(153,215,255,0.4)", "rgba(255,181,118,0.44)")})
		bolts := 6 + tier*2
		for i := 0; i < bolts; i++ {
			a := math.Pi * 2 * float64(i) / float64(bolts)
			p.shoot(w, geom.FromAngle(a), 260, Projectile{
				Damage: p.DamageOutput(p.Stats.Damage * (0.28 + ft*0.04)), Body: Body{Radius: pick(tier, 4.0, 4, 5, 5)},
				TTL: 0.74 + ft*0.08, Color: "#98dfff", NoLifesteal: true, IsProc: true,
				Visual: pick(tier, VisRuneDisc, VisRuneDisc, VisVoidSpike, VisPlasmaOrb),
				Trail:  pick(tier, "rgba(145,230,255,0.48)", "rgba(145,230,255,0.48)", "rgba(209,154,255,0.52)", "rgba(209,154,255,0.52)"),
			})
		}
		if tier >= 3 {
			p.shoot(w, aim, p.Stats.ProjectileSpeed*0.82, Projectile{
				Damage: p.DamageOutput(p.Stats.Damage * 0.92), Body: Body{Radius: 9}, TTL: 1.25,
				Color: "#ffbe6d", Splash: 52, Visual: VisPlasmaOrb, Trail: "rgba(255,188,120,0.58)",
			})
		}

	default:
		return
	}

	p.TryTriggerPowers(w, item.OnSkill, nil, 0)
	w.SetLog(fmt.Sprintf("%s cast %s", p.Tag, p.Skill.Name))
}
