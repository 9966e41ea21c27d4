package entity

import (
	"math"

	"github.com/younwookim/coopcrawl/internal/domain/geom"
)

// Side is the team a projectile damages.
type Side uint8

const (
	SidePlayer Side = iota
	SideEnemy
)

// Visual tags a projectile's look for renderers.
type Visual string

const (
	VisOrb         Visual = "orb"
	VisArrow       Visual = "arrow"
	VisEnemySpear  Visual = "enemy_spear"
	VisStarLance   Visual = "star_lance"
	VisBossLance   Visual = "boss_lance"
	VisBladeWave   Visual = "blade_wave"
	VisShadowBlade Visual = "shadow_blade"
	VisRuneDisc    Visual = "rune_disc"
	VisVoidSpike   Visual = "void_spike"
	VisMagicOrb    Visual = "magic_orb"
	VisArcaneOrb   Visual = "arcane_orb"
	VisEnemyArcane Visual = "enemy_arcane"
	VisPlasmaOrb   Visual = "plasma_orb"
	VisEnemyBurst  Visual = "enemy_burst"
	VisBossPetal   Visual = "enemy_boss_petal"
	VisBossScythe  Visual = "boss_scythe"
	VisEnemyBolt   Visual = "enemy_bolt"
)

// Projectile is a moving circle that damages the first opposing entity it
// touches. Sources are weak references resolved through the World.
type Projectile struct {
	Body
	Vel          geom.Vec
	Owner        Side
	Damage       float64
	TTL          float64
	Splash       float64
	SourcePlayer EntityID
	SourceEnemy  EntityID
	ForceCrit    bool
	NoLifesteal  bool
	IsProc       bool
	Color        string
	Trail        string
	Visual       Visual
}

// NewProjectile creates a live projectile. A zero radius defaults to 4.
func NewProjectile(pos, vel geom.Vec, p Projectile) *Projectile {
	p.Pos = pos
	p.Vel = vel
	p.Alive = true
	if p.Radius == 0 {
		p.Radius = 4
	}
	if p.Visual == "" {
		p.Visual = VisOrb
	}
	return &p
}

func (p *Projectile) Kind() Kind { return KindProjectile }

// Angle is the heading renderers rotate the sprite by.
func (p *Projectile) Angle() float64 { return math.Atan2(p.Vel.Y, p.Vel.X) }

// Update moves the projectile and resolves at most one hit.
func (p *Projectile) Update(dt float64, w World) {
	if !p.Alive {
		return
	}
	p.TTL -= dt
	if p.TTL <= 0 {
		p.Alive = false
		return
	}

	p.Pos = p.Pos.Add(p.Vel.Scale(dt))
	if w.Map().CircleCollides(p.Pos, p.Radius) {
		p.Alive = false
		return
	}

	if p.Owner == SidePlayer {
		p.hitEnemies(w)
		return
	}
	p.hitPlayers(w)
}

func (p *Projectile) hitEnemies(w World) {
	src, hasSrc := w.Player(p.SourcePlayer)
	for _, h := range w.Enemies() {
		e := h.Unit()
		if !e.Alive || !p.Touches(&e.Body, 0) {
			continue
		}

		var done float64
		if hasSrc {
			done = src.DealDamage(w, e, p.Damage, HitOpts{ForceCrit: p.ForceCrit, NoLifesteal: p.NoLifesteal, IsProc: p.IsProc})
		} else {
			done = e.TakeDamage(w, p.Damage, EnemyHit{})
		}

		if p.Splash > 0 {
			p.splashAround(w, e, src, hasSrc)
		}

		p.Alive = false
		if done > 0 {
			w.Emit(Effect{Kind: FxHit, Pos: e.Pos, Radius: e.Radius + 6, TTL: 0.08, Color: "rgba(255,255,255,0.35)"})
		}
		return
	}
}

func (p *Projectile) splashAround(w World, primary *Enemy, src *Player, hasSrc bool) {
	splash := math.Floor(p.Damage * 0.5)
	for _, h := range w.Enemies() {
		around := h.Unit()
		if !around.Alive || around == primary {
			continue
		}
		if around.Pos.Dist(p.Pos) > p.Splash+around.Radius {
			continue
		}
		if hasSrc {
			src.DealDamage(w, around, splash, HitOpts{NoLifesteal: true, IsProc: true})
		} else {
			around.TakeDamage(w, splash, EnemyHit{})
		}
	}
	w.Emit(Effect{Kind: FxCircle, Pos: p.Pos, Radius: p.Splash, TTL: 0.16, Color: "rgba(142,197,255,0.4)"})
}

func (p *Projectile) hitPlayers(w World) {
	src, _ := w.Enemy(p.SourceEnemy)
	for _, pl := range w.Players() {
		if !pl.Alive || !p.Touches(&pl.Body, 0) {
			continue
		}
		pl.TakeDamage(w, p.Damage, PlayerHit{Source: src})
		p.Alive = false
		return
	}
}
