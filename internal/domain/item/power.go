package item

import (
	"math"
	"math/rand"
	"slices"

	"github.com/zyedidia/generic/mapset"

	"github.com/younwookim/coopcrawl/internal/domain/geom"
)

// PowerKey identifies a proc effect.
type PowerKey uint8

const (
	PowerChain PowerKey = iota
	PowerNova
	PowerExecution
	PowerShadowShot
	PowerBloodRush
	PowerArcaneRing
	PowerBarrier
	PowerFrostGuard
	PowerTimeWarp
	PowerMeteor
	PowerEcho
	PowerLuckyStar
)

// Trigger is the combat event that can fire a power.
type Trigger uint8

const (
	OnHit Trigger = iota
	OnKill
	OnDamaged
	OnCrit
	OnSkill
)

var triggerNames = [...]string{OnHit: "on hit", OnKill: "on kill", OnDamaged: "when hit", OnCrit: "on crit", OnSkill: "on skill"}

func (t Trigger) String() string {
	if int(t) >= len(triggerNames) {
		return "?"
	}
	return triggerNames[t]
}

// span is a [min, max] roll range; the zero span means the field is absent.
type span [2]float64

func (s span) set() bool { return s != span{} }

// PowerDef is the roll table of one power.
type PowerDef struct {
	Key          PowerKey
	Name         string
	Trigger      Trigger
	Weight       float64
	Slots        []Slot
	Chance       span
	Cooldown     span
	Power        span
	Bounces      span
	Radius       span
	Threshold    span
	Count        span
	Heal         span
	SpeedMul     span
	DamageMul    span
	Duration     span
	Bolts        span
	Shield       span
	Slow         span
	SlowDuration span
	SkillRefund  span
	RollRefund   span
	Gold         span
	XP           span
}

var powerDefs = []PowerDef{
	{Key: PowerChain, Name: "Chain Lightning", Trigger: OnHit, Weight: 12, Slots: []Slot{SlotWeapon, SlotAccessory},
		Chance: span{0.12, 0.24}, Cooldown: span{1.3, 2.2}, Power: span{0.35, 0.75}, Bounces: span{2, 5}, Radius: span{95, 145}},
	{Key: PowerNova, Name: "Flame Nova", Trigger: OnHit, Weight: 10, Slots: []Slot{SlotWeapon, SlotArmor},
		Chance: span{0.12, 0.22}, Cooldown: span{1.8, 2.8}, Power: span{0.45, 0.95}, Radius: span{48, 84}},
	{Key: PowerExecution, Name: "Execution", Trigger: OnHit, Weight: 8, Slots: []Slot{SlotWeapon},
		Chance: span{0.09, 0.2}, Cooldown: span{1.7, 2.6}, Power: span{0.2, 0.45}, Threshold: span{0.15, 0.32}},
	{Key: PowerShadowShot, Name: "Shadow Blades", Trigger: OnHit, Weight: 10, Slots: []Slot{SlotWeapon, SlotBoots},
		Chance: span{0.14, 0.26}, Cooldown: span{1.1, 1.9}, Power: span{0.5, 0.9}, Count: span{2, 4}},
	{Key: PowerBloodRush, Name: "Blood Rush", Trigger: OnKill, Weight: 9, Slots: []Slot{SlotWeapon, SlotBoots, SlotAccessory},
		Chance: span{0.22, 0.42}, Cooldown: span{4.2, 6.4}, Heal: span{8, 26}, SpeedMul: span{1.08, 1.28},
		DamageMul: span{1.08, 1.26}, Duration: span{1.8, 3.8}},
	{Key: PowerArcaneRing, Name: "Arcane Ring", Trigger: OnSkill, Weight: 9, Slots: []Slot{SlotAccessory, SlotWeapon},
		Chance: span{0.26, 0.48}, Cooldown: span{4.6, 7.8}, Power: span{0.35, 0.8}, Bolts: span{6, 12}},
	{Key: PowerBarrier, Name: "Phase Barrier", Trigger: OnDamaged, Weight: 10, Slots: []Slot{SlotArmor, SlotAccessory},
		Chance: span{0.16, 0.3}, Cooldown: span{5, 8}, Shield: span{14, 58}, Duration: span{2.2, 4.8}},
	{Key: PowerFrostGuard, Name: "Frost Guard", Trigger: OnDamaged, Weight: 8, Slots: []Slot{SlotArmor, SlotBoots},
		Chance: span{0.18, 0.32}, Cooldown: span{3.4, 5.8}, Power: span{0.4, 0.9}, Radius: span{72, 130},
		Slow: span{0.65, 0.84}, SlowDuration: span{1.2, 2.8}},
	{Key: PowerTimeWarp, Name: "Time Warp", Trigger: OnCrit, Weight: 7, Slots: []Slot{SlotAccessory, SlotBoots},
		Chance: span{0.14, 0.28}, Cooldown: span{3.6, 6.2}, SkillRefund: span{0.35, 0.72}, RollRefund: span{0.22, 0.56}},
	{Key: PowerMeteor, Name: "Meteor", Trigger: OnCrit, Weight: 7, Slots: []Slot{SlotWeapon, SlotAccessory},
		Chance: span{0.12, 0.24}, Cooldown: span{2.8, 4.6}, Power: span{0.65, 1.25}, Radius: span{55, 95}},
	{Key: PowerEcho, Name: "Battle Echo", Trigger: OnSkill, Weight: 8, Slots: []Slot{SlotWeapon, SlotArmor, SlotAccessory},
		Chance: span{0.2, 0.42}, Cooldown: span{3.8, 6.5}, Power: span{0.2, 0.5}, Duration: span{2.4, 4.8}},
	{Key: PowerLuckyStar, Name: "Lucky Star", Trigger: OnHit, Weight: 7, Slots: []Slot{SlotAccessory},
		Chance: span{0.08, 0.18}, Cooldown: span{1.1, 2.3}, Gold: span{1, 4}, XP: span{1, 4}},
}

// PowerDefs returns the power catalogue.
func PowerDefs() []PowerDef { return powerDefs }

func (k PowerKey) String() string {
	switch k {
	case PowerChain:
		return "chain"
	case PowerNova:
		return "nova"
	case PowerExecution:
		return "execution"
	case PowerShadowShot:
		return "shadow_shot"
	case PowerBloodRush:
		return "blood_rush"
	case PowerArcaneRing:
		return "arcane_ring"
	case PowerBarrier:
		return "barrier"
	case PowerFrostGuard:
		return "frost_guard"
	case PowerTimeWarp:
		return "time_warp"
	case PowerMeteor:
		return "meteor"
	case PowerEcho:
		return "echo"
	case PowerLuckyStar:
		return "lucky_star"
	default:
		return "unknown"
	}
}

// Power is a rolled proc effect. Fields a power's definition does not roll
// stay zero.
type Power struct {
	Key          PowerKey
	Name         string
	Trigger      Trigger
	Slot         Slot
	Chance       float64
	Cooldown     float64
	Power        float64
	Radius       int
	Bounces      int
	Count        int
	Threshold    float64
	Heal         int
	SpeedMul     float64
	DamageMul    float64
	Duration     float64
	Bolts        int
	Shield       int
	Slow         float64
	SlowDuration float64
	SkillRefund  float64
	RollRefund   float64
	Gold         int
	XP           int
}

// rollInRange samples r and stretches the result by quality.
func rollInRange(rng *rand.Rand, r span, qualityMul float64) float64 {
	return geom.RandFloat(rng, r[0], r[1]) * (1 + (qualityMul-1)*0.65)
}

func floorInt(x float64) int { return int(math.Floor(x)) }

// MakePower rolls every field of def for an item of the given rarity.
func MakePower(rng *rand.Rand, def PowerDef, slot Slot, rarity Rarity, powerScale float64) Power {
	q := rarity.Mul() * powerScale
	p := Power{
		Key:      def.Key,
		Name:     def.Name,
		Trigger:  def.Trigger,
		Slot:     slot,
		Chance:   geom.Clamp(rollInRange(rng, def.Chance, q), 0.04, 0.9),
		Cooldown: math.Max(0.3, geom.RandFloat(rng, def.Cooldown[0], def.Cooldown[1])/(1+(q-1)*0.45)),
	}
	if def.Power.set() {
		p.Power = rollInRange(rng, def.Power, q)
	}
	if def.Radius.set() {
		p.Radius = floorInt(rollInRange(rng, def.Radius, q))
	}
	if def.Bounces.set() {
		p.Bounces = max(1, floorInt(rollInRange(rng, def.Bounces, q)))
	}
	if def.Count.set() {
		p.Count = max(1, floorInt(rollInRange(rng, def.Count, q)))
	}
	if def.Threshold.set() {
		p.Threshold = geom.Clamp(rollInRange(rng, def.Threshold, q), 0.1, 0.5)
	}
	if def.Heal.set() {
		p.Heal = floorInt(rollInRange(rng, def.Heal, q))
	}
	if def.SpeedMul.set() {
		p.SpeedMul = rollInRange(rng, def.SpeedMul, q)
	}
	if def.DamageMul.set() {
		p.DamageMul = rollInRange(rng, def.DamageMul, q)
	}
	if def.Duration.set() {
		p.Duration = rollInRange(rng, def.Duration, q)
	}
	if def.Bolts.set() {
		p.Bolts = max(4, floorInt(rollInRange(rng, def.Bolts, q)))
	}
	if def.Shield.set() {
		p.Shield = floorInt(rollInRange(rng, def.Shield, q))
	}
	if def.Slow.set() {
		p.Slow = geom.Clamp(rollInRange(rng, def.Slow, q), 0.4, 0.95)
	}
	if def.SlowDuration.set() {
		p.SlowDuration = rollInRange(rng, def.SlowDuration, q)
	}
	if def.SkillRefund.set() {
		p.SkillRefund = geom.Clamp(rollInRange(rng, def.SkillRefund, q), 0.15, 0.95)
	}
	if def.RollRefund.set() {
		p.RollRefund = geom.Clamp(rollInRange(rng, def.RollRefund, q), 0.1, 0.95)
	}
	if def.Gold.set() {
		p.Gold = max(1, floorInt(rollInRange(rng, def.Gold, q)))
	}
	if def.XP.set() {
		p.XP = max(1, floorInt(rollInRange(rng, def.XP, q)))
	}
	return p
}

// RollProcCount decides how many powers an item of rarity r carries.
func RollProcCount(rng *rand.Rand, r Rarity, powerScale float64) int {
	extra := geom.Clamp((powerScale-1)*0.55, 0, 0.45)
	bonus := func(p float64) int {
		if geom.Chance(rng, p) {
			return 1
		}
		return 0
	}
	switch r {
	case Legendary:
		return geom.RandInt(rng, 2, 4) + bonus(extra)
	case Epic:
		return geom.RandInt(rng, 1, 3) + bonus(extra*0.75)
	case Rare:
		return bonus(0.75 + extra*0.4)
	default:
		return bonus(0.28 + extra*0.5)
	}
}

// makeRandomPowers rolls distinct powers allowed in slot.
func makeRandomPowers(rng *rand.Rand, slot Slot, r Rarity, powerScale float64) []Power {
	count := RollProcCount(rng, r, powerScale)
	if count <= 0 {
		return nil
	}

	allowed := make([]PowerDef, 0, len(powerDefs))
	for _, d := range powerDefs {
		if slices.Contains(d.Slots, slot) {
			allowed = append(allowed, d)
		}
	}

	used := mapset.New[PowerKey]()
	out := make([]Power, 0, count)
	for i := 0; i < count; i++ {
		pool := make([]PowerDef, 0, len(allowed))
		for _, d := range allowed {
			if !used.Has(d.Key) {
				pool = append(pool, d)
			}
		}
		def, ok := geom.PickWeighted(rng, pool, func(d PowerDef) float64 { return d.Weight })
		if !ok {
			break
		}
		used.Put(def.Key)
		out = append(out, MakePower(rng, def, slot, r, powerScale))
	}
	return out
}
