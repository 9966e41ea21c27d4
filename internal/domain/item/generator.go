package item

import (
	"math"
	"math/rand"

	"github.com/younwookim/coopcrawl/internal/domain/geom"
)

// Growth is the item scaling profile of one growth tier.
type Growth struct {
	MinRarity   Rarity
	StatScale   float64
	PowerScale  float64
	RarityBoost float64
}

var growthCurve = []Growth{
	{Common, 1, 1, 0},
	{Common, 1.08, 1.05, 0.18},
	{Rare, 1.16, 1.1, 0.28},
	{Rare, 1.26, 1.16, 0.4},
	{Epic, 1.38, 1.23, 0.55},
	{Epic, 1.52, 1.3, 0.72},
	{Legendary, 1.68, 1.38, 0.9},
}

// GrowthTier maps a level index to its growth tier, three levels per tier.
func GrowthTier(level int) int {
	return (max(1, level) - 1) / 3
}

// GrowthFor returns the growth profile for a level. Tiers past the tuned
// curve extrapolate from its last row.
func GrowthFor(level int) Growth {
	tier := GrowthTier(level)
	last := len(growthCurve) - 1
	if tier <= last {
		return growthCurve[tier]
	}
	extra := float64(tier - last)
	g := growthCurve[last]
	return Growth{
		MinRarity:   g.MinRarity,
		StatScale:   g.StatScale * (1 + extra*0.08),
		PowerScale:  g.PowerScale * (1 + extra*0.07),
		RarityBoost: math.Min(1.45, g.RarityBoost+extra*0.08),
	}
}

// PickRarity rolls a tier at or above floor. Higher tiers gain weight as boost
// grows; the bonus counts tiers above floor, not above Common.
func PickRarity(rng *rand.Rand, floor Rarity, boost float64) Rarity {
	boost = geom.Clamp(boost, 0, 2.5)
	floor = min(floor, Legendary)
	pool := Rarities[floor:]
	r, ok := geom.PickWeighted(rng, pool, func(r Rarity) float64 {
		return r.Def().Weight * (1 + boost*float64(r-floor))
	})
	if !ok {
		return floor
	}
	return r
}

// Options tunes MakeRandomItem beyond the level growth profile. Zero values
// mean "use the growth profile alone".
type Options struct {
	Level       int
	MinRarity   Rarity
	StatScale   float64
	PowerScale  float64
	RarityBoost float64
}

var prefixes = [...][]string{
	SlotWeapon:    {"Tempered", "Runed", "Storm", "Ember"},
	SlotArmor:     {"Warden", "Scaled", "Bastion", "Mossweave"},
	SlotBoots:     {"Swift", "Shadow", "Windstep", "Tracker's"},
	SlotAccessory: {"Moonlit", "Gilded", "Arcane", "Lucky"},
}

func scaleOr1(v float64) float64 {
	if v == 0 {
		return 1
	}
	return math.Max(0.2, v)
}

// MakeRandomItem rolls a random item for the given depth.
func MakeRandomItem(rng *rand.Rand, opts Options) *Item {
	g := GrowthFor(opts.Level)
	minRarity := higher(g.MinRarity, opts.MinRarity)
	statScale := g.StatScale * scaleOr1(opts.StatScale)
	powerScale := g.PowerScale * scaleOr1(opts.PowerScale)
	boost := g.RarityBoost + math.Max(0, opts.RarityBoost)

	rarity := PickRarity(rng, minRarity, boost)
	slot := Slots[rng.Intn(len(Slots))]
	names := prefixes[slot]
	prefix := names[rng.Intn(len(names))]
	q := rarity.Mul() * statScale

	var b Stats
	switch slot {
	case SlotWeapon:
		b.Damage = math.Floor(float64(geom.RandInt(rng, 4, 11)) * q)
		if geom.Chance(rng, 0.35) {
			b.AttackCooldown = -geom.RandFloat(rng, 0.02, 0.06) * q
		}
		if geom.Chance(rng, 0.5) {
			b.CritChance = geom.RandFloat(rng, 0.02, 0.08) * q
		}
	case SlotArmor:
		b.MaxHP = math.Floor(float64(geom.RandInt(rng, 12, 36)) * q)
		if geom.Chance(rng, 0.8) {
			b.Defense = geom.RandFloat(rng, 0.02, 0.08) * q
		}
	case SlotBoots:
		b.Speed = math.Floor(float64(geom.RandInt(rng, 10, 26)) * q)
		if geom.Chance(rng, 0.3) {
			b.RollDuration = -geom.RandFloat(rng, 0.02, 0.06) * q
		}
		if geom.Chance(rng, 0.4) {
			b.SkillHaste = geom.RandFloat(rng, 0.03, 0.1) * q
		}
	case SlotAccessory:
		b.Damage = math.Floor(float64(geom.RandInt(rng, 2, 8)) * q)
		if geom.Chance(rng, 0.5) {
			b.MaxHP = math.Floor(float64(geom.RandInt(rng, 6, 16)) * q)
		}
		if geom.Chance(rng, 0.2) {
			b.Speed = math.Floor(float64(geom.RandInt(rng, 4, 14)) * q)
		}
		if geom.Chance(rng, 0.45) {
			b.LifeSteal = geom.RandFloat(rng, 0.01, 0.05) * q
		}
		if geom.Chance(rng, 0.45) {
			b.CritDamage = geom.RandFloat(rng, 0.05, 0.2) * q
		}
	}

	return &Item{
		ID:      newID(rng),
		Name:    prefix + " " + slot.Label(),
		Slot:    slot,
		Rarity:  rarity,
		Bonuses: b,
		Powers:  makeRandomPowers(rng, slot, rarity, powerScale),
	}
}
