package item

import (
	"math"
	"math/rand"

	"github.com/google/uuid"
)

// Slot is an equipment slot.
type Slot uint8

const (
	SlotWeapon Slot = iota
	SlotArmor
	SlotBoots
	SlotAccessory
)

// Slots lists every equipment slot in display order.
var Slots = []Slot{SlotWeapon, SlotArmor, SlotBoots, SlotAccessory}

var slotLabels = [...]string{
	SlotWeapon:    "Weapon",
	SlotArmor:     "Armor",
	SlotBoots:     "Boots",
	SlotAccessory: "Accessory",
}

// Label is the display name of s.
func (s Slot) Label() string {
	if int(s) >= len(slotLabels) {
		return "?"
	}
	return slotLabels[s]
}

func (s Slot) String() string { return s.Label() }

// Item is a generated piece of equipment. Items are never mutated after
// generation; moving one between loot, bag, slot and shop moves the pointer.
type Item struct {
	ID      uuid.UUID
	Name    string
	Slot    Slot
	Rarity  Rarity
	Bonuses Stats
	Powers  []Power
}

// Class is a playable class key as used by starter gear.
type Class string

const (
	ClassSamurai Class = "samurai"
	ClassArcher  Class = "archer"
	ClassMage    Class = "mage"
)

func newID(rng *rand.Rand) uuid.UUID {
	if rng == nil {
		return uuid.New()
	}
	id, err := uuid.NewRandomFromReader(rng)
	if err != nil {
		return uuid.New()
	}
	return id
}

// StarterItem returns the class weapon every new player starts with.
func StarterItem(rng *rand.Rand, class Class) *Item {
	it := &Item{ID: newID(rng), Slot: SlotWeapon, Rarity: Common}
	switch class {
	case ClassArcher:
		it.Name = "Hardwood Longbow"
		it.Bonuses = Stats{Damage: 4, AttackCooldown: -0.03, CritChance: 0.04}
	case ClassMage:
		it.Name = "Apprentice Staff"
		it.Bonuses = Stats{Damage: 5, ProjectileSpeed: 30, SkillHaste: 0.05}
	default:
		it.Name = "Samurai Katana"
		it.Bonuses = Stats{Damage: 6, CritChance: 0.03}
	}
	return it
}

// BasicItem returns the placeholder gear for a slot.
func BasicItem(rng *rand.Rand, slot Slot) *Item {
	it := &Item{ID: newID(rng), Name: "Basic " + slot.Label(), Slot: slot, Rarity: Common}
	switch slot {
	case SlotWeapon:
		it.Bonuses = Stats{Damage: 2, CritChance: 0.01}
	case SlotArmor:
		it.Bonuses = Stats{MaxHP: 8, Defense: 0.02}
	case SlotBoots:
		it.Bonuses = Stats{Speed: 6}
	case SlotAccessory:
		it.Bonuses = Stats{Damage: 1, SkillHaste: 0.03}
	}
	return it
}

// Score rates an item for equip gating and shop pricing. A nil item scores
// negative infinity so any real item beats an empty slot.
func Score(it *Item) float64 {
	if it == nil {
		return math.Inf(-1)
	}
	b := it.Bonuses
	s := b.Damage*1.5 +
		b.MaxHP*0.2 +
		b.Speed*0.15 +
		b.ProjectileSpeed*0.06 +
		b.CritChance*120 +
		b.CritDamage*90 +
		b.LifeSteal*140 +
		b.Defense*130 +
		b.SkillHaste*100
	if b.AttackCooldown < 0 {
		s += -b.AttackCooldown * 120
	}
	if b.RollDuration < 0 {
		s += -b.RollDuration * 70
	}
	for _, p := range it.Powers {
		s += p.Chance*180 + (1/math.Max(0.3, p.Cooldown))*70 + p.Power*120
	}
	return s
}

// Better reports whether candidate strictly outscores current.
func Better(candidate, current *Item) bool {
	return Score(candidate) > Score(current)
}
