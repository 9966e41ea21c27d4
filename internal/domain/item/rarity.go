// Package item generates equipment: rarity rolls, stat bonuses, proc powers
// and the score used for auto-equip gating and shop pricing.
package item

// Rarity is an ordered item quality tier.
type Rarity uint8

const (
	Common Rarity = iota
	Rare
	Epic
	Legendary
)

// RarityDef holds the tuning of one rarity tier.
type RarityDef struct {
	Key    string
	Name   string
	Mul    float64
	Weight float64
	Color  string
}

var rarityDefs = [...]RarityDef{
	Common:    {Key: "common", Name: "Common", Mul: 1, Weight: 64, Color: "#cfd8dc"},
	Rare:      {Key: "rare", Name: "Rare", Mul: 1.22, Weight: 26, Color: "#64b5f6"},
	Epic:      {Key: "epic", Name: "Epic", Mul: 1.5, Weight: 8, Color: "#ba68c8"},
	Legendary: {Key: "legendary", Name: "Legendary", Mul: 1.9, Weight: 2, Color: "#ffb74d"},
}

// Rarities lists every tier from lowest to highest.
var Rarities = []Rarity{Common, Rare, Epic, Legendary}

// Def returns the tuning of r. Unknown values resolve to common.
func (r Rarity) Def() RarityDef {
	if int(r) >= len(rarityDefs) {
		return rarityDefs[Common]
	}
	return rarityDefs[r]
}

func (r Rarity) String() string { return r.Def().Key }

// Mul is the stat and power multiplier of r.
func (r Rarity) Mul() float64 { return r.Def().Mul }

// ParseRarity resolves a rarity key such as "epic".
func ParseRarity(key string) (Rarity, bool) {
	for i, d := range rarityDefs {
		if d.Key == key {
			return Rarity(i), true
		}
	}
	return Common, false
}

// higher returns the higher of two tiers.
func higher(a, b Rarity) Rarity {
	if b > a {
		return b
	}
	return a
}
