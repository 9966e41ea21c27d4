package entity

import (
	"math"
	"math/rand"

	"github.com/younwookim/coopcrawl/internal/domain/geom"
	"github.com/younwookim/coopcrawl/internal/domain/item"
)

// Player tuning.
const (
	PlayerRadius      = 14
	StartXPToNext     = 45
	MaxHealsPerRun    = 2
	InventorySize     = 8
	RollCooldown      = 0.8
	minSkillCooldown  = 1.8
	levelUpHealRatio  = 0.3
	potionHealRatio   = 1.0 / 3
	defaultCritDamage = 1.5
)

// Result reasons.
const (
	ReasonBagEmpty         = "bag empty"
	ReasonBagFull          = "bag full"
	ReasonItemNotFound     = "item not found"
	ReasonNotEnoughGold    = "not enough gold"
	ReasonOutOfRange       = "out of range"
	ReasonSoldOut          = "sold out"
	ReasonAlreadyPurchased = "already purchased"
)

// Result reports an inventory or shop operation. Failures carry a reason
// instead of an error because they are routine player feedback.
type Result struct {
	OK       bool
	Reason   string
	Item     *item.Item
	Replaced *item.Item
}

func fail(reason string) Result { return Result{Reason: reason} }

// Controls maps player actions to key names.
type Controls struct {
	Up       string `json:"up"`
	Down     string `json:"down"`
	Left     string `json:"left"`
	Right    string `json:"right"`
	Attack   string `json:"attack"`
	Roll     string `json:"roll"`
	Skill    string `json:"skill"`
	Potion   string `json:"potion"`
	Interact string `json:"interact"`
	BagPrev  string `json:"bagPrev"`
	BagNext  string `json:"bagNext"`
	BagEquip string `json:"bagEquip"`
	BagDrop  string `json:"bagDrop"`
}

// ProcKey identifies one equipped power for cooldown tracking.
type ProcKey struct {
	Slot  item.Slot
	Index int
	Power item.PowerKey
}

// Player is a co-op hero. A dead player keeps its state until revived at a
// level boundary.
type Player struct {
	Body
	Pose

	Tag      string
	Class    item.Class
	Controls Controls
	Skill    SkillDef

	// Base is the class record plus level-up growth; Stats adds equipment.
	Base      item.Stats
	Stats     item.Stats
	Equipment [4]*item.Item
	HP        float64

	AttackTimer  float64
	RollTimer    float64
	RollCooldown float64
	SkillTimer   float64
	Invincible   bool
	LastAim      geom.Vec

	Level    int
	XP       float64
	XPToNext float64
	Gold     int
	Kills    int

	MaxHealsPerRun  int
	Potions         int
	InventorySize   int
	Inventory       []*item.Item
	InventoryCursor int

	procCooldowns map[ProcKey]float64

	DamageBuffTimer float64
	DamageBuffMul   float64
	SpeedBuffTimer  float64
	SpeedBuffMul    float64
	EchoBuffTimer   float64
	EchoBuffPower   float64
	BarrierTimer    float64
	BarrierValue    float64
	SlowTimer       float64
	SlowMul         float64
}

// NewPlayer creates a player of class def at pos with starter gear. The
// first player aims right and the second aims left.
func NewPlayer(rng *rand.Rand, id EntityID, tag string, index int, def ClassDef, controls Controls, pos geom.Vec) *Player {
	aim := geom.V(1, 0)
	if index > 0 {
		aim = geom.V(-1, 0)
	}
	critDmg := def.CritDamage
	if critDmg == 0 {
		critDmg = defaultCritDamage
	}

	p := &Player{
		Body:     Body{EntityID: id, Pos: pos, Radius: PlayerRadius, Alive: true},
		Pose:     Pose{Facing: facingOf(aim.X), AttackDuration: 0.22, HurtDuration: 0.2},
		Tag:      tag,
		Class:    def.Key,
		Controls: controls,
		Skill:    def.Skill,
		Base: item.Stats{
			MaxHP:           def.MaxHP,
			Speed:           def.Speed,
			Damage:          def.Damage,
			AttackCooldown:  def.AttackCooldown,
			RollSpeed:       def.RollSpeed,
			RollDuration:    def.RollDuration,
			ProjectileSpeed: def.ProjectileSpeed,
			Defense:         def.Defense,
			CritChance:      def.CritChance,
			CritDamage:      critDmg,
			LifeSteal:       def.LifeSteal,
		},
		HP:             1,
		LastAim:        aim,
		Level:          1,
		XPToNext:       StartXPToNext,
		MaxHealsPerRun: MaxHealsPerRun,
		Potions:        MaxHealsPerRun,
		InventorySize:  InventorySize,
		procCooldowns:  make(map[ProcKey]float64),
		DamageBuffMul:  1,
		SpeedBuffMul:   1,
		SlowMul:        1,
	}
	p.Equipment[item.SlotWeapon] = item.StarterItem(rng, def.Key)
	p.Equipment[item.SlotArmor] = item.BasicItem(rng, item.SlotArmor)
	p.Equipment[item.SlotBoots] = item.BasicItem(rng, item.SlotBoots)
	p.Equipment[item.SlotAccessory] = item.BasicItem(rng, item.SlotAccessory)

	p.Stats.MaxHP = p.Base.MaxHP
	p.RecalculateStats()
	p.HP = p.Stats.MaxHP
	return p
}

func (p *Player) Kind() Kind { return KindPlayer }

// RecalculateStats rebuilds Stats from Base and equipment. HP moves by the
// change in max HP so equipping keeps the missing-HP amount.
func (p *Player) RecalculateStats() {
	prevMax := p.Stats.MaxHP
	next := p.Base
	for _, it := range p.Equipment {
		if it != nil {
			next = next.Add(it.Bonuses)
		}
	}

	next.AttackCooldown = math.Max(0.08, next.AttackCooldown)
	next.RollDuration = math.Max(0.1, next.RollDuration)
	next.Defense = geom.Clamp(next.Defense, 0, 0.75)
	next.CritChance = geom.Clamp(next.CritChance, 0, 0.85)
	next.CritDamage = math.Max(1.2, next.CritDamage)
	next.LifeSteal = geom.Clamp(next.LifeSteal, 0, 0.5)
	next.SkillHaste = math.Max(0, next.SkillHaste)

	p.Stats = next
	p.HP = geom.Clamp(p.HP+(next.MaxHP-prevMax), 0, next.MaxHP)
}

// Equip puts it in its slot only if it strictly outscores the current item.
func (p *Player) Equip(it *item.Item) bool {
	if it == nil {
		return false
	}
	if !item.Better(it, p.Equipment[it.Slot]) {
		return false
	}
	p.Equipment[it.Slot] = it
	p.RecalculateStats()
	return true
}

// GainXP adds experience and returns the number of levels gained.
func (p *Player) GainXP(amount float64) int {
	p.XP += amount
	leveled := 0
	for p.XP >= p.XPToNext {
		p.XP -= p.XPToNext
		p.Level++
		p.XPToNext = math.Floor(p.XPToNext*1.26 + 12)
		p.Base.MaxHP += 8
		p.Base.Damage += 2
		p.Base.Speed++
		leveled++
	}
	if leveled > 0 {
		p.RecalculateStats()
		p.HP = math.Min(p.Stats.MaxHP, p.HP+p.Stats.MaxHP*levelUpHealRatio)
	}
	return leveled
}

func (p *Player) Heal(amount float64) {
	p.HP = geom.Clamp(p.HP+amount, 0, p.Stats.MaxHP)
}

// UsePotion heals a third of max HP if a potion is left.
func (p *Player) UsePotion() bool {
	if p.Potions <= 0 || !p.Alive {
		return false
	}
	p.Potions--
	p.Heal(p.Stats.MaxHP * potionHealRatio)
	return true
}

// AddPotion refills potions up to the per-run cap.
func (p *Player) AddPotion(n int) {
	p.Potions = min(p.MaxHealsPerRun, p.Potions+n)
}

func (p *Player) AddGold(n int) { p.Gold += n }

// Revive brings a fallen player back with ratio of max HP.
func (p *Player) Revive(ratio float64) {
	if p.Alive {
		return
	}
	p.Alive = true
	p.Invincible = false
	p.RollTimer = 0
	p.HP = math.Max(1, math.Floor(p.Stats.MaxHP*ratio))
}

func (p *Player) normalizeCursor() {
	switch n := len(p.Inventory); {
	case n == 0:
		p.InventoryCursor = 0
	case p.InventoryCursor < 0:
		p.InventoryCursor = n - 1
	case p.InventoryCursor >= n:
		p.InventoryCursor = 0
	}
}

// AddToInventory stores it at the end of the bag.
func (p *Player) AddToInventory(it *item.Item) bool {
	if it == nil || len(p.Inventory) >= p.InventorySize {
		return false
	}
	p.Inventory = append(p.Inventory, it)
	p.normalizeCursor()
	return true
}

// SelectInventory moves the bag cursor by step, wrapping at both ends.
func (p *Player) SelectInventory(step int) {
	if len(p.Inventory) == 0 {
		p.InventoryCursor = 0
		return
	}
	p.InventoryCursor += step
	p.normalizeCursor()
}

// SelectedItem returns the item under the bag cursor.
func (p *Player) SelectedItem() *item.Item {
	if len(p.Inventory) == 0 {
		return nil
	}
	return p.Inventory[geom.ClampInt(p.InventoryCursor, 0, len(p.Inventory)-1)]
}

// EquipFromInventory equips the bag item at index unconditionally. The
// displaced item takes its place in the bag.
func (p *Player) EquipFromInventory(index int) Result {
	if len(p.Inventory) == 0 {
		return fail(ReasonBagEmpty)
	}
	idx := geom.ClampInt(index, 0, len(p.Inventory)-1)
	picked := p.Inventory[idx]
	if picked == nil {
		return fail(ReasonItemNotFound)
	}

	old := p.Equipment[picked.Slot]
	p.Equipment[picked.Slot] = picked
	if old != nil {
		p.Inventory[idx] = old
	} else {
		p.Inventory = append(p.Inventory[:idx], p.Inventory[idx+1:]...)
	}
	p.RecalculateStats()
	p.normalizeCursor()
	return Result{OK: true, Item: picked, Replaced: old}
}

// DropFromInventory discards the bag item at index.
func (p *Player) DropFromInventory(index int) Result {
	if len(p.Inventory) == 0 {
		return fail(ReasonBagEmpty)
	}
	idx := geom.ClampInt(index, 0, len(p.Inventory)-1)
	it := p.Inventory[idx]
	if it == nil {
		return fail(ReasonItemNotFound)
	}
	p.Inventory = append(p.Inventory[:idx], p.Inventory[idx+1:]...)
	p.normalizeCursor()
	return Result{OK: true, Item: it}
}

// SkillCooldown is the class skill cooldown after haste.
func (p *Player) SkillCooldown() float64 {
	return math.Max(minSkillCooldown, p.Skill.Cooldown/(1+p.Stats.SkillHaste))
}

// DamageOutput applies active damage buffs to base.
func (p *Player) DamageOutput(base float64) float64 {
	mul := 1.0
	if p.DamageBuffTimer > 0 {
		mul *= p.DamageBuffMul
	}
	if p.EchoBuffTimer > 0 {
		mul *= 1 + p.EchoBuffPower
	}
	return base * mul
}

// MoveMul combines speed buffs and slows.
func (p *Player) MoveMul() float64 {
	mul := 1.0
	if p.SpeedBuffTimer > 0 {
		mul *= p.SpeedBuffMul
	}
	if p.SlowTimer > 0 {
		mul *= p.SlowMul
	}
	return mul
}

// WeaponTier is the rarity index of the equipped weapon, 0 to 3.
func (p *Player) WeaponTier() int {
	w := p.Equipment[item.SlotWeapon]
	if w == nil {
		return 0
	}
	return int(w.Rarity)
}

// ProcCooldown returns the remaining cooldown of an equipped power.
func (p *Player) ProcCooldown(k ProcKey) float64 { return p.procCooldowns[k] }
