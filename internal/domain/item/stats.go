package item

// Stats is the full combat stat record. Items carry one as their bonus
// record, where a zero field means no bonus.
type Stats struct {
	MaxHP           float64
	Speed           float64
	Damage          float64
	AttackCooldown  float64
	RollSpeed       float64
	RollDuration    float64
	ProjectileSpeed float64
	Defense         float64
	CritChance      float64
	CritDamage      float64
	LifeSteal       float64
	SkillHaste      float64
}

// Add returns the field-wise sum of s and o.
func (s Stats) Add(o Stats) Stats {
	return Stats{
		MaxHP:           s.MaxHP + o.MaxHP,
		Speed:           s.Speed + o.Speed,
		Damage:          s.Damage + o.Damage,
		AttackCooldown:  s.AttackCooldown + o.AttackCooldown,
		RollSpeed:       s.RollSpeed + o.RollSpeed,
		RollDuration:    s.RollDuration + o.RollDuration,
		ProjectileSpeed: s.ProjectileSpeed + o.ProjectileSpeed,
		Defense:         s.Defense + o.Defense,
		CritChance:      s.CritChance + o.CritChance,
		CritDamage:      s.CritDamage + o.CritDamage,
		LifeSteal:       s.LifeSteal + o.LifeSteal,
		SkillHaste:      s.SkillHaste + o.SkillHaste,
	}
}

// StatKey names one field of Stats.
type StatKey uint8

const (
	StatMaxHP StatKey = iota
	StatSpeed
	StatDamage
	StatAttackCooldown
	StatRollSpeed
	StatRollDuration
	StatProjectileSpeed
	StatDefense
	StatCritChance
	StatCritDamage
	StatLifeSteal
	StatSkillHaste
)

var statLabels = [...]string{
	StatMaxHP:           "HP",
	StatSpeed:           "Speed",
	StatDamage:          "Attack",
	StatAttackCooldown:  "Attack Speed",
	StatRollSpeed:       "Roll Speed",
	StatRollDuration:    "Roll Time",
	StatProjectileSpeed: "Projectile Speed",
	StatDefense:         "Defense",
	StatCritChance:      "Crit",
	StatCritDamage:      "Crit Damage",
	StatLifeSteal:       "Lifesteal",
	StatSkillHaste:      "Skill Haste",
}

// Label is the display name of k.
func (k StatKey) Label() string {
	if int(k) >= len(statLabels) {
		return "?"
	}
	return statLabels[k]
}

// Bonus is one non-zero stat delta.
type Bonus struct {
	Key   StatKey
	Value float64
}

// Entries lists the non-zero fields of s in display order.
func (s Stats) Entries() []Bonus {
	all := [...]Bonus{
		{StatMaxHP, s.MaxHP},
		{StatSpeed, s.Speed},
		{StatDamage, s.Damage},
		{StatAttackCooldown, s.AttackCooldown},
		{StatRollSpeed, s.RollSpeed},
		{StatRollDuration, s.RollDuration},
		{StatProjectileSpeed, s.ProjectileSpeed},
		{StatDefense, s.Defense},
		{StatCritChance, s.CritChance},
		{StatCritDamage, s.CritDamage},
		{StatLifeSteal, s.LifeSteal},
		{StatSkillHaste, s.SkillHaste},
	}
	out := make([]Bonus, 0, 4)
	for _, b := range all {
		if b.Value != 0 {
			out = append(out, b)
		}
	}
	return out
}
