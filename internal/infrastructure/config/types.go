package config

import (
	"github.com/younwookim/coopcrawl/internal/domain/dungeon"
	"github.com/younwookim/coopcrawl/internal/domain/entity"
)

// Settings is the root config for game.json
type Settings struct {
	Display    DisplayConfig `json:"display"`
	Map        MapConfig     `json:"map"`
	MaxFrameDt float64       `json:"maxFrameDt"`
}

type DisplayConfig struct {
	ScreenWidth  int    `json:"screenWidth"`
	ScreenHeight int    `json:"screenHeight"`
	Scale        int    `json:"scale"`
	Framerate    int    `json:"framerate"`
	Title        string `json:"title"`
}

type MapConfig struct {
	TileSize int `json:"tileSize"`
	Cols     int `json:"cols"`
	Rows     int `json:"rows"`
}

// Dimensions converts the map section, falling back to the default grid.
func (m MapConfig) Dimensions() dungeon.Dimensions {
	if m.TileSize <= 0 || m.Cols <= 0 || m.Rows <= 0 {
		return dungeon.DefaultDimensions
	}
	return dungeon.Dimensions{TileSize: m.TileSize, Cols: m.Cols, Rows: m.Rows}
}

func (s *Settings) withDefaults() {
	d := &s.Display
	if d.ScreenWidth <= 0 || d.ScreenHeight <= 0 {
		dims := s.Map.Dimensions()
		d.ScreenWidth, d.ScreenHeight = int(dims.WidthPx()), int(dims.HeightPx())
	}
	if d.Scale <= 0 {
		d.Scale = 1
	}
	if d.Framerate <= 0 {
		d.Framerate = 60
	}
	if d.Title == "" {
		d.Title = "Co-op Crawl"
	}
	if s.MaxFrameDt <= 0 {
		s.MaxFrameDt = 0.033
	}
}

// ClassConfig is one entry of classes.json
type ClassConfig struct {
	Name            string      `json:"name"`
	Color           string      `json:"color"`
	MaxHP           float64     `json:"maxHp"`
	Speed           float64     `json:"speed"`
	Damage          float64     `json:"damage"`
	AttackCooldown  float64     `json:"attackCooldown"`
	RollSpeed       float64     `json:"rollSpeed"`
	RollDuration    float64     `json:"rollDuration"`
	ProjectileSpeed float64     `json:"projectileSpeed"`
	Defense         float64     `json:"defense"`
	CritChance      float64     `json:"critChance"`
	CritDamage      float64     `json:"critDamage"`
	LifeSteal       float64     `json:"lifeSteal"`
	Skill           SkillConfig `json:"skill"`
}

type SkillConfig struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Cooldown    float64 `json:"cooldown"`
}

// EnemyConfig is one entry of enemies.json
type EnemyConfig struct {
	Name            string  `json:"name"`
	Color           string  `json:"color"`
	Radius          float64 `json:"radius"`
	MaxHP           float64 `json:"maxHp"`
	Speed           float64 `json:"speed"`
	Damage          float64 `json:"damage"`
	AttackCooldown  float64 `json:"attackCooldown"`
	Ranged          bool    `json:"ranged"`
	ProjectileSpeed float64 `json:"projectileSpeed"`
}

// ControlsConfig is the root config for controls.json
type ControlsConfig struct {
	Players    []entity.Controls   `json:"players"`
	ClassPicks []map[string]string `json:"classPicks"`
	Confirm    string              `json:"confirm"`
}

// Keys lists every key name the bindings use, without duplicates.
func (c *ControlsConfig) Keys() []string {
	seen := make(map[string]bool)
	var keys []string
	add := func(k string) {
		if k != "" && !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}
	for _, p := range c.Players {
		for _, k := range []string{p.Up, p.Down, p.Left, p.Right, p.Attack, p.Roll, p.Skill, p.Potion, p.Interact, p.BagPrev, p.BagNext, p.BagEquip, p.BagDrop} {
			add(k)
		}
	}
	for _, picks := range c.ClassPicks {
		for k := range picks {
			add(k)
		}
	}
	add(c.Confirm)
	return keys
}

// BossesConfig is the root config for bosses.yaml
type BossesConfig struct {
	Profiles []BossProfileConfig `yaml:"profiles"`
}

type BossProfileConfig struct {
	Key   string `yaml:"key"`
	Name  string `yaml:"name"`
	Style string `yaml:"style"`
	Crest int    `yaml:"crest"`
	Core  string `yaml:"core"`
	Ring  string `yaml:"ring"`
	Glow  string `yaml:"glow"`
	Sigil string `yaml:"sigil"`
}
