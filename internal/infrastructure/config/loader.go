package config

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"slices"

	"github.com/younwookim/coopcrawl/internal/application/world"
	"github.com/younwookim/coopcrawl/internal/domain/entity"
	"github.com/younwookim/coopcrawl/internal/domain/item"
	"gopkg.in/yaml.v3"
)

// GameConfig holds all loaded configurations
type GameConfig struct {
	Settings *Settings
	Classes  map[string]ClassConfig
	Enemies  map[string]EnemyConfig
	Controls *ControlsConfig
	Bosses   *BossesConfig
}

// Loader loads game configuration from JSON and YAML files using fs.FS interface
type Loader struct {
	fsys     fs.FS
	basePath string
}

// NewLoader creates a new config loader from filesystem path
func NewLoader(basePath string) *Loader {
	return &Loader{
		fsys:     os.DirFS(basePath),
		basePath: basePath,
	}
}

// NewFSLoader creates a new config loader from fs.FS
func NewFSLoader(fsys fs.FS, basePath string) *Loader {
	return &Loader{
		fsys:     fsys,
		basePath: basePath,
	}
}

func (l *Loader) readJSON(name string, v any) error {
	data, err := fs.ReadFile(l.fsys, name)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", name, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", name, err)
	}
	return nil
}

// LoadGame loads game.json
func (l *Loader) LoadGame() (*Settings, error) {
	var cfg Settings
	if err := l.readJSON("game.json", &cfg); err != nil {
		return nil, err
	}
	cfg.withDefaults()
	return &cfg, nil
}

// LoadClasses loads classes.json
func (l *Loader) LoadClasses() (map[string]ClassConfig, error) {
	var cfg map[string]ClassConfig
	if err := l.readJSON("classes.json", &cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadEnemies loads enemies.json
func (l *Loader) LoadEnemies() (map[string]EnemyConfig, error) {
	var cfg map[string]EnemyConfig
	if err := l.readJSON("enemies.json", &cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadControls loads controls.json. Exactly two players must be bound.
func (l *Loader) LoadControls() (*ControlsConfig, error) {
	var cfg ControlsConfig
	if err := l.readJSON("controls.json", &cfg); err != nil {
		return nil, err
	}
	if len(cfg.Players) != 2 {
		return nil, fmt.Errorf("controls.json: want 2 players, got %d", len(cfg.Players))
	}
	if cfg.Confirm == "" {
		cfg.Confirm = "Enter"
	}
	return &cfg, nil
}

// LoadBosses loads bosses.yaml
func (l *Loader) LoadBosses() (*BossesConfig, error) {
	data, err := fs.ReadFile(l.fsys, "bosses.yaml")
	if err != nil {
		return nil, fmt.Errorf("failed to read bosses.yaml: %w", err)
	}

	var cfg BossesConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse bosses.yaml: %w", err)
	}
	return &cfg, nil
}

// LoadAll loads every configuration file
func (l *Loader) LoadAll() (*GameConfig, error) {
	settings, err := l.LoadGame()
	if err != nil {
		return nil, err
	}

	classes, err := l.LoadClasses()
	if err != nil {
		return nil, err
	}

	enemies, err := l.LoadEnemies()
	if err != nil {
		return nil, err
	}

	controls, err := l.LoadControls()
	if err != nil {
		return nil, err
	}

	bosses, err := l.LoadBosses()
	if err != nil {
		return nil, err
	}

	return &GameConfig{
		Settings: settings,
		Classes:  classes,
		Enemies:  enemies,
		Controls: controls,
		Bosses:   bosses,
	}, nil
}

var (
	requiredClasses = []item.Class{item.ClassSamurai, item.ClassArcher, item.ClassMage}
	requiredEnemies = []entity.EnemyType{entity.EnemyGrunt, entity.EnemyShooter, entity.EnemyTank}
)

// Catalog converts the class, enemy and boss sections into the tuning data
// entities are built from. Every class and enemy archetype must be present.
func (c *GameConfig) Catalog() (*entity.Catalog, error) {
	cat := &entity.Catalog{
		Classes: make(map[item.Class]entity.ClassDef, len(c.Classes)),
		Enemies: make(map[entity.EnemyType]entity.EnemyDef, len(c.Enemies)),
	}

	for key, cc := range c.Classes {
		k := item.Class(key)
		if !slices.Contains(requiredClasses, k) {
			return nil, fmt.Errorf("classes.json: unknown class %q", key)
		}
		cat.Classes[k] = entity.ClassDef{
			Key:             k,
			Name:            cc.Name,
			Color:           cc.Color,
			MaxHP:           cc.MaxHP,
			Speed:           cc.Speed,
			Damage:          cc.Damage,
			AttackCooldown:  cc.AttackCooldown,
			RollSpeed:       cc.RollSpeed,
			RollDuration:    cc.RollDuration,
			ProjectileSpeed: cc.ProjectileSpeed,
			Defense:         cc.Defense,
			CritChance:      cc.CritChance,
			CritDamage:      cc.CritDamage,
			LifeSteal:       cc.LifeSteal,
			Skill: entity.SkillDef{
				Name:        cc.Skill.Name,
				Description: cc.Skill.Description,
				Cooldown:    cc.Skill.Cooldown,
			},
		}
	}
	for _, k := range requiredClasses {
		if _, ok := cat.Classes[k]; !ok {
			return nil, fmt.Errorf("classes.json: missing class %q", k)
		}
	}

	for key, ec := range c.Enemies {
		t := entity.EnemyType(key)
		if !slices.Contains(requiredEnemies, t) {
			return nil, fmt.Errorf("enemies.json: unknown enemy %q", key)
		}
		cat.Enemies[t] = entity.EnemyDef{
			Type:            t,
			Name:            ec.Name,
			Color:           ec.Color,
			Radius:          ec.Radius,
			MaxHP:           ec.MaxHP,
			Speed:           ec.Speed,
			Damage:          ec.Damage,
			AttackCooldown:  ec.AttackCooldown,
			Ranged:          ec.Ranged,
			ProjectileSpeed: ec.ProjectileSpeed,
		}
	}
	for _, t := range requiredEnemies {
		if _, ok := cat.Enemies[t]; !ok {
			return nil, fmt.Errorf("enemies.json: missing enemy %q", t)
		}
	}

	if c.Bosses != nil {
		for _, b := range c.Bosses.Profiles {
			style := entity.BossStyle(b.Style)
			if style != entity.StyleMelee && style != entity.StyleRanged {
				return nil, fmt.Errorf("bosses.yaml: profile %q has unknown style %q", b.Key, b.Style)
			}
			cat.Bosses = append(cat.Bosses, entity.BossProfile{
				Key:       b.Key,
				Name:      b.Name,
				StyleHint: style,
				Crest:     b.Crest,
				Core:      b.Core,
				Ring:      b.Ring,
				Glow:      b.Glow,
				Sigil:     b.Sigil,
			})
		}
	}
	return cat, nil
}

// PlayerControls returns the bindings of both players.
func (c *GameConfig) PlayerControls() [2]entity.Controls {
	var out [2]entity.Controls
	copy(out[:], c.Controls.Players)
	return out
}

// ClassPicks returns the class-select key bindings of both players. Unknown
// classes are rejected.
func (c *GameConfig) ClassPicks() ([2]map[string]item.Class, error) {
	var out [2]map[string]item.Class
	for i, picks := range c.Controls.ClassPicks {
		if i >= len(out) {
			break
		}
		out[i] = make(map[string]item.Class, len(picks))
		for key, class := range picks {
			k := item.Class(class)
			if !slices.Contains(requiredClasses, k) {
				return out, fmt.Errorf("controls.json: key %q picks unknown class %q", key, class)
			}
			out[i][key] = k
		}
	}
	return out, nil
}

// WorldConfig assembles the orchestrator settings.
func (c *GameConfig) WorldConfig() (world.Config, error) {
	picks, err := c.ClassPicks()
	if err != nil {
		return world.Config{}, err
	}
	return world.Config{
		Dimensions: c.Settings.Map.Dimensions(),
		MaxFrameDt: c.Settings.MaxFrameDt,
		Controls:   c.PlayerControls(),
		ClassPicks: picks,
		ConfirmKey: c.Controls.Confirm,
	}, nil
}
