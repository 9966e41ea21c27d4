package world

import (
	"github.com/younwookim/coopcrawl/internal/domain/dungeon"
	"github.com/younwookim/coopcrawl/internal/domain/entity"
	"github.com/younwookim/coopcrawl/internal/domain/item"
)

// DefaultMaxFrameDt caps one simulation step after a stall.
const DefaultMaxFrameDt = 0.033

// Config holds the orchestrator settings that come from configuration.
type Config struct {
	Dimensions dungeon.Dimensions
	MaxFrameDt float64
	Controls   [2]entity.Controls
	// ClassPicks maps a key name to the class it selects, per player.
	ClassPicks     [2]map[string]item.Class
	ConfirmKey     string
	DefaultClasses [2]item.Class
}

func (c Config) withDefaults() Config {
	if c.Dimensions.TileSize <= 0 || c.Dimensions.Cols <= 0 || c.Dimensions.Rows <= 0 {
		c.Dimensions = dungeon.DefaultDimensions
	}
	if c.MaxFrameDt <= 0 {
		c.MaxFrameDt = DefaultMaxFrameDt
	}
	if c.ConfirmKey == "" {
		c.ConfirmKey = "Enter"
	}
	if c.DefaultClasses[0] == "" {
		c.DefaultClasses[0] = item.ClassSamurai
	}
	if c.DefaultClasses[1] == "" {
		c.DefaultClasses[1] = item.ClassArcher
	}
	return c
}
