package entity

import (
	"fmt"

	"github.com/younwookim/coopcrawl/internal/domain/geom"
	"github.com/younwookim/coopcrawl/internal/domain/item"
)

// LootRadius is the pickup orb radius.
const LootRadius = 10

// Loot is an item lying on the floor. It goes into the bag of the first
// living player close enough with a free slot.
type Loot struct {
	Body
	Item *item.Item
}

// NewLoot drops it at pos.
func NewLoot(pos geom.Vec, it *item.Item) *Loot {
	return &Loot{Body: Body{Pos: pos, Radius: LootRadius, Alive: true}, Item: it}
}

func (l *Loot) Kind() Kind { return KindLoot }

func (l *Loot) Update(_ float64, w World) {
	if !l.Alive {
		return
	}
	for _, p := range w.Players() {
		if !p.Alive || !l.Touches(&p.Body, 8) {
			continue
		}
		if !p.AddToInventory(l.Item) {
			w.SetLog(fmt.Sprintf("%s bag full, cannot pick up %s", p.Tag, l.Item.Name))
			continue
		}
		l.Alive = false
		w.SetLog(pickupMessage(p.Tag, l.Item))
		return
	}
}

func pickupMessage(tag string, it *item.Item) string {
	powers := ""
	if n := len(it.Powers); n > 0 {
		powers = fmt.Sprintf(" (%d powers)", n)
	}
	return fmt.Sprintf("%s picked up [%s] %s%s (%s -> bag)", tag, it.Rarity.Def().Name, it.Name, powers, it.Slot.Label())
}
