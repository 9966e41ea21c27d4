package world

import (
	"fmt"
	"math"
	"strings"

	"github.com/younwookim/coopcrawl/internal/domain/entity"
	"github.com/younwookim/coopcrawl/internal/domain/geom"
	"github.com/younwookim/coopcrawl/internal/domain/item"
)

// processEnemyRewards pays out every enemy that died this frame in one
// batch. Gold, XP and kills are shared by all living players.
func (g *Game) processEnemyRewards() {
	var gold, xp, defeated int
	for _, h := range g.enemies {
		e := h.Unit()
		if e.Alive || e.Rewarded {
			continue
		}
		e.Rewarded = true
		defeated++
		gold += e.GoldDrop
		xp += e.XPDrop

		if h.Kind() == entity.KindBoss {
			g.dropLoot(e.Pos, 20, item.Options{Level: g.levelIndex, MinRarity: item.Epic})
			for range geom.RandInt(g.rng, 1, 4) {
				g.dropLoot(e.Pos, 36, item.Options{Level: g.levelIndex})
			}
			continue
		}

		chance := math.Min(0.45, 0.1+float64(len(e.EliteSkills))*0.06)
		if g.rng.Float64() < chance {
			g.dropLoot(e.Pos, 20, item.Options{Level: g.levelIndex})
		}
	}
	if defeated == 0 {
		return
	}

	levelUps := 0
	for _, p := range g.players {
		if !p.Alive {
			continue
		}
		p.AddGold(gold)
		levelUps += p.GainXP(float64(xp))
		p.Kills += defeated
	}

	var parts []string
	if gold > 0 {
		parts = append(parts, fmt.Sprintf("gold +%d", gold))
	}
	if xp > 0 {
		parts = append(parts, fmt.Sprintf("xp +%d", xp))
	}
	if levelUps > 0 {
		parts = append(parts, fmt.Sprintf("level up x%d", levelUps))
	}
	if len(parts) > 0 {
		g.lastRewardText = strings.Join(parts, " / ")
		g.SetLog("Enemies defeated: " + g.lastRewardText)
	}
}

// dropLoot scatters a new item within spread of pos.
func (g *Game) dropLoot(pos geom.Vec, spread int, opts item.Options) {
	at := pos.Add(geom.V(
		float64(geom.RandInt(g.rng, -spread, spread+1)),
		float64(geom.RandInt(g.rng, -spread, spread+1)),
	))
	g.loots = append(g.loots, entity.NewLoot(at, item.MakeRandomItem(g.rng, opts)))
}

// updateMerchant lets every player in reach move the merchant cursor with
// the bag keys and buy with interact. Keys used here are consumed before
// the players' own bag handling runs.
func (g *Game) updateMerchant() {
	m := g.room.Merchant
	if m == nil {
		return
	}
	for _, p := range g.players {
		if !p.Alive {
			continue
		}
		interact := g.input.Consume(p.Controls.Interact)
		if !m.InRange(p) {
			continue
		}
		if g.input.Consume(p.Controls.BagPrev) {
			m.MoveCursor(-1)
		}
		if g.input.Consume(p.Controls.BagNext) {
			m.MoveCursor(1)
		}
		if interact {
			g.TryBuy(p)
		}
	}
}

// TryBuy buys the merchant's selected choice for p and reports the outcome
// on the status line.
func (g *Game) TryBuy(p *entity.Player) Sale {
	if g.room == nil || g.room.Merchant == nil {
		return Sale{Result: entity.Result{Reason: entity.ReasonOutOfRange}}
	}
	m := g.room.Merchant
	s := m.TryBuy(g.rng, p)
	if msg := saleMessage(p, m, s); msg != "" {
		g.SetLog(msg)
	}
	return s
}

func saleMessage(p *entity.Player, m *Merchant, s Sale) string {
	if s.OK {
		switch s.Choice {
		case ChoiceHealUpgrade:
			return fmt.Sprintf("%s bought camp supplies (-%d gold): potion cap is now %d", p.Tag, s.Cost, p.MaxHealsPerRun)
		case ChoiceOffer:
			return fmt.Sprintf("%s bought [%s] %s (-%d gold)", p.Tag, s.Item.Rarity.Def().Name, s.Item.Name, s.Cost)
		default:
			return fmt.Sprintf("%s paid %d gold, the merchant restocked", p.Tag, s.Cost)
		}
	}

	switch s.Reason {
	case entity.ReasonOutOfRange:
		return ""
	case entity.ReasonNotEnoughGold:
		return fmt.Sprintf("%s not enough gold, %s costs %d", p.Tag, choiceLabel(s), s.Cost)
	case entity.ReasonBagFull:
		return fmt.Sprintf("%s bag full, cannot buy %s", p.Tag, s.Item.Name)
	case ReasonInStock:
		return fmt.Sprintf("%s the merchant still has %d offers in stock", p.Tag, m.remaining())
	default:
		return fmt.Sprintf("%s %s: %s", p.Tag, choiceLabel(s), s.Reason)
	}
}

func choiceLabel(s Sale) string {
	switch s.Choice {
	case ChoiceHealUpgrade:
		return "camp supplies"
	case ChoiceOffer:
		return s.Item.Name
	default:
		return "a restock"
	}
}
