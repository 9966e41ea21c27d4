package run

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/younwookim/coopcrawl/internal/application/state"
	"github.com/younwookim/coopcrawl/internal/application/world"
	"github.com/younwookim/coopcrawl/internal/domain/dungeon"
)

// Colors for rendering
var (
	colorBG        = color.RGBA{26, 26, 46, 255}
	colorPortal    = color.RGBA{120, 200, 255, 255}
	colorPortalOff = color.RGBA{70, 90, 110, 255}
	colorMerchant  = color.RGBA{230, 190, 90, 255}
	colorHealthBG  = color.RGBA{60, 60, 60, 255}
	colorHealthFG  = color.RGBA{100, 200, 100, 255}
	colorEnemyHP   = color.RGBA{220, 80, 80, 255}
	colorDown      = color.RGBA{90, 90, 90, 255}
	colorRoll      = color.RGBA{255, 255, 255, 200}
	colorHitbox    = color.RGBA{255, 255, 0, 160}
	colorOverlay   = color.RGBA{0, 0, 0, 160}
	colorGameOver  = color.RGBA{100, 0, 0, 180}
)

type rgba = color.RGBA

// hexColor parses "#rrggbb" or "#rrggbbaa". Anything else is white.
func hexColor(s string) rgba {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 && len(s) != 8 {
		return rgba{255, 255, 255, 255}
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return rgba{255, 255, 255, 255}
	}
	if len(s) == 6 {
		v = v<<8 | 0xff
	}
	c := rgba{uint8(v >> 24), uint8(v >> 16), uint8(v >> 8), uint8(v)}
	// ebiten wants premultiplied alpha
	if c.A < 255 {
		a := float64(c.A) / 255
		c.R, c.G, c.B = uint8(float64(c.R)*a), uint8(float64(c.G)*a), uint8(float64(c.B)*a)
	}
	return c
}

func (r *Run) color(hex string) rgba {
	if c, ok := r.colors[hex]; ok {
		return c
	}
	c := hexColor(hex)
	r.colors[hex] = c
	return c
}

// Draw renders the game screen
func (r *Run) Draw(screen *ebiten.Image) {
	screen.Fill(colorBG)

	if r.game.State() == state.StateClassSelect {
		r.drawClassSelect(screen)
		return
	}

	if m := r.game.Map(); m != nil {
		r.drawTiles(screen, m)
		r.drawPortal(screen, m)
	}
	r.drawMerchant(screen)
	r.drawLoots(screen)
	r.drawEnemies(screen)
	r.drawPlayers(screen)
	r.drawProjectiles(screen)
	r.drawEffects(screen)

	r.drawUI(screen)

	switch {
	case r.game.State() == state.StateGameOver:
		r.drawGameOverOverlay(screen)
	case r.paused:
		r.drawPauseOverlay(screen)
	}
}

func (r *Run) drawTiles(screen *ebiten.Image, m *dungeon.Map) {
	pal := dungeon.PaletteFor(m.Style)
	ts := float32(m.TileSize)
	for ty := 0; ty < m.Rows; ty++ {
		for tx := 0; tx < m.Cols; tx++ {
			shades := pal.Floor
			if m.IsWall(tx, ty) {
				shades = pal.Wall
			}
			c := r.color(shades[(tx*7+ty*3)%len(shades)])
			vector.DrawFilledRect(screen, float32(tx)*ts, float32(ty)*ts, ts, ts, c, false)
		}
	}
	for _, d := range m.Decor {
		c := r.color(pal.Accents[int(d.X+d.Y)%len(pal.Accents)])
		vector.DrawFilledCircle(screen, float32(d.X), float32(d.Y), float32(d.Size)/2, c, false)
	}
	if r.debug {
		for _, p := range m.Props {
			cl := p.Collider
			vector.StrokeRect(screen, float32(cl.X), float32(cl.Y), float32(cl.W), float32(cl.H), 1, colorHitbox, false)
		}
	}
}

func (r *Run) drawPortal(screen *ebiten.Image, m *dungeon.Map) {
	c := colorPortalOff
	if room := r.game.Room(); room != nil && (room.Cleared || room.IsCamp) {
		c = colorPortal
	}
	p := m.Portal
	vector.StrokeRect(screen, float32(p.X), float32(p.Y), float32(p.W), float32(p.H), 3, c, false)
}

func (r *Run) drawMerchant(screen *ebiten.Image) {
	room := r.game.Room()
	if room == nil || room.Merchant == nil {
		return
	}
	m := room.Merchant
	vector.DrawFilledCircle(screen, float32(m.Pos.X), float32(m.Pos.Y), float32(m.Radius), colorMerchant, true)
}

func (r *Run) drawLoots(screen *ebiten.Image) {
	for _, l := range r.game.Loots() {
		if !l.Alive {
			continue
		}
		c := r.color(l.Item.Rarity.Def().Color)
		vector.DrawFilledCircle(screen, float32(l.Pos.X), float32(l.Pos.Y), float32(l.Radius)*0.6, c, true)
		vector.StrokeCircle(screen, float32(l.Pos.X), float32(l.Pos.Y), float32(l.Radius), 1, c, true)
	}
}

func (r *Run) drawEnemies(screen *ebiten.Image) {
	for _, h := range r.game.Enemies() {
		e := h.Unit()
		if !e.Alive {
			continue
		}
		x, y, rad := float32(e.Pos.X), float32(e.Pos.Y), float32(e.Radius)
		vector.DrawFilledCircle(screen, x, y, rad, r.color(e.Color), true)
		if len(e.EliteSkills) > 0 {
			vector.StrokeCircle(screen, x, y, rad+3, 2, colorMerchant, true)
		}
		r.drawBar(screen, x-rad, y-rad-7, rad*2, e.HP/e.MaxHP, colorEnemyHP)
		if r.debug {
			ebitenutil.DebugPrintAt(screen, e.Name, int(x-rad), int(y+rad+2))
		}
	}
}

func (r *Run) drawPlayers(screen *ebiten.Image) {
	cat := r.game.Catalog()
	for _, p := range r.game.Players() {
		x, y, rad := float32(p.Pos.X), float32(p.Pos.Y), float32(p.Radius)
		if !p.Alive {
			vector.StrokeCircle(screen, x, y, rad, 2, colorDown, true)
			continue
		}

		c := r.color(cat.Classes[p.Class].Color)
		if p.Invincible && int(p.RollTimer*20)%2 == 0 {
			c = colorRoll
		}
		vector.DrawFilledCircle(screen, x, y, rad, c, true)

		aim := p.LastAim
		vector.StrokeLine(screen, x, y, x+float32(aim.X)*(rad+8), y+float32(aim.Y)*(rad+8), 2, c, true)

		r.drawBar(screen, x-rad, y-rad-8, rad*2, p.HP/p.Stats.MaxHP, colorHealthFG)
		ebitenutil.DebugPrintAt(screen, p.Tag, int(x-6), int(y+rad+2))
	}
}

func (r *Run) drawProjectiles(screen *ebiten.Image) {
	for _, pr := range r.game.Projectiles() {
		if !pr.Alive {
			continue
		}
		x, y := float32(pr.Pos.X), float32(pr.Pos.Y)
		c := r.color(pr.Color)
		if pr.Trail != "" {
			angle := pr.Angle()
			length := float32(pr.Radius * 3)
			tx := x - float32(math.Cos(angle))*length
			ty := y - float32(math.Sin(angle))*length
			vector.StrokeLine(screen, x, y, tx, ty, float32(pr.Radius), r.color(pr.Trail), true)
		}
		vector.DrawFilledCircle(screen, x, y, float32(pr.Radius), c, true)
	}
}

func (r *Run) drawEffects(screen *ebiten.Image) {
	for _, fx := range r.game.Effects() {
		c := r.color(fx.Color)
		rad := float32(math.Max(fx.Radius, 6))
		vector.StrokeCircle(screen, float32(fx.Pos.X), float32(fx.Pos.Y), rad, 2, c, true)
	}
}

func (r *Run) drawBar(screen *ebiten.Image, x, y, w float32, ratio float64, fg color.Color) {
	ratio = math.Max(0, math.Min(1, ratio))
	vector.DrawFilledRect(screen, x, y, w, 4, colorHealthBG, false)
	vector.DrawFilledRect(screen, x, y, w*float32(ratio), 4, fg, false)
}

func (r *Run) drawUI(screen *ebiten.Image) {
	g := r.game
	var b strings.Builder

	where := fmt.Sprintf("Level %d (tier %d)", g.LevelIndex(), g.DifficultyTier())
	if room := g.Room(); room != nil && room.IsCamp {
		where = fmt.Sprintf("Camp before level %d", g.PendingLevelIndex())
	} else if lvl := g.Level(); lvl != nil {
		where += fmt.Sprintf(" | Room %d/%d", g.RoomIndex()+1, len(lvl.Rooms))
	}
	b.WriteString(where + "\n")

	for _, p := range g.Players() {
		fmt.Fprintf(&b, "%s %s HP %.0f/%.0f Lv %d Gold %d Potions %d/%d Bag %d/%d",
			p.Tag, p.Class, math.Max(0, p.HP), p.Stats.MaxHP, p.Level, p.Gold,
			p.Potions, p.MaxHealsPerRun, len(p.Inventory), p.InventorySize)
		if it := p.SelectedItem(); it != nil {
			fmt.Fprintf(&b, " > %s", it.Name)
		}
		b.WriteString("\n")
	}

	if s := g.Status(); s != "" {
		b.WriteString(s + "\n")
	}
	if s := g.LastRewardText(); s != "" {
		b.WriteString(s + "\n")
	}
	if room := g.Room(); room != nil && room.Merchant != nil {
		b.WriteString(merchantText(room.Merchant))
	}
	if r.debug {
		fmt.Fprintf(&b, "enemies %d projectiles %d effects %d fps %.0f\n",
			len(g.Enemies()), len(g.Projectiles()), len(g.Effects()), ebiten.ActualFPS())
	}

	ebitenutil.DebugPrint(screen, b.String())
}

// merchantText lists the merchant's choices in cursor order.
func merchantText(m *world.Merchant) string {
	var b strings.Builder
	line := func(pos int, label string) {
		if m.Cursor == pos {
			b.WriteString("> ")
		} else {
			b.WriteString("  ")
		}
		b.WriteString(label + "\n")
	}

	b.WriteString("Merchant\n")
	heal := fmt.Sprintf("Heal upgrade %dg", m.HealUpgradeCost)
	if m.HealUpgradeSold {
		heal = "Heal upgrade (sold)"
	}
	line(0, heal)
	for i, o := range m.Offers {
		label := fmt.Sprintf("[%s] %s %dg", o.Item.Rarity.Def().Name, o.Item.Name, o.Price)
		if o.Sold {
			label = "(sold)"
		}
		line(i+1, label)
	}
	line(len(m.Offers)+1, fmt.Sprintf("Restock %dg", m.RestockCost))
	return b.String()
}

func (r *Run) drawClassSelect(screen *ebiten.Image) {
	sel := r.game.Selected()
	text := fmt.Sprintf("CO-OP CRAWL\n\nP1: %s\nP2: %s\n\nPick a class with your class keys\nPress Enter to start", sel[0], sel[1])
	ebitenutil.DebugPrintAt(screen, text, r.screenW/2-100, r.screenH/2-50)
}

func (r *Run) drawPauseOverlay(screen *ebiten.Image) {
	vector.DrawFilledRect(screen, 0, 0, float32(r.screenW), float32(r.screenH), colorOverlay, false)
	ebitenutil.DebugPrintAt(screen, "PAUSED\n\nPress ESC to resume", r.screenW/2-50, r.screenH/2-20)
}

func (r *Run) drawGameOverOverlay(screen *ebiten.Image) {
	vector.DrawFilledRect(screen, 0, 0, float32(r.screenW), float32(r.screenH), colorGameOver, false)

	text := "GAME OVER\n\n"
	if s := r.game.Score(); s != nil {
		text += fmt.Sprintf("Reached level %d with %d kills\n\n", s.Level, s.Kills)
	}
	switch {
	case r.game.ScoreSubmitted():
		text += "Score saved. Press Enter for a new run"
	case r.submitErr != nil:
		text += "Saving score failed, retrying..."
	default:
		text += "Saving score..."
	}
	ebitenutil.DebugPrintAt(screen, text, r.screenW/2-110, r.screenH/2-30)
}
