// Package world runs a co-op run: class selection, level and room
// transitions, the per-frame update pipeline, reward payout, the camp
// merchant and the score gate on game over.
package world

import (
	"fmt"
	"log/slog"
	"maps"
	"math/rand"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/younwookim/coopcrawl/internal/application/state"
	"github.com/younwookim/coopcrawl/internal/domain/dungeon"
	"github.com/younwookim/coopcrawl/internal/domain/entity"
	"github.com/younwookim/coopcrawl/internal/domain/geom"
	"github.com/younwookim/coopcrawl/internal/domain/item"
)

// Run tuning.
const (
	minRooms          = 3
	maxRoomsExclusive = 7
	levelsPerTier     = 5
	campEvery         = 3
	reviveRatio       = 0.5
	clearGold         = 25
	bossClearGold     = 80
	clearLootRadius   = 12
)

var playerTags = [2]string{"P1", "P2"}

// Game owns every live entity of a run and advances them one frame at a
// time. It is the entity.World the entities act through. Nothing in it is
// safe for concurrent use.
type Game struct {
	cfg    Config
	cat    *entity.Catalog
	input  entity.Input
	rng    *rand.Rand
	logger *slog.Logger
	now    func() time.Time

	state    state.GameState
	selected [2]item.Class

	runID             uuid.UUID
	levelIndex        int
	difficultyTier    int
	pendingLevelIndex int
	level             *Level
	roomIndex         int
	room              *Room

	players     []*entity.Player
	enemies     []entity.Hostile
	projectiles []*entity.Projectile
	spawned     []*entity.Projectile
	loots       []*entity.Loot
	effects     []entity.Effect

	status         string
	lastRewardText string

	nextID entity.EntityID
	reg    *registry

	score          *ScoreRecord
	scoreSubmitted bool
}

// NewGame creates a game waiting in class select. A nil logger discards.
func NewGame(cfg Config, cat *entity.Catalog, in entity.Input, rng *rand.Rand, logger *slog.Logger) *Game {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	cfg = cfg.withDefaults()
	return &Game{
		cfg:      cfg,
		cat:      cat,
		input:    in,
		rng:      rng,
		logger:   logger,
		now:      time.Now,
		state:    state.StateClassSelect,
		selected: cfg.DefaultClasses,
		reg:      newRegistry(),
	}
}

func (g *Game) Map() *dungeon.Map {
	if g.room == nil {
		return nil
	}
	return g.room.Map
}

func (g *Game) Rand() *rand.Rand                  { return g.rng }
func (g *Game) Input() entity.Input               { return g.input }
func (g *Game) Catalog() *entity.Catalog          { return g.cat }
func (g *Game) Players() []*entity.Player         { return g.players }
func (g *Game) Enemies() []entity.Hostile         { return g.enemies }
func (g *Game) Projectiles() []*entity.Projectile { return g.projectiles }
func (g *Game) Loots() []*entity.Loot             { return g.loots }
func (g *Game) Effects() []entity.Effect          { return g.effects }

func (g *Game) Player(id entity.EntityID) (*entity.Player, bool) { return g.reg.player(id) }
func (g *Game) Enemy(id entity.EntityID) (*entity.Enemy, bool)   { return g.reg.enemy(id) }

// SpawnProjectile queues p; it joins the live list after the current
// projectile phase.
func (g *Game) SpawnProjectile(p *entity.Projectile) {
	p.EntityID = g.newID()
	g.spawned = append(g.spawned, p)
}

func (g *Game) SpawnEnemy(h entity.Hostile) {
	h.Unit().EntityID = g.newID()
	g.enemies = append(g.enemies, h)
	g.reg.putEnemy(h)
}

func (g *Game) Emit(e entity.Effect) { g.effects = append(g.effects, e) }

// SetLog replaces the status line and mirrors it to the structured log.
func (g *Game) SetLog(msg string) {
	g.status = msg
	g.logger.Info(msg, "state", g.state.String(), "levelIndex", g.levelIndex, "room", g.roomIndex)
}

func (g *Game) MoveEntity(b *entity.Body, dx, dy float64) {
	m := g.Map()
	if m == nil {
		return
	}
	b.Pos = m.MoveCircle(b.Pos, b.Radius, dx, dy)
}

func (g *Game) newID() entity.EntityID {
	g.nextID++
	return g.nextID
}

func (g *Game) State() state.GameState  { return g.state }
func (g *Game) Status() string          { return g.status }
func (g *Game) LastRewardText() string  { return g.lastRewardText }
func (g *Game) LevelIndex() int         { return g.levelIndex }
func (g *Game) DifficultyTier() int     { return g.difficultyTier }
func (g *Game) PendingLevelIndex() int  { return g.pendingLevelIndex }
func (g *Game) Level() *Level           { return g.level }
func (g *Game) Room() *Room             { return g.room }
func (g *Game) RoomIndex() int          { return g.roomIndex }
func (g *Game) Selected() [2]item.Class { return g.selected }

// SelectClass sets the class player index will start the next run with.
// Unknown classes are ignored.
func (g *Game) SelectClass(index int, c item.Class) bool {
	if index < 0 || index >= len(g.selected) {
		return false
	}
	if _, ok := g.cat.Classes[c]; !ok {
		return false
	}
	g.selected[index] = c
	return true
}

// StartNewRun creates both players and enters the first room of level 1.
func (g *Game) StartNewRun() {
	g.runID = newUUID(g.rng)
	g.levelIndex = 1
	g.difficultyTier = 0
	g.pendingLevelIndex = 2
	g.level = NewLevel(g.rng, g.cfg.Dimensions, geom.RandInt(g.rng, minRooms, maxRoomsExclusive), RoomOptions{LevelIndex: 1})

	first := g.level.Rooms[0].Map
	g.reg.clearPlayers()
	g.players = g.players[:0]
	for i, c := range g.selected {
		p := entity.NewPlayer(g.rng, g.newID(), playerTags[i], i, g.cat.Classes[c], g.cfg.Controls[i], first.Spawn(i))
		g.players = append(g.players, p)
		g.reg.putPlayer(p)
	}

	g.score = nil
	g.scoreSubmitted = false
	g.EnterRoom(0)
	g.state = state.StatePlaying
	g.lastRewardText = ""
	g.logger.Info("run started", "run", g.runID, "p1", g.selected[0], "p2", g.selected[1])
	g.SetLog("Entered level 1")
}

// EnterCombatLevel builds a fresh combat level and enters its first room.
func (g *Game) EnterCombatLevel(levelIndex int) {
	g.levelIndex = levelIndex
	g.difficultyTier = (levelIndex - 1) / levelsPerTier
	g.pendingLevelIndex = levelIndex + 1
	g.level = NewLevel(g.rng, g.cfg.Dimensions, geom.RandInt(g.rng, minRooms, maxRoomsExclusive), RoomOptions{
		LevelIndex:     g.levelIndex,
		DifficultyTier: g.difficultyTier,
	})
	g.EnterRoom(0)
	g.state = state.StatePlaying
	g.SetLog(fmt.Sprintf("Entered level %d (difficulty tier %d)", g.levelIndex, g.difficultyTier+1))
}

// EnterCamp replaces the next level with a camp; its portal leads to
// nextLevelIndex.
func (g *Game) EnterCamp(nextLevelIndex int) {
	g.pendingLevelIndex = nextLevelIndex
	g.level = NewLevel(g.rng, g.cfg.Dimensions, 1, RoomOptions{
		LevelIndex:     nextLevelIndex - 1,
		NextLevelIndex: nextLevelIndex,
		DifficultyTier: (nextLevelIndex - 1) / levelsPerTier,
		Camp:           true,
	})
	g.EnterRoom(0)
	g.state = state.StatePlaying
	g.SetLog(fmt.Sprintf("Reached the camp (before level %d)", nextLevelIndex))
}

// AdvanceAfterLevelComplete revives fallen players, refills potions and
// moves on to a camp every third level or to the next combat level.
func (g *Game) AdvanceAfterLevelComplete() {
	var revived []*entity.Player
	for _, p := range g.players {
		if !p.Alive {
			p.Revive(reviveRatio)
			revived = append(revived, p)
		}
		p.Potions = p.MaxHealsPerRun
	}

	next := g.levelIndex + 1
	if g.levelIndex%campEvery == 0 {
		g.EnterCamp(next)
	} else {
		g.EnterCombatLevel(next)
	}

	if len(revived) == 0 {
		return
	}
	tags := make([]string, 0, len(revived))
	for _, p := range revived {
		tags = append(tags, p.Tag)
		g.Emit(entity.Effect{
			Kind:   entity.FxRevive,
			Pos:    p.Pos,
			Radius: p.Radius + 14,
			TTL:    0.25,
			Color:  "rgba(146,255,171,0.5)",
		})
	}
	g.SetLog(fmt.Sprintf("%s | %s revived", g.status, strings.Join(tags, ", ")))
}

// EnterRoom switches to room index of the current level, spawning its
// enemies and moving living players to the spawn points.
func (g *Game) EnterRoom(index int) {
	g.roomIndex = index
	g.room = g.level.Rooms[index]

	g.reg.clearEnemies()
	g.enemies = nil
	for _, h := range g.room.SpawnEnemies(g.rng, g.cat) {
		g.SpawnEnemy(h)
	}
	g.projectiles = nil
	g.spawned = nil
	g.loots = nil
	g.effects = nil

	for i, p := range g.players {
		if p.Alive {
			p.Pos = g.room.Map.Spawn(i)
		}
	}
}

// NextRoom enters the following room of the level, if any.
func (g *Game) NextRoom() {
	if g.roomIndex >= len(g.level.Rooms)-1 {
		return
	}
	g.EnterRoom(g.roomIndex + 1)
	g.SetLog(fmt.Sprintf("Entered room %d/%d", g.roomIndex+1, len(g.level.Rooms)))
}

// InPortal reports whether any living player overlaps the room's portal.
func (g *Game) InPortal() bool {
	m := g.Map()
	if m == nil {
		return false
	}
	for _, p := range g.players {
		if p.Alive && m.InPortal(p.Pos, p.Radius) {
			return true
		}
	}
	return false
}

// Update advances the game by one frame. dt is clamped to MaxFrameDt. The
// input collaborator's end-of-frame reset is left to the caller.
func (g *Game) Update(dt float64) {
	dt = geom.Clamp(dt, 0, g.cfg.MaxFrameDt)
	switch g.state {
	case state.StateClassSelect:
		g.updateClassSelect()
	case state.StatePlaying:
		if g.room != nil && g.room.IsCamp {
			g.updateCamp(dt)
		} else {
			g.updateCombat(dt)
		}
	case state.StateGameOver:
		g.updateGameOver()
	}
}

func (g *Game) updateClassSelect() {
	for i, picks := range g.cfg.ClassPicks {
		for _, key := range slices.Sorted(maps.Keys(picks)) {
			if g.input.Consume(key) {
				g.SelectClass(i, picks[key])
			}
		}
	}
	if g.input.Consume(g.cfg.ConfirmKey) {
		g.StartNewRun()
	}
}

func (g *Game) updateGameOver() {
	if !g.input.Consume(g.cfg.ConfirmKey) {
		return
	}
	if !g.scoreSubmitted {
		g.SetLog("Submit the score before starting a new run")
		return
	}
	g.state = state.StateClassSelect
	g.score = nil
	g.scoreSubmitted = false
}

func (g *Game) updateCombat(dt float64) {
	for _, p := range g.players {
		p.Update(dt, g)
	}
	for _, h := range g.enemies {
		h.Update(dt, g)
	}
	g.updateProjectiles(dt)
	for _, l := range g.loots {
		l.Update(dt, g)
	}

	g.processEnemyRewards()
	g.tickEffects(dt)
	g.compact()

	if len(g.enemies) == 0 && !g.room.Cleared {
		g.clearRoom()
	}

	if g.room.Cleared && g.InPortal() {
		if g.room.IsBoss {
			g.AdvanceAfterLevelComplete()
			return
		}
		g.NextRoom()
	}

	g.checkAllDead()
}

func (g *Game) updateCamp(dt float64) {
	g.updateMerchant()
	for _, p := range g.players {
		p.Update(dt, g)
	}
	g.updateProjectiles(dt)
	for _, l := range g.loots {
		l.Update(dt, g)
	}
	g.tickEffects(dt)
	g.compact()

	if g.InPortal() {
		g.EnterCombatLevel(g.pendingLevelIndex)
		return
	}
	g.checkAllDead()
}

// updateProjectiles resolves live projectiles, then admits the ones spawned
// so far this frame.
func (g *Game) updateProjectiles(dt float64) {
	for _, pr := range g.projectiles {
		pr.Update(dt, g)
	}
	g.projectiles = append(g.projectiles, g.spawned...)
	g.spawned = g.spawned[:0]
}

func (g *Game) tickEffects(dt float64) {
	for i := range g.effects {
		g.effects[i].TTL -= dt
	}
	g.effects = slices.DeleteFunc(g.effects, func(fx entity.Effect) bool { return fx.TTL <= 0 })
}

func (g *Game) compact() {
	g.enemies = slices.DeleteFunc(g.enemies, func(h entity.Hostile) bool {
		if h.IsAlive() {
			return false
		}
		g.reg.dropEnemy(h.ID())
		return true
	})
	g.projectiles = slices.DeleteFunc(g.projectiles, func(p *entity.Projectile) bool { return !p.Alive })
	g.loots = slices.DeleteFunc(g.loots, func(l *entity.Loot) bool { return !l.Alive })
}

// clearRoom opens the portal, drops the guaranteed loot of a combat room
// and pays the clear bonus.
func (g *Game) clearRoom() {
	r := g.room
	r.Cleared = true
	if r.IsBoss {
		g.SetLog("Boss defeated, take the portal to the next level")
	} else {
		g.SetLog("Room cleared, head for the portal")
	}

	if !r.LootDropped && !r.IsBoss {
		r.LootDropped = true
		pos := r.Map.RandomOpenPosition(g.rng, clearLootRadius)
		g.loots = append(g.loots, entity.NewLoot(pos, item.MakeRandomItem(g.rng, item.Options{Level: g.levelIndex})))
	}

	gold := clearGold
	if r.IsBoss {
		gold = bossClearGold
	}
	for _, p := range g.players {
		if p.Alive {
			p.AddGold(gold)
		}
	}
}

func (g *Game) checkAllDead() {
	if g.state != state.StatePlaying || len(g.players) == 0 {
		return
	}
	for _, p := range g.players {
		if p.Alive {
			return
		}
	}
	g.finishRun()
}
