package world

import (
	"github.com/kamstrup/intmap"
	"github.com/younwookim/coopcrawl/internal/domain/entity"
)

// registry resolves entity IDs held as weak references by projectiles and
// elite skills. Entries are dropped when the entity leaves the game.
type registry struct {
	players *intmap.Map[entity.EntityID, *entity.Player]
	enemies *intmap.Map[entity.EntityID, entity.Hostile]
}

func newRegistry() *registry {
	return &registry{
		players: intmap.New[entity.EntityID, *entity.Player](2),
		enemies: intmap.New[entity.EntityID, entity.Hostile](64),
	}
}

func (r *registry) putPlayer(p *entity.Player) { r.players.Put(p.ID(), p) }

func (r *registry) putEnemy(h entity.Hostile) { r.enemies.Put(h.ID(), h) }

func (r *registry) player(id entity.EntityID) (*entity.Player, bool) {
	return r.players.Get(id)
}

func (r *registry) enemy(id entity.EntityID) (*entity.Enemy, bool) {
	h, ok := r.enemies.Get(id)
	if !ok {
		return nil, false
	}
	return h.Unit(), true
}

func (r *registry) dropEnemy(id entity.EntityID) { r.enemies.Del(id) }

func (r *registry) clearEnemies() { r.enemies.Clear() }

func (r *registry) clearPlayers() { r.players.Clear() }
