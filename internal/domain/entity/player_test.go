package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/younwookim/coopcrawl/internal/domain/geom"
	"github.com/younwookim/coopcrawl/internal/domain/item"
)

func TestNewPlayer(t *testing.T) {
	w := newFakeWorld(1)
	p := w.addPlayer(item.ClassSamurai, geom.V(200, 200))

	require.NotNil(t, p.Equipment[item.SlotWeapon])
	assert.Equal(t, "Samurai Katana", p.Equipment[item.SlotWeapon].Name)
	assert.InDelta(t, 138, p.Stats.MaxHP, 1e-9)
	assert.Equal(t, p.Stats.MaxHP, p.HP)
	assert.InDelta(t, 0.10, p.Stats.Defense, 1e-9)
	assert.Equal(t, MaxHealsPerRun, p.Potions)
	assert.Equal(t, 1, p.Level)
	assert.Equal(t, geom.V(1, 0), p.LastAim)

	p2 := w.addPlayer(item.ClassArcher, geom.V(260, 200))
	assert.Equal(t, geom.V(-1, 0), p2.LastAim)
	assert.Equal(t, "Hardwood Longbow", p2.Equipment[item.SlotWeapon].Name)
}

func TestPlayer_TakeDamage(t *testing.T) {
	w := newFakeWorld(2)
	p := w.addPlayer(item.ClassSamurai, geom.V(200, 200))

	dealt := p.TakeDamage(w, 20, PlayerHit{NoProc: true})
	assert.InDelta(t, 18, dealt, 1e-9)
	assert.InDelta(t, p.Stats.MaxHP-18, p.HP, 1e-9)
	assert.True(t, p.Alive)

	p.TakeDamage(w, 10_000, PlayerHit{NoProc: true, IgnoreDefense: true})
	assert.Equal(t, 0.0, p.HP)
	assert.False(t, p.Alive)

	assert.Equal(t, 0.0, p.TakeDamage(w, 5, PlayerHit{}), "dead players take no damage")
}

func TestPlayer_TakeDamage_BarrierAndRoll(t *testing.T) {
	w := newFakeWorld(3)
	p := w.addPlayer(item.ClassSamurai, geom.V(200, 200))
	full := p.HP

	p.BarrierTimer, p.BarrierValue = 2, 30
	assert.Equal(t, 0.0, p.TakeDamage(w, 20, PlayerHit{IgnoreDefense: true, NoProc: true}))
	assert.Equal(t, full, p.HP)
	assert.InDelta(t, 10, p.BarrierValue, 1e-9)

	assert.InDelta(t, 5, p.TakeDamage(w, 15, PlayerHit{IgnoreDefense: true, NoProc: true}), 1e-9)
	assert.Equal(t, 0.0, p.BarrierValue)

	p.Invincible = true
	assert.Equal(t, 0.0, p.TakeDamage(w, 50, PlayerHit{}))
}

func TestPlayer_TakeDamage_HitSlow(t *testing.T) {
	w := newFakeWorld(4)
	p := w.addPlayer(item.ClassMage, geom.V(200, 200))
	src := &Enemy{HitSlow: &HitSlow{Mul: 0.74, Duration: 1.5}}

	p.TakeDamage(w, 5, PlayerHit{NoProc: true, Source: src})
	assert.InDelta(t, 0.74, p.MoveMul(), 1e-9)
	assert.InDelta(t, 1.5, p.SlowTimer, 1e-9)

	p.TickProcState(2)
	assert.Equal(t, 1.0, p.MoveMul())
}

func TestPlayer_Equip_RequiresStrictlyBetter(t *testing.T) {
	w := newFakeWorld(5)
	p := w.addPlayer(item.ClassSamurai, geom.V(200, 200))
	cur := p.Equipment[item.SlotBoots]

	same := &item.Item{Name: "Twin Boots", Slot: item.SlotBoots, Bonuses: cur.Bonuses}
	assert.False(t, p.Equip(same))
	assert.Same(t, cur, p.Equipment[item.SlotBoots])

	better := &item.Item{Name: "Swift Boots", Slot: item.SlotBoots, Bonuses: item.Stats{Speed: 30}}
	assert.True(t, p.Equip(better))
	assert.Same(t, better, p.Equipment[item.SlotBoots])
	assert.InDelta(t, p.Base.Speed+30, p.Stats.Speed, 1e-9)

	assert.False(t, p.Equip(nil))
}

func TestPlayer_RecalculateStats_KeepsMissingHP(t *testing.T) {
	w := newFakeWorld(6)
	p := w.addPlayer(item.ClassArcher, geom.V(200, 200))
	p.HP = p.Stats.MaxHP - 20

	armor := &item.Item{Name: "Plate", Slot: item.SlotArmor, Bonuses: item.Stats{MaxHP: 40, Defense: 0.05}}
	require.True(t, p.Equip(armor))
	assert.InDelta(t, p.Stats.MaxHP-20, p.HP, 1e-9)
	assert.LessOrEqual(t, p.HP, p.Stats.MaxHP)
}

func TestPlayer_GainXP(t *testing.T) {
	w := newFakeWorld(7)
	p := w.addPlayer(item.ClassMage, geom.V(200, 200))
	baseDmg := p.Base.Damage

	assert.Equal(t, 0, p.GainXP(10))
	assert.Equal(t, 1, p.GainXP(40))
	assert.Equal(t, 2, p.Level)
	assert.InDelta(t, 5, p.XP, 1e-9)
	assert.Equal(t, 68.0, p.XPToNext)
	assert.Equal(t, baseDmg+2, p.Base.Damage)
	assert.LessOrEqual(t, p.HP, p.Stats.MaxHP)
}

func TestPlayer_UsePotion(t *testing.T) {
	w := newFakeWorld(8)
	p := w.addPlayer(item.ClassSamurai, geom.V(200, 200))
	p.HP = 10

	require.True(t, p.UsePotion())
	assert.InDelta(t, 10+p.Stats.MaxHP/3, p.HP, 1e-9)
	require.True(t, p.UsePotion())
	assert.False(t, p.UsePotion())
	assert.Equal(t, 0, p.Potions)

	p.AddPotion(5)
	assert.Equal(t, MaxHealsPerRun, p.Potions)
}

func TestPlayer_Revive(t *testing.T) {
	w := newFakeWorld(9)
	p := w.addPlayer(item.ClassSamurai, geom.V(200, 200))
	p.TakeDamage(w, 1e6, PlayerHit{NoProc: true})
	require.False(t, p.Alive)

	p.Revive(0.55)
	assert.True(t, p.Alive)
	assert.InDelta(t, float64(int(p.Stats.MaxHP*0.55)), p.HP, 1e-9)
}

func TestPlayer_Inventory(t *testing.T) {
	w := newFakeWorld(10)
	p := w.addPlayer(item.ClassSamurai, geom.V(200, 200))

	assert.Equal(t, ReasonBagEmpty, p.EquipFromInventory(0).Reason)
	assert.Equal(t, ReasonBagEmpty, p.DropFromInventory(0).Reason)

	for i := 0; i < InventorySize; i++ {
		require.True(t, p.AddToInventory(item.BasicItem(w.rng, item.SlotBoots)))
	}
	assert.False(t, p.AddToInventory(item.BasicItem(w.rng, item.SlotBoots)))

	p.SelectInventory(-1)
	assert.Equal(t, InventorySize-1, p.InventoryCursor)
	p.SelectInventory(1)
	assert.Equal(t, 0, p.InventoryCursor)

	old := p.Equipment[item.SlotBoots]
	picked := p.Inventory[0]
	r := p.EquipFromInventory(0)
	require.True(t, r.OK)
	assert.Same(t, picked, r.Item)
	assert.Same(t, old, r.Replaced)
	assert.Same(t, old, p.Inventory[0])
	assert.Len(t, p.Inventory, InventorySize)

	r = p.DropFromInventory(InventorySize + 3)
	require.True(t, r.OK)
	assert.Len(t, p.Inventory, InventorySize-1)
	assert.Less(t, p.InventoryCursor, len(p.Inventory))
}

func TestPlayer_Update_Movement(t *testing.T) {
	w := newFakeWorld(11)
	p := w.addPlayer(item.ClassSamurai, geom.V(300, 300))

	w.in.down["KeyD"] = true
	p.Update(0.1, w)
	assert.InDelta(t, 300+p.Stats.Speed*0.1, p.Pos.X, 1e-6)
	assert.Equal(t, geom.V(1, 0), p.LastAim)
	assert.True(t, p.Moving)

	w.in.press("KeyK")
	p.Update(0.05, w)
	assert.Greater(t, p.RollTimer, 0.0)
	assert.InDelta(t, RollCooldown, p.RollCooldown, 1e-9)

	p.Update(0.05, w)
	assert.True(t, p.Invincible)
	for i := 0; i < 10; i++ {
		p.Update(0.05, w)
	}
	assert.False(t, p.Invincible)
}

func TestPlayer_Update_PotionLogs(t *testing.T) {
	w := newFakeWorld(12)
	p := w.addPlayer(item.ClassSamurai, geom.V(300, 300))
	p.Potions = 0

	w.in.press("KeyU")
	p.Update(0.016, w)
	require.NotEmpty(t, w.logs)
	assert.Equal(t, "P1 has no potions left this run", w.logs[len(w.logs)-1])

	p.Update(0.016, w)
	assert.Len(t, w.logs, 1, "a held key is consumed once")
}

func TestPlayer_Attack_SpawnsProjectiles(t *testing.T) {
	for _, class := range []item.Class{item.ClassArcher, item.ClassMage} {
		t.Run(string(class), func(t *testing.T) {
			w := newFakeWorld(13)
			p := w.addPlayer(class, geom.V(300, 300))
			p.Attack(w)
			require.NotEmpty(t, w.projectiles)
			for _, pr := range w.projectiles {
				assert.Equal(t, SidePlayer, pr.Owner)
				assert.Equal(t, p.EntityID, pr.SourcePlayer)
			}
		})
	}
}

func TestPlayer_DealDamage(t *testing.T) {
	w := newFakeWorld(14)
	p := w.addPlayer(item.ClassSamurai, geom.V(300, 300))
	p.Stats.CritChance = 0
	e := w.addEnemy(EnemyTank, geom.V(340, 300), EnemyOptions{SkipElite: true})
	p.HP = 50

	dealt := p.DealDamage(w, e, 20, HitOpts{})
	assert.InDelta(t, 20, dealt, 1e-9)
	assert.InDelta(t, e.MaxHP-20, e.HP, 1e-9)
	assert.Greater(t, p.HP, 50.0, "lifesteal heals")

	p.HP = 50
	p.DealDamage(w, e, 10, HitOpts{NoLifesteal: true})
	assert.Equal(t, 50.0, p.HP)

	before := e.HP
	p.DealDamage(w, e, 10, HitOpts{ForceCrit: true})
	assert.InDelta(t, 10*p.Stats.CritDamage, before-e.HP, 1e-9)
}
