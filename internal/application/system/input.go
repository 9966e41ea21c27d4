// Package system holds the host-side systems that feed the simulation.
package system

import (
	"fmt"
	"slices"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/zyedidia/generic/mapset"
)

var keysByName = func() map[string]ebiten.Key {
	m := make(map[string]ebiten.Key, int(ebiten.KeyMax)+1)
	for k := ebiten.Key(0); k <= ebiten.KeyMax; k++ {
		m[k.String()] = k
	}
	return m
}()

// KeyByName resolves an ebiten key name such as "W", "Enter" or
// "BracketLeft".
func KeyByName(name string) (ebiten.Key, bool) {
	k, ok := keysByName[name]
	return k, ok
}

// InputSystem tracks held keys and single presses by key name. A press is
// reported by Consume once and stays consumed until the key is released
// and pressed again.
type InputSystem struct {
	down    mapset.Set[string]
	pressed mapset.Set[string]
	bound   map[string]ebiten.Key

	// isPressed reads the device; tests replace it.
	isPressed func(ebiten.Key) bool
}

// NewInputSystem creates an input system polling the named keys.
func NewInputSystem(names ...string) (*InputSystem, error) {
	s := &InputSystem{
		down:      mapset.New[string](),
		pressed:   mapset.New[string](),
		bound:     make(map[string]ebiten.Key, len(names)),
		isPressed: ebiten.IsKeyPressed,
	}
	for _, name := range names {
		if name == "" {
			continue
		}
		k, ok := KeyByName(name)
		if !ok {
			return nil, fmt.Errorf("unknown key %q", name)
		}
		s.bound[name] = k
	}
	return s, nil
}

// IsDown reports whether the key is held.
func (s *InputSystem) IsDown(name string) bool { return s.down.Has(name) }

// Consume reports a pending press of the key and clears it.
func (s *InputSystem) Consume(name string) bool {
	if !s.pressed.Has(name) {
		return false
	}
	s.pressed.Remove(name)
	return true
}

// Press records the key going down. Holding a key does not repeat it.
func (s *InputSystem) Press(name string) {
	if !s.down.Has(name) {
		s.pressed.Put(name)
	}
	s.down.Put(name)
}

// Release records the key going up.
func (s *InputSystem) Release(name string) { s.down.Remove(name) }

// Poll snapshots every bound key from the device. Call it once per tick
// before the simulation update.
func (s *InputSystem) Poll() {
	for name, k := range s.bound {
		if s.isPressed(k) {
			s.Press(name)
		} else {
			s.Release(name)
		}
	}
}

// Held returns the held keys in name order.
func (s *InputSystem) Held() []string {
	held := make([]string, 0, s.down.Size())
	s.down.Each(func(name string) { held = append(held, name) })
	slices.Sort(held)
	return held
}

// Feed replaces the device with a recorded frame: the named keys are held
// and every other key is up.
func (s *InputSystem) Feed(held []string) {
	for _, name := range s.Held() {
		if !slices.Contains(held, name) {
			s.Release(name)
		}
	}
	for _, name := range held {
		s.Press(name)
	}
}

// EndFrame drops presses nobody consumed this frame.
func (s *InputSystem) EndFrame() {
	if s.pressed.Size() > 0 {
		s.pressed = mapset.New[string]()
	}
}
