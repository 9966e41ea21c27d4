// Package scene defines the Scene interface for game screens.
//
// The host runs one scene at a time; the run scene covers class select,
// the dungeon and the game over screen of a co-op run.
package scene

import "github.com/hajimehoshi/ebiten/v2"

// Scene is one screen of the host.
//
// The game loop delegates Update and Draw calls to the current scene.
// Returning a new Scene from Update switches to it.
type Scene interface {
	// Update advances the scene by dt seconds. dt never exceeds the
	// simulation's frame cap. A non-nil next replaces this scene; an error
	// ends the game loop (ebiten.Termination for a clean exit).
	Update(dt float64) (next Scene, err error)

	// Draw renders the scene to the screen. It must not change simulation
	// state.
	Draw(screen *ebiten.Image)

	// OnEnter is called each time the scene becomes current.
	OnEnter()

	// OnExit is called when the scene is replaced or the loop ends, so
	// pending recordings can be flushed.
	OnExit()
}
