package state

// GameState represents the current state of the run
type GameState int

const (
	StateClassSelect GameState = iota
	StatePlaying
	StateGameOver
	// StateVictory is kept for renderers; no transition reaches it.
	StateVictory
)

// String returns the string representation of the game state
func (s GameState) String() string {
	switch s {
	case StateClassSelect:
		return "ClassSelect"
	case StatePlaying:
		return "Playing"
	case StateGameOver:
		return "GameOver"
	case StateVictory:
		return "Victory"
	default:
		return "Unknown"
	}
}
