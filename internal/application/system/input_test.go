package system

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyByName(t *testing.T) {
	tests := []struct {
		name string
		want ebiten.Key
		ok   bool
	}{
		{"W", ebiten.KeyW, true},
		{"Enter", ebiten.KeyEnter, true},
		{"BracketLeft", ebiten.KeyBracketLeft, true},
		{"Comma", ebiten.KeyComma, true},
		{"NoSuchKey", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := KeyByName(tt.name)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestNewInputSystem_UnknownKey(t *testing.T) {
	_, err := NewInputSystem("W", "Bogus")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Bogus")

	s, err := NewInputSystem("W", "", "Enter")
	require.NoError(t, err)
	assert.Len(t, s.bound, 2)
}

func TestInputSystem_ConsumeOncePerPress(t *testing.T) {
	s, err := NewInputSystem()
	require.NoError(t, err)

	s.Press("F")
	assert.True(t, s.IsDown("F"))
	assert.True(t, s.Consume("F"))
	assert.False(t, s.Consume("F"))

	// Holding does not re-arm the press.
	s.Press("F")
	assert.False(t, s.Consume("F"))

	s.Release("F")
	assert.False(t, s.IsDown("F"))
	s.Press("F")
	assert.True(t, s.Consume("F"))
}

func TestInputSystem_EndFrameDropsUnconsumed(t *testing.T) {
	s, err := NewInputSystem()
	require.NoError(t, err)

	s.Press("Enter")
	s.EndFrame()
	assert.False(t, s.Consume("Enter"))
	assert.True(t, s.IsDown("Enter"), "held keys survive the frame")
}

func TestInputSystem_Poll(t *testing.T) {
	s, err := NewInputSystem("A", "D")
	require.NoError(t, err)

	held := map[ebiten.Key]bool{ebiten.KeyA: true}
	s.isPressed = func(k ebiten.Key) bool { return held[k] }

	s.Poll()
	assert.True(t, s.IsDown("A"))
	assert.False(t, s.IsDown("D"))
	assert.True(t, s.Consume("A"))
	s.EndFrame()

	held[ebiten.KeyA] = false
	held[ebiten.KeyD] = true
	s.Poll()
	assert.False(t, s.IsDown("A"))
	assert.True(t, s.IsDown("D"))
	assert.True(t, s.Consume("D"))
}

func TestInputSystem_HeldAndFeed(t *testing.T) {
	s, err := NewInputSystem("W", "A", "Enter")
	require.NoError(t, err)

	s.Feed([]string{"W", "A"})
	assert.Equal(t, []string{"A", "W"}, s.Held())
	assert.True(t, s.Consume("W"))
	s.EndFrame()

	// W stays held and must not repeat; A goes up.
	s.Feed([]string{"W"})
	assert.Equal(t, []string{"W"}, s.Held())
	assert.False(t, s.Consume("W"))
	assert.False(t, s.IsDown("A"))

	s.Feed(nil)
	assert.Empty(t, s.Held())
}
