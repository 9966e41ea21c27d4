package run

import (
	"context"
	"errors"
	"image/color"
	"math/rand"
	"path/filepath"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/younwookim/coopcrawl/internal/application/replay"
	"github.com/younwookim/coopcrawl/internal/application/state"
	"github.com/younwookim/coopcrawl/internal/application/system"
	"github.com/younwookim/coopcrawl/internal/application/world"
	"github.com/younwookim/coopcrawl/internal/domain/item"
	"github.com/younwookim/coopcrawl/internal/infrastructure/config"
)

const configDir = "../../../../cmd/game/configs"

type fakeScores struct {
	fail    int
	calls   int
	records []world.ScoreRecord
}

func (f *fakeScores) Submit(_ context.Context, rec world.ScoreRecord) error {
	f.calls++
	if f.fail > 0 {
		f.fail--
		return errors.New("disk full")
	}
	f.records = append(f.records, rec)
	return nil
}

func newGame(t *testing.T, seed int64) (*world.Game, *system.InputSystem) {
	t.Helper()
	cfg, err := config.NewLoader(configDir).LoadAll()
	require.NoError(t, err)
	cat, err := cfg.Catalog()
	require.NoError(t, err)
	wc, err := cfg.WorldConfig()
	require.NoError(t, err)
	in, err := system.NewInputSystem(cfg.Controls.Keys()...)
	require.NoError(t, err)
	return world.NewGame(wc, cat, in, rand.New(rand.NewSource(seed)), nil), in
}

// frames builds a replay that starts a run and then idles.
func frames(n int) replay.ReplayData {
	data := replay.ReplayData{Version: replay.FormatVersion, Seed: 1}
	data.Frames = append(data.Frames, replay.FrameInput{F: 0, Held: []string{"Enter"}})
	for i := 1; i < n; i++ {
		data.Frames = append(data.Frames, replay.FrameInput{F: i})
	}
	return data
}

func killPlayers(g *world.Game) {
	for _, p := range g.Players() {
		p.HP = 0
		p.Alive = false
	}
}

func TestRun_ReplayDrivesGame(t *testing.T) {
	g, in := newGame(t, 1)
	rec := replay.NewRecorder(1)
	r := New(context.Background(), g, in, 960, 640, Options{
		Replayer: replay.NewReplayer(frames(3)),
		Recorder: rec,
	})

	r.Step(1.0 / 60)
	assert.Equal(t, state.StatePlaying, g.State())
	assert.Len(t, g.Players(), 2)

	r.Step(1.0 / 60)
	r.Step(1.0 / 60)
	assert.Equal(t, 3, rec.FrameCount())
	assert.Equal(t, []string{"Enter"}, rec.Data().Frames[0].Held)

	// Out of frames: the simulation holds still.
	r.Step(1.0 / 60)
	assert.Equal(t, 3, rec.FrameCount())
}

func TestRun_SubmitsScoreOnGameOver(t *testing.T) {
	g, in := newGame(t, 2)
	scores := &fakeScores{}
	path := filepath.Join(t.TempDir(), "run.json")
	r := New(context.Background(), g, in, 960, 640, Options{
		Scores:     scores,
		Replayer:   replay.NewReplayer(frames(4)),
		Recorder:   replay.NewRecorder(2),
		RecordPath: path,
	})

	r.Step(1.0 / 60)
	require.Equal(t, state.StatePlaying, g.State())

	killPlayers(g)
	r.Step(1.0 / 60)
	require.Equal(t, state.StateGameOver, g.State())
	assert.True(t, g.ScoreSubmitted())
	require.Len(t, scores.records, 1)
	assert.Equal(t, 1, scores.records[0].Level)

	r.Step(1.0 / 60)
	assert.Equal(t, 1, scores.calls)

	saved, err := replay.LoadReplay(path)
	require.NoError(t, err)
	assert.Len(t, saved.Frames, 2)
}

func TestRun_RetriesFailedSubmission(t *testing.T) {
	g, in := newGame(t, 3)
	scores := &fakeScores{fail: 1}
	r := New(context.Background(), g, in, 960, 640, Options{
		Scores:   scores,
		Replayer: replay.NewReplayer(frames(10)),
	})

	r.Step(1.0 / 60)
	killPlayers(g)
	r.Step(0.03)
	require.Equal(t, state.StateGameOver, g.State())
	assert.False(t, g.ScoreSubmitted())
	assert.Error(t, r.SubmitError())
	assert.Equal(t, 1, scores.calls)

	// The retry waits; the game clamps dt but the wait uses it as given.
	r.Step(1.0)
	assert.Equal(t, 1, scores.calls)
	r.Step(1.0)
	assert.Equal(t, 1, scores.calls)
	r.Step(1.0)
	assert.Equal(t, 2, scores.calls)
	assert.True(t, g.ScoreSubmitted())
	assert.NoError(t, r.SubmitError())
}

func TestRun_NilScoresDiscards(t *testing.T) {
	g, in := newGame(t, 4)
	r := New(context.Background(), g, in, 960, 640, Options{Replayer: replay.NewReplayer(frames(3))})

	r.Step(1.0 / 60)
	killPlayers(g)
	r.Step(1.0 / 60)
	assert.True(t, g.ScoreSubmitted())
}

func TestRun_Pause(t *testing.T) {
	g, in := newGame(t, 5)
	r := New(context.Background(), g, in, 960, 640, Options{})

	r.TogglePause()
	require.True(t, r.Paused())
	r.Step(1.0 / 60)
	assert.Equal(t, state.StateClassSelect, g.State())

	r.TogglePause()
	assert.False(t, r.Paused())

	// Replays ignore pause.
	rp := New(context.Background(), g, in, 960, 640, Options{Replayer: replay.NewReplayer(frames(1))})
	rp.TogglePause()
	assert.False(t, rp.Paused())
}

func TestHexColor(t *testing.T) {
	tests := []struct {
		in   string
		want color.RGBA
	}{
		{"#ff8000", color.RGBA{255, 128, 0, 255}},
		{"64b5f6", color.RGBA{0x64, 0xb5, 0xf6, 255}},
		{"#ffffff00", color.RGBA{0, 0, 0, 0}},
		{"#abc", color.RGBA{255, 255, 255, 255}},
		{"#zzzzzz", color.RGBA{255, 255, 255, 255}},
		{"", color.RGBA{255, 255, 255, 255}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, hexColor(tt.in))
		})
	}
}

func TestMerchantText(t *testing.T) {
	m := &world.Merchant{
		HealUpgradeCost: 100,
		RestockCost:     120,
		Offers: []*world.Offer{
			{Item: &item.Item{Name: "Oak Bow", Rarity: item.Rare}, Price: 60},
			{Item: &item.Item{Name: "Iron Helm"}, Price: 40, Sold: true},
		},
		Cursor: 1,
	}

	text := merchantText(m)
	assert.Contains(t, text, "  Heal upgrade 100g\n")
	assert.Contains(t, text, "> [Rare] Oak Bow 60g\n")
	assert.Contains(t, text, "  (sold)\n")
	assert.Contains(t, text, "  Restock 120g\n")

	m.HealUpgradeSold = true
	m.Cursor = 3
	text = merchantText(m)
	assert.Contains(t, text, "Heal upgrade (sold)")
	assert.Contains(t, text, "> Restock 120g")
}

func TestRun_UpdateTerminatesOnCancel(t *testing.T) {
	g, in := newGame(t, 6)
	ctx, cancel := context.WithCancel(context.Background())
	r := New(ctx, g, in, 960, 640, Options{})

	cancel()
	next, err := r.Update(1.0 / 60)
	assert.Nil(t, next)
	assert.ErrorIs(t, err, ebiten.Termination)
}
