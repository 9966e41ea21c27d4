package main

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/younwookim/coopcrawl/internal/application/replay"
	"github.com/younwookim/coopcrawl/internal/application/state"
	"github.com/younwookim/coopcrawl/internal/application/world"
	"github.com/younwookim/coopcrawl/internal/infrastructure/leaderboard"
)

func TestLoadConfig_EmbeddedMatchesDirectory(t *testing.T) {
	embedded, err := loadConfig("")
	require.NoError(t, err)
	onDisk, err := loadConfig("configs")
	require.NoError(t, err)

	assert.Equal(t, onDisk.Settings, embedded.Settings)
	assert.Equal(t, onDisk.Controls, embedded.Controls)
	assert.Len(t, embedded.Bosses.Profiles, len(onDisk.Bosses.Profiles))
}

func TestLoadConfig_MissingDirectory(t *testing.T) {
	_, err := loadConfig(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func TestNewApp(t *testing.T) {
	dir := t.TempDir()
	a, err := newApp(context.Background(), options{
		scoresPath: filepath.Join(dir, "scores.msgpack"),
		seed:       77,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(77), a.seed)
	assert.Equal(t, state.StateClassSelect, a.world.State())
	assert.InDelta(t, 1.0/60, a.loop.DT(), 1e-12)
	w, h := a.loop.Layout(0, 0)
	assert.Equal(t, 960, w)
	assert.Equal(t, 640, h)
}

func TestNewApp_RandomSeed(t *testing.T) {
	a, err := newApp(context.Background(), options{scoresPath: filepath.Join(t.TempDir(), "s")})
	require.NoError(t, err)
	assert.NotZero(t, a.seed)
}

func TestNewApp_ReplayUsesRecordedSeed(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "run.json")
	rec := replay.NewRecorder(4242)
	rec.RecordFrame([]string{"Enter"})
	require.NoError(t, rec.Save(path))

	a, err := newApp(context.Background(), options{
		scoresPath: filepath.Join(dir, "scores.msgpack"),
		replayPath: path,
		seed:       1,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(4242), a.seed)

	a.scene.Step(1.0 / 60)
	assert.Equal(t, state.StatePlaying, a.world.State())
}

func TestNewApp_BadReplay(t *testing.T) {
	_, err := newApp(context.Background(), options{replayPath: filepath.Join(t.TempDir(), "missing.json")})
	assert.ErrorContains(t, err, "failed to open file")
}

func TestPrintScores(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scores.msgpack")

	var out bytes.Buffer
	require.NoError(t, printScores(&out, path, 5))
	assert.Equal(t, "No scores yet\n", out.String())

	store := leaderboard.NewFileStore(path, 0)
	ts := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, store.Submit(context.Background(), world.ScoreRecord{Level: 3, Kills: 40, Timestamp: ts}))
	require.NoError(t, store.Submit(context.Background(), world.ScoreRecord{Level: 5, Kills: 12, Timestamp: ts}))

	out.Reset()
	require.NoError(t, printScores(&out, path, 5))
	assert.Equal(t, " 1. level 5, 12 kills (2026-03-01 12:00:00)\n 2. level 3, 40 kills (2026-03-01 12:00:00)\n", out.String())
}
