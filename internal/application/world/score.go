package world

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/younwookim/coopcrawl/internal/application/state"
)

// ErrNoScore is returned by SubmitScore outside the game-over state.
var ErrNoScore = errors.New("no finished run to submit")

// ScoreRecord is the result of a finished run.
type ScoreRecord struct {
	RunID     uuid.UUID `msgpack:"run_id" json:"runId"`
	Level     int       `msgpack:"level" json:"level"`
	Kills     int       `msgpack:"kills" json:"kills"`
	Timestamp time.Time `msgpack:"timestamp" json:"timestamp"`
}

// Leaderboard persists score records. Storage is up to the implementation.
type Leaderboard interface {
	Submit(ctx context.Context, rec ScoreRecord) error
}

func newUUID(rng *rand.Rand) uuid.UUID {
	id, err := uuid.NewRandomFromReader(rng)
	if err != nil {
		return uuid.New()
	}
	return id
}

// finishRun ends the run and prepares the score record.
func (g *Game) finishRun() {
	kills := 0
	for _, p := range g.players {
		kills = max(kills, p.Kills)
	}
	g.state = state.StateGameOver
	g.score = &ScoreRecord{
		RunID:     g.runID,
		Level:     g.levelIndex,
		Kills:     kills,
		Timestamp: g.now(),
	}
	g.scoreSubmitted = false
	g.SetLog("Both players have fallen")
}

// Score returns the record of the finished run, or nil while a run is live.
func (g *Game) Score() *ScoreRecord { return g.score }

// ScoreSubmitted reports whether the leaderboard accepted the current score.
func (g *Game) ScoreSubmitted() bool { return g.scoreSubmitted }

// SubmitScore hands the finished run to lb. Returning to class select is
// blocked until a submission succeeds; submitting twice is a no-op.
func (g *Game) SubmitScore(ctx context.Context, lb Leaderboard) error {
	if g.state != state.StateGameOver || g.score == nil {
		return ErrNoScore
	}
	if g.scoreSubmitted {
		return nil
	}
	if err := lb.Submit(ctx, *g.score); err != nil {
		g.logger.Error("score submission failed", "run", g.score.RunID, "error", err)
		return fmt.Errorf("failed to submit score: %w", err)
	}
	g.scoreSubmitted = true
	g.logger.Info("score submitted", "run", g.score.RunID, "levelIndex", g.score.Level, "kills", g.score.Kills)
	g.SetLog(fmt.Sprintf("Score saved (level %d, %d kills). Press %s to continue", g.score.Level, g.score.Kills, g.cfg.ConfirmKey))
	return nil
}
