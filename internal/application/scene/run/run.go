// Package run provides the scene that drives one co-op run.
package run

import (
	"context"
	"log/slog"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/younwookim/coopcrawl/internal/application/replay"
	"github.com/younwookim/coopcrawl/internal/application/scene"
	"github.com/younwookim/coopcrawl/internal/application/state"
	"github.com/younwookim/coopcrawl/internal/application/system"
	"github.com/younwookim/coopcrawl/internal/application/world"
)

// submitRetry is the wait in seconds before a failed score submission is
// tried again.
const submitRetry = 2.0

// Options carries the optional collaborators of a Run.
type Options struct {
	// Scores receives the final score. Nil discards it.
	Scores world.Leaderboard
	// Recorder, when set, records every frame and is saved to RecordPath
	// when the run ends.
	Recorder   *replay.Recorder
	RecordPath string
	// Replayer, when set, feeds recorded frames instead of the keyboard.
	Replayer *replay.Replayer
	Logger   *slog.Logger
	Debug    bool
}

// Run is the gameplay scene
type Run struct {
	ctx    context.Context
	game   *world.Game
	input  *system.InputSystem
	scores world.Leaderboard
	logger *slog.Logger

	recorder   *replay.Recorder
	recordPath string
	replayer   *replay.Replayer

	screenW int
	screenH int
	debug   bool
	paused  bool

	submitWait float64
	submitErr  error

	colors map[string]rgba
}

type discardScores struct{}

func (discardScores) Submit(context.Context, world.ScoreRecord) error { return nil }

// New creates a Run scene around g. in must be the input g reads from.
func New(ctx context.Context, g *world.Game, in *system.InputSystem, screenW, screenH int, opts Options) *Run {
	r := &Run{
		ctx:        ctx,
		game:       g,
		input:      in,
		scores:     opts.Scores,
		logger:     opts.Logger,
		recorder:   opts.Recorder,
		recordPath: opts.RecordPath,
		replayer:   opts.Replayer,
		screenW:    screenW,
		screenH:    screenH,
		debug:      opts.Debug,
		colors:     make(map[string]rgba),
	}
	if r.scores == nil {
		r.scores = discardScores{}
	}
	if r.logger == nil {
		r.logger = slog.New(slog.DiscardHandler)
	}
	return r
}

// Game returns the simulation this scene drives.
func (r *Run) Game() *world.Game { return r.game }

// Paused reports whether the simulation is halted.
func (r *Run) Paused() bool { return r.paused }

// TogglePause halts or resumes the simulation. Replays never pause.
func (r *Run) TogglePause() {
	if r.replayer != nil {
		return
	}
	r.paused = !r.paused
}

// Update proceeds the game state (implements scene.Scene)
func (r *Run) Update(dt float64) (scene.Scene, error) {
	if r.ctx.Err() != nil {
		return nil, ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		r.TogglePause()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF3) {
		r.debug = !r.debug
	}
	r.Step(dt)
	return nil, nil // nil = stay on this scene
}

// Step advances one frame: read input, update the simulation, then settle
// the score when the run has ended.
func (r *Run) Step(dt float64) {
	if r.paused {
		return
	}
	if !r.readInput() {
		return
	}
	if r.recorder != nil {
		r.recorder.RecordFrame(r.input.Held())
	}

	before := r.game.State()
	r.game.Update(dt)
	r.input.EndFrame()

	if r.game.State() != state.StateGameOver {
		return
	}
	if before != state.StateGameOver {
		r.submitWait = 0
		r.saveRecording()
	}
	r.submitScore(dt)
}

// readInput loads this frame's keys and reports whether there is a frame to
// simulate.
func (r *Run) readInput() bool {
	if r.replayer == nil {
		r.input.Poll()
		return true
	}
	held, ok := r.replayer.Next()
	if !ok {
		return false
	}
	r.input.Feed(held)
	if r.replayer.Done() {
		r.logger.Info("Replay finished", "frames", r.replayer.TotalFrames())
	}
	return true
}

func (r *Run) submitScore(dt float64) {
	if r.game.ScoreSubmitted() {
		return
	}
	if r.submitWait > 0 {
		r.submitWait -= dt
		return
	}
	if err := r.game.SubmitScore(r.ctx, r.scores); err != nil {
		r.submitErr = err
		r.submitWait = submitRetry
		r.logger.Warn("Retrying score submission", "in", submitRetry, "error", err)
		return
	}
	r.submitErr = nil
}

// saveRecording saves the current recording to file
func (r *Run) saveRecording() {
	if r.recorder == nil {
		return
	}

	filename := r.recordPath
	if filename == "" {
		filename = replay.GenerateFilename()
	}

	if err := r.recorder.Save(filename); err != nil {
		r.logger.Error("Failed to save recording", "error", err)
		return
	}
	r.logger.Info("Recording saved", "file", filename, "frames", r.recorder.FrameCount())
}

// SubmitError returns the last failed score submission, if any.
func (r *Run) SubmitError() error { return r.submitErr }

// OnEnter implements scene.Scene
func (r *Run) OnEnter() {
	r.logger.Info("Run scene entered", "replay", r.replayer != nil, "recording", r.recorder != nil)
}

// OnExit implements scene.Scene
func (r *Run) OnExit() {
	if r.recorder != nil && r.game.State() != state.StateGameOver {
		r.saveRecording()
	}
}
