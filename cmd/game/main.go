package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/younwookim/coopcrawl/internal/application/game"
	"github.com/younwookim/coopcrawl/internal/application/replay"
	"github.com/younwookim/coopcrawl/internal/application/scene/run"
	"github.com/younwookim/coopcrawl/internal/application/system"
	"github.com/younwookim/coopcrawl/internal/application/world"
	"github.com/younwookim/coopcrawl/internal/infrastructure/config"
	"github.com/younwookim/coopcrawl/internal/infrastructure/leaderboard"
	"github.com/younwookim/coopcrawl/internal/infrastructure/logging"
)

type options struct {
	configDir  string
	scoresPath string
	recordPath string
	replayPath string
	seed       int64
	debug      bool
	logLevel   slog.Level
}

// app is everything main wires together before handing the loop to ebiten.
type app struct {
	cfg   *config.GameConfig
	seed  int64
	world *world.Game
	scene *run.Run
	loop  *game.Game
	store *leaderboard.FileStore
}

// loadConfig reads dir, or the embedded configs when dir is empty.
func loadConfig(dir string) (*config.GameConfig, error) {
	if dir != "" {
		return config.NewLoader(dir).LoadAll()
	}
	fsys, err := fs.Sub(configFS, "configs")
	if err != nil {
		return nil, fmt.Errorf("failed to get config subfs: %w", err)
	}
	return config.NewFSLoader(fsys, "configs").LoadAll()
}

func newApp(ctx context.Context, opts options) (*app, error) {
	cfg, err := loadConfig(opts.configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	cat, err := cfg.Catalog()
	if err != nil {
		return nil, err
	}
	wc, err := cfg.WorldConfig()
	if err != nil {
		return nil, err
	}
	in, err := system.NewInputSystem(cfg.Controls.Keys()...)
	if err != nil {
		return nil, fmt.Errorf("controls.json: %w", err)
	}

	seed := opts.seed
	var replayer *replay.Replayer
	if opts.replayPath != "" {
		data, err := replay.LoadReplay(opts.replayPath)
		if err != nil {
			return nil, err
		}
		replayer = replay.NewReplayer(*data)
		seed = data.Seed
	} else if seed == 0 {
		seed = time.Now().UnixNano()
	}

	var recorder *replay.Recorder
	if opts.recordPath != "" && replayer == nil {
		recorder = replay.NewRecorder(seed)
	}

	a := &app{
		cfg:   cfg,
		seed:  seed,
		store: leaderboard.NewFileStore(opts.scoresPath, leaderboard.DefaultLimit),
	}
	a.world = world.NewGame(wc, cat, in, rand.New(rand.NewSource(seed)), logging.New("world", opts.logLevel))

	var scores world.Leaderboard = a.store
	if replayer != nil {
		// a replayed run is not a new result
		scores = nil
	}
	d := cfg.Settings.Display
	a.scene = run.New(ctx, a.world, in, d.ScreenWidth, d.ScreenHeight, run.Options{
		Scores:     scores,
		Recorder:   recorder,
		RecordPath: opts.recordPath,
		Replayer:   replayer,
		Logger:     logging.New("run", opts.logLevel),
		Debug:      opts.debug,
	})
	a.loop = game.New(a.scene, d.ScreenWidth, d.ScreenHeight, d.Framerate)
	return a, nil
}

// printScores writes the best n runs of the store at path.
func printScores(w io.Writer, path string, n int) error {
	records, err := leaderboard.NewFileStore(path, 0).Top(n)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		_, err := fmt.Fprintln(w, "No scores yet")
		return err
	}
	for i, r := range records {
		if _, err := fmt.Fprintf(w, "%2d. level %d, %d kills (%s)\n", i+1, r.Level, r.Kills, r.Timestamp.UTC().Format(time.DateTime)); err != nil {
			return err
		}
	}
	return nil
}

func main() {
	// Parse command line flags
	var opts options
	configDir := flag.String("config", "", "Config directory (default: embedded configs)")
	flag.StringVar(&opts.scoresPath, "scores", "scores.msgpack", "Leaderboard file")
	flag.StringVar(&opts.recordPath, "record", "", "Record input to file (e.g., -record replay.json)")
	flag.StringVar(&opts.replayPath, "replay", "", "Play back a recorded run")
	flag.Int64Var(&opts.seed, "seed", 0, "Run seed (default: current time)")
	flag.BoolVar(&opts.debug, "debug", false, "Draw colliders and entity counts")
	logLevel := flag.String("log-level", "info", "Log level: debug, info, warn, error")
	top := flag.Int("top", 0, "Print the best N scores and exit")
	flag.Parse()

	opts.configDir = *configDir
	level, err := logging.ParseLevel(*logLevel)
	if err != nil {
		log.Fatalf("%v", err)
	}
	opts.logLevel = level

	if *top > 0 {
		if err := printScores(os.Stdout, opts.scoresPath, *top); err != nil {
			log.Fatalf("Failed to read scores: %v", err)
		}
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	a, err := newApp(ctx, opts)
	if err != nil {
		log.Fatalf("%v", err)
	}
	logging.New("main", level).Info("Starting", "seed", a.seed, "scores", opts.scoresPath)

	// Set up ebiten
	d := a.cfg.Settings.Display
	ebiten.SetWindowSize(d.ScreenWidth*d.Scale, d.ScreenHeight*d.Scale)
	ebiten.SetWindowTitle(d.Title)
	ebiten.SetTPS(d.Framerate)

	// Run game
	err = ebiten.RunGame(a.loop)
	a.loop.Close()
	if err != nil {
		log.Fatal(err)
	}
}
