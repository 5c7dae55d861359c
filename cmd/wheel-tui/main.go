// Command wheel-tui spins a wheel in the terminal. The wheel is loaded from
// and saved to the configured store.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"

	"github.com/okian/spinwheel/internal/adapters/repository"
	"github.com/okian/spinwheel/internal/adapters/sound"
	"github.com/okian/spinwheel/internal/adapters/tui"
	"github.com/okian/spinwheel/internal/config"
	"github.com/okian/spinwheel/internal/domain/spin"
	"github.com/okian/spinwheel/internal/player"
	"github.com/okian/spinwheel/pkg/logger"
)

func main() {
	// Logs would corrupt the screen.
	if err := logger.Init(logger.WithOutput(io.Discard)); err != nil {
		fmt.Fprintln(os.Stderr, "failed to initialize logging:", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load config:", err)
		os.Exit(1) //nolint:gocritic
	}

	if err := run(ctx, cfg); err != nil {
		fmt.Fprintln(os.Stderr, "wheel-tui:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	store, err := repository.Open(ctx, cfg.StoreDriver, cfg.DataFile, cfg.SQLiteDSN)
	if err != nil {
		return err
	}
	defer store.Close()

	w, err := loadWheel(ctx, store, cfg.TUIWheelKey, spin.DefaultRNG())
	if err != nil {
		return err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	defer screen.Fini()

	click := sound.NewClick()
	// Silent mode on failure.
	_ = click.Init()
	defer click.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	h := &host{store: store, quit: cancel}
	view := tui.NewView(screen, tui.WithStatus(h.status))
	h.view = view
	clock := player.NewFrameClock(player.DefaultFrameInterval)
	runner := player.NewRunner(clock,
		player.WithRenderer(view),
		player.WithParticleBurst(view),
		player.WithBurstOrigin(view.BurstOrigin),
		player.WithTickSound(click),
		player.WithWinnerDisplay(view),
		player.WithEngine(spin.NewEngine(spin.WithSettings(cfg.SpinSettings()))),
		player.WithLogger(logger.Get().Named("player")),
	)
	h.player = player.New(w, runner)
	clock.AfterFrame(view.Present)

	go pollEvents(ctx, screen, clock, h)

	clock.Run(ctx)
	return nil
}

// pollEvents forwards terminal events to the clock loop until ctx is done.
func pollEvents(ctx context.Context, screen tcell.Screen, clock *player.FrameClock, h *host) {
	for ctx.Err() == nil {
		ev := screen.PollEvent()
		if ev == nil {
			return
		}
		switch ev := ev.(type) {
		case *tcell.EventKey:
			clock.Post(ctx, func() { h.handleKey(ctx, ev) })
		case *tcell.EventResize:
			clock.Post(ctx, func() {
				screen.Sync()
				h.view.Invalidate()
			})
		}
	}
}
