package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/okian/spinwheel/internal/adapters/repository"
	"github.com/okian/spinwheel/internal/adapters/tui"
	"github.com/okian/spinwheel/internal/domain/wheel"
	"github.com/okian/spinwheel/internal/player"
)

// Speed step applied by the +/- keys.
const speedStep = 0.25

// host maps key presses to player actions. It runs on the clock loop.
type host struct {
	player  *player.Player
	store   repository.WheelStore
	view    *tui.View
	message string
	quit    func()
}

// loadWheel reads key from store. A missing wheel starts with the default
// options so the first spin has something to land on.
func loadWheel(ctx context.Context, store repository.WheelStore, key string, rng wheel.RNG) (*wheel.Wheel, error) {
	doc, err := store.Get(ctx, key)
	if errors.Is(err, repository.ErrNotFound) {
		w := wheel.New(key)
		w.AddDefaults(rng)
		return w, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load wheel %q: %w", key, err)
	}
	return wheel.FromDocument(key, doc), nil
}

func (h *host) status() tui.Status {
	w := h.player.Wheel()
	names := make([]string, len(w.Layers))
	for i, l := range w.Layers {
		names[i] = l.Name
	}
	return tui.Status{
		Key:     w.Key,
		Layers:  names,
		Active:  w.Active,
		Speed:   w.Speed,
		Message: h.message,
	}
}

func (h *host) handleKey(ctx context.Context, ev *tcell.EventKey) {
	h.dispatch(ctx, ev.Key(), ev.Rune())
}

func (h *host) dispatch(ctx context.Context, key tcell.Key, r rune) {
	switch key {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		h.quit()
		return
	case tcell.KeyRune:
	default:
		return
	}

	w := h.player.Wheel()
	last := len(w.ActiveSegments()) - 1
	var err error
	h.message = ""

	switch r {
	case 'q':
		h.quit()
	case ' ':
		h.player.Spin()
	case '1', '2':
		err = h.player.SwitchLayer(int(r - '1'))
	case 'a':
		h.player.AddSegment("", 0, "")
	case 'd':
		err = h.player.DuplicateSegment(last)
	case 'x':
		err = h.player.RemoveSegment(last)
	case 'c':
		h.player.Clear()
	case 's':
		h.player.ShuffleColors()
	case '+', '=':
		h.player.SetSpeed(w.Speed + speedStep)
	case '-':
		if w.Speed-speedStep > 0 {
			h.player.SetSpeed(w.Speed - speedStep)
		}
	case 'w':
		if err = h.store.Put(ctx, w.Key, w.Document()); err == nil {
			h.message = "saved " + w.Key
		}
	}

	if err != nil {
		h.message = err.Error()
	}
	h.view.Invalidate()
}
