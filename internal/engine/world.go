package engine

import (
	"fmt"
	"log"
	"math/rand"

	"github.com/ivlev/lobbyreel/internal/director"
	"github.com/ivlev/lobbyreel/internal/effects"
	"github.com/ivlev/lobbyreel/internal/lobby"
	"github.com/ivlev/lobbyreel/internal/mascot"
	"github.com/ivlev/lobbyreel/internal/scene"
	"github.com/ivlev/lobbyreel/internal/scroll"
	"github.com/ivlev/lobbyreel/internal/stage"
)

// World is one live page: the context, its scheduler and every controller
// that reacts to scroll, frames and script actions.
type World struct {
	Ctx       *stage.Context
	Scheduler *stage.Scheduler
	Mapper    *scroll.Mapper // nil when the page has no scroll path
	Lobby     *lobby.Lobby   // nil unless the page declares planets
	Mascot    mascot.Controller
	Pointer   *effects.Pointer
	Effects   []effects.Effect
}

// BuildWorld wires a page the way the browser would: scroll listener first,
// then the frame callbacks in the order the page registers them.
func BuildWorld(page *scene.Page, seed int64) (*World, error) {
	if err := page.Validate(); err != nil {
		return nil, err
	}
	ctx := stage.NewContext(page)
	w := &World{
		Ctx: ctx,
		Scheduler: stage.NewScheduler(ctx, stage.Document{
			Height:         page.DocumentHeight,
			ViewportHeight: float64(page.Viewport.Height),
		}),
		Pointer: &effects.Pointer{},
	}

	if page.HasScrollPath() {
		m, err := newMapper(page, ctx)
		if err != nil {
			return nil, fmt.Errorf("page %s: %w", page.Name, err)
		}
		w.Mapper = m
		w.Scheduler.OnScroll(m)
		w.Scheduler.OnFrame(m)
	}

	w.Effects = effects.ForPage(ctx, rand.New(rand.NewSource(seed)), w.Pointer)
	for _, e := range w.Effects {
		w.Scheduler.OnFrame(e)
	}

	if len(page.Planets) > 0 {
		w.Lobby = lobby.New(ctx)
		w.Scheduler.OnFrame(w.Lobby)
	}

	mc, err := mascot.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("page %s: %w", page.Name, err)
	}
	w.Mascot = mc
	return w, nil
}

func newMapper(page *scene.Page, ctx *stage.Context) (*scroll.Mapper, error) {
	path, err := scroll.NewPath(scene.Vecs(page.Camera.Path))
	if err != nil {
		return nil, err
	}
	opts := scroll.Options{Path: path, LookAt: page.Camera.LookAt.Vec(), Damping: page.Camera.Damping}
	if len(page.Camera.LookAtPath) > 0 {
		if opts.LookAtPath, err = scroll.NewPath(scene.Vecs(page.Camera.LookAtPath)); err != nil {
			return nil, fmt.Errorf("look-at path: %w", err)
		}
	}
	if opts.Sections, err = page.ScrollSections(); err != nil {
		return nil, err
	}
	if opts.Mode, err = scroll.ParseFollowMode(page.Camera.Follow); err != nil {
		return nil, err
	}
	// the camera starts where the page places it, then eases onto the path
	start := ctx.Camera.Position
	opts.Start = &start
	return scroll.NewMapper(opts, ctx.Camera, ctx.Board)
}

// ScrollTo moves the document to offset pixels
func (w *World) ScrollTo(offset float64) {
	if w.Mapper == nil {
		return
	}
	w.Scheduler.Scroll(offset)
}

// Dispatch replays one script action. Actions the page cannot handle are
// reported as errors; the caller decides whether that is fatal.
func (w *World) Dispatch(a director.Action) error {
	switch a.Kind {
	case director.ActionPointer:
		vp := w.Ctx.Page.Viewport
		w.Pointer.X = a.X/float64(vp.Width)*2 - 1
		w.Pointer.Y = -(a.Y/float64(vp.Height)*2 - 1)
		if w.Lobby != nil {
			w.Lobby.PointerMovePixels(a.X, a.Y)
		}
		if w.Mascot != nil {
			w.Mascot.PointerMove(a.X, a.Y)
		}
		return nil
	case director.ActionLeave:
		if t, ok := w.Mascot.(*mascot.Tilt); ok {
			t.Leave()
		}
		return nil
	case director.ActionAim, director.ActionClick, director.ActionUnfocus:
		return w.dispatchLobby(a)
	default:
		return w.dispatchLogin(a)
	}
}

func (w *World) dispatchLobby(a director.Action) error {
	if w.Lobby == nil {
		return fmt.Errorf("%s: page %s has no planets", a.Kind, w.Ctx.Page.Name)
	}
	switch a.Kind {
	case director.ActionAim:
		if !w.Lobby.Aim(a.Target) {
			return fmt.Errorf("aim: planet %q is not on screen", a.Target)
		}
	case director.ActionClick:
		if !w.Lobby.Click() {
			log.Printf("[!] click at %.2fs hit nothing", a.Time)
		}
	case director.ActionUnfocus:
		w.Lobby.Unfocus()
	}
	return nil
}

func (w *World) dispatchLogin(a director.Action) error {
	login, ok := w.Mascot.(*mascot.Login)
	if !ok {
		return fmt.Errorf("%s: page %s has no login form", a.Kind, w.Ctx.Page.Name)
	}
	switch a.Kind {
	case director.ActionFocus:
		if !login.Focus(a.Target) {
			return fmt.Errorf("focus: unknown field %q", a.Target)
		}
	case director.ActionBlur:
		login.Blur()
	case director.ActionToggle:
		if !login.TogglePassword(a.Target) {
			return fmt.Errorf("toggle: %q is not a password field", a.Target)
		}
	case director.ActionSignUp:
		login.SignUp()
	case director.ActionSignIn:
		login.SignIn()
	default:
		return fmt.Errorf("unknown action %q", a.Kind)
	}
	return nil
}
