package effects

import (
	"math/rand"

	"github.com/ivlev/lobbyreel/internal/geom"
	"github.com/ivlev/lobbyreel/internal/stage"
)

// refFrameRate is the display rate the per-frame constants were tuned for.
// Per-frame increments are scaled by dt*refFrameRate so reels rendered at
// any FPS move at the same speed.
const refFrameRate = 60

// Effect is a per-frame animator bound to part of the scene
type Effect interface {
	stage.Ticker
	Name() string
}

// Pointer is the normalized pointer position shared by pointer-driven effects (-1..1, +Y up)
type Pointer struct {
	X, Y float64
}

// ForPage builds the animators declared by the page descriptor.
// Planet orbits are owned by the lobby and are not created here.
func ForPage(ctx *stage.Context, rng *rand.Rand, pointer *Pointer) []Effect {
	var out []Effect
	for i, decl := range ctx.Page.Bodies {
		body := ctx.Body(decl.ID)
		if body == nil {
			continue
		}
		if spin := decl.Spin.Vec(); spin.LenSq() > 0 {
			out = append(out, &Spin{Body: body, Rate: spin})
		}
		if decl.Pulse {
			out = append(out, &Pulse{Ctx: ctx, Body: body, Base: body.Emissive})
		}
		if decl.Bob {
			out = append(out, &Bob{Ctx: ctx, Body: body, Phase: float64(i), BaseY: body.Position.Y})
		}
	}
	for _, decl := range ctx.Page.Fields {
		field := ctx.Field(decl.ID)
		if field == nil {
			continue
		}
		switch decl.Kind {
		case "stars":
			out = append(out, NewStarField(field, decl.Count, decl.Spread, decl.Spin.Vec(), pointerFor(decl.Pointer, pointer), rng))
		case "snow":
			out = append(out, NewSnowField(field, decl.Count, float64(ctx.Page.Viewport.Width), float64(ctx.Page.Viewport.Height), rng))
		}
	}
	return out
}

func pointerFor(enabled bool, p *Pointer) *Pointer {
	if !enabled {
		return nil
	}
	return p
}

// Spin adds a fixed rotation increment each reference frame
type Spin struct {
	Body *stage.Body
	Rate geom.Vec3
}

func (s *Spin) Name() string { return "spin:" + s.Body.ID }

func (s *Spin) Tick(dt float64) {
	s.Body.Rotation = s.Body.Rotation.Add(s.Rate.Scale(dt * refFrameRate))
}
