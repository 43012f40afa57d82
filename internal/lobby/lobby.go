package lobby

import (
	"log"

	"github.com/ivlev/lobbyreel/internal/effects"
	"github.com/ivlev/lobbyreel/internal/geom"
	"github.com/ivlev/lobbyreel/internal/scene"
	"github.com/ivlev/lobbyreel/internal/stage"
)

const (
	// planetSpin is the self-rotation per reference frame
	planetSpin = 0.002
	// camera parks this far in front of a focused planet
	focusOffsetZ = 10
	// preview card offset from the planet's screen position, pixels
	previewOffsetX = 20
	previewOffsetY = -20
	refFrameRate   = 60
)

// Overview pose the lobby returns to after unfocusing
var (
	HomePosition = geom.V(0, 0, 50)
	HomeTarget   = geom.V(0, 0, 0)
)

// Planet is a clickable body on an orbit around the core
type Planet struct {
	scene.Planet
	Body  *stage.Body
	Orbit *effects.Orbit
}

// Lobby is the solar-system navigator: the pointer hovers planets, a click
// flies the camera in, Unfocus flies it back out.
type Lobby struct {
	ctx     *stage.Context
	planets []*Planet
	pointer geom.Vec3 // NDC x, y
	hovered *Planet
	focused *Planet
	flight  *Flight
	preview *stage.Card
	detail  *stage.Card
}

// New creates the planet bodies and both UI cards in ctx
func New(ctx *stage.Context) *Lobby {
	l := &Lobby{ctx: ctx}
	for _, decl := range ctx.Page.Planets {
		body := &stage.Body{
			ID:        "planet-" + decl.ID,
			Shape:     "sphere",
			Size:      decl.Radius,
			Scale:     1,
			Color:     decl.Color.RGBA(),
			Emissive:  1.5,
			Opacity:   1,
			Wireframe: true,
		}
		ctx.AddBody(body)
		p := &Planet{
			Planet: decl,
			Body:   body,
			Orbit:  &effects.Orbit{Ctx: ctx, Body: body, Radius: decl.OrbitRadius, Speed: decl.Speed},
		}
		body.Position = p.Orbit.PositionAt(0)
		l.planets = append(l.planets, p)
	}
	l.preview = &stage.Card{ID: "preview", Kind: "preview"}
	l.detail = &stage.Card{ID: "detail", Kind: "detail"}
	ctx.Cards = append(ctx.Cards, l.preview, l.detail)
	return l
}

// Planets returns the planets in declaration order
func (l *Lobby) Planets() []*Planet { return l.planets }

// Planet finds a planet by id
func (l *Lobby) Planet(id string) *Planet {
	for _, p := range l.planets {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// PointerMove records the pointer in NDC. Moves are ignored while a planet
// is focused or the camera is flying.
func (l *Lobby) PointerMove(ndcX, ndcY float64) {
	if l.focused != nil || l.Animating() {
		return
	}
	l.pointer = geom.V(ndcX, ndcY, 0)
}

// PointerMovePixels converts viewport pixel coordinates to NDC
func (l *Lobby) PointerMovePixels(x, y float64) {
	w, h := float64(l.ctx.Page.Viewport.Width), float64(l.ctx.Page.Viewport.Height)
	if w <= 0 || h <= 0 {
		return
	}
	l.PointerMove(x/w*2-1, -(y/h)*2+1)
}

// Aim points the pointer at a planet's current screen position
func (l *Lobby) Aim(id string) bool {
	p := l.Planet(id)
	if p == nil {
		return false
	}
	cam := l.ctx.Camera
	proj, ok := cam.Lens.Project(cam.Position, cam.Basis(), p.Body.Position)
	if !ok {
		return false
	}
	l.PointerMove(proj.X, proj.Y)
	l.pick()
	return l.hovered == p
}

// Click focuses the hovered planet. It reports whether a flight started.
func (l *Lobby) Click() bool {
	if l.Animating() || l.hovered == nil || l.focused != nil {
		return false
	}
	p := l.hovered
	l.focused = p
	l.preview.Visible = false
	p.Orbit.Hold = true

	target := p.Body.Position
	log.Printf("[*] Focusing planet %s", p.ID)
	l.flight = NewFlight(l.ctx.Camera, target.Add(geom.V(0, 0, focusOffsetZ)), target, FlightDuration, func() {
		l.showDetail(p)
	})
	return true
}

// Unfocus hides the detail card and flies back to the overview
func (l *Lobby) Unfocus() bool {
	if l.Animating() || l.focused == nil {
		return false
	}
	l.detail.Visible = false
	log.Printf("[*] Leaving planet %s", l.focused.ID)
	l.flight = NewFlight(l.ctx.Camera, HomePosition, HomeTarget, FlightDuration, func() {
		l.focused.Orbit.Hold = false
		l.focused = nil
	})
	return true
}

func (l *Lobby) showDetail(p *Planet) {
	l.detail.Title = p.Name
	l.detail.URL = p.URL
	l.detail.X = float64(l.ctx.Page.Viewport.Width) / 2
	l.detail.Y = float64(l.ctx.Page.Viewport.Height) / 2
	l.detail.Visible = true
}

// Animating reports whether a camera flight is in progress
func (l *Lobby) Animating() bool {
	return l.flight != nil && !l.flight.Done()
}

// Hovered is the id of the planet under the pointer, or ""
func (l *Lobby) Hovered() string {
	if l.hovered == nil {
		return ""
	}
	return l.hovered.ID
}

// Focused is the id of the focused planet, or ""
func (l *Lobby) Focused() string {
	if l.focused == nil {
		return ""
	}
	return l.focused.ID
}

// Tick runs one animation frame: flight, orbits, picking, then the cards
func (l *Lobby) Tick(dt float64) {
	if l.flight != nil {
		l.flight.Step(dt)
	}
	for _, p := range l.planets {
		p.Body.Rotation.Y += planetSpin * dt * refFrameRate
		p.Orbit.Tick(dt)
	}
	if !l.Animating() {
		l.pick()
	}
	l.updatePreview()
}

// pick casts a ray through the pointer and hovers the nearest planet
func (l *Lobby) pick() {
	if l.focused != nil || l.Animating() {
		l.hovered = nil
		return
	}
	cam := l.ctx.Camera
	ray := cam.Lens.RayThrough(cam.Position, cam.Basis(), l.pointer.X, l.pointer.Y)
	var best *Planet
	bestDist := 0.0
	for _, p := range l.planets {
		d, ok := ray.IntersectSphere(p.Body.Position, p.Radius*p.Body.Scale)
		if ok && (best == nil || d < bestDist) {
			best, bestDist = p, d
		}
	}
	l.hovered = best
}

func (l *Lobby) updatePreview() {
	if l.hovered == nil || l.focused != nil {
		l.preview.Visible = false
		return
	}
	cam := l.ctx.Camera
	proj, ok := cam.Lens.Project(cam.Position, cam.Basis(), l.hovered.Body.Position)
	if !ok {
		l.preview.Visible = false
		return
	}
	w, h := float64(l.ctx.Page.Viewport.Width), float64(l.ctx.Page.Viewport.Height)
	l.preview.X = (proj.X*0.5+0.5)*w + previewOffsetX
	l.preview.Y = (-proj.Y*0.5+0.5)*h + previewOffsetY
	l.preview.Title = l.hovered.Name
	l.preview.URL = l.hovered.URL
	l.preview.Visible = true
}
