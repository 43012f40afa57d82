package stage

import (
	"image/color"

	"github.com/ivlev/lobbyreel/internal/geom"
	"github.com/ivlev/lobbyreel/internal/scene"
	"github.com/ivlev/lobbyreel/internal/scroll"
)

// Camera is the mutable view written by the scroll mapper and camera flights
type Camera struct {
	Position geom.Vec3
	Target   geom.Vec3
	Up       geom.Vec3
	Lens     geom.Lens
}

// SetPose implements scroll.CameraSink
func (c *Camera) SetPose(p scroll.Pose) {
	c.Position = p.Position
	c.Target = p.Target
}

// Pose returns the current position and look-at target
func (c *Camera) Pose() scroll.Pose {
	return scroll.Pose{Position: c.Position, Target: c.Target}
}

// Basis returns the camera frame
func (c *Camera) Basis() geom.Basis {
	up := c.Up
	if up.LenSq() == 0 {
		up = geom.V(0, 1, 0)
	}
	return geom.LookAtBasis(c.Position, c.Target, up)
}

// Board tracks the "visible" class of page elements by id.
// Writes to ids that were never registered are ignored.
type Board struct {
	visible map[string]bool
	order   []string
}

func NewBoard(ids ...string) *Board {
	b := &Board{visible: make(map[string]bool, len(ids))}
	for _, id := range ids {
		b.Register(id)
	}
	return b
}

// Register adds an element to the board, hidden
func (b *Board) Register(id string) {
	if _, ok := b.visible[id]; ok {
		return
	}
	b.visible[id] = false
	b.order = append(b.order, id)
}

// SetVisible implements scroll.VisibilitySink
func (b *Board) SetVisible(id string, visible bool) bool {
	if _, ok := b.visible[id]; !ok {
		return false
	}
	b.visible[id] = visible
	return true
}

// Visible reports the state of one element
func (b *Board) Visible(id string) bool {
	return b.visible[id]
}

// Shown lists visible elements in registration order
func (b *Board) Shown() []string {
	var out []string
	for _, id := range b.order {
		if b.visible[id] {
			out = append(out, id)
		}
	}
	return out
}

func (b *Board) snapshot() map[string]bool {
	out := make(map[string]bool, len(b.visible))
	for k, v := range b.visible {
		out[k] = v
	}
	return out
}

// Body is the runtime state of a decorative mesh
type Body struct {
	ID        string
	Shape     string
	Position  geom.Vec3
	Rotation  geom.Vec3
	Size      float64
	Height    float64
	Scale     float64
	Color     color.RGBA
	Accent    color.RGBA
	Emissive  float64
	Opacity   float64
	Wireframe bool
	Divisions int
	Hidden    bool
}

// Field is the runtime state of a particle system. Points are packed
// x,y,z triplets; snow fields use viewport pixels with z = radius.
// Static fields never move their points, only the field rotation.
type Field struct {
	ID       string
	Kind     string
	Points   []float32
	Static   bool
	Rotation geom.Vec3
	Size     float64
	Color    color.RGBA
	Opacity  float64
}

// Card is a floating UI panel (planet preview or detail)
type Card struct {
	ID      string
	Kind    string // preview | detail
	Title   string
	URL     string
	X, Y    float64 // viewport pixels
	Visible bool
}

// Mascot is the drawable state of the page mascot
type Mascot struct {
	Kind       string
	LeftOpen   bool
	RightOpen  bool
	EyeOffsetX float64
	EyeOffsetY float64
	EyeScaleY  float64
	TiltX      float64 // degrees
	TiltY      float64 // degrees
	TiltScale  float64
	PanelRight bool
}

// Context owns everything a frame needs: the page, camera, visibility board
// and the animated scene state. It replaces the page-level globals.
type Context struct {
	Page    *scene.Page
	Camera  *Camera
	Board   *Board
	Bodies  []*Body
	Fields  []*Field
	Cards   []*Card
	Mascot  *Mascot
	Elapsed float64
	Frame   int
	Percent float64
}

// NewContext builds the initial scene state from a descriptor
func NewContext(page *scene.Page) *Context {
	aspect := 16.0 / 9.0
	if page.Viewport.Height > 0 {
		aspect = float64(page.Viewport.Width) / float64(page.Viewport.Height)
	}
	ctx := &Context{
		Page: page,
		Camera: &Camera{
			Position: page.Camera.Position.Vec(),
			Target:   page.Camera.LookAt.Vec(),
			Up:       geom.V(0, 1, 0),
			Lens: geom.Lens{
				FOV:    page.Camera.FOV,
				Aspect: aspect,
				Near:   page.Camera.Near,
				Far:    page.Camera.Far,
			},
		},
		Board: NewBoard(),
	}
	for _, s := range page.Sections {
		ctx.Board.Register(s.ID)
	}
	for _, b := range page.Bodies {
		opacity := b.Opacity
		if opacity == 0 {
			opacity = 1
		}
		ctx.Bodies = append(ctx.Bodies, &Body{
			ID:        b.ID,
			Shape:     b.Shape,
			Position:  b.Position.Vec(),
			Rotation:  b.Rotation.Vec(),
			Size:      b.Size,
			Height:    b.Height,
			Scale:     1,
			Color:     b.Color.RGBA(),
			Accent:    b.AccentColor.RGBA(),
			Emissive:  b.Emissive,
			Opacity:   opacity,
			Wireframe: b.Wireframe,
			Divisions: b.Divisions,
		})
	}
	for _, f := range page.Fields {
		opacity := f.Opacity
		if opacity == 0 {
			opacity = 1
		}
		ctx.Fields = append(ctx.Fields, &Field{
			ID:      f.ID,
			Kind:    f.Kind,
			Size:    f.Size,
			Color:   f.Color.RGBA(),
			Opacity: opacity,
		})
	}
	return ctx
}

// Body finds a body by id
func (c *Context) Body(id string) *Body {
	for _, b := range c.Bodies {
		if b.ID == id {
			return b
		}
	}
	return nil
}

// Field finds a particle field by id
func (c *Context) Field(id string) *Field {
	for _, f := range c.Fields {
		if f.ID == id {
			return f
		}
	}
	return nil
}

// AddBody appends a runtime body (planets are created this way)
func (c *Context) AddBody(b *Body) {
	c.Bodies = append(c.Bodies, b)
}

// Frame is an immutable copy of the context for rendering
type Frame struct {
	Index   int
	Time    float64
	Percent float64
	Camera  Camera
	Visible map[string]bool
	Active  []string
	Bodies  []Body
	Fields  []Field
	Cards   []Card
	Mascot  *Mascot
	Page    *scene.Page
}

// Snapshot copies the state so that rendering can run on another goroutine
func (c *Context) Snapshot() *Frame {
	f := &Frame{
		Index:   c.Frame,
		Time:    c.Elapsed,
		Percent: c.Percent,
		Camera:  *c.Camera,
		Visible: c.Board.snapshot(),
		Active:  c.Board.Shown(),
		Page:    c.Page,
	}
	f.Bodies = make([]Body, len(c.Bodies))
	for i, b := range c.Bodies {
		f.Bodies[i] = *b
	}
	f.Fields = make([]Field, len(c.Fields))
	for i, fl := range c.Fields {
		cp := *fl
		if !fl.Static {
			cp.Points = append([]float32(nil), fl.Points...)
		}
		f.Fields[i] = cp
	}
	for _, card := range c.Cards {
		f.Cards = append(f.Cards, *card)
	}
	if c.Mascot != nil {
		m := *c.Mascot
		f.Mascot = &m
	}
	return f
}
