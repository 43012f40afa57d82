package scene

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/ivlev/lobbyreel/internal/geom"
	"github.com/ivlev/lobbyreel/internal/scroll"
)

// Page is a declarative description of one landing page: what is in the
// scene, how the camera travels and which content sections scroll by.
type Page struct {
	Name           string    `yaml:"name"`
	Title          string    `yaml:"title,omitempty"`
	Viewport       Viewport  `yaml:"viewport"`
	DocumentHeight float64   `yaml:"document_height"`
	Background     Color     `yaml:"background,omitempty"`
	Camera         Camera    `yaml:"camera"`
	Sections       []Section `yaml:"sections,omitempty"`
	Bodies         []Body    `yaml:"bodies,omitempty"`
	Fields         []Field   `yaml:"fields,omitempty"`
	Planets        []Planet  `yaml:"planets,omitempty"`
	Mascot         string    `yaml:"mascot,omitempty"` // panda, penguin, tilt
	Backdrop       *Backdrop `yaml:"backdrop,omitempty"`
}

// Viewport is the logical browser window used for scroll arithmetic
type Viewport struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// Point is a 3D coordinate written as [x, y, z]
type Point [3]float64

func (p Point) Vec() geom.Vec3 {
	return geom.Vec3{X: p[0], Y: p[1], Z: p[2]}
}

// Vecs converts a point list
func Vecs(ps []Point) []geom.Vec3 {
	out := make([]geom.Vec3, len(ps))
	for i, p := range ps {
		out[i] = p.Vec()
	}
	return out
}

// Camera describes the lens and the scroll path
type Camera struct {
	FOV        float64 `yaml:"fov"`
	Near       float64 `yaml:"near,omitempty"`
	Far        float64 `yaml:"far,omitempty"`
	Position   Point   `yaml:"position"`
	LookAt     Point   `yaml:"look_at"`
	Path       []Point `yaml:"path,omitempty"`
	LookAtPath []Point `yaml:"look_at_path,omitempty"`
	Follow     string  `yaml:"follow,omitempty"` // snap | ease
	Damping    float64 `yaml:"damping,omitempty"`
}

// Section is a piece of page content bound to a scroll window
type Section struct {
	ID             string  `yaml:"id"`
	Title          string  `yaml:"title,omitempty"`
	Text           string  `yaml:"text,omitempty"`
	Start          float64 `yaml:"start"`
	End            float64 `yaml:"end"`
	StartExclusive bool    `yaml:"start_exclusive,omitempty"`
}

// Body is a decorative mesh
type Body struct {
	ID          string  `yaml:"id"`
	Shape       string  `yaml:"shape"` // sphere, icosahedron, box, cone, disc, grid, penguin
	Position    Point   `yaml:"position"`
	Size        float64 `yaml:"size"` // radius, half-extent or grid size
	Height      float64 `yaml:"height,omitempty"`
	Color       Color   `yaml:"color"`
	Emissive    float64 `yaml:"emissive,omitempty"`
	Wireframe   bool    `yaml:"wireframe,omitempty"`
	Opacity     float64 `yaml:"opacity,omitempty"`
	Rotation    Point   `yaml:"rotation,omitempty"`
	Spin        Point   `yaml:"spin,omitempty"` // radians per frame
	Pulse       bool    `yaml:"pulse,omitempty"`
	Bob         bool    `yaml:"bob,omitempty"`
	AccentColor Color   `yaml:"accent,omitempty"`
	Divisions   int     `yaml:"divisions,omitempty"`
}

// Field is a particle system
type Field struct {
	ID      string  `yaml:"id"`
	Kind    string  `yaml:"kind"` // stars | snow
	Count   int     `yaml:"count"`
	Spread  float64 `yaml:"spread"`
	Size    float64 `yaml:"size"`
	Color   Color   `yaml:"color"`
	Opacity float64 `yaml:"opacity,omitempty"`
	Spin    Point   `yaml:"spin,omitempty"`
	Pointer bool    `yaml:"pointer,omitempty"` // rotate with the pointer instead of spinning
}

// Planet is a clickable orbiting body in the lobby
type Planet struct {
	ID          string  `yaml:"id"`
	Name        string  `yaml:"name"`
	URL         string  `yaml:"url"`
	OrbitRadius float64 `yaml:"orbit_radius"`
	Speed       float64 `yaml:"speed"`
	Radius      float64 `yaml:"radius"`
	Color       Color   `yaml:"color"`
}

// Backdrop is a static image or PDF page painted behind the scene
type Backdrop struct {
	Path string `yaml:"path"`
	Page int    `yaml:"page,omitempty"`
	DPI  int    `yaml:"dpi,omitempty"`
}

// Color is a CSS-style hex color, "#rrggbb" or "#rgb"
type Color string

// RGBA parses the color; invalid or empty values fall back to white
func (c Color) RGBA() color.RGBA {
	rgba, err := ParseColor(string(c))
	if err != nil {
		return color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	}
	return rgba
}

// ParseColor parses "#rrggbb", "#rgb" or "0xrrggbb"
func ParseColor(s string) (color.RGBA, error) {
	h := strings.TrimSpace(s)
	h = strings.TrimPrefix(h, "#")
	h = strings.TrimPrefix(strings.ToLower(h), "0x")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 {
		return color.RGBA{}, fmt.Errorf("invalid color %q", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}

// ScrollSections converts the page sections into a validated threshold set
func (p *Page) ScrollSections() (scroll.Sections, error) {
	list := make([]scroll.Section, len(p.Sections))
	for i, s := range p.Sections {
		list[i] = scroll.Section{ID: s.ID, Start: s.Start, End: s.End, StartExclusive: s.StartExclusive}
	}
	return scroll.NewSections(list)
}

// HasScrollPath reports whether the camera is driven by scrolling
func (p *Page) HasScrollPath() bool {
	return len(p.Camera.Path) > 0
}

// ScrollExtent is the number of pixels the document can scroll
func (p *Page) ScrollExtent() float64 {
	return p.DocumentHeight - float64(p.Viewport.Height)
}

// Section looks up a section by id
func (p *Page) Section(id string) (Section, bool) {
	for _, s := range p.Sections {
		if s.ID == id {
			return s, true
		}
	}
	return Section{}, false
}

var (
	knownShapes  = map[string]bool{"sphere": true, "icosahedron": true, "box": true, "cone": true, "disc": true, "grid": true, "penguin": true}
	knownFields  = map[string]bool{"stars": true, "snow": true}
	knownMascots = map[string]bool{"": true, "panda": true, "penguin": true, "tilt": true}
)

// Validate checks the descriptor for structural errors
func (p *Page) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("page: empty name")
	}
	if p.Viewport.Width <= 0 || p.Viewport.Height <= 0 {
		return fmt.Errorf("page %s: invalid viewport %dx%d", p.Name, p.Viewport.Width, p.Viewport.Height)
	}
	if len(p.Camera.Path) == 1 {
		return fmt.Errorf("page %s: %w", p.Name, scroll.ErrTooFewPoints)
	}
	if len(p.Camera.LookAtPath) == 1 {
		return fmt.Errorf("page %s: look-at %w", p.Name, scroll.ErrTooFewPoints)
	}
	if _, err := scroll.ParseFollowMode(p.Camera.Follow); err != nil {
		return fmt.Errorf("page %s: %w", p.Name, err)
	}
	// zero means the default
	if d := p.Camera.Damping; d != 0 && !(d > 0 && d <= 1) {
		return fmt.Errorf("page %s: damping must be in (0,1], got %g", p.Name, p.Camera.Damping)
	}
	if _, err := p.ScrollSections(); err != nil {
		return fmt.Errorf("page %s: %w", p.Name, err)
	}
	if len(p.Sections) > 0 && !p.HasScrollPath() {
		return fmt.Errorf("page %s: sections need a camera path", p.Name)
	}
	for _, b := range p.Bodies {
		if !knownShapes[b.Shape] {
			return fmt.Errorf("page %s: body %s: unknown shape %q", p.Name, b.ID, b.Shape)
		}
	}
	for _, f := range p.Fields {
		if !knownFields[f.Kind] {
			return fmt.Errorf("page %s: field %s: unknown kind %q", p.Name, f.ID, f.Kind)
		}
		if f.Count < 0 {
			return fmt.Errorf("page %s: field %s: negative count", p.Name, f.ID)
		}
	}
	for _, pl := range p.Planets {
		if pl.ID == "" || pl.Radius <= 0 {
			return fmt.Errorf("page %s: planet %q needs an id and a positive radius", p.Name, pl.ID)
		}
	}
	if !knownMascots[p.Mascot] {
		return fmt.Errorf("page %s: unknown mascot %q", p.Name, p.Mascot)
	}
	return nil
}
