package renderer

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"sort"
	"sync"

	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"

	"github.com/ivlev/lobbyreel/internal/geom"
	"github.com/ivlev/lobbyreel/internal/scene"
	"github.com/ivlev/lobbyreel/internal/stage"
)

var lightDir = geom.V(5, 10, 7.5).Normalize()

const (
	ambient = 0.45
	diffuse = 0.55
)

// Rasterizer draws stage frames into RGBA images. It is safe for
// concurrent use; every Render call works on its own canvas.
type Rasterizer struct {
	Width    int
	Height   int
	Backdrop *image.RGBA

	font  *opentype.Font
	faces sync.Pool // *faceSet
	qr    sync.Map  // qrKey -> image.Image
}

// NewRasterizer prepares a rasterizer for width x height frames.
// backdrop may be nil; otherwise it must already have the frame size.
func NewRasterizer(width, height int, backdrop *image.RGBA) (*Rasterizer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid frame size %dx%d", width, height)
	}
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	return &Rasterizer{Width: width, Height: height, Backdrop: backdrop, font: f}, nil
}

// Bounds is the frame rectangle
func (r *Rasterizer) Bounds() image.Rectangle {
	return image.Rect(0, 0, r.Width, r.Height)
}

// view projects world points into frame pixels
type view struct {
	eye   geom.Vec3
	basis geom.Basis
	lens  geom.Lens
	w, h  float64
}

func newView(cam stage.Camera, w, h int) view {
	lens := cam.Lens
	lens.Aspect = float64(w) / float64(h)
	return view{eye: cam.Position, basis: cam.Basis(), lens: lens, w: float64(w), h: float64(h)}
}

func (v view) project(p geom.Vec3) (pt, geom.Projected, bool) {
	proj, ok := v.lens.Project(v.eye, v.basis, p)
	if !ok {
		return pt{}, proj, false
	}
	return pt{(proj.X*0.5 + 0.5) * v.w, (-proj.Y*0.5 + 0.5) * v.h}, proj, true
}

// pixels converts a world length at a projected depth to frame pixels
func (v view) pixels(proj geom.Projected, length float64) float64 {
	return length * proj.Scale * v.h / 2
}

func (v view) depth(p geom.Vec3) float64 {
	return p.Sub(v.eye).Dot(v.basis.Forward)
}

func (v view) near() float64 {
	if v.lens.Near > 0 {
		return v.lens.Near
	}
	return 0.1
}

// Render draws one frame: backdrop, particles, bodies, then the 2D overlays
func (r *Rasterizer) Render(f *stage.Frame, dst *image.RGBA) error {
	if dst.Bounds() != r.Bounds() {
		return fmt.Errorf("frame buffer %v does not match %dx%d", dst.Bounds(), r.Width, r.Height)
	}
	bg := color.RGBA{A: 255}
	if f.Page != nil && f.Page.Background != "" {
		bg = f.Page.Background.RGBA()
	}
	if r.Backdrop != nil {
		draw.Draw(dst, dst.Bounds(), r.Backdrop, image.Point{}, draw.Src)
	} else {
		draw.Draw(dst, dst.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)
	}

	c := newCanvas(dst)
	v := newView(f.Camera, r.Width, r.Height)

	for i := range f.Fields {
		r.drawField(c, v, f, &f.Fields[i])
	}
	r.drawBodies(c, v, f.Bodies)
	return r.drawOverlays(c, f)
}

func (r *Rasterizer) drawField(c *canvas, v view, f *stage.Frame, fl *stage.Field) {
	src := withAlpha(fl.Color, fl.Opacity)
	switch fl.Kind {
	case "stars":
		for i := 0; i+2 < len(fl.Points); i += 3 {
			p := geom.V(float64(fl.Points[i]), float64(fl.Points[i+1]), float64(fl.Points[i+2])).
				RotateY(fl.Rotation.Y).
				RotateX(fl.Rotation.X)
			px, proj, ok := v.project(p)
			if !ok || px.X < 0 || px.Y < 0 || px.X >= v.w || px.Y >= v.h {
				continue
			}
			c.dot(px.X, px.Y, math.Min(v.pixels(proj, fl.Size), 3), src)
		}
	case "snow":
		sx, sy := r.viewportScale(f.Page)
		for i := 0; i+2 < len(fl.Points); i += 3 {
			x, y, rad := float64(fl.Points[i]), float64(fl.Points[i+1]), float64(fl.Points[i+2])
			c.disc(x*sx, y*sy, rad*math.Min(sx, sy), src)
		}
	}
}

// viewportScale maps page viewport pixels to frame pixels
func (r *Rasterizer) viewportScale(p *scene.Page) (float64, float64) {
	if p == nil || p.Viewport.Width <= 0 || p.Viewport.Height <= 0 {
		return 1, 1
	}
	return float64(r.Width) / float64(p.Viewport.Width), float64(r.Height) / float64(p.Viewport.Height)
}

// drawBodies paints ground shapes first, then everything else far to near
func (r *Rasterizer) drawBodies(c *canvas, v view, bodies []stage.Body) {
	order := make([]*stage.Body, 0, len(bodies))
	for i := range bodies {
		if !bodies[i].Hidden {
			order = append(order, &bodies[i])
		}
	}
	ground := func(b *stage.Body) bool { return b.Shape == "grid" || b.Shape == "disc" }
	sort.SliceStable(order, func(i, j int) bool {
		gi, gj := ground(order[i]), ground(order[j])
		if gi != gj {
			return gi
		}
		return v.depth(order[i].Position) > v.depth(order[j].Position)
	})
	for _, b := range order {
		switch b.Shape {
		case "grid":
			r.drawGrid(c, v, b)
		case "penguin":
			r.drawPenguin(c, v, b)
		default:
			m, ok := meshes[b.Shape]
			if !ok {
				continue
			}
			r.drawMesh(c, v, b, m, b.Position, meshScale(b), b.Color)
		}
	}
}

func meshScale(b *stage.Body) geom.Vec3 {
	s := b.Size * b.Scale
	switch b.Shape {
	case "cone":
		h := b.Height
		if h == 0 {
			h = 2 * b.Size
		}
		return geom.V(s, h*b.Scale, s)
	default:
		return geom.V(s, s, s)
	}
}

type face struct {
	poly  []pt
	depth float64
	shade float64
}

// drawMesh transforms, culls, shades and paints a mesh
func (r *Rasterizer) drawMesh(c *canvas, v view, b *stage.Body, m *mesh, at, scale geom.Vec3, col color.RGBA) {
	world := make([]geom.Vec3, len(m.verts))
	for i, p := range m.verts {
		local := geom.V(p.X*scale.X, p.Y*scale.Y, p.Z*scale.Z).RotateY(b.Rotation.Y).RotateX(b.Rotation.X)
		world[i] = at.Add(local)
	}

	screen := make([]pt, len(world))
	visible := make([]bool, len(world))
	for i, p := range world {
		screen[i], _, visible[i] = v.project(p)
	}

	if b.Wireframe {
		r.drawGlow(c, v, b, at)
		src := withAlpha(brighten(col, b.Emissive), b.Opacity)
		width := math.Max(1, float64(r.Height)/720)
		for _, e := range m.edges() {
			if visible[e[0]] && visible[e[1]] {
				c.line(screen[e[0]], screen[e[1]], width, src)
			}
		}
		return
	}

	var faces []face
	for _, fi := range m.faces {
		poly := make([]pt, 0, len(fi))
		ok := true
		var centroid geom.Vec3
		for _, idx := range fi {
			if !visible[idx] {
				ok = false
				break
			}
			poly = append(poly, screen[idx])
			centroid = centroid.Add(world[idx])
		}
		if !ok {
			continue
		}
		centroid = centroid.Scale(1 / float64(len(fi)))
		n := newell(world, fi)
		if n.Dot(centroid.Sub(at)) < 0 {
			n = n.Scale(-1)
		}
		toEye := v.eye.Sub(centroid)
		if !m.flat && n.Dot(toEye) <= 0 {
			continue
		}
		if m.flat && n.Dot(toEye) < 0 {
			n = n.Scale(-1)
		}
		shade := ambient + diffuse*math.Max(0, n.Normalize().Dot(lightDir))
		faces = append(faces, face{poly: poly, depth: v.depth(centroid), shade: shade})
	}
	sort.Slice(faces, func(i, j int) bool { return faces[i].depth > faces[j].depth })
	for _, f := range faces {
		c.fill(withAlpha(shadeColor(col, f.shade, b.Emissive), b.Opacity), f.poly)
	}
}

// drawGlow paints a soft halo behind emissive bodies
func (r *Rasterizer) drawGlow(c *canvas, v view, b *stage.Body, at geom.Vec3) {
	if b.Emissive <= 0 {
		return
	}
	center, proj, ok := v.project(at)
	if !ok {
		return
	}
	radius := v.pixels(proj, b.Size*b.Scale)
	alpha := math.Min(0.06*b.Emissive, 0.35)
	for i, k := range []float64{1.35, 1.15} {
		c.disc(center.X, center.Y, radius*k, withAlpha(b.Color, alpha*float64(i+1)/2))
	}
}

// newell computes a polygon normal that tolerates repeated vertices
func newell(world []geom.Vec3, f []int) geom.Vec3 {
	var n geom.Vec3
	for i := range f {
		a, b := world[f[i]], world[f[(i+1)%len(f)]]
		n.X += (a.Y - b.Y) * (a.Z + b.Z)
		n.Y += (a.Z - b.Z) * (a.X + b.X)
		n.Z += (a.X - b.X) * (a.Y + b.Y)
	}
	return n
}

func shadeColor(c color.RGBA, shade, emissive float64) color.RGBA {
	k := math.Min(shade+emissive*0.15, 1.2)
	scale := func(v uint8) uint8 { return uint8(math.Min(float64(v)*k, 255)) }
	return color.RGBA{R: scale(c.R), G: scale(c.G), B: scale(c.B), A: 255}
}

func brighten(c color.RGBA, emissive float64) color.RGBA {
	return shadeColor(c, 0.75, emissive)
}

// drawGrid strokes a square grid in the body's XZ plane.
// The two center lines use the main color, the rest the accent color.
func (r *Rasterizer) drawGrid(c *canvas, v view, b *stage.Body) {
	div := b.Divisions
	if div <= 0 {
		div = 10
	}
	half := b.Size / 2
	step := b.Size / float64(div)
	main := withAlpha(b.Color, b.Opacity)
	accent := withAlpha(b.Accent, b.Opacity)
	width := math.Max(1, float64(r.Height)/900)

	world := func(x, z float64) geom.Vec3 {
		return b.Position.Add(geom.V(x, 0, z).RotateY(b.Rotation.Y).RotateX(b.Rotation.X))
	}
	for i := 0; i <= div; i++ {
		k := -half + float64(i)*step
		src := accent
		if 2*i == div {
			src = main
		}
		r.segment(c, v, world(k, -half), world(k, half), width, src)
		r.segment(c, v, world(-half, k), world(half, k), width, src)
	}
}

// segment clips a world-space segment against the near plane and strokes it
func (r *Rasterizer) segment(c *canvas, v view, a, b geom.Vec3, width float64, src image.Image) {
	near := v.near() * 1.01
	da, db := v.depth(a), v.depth(b)
	if da < near && db < near {
		return
	}
	if da < near {
		a = a.Lerp(b, (near-da)/(db-da))
	} else if db < near {
		b = b.Lerp(a, (near-db)/(da-db))
	}
	pa, _, okA := v.project(a)
	pb, _, okB := v.project(b)
	if okA && okB {
		c.line(pa, pb, width, src)
	}
}

// drawPenguin builds a penguin from primitives: body, head and beak
func (r *Rasterizer) drawPenguin(c *canvas, v view, b *stage.Body) {
	s := b.Size * b.Scale
	sphere := meshes["sphere"]
	body := b.Position.Add(geom.V(0, s*1.2, 0))
	head := b.Position.Add(geom.V(0, s*2.6, 0))
	beak := head.Add(geom.V(0, 0, s*0.7).RotateY(b.Rotation.Y))

	r.drawMesh(c, v, b, sphere, body, geom.V(s, s*1.2, s), b.Color)
	r.drawMesh(c, v, b, sphere, head, geom.V(s*0.7, s*0.7, s*0.7), b.Color)
	r.drawMesh(c, v, b, meshes["cone"], beak, geom.V(s*0.2, s*0.4, s*0.2), b.Accent)
}
