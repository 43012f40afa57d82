package renderer

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/vector"
)

// canvas wraps a frame and a reusable path rasterizer. Every shape is
// rasterized inside its own clipped bounding box.
type canvas struct {
	dst *image.RGBA
	ras *vector.Rasterizer
}

type pt struct{ X, Y float64 }

func newCanvas(dst *image.RGBA) *canvas {
	return &canvas{dst: dst, ras: &vector.Rasterizer{}}
}

// withAlpha converts c to a translucent uniform source
func withAlpha(c color.RGBA, alpha float64) *image.Uniform {
	if alpha < 0 {
		alpha = 0
	}
	if alpha > 1 {
		alpha = 1
	}
	return image.NewUniform(color.NRGBA{R: c.R, G: c.G, B: c.B, A: uint8(alpha*255 + 0.5)})
}

func bounds(pts []pt) image.Rectangle {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range pts {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}
	return image.Rect(int(math.Floor(minX)), int(math.Floor(minY)), int(math.Ceil(maxX))+1, int(math.Ceil(maxY))+1)
}

// fill paints the polygon (or polygons with opposite winding for holes)
func (c *canvas) fill(src image.Image, polys ...[]pt) {
	var all []pt
	for _, p := range polys {
		all = append(all, p...)
	}
	if len(all) < 3 {
		return
	}
	box := bounds(all).Intersect(c.dst.Bounds())
	if box.Empty() {
		return
	}
	c.ras.Reset(box.Dx(), box.Dy())
	c.ras.DrawOp = draw.Over
	ox, oy := float64(box.Min.X), float64(box.Min.Y)
	for _, poly := range polys {
		if len(poly) < 3 {
			continue
		}
		c.ras.MoveTo(float32(poly[0].X-ox), float32(poly[0].Y-oy))
		for _, p := range poly[1:] {
			c.ras.LineTo(float32(p.X-ox), float32(p.Y-oy))
		}
		c.ras.ClosePath()
	}
	c.ras.Draw(c.dst, box, src, image.Point{})
}

// circlePoints approximates a circle with n segments, counter-clockwise when reverse is set
func circlePoints(cx, cy, rx, ry float64, n int, reverse bool) []pt {
	pts := make([]pt, n)
	for i := 0; i < n; i++ {
		a := 2 * math.Pi * float64(i) / float64(n)
		if reverse {
			a = -a
		}
		pts[i] = pt{cx + rx*math.Cos(a), cy + ry*math.Sin(a)}
	}
	return pts
}

func segmentsFor(r float64) int {
	n := int(r * 0.75)
	if n < 12 {
		n = 12
	}
	if n > 96 {
		n = 96
	}
	return n
}

func (c *canvas) ellipse(cx, cy, rx, ry float64, src image.Image) {
	if rx < 0.3 || ry < 0.3 {
		if rx > 0 && ry > 0 {
			c.dot(cx, cy, 1, src)
		}
		return
	}
	c.fill(src, circlePoints(cx, cy, rx, ry, segmentsFor(math.Max(rx, ry)), false))
}

func (c *canvas) disc(cx, cy, r float64, src image.Image) {
	c.ellipse(cx, cy, r, r, src)
}

// ring strokes a circle outline of the given width
func (c *canvas) ring(cx, cy, r, width float64, src image.Image) {
	if r <= width {
		c.disc(cx, cy, r, src)
		return
	}
	n := segmentsFor(r)
	c.fill(src, circlePoints(cx, cy, r, r, n, false), circlePoints(cx, cy, r-width, r-width, n, true))
}

// dot plots a small square, used for particles
func (c *canvas) dot(x, y, size float64, src image.Image) {
	if size < 1 {
		size = 1
	}
	h := size / 2
	r := image.Rect(int(x-h), int(y-h), int(x+h+0.5), int(y+h+0.5))
	if r.Empty() {
		r.Max = r.Min.Add(image.Pt(1, 1))
	}
	draw.Draw(c.dst, r.Intersect(c.dst.Bounds()), src, image.Point{}, draw.Over)
}

// line strokes a segment as a thin quad
func (c *canvas) line(a, b pt, width float64, src image.Image) {
	dx, dy := b.X-a.X, b.Y-a.Y
	l := math.Hypot(dx, dy)
	if l < 1e-9 {
		return
	}
	nx, ny := -dy/l*width/2, dx/l*width/2
	c.fill(src, []pt{
		{a.X + nx, a.Y + ny},
		{b.X + nx, b.Y + ny},
		{b.X - nx, b.Y - ny},
		{a.X - nx, a.Y - ny},
	})
}

// outline strokes a closed polygon
func (c *canvas) outline(poly []pt, width float64, src image.Image) {
	for i := range poly {
		c.line(poly[i], poly[(i+1)%len(poly)], width, src)
	}
}

// rect fills an axis-aligned rectangle
func (c *canvas) rect(r image.Rectangle, src image.Image) {
	draw.Draw(c.dst, r.Intersect(c.dst.Bounds()), src, image.Point{}, draw.Over)
}
