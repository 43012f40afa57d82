package renderer

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"strings"

	"github.com/skip2/go-qrcode"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/ivlev/lobbyreel/internal/geom"
	"github.com/ivlev/lobbyreel/internal/stage"
)

var (
	cardPaper  = color.RGBA{R: 0xf4, G: 0xf6, B: 0xfb, A: 0xff}
	cardInk    = color.RGBA{R: 0x11, G: 0x11, B: 0x18, A: 0xff}
	cardAccent = color.RGBA{R: 0xff, G: 0x00, B: 0xff, A: 0xff}
	neonCyan   = color.RGBA{R: 0x00, G: 0xff, B: 0xff, A: 0xff}
	white      = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	black      = color.RGBA{A: 0xff}
	signYellow = color.RGBA{R: 0xff, G: 0xd7, A: 0xff}
	sliderPink = color.RGBA{R: 0xff, G: 0x41, B: 0x6c, A: 0xff}
)

// CaptionRect is where the active section card is drawn in a w x h frame
func CaptionRect(w, h int) image.Rectangle {
	x0, y0 := w*6/100, h*60/100
	return image.Rect(x0, y0, x0+w*40/100, y0+h*28/100)
}

type faceSet struct {
	title font.Face
	body  font.Face
}

func (r *Rasterizer) acquireFaces() *faceSet {
	if fs, ok := r.faces.Get().(*faceSet); ok {
		return fs
	}
	fs := &faceSet{title: basicfont.Face7x13, body: basicfont.Face7x13}
	if r.font == nil {
		return fs
	}
	opts := func(size float64) *opentype.FaceOptions {
		return &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingFull}
	}
	if f, err := opentype.NewFace(r.font, opts(math.Max(12, float64(r.Height)/24))); err == nil {
		fs.title = f
	}
	if f, err := opentype.NewFace(r.font, opts(math.Max(10, float64(r.Height)/42))); err == nil {
		fs.body = f
	}
	return fs
}

func (r *Rasterizer) drawOverlays(c *canvas, f *stage.Frame) error {
	fs := r.acquireFaces()
	defer r.faces.Put(fs)

	for _, id := range f.Active {
		r.drawCaption(c, fs, f, id)
	}
	sx, sy := r.viewportScale(f.Page)
	for _, card := range f.Cards {
		if !card.Visible {
			continue
		}
		switch card.Kind {
		case "preview":
			r.drawPreview(c, fs, card, sx, sy)
		case "detail":
			if err := r.drawDetail(c, fs, card, sx, sy); err != nil {
				return err
			}
		}
	}
	if f.Mascot != nil {
		r.drawMascot(c, fs, f.Mascot)
	}
	return nil
}

func (r *Rasterizer) drawCaption(c *canvas, fs *faceSet, f *stage.Frame, id string) {
	title, text := id, ""
	if f.Page != nil {
		if s, ok := f.Page.Section(id); ok {
			if s.Title != "" {
				title = s.Title
			}
			text = s.Text
		}
	}
	box := CaptionRect(r.Width, r.Height)
	c.rect(box, withAlpha(cardPaper, 0.97))
	bar := box
	bar.Max.X = bar.Min.X + int(math.Max(3, float64(r.Width)/200))
	c.rect(bar, withAlpha(cardAccent, 1))

	pad := box.Dy() / 8
	inner := box.Inset(pad)
	inner.Min.X += bar.Dx()
	y := drawText(c.dst, fs.title, cardInk, inner, title, 1)
	inner.Min.Y = y + pad/2
	drawText(c.dst, fs.body, cardInk, inner, text, 3)
}

func (r *Rasterizer) drawPreview(c *canvas, fs *faceSet, card stage.Card, sx, sy float64) {
	x, y := int(card.X*sx), int(card.Y*sy)
	w, h := r.Width*18/100, r.Height*8/100
	box := image.Rect(x, y-h, x+w, y)
	c.rect(box, withAlpha(black, 0.7))
	c.outline([]pt{
		{float64(box.Min.X), float64(box.Min.Y)}, {float64(box.Max.X), float64(box.Min.Y)},
		{float64(box.Max.X), float64(box.Max.Y)}, {float64(box.Min.X), float64(box.Max.Y)},
	}, math.Max(1, float64(r.Height)/500), withAlpha(neonCyan, 1))
	drawText(c.dst, fs.body, neonCyan, box.Inset(h/5), card.Title, 1)
}

func (r *Rasterizer) drawDetail(c *canvas, fs *faceSet, card stage.Card, sx, sy float64) error {
	w, h := r.Width*36/100, r.Height*50/100
	cx, cy := int(card.X*sx), int(card.Y*sy)
	box := image.Rect(cx-w/2, cy-h/2, cx+w/2, cy+h/2)
	c.rect(box, withAlpha(cardPaper, 0.96))

	pad := h / 12
	inner := box.Inset(pad)
	y := drawText(c.dst, fs.title, cardInk, inner, card.Title, 2)
	inner.Min.Y = y + pad/2
	drawText(c.dst, fs.body, cardAccent, inner, card.URL, 1)

	if card.URL == "" {
		return nil
	}
	size := int(math.Min(float64(w), float64(h)) * 0.45)
	code, err := r.qrImage(card.URL, size)
	if err != nil {
		return fmt.Errorf("qr for %s: %w", card.URL, err)
	}
	at := image.Rect(box.Max.X-pad-size, box.Max.Y-pad-size, box.Max.X-pad, box.Max.Y-pad)
	draw.Draw(c.dst, at, code, code.Bounds().Min, draw.Src)
	return nil
}

type qrKey struct {
	url  string
	size int
}

// qrImage encodes url once per size and caches the result
func (r *Rasterizer) qrImage(url string, size int) (image.Image, error) {
	key := qrKey{url, size}
	if img, ok := r.qr.Load(key); ok {
		return img.(image.Image), nil
	}
	q, err := qrcode.New(url, qrcode.Medium)
	if err != nil {
		return nil, err
	}
	img := q.Image(size)
	r.qr.Store(key, img)
	return img, nil
}

// drawText writes up to maxLines wrapped lines into box and returns the
// baseline of the last line.
func drawText(dst draw.Image, face font.Face, col color.RGBA, box image.Rectangle, s string, maxLines int) int {
	m := face.Metrics()
	lineH := (m.Ascent + m.Descent).Ceil()
	y := box.Min.Y + m.Ascent.Ceil()
	if s == "" {
		return box.Min.Y
	}
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(col), Face: face}
	lines := wrap(face, s, box.Dx())
	if len(lines) > maxLines {
		lines = lines[:maxLines]
		lines[maxLines-1] = ellipsize(face, lines[maxLines-1]+" …", box.Dx())
	}
	for i, line := range lines {
		if i > 0 {
			y += lineH
		}
		if y > box.Max.Y {
			break
		}
		d.Dot = fixed.P(box.Min.X, y)
		d.DrawString(line)
	}
	return y
}

func wrap(face font.Face, s string, width int) []string {
	var lines []string
	cur := ""
	for _, word := range strings.Fields(s) {
		next := word
		if cur != "" {
			next = cur + " " + word
		}
		if cur != "" && font.MeasureString(face, next).Ceil() > width {
			lines = append(lines, ellipsize(face, cur, width))
			cur = word
			continue
		}
		cur = next
	}
	if cur != "" {
		lines = append(lines, ellipsize(face, cur, width))
	}
	return lines
}

// ellipsize trims s until it fits width
func ellipsize(face font.Face, s string, width int) string {
	if font.MeasureString(face, s).Ceil() <= width {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 {
		runes = runes[:len(runes)-1]
		t := string(runes) + "…"
		if font.MeasureString(face, t).Ceil() <= width {
			return t
		}
	}
	return ""
}

func (r *Rasterizer) drawMascot(c *canvas, fs *faceSet, m *stage.Mascot) {
	switch m.Kind {
	case "panda":
		r.drawLoginForm(c, fs, m)
		r.drawPanda(c, m)
	case "penguin":
		r.drawLoginForm(c, fs, m)
		r.drawPenguinAvatar(c, m)
	case "tilt":
		r.drawSign(c, fs, m)
	}
}

// formRect is the sign-in container on the login page
func (r *Rasterizer) formRect() image.Rectangle {
	w, h := r.Width*50/100, r.Height*55/100
	x0, y0 := (r.Width-w)/2, r.Height*35/100
	return image.Rect(x0, y0, x0+w, y0+h)
}

func (r *Rasterizer) drawLoginForm(c *canvas, fs *faceSet, m *stage.Mascot) {
	box := r.formRect()
	c.rect(box, withAlpha(white, 0.97))
	half := box.Dx() / 2
	form, overlay := box, box
	form.Max.X = box.Min.X + half
	overlay.Min.X = box.Min.X + half
	label, hint := "Sign in", "Create Account"
	if m.PanelRight {
		form, overlay = overlay, form
		label, hint = "Create Account", "Sign in"
	}
	c.rect(overlay, withAlpha(sliderPink, 1))
	pad := box.Dy() / 10
	drawText(c.dst, fs.title, cardInk, form.Inset(pad), label, 1)
	drawText(c.dst, fs.body, white, overlay.Inset(pad), hint, 2)

	// input fields
	fieldH := box.Dy() / 9
	for i := 0; i < 3; i++ {
		y0 := form.Min.Y + pad*2 + i*(fieldH+fieldH/2)
		c.rect(image.Rect(form.Min.X+pad, y0, form.Max.X-pad, y0+fieldH), withAlpha(color.RGBA{R: 0xee, G: 0xee, B: 0xee, A: 0xff}, 1))
	}
}

func (r *Rasterizer) drawPanda(c *canvas, m *stage.Mascot) {
	box := r.formRect()
	rad := float64(r.Height) * 0.09
	cx, cy := float64(box.Min.X+box.Dx()/2), float64(box.Min.Y)-rad*0.55
	unit := rad / 40 // eye offsets are in css pixels of a ~40px head

	c.disc(cx-rad*0.75, cy-rad*0.75, rad*0.35, withAlpha(black, 1))
	c.disc(cx+rad*0.75, cy-rad*0.75, rad*0.35, withAlpha(black, 1))
	c.disc(cx, cy, rad, withAlpha(white, 1))
	c.ring(cx, cy, rad, math.Max(1, rad/30), withAlpha(black, 1))

	for i, open := range []bool{m.LeftOpen, m.RightOpen} {
		side := float64(2*i - 1)
		ex, ey := cx+side*rad*0.38, cy-rad*0.05
		c.ellipse(ex, ey, rad*0.2, rad*0.26, withAlpha(black, 1))
		ry := rad * 0.12
		if !open {
			ry = rad * 0.02
		}
		c.ellipse(ex+m.EyeOffsetX*unit, ey+m.EyeOffsetY*unit, rad*0.09, ry, withAlpha(white, 1))
	}
	c.ellipse(cx, cy+rad*0.35, rad*0.12, rad*0.08, withAlpha(black, 1))
}

func (r *Rasterizer) drawPenguinAvatar(c *canvas, m *stage.Mascot) {
	box := r.formRect()
	rad := float64(r.Height) * 0.07
	cx, cy := float64(box.Min.X+box.Dx()/2), float64(box.Min.Y)-rad*0.8

	c.disc(cx, cy, rad, withAlpha(color.RGBA{R: 0x22, G: 0x22, B: 0x22, A: 0xff}, 1))
	scaleY := m.EyeScaleY
	if scaleY <= 0 {
		scaleY = 1
	}
	for _, side := range []float64{-1, 1} {
		c.ellipse(cx+side*rad*0.33, cy-rad*0.17, rad*0.17, rad*0.17*scaleY, withAlpha(white, 1))
	}
	c.fill(withAlpha(signYellow, 1), []pt{
		{cx - rad*0.2, cy + rad*0.1}, {cx + rad*0.2, cy + rad*0.1}, {cx, cy + rad*0.45},
	})
}

// drawSign draws the construction sign leaning with the pointer tilt
func (r *Rasterizer) drawSign(c *canvas, fs *faceSet, m *stage.Mascot) {
	w, h := float64(r.Width)*0.26, float64(r.Height)*0.12
	cx, cy := float64(r.Width)/2, float64(r.Height)*0.18
	scale := m.TiltScale
	if scale <= 0 {
		scale = 1
	}
	persp := float64(r.Width)
	corners := []geom.Vec3{geom.V(-w/2, -h/2, 0), geom.V(w/2, -h/2, 0), geom.V(w/2, h/2, 0), geom.V(-w/2, h/2, 0)}
	quad := make([]pt, len(corners))
	for i, p := range corners {
		// screen Y grows downwards, so rotateX tips the top edge away for positive angles
		q := p.Scale(scale).RotateX(-m.TiltX * math.Pi / 180).RotateY(m.TiltY * math.Pi / 180)
		k := persp / (persp - q.Z)
		quad[i] = pt{cx + q.X*k, cy + q.Y*k}
	}
	c.fill(withAlpha(signYellow, 1), quad)
	c.outline(quad, math.Max(2, float64(r.Height)/240), withAlpha(black, 1))
	text := image.Rect(int(cx-w/2*scale)+int(h/4), int(cy-h/4), int(cx+w/2*scale), int(cy+h/2))
	drawText(c.dst, fs.title, black, text, "Under construction", 1)
}
