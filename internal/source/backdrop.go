package source

import (
	"fmt"
	"image"

	"golang.org/x/image/draw"

	"github.com/ivlev/lobbyreel/internal/scene"
)

const defaultBackdropDPI = 150

// LoadBackdrop renders the backdrop page and scales it to cover a
// width x height frame, cropping the overflow around the center.
func LoadBackdrop(b *scene.Backdrop, width, height int) (*image.RGBA, error) {
	if b == nil || b.Path == "" {
		return nil, nil
	}
	src, err := Open(b.Path)
	if err != nil {
		return nil, fmt.Errorf("backdrop %s: %w", b.Path, err)
	}
	defer src.Close()

	dpi := b.DPI
	if dpi <= 0 {
		dpi = defaultBackdropDPI
	}
	img, err := src.RenderPage(b.Page, dpi)
	if err != nil {
		return nil, fmt.Errorf("backdrop %s page %d: %w", b.Path, b.Page, err)
	}
	return Cover(img, width, height), nil
}

// Cover scales img to fill width x height keeping its aspect ratio
func Cover(img image.Image, width, height int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	sb := img.Bounds()
	if sb.Empty() || width <= 0 || height <= 0 {
		return dst
	}
	sx := float64(width) / float64(sb.Dx())
	sy := float64(height) / float64(sb.Dy())
	scale := sx
	if sy > scale {
		scale = sy
	}
	w := int(float64(sb.Dx())*scale + 0.5)
	h := int(float64(sb.Dy())*scale + 0.5)
	x0 := (width - w) / 2
	y0 := (height - h) / 2
	draw.CatmullRom.Scale(dst, image.Rect(x0, y0, x0+w, y0+h), img, sb, draw.Src, nil)
	return dst
}
