package analyzer

import (
	"image"
	"image/draw"
)

// Overlay cards are light panels; anything darker is scene content
const (
	cardLuma = 228
	cardFill = 0.6
)

// ContrastDetector implements edge-based region detection using Sobel operator
type ContrastDetector struct {
	MinBlockArea  int     // Minimum area in pixels²
	EdgeThreshold float64 // Gradient magnitude threshold
}

// NewContrastDetector creates a new contrast-based detector with default settings
func NewContrastDetector() *ContrastDetector {
	return &ContrastDetector{
		MinBlockArea:  500,  // ~22x22 pixels minimum
		EdgeThreshold: 30.0, // Moderate sensitivity
	}
}

// Detect finds regions of interest using edge detection and morphology
func (d *ContrastDetector) Detect(img image.Image) ([]Block, error) {
	gray := toGrayscale(img)

	// Sobel edges, dilated so that card borders and caption text merge
	m := edgeMask(gray, d.EdgeThreshold)
	m.dilate(5, 2)
	return classify(gray, m.regions(), d.MinBlockArea), nil
}

// LumaDetector finds bright regions directly by thresholding luminance.
// It is cheaper than the contrast detector and works on flat overlays.
type LumaDetector struct {
	MinBlockArea int
	Threshold    uint8
}

// NewLumaDetector creates a luminance detector with default settings
func NewLumaDetector() *LumaDetector {
	return &LumaDetector{MinBlockArea: 500, Threshold: cardLuma}
}

// Detect finds connected bright regions
func (d *LumaDetector) Detect(img image.Image) ([]Block, error) {
	gray := toGrayscale(img)
	m := newMask(gray.Bounds())
	for y := 0; y < m.h; y++ {
		row := gray.Pix[y*gray.Stride : y*gray.Stride+m.w]
		for x, v := range row {
			m.on[y*m.w+x] = v > d.Threshold
		}
	}
	// close the gaps left by caption text
	m.dilate(3, 2)
	return classify(gray, m.regions(), d.MinBlockArea), nil
}

// classify turns contours into blocks; light, mostly filled rectangles are cards
func classify(gray *image.Gray, contours []image.Rectangle, minArea int) []Block {
	blocks := []Block{}
	for _, rect := range contours {
		area := rect.Dx() * rect.Dy()
		if area < minArea {
			continue
		}
		fill := brightShare(gray, rect)
		b := Block{Rect: rect, Type: "shape", Confidence: 0.5}
		if fill >= cardFill {
			b.Type = "card"
			b.Confidence = fill
		}
		blocks = append(blocks, b)
	}
	return blocks
}

// brightShare is the fraction of pixels in r brighter than cardLuma
func brightShare(gray *image.Gray, r image.Rectangle) float64 {
	r = r.Intersect(gray.Bounds())
	if r.Empty() {
		return 0
	}
	bright := 0
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if gray.GrayAt(x, y).Y > cardLuma {
				bright++
			}
		}
	}
	return float64(bright) / float64(r.Dx()*r.Dy())
}

// toGrayscale converts an image to grayscale
func toGrayscale(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok {
		return g
	}
	bounds := img.Bounds()
	gray := image.NewGray(bounds)
	draw.Draw(gray, bounds, img, bounds.Min, draw.Src)
	return gray
}
