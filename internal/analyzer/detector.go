package analyzer

import "image"

// Block represents a detected region of interest in a frame
type Block struct {
	Rect       image.Rectangle
	Type       string  // "card", "shape"
	Confidence float64 // 0.0-1.0
}

// Detector is the interface for frame analysis strategies
type Detector interface {
	Detect(img image.Image) ([]Block, error)
}

// FindCard returns the card block that best covers want. A card counts when
// it covers at least minCover of want and is not much larger than it.
func FindCard(blocks []Block, want image.Rectangle, minCover float64) (Block, bool) {
	area := float64(want.Dx() * want.Dy())
	if area <= 0 {
		return Block{}, false
	}
	var best Block
	bestCover := 0.0
	for _, b := range blocks {
		if b.Type != "card" {
			continue
		}
		in := b.Rect.Intersect(want)
		cover := float64(in.Dx()*in.Dy()) / area
		if float64(b.Rect.Dx()*b.Rect.Dy()) > 2*area {
			continue
		}
		if cover > bestCover {
			best, bestCover = b, cover
		}
	}
	return best, bestCover >= minCover
}
