package analyzer

import (
	"image"
	"image/color"
	"image/draw"
	"testing"
)

// frameWithCard draws a light card with a dark "text" line on a dark frame
func frameWithCard(card image.Rectangle) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 320, 180))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.RGBA{R: 5, G: 1, B: 15, A: 255}), image.Point{}, draw.Src)
	if !card.Empty() {
		draw.Draw(img, card, image.NewUniform(color.RGBA{R: 0xf4, G: 0xf6, B: 0xfb, A: 255}), image.Point{}, draw.Src)
		text := image.Rect(card.Min.X+10, card.Min.Y+10, card.Max.X-30, card.Min.Y+16)
		draw.Draw(img, text, image.NewUniform(color.RGBA{R: 0x11, G: 0x11, B: 0x18, A: 255}), image.Point{}, draw.Src)
	}
	return img
}

func TestContrastDetector(t *testing.T) {
	card := image.Rect(50, 50, 150, 130)
	img := frameWithCard(card)

	detector := NewContrastDetector()
	blocks, err := detector.Detect(img)
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}
	if len(blocks) == 0 {
		t.Fatal("Expected at least one block, got none")
	}

	t.Logf("Detected %d blocks", len(blocks))
	for i, b := range blocks {
		t.Logf("Block %d: %v (type: %s, confidence: %.2f)", i, b.Rect, b.Type, b.Confidence)
	}

	found, ok := FindCard(blocks, card, 0.9)
	if !ok {
		t.Fatalf("card %v not found", card)
	}
	if found.Rect.Dx() < 90 || found.Rect.Dy() < 70 {
		t.Errorf("Block too small: %v", found.Rect)
	}
}

func TestLumaDetector(t *testing.T) {
	card := image.Rect(20, 100, 140, 170)
	blocks, err := NewLumaDetector().Detect(frameWithCard(card))
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}
	if _, ok := FindCard(blocks, card, 0.9); !ok {
		t.Errorf("card %v not found in %v", card, blocks)
	}
}

func TestNoCardOnEmptyFrame(t *testing.T) {
	want := image.Rect(20, 100, 140, 170)
	for _, variant := range []string{"contrast", "luma"} {
		t.Run(variant, func(t *testing.T) {
			d, err := NewDetector(variant)
			if err != nil {
				t.Fatalf("NewDetector: %v", err)
			}
			blocks, err := d.Detect(frameWithCard(image.Rectangle{}))
			if err != nil {
				t.Fatalf("Detect failed: %v", err)
			}
			if b, ok := FindCard(blocks, want, 0.5); ok {
				t.Errorf("unexpected card %v", b.Rect)
			}
		})
	}
}

func TestFindCardRejectsOversized(t *testing.T) {
	want := image.Rect(0, 0, 10, 10)
	blocks := []Block{
		{Rect: image.Rect(0, 0, 100, 100), Type: "card"},
		{Rect: image.Rect(0, 0, 10, 10), Type: "shape"},
	}
	if _, ok := FindCard(blocks, want, 0.5); ok {
		t.Error("oversized cards and shapes must not match")
	}
}

func TestDetectorRegistry(t *testing.T) {
	tests := []struct {
		variant string
		wantErr bool
	}{
		{"contrast", false},
		{"", false}, // default
		{"luma", false},
		{"ocr", true},
		{"invalid", true},
	}

	for _, tt := range tests {
		t.Run(tt.variant, func(t *testing.T) {
			detector, err := NewDetector(tt.variant)

			if tt.wantErr {
				if err == nil {
					t.Error("Expected error, got nil")
				}
			} else {
				if err != nil {
					t.Errorf("Unexpected error: %v", err)
				}
				if detector == nil {
					t.Error("Expected detector, got nil")
				}
			}
		})
	}
}
