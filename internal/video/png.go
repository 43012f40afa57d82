package video

import (
	"bufio"
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"github.com/ivlev/lobbyreel/internal/config"
)

// PNGSequence writes every frame to FramesDir as frame_00000.png, ...
type PNGSequence struct{}

func (PNGSequence) Start(ctx context.Context, cfg *config.Config) (FrameWriter, error) {
	if cfg.FramesDir == "" {
		return nil, fmt.Errorf("frames dir is empty")
	}
	if err := os.MkdirAll(cfg.FramesDir, 0755); err != nil {
		return nil, fmt.Errorf("create frames dir: %w", err)
	}
	return &pngWriter{
		ctx: ctx,
		dir: cfg.FramesDir,
		enc: &png.Encoder{CompressionLevel: png.BestSpeed},
	}, nil
}

type pngWriter struct {
	ctx  context.Context
	dir  string
	enc  *png.Encoder
	next int
}

// FramePath is where frame i of a sequence in dir is stored
func FramePath(dir string, i int) string {
	return filepath.Join(dir, fmt.Sprintf("frame_%05d.png", i))
}

func (w *pngWriter) WriteFrame(img *image.RGBA) error {
	if err := w.ctx.Err(); err != nil {
		return err
	}
	path := FramePath(w.dir, w.next)
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(f)
	if err := w.enc.Encode(bw, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return err
	}
	w.next++
	return f.Close()
}

func (w *pngWriter) Close() error { return nil }
