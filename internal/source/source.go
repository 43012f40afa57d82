package source

import (
	"fmt"
	"image"
	"strings"
	"sync"

	"github.com/gen2brain/go-fitz"
)

// Source supplies backdrop pages: PDF pages or image files
type Source interface {
	PageCount() int
	RenderPage(index int, dpi int) (image.Image, error)
	Close() error
}

// Open picks the source type from the path: .pdf goes through MuPDF,
// anything else is treated as an image file or a folder of images.
func Open(path string) (Source, error) {
	if strings.HasSuffix(strings.ToLower(path), ".pdf") {
		src, err := NewFitzPDFSource(path)
		if err != nil {
			return nil, err
		}
		return src, nil
	}
	src, err := NewImageSource(path)
	if err != nil {
		return nil, err
	}
	return src, nil
}

// FitzPDFSource rasterizes PDF pages with MuPDF
type FitzPDFSource struct {
	mu  sync.Mutex // a fitz document must not be used concurrently
	doc *fitz.Document
}

func NewFitzPDFSource(path string) (*FitzPDFSource, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf %s: %w", path, err)
	}
	return &FitzPDFSource{doc: doc}, nil
}

func (f *FitzPDFSource) PageCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.doc.NumPage()
}

func (f *FitzPDFSource) RenderPage(index int, dpi int) (image.Image, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if n := f.doc.NumPage(); index < 0 || index >= n {
		return nil, fmt.Errorf("page %d out of range (%d pages)", index, n)
	}
	return f.doc.ImageDPI(index, float64(dpi))
}

func (f *FitzPDFSource) Close() error {
	return f.doc.Close()
}
