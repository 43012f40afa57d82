package system

import (
	"image"
	"sync"
	"sync/atomic"
)

// FramePool переиспользует кадры *image.RGBA одного размера,
// чтобы рендер не нагружал Garbage Collector (GC) на каждом кадре.
type FramePool struct {
	pools     map[image.Rectangle]*sync.Pool
	mu        sync.RWMutex
	allocated atomic.Int64
}

func NewFramePool() *FramePool {
	return &FramePool{pools: make(map[image.Rectangle]*sync.Pool)}
}

// Get возвращает кадр из пула или создает новый.
// Содержимое кадра не очищается.
func (p *FramePool) Get(rect image.Rectangle) *image.RGBA {
	p.mu.RLock()
	pool, exists := p.pools[rect]
	p.mu.RUnlock()

	if !exists {
		p.mu.Lock()
		// Double check
		pool, exists = p.pools[rect]
		if !exists {
			pool = &sync.Pool{
				New: func() interface{} {
					p.allocated.Add(1)
					return image.NewRGBA(rect)
				},
			}
			p.pools[rect] = pool
		}
		p.mu.Unlock()
	}

	return pool.Get().(*image.RGBA)
}

// Put возвращает кадр в пул. Кадры чужого размера отбрасываются.
func (p *FramePool) Put(img *image.RGBA) {
	if img == nil {
		return
	}
	p.mu.RLock()
	pool, exists := p.pools[img.Rect]
	p.mu.RUnlock()

	if exists {
		pool.Put(img)
	}
}

// Allocated is the number of frames created so far
func (p *FramePool) Allocated() int64 {
	return p.allocated.Load()
}
