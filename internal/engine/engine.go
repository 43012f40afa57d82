package engine

import (
	"context"
	"fmt"
	"image"
	"log"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ivlev/lobbyreel/internal/config"
	"github.com/ivlev/lobbyreel/internal/director"
	"github.com/ivlev/lobbyreel/internal/renderer"
	"github.com/ivlev/lobbyreel/internal/scene"
	"github.com/ivlev/lobbyreel/internal/source"
	"github.com/ivlev/lobbyreel/internal/stage"
	"github.com/ivlev/lobbyreel/internal/system"
	"github.com/ivlev/lobbyreel/internal/video"
)

// ReelProject renders one page into a video following a scroll script
type ReelProject struct {
	Config  *config.Config
	Page    *scene.Page
	Encoder video.VideoEncoder
	Script  *director.Script
}

func NewReelProject(cfg *config.Config, page *scene.Page, ve video.VideoEncoder) *ReelProject {
	return &ReelProject{
		Config:  cfg,
		Page:    page,
		Encoder: ve,
	}
}

// Run simulates the page, renders every frame in a worker pool and streams
// them in order to the encoder.
func (p *ReelProject) Run(ctx context.Context) error {
	startTime := time.Now()

	if err := p.Page.Validate(); err != nil {
		return err
	}
	if sections, err := p.Page.ScrollSections(); err == nil {
		for _, pair := range sections.Overlaps() {
			log.Printf("[!] Секции %s и %s перекрываются, показывается %s", pair[0], pair[1], pair[0])
		}
	}

	if p.Config.GenerateScript {
		return p.handleGenerateScript()
	}

	if err := p.loadScript(); err != nil {
		return err
	}

	if p.Config.DPI > 0 && p.Page.Backdrop != nil && p.Page.Backdrop.DPI == 0 {
		p.Page.Backdrop.DPI = p.Config.DPI
	}
	backdrop, err := source.LoadBackdrop(p.Page.Backdrop, p.Config.Width, p.Config.Height)
	if err != nil {
		return fmt.Errorf("ошибка загрузки фона: %w", err)
	}
	ras, err := renderer.NewRasterizer(p.Config.Width, p.Config.Height, backdrop)
	if err != nil {
		return err
	}

	if p.Config.Workers <= 0 {
		p.Config.Workers = system.RecommendedWorkers(p.Config.Width * p.Config.Height * 4)
	}
	params := p.Config.Params()
	frameCount := params.FrameCount()

	fmt.Println("--- [PROJECT: LOBBY REEL] ---")
	fmt.Printf("[*] Страница: %s | Секций: %d | Кадров: %d\n", p.Page.Name, len(p.Page.Sections), frameCount)
	fmt.Printf("[*] Разрешение: %dx%d @ %d FPS | Потоки: %d\n", p.Config.Width, p.Config.Height, p.Config.FPS, p.Config.Workers)
	fmt.Println("-----------------------------")

	world, err := BuildWorld(p.Page, p.Config.Seed)
	if err != nil {
		return err
	}

	out, err := p.Encoder.Start(ctx, p.Config)
	if err != nil {
		return fmt.Errorf("ошибка запуска энкодера: %w", err)
	}

	stats, err := p.pipeline(ctx, world, ras, out, frameCount)
	closeErr := out.Close()
	if err != nil {
		return err
	}
	if closeErr != nil {
		return fmt.Errorf("ошибка сборки финального видео: %w", closeErr)
	}

	if p.Config.ShowStats {
		p.report(stats, frameCount, time.Since(startTime))
	}
	return nil
}

// loadScript reads the script file or plans one, then fits it to the
// configured duration (for example the soundtrack length)
func (p *ReelProject) loadScript() error {
	if p.Script == nil && p.Config.ScriptInput != "" {
		script, err := director.ReadScript(p.Config.ScriptInput)
		if err != nil {
			return fmt.Errorf("ошибка чтения сценария: %w", err)
		}
		if script.Page != "" && script.Page != p.Page.Name {
			log.Printf("[!] Сценарий написан для страницы %s, а не %s", script.Page, p.Page.Name)
		}
		p.Script = script
		fmt.Printf("[*] Используется сценарий: %s\n", p.Config.ScriptInput)
	}
	if p.Script == nil {
		script, err := p.newDirector().GenerateScript(p.Page, p.targetDuration())
		if err != nil {
			return err
		}
		p.Script = script
	}

	if p.Config.TotalDuration > 0 && p.Script.Duration > 0 && p.Config.TotalDuration != p.Script.Duration {
		scale := p.Config.TotalDuration / p.Script.Duration
		p.Script.Scale(scale)
		p.Script.Duration = p.Config.TotalDuration
		fmt.Printf("[*] Сценарий масштабирован (x%.3f): длительность %.2fs\n", scale, p.Script.Duration)
	}
	p.Config.TotalDuration = p.Script.Duration
	return nil
}

func (p *ReelProject) targetDuration() float64 {
	if p.Config.TotalDuration > 0 {
		return p.Config.TotalDuration
	}
	return defaultDuration
}

// defaultDuration is used when neither audio nor -duration set the length
const defaultDuration = 12.0

func (p *ReelProject) newDirector() *director.Director {
	d := director.NewDirector(p.Page.Viewport.Width, p.Page.Viewport.Height)
	if p.Config.MinDwell > 0 {
		d.MinDwell = p.Config.MinDwell
	}
	if p.Config.MaxDwell > 0 {
		d.MaxDwell = p.Config.MaxDwell
	}
	return d
}

type pipelineStats struct {
	simulate time.Duration
	render   atomic.Int64 // summed over workers, ns
	encode   time.Duration
	wall     time.Duration
}

type rendered struct {
	index int
	img   *image.RGBA
}

// pipeline: simulate -> jobs -> render pool -> results -> ordered encoder.
// A token per in-flight frame bounds memory when one frame renders slowly.
func (p *ReelProject) pipeline(ctx context.Context, w *World, ras *renderer.Rasterizer, out video.FrameWriter, frameCount int) (*pipelineStats, error) {
	stats := &pipelineStats{}
	start := time.Now()
	workers := p.Config.Workers
	if workers > frameCount {
		workers = frameCount
	}

	pool := system.NewFramePool()
	tokens := make(chan struct{}, 2*workers+2)
	jobs := make(chan *stage.Frame, workers)
	results := make(chan rendered, workers)

	g, gctx := errgroup.WithContext(ctx)

	// 1. Simulation: the page state is single-threaded, frames leave as snapshots
	g.Go(func() error {
		defer close(jobs)
		t0 := time.Now()
		defer func() { stats.simulate = time.Since(t0) }()
		return p.simulate(gctx, w, frameCount, func(f *stage.Frame) error {
			select {
			case tokens <- struct{}{}:
			case <-gctx.Done():
				return gctx.Err()
			}
			select {
			case jobs <- f:
				return nil
			case <-gctx.Done():
				return gctx.Err()
			}
		})
	})

	// 2. Render pool (CPU bound)
	renderers, rctx := errgroup.WithContext(gctx)
	for i := 0; i < workers; i++ {
		renderers.Go(func() error {
			for f := range jobs {
				// a failed sibling stops the pool before the next frame
				if err := rctx.Err(); err != nil {
					return err
				}
				t0 := time.Now()
				img := pool.Get(ras.Bounds())
				if err := ras.Render(f, img); err != nil {
					return fmt.Errorf("кадр %d: %w", f.Index, err)
				}
				stats.render.Add(int64(time.Since(t0)))
				select {
				case results <- rendered{index: f.Index, img: img}:
				case <-rctx.Done():
					return rctx.Err()
				}
			}
			return nil
		})
	}
	g.Go(func() error {
		defer close(results)
		return renderers.Wait()
	})

	// 3. Encoder: frames arrive out of order and are written in order
	g.Go(func() error {
		pending := make(map[int]*image.RGBA)
		next := 0
		step := frameCount / 10
		if step < 1 {
			step = 1
		}
		for r := range results {
			pending[r.index] = r.img
			for {
				img, ok := pending[next]
				if !ok {
					break
				}
				delete(pending, next)
				t0 := time.Now()
				if err := out.WriteFrame(img); err != nil {
					return fmt.Errorf("кадр %d: %w", next, err)
				}
				stats.encode += time.Since(t0)
				pool.Put(img)
				<-tokens
				next++
				if next%step == 0 || next == frameCount {
					fmt.Printf("[>] Ready: %d/%d\n", next, frameCount)
				}
			}
		}
		if next != frameCount && gctx.Err() == nil {
			return fmt.Errorf("записано %d кадров из %d", next, frameCount)
		}
		return nil
	})

	err := g.Wait()
	stats.wall = time.Since(start)
	if err != nil {
		return nil, err
	}
	log.Printf("[*] Кадров в пуле: %d", pool.Allocated())
	return stats, nil
}

// simulate advances the world frame by frame. Actions fire when the clock
// passes their time, the scroll offset follows the script keyframes.
func (p *ReelProject) simulate(ctx context.Context, w *World, frameCount int, emit func(*stage.Frame) error) error {
	fps := float64(p.Config.FPS)
	dt := 1 / fps
	actions := p.Script.Actions
	next := 0

	for i := 0; i < frameCount; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		t := float64(i) / fps
		for next < len(actions) && actions[next].Time <= t {
			if err := w.Dispatch(actions[next]); err != nil {
				log.Printf("[!] Действие %d (%s) пропущено: %v", next, actions[next].Kind, err)
			}
			next++
		}
		w.ScrollTo(renderer.InterpolateKeyframes(p.Script.Keyframes, t))
		w.Scheduler.Frame(dt)

		f := w.Ctx.Snapshot()
		f.Index = i
		if err := emit(f); err != nil {
			return err
		}
	}
	return nil
}

func (p *ReelProject) report(s *pipelineStats, frameCount int, total time.Duration) {
	fps := float64(frameCount) / total.Seconds()
	host := "n/a"
	if hs, err := system.ReadHostStats(); err == nil {
		host = hs.String()
	}
	report := fmt.Sprintf(
		"--- [PERFORMANCE REPORT] ---\n"+
			"Build: %s\n"+
			"Host: %s\n"+
			"Total Time: %.2fs\n"+
			"Simulation: %.2fs\n"+
			"Rendering (CPU, sum over %d workers): %.2fs\n"+
			"Encoding: %.2fs\n"+
			"Pipeline: %.2fs\n"+
			"Effective FPS: %.2f\n"+
			"----------------------------\n",
		p.Config.BuildVersion, host, total.Seconds(), s.simulate.Seconds(),
		p.Config.Workers, time.Duration(s.render.Load()).Seconds(), s.encode.Seconds(), s.wall.Seconds(), fps,
	)
	fmt.Print(report)

	// Логирование в файл
	logEntry := fmt.Sprintf("[%s] Build: %s | Page: %s | Frames: %d | Total: %.2fs | Render: %.2fs | Encode: %.2fs | FPS: %.2f\n",
		time.Now().Format("2006-01-02 15:04:05"),
		p.Config.BuildVersion,
		p.Page.Name,
		frameCount,
		total.Seconds(),
		time.Duration(s.render.Load()).Seconds(),
		s.encode.Seconds(),
		fps,
	)

	f, err := os.OpenFile("benchmark.log", os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err == nil {
		f.WriteString(logEntry)
		f.Close()
	} else {
		fmt.Printf("[!] Не удалось записать benchmark.log: %v\n", err)
	}
}

func (p *ReelProject) handleGenerateScript() error {
	fmt.Println("[*] Режим генерации сценария...")

	script, err := p.newDirector().GenerateScript(p.Page, p.targetDuration())
	if err != nil {
		return err
	}

	outputPath := p.Config.ScriptOutput
	if outputPath == "" {
		outputPath = director.GenerateScriptPath(director.DefaultScriptsDir, p.Page.Name)
	}

	// Убеждаемся, что директория существует
	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return err
	}

	if err := director.WriteScript(script, outputPath); err != nil {
		return err
	}
	p.Script = script

	fmt.Printf("[+++] Успех! Сценарий сохранен: %s (%.2fs, ключевых кадров: %d, действий: %d)\n",
		outputPath, script.Duration, len(script.Keyframes), len(script.Actions))
	return nil
}
