package config

type Config struct {
	PagePath         string // YAML page descriptor, empty to use Preset
	Page             string // built-in page preset
	ScriptInput      string
	ScriptOutput     string
	GenerateScript   bool
	OutputVideo      string
	FramesDir        string // write a PNG sequence instead of a video
	TotalDuration    float64
	Width            int
	Height           int
	FPS              int
	Workers          int
	FadeDuration     float64
	AudioPath        string
	BackgroundAudio  string
	BackgroundVolume float64
	Format           string // 16:9, 9:16, 4:5
	VideoEncoder     string
	Quality          int
	ShowStats        bool
	BuildVersion     string
	Seed             int64
	DPI              int // backdrop PDF resolution
	MinDwell         float64
	MaxDwell         float64
	Verify           bool
}

// FrameParams describes the frame stream handed to the encoder
type FrameParams struct {
	Width, Height int
	FPS           int
	Duration      float64
	FadeDuration  float64
}

// Params extracts the encoder parameters
func (c *Config) Params() FrameParams {
	return FrameParams{
		Width:        c.Width,
		Height:       c.Height,
		FPS:          c.FPS,
		Duration:     c.TotalDuration,
		FadeDuration: c.FadeDuration,
	}
}

// FrameCount is the number of frames in the reel
func (p FrameParams) FrameCount() int {
	n := int(p.Duration*float64(p.FPS) + 0.5)
	if n < 1 {
		n = 1
	}
	return n
}
