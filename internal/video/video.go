package video

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"os/exec"
	"strings"

	"github.com/ivlev/lobbyreel/internal/config"
)

// FrameWriter receives the frames of one reel in order
type FrameWriter interface {
	WriteFrame(img *image.RGBA) error
	Close() error
}

type VideoEncoder interface {
	Start(ctx context.Context, cfg *config.Config) (FrameWriter, error)
}

// FFmpegEncoder streams raw RGBA frames into a single ffmpeg process
type FFmpegEncoder struct{}

func (e *FFmpegEncoder) Start(ctx context.Context, cfg *config.Config) (FrameWriter, error) {
	args := e.buildFFmpegArgs(cfg)

	cmd := exec.CommandContext(ctx, "ffmpeg", args...)
	out := &bytes.Buffer{}
	cmd.Stdout = out
	cmd.Stderr = out

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("stdin pipe error: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("ffmpeg start error: %w", err)
	}

	return &ffmpegStream{
		cmd:    cmd,
		stdin:  stdin,
		out:    out,
		bounds: image.Rect(0, 0, cfg.Width, cfg.Height),
	}, nil
}

func (e *FFmpegEncoder) buildFFmpegArgs(cfg *config.Config) []string {
	params := cfg.Params()
	args := []string{
		"-y",
		"-f", "rawvideo",
		"-pixel_format", "rgba",
		"-video_size", fmt.Sprintf("%dx%d", params.Width, params.Height),
		"-framerate", fmt.Sprintf("%d", params.FPS),
		"-i", "-",
	}

	audioIndex, bgIndex := -1, -1
	next := 1
	if cfg.AudioPath != "" {
		audioIndex = next
		next++
		args = append(args, "-i", cfg.AudioPath)
	}
	if cfg.BackgroundAudio != "" {
		bgIndex = next
		args = append(args, "-stream_loop", "-1", "-i", cfg.BackgroundAudio)
	}

	var graph []string
	videoOut := "0:v"
	if fade := FadeFilter(params); fade != "" {
		graph = append(graph, "[0:v]"+fade+"[vout]")
		videoOut = "[vout]"
	}

	// Аудио: основное, фоновое или их микс
	audioOut := ""
	switch {
	case audioIndex != -1 && bgIndex != -1:
		graph = append(graph, fmt.Sprintf("[%d:a]%s[bg_a];[%d:a]volume=1.0[main_a];[main_a][bg_a]amix=inputs=2:duration=first:dropout_transition=3[aout]",
			bgIndex, BackgroundVolume(cfg.BackgroundVolume, params.Duration), audioIndex))
		audioOut = "[aout]"
	case audioIndex != -1:
		audioOut = fmt.Sprintf("%d:a", audioIndex)
	case bgIndex != -1:
		graph = append(graph, fmt.Sprintf("[%d:a]%s[aout]", bgIndex, BackgroundVolume(cfg.BackgroundVolume, params.Duration)))
		audioOut = "[aout]"
	}

	if len(graph) > 0 {
		args = append(args, "-filter_complex", strings.Join(graph, ";"))
	}
	args = append(args, "-map", videoOut)
	if audioOut != "" {
		args = append(args, "-map", audioOut)
	}

	args = append(args,
		"-t", fmt.Sprintf("%f", params.Duration),
		"-c:v", cfg.VideoEncoder,
		"-pix_fmt", "yuv420p",
	)
	args = append(args, QualityArgs(cfg.VideoEncoder, cfg.Quality)...)
	args = append(args, cfg.OutputVideo)
	return args
}

type ffmpegStream struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	out    *bytes.Buffer
	bounds image.Rectangle
	frames int
}

func (s *ffmpegStream) WriteFrame(img *image.RGBA) error {
	if img.Bounds() != s.bounds {
		return fmt.Errorf("frame %d: size %v, expected %v", s.frames, img.Bounds(), s.bounds)
	}
	if err := writeRawRGBA(s.stdin, img); err != nil {
		return fmt.Errorf("write raw error at frame %d: %w", s.frames, err)
	}
	s.frames++
	return nil
}

func (s *ffmpegStream) Close() error {
	s.stdin.Close()
	if err := s.cmd.Wait(); err != nil {
		return fmt.Errorf("ffmpeg wait error: %w\nLog: %s", err, s.out.String())
	}
	return nil
}

// writeRawRGBA writes packed rows; sub-images are copied row by row
func writeRawRGBA(w io.Writer, img *image.RGBA) error {
	rowLen := img.Bounds().Dx() * 4
	if img.Stride == rowLen {
		_, err := w.Write(img.Pix[:rowLen*img.Bounds().Dy()])
		return err
	}
	for y := 0; y < img.Bounds().Dy(); y++ {
		off := y * img.Stride
		if _, err := w.Write(img.Pix[off : off+rowLen]); err != nil {
			return err
		}
	}
	return nil
}
