package video

import (
	"fmt"

	"github.com/ivlev/lobbyreel/internal/config"
)

// FadeFilter fades the reel in from black and out at the end.
// Returns "" when the reel is too short to fit both fades.
func FadeFilter(p config.FrameParams) string {
	if p.FadeDuration <= 0 || p.Duration < 2*p.FadeDuration {
		return ""
	}
	return fmt.Sprintf("fade=t=in:st=0:d=%.3f,fade=t=out:st=%.3f:d=%.3f",
		p.FadeDuration, p.Duration-p.FadeDuration, p.FadeDuration)
}

// BackgroundVolume ramps the looped background track in over the first
// seconds and out before the end
func BackgroundVolume(volume, totalDur float64) string {
	fadeInDur := 5.0
	fadeOutDur := 5.0
	if totalDur < fadeInDur+fadeOutDur {
		fadeInDur = totalDur * 0.1
		fadeOutDur = totalDur * 0.1
	}
	return fmt.Sprintf("volume='%f*(if(lte(t,%f), 0.1 + 0.9*(t/%f), if(gte(t, %f), (%f-t)/%f, 1.0)))':eval=frame",
		volume, fadeInDur, fadeInDur, totalDur-fadeOutDur, totalDur, fadeOutDur)
}

// QualityArgs maps a quality value onto the encoder's rate control flags
func QualityArgs(encoderName string, quality int) []string {
	switch encoderName {
	case "h264_videotoolbox":
		// VideoToolbox часто не поддерживает -q:v напрямую на всех версиях. Используем битрейт.
		bitrate := quality * 100 // кбит/с. 75 -> 7.5Мбит/с
		return []string{"-b:v", fmt.Sprintf("%dk", bitrate)}
	case "h264_nvenc":
		return []string{"-cq", fmt.Sprintf("%d", quality)}
	default: // libx264
		return []string{"-crf", fmt.Sprintf("%d", quality), "-preset", "medium"}
	}
}
