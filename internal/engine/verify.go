package engine

import (
	"fmt"
	"image"

	"github.com/ivlev/lobbyreel/internal/analyzer"
	"github.com/ivlev/lobbyreel/internal/renderer"
	"github.com/ivlev/lobbyreel/internal/scene"
)

// VerifyPoints are the scroll fractions checked by Verify: both ends,
// a point inside a middle section and the gap before it
var VerifyPoints = []float64{0, 0.35, 0.55, 1.0}

// CheckResult is the outcome at one scroll fraction
type CheckResult struct {
	Percent  float64
	Expected string // active section id, "" for none
	Found    bool   // a caption card was detected
	Block    analyzer.Block
}

// OK reports whether the frame agrees with the section thresholds
func (r CheckResult) OK() bool {
	return r.Found == (r.Expected != "")
}

// Verify renders single frames at VerifyPoints and checks that a caption
// card is on screen exactly when a section is active
func Verify(page *scene.Page, width, height int, detector analyzer.Detector) ([]CheckResult, error) {
	if !page.HasScrollPath() || len(page.Sections) == 0 {
		return nil, fmt.Errorf("page %s has no scroll sections to verify", page.Name)
	}
	ras, err := renderer.NewRasterizer(width, height, nil)
	if err != nil {
		return nil, err
	}
	caption := renderer.CaptionRect(width, height)
	margin := width / 80
	if margin < 4 {
		margin = 4
	}
	region := caption.Inset(-margin).Intersect(ras.Bounds())

	var results []CheckResult
	for _, percent := range VerifyPoints {
		w, err := BuildWorld(page, 1)
		if err != nil {
			return nil, err
		}
		w.ScrollTo(percent * page.ScrollExtent())
		w.Scheduler.Frame(0)

		img := image.NewRGBA(ras.Bounds())
		if err := ras.Render(w.Ctx.Snapshot(), img); err != nil {
			return nil, fmt.Errorf("render at %.2f: %w", percent, err)
		}
		blocks, err := detector.Detect(img.SubImage(region))
		if err != nil {
			return nil, fmt.Errorf("detect at %.2f: %w", percent, err)
		}
		block, found := analyzer.FindCard(blocks, caption, 0.9)
		results = append(results, CheckResult{
			Percent:  percent,
			Expected: w.Mapper.ActiveSectionAt(percent),
			Found:    found,
			Block:    block,
		})
	}
	return results, nil
}
