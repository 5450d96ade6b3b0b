package skyline

import (
	"image"

	"github.com/ironsheep/sky-region-detector/internal/daynight"
	"github.com/ironsheep/sky-region-detector/internal/imaging"
)

// PlaneFor returns the intensity plane used for the given time of day. Blue
// separates sky from ground best in daylight; at night the colour channels
// carry little signal so luminance is used.
func PlaneFor(label daynight.Label) imaging.Plane {
	if label == daynight.Day {
		return imaging.PlaneBlue
	}
	return imaging.PlaneLuminance
}

// ExtractEdges produces the EdgeMap for an RGB image.
func ExtractEdges(img *image.NRGBA, label daynight.Label, cfg Config) *EdgeMap {
	plane := imaging.ExtractPlane(img, PlaneFor(label))
	smoothed := imaging.BoxBlur(plane, cfg.BlurWidth, cfg.BlurHeight)
	smoothed = imaging.MedianFilter(smoothed, cfg.MedianRadius)
	return EdgeMapFromImage(imaging.Canny(smoothed, cfg.CannyLow, cfg.CannyHigh))
}
