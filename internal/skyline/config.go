package skyline

import (
	"fmt"

	"github.com/ironsheep/sky-region-detector/internal/daynight"
)

// Config holds the tunable parameters of the detection pipeline.
type Config struct {
	// DayThreshold is the mean intensity at or above which an image is Day.
	DayThreshold float64 `yaml:"day_threshold" json:"day_threshold"`

	// BlurWidth and BlurHeight size the box filter applied before edge
	// detection. Width should exceed height.
	BlurWidth  int `yaml:"blur_width" json:"blur_width"`
	BlurHeight int `yaml:"blur_height" json:"blur_height"`

	// MedianRadius enables an extra median pass after the box blur when > 0.
	MedianRadius int `yaml:"median_radius" json:"median_radius"`

	// CannyLow and CannyHigh are the hysteresis thresholds in 8-bit gradient units.
	CannyLow  float64 `yaml:"canny_low" json:"canny_low"`
	CannyHigh float64 `yaml:"canny_high" json:"canny_high"`

	// A candidate row r is kept only when TopMargin < r < height-BottomMargin.
	TopMargin    int `yaml:"top_margin" json:"top_margin"`
	BottomMargin int `yaml:"bottom_margin" json:"bottom_margin"`

	// NoSkyRatio is the fraction of the image height below which a mean
	// skyline row means no sky was found.
	NoSkyRatio float64 `yaml:"no_sky_ratio" json:"no_sky_ratio"`
}

// DefaultConfig returns the calibrated defaults.
func DefaultConfig() Config {
	return Config{
		DayThreshold: daynight.DefaultThreshold,
		BlurWidth:    9,
		BlurHeight:   3,
		MedianRadius: 0,
		CannyLow:     50,
		CannyHigh:    150,
		TopMargin:    20,
		BottomMargin: 20,
		NoSkyRatio:   0.1,
	}
}

// Validate reports the first parameter that would make the pipeline misbehave.
func (c Config) Validate() error {
	switch {
	case c.BlurWidth < 1 || c.BlurHeight < 1:
		return fmt.Errorf("blur kernel must be at least 1x1, got %dx%d", c.BlurWidth, c.BlurHeight)
	case c.MedianRadius < 0:
		return fmt.Errorf("median radius must not be negative, got %d", c.MedianRadius)
	case c.CannyLow < 0 || c.CannyHigh < 0:
		return fmt.Errorf("canny thresholds must not be negative, got %g/%g", c.CannyLow, c.CannyHigh)
	case c.CannyLow > c.CannyHigh:
		return fmt.Errorf("canny low threshold %g exceeds high threshold %g", c.CannyLow, c.CannyHigh)
	case c.TopMargin < 0 || c.BottomMargin < 0:
		return fmt.Errorf("margins must not be negative, got %d/%d", c.TopMargin, c.BottomMargin)
	case c.NoSkyRatio < 0 || c.NoSkyRatio > 1:
		return fmt.Errorf("no-sky ratio must be within [0,1], got %g", c.NoSkyRatio)
	}
	return nil
}
