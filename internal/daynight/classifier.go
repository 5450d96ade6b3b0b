package daynight

import (
	"errors"
	"image"
	"strings"

	"gonum.org/v1/gonum/stat"

	"github.com/ironsheep/sky-region-detector/internal/imaging"
)

// Label is the time-of-day class of a photograph.
type Label string

const (
	Day   Label = "Day"
	Night Label = "Night"
)

// DefaultThreshold is the mean intensity separating day from night shots.
const DefaultThreshold = 97.0

var (
	// ErrMissingClass is returned by Calibrate when the samples lack either
	// day or night examples.
	ErrMissingClass = errors.New("daynight: calibration needs both day and night samples")

	// ErrNoLabeledSamples is returned by Accuracy when no sample name carries
	// a recognised label prefix.
	ErrNoLabeledSamples = errors.New("daynight: no labeled samples")
)

// Classifier labels images by comparing their mean intensity to Threshold.
type Classifier struct {
	Threshold float64
}

// NewClassifier returns a classifier using the given threshold.
func NewClassifier(threshold float64) *Classifier {
	return &Classifier{Threshold: threshold}
}

// Classify returns Day when the mean intensity of img is at least the
// threshold, Night otherwise.
func (c *Classifier) Classify(img image.Image) Label {
	if MeanIntensity(img) >= c.Threshold {
		return Day
	}
	return Night
}

// MeanIntensity returns the average of the R, G and B values of every pixel,
// on the 0-255 scale. Alpha is ignored. An empty image has mean 0.
func MeanIntensity(img image.Image) float64 {
	rgb := imaging.ToRGB(img)
	width, height := rgb.Bounds().Dx(), rgb.Bounds().Dy()
	if width == 0 || height == 0 {
		return 0
	}

	var sum uint64
	for y := 0; y < height; y++ {
		row := rgb.Pix[y*rgb.Stride : y*rgb.Stride+width*4]
		for i := 0; i < len(row); i += 4 {
			sum += uint64(row[i]) + uint64(row[i+1]) + uint64(row[i+2])
		}
	}
	return float64(sum) / float64(width*height*3)
}

// Sample is a named image used for calibration and accuracy checks.
type Sample struct {
	Name  string
	Image image.Image
}

// LabelFromFilename derives the ground-truth label from a file name prefix:
// "d" for Day and "n" for Night. The second result is false for any other name.
func LabelFromFilename(name string) (Label, bool) {
	switch {
	case strings.HasPrefix(name, "d"):
		return Day, true
	case strings.HasPrefix(name, "n"):
		return Night, true
	default:
		return "", false
	}
}

// Calibrate computes a threshold for the samples as the midpoint between the
// average day mean intensity and the average night mean intensity. Samples
// without a label prefix are ignored.
func Calibrate(samples []Sample) (float64, error) {
	var dayMeans, nightMeans []float64
	for _, s := range samples {
		label, ok := LabelFromFilename(s.Name)
		if !ok {
			continue
		}
		m := MeanIntensity(s.Image)
		if label == Day {
			dayMeans = append(dayMeans, m)
		} else {
			nightMeans = append(nightMeans, m)
		}
	}

	if len(dayMeans) == 0 || len(nightMeans) == 0 {
		return 0, ErrMissingClass
	}
	return (stat.Mean(dayMeans, nil) + stat.Mean(nightMeans, nil)) / 2.0, nil
}

// Accuracy returns the percentage (0-100) of labeled samples that c
// classifies correctly. Unlabeled samples are not counted.
func Accuracy(c *Classifier, samples []Sample) (float64, error) {
	total, correct := 0, 0
	for _, s := range samples {
		want, ok := LabelFromFilename(s.Name)
		if !ok {
			continue
		}
		total++
		if c.Classify(s.Image) == want {
			correct++
		}
	}

	if total == 0 {
		return 0, ErrNoLabeledSamples
	}
	return float64(correct) / float64(total) * 100, nil
}
