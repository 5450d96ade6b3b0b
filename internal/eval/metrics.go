package eval

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/ironsheep/sky-region-detector/internal/imaging"
	"github.com/ironsheep/sky-region-detector/internal/skyline"
)

var (
	// ErrShapeMismatch is returned when prediction and ground truth differ in size.
	ErrShapeMismatch = errors.New("eval: mask dimensions differ")

	// ErrNoResults is returned when aggregating an empty result list.
	ErrNoResults = errors.New("eval: empty results list")
)

// Confusion holds pixel counts for a predicted mask against ground truth.
type Confusion struct {
	TruePositives  int `json:"tp"`
	FalsePositives int `json:"fp"`
	TrueNegatives  int `json:"tn"`
	FalseNegatives int `json:"fn"`
}

// Count compares pred to gt pixel by pixel.
func Count(pred, gt *skyline.Mask) (Confusion, error) {
	if !pred.SameShape(gt) {
		return Confusion{}, fmt.Errorf("%w: prediction %dx%d, ground truth %dx%d",
			ErrShapeMismatch, pred.Width, pred.Height, gt.Width, gt.Height)
	}

	var c Confusion
	for i, p := range pred.Pix {
		predSky := p != 0
		gtSky := gt.Pix[i] != 0
		switch {
		case predSky && gtSky:
			c.TruePositives++
		case predSky && !gtSky:
			c.FalsePositives++
		case !predSky && !gtSky:
			c.TrueNegatives++
		default:
			c.FalseNegatives++
		}
	}
	return c, nil
}

// Total returns the number of pixels counted.
func (c Confusion) Total() int {
	return c.TruePositives + c.FalsePositives + c.TrueNegatives + c.FalseNegatives
}

// Accuracy is the fraction of correctly labeled pixels, 0 for an empty mask.
func (c Confusion) Accuracy() float64 {
	if c.Total() == 0 {
		return 0
	}
	return float64(c.TruePositives+c.TrueNegatives) / float64(c.Total())
}

// Precision is TP/(TP+FP), 0 when nothing was predicted as sky.
func (c Confusion) Precision() float64 {
	if c.TruePositives+c.FalsePositives == 0 {
		return 0
	}
	return float64(c.TruePositives) / float64(c.TruePositives+c.FalsePositives)
}

// Recall is TP/(TP+FN), 0 when the ground truth has no sky.
func (c Confusion) Recall() float64 {
	if c.TruePositives+c.FalseNegatives == 0 {
		return 0
	}
	return float64(c.TruePositives) / float64(c.TruePositives+c.FalseNegatives)
}

// Metrics is the score record for one prediction or the average of several.
type Metrics struct {
	Accuracy  float64       `json:"accuracy"`
	Precision float64       `json:"precision"`
	Recall    float64       `json:"recall"`
	Runtime   time.Duration `json:"runtime_ns"`
}

// Calculate scores pred against gt. Runtime is left zero for the caller to fill.
func Calculate(pred, gt *skyline.Mask) (Metrics, error) {
	c, err := Count(pred, gt)
	if err != nil {
		return Metrics{}, err
	}
	return Metrics{
		Accuracy:  c.Accuracy(),
		Precision: c.Precision(),
		Recall:    c.Recall(),
	}, nil
}

// Aggregate averages every field of results.
func Aggregate(results []Metrics) (Metrics, error) {
	if len(results) == 0 {
		return Metrics{}, ErrNoResults
	}

	acc := make([]float64, len(results))
	prec := make([]float64, len(results))
	rec := make([]float64, len(results))
	rt := make([]float64, len(results))
	for i, r := range results {
		acc[i] = r.Accuracy
		prec[i] = r.Precision
		rec[i] = r.Recall
		rt[i] = float64(r.Runtime)
	}

	return Metrics{
		Accuracy:  stat.Mean(acc, nil),
		Precision: stat.Mean(prec, nil),
		Recall:    stat.Mean(rec, nil),
		Runtime:   time.Duration(stat.Mean(rt, nil)),
	}, nil
}

const tableBorder = "+--------------+-----------------+\n"

// String renders the metrics as a two-column table. Runtime is shown in whole
// milliseconds, or "-" when unset.
func (m Metrics) String() string {
	runtime := "-"
	if m.Runtime != 0 {
		runtime = fmt.Sprintf("%dms", m.Runtime.Milliseconds())
	}

	var b strings.Builder
	b.WriteString(tableBorder)
	fmt.Fprintf(&b, "| Accuracy     | %s |\n", center(fmt.Sprintf("%.4f", m.Accuracy), 15))
	fmt.Fprintf(&b, "| Precision    | %s |\n", center(fmt.Sprintf("%.4f", m.Precision), 15))
	fmt.Fprintf(&b, "| Recall       | %s |\n", center(fmt.Sprintf("%.4f", m.Recall), 15))
	fmt.Fprintf(&b, "| Runtime      | %s |\n", center(runtime, 15))
	b.WriteString(tableBorder)
	return b.String()
}

// center pads s with spaces to width, putting any odd space on the right.
func center(s string, width int) string {
	pad := width - len(s)
	if pad <= 0 {
		return s
	}
	left := pad / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", pad-left)
}

// LoadGroundTruth loads a ground-truth mask through the cache so that a mask
// shared by a whole dataset is decoded once.
func LoadGroundTruth(cache *imaging.ImageCache, path string) (*skyline.Mask, error) {
	img, err := cache.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load ground truth: %w", err)
	}
	return skyline.MaskFromImage(img), nil
}
