package skyline

import (
	"fmt"
	"image"
	"time"

	"github.com/ironsheep/sky-region-detector/internal/daynight"
	"github.com/ironsheep/sky-region-detector/internal/imaging"
)

// Classifier labels an image as Day or Night.
type Classifier interface {
	Classify(img image.Image) daynight.Label
}

// Coord is one skyline point.
type Coord struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Segmentation is the outcome of the edge-to-mask stages.
type Segmentation struct {
	// Points holds the boundary row of every column.
	Points []int
	Mask   *Mask
	NoSky  bool
}

// Segment estimates the skyline from an EdgeMap, synthesises the mask and
// applies the no-sky guard. When the guard fires, Points are all 0 and the
// mask is empty.
func Segment(edges *EdgeMap, cfg Config) Segmentation {
	points := Estimate(edges, cfg.TopMargin, cfg.BottomMargin)
	mask := Synthesize(points, edges.Height)

	noSky := NoSky(points, edges.Height, cfg.NoSkyRatio)
	if noSky {
		points = make([]int, len(points))
		mask = NewMask(edges.Width, edges.Height)
	}
	return Segmentation{Points: points, Mask: mask, NoSky: noSky}
}

// Result is the detection output for a single image. It is not modified
// after Detect returns.
type Result struct {
	// Extracted is the input with every non-sky pixel blacked out.
	Extracted *image.NRGBA `json:"-"`
	Mask      *Mask        `json:"-"`

	Points    []int          `json:"points"`
	Skyline   []Coord        `json:"skyline"`
	TimeOfDay daynight.Label `json:"time_of_day"`
	NoSky     bool           `json:"no_sky"`

	// Runtime is the wall-clock time spent in Detect.
	Runtime time.Duration `json:"runtime_ns"`
}

// SkylinePoints returns the skyline as image points (X=column, Y=row).
func (r *Result) SkylinePoints() []image.Point {
	pts := make([]image.Point, len(r.Skyline))
	for i, c := range r.Skyline {
		pts[i] = image.Pt(c.Col, c.Row)
	}
	return pts
}

// Detector runs the full sky detection pipeline.
type Detector struct {
	cfg        Config
	classifier Classifier
}

// NewDetector validates cfg and returns a detector that classifies images with
// a mean-brightness classifier at cfg.DayThreshold.
func NewDetector(cfg Config) (*Detector, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid detector config: %w", err)
	}
	return &Detector{cfg: cfg, classifier: daynight.NewClassifier(cfg.DayThreshold)}, nil
}

// WithClassifier returns a copy of d that uses c for day/night labeling.
func (d *Detector) WithClassifier(c Classifier) *Detector {
	clone := *d
	clone.classifier = c
	return &clone
}

// Config returns the detector configuration.
func (d *Detector) Config() Config {
	return d.cfg
}

// Detect locates the sky in img. img is not modified.
func (d *Detector) Detect(img image.Image) *Result {
	start := time.Now()

	rgb := imaging.ToRGB(img)
	label := d.classifier.Classify(rgb)
	seg := Segment(ExtractEdges(rgb, label, d.cfg), d.cfg)

	coords := make([]Coord, len(seg.Points))
	for col, row := range seg.Points {
		coords[col] = Coord{Row: row, Col: col}
	}

	return &Result{
		Extracted: seg.Mask.Apply(rgb),
		Mask:      seg.Mask,
		Points:    seg.Points,
		Skyline:   coords,
		TimeOfDay: label,
		NoSky:     seg.NoSky,
		Runtime:   time.Since(start),
	}
}
