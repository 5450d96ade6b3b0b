package skyline

import (
	"image"
	"image/color"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ironsheep/sky-region-detector/internal/daynight"
	"github.com/ironsheep/sky-region-detector/internal/imaging"
)

var (
	skyBlue   = color.RGBA{135, 190, 235, 255}
	darkGreen = color.RGBA{60, 70, 40, 255}
)

// fixedClassifier always returns the same label.
type fixedClassifier daynight.Label

func (f fixedClassifier) Classify(image.Image) daynight.Label {
	return daynight.Label(f)
}

// createLandscape returns a photo with sky above horizon(x) in every column.
func createLandscape(width, height int, horizon func(x int) int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		h := horizon(x)
		for y := 0; y < height; y++ {
			if y < h {
				img.SetRGBA(x, y, skyBlue)
			} else {
				img.SetRGBA(x, y, darkGreen)
			}
		}
	}
	return img
}

func newTestDetector(t *testing.T) *Detector {
	t.Helper()
	d, err := NewDetector(DefaultConfig())
	if err != nil {
		t.Fatalf("NewDetector failed: %v", err)
	}
	return d
}

func TestNewDetector_InvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CannyLow, cfg.CannyHigh = 150, 50
	if _, err := NewDetector(cfg); err == nil {
		t.Error("expected error for inverted Canny thresholds")
	}
}

func TestSegment_TwoLevelSkyline(t *testing.T) {
	rows := append(repeat(30, 50), repeat(60, 50)...)

	seg := Segment(edgeMapWithRows(100, rows), DefaultConfig())

	if seg.NoSky {
		t.Error("NoSky should be false for a mean boundary of 45")
	}
	if diff := cmp.Diff(rows, seg.Points); diff != "" {
		t.Errorf("Points mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(Synthesize(rows, 100).Pix, seg.Mask.Pix); diff != "" {
		t.Errorf("Mask mismatch (-want +got):\n%s", diff)
	}
	if seg.Mask.Count() != 50*30+50*60 {
		t.Errorf("sky pixels: got %d, want %d", seg.Mask.Count(), 50*30+50*60)
	}
}

func TestSegment_NoEdges(t *testing.T) {
	seg := Segment(NewEdgeMap(64, 48), DefaultConfig())

	if !seg.NoSky {
		t.Error("NoSky should be true when no edge exists")
	}
	if diff := cmp.Diff(repeat(0, 64), seg.Points); diff != "" {
		t.Errorf("Points mismatch (-want +got):\n%s", diff)
	}
	if seg.Mask.Count() != 0 {
		t.Errorf("mask should be empty, got %d sky pixels", seg.Mask.Count())
	}
}

func TestSegment_GuardClearsLowSkyline(t *testing.T) {
	// Boundary at row 25 of a 300-row image: valid but under 10% of the height.
	seg := Segment(edgeMapWithRows(300, repeat(25, 40)), DefaultConfig())

	if !seg.NoSky {
		t.Fatal("guard should fire for a mean row of 25 in a 300-row image")
	}
	if diff := cmp.Diff(repeat(0, 40), seg.Points); diff != "" {
		t.Errorf("Points should be cleared (-want +got):\n%s", diff)
	}
	if seg.Mask.Count() != 0 {
		t.Errorf("mask should be empty, got %d sky pixels", seg.Mask.Count())
	}
	if seg.Mask.Width != 40 || seg.Mask.Height != 300 {
		t.Errorf("mask shape: got %dx%d, want 40x300", seg.Mask.Width, seg.Mask.Height)
	}
}

func TestDetect_StraightHorizon(t *testing.T) {
	d := newTestDetector(t)
	img := createLandscape(100, 100, func(int) int { return 40 })

	res := d.Detect(img)

	if res.TimeOfDay != daynight.Day {
		t.Errorf("TimeOfDay: got %s, want Day", res.TimeOfDay)
	}
	if res.NoSky {
		t.Fatal("NoSky should be false")
	}
	if diff := cmp.Diff(repeat(39, 100), res.Points); diff != "" {
		t.Errorf("Points mismatch (-want +got):\n%s", diff)
	}
	if res.Mask.Count() != 39*100 {
		t.Errorf("sky pixels: got %d, want %d", res.Mask.Count(), 39*100)
	}
	if len(res.Skyline) != 100 || res.Skyline[7] != (Coord{Row: 39, Col: 7}) {
		t.Errorf("Skyline[7]: got %+v", res.Skyline[7])
	}
	if res.Runtime <= 0 {
		t.Error("Runtime should be positive")
	}
}

func TestDetect_SteppedHorizon(t *testing.T) {
	d := newTestDetector(t)
	img := createLandscape(100, 100, func(x int) int {
		if x < 50 {
			return 30
		}
		return 60
	})

	res := d.Detect(img)

	if res.TimeOfDay != daynight.Day {
		t.Errorf("TimeOfDay: got %s, want Day", res.TimeOfDay)
	}
	if res.NoSky {
		t.Fatal("NoSky should be false")
	}
	for x, row := range res.Points {
		// The blur smears the step over a few columns either side of x=50.
		if x >= 44 && x <= 56 {
			continue
		}
		want := 29
		if x >= 50 {
			want = 59
		}
		if row < want-2 || row > want+2 {
			t.Errorf("Points[%d] = %d, want %d±2", x, row, want)
		}
	}
}

func TestDetect_NightUsesLuminance(t *testing.T) {
	d := newTestDetector(t).WithClassifier(fixedClassifier(daynight.Night))
	img := createLandscape(80, 80, func(int) int { return 35 })

	res := d.Detect(img)

	if res.TimeOfDay != daynight.Night {
		t.Errorf("TimeOfDay: got %s, want Night", res.TimeOfDay)
	}
	if diff := cmp.Diff(repeat(34, 80), res.Points); diff != "" {
		t.Errorf("Points mismatch (-want +got):\n%s", diff)
	}
	if PlaneFor(daynight.Night) != imaging.PlaneLuminance || PlaneFor(daynight.Day) != imaging.PlaneBlue {
		t.Error("unexpected plane selection")
	}
}

func TestDetect_UniformImage(t *testing.T) {
	d := newTestDetector(t)
	img := createLandscape(60, 60, func(int) int { return 0 })

	res := d.Detect(img)

	if !res.NoSky {
		t.Error("NoSky should be true for a featureless image")
	}
	if res.Mask.Count() != 0 {
		t.Errorf("mask should be empty, got %d sky pixels", res.Mask.Count())
	}
	for _, v := range res.Extracted.Pix[:4] {
		if v != 0 && v != 255 {
			t.Fatalf("extracted image should be opaque black, got %v", res.Extracted.Pix[:4])
		}
	}
}

func TestDetect_TinyImage(t *testing.T) {
	d := newTestDetector(t)
	img := createLandscape(30, 40, func(int) int { return 20 })

	res := d.Detect(img)

	if !res.NoSky {
		t.Error("an image with no row between the margins should report no sky")
	}
	if diff := cmp.Diff(repeat(0, 30), res.Points); diff != "" {
		t.Errorf("Points mismatch (-want +got):\n%s", diff)
	}
}

func TestDetect_Deterministic(t *testing.T) {
	d := newTestDetector(t)
	img := createLandscape(90, 70, func(x int) int { return 25 + x/6 })

	first := d.Detect(img)
	second := d.Detect(img)

	if diff := cmp.Diff(first.Points, second.Points); diff != "" {
		t.Errorf("Points differ between runs:\n%s", diff)
	}
	if diff := cmp.Diff(first.Mask.Pix, second.Mask.Pix); diff != "" {
		t.Errorf("Mask differs between runs:\n%s", diff)
	}
	if diff := cmp.Diff(first.Extracted.Pix, second.Extracted.Pix); diff != "" {
		t.Errorf("Extracted differs between runs:\n%s", diff)
	}
}

func TestDetect_ExtractedMatchesMask(t *testing.T) {
	d := newTestDetector(t)
	img := createLandscape(50, 60, func(int) int { return 30 })

	res := d.Detect(img)

	for y := 0; y < 60; y++ {
		for x := 0; x < 50; x++ {
			px := res.Extracted.NRGBAAt(x, y)
			if res.Mask.At(x, y) == 1 {
				if px != (color.NRGBA{135, 190, 235, 255}) {
					t.Fatalf("sky pixel (%d,%d) = %v", x, y, px)
				}
			} else if px != (color.NRGBA{0, 0, 0, 255}) {
				t.Fatalf("non-sky pixel (%d,%d) = %v", x, y, px)
			}
		}
	}
}

func TestResult_SkylinePoints(t *testing.T) {
	r := &Result{Skyline: []Coord{{Row: 5, Col: 0}, {Row: 7, Col: 1}}}
	want := []image.Point{{X: 0, Y: 5}, {X: 1, Y: 7}}
	if diff := cmp.Diff(want, r.SkylinePoints()); diff != "" {
		t.Errorf("SkylinePoints mismatch (-want +got):\n%s", diff)
	}
}
