package imaging

import (
	"image"
	"image/color"
	"testing"
)

func TestDrawSkyline(t *testing.T) {
	src := createInMemoryImage(20, 20, color.RGBA{100, 100, 100, 255})
	points := []image.Point{{X: 0, Y: 10}, {X: 19, Y: 10}}

	out, err := DrawSkyline(src, points, "", 1)
	if err != nil {
		t.Fatalf("DrawSkyline failed: %v", err)
	}

	if got := out.NRGBAAt(5, 10); got != (color.NRGBA{0, 255, 0, 255}) {
		t.Errorf("line pixel: got %v, want green", got)
	}
	if got := out.NRGBAAt(5, 5); got.R != got.G || got.G != got.B {
		t.Errorf("background should be gray, got %v", got)
	}

	// The source is untouched.
	if got := src.RGBAAt(5, 10); got != (color.RGBA{100, 100, 100, 255}) {
		t.Errorf("source modified: got %v", got)
	}
}

func TestDrawSkyline_Thickness(t *testing.T) {
	src := createInMemoryImage(20, 20, color.White)
	points := []image.Point{{X: 2, Y: 2}, {X: 17, Y: 17}}

	out, err := DrawSkyline(src, points, "#FF0000", 4)
	if err != nil {
		t.Fatalf("DrawSkyline failed: %v", err)
	}

	red := color.NRGBA{255, 0, 0, 255}
	for _, p := range []image.Point{{10, 10}, {9, 10}, {11, 10}, {10, 8}} {
		if out.NRGBAAt(p.X, p.Y) != red {
			t.Errorf("expected red at %v, got %v", p, out.NRGBAAt(p.X, p.Y))
		}
	}
	if out.NRGBAAt(17, 2) == red {
		t.Error("pixel far from the line should not be painted")
	}
}

func TestDrawSkyline_Edges(t *testing.T) {
	src := createInMemoryImage(10, 10, color.Black)

	if _, err := DrawSkyline(src, nil, "not-a-colour", 2); err == nil {
		t.Error("expected error for invalid colour")
	}

	// Points outside the image are clipped rather than panicking.
	out, err := DrawSkyline(src, []image.Point{{X: -5, Y: 3}, {X: 15, Y: 3}}, "#0000FF", 3)
	if err != nil {
		t.Fatalf("DrawSkyline failed: %v", err)
	}
	if out.NRGBAAt(5, 3) != (color.NRGBA{0, 0, 255, 255}) {
		t.Errorf("clipped line missing at (5,3): got %v", out.NRGBAAt(5, 3))
	}

	single, err := DrawSkyline(src, []image.Point{{X: 4, Y: 4}}, "", 1)
	if err != nil {
		t.Fatalf("DrawSkyline failed: %v", err)
	}
	if single.NRGBAAt(4, 4) != (color.NRGBA{0, 255, 0, 255}) {
		t.Error("a single point should be stamped")
	}
}
