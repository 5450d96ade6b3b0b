package skyline

import (
	"image"
	"image/color"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSynthesize(t *testing.T) {
	m := Synthesize([]int{2, 0, 3, 5, -1}, 3)

	want := []uint8{
		1, 0, 1, 1, 0,
		1, 0, 1, 1, 0,
		0, 0, 1, 1, 0,
	}
	if diff := cmp.Diff(want, m.Pix); diff != "" {
		t.Errorf("Synthesize mismatch (-want +got):\n%s", diff)
	}
	if m.Count() != 8 {
		t.Errorf("Count: got %d, want 8", m.Count())
	}
}

func TestSynthesize_ColumnConsistency(t *testing.T) {
	points := []int{0, 10, 25, 49, 50}
	m := Synthesize(points, 50)

	for x, row := range points {
		for y := 0; y < 50; y++ {
			want := uint8(0)
			if y < row {
				want = 1
			}
			if m.At(x, y) != want {
				t.Fatalf("mask(%d,%d) = %d, want %d", x, y, m.At(x, y), want)
			}
		}
	}
}

func TestMaskFromImage(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 3, 1))
	img.SetGray(0, 0, color.Gray{Y: 255})
	img.SetGray(1, 0, color.Gray{Y: 254})

	m := MaskFromImage(img)
	if diff := cmp.Diff([]uint8{1, 0, 0}, m.Pix); diff != "" {
		t.Errorf("MaskFromImage mismatch (-want +got):\n%s", diff)
	}

	rgb := image.NewRGBA(image.Rect(0, 0, 1, 1))
	rgb.Set(0, 0, color.White)
	if MaskFromImage(rgb).Count() != 1 {
		t.Error("white RGB pixel should be sky")
	}
}

func TestMask_ImageAndApply(t *testing.T) {
	m := Synthesize([]int{1, 2}, 2)

	gray := m.Image()
	if diff := cmp.Diff([]uint8{255, 255, 0, 255}, gray.Pix); diff != "" {
		t.Errorf("Image mismatch (-want +got):\n%s", diff)
	}

	src := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	for i := range src.Pix {
		src.Pix[i] = 200
	}
	out := m.Apply(src)
	if got := out.NRGBAAt(0, 0); got != (color.NRGBA{200, 200, 200, 255}) {
		t.Errorf("sky pixel: got %v", got)
	}
	if got := out.NRGBAAt(0, 1); got != (color.NRGBA{0, 0, 0, 255}) {
		t.Errorf("non-sky pixel: got %v, want opaque black", got)
	}
	if src.Pix[4*2+0] != 200 {
		t.Error("Apply modified its input")
	}
}

func TestMask_SameShape(t *testing.T) {
	a := NewMask(4, 3)
	if !a.SameShape(NewMask(4, 3)) {
		t.Error("equal dimensions should match")
	}
	if a.SameShape(NewMask(3, 4)) {
		t.Error("transposed dimensions should not match")
	}
}
