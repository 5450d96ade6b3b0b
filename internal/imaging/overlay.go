package imaging

import (
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"
)

// DefaultSkylineColor is the colour used when DrawSkyline is given an empty
// colour string.
const DefaultSkylineColor = "#00FF00"

// DrawSkyline renders a skyline on top of a grayscale copy of img.
//
// Points are (X=column, Y=row) pairs in image coordinates and are joined in
// order by straight segments of the given thickness. Drawing on a grayscale
// base keeps the line visible against any scene colours. The input image is
// not modified.
func DrawSkyline(img image.Image, points []image.Point, colorHex string, thickness int) (*image.NRGBA, error) {
	if colorHex == "" {
		colorHex = DefaultSkylineColor
	}
	c, err := colorful.Hex(colorHex)
	if err != nil {
		return nil, fmt.Errorf("invalid skyline colour %q: %w", colorHex, err)
	}
	if thickness < 1 {
		thickness = 1
	}

	r, g, b := c.RGB255()
	lineColor := color.NRGBA{R: r, G: g, B: b, A: 255}

	result := imaging.Grayscale(img)
	if len(points) == 1 {
		stamp(result, points[0], thickness, lineColor)
	}
	for i := 1; i < len(points); i++ {
		drawSegment(result, points[i-1], points[i], thickness, lineColor)
	}
	return result, nil
}

// drawSegment walks the Bresenham line from a to b, stamping a square brush
// at every step.
func drawSegment(img *image.NRGBA, a, b image.Point, thickness int, c color.NRGBA) {
	dx := absInt(b.X - a.X)
	dy := -absInt(b.Y - a.Y)
	sx, sy := 1, 1
	if a.X > b.X {
		sx = -1
	}
	if a.Y > b.Y {
		sy = -1
	}

	err := dx + dy
	p := a
	for {
		stamp(img, p, thickness, c)
		if p == b {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			p.X += sx
		}
		if e2 <= dx {
			err += dx
			p.Y += sy
		}
	}
}

func stamp(img *image.NRGBA, center image.Point, thickness int, c color.NRGBA) {
	half := thickness / 2
	bounds := img.Bounds()
	for y := center.Y - half; y < center.Y-half+thickness; y++ {
		for x := center.X - half; x < center.X-half+thickness; x++ {
			if image.Pt(x, y).In(bounds) {
				img.SetNRGBA(x, y, c)
			}
		}
	}
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
