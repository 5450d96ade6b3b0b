package skyline

import (
	"image"
	"image/color"
)

// Mask is a binary Width x Height grid stored row-major, 1 for sky and 0
// for everything else.
type Mask struct {
	Width  int
	Height int
	Pix    []uint8
}

// NewMask returns an all-zero mask.
func NewMask(width, height int) *Mask {
	return &Mask{Width: width, Height: height, Pix: make([]uint8, width*height)}
}

// Synthesize builds the sky mask for a refined skyline: in column x, rows
// [0, points[x]) are sky and rows [points[x], height) are not. Rows outside
// [0, height] are clamped.
func Synthesize(points []int, height int) *Mask {
	m := NewMask(len(points), height)
	for x, row := range points {
		if row > height {
			row = height
		}
		for y := 0; y < row; y++ {
			m.Pix[y*m.Width+x] = 1
		}
	}
	return m
}

// MaskFromImage reads a ground-truth mask image. Only fully white pixels
// (gray level 255) count as sky.
func MaskFromImage(img image.Image) *Mask {
	b := img.Bounds()
	m := NewMask(b.Dx(), b.Dy())
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			g := color.GrayModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.Gray)
			if g.Y == 255 {
				m.Pix[y*m.Width+x] = 1
			}
		}
	}
	return m
}

// At returns the value at column x, row y.
func (m *Mask) At(x, y int) uint8 {
	return m.Pix[y*m.Width+x]
}

// Count returns the number of sky pixels.
func (m *Mask) Count() int {
	n := 0
	for _, v := range m.Pix {
		if v != 0 {
			n++
		}
	}
	return n
}

// SameShape reports whether m and other have equal dimensions.
func (m *Mask) SameShape(other *Mask) bool {
	return m.Width == other.Width && m.Height == other.Height
}

// Image renders the mask as a grayscale image with sky white (255).
func (m *Mask) Image() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, m.Width, m.Height))
	for i, v := range m.Pix {
		if v != 0 {
			img.Pix[i] = 255
		}
	}
	return img
}

// Apply returns a copy of img with every non-sky pixel set to opaque black.
// img must have the same dimensions as the mask and bounds starting at (0,0).
func (m *Mask) Apply(img *image.NRGBA) *image.NRGBA {
	out := image.NewNRGBA(image.Rect(0, 0, m.Width, m.Height))
	for y := 0; y < m.Height; y++ {
		src := img.Pix[y*img.Stride : y*img.Stride+m.Width*4]
		dst := out.Pix[y*out.Stride : y*out.Stride+m.Width*4]
		for x := 0; x < m.Width; x++ {
			if m.Pix[y*m.Width+x] != 0 {
				copy(dst[x*4:x*4+3], src[x*4:x*4+3])
			}
			dst[x*4+3] = 255
		}
	}
	return out
}
