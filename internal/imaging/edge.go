package imaging

import (
	"image"
	"math"

	"github.com/anthonynsimon/bild/channel"
	"github.com/anthonynsimon/bild/convolution"
	"github.com/anthonynsimon/bild/effect"
)

// BoxBlur applies a normalised box filter of width x height pixels.
//
// Unlike a Gaussian blur the kernel need not be square. A wide, short kernel
// (e.g. 9x3) flattens texture along rows while keeping horizontal boundaries
// sharp. Border pixels use replicated edge values. Results are rounded to the
// nearest level, so a flat region keeps its value. A kernel of 1x1 returns a
// copy of the input.
func BoxBlur(gray *image.Gray, width, height int) *image.Gray {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}

	k := convolution.NewKernel(width, height)
	weight := 1.0 / float64(width*height)
	for i := range k.Matrix {
		k.Matrix[i] = weight
	}

	blurred := convolution.Convolve(gray, k, &convolution.Options{Bias: 0.5, Wrap: false, KeepAlpha: true})
	return channel.Extract(blurred, channel.Red)
}

// MedianFilter replaces each pixel with the median of its neighbourhood.
// A radius of zero or less returns the input unchanged.
func MedianFilter(gray *image.Gray, radius int) *image.Gray {
	if radius <= 0 {
		return gray
	}
	return channel.Extract(effect.Median(gray, float64(radius)), channel.Red)
}

// Canny performs Canny edge detection on a single-channel image.
//
// The result is a grayscale image where white pixels (255) are edges and black
// pixels (0) are not. Thresholds are expressed in raw 8-bit gradient units, so
// the customary 50/150 pair can be passed directly.
//
// # Algorithm
//
//  1. Gradient computation: 3x3 Sobel operators for X and Y.
//     magnitude = |Gx| + |Gy|, direction = atan2(Gy, Gx)
//
//  2. Non-maximum suppression: keep only pixels that are local maxima along
//     the gradient direction. On a plateau of equal magnitudes only the
//     upper (or left) pixel survives, so a clean step gives a one-pixel edge.
//     The outermost ring of pixels is never an edge.
//
//  3. Hysteresis: pixels at or above high are strong edges. Pixels at or above
//     low are kept only when 8-connected, through other kept pixels, to a
//     strong edge.
//
// No smoothing is applied here; callers blur beforehand.
func Canny(gray *image.Gray, low, high float64) *image.Gray {
	bounds := gray.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	result := image.NewGray(image.Rect(0, 0, width, height))
	if width == 0 || height == 0 {
		return result
	}

	src := make([][]float64, height)
	for y := 0; y < height; y++ {
		src[y] = make([]float64, width)
		off := gray.PixOffset(bounds.Min.X, bounds.Min.Y+y)
		row := gray.Pix[off : off+width]
		for x := 0; x < width; x++ {
			src[y][x] = float64(row[x])
		}
	}

	sobelX := [3][3]float64{
		{-1, 0, 1},
		{-2, 0, 2},
		{-1, 0, 1},
	}
	sobelY := [3][3]float64{
		{-1, -2, -1},
		{0, 0, 0},
		{1, 2, 1},
	}

	magnitude := make([][]float64, height)
	direction := make([][]float64, height)
	for y := 0; y < height; y++ {
		magnitude[y] = make([]float64, width)
		direction[y] = make([]float64, width)

		for x := 0; x < width; x++ {
			var gx, gy float64
			for ky := -1; ky <= 1; ky++ {
				for kx := -1; kx <= 1; kx++ {
					v := src[clamp(y+ky, 0, height-1)][clamp(x+kx, 0, width-1)]
					gx += v * sobelX[ky+1][kx+1]
					gy += v * sobelY[ky+1][kx+1]
				}
			}
			magnitude[y][x] = math.Abs(gx) + math.Abs(gy)
			direction[y][x] = math.Atan2(gy, gx)
		}
	}

	suppressed := make([][]float64, height)
	for y := 0; y < height; y++ {
		suppressed[y] = make([]float64, width)
		for x := 0; x < width; x++ {
			if y == 0 || y == height-1 || x == 0 || x == width-1 {
				continue
			}

			angle := direction[y][x]
			mag := magnitude[y][x]
			if mag < low {
				continue
			}

			// n1 is the neighbour above (or left of) the pixel.
			var n1, n2 float64
			switch {
			case (angle >= -math.Pi/8 && angle < math.Pi/8) || angle >= 7*math.Pi/8 || angle < -7*math.Pi/8:
				n1 = magnitude[y][x-1]
				n2 = magnitude[y][x+1]
			case (angle >= math.Pi/8 && angle < 3*math.Pi/8) || (angle >= -7*math.Pi/8 && angle < -5*math.Pi/8):
				n1 = magnitude[y-1][x-1]
				n2 = magnitude[y+1][x+1]
			case (angle >= 3*math.Pi/8 && angle < 5*math.Pi/8) || (angle >= -5*math.Pi/8 && angle < -3*math.Pi/8):
				n1 = magnitude[y-1][x]
				n2 = magnitude[y+1][x]
			default:
				n1 = magnitude[y-1][x+1]
				n2 = magnitude[y+1][x-1]
			}

			if mag > n1 && mag >= n2 {
				suppressed[y][x] = mag
			}
		}
	}

	// Seed from strong edges and grow through weak ones.
	stack := make([]image.Point, 0, width)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if suppressed[y][x] >= high {
				result.Pix[y*result.Stride+x] = 255
				stack = append(stack, image.Point{X: x, Y: y})
			}
		}
	}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for ky := -1; ky <= 1; ky++ {
			for kx := -1; kx <= 1; kx++ {
				nx, ny := p.X+kx, p.Y+ky
				if nx < 0 || ny < 0 || nx >= width || ny >= height {
					continue
				}
				idx := ny*result.Stride + nx
				if result.Pix[idx] == 0 && suppressed[ny][nx] >= low && suppressed[ny][nx] > 0 {
					result.Pix[idx] = 255
					stack = append(stack, image.Point{X: nx, Y: ny})
				}
			}
		}
	}

	return result
}

// clamp constrains an integer value to the range [min, max].
// Used for boundary handling in convolution operations.
func clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
