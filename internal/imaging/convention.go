package imaging

import (
	"fmt"
	"image"

	"github.com/anthonynsimon/bild/channel"
	"github.com/disintegration/imaging"
)

// Plane identifies a single intensity plane derived from an RGB image.
//
// Every image that enters the detector is first normalised with ToRGB, so the
// Red, Green and Blue planes always refer to the same bytes regardless of the
// decoder that produced the source image. There is no BGR code path anywhere
// in this module.
type Plane int

const (
	PlaneRed Plane = iota
	PlaneGreen
	PlaneBlue
	// PlaneLuminance is ITU-R BT.601 luma (0.299R + 0.587G + 0.114B).
	PlaneLuminance
)

func (p Plane) String() string {
	switch p {
	case PlaneRed:
		return "red"
	case PlaneGreen:
		return "green"
	case PlaneBlue:
		return "blue"
	case PlaneLuminance:
		return "luminance"
	default:
		return fmt.Sprintf("plane(%d)", int(p))
	}
}

// ToRGB normalises img into the package channel convention: an *image.NRGBA
// whose pixel bytes are R, G, B, A in that order and whose bounds start at
// (0,0). Grayscale sources expand to three equal channels.
//
// The input is never modified. When img already satisfies the convention it
// is returned as-is, so callers must treat the result as read-only.
func ToRGB(img image.Image) *image.NRGBA {
	if n, ok := img.(*image.NRGBA); ok && n.Bounds().Min == (image.Point{}) {
		return n
	}
	return imaging.Clone(img)
}

// ExtractPlane returns the requested intensity plane of an RGB image as a new
// 8-bit grayscale image.
func ExtractPlane(img *image.NRGBA, p Plane) *image.Gray {
	switch p {
	case PlaneRed:
		return channel.Extract(img, channel.Red)
	case PlaneGreen:
		return channel.Extract(img, channel.Green)
	case PlaneLuminance:
		// imaging.Grayscale writes the BT.601 luma into all three channels.
		return channel.Extract(imaging.Grayscale(img), channel.Red)
	default:
		return channel.Extract(img, channel.Blue)
	}
}
