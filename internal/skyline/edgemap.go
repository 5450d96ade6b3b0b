package skyline

import "image"

// EdgeMap values. The polarity is inverted relative to a usual edge image:
// the boundary search looks for the first Edge in a run of NonEdge.
const (
	Edge    uint8 = 0
	NonEdge uint8 = 1
)

// edgeCutoff is the gray level below which a Canny output pixel is NonEdge.
const edgeCutoff = 5

// EdgeMap is a binary Width x Height grid stored row-major.
type EdgeMap struct {
	Width  int
	Height int
	Pix    []uint8
}

// NewEdgeMap returns a map with every pixel set to NonEdge.
func NewEdgeMap(width, height int) *EdgeMap {
	m := &EdgeMap{Width: width, Height: height, Pix: make([]uint8, width*height)}
	for i := range m.Pix {
		m.Pix[i] = NonEdge
	}
	return m
}

// EdgeMapFromImage converts a Canny output image (edges bright) into an EdgeMap.
func EdgeMapFromImage(edges *image.Gray) *EdgeMap {
	b := edges.Bounds()
	m := NewEdgeMap(b.Dx(), b.Dy())
	for y := 0; y < m.Height; y++ {
		off := edges.PixOffset(b.Min.X, b.Min.Y+y)
		for x := 0; x < m.Width; x++ {
			if edges.Pix[off+x] >= edgeCutoff {
				m.Pix[y*m.Width+x] = Edge
			}
		}
	}
	return m
}

// At returns the value at column x, row y.
func (m *EdgeMap) At(x, y int) uint8 {
	return m.Pix[y*m.Width+x]
}

// Set stores v at column x, row y.
func (m *EdgeMap) Set(x, y int, v uint8) {
	m.Pix[y*m.Width+x] = v
}
