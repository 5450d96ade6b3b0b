// Package skyline finds the sky region of an outdoor photograph.
//
// Detection runs as a fixed pipeline over one image:
//
//  1. Day/night classification picks the intensity plane: the blue channel by
//     day, BT.601 luminance by night.
//  2. Edge extraction blurs the plane with a wide, short box kernel and runs
//     Canny. The result is an EdgeMap with inverted polarity: NonEdge (1)
//     everywhere except detected edges (Edge, 0).
//  3. Skyline estimation takes, per column, the first Edge pixel from the top
//     as the boundary candidate. Candidates inside the top or bottom margin are
//     discarded as overlay artefacts (timestamps, watermarks). Missing columns
//     are forward-filled between the first and last known column and clamped
//     beyond them.
//  4. Mask synthesis marks every pixel above the boundary row as sky.
//  5. The no-sky guard discards the detection when the mean boundary row lies
//     in the top tenth of the image.
//
// # Degenerate inputs
//
// When no column yields a usable candidate the skyline falls back to row 0 in
// every column. The guard then always reports no sky, so the mask comes out
// empty. A skyline genuinely near row 0 reaches the same empty mask through
// the guard alone. Both routes are intentional.
//
// Images with a height of 40 pixels or less cannot produce a candidate under
// the default margins and always take the fallback route. Nothing in this
// package returns an error for a decoded image of any size.
//
// # Coordinates
//
// Rows grow downward from 0 at the top of the image; columns grow rightward
// from 0. Skyline coordinates are reported as (row, column) pairs.
//
// # Concurrency
//
// A Detector holds only immutable configuration and may be shared by
// goroutines. Every call allocates its own intermediate buffers.
package skyline
