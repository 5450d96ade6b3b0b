// Package imaging holds the pixel-level primitives the sky detector is built
// from: decoding, the RGB channel convention, blurring, Canny edge detection,
// PNG encoding and skyline overlays.
//
// # Coordinate System
//
// Pixel coordinates are 0-based with (0,0) at the top-left corner. X grows to
// the right (columns) and Y grows downward (rows).
//
// # Channel Convention
//
// Every photograph is normalised with ToRGB before any channel is read. The
// result is an *image.NRGBA whose bytes are R, G, B, A, so ExtractPlane(img,
// PlaneBlue) always means the blue channel of the scene.
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. All other functions are
// stateless, allocate their own outputs and never modify their inputs.
package imaging
