package imaging

import (
	"fmt"
	"image"
	"sync"

	"github.com/disintegration/imaging"
)

// Open decodes the image file at path, applying any EXIF orientation tag so
// that row 0 is always the top of the scene. PNG, JPEG, GIF, BMP and TIFF are
// supported.
func Open(path string) (image.Image, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to open image %s: %w", path, err)
	}
	return img, nil
}

// ImageCache keeps decoded images keyed by the exact path they were loaded
// from. Its main tenant is the ground-truth mask: every photograph of a fixed
// camera is scored against the same file, which is decoded only once.
//
// Entries live until Evict or Clear. Two spellings of one path (relative and
// absolute) are two entries. An ImageCache is safe for concurrent use; two
// goroutines missing on the same path may both decode it, and the later
// store wins.
type ImageCache struct {
	mu     sync.RWMutex
	images map[string]image.Image
}

// NewImageCache returns an empty cache.
func NewImageCache() *ImageCache {
	return &ImageCache{images: make(map[string]image.Image)}
}

// Load returns the cached image for path, opening it with Open on a miss.
// Failed loads are not cached. Callers must not modify the returned image.
func (c *ImageCache) Load(path string) (image.Image, error) {
	c.mu.RLock()
	img, ok := c.images[path]
	c.mu.RUnlock()
	if ok {
		return img, nil
	}

	img, err := Open(path)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.images[path] = img
	c.mu.Unlock()
	return img, nil
}

// Clear drops every entry.
func (c *ImageCache) Clear() {
	c.mu.Lock()
	c.images = make(map[string]image.Image)
	c.mu.Unlock()
}

// Len returns the number of cached images.
func (c *ImageCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.images)
}

// Evict drops the entry for path, if any.
func (c *ImageCache) Evict(path string) {
	c.mu.Lock()
	delete(c.images, path)
	c.mu.Unlock()
}

// DimensionsResult is the size of an image in pixels.
type DimensionsResult struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// GetDimensions opens path and reports its size after EXIF orientation.
func GetDimensions(path string) (*DimensionsResult, error) {
	img, err := Open(path)
	if err != nil {
		return nil, err
	}
	b := img.Bounds()
	return &DimensionsResult{Width: b.Dx(), Height: b.Dy()}, nil
}
