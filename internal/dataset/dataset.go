package dataset

import (
	"errors"
	"fmt"
	"image"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/ironsheep/sky-region-detector/internal/imaging"
)

var (
	// ErrNoImages is returned when a directory yields no decodable image.
	ErrNoImages = errors.New("dataset: no images found")

	// ErrNegativeCount is returned when asked for fewer than zero images.
	ErrNegativeCount = errors.New("dataset: image count must not be negative")
)

// Image is a decoded photograph and where it came from.
type Image struct {
	Name  string
	Path  string
	Image image.Image
}

// Loader reads images from disk, logging files it has to skip.
type Loader struct {
	log zerolog.Logger
}

// NewLoader returns a Loader that reports skipped files to log.
func NewLoader(log zerolog.Logger) *Loader {
	return &Loader{log: log.With().Str("component", "dataset").Logger()}
}

// IsImageFile reports whether name has a .png, .jpg or .jpeg extension.
func IsImageFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".png", ".jpg", ".jpeg":
		return true
	}
	return false
}

// LoadRandom shuffles the entries of dir with the given seed and decodes the
// first n. Entries that fail to decode are skipped and still count toward n,
// so the selection depends only on the directory listing and the seed.
func (l *Loader) LoadRandom(dir string, n int, seed int64) ([]Image, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: %d", ErrNegativeCount, n)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	shuffle(names, seed)
	if n < len(names) {
		names = names[:n]
	}

	images := make([]Image, 0, len(names))
	for _, name := range names {
		if img, ok := l.decode(dir, name); ok {
			images = append(images, img)
		}
	}
	l.log.Info().Str("dir", dir).Int("loaded", len(images)).Int("selected", len(names)).Msg("dataset sampled")

	if len(images) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoImages, dir)
	}
	return images, nil
}

// LoadAll decodes every image file in each immediate subdirectory of dir.
// Files directly inside dir are ignored.
func (l *Loader) LoadAll(dir string) ([]Image, error) {
	subdirs, err := listSubdirs(dir)
	if err != nil {
		return nil, err
	}

	var images []Image
	for _, sub := range subdirs {
		files, err := listImageFiles(filepath.Join(dir, sub))
		if err != nil {
			return nil, err
		}
		for _, name := range files {
			if img, ok := l.decode(filepath.Join(dir, sub), name); ok {
				images = append(images, img)
			}
		}
	}

	if len(images) == 0 {
		return nil, fmt.Errorf("%w under %s", ErrNoImages, dir)
	}
	return images, nil
}

// CopySample mirrors the subdirectories of src into dst and copies up to n
// randomly chosen image files from each. It returns the number of files copied.
func CopySample(src, dst string, n int, seed int64) (int, error) {
	if n < 0 {
		return 0, fmt.Errorf("%w: %d", ErrNegativeCount, n)
	}
	subdirs, err := listSubdirs(src)
	if err != nil {
		return 0, err
	}

	copied := 0
	for _, sub := range subdirs {
		files, err := listImageFiles(filepath.Join(src, sub))
		if err != nil {
			return copied, err
		}
		if err := os.MkdirAll(filepath.Join(dst, sub), 0o755); err != nil {
			return copied, fmt.Errorf("failed to create %s: %w", filepath.Join(dst, sub), err)
		}

		shuffle(files, seed)
		if n < len(files) {
			files = files[:n]
		}
		for _, name := range files {
			if err := copyFile(filepath.Join(src, sub, name), filepath.Join(dst, sub, name)); err != nil {
				return copied, err
			}
			copied++
		}
	}
	return copied, nil
}

func (l *Loader) decode(dir, name string) (Image, bool) {
	path := filepath.Join(dir, name)
	img, err := imaging.Open(path)
	if err != nil {
		l.log.Warn().Err(err).Str("path", path).Msg("skipping unreadable image")
		return Image{}, false
	}
	return Image{Name: name, Path: path, Image: img}, true
}

func shuffle(names []string, seed int64) {
	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(len(names), func(i, j int) {
		names[i], names[j] = names[j], names[i]
	})
}

func listSubdirs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}
	var subdirs []string
	for _, e := range entries {
		if e.IsDir() {
			subdirs = append(subdirs, e.Name())
		}
	}
	return subdirs, nil
}

func listImageFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && IsImageFile(e.Name()) {
			files = append(files, e.Name())
		}
	}
	return files, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("failed to copy %s: %w", src, err)
	}
	return out.Close()
}
