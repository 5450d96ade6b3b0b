package batch

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/sky-region-detector/internal/config"
	"github.com/ironsheep/sky-region-detector/internal/daynight"
	"github.com/ironsheep/sky-region-detector/internal/dataset"
	"github.com/ironsheep/sky-region-detector/internal/imaging"
	"github.com/ironsheep/sky-region-detector/internal/skyline"
)

func savePNG(t *testing.T, path string, img image.Image) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

// createDataset writes n landscape photos with sky above horizon and a
// matching ground-truth mask, and returns the dataset entry.
func createDataset(t *testing.T, root, name string, n, size, horizon int) config.Dataset {
	t.Helper()

	photo := image.NewRGBA(image.Rect(0, 0, size, size))
	mask := image.NewGray(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			if y < horizon {
				photo.Set(x, y, color.RGBA{135, 190, 235, 255})
				mask.SetGray(x, y, color.Gray{Y: 255})
			} else {
				photo.Set(x, y, color.RGBA{60, 70, 40, 255})
			}
		}
	}

	dir := filepath.Join(root, name)
	for i := 0; i < n; i++ {
		savePNG(t, filepath.Join(dir, "img"+string(rune('a'+i))+".png"), photo)
	}
	maskPath := filepath.Join(root, name+"-mask.png")
	savePNG(t, maskPath, mask)

	return config.Dataset{Name: name, Dir: dir, Mask: maskPath}
}

func newRunner(t *testing.T, opts Options) *Runner {
	t.Helper()
	d, err := skyline.NewDetector(skyline.DefaultConfig())
	require.NoError(t, err)
	log := zerolog.Nop()
	return NewRunner(d, dataset.NewLoader(log), imaging.NewImageCache(), opts, log)
}

func TestRun(t *testing.T) {
	root := t.TempDir()
	datasets := []config.Dataset{
		createDataset(t, root, "cam1", 4, 80, 35),
		createDataset(t, root, "cam2", 2, 60, 30),
	}

	r := newRunner(t, Options{ImagesPerDataset: 3, Seed: 333, Workers: 3})
	report, err := r.Run(context.Background(), datasets)
	require.NoError(t, err)

	require.Len(t, report.Datasets, 2)
	assert.Equal(t, "cam1", report.Datasets[0].Name)
	assert.Len(t, report.Datasets[0].Images, 3)
	assert.Len(t, report.Datasets[1].Images, 2)

	for _, ds := range report.Datasets {
		for _, img := range ds.Images {
			assert.Equal(t, ds.Name, img.Dataset)
			assert.Equal(t, daynight.Day, img.TimeOfDay)
			assert.False(t, img.NoSky, img.Name)
			assert.Greater(t, img.Metrics.Accuracy, 0.95, img.Name)
			assert.Greater(t, img.Metrics.Runtime.Nanoseconds(), int64(0))
		}
		assert.Greater(t, ds.Summary.Accuracy, 0.95)
	}
	assert.Greater(t, report.Overall.Accuracy, 0.95)
	assert.InDelta(t, 1.0, report.Overall.Precision, 1e-9)
}

func TestRun_WritesArtifacts(t *testing.T) {
	root := t.TempDir()
	out := filepath.Join(root, "out")
	ds := createDataset(t, root, "cam", 1, 60, 30)

	r := newRunner(t, Options{ImagesPerDataset: 1, Seed: 1, Workers: 1, OutputDir: out})
	_, err := r.Run(context.Background(), []config.Dataset{ds})
	require.NoError(t, err)

	for _, suffix := range []string{"-mask.png", "-sky.png", "-skyline.png"} {
		_, err := os.Stat(filepath.Join(out, "cam", "imga"+suffix))
		assert.NoError(t, err, suffix)
	}
}

func TestRun_MissingMask(t *testing.T) {
	root := t.TempDir()
	ds := createDataset(t, root, "cam", 1, 60, 30)
	ds.Mask = filepath.Join(root, "nope.png")

	_, err := newRunner(t, Options{ImagesPerDataset: 1, Workers: 1}).Run(context.Background(), []config.Dataset{ds})
	assert.Error(t, err)
}

func TestRun_MaskSizeMismatch(t *testing.T) {
	root := t.TempDir()
	ds := createDataset(t, root, "cam", 1, 60, 30)
	other := createDataset(t, root, "other", 1, 40, 20)
	ds.Mask = other.Mask

	_, err := newRunner(t, Options{ImagesPerDataset: 1, Workers: 2}).Run(context.Background(), []config.Dataset{ds})
	assert.Error(t, err)
}

func TestRun_Cancelled(t *testing.T) {
	root := t.TempDir()
	ds := createDataset(t, root, "cam", 2, 60, 30)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newRunner(t, Options{ImagesPerDataset: 2, Workers: 1}).Run(ctx, []config.Dataset{ds})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewRunner_WorkersFloor(t *testing.T) {
	r := newRunner(t, Options{Workers: 0})
	assert.Equal(t, 1, r.opts.Workers)
}

func TestRun_RepeatedWithSameContext(t *testing.T) {
	root := t.TempDir()
	ds := createDataset(t, root, "cam", 2, 60, 30)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	r := newRunner(t, Options{ImagesPerDataset: 2, Seed: 333, Workers: 2})
	for i := 0; i < 2; i++ {
		report, err := r.Run(ctx, []config.Dataset{ds})
		require.NoError(t, err, "run %d", i)
		assert.Len(t, report.Datasets[0].Images, 2)
	}
	assert.NoError(t, ctx.Err(), "Run must not cancel the caller's context")
}

func TestRun_InvalidSampleSize(t *testing.T) {
	root := t.TempDir()
	ds := createDataset(t, root, "cam", 1, 60, 30)

	for _, n := range []int{0, -1} {
		_, err := newRunner(t, Options{ImagesPerDataset: n, Workers: 1}).Run(context.Background(), []config.Dataset{ds})
		assert.Error(t, err, "n=%d", n)
	}
}
