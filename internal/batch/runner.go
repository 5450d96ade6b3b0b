// Package batch evaluates the sky detector over several camera datasets.
//
// Each dataset is a directory of photographs from one fixed camera plus a
// single ground-truth mask shared by all of them. Images are detected and
// scored concurrently; every detection owns its buffers so no coordination is
// needed beyond collecting results into per-image slots.
package batch

import (
	"context"
	"fmt"
	"image"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/ironsheep/sky-region-detector/internal/config"
	"github.com/ironsheep/sky-region-detector/internal/daynight"
	"github.com/ironsheep/sky-region-detector/internal/dataset"
	"github.com/ironsheep/sky-region-detector/internal/eval"
	"github.com/ironsheep/sky-region-detector/internal/imaging"
	"github.com/ironsheep/sky-region-detector/internal/skyline"
)

// Options controls sampling, parallelism and output.
type Options struct {
	ImagesPerDataset int
	Seed             int64
	Workers          int
	// OutputDir, when set, receives mask, extracted-sky and skyline overlay
	// PNGs for every image under a subdirectory per dataset.
	OutputDir string
}

// ImageResult is the outcome for one photograph.
type ImageResult struct {
	Dataset   string         `json:"dataset"`
	Name      string         `json:"name"`
	TimeOfDay daynight.Label `json:"time_of_day"`
	NoSky     bool           `json:"no_sky"`
	Metrics   eval.Metrics   `json:"metrics"`
}

// DatasetReport holds every image result of a dataset and their average.
type DatasetReport struct {
	Name    string        `json:"name"`
	Images  []ImageResult `json:"images"`
	Summary eval.Metrics  `json:"summary"`
}

// Report is the result of a full run.
type Report struct {
	Datasets []DatasetReport `json:"datasets"`
	Overall  eval.Metrics    `json:"overall"`
}

// Runner drives a batch evaluation.
type Runner struct {
	detector *skyline.Detector
	loader   *dataset.Loader
	cache    *imaging.ImageCache
	opts     Options
	log      zerolog.Logger
}

// NewRunner returns a runner. Workers below 1 are treated as 1.
func NewRunner(detector *skyline.Detector, loader *dataset.Loader, cache *imaging.ImageCache, opts Options, log zerolog.Logger) *Runner {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	return &Runner{
		detector: detector,
		loader:   loader,
		cache:    cache,
		opts:     opts,
		log:      log.With().Str("component", "batch").Logger(),
	}
}

type job struct {
	ds    int
	idx   int
	img   dataset.Image
	truth *skyline.Mask
}

// Run samples every dataset, detects and scores each image, and aggregates
// the metrics per dataset and overall. It stops at the first error, including
// cancellation of ctx.
func (r *Runner) Run(ctx context.Context, datasets []config.Dataset) (*Report, error) {
	if r.opts.ImagesPerDataset < 1 {
		return nil, fmt.Errorf("images per dataset must be positive, got %d", r.opts.ImagesPerDataset)
	}
	report := &Report{Datasets: make([]DatasetReport, len(datasets))}

	var jobs []job
	for d, ds := range datasets {
		truth, err := eval.LoadGroundTruth(r.cache, ds.Mask)
		if err != nil {
			return nil, fmt.Errorf("dataset %s: %w", ds.Name, err)
		}
		images, err := r.loader.LoadRandom(ds.Dir, r.opts.ImagesPerDataset, r.opts.Seed)
		if err != nil {
			return nil, fmt.Errorf("dataset %s: %w", ds.Name, err)
		}

		report.Datasets[d] = DatasetReport{Name: ds.Name, Images: make([]ImageResult, len(images))}
		for i, img := range images {
			jobs = append(jobs, job{ds: d, idx: i, img: img, truth: truth})
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.Workers)
	for _, j := range jobs {
		j := j
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := r.process(report.Datasets[j.ds].Name, j)
			if err != nil {
				return err
			}
			report.Datasets[j.ds].Images[j.idx] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var all []eval.Metrics
	for d := range report.Datasets {
		metrics := make([]eval.Metrics, len(report.Datasets[d].Images))
		for i, img := range report.Datasets[d].Images {
			metrics[i] = img.Metrics
		}
		summary, err := eval.Aggregate(metrics)
		if err != nil {
			return nil, fmt.Errorf("dataset %s: %w", report.Datasets[d].Name, err)
		}
		report.Datasets[d].Summary = summary
		all = append(all, metrics...)
	}

	if len(all) > 0 {
		overall, err := eval.Aggregate(all)
		if err != nil {
			return nil, err
		}
		report.Overall = overall
	}
	r.log.Info().Int("datasets", len(datasets)).Int("images", len(all)).Msg("evaluation complete")
	return report, nil
}

func (r *Runner) process(datasetName string, j job) (ImageResult, error) {
	res := r.detector.Detect(j.img.Image)

	metrics, err := eval.Calculate(res.Mask, j.truth)
	if err != nil {
		return ImageResult{}, fmt.Errorf("%s: %w", j.img.Path, err)
	}
	metrics.Runtime = res.Runtime

	r.log.Debug().
		Str("dataset", datasetName).
		Str("image", j.img.Name).
		Str("time_of_day", string(res.TimeOfDay)).
		Bool("no_sky", res.NoSky).
		Float64("accuracy", metrics.Accuracy).
		Dur("runtime", res.Runtime).
		Msg("image scored")

	if r.opts.OutputDir != "" {
		if err := WriteArtifacts(filepath.Join(r.opts.OutputDir, datasetName), j.img.Name, j.img.Image, res); err != nil {
			return ImageResult{}, err
		}
	}

	return ImageResult{
		Dataset:   datasetName,
		Name:      j.img.Name,
		TimeOfDay: res.TimeOfDay,
		NoSky:     res.NoSky,
		Metrics:   metrics,
	}, nil
}

// WriteArtifacts saves the mask, the extracted sky and the skyline overlay of
// a detection as <stem>-mask.png, <stem>-sky.png and <stem>-skyline.png.
func WriteArtifacts(dir, name string, original image.Image, res *skyline.Result) error {
	stem := strings.TrimSuffix(name, filepath.Ext(name))

	if err := imaging.SavePNG(res.Mask.Image(), filepath.Join(dir, stem+"-mask.png")); err != nil {
		return err
	}
	if err := imaging.SavePNG(res.Extracted, filepath.Join(dir, stem+"-sky.png")); err != nil {
		return err
	}
	overlay, err := imaging.DrawSkyline(original, res.SkylinePoints(), imaging.DefaultSkylineColor, 4)
	if err != nil {
		return err
	}
	return imaging.SavePNG(overlay, filepath.Join(dir, stem+"-skyline.png"))
}
