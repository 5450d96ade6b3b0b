package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/ironsheep/sky-region-detector/internal/batch"
	"github.com/ironsheep/sky-region-detector/internal/config"
	"github.com/ironsheep/sky-region-detector/internal/dataset"
	"github.com/ironsheep/sky-region-detector/internal/daynight"
	"github.com/ironsheep/sky-region-detector/internal/imaging"
	"github.com/ironsheep/sky-region-detector/internal/logger"
	"github.com/ironsheep/sky-region-detector/internal/server"
	"github.com/ironsheep/sky-region-detector/internal/skyline"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

const usage = `sky-detect - sky region and skyline detection

Usage:
  sky-detect detect [-config file] [-o dir] image...
  sky-detect evaluate -config file [-n N] [-seed S] [-workers W] [-o dir]
  sky-detect calibrate dir
  sky-detect classify [-threshold T] dir
  sky-detect sample [-n N] [-seed S] src dst
  sky-detect serve [-config file]
  sky-detect version

Environment variables:
  SKY_DETECT_LOG_LEVEL=debug    Override the log level

serve speaks the MCP protocol over stdin/stdout.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	var err error
	switch cmd, args := os.Args[1], os.Args[2:]; cmd {
	case "detect":
		err = runDetect(args)
	case "evaluate":
		err = runEvaluate(args)
	case "calibrate":
		err = runCalibrate(args)
	case "classify":
		err = runClassify(args)
	case "sample":
		err = runSample(args)
	case "serve":
		err = runServe(args)
	case "--version", "-v", "version":
		fmt.Printf("sky-detect %s\n", Version)
		fmt.Printf("  Build time: %s\n", BuildTime)
		fmt.Printf("  Git commit: %s\n", GitCommit)
	case "--help", "-h", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", cmd, usage)
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "sky-detect: %v\n", err)
		os.Exit(1)
	}
}

// setup loads the configuration file, if any, and builds the logger from it.
func setup(configFile string) (config.Configuration, zerolog.Logger, error) {
	cfg := config.NewConfiguration()
	if configFile != "" {
		var err error
		if cfg, err = config.Load(configFile); err != nil {
			return cfg, zerolog.Nop(), err
		}
	}
	log, err := logger.NewConsole(cfg.LogLevel)
	if err != nil {
		return cfg, zerolog.Nop(), err
	}
	if configFile != "" {
		log.Debug().Str("file", configFile).Msg("effective configuration:\n" + cfg.AsYAML())
	}
	return cfg, log, nil
}

func runDetect(args []string) error {
	fs := flag.NewFlagSet("detect", flag.ExitOnError)
	configFile := fs.String("config", "", "YAML configuration file")
	outDir := fs.String("o", "", "directory for mask, sky and skyline PNGs")
	fs.Parse(args)
	if fs.NArg() == 0 {
		return errors.New("detect: at least one image is required")
	}

	cfg, log, err := setup(*configFile)
	if err != nil {
		return err
	}
	detector, err := skyline.NewDetector(cfg.Detector)
	if err != nil {
		return err
	}

	for _, path := range fs.Args() {
		img, err := imaging.Open(path)
		if err != nil {
			return err
		}
		res := detector.Detect(img)
		log.Info().
			Str("image", path).
			Str("time_of_day", string(res.TimeOfDay)).
			Bool("no_sky", res.NoSky).
			Int("sky_pixels", res.Mask.Count()).
			Dur("runtime", res.Runtime).
			Msg("detected")

		if *outDir != "" {
			if err := batch.WriteArtifacts(*outDir, filepath.Base(path), img, res); err != nil {
				return err
			}
		}
	}
	return nil
}

func runEvaluate(args []string) error {
	fs := flag.NewFlagSet("evaluate", flag.ExitOnError)
	configFile := fs.String("config", "", "YAML configuration file (required)")
	n := fs.Int("n", 0, "images sampled per dataset (overrides config)")
	seed := fs.Int64("seed", 0, "sampling seed (overrides config)")
	workers := fs.Int("workers", 0, "concurrent detections (overrides config)")
	outDir := fs.String("o", "", "directory for per-image artifacts (overrides config)")
	fs.Parse(args)
	if *configFile == "" {
		return errors.New("evaluate: -config is required")
	}

	cfg, log, err := setup(*configFile)
	if err != nil {
		return err
	}
	opts := batch.Options{
		ImagesPerDataset: cfg.Evaluation.ImagesPerDataset,
		Seed:             cfg.Evaluation.Seed,
		Workers:          cfg.Evaluation.Workers,
		OutputDir:        cfg.Evaluation.OutputDir,
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "n":
			opts.ImagesPerDataset = *n
		case "seed":
			opts.Seed = *seed
		case "workers":
			opts.Workers = *workers
		case "o":
			opts.OutputDir = *outDir
		}
	})
	if opts.ImagesPerDataset < 1 {
		return fmt.Errorf("evaluate: -n must be positive, got %d", opts.ImagesPerDataset)
	}
	if len(cfg.Evaluation.Datasets) == 0 {
		return fmt.Errorf("evaluate: %s lists no datasets", *configFile)
	}

	detector, err := skyline.NewDetector(cfg.Detector)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	runner := batch.NewRunner(detector, dataset.NewLoader(log), imaging.NewImageCache(), opts, log)
	report, err := runner.Run(ctx, cfg.Evaluation.Datasets)
	if err != nil {
		return err
	}

	for _, ds := range report.Datasets {
		fmt.Printf("DATASET %s\n", ds.Name)
		fmt.Println(ds.Summary)
	}
	fmt.Println("OVERALL PERFORMANCE")
	fmt.Println(report.Overall)
	return nil
}

// loadSamples decodes every image under the subdirectories of dir.
func loadSamples(dir string, log zerolog.Logger) ([]daynight.Sample, error) {
	images, err := dataset.NewLoader(log).LoadAll(dir)
	if err != nil {
		return nil, err
	}
	samples := make([]daynight.Sample, len(images))
	for i, img := range images {
		samples[i] = daynight.Sample{Name: img.Name, Image: img.Image}
	}
	return samples, nil
}

func runCalibrate(args []string) error {
	fs := flag.NewFlagSet("calibrate", flag.ExitOnError)
	fs.Parse(args)
	if fs.NArg() != 1 {
		return errors.New("calibrate: exactly one directory is required")
	}

	_, log, err := setup("")
	if err != nil {
		return err
	}
	samples, err := loadSamples(fs.Arg(0), log)
	if err != nil {
		return err
	}
	threshold, err := daynight.Calibrate(samples)
	if err != nil {
		return err
	}
	accuracy, err := daynight.Accuracy(daynight.NewClassifier(threshold), samples)
	if err != nil {
		return err
	}

	fmt.Printf("Intensity threshold: %.2f\n", threshold)
	fmt.Printf("Accuracy: %.2f%%\n", accuracy)
	return nil
}

func runClassify(args []string) error {
	fs := flag.NewFlagSet("classify", flag.ExitOnError)
	threshold := fs.Float64("threshold", daynight.DefaultThreshold, "day/night intensity threshold")
	fs.Parse(args)
	if fs.NArg() != 1 {
		return errors.New("classify: exactly one directory is required")
	}

	_, log, err := setup("")
	if err != nil {
		return err
	}
	samples, err := loadSamples(fs.Arg(0), log)
	if err != nil {
		return err
	}

	c := daynight.NewClassifier(*threshold)
	for _, s := range samples {
		fmt.Printf("%-40s %-5s %7.2f\n", s.Name, c.Classify(s.Image), daynight.MeanIntensity(s.Image))
	}
	if accuracy, err := daynight.Accuracy(c, samples); err == nil {
		fmt.Printf("Accuracy: %.2f%%\n", accuracy)
	}
	return nil
}

func runSample(args []string) error {
	fs := flag.NewFlagSet("sample", flag.ExitOnError)
	n := fs.Int("n", 10, "images copied per subdirectory")
	seed := fs.Int64("seed", 333, "sampling seed")
	fs.Parse(args)
	if fs.NArg() != 2 {
		return errors.New("sample: source and destination directories are required")
	}

	_, log, err := setup("")
	if err != nil {
		return err
	}
	copied, err := dataset.CopySample(fs.Arg(0), fs.Arg(1), *n, *seed)
	if err != nil {
		return err
	}
	log.Info().Int("copied", copied).Str("dst", fs.Arg(1)).Msg("sample written")
	return nil
}

func runServe(args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	configFile := fs.String("config", "", "YAML configuration file")
	fs.Parse(args)

	cfg, log, err := setup(*configFile)
	if err != nil {
		return err
	}
	detector, err := skyline.NewDetector(cfg.Detector)
	if err != nil {
		return err
	}

	log.Debug().Str("version", Version).Str("built", BuildTime).Str("commit", GitCommit).Msg("starting MCP server")
	return server.New(detector, log).Run()
}
