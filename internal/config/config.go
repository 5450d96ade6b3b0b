// Package config loads the YAML run configuration for sky-detect.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v2"

	"github.com/ironsheep/sky-region-detector/internal/skyline"
)

/* Example config file ...

log_level: info

detector:
  day_threshold: 97.0
  blur_width: 9
  blur_height: 3
  canny_low: 50
  canny_high: 150
  top_margin: 20
  bottom_margin: 20
  no_sky_ratio: 0.1

evaluation:
  images_per_dataset: 10
  seed: 333
  workers: 4
  output_dir: results
  datasets:
    - name: "623"
      dir: Skyfinder Dataset/623
      mask: Skyfinder Dataset/623-mask.png
    - name: "684"
      dir: Skyfinder Dataset/684
      mask: Skyfinder Dataset/684-mask.png

*/

// Dataset is one camera's image directory and its shared ground-truth mask.
type Dataset struct {
	Name string `yaml:"name"`
	Dir  string `yaml:"dir"`
	Mask string `yaml:"mask"`
}

// Evaluation controls the batch accuracy run.
type Evaluation struct {
	ImagesPerDataset int       `yaml:"images_per_dataset"`
	Seed             int64     `yaml:"seed"`
	Workers          int       `yaml:"workers"`
	OutputDir        string    `yaml:"output_dir"`
	Datasets         []Dataset `yaml:"datasets"`
}

// Configuration is the root of the config file.
type Configuration struct {
	LogLevel   string         `yaml:"log_level"`
	Detector   skyline.Config `yaml:"detector"`
	Evaluation Evaluation     `yaml:"evaluation"`
}

// NewConfiguration returns the defaults every loaded file starts from.
func NewConfiguration() Configuration {
	return Configuration{
		LogLevel: "info",
		Detector: skyline.DefaultConfig(),
		Evaluation: Evaluation{
			ImagesPerDataset: 10,
			Seed:             333,
			Workers:          4,
			Datasets:         []Dataset{},
		},
	}
}

// Load reads and finalizes the config file at filename. Relative dataset
// paths are resolved against the directory holding the file.
func Load(filename string) (Configuration, error) {
	contents, err := os.ReadFile(filename)
	if err != nil {
		return NewConfiguration(), fmt.Errorf("read '%s': %w", filename, err)
	}

	c, err := Parse(contents)
	if err != nil {
		return c, fmt.Errorf("parse '%s': %w", filename, err)
	}
	c.resolvePaths(filepath.Dir(filename))
	return c, nil
}

// Parse decodes YAML on top of the defaults and finalizes the result.
func Parse(contents []byte) (Configuration, error) {
	c := NewConfiguration()
	if err := yaml.Unmarshal(contents, &c); err != nil {
		return c, err
	}
	return c, c.Finalize()
}

// Finalize does sanity checks and fills in derived values.
func (c *Configuration) Finalize() error {
	if err := c.Detector.Validate(); err != nil {
		return fmt.Errorf("detector: %w", err)
	}
	if c.Evaluation.ImagesPerDataset < 1 {
		return errors.New("evaluation: images_per_dataset must be positive")
	}
	if c.Evaluation.Workers < 1 {
		c.Evaluation.Workers = 1
	}

	seen := map[string]bool{}
	for i, d := range c.Evaluation.Datasets {
		if d.Dir == "" || d.Mask == "" {
			return fmt.Errorf("evaluation: dataset %d needs both dir and mask", i)
		}
		if d.Name == "" {
			c.Evaluation.Datasets[i].Name = filepath.Base(d.Dir)
		}
		name := c.Evaluation.Datasets[i].Name
		if seen[name] {
			return fmt.Errorf("evaluation: duplicate dataset name %q", name)
		}
		seen[name] = true
	}
	return nil
}

func (c *Configuration) resolvePaths(base string) {
	resolve := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(base, p)
	}
	for i := range c.Evaluation.Datasets {
		c.Evaluation.Datasets[i].Dir = resolve(c.Evaluation.Datasets[i].Dir)
		c.Evaluation.Datasets[i].Mask = resolve(c.Evaluation.Datasets[i].Mask)
	}
	c.Evaluation.OutputDir = resolve(c.Evaluation.OutputDir)
}

// AsYAML renders the configuration, e.g. for logging the effective settings.
func (c Configuration) AsYAML() string {
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Sprintf("# marshal failed: %v\n", err)
	}
	return string(b)
}
