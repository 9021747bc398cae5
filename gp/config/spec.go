// Package config loads and validates YAML run specifications for the
// sampler.
package config

import (
	"bytes"
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/iastro-pt/gedi/gp"
	"github.com/iastro-pt/gedi/gp/kernel"
	"github.com/iastro-pt/gedi/gp/mcmc"
)

// CurrentVersion is the run spec format understood by this package.
const CurrentVersion = "1"

// RunSpec is the top-level run configuration.
// Loaded from YAML via LoadRunSpec(path).
type RunSpec struct {
	Version    string      `yaml:"version"`
	Seed       int64       `yaml:"seed"`
	Kernel     string      `yaml:"kernel"` // expression, see kernel.Parse
	Bounds     [][]float64 `yaml:"bounds"` // one [lower, upper] pair per flattened parameter
	Runs       int         `yaml:"runs"`
	BurnIn     int         `yaml:"burn_in"`
	Step       float64     `yaml:"step,omitempty"`       // 0 = mcmc.DefaultStep
	Acceptance string      `yaml:"acceptance,omitempty"` // per-parameter (default) or joint
	Chains     int         `yaml:"chains,omitempty"`     // 0 = 1
	Workers    int         `yaml:"workers,omitempty"`    // 0 = one per chain
	Data       DataSpec    `yaml:"data"`

	baseDir string
}

// DataSpec selects the observations. Exactly one of File and Synthetic must
// be set.
type DataSpec struct {
	File      string         `yaml:"file,omitempty"` // CSV, relative paths resolve against the spec file
	Synthetic *SyntheticSpec `yaml:"synthetic,omitempty"`
}

// SyntheticSpec generates noisy samples of sin(x) on [0, 10).
type SyntheticSpec struct {
	Points int     `yaml:"points"`
	Noise  float64 `yaml:"noise"`
}

// LoadRunSpec reads and strictly decodes a run spec. Unknown keys are
// rejected. The spec is not validated.
func LoadRunSpec(path string) (*RunSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading run spec: %w", err)
	}
	spec, err := ParseRunSpec(data)
	if err != nil {
		return nil, err
	}
	spec.baseDir = filepath.Dir(path)
	return spec, nil
}

// ParseRunSpec strictly decodes a run spec from YAML.
func ParseRunSpec(data []byte) (*RunSpec, error) {
	var spec RunSpec
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&spec); err != nil {
		return nil, fmt.Errorf("parsing run spec: %w", err)
	}
	if spec.Version == "" {
		logrus.Warnf("run spec has no version; assuming %q", CurrentVersion)
		spec.Version = CurrentVersion
	}
	return &spec, nil
}

// Validate checks every field, including that the bounds match the kernel's
// parameter count.
func (s *RunSpec) Validate() error {
	if s.Version != CurrentVersion {
		return fmt.Errorf("unsupported version %q; valid: %s", s.Version, CurrentVersion)
	}
	k, err := s.ParsedKernel()
	if err != nil {
		return err
	}
	if want := kernel.Count(k); len(s.Bounds) != want {
		return fmt.Errorf("%w: %d bounds for %d parameters of %s",
			kernel.ErrStructuralMismatch, len(s.Bounds), want, k)
	}
	for i, b := range s.Bounds {
		if len(b) != 2 {
			return fmt.Errorf("bounds[%d]: want [lower, upper], got %d values", i, len(b))
		}
		if err := validateFinite(fmt.Sprintf("bounds[%d]", i), b...); err != nil {
			return err
		}
		if b[0] > b[1] {
			return fmt.Errorf("bounds[%d]: lower %v exceeds upper %v", i, b[0], b[1])
		}
	}
	if s.Runs <= 0 {
		return fmt.Errorf("runs must be positive, got %d", s.Runs)
	}
	if s.BurnIn < 0 {
		return fmt.Errorf("burn_in must be non-negative, got %d", s.BurnIn)
	}
	if s.BurnIn >= s.Runs {
		logrus.Warnf("burn_in %d >= runs %d: traces will be empty", s.BurnIn, s.Runs)
	}
	if s.Step < 0 {
		return fmt.Errorf("step must be non-negative, got %v", s.Step)
	}
	if err := validateFinite("step", s.Step); err != nil {
		return err
	}
	if _, err := mcmc.ParseAcceptance(s.Acceptance); err != nil {
		return err
	}
	if s.Chains < 0 {
		return fmt.Errorf("chains must be non-negative, got %d", s.Chains)
	}
	if s.Workers < 0 {
		return fmt.Errorf("workers must be non-negative, got %d", s.Workers)
	}
	return s.Data.Validate()
}

// Validate checks that exactly one data source is well formed.
func (d *DataSpec) Validate() error {
	switch {
	case d.File == "" && d.Synthetic == nil:
		return fmt.Errorf("data: one of file or synthetic required")
	case d.File != "" && d.Synthetic != nil:
		return fmt.Errorf("data: file and synthetic are mutually exclusive")
	case d.Synthetic != nil:
		if d.Synthetic.Points <= 0 {
			return fmt.Errorf("data.synthetic.points must be positive, got %d", d.Synthetic.Points)
		}
		if d.Synthetic.Noise < 0 {
			return fmt.Errorf("data.synthetic.noise must be non-negative, got %v", d.Synthetic.Noise)
		}
		return validateFinite("data.synthetic.noise", d.Synthetic.Noise)
	}
	return nil
}

func validateFinite(name string, vals ...float64) error {
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%s must be finite, got %v", name, v)
		}
	}
	return nil
}

// ParsedKernel parses the kernel expression.
func (s *RunSpec) ParsedKernel() (kernel.Kernel, error) {
	if s.Kernel == "" {
		return nil, fmt.Errorf("kernel expression required")
	}
	k, err := kernel.Parse(s.Kernel)
	if err != nil {
		return nil, fmt.Errorf("kernel: %w", err)
	}
	return k, nil
}

// SamplerBounds converts Bounds for the sampler. Call Validate first.
func (s *RunSpec) SamplerBounds() []mcmc.Bound {
	out := make([]mcmc.Bound, len(s.Bounds))
	for i, b := range s.Bounds {
		out[i] = mcmc.Bound{Lower: b[0], Upper: b[1]}
	}
	return out
}

// SamplerConfig builds the per-chain sampler configuration.
func (s *RunSpec) SamplerConfig() (mcmc.Config, error) {
	acc, err := mcmc.ParseAcceptance(s.Acceptance)
	if err != nil {
		return mcmc.Config{}, err
	}
	return mcmc.Config{
		Runs:       s.Runs,
		BurnIn:     s.BurnIn,
		Step:       s.Step,
		Acceptance: acc,
	}, nil
}

// NumChains returns Chains with its default applied.
func (s *RunSpec) NumChains() int {
	return max(s.Chains, 1)
}

// Dataset loads or generates the observations. rng is only drawn from for
// synthetic data.
func (s *RunSpec) Dataset(rng *rand.Rand) (gp.Dataset, error) {
	if s.Data.Synthetic != nil {
		return gp.SineDataset(rng, s.Data.Synthetic.Points, s.Data.Synthetic.Noise), nil
	}
	path := s.Data.File
	if !filepath.IsAbs(path) && s.baseDir != "" {
		path = filepath.Join(s.baseDir, path)
	}
	return gp.LoadCSV(path)
}
