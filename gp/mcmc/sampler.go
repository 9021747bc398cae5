// Package mcmc implements the random-walk sampler over kernel parameters.
//
// Each iteration perturbs every flattened parameter of a kernel tree,
// clips the proposal into per-parameter bounds, rebuilds the tree with
// kernel.Rebuild and scores it with a Likelihood. The run is sequential;
// RunChains parallelizes independent chains.
package mcmc

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/sirupsen/logrus"

	"github.com/iastro-pt/gedi/gp"
	"github.com/iastro-pt/gedi/gp/kernel"
)

// DefaultStep is the standard deviation of the Gaussian random walk.
const DefaultStep = 5e-3

// ErrInvalidConfig is returned for run configurations the sampler cannot
// execute.
var ErrInvalidConfig = errors.New("invalid sampler configuration")

// Likelihood scores a kernel on a dataset. Errors abort the run.
type Likelihood interface {
	LogLikelihood(k kernel.Kernel, data gp.Dataset) (float64, error)
}

// LikelihoodFunc adapts a function to Likelihood.
type LikelihoodFunc func(k kernel.Kernel, data gp.Dataset) (float64, error)

func (f LikelihoodFunc) LogLikelihood(k kernel.Kernel, data gp.Dataset) (float64, error) {
	return f(k, data)
}

// Bound is the closed interval a parameter is sampled in.
type Bound struct {
	Lower float64
	Upper float64
}

func (b Bound) clip(v float64) float64 {
	return math.Min(math.Max(v, b.Lower), b.Upper)
}

// Config controls a run. Runs and BurnIn are iteration counts; iterations
// with index < BurnIn are not recorded. BurnIn >= Runs yields empty traces.
type Config struct {
	Runs       int
	BurnIn     int
	Step       float64 // zero selects DefaultStep
	Acceptance Acceptance
	Observer   Observer // optional
	LogEvery   int      // debug log cadence in iterations; zero disables
}

func (c Config) withDefaults() Config {
	if c.Step == 0 {
		c.Step = DefaultStep
	}
	return c
}

// Validate reports configuration errors.
func (c Config) Validate() error {
	if c.Runs < 0 {
		return fmt.Errorf("%w: runs must be non-negative, got %d", ErrInvalidConfig, c.Runs)
	}
	if c.BurnIn < 0 {
		return fmt.Errorf("%w: burn-in must be non-negative, got %d", ErrInvalidConfig, c.BurnIn)
	}
	if c.Step < 0 || math.IsNaN(c.Step) || math.IsInf(c.Step, 0) {
		return fmt.Errorf("%w: step must be positive and finite, got %v", ErrInvalidConfig, c.Step)
	}
	if _, ok := acceptanceNames[c.Acceptance]; !ok {
		return fmt.Errorf("%w: unknown acceptance policy %v", ErrInvalidConfig, c.Acceptance)
	}
	if c.LogEvery < 0 {
		return fmt.Errorf("%w: log cadence must be non-negative, got %d", ErrInvalidConfig, c.LogEvery)
	}
	return nil
}

// Result is the outcome of a completed run.
type Result struct {
	Kernel        kernel.Kernel // built from the final parameters
	LogLikelihood float64       // of Kernel
	// TraceLogLikelihood and TraceParams hold retained iterations only.
	// TraceParams[j] is the trace of the j-th flattened parameter.
	TraceLogLikelihood []float64
	TraceParams        [][]float64
	// Accepted[j] counts iterations, burn-in included, in which parameter j moved.
	Accepted   []int
	Iterations int
}

// Sampler runs random-walk chains. A Sampler holds no run state and may be
// shared by concurrent runs if its Likelihood and Observer allow it.
type Sampler struct {
	lik Likelihood
	cfg Config
}

func NewSampler(lik Likelihood, cfg Config) *Sampler {
	return &Sampler{lik: lik, cfg: cfg.withDefaults()}
}

func (s *Sampler) Config() Config {
	return s.cfg
}

// Run samples the parameters of template. Only the structure of template is
// used; starting parameters are drawn uniformly within bounds, which must
// hold one entry per flattened parameter.
func (s *Sampler) Run(ctx context.Context, rng *rand.Rand, template kernel.Kernel, data gp.Dataset, bounds []Bound) (*Result, error) {
	return s.run(ctx, rng, 0, template, data, bounds)
}

func (s *Sampler) run(ctx context.Context, rng *rand.Rand, chain int, template kernel.Kernel, data gp.Dataset, bounds []Bound) (*Result, error) {
	if err := s.validate(rng, template, bounds); err != nil {
		return nil, err
	}
	cfg := s.cfg
	n := len(bounds)

	current := make([]float64, n)
	for j, b := range bounds {
		current[j] = b.Lower + (b.Upper-b.Lower)*rng.Float64()
	}
	currentKernel, currentLL, err := s.score(template, current, data)
	if err != nil {
		return nil, fmt.Errorf("initial state: %w", err)
	}

	logrus.Infof("mcmc: chain %d starting %d runs (burn-in %d, step %g, %s acceptance) on %s",
		chain, cfg.Runs, cfg.BurnIn, cfg.Step, cfg.Acceptance, template)

	retained := max(cfg.Runs-cfg.BurnIn, 0)
	res := &Result{
		TraceLogLikelihood: make([]float64, 0, retained),
		TraceParams:        make([][]float64, n),
		Accepted:           make([]int, n),
	}
	for j := range res.TraceParams {
		res.TraceParams[j] = make([]float64, 0, retained)
	}

	guess := make([]float64, n)
	accepted := make([]bool, n)
	for i := 0; i < cfg.Runs; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		u := rng.Float64()
		for j := range guess {
			guess[j] = bounds[j].clip(math.Abs(current[j] + cfg.Step*rng.NormFloat64()))
		}
		_, guessLL, err := s.score(template, guess, data)
		if err != nil {
			return nil, fmt.Errorf("iteration %d: proposal: %w", i, err)
		}

		cfg.Acceptance.accept(u, currentLL, guessLL, current, guess, accepted)

		currentKernel, currentLL, err = s.score(template, current, data)
		if err != nil {
			return nil, fmt.Errorf("iteration %d: %w", i, err)
		}

		for j, ok := range accepted {
			if ok {
				res.Accepted[j]++
			}
		}
		if i >= cfg.BurnIn {
			res.TraceLogLikelihood = append(res.TraceLogLikelihood, currentLL)
			for j, v := range current {
				res.TraceParams[j] = append(res.TraceParams[j], v)
			}
		}
		if cfg.Observer != nil {
			cfg.Observer.Observe(Iteration{
				Chain:         chain,
				Index:         i,
				Retained:      i >= cfg.BurnIn,
				LogLikelihood: currentLL,
				Params:        append([]float64(nil), current...),
				Accepted:      append([]bool(nil), accepted...),
			})
		}
		if cfg.LogEvery > 0 && (i+1)%cfg.LogEvery == 0 {
			logrus.Debugf("mcmc: chain %d iteration %d/%d loglike=%.6g params=%v", chain, i+1, cfg.Runs, currentLL, current)
		}
	}

	res.Kernel = currentKernel
	res.LogLikelihood = currentLL
	res.Iterations = cfg.Runs
	logrus.Infof("mcmc: chain %d finished, loglike=%.6g kernel=%s", chain, currentLL, currentKernel)
	return res, nil
}

func (s *Sampler) validate(rng *rand.Rand, template kernel.Kernel, bounds []Bound) error {
	if s.lik == nil {
		return fmt.Errorf("%w: nil likelihood", ErrInvalidConfig)
	}
	if rng == nil {
		return fmt.Errorf("%w: nil rng", ErrInvalidConfig)
	}
	if template == nil {
		return fmt.Errorf("%w: nil kernel", ErrInvalidConfig)
	}
	if err := s.cfg.Validate(); err != nil {
		return err
	}
	if want := kernel.Count(template); len(bounds) != want {
		return fmt.Errorf("%w: %d bounds for %d parameters of %s",
			kernel.ErrStructuralMismatch, len(bounds), want, template)
	}
	for j, b := range bounds {
		if !(b.Lower <= b.Upper) || math.IsInf(b.Lower, 0) || math.IsInf(b.Upper, 0) {
			return fmt.Errorf("%w: bound %d is [%v, %v]", ErrInvalidConfig, j, b.Lower, b.Upper)
		}
	}
	return nil
}

func (s *Sampler) score(template kernel.Kernel, params []float64, data gp.Dataset) (kernel.Kernel, float64, error) {
	k, err := kernel.Rebuild(template, params)
	if err != nil {
		return nil, 0, err
	}
	ll, err := s.lik.LogLikelihood(k, data)
	if err != nil {
		return nil, 0, err
	}
	return k, ll, nil
}

// MCMC runs a single chain with the given likelihood and returns the final
// kernel, its log-likelihood, the retained log-likelihood trace and one
// retained trace per flattened parameter.
func MCMC(ctx context.Context, rng *rand.Rand, lik Likelihood, k kernel.Kernel,
	x, y, yerr []float64, bounds []Bound, runs, burnIn int,
) (kernel.Kernel, float64, []float64, [][]float64, error) {
	data, err := gp.NewDataset(x, y, yerr)
	if err != nil {
		return nil, 0, nil, nil, err
	}
	res, err := NewSampler(lik, Config{Runs: runs, BurnIn: burnIn}).Run(ctx, rng, k, data, bounds)
	if err != nil {
		return nil, 0, nil, nil, err
	}
	return res.Kernel, res.LogLikelihood, res.TraceLogLikelihood, res.TraceParams, nil
}
