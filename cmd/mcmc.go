package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/iastro-pt/gedi/gp/config"
	"github.com/iastro-pt/gedi/gp/likelihood"
	"github.com/iastro-pt/gedi/gp/mcmc"
	"github.com/iastro-pt/gedi/gp/metrics"
	"github.com/iastro-pt/gedi/gp/trace"
)

var (
	configPath  string // YAML run spec
	tracePath   string // CSV trace output; one file per chain when chains > 1
	metricsPath string // Prometheus textfile output
	seed        int64  // Overrides the run spec seed when set
	chains      int    // Overrides the run spec chain count when set
	logEvery    int    // Debug log cadence in iterations
)

// RunReport is the JSON document printed by `gedi mcmc`.
type RunReport struct {
	RunID      string           `json:"run_id"`
	Kernel     string           `json:"kernel"`
	Seed       int64            `json:"seed"`
	Acceptance string           `json:"acceptance"`
	Chains     []*trace.Summary `json:"chains"`
	RHat       []float64        `json:"rhat,omitempty"` // omitted unless defined for every parameter
}

// runOptions carries the CLI outputs of a sampling run.
type runOptions struct {
	tracePath   string
	metricsPath string
	logEvery    int
}

var mcmcCmd = &cobra.Command{
	Use:   "mcmc",
	Short: "Sample kernel parameters with the random-walk sampler",
	Run: func(cmd *cobra.Command, args []string) {
		if configPath == "" {
			logrus.Fatalf("--config is required")
		}
		spec, err := config.LoadRunSpec(configPath)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		if cmd.Flags().Changed("seed") {
			spec.Seed = seed
		}
		if cmd.Flags().Changed("chains") {
			spec.Chains = chains
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		report, err := runSampling(ctx, spec, runOptions{
			tracePath:   tracePath,
			metricsPath: metricsPath,
			logEvery:    logEvery,
		})
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		if err := writeJSON(os.Stdout, report); err != nil {
			logrus.Fatalf("%v", err)
		}
	},
}

// runSampling validates spec, runs every chain and writes the optional
// trace and metrics files.
func runSampling(ctx context.Context, spec *config.RunSpec, opts runOptions) (*RunReport, error) {
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("invalid run spec: %w", err)
	}
	template, err := spec.ParsedKernel()
	if err != nil {
		return nil, err
	}
	cfg, err := spec.SamplerConfig()
	if err != nil {
		return nil, err
	}

	key := mcmc.NewRunKey(spec.Seed)
	data, err := spec.Dataset(mcmc.NewPartitionedRNG(key).ForData())
	if err != nil {
		return nil, err
	}

	reg := prometheus.NewRegistry()
	if opts.metricsPath != "" {
		cfg.Observer = metrics.NewCollector(reg)
	}
	cfg.LogEvery = opts.logEvery

	runID := uuid.NewString()
	logrus.Infof("run %s: %d chain(s) of %s on %d points", runID, spec.NumChains(), template, data.Len())

	sampler := mcmc.NewSampler(likelihood.Cholesky{}, cfg)
	results, err := mcmc.RunChains(ctx, sampler, key, spec.NumChains(), spec.Workers, template, data, spec.SamplerBounds())
	if err != nil {
		return nil, err
	}

	report := &RunReport{
		RunID:      runID,
		Kernel:     template.String(),
		Seed:       spec.Seed,
		Acceptance: cfg.Acceptance.String(),
	}
	for _, res := range results {
		report.Chains = append(report.Chains, trace.Summarize(res))
	}
	if rhat := trace.GelmanRubin(results); allFinite(rhat) {
		report.RHat = rhat
	}

	if opts.tracePath != "" {
		for i, res := range results {
			if err := writeTrace(chainPath(opts.tracePath, i, len(results)), res); err != nil {
				return nil, err
			}
		}
	}
	if opts.metricsPath != "" {
		if err := metrics.WriteTextfile(reg, opts.metricsPath); err != nil {
			return nil, err
		}
	}
	return report, nil
}

// chainPath returns path for a single chain and path with a .chainN suffix
// before the extension otherwise.
func chainPath(path string, chain, chains int) string {
	if chains == 1 {
		return path
	}
	ext := filepath.Ext(path)
	return fmt.Sprintf("%s.chain%d%s", strings.TrimSuffix(path, ext), chain, ext)
}

func writeTrace(path string, res *mcmc.Result) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating trace file: %w", err)
	}
	if err := trace.WriteCSV(file, res); err != nil {
		_ = file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("closing trace file: %w", err)
	}
	logrus.Debugf("Successfully wrote trace to '%s'", path)
	return nil
}

func allFinite(vals []float64) bool {
	if len(vals) == 0 {
		return false
	}
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}
	return nil
}

func init() {
	mcmcCmd.Flags().StringVar(&configPath, "config", "", "Path to the YAML run spec")
	mcmcCmd.Flags().StringVar(&tracePath, "trace", "", "Write retained samples to this CSV file")
	mcmcCmd.Flags().StringVar(&metricsPath, "metrics-file", "", "Write Prometheus metrics to this textfile")
	mcmcCmd.Flags().Int64Var(&seed, "seed", 0, "Override the run spec seed")
	mcmcCmd.Flags().IntVar(&chains, "chains", 0, "Override the run spec chain count")
	mcmcCmd.Flags().IntVar(&logEvery, "log-every", 0, "Log progress every N iterations at debug level (0 disables)")

	rootCmd.AddCommand(mcmcCmd)
}
