package cmd

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/iastro-pt/gedi/gp/config"
	"github.com/iastro-pt/gedi/gp/kernel"
	"github.com/iastro-pt/gedi/gp/likelihood"
	"github.com/iastro-pt/gedi/gp/mcmc"
)

// LogLikeReport is the JSON document printed by `gedi loglike`.
type LogLikeReport struct {
	Kernel        string    `json:"kernel"`
	Points        int       `json:"points"`
	Params        []float64 `json:"params"`
	LogLikelihood float64   `json:"loglike"`
	Gradient      []float64 `json:"gradient"` // d loglike / d log p, in params order
}

var loglikeCmd = &cobra.Command{
	Use:   "loglike",
	Short: "Evaluate the log-likelihood and its gradient for a run spec's kernel",
	Run: func(cmd *cobra.Command, args []string) {
		if configPath == "" {
			logrus.Fatalf("--config is required")
		}
		spec, err := config.LoadRunSpec(configPath)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		report, err := computeLogLike(spec)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		if err := writeJSON(os.Stdout, report); err != nil {
			logrus.Fatalf("%v", err)
		}
	},
}

// computeLogLike scores the spec's kernel, with the parameters written in its
// expression, on the spec's data.
func computeLogLike(spec *config.RunSpec) (*LogLikeReport, error) {
	k, err := spec.ParsedKernel()
	if err != nil {
		return nil, err
	}
	if err := spec.Data.Validate(); err != nil {
		return nil, err
	}
	data, err := spec.Dataset(mcmc.NewPartitionedRNG(mcmc.NewRunKey(spec.Seed)).ForData())
	if err != nil {
		return nil, err
	}

	var lik likelihood.Cholesky
	ll, err := lik.LogLikelihood(k, data)
	if err != nil {
		return nil, err
	}
	grad, err := lik.Gradient(k, data)
	if err != nil {
		return nil, err
	}
	return &LogLikeReport{
		Kernel:        k.String(),
		Points:        data.Len(),
		Params:        kernel.Flatten(k),
		LogLikelihood: ll,
		Gradient:      grad,
	}, nil
}

func init() {
	loglikeCmd.Flags().StringVar(&configPath, "config", "", "Path to the YAML run spec")

	rootCmd.AddCommand(loglikeCmd)
}
