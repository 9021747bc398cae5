// Package trace summarizes and exports sampler traces.
package trace

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/iastro-pt/gedi/gp/mcmc"
)

// ParamSummary aggregates the retained trace of one flattened parameter.
type ParamSummary struct {
	Index          int     `json:"index"`
	Mean           float64 `json:"mean"`
	StdDev         float64 `json:"std_dev"`
	Min            float64 `json:"min"`
	Max            float64 `json:"max"`
	AcceptanceRate float64 `json:"acceptance_rate"` // over all iterations, burn-in included
}

// Summary aggregates a sampler Result.
type Summary struct {
	Kernel             string         `json:"kernel"`
	Iterations         int            `json:"iterations"`
	Retained           int            `json:"retained"`
	FinalLogLikelihood float64        `json:"final_loglike"`
	MeanLogLikelihood  float64        `json:"mean_loglike"`
	MaxLogLikelihood   float64        `json:"max_loglike"`
	Params             []ParamSummary `json:"params"`
}

// Summarize computes aggregate statistics from a Result.
// Safe for nil results and empty traces (returns zero-value fields).
func Summarize(res *mcmc.Result) *Summary {
	summary := &Summary{}
	if res == nil {
		return summary
	}
	if res.Kernel != nil {
		summary.Kernel = res.Kernel.String()
	}
	summary.Iterations = res.Iterations
	summary.Retained = len(res.TraceLogLikelihood)
	summary.FinalLogLikelihood = res.LogLikelihood

	if summary.Retained > 0 {
		summary.MeanLogLikelihood = stat.Mean(res.TraceLogLikelihood, nil)
		summary.MaxLogLikelihood = floats.Max(res.TraceLogLikelihood)
	}

	summary.Params = make([]ParamSummary, len(res.TraceParams))
	for j, tr := range res.TraceParams {
		ps := ParamSummary{Index: j}
		if len(tr) > 0 {
			ps.Mean = stat.Mean(tr, nil)
			if len(tr) > 1 {
				ps.StdDev = stat.StdDev(tr, nil)
			}
			ps.Min = floats.Min(tr)
			ps.Max = floats.Max(tr)
		}
		if j < len(res.Accepted) && res.Iterations > 0 {
			ps.AcceptanceRate = float64(res.Accepted[j]) / float64(res.Iterations)
		}
		summary.Params[j] = ps
	}
	return summary
}

// GelmanRubin returns the potential scale reduction factor R̂ of every
// parameter across independent chains. Values near 1 indicate the chains
// agree. Each entry is NaN unless there are at least two chains, each with
// at least two retained samples of the same length.
func GelmanRubin(results []*mcmc.Result) []float64 {
	if len(results) == 0 || results[0] == nil {
		return nil
	}
	nParams := len(results[0].TraceParams)
	rhat := make([]float64, nParams)
	for j := range rhat {
		rhat[j] = math.NaN()
	}
	m := len(results)
	if m < 2 {
		return rhat
	}
	n := len(results[0].TraceLogLikelihood)
	for _, r := range results {
		if r == nil || len(r.TraceParams) != nParams || len(r.TraceLogLikelihood) != n {
			return rhat
		}
	}
	if n < 2 {
		return rhat
	}

	means := make([]float64, m)
	vars := make([]float64, m)
	for j := range rhat {
		for c, r := range results {
			means[c], vars[c] = stat.MeanVariance(r.TraceParams[j], nil)
		}
		w := stat.Mean(vars, nil)
		b := float64(n) * stat.Variance(means, nil)
		varPlus := float64(n-1)/float64(n)*w + b/float64(n)
		rhat[j] = math.Sqrt(varPlus / w)
	}
	return rhat
}
