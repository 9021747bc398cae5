// Package metrics exports sampler progress as Prometheus metrics.
package metrics

import (
	"fmt"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/iastro-pt/gedi/gp/mcmc"
)

const (
	namespace = "gedi"
	subsystem = "mcmc"
)

var _ mcmc.Observer = (*Collector)(nil)

// Collector is an mcmc.Observer that records every chain of a run, labelled
// by chain index. Safe for concurrent use, so one Collector can observe all
// chains of mcmc.RunChains.
type Collector struct {
	iterations *prometheus.CounterVec
	retained   *prometheus.CounterVec
	accepted   *prometheus.CounterVec
	loglike    *prometheus.GaugeVec
	params     *prometheus.GaugeVec
}

// NewCollector registers the sampler metrics on reg. Like promauto, it
// panics if they are already registered there.
func NewCollector(reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)
	return &Collector{
		iterations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "iterations_total",
			Help:      "Sampler iterations completed, burn-in included",
		}, []string{"chain"}),
		retained: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "retained_total",
			Help:      "Sampler iterations recorded in the trace",
		}, []string{"chain"}),
		accepted: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "accepted_total",
			Help:      "Accepted proposals by flattened parameter index",
		}, []string{"chain", "param"}),
		loglike: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "loglike",
			Help:      "Log-likelihood of the current chain position",
		}, []string{"chain"}),
		params: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "param",
			Help:      "Current value by flattened parameter index",
		}, []string{"chain", "param"}),
	}
}

// Observe implements mcmc.Observer.
func (c *Collector) Observe(it mcmc.Iteration) {
	chain := strconv.Itoa(it.Chain)
	c.iterations.WithLabelValues(chain).Inc()
	if it.Retained {
		c.retained.WithLabelValues(chain).Inc()
	}
	c.loglike.WithLabelValues(chain).Set(it.LogLikelihood)
	for j, v := range it.Params {
		idx := strconv.Itoa(j)
		c.params.WithLabelValues(chain, idx).Set(v)
		if j < len(it.Accepted) && it.Accepted[j] {
			c.accepted.WithLabelValues(chain, idx).Inc()
		}
	}
}

// Fanout forwards every iteration to each observer in order. Nil entries are
// skipped.
type Fanout []mcmc.Observer

func (f Fanout) Observe(it mcmc.Iteration) {
	for _, o := range f {
		if o != nil {
			o.Observe(it)
		}
	}
}

// WriteTextfile dumps everything gathered by g to path in the Prometheus text
// exposition format, for node_exporter's textfile collector.
func WriteTextfile(g prometheus.Gatherer, path string) error {
	if err := prometheus.WriteToTextfile(path, g); err != nil {
		return fmt.Errorf("writing metrics to %s: %w", path, err)
	}
	return nil
}
