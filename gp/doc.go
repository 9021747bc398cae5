// Package gp models noisy time series with Gaussian Process regression whose
// covariance is an algebraic composition of named kernel primitives.
//
// # Reading Guide
//
//   - dataset.go: the (x, y, yerr) observations every other package consumes
//   - kernel/: the kernel tree (primitives, Sum, Product), flattening and Rebuild
//   - mcmc/: the random-walk sampler that rebuilds a kernel from a flat
//     parameter vector at every iteration
//
// # Architecture
//
// The gp package only defines the dataset; implementations live in
// sub-packages:
//   - gp/kernel/: kernel algebra, lag and covariance matrices, expression parser
//   - gp/likelihood/: Cholesky log marginal likelihood, gradient and prediction
//   - gp/mcmc/: sampler, acceptance policies, partitioned RNG, parallel chains
//   - gp/trace/: summaries and CSV export of sampler traces
//   - gp/metrics/: Prometheus observer for sampler runs
//   - gp/config/: YAML run specification
//
// The sampler consumes the likelihood through the small mcmc.Likelihood
// interface, so any evaluator with the same contract can replace
// likelihood.Cholesky.
package gp
