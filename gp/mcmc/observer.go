package mcmc

// Iteration is the sampler state after one iteration has completed.
type Iteration struct {
	Chain         int // zero outside RunChains
	Index         int
	Retained      bool // i >= burnIn
	LogLikelihood float64
	Params        []float64 // current parameters, not shared with the sampler
	Accepted      []bool    // per parameter, whether this iteration moved it
}

// Observer receives every iteration of a run, in order, on the sampling
// goroutine. Params and Accepted are fresh slices owned by the receiver.
// Under RunChains one Observer sees all chains concurrently and must be safe
// for concurrent use.
type Observer interface {
	Observe(Iteration)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Iteration)

func (f ObserverFunc) Observe(it Iteration) { f(it) }
