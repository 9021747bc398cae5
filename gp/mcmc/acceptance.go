package mcmc

import (
	"fmt"
	"math"
)

// Acceptance selects how a proposal is accepted or rejected.
type Acceptance int

const (
	// PerParameter decides every parameter independently against the same
	// uniform draw, weighting each likelihood by the parameter value.
	PerParameter Acceptance = iota
	// Joint is the textbook Metropolis test: the whole proposal moves iff
	// u < exp(guessLL - currentLL).
	Joint
)

// degenerateWeight is the prior weight below which a proposal is accepted
// unconditionally.
const degenerateWeight = 1e-300

var acceptanceNames = map[Acceptance]string{
	PerParameter: "per-parameter",
	Joint:        "joint",
}

func (a Acceptance) String() string {
	if name, ok := acceptanceNames[a]; ok {
		return name
	}
	return fmt.Sprintf("Acceptance(%d)", int(a))
}

// ParseAcceptance maps "per-parameter" or "joint" to an Acceptance. The empty
// string selects PerParameter.
func ParseAcceptance(s string) (Acceptance, error) {
	if s == "" {
		return PerParameter, nil
	}
	for a, name := range acceptanceNames {
		if name == s {
			return a, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown acceptance policy %q", ErrInvalidConfig, s)
}

// accept updates current in place from guess and records in accepted which
// entries moved.
func (a Acceptance) accept(u, currentLL, guessLL float64, current, guess []float64, accepted []bool) {
	switch a {
	case Joint:
		move := u < math.Min(1, math.Exp(guessLL-currentLL))
		for j := range current {
			accepted[j] = move
			if move {
				current[j] = guess[j]
			}
		}
	default:
		priorLike, guessLike := math.Exp(currentLL), math.Exp(guessLL)
		for j := range current {
			prior := priorLike * current[j]
			if prior < degenerateWeight {
				current[j] = guess[j]
				accepted[j] = true
				continue
			}
			ratio := guessLike * guess[j] / prior
			// NaN ratios compare false and reject.
			accepted[j] = u < math.Min(1, ratio)
			if accepted[j] {
				current[j] = guess[j]
			}
		}
	}
}
