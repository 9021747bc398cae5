// Package testutil provides shared test infrastructure for the gp packages:
// float assertions and reference datasets.
package testutil

import (
	"math"
	"math/rand"
	"testing"

	"github.com/iastro-pt/gedi/gp"
)

// AssertFloat64Equal compares two float64 values with relative tolerance.
func AssertFloat64Equal(t *testing.T, name string, want, got, relTol float64) {
	t.Helper()
	if want == got {
		return
	}
	diff := math.Abs(want - got)
	maxVal := math.Max(math.Abs(want), math.Abs(got))
	if diff/maxVal > relTol {
		t.Errorf("%s: got %v, want %v (diff=%v, relDiff=%v)", name, got, want, diff, diff/maxVal)
	}
}

// AssertClose compares two float64 values with a mixed absolute/relative
// tolerance, for values that may legitimately be zero.
func AssertClose(t *testing.T, name string, want, got, tol float64) {
	t.Helper()
	if math.Abs(want-got) > tol*(1+math.Abs(want)) {
		t.Errorf("%s: got %v, want %v (diff=%v)", name, got, want, math.Abs(want-got))
	}
}

// SineDataset returns the reference dataset used across tests: n noisy
// samples of sin(x) drawn with a fixed seed.
func SineDataset(n int) gp.Dataset {
	return gp.SineDataset(rand.New(rand.NewSource(12345)), n, 0.2)
}
