package gp

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand"
	"os"
	"sort"
	"strconv"

	"gonum.org/v1/gonum/floats"
)

// ErrInvalidDataset is returned when observations are empty, misaligned or
// non-finite.
var ErrInvalidDataset = errors.New("invalid dataset")

// Dataset holds the observations a Gaussian Process is conditioned on.
// X is the independent variable (usually time), Y the measurements and YErr
// the per-measurement standard error.
type Dataset struct {
	X    []float64
	Y    []float64
	YErr []float64
}

// NewDataset validates and returns a Dataset. The slices are not copied.
func NewDataset(x, y, yerr []float64) (Dataset, error) {
	d := Dataset{X: x, Y: y, YErr: yerr}
	if err := d.Validate(); err != nil {
		return Dataset{}, err
	}
	return d, nil
}

// Len returns the number of observations.
func (d Dataset) Len() int {
	return len(d.X)
}

// Validate checks that the three series are non-empty, equally long and finite.
func (d Dataset) Validate() error {
	if len(d.X) == 0 {
		return fmt.Errorf("%w: no observations", ErrInvalidDataset)
	}
	if len(d.Y) != len(d.X) || len(d.YErr) != len(d.X) {
		return fmt.Errorf("%w: len(x)=%d, len(y)=%d, len(yerr)=%d",
			ErrInvalidDataset, len(d.X), len(d.Y), len(d.YErr))
	}
	for name, s := range map[string][]float64{"x": d.X, "y": d.Y, "yerr": d.YErr} {
		if floats.HasNaN(s) || hasInf(s) {
			return fmt.Errorf("%w: %s contains non-finite values", ErrInvalidDataset, name)
		}
	}
	return nil
}

func hasInf(s []float64) bool {
	for _, v := range s {
		if math.IsInf(v, 0) {
			return true
		}
	}
	return false
}

// SineDataset draws n noisy samples of sin(x) on [0, 10): x is sorted,
// yerr is constant and y = sin(x) + yerr*N(0, 1).
func SineDataset(rng *rand.Rand, n int, noise float64) Dataset {
	x := make([]float64, n)
	for i := range x {
		x[i] = 10 * rng.Float64()
	}
	sort.Float64s(x)

	yerr := make([]float64, n)
	floats.AddConst(noise, yerr)

	y := make([]float64, n)
	for i := range y {
		y[i] = math.Sin(x[i]) + yerr[i]*rng.NormFloat64()
	}
	return Dataset{X: x, Y: y, YErr: yerr}
}

// LoadCSV reads a dataset from a CSV file with a header row followed by
// x,y,yerr records.
func LoadCSV(path string) (Dataset, error) {
	file, err := os.Open(path)
	if err != nil {
		return Dataset{}, fmt.Errorf("opening dataset: %w", err)
	}
	defer file.Close()
	return ReadCSV(file)
}

// ReadCSV parses x,y,yerr records after a header row.
func ReadCSV(r io.Reader) (Dataset, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 3
	reader.TrimLeadingSpace = true

	// Skip header row
	if _, err := reader.Read(); err != nil {
		return Dataset{}, fmt.Errorf("reading dataset header: %w", err)
	}

	var d Dataset
	row := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Dataset{}, fmt.Errorf("reading dataset at row %d: %w", row, err)
		}
		vals := make([]float64, 3)
		for i, field := range record {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return Dataset{}, fmt.Errorf("invalid value %q at row %d: %w", field, row, err)
			}
			vals[i] = v
		}
		d.X = append(d.X, vals[0])
		d.Y = append(d.Y, vals[1])
		d.YErr = append(d.YErr, vals[2])
		row++
	}
	if err := d.Validate(); err != nil {
		return Dataset{}, err
	}
	return d, nil
}
