package distribution

import (
	"fmt"
	"math/rand/v2"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/floats/scalar"
)

// Tolerance is the accepted deviation of a probability table from summing
// to one.
const Tolerance = 1e-9

// Table is a static discrete distribution over integer values sampled by
// inverting its cumulative distribution.
type Table struct {
	values []int
	cdf    []float64
}

// NewTable validates that probs is a distribution over values.
func NewTable(values []int, probs []float64) (Table, error) {
	if len(values) == 0 {
		return Table{}, fmt.Errorf("%w: empty table", ErrInvalidParameter)
	}
	if len(values) != len(probs) {
		return Table{}, fmt.Errorf("%w: %d values for %d probabilities", ErrInvalidParameter, len(values), len(probs))
	}
	for i, p := range probs {
		if !(p >= 0 && p <= 1) {
			return Table{}, fmt.Errorf("%w: probability[%d]=%v", ErrInvalidParameter, i, p)
		}
	}
	if sum := floats.Sum(probs); !scalar.EqualWithinAbsOrRel(sum, 1, Tolerance, Tolerance) {
		return Table{}, fmt.Errorf("%w: probabilities sum to %v", ErrInvalidParameter, sum)
	}
	t := Table{
		values: append([]int(nil), values...),
		cdf:    floats.CumSum(make([]float64, len(probs)), probs),
	}
	return t, nil
}

// Sample returns the first value whose cumulative probability exceeds a
// uniform draw. Rounding slack at the top of the table maps to the last
// value.
func (t Table) Sample(r *rand.Rand) int {
	u := r.Float64()
	i := sort.Search(len(t.cdf), func(i int) bool { return t.cdf[i] > u })
	if i == len(t.cdf) {
		i = len(t.cdf) - 1
	}
	return t.values[i]
}

// Len returns the number of entries.
func (t Table) Len() int { return len(t.values) }

// Max returns the largest value the table can produce.
func (t Table) Max() int {
	m := 0
	for i, v := range t.values {
		if i == 0 || v > m {
			m = v
		}
	}
	return m
}
