package distribution

import (
	"errors"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

func newRand() *rand.Rand { return rand.New(rand.NewPCG(1, 2)) }

func TestNewDiscreteWeibullInvalid(t *testing.T) {
	for _, p := range [][2]float64{{0, 1}, {1, 0}, {-1, 2}, {2, math.Inf(1)}, {math.NaN(), 1}} {
		_, err := NewDiscreteWeibull(p[0], p[1])
		if !errors.Is(err, ErrInvalidParameter) {
			t.Fatalf("beta=%v eta=%v: expected ErrInvalidParameter got %v", p[0], p[1], err)
		}
	}
	_, err := SampleDiscreteWeibull(0, 1, newRand())
	assert.ErrorIs(t, err, ErrInvalidParameter)
	_, err = DiscreteWeibullPMF([]int{1, 2}, 1, -1)
	assert.ErrorIs(t, err, ErrInvalidParameter)
}

func TestSampleAtLeastOne(t *testing.T) {
	r := newRand()
	for _, p := range [][2]float64{{3, 2.24}, {0.5, 0.1}, {4, 1.1}, {1, 50}} {
		d, err := NewDiscreteWeibull(p[0], p[1])
		require.NoError(t, err)
		for i := 0; i < 5000; i++ {
			if s := d.Sample(r); s < 1 {
				t.Fatalf("sample %d below 1 for %v", s, p)
			}
		}
	}
}

func TestSampleMatchesPMF(t *testing.T) {
	const n = 200000
	beta := 3.0
	eta := 2 / math.Gamma(1+1/beta)
	d, err := NewDiscreteWeibull(beta, eta)
	require.NoError(t, err)

	r := newRand()
	counts := make(map[int]int)
	samples := make([]float64, n)
	for i := range samples {
		s := d.Sample(r)
		counts[s]++
		samples[i] = float64(s)
	}

	for k := 1; k <= 8; k++ {
		empirical := float64(counts[k]) / n
		assert.InDelta(t, d.PMF(k), empirical, 0.01, "k=%d", k)
	}

	// E[X] = sum_{k>=0} S(k) for a distribution on the positive integers.
	want := 0.0
	for k := 0; k < 200; k++ {
		want += d.Survival(k)
	}
	assert.InDelta(t, want, stat.Mean(samples, nil), 0.02)
}

func TestPMFSumsToOne(t *testing.T) {
	ks := make([]int, 100)
	for i := range ks {
		ks[i] = i + 1
	}
	pmf, err := DiscreteWeibullPMF(ks, 4, 1.1)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, floats.Sum(pmf), 1e-9)
	for _, p := range pmf {
		assert.GreaterOrEqual(t, p, 0.0)
	}
}

func TestPMFClosedForm(t *testing.T) {
	beta, eta := 2.0, 3.0
	q := math.Exp(-math.Pow(1/eta, beta))
	pmf, err := DiscreteWeibullPMF([]int{1, 2, 3}, beta, eta)
	require.NoError(t, err)
	for i, k := range []float64{1, 2, 3} {
		want := math.Pow(q, math.Pow(k-1, beta)) - math.Pow(q, math.Pow(k, beta))
		assert.InDelta(t, want, pmf[i], 1e-12)
	}
}

func TestHazardRateZeroAge(t *testing.T) {
	for _, k := range []float64{0.5, 1, 1.5, 3} {
		if h := HazardRate(0, k, 2); h != 0 {
			t.Fatalf("k=%v: expected 0 got %v", k, h)
		}
		if h := HazardRate(-3, k, 2); h != 0 {
			t.Fatalf("k=%v: expected 0 for negative age got %v", k, h)
		}
	}
}

func TestHazardRateShape(t *testing.T) {
	lambda := 10.0
	for age := 1.0; age < 30; age++ {
		inc0, inc1 := HazardRate(age, 1.5, lambda), HazardRate(age+1, 1.5, lambda)
		if !(inc1 > inc0) {
			t.Fatalf("k>1 not increasing at %v: %v -> %v", age, inc0, inc1)
		}
		c0, c1 := HazardRate(age, 1, lambda), HazardRate(age+1, 1, lambda)
		if c0 != c1 || c0 != 1/lambda {
			t.Fatalf("k=1 not constant at %v: %v -> %v", age, c0, c1)
		}
		dec0, dec1 := HazardRate(age, 0.7, lambda), HazardRate(age+1, 0.7, lambda)
		if !(dec1 < dec0) {
			t.Fatalf("k<1 not decreasing at %v: %v -> %v", age, dec0, dec1)
		}
	}
}

func TestHazardRateCanExceedOne(t *testing.T) {
	if h := HazardRate(30, 3, 1.2); h <= 1 {
		t.Fatalf("expected hazard above 1 got %v", h)
	}
}
