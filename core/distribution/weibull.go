package distribution

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// ErrInvalidParameter is returned for non-positive or non-finite shape and
// scale parameters.
var ErrInvalidParameter = errors.New("invalid distribution parameter")

// DiscreteWeibull is the Weibull distribution restricted to the positive
// integers. Its survival function is S(k) = q^(k^beta) with
// q = exp(-(1/eta)^beta), which equals the continuous Weibull survival at k.
type DiscreteWeibull struct {
	Beta float64
	Eta  float64

	cont distuv.Weibull
}

// NewDiscreteWeibull validates the parameters and returns the distribution.
func NewDiscreteWeibull(beta, eta float64) (DiscreteWeibull, error) {
	if !positiveFinite(beta) || !positiveFinite(eta) {
		return DiscreteWeibull{}, fmt.Errorf("%w: beta=%v eta=%v", ErrInvalidParameter, beta, eta)
	}
	return DiscreteWeibull{
		Beta: beta,
		Eta:  eta,
		cont: distuv.Weibull{K: beta, Lambda: eta},
	}, nil
}

// Sample draws one duration by inverting the survival function:
// ceil((ln(1-u)/ln(q))^(1/beta)) for u uniform in [0,1). The result is at
// least 1.
func (d DiscreteWeibull) Sample(r *rand.Rand) int {
	x := math.Ceil(d.cont.Quantile(r.Float64()))
	switch {
	case !(x >= 1):
		return 1
	case x > math.MaxInt32:
		return math.MaxInt32
	}
	return int(x)
}

// Survival returns P(X > k).
func (d DiscreteWeibull) Survival(k int) float64 {
	if k <= 0 {
		return 1
	}
	return d.cont.Survival(float64(k))
}

// PMF returns P(X = k) = q^((k-1)^beta) - q^(k^beta).
func (d DiscreteWeibull) PMF(k int) float64 {
	if k < 1 {
		return 0
	}
	return d.Survival(k-1) - d.Survival(k)
}

// SampleDiscreteWeibull draws one sample from a discrete Weibull with the
// given shape and scale.
func SampleDiscreteWeibull(beta, eta float64, r *rand.Rand) (int, error) {
	d, err := NewDiscreteWeibull(beta, eta)
	if err != nil {
		return 0, err
	}
	return d.Sample(r), nil
}

// DiscreteWeibullPMF evaluates the probability mass at each of ks.
func DiscreteWeibullPMF(ks []int, beta, eta float64) ([]float64, error) {
	d, err := NewDiscreteWeibull(beta, eta)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(ks))
	for i, k := range ks {
		out[i] = d.PMF(k)
	}
	return out, nil
}

// HazardRate returns the continuous Weibull hazard (k/lambda)(t/lambda)^(k-1)
// at age t, or 0 for t <= 0. It is used as a daily failure probability and
// may exceed 1.
func HazardRate(t, k, lambda float64) float64 {
	if t <= 0 {
		return 0
	}
	return (k / lambda) * math.Pow(t/lambda, k-1)
}

func positiveFinite(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}
