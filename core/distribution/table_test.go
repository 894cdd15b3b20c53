package distribution

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTableInvalid(t *testing.T) {
	cases := []struct {
		name   string
		values []int
		probs  []float64
	}{
		{"empty", nil, nil},
		{"length", []int{1, 2}, []float64{1}},
		{"sum", []int{1, 2}, []float64{0.5, 0.4}},
		{"negative", []int{1, 2}, []float64{1.2, -0.2}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewTable(tc.values, tc.probs)
			if !errors.Is(err, ErrInvalidParameter) {
				t.Fatalf("expected ErrInvalidParameter got %v", err)
			}
		})
	}
}

func TestTableSampleFrequencies(t *testing.T) {
	tab, err := NewTable([]int{1, 2, 3}, []float64{0.7, 0.25, 0.05})
	require.NoError(t, err)
	r := newRand()
	const n = 100000
	counts := map[int]int{}
	for i := 0; i < n; i++ {
		counts[tab.Sample(r)]++
	}
	assert.InDelta(t, 0.70, float64(counts[1])/n, 0.01)
	assert.InDelta(t, 0.25, float64(counts[2])/n, 0.01)
	assert.InDelta(t, 0.05, float64(counts[3])/n, 0.01)
	assert.Equal(t, 3, tab.Max())
	assert.Equal(t, 3, tab.Len())
}

func TestTableZeroProbabilityNeverDrawn(t *testing.T) {
	tab, err := NewTable([]int{5, 0}, []float64{0, 1})
	require.NoError(t, err)
	r := newRand()
	for i := 0; i < 10000; i++ {
		if v := tab.Sample(r); v != 0 {
			t.Fatalf("drew zero-probability value %d", v)
		}
	}
}

func TestTableRoundingSlack(t *testing.T) {
	// 0.1+0.2+0.7 accumulates to slightly less than 1 in floating point.
	tab, err := NewTable([]int{1, 2, 3}, []float64{0.1, 0.2, 0.7})
	require.NoError(t, err)
	r := newRand()
	for i := 0; i < 10000; i++ {
		v := tab.Sample(r)
		if v < 1 || v > 3 {
			t.Fatalf("unexpected value %d", v)
		}
	}
}
