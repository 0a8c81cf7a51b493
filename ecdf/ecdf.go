package ecdf

import (
	"fmt"

	"github.com/aouyang1/go-celebrimbor/calerrors"
	"gonum.org/v1/gonum/floats"
)

var (
	ErrNoSamples         = fmt.Errorf("%w: no observed samples", calerrors.InvalidParameters)
	ErrInvalidNumGenomes = fmt.Errorf("%w: number of genomes must be at least 1", calerrors.InvalidParameters)
	ErrCountOutOfRange   = fmt.Errorf("%w: observed count outside of [0, N]", calerrors.InvalidParameters)
	ErrInvalidComparator = fmt.Errorf("%w: unknown comparator", calerrors.InvalidParameters)
	ErrThresholdNotFound = fmt.Errorf("%w: curve never exceeds the error bound", calerrors.ThresholdNotFound)
)

// Comparator relates an observed count to a candidate threshold t
type Comparator int

const (
	Less Comparator = iota
	LessEqual
	Greater
	GreaterEqual
)

func (c Comparator) String() string {
	switch c {
	case Less:
		return "<"
	case LessEqual:
		return "<="
	case Greater:
		return ">"
	case GreaterEqual:
		return ">="
	}
	return fmt.Sprintf("comparator(%d)", int(c))
}

// Curve is the empirical probability, indexed by candidate threshold t = 0..N, that an
// observed count satisfies the comparator against t
type Curve []float64

// New builds the curve of the observed sample set over thresholds 0..n
func New(observed []int, n int, cmp Comparator) (Curve, error) {
	if len(observed) == 0 {
		return nil, ErrNoSamples
	}
	if n < 1 {
		return nil, ErrInvalidNumGenomes
	}
	switch cmp {
	case Less, LessEqual, Greater, GreaterEqual:
	default:
		return nil, fmt.Errorf("%w, %d", ErrInvalidComparator, int(cmp))
	}

	hist := make([]float64, n+1)
	for i, o := range observed {
		if o < 0 || o > n {
			return nil, fmt.Errorf("%w, draw %d has %d with N of %d", ErrCountOutOfRange, i, o, n)
		}
		hist[o]++
	}

	total := float64(len(observed))
	curve := make(Curve, n+1)
	var below float64 // number of draws with count < t
	for t := 0; t <= n; t++ {
		switch cmp {
		case Less:
			curve[t] = below
		case LessEqual:
			curve[t] = below + hist[t]
		case Greater:
			curve[t] = total - below - hist[t]
		case GreaterEqual:
			curve[t] = total - below
		}
		below += hist[t]
	}
	floats.Scale(1/total, curve)
	return curve, nil
}

// FirstExceeding returns the smallest threshold whose probability is strictly greater than
// bound
func (c Curve) FirstExceeding(bound float64) (int, error) {
	for t, p := range c {
		if p > bound {
			return t, nil
		}
	}
	return 0, fmt.Errorf("%w %g within [0, %d]", ErrThresholdNotFound, bound, len(c)-1)
}

// At returns the probability at threshold t, clamping t into the curve's range
func (c Curve) At(t int) float64 {
	if len(c) == 0 {
		return 0
	}
	if t < 0 {
		t = 0
	}
	if t >= len(c) {
		t = len(c) - 1
	}
	return c[t]
}
