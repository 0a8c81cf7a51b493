package observe

import (
	"context"
	"fmt"
	"math"
	"math/rand"

	"github.com/aouyang1/go-celebrimbor/calerrors"
)

const (
	// number of draws between context checks
	checkEvery = 1024
)

var (
	ErrNoGenomes              = fmt.Errorf("%w: completeness vector is empty", calerrors.InvalidParameters)
	ErrInvalidCompleteness    = fmt.Errorf("%w: completeness must be between 0 and 1 inclusive", calerrors.InvalidParameters)
	ErrInvalidLatentFrequency = fmt.Errorf("%w: latent frequency must be between 0 and 1 inclusive", calerrors.InvalidParameters)
)

// Simulator draws observed presence counts of a gene with a given latent frequency across
// genomes of varying assembly completeness. Each genome is an independent bernoulli trial
// with success probability completeness * frequency, so a count is one poisson-binomial
// realization.
type Simulator struct {
	completeness []float64
}

// New validates and copies the completeness vector
func New(completeness []float64) (*Simulator, error) {
	if len(completeness) == 0 {
		return nil, ErrNoGenomes
	}
	c := make([]float64, len(completeness))
	for i, v := range completeness {
		if math.IsNaN(v) || v < 0 || v > 1 {
			return nil, fmt.Errorf("%w, genome %d has %g", ErrInvalidCompleteness, i, v)
		}
		c[i] = v
	}
	return &Simulator{completeness: c}, nil
}

// NumGenomes returns the number of genomes, N
func (s *Simulator) NumGenomes() int {
	return len(s.completeness)
}

// Observe returns the number of genomes in [0, N] the gene is detected in for one draw
func (s *Simulator) Observe(p float64, rng *rand.Rand) int {
	var cnt int
	for _, c := range s.completeness {
		if rng.Float64() <= c*p {
			cnt++
		}
	}
	return cnt
}

// ObserveAll returns one observed count per latent frequency, paired by index
func (s *Simulator) ObserveAll(ctx context.Context, priors []float64, rng *rand.Rand) ([]int, error) {
	out := make([]int, len(priors))
	for i, p := range priors {
		if i%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		if math.IsNaN(p) || p < 0 || p > 1 {
			return nil, fmt.Errorf("%w, draw %d has %g", ErrInvalidLatentFrequency, i, p)
		}
		out[i] = s.Observe(p, rng)
	}
	return out, nil
}
