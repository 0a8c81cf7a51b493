package stats

import (
	"gonum.org/v1/gonum/stat"
)

// Statistics summarizes the simulation behind a calibration run. This can help determine if
// the configured prior and number of samples resolve the tails of the observed counts well
// enough for the desired error bound.
type Statistics struct {
	NumGenomes       int        `json:"num_genomes"`
	MeanCompleteness float64    `json:"mean_completeness"`
	Scenarios        []Scenario `json:"scenarios"`
}

// Scenario describes the latent frequency draws of one scenario and the counts observed from
// them. A large gap between MeanPrior*NumGenomes and MeanObserved reflects how much the
// assembly incompleteness hides genes.
type Scenario struct {
	Name           string  `json:"name"`
	NumSamples     int     `json:"num_samples"`
	MeanPrior      float64 `json:"mean_prior"`
	StdDevPrior    float64 `json:"std_dev_prior"`
	MeanObserved   float64 `json:"mean_observed"`
	StdDevObserved float64 `json:"std_dev_observed"`
}

// New returns the statistics header for the completeness vector
func New(completeness []float64) *Statistics {
	return &Statistics{
		NumGenomes:       len(completeness),
		MeanCompleteness: stat.Mean(completeness, nil),
	}
}

// NewScenario summarizes a prior sample set and its paired observed sample set
func NewScenario(name string, priors []float64, observed []int) Scenario {
	obs := make([]float64, len(observed))
	for i, o := range observed {
		obs[i] = float64(o)
	}
	s := Scenario{Name: name, NumSamples: len(priors)}
	if len(priors) > 0 {
		s.MeanPrior = stat.Mean(priors, nil)
		s.MeanObserved = stat.Mean(obs, nil)
	}
	// the unbiased standard deviation needs at least two draws
	if len(priors) > 1 {
		s.StdDevPrior = stat.StdDev(priors, nil)
		s.StdDevObserved = stat.StdDev(obs, nil)
	}
	return s
}
