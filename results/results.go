package results

import (
	"fmt"

	"github.com/aouyang1/go-celebrimbor/calerrors"
	"github.com/aouyang1/go-celebrimbor/ecdf"
	"github.com/aouyang1/go-celebrimbor/stats"
)

// Curves holds the four misclassification curves, each indexed by candidate threshold
type Curves struct {
	CoreAsNotCore ecdf.Curve `json:"core_as_notcore"` // P(core count < t)
	NotCoreAsCore ecdf.Curve `json:"notcore_as_core"` // P(not-core count >= t)
	RareAsNotRare ecdf.Curve `json:"rare_as_notrare"` // P(rare count > t)
	NotRareAsRare ecdf.Curve `json:"notrare_as_rare"` // P(not-rare count <= t)
}

// Thresholds is the outcome of a calibration run. Genes observed in at least Core genomes
// are labeled core and genes observed in at most Rare genomes are labeled rare.
type Thresholds struct {
	Core       int               `json:"core_threshold"`
	Rare       int               `json:"rare_threshold"`
	NumGenomes int               `json:"num_genomes"`
	ErrorBound float64           `json:"error_bound"`
	Curves     Curves            `json:"curves"`
	Stats      *stats.Statistics `json:"stats,omitempty"`
}

// Validate returns a calibration anomaly unless 0 <= Rare < Core <= NumGenomes
func (t *Thresholds) Validate() error {
	if t.Rare < 0 || t.Core > t.NumGenomes || t.Rare >= t.Core {
		return fmt.Errorf("%w: expected 0 <= rare < core <= %d, but got rare %d and core %d",
			calerrors.ThresholdAnomaly, t.NumGenomes, t.Rare, t.Core)
	}
	return nil
}

// CoreFrequency returns the core threshold as a percentage of genomes
func (t *Thresholds) CoreFrequency() float64 {
	return percent(t.Core, t.NumGenomes)
}

// RareFrequency returns the rare threshold as a percentage of genomes
func (t *Thresholds) RareFrequency() float64 {
	return percent(t.Rare, t.NumGenomes)
}

// Summary returns the human readable description of both thresholds
func (t *Thresholds) Summary() []string {
	return []string{
		fmt.Sprintf("Core threshold: >= %d observations or >= %.2f%% frequency", t.Core, t.CoreFrequency()),
		fmt.Sprintf("Rare threshold: <= %d observations or <= %.2f%% frequency", t.Rare, t.RareFrequency()),
	}
}

// Errors returns the empirical misclassification rates at the selected thresholds
func (t *Thresholds) Errors() map[string]float64 {
	return map[string]float64{
		"core_as_notcore": t.Curves.CoreAsNotCore.At(t.Core),
		"notcore_as_core": t.Curves.NotCoreAsCore.At(t.Core),
		"rare_as_notrare": t.Curves.RareAsNotRare.At(t.Rare),
		"notrare_as_rare": t.Curves.NotRareAsRare.At(t.Rare),
	}
}

func percent(cnt, total int) float64 {
	if total == 0 {
		return 0
	}
	return 100 * float64(cnt) / float64(total)
}
