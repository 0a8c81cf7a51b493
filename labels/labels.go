package labels

import (
	"runtime"
	"sync"

	"github.com/aouyang1/go-celebrimbor/bitmap"
	"github.com/aouyang1/go-celebrimbor/genes"
)

// Label is the pangenome class assigned to a gene
type Label string

const (
	Core   Label = "core"
	Middle Label = "middle"
	Rare   Label = "rare"
)

// Labels lists every label in output order
var Labels = []Label{Core, Middle, Rare}

// Assign labels an observed count. Core is checked before rare so that overlapping thresholds
// resolve toward core.
func Assign(count, coreThreshold, rareThreshold int) Label {
	if count >= coreThreshold {
		return Core
	}
	if count <= rareThreshold {
		return Rare
	}
	return Middle
}

// Index maps each label to a bitmap of the uids of the genes carrying it
type Index struct {
	CoreThreshold int
	RareThreshold int

	Table map[Label]*bitmap.Bitmap
}

func NewIndex(coreThreshold, rareThreshold int) *Index {
	idx := &Index{
		CoreThreshold: coreThreshold,
		RareThreshold: rareThreshold,
		Table:         make(map[Label]*bitmap.Bitmap, len(Labels)),
	}
	for _, l := range Labels {
		idx.Table[l] = bitmap.New()
	}
	return idx
}

// Label assigns and records the label of the gene
func (idx *Index) Label(g genes.Gene) Label {
	l := Assign(g.Count, idx.CoreThreshold, idx.RareThreshold)
	idx.Table[l].Add(g.UID)
	return l
}

// LabelAll labels every gene, splitting the genes across workers
func (idx *Index) LabelAll(gs []genes.Gene) {
	numWorkers := runtime.GOMAXPROCS(0)
	chunk := (len(gs) + numWorkers - 1) / numWorkers
	if chunk == 0 {
		return
	}

	var wg sync.WaitGroup
	for start := 0; start < len(gs); start += chunk {
		end := start + chunk
		if end > len(gs) {
			end = len(gs)
		}
		wg.Add(1)
		go func(part []genes.Gene) {
			defer wg.Done()
			for _, g := range part {
				idx.Label(g)
			}
		}(gs[start:end])
	}
	wg.Wait()
}

// Get returns the label recorded for the uid
func (idx *Index) Get(uid uint64) (Label, bool) {
	for _, l := range Labels {
		if idx.Table[l].Contains(uid) {
			return l, true
		}
	}
	return "", false
}

// Counts returns the number of genes recorded per label
func (idx *Index) Counts() map[Label]uint64 {
	out := make(map[Label]uint64, len(Labels))
	for _, l := range Labels {
		out[l] = idx.Table[l].Cardinality()
	}
	return out
}

// UIDs returns the uids carrying the label in ascending order
func (idx *Index) UIDs(l Label) []uint64 {
	rb, exists := idx.Table[l]
	if !exists {
		return nil
	}
	return rb.ToArray()
}
