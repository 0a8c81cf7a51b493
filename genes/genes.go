package genes

import (
	"errors"
	"fmt"
)

var (
	ErrDuplicateGene = errors.New("gene is already indexed")
	ErrNegativeCount = errors.New("gene count must not be negative")
	ErrNoName        = errors.New("gene name must not be empty")
)

// Gene is the observed presence count of one gene across all genomes
type Gene struct {
	UID   uint64 `json:"uid"`
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// InMemory keeps genes in the order they were indexed
type InMemory struct {
	genes  []Gene
	byName map[string]uint64
}

func NewInMemory() *InMemory {
	return &InMemory{byName: make(map[string]uint64)}
}

func (i *InMemory) Size() int {
	return len(i.genes)
}

// Index stores the gene and returns its uid. Returns an error if a gene with the same name
// is already present.
func (i *InMemory) Index(name string, count int) (uint64, error) {
	if name == "" {
		return 0, ErrNoName
	}
	if count < 0 {
		return 0, fmt.Errorf("%w, %s has %d", ErrNegativeCount, name, count)
	}
	if _, exists := i.byName[name]; exists {
		return 0, fmt.Errorf("%w, %s", ErrDuplicateGene, name)
	}
	uid := uint64(len(i.genes))
	i.genes = append(i.genes, Gene{UID: uid, Name: name, Count: count})
	i.byName[name] = uid
	return uid, nil
}

func (i *InMemory) Get(uid uint64) (Gene, bool) {
	if uid >= uint64(len(i.genes)) {
		return Gene{}, false
	}
	return i.genes[uid], true
}

func (i *InMemory) Lookup(name string) (Gene, bool) {
	uid, exists := i.byName[name]
	if !exists {
		return Gene{}, false
	}
	return i.genes[uid], true
}

// Genes returns the indexed genes in insertion order
func (i *InMemory) Genes() []Gene {
	out := make([]Gene, len(i.genes))
	copy(out, i.genes)
	return out
}
