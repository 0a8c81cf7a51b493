package bitmap

import (
	"sync"

	"github.com/RoaringBitmap/roaring/roaring64"
)

// Bitmap is a go-routine safe wrapping of the roaring bitmap
type Bitmap struct {
	sync.Mutex

	Rb *roaring64.Bitmap
}

func New() *Bitmap {
	return &Bitmap{Rb: roaring64.New()}
}

func (b *Bitmap) Add(uid uint64) {
	b.Lock()
	defer b.Unlock()
	b.Rb.Add(uid)
}

func (b *Bitmap) Contains(uid uint64) bool {
	b.Lock()
	defer b.Unlock()
	return b.Rb.Contains(uid)
}

func (b *Bitmap) CheckedRemove(uid uint64) bool {
	b.Lock()
	defer b.Unlock()
	return b.Rb.CheckedRemove(uid)
}

func (b *Bitmap) Cardinality() uint64 {
	b.Lock()
	defer b.Unlock()
	return b.Rb.GetCardinality()
}

// ToArray returns the uids in ascending order
func (b *Bitmap) ToArray() []uint64 {
	b.Lock()
	defer b.Unlock()
	return b.Rb.ToArray()
}

func (b *Bitmap) IsEmpty() bool {
	b.Lock()
	defer b.Unlock()
	return b.Rb.IsEmpty()
}
