package genes

import (
	"errors"
	"testing"
)

func TestIndex(t *testing.T) {
	g := NewInMemory()

	testData := []struct {
		name  string
		count int

		expectedUID uint64
		expectedErr error
	}{
		{"dnaA", 10, 0, nil},
		{"gyrB", 3, 1, nil},
		{"dnaA", 4, 0, ErrDuplicateGene},
		{"", 4, 0, ErrNoName},
		{"recA", -1, 0, ErrNegativeCount},
		{"recA", 0, 2, nil},
	}
	for _, td := range testData {
		uid, err := g.Index(td.name, td.count)
		if !errors.Is(err, td.expectedErr) {
			t.Errorf("expected %v, but got %v for %s", td.expectedErr, err, td.name)
			continue
		}
		if err == nil && uid != td.expectedUID {
			t.Errorf("expected uid %d, but got %d for %s", td.expectedUID, uid, td.name)
		}
	}
	if g.Size() != 3 {
		t.Fatalf("expected 3 genes, but got %d", g.Size())
	}

	gene, exists := g.Lookup("gyrB")
	if !exists || gene.UID != 1 || gene.Count != 3 {
		t.Fatalf("unexpected lookup result %+v, %t", gene, exists)
	}
	if _, exists := g.Lookup("polA"); exists {
		t.Fatal("expected missing gene")
	}
	if _, exists := g.Get(3); exists {
		t.Fatal("expected missing uid")
	}

	all := g.Genes()
	expected := []string{"dnaA", "gyrB", "recA"}
	for i, name := range expected {
		if all[i].Name != name {
			t.Errorf("expected %s at %d, but got %s", name, i, all[i].Name)
		}
	}
}
