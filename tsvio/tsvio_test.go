package tsvio

import (
	"bytes"
	"errors"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aouyang1/go-celebrimbor/ecdf"
	"github.com/aouyang1/go-celebrimbor/genes"
	"github.com/aouyang1/go-celebrimbor/labels"
	"github.com/aouyang1/go-celebrimbor/results"
)

func TestReadCompleteness(t *testing.T) {
	in := "completeness\tcontamination\n100\t0.1\n95.5 2\n\n50\t1\n"
	testData := []struct {
		column int

		expected    []float64
		expectedErr error
	}{
		{1, []float64{1, 0.955, 0.5}, nil},
		{2, []float64{0.001, 0.02, 0.01}, nil},
		{3, nil, ErrMissingColumn},
		{0, nil, ErrInvalidColumn},
	}
	for _, td := range testData {
		c, err := ReadCompleteness(strings.NewReader(in), td.column)
		if !errors.Is(err, td.expectedErr) {
			t.Errorf("expected %v, but got %v for column %d", td.expectedErr, err, td.column)
			continue
		}
		if len(c) != len(td.expected) {
			t.Errorf("expected %v, but got %v for column %d", td.expected, c, td.column)
			continue
		}
		for i := range c {
			if math.Abs(c[i]-td.expected[i]) > 1e-12 {
				t.Errorf("expected %v, but got %v for column %d", td.expected, c, td.column)
				break
			}
		}
	}

	if _, err := ReadCompleteness(strings.NewReader("c\nfull\n"), 1); !errors.Is(err, ErrInvalidPercent) {
		t.Fatalf("expected %v, but got %v", ErrInvalidPercent, err)
	}
}

func TestReadCounts(t *testing.T) {
	in := "gene\tg1\tg2\tg3\ndnaA\t1\t1\t1\ngyrB\t0\t2\t1\n\nrecA 0 0 0\n"
	table, err := ReadCounts(strings.NewReader(in))
	if err != nil {
		t.Fatal(err)
	}
	expected := []genes.Gene{
		{UID: 0, Name: "dnaA", Count: 3},
		{UID: 1, Name: "gyrB", Count: 3},
		{UID: 2, Name: "recA", Count: 0},
	}
	gs := table.Genes()
	if len(gs) != len(expected) {
		t.Fatalf("expected %d genes, but got %d", len(expected), len(gs))
	}
	for i := range expected {
		if gs[i] != expected[i] {
			t.Errorf("expected %+v, but got %+v", expected[i], gs[i])
		}
	}

	testData := []struct {
		in          string
		expectedErr error
	}{
		{"gene\tg1\ndnaA\n", ErrMissingCounts},
		{"gene\tg1\ndnaA\tx\n", ErrInvalidCount},
		{"gene\tg1\ndnaA\t-1\n", ErrInvalidCount},
		{"gene\tg1\ndnaA\t1\ndnaA\t2\n", genes.ErrDuplicateGene},
	}
	for _, td := range testData {
		if _, err := ReadCounts(strings.NewReader(td.in)); !errors.Is(err, td.expectedErr) {
			t.Errorf("expected %v, but got %v", td.expectedErr, err)
		}
	}
}

func TestLoadFiles(t *testing.T) {
	dir := t.TempDir()
	cPath := filepath.Join(dir, "completeness.tsv")
	mPath := filepath.Join(dir, "matrix.tsv")
	if err := os.WriteFile(cPath, []byte("c\n100\n80\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(mPath, []byte("gene\ta\tb\ndnaA\t1\t1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	c, err := LoadCompleteness(cPath, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(c) != 2 || c[1] != 0.8 {
		t.Fatalf("unexpected completeness %v", c)
	}
	table, err := LoadCounts(mPath)
	if err != nil {
		t.Fatal(err)
	}
	if table.Size() != 1 {
		t.Fatalf("expected 1 gene, but got %d", table.Size())
	}

	if _, err := LoadCompleteness(filepath.Join(dir, "missing"), 1); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected %v, but got %v", os.ErrNotExist, err)
	}
	if _, err := LoadCounts(filepath.Join(dir, "missing")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected %v, but got %v", os.ErrNotExist, err)
	}
}

func TestWriteLabels(t *testing.T) {
	table := genes.NewInMemory()
	for _, g := range []struct {
		name  string
		count int
	}{{"dnaA", 5}, {"gyrB", 3}, {"recA", 0}, {"polA", 4}} {
		if _, err := table.Index(g.name, g.count); err != nil {
			t.Fatal(err)
		}
	}
	idx := labels.NewIndex(4, 1)
	idx.LabelAll(table.Genes())

	var buf bytes.Buffer
	if err := WriteLabels(&buf, table, idx); err != nil {
		t.Fatal(err)
	}
	expected := "gene\tcount\tlabel\ndnaA\t5\tcore\ngyrB\t3\tmiddle\nrecA\t0\trare\npolA\t4\tcore\n"
	if buf.String() != expected {
		t.Fatalf("expected %q, but got %q", expected, buf.String())
	}
}

func TestWriteCurves(t *testing.T) {
	c := results.Curves{
		CoreAsNotCore: ecdf.Curve{0, 0.5},
		NotCoreAsCore: ecdf.Curve{1, 0.25},
		RareAsNotRare: ecdf.Curve{0.75, 0},
		NotRareAsRare: ecdf.Curve{0.125, 1},
	}
	path := filepath.Join(t.TempDir(), "curves.tsv")
	if err := CreateAndWrite(path, func(w io.Writer) error { return WriteCurves(w, c) }); err != nil {
		t.Fatal(err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	expected := "threshold\tcore_as_notcore\tnotcore_as_core\trare_as_notrare\tnotrare_as_rare\n0\t0\t1\t0.75\t0.125\n1\t0.5\t0.25\t0\t1\n"
	if string(b) != expected {
		t.Fatalf("expected %q, but got %q", expected, string(b))
	}
}
