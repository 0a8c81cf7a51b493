package tsvio

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/aouyang1/go-celebrimbor/genes"
	"github.com/aouyang1/go-celebrimbor/labels"
	"github.com/aouyang1/go-celebrimbor/results"
)

const maxLineSize = 16 * 1024 * 1024

var (
	ErrInvalidColumn  = errors.New("column must be at least 1")
	ErrMissingColumn  = errors.New("row is missing the requested column")
	ErrMissingCounts  = errors.New("row has a gene name but no counts")
	ErrInvalidCount   = errors.New("count must be a non-negative integer")
	ErrInvalidPercent = errors.New("completeness must be a number")
)

func newScanner(r io.Reader) *bufio.Scanner {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	return sc
}

// ReadCompleteness reads the whitespace delimited completeness table. The header line is
// skipped and the percentage in the 1-based column is returned as a fraction.
func ReadCompleteness(r io.Reader, column int) ([]float64, error) {
	if column < 1 {
		return nil, fmt.Errorf("%w, got %d", ErrInvalidColumn, column)
	}
	var out []float64
	sc := newScanner(r)
	line := 0
	for sc.Scan() {
		line++
		if line == 1 {
			continue
		}
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		if len(fields) < column {
			return nil, fmt.Errorf("line %d: %w %d", line, ErrMissingColumn, column)
		}
		v, err := strconv.ParseFloat(fields[column-1], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w, got %q", line, ErrInvalidPercent, fields[column-1])
		}
		out = append(out, v/100)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read completeness: %w", err)
	}
	return out, nil
}

// LoadCompleteness reads the completeness table at path
func LoadCompleteness(path string, column int) ([]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open completeness file: %w", err)
	}
	defer f.Close()

	c, err := ReadCompleteness(f, column)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// ReadCounts reads the whitespace delimited gene count matrix. The header line is skipped,
// the first field of each row names the gene and the remaining fields are summed.
func ReadCounts(r io.Reader) (*genes.InMemory, error) {
	table := genes.NewInMemory()
	sc := newScanner(r)
	line := 0
	for sc.Scan() {
		line++
		if line == 1 {
			continue
		}
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		if len(fields) == 1 {
			return nil, fmt.Errorf("line %d: %w, %s", line, ErrMissingCounts, fields[0])
		}
		var total int
		for _, f := range fields[1:] {
			cnt, err := strconv.Atoi(f)
			if err != nil || cnt < 0 {
				return nil, fmt.Errorf("line %d: %w, got %q", line, ErrInvalidCount, f)
			}
			total += cnt
		}
		if _, err := table.Index(fields[0], total); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read counts: %w", err)
	}
	return table, nil
}

// LoadCounts reads the gene count matrix at path
func LoadCounts(path string) (*genes.InMemory, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open counts file: %w", err)
	}
	defer f.Close()

	table, err := ReadCounts(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return table, nil
}

// WriteLabels writes one gene, count, label row per gene in the table's order
func WriteLabels(w io.Writer, table *genes.InMemory, idx *labels.Index) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintln(bw, "gene\tcount\tlabel"); err != nil {
		return err
	}
	for _, g := range table.Genes() {
		l, exists := idx.Get(g.UID)
		if !exists {
			l = labels.Assign(g.Count, idx.CoreThreshold, idx.RareThreshold)
		}
		if _, err := fmt.Fprintf(bw, "%s\t%d\t%s\n", g.Name, g.Count, l); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteCurves writes the four misclassification curves, one row per candidate threshold
func WriteCurves(w io.Writer, c results.Curves) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintln(bw, "threshold\tcore_as_notcore\tnotcore_as_core\trare_as_notrare\tnotrare_as_rare"); err != nil {
		return err
	}
	for t := range c.CoreAsNotCore {
		if _, err := fmt.Fprintf(bw, "%d\t%g\t%g\t%g\t%g\n", t,
			c.CoreAsNotCore.At(t), c.NotCoreAsCore.At(t), c.RareAsNotRare.At(t), c.NotRareAsRare.At(t)); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// CreateAndWrite creates the file at path and hands it to write
func CreateAndWrite(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
