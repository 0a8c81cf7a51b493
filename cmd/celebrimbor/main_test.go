package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aouyang1/go-celebrimbor/calerrors"
	"github.com/stretchr/testify/require"
)

func writeInputs(t *testing.T, numGenomes int) (string, string) {
	t.Helper()
	dir := t.TempDir()

	var c strings.Builder
	c.WriteString("completeness\tcontamination\n")
	for i := 0; i < numGenomes; i++ {
		c.WriteString("90\t0.5\n")
	}
	cPath := filepath.Join(dir, "completeness.tsv")
	require.NoError(t, os.WriteFile(cPath, []byte(c.String()), 0o644))

	var m strings.Builder
	m.WriteString("gene\tcount\n")
	for i := 0; i <= numGenomes; i++ {
		fmt.Fprintf(&m, "gene_%02d\t%d\n", i, i)
	}
	mPath := filepath.Join(dir, "matrix.tsv")
	require.NoError(t, os.WriteFile(mPath, []byte(m.String()), 0o644))
	return cPath, mPath
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRun(t *testing.T) {
	cPath, mPath := writeInputs(t, 40)
	dir := t.TempDir()
	outPath := filepath.Join(dir, "labels.tsv")
	curvesPath := filepath.Join(dir, "curves.tsv")

	out, err := execute(t, cPath, mPath,
		"--output-file", outPath,
		"--curves", curvesPath,
		"--n-samples", "2000",
		"--seed", "1",
		"--strict")
	require.NoError(t, err)
	require.Contains(t, out, "Core threshold: >= ")
	require.Contains(t, out, "Rare threshold: <= ")

	b, err := os.ReadFile(outPath)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	require.Len(t, lines, 42)
	require.Equal(t, "gene\tcount\tlabel", lines[0])
	require.Equal(t, "gene_00\t0\trare", lines[1])
	require.Equal(t, "gene_40\t40\tcore", lines[41])

	b, err = os.ReadFile(curvesPath)
	require.NoError(t, err)
	require.Len(t, strings.Split(strings.TrimSpace(string(b)), "\n"), 42)
}

func TestRunConfigFile(t *testing.T) {
	cPath, mPath := writeInputs(t, 40)
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "celebrimbor.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("n_samples: 2000\nseed: 1\n"), 0o644))

	outPath := filepath.Join(dir, "labels.tsv")
	_, err := execute(t, cPath, mPath, "--config", cfgPath, "--output-file", outPath)
	require.NoError(t, err)
	require.FileExists(t, outPath)
}

func TestRunInvalid(t *testing.T) {
	cPath, mPath := writeInputs(t, 10)
	outPath := filepath.Join(t.TempDir(), "labels.tsv")

	_, err := execute(t, cPath, mPath, "--output-file", outPath, "--breaks", "0.5,0.5")
	require.ErrorIs(t, err, calerrors.InvalidParameters)

	_, err = execute(t, cPath, mPath, "--output-file", outPath, "--beta-param1", "0")
	require.ErrorIs(t, err, calerrors.InvalidParameters)

	_, err = execute(t, cPath, filepath.Join(t.TempDir(), "missing.tsv"), "--output-file", outPath)
	require.ErrorIs(t, err, os.ErrNotExist)

	_, err = execute(t, cPath)
	require.Error(t, err)
	require.NoFileExists(t, outPath)
}
