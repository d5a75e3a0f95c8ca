package msa

import (
	"compress/gzip"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const alignedFasta = `>read1
ACGTTT
>read2 extra description
ACG-TT
>read3
--GTTT
>read4
acgttt
`

func TestReadFrom(t *testing.T) {
	m, err := ReadFrom(strings.NewReader(alignedFasta), 11)
	require.NoError(t, err)

	require.Len(t, m.Rows, 4)
	assert.Equal(t, 11, m.BeginPos)
	assert.Equal(t, 17, m.EndPos)

	assert.Equal(t, "read1", m.Rows[0].Name)
	assert.Equal(t, "read2", m.Rows[1].Name, "description stripped")

	// Internal gap stays a gap.
	assert.Equal(t, "ACG-TT", string(m.Rows[1].Bases))
	assert.True(t, m.Rows[1].Annotations.Has(AnnotGap))

	// Leading pads become uncovered.
	assert.Equal(t, "  GTTT", string(m.Rows[2].Bases))
	assert.True(t, m.Rows[2].Annotations.Has(AnnotPartial))
	assert.False(t, m.Rows[2].Annotations.Has(AnnotGap))

	// Lower case is normalized.
	assert.Equal(t, "ACGTTT", string(m.Rows[3].Bases))
}

func TestReadFromSequenceBeforeHeader(t *testing.T) {
	_, err := ReadFrom(strings.NewReader("ACGT\n>read1\nACGT\n"), 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FASTA header")
}

func TestReadFromMultilineRecords(t *testing.T) {
	m, err := ReadFrom(strings.NewReader(">r\nACG\nTTT\n"), 1)
	require.NoError(t, err)
	require.Len(t, m.Rows, 1)
	assert.Equal(t, "ACGTTT", string(m.Rows[0].Bases))
}

func TestReadGzip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "aln.fasta.gz")

	f, err := os.Create(path)
	require.NoError(t, err)
	gz := gzip.NewWriter(f)
	_, err = gz.Write([]byte(alignedFasta))
	require.NoError(t, err)
	require.NoError(t, gz.Close())
	require.NoError(t, f.Close())

	m, err := Read(path, 1)
	require.NoError(t, err)
	assert.Len(t, m.Rows, 4)
}

func TestReadPlainFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "aln.fasta")
	require.NoError(t, os.WriteFile(path, []byte(alignedFasta), 0o644))

	m, err := Read(path, 5)
	require.NoError(t, err)
	assert.Len(t, m.Rows, 4)
	assert.Equal(t, 5, m.BeginPos)
}
