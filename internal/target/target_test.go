package target

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
reference: "aaatttggg"
genes:
  - name: prot
    begin: 1
    end: 10
    minors:
      - position: 2
        codon: TGG
        amino_acid: W
    drms:
      - name: X2W
        mutations:
          - {ref: F, position: 2, var: W}
error_model:
  match: 0.99
  substitution: 0.006
  deletion: 0.004
merge_outliers: true
`

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, "AAATTTGGG", cfg.ReferenceSequence, "reference upper-cased")
	require.Len(t, cfg.Genes, 1)
	assert.Equal(t, "prot", cfg.Genes[0].Name)
	assert.Equal(t, 1, cfg.NumExpectedMinors())
	assert.True(t, cfg.MergeOutliers)
	assert.Equal(t, 0.99, cfg.ErrorModel.Match)

	// Defaults applied to unset thresholds.
	assert.Equal(t, DefaultMinPerc, cfg.MinPerc)
	assert.Equal(t, DefaultMaxPerc, cfg.MaxPerc)
}

func TestParseEmpty(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)

	assert.False(t, cfg.HasReference())
	assert.Empty(t, cfg.Genes)
	assert.Equal(t, 0, cfg.NumExpectedMinors())
	assert.Greater(t, cfg.ErrorModel.Match, 0.0, "default error model applied")
}

func TestParseRejectsTinyGene(t *testing.T) {
	_, err := Parse([]byte("genes:\n  - {name: g, begin: 5, end: 7}\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "less than one codon")
}

func TestRefCodon(t *testing.T) {
	cfg := &Config{ReferenceSequence: "AAATTTGGG"}

	assert.Equal(t, "AAA", cfg.RefCodon(1))
	assert.Equal(t, "TTT", cfg.RefCodon(4))
	assert.Equal(t, "GGG", cfg.RefCodon(7))
	assert.Equal(t, "", cfg.RefCodon(8), "codon would run past reference end")
	assert.Equal(t, "", cfg.RefCodon(0))

	assert.Equal(t, byte('T'), cfg.RefBase(4))
	assert.Equal(t, byte('N'), cfg.RefBase(10))
}

func TestGenesOrWindow(t *testing.T) {
	cfg := &Config{}
	genes := cfg.GenesOrWindow(100, 200)
	require.Len(t, genes, 1)
	assert.Equal(t, "unknown", genes[0].Name)
	assert.Equal(t, 100, genes[0].Begin)
	assert.Equal(t, 200, genes[0].End)

	cfg.Genes = []Gene{{Name: "g", Begin: 1, End: 10}}
	assert.Equal(t, cfg.Genes, cfg.GenesOrWindow(100, 200))
}
