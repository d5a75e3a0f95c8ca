package haplotype

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inodb/vibe-minor/internal/caller"
	"github.com/inodb/vibe-minor/internal/target"
)

func testErrorModel() target.ErrorModel {
	return target.ErrorModel{Match: 0.995, Substitution: 0.003, Deletion: 0.002}
}

// With equal transition likelihoods, mass splits by coverage share alone:
// a 10-read outlier against 60/40 generators yields 6 and 4.
func TestSoftCollapseCoverageShare(t *testing.T) {
	gens := []*Haplotype{
		{Codons: []string{"AAA"}, Reads: repeat("r", 60)},
		{Codons: []string{"AAA"}, Reads: repeat("r", 40)},
	}
	filtered := []*Haplotype{
		{Codons: []string{"AAT"}, Reads: repeat("r", 10), Flags: LowCoverage},
	}

	softCollapse(gens, filtered, testErrorModel())

	assert.InDelta(t, 6.0, gens[0].SoftCollapses, 1e-9)
	assert.InDelta(t, 4.0, gens[1].SoftCollapses, 1e-9)
}

// A generator one substitution away explains the outlier far better than one
// two substitutions away, outweighing its smaller coverage.
func TestSoftCollapseLikelihoodDominates(t *testing.T) {
	near := &Haplotype{Codons: []string{"AAT"}, Reads: repeat("r", 20)}
	far := &Haplotype{Codons: []string{"CCT"}, Reads: repeat("r", 80)}
	filtered := []*Haplotype{
		{Codons: []string{"AAA"}, Reads: repeat("r", 10), Flags: LowCoverage},
	}

	softCollapse([]*Haplotype{near, far}, filtered, testErrorModel())

	assert.Greater(t, near.SoftCollapses, far.SoftCollapses)
	assert.InDelta(t, 10.0, near.SoftCollapses+far.SoftCollapses, 1e-9)
}

// The filtered read count is conserved: accumulated mass over all generators
// equals the filtered population size.
func TestSoftCollapseConservesMass(t *testing.T) {
	gens := []*Haplotype{
		{Codons: []string{"AAA", "TGG"}, Reads: repeat("r", 50)},
		{Codons: []string{"AAG", "TGG"}, Reads: repeat("r", 30)},
		{Codons: []string{"AAA", "TTG"}, Reads: repeat("r", 20)},
	}
	filtered := []*Haplotype{
		{Codons: []string{"AAT", "TGG"}, Reads: repeat("r", 7), Flags: LowCoverage},
		{Codons: []string{"AAA", ""}, Reads: repeat("r", 3), Flags: Partial | LowCoverage},
		{Codons: []string{"A-A", "TGG"}, Reads: repeat("r", 4), Flags: WithGap},
	}

	softCollapse(gens, filtered, testErrorModel())

	total := 0.0
	for _, g := range gens {
		total += g.SoftCollapses
	}
	assert.InDelta(t, 14.0, total, 1e-9)
}

// Uncovered slots contribute no factor, so a partial outlier is still
// distributed using the slots it does cover.
func TestSoftCollapsePartialSlotsSkipped(t *testing.T) {
	gens := []*Haplotype{
		{Codons: []string{"AAA", "TGG"}, Reads: repeat("r", 50)},
		{Codons: []string{"CCC", "TGG"}, Reads: repeat("r", 50)},
	}
	filtered := []*Haplotype{
		{Codons: []string{"AAA", ""}, Reads: repeat("r", 8), Flags: Partial | LowCoverage},
	}

	softCollapse(gens, filtered, testErrorModel())

	// Equal sizes; the covered slot matches the first generator exactly.
	assert.Greater(t, gens[0].SoftCollapses, gens[1].SoftCollapses)
	assert.InDelta(t, 8.0, gens[0].SoftCollapses+gens[1].SoftCollapses, 1e-9)
}

func TestSoftCollapseNoGenerators(t *testing.T) {
	filtered := []*Haplotype{
		{Codons: []string{"AAA"}, Reads: repeat("r", 5), Flags: LowCoverage},
	}
	softCollapse(nil, filtered, testErrorModel())
	// Nothing to assert beyond not panicking; filtered stays untouched.
	assert.Zero(t, filtered[0].SoftCollapses)
}

func TestTransitionLikelihood(t *testing.T) {
	em := testErrorModel()

	exact := transitionLikelihood([]string{"AAA"}, []string{"AAA"}, em)
	oneSub := transitionLikelihood([]string{"AAA"}, []string{"AAT"}, em)
	require.Greater(t, exact, oneSub)
	assert.InDelta(t, 0.995*0.995*0.995, exact, 1e-12)
	assert.InDelta(t, 0.995*0.995*0.003, oneSub, 1e-12)

	// Empty slots on either side contribute no factor.
	assert.InDelta(t, exact,
		transitionLikelihood([]string{"AAA", ""}, []string{"AAA", "TGG"}, em), 1e-12)
	assert.InDelta(t, exact,
		transitionLikelihood([]string{"AAA", "TGG"}, []string{"AAA", ""}, em), 1e-12)
}

// End-to-end: merge-outliers off leaves every accumulator at zero.
func TestRunMergeOutliersDisabled(t *testing.T) {
	genes := []*caller.VariantGene{makeGene("g", 1,
		makePosition(1, 1, "CCC", "AAA", "AAT"),
	)}
	seqs := append(repeat("AAA", 60), repeat("AAT", 5)...)
	m := phaserMSA(seqs...)

	cfg := phaserConfig(t)
	cfg.MergeOutliers = false
	report := New(m, genes, cfg).Run()

	require.Len(t, report.Haplotypes, 1)
	assert.Zero(t, report.Haplotypes[0].SoftCollapses)
	assert.Equal(t, 5, report.Counts.LowCoverage)
}

func TestRunMergeOutliersEnabled(t *testing.T) {
	genes := []*caller.VariantGene{makeGene("g", 1,
		makePosition(1, 1, "CCC", "AAA", "AAT"),
	)}
	seqs := append(repeat("AAA", 60), repeat("AAT", 5)...)
	m := phaserMSA(seqs...)

	cfg := phaserConfig(t)
	cfg.MergeOutliers = true
	report := New(m, genes, cfg).Run()

	require.Len(t, report.Haplotypes, 1)
	// The single generator absorbs the whole outlier cluster.
	assert.InDelta(t, 5.0, report.Haplotypes[0].SoftCollapses, 1e-9)
}
