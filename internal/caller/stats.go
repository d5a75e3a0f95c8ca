package caller

import (
	"math"

	"gonum.org/v1/gonum/stat/combin"

	"github.com/inodb/vibe-minor/internal/msa"
	"github.com/inodb/vibe-minor/internal/target"
)

// alpha is the significance threshold applied to Bonferroni-corrected
// p-values.
const alpha = 0.01

// CodonProbability is the per-read probability of observing codon obs given
// the true codon ref under the position-independent single-base error model:
// the product over the three base pairs of the deletion probability when
// either side is a gap, the match probability when the bases agree, and the
// substitution probability otherwise.
func CodonProbability(em target.ErrorModel, ref, obs string) float64 {
	p := 1.0
	for i := 0; i < 3 && i < len(ref) && i < len(obs); i++ {
		switch {
		case ref[i] == msa.Gap || obs[i] == msa.Gap:
			p *= em.Deletion
		case ref[i] == obs[i]:
			p *= em.Match
		default:
			p *= em.Substitution
		}
	}
	return p
}

// FisherExactExcess computes a one-sided Fisher exact p-value that the
// observed count exceeds the expected count. The 2x2 table cells are
// [[observed, coverage], [expected, coverage]]; the margins follow from the
// cells as given. Fractional expectations are rounded to the nearest integer
// by the caller.
func FisherExactExcess(observed, expected, coverage int) float64 {
	if coverage <= 0 {
		return 1
	}
	if observed < 0 {
		observed = 0
	}
	if expected < 0 {
		expected = 0
	}

	row1 := observed + coverage
	row2 := expected + coverage
	firstCol := observed + expected
	total := row1 + row2

	kMax := firstCol
	if row1 < kMax {
		kMax = row1
	}

	p := 0.0
	for k := observed; k <= kMax; k++ {
		if firstCol-k > row2 { // second row cannot hold the remainder
			continue
		}
		p += math.Exp(logHypergeometric(k, row1, firstCol, total))
	}
	if p > 1 {
		p = 1
	}
	return p
}

// logHypergeometric is the log-probability of drawing k of the firstCol
// successes into a first row of size row1, out of total entries.
func logHypergeometric(k, row1, firstCol, total int) float64 {
	return combin.LogGeneralizedBinomial(float64(row1), float64(k)) +
		combin.LogGeneralizedBinomial(float64(total-row1), float64(firstCol-k)) -
		combin.LogGeneralizedBinomial(float64(total), float64(firstCol))
}

// Bonferroni corrects a raw p-value for the number of tests performed in
// the run, clamped to 1.
func Bonferroni(p float64, numberOfTests int) float64 {
	p *= float64(numberOfTests)
	if p > 1 {
		return 1
	}
	return p
}
