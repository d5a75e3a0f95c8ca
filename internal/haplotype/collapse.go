package haplotype

import (
	"github.com/inodb/vibe-minor/internal/caller"
	"github.com/inodb/vibe-minor/internal/target"
)

// softCollapse distributes each filtered cluster's read count across
// generators as fractional explanation mass, weighted by the generator's
// share of generator coverage and its relative transition likelihood. Reads
// never move between clusters; only the generators' soft-collapse
// accumulators grow.
func softCollapse(generators, filtered []*Haplotype, em target.ErrorModel) {
	if len(generators) == 0 {
		return
	}
	totalGen := 0
	for _, g := range generators {
		totalGen += g.Size()
	}
	if totalGen == 0 {
		return
	}

	for _, f := range filtered {
		likes := make([]float64, len(generators))
		sumLikes := 0.0
		for gi, g := range generators {
			likes[gi] = transitionLikelihood(g.Codons, f.Codons, em)
			sumLikes += likes[gi]
		}
		if sumLikes == 0 {
			continue
		}

		weights := make([]float64, len(generators))
		sumWeights := 0.0
		for gi, g := range generators {
			weights[gi] = float64(g.Size()) / float64(totalGen) * (likes[gi] / sumLikes)
			sumWeights += weights[gi]
		}
		if sumWeights == 0 {
			continue
		}

		mass := float64(f.Size())
		for gi, g := range generators {
			g.SoftCollapses += mass * weights[gi] / sumWeights
		}
	}
}

// transitionLikelihood is the joint per-slot probability of observing the
// filtered cluster's codons given the generator's, under the single-base
// error model. Slots without a codon on either side and zero-probability
// transitions contribute no factor rather than zeroing the product.
func transitionLikelihood(gen, filt []string, em target.ErrorModel) float64 {
	like := 1.0
	for i := 0; i < len(gen) && i < len(filt); i++ {
		if gen[i] == "" || filt[i] == "" {
			continue
		}
		if p := caller.CodonProbability(em, gen[i], filt[i]); p > 0 {
			like *= p
		}
	}
	return like
}
