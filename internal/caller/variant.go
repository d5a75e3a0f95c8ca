// Package caller implements per-codon minor variant calling: codon census,
// reference resolution, Fisher-exact significance testing with Bonferroni
// correction, and resistance-mutation annotation.
package caller

import (
	"sort"

	"github.com/inodb/vibe-minor/internal/msa"
)

// VariantCodon is one significant non-reference codon call at a position.
// Immutable after creation except HaplotypeHits, which the phaser appends
// one flag per ranked haplotype.
type VariantCodon struct {
	Codon         string
	Frequency     float64
	PValue        float64
	KnownDRM      string
	HaplotypeHits []bool
}

// ColumnContext is one column of the per-base frequency window surrounding
// a variant position.
type ColumnContext struct {
	RelPos   int
	AbsPos   int
	Counts   msa.ColumnCounts
	Wildtype string
}

// VariantPosition holds all codon calls at one codon-aligned position.
type VariantPosition struct {
	AbsPos          int // absolute 1-based position of the codon's first base
	CodonPos        int // 1-based codon number within the gene
	RefCodon        string
	RefAminoAcid    byte
	AltRefCodon     string // diverging majority codon, "" if none
	AltRefAminoAcid byte
	Coverage        int
	AminoAcidToCodons map[byte][]*VariantCodon
	Msa             []ColumnContext
}

// IsVariant returns true if at least one codon call was recorded.
func (vp *VariantPosition) IsVariant() bool {
	return len(vp.AminoAcidToCodons) > 0
}

// IsHit returns true if the codon matches any recorded variant codon.
func (vp *VariantPosition) IsHit(codon string) bool {
	for _, codons := range vp.AminoAcidToCodons {
		for _, vc := range codons {
			if vc.Codon == codon {
				return true
			}
		}
	}
	return false
}

// Codons returns all variant codons ordered by amino acid, then insertion
// order. The order is deterministic and matches the reported hit matrix.
func (vp *VariantPosition) Codons() []*VariantCodon {
	aas := make([]byte, 0, len(vp.AminoAcidToCodons))
	for aa := range vp.AminoAcidToCodons {
		aas = append(aas, aa)
	}
	sort.Slice(aas, func(i, j int) bool { return aas[i] < aas[j] })
	var out []*VariantCodon
	for _, aa := range aas {
		out = append(out, vp.AminoAcidToCodons[aa]...)
	}
	return out
}

// VariantGene collects the variant positions of one target gene.
type VariantGene struct {
	Name      string
	Offset    int // gene begin, absolute 1-based
	Positions map[int]*VariantPosition // keyed by codon number
}

// HasVariants returns true if any position recorded a variant codon.
func (vg *VariantGene) HasVariants() bool {
	for _, vp := range vg.Positions {
		if vp.IsVariant() {
			return true
		}
	}
	return false
}

// SortedPositions returns the codon numbers in ascending order.
func (vg *VariantGene) SortedPositions() []int {
	keys := make([]int, 0, len(vg.Positions))
	for k := range vg.Positions {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

// Result is the full outcome of a variant-calling run.
type Result struct {
	Genes       []*VariantGene
	Diagnostics *Metrics // nil unless expected minors are configured
}
