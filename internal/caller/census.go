package caller

import (
	"sort"

	"github.com/inodb/vibe-minor/internal/codon"
	"github.com/inodb/vibe-minor/internal/msa"
)

// Census is the per-position codon tabulation. Coverage counts every read
// that fully spans the codon (no uncovered base); the codon map additionally
// excludes reads with a gap in the codon and unrecognized triplets, so
// coverage is always at least the sum of the codon counts.
type Census struct {
	Codons   map[string]int
	Coverage int
}

// CodonsAt scans all rows for the codon starting at absolute position pos.
func CodonsAt(m *msa.MSA, pos int) Census {
	rel := m.Rel(pos)
	c := Census{Codons: make(map[string]int)}
	for _, row := range m.Rows {
		if !row.Covers(rel) {
			continue
		}
		c.Coverage++
		tri := row.Codon(rel)
		if tri[0] == msa.Gap || tri[1] == msa.Gap || tri[2] == msa.Gap {
			continue
		}
		if !codon.IsCoding(tri) {
			continue
		}
		c.Codons[tri]++
	}
	return c
}

// SortedCodons returns the observed codons in lexical order for
// deterministic iteration.
func (c Census) SortedCodons() []string {
	out := make([]string, 0, len(c.Codons))
	for tri := range c.Codons {
		out = append(out, tri)
	}
	sort.Strings(out)
	return out
}

// Majority returns the codon with the highest count, ties broken by lexical
// order, or "" for an empty census.
func (c Census) Majority() string {
	best, max := "", -1
	for _, tri := range c.SortedCodons() {
		if c.Codons[tri] > max {
			max = c.Codons[tri]
			best = tri
		}
	}
	return best
}
