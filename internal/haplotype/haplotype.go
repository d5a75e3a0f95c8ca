// Package haplotype reconstructs discrete haplotypes from the read
// population over the variant positions discovered by the caller.
package haplotype

import "strings"

// Flag marks quality issues of a read cluster. Flags are monotonic: once
// set on a cluster they are never cleared.
type Flag uint8

const (
	// OffTarget marks a cluster whose codon at some slot is not among that
	// position's recorded variant codons.
	OffTarget Flag = 1 << iota
	// LowCoverage marks a cluster with fewer than ten contributing reads.
	LowCoverage
	// WithGap marks a cluster whose reads carry a deletion.
	WithGap
	// WithHeteroduplex marks a cluster built from heteroduplex-flagged reads.
	WithHeteroduplex
	// Partial marks a cluster whose reads do not span all variant slots.
	Partial
)

// Has returns true if all bits of other are set.
func (f Flag) Has(other Flag) bool { return f&other == other }

// String lists the set flags, comma-separated.
func (f Flag) String() string {
	if f == 0 {
		return "none"
	}
	var names []string
	for _, e := range []struct {
		flag Flag
		name string
	}{
		{OffTarget, "off-target"},
		{LowCoverage, "low-coverage"},
		{WithGap, "with-gap"},
		{WithHeteroduplex, "with-heteroduplex"},
		{Partial, "partial"},
	} {
		if f.Has(e.flag) {
			names = append(names, e.name)
		}
	}
	return strings.Join(names, ",")
}

// Haplotype is one cluster of reads sharing a codon tuple over the variant
// slots. Uncovered slots hold "" so partial reads never merge with
// full-length clusters. Name, Frequency, and SoftCollapses are assigned
// during ranking; clusters are never mutated concurrently.
type Haplotype struct {
	Codons        []string
	Reads         []string
	Flags         Flag
	SoftCollapses float64
	Name          string
	Frequency     float64
}

// Size is the number of contributing reads.
func (h *Haplotype) Size() int { return len(h.Reads) }

// Counts summarizes how the read population was spent. A filtered read
// counts toward every bucket whose flag it carries.
type Counts struct {
	Reported         int
	LowCoverage      int
	OffTarget        int
	WithGap          int
	WithHeteroduplex int
	Partial          int
}

// Report is the phasing outcome: ranked generator haplotypes and the
// run-level summary counters.
type Report struct {
	Haplotypes []*Haplotype
	Counts     Counts
}

// rankName assigns display names: single letters A..Z for the first 26
// ranks, then an upper-case letter for rank/26 plus a lower-case letter for
// rank mod 26.
func rankName(rank int) string {
	if rank < 26 {
		return string(rune('A' + rank))
	}
	return string(rune('A'+rank/26)) + string(rune('a'+rank%26))
}
