// Package msa provides the multiple-sequence-alignment view consumed by the
// variant caller: per-read rows addressable by absolute position and a
// per-column base-frequency tally.
package msa

// Sentinel bases within an aligned row.
const (
	Gap       byte = '-' // deletion relative to the alignment
	Uncovered byte = ' ' // position not spanned by the read
)

// Annotation is a bitmask of per-read quality issues attached upstream of
// variant calling. Annotations are carried into haplotype clusters and are
// never cleared once set.
type Annotation uint8

const (
	// AnnotGap marks a read with an internal deletion.
	AnnotGap Annotation = 1 << iota
	// AnnotHeteroduplex marks a read flagged as a heteroduplex artifact.
	AnnotHeteroduplex
	// AnnotPartial marks a read that does not span the full window.
	AnnotPartial
)

// Has returns true if all bits of other are set.
func (a Annotation) Has(other Annotation) bool { return a&other == other }

// Row is one read's aligned base sequence over the window. Bases are
// window-relative: index 0 corresponds to the MSA's BeginPos. Immutable
// after construction.
type Row struct {
	Name        string
	Bases       []byte
	Annotations Annotation
}

// NewRow builds a row and derives the gap/partial annotations from its bases.
// Heteroduplex annotations come from upstream read processing and may be
// OR'd in by the caller.
func NewRow(name string, bases []byte, windowLen int) *Row {
	r := &Row{Name: name, Bases: bases}
	covered := 0
	for _, b := range bases {
		switch b {
		case Gap:
			r.Annotations |= AnnotGap
		case Uncovered:
		default:
			covered++
		}
	}
	if len(bases) < windowLen || covered+countGaps(bases) < windowLen {
		r.Annotations |= AnnotPartial
	}
	return r
}

func countGaps(bases []byte) int {
	n := 0
	for _, b := range bases {
		if b == Gap {
			n++
		}
	}
	return n
}

// Base returns the base at window-relative position rel, or Uncovered when
// rel is outside the row.
func (r *Row) Base(rel int) byte {
	if rel < 0 || rel >= len(r.Bases) {
		return Uncovered
	}
	return r.Bases[rel]
}

// Covers returns true if all three bases of the codon starting at rel exist
// in the read (none is the uncovered sentinel). Gaps still count as covered.
func (r *Row) Covers(rel int) bool {
	return r.Base(rel) != Uncovered && r.Base(rel+1) != Uncovered && r.Base(rel+2) != Uncovered
}

// Codon assembles the three bases starting at window-relative position rel.
// Call Covers first; uncovered positions yield the uncovered sentinel.
func (r *Row) Codon(rel int) string {
	return string([]byte{r.Base(rel), r.Base(rel + 1), r.Base(rel + 2)})
}

// ColumnCounts tallies base frequencies at one absolute position.
type ColumnCounts struct {
	A, C, G, T, Gap, N int
}

// Count returns the tally for a single base.
func (c ColumnCounts) Count(base byte) int {
	switch base {
	case 'A':
		return c.A
	case 'C':
		return c.C
	case 'G':
		return c.G
	case 'T':
		return c.T
	case Gap:
		return c.Gap
	default:
		return c.N
	}
}

// MostFrequent returns the base with the highest tally, preferring
// A > C > G > T > gap on ties. Returns 'N' for an empty column.
func (c ColumnCounts) MostFrequent() byte {
	bases := [5]byte{'A', 'C', 'G', 'T', Gap}
	counts := [5]int{c.A, c.C, c.G, c.T, c.Gap}
	best, max := byte('N'), 0
	for i, n := range counts {
		if n > max {
			max = n
			best = bases[i]
		}
	}
	return best
}

// MSA is the aligned read population over a window. BeginPos and EndPos are
// absolute 1-based coordinates; EndPos is exclusive. The MSA owns its rows;
// the name index is a non-owning lookup.
type MSA struct {
	BeginPos int
	EndPos   int
	Rows     []*Row

	index   map[string]int
	columns []ColumnCounts
}

// New builds an MSA from rows whose bases start at absolute position beginPos.
func New(beginPos int, rows []*Row) *MSA {
	width := 0
	for _, r := range rows {
		if len(r.Bases) > width {
			width = len(r.Bases)
		}
	}
	m := &MSA{
		BeginPos: beginPos,
		EndPos:   beginPos + width,
		Rows:     rows,
		index:    make(map[string]int, len(rows)),
		columns:  make([]ColumnCounts, width),
	}
	for i, r := range rows {
		m.index[r.Name] = i
		for rel, b := range r.Bases {
			col := &m.columns[rel]
			switch b {
			case 'A':
				col.A++
			case 'C':
				col.C++
			case 'G':
				col.G++
			case 'T':
				col.T++
			case Gap:
				col.Gap++
			case Uncovered:
			default:
				col.N++
			}
		}
	}
	return m
}

// Row returns the row for a read name, or nil if unknown.
func (m *MSA) Row(name string) *Row {
	i, ok := m.index[name]
	if !ok {
		return nil
	}
	return m.Rows[i]
}

// Column returns the base tally at an absolute position. Positions outside
// the window yield a zero tally.
func (m *MSA) Column(abs int) ColumnCounts {
	rel := abs - m.BeginPos
	if rel < 0 || rel >= len(m.columns) {
		return ColumnCounts{}
	}
	return m.columns[rel]
}

// MostFrequentBase returns the majority base at an absolute position.
func (m *MSA) MostFrequentBase(abs int) byte {
	return m.Column(abs).MostFrequent()
}

// Rel converts an absolute position to a window-relative index.
func (m *MSA) Rel(abs int) int { return abs - m.BeginPos }
