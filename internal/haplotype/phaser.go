package haplotype

import (
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/inodb/vibe-minor/internal/caller"
	"github.com/inodb/vibe-minor/internal/msa"
	"github.com/inodb/vibe-minor/internal/target"
)

// lowCoverageThreshold is the minimum cluster size for a haplotype to count
// as real rather than noise.
const lowCoverageThreshold = 10

// slot is one variant position in the fixed haplotype shape.
type slot struct {
	absPos   int
	position *caller.VariantPosition
}

// Phaser clusters reads into haplotypes over the variant positions of a
// completed calling run. Phasing reads a frozen position list and must run
// only after calling has finished for all genes.
type Phaser struct {
	msa    *msa.MSA
	cfg    *target.Config
	slots  []slot
	logger *zap.Logger
}

// New creates a phaser over the variant positions of the given genes,
// ordered by absolute position.
func New(m *msa.MSA, genes []*caller.VariantGene, cfg *target.Config) *Phaser {
	p := &Phaser{msa: m, cfg: cfg, logger: zap.NewNop()}
	for _, vg := range genes {
		for _, codonPos := range vg.SortedPositions() {
			vp := vg.Positions[codonPos]
			if vp.IsVariant() {
				p.slots = append(p.slots, slot{absPos: vp.AbsPos, position: vp})
			}
		}
	}
	sort.Slice(p.slots, func(i, j int) bool { return p.slots[i].absPos < p.slots[j].absPos })
	return p
}

// SetLogger sets the logger for progress messages.
func (p *Phaser) SetLogger(l *zap.Logger) { p.logger = l }

// NumSlots returns the number of variant positions in the haplotype shape.
func (p *Phaser) NumSlots() int { return len(p.slots) }

// Run executes discovery, clustering, classification, optional soft
// collapse, and ranking. Returns an empty report when no variant positions
// were discovered.
func (p *Phaser) Run() *Report {
	if len(p.slots) == 0 {
		return &Report{}
	}

	clusters := p.cluster()
	generators, filtered := classify(clusters)

	if p.cfg.MergeOutliers {
		softCollapse(generators, filtered, p.cfg.ErrorModel)
	}

	rankAndName(generators)
	p.markHits(generators)

	report := &Report{Haplotypes: generators}
	for _, g := range generators {
		report.Counts.Reported += g.Size()
	}
	for _, f := range filtered {
		n := f.Size()
		if f.Flags.Has(LowCoverage) {
			report.Counts.LowCoverage += n
		}
		if f.Flags.Has(OffTarget) {
			report.Counts.OffTarget += n
		}
		if f.Flags.Has(WithGap) {
			report.Counts.WithGap += n
		}
		if f.Flags.Has(WithHeteroduplex) {
			report.Counts.WithHeteroduplex += n
		}
		if f.Flags.Has(Partial) {
			report.Counts.Partial += n
		}
	}

	p.logger.Debug("phasing complete",
		zap.Int("slots", len(p.slots)),
		zap.Int("clusters", len(clusters)),
		zap.Int("generators", len(generators)),
		zap.Int("filtered", len(filtered)))
	return report
}

// cluster folds every read into the cluster list. Each read lands in
// exactly one cluster.
func (p *Phaser) cluster() []*Haplotype {
	var clusters []*Haplotype
	for _, row := range p.msa.Rows {
		codons, flags := p.extract(row)

		var match *Haplotype
		for _, h := range clusters {
			if equalTuple(h.Codons, codons) {
				match = h
				break
			}
		}
		if match != nil {
			match.Reads = append(match.Reads, row.Name)
			match.Flags |= flags
			continue
		}
		clusters = append(clusters, &Haplotype{
			Codons: codons,
			Reads:  []string{row.Name},
			Flags:  flags,
		})
	}
	return clusters
}

// extract pulls the read's codon at every variant slot. Slots the read does
// not fully cover stay "" and flag the read partial; codons not recorded at
// their position flag it off-target.
func (p *Phaser) extract(row *msa.Row) ([]string, Flag) {
	flags := annotationFlags(row.Annotations)
	codons := make([]string, len(p.slots))
	for si, s := range p.slots {
		rel := p.msa.Rel(s.absPos)
		if !row.Covers(rel) {
			flags |= Partial
			continue
		}
		tri := row.Codon(rel)
		codons[si] = tri
		if strings.IndexByte(tri, msa.Gap) >= 0 {
			flags |= WithGap
		}
		if !s.position.IsHit(tri) {
			flags |= OffTarget
		}
	}
	return codons, flags
}

// annotationFlags carries upstream per-read annotations into cluster flags.
func annotationFlags(a msa.Annotation) Flag {
	var f Flag
	if a.Has(msa.AnnotGap) {
		f |= WithGap
	}
	if a.Has(msa.AnnotHeteroduplex) {
		f |= WithHeteroduplex
	}
	if a.Has(msa.AnnotPartial) {
		f |= Partial
	}
	return f
}

func equalTuple(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// classify splits clusters into generators (no flags) and filtered (noise
// explained). Clusters below the read-count threshold gain the low-coverage
// flag first.
func classify(clusters []*Haplotype) (generators, filtered []*Haplotype) {
	for _, h := range clusters {
		if h.Size() < lowCoverageThreshold {
			h.Flags |= LowCoverage
		}
		if h.Flags == 0 {
			generators = append(generators, h)
		} else {
			filtered = append(filtered, h)
		}
	}
	return generators, filtered
}

// rankAndName sorts generators by size descending (stable, so ties keep
// discovery order), assigns display names, and computes global frequencies
// over the generator population only.
func rankAndName(generators []*Haplotype) {
	sort.SliceStable(generators, func(i, j int) bool {
		return generators[i].Size() > generators[j].Size()
	})
	total := 0
	for _, g := range generators {
		total += g.Size()
	}
	for rank, g := range generators {
		g.Name = rankName(rank)
		if total > 0 {
			g.Frequency = float64(g.Size()) / float64(total)
		}
	}
}

// markHits appends, per ranked generator, a hit flag onto every variant
// codon of every slot: true when the generator carries that codon there.
func (p *Phaser) markHits(generators []*Haplotype) {
	for _, g := range generators {
		for si, s := range p.slots {
			for _, vc := range s.position.Codons() {
				vc.HaplotypeHits = append(vc.HaplotypeHits, vc.Codon == g.Codons[si])
			}
		}
	}
}
