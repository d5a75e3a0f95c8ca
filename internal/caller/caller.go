package caller

import (
	"math"

	"go.uber.org/zap"

	"github.com/inodb/vibe-minor/internal/codon"
	"github.com/inodb/vibe-minor/internal/msa"
	"github.com/inodb/vibe-minor/internal/target"
)

// variableSiteThreshold is the relative coverage below which a site counts
// as variable for acceptance gating and validation metrics.
const variableSiteThreshold = 0.8

// Caller runs per-codon variant calling over an MSA.
type Caller struct {
	msa     *msa.MSA
	cfg     *target.Config
	genes   []target.Gene
	logger  *zap.Logger
	workers int
}

// New creates a caller for the given MSA and configuration. With no genes
// configured, the whole input window becomes a single unnamed gene.
func New(m *msa.MSA, cfg *target.Config) *Caller {
	return &Caller{
		msa:    m,
		cfg:    cfg,
		genes:  cfg.GenesOrWindow(m.BeginPos, m.EndPos),
		logger: zap.NewNop(),
	}
}

// SetLogger sets the logger for progress and diagnostic messages.
func (c *Caller) SetLogger(l *zap.Logger) { c.logger = l }

// SetWorkers sets the worker-pool size; 0 means one worker per CPU.
func (c *Caller) SetWorkers(n int) { c.workers = n }

// Run performs the full calling pass: a census stage fixing the
// multiple-testing divisor, then a testing stage producing variant
// positions. Positions are independent; results are merged in gene order so
// runs are deterministic.
func (c *Caller) Run() *Result {
	jobs := c.positionJobs()

	// Stage 1: codon census per position. The number of tests is the total
	// count of distinct valid codons observed, fixed before any testing.
	censuses := make([]Census, len(jobs))
	collectOrdered(runPositions(jobs, c.workers, func(j positionJob) positionResult {
		return positionResult{Seq: j.Seq, Job: j, Census: CodonsAt(c.msa, j.AbsPos)}
	}), func(r positionResult) {
		censuses[r.Seq] = r.Census
	})

	numberOfTests := 0
	for _, cs := range censuses {
		numberOfTests += len(cs.Codons)
	}
	c.logger.Debug("census complete",
		zap.Int("positions", len(jobs)),
		zap.Int("number_of_tests", numberOfTests))

	// Stage 2: significance testing per position.
	variantGenes := make([]*VariantGene, len(c.genes))
	for i, g := range c.genes {
		variantGenes[i] = &VariantGene{
			Name:      g.Name,
			Offset:    g.Begin,
			Positions: make(map[int]*VariantPosition),
		}
	}

	metrics := Metrics{
		NumberOfTests:  numberOfTests,
		ExpectedMinors: c.cfg.NumExpectedMinors(),
	}
	collectOrdered(runPositions(jobs, c.workers, func(j positionJob) positionResult {
		vp, met := c.callPosition(j, censuses[j.Seq], numberOfTests)
		return positionResult{Seq: j.Seq, Job: j, Position: vp, Metrics: met}
	}), func(r positionResult) {
		metrics.Merge(r.Metrics)
		if r.Position != nil {
			variantGenes[r.Job.GeneIndex].Positions[r.Job.CodonPos] = r.Position
		}
	})

	res := &Result{}
	for _, vg := range variantGenes {
		if len(vg.Positions) > 0 {
			res.Genes = append(res.Genes, vg)
		}
	}

	if metrics.ExpectedMinors > 0 {
		res.Diagnostics = &metrics
		c.logger.Info("validation metrics",
			zap.Float64("tpr", metrics.TruePositiveRate()),
			zap.Float64("fpr", metrics.FalsePositiveRate()),
			zap.Int("number_of_tests", metrics.NumberOfTests),
			zap.Float64("accuracy", metrics.Accuracy()))
	}
	return res
}

// positionJobs enumerates the codon-aligned positions of every gene.
func (c *Caller) positionJobs() []positionJob {
	var jobs []positionJob
	for gi, gene := range c.genes {
		for pos := gene.Begin; pos < gene.End-2; pos++ {
			ri := pos - gene.Begin
			if ri%3 != 0 {
				continue
			}
			jobs = append(jobs, positionJob{
				Seq:       len(jobs),
				GeneIndex: gi,
				AbsPos:    pos,
				CodonPos:  1 + ri/3,
			})
		}
	}
	return jobs
}

// callPosition resolves the reference codon and tests every other observed
// codon for significance. Returns nil when the position is skipped.
func (c *Caller) callPosition(j positionJob, cs Census, numberOfTests int) (*VariantPosition, Metrics) {
	var met Metrics
	gene := c.genes[j.GeneIndex]
	vp := &VariantPosition{
		AbsPos:            j.AbsPos,
		CodonPos:          j.CodonPos,
		AminoAcidToCodons: make(map[byte][]*VariantCodon),
	}

	if c.cfg.HasReference() {
		vp.RefCodon = c.cfg.RefCodon(j.AbsPos)
		if !codon.IsCoding(vp.RefCodon) {
			return nil, met
		}
		vp.RefAminoAcid = codon.Translate(vp.RefCodon)
		// A diverging majority above the high-percentage threshold becomes
		// an alternate reference, excluded from variant reporting.
		if maj := cs.Majority(); maj != "" && maj != vp.RefCodon && cs.Coverage > 0 {
			if float64(cs.Codons[maj])/float64(cs.Coverage) > c.cfg.MaxPerc {
				vp.AltRefCodon = maj
				vp.AltRefAminoAcid = codon.Translate(maj)
			}
		}
	} else {
		maj := cs.Majority()
		if maj == "" || cs.Coverage == 0 || !codon.IsCoding(maj) {
			return nil, met
		}
		vp.RefCodon = maj
		vp.RefAminoAcid = codon.Translate(maj)
	}

	hasExpectedMinors := c.cfg.NumExpectedMinors() > 0
	for _, tri := range cs.SortedCodons() {
		if tri == vp.RefCodon || tri == vp.AltRefCodon {
			continue
		}
		count := cs.Codons[tri]
		expected := int(math.Round(float64(cs.Coverage) * CodonProbability(c.cfg.ErrorModel, vp.RefCodon, tri)))
		p := Bonferroni(FisherExactExcess(count, expected, cs.Coverage), numberOfTests)

		aa := codon.Translate(tri)
		freq := float64(count) / float64(cs.Coverage)
		variableSite := freq < variableSiteThreshold
		predicted := matchesExpectedMinor(gene, j.CodonPos, aa, tri)
		if hasExpectedMinors {
			met.classify(variableSite, p < alpha, predicted)
		}

		drm := FindDRMs(c.genes, gene.Name, vp.RefAminoAcid, j.CodonPos, aa)

		accept := false
		if c.cfg.Debug {
			accept = freq >= c.cfg.MinPerc
		} else if p < alpha {
			if hasExpectedMinors {
				accept = predicted || variableSite
			} else {
				accept = true
			}
			if accept && c.cfg.DRMOnly {
				accept = predicted || drm != ""
			}
		}
		if !accept {
			continue
		}

		vp.AminoAcidToCodons[aa] = append(vp.AminoAcidToCodons[aa], &VariantCodon{
			Codon:     tri,
			Frequency: freq,
			PValue:    p,
			KnownDRM:  drm,
		})
	}

	if vp.IsVariant() {
		vp.Coverage = cs.Coverage
		vp.Msa = c.contextWindow(j.AbsPos)
	}
	return vp, met
}

// matchesExpectedMinor returns true if the call matches a configured
// expected minor exactly: same codon number, amino acid, and codon.
func matchesExpectedMinor(gene target.Gene, codonPos int, aa byte, tri string) bool {
	for _, minor := range gene.Minors {
		if minor.Position == codonPos && minor.Codon == tri &&
			len(minor.AminoAcid) > 0 && minor.AminoAcid[0] == aa {
			return true
		}
	}
	return false
}

// contextWindow snapshots the per-base frequency columns surrounding a
// codon start, from three bases before to five after, clipped to the MSA.
func (c *Caller) contextWindow(absPos int) []ColumnContext {
	var out []ColumnContext
	for j := -3; j < 6; j++ {
		pos := absPos + j
		if pos < c.msa.BeginPos || pos >= c.msa.EndPos {
			continue
		}
		wt := byte(0)
		if c.cfg.HasReference() {
			wt = c.cfg.RefBase(pos)
		} else {
			wt = c.msa.MostFrequentBase(pos)
		}
		out = append(out, ColumnContext{
			RelPos:   j,
			AbsPos:   pos,
			Counts:   c.msa.Column(pos),
			Wildtype: string(wt),
		})
	}
	return out
}
