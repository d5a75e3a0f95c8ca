// Package target holds the run configuration for minor variant calling:
// gene regions, known resistance mutations, expected minor variants, and
// the sequencing error model.
package target

// Mutation is one (reference amino acid, codon position, variant amino acid)
// triple of a resistance rule.
type Mutation struct {
	RefAA    string `yaml:"ref"`
	Position int    `yaml:"position"`
	VarAA    string `yaml:"var"`
}

// DRMRule names a drug-resistance mutation and the amino-acid changes that
// confer it.
type DRMRule struct {
	Name      string     `yaml:"name"`
	Mutations []Mutation `yaml:"mutations"`
}

// ExpectedMinor is a ground-truth minor variant used as a predictor and for
// validation metrics.
type ExpectedMinor struct {
	Position  int    `yaml:"position"`
	Codon     string `yaml:"codon"`
	AminoAcid string `yaml:"amino_acid"`
}

// Gene is one target region in absolute 1-based coordinates; End is
// exclusive. Immutable configuration input.
type Gene struct {
	Name   string          `yaml:"name"`
	Begin  int             `yaml:"begin"`
	End    int             `yaml:"end"`
	Minors []ExpectedMinor `yaml:"minors,omitempty"`
	DRMs   []DRMRule       `yaml:"drms,omitempty"`
}

// ErrorModel holds the fixed per-base probabilities of the single-base
// sequencing error model.
type ErrorModel struct {
	Match        float64 `yaml:"match"`
	Substitution float64 `yaml:"substitution"`
	Deletion     float64 `yaml:"deletion"`
}

// Config is the full run configuration.
type Config struct {
	Genes             []Gene     `yaml:"genes,omitempty"`
	ReferenceSequence string     `yaml:"reference,omitempty"`
	ErrorModel        ErrorModel `yaml:"error_model"`

	// Run flags.
	Verbose       bool    `yaml:"verbose,omitempty"`
	MergeOutliers bool    `yaml:"merge_outliers,omitempty"`
	Debug         bool    `yaml:"debug,omitempty"`
	DRMOnly       bool    `yaml:"drm_only,omitempty"`
	MinPerc       float64 `yaml:"min_perc,omitempty"`
	MaxPerc       float64 `yaml:"max_perc,omitempty"`
}

// Threshold defaults. MinPerc is the display floor for debug mode; MaxPerc
// is the majority share above which a diverging majority codon becomes an
// alternate reference.
const (
	DefaultMinPerc = 0.001
	DefaultMaxPerc = 0.8
)

// HasReference returns true if an external reference sequence is configured.
func (c *Config) HasReference() bool { return c.ReferenceSequence != "" }

// NumExpectedMinors returns the total number of configured expected minor
// variants across all genes.
func (c *Config) NumExpectedMinors() int {
	n := 0
	for _, g := range c.Genes {
		n += len(g.Minors)
	}
	return n
}

// RefCodon reads the reference codon starting at an absolute 1-based
// position, or "" if the reference does not span it.
func (c *Config) RefCodon(pos int) string {
	i := pos - 1
	if i < 0 || i+3 > len(c.ReferenceSequence) {
		return ""
	}
	return c.ReferenceSequence[i : i+3]
}

// RefBase reads the reference base at an absolute 1-based position, or 'N'.
func (c *Config) RefBase(pos int) byte {
	i := pos - 1
	if i < 0 || i >= len(c.ReferenceSequence) {
		return 'N'
	}
	return c.ReferenceSequence[i]
}

// GenesOrWindow returns the configured genes, or a single unnamed gene over
// the given window when no genes are configured.
func (c *Config) GenesOrWindow(begin, end int) []Gene {
	if len(c.Genes) > 0 {
		return c.Genes
	}
	return []Gene{{Name: "unknown", Begin: begin, End: end}}
}
