// Package output provides report formatters for variant-calling results.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/inodb/vibe-minor/internal/caller"
	"github.com/inodb/vibe-minor/internal/haplotype"
)

// Report is the full structured result of a run, shaped for serialization.
type Report struct {
	Genes       []GeneReport     `json:"genes"`
	Haplotyping *HaplotypeReport `json:"haplotyping,omitempty"`
	Diagnostics *Diagnostics     `json:"diagnostics,omitempty"`
}

// GeneReport lists the variant positions of one gene.
type GeneReport struct {
	Name             string           `json:"name"`
	VariantPositions []PositionReport `json:"variant_positions"`
}

// PositionReport is one variant position with its codon calls and
// surrounding per-base frequency context.
type PositionReport struct {
	CodonPosition   int             `json:"codon_position"`
	RefCodon        string          `json:"ref_codon"`
	RefAminoAcid    string          `json:"ref_amino_acid"`
	AltRefCodon     string          `json:"alt_ref_codon,omitempty"`
	AltRefAminoAcid string          `json:"alt_ref_amino_acid,omitempty"`
	Coverage        int             `json:"coverage"`
	VariantAAs      []AminoAcidCall `json:"variant_amino_acids"`
	MsaCounts       []ColumnReport  `json:"msa_counts"`
}

// AminoAcidCall groups the variant codons of one amino acid.
type AminoAcidCall struct {
	AminoAcid string      `json:"amino_acid"`
	Codons    []CodonCall `json:"codons"`
}

// CodonCall is one reported variant codon.
type CodonCall struct {
	Codon         string  `json:"codon"`
	Frequency     float64 `json:"frequency"`
	PValue        float64 `json:"pValue"`
	KnownDRM      string  `json:"known_drm"`
	HaplotypeHits []bool  `json:"haplotype_hit"`
}

// ColumnReport is one column of the surrounding MSA context.
type ColumnReport struct {
	RelPos   int    `json:"rel_pos"`
	AbsPos   int    `json:"abs_pos"`
	A        int    `json:"A"`
	C        int    `json:"C"`
	G        int    `json:"G"`
	T        int    `json:"T"`
	Deletion int    `json:"-,"`
	Wildtype string `json:"wt"`
}

// HaplotypeReport lists ranked generator haplotypes and summary counters.
type HaplotypeReport struct {
	Counts     CountsReport   `json:"counts"`
	Haplotypes []HaplotypeRow `json:"haplotypes"`
}

// CountsReport summarizes how reads were spent across quality buckets.
type CountsReport struct {
	Reported         int `json:"reported"`
	LowCoverage      int `json:"low_coverage"`
	OffTarget        int `json:"all_damaged"`
	WithGap          int `json:"with_gap"`
	WithHeteroduplex int `json:"with_heteroduplex"`
	Partial          int `json:"partial"`
}

// HaplotypeRow is one ranked generator haplotype.
type HaplotypeRow struct {
	Name          string   `json:"name"`
	Codons        []string `json:"codons"`
	Reads         int      `json:"reads"`
	Frequency     float64  `json:"frequency"`
	SoftCollapses float64  `json:"soft_collapses,omitempty"`
}

// Diagnostics reports validation metrics against configured expected minors.
type Diagnostics struct {
	TruePositiveRate  float64 `json:"tpr"`
	FalsePositiveRate float64 `json:"fpr"`
	NumberOfTests     int     `json:"number_of_tests"`
	Accuracy          float64 `json:"accuracy"`
	FalsePositives    float64 `json:"false_positives"`
}

// Assemble builds the serializable report from a calling result and a
// phasing report. Genes without variant positions are omitted.
func Assemble(res *caller.Result, hap *haplotype.Report) *Report {
	rep := &Report{}
	for _, vg := range res.Genes {
		if !vg.HasVariants() {
			continue
		}
		gr := GeneReport{Name: vg.Name}
		for _, codonPos := range vg.SortedPositions() {
			vp := vg.Positions[codonPos]
			if !vp.IsVariant() {
				continue
			}
			gr.VariantPositions = append(gr.VariantPositions, assemblePosition(vp))
		}
		rep.Genes = append(rep.Genes, gr)
	}

	if hap != nil && len(hap.Haplotypes) > 0 {
		hr := &HaplotypeReport{
			Counts: CountsReport{
				Reported:         hap.Counts.Reported,
				LowCoverage:      hap.Counts.LowCoverage,
				OffTarget:        hap.Counts.OffTarget,
				WithGap:          hap.Counts.WithGap,
				WithHeteroduplex: hap.Counts.WithHeteroduplex,
				Partial:          hap.Counts.Partial,
			},
		}
		for _, h := range hap.Haplotypes {
			hr.Haplotypes = append(hr.Haplotypes, HaplotypeRow{
				Name:          h.Name,
				Codons:        h.Codons,
				Reads:         h.Size(),
				Frequency:     h.Frequency,
				SoftCollapses: h.SoftCollapses,
			})
		}
		rep.Haplotyping = hr
	}

	if res.Diagnostics != nil {
		m := res.Diagnostics
		rep.Diagnostics = &Diagnostics{
			TruePositiveRate:  m.TruePositiveRate(),
			FalsePositiveRate: m.FalsePositiveRate(),
			NumberOfTests:     m.NumberOfTests,
			Accuracy:          m.Accuracy(),
			FalsePositives:    m.FalsePositives,
		}
	}
	return rep
}

func assemblePosition(vp *caller.VariantPosition) PositionReport {
	pr := PositionReport{
		CodonPosition: vp.CodonPos,
		RefCodon:      vp.RefCodon,
		RefAminoAcid:  string(vp.RefAminoAcid),
		Coverage:      vp.Coverage,
	}
	if vp.AltRefCodon != "" {
		pr.AltRefCodon = vp.AltRefCodon
		pr.AltRefAminoAcid = string(vp.AltRefAminoAcid)
	}

	aas := make([]byte, 0, len(vp.AminoAcidToCodons))
	for aa := range vp.AminoAcidToCodons {
		aas = append(aas, aa)
	}
	sort.Slice(aas, func(i, j int) bool { return aas[i] < aas[j] })
	for _, aa := range aas {
		call := AminoAcidCall{AminoAcid: string(aa)}
		for _, vc := range vp.AminoAcidToCodons[aa] {
			call.Codons = append(call.Codons, CodonCall{
				Codon:         vc.Codon,
				Frequency:     vc.Frequency,
				PValue:        vc.PValue,
				KnownDRM:      vc.KnownDRM,
				HaplotypeHits: vc.HaplotypeHits,
			})
		}
		pr.VariantAAs = append(pr.VariantAAs, call)
	}

	for _, col := range vp.Msa {
		pr.MsaCounts = append(pr.MsaCounts, ColumnReport{
			RelPos:   col.RelPos,
			AbsPos:   col.AbsPos,
			A:        col.Counts.A,
			C:        col.Counts.C,
			G:        col.Counts.G,
			T:        col.Counts.T,
			Deletion: col.Counts.Gap,
			Wildtype: col.Wildtype,
		})
	}
	return pr
}

// WriteJSON serializes the report with indentation.
func WriteJSON(w io.Writer, rep *Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rep); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
