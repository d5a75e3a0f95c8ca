package output

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/inodb/vibe-minor/internal/haplotype"
)

// TabWriter writes the haplotype summary in tab-delimited format.
type TabWriter struct {
	w       *bufio.Writer
	columns []string
}

// NewTabWriter creates a new tab-delimited haplotype writer.
func NewTabWriter(w io.Writer) *TabWriter {
	return &TabWriter{
		w: bufio.NewWriter(w),
		columns: []string{
			"#Haplotype",
			"Codons",
			"Reads",
			"Frequency",
			"SoftCollapses",
		},
	}
}

// WriteHeader writes the header line.
func (tw *TabWriter) WriteHeader() error {
	_, err := tw.w.WriteString(strings.Join(tw.columns, "\t") + "\n")
	return err
}

// Write writes one ranked haplotype.
func (tw *TabWriter) Write(h *haplotype.Haplotype) error {
	codons := make([]string, len(h.Codons))
	for i, c := range h.Codons {
		if c == "" {
			codons[i] = "-"
		} else {
			codons[i] = c
		}
	}

	values := []string{
		h.Name,
		strings.Join(codons, ","),
		fmt.Sprintf("%d", h.Size()),
		fmt.Sprintf("%.6f", h.Frequency),
		fmt.Sprintf("%.3f", h.SoftCollapses),
	}
	_, err := tw.w.WriteString(strings.Join(values, "\t") + "\n")
	return err
}

// WriteCounts appends the run-level summary counters as comment lines.
func (tw *TabWriter) WriteCounts(c haplotype.Counts) error {
	lines := []string{
		fmt.Sprintf("## reported=%d", c.Reported),
		fmt.Sprintf("## low_coverage=%d", c.LowCoverage),
		fmt.Sprintf("## all_damaged=%d", c.OffTarget),
		fmt.Sprintf("## with_gap=%d", c.WithGap),
		fmt.Sprintf("## with_heteroduplex=%d", c.WithHeteroduplex),
		fmt.Sprintf("## partial=%d", c.Partial),
	}
	_, err := tw.w.WriteString(strings.Join(lines, "\n") + "\n")
	return err
}

// Flush flushes any buffered data to the underlying writer.
func (tw *TabWriter) Flush() error {
	return tw.w.Flush()
}
