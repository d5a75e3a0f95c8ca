package msa

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strings"
)

// Read loads an aligned FASTA file into an MSA whose first column sits at
// absolute position beginPos. Supports plain and gzipped input; "-" reads
// from stdin.
//
// All records must share one coordinate system (a row may be shorter than
// the alignment if it ends early). Leading and trailing pad characters
// ('-' or '.') mark unspanned sequence and become the uncovered sentinel;
// internal '-' stays a gap.
func Read(path string, beginPos int) (*MSA, error) {
	if path == "-" {
		return ReadFrom(os.Stdin, beginPos)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open alignment: %w", err)
	}
	defer file.Close()

	// Check for gzip magic bytes.
	buf := make([]byte, 2)
	if _, err := io.ReadFull(file, buf); err != nil {
		return nil, fmt.Errorf("read alignment: %w", err)
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seek alignment: %w", err)
	}

	var r io.Reader = file
	if buf[0] == 0x1f && buf[1] == 0x8b {
		gz, err := gzip.NewReader(file)
		if err != nil {
			return nil, fmt.Errorf("open gzip alignment: %w", err)
		}
		defer gz.Close()
		r = gz
	}

	return ReadFrom(r, beginPos)
}

// ReadFrom loads an aligned FASTA stream into an MSA.
func ReadFrom(r io.Reader, beginPos int) (*MSA, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var (
		rows    []*Row
		name    string
		seq     bytes.Buffer
		records [][2]string
	)
	flush := func() {
		if name != "" {
			records = append(records, [2]string{name, seq.String()})
		}
		seq.Reset()
	}
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r\n")
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, ">") {
			flush()
			fields := strings.Fields(line[1:])
			if len(fields) == 0 {
				return nil, fmt.Errorf("line %d: FASTA header without a name", lineNo)
			}
			name = fields[0]
			continue
		}
		if name == "" {
			return nil, fmt.Errorf("line %d: sequence before first FASTA header", lineNo)
		}
		seq.WriteString(strings.ToUpper(line))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read alignment: %w", err)
	}
	flush()

	width := 0
	for _, rec := range records {
		if len(rec[1]) > width {
			width = len(rec[1])
		}
	}
	for _, rec := range records {
		rows = append(rows, NewRow(rec[0], alignedBases(rec[1]), width))
	}
	return New(beginPos, rows), nil
}

// alignedBases converts a padded FASTA sequence into row bases: leading and
// trailing pads become uncovered, '.' anywhere becomes uncovered, internal
// '-' stays a gap.
func alignedBases(seq string) []byte {
	bases := []byte(seq)
	for i := range bases {
		if bases[i] == '.' {
			bases[i] = Uncovered
		}
	}
	for i := 0; i < len(bases) && bases[i] == Gap; i++ {
		bases[i] = Uncovered
	}
	for i := len(bases) - 1; i >= 0 && bases[i] == Gap; i-- {
		bases[i] = Uncovered
	}
	return bases
}
