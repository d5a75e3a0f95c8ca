package caller

import (
	"strings"

	"github.com/inodb/vibe-minor/internal/target"
)

// FindDRMs returns the names of every configured resistance rule of the
// named gene whose mutation set contains the exact (reference amino acid,
// codon position, variant amino acid) triple, joined by " + ". Returns ""
// when none match. Rule sets are configuration-sized, so a linear scan is
// fine.
func FindDRMs(genes []target.Gene, geneName string, refAA byte, codonPos int, varAA byte) string {
	var names []string
	for _, gene := range genes {
		if gene.Name != geneName {
			continue
		}
		for _, rule := range gene.DRMs {
			if drmMatches(rule, refAA, codonPos, varAA) {
				names = append(names, rule.Name)
			}
		}
		break
	}
	return strings.Join(names, " + ")
}

func drmMatches(rule target.DRMRule, refAA byte, codonPos int, varAA byte) bool {
	for _, m := range rule.Mutations {
		if m.Position == codonPos &&
			len(m.RefAA) > 0 && m.RefAA[0] == refAA &&
			len(m.VarAA) > 0 && m.VarAA[0] == varAA {
			return true
		}
	}
	return false
}
