package caller

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/inodb/vibe-minor/internal/target"
)

var testModel = target.ErrorModel{Match: 0.99, Substitution: 0.006, Deletion: 0.004}

func TestCodonProbability(t *testing.T) {
	tests := []struct {
		name     string
		ref, obs string
		want     float64
	}{
		{"all match", "AAA", "AAA", 0.99 * 0.99 * 0.99},
		{"one substitution", "AAA", "AAG", 0.99 * 0.99 * 0.006},
		{"two substitutions", "AAA", "AGG", 0.99 * 0.006 * 0.006},
		{"deletion in observed", "AAA", "A-A", 0.99 * 0.004 * 0.99},
		{"deletion in reference", "A-A", "AAA", 0.99 * 0.004 * 0.99},
		{"gap on both sides", "A-A", "A-A", 0.99 * 0.004 * 0.99},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, CodonProbability(testModel, tt.ref, tt.obs), 1e-12)
		})
	}
}

func TestFisherExactExcessBounds(t *testing.T) {
	for _, observed := range []int{0, 1, 2, 5, 10} {
		for _, expected := range []int{0, 1, 5, 10} {
			p := FisherExactExcess(observed, expected, 10)
			assert.GreaterOrEqual(t, p, 0.0)
			assert.LessOrEqual(t, p, 1.0)
		}
	}
}

func TestFisherExactExcessKnownValue(t *testing.T) {
	// Cells [[2,10],[0,10]], margins row1=12, col1=2, total=22:
	// P(X>=2) = C(12,2)*C(10,0)/C(22,2) = 66/231.
	p := FisherExactExcess(2, 0, 10)
	assert.InDelta(t, 66.0/231.0, p, 1e-9)

	// Cells [[1,10],[0,10]]: P(X>=1) = C(11,1)*C(10,0)/C(21,1) = 11/21.
	p = FisherExactExcess(1, 0, 10)
	assert.InDelta(t, 11.0/21.0, p, 1e-9)
}

func TestFisherExactExcessZeroObserved(t *testing.T) {
	// Observing nothing can never be an excess.
	assert.InDelta(t, 1.0, FisherExactExcess(0, 3, 100), 1e-9)
}

func TestFisherExactExcessDecreasesWithObserved(t *testing.T) {
	prev := 2.0
	for _, observed := range []int{1, 3, 6, 12, 25} {
		p := FisherExactExcess(observed, 1, 100)
		assert.Less(t, p, prev, "p must shrink as the excess grows")
		prev = p
	}
}

func TestFisherExactExcessZeroCoverage(t *testing.T) {
	assert.Equal(t, 1.0, FisherExactExcess(3, 1, 0))
}

func TestBonferroni(t *testing.T) {
	assert.InDelta(t, 0.05, Bonferroni(0.01, 5), 1e-12)
	assert.Equal(t, 1.0, Bonferroni(0.01, 1000), "clamped to 1")
	assert.Equal(t, 0.0, Bonferroni(0, 1000))

	// Monotonically non-decreasing in the raw p-value.
	assert.LessOrEqual(t, Bonferroni(0.001, 7), Bonferroni(0.002, 7))
}
