package caller

// Metrics aggregates validation counters against configured expected
// minors. Counters are accumulated per position as independent values and
// merged, never shared mutable state. They are diagnostic only and never
// affect which calls are stored.
type Metrics struct {
	TruePositives  float64
	FalsePositives float64
	FalseNegatives float64
	TrueNegatives  float64

	NumberOfTests  int
	ExpectedMinors int
}

// Merge adds another position's counters into m.
func (m *Metrics) Merge(other Metrics) {
	m.TruePositives += other.TruePositives
	m.FalsePositives += other.FalsePositives
	m.FalseNegatives += other.FalseNegatives
	m.TrueNegatives += other.TrueNegatives
}

// classify records one tested codon call. Only variable sites (relative
// coverage below 80%) count toward the confusion matrix.
func (m *Metrics) classify(variableSite, significant, predicted bool) {
	if !variableSite {
		return
	}
	switch {
	case significant && predicted:
		m.TruePositives++
	case significant:
		m.FalsePositives++
	case predicted:
		m.FalseNegatives++
	default:
		m.TrueNegatives++
	}
}

// TruePositiveRate is TP over the number of configured expected minors.
func (m Metrics) TruePositiveRate() float64 {
	if m.ExpectedMinors == 0 {
		return 0
	}
	return m.TruePositives / float64(m.ExpectedMinors)
}

// FalsePositiveRate is FP over the number of tests that were not expected
// minors.
func (m Metrics) FalsePositiveRate() float64 {
	d := float64(m.NumberOfTests - m.ExpectedMinors)
	if d <= 0 {
		return 0
	}
	return m.FalsePositives / d
}

// Accuracy is (TP+TN) over all classified calls.
func (m Metrics) Accuracy() float64 {
	d := m.TruePositives + m.FalsePositives + m.FalseNegatives + m.TrueNegatives
	if d == 0 {
		return 0
	}
	return (m.TruePositives + m.TrueNegatives) / d
}
