package measure

import "github.com/huangsam/proneness/schema"

// Weighted scores a version by the share of the chunk's changes made up to and including it.
type Weighted struct {
	scores scoreTable
}

var _ Measure = &Weighted{} // Compile-time check

// NewWeighted creates a change-weighted measure.
func NewWeighted() *Weighted {
	return &Weighted{}
}

// Name implements Measure.
func (m *Weighted) Name() string {
	return "weightBugProneness"
}

// StartNewChunk implements Measure. A chunk without any changes is scored
// by position so that the newest version still scores 1.0.
func (m *Weighted) StartNewChunk(versions []schema.MethodVersion) {
	n := len(versions)
	m.scores = make(scoreTable, n)
	total := 0
	for _, v := range versions {
		total += len(v.Changes)
	}

	cumulative := 0
	for i, v := range versions {
		cumulative += len(v.Changes)
		if total == 0 {
			m.scores[i] = float64(i+1) / float64(n)
		} else {
			m.scores[i] = float64(cumulative) / float64(total)
		}
	}
	if n > 0 {
		m.scores[n-1] = 1.0
	}
}

// ScoreAt implements Measure.
func (m *Weighted) ScoreAt(index int) float64 {
	return m.scores.at(index)
}
