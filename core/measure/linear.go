package measure

import "github.com/huangsam/proneness/schema"

// Linear grows from just above the initial proneness to 1.0 at the newest version.
type Linear struct {
	initial float64
	scores  scoreTable
}

var _ Measure = &Linear{} // Compile-time check

// NewLinear creates a linear measure with an initial proneness in [0, 1].
func NewLinear(initial float64) (*Linear, error) {
	if err := checkUnit("initial proneness", initial); err != nil {
		return nil, err
	}
	return &Linear{initial: initial}, nil
}

// Name implements Measure.
func (m *Linear) Name() string {
	return "linBugProneness" + formatParam(m.initial)
}

// StartNewChunk implements Measure.
func (m *Linear) StartNewChunk(versions []schema.MethodVersion) {
	n := len(versions)
	m.scores = make(scoreTable, n)
	for i := range n {
		m.scores[i] = m.initial + (1-m.initial)*float64(i+1)/float64(n)
	}
	if n > 0 {
		m.scores[n-1] = 1.0
	}
}

// ScoreAt implements Measure.
func (m *Linear) ScoreAt(index int) float64 {
	return m.scores.at(index)
}
