package measure

import "github.com/huangsam/proneness/schema"

// Geometric decays by ratio for every version between the scored one and the newest.
type Geometric struct {
	ratio  float64
	scores scoreTable
}

var _ Measure = &Geometric{} // Compile-time check

// NewGeometric creates a geometric measure with a decay ratio in [0, 1].
func NewGeometric(ratio float64) (*Geometric, error) {
	if err := checkUnit("ratio", ratio); err != nil {
		return nil, err
	}
	return &Geometric{ratio: ratio}, nil
}

// Name implements Measure.
func (m *Geometric) Name() string {
	return "geomBugProneness" + formatParam(m.ratio)
}

// StartNewChunk implements Measure.
func (m *Geometric) StartNewChunk(versions []schema.MethodVersion) {
	m.scores = make(scoreTable, len(versions))
	score := 1.0
	for i := len(versions) - 1; i >= 0; i-- {
		m.scores[i] = score
		score *= m.ratio
	}
}

// ScoreAt implements Measure.
func (m *Geometric) ScoreAt(index int) float64 {
	return m.scores.at(index)
}
