package builder

import (
	"github.com/huangsam/proneness/core/attrs"
	"github.com/huangsam/proneness/schema"
)

// standardChunks emits a row for every prefix of a fixed chunk and a single
// row for the whole unfixed tail of a history.
type standardChunks struct {
	cols             prefixColumns
	changeGini       int
	timeSinceLastFix int
}

var _ chunkProcessor = &standardChunks{} // Compile-time check

func (p *standardChunks) registerColumns(s *attrs.Schema) error {
	if err := p.cols.register(s); err != nil {
		return err
	}
	var err error
	if p.changeGini, err = s.AddColumn(ChangeGiniColumn, schema.NumericColumn); err != nil {
		return err
	}
	p.timeSinceLastFix, err = s.AddColumn(TimeSinceLastFixColumn, schema.NumericColumn)
	return err
}

func (p *standardChunks) processChunk(b *DataSetBuilder, c chunk) ([]attrs.Row, error) {
	lastFixTime := b.firstCommitTime
	if c.lastFix != nil {
		lastFixTime = c.lastFix.Time
	}

	var rows []attrs.Row
	acc := newPrefixAggregates(len(c.versions))
	for i, v := range c.versions {
		commit, author, err := b.resolve(v)
		if err != nil {
			return nil, err
		}
		acc.add(v, commit, author)

		if !c.fixed && i != len(c.versions)-1 {
			continue
		}
		row := b.newRow(v, acc.chunkCounter)
		b.setLabels(row, i, c.fixed)
		acc.write(row, &p.cols)
		row[p.changeGini] = acc.gini()
		elapsed := commit.Time - lastFixTime
		if elapsed < 0 {
			b.stats.NegativeFixTimes++
		}
		row[p.timeSinceLastFix] = float64(elapsed)
		rows = append(rows, row)
	}
	return rows, nil
}
