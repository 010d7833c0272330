package builder

import "github.com/huangsam/proneness/core/attrs"

// groupChunks emits one row per prefix of every chunk, fixed or not.
type groupChunks struct {
	cols prefixColumns
}

var _ chunkProcessor = &groupChunks{} // Compile-time check

func (p *groupChunks) registerColumns(s *attrs.Schema) error {
	return p.cols.register(s)
}

func (p *groupChunks) processChunk(b *DataSetBuilder, c chunk) ([]attrs.Row, error) {
	rows := make([]attrs.Row, 0, len(c.versions))
	acc := newPrefixAggregates(len(c.versions))
	for i, v := range c.versions {
		commit, author, err := b.resolve(v)
		if err != nil {
			return nil, err
		}
		acc.add(v, commit, author)

		row := b.newRow(v, acc.chunkCounter)
		b.setLabels(row, i, c.fixed)
		acc.write(row, &p.cols)
		rows = append(rows, row)
	}
	return rows, nil
}
