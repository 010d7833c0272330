package builder

import (
	"github.com/huangsam/proneness/core/agg"
	"github.com/huangsam/proneness/core/attrs"
)

// singleChunks emits one row per version with the version's own change counts.
type singleChunks struct{}

var _ chunkProcessor = &singleChunks{} // Compile-time check

func (p *singleChunks) registerColumns(*attrs.Schema) error {
	return nil
}

func (p *singleChunks) processChunk(b *DataSetBuilder, c chunk) ([]attrs.Row, error) {
	rows := make([]attrs.Row, 0, len(c.versions))
	counter := agg.NewChangeCounter()
	for i, v := range c.versions {
		counter.Reset().CountAll(v)
		row := b.newRow(v, counter)
		b.setLabels(row, i, c.fixed)
		rows = append(rows, row)
	}
	return rows, nil
}
