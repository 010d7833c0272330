package core

import (
	"errors"
	"fmt"
	"io"

	"github.com/huangsam/proneness/core/attrs"
	"github.com/huangsam/proneness/core/builder"
	"github.com/huangsam/proneness/core/history"
	"github.com/huangsam/proneness/core/measure"
	"github.com/huangsam/proneness/internal/arff"
	"github.com/huangsam/proneness/internal/contract"
	"github.com/huangsam/proneness/schema"
)

// Provider errors.
var (
	ErrReadOnly = errors.New("data set provider is read-only")
	ErrNoData   = errors.New("no data set has been extracted or read")
)

// DataSetProvider supplies a processed feature table, either extracted from
// commit and method histories or read from a saved ARFF file.
type DataSetProvider struct {
	builder   *builder.DataSetBuilder // nil for read-only providers
	processor attrs.Processor
	className string
	table     *attrs.Table
}

// NewDataSetProvider creates a provider that extracts tables with the builder,
// measures and processor of cfg.
func NewDataSetProvider(cfg *contract.Config) (*DataSetProvider, error) {
	measures, err := measure.ParseAll(cfg.Measures)
	if err != nil {
		return nil, err
	}
	b, err := builder.New(builder.Options{
		Kind:             cfg.Builder,
		BugfixesIncluded: cfg.BugfixesIncluded,
		FixPattern:       cfg.FixPattern,
		Measures:         measures,
	})
	if err != nil {
		return nil, err
	}
	processor, err := builder.NewProcessor(cfg.Processor)
	if err != nil {
		return nil, err
	}

	className := cfg.ClassColumn
	if className == "" {
		className = measures[0].Name()
	}
	return &DataSetProvider{builder: b, processor: processor, className: className}, nil
}

// NewReadOnlyProvider creates a provider for processed tables whose label is
// the last column.
func NewReadOnlyProvider() *DataSetProvider {
	return &DataSetProvider{}
}

// ReadOnly reports whether the provider can only read processed tables.
func (p *DataSetProvider) ReadOnly() bool {
	return p.builder == nil
}

// ClassName returns the label column the provider selects.
func (p *DataSetProvider) ClassName() string {
	return p.className
}

// Extract builds the table of a forest, selects the label column, and runs
// the processor, which moves the label last.
func (p *DataSetProvider) Extract(commits []schema.RawCommit, forest history.Forest) error {
	if p.ReadOnly() {
		return fmt.Errorf("extract: %w", ErrReadOnly)
	}
	table, err := p.builder.ReadCommits(commits).Build(forest)
	if err != nil {
		return err
	}
	return p.finish(table)
}

// ReadDataSet loads an ARFF table. A raw table is one written before
// processing and goes through the processor first; only extracting providers
// accept raw tables. Read-only providers take the last column as the label.
func (p *DataSetProvider) ReadDataSet(r io.Reader, raw bool) error {
	table, _, err := arff.Read(r)
	if err != nil {
		return err
	}
	if table.Schema.Len() == 0 {
		return fmt.Errorf("data set has no attributes")
	}

	switch {
	case raw && p.ReadOnly():
		return fmt.Errorf("read raw data set: %w", ErrReadOnly)
	case raw:
		return p.finish(table)
	case p.ReadOnly():
		table.ClassIndex = table.Schema.Len() - 1
	default:
		if err := table.SetClass(p.className); err != nil {
			return err
		}
	}
	p.table = table
	return nil
}

func (p *DataSetProvider) finish(table *attrs.Table) error {
	if err := table.SetClass(p.className); err != nil {
		return err
	}
	processed, err := p.processor.Process(table)
	if err != nil {
		return fmt.Errorf("failed to process data set: %w", err)
	}
	p.table = processed
	return nil
}

// DataReady reports whether a table has been extracted or read.
func (p *DataSetProvider) DataReady() bool {
	return p.table != nil
}

// AllRows returns the whole table.
func (p *DataSetProvider) AllRows() (*attrs.Table, error) {
	if p.table == nil {
		return nil, ErrNoData
	}
	return p.table, nil
}

// TrainingRows returns the rows whose label is present.
func (p *DataSetProvider) TrainingRows() (*attrs.Table, error) {
	if p.table == nil {
		return nil, ErrNoData
	}
	labeled, _ := p.table.Partition()
	return labeled, nil
}

// PredictionRows returns the rows whose label is missing.
func (p *DataSetProvider) PredictionRows() (*attrs.Table, error) {
	if p.table == nil {
		return nil, ErrNoData
	}
	_, unlabeled := p.table.Partition()
	return unlabeled, nil
}

// Stats returns the statistics of the last extraction. Read tables have none.
func (p *DataSetProvider) Stats() builder.Stats {
	if p.builder == nil {
		return builder.Stats{}
	}
	return p.builder.Stats()
}

// MeasureNames returns the label columns the provider's builder produces.
func (p *DataSetProvider) MeasureNames() []string {
	if p.builder == nil {
		return nil
	}
	return p.builder.MeasureNames()
}
