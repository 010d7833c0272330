// Package builder segments method histories into chunks delimited by bug fixes
// and turns every chunk into labeled feature rows.
package builder

import (
	"errors"
	"fmt"

	"github.com/huangsam/proneness/core/agg"
	"github.com/huangsam/proneness/core/attrs"
	"github.com/huangsam/proneness/core/history"
	"github.com/huangsam/proneness/core/measure"
	"github.com/huangsam/proneness/schema"
)

// Names of the base columns shared by every builder.
const (
	MethodNameColumn = "methodName"
	CommitIDColumn   = "commitId"
)

// ErrNoMeasures is returned when a builder is configured without any measure.
var ErrNoMeasures = errors.New("at least one bug-proneness measure is required")

// Options configures a DataSetBuilder.
type Options struct {
	Kind             schema.BuilderKind
	BugfixesIncluded bool   // keep the fixing version as the last element of its chunk
	FixPattern       string // defaults to agg.DefaultFixPattern
	Measures         []measure.Measure
}

// Stats summarizes one Build call.
type Stats struct {
	Histories        int `json:"histories"`
	Versions         int `json:"versions"`
	Chunks           int `json:"chunks"`
	FixedChunks      int `json:"fixed_chunks"`
	Rows             int `json:"rows"`
	LabeledRows      int `json:"labeled_rows"`
	NegativeFixTimes int `json:"negative_fix_times"` // rows whose time since the last fix is negative
}

// chunk is a run of versions handed to a chunk processor.
type chunk struct {
	versions []schema.MethodVersion
	lastFix  *schema.Commit // nil for the first chunk of a history
	fixed    bool
}

// chunkProcessor is the builder-specific part of a DataSetBuilder.
type chunkProcessor interface {
	registerColumns(s *attrs.Schema) error
	processChunk(b *DataSetBuilder, c chunk) ([]attrs.Row, error)
}

// DataSetBuilder drives the segmentation of method histories.
type DataSetBuilder struct {
	kind             schema.BuilderKind
	bugfixesIncluded bool
	commits          *agg.CommitRegistry
	authors          *agg.AuthorRegistry
	schema           *attrs.Schema
	measures         []measure.Measure
	chunks           chunkProcessor

	methodCol   int
	commitCol   int
	changeCols  [schema.NumChangeTypes]int
	measureCols []int

	firstCommitTime int64
	stats           Stats
}

// New creates a builder and registers its columns: base columns first, then the
// builder-specific ones, then one label column per measure.
func New(opts Options) (*DataSetBuilder, error) {
	if len(opts.Measures) == 0 {
		return nil, ErrNoMeasures
	}
	if opts.Kind == "" {
		opts.Kind = schema.StandardBuilder
	}
	var chunks chunkProcessor
	switch opts.Kind {
	case schema.StandardBuilder:
		chunks = &standardChunks{}
	case schema.GroupBuilder:
		chunks = &groupChunks{}
	case schema.SingleBuilder:
		chunks = &singleChunks{}
	default:
		return nil, fmt.Errorf("unsupported builder: %s", opts.Kind)
	}

	matcher, err := agg.NewFixMatcher(opts.FixPattern)
	if err != nil {
		return nil, err
	}

	b := &DataSetBuilder{
		kind:             opts.Kind,
		bugfixesIncluded: opts.BugfixesIncluded,
		commits:          agg.NewCommitRegistry(matcher),
		authors:          agg.NewAuthorRegistry(),
		schema:           attrs.NewSchema(),
		chunks:           chunks,
	}
	if err := b.registerBaseColumns(); err != nil {
		return nil, err
	}
	if err := chunks.registerColumns(b.schema); err != nil {
		return nil, fmt.Errorf("failed to register %s builder columns: %w", opts.Kind, err)
	}
	for _, m := range opts.Measures {
		if err := b.AddMeasure(m); err != nil {
			return nil, err
		}
	}
	return b, nil
}

func (b *DataSetBuilder) registerBaseColumns() error {
	var err error
	if b.methodCol, err = b.schema.AddColumn(MethodNameColumn, schema.StringColumn); err != nil {
		return err
	}
	if b.commitCol, err = b.schema.AddColumn(CommitIDColumn, schema.StringColumn); err != nil {
		return err
	}
	for i, ct := range schema.ChangeTypes {
		if b.changeCols[i], err = b.schema.AddColumn(string(ct), schema.NumericColumn); err != nil {
			return err
		}
	}
	return nil
}

// AddMeasure attaches a measure and registers its label column.
// Measures cannot be added once extraction started.
func (b *DataSetBuilder) AddMeasure(m measure.Measure) error {
	col, err := b.schema.AddColumn(m.Name(), schema.NumericColumn)
	if err != nil {
		return fmt.Errorf("failed to add measure: %w", err)
	}
	b.measures = append(b.measures, m)
	b.measureCols = append(b.measureCols, col)
	return nil
}

// Kind returns the builder kind.
func (b *DataSetBuilder) Kind() schema.BuilderKind {
	return b.kind
}

// Schema returns the schema rows are built against.
func (b *DataSetBuilder) Schema() *attrs.Schema {
	return b.schema
}

// Commits returns the commit registry of the current run.
func (b *DataSetBuilder) Commits() *agg.CommitRegistry {
	return b.commits
}

// Authors returns the author registry derived by the last Build.
func (b *DataSetBuilder) Authors() *agg.AuthorRegistry {
	return b.authors
}

// MeasureNames returns the label column names in registration order.
func (b *DataSetBuilder) MeasureNames() []string {
	names := make([]string, len(b.measures))
	for i, m := range b.measures {
		names[i] = m.Name()
	}
	return names
}

// Stats returns the statistics of the last Build.
func (b *DataSetBuilder) Stats() Stats {
	return b.stats
}

// ReadCommits registers the commits of the commit log.
func (b *DataSetBuilder) ReadCommits(commits []schema.RawCommit) *DataSetBuilder {
	b.commits.RegisterAll(commits)
	return b
}

// Build runs the extraction over a forest in two phases. It first tallies every
// version into the commit registry and derives author totals, then segments each
// history. The label column of the returned table is the first measure's column.
func (b *DataSetBuilder) Build(forest history.Forest) (*attrs.Table, error) {
	b.commits.ResetTallies()
	for h := range forest.Methods() {
		for _, v := range h.Versions {
			if err := b.commits.Tally(v); err != nil {
				return nil, err
			}
		}
	}
	b.authors = agg.DeriveAuthors(b.commits)
	b.firstCommitTime = b.commits.EarliestTime()
	b.schema.Freeze()
	b.stats = Stats{}

	table := attrs.NewTable(b.schema)
	table.ClassIndex = b.measureCols[0]
	for h := range forest.Methods() {
		rows, err := b.BuildHistory(h)
		if err != nil {
			return nil, err
		}
		table.Append(rows...)
	}
	return table, nil
}

// BuildHistory segments one method history and returns its rows. The commit
// registry must already be tallied; Build takes care of that.
func (b *DataSetBuilder) BuildHistory(h *schema.MethodHistory) ([]attrs.Row, error) {
	b.stats.Histories++
	b.stats.Versions += len(h.Versions)

	var rows []attrs.Row
	var buffer []schema.MethodVersion
	var lastFix *schema.Commit
	for _, v := range h.Versions {
		commit, err := b.commits.Resolve(v.CommitID)
		if err != nil {
			return nil, fmt.Errorf("method %s: %w", h.UniqueName, err)
		}
		if !commit.IsFix || b.bugfixesIncluded {
			buffer = append(buffer, v)
		}
		if commit.IsFix {
			out, err := b.flush(chunk{versions: buffer, lastFix: lastFix, fixed: true})
			if err != nil {
				return nil, err
			}
			rows = append(rows, out...)
			buffer = nil
			lastFix = commit
		}
	}
	if len(buffer) > 0 {
		out, err := b.flush(chunk{versions: buffer, lastFix: lastFix, fixed: false})
		if err != nil {
			return nil, err
		}
		rows = append(rows, out...)
	}
	return rows, nil
}

// flush resets every measure for the chunk and hands it to the chunk processor.
func (b *DataSetBuilder) flush(c chunk) ([]attrs.Row, error) {
	if len(c.versions) == 0 {
		return nil, nil
	}
	for _, m := range b.measures {
		m.StartNewChunk(c.versions)
	}
	rows, err := b.chunks.processChunk(b, c)
	if err != nil {
		return nil, err
	}

	b.stats.Chunks++
	b.stats.Rows += len(rows)
	if c.fixed {
		b.stats.FixedChunks++
		b.stats.LabeledRows += len(rows)
	}
	return rows, nil
}

// newRow returns a row holding the base values of a version: its names and the
// given change counts.
func (b *DataSetBuilder) newRow(v schema.MethodVersion, counts *agg.ChangeCounter) attrs.Row {
	row := b.schema.NewRow()
	row[b.methodCol] = b.schema.Intern(b.methodCol, v.UniqueName)
	row[b.commitCol] = b.schema.Intern(b.commitCol, v.CommitID)
	for i, n := range counts.Counts() {
		row[b.changeCols[i]] = float64(n)
	}
	return row
}

// setLabels writes the score of every measure at index, or missing values when
// the chunk is not terminated by a fix.
func (b *DataSetBuilder) setLabels(row attrs.Row, index int, fixed bool) {
	for i, m := range b.measures {
		if fixed {
			row[b.measureCols[i]] = m.ScoreAt(index)
		} else {
			row[b.measureCols[i]] = attrs.Missing()
		}
	}
}

// resolve returns the commit and author entries of a version.
func (b *DataSetBuilder) resolve(v schema.MethodVersion) (*schema.Commit, *schema.Author, error) {
	commit, err := b.commits.Resolve(v.CommitID)
	if err != nil {
		return nil, nil, err
	}
	author := b.authors.Get(commit.Author)
	if author == nil {
		return nil, nil, fmt.Errorf("author %q of commit %s was not derived", commit.Author, commit.ID)
	}
	return commit, author, nil
}
