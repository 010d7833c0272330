package builder

import (
	"github.com/huangsam/proneness/core/agg"
	"github.com/huangsam/proneness/core/attrs"
	"github.com/huangsam/proneness/schema"
)

// Names of the aggregate columns.
const (
	NumCommitsColumn       = "numCommits"
	NumAuthorsColumn       = "numAuthors"
	AvgChangesColumn       = "avgChanges"
	AvgEntitiesColumn      = "avgEntities"
	AvgAuthorCommitsColumn = "avgAuthorCommits"
	AvgAuthorChangesColumn = "avgAuthorChanges"
	AvgChangeRatioColumn   = "avgChangeRatio"
	ChangeGiniColumn       = "changeGini"
	TimeSinceLastFixColumn = "timeSinceLastFix"
)

// prefixColumns holds the indices of the aggregate columns shared by the
// standard and group builders.
type prefixColumns struct {
	numCommits       int
	numAuthors       int
	avgChanges       int
	avgEntities      int
	avgAuthorCommits int
	avgAuthorChanges int
	avgChangeRatio   int
}

func (c *prefixColumns) register(s *attrs.Schema) error {
	for _, col := range []struct {
		name string
		dst  *int
	}{
		{NumCommitsColumn, &c.numCommits},
		{NumAuthorsColumn, &c.numAuthors},
		{AvgChangesColumn, &c.avgChanges},
		{AvgEntitiesColumn, &c.avgEntities},
		{AvgAuthorCommitsColumn, &c.avgAuthorCommits},
		{AvgAuthorChangesColumn, &c.avgAuthorChanges},
		{AvgChangeRatioColumn, &c.avgChangeRatio},
	} {
		idx, err := s.AddColumn(col.name, schema.NumericColumn)
		if err != nil {
			return err
		}
		*col.dst = idx
	}
	return nil
}

// prefixAggregates accumulates chunk statistics version by version, so that
// every prefix of a chunk is summarized in O(1) extra work.
type prefixAggregates struct {
	chunkCounter   *agg.ChangeCounter
	versionCounter *agg.ChangeCounter
	authors        map[string]struct{}
	versionChanges []int

	numCommits         int
	totalChanges       int
	totalEntities      int
	totalAuthorCommits int
	totalAuthorChanges int
	changeRatio        float64
	diffsSum           int
}

func newPrefixAggregates(size int) *prefixAggregates {
	return &prefixAggregates{
		chunkCounter:   agg.NewChangeCounter(),
		versionCounter: agg.NewChangeCounter(),
		authors:        make(map[string]struct{}),
		versionChanges: make([]int, 0, size),
	}
}

// add extends the prefix by one version.
func (p *prefixAggregates) add(v schema.MethodVersion, commit *schema.Commit, author *schema.Author) {
	p.versionCounter.Reset().CountAll(v)
	p.chunkCounter.Add(p.versionCounter)

	p.totalChanges += commit.NumChanges
	p.totalEntities += commit.NumEntities
	p.totalAuthorCommits += author.NumCommits
	p.totalAuthorChanges += author.NumChanges

	changes := p.versionCounter.TotalSum()
	if commit.NumChanges > 0 {
		p.changeRatio += float64(changes) / float64(commit.NumChanges)
	}
	for _, prev := range p.versionChanges {
		p.diffsSum += abs(prev - changes)
	}
	p.versionChanges = append(p.versionChanges, changes)

	p.authors[commit.Author] = struct{}{}
	p.numCommits++
}

// write stores the prefix aggregates into a row.
func (p *prefixAggregates) write(row attrs.Row, cols *prefixColumns) {
	n := float64(p.numCommits)
	row[cols.numCommits] = n
	row[cols.numAuthors] = float64(len(p.authors))
	row[cols.avgChanges] = float64(p.totalChanges) / n
	row[cols.avgEntities] = float64(p.totalEntities) / n
	row[cols.avgAuthorCommits] = float64(p.totalAuthorCommits) / n
	row[cols.avgAuthorChanges] = float64(p.totalAuthorChanges) / n
	row[cols.avgChangeRatio] = p.changeRatio / n
}

// gini is the sum of pairwise differences of per-version change counts,
// normalized by the prefix length times the prefix change total.
func (p *prefixAggregates) gini() float64 {
	total := p.chunkCounter.TotalSum()
	if total == 0 {
		return 0
	}
	return float64(p.diffsSum) / (float64(p.numCommits) * float64(total))
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
