package attrs

import (
	"fmt"

	"github.com/huangsam/proneness/schema"
)

// Processor transforms a finished table into a new one.
type Processor interface {
	Process(t *Table) (*Table, error)
}

// SumColumns appends a numeric column holding the sum of the source columns.
// The result is missing when any source value is missing.
type SumColumns struct {
	Sources []string
	Result  string
}

var _ Processor = SumColumns{} // Compile-time check

// Process implements Processor.
func (p SumColumns) Process(t *Table) (*Table, error) {
	sources := make([]int, len(p.Sources))
	for i, name := range p.Sources {
		idx, err := t.Schema.IndexOf(name)
		if err != nil {
			return nil, fmt.Errorf("sum into %q: %w", p.Result, err)
		}
		sources[i] = idx
	}

	s := t.Schema.Clone()
	if _, err := s.AddColumn(p.Result, schema.NumericColumn); err != nil {
		return nil, err
	}
	out := &Table{Schema: s, ClassIndex: t.ClassIndex, Rows: make([]Row, len(t.Rows))}
	for r, row := range t.Rows {
		next := make(Row, len(row)+1)
		copy(next, row)
		sum := 0.0
		for _, idx := range sources {
			sum += row[idx]
		}
		next[len(row)] = sum // NaN propagates
		out.Rows[r] = next
	}
	return out, nil
}

// DeleteColumns removes the named columns. Deleting the label column is an error.
type DeleteColumns struct {
	Names []string
}

var _ Processor = DeleteColumns{} // Compile-time check

// Process implements Processor.
func (p DeleteColumns) Process(t *Table) (*Table, error) {
	drop := make(map[int]bool, len(p.Names))
	for _, name := range p.Names {
		idx, err := t.Schema.IndexOf(name)
		if err != nil {
			return nil, fmt.Errorf("delete: %w", err)
		}
		if idx == t.ClassIndex {
			return nil, fmt.Errorf("delete: %q is the class column", name)
		}
		drop[idx] = true
	}

	keep := make([]int, 0, t.Schema.Len()-len(drop))
	for i := range t.Schema.Len() {
		if !drop[i] {
			keep = append(keep, i)
		}
	}
	return project(t, keep), nil
}

// ReorderClass moves the label column to the last position.
type ReorderClass struct{}

var _ Processor = ReorderClass{} // Compile-time check

// Process implements Processor.
func (ReorderClass) Process(t *Table) (*Table, error) {
	if t.ClassIndex < 0 {
		return nil, fmt.Errorf("reorder: table has no class column")
	}
	order := make([]int, 0, t.Schema.Len())
	for i := range t.Schema.Len() {
		if i != t.ClassIndex {
			order = append(order, i)
		}
	}
	order = append(order, t.ClassIndex)
	return project(t, order), nil
}

// Chain applies processors in order.
type Chain []Processor

var _ Processor = Chain{} // Compile-time check

// Process implements Processor.
func (c Chain) Process(t *Table) (*Table, error) {
	var err error
	for _, p := range c {
		if t, err = p.Process(t); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// project builds a table holding the given source columns in the given order.
func project(t *Table, order []int) *Table {
	s := NewSchema()
	classIndex := -1
	for _, src := range order {
		dst := s.appendCopy(t.Schema.columns[src])
		if src == t.ClassIndex {
			classIndex = dst
		}
	}
	out := &Table{Schema: s, ClassIndex: classIndex, Rows: make([]Row, len(t.Rows))}
	for r, row := range t.Rows {
		next := make(Row, len(order))
		for dst, src := range order {
			next[dst] = row[src]
		}
		out.Rows[r] = next
	}
	return out
}
