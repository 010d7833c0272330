package attrs

import "fmt"

// Row is a value vector bound to the width of its schema at creation time.
type Row []float64

// Table is a schema together with its rows and the index of the label column.
type Table struct {
	Schema     *Schema
	Rows       []Row
	ClassIndex int // -1 when no label column is set
}

// NewTable creates an empty table over a schema with no label column.
func NewTable(s *Schema) *Table {
	return &Table{Schema: s, ClassIndex: -1}
}

// SetClass designates the named column as the label column.
func (t *Table) SetClass(name string) error {
	i, err := t.Schema.IndexOf(name)
	if err != nil {
		return fmt.Errorf("class column: %w", err)
	}
	t.ClassIndex = i
	return nil
}

// ClassName returns the name of the label column, or "" if none is set.
func (t *Table) ClassName() string {
	if t.ClassIndex < 0 {
		return ""
	}
	return t.Schema.Column(t.ClassIndex).Name
}

// Value returns the cell of row r in the named column.
func (t *Table) Value(r int, name string) (float64, error) {
	i, err := t.Schema.IndexOf(name)
	if err != nil {
		return 0, err
	}
	return t.Rows[r][i], nil
}

// String returns the resolved value of a string cell.
func (t *Table) String(r int, name string) (string, error) {
	i, err := t.Schema.IndexOf(name)
	if err != nil {
		return "", err
	}
	s, _ := t.Schema.StringAt(i, t.Rows[r][i])
	return s, nil
}

// Append adds rows to the table.
func (t *Table) Append(rows ...Row) {
	t.Rows = append(t.Rows, rows...)
}

// Partition splits the rows into those with a present label and those with a
// missing one. Both tables share the schema. A table without a label column
// yields no labeled rows.
func (t *Table) Partition() (labeled, unlabeled *Table) {
	labeled = &Table{Schema: t.Schema, ClassIndex: t.ClassIndex}
	unlabeled = &Table{Schema: t.Schema, ClassIndex: t.ClassIndex}
	for _, row := range t.Rows {
		if t.ClassIndex >= 0 && !IsMissing(row[t.ClassIndex]) {
			labeled.Rows = append(labeled.Rows, row)
		} else {
			unlabeled.Rows = append(unlabeled.Rows, row)
		}
	}
	return labeled, unlabeled
}
