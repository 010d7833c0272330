// Package attrs implements the attribute schema feature rows are assembled against,
// along with the column algebra applied to finished tables.
package attrs

import (
	"errors"
	"fmt"
	"math"

	"github.com/huangsam/proneness/schema"
)

// Schema errors. These always indicate a wiring mistake in a builder or processor.
var (
	ErrDuplicateColumn = errors.New("duplicate column")
	ErrUnknownColumn   = errors.New("unknown column")
	ErrSchemaFrozen    = errors.New("schema is frozen")
)

// Column is one named feature column.
type Column struct {
	Name string
	Kind schema.ColumnKind

	values []string
	index  map[string]int
}

// Schema is an ordered, append-only registry of uniquely named columns.
// Indices handed out by AddColumn stay stable for the lifetime of the schema.
type Schema struct {
	columns []*Column
	byName  map[string]int
	frozen  bool
}

// NewSchema creates an empty schema.
func NewSchema() *Schema {
	return &Schema{byName: make(map[string]int)}
}

// AddColumn appends a column and returns its index.
func (s *Schema) AddColumn(name string, kind schema.ColumnKind) (int, error) {
	if s.frozen {
		return -1, fmt.Errorf("%w: cannot add %q", ErrSchemaFrozen, name)
	}
	if _, ok := s.byName[name]; ok {
		return -1, fmt.Errorf("%w: %q", ErrDuplicateColumn, name)
	}
	col := &Column{Name: name, Kind: kind}
	if kind == schema.StringColumn {
		col.index = make(map[string]int)
	}
	s.columns = append(s.columns, col)
	s.byName[name] = len(s.columns) - 1
	return len(s.columns) - 1, nil
}

// IndexOf resolves a column name to its index.
func (s *Schema) IndexOf(name string) (int, error) {
	i, ok := s.byName[name]
	if !ok {
		return -1, fmt.Errorf("%w: %q", ErrUnknownColumn, name)
	}
	return i, nil
}

// Has reports whether a column is registered.
func (s *Schema) Has(name string) bool {
	_, ok := s.byName[name]
	return ok
}

// Len returns the number of columns.
func (s *Schema) Len() int {
	return len(s.columns)
}

// Column returns the name and kind of the column at index i.
func (s *Schema) Column(i int) Column {
	c := s.columns[i]
	return Column{Name: c.Name, Kind: c.Kind}
}

// Names returns all column names in order.
func (s *Schema) Names() []string {
	names := make([]string, len(s.columns))
	for i, c := range s.columns {
		names[i] = c.Name
	}
	return names
}

// NewRow returns a zero-filled row sized to the current column count.
// Columns added later do not resize rows already handed out.
func (s *Schema) NewRow() Row {
	return make(Row, len(s.columns))
}

// Intern stores a string value for a string column and returns its numeric surrogate.
func (s *Schema) Intern(col int, value string) float64 {
	c := s.columns[col]
	if c.index == nil {
		c.index = make(map[string]int)
	}
	if i, ok := c.index[value]; ok {
		return float64(i)
	}
	c.values = append(c.values, value)
	c.index[value] = len(c.values) - 1
	return float64(len(c.values) - 1)
}

// StringAt resolves a surrogate of a string column back to its value.
func (s *Schema) StringAt(col int, v float64) (string, bool) {
	c := s.columns[col]
	if IsMissing(v) || v < 0 || int(v) >= len(c.values) {
		return "", false
	}
	return c.values[int(v)], true
}

// Values returns the dictionary of a string column in surrogate order.
func (s *Schema) Values(col int) []string {
	return append([]string(nil), s.columns[col].values...)
}

// Freeze marks the start of extraction. No columns can be added afterwards.
func (s *Schema) Freeze() {
	s.frozen = true
}

// Frozen reports whether Freeze was called.
func (s *Schema) Frozen() bool {
	return s.frozen
}

// Clone returns an unfrozen deep copy of the schema, string values included.
func (s *Schema) Clone() *Schema {
	clone := NewSchema()
	for _, c := range s.columns {
		clone.appendCopy(c)
	}
	return clone
}

// appendCopy appends a copy of c, keeping its string dictionary.
func (s *Schema) appendCopy(c *Column) int {
	col := &Column{Name: c.Name, Kind: c.Kind}
	if c.index != nil {
		col.values = append([]string(nil), c.values...)
		col.index = make(map[string]int, len(c.index))
		for k, v := range c.index {
			col.index[k] = v
		}
	}
	s.columns = append(s.columns, col)
	s.byName[c.Name] = len(s.columns) - 1
	return len(s.columns) - 1
}

// Missing is the value of an absent cell.
func Missing() float64 {
	return math.NaN()
}

// IsMissing reports whether a cell value is absent.
func IsMissing(v float64) bool {
	return math.IsNaN(v)
}
