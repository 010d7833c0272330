package outwriter

import (
	"fmt"
	"io"
	"strconv"

	"github.com/huangsam/proneness/core/attrs"
	"github.com/huangsam/proneness/core/builder"
	"github.com/huangsam/proneness/internal/contract"
	"github.com/huangsam/proneness/schema"
	"github.com/olekukonko/tablewriter"
	"gopkg.in/yaml.v3"
)

// Column roles in a schema description.
const (
	RoleIdentifier = "identifier"
	RoleFeature    = "feature"
	RoleClass      = "class"
)

// SchemaDescription lists the columns of a feature table.
type SchemaDescription struct {
	Builder     string              `json:"builder,omitempty" yaml:"builder,omitempty"`
	Processor   string              `json:"processor,omitempty" yaml:"processor,omitempty"`
	ClassColumn string              `json:"class_column" yaml:"class_column"`
	Columns     []ColumnDescription `json:"columns" yaml:"columns"`
}

// ColumnDescription is one column of a SchemaDescription.
type ColumnDescription struct {
	Index int               `json:"index" yaml:"index"`
	Name  string            `json:"name" yaml:"name"`
	Kind  schema.ColumnKind `json:"kind" yaml:"kind"`
	Role  string            `json:"role" yaml:"role"`
}

// DescribeSchema builds the description of a table's columns.
func DescribeSchema(t *attrs.Table, cfg *contract.Config) SchemaDescription {
	desc := SchemaDescription{
		Builder:     string(cfg.Builder),
		Processor:   string(cfg.Processor),
		ClassColumn: t.ClassName(),
		Columns:     make([]ColumnDescription, t.Schema.Len()),
	}
	for i := range t.Schema.Len() {
		col := t.Schema.Column(i)
		role := RoleFeature
		switch {
		case i == t.ClassIndex:
			role = RoleClass
		case col.Name == builder.MethodNameColumn || col.Name == builder.CommitIDColumn:
			role = RoleIdentifier
		}
		desc.Columns[i] = ColumnDescription{Index: i, Name: col.Name, Kind: col.Kind, Role: role}
	}
	return desc
}

// WriteSchemaDescription outputs a schema description as text, JSON or YAML.
func WriteSchemaDescription(desc SchemaDescription, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, desc)
		}, "Wrote JSON")
	case schema.YAMLOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeYAML(w, desc)
		}, "Wrote YAML")
	case schema.TextOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeSchemaTable(w, desc)
		}, "Wrote table")
	default:
		return fmt.Errorf("schema output must be text, json, yaml (received %s)", cfg.Output)
	}
}

func writeYAML(w io.Writer, data any) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	return encoder.Close()
}

func writeSchemaTable(w io.Writer, desc SchemaDescription) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Index", "Column", "Kind", "Role"})

	data := make([][]string, len(desc.Columns))
	for i, c := range desc.Columns {
		data[i] = []string{strconv.Itoa(c.Index), c.Name, string(c.Kind), c.Role}
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%d columns, class column: %s\n", len(desc.Columns), desc.ClassColumn)
	return err
}
