package outwriter

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/huangsam/proneness/internal/contract"
	"github.com/huangsam/proneness/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDescribeSchema(t *testing.T) {
	cfg := &contract.Config{Builder: schema.StandardBuilder, Processor: schema.StandardProcessor}
	desc := DescribeSchema(sampleTable(t), cfg)

	assert.Equal(t, "standard", desc.Builder)
	assert.Equal(t, "linBugProneness0.0", desc.ClassColumn)
	require.Len(t, desc.Columns, 4)
	assert.Equal(t, RoleIdentifier, desc.Columns[0].Role)
	assert.Equal(t, RoleIdentifier, desc.Columns[1].Role)
	assert.Equal(t, RoleFeature, desc.Columns[2].Role)
	assert.Equal(t, RoleClass, desc.Columns[3].Role)
	assert.Equal(t, schema.NumericColumn, desc.Columns[3].Kind)
}

func TestWriteSchemaDescription_YAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schema.yaml")
	cfg := &contract.Config{Output: schema.YAMLOut, OutputFile: path}
	ow := NewOutWriter()
	require.NoError(t, ow.WriteSchema(sampleTable(t), cfg))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var decoded SchemaDescription
	require.NoError(t, yaml.Unmarshal(data, &decoded))
	assert.Equal(t, "linBugProneness0.0", decoded.ClassColumn)
	assert.Len(t, decoded.Columns, 4)
}

func TestWriteSchemaTable(t *testing.T) {
	var buf bytes.Buffer
	desc := DescribeSchema(sampleTable(t), &contract.Config{})
	require.NoError(t, writeSchemaTable(&buf, desc))
	assert.Contains(t, buf.String(), "STATEMENT_INSERT")
	assert.Contains(t, buf.String(), "4 columns, class column: linBugProneness0.0")
}

func TestWriteSchemaDescription_Unsupported(t *testing.T) {
	err := WriteSchemaDescription(SchemaDescription{}, &contract.Config{Output: schema.ParquetOut})
	assert.Error(t, err)
}
