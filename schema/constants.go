package schema

// Custom string types for type safety.
type (
	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for caching and dataset storage.
	DatabaseBackend string

	// BuilderKind selects how chunks are turned into rows.
	BuilderKind string

	// ProcessorKind selects the post-processing applied to a built table.
	ProcessorKind string

	// ColumnKind is the value kind of a feature column.
	ColumnKind string
)

// All output modes supported.
const (
	ARFFOut    OutputMode = "arff"
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
	YAMLOut    OutputMode = "yaml" // schema descriptions only
)

// All database backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// All builder kinds supported.
const (
	StandardBuilder BuilderKind = "standard" // default
	GroupBuilder    BuilderKind = "group"
	SingleBuilder   BuilderKind = "single"
)

// All processor kinds supported.
const (
	StandardProcessor ProcessorKind = "standard" // default
	NoopProcessor     ProcessorKind = "none"
)

// Column kinds.
const (
	NumericColumn ColumnKind = "numeric"
	StringColumn  ColumnKind = "string"
)

// ValidOutputModes lists all valid output modes for feature tables.
var ValidOutputModes = map[OutputMode]struct{}{
	ARFFOut:    {},
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidSchemaOutputModes lists the output modes accepted when describing a schema.
var ValidSchemaOutputModes = map[OutputMode]struct{}{
	TextOut: {},
	JSONOut: {},
	YAMLOut: {},
}

// ValidDatabaseBackends lists all valid database backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// ValidBuilderKinds lists all valid builder kinds.
var ValidBuilderKinds = map[BuilderKind]struct{}{
	StandardBuilder: {},
	GroupBuilder:    {},
	SingleBuilder:   {},
}

// ValidProcessorKinds lists all valid processor kinds.
var ValidProcessorKinds = map[ProcessorKind]struct{}{
	StandardProcessor: {},
	NoopProcessor:     {},
}

// FileExtension returns the conventional file extension for an output mode.
func (m OutputMode) FileExtension() string {
	switch m {
	case TextOut:
		return "txt"
	default:
		return string(m)
	}
}
