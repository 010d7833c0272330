package contract

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/huangsam/proneness/core/measure"
	"github.com/huangsam/proneness/schema"
)

// Default values for configuration.
const (
	DefaultResultLimit = 25
	MaxResultLimit     = 10000
	DefaultPrecision   = 3
	MaxPrecision       = 10
	DefaultMeasures    = "linear"
	DefaultLogLevel    = "info"
)

// DefaultWorkers is the default number of concurrent workers to use.
var DefaultWorkers = runtime.GOMAXPROCS(0)

// Config holds the runtime configuration for an extraction.
// This struct remains the "final, validated" config.
type Config struct {
	RepoPath      string
	ChangesFile   string
	SnapshotsFile string
	CommitsFile   string
	InputFile     string // saved ARFF table for the read command

	Builder          schema.BuilderKind
	Processor        schema.ProcessorKind
	Measures         []string // measure descriptions such as "geometric:0.7"
	ClassColumn      string   // label column; empty means the first measure
	BugfixesIncluded bool
	FixPattern       string

	ResultLimit int
	Workers     int
	Precision   int
	Output      schema.OutputMode
	OutputFile  string
	Split       bool
	Width       int // Terminal width override (0 = auto-detect)
	UseColors   bool

	CacheBackend   schema.DatabaseBackend
	CacheDBConnect string // Please use env var as this is plaintext

	DataSetBackend   schema.DatabaseBackend
	DataSetDBConnect string // Please use env var as this is plaintext

	MetricsFile string
	LogLevel    string
	LogFormat   string
}

// ProfileConfig holds profiling settings.
type ProfileConfig struct {
	Enabled bool
	Prefix  string
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	RepoPathStr string

	// --- Fields from rootCmd.PersistentFlags() ---
	OutputFile       string `mapstructure:"output-file"`
	Output           string `mapstructure:"output"`
	Limit            int    `mapstructure:"limit"`
	Workers          int    `mapstructure:"workers"`
	Precision        int    `mapstructure:"precision"`
	Width            int    `mapstructure:"width"`
	Color            string `mapstructure:"color"`
	CacheBackend     string `mapstructure:"cache-backend"`
	CacheDBConnect   string `mapstructure:"cache-db-connect"`
	DataSetBackend   string `mapstructure:"dataset-backend"`
	DataSetDBConnect string `mapstructure:"dataset-db-connect"`
	MetricsFile      string `mapstructure:"metrics-file"`
	LogLevel         string `mapstructure:"log-level"`
	LogFormat        string `mapstructure:"log-format"`

	// --- Fields from extractCmd.Flags() ---
	ChangesFile   string `mapstructure:"changes-file"`
	SnapshotsFile string `mapstructure:"snapshots-file"`
	CommitsFile   string `mapstructure:"commits-file"`
	Builder       string `mapstructure:"builder"`
	Processor     string `mapstructure:"processor"`
	Measures      string `mapstructure:"measures"`
	Class         string `mapstructure:"class"`
	Bugfixes      bool   `mapstructure:"bugfixes"`
	FixPattern    string `mapstructure:"fix-pattern"`
	Split         bool   `mapstructure:"split"`

	// --- Fields from readCmd.Flags() ---
	InputFile string `mapstructure:"input"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	if c.Measures != nil {
		clone.Measures = make([]string, len(c.Measures))
		copy(clone.Measures, c.Measures)
	}
	return &clone
}

// ProcessAndValidate checks the raw input and populates cfg with everything
// that does not depend on the history sources.
func ProcessAndValidate(_ context.Context, cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := validateBackendConfigs(cfg, input); err != nil {
		return err
	}
	return validateExtraction(cfg, input)
}

// ResolveSources validates the history and commit inputs of an extraction and
// resolves the repository root when commits come from git.
func ResolveSources(ctx context.Context, cfg *Config, client GitClient, input *ConfigRawInput) error {
	cfg.ChangesFile = input.ChangesFile
	cfg.SnapshotsFile = input.SnapshotsFile
	cfg.CommitsFile = input.CommitsFile

	switch {
	case cfg.ChangesFile == "" && cfg.SnapshotsFile == "":
		return fmt.Errorf("one of --changes-file or --snapshots-file is required")
	case cfg.ChangesFile != "" && cfg.SnapshotsFile != "":
		return fmt.Errorf("--changes-file and --snapshots-file are mutually exclusive")
	}
	for _, path := range []string{cfg.ChangesFile, cfg.SnapshotsFile, cfg.CommitsFile} {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); err != nil {
			return fmt.Errorf("cannot read input file: %w", err)
		}
	}
	return resolveRepoPath(ctx, cfg, client, input)
}

// ProcessProfilingConfig enables profiling when a file prefix is given.
func ProcessProfilingConfig(profile *ProfileConfig, profilePrefix string) error {
	if profilePrefix != "" {
		profile.Enabled = true
		profile.Prefix = profilePrefix
	}
	return nil
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// RevalidateExtraction applies per-request extraction overrides to an already
// validated config. Empty arguments keep the current values; a new measure
// list without a class resets the label to the first measure.
func RevalidateExtraction(cfg *Config, builder, measures, class string) error {
	input := &ConfigRawInput{
		Builder:    string(cfg.Builder),
		Processor:  string(cfg.Processor),
		Measures:   strings.Join(cfg.Measures, ","),
		Class:      cfg.ClassColumn,
		Bugfixes:   cfg.BugfixesIncluded,
		FixPattern: cfg.FixPattern,
	}
	if builder != "" {
		input.Builder = builder
	}
	if measures != "" {
		input.Measures = measures
		input.Class = ""
	}
	if class != "" {
		input.Class = class
	}
	return validateExtraction(cfg, input)
}

// validateBackendConfigs validates cache and dataset backend configurations.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	// --- Cache Backend Validation ---
	cfg.CacheBackend = schema.DatabaseBackend(strings.ToLower(input.CacheBackend))
	if cfg.CacheBackend == "" {
		cfg.CacheBackend = schema.SQLiteBackend
	}
	if _, ok := schema.ValidDatabaseBackends[cfg.CacheBackend]; !ok {
		return fmt.Errorf("invalid cache backend '%s'. must be sqlite, mysql, postgresql, none", input.CacheBackend)
	}
	cfg.CacheDBConnect = input.CacheDBConnect
	if err := ValidateDatabaseConnectionString(cfg.CacheBackend, cfg.CacheDBConnect); err != nil {
		return fmt.Errorf("cache-db-connect: %w", err)
	}

	// --- Dataset Backend Validation ---
	cfg.DataSetBackend = schema.DatabaseBackend(strings.ToLower(input.DataSetBackend))
	if cfg.DataSetBackend == "" {
		cfg.DataSetBackend = schema.NoneBackend
	}
	if _, ok := schema.ValidDatabaseBackends[cfg.DataSetBackend]; !ok {
		return fmt.Errorf("invalid dataset backend '%s'. must be sqlite, mysql, postgresql, none", input.DataSetBackend)
	}
	cfg.DataSetDBConnect = input.DataSetDBConnect
	if err := ValidateDatabaseConnectionString(cfg.DataSetBackend, cfg.DataSetDBConnect); err != nil {
		return fmt.Errorf("dataset-db-connect: %w", err)
	}

	// Cache and datasets must not share one SQLite file
	if cfg.CacheBackend == schema.SQLiteBackend && cfg.DataSetBackend == schema.SQLiteBackend {
		cachePath := cfg.CacheDBConnect
		if cachePath == "" {
			cachePath = GetCacheDBFilePath()
		}
		dataPath := cfg.DataSetDBConnect
		if dataPath == "" {
			dataPath = GetDataSetDBFilePath()
		}
		if cachePath == dataPath {
			return fmt.Errorf("cache and dataset storage must use different SQLite database files. Both resolve to %q", cachePath)
		}
	}
	return nil
}

// validateSimpleInputs processes and validates the output and runtime fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width
	cfg.MetricsFile = input.MetricsFile
	cfg.InputFile = input.InputFile
	cfg.Split = input.Split

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	if input.Limit <= 0 || input.Limit > MaxResultLimit {
		return fmt.Errorf("limit must be greater than 0 and cannot exceed %d (received %d)", MaxResultLimit, input.Limit)
	}
	cfg.ResultLimit = input.Limit

	if input.Workers <= 0 {
		return fmt.Errorf("workers must be greater than 0 (received %d)", input.Workers)
	}
	cfg.Workers = input.Workers

	if input.Precision < 1 || input.Precision > MaxPrecision {
		return fmt.Errorf("precision must be between 1 and %d (received %d)", MaxPrecision, input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if cfg.Output == "" {
		cfg.Output = schema.TextOut
	}
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		if _, ok := schema.ValidSchemaOutputModes[cfg.Output]; !ok {
			return fmt.Errorf("invalid output format '%s'. must be text, arff, csv, json, parquet, yaml", input.Output)
		}
	}
	if cfg.Split && cfg.Output == schema.TextOut {
		return fmt.Errorf("--split needs a file output format such as arff, csv, json, parquet")
	}

	cfg.LogLevel = input.LogLevel
	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}
	cfg.LogFormat = strings.ToLower(input.LogFormat)
	if cfg.LogFormat == "" {
		cfg.LogFormat = LogFormatText
	}
	if cfg.LogFormat != LogFormatText && cfg.LogFormat != LogFormatJSON {
		return fmt.Errorf("invalid log format '%s'. must be text, json", input.LogFormat)
	}
	return nil
}

// validateExtraction checks the builder, processor and measure options.
func validateExtraction(cfg *Config, input *ConfigRawInput) error {
	cfg.Builder = schema.BuilderKind(strings.ToLower(input.Builder))
	if cfg.Builder == "" {
		cfg.Builder = schema.StandardBuilder
	}
	if _, ok := schema.ValidBuilderKinds[cfg.Builder]; !ok {
		return fmt.Errorf("invalid builder '%s'. must be standard, group, single", input.Builder)
	}

	cfg.Processor = schema.ProcessorKind(strings.ToLower(input.Processor))
	if cfg.Processor == "" {
		cfg.Processor = schema.StandardProcessor
	}
	if _, ok := schema.ValidProcessorKinds[cfg.Processor]; !ok {
		return fmt.Errorf("invalid processor '%s'. must be standard, none", input.Processor)
	}

	cfg.BugfixesIncluded = input.Bugfixes
	cfg.FixPattern = input.FixPattern

	specs := SplitList(input.Measures)
	if len(specs) == 0 {
		specs = []string{DefaultMeasures}
	}
	measures, err := measure.ParseAll(specs)
	if err != nil {
		return err
	}
	cfg.Measures = specs

	cfg.ClassColumn = ""
	if input.Class != "" {
		class, err := resolveClassColumn(input.Class, measures)
		if err != nil {
			return err
		}
		cfg.ClassColumn = class
	}
	return nil
}

// resolveClassColumn accepts either a label column name or a measure description.
func resolveClassColumn(class string, measures []measure.Measure) (string, error) {
	names := make([]string, 0, len(measures))
	for _, m := range measures {
		names = append(names, m.Name())
		if m.Name() == class {
			return class, nil
		}
	}
	if m, err := measure.Parse(class); err == nil {
		for _, name := range names {
			if name == m.Name() {
				return name, nil
			}
		}
	}
	return "", fmt.Errorf("class %q is not a configured measure. must be one of %s", class, strings.Join(names, ", "))
}

// resolveRepoPath finds the repository root for git commit sources. With a
// commits file the repository is optional and only recorded for provenance.
func resolveRepoPath(ctx context.Context, cfg *Config, client GitClient, input *ConfigRawInput) error {
	searchPath := input.RepoPathStr
	if searchPath == "" {
		if cfg.CommitsFile != "" {
			cfg.RepoPath = ""
			return nil
		}
		searchPath = "."
	}
	absSearchPath, err := filepath.Abs(searchPath)
	if err != nil {
		return err
	}
	absSearchPath = filepath.Clean(absSearchPath)

	if cfg.CommitsFile != "" {
		cfg.RepoPath = absSearchPath
		return nil
	}

	gitRoot, err := client.GetRepoRoot(ctx, absSearchPath)
	if err != nil {
		return err
	}
	cfg.RepoPath = gitRoot
	return nil
}
