package contract

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/huangsam/proneness/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validInput returns a raw input that passes every check.
func validInput() *ConfigRawInput {
	return &ConfigRawInput{
		Limit:     10,
		Workers:   4,
		Precision: 3,
		Output:    "text",
		Color:     "no",
		Measures:  "linear",
	}
}

func TestProcessAndValidate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*ConfigRawInput)
		expectError bool
	}{
		{name: "valid minimal config", mutate: func(*ConfigRawInput) {}},
		{name: "zero limit", mutate: func(in *ConfigRawInput) { in.Limit = 0 }, expectError: true},
		{name: "limit too large", mutate: func(in *ConfigRawInput) { in.Limit = MaxResultLimit + 1 }, expectError: true},
		{name: "zero workers", mutate: func(in *ConfigRawInput) { in.Workers = 0 }, expectError: true},
		{name: "precision too small", mutate: func(in *ConfigRawInput) { in.Precision = 0 }, expectError: true},
		{name: "invalid output", mutate: func(in *ConfigRawInput) { in.Output = "xml" }, expectError: true},
		{name: "yaml output for schema", mutate: func(in *ConfigRawInput) { in.Output = "yaml" }},
		{name: "invalid color", mutate: func(in *ConfigRawInput) { in.Color = "sometimes" }, expectError: true},
		{name: "invalid builder", mutate: func(in *ConfigRawInput) { in.Builder = "gd" }, expectError: true},
		{name: "group builder", mutate: func(in *ConfigRawInput) { in.Builder = "GROUP" }},
		{name: "invalid processor", mutate: func(in *ConfigRawInput) { in.Processor = "pca" }, expectError: true},
		{name: "unknown measure", mutate: func(in *ConfigRawInput) { in.Measures = "cubic" }, expectError: true},
		{name: "duplicate measure", mutate: func(in *ConfigRawInput) { in.Measures = "linear,linear:0.0" }, expectError: true},
		{name: "split with text output", mutate: func(in *ConfigRawInput) { in.Split = true }, expectError: true},
		{name: "split with arff output", mutate: func(in *ConfigRawInput) { in.Split = true; in.Output = "arff" }},
		{name: "unknown class", mutate: func(in *ConfigRawInput) { in.Class = "weighted" }, expectError: true},
		{name: "invalid log format", mutate: func(in *ConfigRawInput) { in.LogFormat = "xml" }, expectError: true},
		{name: "invalid cache backend", mutate: func(in *ConfigRawInput) { in.CacheBackend = "redis" }, expectError: true},
		{
			name: "mysql without connection",
			mutate: func(in *ConfigRawInput) {
				in.DataSetBackend = "mysql"
				in.DataSetDBConnect = ""
			},
			expectError: true,
		},
		{
			name: "same sqlite file",
			mutate: func(in *ConfigRawInput) {
				in.CacheBackend = "sqlite"
				in.CacheDBConnect = "/tmp/shared.db"
				in.DataSetBackend = "sqlite"
				in.DataSetDBConnect = "/tmp/shared.db"
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validInput()
			tt.mutate(input)
			cfg := &Config{}
			err := ProcessAndValidate(context.Background(), cfg, input)
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestProcessAndValidate_Defaults(t *testing.T) {
	cfg := &Config{}
	input := validInput()
	input.Measures = ""
	require.NoError(t, ProcessAndValidate(context.Background(), cfg, input))

	assert.Equal(t, schema.StandardBuilder, cfg.Builder)
	assert.Equal(t, schema.StandardProcessor, cfg.Processor)
	assert.Equal(t, []string{DefaultMeasures}, cfg.Measures)
	assert.Equal(t, schema.SQLiteBackend, cfg.CacheBackend)
	assert.Equal(t, schema.NoneBackend, cfg.DataSetBackend)
	assert.Equal(t, DefaultLogLevel, cfg.LogLevel)
	assert.Equal(t, LogFormatText, cfg.LogFormat)
	assert.Empty(t, cfg.ClassColumn)
}

func TestProcessAndValidate_Class(t *testing.T) {
	tests := []struct {
		class    string
		expected string
	}{
		{class: "geomBugProneness0.7", expected: "geomBugProneness0.7"},
		{class: "geometric", expected: "geomBugProneness0.7"},
		{class: "weighted", expected: "weightBugProneness"},
	}
	for _, tt := range tests {
		t.Run(tt.class, func(t *testing.T) {
			cfg := &Config{}
			input := validInput()
			input.Measures = "linear, geometric:0.7, weighted"
			input.Class = tt.class
			require.NoError(t, ProcessAndValidate(context.Background(), cfg, input))
			assert.Equal(t, tt.expected, cfg.ClassColumn)
			assert.Equal(t, []string{"linear", "geometric:0.7", "weighted"}, cfg.Measures)
		})
	}
}

func TestResolveSources(t *testing.T) {
	dir := t.TempDir()
	changes := filepath.Join(dir, "changes.csv")
	commits := filepath.Join(dir, "commits.csv")
	require.NoError(t, os.WriteFile(changes, []byte("method,commit,change_type\n"), 0o644))
	require.NoError(t, os.WriteFile(commits, []byte("id,author,time,message\n"), 0o644))
	ctx := context.Background()

	t.Run("no history source", func(t *testing.T) {
		err := ResolveSources(ctx, &Config{}, new(MockGitClient), &ConfigRawInput{})
		assert.Error(t, err)
	})

	t.Run("two history sources", func(t *testing.T) {
		err := ResolveSources(ctx, &Config{}, new(MockGitClient), &ConfigRawInput{ChangesFile: changes, SnapshotsFile: changes})
		assert.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		err := ResolveSources(ctx, &Config{}, new(MockGitClient), &ConfigRawInput{ChangesFile: filepath.Join(dir, "nope.csv")})
		assert.Error(t, err)
	})

	t.Run("commits file needs no git", func(t *testing.T) {
		client := new(MockGitClient)
		cfg := &Config{}
		require.NoError(t, ResolveSources(ctx, cfg, client, &ConfigRawInput{ChangesFile: changes, CommitsFile: commits}))
		assert.Empty(t, cfg.RepoPath)
		client.AssertNotCalled(t, "GetRepoRoot")
	})

	t.Run("git repo root", func(t *testing.T) {
		client := new(MockGitClient)
		client.On("GetRepoRoot", ctx, dir).Return("/mock/repo/root", nil)
		cfg := &Config{}
		require.NoError(t, ResolveSources(ctx, cfg, client, &ConfigRawInput{ChangesFile: changes, RepoPathStr: dir}))
		assert.Equal(t, "/mock/repo/root", cfg.RepoPath)
		client.AssertExpectations(t)
	})

	t.Run("not a repository", func(t *testing.T) {
		client := new(MockGitClient)
		client.On("GetRepoRoot", ctx, dir).Return("", errors.New("not a git repository"))
		err := ResolveSources(ctx, &Config{}, client, &ConfigRawInput{ChangesFile: changes, RepoPathStr: dir})
		assert.Error(t, err)
	})
}

func TestValidateDatabaseConnectionString(t *testing.T) {
	assert.NoError(t, ValidateDatabaseConnectionString(schema.SQLiteBackend, ""))
	assert.NoError(t, ValidateDatabaseConnectionString(schema.NoneBackend, ""))
	assert.NoError(t, ValidateDatabaseConnectionString(schema.MySQLBackend, "user:pass@tcp(localhost:3306)/proneness"))
	assert.Error(t, ValidateDatabaseConnectionString(schema.MySQLBackend, "localhost"))
	assert.NoError(t, ValidateDatabaseConnectionString(schema.PostgreSQLBackend, "host=localhost dbname=proneness"))
	assert.Error(t, ValidateDatabaseConnectionString(schema.PostgreSQLBackend, "dbname=proneness"))
}

func TestConfigClone(t *testing.T) {
	cfg := &Config{Measures: []string{"linear"}, Builder: schema.GroupBuilder}
	clone := cfg.Clone()
	clone.Measures[0] = "weighted"
	assert.Equal(t, "linear", cfg.Measures[0])
	assert.Equal(t, schema.GroupBuilder, clone.Builder)
}

func TestRevalidateExtraction(t *testing.T) {
	base := func() *Config {
		cfg := &Config{}
		input := validInput()
		input.Measures = "linear,weighted"
		input.Class = "weighted"
		require.NoError(t, ProcessAndValidate(context.Background(), cfg, input))
		return cfg
	}

	t.Run("no overrides", func(t *testing.T) {
		cfg := base()
		require.NoError(t, RevalidateExtraction(cfg, "", "", ""))
		assert.Equal(t, "weightBugProneness", cfg.ClassColumn)
		assert.Equal(t, schema.StandardBuilder, cfg.Builder)
	})

	t.Run("new measures reset class", func(t *testing.T) {
		cfg := base()
		require.NoError(t, RevalidateExtraction(cfg, "group", "geometric:0.5", ""))
		assert.Empty(t, cfg.ClassColumn)
		assert.Equal(t, []string{"geometric:0.5"}, cfg.Measures)
		assert.Equal(t, schema.GroupBuilder, cfg.Builder)
	})

	t.Run("class override", func(t *testing.T) {
		cfg := base()
		require.NoError(t, RevalidateExtraction(cfg, "", "", "linear"))
		assert.Equal(t, "linBugProneness0.0", cfg.ClassColumn)
	})

	t.Run("invalid builder", func(t *testing.T) {
		assert.Error(t, RevalidateExtraction(base(), "gd", "", ""))
	})
}

func TestProcessProfilingConfig(t *testing.T) {
	profile := &ProfileConfig{}
	require.NoError(t, ProcessProfilingConfig(profile, ""))
	assert.False(t, profile.Enabled)

	require.NoError(t, ProcessProfilingConfig(profile, "run"))
	assert.True(t, profile.Enabled)
	assert.Equal(t, "run", profile.Prefix)
}
