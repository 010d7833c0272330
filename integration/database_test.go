//go:build database

package integration

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestDataSetsWithMySQL runs extraction with a MySQL cache and dataset store.
func TestDataSetsWithMySQL(t *testing.T) {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "mysql:8",
		ExposedPorts: []string{"3306/tcp"},
		Env: map[string]string{
			"MYSQL_ROOT_PASSWORD": "secret123",
			"MYSQL_DATABASE":      "proneness",
		},
		WaitingFor: wait.ForLog("port: 3306  MySQL Community Server").WithStartupTimeout(60 * time.Second),
	}
	mysqlC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = mysqlC.Terminate(ctx) }()

	host, err := mysqlC.Host(ctx)
	require.NoError(t, err)
	port, err := mysqlC.MappedPort(ctx, "3306")
	require.NoError(t, err)

	connStr := fmt.Sprintf("root:secret123@tcp(%s:%s)/proneness?parseTime=true", host, port.Port())
	runDataSetFlow(t, "mysql", connStr)
}

// TestDataSetsWithPostgres runs extraction with a PostgreSQL cache and dataset store.
func TestDataSetsWithPostgres(t *testing.T) {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:18-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_HOST_AUTH_METHOD": "trust",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}
	pgC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = pgC.Terminate(ctx) }()

	host, err := pgC.Host(ctx)
	require.NoError(t, err)
	port, err := pgC.MappedPort(ctx, "5432")
	require.NoError(t, err)

	connStr := fmt.Sprintf("host=%s port=%s user=postgres dbname=postgres", host, port.Port())
	runDataSetFlow(t, "postgresql", connStr)
}

// runDataSetFlow clears both stores, extracts twice, and exports the stored run.
func runDataSetFlow(t *testing.T, backend, connStr string) {
	env := []string{
		"PRONENESS_CACHE_BACKEND=" + backend,
		"PRONENESS_CACHE_DB_CONNECT=" + connStr,
		"PRONENESS_DATASET_BACKEND=" + backend,
		"PRONENESS_DATASET_DB_CONNECT=" + connStr,
	}

	_, err := runCommand(t, env, "cache", "clear")
	require.NoError(t, err)
	_, err = runCommand(t, env, "dataset", "clear")
	require.NoError(t, err)
	_, err = runCommand(t, env, "dataset", "migrate")
	require.NoError(t, err)

	for range 2 {
		_, err = runCommand(t, env, "extract",
			"--changes-file", changesFixture,
			"--commits-file", commitsFixture,
			"--measures", "linear,weighted")
		require.NoError(t, err)
	}

	out, err := runCommand(t, env, "dataset", "list", "--output", "csv")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3, "header plus two runs")
	runID := strings.Split(lines[1], ",")[0]
	require.NotEmpty(t, runID)

	exportPath := filepath.Join(t.TempDir(), "run.arff")
	_, err = runCommand(t, env, "dataset", "export", runID, "--output", "arff", "--output-file", exportPath)
	require.NoError(t, err)

	out, err = runCommand(t, env, "read", exportPath, "--output", "csv")
	require.NoError(t, err)
	assert.Contains(t, strings.SplitN(out, "\n", 2)[0], "linBugProneness0.0")

	_, err = runCommand(t, env, "cache", "status")
	require.NoError(t, err)
	out, err = runCommand(t, env, "dataset", "status")
	require.NoError(t, err)
	assert.Contains(t, out, backend)
}
