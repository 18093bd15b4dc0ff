//go:build database

package integration

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestAuroraWithMySQL tests run tracking with a MySQL backend.
func TestAuroraWithMySQL(t *testing.T) {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "mysql:8",
		ExposedPorts: []string{"3306/tcp"},
		Env: map[string]string{
			"MYSQL_ROOT_PASSWORD": "secret123",
			"MYSQL_DATABASE":      "aurora",
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

	connStr := fmt.Sprintf("root:secret123@tcp(%s:%s)/aurora", host, port.Port())
	exerciseRunStore(t, []string{
		"AURORA_RESULTS_BACKEND=mysql",
		"AURORA_RESULTS_DB_CONNECT=" + connStr,
	})
}

// TestAuroraWithPostgres tests run tracking with a PostgreSQL backend.
func TestAuroraWithPostgres(t *testing.T) {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:18-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_HOST_AUTH_METHOD": "trust",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).WithStartupTimeout(60 * time.Second),
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
	exerciseRunStore(t, []string{
		"AURORA_RESULTS_BACKEND=postgresql",
		"AURORA_RESULTS_DB_CONNECT=" + connStr,
	})
}

// TestAuroraWithSQLite tests run tracking with a throwaway SQLite file.
func TestAuroraWithSQLite(t *testing.T) {
	exerciseRunStore(t, []string{
		"AURORA_RESULTS_BACKEND=sqlite",
		"AURORA_RESULTS_DB_CONNECT=" + filepath.Join(t.TempDir(), "runs.db"),
	})
}

// exerciseRunStore migrates the store, tracks two retrievals and reads them back.
func exerciseRunStore(t *testing.T, env []string) {
	t.Helper()

	_, err := runAurora(t, env, "results", "clear")
	require.NoError(t, err)

	output, err := runAurora(t, env, "results", "migrate")
	require.NoError(t, err)
	assert.Contains(t, output, "migrated")

	dataDir := filepath.Join(t.TempDir(), "night")
	_, err = runAurora(t, env, "synth", dataDir)
	require.NoError(t, err)
	for range 2 {
		_, err = runAurora(t, env, "retrieve", dataDir, "--no-plots", "--output", "json")
		require.NoError(t, err)
	}

	output, err = runAurora(t, env, "results", "status")
	require.NoError(t, err)
	assert.Contains(t, output, "Connected: true")
	assert.Contains(t, output, "Total Runs: 2")

	output, err = runAurora(t, env, "results", "history", "630.0", "--output", "csv")
	require.NoError(t, err)
	assert.Contains(t, output, "OI-630.0")

	exportBase := filepath.Join(t.TempDir(), "aurora-data")
	_, err = runAurora(t, env, "results", "export", "--output-file", exportBase)
	require.NoError(t, err)
	assert.FileExists(t, exportBase+".retrieval_runs.parquet")
	assert.FileExists(t, exportBase+".line_results.parquet")

	_, err = runAurora(t, env, "results", "clear")
	require.NoError(t, err)
}
