package iocache

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/huangsam/proneness/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetGlobals() {
	initOnce = sync.Once{}
	closeOnce = sync.Once{}
	Manager = &StoreManager{}
}

func TestInitStores(t *testing.T) {
	t.Run("sqlite cache and datasets", func(t *testing.T) {
		resetGlobals()
		dir := t.TempDir()
		cachePath := filepath.Join(dir, "cache.db")
		err := InitStores(schema.SQLiteBackend, cachePath, schema.SQLiteBackend, filepath.Join(dir, "datasets.db"))
		require.NoError(t, err)

		assert.NotNil(t, Manager.GetCommitStore())
		assert.NotNil(t, Manager.GetDataSetStore())
		CloseStores()

		_, err = os.Stat(cachePath)
		assert.NoError(t, err, "database file should be created")
	})

	t.Run("idempotent", func(t *testing.T) {
		resetGlobals()
		assert.NoError(t, InitStores(schema.NoneBackend, "", "", ""))
		assert.NoError(t, InitStores(schema.SQLiteBackend, "/nonexistent/dir/cache.db", "", ""))
		assert.Nil(t, Manager.GetDataSetStore())
		CloseStores()
		CloseStores()
	})

	t.Run("invalid backend", func(t *testing.T) {
		resetGlobals()
		err := InitStores(schema.DatabaseBackend("redis"), "", "", "")
		assert.Error(t, err)
	})
}

func TestClearCache(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "cache.db")
	require.NoError(t, os.WriteFile(dbPath, []byte("x"), 0o644))

	require.NoError(t, ClearCache(schema.SQLiteBackend, dbPath, ""))
	_, err := os.Stat(dbPath)
	assert.True(t, os.IsNotExist(err))

	assert.NoError(t, ClearCache(schema.SQLiteBackend, dbPath, ""), "missing file is fine")
	assert.Error(t, ClearCache(schema.SQLiteBackend, "", ""))
	assert.NoError(t, ClearDataSets(schema.NoneBackend, "", ""))
	assert.Error(t, ClearDataSets(schema.DatabaseBackend("redis"), "", ""))
}
