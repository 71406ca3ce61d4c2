package file

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *ConfigStore {
	t.Helper()
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	return store
}

func TestNewConfigStore_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "config")

	store, err := NewConfigStore(dir)

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "config.toml"), store.Path())
	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestNewConfigStore_DefaultDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	store, err := NewConfigStore("")

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".habitplan", "config.toml"), store.Path())
}

func TestConfigStore_TypedGetters(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Set("document.title", "Plans"))
	require.NoError(t, store.Set("document.max_retries", 5))
	require.NoError(t, store.Set("inbox.rate", 1.5))

	assert.Equal(t, "Plans", store.GetString("document.title"))
	assert.Equal(t, 5, store.GetInt("document.max_retries"))
	assert.InDelta(t, 1.5, store.GetFloat("inbox.rate"), 1e-9)
	assert.Equal(t, 0, store.GetInt("document.title"), "wrong type reads as zero")
	assert.Equal(t, "", store.GetString("missing"))
	assert.Zero(t, store.GetFloat("missing"))
}

func TestConfigStore_Get_NotFound(t *testing.T) {
	store := newTestStore(t)

	_, ok := store.Get("missing")

	assert.False(t, ok)
}

func TestConfigStore_PersistsAsTables(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Set("document.title", "Plans"))
	require.NoError(t, store.Set("llm.requests_per_minute", 30))
	require.NoError(t, store.Set("data_dir", "/tmp/hp"))

	data, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Contains(t, string(data), "[document]")
	assert.Contains(t, string(data), "[llm]")
	assert.NotContains(t, string(data), "'document.title'")
}

func TestConfigStore_ReloadKeepsTypes(t *testing.T) {
	dir := t.TempDir()
	store, err := NewConfigStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Set("document.title", "Plans"))
	require.NoError(t, store.Set("document.max_retries", 4))
	require.NoError(t, store.Set("inbox.rate", 0.5))

	reopened, err := NewConfigStore(dir)
	require.NoError(t, err)

	assert.Equal(t, "Plans", reopened.GetString("document.title"))
	assert.Equal(t, 4, reopened.GetInt("document.max_retries"))
	assert.InDelta(t, 0.5, reopened.GetFloat("inbox.rate"), 1e-9)
}

func TestConfigStore_IntegerReadAsFloat(t *testing.T) {
	dir := t.TempDir()
	content := "[inbox]\nrate = 2\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0600))

	store, err := NewConfigStore(dir)
	require.NoError(t, err)

	assert.InDelta(t, 2.0, store.GetFloat("inbox.rate"), 1e-9)
}

func TestConfigStore_Load_MissingFile(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Set("a", "b"))
	require.NoError(t, os.Remove(store.Path()))

	require.NoError(t, store.Load())

	_, ok := store.Get("a")
	assert.False(t, ok)
}

func TestConfigStore_Load_InvalidTOML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte("not [valid"), 0600))

	_, err := NewConfigStore(dir)

	assert.Error(t, err)
}

func TestConfigStore_EmptyFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), nil, 0600))

	store, err := NewConfigStore(dir)

	require.NoError(t, err)
	_, ok := store.Get("anything")
	assert.False(t, ok)
}

func TestConfigStore_FilePermissions(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Set("llm.api_key", "secret"))

	info, err := os.Stat(store.Path())

	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestConfigStore_SetFailureRollsBack(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Set("document.title", "Plans"))

	err := store.Set("document.title", make(chan int))

	require.Error(t, err)
	assert.Equal(t, "Plans", store.GetString("document.title"))
}

func TestConfigStore_Concurrency(t *testing.T) {
	store := newTestStore(t)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, store.Set("document.max_retries", i))
		}(i)
		go func() {
			defer wg.Done()
			_ = store.GetInt("document.max_retries")
		}()
	}
	wg.Wait()

	v := store.GetInt("document.max_retries")
	assert.True(t, v >= 0 && v < 10)
}

func TestFlattenAndNestMap(t *testing.T) {
	flat := map[string]any{
		"data_dir":       "/tmp",
		"document.title": "Plans",
		"llm.model":      "m",
		"llm.base_url":   "u",
	}

	nested := nestMap(flat)

	assert.Equal(t, "/tmp", nested["data_dir"])
	assert.Equal(t, map[string]any{"model": "m", "base_url": "u"}, nested["llm"])
	assert.Equal(t, flat, flattenMap(nested, ""))
}

func TestNestMap_ValueShadowsTable(t *testing.T) {
	nested := nestMap(map[string]any{"llm": "flat", "llm.model": "m"})

	assert.Equal(t, "flat", nested["llm"])
}
