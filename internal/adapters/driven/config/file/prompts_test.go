package file

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/habitplan/internal/core/ports/driven"
	"github.com/custodia-labs/habitplan/internal/planner"
)

func TestNewPromptStore_WithCustomDir(t *testing.T) {
	dir := t.TempDir()

	store, err := NewPromptStore(dir)

	require.NoError(t, err)
	assert.Equal(t, dir, store.Dir())
	_, err = os.Stat(filepath.Join(dir, "README.md"))
	assert.True(t, os.IsNotExist(err), "constructor must not touch the filesystem")
}

func TestNewPromptStore_DefaultDir(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("cannot determine home directory")
	}

	store, err := NewPromptStore("")

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".habitplan", "prompts"), store.Dir())
}

func TestPromptStore_Load_CreatesDefaultFiles(t *testing.T) {
	dir := t.TempDir()
	store, err := NewPromptStore(dir)
	require.NoError(t, err)

	_, err = store.Load(driven.PromptCoachSystem)
	require.NoError(t, err)

	for _, f := range []string{"coach_system.txt", "README.md"} {
		_, err := os.Stat(filepath.Join(dir, f))
		assert.NoError(t, err, "expected file %s to exist", f)
	}
}

func TestPromptStore_Load_ReturnsDefaultContent(t *testing.T) {
	store, err := NewPromptStore(t.TempDir())
	require.NoError(t, err)

	prompt, err := store.Load(driven.PromptCoachSystem)

	require.NoError(t, err)
	assert.Contains(t, prompt, "### 1. 积极主动：")
	assert.Contains(t, prompt, "### 7. 不断更新：")
	assert.Contains(t, prompt, "## 荟萃分析：")
}

func TestCoachPrompt_FormatMatchesPlanner(t *testing.T) {
	prompt := coachPrompt()
	start := strings.Index(prompt, "## 基于")
	end := strings.Index(prompt, "</输出格式>")
	require.True(t, start >= 0 && end > start)

	sections := planner.SplitSections(prompt[start:end])

	require.Len(t, sections, len(habits))
	for i, h := range habits {
		assert.Equal(t, h.name, sections[i].HabitName)
	}
}

func TestPromptStore_Load_ReturnsCustomContent(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "coach_system.txt"), []byte("custom coach"), 0600))
	store, err := NewPromptStore(dir)
	require.NoError(t, err)

	prompt, err := store.Load(driven.PromptCoachSystem)

	require.NoError(t, err)
	assert.Equal(t, "custom coach", prompt)
}

func TestPromptStore_Load_EmptyFileFallsBack(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "coach_system.txt"), []byte("  \n"), 0600))
	store, err := NewPromptStore(dir)
	require.NoError(t, err)

	prompt, err := store.Load(driven.PromptCoachSystem)

	require.NoError(t, err)
	assert.Equal(t, defaultPrompts[driven.PromptCoachSystem], prompt)
}

func TestPromptStore_Load_DeletedFileFallsBack(t *testing.T) {
	dir := t.TempDir()
	store, err := NewPromptStore(dir)
	require.NoError(t, err)
	_, err = store.Load(driven.PromptCoachSystem)
	require.NoError(t, err)

	require.NoError(t, os.Remove(filepath.Join(dir, "coach_system.txt")))
	store.Reload()
	prompt, err := store.Load(driven.PromptCoachSystem)

	require.NoError(t, err)
	assert.Equal(t, defaultPrompts[driven.PromptCoachSystem], prompt)
}

func TestPromptStore_Load_UnknownPrompt(t *testing.T) {
	store, err := NewPromptStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Load("does_not_exist")

	assert.Error(t, err)
}

func TestPromptStore_Reload_ClearsCache(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "coach_system.txt")
	require.NoError(t, os.WriteFile(path, []byte("first"), 0600))
	store, err := NewPromptStore(dir)
	require.NoError(t, err)

	prompt, err := store.Load(driven.PromptCoachSystem)
	require.NoError(t, err)
	assert.Equal(t, "first", prompt)

	require.NoError(t, os.WriteFile(path, []byte("second"), 0600))
	prompt, err = store.Load(driven.PromptCoachSystem)
	require.NoError(t, err)
	assert.Equal(t, "first", prompt, "cached value until reload")

	store.Reload()
	prompt, err = store.Load(driven.PromptCoachSystem)
	require.NoError(t, err)
	assert.Equal(t, "second", prompt)
}

func TestPromptStore_DoesNotOverwriteExistingFiles(t *testing.T) {
	dir := t.TempDir()
	readmePath := filepath.Join(dir, "README.md")
	require.NoError(t, os.WriteFile(readmePath, []byte("mine"), 0600))
	store, err := NewPromptStore(dir)
	require.NoError(t, err)

	_, err = store.Load(driven.PromptCoachSystem)
	require.NoError(t, err)

	data, err := os.ReadFile(readmePath)
	require.NoError(t, err)
	assert.Equal(t, "mine", string(data))
}

func TestPromptStore_Load_ConcurrentAccess(t *testing.T) {
	store, err := NewPromptStore(t.TempDir())
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]string, 20)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			p, err := store.Load(driven.PromptCoachSystem)
			assert.NoError(t, err)
			results[i] = p
		}(i)
	}
	wg.Wait()

	for _, r := range results {
		assert.Equal(t, results[0], r)
	}
}
