package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadInput(t *testing.T) {
	cmd := &cobra.Command{}

	t.Run("stdin", func(t *testing.T) {
		cmd.SetIn(strings.NewReader("### 积极主动\n- 一"))
		got, err := readInput(cmd, "-")
		require.NoError(t, err)
		assert.Equal(t, "### 积极主动\n- 一", got)
	})

	t.Run("blank stdin", func(t *testing.T) {
		cmd.SetIn(strings.NewReader(" \n\t"))
		_, err := readInput(cmd, "-")
		assert.ErrorIs(t, err, errNoInput)
	})

	t.Run("file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "in.md")
		require.NoError(t, os.WriteFile(path, []byte("content"), 0o600))
		got, err := readInput(cmd, path)
		require.NoError(t, err)
		assert.Equal(t, "content", got)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := readInput(cmd, filepath.Join(t.TempDir(), "nope"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestRenderMarkdown(t *testing.T) {
	assert.Empty(t, renderMarkdown("  \n", "dark", 80))

	out := renderMarkdown("### 积极主动\n- 写下三个目标", "notty", 60)
	assert.Contains(t, out, "积极主动")
	assert.Contains(t, out, "写下三个目标")

	again := renderMarkdown("### 积极主动\n- 写下三个目标", "notty", 60)
	assert.Equal(t, out, again)
}

func TestRenderMarkdown_UnknownStyleFallsBack(t *testing.T) {
	out := renderMarkdown("**bold**", "no-such-style", 10)

	assert.Contains(t, out, "bold")
}
