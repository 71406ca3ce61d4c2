package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitSections_Numbered(t *testing.T) {
	text := "以下是建议\n### 1. 积极主动：\n内容A\n### 2. 以终为始\n内容B"

	sections := SplitSections(text)

	require.Len(t, sections, 2)
	assert.Equal(t, "积极主动", sections[0].HabitName)
	assert.Equal(t, "内容A\n", sections[0].RawBody)
	assert.Equal(t, "以终为始", sections[1].HabitName)
	assert.Equal(t, "内容B", sections[1].RawBody)
}

func TestSplitSections_Quoted(t *testing.T) {
	text := "> ### **积极主动**\n> - 做X\n> ### 以终为始\n> - 做Y"

	sections := SplitSections(text)

	require.Len(t, sections, 2)
	assert.Equal(t, "积极主动", sections[0].HabitName)
	assert.Equal(t, "以终为始", sections[1].HabitName)
	assert.Contains(t, sections[1].RawBody, "做Y")
}

func TestSplitSections_Plain(t *testing.T) {
	text := "### 积极主动\n- a\n### 以终为始\n- b"

	sections := SplitSections(text)

	require.Len(t, sections, 2)
	assert.Equal(t, "积极主动", sections[0].HabitName)
	assert.Equal(t, "- a\n", sections[0].RawBody)
}

func TestSplitSections_PlainMatchesNumberedCount(t *testing.T) {
	numbered := "### 1. 积极主动\n- a\n### 2. 以终为始\n- b\n### 3. 要事第一\n- c"
	plain := "### 积极主动\n- a\n### 以终为始\n- b\n### 要事第一\n- c"

	assert.Len(t, SplitSections(numbered), 3)
	assert.Len(t, SplitSections(plain), len(SplitSections(numbered)))
}

func TestSplitSections_NumberedWinsOverPlain(t *testing.T) {
	text := "### 总览\n说明\n### 1. 积极主动\n- a"

	sections := SplitSections(text)

	require.Len(t, sections, 1)
	assert.Equal(t, "积极主动", sections[0].HabitName)
}

func TestSplitSections_NoStructure(t *testing.T) {
	assert.Empty(t, SplitSections("just some text\nwithout headings"))
	assert.Empty(t, SplitSections(""))
}

func TestSplitSections_HabitNameCleanup(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"link", "### [积极主动](https://example.com)\n- a", "积极主动"},
		{"bold with colon", "### **积极主动：**\n- a", "积极主动"},
		{"half width colon", "### Be Proactive:\n- a", "Be Proactive"},
		{"numbering inside emphasis", "### **1. 积极主动**\n- a", "积极主动"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sections := SplitSections(tt.text)
			require.Len(t, sections, 1)
			assert.Equal(t, tt.want, sections[0].HabitName)
		})
	}
}

func TestSplitSections_CRLF(t *testing.T) {
	sections := SplitSections("### 1. 积极主动\r\n- a\r\n")

	require.Len(t, sections, 1)
	assert.Equal(t, "积极主动", sections[0].HabitName)
	assert.Equal(t, "- a\n", sections[0].RawBody)
}
