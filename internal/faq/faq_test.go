package faq

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleFAQs = `What is certified seed?
Seed that passed the official certification process.
===
How do I store seeds?
Keep them cool and dry.

Use airtight containers for long-term storage.
===
`

func TestParse(t *testing.T) {
	entries := Parse(sampleFAQs)
	require.Len(t, entries, 2)

	assert.Equal(t, "Seed that passed the official certification process.", entries["what is certified seed?"])
	assert.Contains(t, entries["how do i store seeds?"], "airtight containers",
		"multi-line answers must be kept whole")
}

func TestParse_SkipsIncompleteBlocks(t *testing.T) {
	content := `Question without an answer
===
` + "\n===\n" + `Valid question?
Valid answer.
`

	entries := Parse(content)
	require.Len(t, entries, 1)
	assert.Equal(t, "Valid answer.", entries["valid question?"])
}

func TestLookup_Normalization(t *testing.T) {
	table := &Table{entries: Parse("what is x?\nThe answer.\n")}

	cases := []struct {
		question string
		hit      bool
	}{
		{"what is x?", true},
		{"What is X?", true},
		{"  what is x?  ", true},
		{"what is x", false}, // missing "?" is a different question
		{"what is y?", false},
	}

	for _, tc := range cases {
		answer, ok := table.Lookup(tc.question)
		assert.Equal(t, tc.hit, ok, "question %q", tc.question)
		if tc.hit {
			assert.Equal(t, "The answer.", answer)
		}
	}
}

func TestLoad_MissingFile(t *testing.T) {
	table, err := Load(filepath.Join(t.TempDir(), "nope.txt"), nil)
	require.NoError(t, err, "a missing FAQ file is not fatal")
	assert.Equal(t, 0, table.Len())

	_, ok := table.Lookup("anything")
	assert.False(t, ok)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "faqs.txt")
	require.NoError(t, os.WriteFile(path, []byte(sampleFAQs), 0o644))

	table, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, table.Len())

	answer, ok := table.Lookup(" WHAT IS CERTIFIED SEED? ")
	assert.True(t, ok)
	assert.Equal(t, "Seed that passed the official certification process.", answer)
}

func TestLookup_NilTable(t *testing.T) {
	var table *Table
	_, ok := table.Lookup("anything")
	assert.False(t, ok)
	assert.Equal(t, 0, table.Len())
}
