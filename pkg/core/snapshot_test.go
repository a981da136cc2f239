package core_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/memlog/pkg/core"
)

const sampleSnapshot = `# Memory Snapshot

Notes for humans.

### 2025-01-01T00:00:00Z | mem-001
- Commit SHA: aaa111
- Summary: first
- Next Goal: second

### 2025-01-02T00:00:00Z | mem-002
- commit sha: bbb222
- Summary: second
- Next Goal: TBD.
`

func TestParseSnapshot(t *testing.T) {
	snap := core.ParseSnapshot(sampleSnapshot)

	assert.Equal(t, "# Memory Snapshot\n\nNotes for humans.", snap.Preamble)
	require.Len(t, snap.Entries, 2)

	first := snap.Entries[0]
	assert.Equal(t, core.MemID("mem-001"), first.ID)
	assert.Equal(t, "2025-01-01T00:00:00Z", first.Timestamp)
	assert.Equal(t, "aaa111", first.Commit)
	assert.Equal(t, "first", first.Summary)
	assert.Equal(t, "second", first.NextGoal)

	assert.Equal(t, "bbb222", snap.Entries[1].Commit, "field labels are case-insensitive")
}

func TestParseSnapshot_Empty(t *testing.T) {
	snap := core.ParseSnapshot("")
	assert.Empty(t, snap.Preamble)
	assert.Empty(t, snap.Entries)
	assert.Empty(t, snap.String())
}

func TestSnapshot_TrimKeepsPreamble(t *testing.T) {
	snap := core.ParseSnapshot(sampleSnapshot)

	trimmed, changed := snap.Trim(1)
	require.True(t, changed)
	require.Len(t, trimmed.Entries, 1)
	assert.Equal(t, core.MemID("mem-002"), trimmed.Entries[0].ID)
	assert.Equal(t, snap.Preamble, trimmed.Preamble)

	out := trimmed.String()
	assert.Contains(t, out, "# Memory Snapshot")
	assert.NotContains(t, out, "mem-001")

	same, changed := snap.Trim(5)
	assert.False(t, changed)
	assert.Len(t, same.Entries, 2)
}

func TestNextID(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    core.MemID
	}{
		{"Empty", "", "mem-001"},
		{"After Nine", "### x | mem-009\n", "mem-010"},
		{"Numeric Not Lexical", "### x | mem-100\n### y | mem-099\n", "mem-101"},
		{"Mentions Count", "### x | mem-002\n- Summary: supersedes mem-007\n", "mem-008"},
		{"Past Padding", "### x | mem-999\n", "mem-1000"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, core.NextID(tt.content))
		})
	}
}

func TestMemID_Number(t *testing.T) {
	n, ok := core.MemID("mem-042").Number()
	require.True(t, ok)
	assert.Equal(t, 42, n)

	_, ok = core.MemID("mem-x").Number()
	assert.False(t, ok)
	_, ok = core.MemID("see mem-1").Number()
	assert.False(t, ok)
}

func TestAppendBlock(t *testing.T) {
	e := core.SnapshotEntry{ID: "mem-003", Commit: "ccc", Summary: "s", NextGoal: "n", Timestamp: "2025-01-03T00:00:00Z"}

	out := core.AppendBlock("### a | mem-002", e)
	assert.Equal(t, "### a | mem-002\n### 2025-01-03T00:00:00Z | mem-003\n- Commit SHA: ccc\n- Summary: s\n- Next Goal: n\n", out)

	parsed := core.ParseSnapshot(out)
	require.Len(t, parsed.Entries, 2)
	assert.Equal(t, "ccc", parsed.Entries[1].Commit)
}
