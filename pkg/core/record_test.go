package core_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/memlog/pkg/core"
)

func TestParseRecord_Forms(t *testing.T) {
	tests := []struct {
		name string
		line string
		want core.Record
	}{
		{
			name: "Task Form",
			line: "abc123 | T-7 | fix parser | a.go, b.go | 2025-01-02T03:04:05Z",
			want: core.Record{Hash: "abc123", Task: "T-7", Summary: "fix parser", Files: "a.go, b.go", Timestamp: "2025-01-02T03:04:05Z"},
		},
		{
			name: "Plain Form",
			line: "abc123 | fix parser | a.go | 2025-01-02T03:04:05Z",
			want: core.Record{Hash: "abc123", Summary: "fix parser", Files: "a.go", Timestamp: "2025-01-02T03:04:05Z"},
		},
		{
			name: "Short Form",
			line: "abc123 | fix parser | 2025-01-02",
			want: core.Record{Hash: "abc123", Summary: "fix parser", Timestamp: "2025-01-02"},
		},
		{
			name: "Separator In Summary",
			line: "abc123 | T-7 | left | right | a.go | 2025-01-02T03:04:05Z",
			want: core.Record{Hash: "abc123", Task: "T-7", Summary: "left | right", Files: "a.go", Timestamp: "2025-01-02T03:04:05Z"},
		},
		{
			name: "Hash Only",
			line: "abc123",
			want: core.Record{Hash: "abc123"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := core.ParseRecord("  " + tt.line + "  \r")
			require.True(t, ok)
			tt.want.Raw = tt.line
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseRecords_SkipsBlankLines(t *testing.T) {
	content := "a | one | | 2025-01-01T00:00:00Z\n\n   \nb | two | x.go | 2025-01-02T00:00:00Z\n\n"

	records := core.ParseRecords(content)
	require.Len(t, records, 2)
	assert.Equal(t, "a", records[0].Hash)
	assert.Equal(t, "b", records[1].Hash)
	assert.Equal(t, []string{"x.go"}, records[1].FileList())
}

func TestRecord_LineKeepsShape(t *testing.T) {
	plain := core.Record{Hash: "a", Summary: "s", Files: "f.go", Timestamp: "2025-01-01T00:00:00Z"}
	assert.Equal(t, "a | s | f.go | 2025-01-01T00:00:00Z", plain.Line())

	tasked := plain
	tasked.Task = "T-1"
	assert.Equal(t, "a | T-1 | s | f.go | 2025-01-01T00:00:00Z", tasked.Line())

	parsed, ok := core.ParseRecord(tasked.Line())
	require.True(t, ok)
	assert.Equal(t, "T-1", parsed.Task)
	assert.Equal(t, tasked.Line(), parsed.String())
}

func TestRecord_StringPrefersRaw(t *testing.T) {
	r, ok := core.ParseRecord("a|s|f|2025-01-01")
	require.True(t, ok)
	assert.Equal(t, "a|s|f|2025-01-01", r.String())
	assert.Equal(t, "a|s|f|2025-01-01\n", core.FormatRecords([]core.Record{r}))
	assert.Empty(t, core.FormatRecords(nil))
}

func TestParseTime(t *testing.T) {
	want := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	for _, s := range []string{"2025-01-02T03:04:05Z", "2025-01-02 03:04:05 UTC", "2025-01-02T03:04:05"} {
		got, ok := core.ParseTime(s)
		require.True(t, ok, s)
		assert.True(t, want.Equal(got), s)
	}

	_, ok := core.ParseTime("yesterday")
	assert.False(t, ok)
	_, ok = core.ParseTime("")
	assert.False(t, ok)

	assert.Equal(t, "2025-01-02T03:04:05Z", core.FormatTime(want.In(time.FixedZone("X", 3600))))
}
