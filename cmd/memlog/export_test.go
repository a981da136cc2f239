package main

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/memlog/pkg/core"
)

func TestEncodeExport(t *testing.T) {
	records := []core.Record{{Hash: "a1", Task: "T-1", Summary: "s", Timestamp: "2025-01-01T00:00:00Z", Raw: "ignored"}}

	data, err := encodeExport("json", records)
	require.NoError(t, err)
	var fromJSON []map[string]any
	require.NoError(t, json.Unmarshal(data, &fromJSON))
	require.Len(t, fromJSON, 1)
	assert.Equal(t, "T-1", fromJSON[0]["task"])
	assert.NotContains(t, fromJSON[0], "Raw")
	assert.NotContains(t, fromJSON[0], "files", "empty files are omitted")

	data, err = encodeExport("yaml", records)
	require.NoError(t, err)
	var fromYAML []map[string]any
	require.NoError(t, yaml.Unmarshal(data, &fromYAML))
	assert.Equal(t, "a1", fromYAML[0]["hash"])

	_, err = encodeExport("xml", records)
	assert.Error(t, err)
}

func TestRelRecordPath_WithoutOracle(t *testing.T) {
	got := relRecordPath(t.Context(), "/repo", "/repo/journal/memory.log", nil)
	assert.Equal(t, "journal/memory.log", got)
}
