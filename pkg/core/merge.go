package core

import "sort"

// MergeRecords unions two record sets. The first record seen for a hash wins,
// scanning local before external, and the result is ordered by timestamp.
// Records with unparseable timestamps sort first; equal timestamps keep their
// scan order.
func MergeRecords(local, external []Record) []Record {
	merged := make([]Record, 0, len(local)+len(external))
	seen := make(map[string]struct{}, len(local)+len(external))
	for _, set := range [][]Record{local, external} {
		for _, r := range set {
			if _, ok := seen[r.Hash]; ok {
				continue
			}
			seen[r.Hash] = struct{}{}
			merged = append(merged, r)
		}
	}
	sort.SliceStable(merged, func(i, j int) bool {
		return recordBefore(merged[i], merged[j])
	})
	return merged
}

func recordBefore(a, b Record) bool {
	ta, okA := a.Time()
	tb, okB := b.Time()
	switch {
	case !okA && !okB:
		return false
	case !okA:
		return true
	case !okB:
		return false
	}
	return ta.Before(tb)
}

// Hashes returns the record hashes as a set.
func Hashes(records []Record) map[string]struct{} {
	out := make(map[string]struct{}, len(records))
	for _, r := range records {
		out[r.Hash] = struct{}{}
	}
	return out
}
