package core

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// HeaderPrefix starts every snapshot block.
const HeaderPrefix = "### "

var (
	memIDPattern  = regexp.MustCompile(`mem-(\d+)`)
	headerPattern = regexp.MustCompile(`^###\s+([^|]+?)\s*\|\s*(mem-\d+)`)
	commitPattern = regexp.MustCompile(`(?i)^-\s*Commit SHA:\s*(\S+)`)
	summaryLine   = regexp.MustCompile(`(?i)^-\s*Summary:\s*(.*)`)
	nextGoalLine  = regexp.MustCompile(`(?i)^-\s*Next Goal:\s*(.*)`)
)

// MemID identifies a snapshot block, e.g. "mem-007".
type MemID string

// FormatMemID zero-pads n to three digits. Larger values keep all digits.
func FormatMemID(n int) MemID {
	return MemID(fmt.Sprintf("mem-%03d", n))
}

// Number returns the numeric part of the id.
func (id MemID) Number() (int, bool) {
	m := memIDPattern.FindStringSubmatch(string(id))
	if m == nil || m[0] != string(id) {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

// SnapshotEntry is one narrative block of the snapshot store.
type SnapshotEntry struct {
	ID        MemID  `json:"id" yaml:"id"`
	Commit    string `json:"commit" yaml:"commit"`
	Summary   string `json:"summary" yaml:"summary"`
	NextGoal  string `json:"nextGoal" yaml:"nextGoal"`
	Timestamp string `json:"timestamp" yaml:"timestamp"`
	Raw       string `json:"-" yaml:"-"`
}

// Block renders the entry. Raw wins when present.
func (e SnapshotEntry) Block() string {
	if e.Raw != "" {
		return strings.TrimRight(e.Raw, "\n") + "\n"
	}
	return fmt.Sprintf("%s%s | %s\n- Commit SHA: %s\n- Summary: %s\n- Next Goal: %s\n",
		HeaderPrefix, e.Timestamp, e.ID, e.Commit, e.Summary, e.NextGoal)
}

// Snapshot is the parsed snapshot store. Preamble is any text before the first
// header; it is kept on rewrite and otherwise ignored.
type Snapshot struct {
	Preamble string
	Entries  []SnapshotEntry
}

// splitBlocks cuts content at header lines.
func splitBlocks(content string) (preamble []string, blocks [][]string) {
	if content == "" {
		return nil, nil
	}
	for _, line := range strings.Split(strings.TrimRight(content, "\n"), "\n") {
		line = strings.TrimRight(line, " \t\r")
		if strings.HasPrefix(line, HeaderPrefix) {
			blocks = append(blocks, []string{line})
			continue
		}
		if len(blocks) == 0 {
			preamble = append(preamble, line)
			continue
		}
		blocks[len(blocks)-1] = append(blocks[len(blocks)-1], line)
	}
	return preamble, blocks
}

func parseBlock(lines []string) SnapshotEntry {
	e := SnapshotEntry{Raw: strings.TrimRight(strings.Join(lines, "\n"), "\n")}
	if m := headerPattern.FindStringSubmatch(lines[0]); m != nil {
		e.Timestamp = strings.TrimSpace(m[1])
		e.ID = MemID(m[2])
	}
	for _, line := range lines[1:] {
		if m := commitPattern.FindStringSubmatch(line); m != nil {
			e.Commit = m[1]
		} else if m := summaryLine.FindStringSubmatch(line); m != nil {
			e.Summary = strings.TrimSpace(m[1])
		} else if m := nextGoalLine.FindStringSubmatch(line); m != nil {
			e.NextGoal = strings.TrimSpace(m[1])
		}
	}
	return e
}

// ParseSnapshot parses the snapshot store content.
func ParseSnapshot(content string) Snapshot {
	preamble, blocks := splitBlocks(content)
	s := Snapshot{Preamble: strings.TrimRight(strings.Join(preamble, "\n"), "\n")}
	for _, b := range blocks {
		s.Entries = append(s.Entries, parseBlock(b))
	}
	return s
}

// String renders the snapshot, preamble first.
func (s Snapshot) String() string {
	var b strings.Builder
	if s.Preamble != "" {
		b.WriteString(s.Preamble)
		b.WriteString("\n\n")
	}
	for _, e := range s.Entries {
		b.WriteString(e.Block())
	}
	return b.String()
}

// Trim keeps the last limit blocks. It reports whether anything was dropped.
func (s Snapshot) Trim(limit int) (Snapshot, bool) {
	if limit < 0 || len(s.Entries) <= limit {
		return s, false
	}
	kept := make([]SnapshotEntry, limit)
	copy(kept, s.Entries[len(s.Entries)-limit:])
	return Snapshot{Preamble: s.Preamble, Entries: kept}, true
}

// NextID scans content for every mem-NNN occurrence and returns the largest
// plus one. Empty content yields mem-001.
func NextID(content string) MemID {
	last := 0
	for _, m := range memIDPattern.FindAllStringSubmatch(content, -1) {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if n > last {
			last = n
		}
	}
	return FormatMemID(last + 1)
}

// AppendBlock concatenates a block to existing snapshot content.
func AppendBlock(content string, e SnapshotEntry) string {
	if content != "" && !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	return content + e.Block()
}
