package core

import (
	"strings"
	"time"
)

// FieldSeparator delimits the positional fields of a record line.
const FieldSeparator = "|"

// Record is one line of the record store.
type Record struct {
	Hash      string `json:"hash" yaml:"hash"`
	Task      string `json:"task,omitempty" yaml:"task,omitempty"`
	Summary   string `json:"summary" yaml:"summary"`
	Files     string `json:"files,omitempty" yaml:"files,omitempty"`
	Timestamp string `json:"timestamp" yaml:"timestamp"`
	Raw       string `json:"-" yaml:"-"`
}

// recordLine is one on-disk record shape. The shape is chosen by field count
// and every shape normalizes to a Record.
type recordLine interface {
	normalize(raw string) Record
}

// taskForm is hash | task | summary | files | timestamp.
type taskForm struct {
	hash, task, summary, files, timestamp string
}

// plainForm is hash | summary | files | timestamp.
type plainForm struct {
	hash, summary, files, timestamp string
}

// shortForm is hash | summary | timestamp, written by early versions.
type shortForm struct {
	hash, summary, timestamp string
}

// partialForm keeps whatever can be salvaged from a damaged line.
type partialForm struct {
	hash, timestamp string
}

func (f taskForm) normalize(raw string) Record {
	return Record{Hash: f.hash, Task: f.task, Summary: f.summary, Files: f.files, Timestamp: f.timestamp, Raw: raw}
}

func (f plainForm) normalize(raw string) Record {
	return Record{Hash: f.hash, Summary: f.summary, Files: f.files, Timestamp: f.timestamp, Raw: raw}
}

func (f shortForm) normalize(raw string) Record {
	return Record{Hash: f.hash, Summary: f.summary, Timestamp: f.timestamp, Raw: raw}
}

func (f partialForm) normalize(raw string) Record {
	return Record{Hash: f.hash, Timestamp: f.timestamp, Raw: raw}
}

func classify(fields []string) recordLine {
	n := len(fields)
	switch {
	case n >= 5:
		// Extra separators belong to the summary; the outer fields stay positional.
		return taskForm{
			hash:      fields[0],
			task:      fields[1],
			summary:   strings.Join(fields[2:n-2], " "+FieldSeparator+" "),
			files:     fields[n-2],
			timestamp: fields[n-1],
		}
	case n == 4:
		return plainForm{hash: fields[0], summary: fields[1], files: fields[2], timestamp: fields[3]}
	case n == 3:
		return shortForm{hash: fields[0], summary: fields[1], timestamp: fields[2]}
	case n == 2:
		return partialForm{hash: fields[0], timestamp: fields[1]}
	default:
		return partialForm{hash: fields[0]}
	}
}

// ParseRecord parses a single record line. It reports false for blank lines.
func ParseRecord(line string) (Record, bool) {
	raw := strings.TrimSpace(line)
	if raw == "" {
		return Record{}, false
	}
	parts := strings.Split(raw, FieldSeparator)
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return classify(parts).normalize(raw), true
}

// ParseRecords parses the whole record store content, skipping blank lines.
func ParseRecords(content string) []Record {
	var records []Record
	for _, line := range strings.Split(content, "\n") {
		if r, ok := ParseRecord(line); ok {
			records = append(records, r)
		}
	}
	return records
}

// Line serializes the record in the 4-field form, or the 5-field form when a
// task is set.
func (r Record) Line() string {
	fields := []string{r.Hash}
	if r.Task != "" {
		fields = append(fields, r.Task)
	}
	fields = append(fields, r.Summary, r.Files, r.Timestamp)
	return strings.Join(fields, " "+FieldSeparator+" ")
}

// String returns the stored line when known, so rewrites keep lines verbatim.
func (r Record) String() string {
	if r.Raw != "" {
		return r.Raw
	}
	return r.Line()
}

// FileList splits Files on commas.
func (r Record) FileList() []string {
	var out []string
	for _, f := range strings.Split(r.Files, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// Time parses Timestamp.
func (r Record) Time() (time.Time, bool) {
	return ParseTime(r.Timestamp)
}

// FormatRecords renders records one per line with a trailing newline.
func FormatRecords(records []Record) string {
	if len(records) == 0 {
		return ""
	}
	var b strings.Builder
	for _, r := range records {
		b.WriteString(r.String())
		b.WriteByte('\n')
	}
	return b.String()
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05 MST",
	"2006-01-02 15:04 MST",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseTime accepts the timestamp spellings found in both stores.
func ParseTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatTime is the canonical timestamp spelling for new entries.
func FormatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
