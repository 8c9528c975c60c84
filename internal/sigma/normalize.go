package sigma

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"gopkg.in/yaml.v3"
)

// Report column names, in output order.
const (
	ColumnPlatform       = "Platform"
	ColumnSeverity       = "Severity"
	ColumnName           = "Name"
	ColumnDescription    = "Description"
	ColumnFalsePositives = "False Positives"
	ColumnDetectionLogic = "Detection Logic"
	ColumnReferenceLinks = "Reference Links"
)

const listSeparator = "\n\n"

// ErrEmptyRule is returned for files that contain no YAML document.
var ErrEmptyRule = errors.New("rule document is empty")

// detectionKey assumes no top-level multi-line quoted scalar has a
// continuation line starting with "detection:" at column 0.
var detectionKey = regexp.MustCompile(`(?m)^detection:([^\n]*)`)

// Record is one rule flattened into report columns.
type Record struct {
	Platform       string
	Severity       string
	Name           string
	Description    string
	FalsePositives string
	DetectionLogic string
	ReferenceLinks string
}

// Columns returns the report header. Detection Logic is only present when
// includeLogic is set.
func Columns(includeLogic bool) []string {
	cols := []string{ColumnPlatform, ColumnSeverity, ColumnName, ColumnDescription, ColumnFalsePositives}
	if includeLogic {
		cols = append(cols, ColumnDetectionLogic)
	}
	return append(cols, ColumnReferenceLinks)
}

// Row returns the record's values in the same order as Columns(includeLogic).
func (r Record) Row(includeLogic bool) []string {
	row := []string{r.Platform, r.Severity, r.Name, r.Description, r.FalsePositives}
	if includeLogic {
		row = append(row, r.DetectionLogic)
	}
	return append(row, r.ReferenceLinks)
}

// RewriteDetection turns the first top-level "detection:" key into a literal
// block scalar header so the whole detection section parses as one string.
// Keys that already carry a block indicator or an inline value are left as is.
func RewriteDetection(raw []byte) []byte {
	loc := detectionKey.FindSubmatchIndex(raw)
	if loc == nil {
		return raw
	}

	rest := bytes.TrimSpace(raw[loc[2]:loc[3]])
	if len(rest) > 0 && rest[0] != '#' {
		return raw
	}

	out := make([]byte, 0, len(raw)+2)
	out = append(out, raw[:loc[2]]...)
	out = append(out, " |"...)
	return append(out, raw[loc[2]:]...)
}

// Parse rewrites the detection block and decodes the first YAML document.
func Parse(raw []byte) (Rule, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(RewriteDetection(raw), &doc); err != nil {
		return Rule{}, err
	}
	if doc.Kind == 0 || len(doc.Content) == 0 || isNull(doc.Content[0]) {
		return Rule{}, ErrEmptyRule
	}

	var rule Rule
	if err := doc.Decode(&rule); err != nil {
		return Rule{}, err
	}
	return rule, nil
}

// Normalize parses raw rule text into a report record.
func Normalize(raw []byte, includeLogic bool) (Record, error) {
	rule, err := Parse(raw)
	if err != nil {
		return Record{}, err
	}
	return rule.Record(includeLogic), nil
}

// Record maps the rule onto report columns. Absent fields become "".
func (r Rule) Record(includeLogic bool) Record {
	rec := Record{
		Platform:       r.Logsource.Product.join(),
		Severity:       r.Level,
		Name:           r.Title,
		Description:    r.Description,
		FalsePositives: r.FalsePositives.join(),
		ReferenceLinks: r.References.join(),
	}
	if includeLogic {
		rec.DetectionLogic = string(r.Detection)
	}
	return rec
}

// Load reads and normalizes a single rule file.
func Load(path string, includeLogic bool) (Record, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return Record{}, err
	}

	rec, err := Normalize(data, includeLogic)
	if err != nil {
		return Record{}, fmt.Errorf("parse rule %s: %w", path, err)
	}
	return rec, nil
}
