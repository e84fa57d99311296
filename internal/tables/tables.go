// Package tables turns pasted free text into a deduplicated, schema-aware list of table references.
package tables

import (
	"strings"
	"unicode"

	"github.com/google/uuid"
)

// DefaultSchema is shown for records that carry no schema qualifier
const DefaultSchema = "public"

// Record represents one parsed table reference
type Record struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Schema  *string `json:"schema,omitempty"` // nil when the line was not dot-qualified
	RawName string  `json:"rawName"`
}

// HasSchema reports whether the record was schema-qualified in the input
func (r Record) HasSchema() bool {
	return r.Schema != nil
}

// DisplaySchema returns the schema, or "public" when none was given
func (r Record) DisplaySchema() string {
	if r.Schema == nil {
		return DefaultSchema
	}
	return *r.Schema
}

// QualifiedName returns the resolved "schema.name", or just the name when unqualified.
// Unlike RawName it drops any segments past the second.
func (r Record) QualifiedName() string {
	if r.Schema == nil {
		return r.Name
	}
	return *r.Schema + "." + r.Name
}

// Parse splits raw text into table records.
//
// Blank lines and header/noise lines are skipped, duplicates of an earlier trimmed line are
// dropped, and the remaining lines are returned in first-occurrence order. Parse never fails:
// any input yields a (possibly empty) list.
func Parse(rawText string) []Record {
	seen := make(map[string]bool)
	records := make([]Record, 0)

	for _, line := range strings.Split(rawText, "\n") {
		trimmed := strings.TrimFunc(line, isTrimmable)
		if trimmed == "" || IsNoise(trimmed) {
			continue
		}
		if seen[trimmed] {
			continue
		}
		seen[trimmed] = true

		rec := splitQualified(trimmed)
		rec.ID = uuid.NewString()
		records = append(records, rec)
	}

	return records
}

// isTrimmable matches whitespace and the byte order mark editors prepend to saved files
func isTrimmable(r rune) bool {
	return unicode.IsSpace(r) || r == '\uFEFF'
}

// IsNoise reports whether a trimmed line is a header or descriptive sentence rather than a table name
func IsNoise(trimmed string) bool {
	lower := strings.ToLower(trimmed)
	return lower == "table names" ||
		strings.Contains(lower, "list of tables") ||
		strings.Contains(lower, "script")
}

// splitQualified derives name and schema from a trimmed line.
// Only the first two dot-separated segments are used; "a.b.c" yields schema "a", name "b".
func splitQualified(trimmed string) Record {
	parts := strings.Split(trimmed, ".")
	if len(parts) == 1 {
		return Record{Name: parts[0], RawName: trimmed}
	}

	schema := parts[0]
	return Record{Name: parts[1], Schema: &schema, RawName: trimmed}
}

// RawNames returns the raw name of every record, in order
func RawNames(records []Record) []string {
	names := make([]string, len(records))
	for i, r := range records {
		names[i] = r.RawName
	}
	return names
}
