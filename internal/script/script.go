// Package script renders PostgreSQL maintenance statements for parsed table records.
package script

import (
	"fmt"
	"strings"

	"github.com/tordrt/pgmaint/internal/tables"
)

// Scripts holds the three rendered script bodies
type Scripts struct {
	Vacuum   string `json:"vacuum"`
	Reindex  string `json:"reindex"`
	Combined string `json:"combined"`
}

const (
	vacuumPrefix  = "VACUUM (FULL, ANALYZE) "
	reindexPrefix = "REINDEX TABLE "
)

// QualifiedIdentifier renders a record as a double-quoted identifier.
// Names are wrapped but not escaped; an embedded double quote passes through as-is.
func QualifiedIdentifier(r tables.Record) string {
	if r.Schema != nil {
		return fmt.Sprintf(`"%s"."%s"`, *r.Schema, r.Name)
	}
	return fmt.Sprintf(`"%s"`, r.Name)
}

// VacuumStatement returns the VACUUM FULL statement for one record
func VacuumStatement(r tables.Record) string {
	return vacuumPrefix + QualifiedIdentifier(r) + ";"
}

// ReindexStatement returns the REINDEX statement for one record
func ReindexStatement(r tables.Record) string {
	return reindexPrefix + QualifiedIdentifier(r) + ";"
}

// Generate renders the vacuum, reindex and combined scripts in list order
func Generate(records []tables.Record) Scripts {
	vacuum := make([]string, len(records))
	reindex := make([]string, len(records))
	for i, r := range records {
		vacuum[i] = VacuumStatement(r)
		reindex[i] = ReindexStatement(r)
	}

	s := Scripts{
		Vacuum:  strings.Join(vacuum, "\n"),
		Reindex: strings.Join(reindex, "\n"),
	}
	s.Combined = combine(len(records), s.Vacuum, s.Reindex)
	return s
}

func combine(count int, vacuum, reindex string) string {
	return strings.Join([]string{
		"-- DATABASE MAINTENANCE SCRIPT",
		fmt.Sprintf("-- Generated for %d tables", count),
		"",
		"-- [PART 1] VACUUM FULL",
		vacuum,
		"",
		"-- [PART 2] REINDEX",
		reindex,
	}, "\n")
}

// Statements returns every statement in execution order: all VACUUMs, then all REINDEXes
func Statements(records []tables.Record) []string {
	stmts := make([]string, 0, 2*len(records))
	for _, r := range records {
		stmts = append(stmts, VacuumStatement(r))
	}
	for _, r := range records {
		stmts = append(stmts, ReindexStatement(r))
	}
	return stmts
}

// Part selects one of the rendered script bodies
type Part string

const (
	PartCombined Part = "combined"
	PartVacuum   Part = "vacuum"
	PartReindex  Part = "reindex"
)

// ParsePart validates a part name
func ParsePart(name string) (Part, error) {
	switch p := Part(strings.ToLower(strings.TrimSpace(name))); p {
	case PartCombined, PartVacuum, PartReindex:
		return p, nil
	case "":
		return PartCombined, nil
	default:
		return "", fmt.Errorf("invalid script part: %s (must be 'combined', 'vacuum' or 'reindex')", name)
	}
}

// Body returns the script text for a part
func (s Scripts) Body(p Part) string {
	switch p {
	case PartVacuum:
		return s.Vacuum
	case PartReindex:
		return s.Reindex
	default:
		return s.Combined
	}
}
