package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/tordrt/pgmaint/internal/advisor"
	"github.com/tordrt/pgmaint/internal/script"
	"github.com/tordrt/pgmaint/internal/tables"
)

// MarkdownFormatter formats scripts and table lists as markdown
type MarkdownFormatter struct {
	writer io.Writer
}

// NewMarkdownFormatter creates a new markdown formatter
func NewMarkdownFormatter(w io.Writer) *MarkdownFormatter {
	return &MarkdownFormatter{writer: w}
}

// FormatScripts writes the requested part, or all three parts for PartCombined
func (f *MarkdownFormatter) FormatScripts(s script.Scripts, part script.Part) error {
	_, _ = fmt.Fprintln(f.writer, "# Maintenance Script")
	_, _ = fmt.Fprintln(f.writer)

	if part != script.PartCombined {
		f.writeSQLBlock(s.Body(part))
		return nil
	}

	_, _ = fmt.Fprintln(f.writer, "## Combined")
	_, _ = fmt.Fprintln(f.writer)
	f.writeSQLBlock(s.Combined)

	_, _ = fmt.Fprintln(f.writer, "## Vacuum Only")
	_, _ = fmt.Fprintln(f.writer)
	f.writeSQLBlock(s.Vacuum)

	_, _ = fmt.Fprintln(f.writer, "## Reindex Only")
	_, _ = fmt.Fprintln(f.writer)
	f.writeSQLBlock(s.Reindex)
	return nil
}

func (f *MarkdownFormatter) writeSQLBlock(body string) {
	_, _ = fmt.Fprintln(f.writer, "```sql")
	if body != "" {
		_, _ = fmt.Fprintln(f.writer, body)
	}
	_, _ = fmt.Fprintln(f.writer, "```")
	_, _ = fmt.Fprintln(f.writer)
}

// FormatTables writes the detected tables as a markdown table
func (f *MarkdownFormatter) FormatTables(records []tables.Record) error {
	_, _ = fmt.Fprintln(f.writer, "# Detected Tables")
	_, _ = fmt.Fprintln(f.writer)

	if len(records) == 0 {
		_, _ = fmt.Fprintln(f.writer, "No tables detected yet.")
		return nil
	}

	_, _ = fmt.Fprintf(f.writer, "%d detected\n\n", len(records))
	_, _ = fmt.Fprintln(f.writer, "| Schema | Table | Raw |")
	_, _ = fmt.Fprintln(f.writer, "|--------|-------|-----|")
	for _, r := range records {
		_, _ = fmt.Fprintf(f.writer, "| %s | %s | `%s` |\n",
			escapeCell(r.DisplaySchema()), escapeCell(r.Name), r.RawName)
	}
	_, _ = fmt.Fprintln(f.writer)
	return nil
}

// FormatAdvice writes advice sections
func (f *MarkdownFormatter) FormatAdvice(a advisor.Advice) error {
	_, _ = fmt.Fprintln(f.writer, "# DBA Analysis")
	_, _ = fmt.Fprintln(f.writer)

	_, _ = fmt.Fprintln(f.writer, "## Summary")
	_, _ = fmt.Fprintln(f.writer)
	_, _ = fmt.Fprintln(f.writer, a.Summary)
	_, _ = fmt.Fprintln(f.writer)

	_, _ = fmt.Fprintln(f.writer, "## Recommendations")
	_, _ = fmt.Fprintln(f.writer)
	for _, rec := range a.Recommendations {
		_, _ = fmt.Fprintf(f.writer, "- %s\n", rec)
	}
	_, _ = fmt.Fprintln(f.writer)

	_, _ = fmt.Fprintln(f.writer, "## Risk Assessment")
	_, _ = fmt.Fprintln(f.writer)
	_, _ = fmt.Fprintf(f.writer, "_%s_\n", a.RiskAssessment)
	return nil
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
