package formatter

import (
	"fmt"
	"io"

	"github.com/tordrt/pgmaint/internal/advisor"
	"github.com/tordrt/pgmaint/internal/script"
	"github.com/tordrt/pgmaint/internal/tables"
)

// TextFormatter writes scripts and table lists as plain text
type TextFormatter struct {
	writer io.Writer
}

// NewTextFormatter creates a new text formatter
func NewTextFormatter(w io.Writer) *TextFormatter {
	return &TextFormatter{writer: w}
}

// FormatScripts writes one script part followed by a newline
func (f *TextFormatter) FormatScripts(s script.Scripts, part script.Part) error {
	_, err := fmt.Fprintln(f.writer, s.Body(part))
	return err
}

// FormatTables writes one line per table: display schema, then name
func (f *TextFormatter) FormatTables(records []tables.Record) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(f.writer, "No tables detected yet.")
		return err
	}

	width := len(tables.DefaultSchema)
	for _, r := range records {
		if n := len(r.DisplaySchema()); n > width {
			width = n
		}
	}

	for _, r := range records {
		if _, err := fmt.Fprintf(f.writer, "%-*s  %s\n", width, r.DisplaySchema(), r.Name); err != nil {
			return err
		}
	}
	return nil
}

// FormatAdvice writes advice as labelled plain-text sections
func (f *TextFormatter) FormatAdvice(a advisor.Advice) error {
	_, _ = fmt.Fprintln(f.writer, "SUMMARY")
	_, _ = fmt.Fprintf(f.writer, "  %s\n\n", a.Summary)

	_, _ = fmt.Fprintln(f.writer, "RECOMMENDATIONS")
	for _, rec := range a.Recommendations {
		_, _ = fmt.Fprintf(f.writer, "  - %s\n", rec)
	}
	_, _ = fmt.Fprintln(f.writer)

	_, _ = fmt.Fprintln(f.writer, "RISK ASSESSMENT")
	_, err := fmt.Fprintf(f.writer, "  %s\n", a.RiskAssessment)
	return err
}
