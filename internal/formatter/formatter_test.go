package formatter

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tordrt/pgmaint/internal/advisor"
	"github.com/tordrt/pgmaint/internal/script"
	"github.com/tordrt/pgmaint/internal/tables"
)

func TestTextFormatTables(t *testing.T) {
	var buf bytes.Buffer
	records := tables.Parse("Cards\nworkflow.FlowStage")

	if err := NewTextFormatter(&buf).FormatTables(records); err != nil {
		t.Fatalf("FormatTables() error: %v", err)
	}

	want := "public    Cards\nworkflow  FlowStage\n"
	if buf.String() != want {
		t.Errorf("FormatTables() =\n%q\nwant\n%q", buf.String(), want)
	}
}

func TestTextFormatTablesEmpty(t *testing.T) {
	var buf bytes.Buffer

	if err := NewTextFormatter(&buf).FormatTables(nil); err != nil {
		t.Fatalf("FormatTables() error: %v", err)
	}
	if !strings.Contains(buf.String(), "No tables detected yet.") {
		t.Errorf("unexpected output %q", buf.String())
	}
}

func TestTextFormatScripts(t *testing.T) {
	var buf bytes.Buffer
	s := script.Generate(tables.Parse("Cards"))

	if err := NewTextFormatter(&buf).FormatScripts(s, script.PartVacuum); err != nil {
		t.Fatalf("FormatScripts() error: %v", err)
	}
	if buf.String() != "VACUUM (FULL, ANALYZE) \"Cards\";\n" {
		t.Errorf("FormatScripts() = %q", buf.String())
	}
}

func TestMarkdownFormatScripts(t *testing.T) {
	var buf bytes.Buffer
	s := script.Generate(tables.Parse("flow.FlowStage"))

	if err := NewMarkdownFormatter(&buf).FormatScripts(s, script.PartCombined); err != nil {
		t.Fatalf("FormatScripts() error: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"# Maintenance Script", "## Combined", "## Vacuum Only", "## Reindex Only", "```sql", `REINDEX TABLE "flow"."FlowStage";`} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestMarkdownFormatTables(t *testing.T) {
	var buf bytes.Buffer

	if err := NewMarkdownFormatter(&buf).FormatTables(tables.Parse("Cards\nflow.FlowLane")); err != nil {
		t.Fatalf("FormatTables() error: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "2 detected") {
		t.Errorf("missing count in %q", out)
	}
	if !strings.Contains(out, "| public | Cards | `Cards` |") {
		t.Errorf("missing Cards row in %q", out)
	}
	if !strings.Contains(out, "| flow | FlowLane | `flow.FlowLane` |") {
		t.Errorf("missing FlowLane row in %q", out)
	}
}

func TestMarkdownFormatAdvice(t *testing.T) {
	var buf bytes.Buffer

	if err := NewMarkdownFormatter(&buf).FormatAdvice(advisor.Fallback()); err != nil {
		t.Fatalf("FormatAdvice() error: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "Maintenance summary unavailable.") || !strings.Contains(out, "- Ensure you have a recent backup.") {
		t.Errorf("unexpected advice output %q", out)
	}
}

func TestMultiFileFormatter(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	records := tables.Parse("Cards\nflow.FlowStage")
	s := script.Generate(records)

	if err := NewMultiFileFormatter(dir).Format(records, s); err != nil {
		t.Fatalf("Format() error: %v", err)
	}

	wantFiles := map[string]string{
		CombinedFile: s.Combined + "\n",
		VacuumFile:   s.Vacuum + "\n",
		ReindexFile:  s.Reindex + "\n",
	}
	for name, want := range wantFiles {
		got, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			t.Fatalf("read %s: %v", name, err)
		}
		if string(got) != want {
			t.Errorf("%s =\n%s\nwant\n%s", name, got, want)
		}
	}

	list, err := os.ReadFile(filepath.Join(dir, TablesFile))
	if err != nil {
		t.Fatalf("read %s: %v", TablesFile, err)
	}
	if !strings.Contains(string(list), "FlowStage") {
		t.Errorf("%s missing FlowStage: %s", TablesFile, list)
	}
}
