package formatter

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/tordrt/pgmaint/internal/script"
	"github.com/tordrt/pgmaint/internal/tables"
)

// File names written by MultiFileFormatter
const (
	CombinedFile = "maintenance.sql"
	VacuumFile   = "vacuum.sql"
	ReindexFile  = "reindex.sql"
	TablesFile   = "_tables.md"
)

// MultiFileFormatter writes each script part and the table list to its own file in a directory
type MultiFileFormatter struct {
	OutputDir string
}

// NewMultiFileFormatter creates a new multi-file formatter
func NewMultiFileFormatter(outputDir string) *MultiFileFormatter {
	return &MultiFileFormatter{OutputDir: outputDir}
}

// Format writes maintenance.sql, vacuum.sql, reindex.sql and _tables.md
func (f *MultiFileFormatter) Format(records []tables.Record, s script.Scripts) error {
	// Create output directory if it doesn't exist
	if err := os.MkdirAll(f.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	parts := []struct {
		name string
		body string
	}{
		{CombinedFile, s.Combined},
		{VacuumFile, s.Vacuum},
		{ReindexFile, s.Reindex},
	}
	for _, p := range parts {
		if err := f.writeFile(p.name, p.body+"\n"); err != nil {
			return fmt.Errorf("failed to write %s: %w", p.name, err)
		}
	}

	if err := f.writeTables(records); err != nil {
		return fmt.Errorf("failed to write table list: %w", err)
	}
	return nil
}

func (f *MultiFileFormatter) writeFile(name, content string) error {
	return os.WriteFile(filepath.Join(f.OutputDir, name), []byte(content), 0644)
}

func (f *MultiFileFormatter) writeTables(records []tables.Record) error {
	file, err := os.Create(filepath.Join(f.OutputDir, TablesFile))
	if err != nil {
		return err
	}
	defer func() { _ = file.Close() }()

	if err := NewMarkdownFormatter(file).FormatTables(records); err != nil {
		return err
	}
	return file.Sync()
}
