package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tordrt/pgmaint"
)

var (
	dbURL           string
	mysqlURL        string
	sqlitePath      string
	schemaName      string
	targetSchema    string
	dryRun          bool
	continueOnError bool
)

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "List table names from a database, one per line",
	Long: `discover prints the base tables of a PostgreSQL, MySQL or SQLite database in the
input format accepted by generate. PostgreSQL names are always schema-qualified; MySQL and
SQLite names are qualified with --target-schema when it is set.`,
	Args: cobra.NoArgs,
	RunE: runDiscover,
}

var applyCmd = &cobra.Command{
	Use:   "apply [file]",
	Short: "Run the maintenance statements against PostgreSQL",
	Long: `apply runs every VACUUM (FULL, ANALYZE) statement followed by every REINDEX TABLE
statement, one at a time. VACUUM FULL holds an exclusive lock on each table while it runs.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runApply,
}

func init() {
	discoverCmd.Flags().StringVar(&dbURL, "db-url", "", "PostgreSQL connection string")
	discoverCmd.Flags().StringVar(&mysqlURL, "mysql-url", "", "MySQL connection string")
	discoverCmd.Flags().StringVar(&sqlitePath, "sqlite", "", "SQLite database file path")
	discoverCmd.Flags().StringVarP(&schemaName, "schema", "s", "", "Schema (PostgreSQL) or database (MySQL) to list; default: all user schemas / database from URL")
	discoverCmd.Flags().StringVar(&targetSchema, "target-schema", "", "Prefix MySQL and SQLite names with this PostgreSQL schema")

	applyCmd.Flags().StringVar(&dbURL, "db-url", "", "PostgreSQL connection string (default: database.url from config)")
	applyCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Log statements without executing them")
	applyCmd.Flags().BoolVar(&continueOnError, "continue-on-error", false, "Keep going after a failed statement")
}

// resolveDiscoverURL picks the single database named by the discover flags,
// falling back to the configured database URL.
func resolveDiscoverURL() (string, error) {
	count := 0
	url := ""
	if dbURL != "" {
		count++
		url = dbURL
	}
	if mysqlURL != "" {
		count++
		url = "mysql://" + mysqlURL
	}
	if sqlitePath != "" {
		count++
		url = "sqlite://" + sqlitePath
	}

	if count > 1 {
		return "", fmt.Errorf("only one of --db-url, --mysql-url, or --sqlite can be specified")
	}
	if count == 0 {
		if cfg.Database.URL == "" {
			return "", fmt.Errorf("one of --db-url, --mysql-url, or --sqlite must be specified")
		}
		return cfg.Database.URL, nil
	}
	return url, nil
}

func runDiscover(cmd *cobra.Command, args []string) error {
	url, err := resolveDiscoverURL()
	if err != nil {
		return err
	}

	names, err := pgmaint.Discover(cmd.Context(), url, &pgmaint.DiscoverOptions{
		SchemaName:   schemaName,
		TargetSchema: targetSchema,
	})
	if err != nil {
		return fmt.Errorf("failed to discover tables: %w", err)
	}

	logger.Debug("discovered tables", "count", len(names))
	for _, name := range names {
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), name); err != nil {
			return err
		}
	}
	return nil
}

func runApply(cmd *cobra.Command, args []string) error {
	url := dbURL
	if url == "" {
		url = cfg.Database.URL
	}
	if url == "" {
		return fmt.Errorf("--db-url is required (or set database.url in the config)")
	}

	input, err := readInput(args, cmd.InOrStdin())
	if err != nil {
		return err
	}

	result := pgmaint.Build(input)
	if len(result.Tables) == 0 {
		logger.Info("no tables detected; nothing to apply")
		return nil
	}

	logger.Info("applying maintenance script", "tables", len(result.Tables), "dry_run", dryRun)
	for _, rec := range result.Tables {
		logger.Debug("queued table", "table", rec.QualifiedName())
	}
	report, err := pgmaint.Apply(cmd.Context(), url, result.Tables, &pgmaint.ApplyOptions{
		DryRun:          dryRun,
		ContinueOnError: continueOnError,
		Logger:          logger,
	})
	if report != nil {
		logger.Info("apply finished",
			"executed", len(report.Executed),
			"failed", len(report.Failed),
			"skipped", len(report.Skipped),
		)
	}
	return err
}
