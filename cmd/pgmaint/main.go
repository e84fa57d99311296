package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tordrt/pgmaint/internal/advisor"
	"github.com/tordrt/pgmaint/internal/config"
)

var (
	configPath string
	verbose    bool

	cfg    *config.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "pgmaint",
	Short: "Generate PostgreSQL VACUUM and REINDEX scripts from a list of table names",
	Long: `pgmaint reads a pasted list of table names (one per line, optionally schema.table),
drops headers and duplicates, and renders VACUUM (FULL, ANALYZE) and REINDEX TABLE statements
for each table. It can also ask a language model for maintenance advice, discover table names
from a live database, and apply the script to PostgreSQL.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

		loaded, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to TOML config file (optional)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(generateCmd, tablesCmd, adviseCmd, discoverCmd, applyCmd, serveCmd)
}

// readInput returns the contents of the file named in args, or stdin when no file is given or it is "-"
func readInput(args []string, stdin io.Reader) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("failed to read input file: %w", err)
	}
	return string(data), nil
}

// newAdvisorService builds the advice boundary from config. A missing API key leaves the
// service without a client, so requests return the fallback advice.
func newAdvisorService(ctx context.Context) *advisor.Service {
	var client advisor.Client

	key := cfg.Advisor.APIKey()
	if key == "" {
		logger.Warn("no advisor API key configured; advice requests will return fallback advice", "env", cfg.Advisor.APIKeyEnv)
	} else {
		gemini, err := advisor.NewGeminiClient(ctx, key, cfg.Advisor.Model)
		if err != nil {
			logger.Warn("advisor unavailable", "error", err)
		} else {
			client = gemini
		}
	}

	return advisor.NewService(client, cfg.Advisor.TimeoutDuration(), logger)
}

// parseFormat validates the --format flag
func parseFormat(format string) (markdown bool, err error) {
	switch strings.ToLower(format) {
	case "text", "":
		return false, nil
	case "markdown", "md":
		return true, nil
	default:
		return false, fmt.Errorf("invalid format: %s (must be 'text' or 'markdown')", format)
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
