package db

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

// Execer runs a single SQL statement. *pgx.Conn satisfies it.
type Execer interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

// ExecutorOptions controls how statements are applied
type ExecutorOptions struct {
	DryRun          bool
	ContinueOnError bool
}

// StatementError records a statement that failed
type StatementError struct {
	Statement string
	Err       error
}

func (e StatementError) Error() string {
	return fmt.Sprintf("%s: %v", e.Statement, e.Err)
}

func (e StatementError) Unwrap() error {
	return e.Err
}

// ApplyReport summarizes an Apply run
type ApplyReport struct {
	Executed []string
	Skipped  []string
	Failed   []StatementError
}

// Executor applies maintenance statements one at a time, outside any transaction
type Executor struct {
	conn   Execer
	opts   ExecutorOptions
	logger *slog.Logger
}

// NewExecutor creates an executor
func NewExecutor(conn Execer, opts ExecutorOptions, logger *slog.Logger) *Executor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Executor{conn: conn, opts: opts, logger: logger}
}

// Apply runs statements in order. Without ContinueOnError it stops at the first failure
// and returns that failure; the remaining statements are reported as skipped.
func (e *Executor) Apply(ctx context.Context, statements []string) (*ApplyReport, error) {
	report := &ApplyReport{}

	for i, stmt := range statements {
		if err := ctx.Err(); err != nil {
			report.Skipped = append(report.Skipped, statements[i:]...)
			return report, err
		}

		if e.opts.DryRun {
			e.logger.Info("dry run", "statement", stmt)
			report.Skipped = append(report.Skipped, stmt)
			continue
		}

		start := time.Now()
		if _, err := e.conn.Exec(ctx, stmt); err != nil {
			stmtErr := StatementError{Statement: stmt, Err: err}
			report.Failed = append(report.Failed, stmtErr)
			e.logger.Error("statement failed", "statement", stmt, "error", err)

			if !e.opts.ContinueOnError {
				report.Skipped = append(report.Skipped, statements[i+1:]...)
				return report, fmt.Errorf("failed to apply statement %d of %d: %w", i+1, len(statements), stmtErr)
			}
			continue
		}

		report.Executed = append(report.Executed, stmt)
		e.logger.Info("statement applied", "statement", stmt, "duration", time.Since(start).Round(time.Millisecond))
	}

	if len(report.Failed) > 0 {
		return report, fmt.Errorf("%d of %d statements failed", len(report.Failed), len(statements))
	}
	return report, nil
}
