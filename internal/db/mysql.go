package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
)

// MySQLClient manages the connection to MySQL
type MySQLClient struct {
	db *sql.DB
}

// NewMySQLClient creates a new MySQL client
func NewMySQLClient(ctx context.Context, connString string) (*MySQLClient, error) {
	db, err := sql.Open("mysql", connString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Test the connection
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &MySQLClient{db: db}, nil
}

// Close closes the database connection
func (c *MySQLClient) Close() error {
	return c.db.Close()
}

// GetDB returns the underlying database connection
func (c *MySQLClient) GetDB() *sql.DB {
	return c.db
}

// ParseDatabaseName extracts the database name from a MySQL DSN
func ParseDatabaseName(dsn string) (string, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "", fmt.Errorf("invalid MySQL DSN: %w", err)
	}
	if cfg.DBName == "" {
		return "", errors.New("MySQL DSN has no database name")
	}
	return cfg.DBName, nil
}

// MySQLLister lists base tables of one MySQL database
type MySQLLister struct {
	client       *MySQLClient
	schemaName   string
	targetSchema string
}

// NewMySQLLister creates a lister. Names are prefixed with targetSchema when it is set.
func NewMySQLLister(client *MySQLClient, schemaName, targetSchema string) *MySQLLister {
	return &MySQLLister{
		client:       client,
		schemaName:   schemaName,
		targetSchema: targetSchema,
	}
}

// ListTables returns table names ordered alphabetically
func (l *MySQLLister) ListTables(ctx context.Context) ([]string, error) {
	query := `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = ? AND table_type = 'BASE TABLE'
		ORDER BY table_name
	`

	rows, err := l.client.GetDB().QueryContext(ctx, query, l.schemaName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanNames(rows, l.targetSchema)
}

// scanNames reads a single name column, qualifying each with prefix when non-empty
func scanNames(rows *sql.Rows, prefix string) ([]string, error) {
	var names []string
	for rows.Next() {
		var tableName string
		if err := rows.Scan(&tableName); err != nil {
			return nil, err
		}
		names = append(names, qualify(prefix, tableName))
	}
	return names, rows.Err()
}

func qualify(schemaName, tableName string) string {
	if schemaName == "" {
		return tableName
	}
	return schemaName + "." + tableName
}
