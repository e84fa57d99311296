// Package db connects to source and target databases to discover table names
// and to run maintenance statements on PostgreSQL.
package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// PostgresClient manages the connection to PostgreSQL
type PostgresClient struct {
	conn *pgx.Conn
}

// NewPostgresClient creates a new PostgreSQL client
func NewPostgresClient(ctx context.Context, connString string) (*PostgresClient, error) {
	conn, err := pgx.Connect(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := conn.Ping(ctx); err != nil {
		_ = conn.Close(ctx)
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresClient{conn: conn}, nil
}

// Close closes the database connection
func (c *PostgresClient) Close(ctx context.Context) error {
	return c.conn.Close(ctx)
}

// GetConnection returns the underlying connection
func (c *PostgresClient) GetConnection() *pgx.Conn {
	return c.conn
}

// PostgresLister lists base tables of a PostgreSQL database
type PostgresLister struct {
	client *PostgresClient
	schema string
}

// NewPostgresLister creates a lister. An empty schemaName lists every user schema.
func NewPostgresLister(client *PostgresClient, schemaName string) *PostgresLister {
	return &PostgresLister{
		client: client,
		schema: schemaName,
	}
}

// ListTables returns "schema.table" names ordered by schema, then table
func (l *PostgresLister) ListTables(ctx context.Context) ([]string, error) {
	query := `
		SELECT table_schema, table_name
		FROM information_schema.tables
		WHERE table_type = 'BASE TABLE'
			AND table_schema NOT IN ('pg_catalog', 'information_schema')
			AND table_schema NOT LIKE 'pg_toast%'
			AND ($1::text = '' OR table_schema = $1::text)
		ORDER BY table_schema, table_name
	`

	rows, err := l.client.GetConnection().Query(ctx, query, l.schema)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var schemaName, tableName string
		if err := rows.Scan(&schemaName, &tableName); err != nil {
			return nil, err
		}
		names = append(names, schemaName+"."+tableName)
	}

	return names, rows.Err()
}
