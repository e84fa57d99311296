//go:build integration
// +build integration

package integration

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/tordrt/pgmaint"
	"github.com/tordrt/pgmaint/internal/db"
)

// createSQLiteFixture writes a small database with an autoincrement table,
// which makes SQLite create its internal sqlite_sequence table.
func createSQLiteFixture(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "fixture.db")
	conn, err := sql.Open("sqlite3", path)
	if err != nil {
		t.Fatalf("Failed to open SQLite: %v", err)
	}
	defer conn.Close()

	stmts := []string{
		`CREATE TABLE users (id INTEGER PRIMARY KEY AUTOINCREMENT, username TEXT UNIQUE)`,
		`CREATE TABLE orders (id INTEGER PRIMARY KEY, user_id INTEGER REFERENCES users(id))`,
		`INSERT INTO users (username) VALUES ('alice')`,
	}
	for _, stmt := range stmts {
		if _, err := conn.Exec(stmt); err != nil {
			t.Fatalf("Failed to create fixture: %v", err)
		}
	}
	return path
}

func TestSQLiteDiscovery(t *testing.T) {
	ctx := context.Background()
	path := createSQLiteFixture(t)

	client, err := db.NewSQLiteClient(ctx, path)
	if err != nil {
		t.Fatalf("Failed to connect to SQLite: %v", err)
	}
	defer client.Close()

	names, err := db.NewSQLiteLister(client, "").ListTables(ctx)
	if err != nil {
		t.Fatalf("Failed to list tables: %v", err)
	}

	if len(names) != 2 || names[0] != "orders" || names[1] != "users" {
		t.Errorf("ListTables() = %v, want [orders users]", names)
	}
	verifyNamesAbsent(t, names, []string{"sqlite_sequence"})
}

func TestSQLiteDiscoveryFeedsGenerator(t *testing.T) {
	path := createSQLiteFixture(t)

	names, err := pgmaint.Discover(context.Background(), "sqlite://"+path, &pgmaint.DiscoverOptions{TargetSchema: "legacy"})
	if err != nil {
		t.Fatalf("Discover failed: %v", err)
	}
	verifyNamesExist(t, names, []string{"legacy.orders", "legacy.users"})

	result := pgmaint.Build(names[0] + "\n" + names[1])
	want := "VACUUM (FULL, ANALYZE) \"legacy\".\"orders\";\nVACUUM (FULL, ANALYZE) \"legacy\".\"users\";"
	if result.Scripts.Vacuum != want {
		t.Errorf("Vacuum =\n%s\nwant\n%s", result.Scripts.Vacuum, want)
	}
}
