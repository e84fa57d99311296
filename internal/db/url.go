package db

import (
	"errors"
	"fmt"
	"strings"
)

// Database kinds understood by ParseDatabaseURL
const (
	KindPostgres = "postgres"
	KindMySQL    = "mysql"
	KindSQLite   = "sqlite"
)

// ErrUnsupportedDatabase is returned for URLs with an unknown scheme
var ErrUnsupportedDatabase = errors.New("invalid database URL scheme (must start with postgres://, mysql://, or sqlite://)")

// ParseDatabaseURL detects the database kind and returns the driver connection string
func ParseDatabaseURL(url string) (kind, connectionStr string, err error) {
	if url == "" {
		return "", "", errors.New("database URL is required")
	}

	if strings.HasPrefix(url, "postgres://") || strings.HasPrefix(url, "postgresql://") {
		return KindPostgres, url, nil
	}

	if strings.HasPrefix(url, "mysql://") {
		// Strip mysql:// prefix for the Go MySQL driver
		return KindMySQL, strings.TrimPrefix(url, "mysql://"), nil
	}

	if strings.HasPrefix(url, "sqlite://") {
		// Strip sqlite:// prefix to get file path
		return KindSQLite, strings.TrimPrefix(url, "sqlite://"), nil
	}

	return "", "", fmt.Errorf("%w: %s", ErrUnsupportedDatabase, url)
}
