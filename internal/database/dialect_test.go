package database

import (
	"strings"
	"testing"
)

func TestDialectDriverNames(t *testing.T) {
	tests := []struct {
		name       string
		dialect    Dialect
		driver     string
		migrations string
	}{
		{name: "SQLite", dialect: NewSQLiteDialect(), driver: "sqlite3", migrations: "sqlite"},
		{name: "PostgreSQL", dialect: NewPostgresDialect(), driver: "postgres", migrations: "postgres"},
		{name: "MySQL", dialect: NewMySQLDialect(), driver: "mysql", migrations: "mysql"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.dialect.DriverName(); got != tt.driver {
				t.Errorf("DriverName() = %v, want %v", got, tt.driver)
			}
			if got := tt.dialect.MigrationsSubdir(); got != tt.migrations {
				t.Errorf("MigrationsSubdir() = %v, want %v", got, tt.migrations)
			}
		})
	}
}

func TestDialectFor(t *testing.T) {
	tests := []struct {
		databaseType string
		wantDriver   string
		wantErr      bool
	}{
		{databaseType: "", wantDriver: "sqlite3"},
		{databaseType: "sqlite", wantDriver: "sqlite3"},
		{databaseType: "PostgreSQL", wantDriver: "postgres"},
		{databaseType: "mysql", wantDriver: "mysql"},
		{databaseType: "oracle", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.databaseType, func(t *testing.T) {
			dialect, cfg, err := DialectFor(tt.databaseType, "local.db", "postgres://u@h/db")
			if (err != nil) != tt.wantErr {
				t.Fatalf("DialectFor(%q) error = %v, wantErr %v", tt.databaseType, err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if dialect.DriverName() != tt.wantDriver {
				t.Errorf("driver = %s, want %s", dialect.DriverName(), tt.wantDriver)
			}
			if tt.wantDriver == "sqlite3" && dialect.DSN(cfg) != "local.db" {
				t.Errorf("sqlite DSN = %q, want local.db", dialect.DSN(cfg))
			}
		})
	}
}

func TestRewriteQuery(t *testing.T) {
	tests := []struct {
		name     string
		dialect  Dialect
		query    string
		expected string
	}{
		{
			name:     "SQLite no change",
			dialect:  NewSQLiteDialect(),
			query:    "SELECT value FROM kv_store WHERE key = ?",
			expected: "SELECT value FROM kv_store WHERE key = ?",
		},
		{
			name:     "PostgreSQL single placeholder",
			dialect:  NewPostgresDialect(),
			query:    "SELECT value FROM kv_store WHERE key = ?",
			expected: "SELECT value FROM kv_store WHERE key = $1",
		},
		{
			name:     "PostgreSQL multiple placeholders",
			dialect:  NewPostgresDialect(),
			query:    "INSERT INTO kv_store (key, value) VALUES (?, ?)",
			expected: "INSERT INTO kv_store (key, value) VALUES ($1, $2)",
		},
		{
			name:     "MySQL no change",
			dialect:  NewMySQLDialect(),
			query:    "UPDATE kv_store SET value = ? WHERE key = ?",
			expected: "UPDATE kv_store SET value = ? WHERE key = ?",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.dialect.RewriteQuery(tt.query)
			if result != tt.expected {
				t.Errorf("RewriteQuery() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestUpsertKVPlaceholders(t *testing.T) {
	for _, dialect := range []Dialect{NewSQLiteDialect(), NewPostgresDialect(), NewMySQLDialect()} {
		t.Run(dialect.DriverName(), func(t *testing.T) {
			rewritten := dialect.RewriteQuery(dialect.UpsertKV())
			if dialect.DriverName() == "postgres" {
				if !strings.Contains(rewritten, "$1") || !strings.Contains(rewritten, "$2") {
					t.Errorf("expected numbered placeholders, got %q", rewritten)
				}
				return
			}
			if strings.Count(rewritten, "?") != 2 {
				t.Errorf("expected two placeholders, got %q", rewritten)
			}
		})
	}
}
