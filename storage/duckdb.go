package storage

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/marcboeker/go-duckdb/v2"
)

//go:embed schema/shifts.sql
var shiftsSchema []byte

type DuckDB = *sqlx.DB

// InitDuckDB opens the database file at path, creating it and its
// directory if needed, and applies the schema.
func InitDuckDB(path string) (DuckDB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %s", err)
		}
	}

	db, err := sqlx.Connect("duckdb", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(string(shiftsSchema)); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %s", err)
	}

	return db, nil
}
