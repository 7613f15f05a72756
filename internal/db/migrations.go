package db

import (
	"database/sql"
	"fmt"
)

// migrations is a list of SQL statements applied in order after schema creation.
// Each migration must be idempotent. Append new migrations at the end.
var migrations = []string{
	// Migration 1: items.category_id initially lacked ON DELETE SET NULL, so
	// category deletion failed on referencing items. Rebuilding the table is not
	// worth it for existing deployments; clearing dangling references keeps the
	// data consistent with the new schema.
	`UPDATE items SET category_id = NULL
	     WHERE category_id IS NOT NULL
	       AND category_id NOT IN (SELECT id FROM categories)`,
}

// Migrate creates the schema and runs the migrations.
func Migrate(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}

	for i, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return fmt.Errorf("running migration %d: %w", i+1, err)
		}
	}

	return nil
}
