package state

import (
	"database/sql"
)

const currentSchemaVersion = 2

func initSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY
		);

		CREATE TABLE IF NOT EXISTS navigation_state (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			current_path TEXT NOT NULL,
			selected_name TEXT,
			sort_mode TEXT DEFAULT 'name'
		);

		CREATE TABLE IF NOT EXISTS recent_images (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			path TEXT NOT NULL UNIQUE,
			viewed_at INTEGER NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_recent_images_viewed ON recent_images(viewed_at DESC);
	`)
	if err != nil {
		return err
	}

	// Set initial version if not exists
	_, err = db.Exec(`
		INSERT OR IGNORE INTO schema_version (version) VALUES (?)
	`, currentSchemaVersion)
	if err != nil {
		return err
	}

	// Migration: add sort_mode column if missing
	_, _ = db.Exec(`ALTER TABLE navigation_state ADD COLUMN sort_mode TEXT DEFAULT 'name'`)

	return nil
}
