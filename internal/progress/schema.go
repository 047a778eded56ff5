package progress

import (
	"database/sql"
)

const currentSchemaVersion = 1

func initSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY
		);

		CREATE TABLE IF NOT EXISTS checkpoints (
			user_id TEXT NOT NULL,
			lecture_id TEXT NOT NULL,
			position REAL NOT NULL DEFAULT 0,
			duration REAL NOT NULL DEFAULT 0,
			completed INTEGER NOT NULL DEFAULT 0,
			updated_at INTEGER NOT NULL,
			PRIMARY KEY (user_id, lecture_id)
		);

		CREATE INDEX IF NOT EXISTS idx_checkpoints_user ON checkpoints(user_id, updated_at DESC);

		CREATE TABLE IF NOT EXISTS viewing_state (
			user_id TEXT PRIMARY KEY,
			last_lecture_id TEXT NOT NULL,
			updated_at INTEGER NOT NULL
		);
	`)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
		INSERT OR IGNORE INTO schema_version (version) VALUES (?)
	`, currentSchemaVersion)
	return err
}
