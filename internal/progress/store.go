// Package progress persists per-user, per-lecture playback checkpoints so a
// lecture reopens where the viewer left off.
package progress

import (
	"database/sql"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/lectern-tui/lectern/internal/db"
)

const (
	appName    = "lectern"
	dbFileName = "lectern.db"
)

// Checkpoint is one saved playback position, keyed by (user, lecture).
type Checkpoint struct {
	UserID    string
	LectureID string
	Position  float64 // seconds
	Duration  float64 // seconds, 0 if never reported
	Completed bool
	UpdatedAt time.Time
}

// Store is the sqlite-backed checkpoint store.
type Store struct {
	db *sql.DB
}

// Open opens the store at the default XDG data location, creating the
// database and schema on first use.
func Open() (*Store, error) {
	path, err := xdg.DataFile(filepath.Join(appName, dbFileName))
	if err != nil {
		return nil, err
	}
	return OpenPath(path)
}

// OpenPath opens the store at an explicit path.
func OpenPath(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if err := initSchema(sqlDB); err != nil {
		sqlDB.Close()
		return nil, err
	}

	return &Store{db: sqlDB}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Fetch returns the checkpoint for (userID, lectureID). When none has been
// saved yet it returns a zero checkpoint: position 0 means start from the
// beginning.
func (s *Store) Fetch(userID, lectureID string) (Checkpoint, error) {
	cp := Checkpoint{UserID: userID, LectureID: lectureID}

	var updatedAt int64
	row := s.db.QueryRow(`
		SELECT position, duration, completed, updated_at
		FROM checkpoints
		WHERE user_id = ? AND lecture_id = ?
	`, userID, lectureID)
	err := row.Scan(&cp.Position, &cp.Duration, &cp.Completed, &updatedAt)
	if err == sql.ErrNoRows {
		return cp, nil
	}
	if err != nil {
		return Checkpoint{}, err
	}

	cp.UpdatedAt = time.Unix(updatedAt, 0)
	return cp, nil
}

// Save upserts a checkpoint and records the lecture as the user's most
// recently watched, in one transaction.
func (s *Store) Save(cp Checkpoint) error {
	now := time.Now()
	return db.WithTx(s.db, func(tx *sql.Tx) error {
		_, err := tx.Exec(`
			INSERT INTO checkpoints (user_id, lecture_id, position, duration, completed, updated_at)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT(user_id, lecture_id) DO UPDATE SET
				position = excluded.position,
				duration = excluded.duration,
				completed = completed OR excluded.completed,
				updated_at = excluded.updated_at
		`, cp.UserID, cp.LectureID, cp.Position, cp.Duration, cp.Completed, now.Unix())
		if err != nil {
			return err
		}

		_, err = tx.Exec(`
			INSERT INTO viewing_state (user_id, last_lecture_id, updated_at)
			VALUES (?, ?, ?)
			ON CONFLICT(user_id) DO UPDATE SET
				last_lecture_id = excluded.last_lecture_id,
				updated_at = excluded.updated_at
		`, cp.UserID, cp.LectureID, now.Unix())
		return err
	})
}

// MarkCompleted flags a lecture as finished for the user without disturbing
// the saved position.
func (s *Store) MarkCompleted(userID, lectureID string) error {
	now := time.Now()
	_, err := s.db.Exec(`
		INSERT INTO checkpoints (user_id, lecture_id, position, duration, completed, updated_at)
		VALUES (?, ?, 0, 0, 1, ?)
		ON CONFLICT(user_id, lecture_id) DO UPDATE SET
			completed = 1,
			updated_at = excluded.updated_at
	`, userID, lectureID, now.Unix())
	return err
}

// All returns every checkpoint saved for the user, keyed by lecture ID.
func (s *Store) All(userID string) (map[string]Checkpoint, error) {
	rows, err := s.db.Query(`
		SELECT lecture_id, position, duration, completed, updated_at
		FROM checkpoints
		WHERE user_id = ?
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[string]Checkpoint)
	for rows.Next() {
		cp := Checkpoint{UserID: userID}
		var updatedAt int64
		if err := rows.Scan(&cp.LectureID, &cp.Position, &cp.Duration, &cp.Completed, &updatedAt); err != nil {
			return nil, err
		}
		cp.UpdatedAt = time.Unix(updatedAt, 0)
		result[cp.LectureID] = cp
	}
	return result, rows.Err()
}

// LastWatched returns the user's most recently watched lecture ID and when
// it was last touched. Empty ID when the user has no history.
func (s *Store) LastWatched(userID string) (string, time.Time, error) {
	var lectureID sql.NullString
	var updatedAt int64

	row := s.db.QueryRow(`
		SELECT last_lecture_id, updated_at FROM viewing_state WHERE user_id = ?
	`, userID)
	err := row.Scan(&lectureID, &updatedAt)
	if err == sql.ErrNoRows {
		return "", time.Time{}, nil
	}
	if err != nil {
		return "", time.Time{}, err
	}

	return db.NullStringValue(lectureID), time.Unix(updatedAt, 0), nil
}
