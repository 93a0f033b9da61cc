package state

import (
	"database/sql"
	"time"

	dbutil "github.com/llehouerou/glance/internal/db"
)

// maxRecents bounds the recently-viewed list.
const maxRecents = 100

// Recent is one entry of the recently-viewed image list.
type Recent struct {
	Path     string
	ViewedAt time.Time
}

func addRecent(sqlDB *sql.DB, path string) error {
	return dbutil.WithTx(sqlDB, func(tx *sql.Tx) error {
		_, err := tx.Exec(`
			INSERT INTO recent_images (path, viewed_at)
			VALUES (?, ?)
			ON CONFLICT(path) DO UPDATE SET
				viewed_at = excluded.viewed_at
		`, path, time.Now().Unix())
		if err != nil {
			return err
		}

		// Prune entries that fell off the end of the list.
		_, err = tx.Exec(`
			DELETE FROM recent_images
			WHERE id NOT IN (
				SELECT id FROM recent_images
				ORDER BY viewed_at DESC
				LIMIT ?
			)
		`, maxRecents)
		return err
	})
}

func listRecents(db *sql.DB, limit int) ([]Recent, error) {
	if limit <= 0 || limit > maxRecents {
		limit = maxRecents
	}

	rows, err := db.Query(`
		SELECT path, viewed_at
		FROM recent_images
		ORDER BY viewed_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recents []Recent
	for rows.Next() {
		var r Recent
		var viewedAt int64
		if err := rows.Scan(&r.Path, &viewedAt); err != nil {
			return nil, err
		}
		r.ViewedAt = time.Unix(viewedAt, 0)
		recents = append(recents, r)
	}

	return recents, rows.Err()
}
