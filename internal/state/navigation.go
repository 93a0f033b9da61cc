package state

import (
	"database/sql"
	"errors"

	dbutil "github.com/llehouerou/glance/internal/db"
)

type NavigationState struct {
	CurrentPath  string
	SelectedName string
	SortMode     string // "name" or "mtime"
}

func getNavigation(db *sql.DB) (*NavigationState, error) {
	row := db.QueryRow(`
		SELECT current_path, selected_name, sort_mode
		FROM navigation_state WHERE id = 1
	`)

	var state NavigationState
	var selectedName, sortMode sql.NullString

	err := row.Scan(&state.CurrentPath, &selectedName, &sortMode)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil //nolint:nilnil // no saved state is valid on first run
	}
	if err != nil {
		return nil, err
	}

	state.SelectedName = dbutil.NullStringValue(selectedName)
	state.SortMode = dbutil.NullStringValue(sortMode)

	return &state, nil
}

func saveNavigation(db *sql.DB, state NavigationState) error {
	_, err := db.Exec(`
		INSERT INTO navigation_state (id, current_path, selected_name, sort_mode)
		VALUES (1, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			current_path = excluded.current_path,
			selected_name = excluded.selected_name,
			sort_mode = excluded.sort_mode
	`, state.CurrentPath, state.SelectedName, state.SortMode)

	return err
}
