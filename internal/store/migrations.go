package store

// runMigrations executes all database migrations. Times are stored as
// Unix milliseconds.
func (s *Store) runMigrations() error {
	migrations := []string{
		// One row per run of the controller.
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			started_at INTEGER NOT NULL,
			ended_at INTEGER,
			total INTEGER NOT NULL DEFAULT 0
		)`,

		// Journal of fired gestures and side activities.
		`CREATE TABLE IF NOT EXISTS session_events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
			kind TEXT NOT NULL,
			label TEXT NOT NULL,
			fired_at INTEGER NOT NULL
		)`,

		`CREATE INDEX IF NOT EXISTS idx_session_events_session_id ON session_events(session_id)`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_started_at ON sessions(started_at)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}
