package store

// runMigrations executes all database migrations.
func (s *Store) runMigrations() error {
	migrations := []string{
		// Duels table - one row per finished or abandoned duel
		`CREATE TABLE IF NOT EXISTS duels (
			id TEXT PRIMARY KEY,
			outcome TEXT NOT NULL CHECK(outcome IN ('win', 'lose', 'abandoned')),
			player_hp INTEGER NOT NULL,
			enemy_hp INTEGER NOT NULL,
			casts INTEGER NOT NULL DEFAULT 0,
			started_at DATETIME NOT NULL,
			ended_at DATETIME NOT NULL
		)`,

		// Duel hits table - every projectile that landed during a duel
		`CREATE TABLE IF NOT EXISTS duel_hits (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			duel_id TEXT NOT NULL REFERENCES duels(id) ON DELETE CASCADE,
			sequence INTEGER NOT NULL,
			spell TEXT NOT NULL,
			target TEXT NOT NULL CHECK(target IN ('player', 'enemy')),
			damage INTEGER NOT NULL,
			hp_after INTEGER NOT NULL
		)`,

		// Settings table - stores tuning overrides as key-value pairs
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,

		// Indexes for better query performance
		`CREATE INDEX IF NOT EXISTS idx_duel_hits_duel_id ON duel_hits(duel_id)`,
		`CREATE INDEX IF NOT EXISTS idx_duels_ended_at ON duels(ended_at)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}
