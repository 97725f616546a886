package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned when a requested resource does not exist.
var ErrNotFound = errors.New("not found")

// Outcome values stored for a duel.
const (
	OutcomeWin       = "win"
	OutcomeLose      = "lose"
	OutcomeAbandoned = "abandoned"
)

// Duel is the record of one duel.
type Duel struct {
	ID        string    `json:"id"`
	Outcome   string    `json:"outcome"`
	PlayerHP  int       `json:"player_hp"`
	EnemyHP   int       `json:"enemy_hp"`
	Casts     int       `json:"casts"`
	StartedAt time.Time `json:"started_at"`
	EndedAt   time.Time `json:"ended_at"`
	Hits      []DuelHit `json:"hits,omitempty"`
}

// DuelHit is a projectile that landed during a duel.
type DuelHit struct {
	Spell   string `json:"spell"`
	Target  string `json:"target"`
	Damage  int    `json:"damage"`
	HPAfter int    `json:"hp_after"`
}

// DuelRepository provides access to finished duels.
type DuelRepository struct {
	db *sql.DB
}

// Duels returns the duel repository for this store.
func (s *Store) Duels() *DuelRepository {
	return &DuelRepository{db: s.db}
}

// Create inserts a duel together with its hits in one transaction.
func (r *DuelRepository) Create(d *Duel) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO duels (id, outcome, player_hp, enemy_hp, casts, started_at, ended_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		d.ID, d.Outcome, d.PlayerHP, d.EnemyHP, d.Casts, d.StartedAt, d.EndedAt,
	)
	if err != nil {
		return fmt.Errorf("insert duel: %w", err)
	}

	for i, h := range d.Hits {
		_, err := tx.Exec(
			`INSERT INTO duel_hits (duel_id, sequence, spell, target, damage, hp_after)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			d.ID, i, h.Spell, h.Target, h.Damage, h.HPAfter,
		)
		if err != nil {
			return fmt.Errorf("insert duel hit %d: %w", i, err)
		}
	}

	return tx.Commit()
}

// GetByID retrieves a duel and its hits.
func (r *DuelRepository) GetByID(id string) (*Duel, error) {
	d := &Duel{}
	err := r.db.QueryRow(
		`SELECT id, outcome, player_hp, enemy_hp, casts, started_at, ended_at
		 FROM duels WHERE id = ?`,
		id,
	).Scan(&d.ID, &d.Outcome, &d.PlayerHP, &d.EnemyHP, &d.Casts, &d.StartedAt, &d.EndedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	rows, err := r.db.Query(
		`SELECT spell, target, damage, hp_after
		 FROM duel_hits WHERE duel_id = ? ORDER BY sequence ASC`,
		id,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var h DuelHit
		if err := rows.Scan(&h.Spell, &h.Target, &h.Damage, &h.HPAfter); err != nil {
			return nil, err
		}
		d.Hits = append(d.Hits, h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return d, nil
}

// List retrieves the most recent duels, newest first, without their hits.
// A non-positive limit returns every duel.
func (r *DuelRepository) List(limit int) ([]*Duel, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := r.db.Query(
		`SELECT id, outcome, player_hp, enemy_hp, casts, started_at, ended_at
		 FROM duels ORDER BY ended_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var duels []*Duel
	for rows.Next() {
		d := &Duel{}
		if err := rows.Scan(&d.ID, &d.Outcome, &d.PlayerHP, &d.EnemyHP, &d.Casts, &d.StartedAt, &d.EndedAt); err != nil {
			return nil, err
		}
		duels = append(duels, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return duels, nil
}

// Stats counts wins and losses over all recorded duels.
func (r *DuelRepository) Stats() (wins, losses int, err error) {
	err = r.db.QueryRow(
		`SELECT
			COALESCE(SUM(CASE WHEN outcome = 'win' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN outcome = 'lose' THEN 1 ELSE 0 END), 0)
		 FROM duels`,
	).Scan(&wins, &losses)
	return wins, losses, err
}

// Delete removes a duel and, through the foreign key, its hits.
func (r *DuelRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM duels WHERE id = ?`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}
