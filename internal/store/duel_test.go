package store

import (
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestDuelRepository_CreateAndGet(t *testing.T) {
	s := newTestStore(t)
	repo := s.Duels()

	start := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	duel := &Duel{
		ID:        "duel-1",
		Outcome:   OutcomeWin,
		PlayerHP:  84,
		EnemyHP:   0,
		Casts:     11,
		StartedAt: start,
		EndedAt:   start.Add(90 * time.Second),
		Hits: []DuelHit{
			{Spell: "wind", Target: "player", Damage: 6, HPAfter: 94},
			{Spell: "fireball", Target: "enemy", Damage: 10, HPAfter: 90},
		},
	}
	if err := repo.Create(duel); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := repo.GetByID("duel-1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Outcome != OutcomeWin || got.PlayerHP != 84 || got.Casts != 11 {
		t.Errorf("got %+v", got)
	}
	if !got.EndedAt.Equal(duel.EndedAt) {
		t.Errorf("EndedAt = %v, want %v", got.EndedAt, duel.EndedAt)
	}
	if len(got.Hits) != 2 || got.Hits[0].Spell != "wind" || got.Hits[1].HPAfter != 90 {
		t.Errorf("hits = %+v", got.Hits)
	}
}

func TestDuelRepository_GetByID_NotFound(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.Duels().GetByID("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDuelRepository_RejectsUnknownOutcome(t *testing.T) {
	s := newTestStore(t)

	now := time.Now()
	err := s.Duels().Create(&Duel{ID: "x", Outcome: "draw", StartedAt: now, EndedAt: now})
	if err == nil {
		t.Fatal("expected the outcome check constraint to fail")
	}
	if _, err := s.Duels().GetByID("x"); !errors.Is(err, ErrNotFound) {
		t.Error("failed insert should leave nothing behind")
	}
}

func TestDuelRepository_ListAndStats(t *testing.T) {
	s := newTestStore(t)
	repo := s.Duels()

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	outcomes := []string{OutcomeWin, OutcomeLose, OutcomeWin, OutcomeAbandoned}
	for i, o := range outcomes {
		d := &Duel{
			ID:        string(rune('a' + i)),
			Outcome:   o,
			StartedAt: base.Add(time.Duration(i) * time.Minute),
			EndedAt:   base.Add(time.Duration(i)*time.Minute + 30*time.Second),
		}
		if err := repo.Create(d); err != nil {
			t.Fatalf("Create %d: %v", i, err)
		}
	}

	recent, err := repo.List(2)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(recent) != 2 || recent[0].ID != "d" || recent[1].ID != "c" {
		t.Errorf("List(2) = %v, want d then c", ids(recent))
	}

	all, err := repo.List(0)
	if err != nil {
		t.Fatalf("List(0): %v", err)
	}
	if len(all) != 4 {
		t.Errorf("List(0) returned %d duels, want 4", len(all))
	}

	wins, losses, err := repo.Stats()
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if wins != 2 || losses != 1 {
		t.Errorf("Stats = %d wins %d losses, want 2 and 1", wins, losses)
	}
}

func TestDuelRepository_DeleteCascades(t *testing.T) {
	s := newTestStore(t)
	repo := s.Duels()

	now := time.Now()
	d := &Duel{
		ID: "gone", Outcome: OutcomeLose, StartedAt: now, EndedAt: now,
		Hits: []DuelHit{{Spell: "lightning", Target: "player", Damage: 10, HPAfter: 0}},
	}
	if err := repo.Create(d); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := repo.Delete("gone"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	var n int
	if err := s.DB().QueryRow(`SELECT COUNT(*) FROM duel_hits WHERE duel_id = ?`, "gone").Scan(&n); err != nil {
		t.Fatalf("count hits: %v", err)
	}
	if n != 0 {
		t.Errorf("%d hits left after deleting their duel", n)
	}

	if err := repo.Delete("gone"); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete: expected ErrNotFound, got %v", err)
	}
}

func ids(duels []*Duel) []string {
	out := make([]string, len(duels))
	for i, d := range duels {
		out[i] = d.ID
	}
	return out
}
