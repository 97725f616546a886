package store

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNew_CreatesDatabaseAndDirectories(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "data", "spellcast.db")

	if _, err := os.Stat(dbPath); !os.IsNotExist(err) {
		t.Fatal("database file should not exist before creating store")
	}

	s, err := New(dbPath)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer s.Close()

	if _, err := os.Stat(dbPath); err != nil {
		t.Fatalf("database file should exist after New: %v", err)
	}
	if s.Path() != dbPath {
		t.Errorf("Path() = %q, want %q", s.Path(), dbPath)
	}
}

func TestNew_ReopenKeepsData(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	s, err := New(dbPath)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := s.Settings().Set("cooldown_ms", "900"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	s.Close()

	// Migrations are idempotent.
	s, err = New(dbPath)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer s.Close()

	got, err := s.Settings().Get("cooldown_ms")
	if err != nil || got != "900" {
		t.Errorf("Get() = %q, %v; want 900", got, err)
	}
}

func TestStore_Schema(t *testing.T) {
	s := newTestStore(t)

	objects := []struct {
		kind string
		name string
	}{
		{"table", "duels"},
		{"table", "duel_hits"},
		{"table", "settings"},
		{"index", "idx_duel_hits_duel_id"},
		{"index", "idx_duels_ended_at"},
	}
	for _, o := range objects {
		t.Run(o.name, func(t *testing.T) {
			var name string
			err := s.DB().QueryRow(
				"SELECT name FROM sqlite_master WHERE type=? AND name=?",
				o.kind, o.name,
			).Scan(&name)
			if err != nil {
				t.Errorf("%s %q should exist after migrations: %v", o.kind, o.name, err)
			}
		})
	}
}

func TestStore_ForeignKeysOnEveryConnection(t *testing.T) {
	s := newTestStore(t)
	s.DB().SetMaxIdleConns(0)

	for i := 0; i < 3; i++ {
		var enabled int
		if err := s.DB().QueryRow("PRAGMA foreign_keys").Scan(&enabled); err != nil {
			t.Fatalf("failed to check foreign keys pragma: %v", err)
		}
		if enabled != 1 {
			t.Fatalf("connection %d: foreign keys should be enabled", i)
		}
	}
}

func TestStore_Close(t *testing.T) {
	s, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if err := s.Close(); err != nil {
		t.Errorf("close should not return error: %v", err)
	}
	if _, err := s.DB().Exec("SELECT 1"); err == nil {
		t.Error("DB operations should fail after close")
	}
}
