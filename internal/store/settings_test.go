package store

import (
	"errors"
	"testing"
)

func TestSettingsRepository(t *testing.T) {
	s := newTestStore(t)
	repo := s.Settings()

	if _, err := repo.Get("cooldown_ms"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound before any write, got %v", err)
	}

	if err := repo.Set("cooldown_ms", "700"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := repo.Set("cooldown_ms", "900"); err != nil {
		t.Fatalf("Set overwrite: %v", err)
	}
	if err := repo.Set("smoother", "kalman"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	got, err := repo.Get("cooldown_ms")
	if err != nil || got != "900" {
		t.Errorf("Get = %q, %v; want 900", got, err)
	}

	all, err := repo.All()
	if err != nil {
		t.Fatalf("All: %v", err)
	}
	if len(all) != 2 || all["smoother"] != "kalman" {
		t.Errorf("All = %v", all)
	}

	if err := repo.Delete("smoother"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := repo.Delete("smoother"); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete: expected ErrNotFound, got %v", err)
	}
}
