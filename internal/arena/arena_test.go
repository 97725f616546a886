package arena

import (
	"errors"
	"math"
	"testing"
	"time"

	"seehuhn.de/go/geom/vec"

	"github.com/ayusman/spellcast/internal/spell"
)

var t0 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// quietConfig returns an arena whose enemy never casts.
func quietConfig() Config {
	cfg := DefaultConfig()
	cfg.Enemy.Moves = nil
	return cfg
}

// run advances the arena in 50ms frames for d and collects the hits.
func run(a *Arena, d time.Duration) []Hit {
	var hits []Hit
	for elapsed := time.Duration(0); elapsed < d; elapsed += 50 * time.Millisecond {
		hits = append(hits, a.Update(50*time.Millisecond)...)
	}
	return hits
}

func TestArena_PlayerSpellHitsEnemy(t *testing.T) {
	a := New(quietConfig(), t0)
	if _, err := a.Spawn(spell.Fireball, vec.Vec2{X: 40, Y: 200}, false); err != nil {
		t.Fatalf("Spawn: %v", err)
	}

	// 848px at 220px/s takes a little under 3.9s.
	hits := run(a, 4*time.Second)

	if len(hits) != 1 {
		t.Fatalf("got %d hits, want 1", len(hits))
	}
	if h := hits[0]; h.Target != Enemy || h.Damage != 10 || h.HP != 90 {
		t.Errorf("hit %+v, want 10 damage to the enemy leaving 90", h)
	}
	if len(a.Projectiles()) != 0 {
		t.Error("projectile should be consumed by the hit")
	}
}

func TestArena_EnemySpellHitsPlayer(t *testing.T) {
	a := New(quietConfig(), t0)
	a.Spawn(spell.Wind, vec.Vec2{X: 100, Y: 300}, true)

	hits := run(a, time.Second)

	if len(hits) != 1 || hits[0].Target != Player || hits[0].HP != 94 {
		t.Fatalf("hits %+v, want one wind hit on the player leaving 94", hits)
	}
	if p, e := a.HP(); p != 94 || e != 100 {
		t.Errorf("HP = %d/%d, want 94/100", p, e)
	}
}

func TestArena_Outcome(t *testing.T) {
	tests := []struct {
		name    string
		flip    bool
		want    Outcome
		message string
	}{
		{"win", false, OutcomeWin, "You Win!"},
		{"lose", true, OutcomeLose, "You Lose!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := quietConfig()
			cfg.StartHP = 10
			a := New(cfg, t0)

			x := 800.0
			if tt.flip {
				x = 100
			}
			a.Spawn(spell.Lightning, vec.Vec2{X: x, Y: 250}, tt.flip)
			a.Spawn(spell.Lightning, vec.Vec2{X: x - 1, Y: 250}, tt.flip)
			run(a, time.Second)

			if a.Outcome() != tt.want || a.Outcome().Message() != tt.message {
				t.Fatalf("outcome %q, want %q", a.Outcome(), tt.want)
			}
			if a.Running() {
				t.Error("a decided duel should not run")
			}
			if hits := a.Update(50 * time.Millisecond); hits != nil {
				t.Errorf("decided duel still produced hits %v", hits)
			}
			p, e := a.HP()
			if p < 0 || e < 0 {
				t.Errorf("HP went negative: %d/%d", p, e)
			}
		})
	}
}

func TestArena_FrameStepIsCapped(t *testing.T) {
	a := New(quietConfig(), t0)
	a.Spawn(spell.Fireball, vec.Vec2{X: 100, Y: 200}, false)

	a.Update(2 * time.Second)

	got := a.Projectiles()[0].Pos.X
	if want := 100 + 220*0.05; math.Abs(got-want) > 1e-9 {
		t.Errorf("x = %f after a long frame, want %f", got, want)
	}
}

func TestArena_Paused(t *testing.T) {
	a := New(quietConfig(), t0)
	a.Spawn(spell.Wind, vec.Vec2{X: 300, Y: 200}, false)

	a.SetPaused(true)
	run(a, time.Second)
	if got := a.Projectiles()[0].Pos.X; got != 300 {
		t.Errorf("paused projectile moved to %f", got)
	}

	a.SetPaused(false)
	a.Update(50 * time.Millisecond)
	if got := a.Projectiles()[0].Pos.X; got <= 300 {
		t.Errorf("resumed projectile stayed at %f", got)
	}
}

func TestArena_OffscreenRemoved(t *testing.T) {
	a := New(quietConfig(), t0)
	a.Spawn(spell.Wind, vec.Vec2{X: 400, Y: -100}, false)
	a.Spawn(spell.Wind, vec.Vec2{X: 400, Y: 200}, false)

	a.Update(50 * time.Millisecond)

	ps := a.Projectiles()
	if len(ps) != 1 || ps[0].Pos.Y != 200 {
		t.Errorf("projectiles %+v, want only the on-screen one", ps)
	}
}

func TestArena_Animation(t *testing.T) {
	a := New(quietConfig(), t0)
	a.Spawn(spell.Fireball, vec.Vec2{X: 100, Y: 200}, false)

	a.Update(50 * time.Millisecond)
	if f := a.Projectiles()[0].Frame; f != 0 {
		t.Errorf("frame %d after 50ms, want 0", f)
	}
	a.Update(50 * time.Millisecond)
	if f := a.Projectiles()[0].Frame; f != 1 {
		t.Errorf("frame %d after 100ms, want 1", f)
	}
	a.Update(50 * time.Millisecond)
	if f := a.Projectiles()[0].Frame; f != 0 {
		t.Errorf("frame %d after 150ms, want 0 (looped)", f)
	}
}

func TestArena_HPClamped(t *testing.T) {
	cfg := quietConfig()
	cfg.StartHP = 5000
	a := New(cfg, t0)

	if p, e := a.HP(); p != 999 || e != 999 {
		t.Errorf("HP = %d/%d, want 999/999", p, e)
	}
}

func TestArena_SpawnUnknown(t *testing.T) {
	a := New(quietConfig(), t0)
	if _, err := a.Spawn("frostbolt", vec.Vec2{}, false); !errors.Is(err, spell.ErrUnknownSpell) {
		t.Errorf("expected ErrUnknownSpell, got %v", err)
	}
}

func TestArena_Restart(t *testing.T) {
	a := New(quietConfig(), t0)
	first := a.DuelID()
	a.Spawn(spell.Wind, vec.Vec2{X: 100, Y: 300}, true)
	run(a, time.Second)

	later := t0.Add(time.Minute)
	a.Restart(later)

	if a.DuelID() == first || !a.StartedAt().Equal(later) {
		t.Error("restart should begin a new duel")
	}
	if p, e := a.HP(); p != 100 || e != 100 {
		t.Errorf("HP = %d/%d, want 100/100", p, e)
	}
	if len(a.Projectiles()) != 0 || a.Outcome() != OutcomeNone {
		t.Error("restart should clear the field")
	}
}

func TestArena_EnemyCastsAfterGrace(t *testing.T) {
	a := New(DefaultConfig(), t0)

	run(a, 2450*time.Millisecond)
	if n := len(a.Projectiles()); n != 0 {
		t.Fatalf("enemy cast %d spells during the grace period", n)
	}

	a.Update(50 * time.Millisecond)
	ps := a.Projectiles()
	if len(ps) != 1 {
		t.Fatalf("got %d projectiles after the grace period, want 1", len(ps))
	}
	p := ps[0]
	if !p.Flip || p.Pos.X >= 860 {
		t.Errorf("enemy projectile %+v should fly left from x=860", p)
	}
	if p.Pos.Y != 340 && p.Pos.Y != 250 {
		t.Errorf("enemy projectile y = %f, want 340 (wind) or 250 (lightning)", p.Pos.Y)
	}
}

func TestArena_EnemyUnknownSpellIsSkipped(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Enemy.Moves = []EnemyCast{{Spell: "meteor", Offset: vec.Vec2{X: 40}}}
	a := New(cfg, t0)

	run(a, 3*time.Second)
	if n := len(a.Projectiles()); n != 0 {
		t.Errorf("got %d projectiles from an unknown enemy spell, want 0", n)
	}
	if a.Outcome() != OutcomeNone {
		t.Errorf("outcome = %v, want the duel to continue", a.Outcome())
	}
}

func TestArena_Snapshot(t *testing.T) {
	a := New(quietConfig(), t0)
	id, _ := a.Spawn(spell.Lightning, vec.Vec2{X: 123.456, Y: 50}, true)

	s := a.Snapshot()
	if s.DuelID != a.DuelID().String() || s.PlayerHP != 100 || s.EnemyHP != 100 {
		t.Errorf("snapshot header %+v", s)
	}
	if len(s.Projectiles) != 1 {
		t.Fatalf("got %d projectiles", len(s.Projectiles))
	}
	p := s.Projectiles[0]
	if p.ID != id.String() || p.Spell != "lightning" || p.X != 123.5 || !p.Flip {
		t.Errorf("projectile state %+v", p)
	}
}
