// Package arena simulates the duel: spell projectiles crossing the field,
// edge hits, hit points and the enemy's casts.
package arena

import (
	"fmt"
	"log"
	"math"
	"time"

	"github.com/google/uuid"
	"seehuhn.de/go/geom/vec"

	"github.com/ayusman/spellcast/internal/spell"
)

// Side identifies a duelist.
type Side string

const (
	Player Side = "player"
	Enemy  Side = "enemy"
)

// Outcome is the result of a duel.
type Outcome string

const (
	OutcomeNone Outcome = ""
	OutcomeWin  Outcome = "win"
	OutcomeLose Outcome = "lose"
)

// Message returns the banner shown when the duel ends.
func (o Outcome) Message() string {
	switch o {
	case OutcomeWin:
		return "You Win!"
	case OutcomeLose:
		return "You Lose!"
	default:
		return ""
	}
}

// Config holds the arena geometry and duel rules.
type Config struct {
	Width, Height float64
	StartHP       int
	MaxHP         int
	HitMargin     float64       // distance from the edge that counts as a hit
	OffscreenPad  float64       // projectiles this far outside are dropped
	MaxStep       time.Duration // longer frame gaps are clamped
	Enemy         EnemyConfig
}

// DefaultConfig returns the standard 900x560 duel.
func DefaultConfig() Config {
	return Config{
		Width:        900,
		Height:       560,
		StartHP:      100,
		MaxHP:        999,
		HitMargin:    12,
		OffscreenPad: 64,
		MaxStep:      50 * time.Millisecond,
		Enemy:        DefaultEnemyConfig(),
	}
}

// Projectile is a spell in flight.
type Projectile struct {
	ID    uuid.UUID
	Spell spell.Spell
	Pos   vec.Vec2
	Flip  bool // flying towards the player
	Frame int

	def   spell.Def
	clock float64
}

// Velocity returns the projectile's velocity in pixels per second.
func (p *Projectile) Velocity() vec.Vec2 {
	v := vec.Vec2{X: p.def.VX, Y: p.def.VY}
	if p.Flip {
		v.X = -v.X
	}
	return v
}

func (p *Projectile) advance(dt float64) {
	p.Pos = p.Pos.Add(p.Velocity().Mul(dt))
	if p.def.FPS <= 0 || p.def.Frames <= 1 {
		return
	}
	step := 1 / p.def.FPS
	p.clock += dt
	for p.clock >= step {
		p.clock -= step
		switch {
		case p.Frame < p.def.Frames-1:
			p.Frame++
		case p.def.Loop:
			p.Frame = 0
		}
	}
}

// Hit reports a projectile reaching a duelist.
type Hit struct {
	Spell  spell.Spell
	Target Side
	Damage int
	HP     int // target's hit points after the hit
}

// Arena is a single duel. It is not safe for concurrent use.
type Arena struct {
	cfg         Config
	duelID      uuid.UUID
	startedAt   time.Time
	projectiles []*Projectile
	playerHP    int
	enemyHP     int
	outcome     Outcome
	paused      bool
	enemy       *EnemyAI
}

// New starts a duel at now.
func New(cfg Config, now time.Time) *Arena {
	a := &Arena{
		cfg:   cfg,
		enemy: NewEnemyAI(cfg.Enemy),
	}
	a.Restart(now)
	return a
}

// Restart clears the field, restores hit points and starts a new duel.
func (a *Arena) Restart(now time.Time) {
	a.duelID = uuid.New()
	a.startedAt = now
	a.projectiles = nil
	a.playerHP = a.clampHP(a.cfg.StartHP)
	a.enemyHP = a.clampHP(a.cfg.StartHP)
	a.outcome = OutcomeNone
	a.paused = false
	a.enemy.Reset()
}

// DuelID identifies the current duel.
func (a *Arena) DuelID() uuid.UUID { return a.duelID }

// StartedAt returns when the current duel began.
func (a *Arena) StartedAt() time.Time { return a.startedAt }

// HP returns the hit points of both duelists.
func (a *Arena) HP() (player, enemy int) { return a.playerHP, a.enemyHP }

// Outcome returns the duel result, OutcomeNone while it is undecided.
func (a *Arena) Outcome() Outcome { return a.outcome }

// Running reports whether the duel advances.
func (a *Arena) Running() bool { return !a.paused && a.outcome == OutcomeNone }

// SetPaused freezes or resumes the duel.
func (a *Arena) SetPaused(paused bool) { a.paused = paused }

// Projectiles returns the spells in flight.
func (a *Arena) Projectiles() []Projectile {
	out := make([]Projectile, len(a.projectiles))
	for i, p := range a.projectiles {
		out[i] = *p
	}
	return out
}

// Spawn launches a spell at pos. Flipped spells fly towards the player.
func (a *Arena) Spawn(s spell.Spell, pos vec.Vec2, flip bool) (uuid.UUID, error) {
	def, err := spell.Lookup(s)
	if err != nil {
		return uuid.Nil, fmt.Errorf("spawn: %w", err)
	}
	p := &Projectile{
		ID:    uuid.New(),
		Spell: s,
		Pos:   pos,
		Flip:  flip,
		def:   def,
	}
	a.projectiles = append(a.projectiles, p)
	return p.ID, nil
}

// Update advances the duel by dt and returns the hits it produced. Nothing
// moves while the duel is paused or decided.
func (a *Arena) Update(dt time.Duration) []Hit {
	if !a.Running() || dt <= 0 {
		return nil
	}
	if dt > a.cfg.MaxStep {
		dt = a.cfg.MaxStep
	}

	for _, c := range a.enemy.Advance(dt) {
		pos := vec.Vec2{X: a.cfg.Width - c.Offset.X, Y: a.cfg.Height/2 + c.Offset.Y}
		if _, err := a.Spawn(c.Spell, pos, true); err != nil {
			log.Printf("Enemy failed to cast %s: %v", c.Spell, err)
		}
	}

	secs := dt.Seconds()
	var hits []Hit
	kept := a.projectiles[:0]
	for i, p := range a.projectiles {
		if !a.Running() {
			kept = append(kept, a.projectiles[i:]...)
			break
		}
		p.advance(secs)

		vx := p.Velocity().X
		switch {
		case vx > 0 && p.Pos.X >= a.cfg.Width-a.cfg.HitMargin:
			hits = append(hits, a.damage(Enemy, p))
		case vx < 0 && p.Pos.X <= a.cfg.HitMargin:
			hits = append(hits, a.damage(Player, p))
		case a.offscreen(p.Pos):
		default:
			kept = append(kept, p)
		}
	}
	for i := len(kept); i < len(a.projectiles); i++ {
		a.projectiles[i] = nil
	}
	a.projectiles = kept
	return hits
}

func (a *Arena) damage(side Side, p *Projectile) Hit {
	h := Hit{Spell: p.Spell, Target: side, Damage: p.def.Damage}
	switch side {
	case Enemy:
		a.enemyHP = a.clampHP(a.enemyHP - h.Damage)
		h.HP = a.enemyHP
		if a.enemyHP <= 0 {
			a.outcome = OutcomeWin
		}
	case Player:
		a.playerHP = a.clampHP(a.playerHP - h.Damage)
		h.HP = a.playerHP
		if a.playerHP <= 0 {
			a.outcome = OutcomeLose
		}
	}
	return h
}

func (a *Arena) clampHP(hp int) int {
	return max(0, min(a.cfg.MaxHP, hp))
}

func (a *Arena) offscreen(p vec.Vec2) bool {
	pad := a.cfg.OffscreenPad
	return p.X < -pad || p.X > a.cfg.Width+pad || p.Y < -pad || p.Y > a.cfg.Height+pad
}

// ProjectileState is the wire form of a projectile.
type ProjectileState struct {
	ID    string  `json:"id"`
	Spell string  `json:"spell"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Flip  bool    `json:"flip"`
	Frame int     `json:"frame"`
}

// Snapshot is the renderable state of the duel.
type Snapshot struct {
	DuelID      string            `json:"duel_id"`
	PlayerHP    int               `json:"player_hp"`
	EnemyHP     int               `json:"enemy_hp"`
	Outcome     string            `json:"outcome,omitempty"`
	Message     string            `json:"message,omitempty"`
	Paused      bool              `json:"paused"`
	Projectiles []ProjectileState `json:"projectiles"`
}

// Snapshot captures the duel for rendering.
func (a *Arena) Snapshot() Snapshot {
	s := Snapshot{
		DuelID:      a.duelID.String(),
		PlayerHP:    a.playerHP,
		EnemyHP:     a.enemyHP,
		Outcome:     string(a.outcome),
		Message:     a.outcome.Message(),
		Paused:      a.paused,
		Projectiles: make([]ProjectileState, 0, len(a.projectiles)),
	}
	for _, p := range a.projectiles {
		s.Projectiles = append(s.Projectiles, ProjectileState{
			ID:    p.ID.String(),
			Spell: string(p.Spell),
			X:     roundTenth(p.Pos.X),
			Y:     roundTenth(p.Pos.Y),
			Flip:  p.Flip,
			Frame: p.Frame,
		})
	}
	return s
}

func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}
