package arena

import (
	"math/rand/v2"
	"time"

	"seehuhn.de/go/geom/vec"

	"github.com/ayusman/spellcast/internal/spell"
)

// EnemyCast is one move in the enemy's repertoire.
type EnemyCast struct {
	Spell spell.Spell
	// Offset places the spawn point: X pixels in from the right edge, Y
	// pixels below the vertical center.
	Offset vec.Vec2
}

// EnemyConfig controls the enemy's casting rhythm.
type EnemyConfig struct {
	Grace    time.Duration // delay before the first cast of a duel
	Interval time.Duration // time between later casts
	Seed     uint64        // picks the sequence of moves
	Moves    []EnemyCast
}

// DefaultEnemyConfig returns an enemy that alternates wind and lightning at random.
func DefaultEnemyConfig() EnemyConfig {
	return EnemyConfig{
		Grace:    2500 * time.Millisecond,
		Interval: 5500 * time.Millisecond,
		Seed:     1,
		Moves: []EnemyCast{
			{Spell: spell.Wind, Offset: vec.Vec2{X: 40, Y: 60}},
			{Spell: spell.Lightning, Offset: vec.Vec2{X: 40, Y: -30}},
		},
	}
}

// EnemyAI decides when and what the enemy casts. Time only passes while
// the duel is running.
type EnemyAI struct {
	cfg     EnemyConfig
	rng     *rand.Rand
	elapsed time.Duration
	next    time.Duration
}

// NewEnemyAI creates an enemy waiting for its grace period.
func NewEnemyAI(cfg EnemyConfig) *EnemyAI {
	e := &EnemyAI{cfg: cfg}
	e.Reset()
	return e
}

// Reset restarts the grace period and the move sequence.
func (e *EnemyAI) Reset() {
	e.rng = rand.New(rand.NewPCG(e.cfg.Seed, e.cfg.Seed^0x9e3779b97f4a7c15))
	e.elapsed = 0
	e.next = e.cfg.Grace
}

// Advance moves the enemy clock forward and returns the casts that fell due.
func (e *EnemyAI) Advance(dt time.Duration) []EnemyCast {
	if len(e.cfg.Moves) == 0 || e.cfg.Interval <= 0 {
		return nil
	}
	e.elapsed += dt

	var due []EnemyCast
	for e.elapsed >= e.next {
		due = append(due, e.cfg.Moves[e.rng.IntN(len(e.cfg.Moves))])
		e.next += e.cfg.Interval
	}
	return due
}

// UntilNext returns the time left before the next cast.
func (e *EnemyAI) UntilNext() time.Duration {
	return e.next - e.elapsed
}
