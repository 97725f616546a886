// Package spell defines the closed set of castable spells and how drawn
// shapes map onto them.
package spell

import (
	"errors"
	"fmt"

	"github.com/ayusman/spellcast/internal/gesture"
)

// Spell names a castable spell.
type Spell string

const (
	Fireball  Spell = "fireball"
	Lightning Spell = "lightning"
	Wind      Spell = "wind"
)

// ErrUnknownSpell is returned for a name outside the catalog.
var ErrUnknownSpell = errors.New("unknown spell")

// Def describes how a spell flies and what it does on impact.
type Def struct {
	Name   Spell   `json:"name"`
	Damage int     `json:"damage"`
	VX     float64 `json:"vx"` // pixels per second, towards the enemy
	VY     float64 `json:"vy"`
	FPS    float64 `json:"fps"`    // sprite animation rate
	Frames int     `json:"frames"` // sprite frames in the animation strip
	Loop   bool    `json:"loop"`
}

var catalog = [...]Def{
	{Name: Fireball, Damage: 10, VX: 220, FPS: 16, Frames: 2, Loop: true},
	{Name: Lightning, Damage: 10, VX: 260, FPS: 20, Frames: 4, Loop: true},
	{Name: Wind, Damage: 6, VX: 240, FPS: 18, Frames: 3, Loop: true},
}

// Lookup returns the definition of s.
func Lookup(s Spell) (Def, error) {
	for _, d := range catalog {
		if d.Name == s {
			return d, nil
		}
	}
	return Def{}, fmt.Errorf("%w: %q", ErrUnknownSpell, string(s))
}

// All returns every spell definition.
func All() []Def {
	out := make([]Def, len(catalog))
	copy(out, catalog[:])
	return out
}

// ForShape maps a recognized shape to its spell. A circle is a fireball, a
// zigzag is lightning and a slash is wind.
func ForShape(s gesture.Shape) (Spell, bool) {
	switch s {
	case gesture.ShapeCircle:
		return Fireball, true
	case gesture.ShapeLightning:
		return Lightning, true
	case gesture.ShapeLine:
		return Wind, true
	default:
		return "", false
	}
}
