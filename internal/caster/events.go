package caster

import (
	"time"

	"github.com/google/uuid"
	"seehuhn.de/go/geom/vec"

	"github.com/ayusman/spellcast/internal/gesture"
	"github.com/ayusman/spellcast/internal/spell"
)

// Event is emitted by the caster. It is one of CastEvent or DrawingEvent.
type Event interface {
	isEvent()
}

// CastEvent reports a recognized stroke turned into a spell.
type CastEvent struct {
	ID         uuid.UUID
	Spell      spell.Spell
	Shape      gesture.Shape
	Tier       gesture.Tier
	Confidence float64
	Target     vec.Vec2 // where the spell spawns
	At         time.Time
}

// DrawingEvent reports entering or leaving drawing mode.
type DrawingEvent struct {
	Drawing bool
	At      time.Time
}

func (CastEvent) isEvent()    {}
func (DrawingEvent) isEvent() {}
