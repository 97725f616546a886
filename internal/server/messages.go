package server

import (
	"math"

	"seehuhn.de/go/geom/vec"

	"github.com/ayusman/spellcast/internal/arena"
	"github.com/ayusman/spellcast/internal/caster"
)

// Message types pushed over /api/events.
const (
	TypeCast    = "cast"
	TypeDrawing = "drawing"
	TypeTrail   = "trail"
	TypeArena   = "arena"
	TypeHit     = "hit"
)

// Message is one event frame sent to the browser.
type Message struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// Point is a wire-friendly 2D point.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type castPayload struct {
	ID         string  `json:"id"`
	Spell      string  `json:"spell"`
	Shape      string  `json:"shape"`
	Tier       string  `json:"tier"`
	Confidence float64 `json:"confidence"`
	Target     Point   `json:"target"`
	At         int64   `json:"at"`
}

type drawingPayload struct {
	Drawing bool  `json:"drawing"`
	At      int64 `json:"at"`
}

type hitPayload struct {
	Spell  string `json:"spell"`
	Target string `json:"target"`
	Damage int    `json:"damage"`
	HP     int    `json:"hp"`
}

// CastMessage wraps a recognized spell.
func CastMessage(e caster.CastEvent) Message {
	return Message{Type: TypeCast, Data: castPayload{
		ID:         e.ID.String(),
		Spell:      string(e.Spell),
		Shape:      e.Shape.String(),
		Tier:       e.Tier.String(),
		Confidence: math.Round(e.Confidence*1000) / 1000,
		Target:     toPoint(e.Target),
		At:         e.At.UnixMilli(),
	}}
}

// DrawingMessage wraps a drawing mode change.
func DrawingMessage(e caster.DrawingEvent) Message {
	return Message{Type: TypeDrawing, Data: drawingPayload{Drawing: e.Drawing, At: e.At.UnixMilli()}}
}

// TrailMessage carries the stroke drawn so far.
func TrailMessage(pts []vec.Vec2) Message {
	out := make([]Point, len(pts))
	for i, p := range pts {
		out[i] = toPoint(p)
	}
	return Message{Type: TypeTrail, Data: out}
}

// ArenaMessage carries a duel snapshot.
func ArenaMessage(s arena.Snapshot) Message {
	return Message{Type: TypeArena, Data: s}
}

// HitMessage reports a projectile landing.
func HitMessage(h arena.Hit) Message {
	return Message{Type: TypeHit, Data: hitPayload{
		Spell:  string(h.Spell),
		Target: string(h.Target),
		Damage: h.Damage,
		HP:     h.HP,
	}}
}

func toPoint(p vec.Vec2) Point {
	return Point{X: math.Round(p.X*10) / 10, Y: math.Round(p.Y*10) / 10}
}
