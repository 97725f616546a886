package app

import (
	"log"
	"time"

	"github.com/ayusman/spellcast/internal/arena"
	"github.com/ayusman/spellcast/internal/caster"
	"github.com/ayusman/spellcast/internal/detector"
	"github.com/ayusman/spellcast/internal/server"
	"github.com/ayusman/spellcast/internal/store"
)

// runPipeline is the main detection loop that processes frames from the camera.
// It manages the state transitions between idle and active modes based on motion detection.
//
// Pipeline logic:
// 1. Start in idle mode (IdleFPS)
// 2. On motion, switch to active mode (ActiveFPS) and resume the duel
// 3. Run hand detection and feed the primary hand to Step
// 4. After IdleTimeoutMs without motion, return to idle and freeze the duel
func (a *App) runPipeline(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(time.Second / time.Duration(IdleFPS))
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if !a.IsEnabled() {
				continue
			}

			frame, err := a.Camera().ReadFrame()
			if err != nil {
				log.Printf("Error reading frame: %v", err)
				continue
			}

			motion, _ := a.motion.Detect(frame)
			active, changed := a.gate.Observe(motion, time.Now())
			if changed {
				fps := IdleFPS
				if active {
					fps = ActiveFPS
				}
				a.Camera().SetFPS(fps)
				ticker.Reset(time.Second / time.Duration(fps))
				a.hold(!active)
				if active {
					log.Println("Switched to active mode")
				} else {
					log.Println("Switched to idle mode")
				}
			}

			d := a.Detector()
			if !active || d == nil {
				frame.Close()
				continue
			}

			hands, err := d.Detect(frame)
			frame.Close()
			if err != nil {
				// Counts as a frame without a hand.
				log.Printf("Error detecting hands: %v", err)
				hands = nil
			}

			a.Step(time.Now(), hands)
		}
	}
}

// Step runs one frame through the caster and the duel: the primary hand
// drives drawing, a finished spell is launched, projectiles advance, and
// everything that changed is broadcast. A decided duel is stored once.
func (a *App) Step(now time.Time, hands []detector.HandLandmarks) {
	var (
		out   []server.Message
		casts []caster.CastEvent
		ended *store.Duel
	)

	a.game.Lock()
	events, err := a.caster.Tick(caster.Input{
		At:     now,
		Hand:   detector.Primary(hands),
		Width:  a.config.Arena.Width,
		Height: a.config.Arena.Height,
	})
	if err != nil {
		log.Printf("Dropping frame: %v", err)
	}

	for _, ev := range events {
		switch e := ev.(type) {
		case caster.DrawingEvent:
			out = append(out, server.DrawingMessage(e))
		case caster.CastEvent:
			if a.arena.Running() {
				if _, err := a.arena.Spawn(e.Spell, e.Target, false); err != nil {
					log.Printf("Failed to launch %s: %v", e.Spell, err)
				} else {
					a.casts++
				}
			}
			casts = append(casts, e)
			out = append(out, server.CastMessage(e))
		}
	}
	if a.caster.Mode() == caster.ModeDrawing {
		out = append(out, server.TrailMessage(a.caster.Stroke()))
	}

	var dt time.Duration
	if !a.lastStep.IsZero() {
		dt = now.Sub(a.lastStep)
	}
	a.lastStep = now

	for _, h := range a.arena.Update(dt) {
		a.hits = append(a.hits, store.DuelHit{
			Spell:   string(h.Spell),
			Target:  string(h.Target),
			Damage:  h.Damage,
			HPAfter: h.HP,
		})
		out = append(out, server.HitMessage(h))
	}

	if outcome := a.arena.Outcome(); outcome != arena.OutcomeNone && !a.recorded {
		a.recorded = true
		d := a.duelRecord(string(outcome), now)
		ended = &d
	}
	out = append(out, server.ArenaMessage(a.arena.Snapshot()))
	onCast := append([]func(caster.CastEvent){}, a.onCast...)
	a.game.Unlock()

	a.broadcast(out)

	for _, e := range casts {
		log.Printf("Cast %s: %s via %s tier, confidence %.2f", e.Spell, e.Shape, e.Tier, e.Confidence)
		for _, fn := range onCast {
			fn(e)
		}
	}
	if ended != nil {
		a.saveDuel(*ended)
	}
}
