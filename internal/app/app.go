// Package app wires the camera, hand detector, spell caster and duel arena
// into the running spellcast pipeline.
package app

import (
	"image"
	"log"
	"sync"
	"time"

	"seehuhn.de/go/geom/vec"

	"github.com/ayusman/spellcast/internal/arena"
	"github.com/ayusman/spellcast/internal/capture"
	"github.com/ayusman/spellcast/internal/caster"
	"github.com/ayusman/spellcast/internal/detector"
	"github.com/ayusman/spellcast/internal/server"
	"github.com/ayusman/spellcast/internal/store"
)

// Pipeline timing constants.
const (
	// IdleFPS is the frame rate when no motion is detected.
	IdleFPS = 5
	// ActiveFPS is the frame rate while a hand may be drawing.
	ActiveFPS = 30
	// IdleTimeoutMs is the time in milliseconds to wait before switching back to idle mode.
	IdleTimeoutMs = 2000
)

// Broadcaster receives every message the pipeline produces.
type Broadcaster interface {
	Broadcast(msg server.Message)
}

// Config holds configuration options for the application. Zero-valued
// parts fall back to their package defaults.
type Config struct {
	Store       *store.Store
	Camera      capture.CameraConfig
	Motion      capture.MotionConfig
	Arena       arena.Config
	Broadcaster Broadcaster
}

// App is the main application: it turns camera frames into spells and
// plays them out in the duel.
type App struct {
	config   Config
	camera   capture.Camera
	motion   *capture.MotionDetector
	gate     *capture.ActivityGate
	detector detector.Detector
	enabled  bool
	mu       sync.RWMutex
	stopCh   chan struct{}
	doneCh   chan struct{}

	// game guards the duel state, touched by the pipeline, the HTTP
	// handlers and the tray.
	game      sync.Mutex
	caster    *caster.Caster
	arena     *arena.Arena
	held      bool // arena paused because tracking is off or idle
	lastStep  time.Time
	casts     int
	hits      []store.DuelHit
	recorded  bool
	onCast    []func(caster.CastEvent)
	onDuelEnd []func(store.Duel)
}

// New creates a new App. Stored settings override the caster defaults; a
// stored set that no longer validates is logged and ignored.
func New(config Config) (*App, error) {
	if config.Arena.Width <= 0 || config.Arena.Height <= 0 {
		config.Arena = arena.DefaultConfig()
	}

	cfg := caster.DefaultConfig()
	if config.Store != nil {
		settings, err := config.Store.Settings().All()
		if err != nil {
			return nil, err
		}
		if err := cfg.ApplySettings(settings); err != nil {
			log.Printf("Ignoring stored settings: %v", err)
			cfg = caster.DefaultConfig()
		}
	}
	c, err := caster.New(cfg)
	if err != nil {
		return nil, err
	}

	a := &App{
		config: config,
		camera: capture.NewCamera(config.Camera),
		motion: capture.NewMotionDetector(config.Motion),
		gate:   capture.NewActivityGate(IdleTimeoutMs * time.Millisecond),
		caster: c,
		arena:  arena.New(config.Arena, time.Now()),
	}

	// Try MediaPipe first, fall back to mock detector
	if mp, err := detector.NewMediaPipeDetector(detector.DefaultConfig()); err == nil {
		a.detector = mp
		log.Println("Using MediaPipe hand detection")
	} else {
		log.Printf("MediaPipe not available (%v), using mock detector", err)
		a.detector = detector.NewMockDetector()
	}

	return a, nil
}

// SetEnabled turns hand tracking on or off. The duel is frozen while off.
func (a *App) SetEnabled(enabled bool) {
	a.mu.Lock()
	a.enabled = enabled
	a.mu.Unlock()

	a.hold(!enabled)
}

// IsEnabled returns whether hand tracking is currently enabled.
func (a *App) IsEnabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.enabled
}

// SetDetector sets the hand detector implementation to use.
func (a *App) SetDetector(d detector.Detector) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.detector = d
}

// Detector returns the hand detector.
func (a *App) Detector() detector.Detector {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.detector
}

// SetCamera replaces the camera. It must be called before Start.
func (a *App) SetCamera(c capture.Camera) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.camera = c
}

// Camera returns the camera instance.
func (a *App) Camera() capture.Camera {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.camera
}

// MotionDetector returns the motion detector instance.
func (a *App) MotionDetector() *capture.MotionDetector {
	return a.motion
}

// Viewport returns the arena size that fingertips are mapped onto.
func (a *App) Viewport() image.Point {
	return image.Pt(int(a.config.Arena.Width), int(a.config.Arena.Height))
}

// OnCast registers fn to run after every recognized spell.
func (a *App) OnCast(fn func(caster.CastEvent)) {
	a.game.Lock()
	defer a.game.Unlock()
	a.onCast = append(a.onCast, fn)
}

// OnDuelEnd registers fn to run after a duel is decided or abandoned.
func (a *App) OnDuelEnd(fn func(store.Duel)) {
	a.game.Lock()
	defer a.game.Unlock()
	a.onDuelEnd = append(a.onDuelEnd, fn)
}

// Trail returns the stroke currently being drawn.
func (a *App) Trail() []vec.Vec2 {
	a.game.Lock()
	defer a.game.Unlock()
	return a.caster.Stroke()
}

// Snapshot returns the renderable duel state.
func (a *App) Snapshot() arena.Snapshot {
	a.game.Lock()
	defer a.game.Unlock()
	return a.arena.Snapshot()
}

// CasterConfig returns the settings the running caster uses.
func (a *App) CasterConfig() caster.Config {
	a.game.Lock()
	defer a.game.Unlock()
	return a.caster.Config()
}

// ApplySettings rebuilds the caster from the defaults plus settings. The
// stroke in progress and the cooldown are discarded.
func (a *App) ApplySettings(settings map[string]string) error {
	cfg := caster.DefaultConfig()
	if err := cfg.ApplySettings(settings); err != nil {
		return err
	}
	c, err := caster.New(cfg)
	if err != nil {
		return err
	}

	a.game.Lock()
	a.caster = c
	a.game.Unlock()

	log.Printf("Applied settings: smoother=%s cooldown=%v", cfg.Smoother.Kind, cfg.Cooldown)
	return nil
}

// NewDuel restarts the duel. An undecided duel that saw any action is
// recorded as abandoned.
func (a *App) NewDuel(now time.Time) {
	a.game.Lock()
	var abandoned *store.Duel
	if a.arena.Outcome() == arena.OutcomeNone && (a.casts > 0 || len(a.hits) > 0) {
		d := a.duelRecord(store.OutcomeAbandoned, now)
		abandoned = &d
	}
	a.arena.Restart(now)
	a.arena.SetPaused(a.held)
	a.caster.Reset()
	a.casts = 0
	a.hits = nil
	a.recorded = false
	a.lastStep = time.Time{}
	snapshot := a.arena.Snapshot()
	a.game.Unlock()

	if abandoned != nil {
		a.saveDuel(*abandoned)
	}
	a.broadcast([]server.Message{server.ArenaMessage(snapshot)})
	log.Printf("New duel %s", snapshot.DuelID)
}

// Start begins the detection pipeline.
func (a *App) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	// Don't start if already running
	if a.stopCh != nil {
		return nil
	}

	if err := a.camera.Open(); err != nil {
		return err
	}
	a.camera.SetFPS(IdleFPS)

	a.stopCh = make(chan struct{})
	a.doneCh = make(chan struct{})
	go a.runPipeline(a.stopCh, a.doneCh)

	log.Println("Detection pipeline started")
	return nil
}

// Stop halts the detection pipeline and releases resources.
func (a *App) Stop() {
	a.mu.Lock()
	stopCh, doneCh := a.stopCh, a.doneCh
	a.stopCh, a.doneCh = nil, nil
	a.mu.Unlock()

	if stopCh != nil {
		close(stopCh)
		<-doneCh
	}

	if err := a.Camera().Close(); err != nil {
		log.Printf("Error closing camera: %v", err)
	}

	a.motion.Close()

	if d := a.Detector(); d != nil {
		if err := d.Close(); err != nil {
			log.Printf("Error closing detector: %v", err)
		}
	}

	log.Println("Detection pipeline stopped")
}

// hold pauses or resumes the duel for reasons outside the game.
func (a *App) hold(paused bool) {
	a.game.Lock()
	defer a.game.Unlock()

	a.held = paused
	if a.arena.Outcome() == arena.OutcomeNone {
		a.arena.SetPaused(paused)
	}
	if paused {
		a.caster.Reset()
		a.lastStep = time.Time{}
	}
}

// duelRecord builds the stored form of the current duel. Callers hold game.
func (a *App) duelRecord(outcome string, ended time.Time) store.Duel {
	player, enemy := a.arena.HP()
	hits := make([]store.DuelHit, len(a.hits))
	copy(hits, a.hits)
	return store.Duel{
		ID:        a.arena.DuelID().String(),
		Outcome:   outcome,
		PlayerHP:  player,
		EnemyHP:   enemy,
		Casts:     a.casts,
		StartedAt: a.arena.StartedAt(),
		EndedAt:   ended,
		Hits:      hits,
	}
}

func (a *App) saveDuel(d store.Duel) {
	if a.config.Store != nil {
		if err := a.config.Store.Duels().Create(&d); err != nil {
			log.Printf("Failed to save duel %s: %v", d.ID, err)
		}
	}
	log.Printf("Duel %s ended: %s (%d vs %d HP, %d casts)", d.ID, d.Outcome, d.PlayerHP, d.EnemyHP, d.Casts)

	a.game.Lock()
	callbacks := append([]func(store.Duel){}, a.onDuelEnd...)
	a.game.Unlock()
	for _, fn := range callbacks {
		fn(d)
	}
}

func (a *App) broadcast(msgs []server.Message) {
	if a.config.Broadcaster == nil {
		return
	}
	for _, m := range msgs {
		a.config.Broadcaster.Broadcast(m)
	}
}
