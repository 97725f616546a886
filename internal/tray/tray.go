// Package tray provides the system tray menu: detection toggle, the last
// cast spell, the duel record and a new-duel shortcut.
package tray

import (
	"fmt"
	"sync"

	"github.com/getlantern/systray"
)

// Tray represents the system tray application.
type Tray struct {
	onToggle  func(enabled bool)
	onNewDuel func()
	onOpen    func()
	onQuit    func()
	enabled   bool
	mu        sync.RWMutex

	// Menu items stored for later updates
	menuToggle    *systray.MenuItem
	menuLastSpell *systray.MenuItem
	menuRecord    *systray.MenuItem
}

// New creates a new Tray instance with detection enabled.
func New() *Tray {
	return &Tray{
		enabled: true,
	}
}

// OnToggle sets the callback for switching detection on or off.
func (t *Tray) OnToggle(fn func(enabled bool)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onToggle = fn
}

// OnNewDuel sets the callback for the "New Duel" item.
func (t *Tray) OnNewDuel(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onNewDuel = fn
}

// OnOpen sets the callback for opening the arena in a browser.
func (t *Tray) OnOpen(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onOpen = fn
}

// OnQuit sets the callback function to be called when the quit menu item is clicked.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// Run starts the system tray application.
// This function blocks until systray.Quit() is called.
func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

// onReady builds the menu once the tray is available.
func (t *Tray) onReady() {
	systray.SetTitle("Spellcast")
	systray.SetTooltip("Spellcast - draw spells in the air")

	t.mu.Lock()
	t.menuToggle = systray.AddMenuItem(toggleTitle(t.enabled), "Toggle hand tracking")
	systray.AddSeparator()

	t.menuLastSpell = systray.AddMenuItem("Last spell: none", "Last recognized spell")
	t.menuLastSpell.Disable()
	t.menuRecord = systray.AddMenuItem(recordTitle(0, 0), "Duels won and lost")
	t.menuRecord.Disable()
	t.mu.Unlock()
	systray.AddSeparator()

	menuNewDuel := systray.AddMenuItem("New Duel", "Restart the duel")
	menuOpen := systray.AddMenuItem("Open Arena...", "Open the arena in a browser")
	systray.AddSeparator()

	menuQuit := systray.AddMenuItem("Quit", "Quit Spellcast")

	go func() {
		for {
			select {
			case <-t.menuToggle.ClickedCh:
				t.handleToggle()
			case <-menuNewDuel.ClickedCh:
				t.call(func() func() { return t.onNewDuel })
			case <-menuOpen.ClickedCh:
				t.call(func() func() { return t.onOpen })
			case <-menuQuit.ClickedCh:
				t.call(func() func() { return t.onQuit })
				systray.Quit()
				return
			}
		}
	}()
}

func (t *Tray) onExit() {}

// handleToggle flips detection and reports the new state.
func (t *Tray) handleToggle() {
	t.mu.Lock()
	t.enabled = !t.enabled
	enabled := t.enabled
	t.menuToggle.SetTitle(toggleTitle(enabled))
	callback := t.onToggle
	t.mu.Unlock()

	// Call the callback outside the lock to prevent deadlocks
	if callback != nil {
		callback(enabled)
	}
}

// call runs the callback returned by get, read under the lock.
func (t *Tray) call(get func() func()) {
	t.mu.RLock()
	callback := get()
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}
}

// SetLastSpell updates the last spell display in the menu.
func (t *Tray) SetLastSpell(name string) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.menuLastSpell == nil {
		return
	}
	if name == "" {
		name = "none"
	}
	t.menuLastSpell.SetTitle("Last spell: " + name)
}

// SetRecord updates the win/loss line.
func (t *Tray) SetRecord(wins, losses int) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.menuRecord != nil {
		t.menuRecord.SetTitle(recordTitle(wins, losses))
	}
}

// IsEnabled returns the current enabled state.
func (t *Tray) IsEnabled() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.enabled
}

func toggleTitle(enabled bool) string {
	if enabled {
		return "● Tracking"
	}
	return "○ Paused"
}

func recordTitle(wins, losses int) string {
	return fmt.Sprintf("Record: %dW / %dL", wins, losses)
}
