package main

import (
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"time"

	"github.com/ayusman/spellcast/internal/app"
	"github.com/ayusman/spellcast/internal/caster"
	"github.com/ayusman/spellcast/internal/server"
	"github.com/ayusman/spellcast/internal/store"
	"github.com/ayusman/spellcast/internal/tray"
)

const addr = ":8080"

func main() {
	fmt.Println("Spellcast - draw spells with your hand")

	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Fatalf("Failed to get home directory: %v", err)
	}

	dataDir := filepath.Join(homeDir, ".spellcast")
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	st, err := store.New(filepath.Join(dataDir, "spellcast.db"))
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	hub := server.NewHub()
	defer hub.Close()

	application, err := app.New(app.Config{Store: st, Broadcaster: hub})
	if err != nil {
		log.Fatalf("Failed to initialize pipeline: %v", err)
	}

	webDir := findWebDir(dataDir)
	if webDir != "" {
		fmt.Printf("Serving static files from: %s\n", webDir)
	}

	srv := server.New(server.Config{
		StaticDir:  webDir,
		Store:      st,
		Camera:     application.Camera(),
		Hub:        hub,
		Trail:      application.Trail,
		Viewport:   application.Viewport(),
		OnSettings: application.ApplySettings,
	})

	go func() {
		fmt.Printf("Starting server on %s\n", addr)
		if err := srv.ListenAndServe(addr); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	t := tray.New()
	application.OnCast(func(e caster.CastEvent) {
		t.SetLastSpell(string(e.Spell))
	})
	application.OnDuelEnd(func(store.Duel) {
		updateRecord(t, st)
	})
	t.OnToggle(application.SetEnabled)
	t.OnNewDuel(func() { application.NewDuel(time.Now()) })
	t.OnOpen(func() { openBrowser("http://localhost" + addr) })
	t.OnQuit(application.Stop)

	application.SetEnabled(t.IsEnabled())
	if err := application.Start(); err != nil {
		// The API and duel history stay available without a camera.
		log.Printf("Failed to start pipeline: %v", err)
	}

	go func() {
		// Menu items exist only once the tray is running.
		time.Sleep(time.Second)
		updateRecord(t, st)
	}()

	t.Run()
}

func updateRecord(t *tray.Tray, st *store.Store) {
	wins, losses, err := st.Duels().Stats()
	if err != nil {
		log.Printf("Failed to load duel record: %v", err)
		return
	}
	t.SetRecord(wins, losses)
}

// findWebDir searches for the web directory in common locations.
// It checks: "web", "../web", "../../web", and <dataDir>/web.
// Returns the first existing directory or empty string if none found.
func findWebDir(dataDir string) string {
	relativePaths := []string{"web", "../web", "../../web"}
	for _, p := range relativePaths {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			absPath, err := filepath.Abs(p)
			if err == nil {
				return absPath
			}
			return p
		}
	}

	homeWebDir := filepath.Join(dataDir, "web")
	if info, err := os.Stat(homeWebDir); err == nil && info.IsDir() {
		return homeWebDir
	}

	return ""
}

func openBrowser(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	if err := cmd.Start(); err != nil {
		log.Printf("Failed to open browser: %v", err)
	}
}
