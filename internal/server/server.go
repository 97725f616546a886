// Package server provides the HTTP server that feeds the browser arena:
// the REST API, the MJPEG camera stream and the WebSocket event feed.
package server

import (
	"encoding/json"
	"image"
	"net/http"
	"time"

	"github.com/ayusman/spellcast/internal/capture"
	"github.com/ayusman/spellcast/internal/server/api"
	"github.com/ayusman/spellcast/internal/store"
)

// Config holds the server configuration. Optional parts left nil are not
// routed.
type Config struct {
	StaticDir string
	Store     *store.Store
	Camera    capture.Camera
	Hub       *Hub

	// Trail and Viewport place the live stroke on the camera stream.
	Trail    TrailFunc
	Viewport image.Point

	// OnSettings receives the merged settings after a successful update.
	OnSettings func(map[string]string) error
}

// Server represents the HTTP server for the spellcast application.
type Server struct {
	config Config
	mux    *http.ServeMux
	start  time.Time
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	s := &Server{
		config: config,
		mux:    http.NewServeMux(),
		start:  time.Now(),
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)
	s.mux.Handle("/api/spells", api.SpellsHandler{})

	if s.config.Store != nil {
		duels := api.NewDuelsHandler(s.config.Store)
		s.mux.Handle("/api/duels", duels)
		s.mux.Handle("/api/duels/", duels)
		s.mux.Handle("/api/settings", api.NewSettingsHandler(s.config.Store, s.config.OnSettings))
	}

	if s.config.Camera != nil {
		s.mux.Handle("/api/stream", NewStreamHandler(s.config.Camera, s.config.Trail, s.config.Viewport))
	}

	if s.config.Hub != nil {
		s.mux.Handle("/api/events", s.config.Hub)
	}

	if s.config.StaticDir != "" {
		fs := http.FileServer(http.Dir(s.config.StaticDir))
		s.mux.Handle("/", fs)
	}
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// handleHealth handles GET requests to /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := map[string]interface{}{
		"status": "ok",
		"uptime": time.Since(s.start).String(),
	}
	if s.config.Hub != nil {
		response["clients"] = s.config.Hub.Clients()
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// ListenAndServe starts the HTTP server on the given address.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s)
}
