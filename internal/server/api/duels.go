package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/ayusman/spellcast/internal/store"
)

// defaultDuelLimit caps GET /api/duels when no limit is given.
const defaultDuelLimit = 20

// DuelsHandler serves finished duels.
type DuelsHandler struct {
	store *store.Store
}

// NewDuelsHandler creates a DuelsHandler over s.
func NewDuelsHandler(s *store.Store) *DuelsHandler {
	return &DuelsHandler{store: s}
}

type listDuelsResponse struct {
	Duels  []*store.Duel `json:"duels"`
	Wins   int           `json:"wins"`
	Losses int           `json:"losses"`
}

// ServeHTTP routes /api/duels and /api/duels/{id}.
func (h *DuelsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id := itemID(r.URL.Path, "/api/duels")

	if id == "" {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.list(w, r)
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.get(w, id)
	case http.MethodDelete:
		h.delete(w, id)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// list handles GET /api/duels?limit=N, newest first.
func (h *DuelsHandler) list(w http.ResponseWriter, r *http.Request) {
	limit := defaultDuelLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	duels, err := h.store.Duels().List(limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list duels")
		return
	}
	wins, losses, err := h.store.Duels().Stats()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to count duels")
		return
	}

	if duels == nil {
		duels = []*store.Duel{}
	}
	writeJSON(w, http.StatusOK, listDuelsResponse{Duels: duels, Wins: wins, Losses: losses})
}

func (h *DuelsHandler) get(w http.ResponseWriter, id string) {
	duel, err := h.store.Duels().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "duel not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to get duel")
		return
	}
	writeJSON(w, http.StatusOK, duel)
}

func (h *DuelsHandler) delete(w http.ResponseWriter, id string) {
	if err := h.store.Duels().Delete(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "duel not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to delete duel")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
