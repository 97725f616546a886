package api

import (
	"net/http"

	"github.com/ayusman/spellcast/internal/spell"
)

// SpellsHandler serves the spell catalog so the renderer can size sprites
// and show damage without hard-coding them.
type SpellsHandler struct{}

type spellsResponse struct {
	Spells []spell.Def `json:"spells"`
}

// ServeHTTP handles GET /api/spells.
func (SpellsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, spellsResponse{Spells: spell.All()})
}
