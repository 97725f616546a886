package api

import (
	"encoding/json"
	"log"
	"net/http"
	"sort"

	"github.com/ayusman/spellcast/internal/caster"
	"github.com/ayusman/spellcast/internal/store"
)

var knownSettings = map[string]bool{
	caster.SettingCooldownMs:     true,
	caster.SettingSmoother:       true,
	caster.SettingMinConfidence:  true,
	caster.SettingPreferStraight: true,
}

// SettingsHandler reads and updates the persisted tuning overrides.
// A successful update is passed to onChange so the running pipeline can
// pick it up.
type SettingsHandler struct {
	store    *store.Store
	onChange func(map[string]string) error
}

// NewSettingsHandler creates a SettingsHandler. onChange may be nil.
func NewSettingsHandler(s *store.Store, onChange func(map[string]string) error) *SettingsHandler {
	return &SettingsHandler{store: s, onChange: onChange}
}

type settingsResponse struct {
	Settings map[string]string `json:"settings"`
	Keys     []string          `json:"keys"`
}

// ServeHTTP handles GET and PUT on /api/settings.
func (h *SettingsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.get(w)
	case http.MethodPut:
		h.update(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *SettingsHandler) get(w http.ResponseWriter) {
	settings, err := h.store.Settings().All()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load settings")
		return
	}
	writeJSON(w, http.StatusOK, settingsResponse{Settings: settings, Keys: settingKeys()})
}

// update merges the request body into the stored settings. The merged set
// must produce a valid caster configuration before anything is written.
func (h *SettingsHandler) update(w http.ResponseWriter, r *http.Request) {
	var req map[string]string
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	for key := range req {
		if !knownSettings[key] {
			writeError(w, http.StatusBadRequest, "unknown setting: "+key)
			return
		}
	}

	merged, err := h.store.Settings().All()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load settings")
		return
	}
	for k, v := range req {
		merged[k] = v
	}

	cfg := caster.DefaultConfig()
	if err := cfg.ApplySettings(merged); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	for k, v := range req {
		if err := h.store.Settings().Set(k, v); err != nil {
			writeError(w, http.StatusInternalServerError, "failed to save settings")
			return
		}
	}

	if h.onChange != nil {
		if err := h.onChange(merged); err != nil {
			log.Printf("Failed to apply settings: %v", err)
			writeError(w, http.StatusInternalServerError, "settings saved but not applied")
			return
		}
	}

	writeJSON(w, http.StatusOK, settingsResponse{Settings: merged, Keys: settingKeys()})
}

func settingKeys() []string {
	keys := make([]string, 0, len(knownSettings))
	for k := range knownSettings {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
