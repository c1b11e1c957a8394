package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/hodan/capyd/internal/capy"
)

type ProfileHandler struct {
	store *capy.Store
}

func NewProfileHandler(s *capy.Store) *ProfileHandler {
	return &ProfileHandler{store: s}
}

type profileRequest struct {
	Name      string `json:"name"`
	GoalsText string `json:"goals_text"`
}

func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.store.Snapshot().Profile)
}

func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req profileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	h.store.UpdateProfile(strings.TrimSpace(req.Name), strings.TrimSpace(req.GoalsText))
	writeJSON(w, http.StatusOK, h.store.Snapshot().Profile)
}
