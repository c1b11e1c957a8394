package handler

import (
	"encoding/json"
	"net/http"

	"github.com/hodan/capyd/internal/capy"
	"github.com/hodan/capyd/internal/model"
	"github.com/hodan/capyd/internal/websocket"
)

// StateHandler serves the full snapshot plus the derived numbers a client
// needs to render the capy: ratios, mood, and care meters.
type StateHandler struct {
	store *capy.Store
	hub   *websocket.Hub
}

func NewStateHandler(s *capy.Store, hub *websocket.Hub) *StateHandler {
	return &StateHandler{store: s, hub: hub}
}

func (h *StateHandler) broadcast(msg websocket.Message) {
	if h.hub != nil {
		h.hub.Broadcast(msg)
	}
}

func (h *StateHandler) Get(w http.ResponseWriter, r *http.Request) {
	state := h.store.Snapshot()
	if state.Tasks == nil {
		state.Tasks = []model.Task{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"state":              state,
		"completion_ratio":   h.store.CompletionRatio(),
		"daily_ratio":        h.store.DailyCompletionRatio(),
		"all_daily_complete": h.store.AllDailyComplete(),
	})
}

func (h *StateHandler) Stats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.store.Stats())
}

// Reset applies the daily cycle on demand. Normally the scheduler tick
// handles this; the endpoint exists for clients reconnecting after sleep.
func (h *StateHandler) Reset(w http.ResponseWriter, r *http.Request) {
	applied := h.store.ResetDailyIfNeeded()
	if applied {
		h.broadcast(websocket.NewMessage("state", "daily_reset", "", nil))
		h.broadcast(statusMessage(h.store))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"reset": applied,
		"stats": h.store.Stats(),
	})
}

type spendRequest struct {
	Amount int `json:"amount"`
}

func (h *StateHandler) SpendCoins(w http.ResponseWriter, r *http.Request) {
	var req spendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	if req.Amount <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "amount must be positive"})
		return
	}

	if !h.store.SpendCoins(req.Amount) {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "not enough coins"})
		return
	}

	h.broadcast(websocket.NewMessage("state", "coins_spent", "", map[string]any{
		"amount": req.Amount,
	}))
	h.broadcast(statusMessage(h.store))

	writeJSON(w, http.StatusOK, h.store.Stats())
}

type careRequest struct {
	Stat  string `json:"stat"`
	Delta int    `json:"delta"`
}

func (h *StateHandler) AdjustCare(w http.ResponseWriter, r *http.Request) {
	var req careRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	kind, err := model.ParseStatKind(req.Stat)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unknown stat"})
		return
	}

	h.store.AdjustCare(kind, req.Delta)
	writeJSON(w, http.StatusOK, h.store.Snapshot().Care)
}
