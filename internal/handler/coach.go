package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync/atomic"

	"github.com/hodan/capyd/internal/capy"
	"github.com/hodan/capyd/internal/coach"
	"github.com/hodan/capyd/internal/model"
	"github.com/hodan/capyd/internal/websocket"
)

// CoachHandler mediates between the HTTP surface and the coach gateway.
// At most one coach request runs at a time; concurrent calls get 409
// rather than queueing behind a slow model.
type CoachHandler struct {
	client *coach.Client
	store  *capy.Store
	hub    *websocket.Hub
	busy   atomic.Bool
}

func NewCoachHandler(client *coach.Client, s *capy.Store, hub *websocket.Hub) *CoachHandler {
	return &CoachHandler{client: client, store: s, hub: hub}
}

func (h *CoachHandler) broadcast(msg websocket.Message) {
	if h.hub != nil {
		h.hub.Broadcast(msg)
	}
}

type coachRequest struct {
	Messages []coach.Message `json:"messages"`
}

func (h *CoachHandler) decode(w http.ResponseWriter, r *http.Request) ([]coach.Message, bool) {
	var req coachRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return nil, false
	}
	if len(req.Messages) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "messages are required"})
		return nil, false
	}
	return req.Messages, true
}

func (h *CoachHandler) acquire(w http.ResponseWriter) bool {
	if !h.busy.CompareAndSwap(false, true) {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "coach is already thinking"})
		return false
	}
	return true
}

func (h *CoachHandler) Chat(w http.ResponseWriter, r *http.Request) {
	messages, ok := h.decode(w, r)
	if !ok {
		return
	}
	if !h.acquire(w) {
		return
	}
	defer h.busy.Store(false)

	reply := h.client.Chat(r.Context(), h.summary(), messages)
	writeJSON(w, http.StatusOK, map[string]string{"reply": reply})
}

// ExtractGoals runs one onboarding turn. When the model submits the goal
// hierarchy the store adopts it and regenerates tasks; otherwise the
// assistant's next interview question comes back as a plain reply.
func (h *CoachHandler) ExtractGoals(w http.ResponseWriter, r *http.Request) {
	messages, ok := h.decode(w, r)
	if !ok {
		return
	}
	if !h.acquire(w) {
		return
	}
	defer h.busy.Store(false)

	goals, reply := h.client.ExtractGoals(r.Context(), messages)
	if goals == nil {
		writeJSON(w, http.StatusOK, map[string]string{"reply": reply})
		return
	}

	tasks := h.store.ApplyGoals(*goals)
	if tasks == nil {
		tasks = []model.Task{}
	}

	h.broadcast(websocket.NewMessage("goals", "applied", "", map[string]any{
		"task_count": len(tasks),
	}))
	h.broadcast(statusMessage(h.store))

	writeJSON(w, http.StatusOK, map[string]any{
		"goals": goals,
		"tasks": tasks,
	})
}

// summary condenses the current state into a couple of lines of context
// for the model.
func (h *CoachHandler) summary() string {
	state := h.store.Snapshot()

	var b strings.Builder
	if state.Profile.Name != "" {
		fmt.Fprintf(&b, "The user's name is %s. ", state.Profile.Name)
	}

	open, done := 0, 0
	for _, task := range state.Tasks {
		if task.IsDone {
			done++
		} else {
			open++
		}
	}
	fmt.Fprintf(&b, "Tasks: %d open, %d done. Coins: %d. Streak: %d days. Mood: %s.",
		open, done, state.Stats.Coins, state.Stats.Streak, state.Stats.Mood)

	if state.Goals != nil && len(state.Goals.LongTerm) > 0 {
		fmt.Fprintf(&b, " Long-term goals: %s.", strings.Join(state.Goals.LongTerm, "; "))
	}
	return b.String()
}
