package handler

import (
	"encoding/json"
	"net/http"

	"github.com/hodan/capyd/internal/capy"
	"github.com/hodan/capyd/internal/model"
	"github.com/hodan/capyd/internal/websocket"
)

type GoalsHandler struct {
	store *capy.Store
	hub   *websocket.Hub
}

func NewGoalsHandler(s *capy.Store, hub *websocket.Hub) *GoalsHandler {
	return &GoalsHandler{store: s, hub: hub}
}

func (h *GoalsHandler) broadcast(msg websocket.Message) {
	if h.hub != nil {
		h.hub.Broadcast(msg)
	}
}

func (h *GoalsHandler) Get(w http.ResponseWriter, r *http.Request) {
	goals := h.store.Snapshot().Goals
	if goals == nil {
		goals = &model.Goals{}
	}
	writeJSON(w, http.StatusOK, goals)
}

// Apply replaces the goal hierarchy and regenerates the task list from it.
// Responds with the fresh tasks.
func (h *GoalsHandler) Apply(w http.ResponseWriter, r *http.Request) {
	var goals model.Goals
	if err := json.NewDecoder(r.Body).Decode(&goals); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	tasks := h.store.ApplyGoals(goals)
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
