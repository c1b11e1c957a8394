package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/hodan/capyd/internal/capy"
	"github.com/hodan/capyd/internal/model"
	"github.com/hodan/capyd/internal/websocket"
)

type TaskHandler struct {
	store *capy.Store
	hub   *websocket.Hub
}

func NewTaskHandler(s *capy.Store, hub *websocket.Hub) *TaskHandler {
	return &TaskHandler{store: s, hub: hub}
}

func (h *TaskHandler) broadcast(msg websocket.Message) {
	if h.hub != nil {
		h.hub.Broadcast(msg)
	}
}

type taskRequest struct {
	Title string `json:"title"`
	Tier  string `json:"tier"`
}

func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	tasks := h.store.Tasks()
	if tasks == nil {
		tasks = []model.Task{}
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req taskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "title is required"})
		return
	}

	tier, _ := model.ParseTier(req.Tier)
	task := h.store.AddTask(req.Title, tier)
	if task == nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "title is required"})
		return
	}

	h.broadcast(websocket.NewMessage("task", "created", task.ID, nil))

	writeJSON(w, http.StatusCreated, task)
}

func (h *TaskHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	task := h.store.ToggleTask(id)
	if task == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "task not found"})
		return
	}

	h.broadcast(websocket.NewMessage("task", "toggled", task.ID, map[string]any{
		"is_done": task.IsDone,
	}))
	h.broadcast(statusMessage(h.store))

	writeJSON(w, http.StatusOK, map[string]any{
		"task":  task,
		"stats": h.store.Stats(),
	})
}

func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if !h.store.DeleteTask(id) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "task not found"})
		return
	}

	h.broadcast(websocket.NewMessage("task", "deleted", id, nil))

	w.WriteHeader(http.StatusNoContent)
}
