package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/mfigueira/nossoapp/internal/auth"
	"github.com/mfigueira/nossoapp/internal/model"
	"github.com/mfigueira/nossoapp/internal/service"
	"github.com/mfigueira/nossoapp/internal/upload"
	"github.com/mfigueira/nossoapp/internal/websocket"
)

// TaskHandler serves the chore workflow endpoints.
type TaskHandler struct {
	tasks   *service.Tasks
	uploads *upload.Manager
	hub     *websocket.Hub
	logger  *slog.Logger
}

func NewTaskHandler(tasks *service.Tasks, uploads *upload.Manager, hub *websocket.Hub, logger *slog.Logger) *TaskHandler {
	return &TaskHandler{tasks: tasks, uploads: uploads, hub: hub, logger: logger}
}

func (h *TaskHandler) broadcast(coupleID int64, msg websocket.Message) {
	if h.hub != nil {
		h.hub.Broadcast(coupleID, msg)
	}
}

type taskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Points      int    `json:"points"`
	Frequency   string `json:"frequency"`
}

func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	ac, _ := auth.FromContext(r.Context())

	var req taskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	var frequency *model.Frequency
	if req.Frequency != "" {
		f := model.Frequency(req.Frequency)
		frequency = &f
	}

	task, err := h.tasks.Create(ac, req.Title, req.Description, req.Points, frequency)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	h.broadcast(ac.CoupleID, websocket.NewMessage("task", "created", task.ID, nil))

	writeJSON(w, http.StatusCreated, task)
}

func (h *TaskHandler) Pending(w http.ResponseWriter, r *http.Request) {
	ac, _ := auth.FromContext(r.Context())

	tasks, err := h.tasks.Pending(ac)
	if err != nil {
		h.logger.Error("list pending tasks", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if tasks == nil {
		tasks = []model.Task{}
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (h *TaskHandler) Created(w http.ResponseWriter, r *http.Request) {
	ac, _ := auth.FromContext(r.Context())

	tasks, err := h.tasks.CreatedPending(ac)
	if err != nil {
		h.logger.Error("list created tasks", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if tasks == nil {
		tasks = []model.Task{}
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (h *TaskHandler) History(w http.ResponseWriter, r *http.Request) {
	ac, _ := auth.FromContext(r.Context())

	tasks, err := h.tasks.History(ac)
	if err != nil {
		h.logger.Error("list task history", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if tasks == nil {
		tasks = []model.Task{}
	}
	writeJSON(w, http.StatusOK, tasks)
}

// Complete accepts a multipart form with an optional proof photo. A
// failed photo save never blocks the completion itself.
func (h *TaskHandler) Complete(w http.ResponseWriter, r *http.Request) {
	ac, _ := auth.FromContext(r.Context())

	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var photoPath string
	if err := r.ParseMultipartForm(upload.MaxBytes + 1024); err == nil {
		if _, fh, err := r.FormFile("photo"); err == nil {
			photoPath, err = h.uploads.Save(upload.CoupleDir(ac.CoupleID, "tasks"), fh)
			if err != nil {
				h.logger.Warn("save task photo", "task_id", id, "error", err)
				photoPath = ""
			}
		}
	}

	task, clone, err := h.tasks.Complete(ac, id, photoPath)
	if err != nil {
		if photoPath != "" {
			h.uploads.Remove(photoPath)
		}
		writeServiceError(w, err)
		return
	}

	h.broadcast(ac.CoupleID, websocket.NewMessage("task", "completed", task.ID, map[string]any{
		"points": task.Points,
	}))
	if clone != nil {
		h.broadcast(ac.CoupleID, websocket.NewMessage("task", "created", clone.ID, nil))
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"task":  task,
		"clone": clone,
	})
}

func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ac, _ := auth.FromContext(r.Context())

	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	task, err := h.tasks.Delete(ac, id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	h.uploads.Remove(task.PhotoPath)
	h.broadcast(ac.CoupleID, websocket.NewMessage("task", "deleted", id, nil))

	w.WriteHeader(http.StatusNoContent)
}
