package handlers

import (
	"net/http"

	"github.com/rushilkag/academic-qa-backend/internal/models"
	"github.com/rushilkag/academic-qa-backend/internal/services"
	"github.com/rushilkag/academic-qa-backend/pkg/task"
)

// TaskHandler exposes generation-job status for polling
type TaskHandler struct {
	Tasks  *task.Manager
	Drafts *services.DraftService
}

// NewTaskHandler creates handler with the shared task manager
func NewTaskHandler(tasks *task.Manager, drafts *services.DraftService) *TaskHandler {
	return &TaskHandler{Tasks: tasks, Drafts: drafts}
}

// Get handles GET /api/tasks?id={taskId} - checks generation job status
func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireActor(w, r); !ok {
		return
	}

	taskID := r.URL.Query().Get("id")
	if taskID == "" {
		SendError(w, &models.ValidationError{Field: "id", Message: "task ID is required"})
		return
	}

	t, exists := h.Tasks.Get(taskID)
	if !exists {
		SendError(w, &models.NotFoundError{Resource: "task", ID: taskID})
		return
	}

	SendSuccess(w, "Task retrieved", t)
}

// Cancel handles POST /api/tasks/cancel?id={taskId} - aborts a running job
func (h *TaskHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireActor(w, r); !ok {
		return
	}

	taskID := r.URL.Query().Get("id")
	if taskID == "" {
		SendError(w, &models.ValidationError{Field: "id", Message: "task ID is required"})
		return
	}

	if err := h.Drafts.CancelDraft(taskID); err != nil {
		SendError(w, err)
		return
	}

	SendSuccess(w, "Task cancelled", nil)
}
