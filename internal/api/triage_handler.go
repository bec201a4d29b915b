package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/logtriage/triage-api/internal/api/shared"
	"github.com/logtriage/triage-api/internal/task"
)

// TriageHandler handles triage submission, status polling, and cancellation.
type TriageHandler struct {
	manager   *task.Manager
	validator *validator.Validate
	logger    *slog.Logger
}

// NewTriageHandler creates a new TriageHandler.
func NewTriageHandler(manager *task.Manager, logger *slog.Logger) *TriageHandler {
	return &TriageHandler{
		manager:   manager,
		validator: validator.New(),
		logger:    logger,
	}
}

// Submit handles POST /api/triage requests. The task id is returned
// immediately; the analysis runs in the background and its outcome is
// observed via status polls.
func (h *TriageHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req TriageRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	id, err := h.manager.CreateTask(toDomainLogs(req.Logs), req.UserAnswers)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to submit triage", err)
		return
	}

	h.manager.ScheduleExecution(id)

	// 202 Accepted since processing happens asynchronously
	shared.RespondWithJSON(w, r, http.StatusAccepted, TaskResponse{TaskID: id})
}

// Status handles GET /api/triage/status/{taskID} requests. An unknown id
// yields a FAILED status payload, not an HTTP error.
func (h *TriageHandler) Status(w http.ResponseWriter, r *http.Request) {
	taskID := chi.URLParam(r, "taskID")

	status, message, result := h.manager.GetStatus(taskID)

	shared.RespondWithJSON(w, r, http.StatusOK, TriageStatusResponse{
		Status:  string(status),
		Message: message,
		Result:  resultToDTO(result),
	})
}

// Cancel handles POST /api/triage/cancel/{taskID} requests.
func (h *TriageHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	taskID := chi.URLParam(r, "taskID")

	if h.manager.Cancel(taskID) {
		shared.RespondWithJSON(w, r, http.StatusOK, CancelResponse{
			Success: true,
			Message: "Task cancelled successfully",
		})
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, CancelResponse{
		Success: false,
		Message: "Task not found or already completed",
	})
}
