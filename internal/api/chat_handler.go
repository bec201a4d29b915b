package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/logtriage/triage-api/internal/api/shared"
	"github.com/logtriage/triage-api/internal/domain"
	"github.com/logtriage/triage-api/internal/task"
	"github.com/logtriage/triage-api/internal/triage"
)

// ChatHandler answers follow-up questions about completed triage reports.
type ChatHandler struct {
	manager   *task.Manager
	responder triage.ChatResponder
	validator *validator.Validate
	logger    *slog.Logger
}

// NewChatHandler creates a new ChatHandler.
func NewChatHandler(manager *task.Manager, responder triage.ChatResponder, logger *slog.Logger) *ChatHandler {
	return &ChatHandler{
		manager:   manager,
		responder: responder,
		validator: validator.New(),
		logger:    logger,
	}
}

// Chat handles POST /api/chat/{taskID} requests. Chat is only available
// once the task completed successfully; both turns of the exchange are
// recorded on the task afterwards.
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	taskID := chi.URLParam(r, "taskID")

	var req ChatRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	chatTask, ok := h.manager.GetTaskForChat(taskID)
	if !ok {
		shared.RespondWithError(w, r, http.StatusNotFound,
			"Task not found or not yet completed. Please complete the triage first.")
		return
	}

	answer, err := h.responder.Chat(r.Context(), req.Message, chatTask, toDomainHistory(req.History))
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Chat failed", err)
		return
	}

	h.manager.AppendConversationTurn(taskID, domain.ChatRoleUser, req.Message)
	h.manager.AppendConversationTurn(taskID, domain.ChatRoleAssistant, answer)

	shared.RespondWithJSON(w, r, http.StatusOK, ChatResponse{Response: answer})
}
