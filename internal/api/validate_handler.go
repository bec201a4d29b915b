package api

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/logtriage/triage-api/internal/api/shared"
	"github.com/logtriage/triage-api/internal/triage"
)

// ValidateHandler handles issue description sufficiency checks.
type ValidateHandler struct {
	service   triage.Validator
	validator *validator.Validate
	logger    *slog.Logger
}

// NewValidateHandler creates a new ValidateHandler.
func NewValidateHandler(service triage.Validator, logger *slog.Logger) *ValidateHandler {
	return &ValidateHandler{
		service:   service,
		validator: validator.New(),
		logger:    logger,
	}
}

// Validate handles POST /api/validate requests.
func (h *ValidateHandler) Validate(w http.ResponseWriter, r *http.Request) {
	var req ValidationRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	result, err := h.service.ValidateDescription(r.Context(), req.UserAnswers, req.CurrentDescription)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Validation failed", err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, ValidationResponse{
		IsSufficient:       result.IsSufficient,
		ClarifyingQuestion: result.ClarifyingQuestion,
		Summary:            result.Summary,
	})
}
