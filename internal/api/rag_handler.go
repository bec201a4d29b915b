package api

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/logtriage/triage-api/internal/api/shared"
	"github.com/logtriage/triage-api/internal/rag"
)

// RAGHandler handles reference document uploads.
type RAGHandler struct {
	ingestor  rag.Ingestor
	validator *validator.Validate
	logger    *slog.Logger
}

// NewRAGHandler creates a new RAGHandler.
func NewRAGHandler(ingestor rag.Ingestor, logger *slog.Logger) *RAGHandler {
	return &RAGHandler{
		ingestor:  ingestor,
		validator: validator.New(),
		logger:    logger,
	}
}

// Upload handles POST /api/rag/upload requests.
func (h *RAGHandler) Upload(w http.ResponseWriter, r *http.Request) {
	var req RAGUploadRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	count, err := h.ingestor.Ingest(r.Context(), toRAGDocuments(req.Documents), req.TechArea)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Document ingestion failed", err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, RAGUploadResponse{
		Success:        true,
		ProcessedCount: count,
		Message:        fmt.Sprintf("Processed %d documents for area %q", count, req.TechArea),
	})
}
