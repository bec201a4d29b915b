package api

import (
	"github.com/logtriage/triage-api/internal/domain"
	"github.com/logtriage/triage-api/internal/rag"
)

// Common request/response structures

// LogFileRequest is one uploaded log file in a triage submission.
type LogFileRequest struct {
	Content string `json:"content" validate:"required"`
	Type    string `json:"type"    validate:"required,oneof=bad1 good bad2"`
}

// TriageRequest defines the payload for submitting a triage task.
type TriageRequest struct {
	Logs        []LogFileRequest  `json:"logs"         validate:"required,min=1,dive"`
	UserAnswers map[string]string `json:"user_answers" validate:"required"`
}

// TaskResponse is returned when a triage task is accepted.
type TaskResponse struct {
	TaskID string `json:"task_id"`
}

// TriageResultResponse carries a completed analysis.
type TriageResultResponse struct {
	Summary          string   `json:"summary"`
	PotentialIssues  []string `json:"potential_issues"`
	SuggestedActions []string `json:"suggested_actions"`
}

// TriageStatusResponse is the polling response for a triage task.
type TriageStatusResponse struct {
	Status  string                `json:"status"`
	Message string                `json:"message"`
	Result  *TriageResultResponse `json:"result,omitempty"`
}

// CancelResponse reports the outcome of a cancellation request.
type CancelResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ValidationRequest defines the payload for the description validation endpoint.
type ValidationRequest struct {
	UserAnswers        map[string]string `json:"user_answers"        validate:"required"`
	CurrentDescription string            `json:"current_description" validate:"required"`
}

// ValidationResponse is the result of a description sufficiency check.
type ValidationResponse struct {
	IsSufficient       bool   `json:"is_sufficient"`
	ClarifyingQuestion string `json:"clarifying_question"`
	Summary            string `json:"summary"`
}

// ChatMessageRequest is one prior conversation turn sent by the client.
type ChatMessageRequest struct {
	Role    string `json:"role"    validate:"required,oneof=user assistant"`
	Content string `json:"content" validate:"required"`
}

// ChatRequest defines the payload for chatting about a completed report.
type ChatRequest struct {
	Message string               `json:"message" validate:"required"`
	History []ChatMessageRequest `json:"history" validate:"omitempty,dive"`
}

// ChatResponse carries the assistant's answer.
type ChatResponse struct {
	Response string `json:"response"`
}

// RAGDocumentRequest is one document in an ingestion upload.
type RAGDocumentRequest struct {
	Filename string `json:"filename" validate:"required"`
	Content  string `json:"content"  validate:"required"`
	Size     int    `json:"size"     validate:"gte=0"`
}

// RAGUploadRequest defines the payload for uploading reference documents.
type RAGUploadRequest struct {
	Documents []RAGDocumentRequest `json:"documents" validate:"required,min=1,dive"`
	TechArea  string               `json:"tech_area" validate:"required"`
}

// RAGUploadResponse reports the outcome of an ingestion upload.
type RAGUploadResponse struct {
	Success        bool   `json:"success"`
	ProcessedCount int    `json:"processed_count"`
	Message        string `json:"message"`
}

// toDomainLogs converts request log files to domain values.
func toDomainLogs(logs []LogFileRequest) []domain.LogFile {
	out := make([]domain.LogFile, len(logs))
	for i, log := range logs {
		out[i] = domain.LogFile{Content: log.Content, Type: log.Type}
	}
	return out
}

// toDomainHistory converts request chat turns to domain values.
func toDomainHistory(history []ChatMessageRequest) []domain.ChatMessage {
	out := make([]domain.ChatMessage, len(history))
	for i, msg := range history {
		out[i] = domain.ChatMessage{Role: msg.Role, Content: msg.Content}
	}
	return out
}

// toRAGDocuments converts request documents to rag values.
func toRAGDocuments(docs []RAGDocumentRequest) []rag.Document {
	out := make([]rag.Document, len(docs))
	for i, doc := range docs {
		out[i] = rag.Document{Filename: doc.Filename, Content: doc.Content, Size: doc.Size}
	}
	return out
}

// resultToDTO converts a domain triage result to its response form.
func resultToDTO(result *domain.TriageResult) *TriageResultResponse {
	if result == nil {
		return nil
	}
	return &TriageResultResponse{
		Summary:          result.Summary,
		PotentialIssues:  result.PotentialIssues,
		SuggestedActions: result.SuggestedActions,
	}
}
